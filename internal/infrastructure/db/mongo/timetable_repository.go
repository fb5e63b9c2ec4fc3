package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

const timetableCollection = "timetable_entries"

// entryTTL removes documents 7 days after their end_time via a TTL index.
const entryTTL = 7 * 24 * time.Hour

type TimetableRepository struct {
	coll *mongo.Collection
}

func NewTimetableRepository(db *mongo.Database) *TimetableRepository {
	return &TimetableRepository{coll: db.Collection(timetableCollection)}
}

type mongoEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Subject   string             `bson:"subject"`
	Location  string             `bson:"location"`
	StartTime time.Time          `bson:"start_time"`
	EndTime   time.Time          `bson:"end_time"`
	Note      string             `bson:"note,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m mongoEntry) toDomain() *domain.TimetableEntry {
	return &domain.TimetableEntry{
		ID:        m.ID.Hex(),
		UserID:    m.UserID,
		Subject:   m.Subject,
		Location:  m.Location,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *TimetableRepository) Create(ctx context.Context, entry *domain.TimetableEntry) (*domain.TimetableEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEntry{
		UserID:    entry.UserID,
		Subject:   entry.Subject,
		Location:  entry.Location,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	created := *entry
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TimetableRepository) List(ctx context.Context, filter ports.ListEntriesFilter) ([]*domain.TimetableEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"user_id": filter.UserID}
	if !filter.From.IsZero() && !filter.To.IsZero() {
		query["start_time"] = bson.M{"$gte": filter.From, "$lte": filter.To}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := make([]*domain.TimetableEntry, 0)
	for cur.Next(ctx) {
		var me mongoEntry
		if err := cur.Decode(&me); err != nil {
			return nil, err
		}
		entries = append(entries, me.toDomain())
	}
	return entries, cur.Err()
}

func (r *TimetableRepository) Update(ctx context.Context, entry *domain.TimetableEntry) (*domain.TimetableEntry, error) {
	oid, err := primitive.ObjectIDFromHex(entry.ID)
	if err != nil {
		return nil, domain.ErrEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"subject":    entry.Subject,
		"location":   entry.Location,
		"start_time": entry.StartTime,
		"end_time":   entry.EndTime,
		"note":       entry.Note,
		"updated_at": entry.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var me mongoEntry
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "user_id": entry.UserID}, update, opts).Decode(&me)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return me.toDomain(), nil
}

func (r *TimetableRepository) Delete(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// EnsureIndexes creates the query index and the TTL index that expires
// entries a week after they end.
func (r *TimetableRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_time", Value: 1}, {Key: "end_time", Value: 1}}},
		{
			Keys:    bson.D{{Key: "end_time", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(entryTTL.Seconds())),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
