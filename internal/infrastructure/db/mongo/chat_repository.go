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

const chatCollection = "chat_history"

type ChatRepository struct {
	coll *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{coll: db.Collection(chatCollection)}
}

type mongoChat struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Prompt    string             `bson:"prompt"`
	Response  string             `bson:"response"`
	Model     string             `bson:"model"`
	Usage     domain.TokenUsage  `bson:"usage"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m mongoChat) toDomain() *domain.ChatRecord {
	return &domain.ChatRecord{
		ID:        m.ID.Hex(),
		UserID:    m.UserID,
		Prompt:    m.Prompt,
		Response:  m.Response,
		Model:     m.Model,
		Usage:     m.Usage,
		CreatedAt: m.CreatedAt,
	}
}

func (r *ChatRepository) Insert(ctx context.Context, record *domain.ChatRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoChat{
		UserID:    record.UserID,
		Prompt:    record.Prompt,
		Response:  record.Response,
		Model:     record.Model,
		Usage:     record.Usage,
		CreatedAt: record.CreatedAt,
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *ChatRepository) List(ctx context.Context, filter ports.ListChatsFilter) ([]*domain.ChatRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"user_id": filter.UserID}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Page-1) * int64(filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	records := make([]*domain.ChatRecord, 0, filter.Limit)
	for cur.Next(ctx) {
		var mc mongoChat
		if err := cur.Decode(&mc); err != nil {
			return nil, 0, err
		}
		records = append(records, mc.toDomain())
	}
	return records, total, cur.Err()
}

func (r *ChatRepository) FindByID(ctx context.Context, id, userID string) (*domain.ChatRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrChatNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoChat
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	return mc.toDomain(), nil
}

func (r *ChatRepository) Delete(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrChatNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

func (r *ChatRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the history listing index.
func (r *ChatRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
