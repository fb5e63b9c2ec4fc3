package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher persists chat history records on a fixed set of workers, sharded
// by user id so records for one user are written in the order they were
// produced. Persistence is best effort: failures are logged, never returned.
type Dispatcher struct {
	workers []chan *domain.ChatRecord
	repo    ports.ChatRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.ChatRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan *domain.ChatRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.ChatRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a record to the worker responsible for its user. When that
// worker's buffer is full the record is dropped rather than blocking the
// chat response path.
func (d *Dispatcher) Enqueue(record *domain.ChatRecord) {
	select {
	case d.workers[d.shardIndex(record.UserID)] <- record:
	default:
		d.log.Warn().Str("user_id", record.UserID).Msg("history queue full, dropping record")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.ChatRecord) {
	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-ch:
			if !ok {
				return
			}
			if err := d.repo.Insert(ctx, record); err != nil {
				d.log.Error().Err(err).
					Str("user_id", record.UserID).
					Int("worker_id", id).
					Msg("chat history write failed")
			}
		}
	}
}
