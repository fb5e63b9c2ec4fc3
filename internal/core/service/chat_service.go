package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// CompletionCache abstracts the Redis-backed completion cache.
// Implementations must treat failures as misses.
type CompletionCache interface {
	Get(ctx context.Context, userID, prompt string) (*ports.CompletionResult, bool)
	Put(ctx context.Context, userID, prompt string, result *ports.CompletionResult)
}

// HistoryWriter accepts chat records for asynchronous persistence.
type HistoryWriter interface {
	Enqueue(record *domain.ChatRecord)
}

// ChatService wraps the completion client with caching and asynchronous
// best-effort history persistence.
type ChatService struct {
	client  ports.CompletionClient
	repo    ports.ChatRepository
	cache   CompletionCache // optional
	history HistoryWriter
	logger  zerolog.Logger
}

func NewChatService(client ports.CompletionClient, repo ports.ChatRepository, cache CompletionCache, history HistoryWriter, logger zerolog.Logger) *ChatService {
	return &ChatService{client: client, repo: repo, cache: cache, history: history, logger: logger}
}

func (s *ChatService) Complete(ctx context.Context, userID, prompt string) (*ports.CompletionResult, error) {
	prompt = strings.TrimSpace(prompt)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID, prompt); ok {
			cached.Cached = true
			return cached, nil
		}
	}

	result, err := s.client.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("completion failed")
		return nil, err
	}

	if s.cache != nil {
		s.cache.Put(ctx, userID, prompt, result)
	}

	s.recordHistory(userID, prompt, result.Response, result.Model, result.Usage)
	return result, nil
}

func (s *ChatService) StreamComplete(ctx context.Context, userID, prompt string) (<-chan ports.StreamChunk, <-chan error) {
	prompt = strings.TrimSpace(prompt)

	upstream, upstreamErrs := s.client.StreamComplete(ctx, prompt)

	out := make(chan ports.StreamChunk)
	errs := make(chan error, 1)

	// Relay the stream while accumulating the full response so history can be
	// written once the stream finishes.
	go func() {
		defer close(out)

		var full strings.Builder
		model := ""

		for chunk := range upstream {
			if chunk.Model != "" {
				model = chunk.Model
			}
			full.WriteString(chunk.Content)
			select {
			case out <- chunk:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}

		if err := <-upstreamErrs; err != nil {
			errs <- err
			return
		}

		s.recordHistory(userID, prompt, full.String(), model, domain.TokenUsage{})
		errs <- nil
	}()

	return out, errs
}

// recordHistory enqueues the exchange for asynchronous persistence. A full
// queue or a failed write never surfaces to the chat response.
func (s *ChatService) recordHistory(userID, prompt, response, model string, usage domain.TokenUsage) {
	if s.history == nil {
		return
	}
	s.history.Enqueue(&domain.ChatRecord{
		UserID:    userID,
		Prompt:    prompt,
		Response:  response,
		Model:     model,
		Usage:     usage,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *ChatService) ListHistory(ctx context.Context, userID string, page, limit int) (*ports.ListChatsResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	items, total, err := s.repo.List(ctx, ports.ListChatsFilter{UserID: userID, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListChatsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *ChatService) GetChat(ctx context.Context, userID, id string) (*domain.ChatRecord, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *ChatService) DeleteChat(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *ChatService) DeleteHistory(ctx context.Context, userID string) (int64, error) {
	return s.repo.DeleteAll(ctx, userID)
}
