package ports

import (
	"context"

	"github.com/studykit/planner-api/internal/core/domain"
)

// CompletionResult is the outcome of a single model call.
type CompletionResult struct {
	Response string
	Model    string
	Usage    domain.TokenUsage
	// Cached is true when the response was served from the completion cache
	// without calling the model.
	Cached bool
}

// StreamChunk is one delta of a streamed completion.
type StreamChunk struct {
	Content string
	Model   string
	Done    bool
}

// CompletionClient is the boundary to the generative-AI provider.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (*CompletionResult, error)
	// StreamComplete emits chunks on the returned channel until the upstream
	// stream ends or ctx is cancelled, then closes it. A terminal error is
	// delivered on the error channel.
	StreamComplete(ctx context.Context, prompt string) (<-chan StreamChunk, <-chan error)
}

// ListChatsResult is one page of chat history.
type ListChatsResult struct {
	Items      []*domain.ChatRecord
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ChatService defines the chat use cases.
type ChatService interface {
	Complete(ctx context.Context, userID, prompt string) (*CompletionResult, error)
	StreamComplete(ctx context.Context, userID, prompt string) (<-chan StreamChunk, <-chan error)
	ListHistory(ctx context.Context, userID string, page, limit int) (*ListChatsResult, error)
	GetChat(ctx context.Context, userID, id string) (*domain.ChatRecord, error)
	DeleteChat(ctx context.Context, userID, id string) error
	DeleteHistory(ctx context.Context, userID string) (int64, error)
}
