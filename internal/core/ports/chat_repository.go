package ports

import (
	"context"

	"github.com/studykit/planner-api/internal/core/domain"
)

// ListChatsFilter pages through a user's chat history, newest first.
type ListChatsFilter struct {
	UserID string
	Page   int // 1-based
	Limit  int
}

// ChatRepository defines persistence for chat history records.
type ChatRepository interface {
	Insert(ctx context.Context, record *domain.ChatRecord) error
	// List returns a page of records and the total count for the user.
	List(ctx context.Context, filter ListChatsFilter) ([]*domain.ChatRecord, int64, error)
	FindByID(ctx context.Context, id, userID string) (*domain.ChatRecord, error)
	Delete(ctx context.Context, id, userID string) error
	// DeleteAll removes every record for the user and reports how many.
	DeleteAll(ctx context.Context, userID string) (int64, error)
}
