package ports

import (
	"context"
	"time"

	"github.com/studykit/planner-api/internal/core/domain"
)

// ListEntriesFilter scopes a timetable query. UserID is always set by the
// service layer; the time range is optional and inclusive.
type ListEntriesFilter struct {
	UserID string
	From   time.Time
	To     time.Time
}

// TimetableRepository defines persistence for timetable entries. Update and
// Delete are scoped by both entry id and owner id so a user can never touch
// another user's entries.
type TimetableRepository interface {
	Create(ctx context.Context, entry *domain.TimetableEntry) (*domain.TimetableEntry, error)
	List(ctx context.Context, filter ListEntriesFilter) ([]*domain.TimetableEntry, error)
	Update(ctx context.Context, entry *domain.TimetableEntry) (*domain.TimetableEntry, error)
	Delete(ctx context.Context, id, userID string) error
}
