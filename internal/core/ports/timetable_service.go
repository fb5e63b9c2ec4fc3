package ports

import (
	"context"
	"time"

	"github.com/studykit/planner-api/internal/core/domain"
)

// EntryInput carries the writable fields of a timetable entry.
type EntryInput struct {
	Subject   string
	Location  string
	StartTime time.Time
	EndTime   time.Time
	Note      string
}

// TimetableService defines timetable use cases, all scoped to the acting user.
type TimetableService interface {
	CreateEntry(ctx context.Context, userID string, input EntryInput) (*domain.TimetableEntry, error)
	ListEntries(ctx context.Context, userID string, from, to time.Time) ([]*domain.TimetableEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID string, input EntryInput) (*domain.TimetableEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
}
