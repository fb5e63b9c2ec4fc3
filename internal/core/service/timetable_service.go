package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

// TimetableService implements per-user timetable CRUD.
type TimetableService struct {
	repo   ports.TimetableRepository
	logger zerolog.Logger
}

func NewTimetableService(repo ports.TimetableRepository, logger zerolog.Logger) *TimetableService {
	return &TimetableService{repo: repo, logger: logger}
}

func (s *TimetableService) CreateEntry(ctx context.Context, userID string, input ports.EntryInput) (*domain.TimetableEntry, error) {
	now := time.Now().UTC()
	entry := &domain.TimetableEntry{
		UserID:    userID,
		Subject:   input.Subject,
		Location:  input.Location,
		StartTime: input.StartTime.UTC(),
		EndTime:   input.EndTime.UTC(),
		Note:      input.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	// New entries may only start within a week of today, past or future.
	if entry.StartTime.Before(now.Add(-domain.EntryWindow)) || entry.StartTime.After(now.Add(domain.EntryWindow)) {
		return nil, domain.ErrOutsideWindow
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create timetable entry")
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("entry_id", created.ID).Msg("timetable entry created")
	return created, nil
}

func (s *TimetableService) ListEntries(ctx context.Context, userID string, from, to time.Time) ([]*domain.TimetableEntry, error) {
	return s.repo.List(ctx, ports.ListEntriesFilter{UserID: userID, From: from, To: to})
}

func (s *TimetableService) UpdateEntry(ctx context.Context, userID, entryID string, input ports.EntryInput) (*domain.TimetableEntry, error) {
	entry := &domain.TimetableEntry{
		ID:        entryID,
		UserID:    userID,
		Subject:   input.Subject,
		Location:  input.Location,
		StartTime: input.StartTime.UTC(),
		EndTime:   input.EndTime.UTC(),
		Note:      input.Note,
		UpdatedAt: time.Now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, entry)
}

func (s *TimetableService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	return s.repo.Delete(ctx, entryID, userID)
}
