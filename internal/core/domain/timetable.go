package domain

import (
	"errors"
	"time"
)

// EntryWindow bounds how far from "now" a new entry may start.
const EntryWindow = 7 * 24 * time.Hour

var (
	ErrEntryNotFound    = errors.New("timetable entry not found")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrOutsideWindow    = errors.New("start time must be within 7 days of today")
)

// TimetableEntry is a single scheduled item owned by a user.
type TimetableEntry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Subject   string    `json:"subject" bson:"subject"`
	Location  string    `json:"location" bson:"location"`
	StartTime time.Time `json:"start_time" bson:"start_time"`
	EndTime   time.Time `json:"end_time" bson:"end_time"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Validate checks the invariants shared by create and update.
func (e *TimetableEntry) Validate() error {
	if !e.EndTime.After(e.StartTime) {
		return ErrInvalidTimeRange
	}
	return nil
}
