package handler

import "time"

// --- Request / Response types ---

type entryRequest struct {
	Subject   string    `json:"subject"    validate:"required"`
	Location  string    `json:"location"   validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time"   validate:"required,gtfield=StartTime"`
	Note      string    `json:"note"`
}

type entryResponse struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Location  string    `json:"location"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type entryEnvelope struct {
	Message string        `json:"message"`
	Data    entryResponse `json:"data"`
}

type listEntriesResponse struct {
	Data []entryResponse `json:"data"`
}
