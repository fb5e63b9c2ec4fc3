package handler

import (
	"time"

	"github.com/studykit/planner-api/internal/core/domain"
)

// --- Request / Response types ---

type chatRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type chatResponse struct {
	Response string            `json:"response"`
	Model    string            `json:"model"`
	Usage    domain.TokenUsage `json:"usage"`
	Cached   bool              `json:"cached,omitempty"`
}

type chatRecordResponse struct {
	ID        string            `json:"id"`
	Prompt    string            `json:"prompt"`
	Response  string            `json:"response"`
	Model     string            `json:"model"`
	Usage     domain.TokenUsage `json:"usage"`
	CreatedAt time.Time         `json:"created_at"`
}

type paginationResponse struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

type chatHistoryResponse struct {
	History    []chatRecordResponse `json:"history"`
	Pagination paginationResponse   `json:"pagination"`
}

type deleteHistoryResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

// streamEvent is the payload of each SSE data frame.
type streamEvent struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}
