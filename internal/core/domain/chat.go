package domain

import (
	"errors"
	"time"
)

var ErrChatNotFound = errors.New("chat not found")

// TokenUsage mirrors the usage block reported by the completion API.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens" bson:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" bson:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" bson:"total_tokens"`
}

// ChatRecord is one prompt/response exchange persisted for a user.
type ChatRecord struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Prompt    string     `json:"prompt" bson:"prompt"`
	Response  string     `json:"response" bson:"response"`
	Model     string     `json:"model" bson:"model"`
	Usage     TokenUsage `json:"usage" bson:"usage"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}
