// Package openai is a minimal client for the OpenAI chat-completions API,
// covering the blocking and streaming variants used by the chat service.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds the settings for a Client.
type Config struct {
	APIKey      string
	BaseURL     string // defaults to the public OpenAI endpoint
	Model       string
	MaxTokens   int
	Temperature float64
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream,omitempty"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type streamChunk struct {
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Complete sends a single-turn prompt and waits for the full response.
func (c *Client) Complete(ctx context.Context, prompt string) (*ports.CompletionResult, error) {
	resp, err := c.post(ctx, completionRequest{
		Model:       c.cfg.Model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("openai decode: %w", err)
	}

	text := ""
	if len(cr.Choices) > 0 {
		text = cr.Choices[0].Message.Content
	}

	return &ports.CompletionResult{
		Response: text,
		Model:    cr.Model,
		Usage: domain.TokenUsage{
			PromptTokens:     cr.Usage.PromptTokens,
			CompletionTokens: cr.Usage.CompletionTokens,
			TotalTokens:      cr.Usage.TotalTokens,
		},
	}, nil
}

// StreamComplete sends the prompt with stream=true and relays the SSE deltas.
// The chunk channel is closed when the stream ends; the error channel then
// carries nil or the terminal error.
func (c *Client) StreamComplete(ctx context.Context, prompt string) (<-chan ports.StreamChunk, <-chan error) {
	out := make(chan ports.StreamChunk)
	errs := make(chan error, 1)

	go func() {
		defer close(out)

		resp, err := c.post(ctx, completionRequest{
			Model:       c.cfg.Model,
			Messages:    []message{{Role: "user", Content: prompt}},
			Temperature: c.cfg.Temperature,
			MaxTokens:   c.cfg.MaxTokens,
			Stream:      true,
		})
		if err != nil {
			errs <- err
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "[DONE]" {
				break
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				continue
			}

			content := ""
			if len(chunk.Choices) > 0 {
				content = chunk.Choices[0].Delta.Content
			}
			if content == "" && chunk.Model == "" {
				continue
			}

			select {
			case out <- ports.StreamChunk{Content: content, Model: chunk.Model}:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}

		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("openai stream: %w", err)
			return
		}
		errs <- nil
	}()

	return out, errs
}

func (c *Client) post(ctx context.Context, body completionRequest) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("openai: status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return resp, nil
}
