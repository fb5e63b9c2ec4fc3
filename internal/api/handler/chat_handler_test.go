package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studykit/planner-api/internal/api/middleware"
	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

type stubChatService struct {
	result       *ports.CompletionResult
	completeErr  error
	streamChunks []ports.StreamChunk
	streamErr    error
	listResult   *ports.ListChatsResult
	lastPage     int
	lastLimit    int
	deleted      int64
}

func (s *stubChatService) Complete(_ context.Context, userID, prompt string) (*ports.CompletionResult, error) {
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	return s.result, nil
}

func (s *stubChatService) StreamComplete(_ context.Context, userID, prompt string) (<-chan ports.StreamChunk, <-chan error) {
	out := make(chan ports.StreamChunk)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		for _, chunk := range s.streamChunks {
			out <- chunk
		}
		errs <- s.streamErr
	}()
	return out, errs
}

func (s *stubChatService) ListHistory(_ context.Context, userID string, page, limit int) (*ports.ListChatsResult, error) {
	s.lastPage, s.lastLimit = page, limit
	return s.listResult, nil
}

func (s *stubChatService) GetChat(_ context.Context, userID, id string) (*domain.ChatRecord, error) {
	return nil, domain.ErrChatNotFound
}

func (s *stubChatService) DeleteChat(_ context.Context, userID, id string) error {
	return domain.ErrChatNotFound
}

func (s *stubChatService) DeleteHistory(_ context.Context, userID string) (int64, error) {
	return s.deleted, nil
}

func newChatContext(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodGet, target, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUserID, "user_1")
	return c, rec
}

func TestChatHandler_Complete(t *testing.T) {
	service := &stubChatService{result: &ports.CompletionResult{
		Response: "42",
		Model:    "gpt-test",
		Usage:    domain.TokenUsage{TotalTokens: 7},
	}}
	h := NewChatHandler(service)

	c, rec := newChatContext("/v1/chat", `{"prompt":"meaning of life?"}`)
	if err := h.Complete(c); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Response != "42" || resp.Model != "gpt-test" || resp.Cached {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestChatHandler_Complete_EmptyPrompt(t *testing.T) {
	h := NewChatHandler(&stubChatService{})

	c, _ := newChatContext("/v1/chat", `{"prompt":""}`)
	err := h.Complete(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty prompt, got %v", err)
	}
}

func TestChatHandler_Complete_UpstreamError(t *testing.T) {
	upstreamErr := errors.New("model unavailable")
	h := NewChatHandler(&stubChatService{completeErr: upstreamErr})

	c, _ := newChatContext("/v1/chat", `{"prompt":"hi"}`)
	if err := h.Complete(c); err != upstreamErr {
		t.Fatalf("expected upstream error to propagate, got %v", err)
	}
}

func TestChatHandler_Stream(t *testing.T) {
	service := &stubChatService{streamChunks: []ports.StreamChunk{
		{Content: "Go "},
		{Content: ""},
		{Content: "rocks"},
	}}
	h := NewChatHandler(service)

	c, rec := newChatContext("/v1/chat/stream", `{"prompt":"opinion?"}`)
	if err := h.Stream(c); err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	if got := rec.Header().Get(echo.HeaderContentType); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `data: {"content":"Go "}`) || !strings.Contains(body, `data: {"content":"rocks"}`) {
		t.Fatalf("deltas missing from stream: %s", body)
	}
	if !strings.HasSuffix(strings.TrimSpace(body), "data: [DONE]") {
		t.Fatalf("stream must end with [DONE]: %s", body)
	}
	// Empty deltas produce no frame.
	if strings.Contains(body, `{"content":""}`) {
		t.Fatalf("empty delta leaked into stream: %s", body)
	}
}

func TestChatHandler_Stream_UpstreamError(t *testing.T) {
	service := &stubChatService{
		streamChunks: []ports.StreamChunk{{Content: "partial"}},
		streamErr:    errors.New("stream cut"),
	}
	h := NewChatHandler(service)

	c, rec := newChatContext("/v1/chat/stream", `{"prompt":"hi"}`)
	if err := h.Stream(c); err != nil {
		t.Fatalf("stream handler must not fail after headers are sent: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"error":"stream interrupted"`) {
		t.Fatalf("expected in-band error frame, got %s", body)
	}
	if strings.Contains(body, "[DONE]") {
		t.Fatalf("failed stream must not terminate with [DONE]: %s", body)
	}
}

func TestChatHandler_History(t *testing.T) {
	service := &stubChatService{listResult: &ports.ListChatsResult{
		Items: []*domain.ChatRecord{
			{ID: "c1", UserID: "user_1", Prompt: "p", Response: "r", CreatedAt: time.Now()},
		},
		Total:      21,
		Page:       2,
		Limit:      10,
		TotalPages: 3,
	}}
	h := NewChatHandler(service)

	c, rec := newChatContext("/v1/chat/history?page=2&limit=10", "")
	if err := h.History(c); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if service.lastPage != 2 || service.lastLimit != 10 {
		t.Fatalf("pagination not forwarded: page=%d limit=%d", service.lastPage, service.lastLimit)
	}

	var resp chatHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.History) != 1 || resp.Pagination.TotalPages != 3 || resp.Pagination.TotalItems != 21 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestChatHandler_DeleteAll(t *testing.T) {
	h := NewChatHandler(&stubChatService{deleted: 5})

	c, rec := newChatContext("/v1/chat/history", "")
	if err := h.DeleteAll(c); err != nil {
		t.Fatalf("delete all failed: %v", err)
	}

	var resp deleteHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.DeletedCount != 5 {
		t.Fatalf("expected deleted count 5, got %d", resp.DeletedCount)
	}
}

func TestChatHandler_Get_NotFound(t *testing.T) {
	h := NewChatHandler(&stubChatService{})

	c, _ := newChatContext("/v1/chat/history/c9", "")
	c.SetParamNames("id")
	c.SetParamValues("c9")

	if err := h.Get(c); err != domain.ErrChatNotFound {
		t.Fatalf("expected ErrChatNotFound to propagate, got %v", err)
	}
}
