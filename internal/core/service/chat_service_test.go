package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

type stubCompletionClient struct {
	response     string
	err          error
	streamChunks []ports.StreamChunk
	streamErr    error
	calls        int
}

func (c *stubCompletionClient) Complete(_ context.Context, prompt string) (*ports.CompletionResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &ports.CompletionResult{
		Response: c.response,
		Model:    "test-model",
		Usage:    domain.TokenUsage{PromptTokens: 3, CompletionTokens: 5, TotalTokens: 8},
	}, nil
}

func (c *stubCompletionClient) StreamComplete(_ context.Context, prompt string) (<-chan ports.StreamChunk, <-chan error) {
	out := make(chan ports.StreamChunk)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		for _, chunk := range c.streamChunks {
			out <- chunk
		}
		errs <- c.streamErr
	}()
	return out, errs
}

type stubChatRepo struct {
	records    []*domain.ChatRecord
	lastFilter ports.ListChatsFilter
	total      int64
}

func (r *stubChatRepo) Insert(_ context.Context, record *domain.ChatRecord) error {
	r.records = append(r.records, record)
	return nil
}

func (r *stubChatRepo) List(_ context.Context, filter ports.ListChatsFilter) ([]*domain.ChatRecord, int64, error) {
	r.lastFilter = filter
	return r.records, r.total, nil
}

func (r *stubChatRepo) FindByID(_ context.Context, id, userID string) (*domain.ChatRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			return rec, nil
		}
	}
	return nil, domain.ErrChatNotFound
}

func (r *stubChatRepo) Delete(_ context.Context, id, userID string) error {
	for i, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrChatNotFound
}

func (r *stubChatRepo) DeleteAll(_ context.Context, userID string) (int64, error) {
	var kept []*domain.ChatRecord
	var removed int64
	for _, rec := range r.records {
		if rec.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return removed, nil
}

type stubCompletionCache struct {
	entries map[string]*ports.CompletionResult
	puts    int
}

func newStubCompletionCache() *stubCompletionCache {
	return &stubCompletionCache{entries: make(map[string]*ports.CompletionResult)}
}

func (c *stubCompletionCache) Get(_ context.Context, userID, prompt string) (*ports.CompletionResult, bool) {
	result, ok := c.entries[userID+"/"+prompt]
	if !ok {
		return nil, false
	}
	copy := *result
	return &copy, true
}

func (c *stubCompletionCache) Put(_ context.Context, userID, prompt string, result *ports.CompletionResult) {
	c.puts++
	c.entries[userID+"/"+prompt] = result
}

// syncHistory records enqueued exchanges inline so tests can assert on them
// without waiting on a worker.
type syncHistory struct {
	records []*domain.ChatRecord
}

func (h *syncHistory) Enqueue(record *domain.ChatRecord) {
	h.records = append(h.records, record)
}

func TestChatService_Complete(t *testing.T) {
	client := &stubCompletionClient{response: "the answer"}
	cache := newStubCompletionCache()
	history := &syncHistory{}
	svc := NewChatService(client, &stubChatRepo{}, cache, history, zerolog.Nop())

	result, err := svc.Complete(context.Background(), "user_1", "  what is Go?  ")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if result.Response != "the answer" || result.Cached {
		t.Fatalf("unexpected result: %+v", result)
	}
	if cache.puts != 1 {
		t.Fatalf("expected result to be cached, puts=%d", cache.puts)
	}
	if len(history.records) != 1 {
		t.Fatalf("expected one history record, got %d", len(history.records))
	}
	if history.records[0].Prompt != "what is Go?" {
		t.Fatalf("expected trimmed prompt in history, got %q", history.records[0].Prompt)
	}
	if history.records[0].Usage.TotalTokens != 8 {
		t.Fatalf("usage not recorded: %+v", history.records[0].Usage)
	}
}

func TestChatService_Complete_CacheHit(t *testing.T) {
	client := &stubCompletionClient{response: "fresh"}
	cache := newStubCompletionCache()
	history := &syncHistory{}
	svc := NewChatService(client, &stubChatRepo{}, cache, history, zerolog.Nop())

	if _, err := svc.Complete(context.Background(), "user_1", "repeat me"); err != nil {
		t.Fatalf("first complete failed: %v", err)
	}

	result, err := svc.Complete(context.Background(), "user_1", "repeat me")
	if err != nil {
		t.Fatalf("second complete failed: %v", err)
	}
	if !result.Cached {
		t.Fatalf("expected cached result")
	}
	if client.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", client.calls)
	}
	// A cache hit is not a new exchange; history holds only the first call.
	if len(history.records) != 1 {
		t.Fatalf("expected one history record, got %d", len(history.records))
	}
}

func TestChatService_Complete_CacheScopedToUser(t *testing.T) {
	client := &stubCompletionClient{response: "ok"}
	cache := newStubCompletionCache()
	svc := NewChatService(client, &stubChatRepo{}, cache, &syncHistory{}, zerolog.Nop())

	if _, err := svc.Complete(context.Background(), "user_1", "same prompt"); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	result, err := svc.Complete(context.Background(), "user_2", "same prompt")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if result.Cached {
		t.Fatalf("cache must not leak across users")
	}
	if client.calls != 2 {
		t.Fatalf("expected two upstream calls, got %d", client.calls)
	}
}

func TestChatService_Complete_ClientError(t *testing.T) {
	upstreamErr := errors.New("model unavailable")
	client := &stubCompletionClient{err: upstreamErr}
	history := &syncHistory{}
	svc := NewChatService(client, &stubChatRepo{}, nil, history, zerolog.Nop())

	if _, err := svc.Complete(context.Background(), "user_1", "hi"); err != upstreamErr {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(history.records) != 0 {
		t.Fatalf("failed completion must not be recorded")
	}
}

func TestChatService_Complete_NilCache(t *testing.T) {
	client := &stubCompletionClient{response: "ok"}
	svc := NewChatService(client, &stubChatRepo{}, nil, &syncHistory{}, zerolog.Nop())

	if _, err := svc.Complete(context.Background(), "user_1", "hi"); err != nil {
		t.Fatalf("complete failed without cache: %v", err)
	}
}

func TestChatService_StreamComplete(t *testing.T) {
	client := &stubCompletionClient{
		streamChunks: []ports.StreamChunk{
			{Content: "Go is ", Model: "test-model"},
			{Content: "a language."},
		},
	}
	history := &syncHistory{}
	svc := NewChatService(client, &stubChatRepo{}, nil, history, zerolog.Nop())

	out, errs := svc.StreamComplete(context.Background(), "user_1", "what is Go?")

	var full string
	for chunk := range out {
		full += chunk.Content
	}
	if err := <-errs; err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	if full != "Go is a language." {
		t.Fatalf("unexpected streamed content: %q", full)
	}
	if len(history.records) != 1 {
		t.Fatalf("expected one history record, got %d", len(history.records))
	}
	record := history.records[0]
	if record.Response != "Go is a language." || record.Model != "test-model" {
		t.Fatalf("unexpected history record: %+v", record)
	}
}

func TestChatService_StreamComplete_UpstreamError(t *testing.T) {
	upstreamErr := errors.New("stream cut")
	client := &stubCompletionClient{
		streamChunks: []ports.StreamChunk{{Content: "partial"}},
		streamErr:    upstreamErr,
	}
	history := &syncHistory{}
	svc := NewChatService(client, &stubChatRepo{}, nil, history, zerolog.Nop())

	out, errs := svc.StreamComplete(context.Background(), "user_1", "hi")
	for range out {
	}
	if err := <-errs; err != upstreamErr {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(history.records) != 0 {
		t.Fatalf("failed stream must not be recorded")
	}
}

func TestChatService_ListHistory_Paging(t *testing.T) {
	repo := &stubChatRepo{total: 45}
	svc := NewChatService(&stubCompletionClient{}, repo, nil, nil, zerolog.Nop())

	result, err := svc.ListHistory(context.Background(), "user_1", 0, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Page != 1 || result.Limit != defaultHistoryLimit {
		t.Fatalf("expected defaults, got page=%d limit=%d", result.Page, result.Limit)
	}
	if result.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 45 records, got %d", result.TotalPages)
	}

	result, err = svc.ListHistory(context.Background(), "user_1", 2, 1000)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Limit != maxHistoryLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxHistoryLimit, result.Limit)
	}
	if repo.lastFilter.Page != 2 || repo.lastFilter.UserID != "user_1" {
		t.Fatalf("filter not forwarded: %+v", repo.lastFilter)
	}
}

func TestChatService_DeleteHistory(t *testing.T) {
	repo := &stubChatRepo{records: []*domain.ChatRecord{
		{ID: "c1", UserID: "user_1"},
		{ID: "c2", UserID: "user_1"},
		{ID: "c3", UserID: "user_2"},
	}}
	svc := NewChatService(&stubCompletionClient{}, repo, nil, nil, zerolog.Nop())

	removed, err := svc.DeleteHistory(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, err := svc.GetChat(context.Background(), "user_2", "c3"); err != nil {
		t.Fatalf("other user's record must survive: %v", err)
	}
}
