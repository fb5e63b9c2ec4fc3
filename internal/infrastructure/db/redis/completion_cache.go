package redis

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/studykit/planner-api/internal/core/ports"
)

const cacheTTL = time.Hour

// CompletionCache memoises completion results per user and prompt so that an
// identical prompt repeated within cacheTTL skips the upstream model call.
// Key format: completion:<user_id>:<sha256(prompt)>
type CompletionCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewCompletionCache creates a CompletionCache wrapping the given Redis client.
func NewCompletionCache(client *redis.Client, log zerolog.Logger) *CompletionCache {
	return &CompletionCache{client: client, log: log}
}

// Get returns a cached result for the prompt. Any Redis or decode failure is
// reported as a miss.
func (c *CompletionCache) Get(ctx context.Context, userID, prompt string) (*ports.CompletionResult, bool) {
	raw, err := c.client.Get(ctx, c.key(userID, prompt)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("completion cache read failed")
		}
		return nil, false
	}

	var result ports.CompletionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Put stores the result with cacheTTL. Failures are logged and swallowed.
func (c *CompletionCache) Put(ctx context.Context, userID, prompt string, result *ports.CompletionResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(userID, prompt), raw, cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("completion cache write failed")
	}
}

func (c *CompletionCache) key(userID, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("completion:%s:%x", userID, sum)
}
