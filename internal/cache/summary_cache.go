package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"voiceform/internal/model"
)

// SummaryCache stores per-form intent summaries keyed by a freshness token.
// A stored entry whose token differs from the requested one is a miss, so a
// form edit invalidates its summaries without explicit deletes.
type SummaryCache interface {
	Get(ctx context.Context, formID, token string) (map[string]model.QuestionSummary, bool, error)
	Set(ctx context.Context, formID, token string, summaries map[string]model.QuestionSummary) error
}

type summaryEntry struct {
	Token     string                           `json:"token"`
	Summaries map[string]model.QuestionSummary `json:"summaries"`
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache creates a redis-backed summary cache
func NewSummaryCache(client *redis.Client) SummaryCache {
	return &redisSummaryCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *redisSummaryCache) Get(ctx context.Context, formID, token string) (map[string]model.QuestionSummary, bool, error) {
	data, err := c.client.Get(ctx, "intent:"+formID).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry summaryEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, false, err
	}
	if entry.Token != token {
		return nil, false, nil
	}
	return entry.Summaries, true, nil
}

func (c *redisSummaryCache) Set(ctx context.Context, formID, token string, summaries map[string]model.QuestionSummary) error {
	data, err := json.Marshal(summaryEntry{Token: token, Summaries: summaries})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "intent:"+formID, data, c.ttl).Err()
}
