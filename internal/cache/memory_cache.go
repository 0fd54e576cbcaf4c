package cache

import (
	"context"
	"sync"

	"voiceform/internal/model"
)

type memorySummaryCache struct {
	mu      sync.RWMutex
	entries map[string]summaryEntry
}

// NewMemorySummaryCache creates an in-process summary cache for deployments
// without redis and for tests.
func NewMemorySummaryCache() SummaryCache {
	return &memorySummaryCache{
		entries: make(map[string]summaryEntry),
	}
}

func (c *memorySummaryCache) Get(_ context.Context, formID, token string) (map[string]model.QuestionSummary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[formID]
	if !ok || entry.Token != token {
		return nil, false, nil
	}
	return entry.Summaries, true, nil
}

func (c *memorySummaryCache) Set(_ context.Context, formID, token string, summaries map[string]model.QuestionSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[formID] = summaryEntry{Token: token, Summaries: summaries}
	return nil
}

// Len reports stored entry count, for tests.
func (c *memorySummaryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
