package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"voiceform/internal/cache"
	"voiceform/internal/config"
	"voiceform/internal/llm"
	"voiceform/internal/model"
)

// Summarizer asks the chat model for a short label, key and summary per
// interview question. It is pure enrichment: any failure degrades to an
// empty map and the field builder falls back to heuristic labels.
type Summarizer struct {
	cfg    *config.AIConfig
	client *llm.Client
	cache  cache.SummaryCache
	logger *zap.Logger
}

// NewSummarizer creates an intent summarizer
func NewSummarizer(cfg *config.AIConfig, client *llm.Client, summaryCache cache.SummaryCache, logger *zap.Logger) *Summarizer {
	return &Summarizer{
		cfg:    cfg,
		client: client,
		cache:  summaryCache,
		logger: logger,
	}
}

// Summarize returns question summaries keyed by question ID. Empty input or
// missing credentials short-circuit to an empty map without a network call.
// Cached summaries are reused until the form's freshness token changes.
func (s *Summarizer) Summarize(ctx context.Context, form *model.InterviewForm) map[string]model.QuestionSummary {
	if form == nil || len(form.Questions) == 0 || !s.cfg.IsEnabled() {
		return map[string]model.QuestionSummary{}
	}

	token := form.FreshnessToken()
	if cached, ok, err := s.cache.Get(ctx, form.ID, token); err == nil && ok {
		return cached
	} else if err != nil {
		s.logger.Warn("summary cache read failed", zap.String("form", form.ID), zap.Error(err))
	}

	summaries, err := s.callModel(ctx, form)
	if err != nil {
		s.logger.Warn("intent summarization degraded to heuristics",
			zap.String("form", form.ID), zap.Error(err))
		return map[string]model.QuestionSummary{}
	}

	if err := s.cache.Set(ctx, form.ID, token, summaries); err != nil {
		s.logger.Warn("summary cache write failed", zap.String("form", form.ID), zap.Error(err))
	}
	return summaries
}

func (s *Summarizer) callModel(ctx context.Context, form *model.InterviewForm) (map[string]model.QuestionSummary, error) {
	type item struct {
		ID       string `json:"id"`
		Question string `json:"question"`
		Sequence int    `json:"sequence"`
	}
	items := make([]item, 0, len(form.Questions))
	for _, q := range form.Questions {
		items = append(items, item{ID: q.ID, Question: q.Text, Sequence: q.SequenceNumber})
	}
	payload, err := json.Marshal(map[string]interface{}{"questions": items})
	if err != nil {
		return nil, err
	}

	content, err := s.client.Complete(ctx, llm.ChatRequest{
		Model:       s.cfg.Models.Summarizer,
		Temperature: 0.2,
		Messages: []map[string]string{
			{"role": "system", "content": summarizerPrompt},
			{"role": "user", "content": string(payload)},
		},
		ResponseFormat: map[string]interface{}{
			"type":        "json_schema",
			"json_schema": summarizerSchema(),
		},
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Items []struct {
			ID      string `json:"id"`
			Label   string `json:"label"`
			Key     string `json:"key"`
			Summary string `json:"summary"`
			Topic   string `json:"topic"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFences(content)), &parsed); err != nil {
		return nil, err
	}

	summaries := make(map[string]model.QuestionSummary, len(parsed.Items))
	for _, it := range parsed.Items {
		summaries[it.ID] = model.QuestionSummary{
			Label:   it.Label,
			Key:     it.Key,
			Summary: it.Summary,
			Topic:   it.Topic,
		}
	}
	return summaries, nil
}

const summarizerPrompt = "For each interview question, produce a short field label " +
	"(under 40 characters, title case, not a restatement of the question), a snake_case key, " +
	"and a one-sentence summary of what the question is trying to learn. " +
	"Return JSON matching the provided schema; echo each question's id unchanged."

func summarizerSchema() map[string]interface{} {
	return map[string]interface{}{
		"name": "QuestionIntents",
		"schema": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"items": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type":                 "object",
						"additionalProperties": false,
						"properties": map[string]interface{}{
							"id":      map[string]interface{}{"type": "string"},
							"label":   map[string]interface{}{"type": "string"},
							"key":     map[string]interface{}{"type": "string"},
							"summary": map[string]interface{}{"type": "string"},
							"topic":   map[string]interface{}{"type": "string"},
						},
						"required": []string{"id", "label", "key", "summary"},
					},
				},
			},
			"required": []string{"items"},
		},
		"strict": true,
	}
}
