package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"voiceform/internal/config"
	"voiceform/internal/llm"
	"voiceform/internal/model"
	"voiceform/internal/schema"
)

// Extractor pulls structured candidate data out of a voice transcript using
// a schema-constrained chat completion. It never returns an error: on any
// failure every requested key maps to an empty string.
type Extractor struct {
	cfg    *config.AIConfig
	client *llm.Client
	logger *zap.Logger
}

// NewExtractor creates a structured extractor
func NewExtractor(cfg *config.AIConfig, client *llm.Client, logger *zap.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Extract returns a value for every field key. Keys the model omits come
// back as empty strings, and a failed call yields an all-empty map.
func (e *Extractor) Extract(ctx context.Context, turns []model.ConversationTurn, fields []model.VerificationField) map[string]string {
	result := make(map[string]string, len(fields))
	for _, f := range fields {
		result[f.Key] = ""
	}
	if len(fields) == 0 || len(turns) == 0 || !e.cfg.IsEnabled() {
		return result
	}

	content, err := e.client.Complete(ctx, llm.ChatRequest{
		Model:       e.cfg.Models.Analysis,
		Temperature: 0.15,
		Messages:    schema.BuildExtractorMessages(turns, fields),
		ResponseFormat: map[string]interface{}{
			"type":        "json_schema",
			"json_schema": schema.BuildExtractionSchema(fields),
		},
	})
	if err != nil {
		e.logger.Warn("structured extraction failed, returning empty values", zap.Error(err))
		return result
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(llm.StripCodeFences(content)), &parsed); err != nil {
		e.logger.Warn("failed to parse extraction response", zap.Error(err))
		return result
	}

	for _, f := range fields {
		if value, ok := parsed[f.Key]; ok {
			result[f.Key] = value
		}
	}
	return result
}
