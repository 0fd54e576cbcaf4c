package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voiceform/internal/apperr"
	"voiceform/internal/cache"
	"voiceform/internal/config"
	"voiceform/internal/llm"
	"voiceform/internal/model"
)

// disabledAIConfig has no API key, so every AI call degrades to its fallback
// without touching the network.
func disabledAIConfig() *config.AIConfig {
	return &config.AIConfig{
		Models:           config.AIModels{Analysis: "m", Generator: "m", Summarizer: "m"},
		ChatTimeoutMS:    1000,
		SessionTimeoutMS: 1000,
	}
}

func newConversationFixture() (*ConversationService, *fakeConversationRepo, *fakeAssessmentRepo, *fakeFormRepo) {
	logger := zap.NewNop()
	cfg := disabledAIConfig()
	client := llm.NewClient(cfg, logger)
	convs := newFakeConversationRepo()
	assessments := newFakeAssessmentRepo()
	forms := newFakeFormRepo()
	summarizer := NewSummarizer(cfg, client, cache.NewMemorySummaryCache(), logger)
	extractor := NewExtractor(cfg, client, logger)
	svc := NewConversationService(convs, assessments, forms, summarizer, extractor, logger)
	return svc, convs, assessments, forms
}

func sampleTurns() []model.ConversationTurn {
	return []model.ConversationTurn{
		{Role: "assistant", Content: "What is your name?", Timestamp: time.Now()},
		{Role: "user", Content: "I'm Priya.", Timestamp: time.Now()},
	}
}

func TestSaveConversation(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	conv, err := svc.Save(context.Background(), "sess-1", "form-1", sampleTurns())
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, "sess-1", conv.SessionID)
	assert.Equal(t, "form-1", conv.InterviewID)
	assert.Len(t, conv.Messages, 2)
}

func TestSaveConversationReplacesSameSession(t *testing.T) {
	svc, convs, _, _ := newConversationFixture()

	first, err := svc.Save(context.Background(), "sess-1", "form-1", sampleTurns())
	require.NoError(t, err)

	longer := append(sampleTurns(), model.ConversationTurn{Role: "user", Content: "One more thing."})
	second, err := svc.Save(context.Background(), "sess-1", "", longer)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-post updates, not duplicates")
	stored, err := convs.GetBySessionID(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 3)
	assert.Equal(t, "form-1", stored.InterviewID, "empty interviewId does not clear the link")
}

func TestSaveConversationEmptyTranscript(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	_, err := svc.Save(context.Background(), "sess-1", "", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestAnalyzePopulatesEveryFieldKey(t *testing.T) {
	svc, _, _, forms := newConversationFixture()

	form := &model.InterviewForm{ID: "form-1", Title: "Screen"}
	form.AppendQuestions([]string{"Tell me about your experience with Python?"})
	require.NoError(t, forms.Create(context.Background(), form))

	_, err := svc.Save(context.Background(), "sess-1", "form-1", sampleTurns())
	require.NoError(t, err)

	conv, err := svc.Analyze(context.Background(), "sess-1", nil)
	require.NoError(t, err)

	// AI is disabled, so extraction degrades to empty strings, but every
	// synthesized field key must still be present.
	require.Len(t, conv.ExtractedInfo, 4)
	for _, key := range []string{"name", "qualification", "experience"} {
		_, ok := conv.ExtractedInfo[key]
		assert.True(t, ok, "missing key %q", key)
	}
}

func TestAnalyzeOverridesWin(t *testing.T) {
	svc, convs, _, _ := newConversationFixture()

	_, err := svc.Save(context.Background(), "sess-1", "", sampleTurns())
	require.NoError(t, err)

	conv, err := svc.Analyze(context.Background(), "sess-1", map[string]string{
		"name": "  Priya Sharma  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", conv.ExtractedInfo["name"])

	stored, err := convs.GetBySessionID(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", stored.ExtractedInfo["name"])
	assert.True(t, stored.Analyzed())
}

func TestAnalyzeUnknownSession(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	_, err := svc.Analyze(context.Background(), "missing", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateExtractedTouchesOnlyGivenKeys(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	saved, err := svc.Save(context.Background(), "sess-1", "", sampleTurns())
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), "sess-1", map[string]string{
		"name":          "Priya",
		"qualification": "MSc",
	})
	require.NoError(t, err)

	conv, err := svc.UpdateExtracted(context.Background(), saved.ID, map[string]string{
		"qualification": "PhD",
	})
	require.NoError(t, err)
	assert.Equal(t, "PhD", conv.ExtractedInfo["qualification"])
	assert.Equal(t, "Priya", conv.ExtractedInfo["name"])
}

func TestUpdateExtractedNoValues(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	_, err := svc.UpdateExtracted(context.Background(), "any", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestDeleteConversationCascadesAssessments(t *testing.T) {
	svc, convs, assessments, _ := newConversationFixture()

	saved, err := svc.Save(context.Background(), "sess-1", "", sampleTurns())
	require.NoError(t, err)
	require.NoError(t, assessments.Create(context.Background(),
		&model.TechnicalAssessment{ID: "a1", ConversationID: saved.ID}))
	require.NoError(t, assessments.Create(context.Background(),
		&model.TechnicalAssessment{ID: "a2", ConversationID: saved.ID}))

	deleted, err := svc.Delete(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	gone, err := convs.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	count, err := assessments.CountByConversation(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
