package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voiceform/internal/apperr"
	"voiceform/internal/llm"
	"voiceform/internal/model"
)

type assessmentFixture struct {
	svc         *AssessmentService
	assessments *fakeAssessmentRepo
	convs       *fakeConversationRepo
	forms       *fakeFormRepo
	bank        *fakeBankRepo
}

func newAssessmentFixture() *assessmentFixture {
	logger := zap.NewNop()
	cfg := disabledAIConfig()
	client := llm.NewClient(cfg, logger)
	f := &assessmentFixture{
		assessments: newFakeAssessmentRepo(),
		convs:       newFakeConversationRepo(),
		forms:       newFakeFormRepo(),
		bank:        newFakeBankRepo(),
	}
	f.svc = NewAssessmentService(
		f.assessments, f.convs, f.forms, f.bank,
		NewGenerator(cfg, client, logger),
		NewAssessmentExtractor(cfg, client, logger),
		NewShareTokenService("test-secret"),
		"http://localhost:8080/",
		logger,
	)
	return f
}

// seedAnalyzedConversation stores a form plus an analyzed conversation
// pointing at it and returns the conversation ID.
func (f *assessmentFixture) seedAnalyzedConversation(t *testing.T) string {
	t.Helper()
	form := &model.InterviewForm{ID: "form-1", Title: "Backend Developer"}
	form.AppendQuestions([]string{"Tell me about Go?", "What databases have you used?"})
	require.NoError(t, f.forms.Create(context.Background(), form))

	conv := &model.VoiceConversation{
		ID:          "conv-1",
		InterviewID: "form-1",
		ExtractedInfo: map[string]string{
			"name": "Priya", "qualification": "MSc", "experience": "4",
		},
	}
	require.NoError(t, f.convs.Create(context.Background(), conv))
	return conv.ID
}

func TestGenerateAssessmentFallsBackWithoutAI(t *testing.T) {
	f := newAssessmentFixture()
	convID := f.seedAnalyzedConversation(t)

	assessment, err := f.svc.Generate(context.Background(), convID, 0)
	require.NoError(t, err)

	// AI disabled and bank empty: the template tier fills the default count.
	require.Len(t, assessment.Questions, DefaultAssessmentQuestions)
	for i, q := range assessment.Questions {
		assert.Equal(t, i+1, q.SequenceNumber)
		assert.True(t, strings.HasPrefix(q.ID, "aq_"), "unexpected id %q", q.ID)
		assert.NotEmpty(t, q.Text)
	}
	assert.Equal(t, convID, assessment.ConversationID)
	assert.Equal(t, "form-1", assessment.InterviewID)
	assert.False(t, assessment.IsCompleted)
}

func TestGenerateAssessmentPrefersBankQuestions(t *testing.T) {
	f := newAssessmentFixture()
	convID := f.seedAnalyzedConversation(t)
	require.NoError(t, f.bank.Upsert(context.Background(), "Backend Developer",
		[]string{"Bank question one?", "Bank question two?", "Bank question three?"}))

	assessment, err := f.svc.Generate(context.Background(), convID, 3)
	require.NoError(t, err)
	require.Len(t, assessment.Questions, 3)
	assert.Equal(t, "Bank question one?", assessment.Questions[0].Text)
}

func TestGenerateAssessmentRequiresAnalyzedConversation(t *testing.T) {
	f := newAssessmentFixture()
	require.NoError(t, f.convs.Create(context.Background(),
		&model.VoiceConversation{ID: "conv-raw", InterviewID: "form-1"}))

	_, err := f.svc.Generate(context.Background(), "conv-raw", 3)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestGenerateAssessmentRequiresInterviewLink(t *testing.T) {
	f := newAssessmentFixture()
	require.NoError(t, f.convs.Create(context.Background(), &model.VoiceConversation{
		ID:            "conv-orphan",
		ExtractedInfo: map[string]string{"name": "Priya"},
	}))

	_, err := f.svc.Generate(context.Background(), "conv-orphan", 3)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestGenerateAssessmentUnknownConversation(t *testing.T) {
	f := newAssessmentFixture()

	_, err := f.svc.Generate(context.Background(), "missing", 3)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestShareURLRoundTrip(t *testing.T) {
	f := newAssessmentFixture()
	convID := f.seedAnalyzedConversation(t)
	assessment, err := f.svc.Generate(context.Background(), convID, 3)
	require.NoError(t, err)

	url, err := f.svc.ShareURL(assessment.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/assessment/report/"), url)

	token := strings.TrimPrefix(url, "http://localhost:8080/assessment/report/")
	got, err := f.svc.GetByShareToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, assessment.ID, got.ID)
}

func TestSaveTranscript(t *testing.T) {
	f := newAssessmentFixture()
	convID := f.seedAnalyzedConversation(t)
	assessment, err := f.svc.Generate(context.Background(), convID, 3)
	require.NoError(t, err)

	turns := []model.ConversationTurn{
		{Role: "assistant", Content: "Question one?", Timestamp: time.Now()},
		{Role: "user", Content: "Answer one.", Timestamp: time.Now()},
	}
	saved, err := f.svc.SaveTranscript(context.Background(), assessment.ID, turns)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	_, err = f.svc.SaveTranscript(context.Background(), assessment.ID, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestAnalyzeWithQAMappingByPosition(t *testing.T) {
	f := newAssessmentFixture()
	convID := f.seedAnalyzedConversation(t)
	assessment, err := f.svc.Generate(context.Background(), convID, 3)
	require.NoError(t, err)

	result, err := f.svc.Analyze(context.Background(), assessment.ID, map[string]string{
		"q1": "First answer",
		"q3": "  Third answer  ",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 2, result.AnsweredQuestions)

	stored, err := f.svc.Get(context.Background(), assessment.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
	assert.Equal(t, "First answer", stored.Answers[stored.Questions[0].ID])
	assert.Equal(t, model.AnswerNil, stored.Answers[stored.Questions[1].ID])
	assert.Equal(t, "Third answer", stored.Answers[stored.Questions[2].ID])
}

func TestAnalyzeWithQAMappingByQuestionID(t *testing.T) {
	f := newAssessmentFixture()
	convID := f.seedAnalyzedConversation(t)
	assessment, err := f.svc.Generate(context.Background(), convID, 3)
	require.NoError(t, err)

	qID := assessment.Questions[1].ID
	result, err := f.svc.Analyze(context.Background(), assessment.ID, map[string]string{
		qID: "Answer by id",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AnsweredQuestions)
	assert.Equal(t, "Answer by id", result.Answers[qID])
}

func TestAnalyzeStaysCompletedOnRerun(t *testing.T) {
	f := newAssessmentFixture()
	convID := f.seedAnalyzedConversation(t)
	assessment, err := f.svc.Generate(context.Background(), convID, 3)
	require.NoError(t, err)

	_, err = f.svc.Analyze(context.Background(), assessment.ID, map[string]string{"q1": "Answer"})
	require.NoError(t, err)

	// A rerun with nothing answered still leaves the assessment completed.
	result, err := f.svc.Analyze(context.Background(), assessment.ID, map[string]string{"q2": "Second"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AnsweredQuestions)

	stored, err := f.svc.Get(context.Background(), assessment.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
}

func TestDeleteAssessment(t *testing.T) {
	f := newAssessmentFixture()
	convID := f.seedAnalyzedConversation(t)
	first, err := f.svc.Generate(context.Background(), convID, 3)
	require.NoError(t, err)
	second, err := f.svc.Generate(context.Background(), convID, 3)
	require.NoError(t, err)

	gotConvID, remaining, err := f.svc.Delete(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, convID, gotConvID)
	assert.Equal(t, int64(1), remaining)

	_, err = f.svc.Get(context.Background(), second.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(context.Background(), first.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
