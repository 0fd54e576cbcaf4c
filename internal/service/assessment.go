package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voiceform/internal/apperr"
	"voiceform/internal/model"
	"voiceform/internal/repository"
)

// DefaultAssessmentQuestions is the question count used when the caller does
// not ask for a specific number.
const DefaultAssessmentQuestions = 3

// AssessmentService runs the follow-up technical round: question generation
// with its fallback chain, transcript capture, answer extraction, and the
// shareable report.
type AssessmentService struct {
	assessments   repository.AssessmentRepo
	conversations repository.ConversationRepo
	forms         repository.FormRepo
	bank          repository.QuestionBankRepo
	generator     *Generator
	extractor     *AssessmentExtractor
	tokens        *ShareTokenService
	publicBaseURL string
	logger        *zap.Logger
}

// NewAssessmentService creates an assessment service
func NewAssessmentService(
	assessments repository.AssessmentRepo,
	conversations repository.ConversationRepo,
	forms repository.FormRepo,
	bank repository.QuestionBankRepo,
	generator *Generator,
	extractor *AssessmentExtractor,
	tokens *ShareTokenService,
	publicBaseURL string,
	logger *zap.Logger,
) *AssessmentService {
	return &AssessmentService{
		assessments:   assessments,
		conversations: conversations,
		forms:         forms,
		bank:          bank,
		generator:     generator,
		extractor:     extractor,
		tokens:        tokens,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Generate creates an assessment for an analyzed conversation. The question
// set is filled from a chain of providers so an upstream outage degrades the
// question quality, never the flow.
func (s *AssessmentService) Generate(ctx context.Context, conversationID string, target int) (*model.TechnicalAssessment, error) {
	if target <= 0 {
		target = DefaultAssessmentQuestions
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperr.NotFound("Conversation not found")
	}
	if !conv.Analyzed() {
		return nil, apperr.BadRequest("No candidate data available. Analyze the voice interview first.")
	}
	if conv.InterviewID == "" {
		return nil, apperr.BadRequest("This conversation is not linked to an interview.")
	}
	form, err := s.forms.GetByID(ctx, conv.InterviewID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, apperr.BadRequest("The interview this conversation belongs to no longer exists.")
	}

	role := form.RoleLabel()
	examples := form.QuestionTexts()
	if max := target * 2; len(examples) > max {
		examples = examples[:max]
	}

	providers := []QuestionProvider{
		NewLLMProvider(s.generator, examples),
		// Retry without examples: style guidance sometimes derails the model.
		NewLLMProvider(s.generator, nil),
		NewBankProvider(s.bank, s.logger),
		NewTemplateProvider(),
		NewRoleFallbackProvider(),
	}
	questions := FillQuestions(ctx, role, target, providers)
	if len(questions) < target {
		return nil, apperr.Internal(
			"Could not generate assessment questions. Please adjust your interview questions and try again.",
			fmt.Sprintf("generated %d of %d", len(questions), target))
	}

	assessment := &model.TechnicalAssessment{
		ID:             uuid.New().String(),
		InterviewID:    conv.InterviewID,
		ConversationID: conv.ID,
	}
	assessment.SetQuestions(questions, func() string {
		return "aq_" + uuid.New().String()[:8]
	})

	if err := s.assessments.Create(ctx, assessment); err != nil {
		return nil, err
	}
	s.logger.Info("generated assessment",
		zap.String("flow", "assessment"),
		zap.String("assessment", assessment.ID),
		zap.String("conversation", conv.ID),
		zap.String("role", role),
		zap.Int("questions", len(questions)))
	return assessment, nil
}

// Get loads an assessment or returns a not-found error.
func (s *AssessmentService) Get(ctx context.Context, id string) (*model.TechnicalAssessment, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, apperr.NotFound("Assessment not found")
	}
	return assessment, nil
}

// GetByShareToken resolves a report link token to its assessment.
func (s *AssessmentService) GetByShareToken(ctx context.Context, token string) (*model.TechnicalAssessment, error) {
	assessmentID, err := s.tokens.Decode(token)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, assessmentID)
}

// ShareURL returns the public report link for an assessment.
func (s *AssessmentService) ShareURL(assessmentID string) (string, error) {
	token, err := s.tokens.Issue(assessmentID)
	if err != nil {
		return "", err
	}
	return s.publicBaseURL + "/assessment/report/" + token, nil
}

// SaveTranscript replaces the assessment's transcript. Re-posting is safe.
func (s *AssessmentService) SaveTranscript(ctx context.Context, assessmentID string, turns []model.ConversationTurn) (int, error) {
	if len(turns) == 0 {
		return 0, apperr.BadRequest("Transcript is empty")
	}

	assessment, err := s.Get(ctx, assessmentID)
	if err != nil {
		return 0, err
	}
	assessment.Transcript = turns
	if err := s.assessments.Update(ctx, assessment); err != nil {
		return 0, err
	}
	return len(turns), nil
}

// AnalysisResult summarizes an assessment analysis run.
type AnalysisResult struct {
	Answers           map[string]string `json:"answers"`
	TotalQuestions    int               `json:"totalQuestions"`
	AnsweredQuestions int               `json:"answeredQuestions"`
}

// Analyze maps the stored transcript onto the question snapshot and commits
// the answer sheet with the completion flag in one write. A caller-supplied
// qaMapping skips extraction; keys may be question IDs or "q{n}" positions.
// Re-running analysis never un-completes an assessment.
func (s *AssessmentService) Analyze(ctx context.Context, assessmentID string, qaMapping map[string]string) (*AnalysisResult, error) {
	assessment, err := s.Get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if len(assessment.Questions) == 0 {
		return nil, apperr.BadRequest("Assessment has no questions to analyze")
	}

	source := qaMapping
	if len(source) == 0 {
		source = s.extractor.ExtractAnswers(ctx, assessment.Transcript, assessment.Questions)
	}

	if assessment.Answers == nil {
		assessment.Answers = make(map[string]string, len(assessment.Questions))
	}
	for _, q := range assessment.Questions {
		text := lookupAnswer(source, q)
		if strings.TrimSpace(text) == "" {
			text = model.AnswerNil
		}
		assessment.Answers[q.ID] = text
	}
	assessment.IsCompleted = true

	if err := s.assessments.Update(ctx, assessment); err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Answers:           assessment.Answers,
		TotalQuestions:    len(assessment.Questions),
		AnsweredQuestions: assessment.AnsweredCount(),
	}
	s.logger.Info("analyzed assessment",
		zap.String("flow", "assessment"),
		zap.String("assessment", assessment.ID),
		zap.Int("total", result.TotalQuestions),
		zap.Int("answered", result.AnsweredQuestions))
	return result, nil
}

// lookupAnswer tries the keys an answer may arrive under: the question ID,
// its "q{n}" position, and the lowercased ID.
func lookupAnswer(source map[string]string, q model.AssessmentQuestion) string {
	for _, key := range []string{q.ID, fmt.Sprintf("q%d", q.SequenceNumber), strings.ToLower(q.ID)} {
		if value, ok := source[key]; ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Delete removes an assessment and reports how many remain for its
// conversation.
func (s *AssessmentService) Delete(ctx context.Context, id string) (conversationID string, remaining int64, err error) {
	assessment, err := s.Get(ctx, id)
	if err != nil {
		return "", 0, err
	}

	if err := s.assessments.Delete(ctx, id); err != nil {
		return "", 0, err
	}
	remaining, err = s.assessments.CountByConversation(ctx, assessment.ConversationID)
	if err != nil {
		return "", 0, err
	}
	s.logger.Info("deleted assessment",
		zap.String("flow", "assessment"),
		zap.String("assessment", id),
		zap.String("conversation", assessment.ConversationID))
	return assessment.ConversationID, remaining, nil
}
