package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voiceform/internal/apperr"
	"voiceform/internal/model"
	"voiceform/internal/repository"
)

// Starter interview created automatically when the workspace is empty, so
// the builder UI always has content.
var starterInterview = struct {
	Title     string
	Summary   string
	Questions []string
}{
	Title:   "Sample Interview Plan",
	Summary: "Starter interview generated automatically. Update it to match your role.",
	Questions: []string{
		"Can you introduce yourself and share your current focus area?",
		"Tell me about a recent project that best represents your strengths.",
		"What tools or languages are you most comfortable working with right now?",
	},
}

// InterviewService owns the interview form lifecycle
type InterviewService struct {
	forms         repository.FormRepo
	conversations repository.ConversationRepo
	assessments   repository.AssessmentRepo
	logger        *zap.Logger
}

// NewInterviewService creates an interview service
func NewInterviewService(forms repository.FormRepo, conversations repository.ConversationRepo, assessments repository.AssessmentRepo, logger *zap.Logger) *InterviewService {
	return &InterviewService{
		forms:         forms,
		conversations: conversations,
		assessments:   assessments,
		logger:        logger,
	}
}

// Create validates and stores a new interview form. At least one non-empty
// question is required.
func (s *InterviewService) Create(ctx context.Context, title, summary, aiPrompt string, questions []string) (*model.InterviewForm, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.BadRequest("Interview title is required")
	}

	cleaned := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperr.BadRequest("Add at least one interview question")
	}

	form := &model.InterviewForm{
		ID:       uuid.New().String(),
		Title:    title,
		Summary:  strings.TrimSpace(summary),
		AIPrompt: strings.TrimSpace(aiPrompt),
	}
	form.AppendQuestions(cleaned)

	if err := s.forms.Create(ctx, form); err != nil {
		return nil, err
	}
	s.logger.Info("created interview",
		zap.String("flow", "interview"),
		zap.String("interview", form.ID),
		zap.Int("questions", len(cleaned)))
	return form, nil
}

// Get loads a form or returns a not-found error.
func (s *InterviewService) Get(ctx context.Context, id string) (*model.InterviewForm, error) {
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, apperr.NotFound("Interview not found")
	}
	return form, nil
}

// List returns all forms, most recently updated first.
func (s *InterviewService) List(ctx context.Context) ([]*model.InterviewForm, error) {
	return s.forms.List(ctx)
}

// AddQuestion appends a question to an existing form.
func (s *InterviewService) AddQuestion(ctx context.Context, formID, text string) (*model.InterviewForm, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.BadRequest("Question text is required")
	}

	form, err := s.Get(ctx, formID)
	if err != nil {
		return nil, err
	}
	form.AppendQuestions([]string{text})
	if err := s.forms.Update(ctx, form); err != nil {
		return nil, err
	}
	s.logger.Info("added question",
		zap.String("flow", "interview"),
		zap.String("interview", form.ID),
		zap.Int("questions", len(form.Questions)))
	return form, nil
}

// RemoveQuestion deletes a question and renumbers the rest in one write.
// Removing the last remaining question is rejected.
func (s *InterviewService) RemoveQuestion(ctx context.Context, formID, questionID string) (int, error) {
	form, err := s.Get(ctx, formID)
	if err != nil {
		return 0, err
	}

	if len(form.Questions) <= 1 {
		return 0, apperr.BadRequest(
			"At least one question is required per interview. Add another question before deleting this one.")
	}
	if !form.RemoveQuestion(questionID) {
		return 0, apperr.NotFound("Question not found on this interview")
	}

	if err := s.forms.Update(ctx, form); err != nil {
		return 0, err
	}
	remaining := len(form.Questions)
	s.logger.Info("removed question",
		zap.String("flow", "interview"),
		zap.String("interview", form.ID),
		zap.String("question", questionID),
		zap.Int("remaining", remaining))
	return remaining, nil
}

// DeleteSummary reports what a form deletion touched
type DeleteSummary struct {
	InterviewID         string `json:"interviewId"`
	Title               string `json:"title"`
	DeletedQuestions    int    `json:"deletedQuestions"`
	RemainingInterviews int64  `json:"remainingInterviews"`
}

// Delete removes a form and nulls the weak references conversations and
// assessments hold to it.
func (s *InterviewService) Delete(ctx context.Context, id string) (*DeleteSummary, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.conversations.ClearFormRef(ctx, id); err != nil {
		return nil, err
	}
	if err := s.assessments.ClearFormRef(ctx, id); err != nil {
		return nil, err
	}
	if err := s.forms.Delete(ctx, id); err != nil {
		return nil, err
	}

	remaining, err := s.forms.Count(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("deleted interview",
		zap.String("flow", "interview"),
		zap.String("interview", id),
		zap.String("title", form.Title),
		zap.Int("questions", len(form.Questions)))
	return &DeleteSummary{
		InterviewID:         id,
		Title:               form.Title,
		DeletedQuestions:    len(form.Questions),
		RemainingInterviews: remaining,
	}, nil
}

// EnsureSeedInterview creates the starter interview when no forms exist.
// Returns nil without error when forms are already present or seeding fails;
// seeding is convenience, never a hard requirement.
func (s *InterviewService) EnsureSeedInterview(ctx context.Context) *model.InterviewForm {
	count, err := s.forms.Count(ctx)
	if err != nil || count > 0 {
		return nil
	}

	form, err := s.Create(ctx, starterInterview.Title, starterInterview.Summary, "", starterInterview.Questions)
	if err != nil {
		s.logger.Error("failed to seed starter interview", zap.Error(err))
		return nil
	}
	s.logger.Info("seeded starter interview",
		zap.String("flow", "interview"),
		zap.String("interview", form.ID))
	return form
}
