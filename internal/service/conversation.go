package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voiceform/internal/apperr"
	"voiceform/internal/model"
	"voiceform/internal/repository"
	"voiceform/internal/schema"
)

// ConversationService persists voice transcripts and runs structured
// extraction over them.
type ConversationService struct {
	conversations repository.ConversationRepo
	assessments   repository.AssessmentRepo
	forms         repository.FormRepo
	summarizer    *Summarizer
	extractor     *Extractor
	logger        *zap.Logger
}

// NewConversationService creates a conversation service
func NewConversationService(
	conversations repository.ConversationRepo,
	assessments repository.AssessmentRepo,
	forms repository.FormRepo,
	summarizer *Summarizer,
	extractor *Extractor,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		assessments:   assessments,
		forms:         forms,
		summarizer:    summarizer,
		extractor:     extractor,
		logger:        logger,
	}
}

// Save stores a finished voice session transcript. When a conversation for
// the session already exists its transcript is replaced, so the client can
// re-post safely.
func (s *ConversationService) Save(ctx context.Context, sessionID, interviewID string, turns []model.ConversationTurn) (*model.VoiceConversation, error) {
	if len(turns) == 0 {
		return nil, apperr.BadRequest("Transcript is empty")
	}

	if sessionID != "" {
		existing, err := s.conversations.GetBySessionID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			existing.Messages = turns
			if interviewID != "" {
				existing.InterviewID = interviewID
			}
			if err := s.conversations.Update(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
	}

	conv := &model.VoiceConversation{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		InterviewID: interviewID,
		Messages:    turns,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	s.logger.Info("saved conversation",
		zap.String("flow", "conversation"),
		zap.String("conversation", conv.ID),
		zap.Int("turns", len(turns)))
	return conv, nil
}

// Get loads a conversation or returns a not-found error.
func (s *ConversationService) Get(ctx context.Context, id string) (*model.VoiceConversation, error) {
	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperr.NotFound("Conversation not found")
	}
	return conv, nil
}

// GetBySession loads a conversation by its voice session ID.
func (s *ConversationService) GetBySession(ctx context.Context, sessionID string) (*model.VoiceConversation, error) {
	conv, err := s.conversations.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperr.NotFound("Conversation not found for this session")
	}
	return conv, nil
}

// ListRecent returns the newest conversations first.
func (s *ConversationService) ListRecent(ctx context.Context, limit int64) ([]*model.VoiceConversation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.conversations.ListRecent(ctx, limit)
}

// FieldsFor synthesizes the verification fields for a conversation's
// interview: the fixed profile fields plus one field per interview question,
// labeled by the summarizer when it is available.
func (s *ConversationService) FieldsFor(ctx context.Context, form *model.InterviewForm) []model.VerificationField {
	summaries := s.summarizer.Summarize(ctx, form)
	return schema.BuildFields(form, summaries)
}

// Analyze extracts structured data from a conversation's transcript and
// persists it, overwriting any previous extraction. Caller-supplied overrides
// win over model output key by key. Re-running analysis is safe.
func (s *ConversationService) Analyze(ctx context.Context, sessionID string, overrides map[string]string) (*model.VoiceConversation, error) {
	conv, err := s.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var form *model.InterviewForm
	if conv.InterviewID != "" {
		form, err = s.forms.GetByID(ctx, conv.InterviewID)
		if err != nil {
			return nil, err
		}
	}

	fields := s.FieldsFor(ctx, form)
	extracted := s.extractor.Extract(ctx, conv.Messages, fields)
	for key, value := range overrides {
		if key = strings.TrimSpace(key); key != "" {
			extracted[key] = strings.TrimSpace(value)
		}
	}

	conv.ExtractedInfo = extracted
	if err := s.conversations.Update(ctx, conv); err != nil {
		return nil, err
	}
	s.logger.Info("analyzed conversation",
		zap.String("flow", "conversation"),
		zap.String("conversation", conv.ID),
		zap.Int("fields", len(fields)))
	return conv, nil
}

// UpdateExtracted applies manual corrections to the extracted data of an
// already-analyzed conversation. Only the given keys change.
func (s *ConversationService) UpdateExtracted(ctx context.Context, conversationID string, values map[string]string) (*model.VoiceConversation, error) {
	if len(values) == 0 {
		return nil, apperr.BadRequest("No field values supplied")
	}

	conv, err := s.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.ExtractedInfo == nil {
		conv.ExtractedInfo = make(map[string]string, len(values))
	}
	for key, value := range values {
		if key = strings.TrimSpace(key); key != "" {
			conv.ExtractedInfo[key] = strings.TrimSpace(value)
		}
	}

	if err := s.conversations.Update(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Delete removes a conversation and every assessment hanging off it.
func (s *ConversationService) Delete(ctx context.Context, id string) (deletedAssessments int64, err error) {
	conv, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	deletedAssessments, err = s.assessments.CountByConversation(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.assessments.DeleteByConversation(ctx, id); err != nil {
		return 0, err
	}
	if err := s.conversations.Delete(ctx, id); err != nil {
		return 0, err
	}
	s.logger.Info("deleted conversation",
		zap.String("flow", "conversation"),
		zap.String("conversation", conv.ID),
		zap.Int64("assessments", deletedAssessments))
	return deletedAssessments, nil
}
