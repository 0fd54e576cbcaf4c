package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"voiceform/internal/apperr"
	"voiceform/internal/config"
	"voiceform/internal/llm"
	"voiceform/internal/model"
	"voiceform/internal/schema"
)

// defaultPersona is the baseline voice agent instruction set, used when no
// instructions file is configured.
const defaultPersona = "You are Tyler, a warm and professional voice interviewer. " +
	"Greet the candidate, keep your turns short, and ask one question at a time. " +
	"Listen fully before moving on, and acknowledge answers naturally without evaluating them aloud."

// SessionService builds realtime voice session payloads: the persona
// instructions, turn detection tuning, and the verification tool schema.
type SessionService struct {
	cfg     *config.AIConfig
	client  *llm.Client
	persona string
	logger  *zap.Logger
}

// NewSessionService creates a session service. When the config names an
// instructions file it replaces the built-in persona.
func NewSessionService(cfg *config.AIConfig, client *llm.Client, logger *zap.Logger) *SessionService {
	persona := defaultPersona
	if cfg.InstructionsPath != "" {
		if data, err := os.ReadFile(cfg.InstructionsPath); err != nil {
			logger.Warn("failed to read persona instructions, using built-in",
				zap.String("path", cfg.InstructionsPath), zap.Error(err))
		} else if text := strings.TrimSpace(string(data)); text != "" {
			persona = text
		}
	}
	return &SessionService{
		cfg:     cfg,
		client:  client,
		persona: persona,
		logger:  logger,
	}
}

// CreateInterviewSession opens a realtime session for a screening interview.
// The form's questions become the agent's script and the verification fields
// become the verify_information tool.
func (s *SessionService) CreateInterviewSession(ctx context.Context, form *model.InterviewForm, fields []model.VerificationField) (map[string]interface{}, error) {
	if !s.cfg.IsEnabled() {
		return nil, apperr.BadRequest("Voice sessions are not configured on this server")
	}

	payload := s.basePayload(s.interviewInstructions(form, fields))
	payload["tools"] = []interface{}{schema.BuildVerifyTool(fields)}
	payload["tool_choice"] = "auto"

	session, err := s.client.CreateSession(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("created interview session",
		zap.String("flow", "session"),
		zap.String("interview", formID(form)),
		zap.Int("fields", len(fields)))
	return session, nil
}

// CandidateProfile is the extracted background handed to the assessment
// persona so the agent can address the candidate properly.
type CandidateProfile struct {
	Name          string
	Qualification string
	Experience    string
}

// CreateAssessmentSession opens a realtime session for the technical round.
// No tools: the agent only asks the snapshotted questions.
func (s *SessionService) CreateAssessmentSession(ctx context.Context, assessment *model.TechnicalAssessment, profile CandidateProfile) (map[string]interface{}, error) {
	if !s.cfg.IsEnabled() {
		return nil, apperr.BadRequest("Voice sessions are not configured on this server")
	}

	payload := s.basePayload(s.assessmentInstructions(assessment, profile))
	session, err := s.client.CreateSession(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("created assessment session",
		zap.String("flow", "session"),
		zap.String("assessment", assessment.ID),
		zap.Int("questions", len(assessment.Questions)))
	return session, nil
}

// basePayload carries the tuning shared by both session kinds. The turn
// detection values are calibrated for interview pacing: a high threshold and
// a full second of silence so the agent does not talk over slow answers.
func (s *SessionService) basePayload(instructions string) map[string]interface{} {
	return map[string]interface{}{
		"model":        s.cfg.Models.Realtime,
		"voice":        s.cfg.Voice,
		"instructions": instructions,
		"temperature":  s.cfg.RealtimeTemperature,
		"input_audio_transcription": map[string]interface{}{
			"model": s.cfg.Models.Transcribe,
		},
		"turn_detection": map[string]interface{}{
			"type":                "server_vad",
			"threshold":           0.8,
			"prefix_padding_ms":   300,
			"silence_duration_ms": 1000,
		},
	}
}

func (s *SessionService) interviewInstructions(form *model.InterviewForm, fields []model.VerificationField) string {
	var b strings.Builder
	b.WriteString(s.persona)

	if form != nil {
		if form.AIPrompt != "" {
			b.WriteString("\n\nAdditional guidance from the interviewer:\n")
			b.WriteString(form.AIPrompt)
		}
		b.WriteString("\n\nAsk these questions in order, one at a time:\n")
		for _, q := range form.Questions {
			fmt.Fprintf(&b, "%d. %s\n", q.SequenceNumber, q.Text)
		}
	} else {
		b.WriteString("\n\nNo interview script is available. " +
			"Ask the candidate about their background, qualification, and experience.")
	}

	b.WriteString("\nAlways begin by collecting the candidate's full name, " +
		"highest qualification, and years of experience before the scripted questions.")
	b.WriteString("\nWhen every question has been answered, call the verify_information tool " +
		"with everything you collected so the candidate can confirm it:\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "- %s: %s\n", f.Key, f.Label)
	}
	b.WriteString("After the candidate confirms, thank them and end the interview.")
	return b.String()
}

func (s *SessionService) assessmentInstructions(assessment *model.TechnicalAssessment, profile CandidateProfile) string {
	var b strings.Builder
	b.WriteString("You are Tyler, the technical interviewer for this assessment. " +
		"Be focused and encouraging. Ask one question at a time and do not reveal whether answers are correct.")

	if profile.Name != "" || profile.Qualification != "" || profile.Experience != "" {
		b.WriteString("\n\nCandidate background:")
		if profile.Name != "" {
			b.WriteString("\n- Name: " + profile.Name + " (greet them by name)")
		}
		if profile.Qualification != "" {
			b.WriteString("\n- Qualification: " + profile.Qualification)
		}
		if profile.Experience != "" {
			b.WriteString("\n- Experience: " + profile.Experience)
		}
	}

	b.WriteString("\n\nAsk exactly these questions in order:\n")
	for _, q := range assessment.Questions {
		fmt.Fprintf(&b, "%d. %s\n", q.SequenceNumber, q.Text)
	}
	b.WriteString("If the candidate cannot answer, move on without dwelling. " +
		"After the last question, thank them and end the session.")
	return b.String()
}

func formID(form *model.InterviewForm) string {
	if form == nil {
		return ""
	}
	return form.ID
}
