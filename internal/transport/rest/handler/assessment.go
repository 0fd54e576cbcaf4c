package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"voiceform/internal/model"
	"voiceform/internal/service"
)

// AssessmentHandler handles technical assessment endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
	convSvc       *service.ConversationService
	sessionSvc    *service.SessionService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService, convSvc *service.ConversationService, sessionSvc *service.SessionService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentSvc: assessmentSvc,
		convSvc:       convSvc,
		sessionSvc:    sessionSvc,
	}
}

// GenerateAssessmentRequest is the request body for generating an assessment
type GenerateAssessmentRequest struct {
	QuestionCount int `json:"questionCount"`
}

// Generate handles POST /v1/conversations/{conversationId}/assessment
func (h *AssessmentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateAssessmentRequest
	// Body is optional; an empty one means the default question count.
	json.NewDecoder(r.Body).Decode(&req)

	assessment, err := h.assessmentSvc.Generate(r.Context(), mux.Vars(r)["conversationId"], req.QuestionCount)
	if err != nil {
		writeAppError(w, err)
		return
	}

	shareURL, err := h.assessmentSvc.ShareURL(assessment.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"assessment": assessment,
		"shareUrl":   shareURL,
	})
}

// Get handles GET /v1/assessments/{assessmentId}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.assessmentSvc.Get(r.Context(), mux.Vars(r)["assessmentId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

// Share handles GET /v1/assessments/{assessmentId}/share
func (h *AssessmentHandler) Share(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]
	if _, err := h.assessmentSvc.Get(r.Context(), assessmentID); err != nil {
		writeAppError(w, err)
		return
	}

	shareURL, err := h.assessmentSvc.ShareURL(assessmentID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"shareUrl": shareURL})
}

// Report handles GET /assessment/report/{token}: the public shared report.
// Expired and malformed tokens both come back 404 so the link reveals
// nothing about whether the assessment exists.
func (h *AssessmentHandler) Report(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.assessmentSvc.GetByShareToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assessment":           assessment,
		"qaPairs":              assessment.QAPairs(),
		"answeredQuestions":    assessment.AnsweredCount(),
		"totalQuestions":       len(assessment.Questions),
		"completionPercentage": assessment.CompletionPercentage(),
	})
}

// CreateSession handles POST /v1/assessments/{assessmentId}/session
func (h *AssessmentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.assessmentSvc.Get(r.Context(), mux.Vars(r)["assessmentId"])
	if err != nil {
		writeAppError(w, err)
		return
	}

	var profile service.CandidateProfile
	if conv, err := h.convSvc.Get(r.Context(), assessment.ConversationID); err == nil {
		profile = service.CandidateProfile{
			Name:          conv.CandidateName(),
			Qualification: conv.CandidateQualification(),
			Experience:    conv.CandidateExperience(),
		}
	}

	session, err := h.sessionSvc.CreateAssessmentSession(r.Context(), assessment, profile)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":            session["id"],
		"model":         session["model"],
		"client_secret": session["client_secret"],
	})
}

// SaveTranscriptRequest is the request body for storing a transcript
type SaveTranscriptRequest struct {
	Messages []model.ConversationTurn `json:"messages"`
}

// SaveTranscript handles POST /v1/assessments/{assessmentId}/transcript
func (h *AssessmentHandler) SaveTranscript(w http.ResponseWriter, r *http.Request) {
	var req SaveTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.assessmentSvc.SaveTranscript(r.Context(), mux.Vars(r)["assessmentId"], req.Messages)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"savedTurns": saved})
}

// AnalyzeAssessmentRequest optionally carries a client-side answer mapping
type AnalyzeAssessmentRequest struct {
	QAMapping map[string]string `json:"qaMapping"`
}

// Analyze handles POST /v1/assessments/{assessmentId}/analyze
func (h *AssessmentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeAssessmentRequest
	// Body is optional; without a mapping the stored transcript is analyzed.
	json.NewDecoder(r.Body).Decode(&req)

	result, err := h.assessmentSvc.Analyze(r.Context(), mux.Vars(r)["assessmentId"], req.QAMapping)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /v1/assessments/{assessmentId}
func (h *AssessmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["assessmentId"]
	conversationID, remaining, err := h.assessmentSvc.Delete(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":              id,
		"conversationId":       conversationID,
		"remainingAssessments": remaining,
	})
}
