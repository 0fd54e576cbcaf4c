package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"voiceform/internal/service"
)

// InterviewHandler handles interview builder endpoints
type InterviewHandler struct {
	interviewSvc *service.InterviewService
	convSvc      *service.ConversationService
	sessionSvc   *service.SessionService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService, convSvc *service.ConversationService, sessionSvc *service.SessionService) *InterviewHandler {
	return &InterviewHandler{
		interviewSvc: interviewSvc,
		convSvc:      convSvc,
		sessionSvc:   sessionSvc,
	}
}

// CreateInterviewRequest is the request body for creating an interview
type CreateInterviewRequest struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	AIPrompt  string   `json:"aiPrompt"`
	Questions []string `json:"questions"`
}

// Create handles POST /v1/interviews
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.interviewSvc.Create(r.Context(), req.Title, req.Summary, req.AIPrompt, req.Questions)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

// List handles GET /v1/interviews
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.interviewSvc.List(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"interviews": forms})
}

// Get handles GET /v1/interviews/{interviewId}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.interviewSvc.Get(r.Context(), mux.Vars(r)["interviewId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Delete handles DELETE /v1/interviews/{interviewId}
func (h *InterviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	summary, err := h.interviewSvc.Delete(r.Context(), mux.Vars(r)["interviewId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// AddQuestionRequest is the request body for adding a question
type AddQuestionRequest struct {
	Text string `json:"text"`
}

// AddQuestion handles POST /v1/interviews/{interviewId}/questions
func (h *InterviewHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var req AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.interviewSvc.AddQuestion(r.Context(), mux.Vars(r)["interviewId"], req.Text)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// RemoveQuestion handles DELETE /v1/interviews/{interviewId}/questions/{questionId}
func (h *InterviewHandler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	remaining, err := h.interviewSvc.RemoveQuestion(r.Context(), vars["interviewId"], vars["questionId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":            vars["questionId"],
		"remainingQuestions": remaining,
	})
}

// Fields handles GET /v1/interviews/{interviewId}/fields: the verification
// fields that would drive a voice session for this interview.
func (h *InterviewHandler) Fields(w http.ResponseWriter, r *http.Request) {
	form, err := h.interviewSvc.Get(r.Context(), mux.Vars(r)["interviewId"])
	if err != nil {
		writeAppError(w, err)
		return
	}

	fields := h.convSvc.FieldsFor(r.Context(), form)
	writeJSON(w, http.StatusOK, map[string]interface{}{"fields": fields})
}

// CreateSession handles POST /v1/interviews/{interviewId}/session. The
// response carries the provider session credentials plus the field list the
// client renders in the verification popup.
func (h *InterviewHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	form, err := h.interviewSvc.Get(r.Context(), mux.Vars(r)["interviewId"])
	if err != nil {
		writeAppError(w, err)
		return
	}

	fields := h.convSvc.FieldsFor(r.Context(), form)
	session, err := h.sessionSvc.CreateInterviewSession(r.Context(), form, fields)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":            session["id"],
		"model":         session["model"],
		"client_secret": session["client_secret"],
		"fields":        fields,
	})
}
