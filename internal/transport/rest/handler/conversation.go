package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"voiceform/internal/model"
	"voiceform/internal/service"
)

// ConversationHandler handles voice conversation endpoints
type ConversationHandler struct {
	convSvc *service.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(convSvc *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convSvc: convSvc}
}

// SaveConversationRequest is the request body for saving a transcript
type SaveConversationRequest struct {
	SessionID   string                   `json:"sessionId"`
	InterviewID string                   `json:"interviewId"`
	Messages    []model.ConversationTurn `json:"messages"`
}

// Save handles POST /v1/conversations
func (h *ConversationHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.convSvc.Save(r.Context(), req.SessionID, req.InterviewID, req.Messages)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// AnalyzeConversationRequest is the request body for running extraction
type AnalyzeConversationRequest struct {
	SessionID string            `json:"sessionId"`
	Overrides map[string]string `json:"overrides"`
}

// Analyze handles POST /v1/conversations/analyze
func (h *ConversationHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	conv, err := h.convSvc.Analyze(r.Context(), req.SessionID, req.Overrides)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// List handles GET /v1/conversations?limit=N
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	convs, err := h.convSvc.ListRecent(r.Context(), limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": convs})
}

// Get handles GET /v1/conversations/{conversationId}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	conv, err := h.convSvc.Get(r.Context(), mux.Vars(r)["conversationId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// UpdateExtractedRequest carries manual corrections to extracted data
type UpdateExtractedRequest struct {
	Values map[string]string `json:"values"`
}

// UpdateExtracted handles PUT /v1/conversations/{conversationId}/extracted
func (h *ConversationHandler) UpdateExtracted(w http.ResponseWriter, r *http.Request) {
	var req UpdateExtractedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.convSvc.UpdateExtracted(r.Context(), mux.Vars(r)["conversationId"], req.Values)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// Delete handles DELETE /v1/conversations/{conversationId}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["conversationId"]
	deletedAssessments, err := h.convSvc.Delete(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":            id,
		"deletedAssessments": deletedAssessments,
	})
}
