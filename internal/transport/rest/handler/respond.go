package handler

import (
	"encoding/json"
	"net/http"

	"voiceform/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAppError maps a service error onto its HTTP status and wire shape.
// Upstream details are forwarded so provider-side failures stay diagnosable
// from the client.
func writeAppError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	body := map[string]interface{}{
		"error": appErr.Message,
		"kind":  string(appErr.Kind),
	}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	writeJSON(w, appErr.Status, body)
}
