package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"voiceform/internal/service"
	"voiceform/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	InterviewService    *service.InterviewService
	ConversationService *service.ConversationService
	AssessmentService   *service.AssessmentService
	SessionService      *service.SessionService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	interviewHandler := handler.NewInterviewHandler(c.InterviewService, c.ConversationService, c.SessionService)
	conversationHandler := handler.NewConversationHandler(c.ConversationService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService, c.ConversationService, c.SessionService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Public shared report (token is the only credential)
	r.HandleFunc("/assessment/report/{token}", assessmentHandler.Report).Methods("GET", "OPTIONS")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Interview builder
	v1.HandleFunc("/interviews", interviewHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interviews", interviewHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/interviews/{interviewId}", interviewHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/interviews/{interviewId}", interviewHandler.Delete).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/interviews/{interviewId}/questions", interviewHandler.AddQuestion).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interviews/{interviewId}/questions/{questionId}", interviewHandler.RemoveQuestion).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/interviews/{interviewId}/fields", interviewHandler.Fields).Methods("GET", "OPTIONS")
	v1.HandleFunc("/interviews/{interviewId}/session", interviewHandler.CreateSession).Methods("POST", "OPTIONS")

	// Voice conversations
	v1.HandleFunc("/conversations", conversationHandler.Save).Methods("POST", "OPTIONS")
	v1.HandleFunc("/conversations", conversationHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/conversations/analyze", conversationHandler.Analyze).Methods("POST", "OPTIONS")
	v1.HandleFunc("/conversations/{conversationId}", conversationHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/conversations/{conversationId}", conversationHandler.Delete).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/conversations/{conversationId}/extracted", conversationHandler.UpdateExtracted).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/conversations/{conversationId}/assessment", assessmentHandler.Generate).Methods("POST", "OPTIONS")

	// Technical assessments
	v1.HandleFunc("/assessments/{assessmentId}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessments/{assessmentId}", assessmentHandler.Delete).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/assessments/{assessmentId}/share", assessmentHandler.Share).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessments/{assessmentId}/session", assessmentHandler.CreateSession).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{assessmentId}/transcript", assessmentHandler.SaveTranscript).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{assessmentId}/analyze", assessmentHandler.Analyze).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
