package config

import (
	"os"
	"strconv"
)

// AIModels defines which models to use for different tasks
type AIModels struct {
	// Analysis is for structured transcript extraction (low temperature)
	Analysis string `json:"analysis"`

	// Generator is for assessment question generation
	Generator string `json:"generator"`

	// Summarizer is for per-question intent labels and summaries
	Summarizer string `json:"summarizer"`

	// Realtime is the voice session model
	Realtime string `json:"realtime"`

	// Transcribe is the input-audio transcription model
	Transcribe string `json:"transcribe"`
}

// AIConfig holds all upstream AI configuration
type AIConfig struct {
	APIKey      string   `json:"-"` // Never serialize
	BaseURL     string   `json:"baseUrl"`
	RealtimeURL string   `json:"realtimeUrl"`
	Models      AIModels `json:"models"`
	Voice       string   `json:"voice"`

	// RealtimeTemperature is passed through to the voice session
	RealtimeTemperature float64 `json:"realtimeTemperature"`

	// Per-call timeouts, milliseconds
	ChatTimeoutMS    int `json:"chatTimeoutMs"`
	SessionTimeoutMS int `json:"sessionTimeoutMs"`

	// Optional path to the base persona instructions file
	InstructionsPath string `json:"instructionsPath"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		BaseURL:     getEnvOrDefault("OPENAI_CHAT_URL", "https://api.openai.com/v1/chat/completions"),
		RealtimeURL: getEnvOrDefault("OPENAI_REALTIME_URL", "https://api.openai.com/v1/realtime/sessions"),
		Models: AIModels{
			Analysis:   getEnvOrDefault("OPENAI_ANALYSIS_MODEL", "gpt-4o-mini"),
			Generator:  getEnvOrDefault("OPENAI_GENERATOR_MODEL", "gpt-4o-mini"),
			Summarizer: getEnvOrDefault("OPENAI_SUMMARIZER_MODEL", "gpt-4o-mini"),
			Realtime:   getEnvOrDefault("OPENAI_REALTIME_MODEL", "gpt-4o-realtime-preview"),
			Transcribe: getEnvOrDefault("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),
		},
		Voice:               getEnvOrDefault("OPENAI_REALTIME_VOICE", "alloy"),
		RealtimeTemperature: getEnvFloat("OPENAI_REALTIME_TEMPERATURE", 0.8),
		ChatTimeoutMS:       30000,
		SessionTimeoutMS:    20000,
		InstructionsPath:    os.Getenv("AI_INSTRUCTIONS_PATH"),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
