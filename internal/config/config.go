package config

// Config is the full server configuration, read from the environment
type Config struct {
	Addr      string
	MongoURI  string
	MongoDB   string
	RedisAddr string
	// PublicBaseURL prefixes shareable assessment links
	PublicBaseURL string
	// ShareTokenSecret signs assessment capability tokens
	ShareTokenSecret string
	AI               *AIConfig
}

// Load reads configuration from the environment with development defaults
func Load() *Config {
	return &Config{
		Addr:             ":" + getEnvOrDefault("PORT", "8080"),
		MongoURI:         getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnvOrDefault("MONGO_DB", "voiceform"),
		RedisAddr:        getEnvOrDefault("REDIS_URI", "localhost:6379"),
		PublicBaseURL:    getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		ShareTokenSecret: getEnvOrDefault("SHARE_TOKEN_SECRET", "change-me-in-production"),
		AI:               DefaultAIConfig(),
	}
}
