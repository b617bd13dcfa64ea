package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// Structured-content platform (owns all document storage).
	ContentAPIURL  string
	ContentDataset string
	ContentToken   string

	// Identity provider session tokens.
	SessionSecret string

	// Video platform credentials and playback signing keys.
	VideoAPIURL       string
	VideoTokenID      string
	VideoTokenSecret  string
	VideoSigningKey   string
	VideoSigningKeyID string

	// Hosted LLM for the tutor agent.
	LLMAPIURL string
	LLMAPIKey string
	LLMModel  string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		ContentAPIURL:  getEnv("CONTENT_API_URL", "https://content.example.com/v2024-01-01"),
		ContentDataset: getEnv("CONTENT_DATASET", "production"),
		ContentToken:   getEnv("CONTENT_TOKEN", ""),

		SessionSecret: getEnv("SESSION_SECRET", "secret"),

		VideoAPIURL:       getEnv("VIDEO_API_URL", "https://api.mux.com"),
		VideoTokenID:      getEnv("VIDEO_TOKEN_ID", ""),
		VideoTokenSecret:  getEnv("VIDEO_TOKEN_SECRET", ""),
		VideoSigningKey:   getEnv("VIDEO_SIGNING_KEY", ""),
		VideoSigningKeyID: getEnv("VIDEO_SIGNING_KEY_ID", ""),

		LLMAPIURL: getEnv("LLM_API_URL", "https://api.openai.com/v1"),
		LLMAPIKey: getEnv("LLM_API_KEY", ""),
		LLMModel:  getEnv("LLM_MODEL", "gpt-4o"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
