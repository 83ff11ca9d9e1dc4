package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

type Config struct {
	AppEnv            string
	AppName           string
	APIPrefix         string
	AppPort           string
	JWTSecret         string
	JWTAlgorithm      string
	JWTIssuer         string
	SessionTTLMinutes int
	CORSAllowOrigins  []string
	AIProvider        string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	AIMaxOutputTokens int
	AITemperature     float64
	AITimeoutSeconds  int
}

func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		AppEnv:            getEnv("APP_ENV", "local"),
		AppName:           getEnv("APP_NAME", "SimplyNourished API"),
		APIPrefix:         getEnv("API_PREFIX", "/api/v1"),
		AppPort:           getEnv("APP_PORT", "8000"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTAlgorithm:      getEnv("JWT_ALGORITHM", "HS256"),
		JWTIssuer:         getEnv("JWT_ISSUER", ""),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 120),
		CORSAllowOrigins: getEnvCSV(
			"CORS_ALLOW_ORIGINS",
			[]string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"},
		),
		AIProvider:        strings.ToLower(getEnv("AI_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		AIMaxOutputTokens: getEnvInt("AI_MAX_OUTPUT_TOKENS", 300),
		AITemperature:     getEnvFloat("AI_TEMPERATURE", 0.7),
		AITimeoutSeconds:  getEnvInt("AI_TIMEOUT_SECONDS", 20),
	}
}

// Validate checks settings needed to serve HTTP. A missing OPENAI_API_KEY is
// not an error: it surfaces to users when they ask for recipes.
func (c Config) Validate() error {
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if secret == "change-me-in-production" {
		return errors.New("JWT_SECRET must not use insecure default value")
	}
	if len(secret) < 16 {
		return errors.New("JWT_SECRET is too short; use at least 16 characters")
	}
	switch strings.TrimSpace(c.JWTAlgorithm) {
	case "":
		return errors.New("JWT_ALGORITHM is required")
	case "HS256", "HS384", "HS512":
	default:
		return errors.New("JWT_ALGORITHM must be one of: HS256, HS384, HS512")
	}
	if c.SessionTTLMinutes <= 0 {
		return errors.New("SESSION_TTL_MINUTES must be positive")
	}
	return c.ValidateAI()
}

// ValidateAI checks only the provider settings, for tools that never serve
// HTTP.
func (c Config) ValidateAI() error {
	switch c.AIProvider {
	case ProviderOpenAI, ProviderMock:
	default:
		return errors.New("AI_PROVIDER must be one of: openai, mock")
	}
	if c.AIMaxOutputTokens <= 0 {
		return errors.New("AI_MAX_OUTPUT_TOKENS must be positive")
	}
	if c.AITemperature < 0 || c.AITemperature > 2 {
		return errors.New("AI_TEMPERATURE must be between 0 and 2")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvCSV(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, item := range parts {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return parsed
}
