package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	OpenAIAPIKey string
	OpenAIModel  string

	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string

	DefaultCurrency  string
	MaxChunkChars    int
	PromptCharBudget int
	MaxOutputTokens  int
	Temperature      float64
	LLMTimeoutMs     int

	AnalyzeConfidenceThreshold float64
	AnalyzeMinRoles            int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "meta-llama/llama-3.3-70b-instruct"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),

		DefaultCurrency:  getEnv("DEFAULT_CURRENCY", "XAF"),
		MaxChunkChars:    getEnvInt("MAX_CHUNK_CHARS", 4000),
		PromptCharBudget: getEnvInt("PROMPT_CHAR_BUDGET", 6000),
		MaxOutputTokens:  getEnvInt("LLM_MAX_OUTPUT_TOKENS", 2000),
		Temperature:      getEnvFloat("LLM_TEMPERATURE", 0.1),
		LLMTimeoutMs:     getEnvInt("LLM_TIMEOUT_MS", 45000),

		AnalyzeConfidenceThreshold: getEnvFloat("ANALYZE_CONFIDENCE_THRESHOLD", 0.8),
		AnalyzeMinRoles:            getEnvInt("ANALYZE_MIN_ROLES", 3),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
