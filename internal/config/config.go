package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Retrieval  RetrievalConfig
	Evidence   EvidenceConfig
	Generation GenerationConfig
	Triage     TriageConfig
	Session    SessionConfig
	Ai         AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	Tenant             string
	Lang               string
	TraceTopic         string
}

type DatabaseConfig struct {
	Connection string
}

type RetrievalConfig struct {
	VectorK         int
	KeywordK        int
	RRFK            int
	RerankTopN      int
	RerankerURL     string // empty disables reranking
	ProviderTimeout time.Duration
}

type EvidenceConfig struct {
	BudgetTokens    int
	MaxPerSource    int
	MaxCandidates   int
	RequireEvidence bool
}

type GenerationConfig struct {
	Deadline    time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	Temperature float64
	MaxTokens   int
}

type TriageConfig struct {
	RulesPath string
}

type SessionConfig struct {
	Store        string // "memory" or "redis"
	TTL          time.Duration
	HistoryLimit int
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	GoogleGeminiKey   string
	LLMProvider       string // "ollama", "openai", "vllm"
	LLMModel          string
	LLMBaseURL        string
	LLMAPIKey         string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			Tenant:             getEnv("TENANT", "CA-ON"),
			Lang:               getEnv("LANG_CODE", "en"),
			TraceTopic:         getEnv("REQUEST_TRACE_TOPIC_NAME", "request.trace"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Retrieval: RetrievalConfig{
			VectorK:         getEnvAsInt("VECTOR_K", 8),
			KeywordK:        getEnvAsInt("KEYWORD_K", 12),
			RRFK:            getEnvAsInt("RRF_K", 60),
			RerankTopN:      getEnvAsInt("RERANK_TOP_N", 3),
			RerankerURL:     getEnv("RERANKER_URL", ""),
			ProviderTimeout: getEnvAsDuration("PROVIDER_TIMEOUT", 2*time.Second),
		},
		Evidence: EvidenceConfig{
			BudgetTokens:    getEnvAsInt("CONTEXT_BUDGET_TOKENS", 1200),
			MaxPerSource:    getEnvAsInt("MAX_PER_SOURCE", 2),
			MaxCandidates:   getEnvAsInt("MAX_CANDIDATES", 5),
			RequireEvidence: getEnvAsBool("CONTEXT_REQUIRE_EVIDENCE", false),
		},
		Generation: GenerationConfig{
			Deadline:    getEnvAsDuration("GENERATION_DEADLINE", 5*time.Second),
			MaxRetries:  getEnvAsInt("GENERATION_MAX_RETRIES", 2),
			BackoffBase: getEnvAsDuration("GENERATION_BACKOFF_BASE", 250*time.Millisecond),
			Temperature: getEnvAsFloat("GENERATION_TEMPERATURE", 0.2),
			MaxTokens:   getEnvAsInt("GENERATION_MAX_TOKENS", 512),
		},
		Triage: TriageConfig{
			RulesPath: getEnv("TRIAGE_RULES_PATH", "configs/rules.json"),
		},
		Session: SessionConfig{
			Store:        getEnv("SESSION_STORE", "memory"),
			TTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			HistoryLimit: getEnvAsInt("HISTORY_LIMIT", 10),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "all-minilm"),
			GoogleGeminiKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:         getEnv("LLM_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
