package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Backends selectable through LLM_BACKEND.
const (
	BackendOpenAI     = "openai"
	BackendLangChain  = "langchaingo"
	DefaultModel      = "gpt-4.1-mini-2025-04-14"
	DefaultRedisAddr  = "localhost:6379"
	DefaultSQLitePath = "shiporskip.db"
)

// Checkpoint stores selectable through CHECKPOINT_STORE.
const (
	StoreNone     = "none"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	TavilyAPIKey  string
	GitHubToken   string
	LLMBackend    string

	PlannerModel    string
	ExtractorModel  string
	StrategistModel string
	EnableExtractor bool

	ContextChars     int
	MaxSources       int
	DeepFetchPages   int
	RaceTarget       int
	FetchConcurrency int

	SearchTimeout     time.Duration
	GitHubTimeout     time.Duration
	ReadmeTimeout     time.Duration
	PageTimeout       time.Duration
	PlannerTimeout    time.Duration
	ExtractorTimeout  time.Duration
	StrategistTimeout time.Duration

	CheckpointStore string
	CheckpointTTL   time.Duration
	RedisAddr       string
	RedisPassword   string
	SQLitePath      string
	DatabaseURL     string

	LogLevel string
}

// Load reads the configuration from the environment.
func Load() *Config {
	model := getEnv("OPENAI_MODEL", DefaultModel)
	return &Config{
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		TavilyAPIKey:  getEnv("TAVILY_API_KEY", ""),
		GitHubToken:   getEnv("GITHUB_TOKEN", ""),
		LLMBackend:    strings.ToLower(getEnv("LLM_BACKEND", BackendOpenAI)),

		PlannerModel:    getEnv("PLANNER_MODEL", model),
		ExtractorModel:  getEnv("EXTRACTOR_MODEL", model),
		StrategistModel: getEnv("STRATEGIST_MODEL", model),
		EnableExtractor: getEnvAsBool("ENABLE_EXTRACTOR", false),

		ContextChars:     getEnvAsInt("CONTEXT_CHARS", 16000),
		MaxSources:       getEnvAsInt("MAX_SOURCES", 25),
		DeepFetchPages:   getEnvAsInt("DEEP_FETCH_PAGES", 10),
		RaceTarget:       getEnvAsInt("RACE_TARGET", 5),
		FetchConcurrency: getEnvAsInt("FETCH_CONCURRENCY", 5),

		SearchTimeout:     getEnvAsDuration("SEARCH_TIMEOUT", 15*time.Second),
		GitHubTimeout:     getEnvAsDuration("GITHUB_TIMEOUT", 10*time.Second),
		ReadmeTimeout:     getEnvAsDuration("README_TIMEOUT", 8*time.Second),
		PageTimeout:       getEnvAsDuration("PAGE_TIMEOUT", 10*time.Second),
		PlannerTimeout:    getEnvAsDuration("PLANNER_TIMEOUT", 10*time.Second),
		ExtractorTimeout:  getEnvAsDuration("EXTRACTOR_TIMEOUT", 45*time.Second),
		StrategistTimeout: getEnvAsDuration("STRATEGIST_TIMEOUT", 90*time.Second),

		CheckpointStore: strings.ToLower(getEnv("CHECKPOINT_STORE", StoreNone)),
		CheckpointTTL:   getEnvAsDuration("CHECKPOINT_TTL", 24*time.Hour),
		RedisAddr:       getEnv("REDIS_ADDR", DefaultRedisAddr),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		SQLitePath:      getEnv("SQLITE_PATH", DefaultSQLitePath),
		DatabaseURL:     getEnv("DATABASE_URL", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("45s") and bare seconds ("45").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
