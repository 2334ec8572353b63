package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Search   SearchConfig
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type SearchConfig struct {
	BaseURL string
	Index   string
}

type AIConfig struct {
	OllamaBaseURL string
	LLMModel      string
	JinaAPIKey    string // empty disables re-rank scoring
}

type PipelineConfig struct {
	CacheTTLSeconds   int
	CacheMaxEntries   int
	DefaultMaxResults int
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Search: SearchConfig{
			BaseURL: getEnv("SEARCH_BASE_URL", "http://localhost:9200"),
			Index:   getEnv("SEARCH_INDEX", "document_chunks"),
		},
		Ai: AIConfig{
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			JinaAPIKey:    getEnv("JINA_API_KEY", ""),
		},
		Pipeline: PipelineConfig{
			CacheTTLSeconds:   getEnvAsInt("CACHE_TTL_SECONDS", 300),
			CacheMaxEntries:   getEnvAsInt("CACHE_MAX_ENTRIES", 100),
			DefaultMaxResults: getEnvAsInt("DEFAULT_MAX_RESULTS", 5),
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
