package bootstrap

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/llm/ollama"
	"ai-docchat-be/pkg/rag/cache"
	"ai-docchat-be/pkg/rag/executor"
	"ai-docchat-be/pkg/rag/guardrails"
	"ai-docchat-be/pkg/rag/rerank"
	"ai-docchat-be/pkg/rag/rerank/jina"
	"ai-docchat-be/pkg/rag/session"
	"ai-docchat-be/pkg/search"
)

type Container struct {
	// Controllers
	QueryController controller.IQueryController
	AdminController controller.IAdminController

	// Exposed for health checks and the chat CLI
	QueryService service.IQueryService
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLogger := initPipelineLogger()

	// 2. Retrieval
	searchClient := search.NewClient(cfg.Search.BaseURL, cfg.Search.Index)
	log.Printf("[INFO] Using search index %q at %s", cfg.Search.Index, cfg.Search.BaseURL)

	// 3. Generation
	llmProvider := ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
	generator := llm.NewAnswerGenerator(llmProvider)
	log.Printf("[INFO] Using LLM Provider: OLLAMA (%s)", cfg.Ai.LLMModel)

	// 4. Re-ranking, only when a scoring key is configured
	var scorer rerank.Scorer
	if cfg.Ai.JinaAPIKey != "" {
		scorer = jina.NewClient(cfg.Ai.JinaAPIKey)
		log.Printf("[INFO] Using Re-rank Provider: JINA AI")
	} else {
		log.Printf("[INFO] Re-ranking disabled: JINA_API_KEY not set")
	}
	reranker := rerank.New(scorer, pipelineLogger)

	// 5. State
	sessions := session.NewStore()
	results := cache.New(
		time.Duration(cfg.Pipeline.CacheTTLSeconds)*time.Second,
		cfg.Pipeline.CacheMaxEntries,
	)

	// 6. Pipeline
	pipeline := executor.NewPipelineExecutor(
		searchClient,
		generator,
		reranker,
		guardrails.New(),
		sessions,
		results,
		pipelineLogger,
	)

	// 7. Services & Controllers
	queryService := service.NewQueryService(pipeline, sessions, results, sysLogger)

	return &Container{
		QueryController: controller.NewQueryController(queryService),
		AdminController: controller.NewAdminController(queryService),
		QueryService:    queryService,
	}
}

func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
