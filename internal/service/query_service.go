package service

import (
	"context"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/rag/cache"
	"ai-docchat-be/pkg/rag/executor"
	"ai-docchat-be/pkg/rag/session"
	"ai-docchat-be/pkg/store"

	"github.com/google/uuid"
)

type IQueryService interface {
	ProcessQuery(ctx context.Context, req *dto.ProcessQueryRequest) *store.PipelineResult
	GetChatHistory(sessionID string) *dto.SessionHistoryResponse
	ClearSession(sessionID string) bool
	ActiveSessions() *dto.ActiveSessionsResponse
	CacheStats() cache.Stats
	ClearCache()
	SystemStats() *dto.SystemStatsResponse
}

type queryService struct {
	pipeline *executor.PipelineExecutor
	sessions *session.Store
	results  *cache.ResultCache
	log      logger.ILogger
}

func NewQueryService(
	pipeline *executor.PipelineExecutor,
	sessions *session.Store,
	results *cache.ResultCache,
	log logger.ILogger,
) IQueryService {
	return &queryService{pipeline: pipeline, sessions: sessions, results: results, log: log}
}

func (s *queryService) ProcessQuery(ctx context.Context, req *dto.ProcessQueryRequest) *store.PipelineResult {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	mode := store.SearchMode(req.SearchMode)
	if !mode.Valid() {
		mode = store.ModeHybrid
	}

	// Re-ranking is opt-out: an absent flag means enabled.
	enableReranking := req.EnableReranking == nil || *req.EnableReranking

	s.log.Info("query", "processing query", map[string]interface{}{
		"session_id":  sessionID,
		"search_mode": string(mode),
		"reranking":   enableReranking,
	})

	result := s.pipeline.ProcessQuery(ctx, executor.Request{
		Query:           req.Query,
		SessionID:       sessionID,
		Mode:            mode,
		MaxResults:      req.MaxResults,
		EnableReranking: enableReranking,
	})

	if !result.Success {
		s.log.Warn("query", "query did not complete", map[string]interface{}{
			"session_id": sessionID,
			"reason":     result.Error,
		})
	}
	return result
}

func (s *queryService) GetChatHistory(sessionID string) *dto.SessionHistoryResponse {
	history := s.sessions.History(sessionID)
	turns := make([]dto.ChatTurnResponse, 0, len(history))
	for _, t := range history {
		turns = append(turns, dto.ChatTurnResponse{
			Role:      t.Role,
			Content:   t.Content,
			Timestamp: t.Timestamp,
		})
	}
	return &dto.SessionHistoryResponse{SessionID: sessionID, Turns: turns}
}

func (s *queryService) ClearSession(sessionID string) bool {
	cleared := s.sessions.Clear(sessionID)
	if cleared {
		s.log.Info("session", "session cleared", map[string]interface{}{"session_id": sessionID})
	}
	return cleared
}

func (s *queryService) ActiveSessions() *dto.ActiveSessionsResponse {
	return &dto.ActiveSessionsResponse{Sessions: s.sessions.ActiveSessionIDs()}
}

func (s *queryService) CacheStats() cache.Stats {
	return s.results.Stats()
}

func (s *queryService) ClearCache() {
	s.results.Clear()
	s.log.Info("cache", "result cache cleared", nil)
}

func (s *queryService) SystemStats() *dto.SystemStatsResponse {
	return &dto.SystemStatsResponse{
		ActiveSessions:    s.sessions.Count(),
		TotalChatMessages: s.sessions.TotalTurns(),
		CacheStats:        s.results.Stats(),
		RerankerAvailable: s.pipeline.RerankerAvailable(),
	}
}
