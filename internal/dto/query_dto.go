package dto

import (
	"time"

	"ai-docchat-be/pkg/rag/cache"
)

type ProcessQueryRequest struct {
	Query           string `json:"query" validate:"required,max=500"`
	SessionID       string `json:"session_id,omitempty"`
	SearchMode      string `json:"search_mode,omitempty" validate:"omitempty,oneof=hybrid sparse lexical"`
	MaxResults      int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=20"`
	EnableReranking *bool  `json:"enable_reranking,omitempty"` // nil means enabled
}

type ChatTurnResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionHistoryResponse struct {
	SessionID string             `json:"session_id"`
	Turns     []ChatTurnResponse `json:"turns"`
}

type ActiveSessionsResponse struct {
	Sessions []string `json:"sessions"`
}

type SystemStatsResponse struct {
	ActiveSessions    int         `json:"active_sessions"`
	TotalChatMessages int         `json:"total_chat_messages"`
	CacheStats        cache.Stats `json:"cache_stats"`
	RerankerAvailable bool        `json:"reranker_available"`
}
