package store

import "time"

// SearchMode selects which retrieval strategy the search provider uses.
type SearchMode string

const (
	ModeHybrid  SearchMode = "hybrid"  // lexical + dense vector, merged
	ModeSparse  SearchMode = "sparse"  // sparse text-expansion only
	ModeLexical SearchMode = "lexical" // keyword matching only
)

// Valid reports whether the mode is one of the supported variants.
func (m SearchMode) Valid() bool {
	switch m {
	case ModeHybrid, ModeSparse, ModeLexical:
		return true
	}
	return false
}

// Passage is a retrieved document chunk with provenance.
// Score is assigned by the search provider; RerankScore is appended by the
// re-ranker and is zero when re-ranking did not run.
type Passage struct {
	ChunkID     string  `json:"chunk_id"`
	Content     string  `json:"content"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	FileName    string  `json:"file_name"`
	ChunkIndex  int     `json:"chunk_index"`
	Score       float64 `json:"score"`
	RerankScore float64 `json:"rerank_score,omitempty"`
}

// Source is the citation form of a passage returned to clients.
type Source struct {
	Title    string `json:"title"`
	FileName string `json:"filename"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
}

// ChatTurn is a single message in a session. Turns are append-only.
type ChatTurn struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PipelineResult is the unit returned by the pipeline, and the unit cached.
// Once built it is immutable and may be shared by value.
type PipelineResult struct {
	Success        bool       `json:"success"`
	Answer         string     `json:"answer"`
	Error          string     `json:"error,omitempty"`
	Sources        []Source   `json:"sources"`
	ContextUsed    bool       `json:"context_used"`
	SearchMode     SearchMode `json:"search_mode"`
	RetrievedCount int        `json:"retrieved_count"`
	SessionID      string     `json:"session_id"`
	Cached         bool       `json:"cached"`
	Reranked       bool       `json:"reranked"`
}
