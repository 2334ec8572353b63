package executor

import (
	"context"
	"log"
	"strings"

	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/rag/cache"
	"ai-docchat-be/pkg/rag/guardrails"
	"ai-docchat-be/pkg/rag/optimizer"
	"ai-docchat-be/pkg/rag/rerank"
	"ai-docchat-be/pkg/rag/session"
	"ai-docchat-be/pkg/search"
	"ai-docchat-be/pkg/store"
)

// Generator produces a grounded answer from the query, ranked context and
// recent history. Its implementation owns the retry budget; an error here
// means that budget is spent.
type Generator interface {
	GenerateAnswer(ctx context.Context, query string, passages []store.Passage, history []store.ChatTurn) (*llm.Result, error)
}

// User-facing pipeline strings. The transport layer returns these verbatim.
const (
	MsgEmptyQuery       = "Please provide a valid question."
	MsgGuardrailBlocked = "I cannot process this query due to content guidelines."
	MsgNoResults        = "I couldn't find any relevant information to answer your question. Please try rephrasing or ask about something else."
	MsgRetrievalFailed  = "I apologize, but I encountered an error while processing your query. Please try again."
	MsgGenerationFailed = "I apologize, but I'm unable to generate an answer right now. Please try again."
)

const defaultMaxResults = 5

// Request is one query through the pipeline.
type Request struct {
	Query           string
	SessionID       string
	Mode            store.SearchMode
	MaxResults      int
	EnableReranking bool
}

// PipelineExecutor sequences the query pipeline:
// cache check -> guardrails -> optimize -> context enhancement -> retrieval
// -> re-rank -> generation -> output guardrails -> session update -> cache
// write. It is the only component the transport layer talks to, and it never
// lets a stage failure escape as an error: every outcome is a PipelineResult.
type PipelineExecutor struct {
	retriever search.Provider
	generator Generator
	reranker  *rerank.Reranker
	guard     *guardrails.Validator
	sessions  *session.Store
	results   *cache.ResultCache
	logger    *log.Logger
}

func NewPipelineExecutor(
	retriever search.Provider,
	generator Generator,
	reranker *rerank.Reranker,
	guard *guardrails.Validator,
	sessions *session.Store,
	results *cache.ResultCache,
	logger *log.Logger,
) *PipelineExecutor {
	return &PipelineExecutor{
		retriever: retriever,
		generator: generator,
		reranker:  reranker,
		guard:     guard,
		sessions:  sessions,
		results:   results,
		logger:    logger,
	}
}

// RerankerAvailable reports whether a scoring model is wired in.
func (p *PipelineExecutor) RerankerAvailable() bool {
	return p.reranker != nil && p.reranker.Available()
}

// ProcessQuery runs one query end to end and always returns a result.
func (p *PipelineExecutor) ProcessQuery(ctx context.Context, req Request) *store.PipelineResult {
	if !req.Mode.Valid() {
		req.Mode = store.ModeHybrid
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultMaxResults
	}

	if strings.TrimSpace(req.Query) == "" {
		return &store.PipelineResult{
			Success:    false,
			Error:      "Empty query provided",
			Answer:     MsgEmptyQuery,
			Sources:    []store.Source{},
			SearchMode: req.Mode,
			SessionID:  req.SessionID,
		}
	}

	// Step 1: cache first. A hit skips retrieval and generation entirely.
	if cached, ok := p.results.Lookup(req.Query, req.Mode); ok {
		p.logger.Printf("[PIPELINE] Cache hit for session %s", req.SessionID)
		cached.SessionID = req.SessionID
		return cached
	}

	// Step 2: input guardrails.
	verdict := p.guard.ValidateQuery(req.Query)
	if !verdict.Valid {
		p.logger.Printf("[PIPELINE] Query rejected: %s", verdict.Reason)
		return &store.PipelineResult{
			Success:    false,
			Error:      verdict.Reason,
			Answer:     MsgGuardrailBlocked,
			Sources:    []store.Source{},
			SearchMode: req.Mode,
			SessionID:  req.SessionID,
		}
	}

	// Step 3: query rewriting.
	optimized := optimizer.Optimize(req.Query)

	// Step 4: context-aware enhancement from the session history.
	history := p.sessions.History(req.SessionID)
	contextual := enhanceQueryWithContext(optimized, history)

	p.logger.Printf("[PIPELINE] Processing query %q (original %q)", contextual, req.Query)

	// Step 5: retrieval, overfetched 3x when the re-ranker gets a say.
	topN := req.MaxResults
	if req.EnableReranking {
		topN = req.MaxResults * 3
	}

	retrieved, err := p.retriever.Search(ctx, contextual, req.Mode, topN)
	if err != nil {
		p.logger.Printf("[ERROR] Retrieval failed: %v", err)
		return &store.PipelineResult{
			Success:    false,
			Error:      err.Error(),
			Answer:     MsgRetrievalFailed,
			Sources:    []store.Source{},
			SearchMode: req.Mode,
			SessionID:  req.SessionID,
		}
	}

	if len(retrieved) == 0 {
		result := &store.PipelineResult{
			Success:     true,
			Answer:      MsgNoResults,
			Sources:     []store.Source{},
			ContextUsed: false,
			SearchMode:  req.Mode,
			SessionID:   req.SessionID,
		}
		// Negative outcomes are worth caching too.
		p.results.Store(req.Query, req.Mode, result)
		return result
	}

	// Step 6: re-rank, trimming to the requested count.
	reranked := req.EnableReranking && len(retrieved) > 1 && p.reranker != nil
	var ranked []store.Passage
	if reranked {
		p.logger.Printf("[PIPELINE] Re-ranking %d candidates", len(retrieved))
		ranked = p.reranker.Rerank(ctx, contextual, retrieved, req.MaxResults)
	} else {
		ranked = retrieved
		if len(ranked) > req.MaxResults {
			ranked = ranked[:req.MaxResults]
		}
	}

	// Step 7: generation.
	genResult, err := p.generator.GenerateAnswer(ctx, req.Query, ranked, history)
	if err != nil {
		p.logger.Printf("[ERROR] Generation failed: %v", err)
		return &store.PipelineResult{
			Success:    false,
			Error:      err.Error(),
			Answer:     MsgGenerationFailed,
			Sources:    []store.Source{},
			SearchMode: req.Mode,
			SessionID:  req.SessionID,
		}
	}

	// Step 8: output guardrails before anything is stored or returned.
	answer := p.guard.SanitizeAnswer(genResult.Answer, ranked)

	// Step 9: record the exchange in the session.
	p.sessions.Append(req.SessionID, req.Query, answer)

	result := &store.PipelineResult{
		Success:        true,
		Answer:         answer,
		Sources:        genResult.Sources,
		ContextUsed:    genResult.ContextUsed,
		SearchMode:     req.Mode,
		RetrievedCount: len(ranked),
		SessionID:      req.SessionID,
		Cached:         false,
		Reranked:       reranked,
	}

	// Step 10: cache the success.
	p.results.Store(req.Query, req.Mode, result)

	return result
}

// enhanceQueryWithContext appends up to three recent conversation terms to
// the optimized query. This is a word-length heuristic, not semantic
// expansion: the last six turns are scanned, user turns only, words longer
// than three characters, de-duplicated in order of first appearance.
func enhanceQueryWithContext(query string, history []store.ChatTurn) string {
	if len(history) == 0 {
		return query
	}

	recent := history
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}

	seen := make(map[string]struct{})
	var terms []string
	for _, turn := range recent {
		if turn.Role != store.RoleUser {
			continue
		}
		for _, word := range strings.Fields(turn.Content) {
			if len(word) <= 3 {
				continue
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			terms = append(terms, word)
		}
	}

	if len(terms) == 0 {
		return query
	}
	if len(terms) > 3 {
		terms = terms[:3]
	}

	return query + " " + strings.Join(terms, " ")
}
