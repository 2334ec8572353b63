package rerank

import (
	"context"
	"log"
	"sort"

	"ai-docchat-be/pkg/store"
)

// Scorer scores (query, document) pairs with a pairwise relevance model. It
// is an optional capability: a nil or failing scorer is a degraded mode, not
// an error.
type Scorer interface {
	Score(ctx context.Context, query string, docs []string) ([]float64, error)
}

// Reranker re-orders retrieved passages by pairwise relevance to the query.
// Every failure path falls back to the provider's own ordering; Rerank never
// surfaces an error to the caller.
type Reranker struct {
	scorer Scorer
	logger *log.Logger
}

func New(scorer Scorer, logger *log.Logger) *Reranker {
	return &Reranker{scorer: scorer, logger: logger}
}

// Available reports whether a scoring model is wired in.
func (r *Reranker) Available() bool {
	return r.scorer != nil
}

// Rerank scores every candidate against the query, sorts descending by that
// score and truncates to topK. Ties and fallbacks keep the provider order
// (stable sort). With no scorer or a single candidate the first topK
// candidates come back unchanged.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []store.Passage, topK int) []store.Passage {
	if topK < 0 {
		topK = 0
	}

	if r.scorer == nil || len(candidates) <= 1 {
		return truncate(candidates, topK)
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = c.Content
	}

	scores, err := r.scorer.Score(ctx, query, docs)
	if err != nil || len(scores) != len(candidates) {
		if r.logger != nil {
			r.logger.Printf("[RERANK] scoring failed, keeping provider order: %v", err)
		}
		return truncate(candidates, topK)
	}

	ranked := make([]store.Passage, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		ranked[i].RerankScore = scores[i]
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RerankScore > ranked[j].RerankScore
	})

	return truncate(ranked, topK)
}

func truncate(passages []store.Passage, topK int) []store.Passage {
	if len(passages) <= topK {
		return passages
	}
	return passages[:topK]
}
