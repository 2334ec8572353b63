package search

import (
	"context"

	"ai-docchat-be/pkg/store"
)

// Provider executes hybrid search against the document index. An empty result
// list is a valid outcome (nothing matched), not an error; errors mean the
// provider itself was unreachable or timed out.
type Provider interface {
	Search(ctx context.Context, query string, mode store.SearchMode, topN int) ([]store.Passage, error)
}
