package rerank

import (
	"context"
	"errors"
	"testing"

	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type stubScorer struct {
	scores []float64
	err    error
	calls  int
}

func (s *stubScorer) Score(_ context.Context, _ string, docs []string) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

func passages(contents ...string) []store.Passage {
	out := make([]store.Passage, len(contents))
	for i, c := range contents {
		out[i] = store.Passage{ChunkID: c, Content: c, Score: float64(len(contents) - i)}
	}
	return out
}

func ids(ps []store.Passage) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ChunkID
	}
	return out
}

func TestRerankNoScorerKeepsProviderOrder(t *testing.T) {
	r := New(nil, nil)
	cands := passages("a", "b", "c", "d")

	got := r.Rerank(context.Background(), "q", cands, 2)
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.False(t, r.Available())
}

func TestRerankSingleCandidateSkipsScoring(t *testing.T) {
	scorer := &stubScorer{scores: []float64{1}}
	r := New(scorer, nil)

	got := r.Rerank(context.Background(), "q", passages("only"), 5)
	assert.Equal(t, []string{"only"}, ids(got))
	assert.Zero(t, scorer.calls)
}

func TestRerankSortsByScoreDescending(t *testing.T) {
	scorer := &stubScorer{scores: []float64{0.1, 0.9, 0.5}}
	r := New(scorer, nil)

	got := r.Rerank(context.Background(), "q", passages("a", "b", "c"), 3)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
	assert.Equal(t, 0.9, got[0].RerankScore)
}

func TestRerankTiesKeepProviderOrder(t *testing.T) {
	scorer := &stubScorer{scores: []float64{0.5, 0.5, 0.5}}
	r := New(scorer, nil)

	got := r.Rerank(context.Background(), "q", passages("a", "b", "c"), 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestRerankTruncatesToTopK(t *testing.T) {
	scorer := &stubScorer{scores: []float64{0.1, 0.9, 0.5, 0.7}}
	r := New(scorer, nil)

	got := r.Rerank(context.Background(), "q", passages("a", "b", "c", "d"), 2)
	assert.Equal(t, []string{"b", "d"}, ids(got))
}

func TestRerankScorerFailureFallsBack(t *testing.T) {
	scorer := &stubScorer{err: errors.New("model offline")}
	r := New(scorer, nil)
	cands := passages("a", "b", "c")

	got := r.Rerank(context.Background(), "q", cands, 2)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestRerankScoreCountMismatchFallsBack(t *testing.T) {
	scorer := &stubScorer{scores: []float64{0.9}}
	r := New(scorer, nil)

	got := r.Rerank(context.Background(), "q", passages("a", "b", "c"), 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestRerankDoesNotMutateInput(t *testing.T) {
	scorer := &stubScorer{scores: []float64{0.1, 0.9}}
	r := New(scorer, nil)
	cands := passages("a", "b")

	r.Rerank(context.Background(), "q", cands, 2)
	assert.Zero(t, cands[0].RerankScore, "input slice must stay untouched")
}
