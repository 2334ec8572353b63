package cache

import (
	"fmt"
	"testing"
	"time"

	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(answer string) *store.PipelineResult {
	return &store.PipelineResult{
		Success:    true,
		Answer:     answer,
		SearchMode: store.ModeHybrid,
	}
}

func TestStoreThenLookup(t *testing.T) {
	c := New(DefaultTTL, DefaultCapacity)

	c.Store("What is RAG?", store.ModeHybrid, testResult("retrieval augmented generation"))

	got, ok := c.Lookup("What is RAG?", store.ModeHybrid)
	require.True(t, ok)
	assert.Equal(t, "retrieval augmented generation", got.Answer)
	assert.True(t, got.Cached, "served entries must be flagged cached")
}

func TestLookupNormalizesQuery(t *testing.T) {
	c := New(DefaultTTL, DefaultCapacity)

	c.Store("What is RAG?", store.ModeHybrid, testResult("a"))

	_, ok := c.Lookup("  what is rag?  ", store.ModeHybrid)
	assert.True(t, ok, "case and whitespace must not split entries")

	_, ok = c.Lookup("What is RAG?", store.ModeLexical)
	assert.False(t, ok, "different search mode is a different key")
}

func TestExpiredEntryIsAbsentAndPurged(t *testing.T) {
	c := New(300*time.Second, DefaultCapacity)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Store("q", store.ModeHybrid, testResult("a"))

	c.now = func() time.Time { return base.Add(301 * time.Second) }
	_, ok := c.Lookup("q", store.ModeHybrid)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Count, "expired entry must be purged on access")
}

func TestCapacityEvictsOldestInsertion(t *testing.T) {
	c := New(DefaultTTL, 3)

	base := time.Now()
	for i := 0; i < 3; i++ {
		offset := time.Duration(i) * time.Second
		c.now = func() time.Time { return base.Add(offset) }
		c.Store(fmt.Sprintf("query-%d", i), store.ModeHybrid, testResult("a"))
	}

	// Reading the oldest entry must not save it from eviction.
	c.Lookup("query-0", store.ModeHybrid)

	c.now = func() time.Time { return base.Add(10 * time.Second) }
	c.Store("query-3", store.ModeHybrid, testResult("a"))

	assert.Equal(t, 3, c.Stats().Count)
	_, ok := c.Lookup("query-0", store.ModeHybrid)
	assert.False(t, ok, "oldest-inserted entry should have been evicted")
	_, ok = c.Lookup("query-3", store.ModeHybrid)
	assert.True(t, ok)
}

func TestStatsHitRate(t *testing.T) {
	c := New(DefaultTTL, DefaultCapacity)

	c.Store("q", store.ModeHybrid, testResult("a"))
	c.Lookup("q", store.ModeHybrid)    // hit
	c.Lookup("miss", store.ModeHybrid) // miss

	s := c.Stats()
	assert.Equal(t, 1, s.Count)
	assert.InDelta(t, 0.5, s.HitRate, 1e-9)
}

func TestClear(t *testing.T) {
	c := New(DefaultTTL, DefaultCapacity)
	c.Store("q", store.ModeHybrid, testResult("a"))
	c.Clear()
	assert.Equal(t, 0, c.Stats().Count)
}
