package session

import (
	"fmt"
	"sync"
	"testing"

	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryUnknownSession(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.History("nope"))
}

func TestAppendAddsUserThenAssistant(t *testing.T) {
	s := NewStore()
	s.Append("s1", "what is X?", "X is ...")

	h := s.History("s1")
	require.Len(t, h, 2)
	assert.Equal(t, store.RoleUser, h[0].Role)
	assert.Equal(t, "what is X?", h[0].Content)
	assert.Equal(t, store.RoleAssistant, h[1].Role)
	assert.Equal(t, "X is ...", h[1].Content)
	assert.False(t, h[0].Timestamp.IsZero())
}

func TestSessionBound(t *testing.T) {
	for _, n := range []int{1, 5, 10, 11, 30} {
		t.Run(fmt.Sprintf("appends=%d", n), func(t *testing.T) {
			s := NewStore()
			for i := 0; i < n; i++ {
				s.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
			}

			want := 2 * n
			if want > MaxTurns {
				want = MaxTurns
			}
			h := s.History("s1")
			assert.Len(t, h, want)

			// Oldest turns go first; the newest exchange is always present.
			assert.Equal(t, fmt.Sprintf("a%d", n-1), h[len(h)-1].Content)
		})
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Append("s1", "q", "a")

	assert.True(t, s.Clear("s1"))
	assert.Empty(t, s.History("s1"))
	assert.False(t, s.Clear("s1"), "second clear reports missing session")
}

func TestActiveSessionIDs(t *testing.T) {
	s := NewStore()
	s.Append("a", "q", "r")
	s.Append("b", "q", "r")

	ids := s.ActiveSessionIDs()
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 4, s.TotalTurns())
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append("s1", "q", "a")

	h := s.History("s1")
	h[0].Content = "mutated"

	assert.Equal(t, "q", s.History("s1")[0].Content)
}

func TestConcurrentAppends(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append("shared", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
			s.History("shared")
		}(i)
	}
	wg.Wait()

	h := s.History("shared")
	assert.Len(t, h, MaxTurns)
	// Pairs must stay intact: user turn always precedes its assistant turn.
	for i := 0; i < len(h); i += 2 {
		assert.Equal(t, store.RoleUser, h[i].Role)
		assert.Equal(t, store.RoleAssistant, h[i+1].Role)
	}
}
