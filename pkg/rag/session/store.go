package session

import (
	"sync"
	"time"

	"ai-docchat-be/pkg/store"

	gocache "github.com/patrickmn/go-cache"
)

// MaxTurns caps every session history; the oldest turns are dropped first.
const MaxTurns = 20

// Store keeps per-session conversation history in memory. Sessions are
// created implicitly on first append and live until process shutdown; there
// is no persistence across restarts.
//
// go-cache gives safe concurrent access per key, but Append is a
// read-modify-write, so a store-level mutex serializes writers. Readers get a
// copy and never observe a torn history.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ids   map[string]struct{}
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		cache: gocache.New(gocache.NoExpiration, 0),
		ids:   map[string]struct{}{},
		now:   time.Now,
	}
}

// History returns a copy of the session's turns, oldest first. Unknown ids
// yield an empty history, never an error.
func (s *Store) History(sessionID string) []store.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLocked(sessionID)
}

func (s *Store) historyLocked(sessionID string) []store.ChatTurn {
	raw, found := s.cache.Get(sessionID)
	if !found {
		return nil
	}
	turns := raw.([]store.ChatTurn)
	out := make([]store.ChatTurn, len(turns))
	copy(out, turns)
	return out
}

// Append records one exchange: the user turn followed by the assistant turn,
// both stamped with the current time, then truncates to the newest MaxTurns.
func (s *Store) Append(sessionID, userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.historyLocked(sessionID)
	now := s.now()

	turns = append(turns,
		store.ChatTurn{Role: store.RoleUser, Content: userText, Timestamp: now},
		store.ChatTurn{Role: store.RoleAssistant, Content: assistantText, Timestamp: now},
	)

	if len(turns) > MaxTurns {
		turns = turns[len(turns)-MaxTurns:]
	}

	s.cache.Set(sessionID, turns, gocache.NoExpiration)
	s.ids[sessionID] = struct{}{}
}

// Clear removes a session and reports whether it existed.
func (s *Store) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.cache.Get(sessionID); !found {
		return false
	}
	s.cache.Delete(sessionID)
	delete(s.ids, sessionID)
	return true
}

// ActiveSessionIDs lists every session that currently holds history.
func (s *Store) ActiveSessionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// Count returns the number of active sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// TotalTurns sums the history length across all sessions.
func (s *Store) TotalTurns() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for id := range s.ids {
		if raw, found := s.cache.Get(id); found {
			total += len(raw.([]store.ChatTurn))
		}
	}
	return total
}
