package chat

import (
	"sync"

	"github.com/google/uuid"
)

// Turn is one ephemeral conversation entry. History lives only for the
// process lifetime and is never persisted.
type Turn struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SessionStore keeps per-session conversation logs in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]Turn),
	}
}

// Resolve returns the given session id, or a fresh one when blank.
func (s *SessionStore) Resolve(sessionID string) string {
	if sessionID == "" {
		return uuid.New().String()
	}
	return sessionID
}

// Append adds a turn to a session's log.
func (s *SessionStore) Append(sessionID string, turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
}

// History returns a copy of a session's ordered turns.
func (s *SessionStore) History(sessionID string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
