// File: services/assistant/sessions.go
package assistant

import (
	"sync"
	"time"
)

const (
	sessionTTL  = 30 * time.Minute
	maxMessages = 20
)

// session holds one conversation. History is capped at maxMessages so the
// provider context stays bounded.
type session struct {
	messages   []Message
	lastActive time.Time
}

// SessionStore is the in-memory, TTL-expiring conversation state. Every
// access sweeps the whole store; session counts are small (public chat
// widget), so the linear sweep is an acceptable trade.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      sessionTTL,
		now:      time.Now,
	}
}

// Touch creates the session if absent and marks it active.
func (s *SessionStore) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	sess.lastActive = s.now()
}

// Append adds messages to the session history, dropping the oldest entries
// beyond the cap. The session is created if it was evicted mid-conversation.
func (s *SessionStore) Append(id string, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	sess.messages = append(sess.messages, msgs...)
	if len(sess.messages) > maxMessages {
		sess.messages = sess.messages[len(sess.messages)-maxMessages:]
	}
	sess.lastActive = s.now()
}

// History returns a copy of the session's message history in order.
func (s *SessionStore) History(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := make([]Message, len(sess.messages))
	copy(out, sess.messages)
	return out
}

// sweep evicts sessions idle past the TTL. Caller holds the lock.
func (s *SessionStore) sweep() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastActive) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
