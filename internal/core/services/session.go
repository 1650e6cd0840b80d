package services

import (
	"context"
	"sync"
	"time"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/logger"
)

// Session is one conversation, owned exclusively by the SessionStore.
// Appends are serialised per session; two concurrent requests for the same
// id never interleave into a corrupted message list.
type Session struct {
	// ID is the opaque session identifier.
	ID string

	mu         sync.Mutex
	messages   []domain.Message
	lastActive time.Time
}

// Append adds a message and refreshes the idle clock.
func (s *Session) Append(role domain.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.messages = append(s.messages, domain.Message{
		Role:      role,
		Content:   content,
		CreatedAt: now,
	})
	s.lastActive = now
}

// Messages returns a copy of the conversation in append order.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]domain.Message, len(s.messages))
	copy(cp, s.messages)
	return cp
}

// LastActive returns when the session was last touched.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = t
}

// SessionStore holds short-lived conversations in memory, keyed by session
// id, with idle-based expiry. Sessions are created on first reference and
// destroyed by the sweep task once idle longer than the configured TTL.
// Nothing is persisted; a process restart clears all sessions.
type SessionStore struct {
	cfg domain.SessionConfig
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	refs     map[string]int

	lifecycle sync.Mutex
	running   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewSessionStore creates an empty store.
func NewSessionStore(cfg domain.SessionConfig) *SessionStore {
	return &SessionStore{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
		refs:     make(map[string]int),
	}
}

// Acquire returns the session for id, creating it on first reference, and
// pins it against the sweeper for the duration of the request. Callers
// must Release once done; a pinned session is never deleted under a
// handler mid-request.
func (s *SessionStore) Acquire(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
		logger.Debug("session %q created", id)
	}
	s.refs[id]++
	sess.touch(s.now())

	return sess
}

// Release unpins a session acquired with Acquire.
func (s *SessionStore) Release(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs[sess.ID] > 0 {
		s.refs[sess.ID]--
	}
	if s.refs[sess.ID] == 0 {
		delete(s.refs, sess.ID)
	}
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep deletes sessions idle longer than the TTL. Pinned sessions
// survive regardless of idle time.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.cfg.TTL)
	removed := 0
	for id, sess := range s.sessions {
		if s.refs[id] > 0 {
			continue
		}
		if sess.LastActive().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		logger.Debug("session sweep removed %d expired sessions", removed)
	}
	return removed
}

// Start begins the periodic sweep task. It blocks until Stop is called or
// the context is cancelled, mirroring the lifecycle of the other
// long-running tasks owned by the process.
func (s *SessionStore) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	if s.running {
		s.lifecycle.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.lifecycle.Unlock()

	s.wg.Add(1)
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Stop shuts down the sweep task and waits for it to exit.
func (s *SessionStore) Stop() error {
	s.lifecycle.Lock()
	if !s.running {
		s.lifecycle.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.lifecycle.Unlock()

	s.wg.Wait()
	return nil
}
