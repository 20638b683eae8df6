package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fhfa-go/server/internal/models"

	"go.uber.org/zap"
)

// Store keeps the live sessions in memory. The single running stopwatch
// rule holds within each session, not across the Store.
type Store struct {
	ctx  context.Context
	log  *zap.Logger
	opts Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty Store. Sessions inherit ctx.
func NewStore(ctx context.Context, log *zap.Logger, opts Options) *Store {
	return &Store{
		ctx:      ctx,
		log:      log,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session for subject.
func (st *Store) Create(subject models.Subject) *Session {
	s := NewSession(st.ctx, st.log, subject, st.opts)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.log.Info("Assessment session created", zap.String("sessionID", s.ID))
	return s
}

// Get looks a session up by id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrSessionNotFound)
	}
	return s, nil
}

// Delete closes and forgets a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, models.ErrSessionNotFound)
	}
	s.Close()
	st.log.Info("Assessment session closed", zap.String("sessionID", id))
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Tick forwards a driver increment to every session.
func (st *Store) Tick(d time.Duration) {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.RUnlock()

	for _, s := range sessions {
		s.Tick(d)
	}
}

// Close closes every session.
func (st *Store) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		s.Close()
		delete(st.sessions, id)
	}
}
