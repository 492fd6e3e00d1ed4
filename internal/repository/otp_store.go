package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/edutrack/edutrack-api/internal/model"
)

// ErrSessionNotFound is returned when no entry exists for a session id.
// Absence is a normal outcome of the lifecycle, not a fault.
var ErrSessionNotFound = errors.New("otp session not found")

// OTPStore holds pending passcode sessions keyed by session id. The auth
// service is the sole business-logic mutator; the background sweeper only
// deletes. Implementations must make each operation atomic, the service
// serializes multi-operation sequences itself.
type OTPStore interface {
	// Put inserts or overwrites the entry under its session id
	Put(ctx context.Context, session *model.OTPSession) error
	// Get returns the entry, or ErrSessionNotFound
	Get(ctx context.Context, sessionID string) (*model.OTPSession, error)
	// Delete removes the entry; deleting an absent id is a no-op
	Delete(ctx context.Context, sessionID string) error
	// DeleteByEmail removes every entry issued for the given address
	DeleteByEmail(ctx context.Context, email string) error
	// SweepExpired removes all entries past their expiry, returning the count
	SweepExpired(ctx context.Context) (int, error)
}

// MemoryOTPStore is the single-instance OTPStore backed by a process-wide map.
type MemoryOTPStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.OTPSession
	now      func() time.Time
}

// NewMemoryOTPStore creates an empty in-memory store
func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{
		sessions: make(map[string]*model.OTPSession),
		now:      time.Now,
	}
}

// SetClock overrides the store's time source (tests only)
func (s *MemoryOTPStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Put inserts or overwrites the entry under its session id
func (s *MemoryOTPStore) Put(_ context.Context, session *model.OTPSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.SessionID] = &cp
	return nil
}

// Get returns the entry for a session id. Expiry is not checked here; the
// auth service decides what an expired entry means.
func (s *MemoryOTPStore) Get(_ context.Context, sessionID string) (*model.OTPSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

// Delete removes the entry; deleting an absent id is a no-op
func (s *MemoryOTPStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// DeleteByEmail removes every entry issued for the given address
func (s *MemoryOTPStore) DeleteByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.Email == email {
			delete(s.sessions, id)
		}
	}
	return nil
}

// SweepExpired removes all entries past their expiry
func (s *MemoryOTPStore) SweepExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live entries (tests and diagnostics)
func (s *MemoryOTPStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
