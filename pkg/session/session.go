// Package session provides per-session scan memory for the agent surface.
//
// The surrounding conversational agent needs the last scan's packages to
// answer follow-up requests (e.g. running a vulnerability lookup without
// resending the package list). That memory is deliberately not
// process-wide state: it is an explicit store keyed by session identifier,
// created and torn down with the session's lifecycle.
//
// Two backends are included:
//   - memory: in-process storage for development and single-instance runs
//   - redis: shared storage for multi-instance deployments
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sandijean90/SecurityAgent/pkg/scan"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores one conversation's scan memory.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// LastScan is the most recent discovery result for this session,
	// nil before the first scan completes.
	LastScan *scan.Result `json:"last_scan,omitempty"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a session with a fresh identifier and the given TTL.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if it doesn't exist and ErrExpired if it has
	// exceeded its TTL.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for backends with
	// native expiry).
	Cleanup(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}
