package session

import (
	"context"
	"errors"
	"time"
)

// Status tracks whether a session has been activated by the client yet.
type Status string

const (
	// StatusPending sessions were created by a completed sign-in attempt
	// and are not usable until the client activates them.
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

var ErrNotFound = errors.New("session: not found")

// Session represents an authenticated user session.
// It intentionally stores only identity pointers, not auth state.
type Session struct {
	SessionID         string    `json:"session_id"`
	UserID            string    `json:"user_id"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	AbsoluteExpiresAt time.Time `json:"absolute_expires_at"` // hard upper bound once active
	ExpiresAt         time.Time `json:"expires_at"`          // current expiry
}

// Active reports whether the session may authorize requests at now.
func (s *Session) Active(now time.Time) bool {
	return s.Status == StatusActive && now.Before(s.ExpiresAt)
}

// Store defines how sessions are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
	// Activate moves a pending session to active. Activating an active
	// session is a no-op. Unknown or expired sessions yield ErrNotFound.
	Activate(ctx context.Context, sessionID string) (*Session, error)
}

// NewPending builds a session awaiting activation.
func NewPending(sessionID, userID string, now time.Time, pendingTTL, ttl time.Duration) Session {
	return Session{
		SessionID:         sessionID,
		UserID:            userID,
		Status:            StatusPending,
		CreatedAt:         now,
		AbsoluteExpiresAt: now.Add(ttl),
		ExpiresAt:         now.Add(pendingTTL),
	}
}
