package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is the absolute session lifetime from creation. It also
// drives the cookie max-age at the transport layer; the store re-checks
// it at resolve time.
const SessionTTL = 3 * 24 * time.Hour

// SessionStore persists authenticated sessions. Sessions are immutable:
// create, resolve and delete only. A user may hold many concurrent
// sessions; DeleteAllByUser implements the logout-everywhere policy.
type SessionStore interface {
	Create(ctx context.Context, session Session) error

	// GetByID returns the session for the token. Expired sessions and
	// sessions whose user no longer exists are ErrNotFound, never an
	// internal error.
	GetByID(ctx context.Context, id uuid.UUID, now time.Time) (Session, error)

	// Delete is idempotent; deleting a missing session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllByUser removes every session for the user, optionally
	// sparing one (nil spares none).
	DeleteAllByUser(ctx context.Context, userID uuid.UUID, except *uuid.UUID) error

	// DeleteExpired removes sessions past their expiry.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Session maps an opaque token to a user identity. The ID doubles as
// the client-held token: a v4 UUID drawn from crypto/rand, never a
// sequential value.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}
