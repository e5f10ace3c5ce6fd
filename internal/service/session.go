package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/model"
)

// Session is the registry mapping opaque tokens to user identities.
// Policy is multi-session: a user may hold any number of concurrent
// sessions; RevokeAll implements logout-everywhere.
type Session struct {
	users  model.UserStore
	store  model.SessionStore
	logger *logger.Logger

	now func() time.Time
}

func NewSession(users model.UserStore, store model.SessionStore, logger *logger.Logger) *Session {
	return &Session{
		users:  users,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Issue creates a session for the user. ErrUnknownUser when the id does
// not resolve in the credential store.
func (s *Session) Issue(ctx context.Context, userID uuid.UUID) (model.Session, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.ErrUnknownUser
		}
		return model.Session{}, fmt.Errorf("failed to resolve user: %w", err)
	}

	now := s.now()
	session := model.Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(model.SessionTTL),
	}

	if err := s.store.Create(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Session service: session issued",
		"user_id", userID,
		"session_id", session.ID)

	return session, nil
}

// Resolve returns the session behind the token. Malformed tokens,
// unknown tokens, expired sessions and sessions of deleted users all
// come back as ErrNotFound.
func (s *Session) Resolve(ctx context.Context, token string) (model.Session, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return model.Session{}, model.ErrNotFound
	}

	session, err := s.store.GetByID(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to resolve session: %w", err)
	}

	return session, nil
}

// Revoke invalidates a single token. Idempotent: unknown and malformed
// tokens are not errors.
func (s *Session) Revoke(ctx context.Context, token string) error {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.logger.Info("Session service: session revoked", "session_id", id)

	return nil
}

// RevokeAll invalidates every session of the user, optionally sparing
// one (so a password change does not log out the tab performing it).
func (s *Session) RevokeAll(ctx context.Context, userID uuid.UUID, except *uuid.UUID) error {
	if err := s.store.DeleteAllByUser(ctx, userID, except); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.logger.Info("Session service: all sessions revoked", "user_id", userID)

	return nil
}

// Sweep drops sessions past their expiry.
func (s *Session) Sweep(ctx context.Context) {
	deleted, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("Session service: sweep failed", "error", err.Error())
		return
	}
	if deleted > 0 {
		s.logger.Debug("Session service: swept expired sessions", "count", deleted)
	}
}
