package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/priorly/priorly-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	query := `INSERT INTO sessions (id, user_id, created_at, expires_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID joins against users so a session whose user vanished cannot
// resolve to authenticated. Expired rows fall out of the predicate.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID, now time.Time) (model.Session, error) {
	var session model.Session
	query := `SELECT s.id, s.user_id, s.created_at, s.expires_at
			  FROM sessions s
			  JOIN users u ON u.id = s.user_id
			  WHERE s.id = $1 AND s.expires_at > $2`

	err := r.db.QueryRow(ctx, query, id, now).Scan(
		&session.ID, &session.UserID, &session.CreatedAt, &session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sessions WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (r *SessionRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID, except *uuid.UUID) error {
	if except != nil {
		query := `DELETE FROM sessions WHERE user_id = $1 AND id <> $2`
		if _, err := r.db.Exec(ctx, query, userID, *except); err != nil {
			return fmt.Errorf("failed to delete sessions by user: %w", err)
		}
		return nil
	}

	query := `DELETE FROM sessions WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete sessions by user: %w", err)
	}

	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= $1`

	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
