package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/priorly/priorly-server/internal/model"
)

var _ model.OTPStore = (*OTPRepository)(nil)

type OTPRepository struct {
	db *Connection
}

func NewOTPRepository(db *Connection) *OTPRepository {
	return &OTPRepository{
		db: db,
	}
}

func (r *OTPRepository) Create(ctx context.Context, otp model.OTP) error {
	query := `INSERT INTO otps (code, email, operation, name, password_hash, new_email, issued_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		otp.Code, otp.Email, otp.Operation, otp.Name, otp.PasswordHash, otp.NewEmail,
		otp.IssuedAt, otp.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrOTPConflict
		}
		return fmt.Errorf("failed to create otp: %w", err)
	}

	return nil
}

func (r *OTPRepository) GetByEmail(ctx context.Context, email string) (model.OTP, error) {
	var otp model.OTP
	query := `SELECT code, email, operation, name, password_hash, new_email, issued_at, expires_at
			  FROM otps WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&otp.Code, &otp.Email, &otp.Operation, &otp.Name, &otp.PasswordHash, &otp.NewEmail,
		&otp.IssuedAt, &otp.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.OTP{}, model.ErrNotFound
		}
		return model.OTP{}, fmt.Errorf("failed to get otp by email: %w", err)
	}

	return otp, nil
}

func (r *OTPRepository) DeleteByEmail(ctx context.Context, email string) error {
	query := `DELETE FROM otps WHERE email = $1`

	if _, err := r.db.Exec(ctx, query, email); err != nil {
		return fmt.Errorf("failed to delete otp by email: %w", err)
	}

	return nil
}

// ConsumeCode is a single conditional delete so that validity check and
// invalidation cannot race: of N concurrent consumers exactly one gets
// the row back, the rest see ErrNotFound.
func (r *OTPRepository) ConsumeCode(ctx context.Context, code int, email string, operation model.OTPOperation, now time.Time) (model.OTP, error) {
	var otp model.OTP
	query := `DELETE FROM otps
			  WHERE code = $1 AND email = $2 AND operation = $3 AND expires_at > $4
			  RETURNING code, email, operation, name, password_hash, new_email, issued_at, expires_at`

	err := r.db.QueryRow(ctx, query, code, email, operation, now).Scan(
		&otp.Code, &otp.Email, &otp.Operation, &otp.Name, &otp.PasswordHash, &otp.NewEmail,
		&otp.IssuedAt, &otp.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.OTP{}, model.ErrNotFound
		}
		return model.OTP{}, fmt.Errorf("failed to consume otp: %w", err)
	}

	return otp, nil
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM otps WHERE expires_at <= $1`

	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", err)
	}

	return tag.RowsAffected(), nil
}
