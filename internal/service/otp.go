package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/model"
)

// OTP is the one-time code ledger. It gates codes behind a per-email
// cooldown, keeps live codes globally unique, enforces the TTL and
// guarantees single-use consumption.
type OTP struct {
	store  model.OTPStore
	logger *logger.Logger

	// injectable for tests
	now      func() time.Time
	randCode func() (int, error)
}

func NewOTP(store model.OTPStore, logger *logger.Logger) *OTP {
	return &OTP{
		store:    store,
		logger:   logger,
		now:      time.Now,
		randCode: randomCode,
	}
}

// OTPPayload is what a flow stashes alongside the code and gets back at
// consumption. Fields are operation dependent.
type OTPPayload struct {
	Name         string
	PasswordHash string
	NewEmail     string
}

func randomCode() (int, error) {
	span := int64(model.OTPCodeMax - model.OTPCodeMin + 1)
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random code: %w", err)
	}
	return model.OTPCodeMin + int(n.Int64()), nil
}

// RequestCode issues a fresh code for email bound to operation.
// A pending code younger than the cooldown fails with ErrRateLimited;
// an older one is superseded. Generation retries on code collisions
// until OTPGenTimeout, then fails with ErrGenerationTimeout.
func (s *OTP) RequestCode(ctx context.Context, email string, operation model.OTPOperation, payload OTPPayload) (int, error) {
	s.logger.Debug("OTP service: requesting code",
		"email", email,
		"operation", operation)

	now := s.now()

	existing, err := s.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if now.Sub(existing.IssuedAt) < model.OTPCooldown {
			s.logger.Info("OTP service: request inside cooldown window",
				"email", email)
			return 0, model.ErrRateLimited
		}
		// supersede: the old code dies before a new one is issued
		if err := s.store.DeleteByEmail(ctx, email); err != nil {
			return 0, fmt.Errorf("failed to supersede otp: %w", err)
		}
	case errors.Is(err, model.ErrNotFound):
		// no pending code
	default:
		return 0, fmt.Errorf("failed to check pending otp: %w", err)
	}

	deadline := now.Add(model.OTPGenTimeout)
	for {
		code, err := s.randCode()
		if err != nil {
			return 0, err
		}

		issued := s.now()
		createErr := s.store.Create(ctx, model.OTP{
			Code:         code,
			Email:        email,
			Operation:    operation,
			Name:         payload.Name,
			PasswordHash: payload.PasswordHash,
			NewEmail:     payload.NewEmail,
			IssuedAt:     issued,
			ExpiresAt:    issued.Add(model.OTPTTL),
		})
		if createErr == nil {
			s.logger.Info("OTP service: code issued",
				"email", email,
				"operation", operation)
			return code, nil
		}
		if !errors.Is(createErr, model.ErrOTPConflict) {
			return 0, fmt.Errorf("failed to persist otp: %w", createErr)
		}

		// The conflict is either the code (retry with a new draw) or the
		// email (a concurrent request won the unique-email race).
		if _, err := s.store.GetByEmail(ctx, email); err == nil {
			return 0, model.ErrRateLimited
		}

		if s.now().After(deadline) {
			s.logger.Error("OTP service: code generation deadline exceeded",
				"email", email)
			return 0, model.ErrGenerationTimeout
		}
	}
}

// Consume validates and deletes the code in one atomic step. Unknown
// code, wrong email, wrong operation and expiry are indistinguishable
// to the caller; of N racing consumers exactly one succeeds.
func (s *OTP) Consume(ctx context.Context, code int, email string, operation model.OTPOperation) (OTPPayload, error) {
	otp, err := s.store.ConsumeCode(ctx, code, email, operation, s.now())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return OTPPayload{}, model.ErrInvalidOrExpiredOTP
		}
		return OTPPayload{}, fmt.Errorf("failed to consume otp: %w", err)
	}

	s.logger.Info("OTP service: code consumed",
		"email", email,
		"operation", operation)

	return OTPPayload{
		Name:         otp.Name,
		PasswordHash: otp.PasswordHash,
		NewEmail:     otp.NewEmail,
	}, nil
}

// Sweep drops expired records. The expiry predicate in Consume is
// authoritative; this keeps the table from accumulating dead rows.
func (s *OTP) Sweep(ctx context.Context) {
	deleted, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("OTP service: sweep failed", "error", err.Error())
		return
	}
	if deleted > 0 {
		s.logger.Debug("OTP service: swept expired codes", "count", deleted)
	}
}
