package model

import (
	"context"
	"time"
)

// OTP lifecycle constants. These are the single documented set; do not
// introduce per-flow variants.
const (
	// OTPTTL is how long a code stays consumable after issue.
	OTPTTL = 10 * time.Minute

	// OTPCooldown is the minimum wait between two code requests for the
	// same email.
	OTPCooldown = time.Minute

	// OTPCodeMin and OTPCodeMax bound the 6-digit code space.
	OTPCodeMin = 100000
	OTPCodeMax = 999999

	// OTPGenTimeout caps the code generation retry loop. The code space
	// is small, so collisions under load are expected; without a
	// deadline the retry loop is a latent denial of service.
	OTPGenTimeout = 30 * time.Second
)

// OTPOperation tags a code with the flow it was issued for. A code is
// only consumable by the same operation that requested it.
type OTPOperation string

const (
	OTPOperationSignup         OTPOperation = "signup"
	OTPOperationChangeEmail    OTPOperation = "change_email"
	OTPOperationForgotPassword OTPOperation = "forgot_password"
)

// OTPStore persists live verification codes. Records are immutable:
// there is deliberately no update operation, only create and delete.
// At most one live record exists per email, and codes are unique among
// live records; both are enforced by the store.
type OTPStore interface {
	Create(ctx context.Context, otp OTP) error
	GetByEmail(ctx context.Context, email string) (OTP, error)
	DeleteByEmail(ctx context.Context, email string) error

	// ConsumeCode atomically deletes the record matching code, email,
	// operation and not past expiry, returning it. ErrNotFound when no
	// such live record exists; concurrent consumers get exactly one
	// winner.
	ConsumeCode(ctx context.Context, code int, email string, operation OTPOperation, now time.Time) (OTP, error)

	// DeleteExpired removes records whose expiry is before the given
	// time. The expiry check in ConsumeCode stays authoritative; this
	// is housekeeping.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// OTP is a pending verification code bound to an email and an intended
// operation. The payload fields carry whatever the completing request
// needs: Name and PasswordHash for signup, NewEmail for email change.
type OTP struct {
	Code         int
	Email        string
	Operation    OTPOperation
	Name         string
	PasswordHash string
	NewEmail     string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}
