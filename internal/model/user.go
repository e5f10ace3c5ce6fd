package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
//
// Note there is no generic Update: password, email and name changes are
// separate named operations so the orchestrator spells out every
// mutation explicitly.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, newEmail string) error
	UpdateName(ctx context.Context, id uuid.UUID, newName string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SignupParams carries the first signup step's input.
type SignupParams struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// User represents a registered account. Email is stored lowercased and
// is unique across the system. PasswordHash is a bcrypt hash; the plain
// password never reaches the store.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
