package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TodoStore defines persistence operations for todos. Every read and
// write is scoped by the owning user id; the store never returns
// another user's item.
type TodoStore interface {
	Create(ctx context.Context, todo Todo) (Todo, error)
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (Todo, error)
	List(ctx context.Context, userID uuid.UUID, filter TodoFilter, cursor int, limit int) ([]Todo, error)
	Count(ctx context.Context, userID uuid.UUID, filter TodoFilter) (int64, error)
	Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, updates TodoUpdates) (Todo, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// CreateTodoParams carries the caller-settable fields of a new todo.
type CreateTodoParams struct {
	Title       string
	Description string
	IsImportant bool
	IsUrgent    bool
	Priority    int
	Deadline    *time.Time
	Reminder    *time.Time
}

// TodoPage is one page of a listing plus the total matching count.
type TodoPage struct {
	Todos []Todo
	Total int64
}

// Todo is a single to-do item.
type Todo struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string

	IsDone      bool
	CompletedOn *time.Time

	IsDeleted bool
	DeletedOn *time.Time

	IsImportant bool
	IsUrgent    bool
	Priority    int

	Deadline *time.Time
	Reminder *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoFilter narrows listing and counting. Nil fields are not applied.
// IsDeleted defaults to false at the service layer so soft-deleted
// items stay hidden unless asked for.
type TodoFilter struct {
	IsDone      *bool
	IsDeleted   *bool
	IsImportant *bool
	IsUrgent    *bool
}

// TodoUpdates describes a partial edit. Nil fields are left untouched.
// Setting IsDone stamps or clears CompletedOn; setting IsDeleted stamps
// or clears DeletedOn.
type TodoUpdates struct {
	Title       *string
	Description *string
	IsDone      *bool
	IsDeleted   *bool
	IsImportant *bool
	IsUrgent    *bool
	Priority    *int
	Deadline    *time.Time
	Reminder    *time.Time
}
