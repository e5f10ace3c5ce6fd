package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/model"
)

// DefaultTodoPageSize bounds listings when the caller does not ask for
// a size.
const DefaultTodoPageSize = 10

// Todo implements the to-do operations on top of a TodoStore. Ownership
// scoping lives in the store queries; this layer adds validation,
// defaulting and pagination arithmetic.
type Todo struct {
	store  model.TodoStore
	logger *logger.Logger
}

func NewTodo(store model.TodoStore, logger *logger.Logger) *Todo {
	return &Todo{
		store:  store,
		logger: logger,
	}
}

func (s *Todo) Create(ctx context.Context, userID uuid.UUID, req model.CreateTodoParams) (model.Todo, error) {
	ve := model.NewValidationError()
	validateTodoTitle(ve, req.Title)
	if !ve.Empty() {
		return model.Todo{}, ve
	}

	now := time.Now()
	todo, err := s.store.Create(ctx, model.Todo{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		IsImportant: req.IsImportant,
		IsUrgent:    req.IsUrgent,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		Reminder:    req.Reminder,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Debug("Todo service: created",
		"user_id", userID,
		"todo_id", todo.ID)

	return todo, nil
}

func (s *Todo) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (model.Todo, error) {
	return s.store.GetByID(ctx, id, userID)
}

// List returns one page of the user's todos, newest first. When the
// filter does not mention deletion state, soft-deleted items are
// excluded. A non-positive limit falls back to the default page size.
func (s *Todo) List(ctx context.Context, userID uuid.UUID, filter model.TodoFilter, cursor int, limit int) (model.TodoPage, error) {
	if filter.IsDeleted == nil {
		notDeleted := false
		filter.IsDeleted = &notDeleted
	}
	if limit <= 0 {
		limit = DefaultTodoPageSize
	}
	if cursor < 0 {
		cursor = 0
	}

	todos, err := s.store.List(ctx, userID, filter, cursor, limit)
	if err != nil {
		return model.TodoPage{}, fmt.Errorf("failed to list todos: %w", err)
	}

	total, err := s.store.Count(ctx, userID, filter)
	if err != nil {
		return model.TodoPage{}, fmt.Errorf("failed to count todos: %w", err)
	}

	return model.TodoPage{Todos: todos, Total: total}, nil
}

// Count mirrors List's filter defaulting without fetching a page.
func (s *Todo) Count(ctx context.Context, userID uuid.UUID, filter model.TodoFilter) (int64, error) {
	if filter.IsDeleted == nil {
		notDeleted := false
		filter.IsDeleted = &notDeleted
	}

	total, err := s.store.Count(ctx, userID, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}

	return total, nil
}

func (s *Todo) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, updates model.TodoUpdates) (model.Todo, error) {
	if updates.Title != nil {
		ve := model.NewValidationError()
		validateTodoTitle(ve, *updates.Title)
		if !ve.Empty() {
			return model.Todo{}, ve
		}
		trimmed := strings.TrimSpace(*updates.Title)
		updates.Title = &trimmed
	}

	todo, err := s.store.Update(ctx, id, userID, updates)
	if err != nil {
		return model.Todo{}, err
	}

	s.logger.Debug("Todo service: updated",
		"user_id", userID,
		"todo_id", id)

	return todo, nil
}

// Delete removes the item permanently. Soft deletion goes through
// Update with IsDeleted.
func (s *Todo) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Debug("Todo service: deleted",
		"user_id", userID,
		"todo_id", id)

	return nil
}

func validateTodoTitle(ve *model.ValidationError, title string) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		ve.Add("title", "Title is required")
		return
	}
	if len(trimmed) > 200 {
		ve.Add("title", "Title cannot be more than 200 characters long")
	}
}
