package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/priorly/priorly-server/internal/model"
)

var _ model.TodoStore = (*TodoRepository)(nil)

type TodoRepository struct {
	db *Connection
}

func NewTodoRepository(db *Connection) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = `id, user_id, title, description, is_done, completed_on,
	is_deleted, deleted_on, is_important, is_urgent, priority, deadline, reminder,
	created_at, updated_at`

func scanTodo(row pgx.Row) (model.Todo, error) {
	var t model.Todo
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsDone, &t.CompletedOn,
		&t.IsDeleted, &t.DeletedOn, &t.IsImportant, &t.IsUrgent, &t.Priority,
		&t.Deadline, &t.Reminder, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *TodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `INSERT INTO todos (id, user_id, title, description, is_done, completed_on,
				is_deleted, deleted_on, is_important, is_urgent, priority, deadline, reminder,
				created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			  RETURNING ` + todoColumns

	saved, err := scanTodo(r.db.QueryRow(ctx, query,
		todo.ID, todo.UserID, todo.Title, todo.Description, todo.IsDone, todo.CompletedOn,
		todo.IsDeleted, todo.DeletedOn, todo.IsImportant, todo.IsUrgent, todo.Priority,
		todo.Deadline, todo.Reminder, todo.CreatedAt, todo.UpdatedAt,
	))
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return saved, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

	todo, err := scanTodo(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Todo{}, model.ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo by id: %w", err)
	}

	return todo, nil
}

// filterClauses renders optional filters as SQL predicates appended to
// the base user_id predicate. Arguments continue the numbering started
// by the caller.
func filterClauses(filter model.TodoFilter, args []any) (string, []any) {
	var sb strings.Builder

	appendBool := func(column string, value *bool) {
		if value == nil {
			return
		}
		args = append(args, *value)
		fmt.Fprintf(&sb, " AND %s = $%d", column, len(args))
	}

	appendBool("is_done", filter.IsDone)
	appendBool("is_deleted", filter.IsDeleted)
	appendBool("is_important", filter.IsImportant)
	appendBool("is_urgent", filter.IsUrgent)

	return sb.String(), args
}

func (r *TodoRepository) List(ctx context.Context, userID uuid.UUID, filter model.TodoFilter, cursor int, limit int) ([]model.Todo, error) {
	args := []any{userID}
	clauses, args := filterClauses(filter, args)

	args = append(args, limit, cursor)
	query := fmt.Sprintf(`SELECT %s FROM todos WHERE user_id = $1%s
			  ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		todoColumns, clauses, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepository) Count(ctx context.Context, userID uuid.UUID, filter model.TodoFilter) (int64, error) {
	args := []any{userID}
	clauses, args := filterClauses(filter, args)

	query := `SELECT COUNT(*) FROM todos WHERE user_id = $1` + clauses

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}

	return count, nil
}

func (r *TodoRepository) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, updates model.TodoUpdates) (model.Todo, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id, userID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if updates.Title != nil {
		appendSet("title", *updates.Title)
	}
	if updates.Description != nil {
		appendSet("description", *updates.Description)
	}
	if updates.IsDone != nil {
		appendSet("is_done", *updates.IsDone)
		if *updates.IsDone {
			appendSet("completed_on", time.Now())
		} else {
			appendSet("completed_on", nil)
		}
	}
	if updates.IsDeleted != nil {
		appendSet("is_deleted", *updates.IsDeleted)
		if *updates.IsDeleted {
			appendSet("deleted_on", time.Now())
		} else {
			appendSet("deleted_on", nil)
		}
	}
	if updates.IsImportant != nil {
		appendSet("is_important", *updates.IsImportant)
	}
	if updates.IsUrgent != nil {
		appendSet("is_urgent", *updates.IsUrgent)
	}
	if updates.Priority != nil {
		appendSet("priority", *updates.Priority)
	}
	if updates.Deadline != nil {
		appendSet("deadline", *updates.Deadline)
	}
	if updates.Reminder != nil {
		appendSet("reminder", *updates.Reminder)
	}

	query := fmt.Sprintf(`UPDATE todos SET %s WHERE id = $1 AND user_id = $2
			  RETURNING %s`, strings.Join(sets, ", "), todoColumns)

	todo, err := scanTodo(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Todo{}, model.ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *TodoRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM todos WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete todos for user: %w", err)
	}

	return nil
}
