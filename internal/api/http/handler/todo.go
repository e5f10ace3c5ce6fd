package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/model"
)

// TodoService defines the to-do operations the endpoints expose.
type TodoService interface {
	Create(ctx context.Context, userID uuid.UUID, req model.CreateTodoParams) (model.Todo, error)
	Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (model.Todo, error)
	List(ctx context.Context, userID uuid.UUID, filter model.TodoFilter, cursor int, limit int) (model.TodoPage, error)
	Count(ctx context.Context, userID uuid.UUID, filter model.TodoFilter) (int64, error)
	Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, updates model.TodoUpdates) (model.Todo, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

// Todo handles the to-do endpoints.
type Todo struct {
	service        TodoService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewTodo(service TodoService, contextManager model.ContextManager, logger *logger.Logger) *Todo {
	return &Todo{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

type todoDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsDone      bool       `json:"isDone"`
	CompletedOn *time.Time `json:"completedOn,omitempty"`
	IsDeleted   bool       `json:"isDeleted"`
	DeletedOn   *time.Time `json:"deletedOn,omitempty"`
	IsImportant bool       `json:"isImportant"`
	IsUrgent    bool       `json:"isUrgent"`
	Priority    int        `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Reminder    *time.Time `json:"reminder,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func todoResponse(todo model.Todo) todoDTO {
	return todoDTO{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		IsDone:      todo.IsDone,
		CompletedOn: todo.CompletedOn,
		IsDeleted:   todo.IsDeleted,
		DeletedOn:   todo.DeletedOn,
		IsImportant: todo.IsImportant,
		IsUrgent:    todo.IsUrgent,
		Priority:    todo.Priority,
		Deadline:    todo.Deadline,
		Reminder:    todo.Reminder,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func todoListResponse(todos []model.Todo) []todoDTO {
	dtos := make([]todoDTO, 0, len(todos))
	for _, todo := range todos {
		dtos = append(dtos, todoResponse(todo))
	}
	return dtos
}

func (h *Todo) identity(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Todo) todoID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid todo id")
		return uuid.Nil, false
	}
	return id, true
}

type createTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsImportant bool       `json:"isImportant"`
	IsUrgent    bool       `json:"isUrgent"`
	Priority    int        `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	Reminder    *time.Time `json:"reminder"`
}

func (h *Todo) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req createTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	todo, err := h.service.Create(r.Context(), userID, model.CreateTodoParams{
		Title:       req.Title,
		Description: req.Description,
		IsImportant: req.IsImportant,
		IsUrgent:    req.IsUrgent,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		Reminder:    req.Reminder,
	})
	if err != nil {
		h.logError(r, "create", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Todo created", todoResponse(todo))
}

func (h *Todo) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}

	todo, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		h.logError(r, "get", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Todo details", todoResponse(todo))
}

type listTodosRequest struct {
	IsDone      *bool `json:"isDone"`
	IsDeleted   *bool `json:"isDeleted"`
	IsImportant *bool `json:"isImportant"`
	IsUrgent    *bool `json:"isUrgent"`
	Cursor      int   `json:"cursor"`
	Limit       int   `json:"limit"`
}

func (h *Todo) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req listTodosRequest
	if !decodeBody(w, r, &req) {
		return
	}

	page, err := h.service.List(r.Context(), userID, model.TodoFilter{
		IsDone:      req.IsDone,
		IsDeleted:   req.IsDeleted,
		IsImportant: req.IsImportant,
		IsUrgent:    req.IsUrgent,
	}, req.Cursor, req.Limit)
	if err != nil {
		h.logError(r, "list", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Todos", map[string]any{
		"todos": todoListResponse(page.Todos),
		"total": page.Total,
	})
}

func (h *Todo) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req listTodosRequest
	if !decodeBody(w, r, &req) {
		return
	}

	count, err := h.service.Count(r.Context(), userID, model.TodoFilter{
		IsDone:      req.IsDone,
		IsDeleted:   req.IsDeleted,
		IsImportant: req.IsImportant,
		IsUrgent:    req.IsUrgent,
	})
	if err != nil {
		h.logError(r, "count", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Todo count", map[string]any{
		"count": count,
	})
}

type updateTodoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	IsDone      *bool      `json:"isDone"`
	IsDeleted   *bool      `json:"isDeleted"`
	IsImportant *bool      `json:"isImportant"`
	IsUrgent    *bool      `json:"isUrgent"`
	Priority    *int       `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	Reminder    *time.Time `json:"reminder"`
}

func (h *Todo) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}

	var req updateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	todo, err := h.service.Update(r.Context(), id, userID, model.TodoUpdates{
		Title:       req.Title,
		Description: req.Description,
		IsDone:      req.IsDone,
		IsDeleted:   req.IsDeleted,
		IsImportant: req.IsImportant,
		IsUrgent:    req.IsUrgent,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		Reminder:    req.Reminder,
	})
	if err != nil {
		h.logError(r, "update", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Todo updated", todoResponse(todo))
}

func (h *Todo) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		h.logError(r, "delete", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Todo deleted", nil)
}

func (h *Todo) logError(r *http.Request, op string, err error) {
	h.logger.Error("Todo handler: "+op+" failed",
		"path", r.URL.Path,
		"error", err.Error())
}
