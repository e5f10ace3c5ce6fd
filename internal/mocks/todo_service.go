package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/priorly/priorly-server/internal/model"
)

// TodoService is a testify mock of the todo endpoints' service.
type TodoService struct {
	mock.Mock
}

func NewTodoService(t interface {
	mock.TestingT
	Cleanup(func())
}) *TodoService {
	m := &TodoService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TodoService) Create(ctx context.Context, userID uuid.UUID, req model.CreateTodoParams) (model.Todo, error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *TodoService) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (model.Todo, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *TodoService) List(ctx context.Context, userID uuid.UUID, filter model.TodoFilter, cursor int, limit int) (model.TodoPage, error) {
	args := m.Called(ctx, userID, filter, cursor, limit)
	return args.Get(0).(model.TodoPage), args.Error(1)
}

func (m *TodoService) Count(ctx context.Context, userID uuid.UUID, filter model.TodoFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TodoService) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, updates model.TodoUpdates) (model.Todo, error) {
	args := m.Called(ctx, id, userID, updates)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *TodoService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
