package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/priorly/priorly-server/internal/model"
)

// TodoStore is a testify mock of model.TodoStore.
type TodoStore struct {
	mock.Mock
}

func NewTodoStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *TodoStore {
	m := &TodoStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TodoStore) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	args := m.Called(ctx, todo)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *TodoStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (model.Todo, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *TodoStore) List(ctx context.Context, userID uuid.UUID, filter model.TodoFilter, cursor int, limit int) ([]model.Todo, error) {
	args := m.Called(ctx, userID, filter, cursor, limit)
	var todos []model.Todo
	if v := args.Get(0); v != nil {
		todos = v.([]model.Todo)
	}
	return todos, args.Error(1)
}

func (m *TodoStore) Count(ctx context.Context, userID uuid.UUID, filter model.TodoFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TodoStore) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, updates model.TodoUpdates) (model.Todo, error) {
	args := m.Called(ctx, id, userID, updates)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *TodoStore) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *TodoStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
