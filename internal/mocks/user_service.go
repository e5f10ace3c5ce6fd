package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/priorly/priorly-server/internal/model"
)

// UserService is a testify mock of the account endpoints' service.
type UserService struct {
	mock.Mock
}

func NewUserService(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserService {
	m := &UserService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserService) Profile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) ChangeName(ctx context.Context, userID uuid.UUID, newName string) (model.User, error) {
	args := m.Called(ctx, userID, newName)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, currentPassword, password, confirmPassword string) error {
	args := m.Called(ctx, userID, sessionID, currentPassword, password, confirmPassword)
	return args.Error(0)
}

func (m *UserService) RequestEmailChange(ctx context.Context, userID uuid.UUID, password, newEmail string) error {
	args := m.Called(ctx, userID, password, newEmail)
	return args.Error(0)
}

func (m *UserService) CompleteEmailChange(ctx context.Context, userID uuid.UUID, code int) (model.User, error) {
	args := m.Called(ctx, userID, code)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}
