package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/priorly/priorly-server/internal/model"
)

// AuthService is a testify mock of the auth endpoints' service.
type AuthService struct {
	mock.Mock
}

func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthService) RequestSignup(ctx context.Context, req model.SignupParams) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *AuthService) CompleteSignup(ctx context.Context, code int, email string) (model.User, model.Session, error) {
	args := m.Called(ctx, code, email)
	return args.Get(0).(model.User), args.Get(1).(model.Session), args.Error(2)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (model.User, model.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.Get(1).(model.Session), args.Error(2)
}

func (m *AuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *AuthService) CompletePasswordReset(ctx context.Context, code int, email, password, confirmPassword string) error {
	args := m.Called(ctx, code, email, password, confirmPassword)
	return args.Error(0)
}
