package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/priorly/priorly-server/internal/model"
)

// SessionResolver is a testify mock of the token-to-session resolver.
type SessionResolver struct {
	mock.Mock
}

func NewSessionResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionResolver {
	m := &SessionResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SessionResolver) Resolve(ctx context.Context, token string) (model.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Session), args.Error(1)
}
