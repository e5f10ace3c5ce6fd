package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/priorly/priorly-server/internal/model"
)

// OTPStore is a testify mock of model.OTPStore.
type OTPStore struct {
	mock.Mock
}

func NewOTPStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *OTPStore {
	m := &OTPStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OTPStore) Create(ctx context.Context, otp model.OTP) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *OTPStore) GetByEmail(ctx context.Context, email string) (model.OTP, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.OTP), args.Error(1)
}

func (m *OTPStore) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *OTPStore) ConsumeCode(ctx context.Context, code int, email string, operation model.OTPOperation, now time.Time) (model.OTP, error) {
	args := m.Called(ctx, code, email, operation, now)
	return args.Get(0).(model.OTP), args.Error(1)
}

func (m *OTPStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
