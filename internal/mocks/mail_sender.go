package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MailSender is a testify mock of model.MailSender.
type MailSender struct {
	mock.Mock
}

func NewMailSender(t interface {
	mock.TestingT
	Cleanup(func())
}) *MailSender {
	m := &MailSender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MailSender) Send(ctx context.Context, to string, subject string, template string, context map[string]string) {
	m.Called(ctx, to, subject, template, context)
}
