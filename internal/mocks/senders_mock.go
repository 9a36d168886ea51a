package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// PushSender is a mock of notify.PushSender for use with testify/mock.
type PushSender struct {
	mock.Mock
}

// SendBatch is a mock implementation of notify.PushSender.SendBatch
func (m *PushSender) SendBatch(
	ctx context.Context,
	tokens []string,
	title, body string,
	data map[string]string,
) (int, error) {
	args := m.Called(ctx, tokens, title, body, data)
	return args.Int(0), args.Error(1)
}

// EmailSender is a mock of notify.EmailSender for use with testify/mock.
type EmailSender struct {
	mock.Mock
}

// Send is a mock implementation of notify.EmailSender.Send
func (m *EmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}
