package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	last EmailMessage
	err  error
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	c.last = msg
	return c.err
}

func TestSendCode(t *testing.T) {
	sender := &captureSender{}
	mailer := NewOTPMailer(sender, nil)

	require.NoError(t, mailer.SendCode(context.Background(), "a@b.com", "123456"))

	assert.Equal(t, "a@b.com", sender.last.To)
	assert.True(t, strings.Contains(sender.last.Body, "123456"))
	assert.True(t, strings.Contains(sender.last.HTML, "123456"))
}

func TestSendCodeSenderFailure(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	mailer := NewOTPMailer(sender, nil)

	err := mailer.SendCode(context.Background(), "a@b.com", "123456")
	require.Error(t, err)
}

func TestSendCodeNoSender(t *testing.T) {
	mailer := NewOTPMailer(nil, nil)
	require.Error(t, mailer.SendCode(context.Background(), "a@b.com", "123456"))
}
