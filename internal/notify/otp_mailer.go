package notify

import (
	"context"
	"fmt"

	"github.com/saathihq/saathi-platform/pkg/logging"
)

// OTPMailer renders and delivers one-time login codes.
type OTPMailer struct {
	sender EmailSender
	logger *logging.Logger
}

// NewOTPMailer creates an OTP mailer on top of any EmailSender.
func NewOTPMailer(sender EmailSender, logger *logging.Logger) *OTPMailer {
	if logger == nil {
		logger = logging.Default()
	}
	return &OTPMailer{sender: sender, logger: logger}
}

// SendCode delivers the one-time code to the given address.
func (m *OTPMailer) SendCode(ctx context.Context, email, code string) error {
	if m.sender == nil {
		return fmt.Errorf("notify: no email sender configured")
	}

	msg := EmailMessage{
		To:      email,
		Subject: "Your Saathi OTP Code",
		Body:    fmt.Sprintf("Your OTP code is: %s\n\nThis code will expire in 10 minutes.\nIf you didn't request this, please ignore this email.", code),
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2 style="color: #4A8B71;">Welcome to Saathi</h2>
	<p>Your OTP code is:</p>
	<h1 style="color: #4A8B71; font-size: 32px; letter-spacing: 4px;">%s</h1>
	<p>This code will expire in 10 minutes.</p>
	<p style="color: #8C9E96;">If you didn't request this, please ignore this email.</p>
</div>`, code),
	}

	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: otp mail: %w", err)
	}
	return nil
}
