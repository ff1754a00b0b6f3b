package auth

import "errors"

var (
	// ErrEmailRequired is returned when a code is requested without an address.
	ErrEmailRequired = errors.New("auth: email is required")

	// ErrOTPSendFailed is deliberately generic: it never discloses
	// whether the address exists or why delivery failed.
	ErrOTPSendFailed = errors.New("auth: failed to send OTP")

	// ErrInvalidOTP covers missing, mismatched and expired codes alike.
	ErrInvalidOTP = errors.New("auth: invalid or expired OTP")

	// ErrSessionNotFound is returned when a session token is absent,
	// unknown, or expired server-side.
	ErrSessionNotFound = errors.New("auth: session not found")

	// ErrRedirectTokenRequired is returned when the redirect callback
	// exchange is attempted without a token.
	ErrRedirectTokenRequired = errors.New("auth: redirect token required")

	// ErrRedirectExchangeFailed is returned when the identity provider
	// rejects the redirect token.
	ErrRedirectExchangeFailed = errors.New("auth: redirect token exchange failed")
)
