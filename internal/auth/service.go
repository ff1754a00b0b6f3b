package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saathihq/saathi-platform/internal/users"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

// CodeMailer delivers one-time login codes out of band.
type CodeMailer interface {
	SendCode(ctx context.Context, email, code string) error
}

// RedirectExchanger redeems a redirect-login token with the external
// identity provider.
type RedirectExchanger interface {
	ExchangeSession(ctx context.Context, sessionID string) (*ProviderIdentity, error)
}

// Service reconciles the three login methods into one outcome: a
// stored session plus the user it belongs to.
type Service struct {
	users    users.Repository
	sessions *SessionStore
	otps     *OTPStore
	mailer   CodeMailer
	provider RedirectExchanger
	logger   *logging.Logger
}

// NewService constructs the authenticator service.
func NewService(userRepo users.Repository, sessions *SessionStore, otps *OTPStore, mailer CodeMailer, provider RedirectExchanger, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		users:    userRepo,
		sessions: sessions,
		otps:     otps,
		mailer:   mailer,
		provider: provider,
		logger:   logger,
	}
}

// Login is the unified result of any successful login method.
type Login struct {
	User  *users.User
	Token string
}

// RequestCode generates and delivers a one-time code for the email.
// Failures are collapsed into ErrOTPSendFailed so callers cannot probe
// whether an address is registered.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("auth: generate otp: %w", err)
	}
	if err := s.otps.Put(ctx, email, code); err != nil {
		s.logger.Error("failed to store otp", "error", err)
		return ErrOTPSendFailed
	}
	if err := s.mailer.SendCode(ctx, email, code); err != nil {
		s.logger.Error("failed to send otp", "error", err)
		return ErrOTPSendFailed
	}

	s.logger.Info("otp requested", "email", email)
	return nil
}

// VerifyCode exchanges email+code for a session. The pending code is
// consumed only on success, so a failed attempt can be retried against
// the same challenge until it expires.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (*Login, error) {
	email = strings.TrimSpace(email)
	if email == "" || code == "" {
		return nil, ErrInvalidOTP
	}

	stored, err := s.otps.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if stored != code {
		return nil, ErrInvalidOTP
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, users.ErrUserNotFound) {
		user = &users.User{
			UserID:      "user_" + shortID(),
			Email:       email,
			Name:        emailLocalPart(email),
			Role:        users.RoleUser,
			IsAnonymous: false,
			CreatedAt:   time.Now().UTC(),
		}
		if createErr := s.users.Create(ctx, user); createErr != nil {
			return nil, fmt.Errorf("auth: create user: %w", createErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("auth: lookup user: %w", err)
	}

	token := newSessionToken()
	if err := s.sessions.Create(ctx, token, user.UserID); err != nil {
		return nil, err
	}
	if err := s.otps.Consume(ctx, email); err != nil {
		s.logger.Warn("failed to consume otp", "error", err, "email", email)
	}

	s.logger.Info("otp login", "user_id", user.UserID)
	return &Login{User: user, Token: token}, nil
}

// LoginAnonymous mints a pseudo-identity with no external challenge.
// An empty display name falls back to the default.
func (s *Service) LoginAnonymous(ctx context.Context, displayName string) (*Login, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "Anonymous User"
	}

	id := shortID()
	user := &users.User{
		UserID:      "anon_" + id,
		Email:       fmt.Sprintf("anon_%s@anonymous.saathi", id),
		Name:        displayName,
		Role:        users.RoleUser,
		IsAnonymous: true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth: create anonymous user: %w", err)
	}

	token := newSessionToken()
	if err := s.sessions.Create(ctx, token, user.UserID); err != nil {
		return nil, err
	}

	s.logger.Info("anonymous login", "user_id", user.UserID)
	return &Login{User: user, Token: token}, nil
}

// ExchangeRedirectToken completes the redirect login method: the
// single-use token from the URL fragment is redeemed with the identity
// provider and the resulting identity becomes a local session.
func (s *Service) ExchangeRedirectToken(ctx context.Context, sessionID string) (*Login, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrRedirectTokenRequired
	}

	identity, err := s.provider.ExchangeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	if errors.Is(err, users.ErrUserNotFound) {
		var picture *string
		if identity.Picture != "" {
			picture = &identity.Picture
		}
		user = &users.User{
			UserID:      "user_" + shortID(),
			Email:       identity.Email,
			Name:        identity.Name,
			Picture:     picture,
			Role:        users.RoleUser,
			IsAnonymous: false,
			CreatedAt:   time.Now().UTC(),
		}
		if createErr := s.users.Create(ctx, user); createErr != nil {
			return nil, fmt.Errorf("auth: create user: %w", createErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("auth: lookup user: %w", err)
	}

	// The provider already minted the session token; register it so
	// the usual resolution path applies.
	if err := s.sessions.Create(ctx, identity.SessionToken, user.UserID); err != nil {
		return nil, err
	}

	s.logger.Info("redirect login", "user_id", user.UserID)
	return &Login{User: user, Token: identity.SessionToken}, nil
}

// CurrentUser resolves a session token to its user.
func (s *Service) CurrentUser(ctx context.Context, token string) (*users.User, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: lookup user: %w", err)
	}
	return user, nil
}

// Logout destroys the session. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, token)
}

// SessionTTL exposes the session lifetime for cookie issuance.
func (s *Service) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func newSessionToken() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "session_" + hex.EncodeToString(buf)
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
