package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saathihq/saathi-platform/internal/users"
)

type fakeMailer struct {
	sent   []string // codes, in order
	to     []string
	failed bool
}

func (f *fakeMailer) SendCode(_ context.Context, email, code string) error {
	if f.failed {
		return fmt.Errorf("smtp: connection refused")
	}
	f.to = append(f.to, email)
	f.sent = append(f.sent, code)
	return nil
}

type fakeProvider struct {
	identity *ProviderIdentity
	err      error
	calls    int
}

func (f *fakeProvider) ExchangeSession(_ context.Context, _ string) (*ProviderIdentity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func newTestService(t *testing.T) (*Service, *fakeMailer, *fakeProvider, *users.InMemoryRepository) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := users.NewInMemoryRepository()
	mailer := &fakeMailer{}
	provider := &fakeProvider{}

	sessions := NewSessionStore(rdb, 7*24*time.Hour, nil)
	otps := NewOTPStore(rdb, 10*time.Minute)
	svc := NewService(repo, sessions, otps, mailer, provider, nil)
	return svc, mailer, provider, repo
}

func TestRequestCodeSendsOTP(t *testing.T) {
	svc, mailer, _, _ := newTestService(t)

	err := svc.RequestCode(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@b.com", mailer.to[0])
	assert.Len(t, mailer.sent[0], 6)
}

func TestRequestCodeEmptyEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.RequestCode(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestRequestCodeMailerFailure(t *testing.T) {
	svc, mailer, _, _ := newTestService(t)
	mailer.failed = true

	err := svc.RequestCode(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, ErrOTPSendFailed)
}

func TestRequestCodeOverwritesPreviousCode(t *testing.T) {
	svc, mailer, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))
	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))
	require.Len(t, mailer.sent, 2)

	// only the latest code is accepted
	_, err := svc.VerifyCode(ctx, "a@b.com", mailer.sent[0])
	if mailer.sent[0] != mailer.sent[1] {
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}

	login, err := svc.VerifyCode(ctx, "a@b.com", mailer.sent[1])
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", login.User.Email)
}

func TestVerifyCodeSuccess(t *testing.T) {
	svc, mailer, _, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))
	login, err := svc.VerifyCode(ctx, "a@b.com", mailer.sent[0])
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", login.User.Email)
	assert.Equal(t, "a", login.User.Name)
	assert.False(t, login.User.IsAnonymous)
	assert.True(t, strings.HasPrefix(login.Token, "session_"))

	stored, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, login.User.UserID, stored.UserID)

	// the session is live
	me, err := svc.CurrentUser(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.User.UserID, me.UserID)
}

func TestVerifyCodeWrongCodeKeepsChallengeAlive(t *testing.T) {
	svc, mailer, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))

	_, err := svc.VerifyCode(ctx, "a@b.com", "000000")
	require.ErrorIs(t, err, ErrInvalidOTP)

	// a wrong guess must not consume the code; the right one still works
	login, err := svc.VerifyCode(ctx, "a@b.com", mailer.sent[0])
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", login.User.Email)
}

func TestVerifyCodeConsumedAfterSuccess(t *testing.T) {
	svc, mailer, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))
	_, err := svc.VerifyCode(ctx, "a@b.com", mailer.sent[0])
	require.NoError(t, err)

	_, err = svc.VerifyCode(ctx, "a@b.com", mailer.sent[0])
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyCodeReusesExistingUser(t *testing.T) {
	svc, mailer, _, repo := newTestService(t)
	ctx := context.Background()

	existing := &users.User{
		UserID:    "user_existing01",
		Email:     "a@b.com",
		Name:      "Asha",
		Role:      users.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, existing))

	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))
	login, err := svc.VerifyCode(ctx, "a@b.com", mailer.sent[0])
	require.NoError(t, err)
	assert.Equal(t, "user_existing01", login.User.UserID)
	assert.Equal(t, "Asha", login.User.Name)
}

func TestLoginAnonymousDefaults(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	login, err := svc.LoginAnonymous(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "Anonymous User", login.User.Name)
	assert.True(t, login.User.IsAnonymous)
	assert.True(t, strings.HasPrefix(login.User.UserID, "anon_"))
	assert.Equal(t, login.User.UserID+"@anonymous.saathi", login.User.Email)
}

func TestLoginAnonymousCustomName(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	login, err := svc.LoginAnonymous(context.Background(), "Quiet Fox")
	require.NoError(t, err)
	assert.Equal(t, "Quiet Fox", login.User.Name)
	assert.True(t, login.User.IsAnonymous)

	me, err := svc.CurrentUser(context.Background(), login.Token)
	require.NoError(t, err)
	assert.True(t, me.IsAnonymous)
}

func TestExchangeRedirectToken(t *testing.T) {
	svc, _, provider, repo := newTestService(t)
	pic := "https://pics.example/u.png"
	provider.identity = &ProviderIdentity{
		Email:        "g@b.com",
		Name:         "Gita",
		Picture:      pic,
		SessionToken: "session_fromprovider",
	}

	login, err := svc.ExchangeRedirectToken(context.Background(), "sess-xyz")
	require.NoError(t, err)

	assert.Equal(t, "g@b.com", login.User.Email)
	assert.Equal(t, "Gita", login.User.Name)
	require.NotNil(t, login.User.Picture)
	assert.Equal(t, pic, *login.User.Picture)
	assert.Equal(t, "session_fromprovider", login.Token)
	assert.Equal(t, 1, provider.calls)

	// provider-issued token resolves like any of ours
	me, err := svc.CurrentUser(context.Background(), login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.User.UserID, me.UserID)

	_, err = repo.GetByEmail(context.Background(), "g@b.com")
	assert.NoError(t, err)
}

func TestExchangeRedirectTokenEmpty(t *testing.T) {
	svc, _, provider, _ := newTestService(t)

	_, err := svc.ExchangeRedirectToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrRedirectTokenRequired)
	assert.Zero(t, provider.calls)
}

func TestExchangeRedirectTokenProviderRejects(t *testing.T) {
	svc, _, provider, _ := newTestService(t)
	provider.err = ErrRedirectExchangeFailed

	_, err := svc.ExchangeRedirectToken(context.Background(), "sess-bad")
	assert.ErrorIs(t, err, ErrRedirectExchangeFailed)
}

func TestCurrentUserUnknownToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.CurrentUser(context.Background(), "session_nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLogoutDestroysSession(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	login, err := svc.LoginAnonymous(ctx, "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.Token))

	_, err = svc.CurrentUser(ctx, login.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
