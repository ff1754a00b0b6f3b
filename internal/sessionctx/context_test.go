package sessionctx

import (
	"context"
	"testing"

	"github.com/saathihq/saathi-platform/internal/users"
)

func TestRoundTrip(t *testing.T) {
	u := &users.User{UserID: "user_1", Email: "a@b.com"}
	ctx := WithUser(context.Background(), u)

	got, ok := UserFromContext(ctx)
	if !ok {
		t.Fatal("expected user in context")
	}
	if got.UserID != "user_1" {
		t.Errorf("expected user_1, got %s", got.UserID)
	}
}

func TestMissing(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Fatal("expected no user in empty context")
	}
}

func TestNilUser(t *testing.T) {
	ctx := WithUser(context.Background(), nil)
	if _, ok := UserFromContext(ctx); ok {
		t.Fatal("expected nil user to be treated as absent")
	}
}
