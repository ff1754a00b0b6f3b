package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saathihq/saathi-platform/internal/users"
)

type fakeResponder struct {
	reply      string
	err        error
	gotHistory []*Message
	calls      int
}

func (f *fakeResponder) Respond(_ context.Context, history []*Message, _ string) (string, error) {
	f.calls++
	f.gotHistory = history
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func chatUser() *users.User {
	return &users.User{UserID: "user_abc123def456", Email: "a@b.com", Name: "a"}
}

func TestSendStoresBothTurns(t *testing.T) {
	repo := NewInMemoryRepository()
	responder := &fakeResponder{reply: "That sounds really hard."}
	svc := NewService(repo, responder, nil)
	user := chatUser()

	reply, err := svc.Send(context.Background(), user, "conv-1", "My partner and I keep fighting.")
	require.NoError(t, err)

	assert.Equal(t, "That sounds really hard.", reply.Response)
	assert.False(t, reply.IsCrisis)
	assert.Nil(t, reply.Helplines)

	history, err := repo.History(context.Background(), "conv-1", user.UserID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, RoleAssistant, history[1].Role)
	assert.Equal(t, "My partner and I keep fighting.", history[0].Content)
}

func TestSendCrisisReturnsHelplines(t *testing.T) {
	repo := NewInMemoryRepository()
	responder := &fakeResponder{reply: "Please reach out for help right away."}
	svc := NewService(repo, responder, nil)

	reply, err := svc.Send(context.Background(), chatUser(), "conv-1", "I want to die")
	require.NoError(t, err)

	assert.True(t, reply.IsCrisis)
	require.NotNil(t, reply.Helplines)
	assert.Contains(t, reply.Helplines, "AASRA")

	history, err := repo.History(context.Background(), "conv-1", "user_abc123def456", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsCrisis)
	// the assistant turn is never flagged
	assert.False(t, history[1].IsCrisis)
}

func TestSendPassesPriorTurnsToResponder(t *testing.T) {
	repo := NewInMemoryRepository()
	responder := &fakeResponder{reply: "ok"}
	svc := NewService(repo, responder, nil)
	user := chatUser()

	_, err := svc.Send(context.Background(), user, "conv-1", "first message")
	require.NoError(t, err)
	assert.Empty(t, responder.gotHistory)

	_, err = svc.Send(context.Background(), user, "conv-1", "second message")
	require.NoError(t, err)
	require.Len(t, responder.gotHistory, 2)
	assert.Equal(t, "first message", responder.gotHistory[0].Content)
}

func TestSendResponderFailureStoresNothing(t *testing.T) {
	repo := NewInMemoryRepository()
	responder := &fakeResponder{err: fmt.Errorf("model unavailable")}
	svc := NewService(repo, responder, nil)

	_, err := svc.Send(context.Background(), chatUser(), "conv-1", "hello")
	require.Error(t, err)

	history, err := repo.History(context.Background(), "conv-1", "user_abc123def456", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSendValidation(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), &fakeResponder{}, nil)

	_, err := svc.Send(context.Background(), chatUser(), "conv-1", "   ")
	assert.ErrorIs(t, err, ErrMessageRequired)

	_, err = svc.Send(context.Background(), chatUser(), "", "hello")
	assert.ErrorIs(t, err, ErrSessionRequired)
}

func TestDeleteHistoryScopedToOwner(t *testing.T) {
	repo := NewInMemoryRepository()
	responder := &fakeResponder{reply: "ok"}
	svc := NewService(repo, responder, nil)

	owner := chatUser()
	other := &users.User{UserID: "user_other0000001"}

	_, err := svc.Send(context.Background(), owner, "conv-1", "hello")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteHistory(context.Background(), other, "conv-1"))
	history, err := repo.History(context.Background(), "conv-1", owner.UserID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	require.NoError(t, svc.DeleteHistory(context.Background(), owner, "conv-1"))
	history, err = repo.History(context.Background(), "conv-1", owner.UserID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDetectCrisis(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"I want to DIE", true},
		{"thinking about self harm lately", true},
		{"there is no reason to live anymore", true},
		{"my marriage is struggling", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectCrisis(tt.message), tt.message)
	}
}
