package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saathihq/saathi-platform/internal/users"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

// Service errors surfaced to the HTTP layer.
var (
	ErrMessageRequired = errors.New("chat: message is required")
	ErrSessionRequired = errors.New("chat: session id is required")
)

// Reply is the outcome of one conversation turn. Helplines is non-nil
// only when the user's message contained crisis language.
type Reply struct {
	Response  string            `json:"response"`
	IsCrisis  bool              `json:"is_crisis"`
	Helplines map[string]string `json:"helplines"`
}

// Service runs support conversations: crisis screening, model reply,
// and persistence of both turns.
type Service struct {
	repo      Repository
	responder Responder
	logger    *logging.Logger
}

// NewService constructs the chat service.
func NewService(repo Repository, responder Responder, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, responder: responder, logger: logger}
}

// Send runs one conversation turn for the user.
func (s *Service) Send(ctx context.Context, user *users.User, sessionID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}

	isCrisis := DetectCrisis(message)
	if isCrisis {
		s.logger.Warn("crisis language detected", "user_id", user.UserID, "session_id", sessionID)
	}

	history, err := s.repo.History(ctx, sessionID, user.UserID, 0)
	if err != nil {
		return nil, fmt.Errorf("chat: load history: %w", err)
	}

	response, err := s.responder.Respond(ctx, history, message)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	userMsg := &Message{
		MessageID: newMessageID(),
		SessionID: sessionID,
		UserID:    user.UserID,
		Role:      RoleUser,
		Content:   message,
		IsCrisis:  isCrisis,
		Timestamp: now,
	}
	assistantMsg := &Message{
		MessageID: newMessageID(),
		SessionID: sessionID,
		UserID:    user.UserID,
		Role:      RoleAssistant,
		Content:   response,
		Timestamp: now.Add(time.Millisecond),
	}
	if err := s.repo.Append(ctx, userMsg, assistantMsg); err != nil {
		return nil, fmt.Errorf("chat: store messages: %w", err)
	}

	reply := &Reply{Response: response, IsCrisis: isCrisis}
	if isCrisis {
		reply.Helplines = IndiaHelplines
	}
	return reply, nil
}

// History returns a conversation oldest first.
func (s *Service) History(ctx context.Context, user *users.User, sessionID string, limit int) ([]*Message, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.History(ctx, sessionID, user.UserID, limit)
}

// DeleteHistory removes the user's conversation.
func (s *Service) DeleteHistory(ctx context.Context, user *users.User, sessionID string) error {
	return s.repo.DeleteHistory(ctx, sessionID, user.UserID)
}

func newMessageID() string {
	return "msg_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
