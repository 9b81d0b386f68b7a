// Package usecase orchestrates a conversation turn: it guards against
// overlapping sends, calls the chat endpoint, applies the normalized
// reply to the conversation state, and hands the resulting batch to the
// playback engine.
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"righthome-agent/internal/chatapi"
	"righthome-agent/internal/domain"
)

const maxMessageLen = 2000

// ChatSender posts a conversation history and returns the raw reply.
type ChatSender interface {
	Send(ctx context.Context, history []domain.ChatMessage) (*chatapi.Reply, error)
}

// ConversationState is the committed-state surface the service drives.
// User messages commit here directly; assistant messages commit through
// the playback engine one at a time.
type ConversationState interface {
	Load() bool
	Append(msg domain.Message)
	History() []domain.ChatMessage
	ReplaceProperties(props []domain.Property)
	Reset()
	Len() int
}

// Player animates a batch of pending messages into the transcript.
type Player interface {
	Play(batch []domain.Message) error
	Busy() bool
	Cancel()
}

type ChatService struct {
	sender    ChatSender
	state     ConversationState
	player    Player
	log       *zap.Logger
	sessionID string
}

func NewChatService(sender ChatSender, state ConversationState, player Player, log *zap.Logger) (*ChatService, error) {
	if sender == nil {
		return nil, errors.New("usecase: chat sender must not be nil")
	}
	if state == nil {
		return nil, errors.New("usecase: conversation state must not be nil")
	}
	if player == nil {
		return nil, errors.New("usecase: player must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{
		sender:    sender,
		state:     state,
		player:    player,
		log:       log,
		sessionID: newUUID(),
	}, nil
}

// SessionID identifies this client session in logs.
func (s *ChatService) SessionID() string {
	return s.sessionID
}

// Start restores a cached conversation, or runs the opening exchange
// against an empty history when there is nothing to restore. It reports
// whether a previous conversation was resumed.
func (s *ChatService) Start(ctx context.Context) (bool, error) {
	if s.state.Load() {
		s.log.Info("conversation restored from cache",
			zap.String("session_id", s.sessionID),
			zap.Int("messages", s.state.Len()))
		return true, nil
	}
	if err := s.exchange(ctx, nil); err != nil {
		return false, err
	}
	return false, nil
}

// Send submits one user message. While a batch is still animating the
// send is rejected with a BUSY error; nothing is queued.
func (s *ChatService) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return newError(ErrorInvalidInput, "empty_message", nil)
	}
	if len(text) > maxMessageLen {
		return newError(ErrorInvalidInput, "message_too_long", nil)
	}
	if s.player.Busy() {
		return newError(ErrorBusy, "batch_in_flight", nil)
	}
	return s.exchange(ctx, &text)
}

// Reset cancels any in-flight playback and clears the conversation.
// Cancel runs first so a stale timer cannot commit into the cleared
// transcript.
func (s *ChatService) Reset() {
	s.player.Cancel()
	s.state.Reset()
	s.log.Info("conversation reset", zap.String("session_id", s.sessionID))
}

// exchange posts the current history (plus the optional outgoing user
// message) and plays the reply. The user message commits to the
// transcript before the request goes out, so it survives a failed send
// and the retry history still carries it.
func (s *ChatService) exchange(ctx context.Context, userText *string) error {
	if userText != nil {
		s.state.Append(domain.NewUserMessage(*userText))
	}
	history := s.state.History()

	reply, err := s.sender.Send(ctx, history)
	if err != nil {
		s.log.Error("chat request failed",
			zap.String("session_id", s.sessionID),
			zap.Error(err))
		return newError(ErrorTransport, "chat_request_failed", err)
	}

	messages, properties := chatapi.Normalize(reply)
	if properties != nil {
		s.state.ReplaceProperties(properties)
	}

	s.log.Info("reply normalized",
		zap.String("session_id", s.sessionID),
		zap.Int("messages", len(messages)),
		zap.Int("properties", len(properties)))

	if err := s.player.Play(messages); err != nil {
		return newError(ErrorBusy, "batch_in_flight", err)
	}
	return nil
}

var newUUID = func() string {
	return uuid.NewString()
}
