package service

import (
	"context"

	"cleanify-client/internal/model"
	"cleanify-client/internal/session"
)

type ChatBackend interface {
	ListChat(ctx context.Context) ([]model.ChatMessage, error)
	SendChat(ctx context.Context, msg model.ChatMessage) (model.ChatMessage, error)
}

// ChatService relays community chat, stamping outgoing messages with the
// sender's current badge tier.
type ChatService struct {
	backend ChatBackend
	ledgers *session.Manager
}

func NewChatService(backend ChatBackend, ledgers *session.Manager) *ChatService {
	return &ChatService{backend: backend, ledgers: ledgers}
}

func (s *ChatService) Messages(ctx context.Context) ([]model.ChatMessage, error) {
	return s.backend.ListChat(ctx)
}

func (s *ChatService) Send(ctx context.Context, name, text string) (model.ChatMessage, error) {
	ledger, err := s.ledgers.Ledger(name)
	if err != nil {
		return model.ChatMessage{}, err
	}
	badge := ledger.CurrentBadge()

	return s.backend.SendChat(ctx, model.ChatMessage{
		Sender: name,
		Badge:  string(badge.Tier),
		Text:   text,
	})
}
