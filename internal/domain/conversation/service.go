package conversation

import (
	"context"

	"github.com/rs/zerolog"

	"jarvis-server/services/chat-api/internal/utils/idgen"
	"jarvis-server/services/chat-api/internal/utils/platformerrors"
)

// Service defines the CRUD operations over conversations and messages.
type Service interface {
	CreateConversation(ctx context.Context, userID, title string) (*Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]*Conversation, error)
	GetConversationWithMessages(ctx context.Context, publicID string) (*Conversation, error)
	ListMessages(ctx context.Context, conversationPublicID string) ([]Message, error)
	DeleteConversation(ctx context.Context, publicID string) error
}

type service struct {
	conversations Repository
	messages      MessageRepository
	listLimit     int
	log           zerolog.Logger
}

// NewService creates a new conversation service.
func NewService(conversations Repository, messages MessageRepository, listLimit int, log zerolog.Logger) Service {
	return &service{
		conversations: conversations,
		messages:      messages,
		listLimit:     listLimit,
		log:           log.With().Str("component", "conversation-service").Logger(),
	}
}

func (s *service) CreateConversation(ctx context.Context, userID, title string) (*Conversation, error) {
	publicID, err := idgen.GenerateSecureID("conv", 16)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			"failed to generate conversation ID",
			err,
			"",
		)
	}

	conv := NewConversation(publicID, userID, title)
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}

	s.log.Debug().Str("conversation_id", conv.PublicID).Msg("conversation created")
	return conv, nil
}

func (s *service) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	return s.conversations.ListActive(ctx, userID, s.listLimit)
}

func (s *service) GetConversationWithMessages(ctx context.Context, publicID string) (*Conversation, error) {
	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByConversationID(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	conv.Messages = messages
	return conv, nil
}

func (s *service) ListMessages(ctx context.Context, conversationPublicID string) ([]Message, error) {
	conv, err := s.conversations.FindByPublicID(ctx, conversationPublicID)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByConversationID(ctx, conv.ID)
}

func (s *service) DeleteConversation(ctx context.Context, publicID string) error {
	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	if err := s.conversations.Delete(ctx, conv.ID); err != nil {
		return err
	}

	s.log.Debug().Str("conversation_id", publicID).Msg("conversation deleted")
	return nil
}
