package handlers

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"jarvis-server/services/chat-api/internal/domain/conversation"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Conversation *ConversationHandler
	Stream       *StreamHandler
}

// NewProvider creates a new handler provider.
func NewProvider(
	conversationService conversation.Service,
	coordinator *conversation.StreamCoordinator,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Conversation: NewConversationHandler(conversationService),
		Stream:       NewStreamHandler(coordinator, log),
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewConversationHandler,
	NewStreamHandler,
	NewProvider,
)
