package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"jarvis-server/services/chat-api/internal/config"
	"jarvis-server/services/chat-api/internal/domain/conversation"
)

// ProvideConversationService provides the conversation CRUD service.
func ProvideConversationService(
	conversations conversation.Repository,
	messages conversation.MessageRepository,
	cfg *config.Config,
	log zerolog.Logger,
) conversation.Service {
	return conversation.NewService(conversations, messages, cfg.ConversationLimit, log)
}

// ProvideStreamCoordinator provides the stream coordinator.
func ProvideStreamCoordinator(
	conversations conversation.Repository,
	messages conversation.MessageRepository,
	source conversation.CompletionSource,
	cfg *config.Config,
	log zerolog.Logger,
) *conversation.StreamCoordinator {
	return conversation.NewStreamCoordinator(conversations, messages, source, cfg.CheckpointInterval, log)
}

// ServiceProvider provides all domain services.
var ServiceProvider = wire.NewSet(
	ProvideConversationService,
	ProvideStreamCoordinator,
)
