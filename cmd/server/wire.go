//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jarvis-server/services/chat-api/internal/config"
	"jarvis-server/services/chat-api/internal/domain"
	"jarvis-server/services/chat-api/internal/domain/conversation"
	"jarvis-server/services/chat-api/internal/infrastructure/completion"
	convrepo "jarvis-server/services/chat-api/internal/infrastructure/repository/conversation"
	msgrepo "jarvis-server/services/chat-api/internal/infrastructure/repository/message"
	"jarvis-server/services/chat-api/internal/interfaces/httpserver"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideConversationRepository,
	ProvideMessageRepository,
	ProvideCompletionSource,

	// Domain providers
	domain.ServiceProvider,

	// Interface providers
	httpserver.New,

	// Application
	NewApplication,
)

// ProvideConversationRepository provides the conversation repository.
func ProvideConversationRepository(db *gorm.DB) conversation.Repository {
	return convrepo.NewRepository(db)
}

// ProvideMessageRepository provides the message repository.
func ProvideMessageRepository(db *gorm.DB) conversation.MessageRepository {
	return msgrepo.NewRepository(db)
}

// ProvideCompletionSource provides the OpenAI-compatible completion source.
func ProvideCompletionSource(cfg *config.Config, log zerolog.Logger) conversation.CompletionSource {
	return completion.NewClient(cfg, log)
}

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(
	cfg *config.Config,
	log zerolog.Logger,
	db *gorm.DB,
) (*Application, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
