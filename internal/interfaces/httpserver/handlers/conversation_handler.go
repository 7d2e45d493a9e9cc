package handlers

import (
	"context"

	"jarvis-server/services/chat-api/internal/domain/conversation"
)

// ConversationHandler handles conversation-related HTTP requests.
type ConversationHandler struct {
	service conversation.Service
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(service conversation.Service) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// CreateConversation creates a new conversation.
func (h *ConversationHandler) CreateConversation(ctx context.Context, userID, title string) (*conversation.Conversation, error) {
	return h.service.CreateConversation(ctx, userID, title)
}

// ListConversations retrieves the active conversations for a user.
func (h *ConversationHandler) ListConversations(ctx context.Context, userID string) ([]*conversation.Conversation, error) {
	return h.service.ListConversations(ctx, userID)
}

// GetConversation retrieves a conversation with its message history.
func (h *ConversationHandler) GetConversation(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	return h.service.GetConversationWithMessages(ctx, publicID)
}

// ListMessages retrieves the ordered message history of a conversation.
func (h *ConversationHandler) ListMessages(ctx context.Context, conversationPublicID string) ([]conversation.Message, error) {
	return h.service.ListMessages(ctx, conversationPublicID)
}

// DeleteConversation removes a conversation and its messages.
func (h *ConversationHandler) DeleteConversation(ctx context.Context, publicID string) error {
	return h.service.DeleteConversation(ctx, publicID)
}
