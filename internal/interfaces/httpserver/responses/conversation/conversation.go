// Package conversationres contains HTTP response DTOs for conversation
// endpoints.
package conversationres

import (
	"time"

	domain "jarvis-server/services/chat-api/internal/domain/conversation"
)

// ConversationResponse represents a conversation in API responses.
type ConversationResponse struct {
	ID        string             `json:"id"`
	Object    string             `json:"object"`
	Title     string             `json:"title"`
	UserID    string             `json:"user_id"`
	Messages  []*MessageResponse `json:"messages,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID          string    `json:"id"`
	Object      string    `json:"object"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	IsStreaming bool      `json:"is_streaming"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListConversationsResponse represents the response for listing conversations.
type ListConversationsResponse struct {
	Object string                  `json:"object"`
	Data   []*ConversationResponse `json:"data"`
}

// ListMessagesResponse represents the response for listing messages.
type ListMessagesResponse struct {
	Object string             `json:"object"`
	Data   []*MessageResponse `json:"data"`
}

// DeleteConversationResponse represents the response for deleting a
// conversation.
type DeleteConversationResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// NewConversationResponse creates a ConversationResponse from the domain
// model, excluding messages.
func NewConversationResponse(conv *domain.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ID:        conv.PublicID,
		Object:    conv.Object,
		Title:     conv.Title,
		UserID:    conv.UserID,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}

// NewConversationWithMessagesResponse creates a ConversationResponse
// including the ordered message history.
func NewConversationWithMessagesResponse(conv *domain.Conversation) *ConversationResponse {
	resp := NewConversationResponse(conv)
	resp.Messages = make([]*MessageResponse, len(conv.Messages))
	for i := range conv.Messages {
		resp.Messages[i] = NewMessageResponse(&conv.Messages[i])
	}
	return resp
}

// NewMessageResponse creates a MessageResponse from the domain model.
func NewMessageResponse(msg *domain.Message) *MessageResponse {
	return &MessageResponse{
		ID:          msg.PublicID,
		Object:      msg.Object,
		Role:        string(msg.Role),
		Content:     msg.Content,
		IsStreaming: msg.IsStreaming,
		CreatedAt:   msg.CreatedAt,
		UpdatedAt:   msg.UpdatedAt,
	}
}

// NewListConversationsResponse creates a ListConversationsResponse.
func NewListConversationsResponse(conversations []*domain.Conversation) *ListConversationsResponse {
	data := make([]*ConversationResponse, len(conversations))
	for i, c := range conversations {
		data[i] = NewConversationResponse(c)
	}
	return &ListConversationsResponse{Object: "list", Data: data}
}

// NewListMessagesResponse creates a ListMessagesResponse.
func NewListMessagesResponse(messages []domain.Message) *ListMessagesResponse {
	data := make([]*MessageResponse, len(messages))
	for i := range messages {
		data[i] = NewMessageResponse(&messages[i])
	}
	return &ListMessagesResponse{Object: "list", Data: data}
}

// NewDeleteConversationResponse creates a DeleteConversationResponse.
func NewDeleteConversationResponse(id string) *DeleteConversationResponse {
	return &DeleteConversationResponse{
		ID:      id,
		Object:  "conversation.deleted",
		Deleted: true,
	}
}
