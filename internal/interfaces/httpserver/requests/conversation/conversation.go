// Package conversation contains HTTP request DTOs for conversation endpoints.
package conversation

// CreateConversationRequest represents the request body for creating a
// conversation. Title is optional; an empty title gets the placeholder.
type CreateConversationRequest struct {
	Title string `json:"title,omitempty"`
}

// StreamMessageRequest represents the request body for streaming a new turn.
type StreamMessageRequest struct {
	Content string `json:"content"`
}
