package conversation

import "time"

// DefaultTitle is the placeholder title until the title side-task replaces it.
const DefaultTitle = "New Chat"

// MessageRole indicates who authored a message. Closed set.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Conversation represents a chat thread.
type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	Object    string    `json:"object"` // "conversation"
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	Messages  []Message `json:"messages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single turn inside a conversation. Content grows monotonically
// while IsStreaming is true and is immutable after the terminal checkpoint.
type Message struct {
	ID             uint        `json:"-"`
	PublicID       string      `json:"id"`
	Object         string      `json:"object"` // "conversation.message"
	ConversationID uint        `json:"-"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	IsStreaming    bool        `json:"is_streaming"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewConversation builds an empty conversation for the given owner.
// An empty title falls back to the placeholder.
func NewConversation(publicID, userID, title string) *Conversation {
	if title == "" {
		title = DefaultTitle
	}
	return &Conversation{
		PublicID: publicID,
		Object:   "conversation",
		Title:    title,
		UserID:   userID,
	}
}

// NewMessage builds a completed message turn.
func NewMessage(publicID string, conversationID uint, role MessageRole, content string) *Message {
	return &Message{
		PublicID:       publicID,
		Object:         "conversation.message",
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
}

// NewPlaceholderMessage builds the empty in-progress assistant message that
// stream checkpoints mutate until the terminal write clears IsStreaming.
func NewPlaceholderMessage(publicID string, conversationID uint) *Message {
	return &Message{
		PublicID:       publicID,
		Object:         "conversation.message",
		ConversationID: conversationID,
		Role:           RoleAssistant,
		IsStreaming:    true,
	}
}
