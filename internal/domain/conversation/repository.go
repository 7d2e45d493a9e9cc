package conversation

import "context"

// Repository exposes CRUD operations for conversation metadata.
// Store-level failures surface as DATABASE_ERROR platform errors and absent
// rows as NOT_FOUND, so callers can tell "missing" from "storage down".
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error

	// FindByPublicID fetches conversation metadata only.
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)

	// ListActive returns conversations owning at least one message, ordered
	// by UpdatedAt descending, capped at limit. Empty conversations are
	// transient and never listed.
	ListActive(ctx context.Context, userID string, limit int) ([]*Conversation, error)

	// UpdateTitle sets the conversation title.
	UpdateTitle(ctx context.Context, id uint, title string) error

	// Delete removes the conversation and cascades its messages.
	Delete(ctx context.Context, id uint) error
}

// MessageRepository persists individual conversation messages.
type MessageRepository interface {
	// Create inserts the message and bumps the owning conversation's
	// UpdatedAt in the same call.
	Create(ctx context.Context, msg *Message) error

	// UpdateContent checkpoints content and the streaming flag, bumping the
	// message's UpdatedAt.
	UpdateContent(ctx context.Context, id uint, content string, isStreaming bool) error

	// ListByConversationID returns the full ordered history
	// (CreatedAt ascending, ties broken by ID).
	ListByConversationID(ctx context.Context, conversationID uint) ([]Message, error)
}
