package entities

import (
	"time"

	domain "jarvis-server/services/chat-api/internal/domain/conversation"
)

// Conversation represents the database schema for conversations.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Object   string `gorm:"type:varchar(50);not null;default:'conversation'"`
	Title    string `gorm:"type:varchar(256);not null"`
	UserID   string `gorm:"type:varchar(64);index:idx_conversation_user_updated;not null"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "chat_api.conversation"
}

// EtoD converts the database entity to the domain model.
func (c *Conversation) EtoD() *domain.Conversation {
	conv := &domain.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		Object:    c.Object,
		Title:     c.Title,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if len(c.Messages) > 0 {
		conv.Messages = make([]domain.Message, len(c.Messages))
		for i := range c.Messages {
			conv.Messages[i] = *c.Messages[i].EtoD()
		}
	}
	return conv
}

// NewSchemaConversation converts a domain conversation into its entity form.
func NewSchemaConversation(conv *domain.Conversation) *Conversation {
	return &Conversation{
		ID:       conv.ID,
		PublicID: conv.PublicID,
		Object:   conv.Object,
		Title:    conv.Title,
		UserID:   conv.UserID,
	}
}
