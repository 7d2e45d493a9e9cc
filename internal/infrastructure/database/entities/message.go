package entities

import (
	"time"

	domain "jarvis-server/services/chat-api/internal/domain/conversation"
)

// Message stores one turn of a conversation.
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID       string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Object         string `gorm:"type:varchar(50);not null;default:'conversation.message'"`
	ConversationID uint   `gorm:"index:idx_message_conversation_created;not null"`
	Role           string `gorm:"type:varchar(20);not null"`
	Content        string `gorm:"type:text;not null;default:''"`
	IsStreaming    bool   `gorm:"not null;default:false"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "chat_api.message"
}

// EtoD converts the database entity to the domain model.
func (m *Message) EtoD() *domain.Message {
	return &domain.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		Object:         m.Object,
		ConversationID: m.ConversationID,
		Role:           domain.MessageRole(m.Role),
		Content:        m.Content,
		IsStreaming:    m.IsStreaming,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// NewSchemaMessage converts a domain message into its entity form.
func NewSchemaMessage(msg *domain.Message) *Message {
	return &Message{
		ID:             msg.ID,
		PublicID:       msg.PublicID,
		Object:         msg.Object,
		ConversationID: msg.ConversationID,
		Role:           string(msg.Role),
		Content:        msg.Content,
		IsStreaming:    msg.IsStreaming,
	}
}
