package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "jarvis-server/services/chat-api/internal/domain/conversation"
	"jarvis-server/services/chat-api/internal/infrastructure/database/entities"
	"jarvis-server/services/chat-api/internal/infrastructure/metrics"
	"jarvis-server/services/chat-api/internal/utils/platformerrors"
)

// Repository persists conversation messages.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a message repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the message and bumps the owning conversation's updated_at
// in the same transaction, keeping the listing order invariant.
func (r *Repository) Create(ctx context.Context, msg *domain.Message) error {
	entity := entities.NewSchemaMessage(msg)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Conversation{}).
			Where("id = ?", entity.ConversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create message",
			err,
			"5e9f0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b",
		)
	}

	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	msg.UpdatedAt = entity.UpdatedAt
	return nil
}

// UpdateContent checkpoints the message content and streaming flag.
func (r *Repository) UpdateContent(ctx context.Context, id uint, content string, isStreaming bool) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":      content,
			"is_streaming": isStreaming,
		})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to checkpoint message content",
			result.Error,
			"6f0a1b2c-3d4e-5f6a-7b8c-9d0e1f2a3b4c",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("message not found: %d", id),
			nil,
			"7a1b2c3d-4e5f-6a7b-8c9d-0e1f2a3b4c5d",
		)
	}

	metrics.RecordCheckpoint()
	return nil
}

// ListByConversationID returns the ordered message history for a
// conversation: created_at ascending, ties broken by id.
func (r *Repository) ListByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"8b2c3d4e-5f6a-7b8c-9d0e-1f2a3b4c5d6e",
		)
	}

	messages := make([]domain.Message, len(rows))
	for i := range rows {
		messages[i] = *rows[i].EtoD()
	}
	return messages, nil
}
