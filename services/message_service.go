package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/utils"
)

// MessageService writes and removes chat messages.
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a MessageService.
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// CreateMessage stores content in chatID on behalf of authorID. The author must be
// one of the chat's participants; that is checked before anything is written.
func (s *MessageService) CreateMessage(ctx context.Context, authorID, chatID uint, content string) (*models.Message, error) {
	if chatID == 0 {
		return nil, invalid(40040, "chat is required")
	}
	content = utils.Sanitize(strings.TrimSpace(content))
	if content == "" {
		return nil, invalid(40041, "content cannot be empty")
	}

	tx := s.db.WithContext(ctx)
	var chat models.Chat
	if err := tx.First(&chat, chatID).Error; err != nil {
		if isNotFound(err) {
			return nil, invalid(40042, "chat does not exist")
		}
		return nil, internal(50040, "failed to load chat", err)
	}
	if !chat.HasParticipant(authorID) {
		return nil, invalid(40043, "you are not a participant of this chat")
	}

	msg := models.Message{ChatID: chat.ID, AuthorID: authorID, Content: content}
	if err := tx.Create(&msg).Error; err != nil {
		return nil, internal(50041, "failed to create message", err)
	}
	utils.MessagesSent.Inc()
	return &msg, nil
}

// DeleteMessage removes a message written by actorID. Participants who did not write
// it get 403; everyone outside the chat gets 404.
func (s *MessageService) DeleteMessage(ctx context.Context, messageID, actorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		if err := tx.First(&msg, messageID).Error; err != nil {
			if isNotFound(err) {
				return notFound(40440, "message not found")
			}
			return internal(50042, "failed to load message", err)
		}
		if _, err := visibleChat(tx, msg.ChatID, actorID); err != nil {
			if AsError(err).Kind == KindNotFound {
				return notFound(40440, "message not found")
			}
			return err
		}
		if err := requireAuthor(actorID, msg.AuthorID, 40340, "message"); err != nil {
			return err
		}
		if err := tx.Delete(&msg).Error; err != nil {
			return internal(50043, "failed to delete message", err)
		}
		return nil
	})
}
