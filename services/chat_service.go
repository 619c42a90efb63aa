package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/utils"
)

// YouLabel replaces the author name on the requester's own messages.
const YouLabel = "You"

// ChatService resolves chat identity and builds conversation views.
type ChatService struct {
	db *gorm.DB
}

// NewChatService creates a ChatService.
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// ChatSummary is one row of a user's conversation list.
type ChatSummary struct {
	ID                 uint
	CompanionID        uint
	CompanionFirstName string
	CompanionLastName  string
	LastMessageContent string
	LastMessageAt      time.Time
}

// CompanionName is "first last" of the other participant.
func (s ChatSummary) CompanionName() string {
	return strings.TrimSpace(s.CompanionFirstName + " " + s.CompanionLastName)
}

// MessageView is a message annotated for a specific reader.
type MessageView struct {
	ID              uint
	ChatID          uint
	AuthorID        uint
	AuthorFirstName string
	Content         string
	CreatedAt       time.Time
	// Author is YouLabel for the reader's own messages, the author's first name otherwise.
	Author string `gorm:"-"`
}

// GetOrCreateChat returns the single chat between requester and other, creating it
// with requester as user_1 when none exists. The bool reports whether a row was inserted.
func (s *ChatService) GetOrCreateChat(ctx context.Context, requesterID, otherID uint) (*models.Chat, bool, error) {
	if otherID == 0 {
		return nil, false, invalid(40030, "user_2 is required")
	}
	if otherID == requesterID {
		return nil, false, invalid(40031, "cannot start a chat with yourself")
	}

	tx := s.db.WithContext(ctx)
	ok, err := userExists(tx, otherID)
	if err != nil {
		return nil, false, internal(50031, "failed to load user", err)
	}
	if !ok {
		return nil, false, invalid(40032, "user does not exist")
	}

	if chat, err := s.findPair(tx, requesterID, otherID); err != nil || chat != nil {
		return chat, false, err
	}

	chat := models.Chat{User1ID: requesterID, User2ID: otherID}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&chat)
	if res.Error != nil && !isDuplicate(res.Error) {
		return nil, false, internal(50032, "failed to create chat", res.Error)
	}
	if res.Error == nil && res.RowsAffected == 1 {
		utils.ChatsCreated.Inc()
		return &chat, true, nil
	}

	// A concurrent request created the pair first; the unique index kept one row.
	utils.Sugar.Debugw("chat create lost race, re-fetching", "user_1", requesterID, "user_2", otherID)
	existing, err := s.findPair(tx, requesterID, otherID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, internal(50033, "chat vanished after conflict", nil)
	}
	return existing, false, nil
}

func (s *ChatService) findPair(tx *gorm.DB, a, b uint) (*models.Chat, error) {
	var chat models.Chat
	err := tx.Where("(user_1_id = ? AND user_2_id = ?) OR (user_1_id = ? AND user_2_id = ?)", a, b, b, a).
		First(&chat).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, internal(50030, "failed to load chat", err)
	}
	return &chat, nil
}

// ListChats returns the user's chats that have at least one message, most recently
// active first. Two queries regardless of the number of chats.
func (s *ChatService) ListChats(ctx context.Context, userID uint, page Page) ([]ChatSummary, int64, error) {
	base := s.db.WithContext(ctx).Table("chats").
		Joins("JOIN messages lm ON lm.id = (SELECT m.id FROM messages m WHERE m.chat_id = chats.id ORDER BY m.created_at DESC, m.id DESC LIMIT 1)").
		Joins("JOIN users companion ON companion.id = CASE WHEN chats.user_1_id = ? THEN chats.user_2_id ELSE chats.user_1_id END", userID).
		Where("chats.user_1_id = ? OR chats.user_2_id = ?", userID, userID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, internal(50034, "failed to count chats", err)
	}

	rows := []ChatSummary{}
	err := base.
		Select("chats.id AS id, companion.id AS companion_id, companion.first_name AS companion_first_name, " +
			"companion.last_name AS companion_last_name, lm.content AS last_message_content, lm.created_at AS last_message_at").
		Order("lm.created_at DESC, lm.id DESC").
		Offset(page.offset()).Limit(page.limit()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, internal(50035, "failed to list chats", err)
	}
	return rows, total, nil
}

// GetChat returns a chat with both participants loaded.
func (s *ChatService) GetChat(ctx context.Context, chatID, userID uint) (*models.Chat, error) {
	tx := s.db.WithContext(ctx)
	chat, err := visibleChat(tx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Preload("User1").Preload("User2").First(chat, chat.ID).Error; err != nil {
		return nil, internal(50030, "failed to load chat", err)
	}
	return chat, nil
}

// ListMessages returns the chat's messages newest first, labelled for the requester.
func (s *ChatService) ListMessages(ctx context.Context, chatID, requesterID uint, page Page) ([]MessageView, int64, error) {
	tx := s.db.WithContext(ctx)
	if _, err := visibleChat(tx, chatID, requesterID); err != nil {
		return nil, 0, err
	}

	base := tx.Table("messages").
		Joins("JOIN users ON users.id = messages.author_id").
		Where("messages.chat_id = ?", chatID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, internal(50036, "failed to count messages", err)
	}

	views := []MessageView{}
	err := base.
		Select("messages.id AS id, messages.chat_id AS chat_id, messages.author_id AS author_id, " +
			"users.first_name AS author_first_name, messages.content AS content, messages.created_at AS created_at").
		Order("messages.created_at DESC, messages.id DESC").
		Offset(page.offset()).Limit(page.limit()).
		Scan(&views).Error
	if err != nil {
		return nil, 0, internal(50037, "failed to list messages", err)
	}

	for i := range views {
		if views[i].AuthorID == requesterID {
			views[i].Author = YouLabel
		} else {
			views[i].Author = views[i].AuthorFirstName
		}
	}
	return views, total, nil
}

// DeleteChat removes the chat and all its messages. Only participants may do so;
// everyone else sees the chat as missing.
func (s *ChatService) DeleteChat(ctx context.Context, chatID, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := visibleChat(tx, chatID, userID)
		if err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&models.Message{}).Error; err != nil {
			return internal(50038, "failed to delete chat messages", err)
		}
		if err := tx.Delete(chat).Error; err != nil {
			return internal(50039, "failed to delete chat", err)
		}
		return nil
	})
}
