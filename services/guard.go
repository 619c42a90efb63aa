package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/cppla/socialbbs/models"
)

// requireAuthor fails with 403 unless the actor wrote the resource.
func requireAuthor(actorID, authorID uint, code int, resource string) error {
	if actorID != authorID {
		return forbidden(code, "you are not the author of this "+resource)
	}
	return nil
}

// visibleChat loads a chat the user participates in. Missing chats and chats
// of other people are indistinguishable to the caller.
func visibleChat(tx *gorm.DB, chatID, userID uint) (*models.Chat, error) {
	var chat models.Chat
	err := tx.Where("id = ? AND (user_1_id = ? OR user_2_id = ?)", chatID, userID, userID).First(&chat).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(40430, "chat not found")
		}
		return nil, internal(50030, "failed to load chat", err)
	}
	return &chat, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// userExists reports whether a user row is present.
func userExists(tx *gorm.DB, id uint) (bool, error) {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
