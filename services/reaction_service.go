package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/utils"
)

// ReactionService applies toggle semantics to the (author, post) reaction row.
type ReactionService struct {
	db *gorm.DB
}

// NewReactionService creates a ReactionService.
func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{db: db}
}

// SetReaction creates the row on first use, clears it when the same value is sent
// again and overwrites it with any other value.
func (s *ReactionService) SetReaction(ctx context.Context, authorID, postID uint, raw string) (*models.Reaction, error) {
	value, ok := models.ParseReactionValue(raw)
	if !ok {
		return nil, invalid(40050, "invalid reaction value")
	}
	if postID == 0 {
		return nil, invalid(40051, "post is required")
	}

	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
		return nil, internal(50050, "failed to load post", err)
	}
	if n == 0 {
		return nil, invalid(40052, "post does not exist")
	}

	reaction, err := s.toggle(db, authorID, postID, value)
	if err != nil && isDuplicate(err) {
		// First reactions raced; the unique index kept one row, toggle against it.
		reaction, err = s.toggle(db, authorID, postID, value)
	}
	if err != nil {
		return nil, err
	}
	utils.ReactionsToggled.WithLabelValues(reactionLabel(reaction.Value)).Inc()
	return reaction, nil
}

func (s *ReactionService) toggle(db *gorm.DB, authorID, postID uint, value models.ReactionValue) (*models.Reaction, error) {
	var out models.Reaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := tx.Where("author_id = ? AND post_id = ?", authorID, postID).First(&existing).Error
		switch {
		case isNotFound(err):
			v := value
			out = models.Reaction{AuthorID: authorID, PostID: postID, Value: &v}
			if err := tx.Create(&out).Error; err != nil {
				return internal(50051, "failed to create reaction", err)
			}
			return nil
		case err != nil:
			return internal(50052, "failed to load reaction", err)
		}

		if existing.Value != nil && *existing.Value == value {
			existing.Value = nil
		} else {
			v := value
			existing.Value = &v
		}
		// Select forces the NULL write that Updates would skip.
		if err := tx.Model(&existing).Select("Value").Updates(&existing).Error; err != nil {
			return internal(50053, "failed to update reaction", err)
		}
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MyReaction returns the stored value of the user's reaction on a post, or "".
func (s *ReactionService) MyReaction(ctx context.Context, userID, postID uint) (string, error) {
	var r models.Reaction
	err := s.db.WithContext(ctx).Where("author_id = ? AND post_id = ?", userID, postID).First(&r).Error
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", internal(50054, "failed to load reaction", err)
	}
	if r.Value == nil {
		return "", nil
	}
	return string(*r.Value), nil
}

func reactionLabel(v *models.ReactionValue) string {
	if v == nil {
		return "cleared"
	}
	return string(*v)
}
