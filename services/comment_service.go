package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/utils"
)

// CommentService manages comments on posts.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// CreateComment adds a comment to an existing post.
func (s *CommentService) CreateComment(ctx context.Context, authorID, postID uint, body string) (*models.Comment, error) {
	body = utils.Sanitize(body)
	if strings.TrimSpace(body) == "" {
		return nil, invalid(40060, "body cannot be empty")
	}
	if postID == 0 {
		return nil, invalid(40061, "post is required")
	}

	tx := s.db.WithContext(ctx)
	var n int64
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
		return nil, internal(50060, "failed to load post", err)
	}
	if n == 0 {
		return nil, invalid(40062, "post does not exist")
	}

	comment := models.Comment{PostID: postID, AuthorID: authorID, Body: body}
	if err := tx.Create(&comment).Error; err != nil {
		return nil, internal(50061, "failed to create comment", err)
	}
	return &comment, nil
}

// ListComments returns comments newest first, optionally limited to one post (postID 0 means all).
func (s *CommentService) ListComments(ctx context.Context, postID uint, page Page) ([]models.Comment, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Comment{})
	if postID != 0 {
		q = q.Where("post_id = ?", postID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, internal(50062, "failed to count comments", err)
	}
	comments := []models.Comment{}
	if err := q.Preload("Author").Order("id DESC").Offset(page.offset()).Limit(page.limit()).Find(&comments).Error; err != nil {
		return nil, 0, internal(50063, "failed to list comments", err)
	}
	return comments, total, nil
}

// DeleteComment removes a comment written by actorID.
func (s *CommentService) DeleteComment(ctx context.Context, id, actorID uint) error {
	tx := s.db.WithContext(ctx)
	var comment models.Comment
	if err := tx.First(&comment, id).Error; err != nil {
		if isNotFound(err) {
			return notFound(40460, "comment not found")
		}
		return internal(50064, "failed to load comment", err)
	}
	if err := requireAuthor(actorID, comment.AuthorID, 40360, "comment"); err != nil {
		return err
	}
	if err := tx.Delete(&comment).Error; err != nil {
		return internal(50065, "failed to delete comment", err)
	}
	return nil
}
