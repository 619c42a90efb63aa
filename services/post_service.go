package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/utils"
)

const maxTitleLength = 64

// PostService manages posts and their cascading children.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// PostUpdate carries the fields a PATCH may change. Nil fields are left alone.
type PostUpdate struct {
	Title *string
	Body  *string
}

func cleanTitle(raw string) (string, error) {
	title := utils.Sanitize(strings.TrimSpace(raw))
	if title == "" {
		return "", invalid(40020, "title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", invalid(40021, "title must be at most 64 characters")
	}
	return title, nil
}

func cleanBody(raw string) (string, error) {
	body := utils.Sanitize(raw)
	if strings.TrimSpace(body) == "" {
		return "", invalid(40022, "body cannot be empty")
	}
	return body, nil
}

// CreatePost stores a new post owned by authorID.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, title, body string) (*models.Post, error) {
	t, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	b, err := cleanBody(body)
	if err != nil {
		return nil, err
	}
	post := models.Post{AuthorID: authorID, Title: t, Body: b}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, internal(50020, "failed to create post", err)
	}
	return &post, nil
}

// ListPosts returns posts newest first with their authors.
func (s *PostService) ListPosts(ctx context.Context, page Page) ([]models.Post, int64, error) {
	var total int64
	tx := s.db.WithContext(ctx)
	if err := tx.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, internal(50021, "failed to count posts", err)
	}
	posts := []models.Post{}
	if err := tx.Preload("Author").Order("id DESC").Offset(page.offset()).Limit(page.limit()).Find(&posts).Error; err != nil {
		return nil, 0, internal(50022, "failed to list posts", err)
	}
	return posts, total, nil
}

// GetPost loads one post with its author.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound(40420, "post not found")
		}
		return nil, internal(50023, "failed to load post", err)
	}
	return &post, nil
}

// UpdatePost applies a partial update. Only the author may change a post.
func (s *PostService) UpdatePost(ctx context.Context, id, actorID uint, in PostUpdate) (*models.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(actorID, post.AuthorID, 40320, "post"); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if in.Title != nil {
		t, err := cleanTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		changes["title"] = t
		post.Title = t
	}
	if in.Body != nil {
		b, err := cleanBody(*in.Body)
		if err != nil {
			return nil, err
		}
		changes["body"] = b
		post.Body = b
	}
	if len(changes) == 0 {
		return post, nil
	}
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Updates(changes).Error; err != nil {
		return nil, internal(50024, "failed to update post", err)
	}
	return post, nil
}

// DeletePost removes the post with its comments and reactions. Only the author may do so.
func (s *PostService) DeletePost(ctx context.Context, id, actorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if isNotFound(err) {
				return notFound(40420, "post not found")
			}
			return internal(50023, "failed to load post", err)
		}
		if err := requireAuthor(actorID, post.AuthorID, 40321, "post"); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return internal(50025, "failed to delete post comments", err)
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Reaction{}).Error; err != nil {
			return internal(50026, "failed to delete post reactions", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return internal(50027, "failed to delete post", err)
		}
		return nil
	})
}
