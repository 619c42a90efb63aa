package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/socialbbs/services"
	"github.com/cppla/socialbbs/utils"
)

// PostController manages CRUD operations for posts.
type PostController struct {
	posts     *services.PostService
	reactions *services.ReactionService
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{
		posts:     services.NewPostService(db),
		reactions: services.NewReactionService(db),
	}
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx, 40023)
		return
	}
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}

	post, err := p.posts.CreatePost(ctx.Request.Context(), uid, req.Title, req.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, toPostWrite(post))
}

// ListPosts returns paginated posts with truncated bodies.
func (p *PostController) ListPosts(ctx *gin.Context) {
	posts, total, err := p.posts.ListPosts(ctx.Request.Context(), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Paginated(ctx, total, toPostListItems(posts))
}

// GetPost returns a single post with the viewer's reaction.
func (p *PostController) GetPost(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	post, err := p.posts.GetPost(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	mine, err := p.reactions.MyReaction(ctx.Request.Context(), uid, post.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, postDetail{
		ID:         post.ID,
		Author:     toUserShort(post.Author),
		Title:      post.Title,
		Body:       post.Body,
		MyReaction: mine,
		CreatedAt:  post.CreatedAt,
	})
}

// UpdatePost allows the author to change title and/or body.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Title *string `json:"title"`
		Body  *string `json:"body"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx, 40024)
		return
	}
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	post, err := p.posts.UpdatePost(ctx.Request.Context(), id, uid, services.PostUpdate{Title: req.Title, Body: req.Body})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, toPostWrite(post))
}

// DeletePost allows the author to delete their post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := p.posts.DeletePost(ctx.Request.Context(), id, uid); err != nil {
		respondError(ctx, err)
		return
	}
	utils.NoContent(ctx)
}
