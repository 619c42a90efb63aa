package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/socialbbs/services"
	"github.com/cppla/socialbbs/utils"
)

// CommentController manages comments.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{comments: services.NewCommentService(db)}
}

// CreateComment allows authenticated users to comment on posts.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Post uint   `json:"post"`
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx, 40063)
		return
	}
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}

	comment, err := c.comments.CreateComment(ctx.Request.Context(), uid, req.Post, req.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, commentWrite{
		ID:        comment.ID,
		Author:    comment.AuthorID,
		Post:      comment.PostID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	})
}

// ListComments returns comments, filtered by ?post__id= when given.
func (c *CommentController) ListComments(ctx *gin.Context) {
	var postID uint
	if raw := ctx.Query("post__id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40064, "post__id must be a number")
			return
		}
		postID = uint(id)
	}
	comments, total, err := c.comments.ListComments(ctx.Request.Context(), postID, parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Paginated(ctx, total, toCommentViews(comments))
}

// DeleteComment allows the comment author to delete it.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.comments.DeleteComment(ctx.Request.Context(), id, uid); err != nil {
		respondError(ctx, err)
		return
	}
	utils.NoContent(ctx)
}
