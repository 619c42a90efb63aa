package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/socialbbs/services"
	"github.com/cppla/socialbbs/utils"
)

// ReactionController exposes the reaction toggle.
type ReactionController struct {
	reactions *services.ReactionService
}

// NewReactionController creates a ReactionController.
func NewReactionController(db *gorm.DB) *ReactionController {
	return &ReactionController{reactions: services.NewReactionService(db)}
}

// SetReaction creates, switches or clears the caller's reaction on a post.
func (r *ReactionController) SetReaction(ctx *gin.Context) {
	var req struct {
		Post  uint   `json:"post"`
		Value string `json:"value"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx, 40053)
		return
	}
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}

	reaction, err := r.reactions.SetReaction(ctx.Request.Context(), uid, req.Post, req.Value)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, toReactionView(reaction))
}
