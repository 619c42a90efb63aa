package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/socialbbs/services"
	"github.com/cppla/socialbbs/utils"
)

// MessageController writes and deletes messages.
type MessageController struct {
	messages *services.MessageService
}

// NewMessageController creates a MessageController.
func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{messages: services.NewMessageService(db)}
}

// CreateMessage posts content into a chat the caller belongs to.
func (m *MessageController) CreateMessage(ctx *gin.Context) {
	var req struct {
		Chat    uint   `json:"chat"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx, 40044)
		return
	}
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}

	msg, err := m.messages.CreateMessage(ctx.Request.Context(), uid, req.Chat, req.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, toMessageWrite(msg))
}

// DeleteMessage removes the caller's own message.
func (m *MessageController) DeleteMessage(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := m.messages.DeleteMessage(ctx.Request.Context(), id, uid); err != nil {
		respondError(ctx, err)
		return
	}
	utils.NoContent(ctx)
}
