package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/socialbbs/services"
	"github.com/cppla/socialbbs/utils"
)

// ChatController exposes chats and their message history.
type ChatController struct {
	chats *services.ChatService
}

// NewChatController creates a ChatController.
func NewChatController(db *gorm.DB) *ChatController {
	return &ChatController{chats: services.NewChatService(db)}
}

// CreateChat returns the chat with user_2, creating it on first contact.
func (c *ChatController) CreateChat(ctx *gin.Context) {
	var req struct {
		User2 uint `json:"user_2"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx, 40033)
		return
	}
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}

	chat, created, err := c.chats.GetOrCreateChat(ctx.Request.Context(), uid, req.User2)
	if err != nil {
		respondError(ctx, err)
		return
	}
	body := chatWrite{ID: chat.ID, User1: chat.User1ID, User2: chat.User2ID}
	if created {
		utils.Created(ctx, body)
		return
	}
	utils.Success(ctx, body)
}

// ListChats returns the caller's active conversations, most recent first.
func (c *ChatController) ListChats(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	rows, total, err := c.chats.ListChats(ctx.Request.Context(), uid, parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Paginated(ctx, total, toChatSummaries(rows))
}

// GetChat returns one chat of the caller.
func (c *ChatController) GetChat(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	chat, err := c.chats.GetChat(ctx.Request.Context(), id, uid)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, toChatDetail(chat, uid))
}

// Messages lists a chat's messages newest first.
func (c *ChatController) Messages(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	views, total, err := c.chats.ListMessages(ctx.Request.Context(), id, uid, parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Paginated(ctx, total, toMessageViews(views))
}

// DeleteChat removes a chat and its messages.
func (c *ChatController) DeleteChat(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.chats.DeleteChat(ctx.Request.Context(), id, uid); err != nil {
		respondError(ctx, err)
		return
	}
	utils.NoContent(ctx)
}
