package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/socialbbs/middleware"
	"github.com/cppla/socialbbs/services"
	"github.com/cppla/socialbbs/utils"
)

// UserController handles registration, sessions, profiles and friendships.
type UserController struct {
	users *services.UserService
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{users: services.NewUserService(db)}
}

// Register handles open account registration.
func (u *UserController) Register(ctx *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		Password  string `json:"password" binding:"required"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx, 40000)
		return
	}

	user, err := u.users.Register(ctx.Request.Context(), services.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, utils.TokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to generate token")
		return
	}
	utils.Created(ctx, gin.H{
		"token": token,
		"user": registeredUser{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	})
}

// Login verifies user credentials and issues a JWT.
func (u *UserController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx, 40007)
		return
	}

	user, err := u.users.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, utils.TokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{"token": token})
}

// Logout invalidates the token by blacklisting it until expiration.
func (u *UserController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claimsVal, _ := ctx.Get(middleware.ContextClaimsKey)
	claims, ok := claimsVal.(*utils.Claims)
	if token == "" || !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	expiresAt := time.Now().Add(utils.TokenTTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(ctx.Request.Context(), token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// ListUsers returns paginated users flagged with the viewer's friendship.
func (u *UserController) ListUsers(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	items, total, err := u.users.ListUsers(ctx.Request.Context(), uid, parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Paginated(ctx, total, toUserListItems(items))
}

// GetUser returns a user's profile.
func (u *UserController) GetUser(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	u.respondDetail(ctx, uid, id)
}

// Me returns the current authenticated user's profile.
func (u *UserController) Me(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	u.respondDetail(ctx, uid, uid)
}

func (u *UserController) respondDetail(ctx *gin.Context, viewerID, id uint) {
	detail, err := u.users.GetUser(ctx.Request.Context(), viewerID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, toUserDetail(detail))
}

// Friends lists the friends of a user.
func (u *UserController) Friends(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	items, total, err := u.users.ListFriends(ctx.Request.Context(), uid, id, parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Paginated(ctx, total, toUserListItems(items))
}

// AddFriend befriends the user in the path.
func (u *UserController) AddFriend(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := u.users.AddFriend(ctx.Request.Context(), uid, id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "friend added"})
}

// RemoveFriend drops the friendship with the user in the path.
func (u *UserController) RemoveFriend(ctx *gin.Context) {
	uid, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := u.users.RemoveFriend(ctx.Request.Context(), uid, id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "friend removed"})
}
