package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cppla/socialbbs/config"
	"github.com/cppla/socialbbs/controllers"
	"github.com/cppla/socialbbs/middleware"
	"github.com/cppla/socialbbs/utils"
)

// handle registers path with and without its trailing slash.
func handle(g *gin.RouterGroup, method, path string, handlers ...gin.HandlerFunc) {
	path = strings.TrimSuffix(path, "/")
	g.Handle(method, path, handlers...)
	g.Handle(method, path+"/", handlers...)
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false

	r.Use(middleware.RequestID())
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}
	r.Use(middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := controllers.NewUserController(db)
	posts := controllers.NewPostController(db)
	comments := controllers.NewCommentController(db)
	reactions := controllers.NewReactionController(db)
	chats := controllers.NewChatController(db)
	messages := controllers.NewMessageController(db)

	api := r.Group("/api")

	open := api.Group("")
	open.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	handle(open, http.MethodPost, "/users", users.Register)
	handle(open, http.MethodPost, "/users/login", users.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))

	handle(protected, http.MethodPost, "/users/logout", users.Logout)
	handle(protected, http.MethodGet, "/users", users.ListUsers)
	handle(protected, http.MethodGet, "/users/me", users.Me)
	handle(protected, http.MethodGet, "/users/:id", users.GetUser)
	handle(protected, http.MethodGet, "/users/:id/friends", users.Friends)
	handle(protected, http.MethodPost, "/users/:id/add_friend", users.AddFriend)
	handle(protected, http.MethodPost, "/users/:id/remove_friend", users.RemoveFriend)

	handle(protected, http.MethodPost, "/posts", posts.CreatePost)
	handle(protected, http.MethodGet, "/posts", posts.ListPosts)
	handle(protected, http.MethodGet, "/posts/:id", posts.GetPost)
	handle(protected, http.MethodPatch, "/posts/:id", posts.UpdatePost)
	handle(protected, http.MethodDelete, "/posts/:id", posts.DeletePost)

	handle(protected, http.MethodPost, "/comments", comments.CreateComment)
	handle(protected, http.MethodGet, "/comments", comments.ListComments)
	handle(protected, http.MethodDelete, "/comments/:id", comments.DeleteComment)

	handle(protected, http.MethodPost, "/reaction", reactions.SetReaction)

	handle(protected, http.MethodPost, "/chats", chats.CreateChat)
	handle(protected, http.MethodGet, "/chats", chats.ListChats)
	handle(protected, http.MethodGet, "/chats/:id", chats.GetChat)
	handle(protected, http.MethodDelete, "/chats/:id", chats.DeleteChat)
	handle(protected, http.MethodGet, "/chats/:id/messages", chats.Messages)

	handle(protected, http.MethodPost, "/messages", messages.CreateMessage)
	handle(protected, http.MethodDelete, "/messages/:id", messages.DeleteMessage)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
