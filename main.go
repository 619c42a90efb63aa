package main

import (
	"github.com/cppla/socialbbs/config"
	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/routes"
	"github.com/cppla/socialbbs/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(
		&models.User{},
		&models.FriendLink{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Chat{},
		&models.Message{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
