package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cppla/socialbbs/config"
	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost

	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:    "silent",
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db,
		&models.User{}, &models.FriendLink{}, &models.Post{}, &models.Comment{},
		&models.Reaction{}, &models.Chat{}, &models.Message{},
	))
	return db
}

func mustUser(t *testing.T, db *gorm.DB, username, first, last string) *models.User {
	t.Helper()
	u, err := NewUserService(db).Register(context.Background(), RegisterInput{
		Username:  username,
		Password:  "secret-" + username,
		FirstName: first,
		LastName:  last,
	})
	require.NoError(t, err)
	return u
}

func mustPost(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Post {
	t.Helper()
	p, err := NewPostService(db).CreatePost(context.Background(), authorID, title, "body of "+title)
	require.NoError(t, err)
	return p
}

func requireKind(t *testing.T, err error, sentinel *Error, code int) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, sentinel), "want %s, got %v", sentinel.Kind, err)
	require.Equal(t, code, AsError(err).Code)
}
