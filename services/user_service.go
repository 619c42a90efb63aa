package services

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/utils"
)

// UserService handles registration, credentials and the friendship graph.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// RegisterInput is the payload of an open registration.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// UserListItem is a user as seen by a viewer in a list.
type UserListItem struct {
	User     models.User
	IsFriend bool
}

// UserDetail is a user profile as seen by a viewer.
type UserDetail struct {
	User        models.User
	IsFriend    bool
	FriendCount int64
	Posts       []models.Post
}

func validUsername(s string) bool {
	// letters, digits and @ . + - _
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '@', '.', '+', '-', '_':
			continue
		}
		return false
	}
	return true
}

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, invalid(40001, "username cannot be empty")
	}
	if utf8.RuneCountInString(username) > 150 || !validUsername(username) {
		return nil, invalid(40002, "username may contain at most 150 letters, digits and @.+-_")
	}
	if in.Password == "" {
		return nil, invalid(40003, "password cannot be empty")
	}
	email := strings.TrimSpace(in.Email)
	if email != "" && (!strings.Contains(email, "@") || len(email) > 255) {
		return nil, invalid(40004, "invalid email")
	}

	tx := s.db.WithContext(ctx)
	var n int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return nil, internal(50001, "failed to check username", err)
	}
	if n > 0 {
		return nil, invalid(40005, "username already exists")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, internal(50002, "failed to hash password", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    utils.Sanitize(strings.TrimSpace(in.FirstName)),
		LastName:     utils.Sanitize(strings.TrimSpace(in.LastName)),
	}
	if err := tx.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, invalid(40005, "username already exists")
		}
		return nil, internal(50003, "failed to create user", err)
	}
	return &user, nil
}

// Authenticate checks a username/password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, unauthenticated(40106, "invalid username or password")
		}
		return nil, internal(50004, "failed to load user", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, unauthenticated(40106, "invalid username or password")
	}
	return &user, nil
}

// ListUsers returns all users newest first, each flagged when the viewer counts them as a friend.
func (s *UserService) ListUsers(ctx context.Context, viewerID uint, page Page) ([]UserListItem, int64, error) {
	tx := s.db.WithContext(ctx)
	var total int64
	if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, internal(50005, "failed to count users", err)
	}
	var users []models.User
	if err := tx.Order("id DESC").Offset(page.offset()).Limit(page.limit()).Find(&users).Error; err != nil {
		return nil, 0, internal(50006, "failed to list users", err)
	}
	items, err := s.annotate(tx, viewerID, users)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetUser returns the profile of id with the viewer's friendship flag and the user's posts.
func (s *UserService) GetUser(ctx context.Context, viewerID, id uint) (*UserDetail, error) {
	tx := s.db.WithContext(ctx)
	var user models.User
	err := tx.Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order("id DESC") }).First(&user, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(40410, "user not found")
		}
		return nil, internal(50007, "failed to get user", err)
	}

	detail := &UserDetail{User: user, Posts: user.Posts}
	if detail.Posts == nil {
		detail.Posts = []models.Post{}
	}
	if err := tx.Model(&models.FriendLink{}).Where("user_id = ?", user.ID).Count(&detail.FriendCount).Error; err != nil {
		return nil, internal(50008, "failed to count friends", err)
	}
	friends, err := friendSet(tx, viewerID, []uint{user.ID})
	if err != nil {
		return nil, err
	}
	detail.IsFriend = friends[user.ID]
	return detail, nil
}

// ListFriends returns the friends of id, flagged relative to the viewer.
func (s *UserService) ListFriends(ctx context.Context, viewerID, id uint, page Page) ([]UserListItem, int64, error) {
	tx := s.db.WithContext(ctx)
	ok, err := userExists(tx, id)
	if err != nil {
		return nil, 0, internal(50007, "failed to get user", err)
	}
	if !ok {
		return nil, 0, notFound(40410, "user not found")
	}

	base := tx.Model(&models.User{}).
		Joins("JOIN user_friends ON user_friends.friend_id = users.id").
		Where("user_friends.user_id = ?", id).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, internal(50009, "failed to count friends", err)
	}
	var users []models.User
	if err := base.Select("users.*").Order("users.id DESC").Offset(page.offset()).Limit(page.limit()).Find(&users).Error; err != nil {
		return nil, 0, internal(50010, "failed to list friends", err)
	}
	items, err := s.annotate(tx, viewerID, users)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AddFriend links actor and id in both directions. Repeated calls are no-ops.
func (s *UserService) AddFriend(ctx context.Context, actorID, id uint) error {
	if err := s.checkFriendTarget(ctx, actorID, id); err != nil {
		return err
	}
	links := []models.FriendLink{{UserID: actorID, FriendID: id}, {UserID: id, FriendID: actorID}}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	if err != nil && !isDuplicate(err) {
		return internal(50011, "failed to add friend", err)
	}
	return nil
}

// RemoveFriend drops both directions of the link between actor and id.
func (s *UserService) RemoveFriend(ctx context.Context, actorID, id uint) error {
	if err := s.checkFriendTarget(ctx, actorID, id); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", actorID, id, id, actorID).
		Delete(&models.FriendLink{}).Error
	if err != nil {
		return internal(50012, "failed to remove friend", err)
	}
	return nil
}

func (s *UserService) checkFriendTarget(ctx context.Context, actorID, id uint) error {
	ok, err := userExists(s.db.WithContext(ctx), id)
	if err != nil {
		return internal(50007, "failed to get user", err)
	}
	if !ok {
		return notFound(40410, "user not found")
	}
	if actorID == id {
		return invalid(40006, "cannot befriend yourself")
	}
	return nil
}

func (s *UserService) annotate(tx *gorm.DB, viewerID uint, users []models.User) ([]UserListItem, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	friends, err := friendSet(tx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{User: u, IsFriend: friends[u.ID]})
	}
	return items, nil
}

// friendSet returns which of ids are friends of viewerID, in a single query.
func friendSet(tx *gorm.DB, viewerID uint, ids []uint) (map[uint]bool, error) {
	set := map[uint]bool{}
	ids = utils.Unique(ids)
	if len(ids) == 0 {
		return set, nil
	}
	var found []uint
	err := tx.Model(&models.FriendLink{}).
		Where("user_id = ? AND friend_id IN ?", viewerID, ids).
		Pluck("friend_id", &found).Error
	if err != nil {
		return nil, internal(50013, "failed to load friends", err)
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}
