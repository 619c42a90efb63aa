package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a member of the network. Passwords are stored as bcrypt hashes only.
// Friendship is symmetric: every link is stored as two directed rows in user_friends.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Posts        []Post    `gorm:"foreignKey:AuthorID" json:"-"`
}

// FriendLink is one direction of a friendship.
type FriendLink struct {
	UserID    uint      `gorm:"primaryKey"`
	FriendID  uint      `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

// TableName keeps the join table name stable.
func (FriendLink) TableName() string {
	return "user_friends"
}

// FullName joins first and last name the way chat companions are labelled.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
