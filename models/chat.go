package models

import (
	"time"

	"gorm.io/gorm"
)

// Chat is a two-party conversation. User1/User2 keep the order chosen at creation;
// PairLow/PairHigh hold least/greatest of the two ids and back the unordered-pair unique index.
type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	User1ID   uint      `gorm:"column:user_1_id;index;not null" json:"user_1"`
	User2ID   uint      `gorm:"column:user_2_id;index;not null" json:"user_2"`
	PairLow   uint      `gorm:"not null;uniqueIndex:users_chat_unique" json:"-"`
	PairHigh  uint      `gorm:"not null;uniqueIndex:users_chat_unique" json:"-"`
	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	User1     User      `gorm:"foreignKey:User1ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	User2     User      `gorm:"foreignKey:User2ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Messages  []Message `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// PairKey returns the participants as (least, greatest).
func PairKey(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// BeforeCreate fills the unordered pair columns.
func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	c.PairLow, c.PairHigh = PairKey(c.User1ID, c.User2ID)
	return nil
}

// HasParticipant reports whether userID is one of the two members.
func (c *Chat) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// CompanionOf returns the member that is not userID.
func (c *Chat) CompanionOf(userID uint) uint {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}
