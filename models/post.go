package models

import "time"

// Post represents a publication owned by its author. CreatedAt is written once on insert.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AuthorID  uint       `gorm:"index;not null" json:"author_id"`
	Title     string     `gorm:"size:64;not null" json:"title"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time  `gorm:"<-:create" json:"created_at"`
	Author    User       `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments  []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Reactions []Reaction `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
