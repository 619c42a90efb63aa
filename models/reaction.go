package models

// ReactionValue is one of the fixed emoji tokens a reaction may carry.
type ReactionValue string

const (
	ReactionSmile   ReactionValue = "smile"
	ReactionThumbUp ReactionValue = "thumb_up"
	ReactionLaugh   ReactionValue = "laugh"
	ReactionSad     ReactionValue = "sad"
	ReactionHeart   ReactionValue = "heart"
)

// ReactionValues lists the accepted tokens in display order.
var ReactionValues = []ReactionValue{ReactionSmile, ReactionThumbUp, ReactionLaugh, ReactionSad, ReactionHeart}

// ParseReactionValue validates a raw token.
func ParseReactionValue(s string) (ReactionValue, bool) {
	for _, v := range ReactionValues {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// Reaction is the single reaction row of an author on a post.
// A nil Value means the reaction was toggled off; the row itself is kept.
type Reaction struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	AuthorID uint           `gorm:"not null;uniqueIndex:author_post_unique" json:"author_id"`
	PostID   uint           `gorm:"not null;uniqueIndex:author_post_unique;index" json:"post_id"`
	Value    *ReactionValue `gorm:"size:8" json:"value"`
}
