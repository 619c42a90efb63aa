package controllers

import (
	"time"

	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/services"
	"github.com/cppla/socialbbs/utils"
)

// Response shapes, one per endpoint family.

type userShort struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type userListItem struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsFriend  bool   `json:"is_friend"`
}

type nestedPost struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type userDetail struct {
	ID          uint         `json:"id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Email       string       `json:"email"`
	IsFriend    bool         `json:"is_friend"`
	FriendCount int64        `json:"friend_count"`
	Posts       []nestedPost `json:"posts"`
}

type registeredUser struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type postListItem struct {
	ID        uint      `json:"id"`
	Author    userShort `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type postDetail struct {
	ID         uint      `json:"id"`
	Author     userShort `json:"author"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	MyReaction string    `json:"my_reaction"`
	CreatedAt  time.Time `json:"created_at"`
}

type postWrite struct {
	ID     uint   `json:"id"`
	Author uint   `json:"author"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type commentView struct {
	ID        uint      `json:"id"`
	Author    userShort `json:"author"`
	Post      uint      `json:"post"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type commentWrite struct {
	ID        uint      `json:"id"`
	Author    uint      `json:"author"`
	Post      uint      `json:"post"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type reactionView struct {
	ID     uint    `json:"id"`
	Author uint    `json:"author"`
	Post   uint    `json:"post"`
	Value  *string `json:"value"`
}

type chatSummary struct {
	ID                  uint      `json:"id"`
	CompanionName       string    `json:"companion_name"`
	LastMessageContent  string    `json:"last_message_content"`
	LastMessageDatetime time.Time `json:"last_message_datetime"`
}

type chatWrite struct {
	ID    uint `json:"id"`
	User1 uint `json:"user_1"`
	User2 uint `json:"user_2"`
}

type chatDetail struct {
	ID            uint      `json:"id"`
	User1         userShort `json:"user_1"`
	User2         userShort `json:"user_2"`
	CompanionName string    `json:"companion_name"`
	CreatedAt     time.Time `json:"created_at"`
}

type messageView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type messageWrite struct {
	ID        uint      `json:"id"`
	Chat      uint      `json:"chat"`
	Author    uint      `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	listBodyLimit = 128
	listBodyKeep  = 125
)

func toUserShort(u models.User) userShort {
	return userShort{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

func toUserListItems(items []services.UserListItem) []userListItem {
	out := make([]userListItem, 0, len(items))
	for _, it := range items {
		out = append(out, userListItem{
			ID:        it.User.ID,
			FirstName: it.User.FirstName,
			LastName:  it.User.LastName,
			IsFriend:  it.IsFriend,
		})
	}
	return out
}

func toUserDetail(d *services.UserDetail) userDetail {
	posts := make([]nestedPost, 0, len(d.Posts))
	for _, p := range d.Posts {
		posts = append(posts, nestedPost{ID: p.ID, Title: p.Title, Body: p.Body, CreatedAt: p.CreatedAt})
	}
	return userDetail{
		ID:          d.User.ID,
		FirstName:   d.User.FirstName,
		LastName:    d.User.LastName,
		Email:       d.User.Email,
		IsFriend:    d.IsFriend,
		FriendCount: d.FriendCount,
		Posts:       posts,
	}
}

func toPostListItems(posts []models.Post) []postListItem {
	out := make([]postListItem, 0, len(posts))
	for _, p := range posts {
		out = append(out, postListItem{
			ID:        p.ID,
			Author:    toUserShort(p.Author),
			Title:     p.Title,
			Body:      utils.Truncate(p.Body, listBodyLimit, listBodyKeep),
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}

func toPostWrite(p *models.Post) postWrite {
	return postWrite{ID: p.ID, Author: p.AuthorID, Title: p.Title, Body: p.Body}
}

func toCommentViews(comments []models.Comment) []commentView {
	out := make([]commentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentView{
			ID:        c.ID,
			Author:    toUserShort(c.Author),
			Post:      c.PostID,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

func toReactionView(r *models.Reaction) reactionView {
	view := reactionView{ID: r.ID, Author: r.AuthorID, Post: r.PostID}
	if r.Value != nil {
		v := string(*r.Value)
		view.Value = &v
	}
	return view
}

func toChatSummaries(rows []services.ChatSummary) []chatSummary {
	out := make([]chatSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, chatSummary{
			ID:                  r.ID,
			CompanionName:       r.CompanionName(),
			LastMessageContent:  r.LastMessageContent,
			LastMessageDatetime: r.LastMessageAt,
		})
	}
	return out
}

func toChatDetail(c *models.Chat, viewerID uint) chatDetail {
	companion := c.User1
	if c.CompanionOf(viewerID) == c.User2ID {
		companion = c.User2
	}
	return chatDetail{
		ID:            c.ID,
		User1:         toUserShort(c.User1),
		User2:         toUserShort(c.User2),
		CompanionName: companion.FullName(),
		CreatedAt:     c.CreatedAt,
	}
}

func toMessageViews(views []services.MessageView) []messageView {
	out := make([]messageView, 0, len(views))
	for _, v := range views {
		out = append(out, messageView{ID: v.ID, Content: v.Content, Author: v.Author, CreatedAt: v.CreatedAt})
	}
	return out
}

func toMessageWrite(m *models.Message) messageWrite {
	return messageWrite{ID: m.ID, Chat: m.ChatID, Author: m.AuthorID, Content: m.Content, CreatedAt: m.CreatedAt}
}
