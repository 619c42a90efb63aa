package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/socialbbs/models"
)

func TestCreatePostValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "alice", "Alice", "A")
	svc := NewPostService(db)

	_, err := svc.CreatePost(ctx, a.ID, "  ", "body")
	requireKind(t, err, ErrValidation, 40020)
	_, err = svc.CreatePost(ctx, a.ID, strings.Repeat("t", 65), "body")
	requireKind(t, err, ErrValidation, 40021)
	_, err = svc.CreatePost(ctx, a.ID, "title", "")
	requireKind(t, err, ErrValidation, 40022)

	post, err := svc.CreatePost(ctx, a.ID, strings.Repeat("t", 64), "body")
	require.NoError(t, err)
	assert.Equal(t, a.ID, post.AuthorID)
}

func TestListPostsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "alice", "Alice", "A")
	for _, title := range []string{"one", "two", "three"} {
		mustPost(t, db, a.ID, title)
	}
	svc := NewPostService(db)

	posts, total, err := svc.ListPosts(ctx, Page{Number: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 2)
	assert.Equal(t, "three", posts[0].Title)
	assert.Equal(t, "Alice", posts[0].Author.FirstName)

	posts, _, err = svc.ListPosts(ctx, Page{Number: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "one", posts[0].Title)
}

func TestUpdatePostOnlyByAuthor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "alice", "Alice", "A")
	b := mustUser(t, db, "bob", "Bob", "B")
	post := mustPost(t, db, a.ID, "draft")
	svc := NewPostService(db)

	title := "stolen"
	_, err := svc.UpdatePost(ctx, post.ID, b.ID, PostUpdate{Title: &title})
	requireKind(t, err, ErrForbidden, 40320)

	title = "final"
	updated, err := svc.UpdatePost(ctx, post.ID, a.ID, PostUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "body of draft", updated.Body)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, post.CreatedAt.Unix(), got.CreatedAt.Unix())

	_, err = svc.UpdatePost(ctx, post.ID+10, a.ID, PostUpdate{Title: &title})
	requireKind(t, err, ErrNotFound, 40420)
}

func TestDeletePostCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "alice", "Alice", "A")
	b := mustUser(t, db, "bob", "Bob", "B")
	post := mustPost(t, db, a.ID, "doomed")
	other := mustPost(t, db, a.ID, "survivor")

	_, err := NewCommentService(db).CreateComment(ctx, b.ID, post.ID, "nice")
	require.NoError(t, err)
	_, err = NewCommentService(db).CreateComment(ctx, b.ID, other.ID, "also nice")
	require.NoError(t, err)
	_, err = NewReactionService(db).SetReaction(ctx, b.ID, post.ID, "heart")
	require.NoError(t, err)

	svc := NewPostService(db)
	requireKind(t, svc.DeletePost(ctx, post.ID, b.ID), ErrForbidden, 40321)
	require.NoError(t, svc.DeletePost(ctx, post.ID, a.ID))

	var n int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Reaction{}).Where("post_id = ?", post.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err = svc.GetPost(ctx, post.ID)
	requireKind(t, err, ErrNotFound, 40420)
}
