package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/socialbbs/models"
)

func TestSetReactionToggles(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "alice", "Alice", "A")
	post := mustPost(t, db, a.ID, "hello")
	svc := NewReactionService(db)

	r, err := svc.SetReaction(ctx, a.ID, post.ID, "smile")
	require.NoError(t, err)
	require.NotNil(t, r.Value)
	assert.Equal(t, models.ReactionSmile, *r.Value)

	r, err = svc.SetReaction(ctx, a.ID, post.ID, "smile")
	require.NoError(t, err)
	assert.Nil(t, r.Value, "same value twice clears the reaction")

	mine, err := svc.MyReaction(ctx, a.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "", mine)

	r, err = svc.SetReaction(ctx, a.ID, post.ID, "heart")
	require.NoError(t, err)
	require.NotNil(t, r.Value)
	assert.Equal(t, models.ReactionHeart, *r.Value)

	r, err = svc.SetReaction(ctx, a.ID, post.ID, "laugh")
	require.NoError(t, err)
	require.NotNil(t, r.Value)
	assert.Equal(t, models.ReactionLaugh, *r.Value, "a different value replaces the old one")

	mine, err = svc.MyReaction(ctx, a.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "laugh", mine)

	var rows []models.Reaction
	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
}

func TestSetReactionValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "alice", "Alice", "A")
	post := mustPost(t, db, a.ID, "hello")
	svc := NewReactionService(db)

	_, err := svc.SetReaction(ctx, a.ID, post.ID, "angry")
	requireKind(t, err, ErrValidation, 40050)
	_, err = svc.SetReaction(ctx, a.ID, 0, "smile")
	requireKind(t, err, ErrValidation, 40051)
	_, err = svc.SetReaction(ctx, a.ID, post.ID+1, "smile")
	requireKind(t, err, ErrValidation, 40052)
}

func TestReactionsAreIndependentPerUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "alice", "Alice", "A")
	b := mustUser(t, db, "bob", "Bob", "B")
	post := mustPost(t, db, a.ID, "hello")
	svc := NewReactionService(db)

	_, err := svc.SetReaction(ctx, a.ID, post.ID, "sad")
	require.NoError(t, err)
	_, err = svc.SetReaction(ctx, b.ID, post.ID, "thumb_up")
	require.NoError(t, err)

	mine, err := svc.MyReaction(ctx, a.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "sad", mine)
	mine, err = svc.MyReaction(ctx, b.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "thumb_up", mine)
}
