package utils

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/socialbbs/config"
)

func TestTruncate(t *testing.T) {
	short := strings.Repeat("a", 128)
	assert.Equal(t, short, Truncate(short, 128, 125))

	long := strings.Repeat("b", 129)
	got := Truncate(long, 128, 125)
	assert.Equal(t, strings.Repeat("b", 125)+"...", got)

	// runes, not bytes
	assert.Equal(t, "ééé...", Truncate(strings.Repeat("é", 10), 5, 3))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, Unique([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, Unique([]string{}))
}

func TestSanitizeStripsScripts(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("<script>alert(1)</script>hello"))
	assert.Equal(t, "<b>bold</b>", Sanitize("<b>bold</b>"))
}

func TestPasswordHashing(t *testing.T) {
	PasswordCost = 4
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "other"))
}

func TestTokenRoundTrip(t *testing.T) {
	config.Set(config.AppConfig{JWTSecret: "unit-secret"})

	token, err := GenerateToken(42, "alice", time.Hour)
	require.NoError(t, err)
	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)

	expired, err := GenerateToken(42, "alice", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	config.Set(config.AppConfig{JWTSecret: "rotated"})
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestTokenBlacklistInMemory(t *testing.T) {
	ctx := context.Background()
	BlacklistToken(ctx, "tok-a", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(ctx, "tok-a"))
	assert.False(t, IsTokenBlacklisted(ctx, "tok-b"))

	BlacklistToken(ctx, "tok-old", time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted(ctx, "tok-old"))
}
