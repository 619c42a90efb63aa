package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cppla/socialbbs/config"
	"github.com/cppla/socialbbs/models"
	"github.com/cppla/socialbbs/utils"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost
	config.Set(config.AppConfig{
		JWTSecret:          "test-secret",
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		RateLimitPerMinute: 10000,
		LogLevel:           "silent",
	})

	cfg := config.Get()
	cfg.DBDriver = "sqlite"
	cfg.DatabaseURI = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := config.OpenDatabase(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db,
		&models.User{}, &models.FriendLink{}, &models.Post{}, &models.Comment{},
		&models.Reaction{}, &models.Chat{}, &models.Message{},
	))

	return &testAPI{t: t, router: SetupRouter(db)}
}

func (a *testAPI) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// register creates a user and returns its id and token.
func (a *testAPI) register(username, first, last string) (uint, string) {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/users/", "", gin.H{
		"username":   username,
		"password":   "pw-" + username,
		"first_name": first,
		"last_name":  last,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(a.t, out.Token)
	return out.User.ID, out.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("alice", "Alice", "Anders")

	w, env := api.do(http.MethodPost, "/api/users", "", gin.H{"username": "alice", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40005, env.Code)

	w, _ = api.do(http.MethodGet, "/api/users/me/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = api.do(http.MethodPost, "/api/users/login/", "", gin.H{"username": "alice", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40106, env.Code)

	w, env = api.do(http.MethodPost, "/api/users/login", "", gin.H{"username": "alice", "password": "pw-alice"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[struct {
		Token string `json:"token"`
	}](t, env.Data)
	require.NotEmpty(t, login.Token)

	w, env = api.do(http.MethodGet, "/api/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, env.Data)
	assert.Equal(t, "Alice", me["first_name"])
	assert.NotContains(t, me, "password")

	w, _ = api.do(http.MethodPost, "/api/users/logout/", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = api.do(http.MethodGet, "/api/users/me/", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40104, env.Code)

	w, _ = api.do(http.MethodGet, "/api/users/me/", token, nil)
	assert.Equal(t, http.StatusOK, w.Code, "other tokens stay valid")
}

func TestPostsCommentsAndReactions(t *testing.T) {
	api := newTestAPI(t)
	_, alice := api.register("alice", "Alice", "Anders")
	_, bob := api.register("bob", "Bob", "Brown")

	long := strings.Repeat("x", 200)
	w, env := api.do(http.MethodPost, "/api/posts/", alice, gin.H{"title": "Hello", "body": long})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[struct {
		ID uint `json:"id"`
	}](t, env.Data)

	w, env = api.do(http.MethodGet, "/api/posts/", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[page[struct {
		Body   string `json:"body"`
		Author struct {
			FirstName string `json:"first_name"`
		} `json:"author"`
	}]](t, env.Data)
	assert.Equal(t, int64(1), list.Count)
	require.Len(t, list.Results, 1)
	assert.Equal(t, strings.Repeat("x", 125)+"...", list.Results[0].Body)
	assert.Equal(t, "Alice", list.Results[0].Author.FirstName)

	postPath := fmt.Sprintf("/api/posts/%d/", post.ID)
	w, env = api.do(http.MethodPatch, postPath, bob, gin.H{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40320, env.Code)

	w, _ = api.do(http.MethodPatch, postPath, alice, gin.H{"title": "Edited"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodPost, "/api/comments/", bob, gin.H{"post": post.ID, "body": "great"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, env = api.do(http.MethodGet, fmt.Sprintf("/api/comments/?post__id=%d", post.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode[page[map[string]any]](t, env.Data)
	assert.Equal(t, int64(1), comments.Count)

	for _, tc := range []struct {
		value string
		want  *string
	}{
		{"smile", strPtr("smile")},
		{"smile", nil},
		{"heart", strPtr("heart")},
	} {
		w, env = api.do(http.MethodPost, "/api/reaction/", bob, gin.H{"post": post.ID, "value": tc.value})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		got := decode[struct {
			Value *string `json:"value"`
		}](t, env.Data)
		assert.Equal(t, tc.want, got.Value)
	}

	w, env = api.do(http.MethodGet, postPath, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Title      string `json:"title"`
		Body       string `json:"body"`
		MyReaction string `json:"my_reaction"`
	}](t, env.Data)
	assert.Equal(t, "Edited", detail.Title)
	assert.Equal(t, long, detail.Body)
	assert.Equal(t, "heart", detail.MyReaction)

	w, _ = api.do(http.MethodDelete, postPath, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = api.do(http.MethodDelete, postPath, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, env = api.do(http.MethodGet, "/api/comments/", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[page[map[string]any]](t, env.Data).Count)
}

func TestChatConversation(t *testing.T) {
	api := newTestAPI(t)
	aliceID, alice := api.register("alice", "Alice", "Anders")
	bobID, bob := api.register("bob", "Bob", "Brown")
	_, eve := api.register("eve", "Eve", "Evans")

	w, env := api.do(http.MethodPost, "/api/chats/", alice, gin.H{"user_2": bobID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	chat := decode[struct {
		ID    uint `json:"id"`
		User1 uint `json:"user_1"`
		User2 uint `json:"user_2"`
	}](t, env.Data)
	assert.Equal(t, aliceID, chat.User1)
	assert.Equal(t, bobID, chat.User2)

	w, env = api.do(http.MethodPost, "/api/chats", bob, gin.H{"user_2": aliceID})
	require.Equal(t, http.StatusOK, w.Code)
	again := decode[struct {
		ID uint `json:"id"`
	}](t, env.Data)
	assert.Equal(t, chat.ID, again.ID)

	w, _ = api.do(http.MethodPost, "/api/chats/", alice, gin.H{"user_2": aliceID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(http.MethodGet, "/api/chats/", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[page[map[string]any]](t, env.Data).Count, "empty chats are not listed")

	w, _ = api.do(http.MethodPost, "/api/messages/", alice, gin.H{"chat": chat.ID, "content": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = api.do(http.MethodPost, "/api/messages/", bob, gin.H{"chat": chat.ID, "content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = api.do(http.MethodPost, "/api/messages/", eve, gin.H{"chat": chat.ID, "content": "psst"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	messagesPath := fmt.Sprintf("/api/chats/%d/messages/", chat.ID)
	w, env = api.do(http.MethodGet, messagesPath, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	msgs := decode[page[struct {
		ID      uint   `json:"id"`
		Content string `json:"content"`
		Author  string `json:"author"`
	}]](t, env.Data)
	require.Len(t, msgs.Results, 2)
	assert.Equal(t, "hi", msgs.Results[0].Content)
	assert.Equal(t, "Bob", msgs.Results[0].Author)
	assert.Equal(t, "hello", msgs.Results[1].Content)
	assert.Equal(t, "You", msgs.Results[1].Author)

	w, env = api.do(http.MethodGet, "/api/chats/", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summaries := decode[page[struct {
		CompanionName      string `json:"companion_name"`
		LastMessageContent string `json:"last_message_content"`
	}]](t, env.Data)
	require.Len(t, summaries.Results, 1)
	assert.Equal(t, "Bob Brown", summaries.Results[0].CompanionName)
	assert.Equal(t, "hi", summaries.Results[0].LastMessageContent)

	w, _ = api.do(http.MethodGet, messagesPath, eve, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = api.do(http.MethodGet, fmt.Sprintf("/api/chats/%d", chat.ID), eve, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	msgPath := fmt.Sprintf("/api/messages/%d/", msgs.Results[1].ID)
	w, _ = api.do(http.MethodDelete, msgPath, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = api.do(http.MethodDelete, msgPath, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/chats/%d/", chat.ID), bob, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = api.do(http.MethodGet, messagesPath, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFriendsEndpoints(t *testing.T) {
	api := newTestAPI(t)
	aliceID, alice := api.register("alice", "Alice", "Anders")
	bobID, bob := api.register("bob", "Bob", "Brown")

	w, _ := api.do(http.MethodPost, fmt.Sprintf("/api/users/%d/add_friend/", bobID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := api.do(http.MethodGet, fmt.Sprintf("/api/users/%d/friends/", bobID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	friends := decode[page[struct {
		ID uint `json:"id"`
	}]](t, env.Data)
	require.Len(t, friends.Results, 1)
	assert.Equal(t, aliceID, friends.Results[0].ID)

	w, env = api.do(http.MethodGet, fmt.Sprintf("/api/users/%d/", aliceID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[struct {
		IsFriend    bool  `json:"is_friend"`
		FriendCount int64 `json:"friend_count"`
	}](t, env.Data)
	assert.True(t, profile.IsFriend)
	assert.Equal(t, int64(1), profile.FriendCount)

	w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/users/%d/remove_friend", aliceID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = api.do(http.MethodGet, "/api/users/", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[page[struct {
		IsFriend bool `json:"is_friend"`
	}]](t, env.Data)
	assert.Equal(t, int64(2), users.Count)
	for _, u := range users.Results {
		assert.False(t, u.IsFriend)
	}

	w, _ = api.do(http.MethodGet, "/api/users/abc/", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func strPtr(s string) *string { return &s }
