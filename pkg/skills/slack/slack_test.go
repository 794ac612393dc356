package slack

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClientWithToken("xoxp-test")
	c.baseURL = srv.URL
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestCallSendsFormAndAuth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth.test", r.URL.Path)
		assert.Equal(t, "Bearer xoxp-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{"ok":true,"user":"alice"}`)
	})

	var payload struct {
		User string `json:"user"`
	}
	require.NoError(t, c.Call(context.Background(), "auth.test", nil, &payload))
	assert.Equal(t, "alice", payload.User)
}

func TestCallAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"invalid_auth"}`)
	})

	err := c.Call(context.Background(), "auth.test", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_auth")
}

func TestCallInvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	})

	err := c.Call(context.Background(), "auth.test", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestListConversationsPaginates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/users.conversations", r.URL.Path)
		if r.Form.Get("cursor") == "" {
			fmt.Fprint(w, `{"ok":true,"channels":[{"id":"C1","name":"general"}],"response_metadata":{"next_cursor":"abc"}}`)
			return
		}
		assert.Equal(t, "abc", r.Form.Get("cursor"))
		fmt.Fprint(w, `{"ok":true,"channels":[{"id":"D1","is_im":true,"user":"U1"}],"response_metadata":{"next_cursor":""}}`)
	})

	convos, err := c.ListConversations(context.Background(), "public_channel,im")
	require.NoError(t, err)
	require.Len(t, convos, 2)
	assert.Equal(t, "C1", convos[0].ID)
	assert.True(t, convos[1].IsIM)
}

func TestResolveUserNameCaches(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"ok":true,"user":{"id":"U1","profile":{"display_name":"Alice"}}}`)
	})

	name, err := c.ResolveUserName(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	_, err = c.ResolveUserName(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestUserDisplayNameFallbacks(t *testing.T) {
	u := User{ID: "U1", Name: "alice"}
	assert.Equal(t, "alice", u.DisplayName())

	u.RealName = "Alice R"
	assert.Equal(t, "Alice R", u.DisplayName())

	u.Profile.DisplayName = "ally"
	assert.Equal(t, "ally", u.DisplayName())

	assert.Equal(t, "U2", User{ID: "U2"}.DisplayName())
}

func TestConversationDisplayName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true,"user":{"id":"U1","profile":{"display_name":"Alice"}}}`)
	})
	ctx := context.Background()

	assert.Equal(t, "@Alice", c.ConversationDisplayName(ctx, Conversation{IsIM: true, User: "U1"}))
	assert.Equal(t, "(DM)", c.ConversationDisplayName(ctx, Conversation{IsIM: true}))
	assert.Equal(t, "dm-group", c.ConversationDisplayName(ctx, Conversation{IsMPIM: true, Name: "dm-group"}))
	assert.Equal(t, "🔒 private-room", c.ConversationDisplayName(ctx, Conversation{IsGroup: true, Name: "private-room"}))
	assert.Equal(t, "#general", c.ConversationDisplayName(ctx, Conversation{Name: "general"}))
	assert.Equal(t, "(channel)", c.ConversationDisplayName(ctx, Conversation{}))
}
