package evolution

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devexpertio/skills/pkg/skills/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    srv.URL,
		instance:   "main",
		token:      "secret",
	}
}

func TestNewClientResolution(t *testing.T) {
	t.Setenv(TokenEnv, "tok")
	t.Setenv(BaseURLEnv, "https://evo.example.com/")
	t.Setenv(InstanceEnv, "")
	t.Setenv(InstanceNameEnv, "named")

	c, err := NewClient(config.WhatsAppEvoConfig{})
	require.NoError(t, err)
	assert.Equal(t, "https://evo.example.com", c.baseURL)
	assert.Equal(t, "named", c.instance)
}

func TestNewClientConfigFallback(t *testing.T) {
	t.Setenv(TokenEnv, "tok")
	t.Setenv(BaseURLEnv, "")
	t.Setenv(InstanceEnv, "")
	t.Setenv(InstanceNameEnv, "")

	c, err := NewClient(config.WhatsAppEvoConfig{APIURL: "https://cfg.example.com", Instance: "cfg"})
	require.NoError(t, err)
	assert.Equal(t, "https://cfg.example.com", c.baseURL)
	assert.Equal(t, "cfg", c.instance)
}

func TestNewClientMissingToken(t *testing.T) {
	t.Setenv(TokenEnv, "")
	_, err := NewClient(config.WhatsAppEvoConfig{APIURL: "x", Instance: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), TokenEnv)
}

func TestTimeoutFromEnv(t *testing.T) {
	t.Setenv(TimeoutEnv, "")
	t.Setenv(TimeoutAltEnv, "")
	assert.Equal(t, defaultTimeout, timeoutFromEnv())

	t.Setenv(TimeoutAltEnv, "2.5")
	assert.Equal(t, 2500*time.Millisecond, timeoutFromEnv())

	t.Setenv(TimeoutEnv, "bogus")
	assert.Equal(t, 2500*time.Millisecond, timeoutFromEnv())
}

func TestFindChatsSendsAPIKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/findChats/main", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		fmt.Fprint(w, `[{"remoteJid":"123@s.whatsapp.net","name":"Ana","lastMessageTimestamp":100}]`)
	})

	chats, err := c.FindChats(context.Background())
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "Ana", chats[0].DisplayName())
}

func TestFindMessagesShapes(t *testing.T) {
	bare := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"key":{"remoteJid":"1@s.whatsapp.net","id":"m1"},"message":{"conversation":"hola"}}]`)
	})
	msgs, err := bare.FindMessages(context.Background(), "1@s.whatsapp.net", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hola", msgs[0].Text())

	wrapped := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"messages":{"records":[{"key":{"id":"m2"},"message":{"conversation":"qué tal"}}]}}`)
	})
	msgs, err = wrapped.FindMessages(context.Background(), "1@s.whatsapp.net", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "qué tal", msgs[0].Text())
}

func TestSendTextNormalizesNumber(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message/sendText/main", r.URL.Path)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "34600111222", payload["number"])
		assert.Equal(t, "hi", payload["text"])
	})
	require.NoError(t, c.SendText(context.Background(), "34600111222@s.whatsapp.net", "hi"))
}

func TestCallErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})
	_, err := c.FindChats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"conversation", `{"conversation":"plain"}`, "plain"},
		{"extended", `{"extendedTextMessage":{"text":"linked"}}`, "linked"},
		{"image caption", `{"imageMessage":{"caption":"pic"}}`, "pic"},
		{"video caption", `{"videoMessage":{"caption":"clip"}}`, "clip"},
		{"document caption", `{"documentMessage":{"caption":"doc"}}`, "doc"},
		{"nested", `{"message":{"conversation":"inner"}}`, "inner"},
		{"unknown", `{"stickerMessage":{}}`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractText(json.RawMessage(tt.raw)))
		})
	}
}

func TestNormalizeJID(t *testing.T) {
	assert.Equal(t, "34600111222", NormalizeJID("34600111222@s.whatsapp.net"))
	assert.Equal(t, "group@g.us", NormalizeJID("group@g.us"))
	assert.Equal(t, "", NormalizeJID(""))
}

func TestInboxState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	state := LoadState(path)
	assert.Empty(t, state)

	chat := Chat{RemoteJID: "1@s.whatsapp.net", LastMessageTimestamp: 100}
	assert.True(t, state.Unread(chat))

	state.MarkSeen(chat)
	assert.False(t, state.Unread(chat))
	require.NoError(t, state.Save(path))

	reloaded := LoadState(path)
	assert.False(t, reloaded.Unread(chat))

	chat.LastMessageTimestamp = 200
	assert.True(t, reloaded.Unread(chat))
}
