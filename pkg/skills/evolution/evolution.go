// Package evolution talks to a WhatsApp Evolution API gateway: listing
// chats, fetching messages, and sending text, with a local inbox-state file
// tracking the last seen message per chat.
package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/paths"
	"github.com/devexpertio/skills/pkg/skills/statefile"
)

// Environment keys for the gateway connection.
const (
	TokenEnv        = "EVOLUTION_API_TOKEN"
	BaseURLEnv      = "EVOLUTION_API_URL"
	InstanceEnv     = "EVOLUTION_INSTANCE"
	InstanceNameEnv = "EVOLUTION_INSTANCE_NAME"
	TimeoutEnv      = "WHATSAPP_EVO_TIMEOUT"
	TimeoutAltEnv   = "EVOLUTION_API_TIMEOUT"
)

const defaultTimeout = 20 * time.Second

// Client calls one Evolution API instance.
type Client struct {
	httpClient *http.Client
	baseURL    string
	instance   string
	token      string
}

// NewClient resolves connection settings from the environment, falling back
// to the whatsapp_evo config section for the URL and instance.
func NewClient(cfg config.WhatsAppEvoConfig) (*Client, error) {
	token := strings.TrimSpace(os.Getenv(TokenEnv))
	if token == "" {
		return nil, fmt.Errorf("missing %s, set it in your environment", TokenEnv)
	}

	baseURL := strings.TrimSpace(os.Getenv(BaseURLEnv))
	if baseURL == "" {
		baseURL = strings.TrimSpace(cfg.APIURL)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("missing %s, set it in your environment or config", BaseURLEnv)
	}

	instance := strings.TrimSpace(os.Getenv(InstanceEnv))
	if instance == "" {
		instance = strings.TrimSpace(os.Getenv(InstanceNameEnv))
	}
	if instance == "" {
		instance = strings.TrimSpace(cfg.Instance)
	}
	if instance == "" {
		return nil, fmt.Errorf("missing %s, set it in your environment or config", InstanceEnv)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeoutFromEnv()},
		baseURL:    strings.TrimRight(baseURL, "/"),
		instance:   instance,
		token:      token,
	}, nil
}

func timeoutFromEnv() time.Duration {
	for _, key := range []string{TimeoutEnv, TimeoutAltEnv} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
				return time.Duration(secs * float64(time.Second))
			}
		}
	}
	return defaultTimeout
}

// call issues one request. An empty response body decodes to nothing.
func (c *Client) call(ctx context.Context, method, path string, payload, dst any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("evolution api request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("evolution api: reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("evolution api: %s %s: status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if len(raw) == 0 || dst == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("evolution api returned invalid JSON")
	}
	return nil
}

// Chat is one conversation as the gateway reports it.
type Chat struct {
	RemoteJID            string          `json:"remoteJid"`
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	PushName             string          `json:"pushName"`
	UnreadCount          int             `json:"unreadCount"`
	LastMessage          json.RawMessage `json:"lastMessage"`
	LastMessageTimestamp int64           `json:"lastMessageTimestamp"`
}

// JID returns the chat's JID, whichever field carries it.
func (c Chat) JID() string {
	if c.RemoteJID != "" {
		return c.RemoteJID
	}
	return c.ID
}

// DisplayName returns the best human-readable name for the chat.
func (c Chat) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.PushName != "" {
		return c.PushName
	}
	return NormalizeJID(c.JID())
}

// FindChats lists the instance's chats.
func (c *Client) FindChats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	err := c.call(ctx, http.MethodPost, "/chat/findChats/"+c.instance,
		map[string]any{}, &chats)
	return chats, err
}

// Message is one message record.
type Message struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	PushName         string          `json:"pushName"`
	MessageTimestamp int64           `json:"messageTimestamp"`
	Message          json.RawMessage `json:"message"`
}

// Text extracts the human-readable text from the message payload.
func (m Message) Text() string {
	return ExtractText(m.Message)
}

// FindMessages fetches up to limit messages for a JID, newest first.
func (c *Client) FindMessages(ctx context.Context, jid string, limit int) ([]Message, error) {
	payload := map[string]any{
		"where": map[string]any{
			"key": map[string]any{"remoteJid": jid},
		},
		"limit": limit,
	}

	// Some gateway versions wrap the records, others return a bare array.
	var raw json.RawMessage
	if err := c.call(ctx, http.MethodPost, "/chat/findMessages/"+c.instance, payload, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var messages []Message
	if err := json.Unmarshal(raw, &messages); err == nil {
		return messages, nil
	}
	var wrapped struct {
		Messages struct {
			Records []Message `json:"records"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Messages.Records, nil
	}
	return nil, fmt.Errorf("evolution api: unrecognized findMessages response")
}

// SendText sends a text message to a number or JID.
func (c *Client) SendText(ctx context.Context, number, text string) error {
	payload := map[string]any{
		"number": NormalizeJID(number),
		"text":   text,
	}
	return c.call(ctx, http.MethodPost, "/message/sendText/"+c.instance, payload, nil)
}

// ExtractText pulls display text out of a message payload: plain
// conversation text, extended text, media captions, or a nested message.
func ExtractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var msg struct {
		Conversation        *string `json:"conversation"`
		ExtendedTextMessage *struct {
			Text string `json:"text"`
		} `json:"extendedTextMessage"`
		ImageMessage *struct {
			Caption string `json:"caption"`
		} `json:"imageMessage"`
		VideoMessage *struct {
			Caption string `json:"caption"`
		} `json:"videoMessage"`
		DocumentMessage *struct {
			Caption string `json:"caption"`
		} `json:"documentMessage"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ""
	}
	switch {
	case msg.Conversation != nil:
		return *msg.Conversation
	case msg.ExtendedTextMessage != nil:
		return msg.ExtendedTextMessage.Text
	case msg.ImageMessage != nil:
		return msg.ImageMessage.Caption
	case msg.VideoMessage != nil:
		return msg.VideoMessage.Caption
	case msg.DocumentMessage != nil:
		return msg.DocumentMessage.Caption
	case len(msg.Message) != 0:
		return ExtractText(msg.Message)
	}
	return ""
}

// NormalizeJID strips the WhatsApp user suffix from a JID, leaving group and
// broadcast JIDs untouched.
func NormalizeJID(jid string) string {
	if strings.HasSuffix(jid, "@s.whatsapp.net") {
		return strings.SplitN(jid, "@", 2)[0]
	}
	return jid
}

// InboxState maps chat JIDs to the timestamp of the last seen message.
type InboxState map[string]int64

// LoadState reads the inbox state, empty when missing or corrupt.
func LoadState(path string) InboxState {
	state := InboxState{}
	statefile.Load(path, &state)
	return state
}

// Save persists the state.
func (s InboxState) Save(path string) error {
	return statefile.Save(path, s)
}

// Unread reports whether the chat has activity after the last seen mark.
func (s InboxState) Unread(chat Chat) bool {
	return chat.LastMessageTimestamp > s[chat.JID()]
}

// MarkSeen records the chat's latest message as seen.
func (s InboxState) MarkSeen(chat Chat) {
	if chat.LastMessageTimestamp > s[chat.JID()] {
		s[chat.JID()] = chat.LastMessageTimestamp
	}
}

// StatePath resolves the inbox-state file location.
func StatePath() string {
	return paths.WhatsAppStatePath()
}
