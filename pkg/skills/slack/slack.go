// Package slack is a thin client for the Slack Web API using a user token,
// with cursor pagination and display-name resolution for conversations.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/devexpertio/skills/pkg/skills/config"
)

// TokenEnv is the environment variable holding the user token.
const TokenEnv = "SLACK_USER_TOKEN"

const defaultBaseURL = "https://slack.com/api"

// Client calls the Slack Web API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
	userNames  map[string]string
}

// NewClient resolves the user token from the environment or the keyring.
func NewClient() (*Client, error) {
	token := config.Secret(TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("missing %s, set it in your environment", TokenEnv)
	}
	return NewClientWithToken(token), nil
}

// NewClientWithToken builds a client around an explicit token.
func NewClientWithToken(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		limiter:    rate.NewLimiter(rate.Every(1200*time.Millisecond), 1),
		userNames:  map[string]string{},
	}
}

// Call posts one API method as form data and decodes the payload. A payload
// with ok:false becomes an error carrying Slack's error string.
func (c *Client) Call(ctx context.Context, method string, params url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body := ""
	if params != nil {
		body = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+method, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("slack %s: reading response: %w", method, err)
	}

	var envelope struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("slack %s: invalid JSON response", method)
	}
	if !envelope.OK {
		e := envelope.Error
		if e == "" {
			e = "unknown_error"
		}
		return fmt.Errorf("slack %s: %s", method, e)
	}
	if dst != nil {
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("slack %s: decoding payload: %w", method, err)
		}
	}
	return nil
}

type pageMeta struct {
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

// Conversation is one channel, group, or DM.
type Conversation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	User    string `json:"user"`
	IsIM    bool   `json:"is_im"`
	IsMPIM  bool   `json:"is_mpim"`
	IsGroup bool   `json:"is_group"`
}

// User is a workspace member.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	Profile  struct {
		DisplayName string `json:"display_name"`
		RealName    string `json:"real_name"`
	} `json:"profile"`
}

// DisplayName picks the first usable name for a user.
func (u User) DisplayName() string {
	for _, candidate := range []string{
		u.Profile.DisplayName, u.Profile.RealName, u.RealName, u.Name, u.ID,
	} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// ListConversations walks users.conversations across all pages, so only
// channels the token's user is a member of come back.
func (c *Client) ListConversations(ctx context.Context, types string) ([]Conversation, error) {
	var all []Conversation
	cursor := ""
	for {
		params := url.Values{"limit": {"200"}}
		if types != "" {
			params.Set("types", types)
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page struct {
			pageMeta
			Channels []Conversation `json:"channels"`
		}
		if err := c.Call(ctx, "users.conversations", params, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Channels...)

		cursor = page.ResponseMetadata.NextCursor
		if cursor == "" {
			return all, nil
		}
	}
}

// ResolveUserName looks up a user's display name, caching per client.
func (c *Client) ResolveUserName(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	if name, ok := c.userNames[userID]; ok {
		return name, nil
	}

	var payload struct {
		User User `json:"user"`
	}
	if err := c.Call(ctx, "users.info", url.Values{"user": {userID}}, &payload); err != nil {
		return "", err
	}
	name := payload.User.DisplayName()
	c.userNames[userID] = name
	return name, nil
}

// ConversationDisplayName renders a conversation for listing: @name for DMs,
// the raw name for group DMs, a lock prefix for private groups, #name for
// channels.
func (c *Client) ConversationDisplayName(ctx context.Context, conv Conversation) string {
	switch {
	case conv.IsIM:
		name := "(DM)"
		if conv.User != "" {
			if resolved, err := c.ResolveUserName(ctx, conv.User); err == nil && resolved != "" {
				name = resolved
			}
		}
		if name == "(DM)" {
			return name
		}
		return "@" + name
	case conv.IsMPIM:
		if conv.Name == "" {
			return "(group DM)"
		}
		return conv.Name
	case conv.IsGroup:
		if conv.Name == "" {
			return "🔒 (private)"
		}
		return "🔒 " + conv.Name
	default:
		if conv.Name == "" {
			return "(channel)"
		}
		return "#" + conv.Name
	}
}
