// Package gchat lists Google Chat spaces and fetches messages through the
// Chat API, accepting space references as raw IDs, resource names, or Gmail
// Chat URLs.
package gchat

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	chat "google.golang.org/api/chat/v1"
	"google.golang.org/api/option"

	"github.com/devexpertio/skills/pkg/skills/googleauth"
	"github.com/devexpertio/skills/pkg/skills/paths"
)

// Scopes are the read-only Chat scopes the token must carry.
var Scopes = []string{
	"https://www.googleapis.com/auth/chat.messages.readonly",
	"https://www.googleapis.com/auth/chat.spaces.readonly",
	"https://www.googleapis.com/auth/chat.memberships.readonly",
}

// DefaultCredentials points at the shared client secret and the Chat token.
func DefaultCredentials() googleauth.Credentials {
	return googleauth.Credentials{
		ClientSecretPath: paths.ClientSecretPath(),
		TokenPath:        paths.ChatTokenPath(),
		Scopes:           Scopes,
	}
}

// ParseSpaceThread extracts a space ID and optional thread ID from a raw ID,
// a spaces/<id>[/threads/<tid>] resource name, or a Gmail Chat URL whose
// fragment looks like #chat/space/<id>[/<tid>].
func ParseSpaceThread(value string) (space, thread string) {
	if value == "" {
		return "", ""
	}

	if strings.HasPrefix(value, "http") {
		u, err := url.Parse(value)
		if err != nil {
			return "", ""
		}
		parts := splitPath(u.Fragment)
		if len(parts) >= 3 && parts[0] == "chat" && parts[1] == "space" {
			space = parts[2]
			if len(parts) >= 4 {
				thread = parts[3]
			}
			return space, thread
		}
		return "", ""
	}

	if strings.HasPrefix(value, "spaces/") {
		parts := splitPath(value)
		if len(parts) > 1 {
			space = parts[1]
		}
		for i, p := range parts {
			if p == "threads" && i+1 < len(parts) {
				thread = parts[i+1]
				break
			}
		}
		return space, thread
	}

	return value, ""
}

func splitPath(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Client wraps the Chat API service.
type Client struct {
	svc *chat.Service
}

// NewClient builds a Chat client from the stored token.
func NewClient(ctx context.Context, creds googleauth.Credentials) (*Client, error) {
	ts, err := creds.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := chat.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("creating chat service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// SpacesPage is one page of the spaces listing.
type SpacesPage struct {
	Spaces        []*chat.Space `json:"spaces"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// ListSpaces returns one page of spaces the account belongs to.
func (c *Client) ListSpaces(ctx context.Context, pageSize int64, pageToken string) (*SpacesPage, error) {
	call := c.svc.Spaces.List().PageSize(pageSize).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("listing spaces: %w", err)
	}
	return &SpacesPage{Spaces: resp.Spaces, NextPageToken: resp.NextPageToken}, nil
}

// FetchOptions controls a message fetch.
type FetchOptions struct {
	SpaceID   string
	ThreadID  string
	PageSize  int64
	PageToken string
	Filter    string
}

// MessagesPage is the fetched slice of messages plus pagination state.
type MessagesPage struct {
	Space         string          `json:"space"`
	Thread        string          `json:"thread,omitempty"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
	Messages      []*chat.Message `json:"messages"`
}

// FetchMessages lists messages in a space, filtered client-side to one
// thread when a thread ID is given.
func (c *Client) FetchMessages(ctx context.Context, opts FetchOptions) (*MessagesPage, error) {
	parent := "spaces/" + opts.SpaceID
	call := c.svc.Spaces.Messages.List(parent).PageSize(opts.PageSize).Context(ctx)
	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}
	if opts.Filter != "" {
		call = call.Filter(opts.Filter)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("fetching messages from %s: %w", parent, err)
	}

	messages := resp.Messages
	if opts.ThreadID != "" {
		messages = FilterThread(messages, opts.SpaceID, opts.ThreadID)
	}

	return &MessagesPage{
		Space:         parent,
		Thread:        opts.ThreadID,
		NextPageToken: resp.NextPageToken,
		Messages:      messages,
	}, nil
}

// FilterThread keeps only messages belonging to the named thread.
func FilterThread(messages []*chat.Message, spaceID, threadID string) []*chat.Message {
	threadName := fmt.Sprintf("spaces/%s/threads/%s", spaceID, threadID)
	var out []*chat.Message
	for _, m := range messages {
		if m.Thread != nil && m.Thread.Name == threadName {
			out = append(out, m)
		}
	}
	return out
}

// FormatMessage renders one message for text output:
// createTime | sender | text | resource name.
func FormatMessage(m *chat.Message) string {
	sender := ""
	if m.Sender != nil {
		sender = m.Sender.DisplayName
		if sender == "" {
			sender = m.Sender.Name
		}
	}
	text := m.Text
	if text == "" {
		text = m.FormattedText
	}
	return strings.TrimSpace(fmt.Sprintf("%s | %s | %s | %s", m.CreateTime, sender, text, m.Name))
}

// FormatSpace renders one space for text output: name | display | type.
func FormatSpace(s *chat.Space) string {
	return fmt.Sprintf("%s | %s | %s", s.Name, s.DisplayName, s.SpaceType)
}
