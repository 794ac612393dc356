// Package postiz schedules social posts through the Postiz CLI, shaping the
// post text and resolving integration groups from the shared config.
package postiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/runner"
)

// DefaultGroup is the integration group used for video announcements.
const DefaultGroup = "youtube_publish"

const commentTrailer = "Link en el primer comentario."

// Client invokes the postiz CLI.
type Client struct{}

// NewClient returns a Postiz runner.
func NewClient() *Client { return &Client{} }

// ShapeText strips hashtags and appends the first-comment trailer when it is
// not already there.
func ShapeText(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "#", ""))
	if strings.HasSuffix(text, commentTrailer) {
		return text
	}
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text + "\n\n" + commentTrailer
}

// ParseIntegrations splits a comma-separated integration-id list.
func ParseIntegrations(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExtractUploadURL pulls the public URL from a postiz upload response,
// checking the url/public_url/publicUrl keys at the top level and nested
// under "file".
func ExtractUploadURL(raw []byte) (string, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("parsing upload response: %w", err)
	}

	if url := urlFromKeys(payload); url != "" {
		return url, nil
	}
	if fileRaw, ok := payload["file"]; ok {
		var file map[string]json.RawMessage
		if err := json.Unmarshal(fileRaw, &file); err == nil {
			if url := urlFromKeys(file); url != "" {
				return url, nil
			}
		}
	}
	return "", fmt.Errorf("upload response carries no url")
}

func urlFromKeys(m map[string]json.RawMessage) string {
	for _, key := range []string{"url", "public_url", "publicUrl"} {
		if raw, ok := m[key]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
		}
	}
	return ""
}

// UploadImage uploads a local file and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	out, err := runner.Run(ctx, "postiz", "upload", "--file-path", path)
	if err != nil {
		return "", err
	}
	return ExtractUploadURL([]byte(out))
}

// ScheduleOptions describes one scheduled post fanned out to integrations.
type ScheduleOptions struct {
	Text          string
	CommentURL    string
	ScheduledDate string
	ImageURL      string
	Integrations  []string
}

// Schedule creates one scheduled post per integration. The post content is
// the shaped text plus the comment URL as a second entry.
func (c *Client) Schedule(ctx context.Context, opts ScheduleOptions) error {
	if len(opts.Integrations) == 0 {
		return fmt.Errorf("missing postiz integrations")
	}

	content, err := json.Marshal([]string{ShapeText(opts.Text), opts.CommentURL})
	if err != nil {
		return err
	}

	var images string
	if opts.ImageURL != "" {
		data, err := json.Marshal([]string{opts.ImageURL})
		if err != nil {
			return err
		}
		images = string(data)
	}

	for _, integration := range opts.Integrations {
		args := []string{
			"posts", "create",
			"--content", string(content),
			"--integrations", integration,
			"--status", "scheduled",
			"--scheduled-date", opts.ScheduledDate,
		}
		if images != "" {
			args = append(args, "--images", images)
		}
		if _, err := runner.Run(ctx, "postiz", args...); err != nil {
			return fmt.Errorf("scheduling for integration %s: %w", integration, err)
		}
	}
	return nil
}

// ResolveIntegrations picks the integration ids: explicit flag value first,
// then the config group, then the youtube_publish fallback list.
func ResolveIntegrations(flagValue, group string, cfg *config.Config) ([]string, error) {
	if ids := ParseIntegrations(flagValue); len(ids) > 0 {
		return ids, nil
	}

	if group == "" {
		group = cfg.YouTube.PostizGroup
	}
	if group == "" {
		group = DefaultGroup
	}
	if ids := cfg.Postiz.ResolveGroup(group); len(ids) > 0 {
		return ids, nil
	}

	if len(cfg.YouTube.PostizIntegrations) > 0 {
		return cfg.YouTube.PostizIntegrations, nil
	}
	return nil, fmt.Errorf("missing postiz integrations (pass --integrations or configure postiz.groups)")
}
