// Package listmonk schedules newsletter campaigns through the listmonk CLI.
package listmonk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/devexpertio/skills/pkg/skills/runner"
)

// Client invokes the listmonk CLI.
type Client struct{}

// NewClient returns a listmonk runner.
func NewClient() *Client { return &Client{} }

// ScheduleOptions describes one scheduled campaign.
type ScheduleOptions struct {
	Name      string
	Subject   string
	Preheader string
	BodyFile  string
	SendAt    string
	ListID    int
}

// PrependPreheader injects the preheader as an HTML comment the email
// template picks up.
func PrependPreheader(body, preheader string) string {
	body = strings.TrimSpace(body)
	preheader = strings.TrimSpace(preheader)
	if preheader == "" {
		return body
	}
	return fmt.Sprintf("<!-- preheader: %s -->\n\n%s", preheader, body)
}

// Schedule writes the final body next to the source as
// newsletter.scheduled.md and creates the scheduled markdown campaign.
func (c *Client) Schedule(ctx context.Context, opts ScheduleOptions) error {
	if opts.ListID <= 0 {
		return fmt.Errorf("missing list id (pass --list-id or set youtube_publish.listmonk_list_id)")
	}

	raw, err := os.ReadFile(opts.BodyFile)
	if err != nil {
		return fmt.Errorf("reading body file: %w", err)
	}
	body := PrependPreheader(string(raw), opts.Preheader)

	scheduledPath := filepath.Join(filepath.Dir(opts.BodyFile), "newsletter.scheduled.md")
	if err := os.WriteFile(scheduledPath, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing scheduled body: %w", err)
	}

	_, err = runner.Run(ctx, "listmonk",
		"campaigns", "create",
		"--name", opts.Name,
		"--subject", opts.Subject,
		"--lists", strconv.Itoa(opts.ListID),
		"--body-file", scheduledPath,
		"--content-type", "markdown",
		"--send-at", opts.SendAt,
	)
	if err != nil {
		return fmt.Errorf("creating campaign: %w", err)
	}
	return nil
}
