// Package bird wraps the `bird` CLI for X (Twitter): timeline and news
// listings for the daily brief, mentions and replies for the unanswered
// report, and the local ignored-mentions store shared with the CLI itself.
package bird

import (
	"context"
	"fmt"
	"regexp"

	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/runner"
)

// Auth carries the cookie/profile options forwarded to every bird call.
type Auth struct {
	CookieSource   string
	ChromeProfile  string
	FirefoxProfile string
	AuthToken      string
	CT0            string
}

// HasCredentials reports whether any usable credential source is set.
func (a Auth) HasCredentials() bool {
	return a.ChromeProfile != "" || a.FirefoxProfile != "" || a.AuthToken != ""
}

// ApplyConfig fills browser profiles from the shared config when no explicit
// profile or token was given on the command line.
func (a *Auth) ApplyConfig(cfg config.BirdConfig) {
	if a.ChromeProfile == "" && a.FirefoxProfile == "" && a.AuthToken == "" {
		a.ChromeProfile = cfg.ChromeProfile
		a.FirefoxProfile = cfg.FirefoxProfile
	}
}

func (a Auth) args() []string {
	var args []string
	if a.AuthToken != "" {
		args = append(args, "--auth-token", a.AuthToken)
	}
	if a.CT0 != "" {
		args = append(args, "--ct0", a.CT0)
	}
	if a.CookieSource != "" {
		args = append(args, "--cookie-source", a.CookieSource)
	}
	if a.ChromeProfile != "" {
		args = append(args, "--chrome-profile", a.ChromeProfile)
	}
	if a.FirefoxProfile != "" {
		args = append(args, "--firefox-profile", a.FirefoxProfile)
	}
	return args
}

// Client invokes the bird CLI.
type Client struct {
	auth Auth
}

// NewClient creates a bird runner with the given auth options.
func NewClient(auth Auth) *Client {
	return &Client{auth: auth}
}

func (c *Client) runJSON(ctx context.Context, dst any, args ...string) error {
	full := append(c.auth.args(), args...)
	return runner.RunJSON(ctx, dst, "bird", full...)
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	full := append(c.auth.args(), args...)
	return runner.Run(ctx, "bird", full...)
}

var usernameRe = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// Whoami resolves the authenticated account's username.
func (c *Client) Whoami(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "whoami", "--plain")
	if err != nil {
		return "", err
	}
	m := usernameRe.FindStringSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("unable to parse username from bird whoami output")
	}
	return m[1], nil
}
