// Package googleauth handles the installed-app OAuth flow shared by the
// Google Chat, YouTube, Sheets, and Drive clients. Tokens persist as JSON
// next to the client secret and refresh transparently.
package googleauth

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Credentials names the on-disk files for one Google integration.
type Credentials struct {
	ClientSecretPath string
	TokenPath        string
	Scopes           []string
}

// LoadConfig reads the installed-app client secret and builds the oauth2
// config for the configured scopes.
func (c Credentials) LoadConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(c.ClientSecretPath)
	if err != nil {
		return nil, fmt.Errorf("reading client secret %s: %w", c.ClientSecretPath, err)
	}
	cfg, err := google.ConfigFromJSON(data, c.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret: %w", err)
	}
	return cfg, nil
}

// TokenSource returns a source backed by the stored token, refreshing and
// re-saving as needed. It fails when no token has been stored yet; run the
// interactive Authorize flow first.
func (c Credentials) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, err
	}
	tok, err := readToken(c.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("no stored token at %s, run the auth command first: %w", c.TokenPath, err)
	}
	return &savingSource{cfg: cfg, token: tok, path: c.TokenPath}, nil
}

// Client returns an authenticated HTTP client for the stored token.
func (c Credentials) Client(ctx context.Context) (*oauth2.Config, oauth2.TokenSource, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	ts, err := c.TokenSource(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ts, nil
}

// Authorize runs the interactive console flow: print the consent URL, read
// the code (or full redirect URL) from in, exchange it, and store the token.
func (c Credentials) Authorize(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "urn:ietf:wg:oauth:2.0:oob"
	}

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Open this URL in your browser and authorize access:\n\n  %s\n\n", authURL)
	fmt.Fprint(out, "Paste the authorization code (or the full redirect URL): ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading authorization code: %w", err)
	}
	code := ExtractCode(strings.TrimSpace(line))
	if code == "" {
		return fmt.Errorf("empty authorization code")
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	if err := saveToken(c.TokenPath, tok); err != nil {
		return err
	}
	fmt.Fprintf(out, "Token stored at %s\n", c.TokenPath)
	return nil
}

// ExtractCode accepts either a bare code or a pasted redirect URL carrying
// a ?code= parameter.
func ExtractCode(input string) string {
	if strings.Contains(input, "://") || strings.HasPrefix(input, "/") {
		if u, err := url.Parse(input); err == nil {
			if code := u.Query().Get("code"); code != "" {
				return code
			}
		}
	}
	return input
}

// savingSource refreshes through the oauth2 config and persists any new
// token so refreshes survive restarts.
type savingSource struct {
	cfg   *oauth2.Config
	token *oauth2.Token
	path  string
	mu    sync.Mutex
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.cfg.TokenSource(context.Background(), s.token).Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.token.AccessToken {
		s.token = tok
		if err := saveToken(s.path, tok); err != nil {
			slog.Warn("failed to save refreshed token", "path", s.path, "error", err)
		}
	}
	return tok, nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token %s: %w", path, err)
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("saving token %s: %w", path, err)
	}
	return nil
}
