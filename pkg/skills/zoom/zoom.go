// Package zoom manages Zoom meetings and cloud recordings through the REST
// v2 API with server-to-server OAuth.
package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	apiBase  = "https://api.zoom.us/v2"
	tokenURL = "https://zoom.us/oauth/token"
)

// Environment keys for server-to-server OAuth.
const (
	AccountIDEnv    = "ZOOM_ACCOUNT_ID"
	ClientIDEnv     = "ZOOM_CLIENT_ID"
	ClientSecretEnv = "ZOOM_CLIENT_SECRET"
)

// Client calls the Zoom API with an account-credentials token.
type Client struct {
	httpClient *http.Client
	apiBase    string
	tokenURL   string
	accountID  string
	clientID   string
	secret     string

	token string
}

// NewClient reads the OAuth credentials from the environment.
func NewClient() (*Client, error) {
	accountID := os.Getenv(AccountIDEnv)
	clientID := os.Getenv(ClientIDEnv)
	secret := os.Getenv(ClientSecretEnv)
	for key, v := range map[string]string{
		AccountIDEnv: accountID, ClientIDEnv: clientID, ClientSecretEnv: secret,
	} {
		if v == "" {
			return nil, fmt.Errorf("missing env %s", key)
		}
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiBase:    apiBase,
		tokenURL:   tokenURL,
		accountID:  accountID,
		clientID:   clientID,
		secret:     secret,
	}, nil
}

// Authenticate fetches an account_credentials access token.
func (c *Client) Authenticate(ctx context.Context) error {
	params := url.Values{
		"grant_type": {"account_credentials"},
		"account_id": {c.accountID},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.tokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.clientID, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zoom token request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("zoom token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("failed to obtain zoom access token")
	}
	c.token = payload.AccessToken
	return nil
}

func (c *Client) ensureToken(ctx context.Context) error {
	if c.token != "" {
		return nil
	}
	return c.Authenticate(ctx)
}

func (c *Client) api(ctx context.Context, method, path string, params url.Values, dst any) error {
	if err := c.ensureToken(ctx); err != nil {
		return err
	}

	u := c.apiBase + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zoom %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("zoom %s %s: reading response: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("zoom %s %s: status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if dst == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// Meeting is one meeting from the listing endpoint.
type Meeting struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	Topic     string `json:"topic"`
	StartTime string `json:"start_time"`
	JoinURL   string `json:"join_url"`
}

// MeetingsOptions controls the meetings listing.
type MeetingsOptions struct {
	User     string
	Type     string
	From     string
	To       string
	PageSize int
	Max      int
}

// ListMeetings walks the user's meetings across pages, then filters
// client-side by start date when --from/--to were given.
func (c *Client) ListMeetings(ctx context.Context, opts MeetingsOptions) ([]Meeting, error) {
	user := opts.User
	if user == "" {
		user = "me"
	}
	path := "/users/" + url.PathEscape(user) + "/meetings"

	params := url.Values{
		"type":      {opts.Type},
		"page_size": {strconv.Itoa(opts.PageSize)},
	}

	var meetings []Meeting
	for {
		var page struct {
			Meetings      []Meeting `json:"meetings"`
			NextPageToken string    `json:"next_page_token"`
		}
		if err := c.api(ctx, http.MethodGet, path, params, &page); err != nil {
			return nil, err
		}
		meetings = append(meetings, page.Meetings...)
		if page.NextPageToken == "" {
			break
		}
		params.Set("next_page_token", page.NextPageToken)
	}

	meetings, err := filterByDate(meetings, opts.From, opts.To)
	if err != nil {
		return nil, err
	}
	if opts.Max > 0 && len(meetings) > opts.Max {
		meetings = meetings[:opts.Max]
	}
	return meetings, nil
}

func filterByDate(meetings []Meeting, from, to string) ([]Meeting, error) {
	if from == "" && to == "" {
		return meetings, nil
	}
	var fromDay, toDay time.Time
	var err error
	if from != "" {
		if fromDay, err = time.Parse("2006-01-02", from); err != nil {
			return nil, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
	}
	if to != "" {
		if toDay, err = time.Parse("2006-01-02", to); err != nil {
			return nil, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
	}

	var out []Meeting
	for _, m := range meetings {
		start, perr := time.Parse(time.RFC3339, m.StartTime)
		if perr != nil {
			continue
		}
		day := start.UTC().Truncate(24 * time.Hour)
		if !fromDay.IsZero() && day.Before(fromDay) {
			continue
		}
		if !toDay.IsZero() && day.After(toDay) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// FormatMeeting renders one meeting: start | topic | join_url.
func FormatMeeting(m Meeting) string {
	return fmt.Sprintf("%s | %s | %s", m.StartTime, m.Topic, m.JoinURL)
}
