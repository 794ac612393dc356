package bird

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

// MentionStatus classifies a mention after checking its replies.
type MentionStatus string

const (
	StatusAnswered   MentionStatus = "respondida"
	StatusUnanswered MentionStatus = "sin_responder"
	StatusUnknown    MentionStatus = "unknown"
)

// MentionsOptions controls the unanswered-mentions report.
type MentionsOptions struct {
	Username       string
	Limit          int
	ShowText       bool
	IncludeUnknown bool
	Numbered       bool
	NoIgnore       bool
	IgnorePath     string
}

// Mention is one unanswered (or unknown) mention in the report.
type Mention struct {
	CreatedAt string        `json:"createdAt"`
	Author    string        `json:"author"`
	Text      string        `json:"text"`
	ID        string        `json:"id"`
	Status    MentionStatus `json:"status"`
	Index     int           `json:"index,omitempty"`
	URL       string        `json:"url,omitempty"`
}

// LoadMentions fetches the account's mentions.
func (c *Client) LoadMentions(ctx context.Context) ([]Tweet, error) {
	var mentions []Tweet
	err := c.runJSON(ctx, &mentions, "mentions", "--json")
	return mentions, err
}

// LoadReplies fetches the replies to a tweet.
func (c *Client) LoadReplies(ctx context.Context, tweetID string) ([]Tweet, error) {
	var replies []Tweet
	err := c.runJSON(ctx, &replies, "replies", tweetID, "--json")
	return replies, err
}

// UnansweredMentions lists mentions the account has not replied to, newest
// first. Reply-lookup failures classify a mention as unknown rather than
// aborting the report.
func (c *Client) UnansweredMentions(ctx context.Context, opts MentionsOptions) ([]Mention, error) {
	username := strings.ToLower(opts.Username)

	mentions, err := c.LoadMentions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading mentions: %w", err)
	}

	var ignored map[string]bool
	if !opts.NoIgnore {
		ignored = LoadIgnoredIDs(opts.IgnorePath, username)
	}

	var results []Mention
	for _, mention := range mentions {
		if mention.ID == "" {
			continue
		}

		status := StatusUnknown
		if replies, err := c.LoadReplies(ctx, mention.ID); err == nil {
			status = StatusUnanswered
			for _, r := range replies {
				if strings.ToLower(r.Author.Username) == username {
					status = StatusAnswered
					break
				}
			}
		}

		if status == StatusAnswered {
			continue
		}
		if status == StatusUnknown && !opts.IncludeUnknown {
			continue
		}
		if ignored[mention.ID] {
			continue
		}

		results = append(results, Mention{
			CreatedAt: mention.CreatedAt,
			Author:    mention.Author.Username,
			Text:      mention.Text,
			ID:        mention.ID,
			Status:    status,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return ParseCreatedAt(results[i].CreatedAt).After(ParseCreatedAt(results[j].CreatedAt))
	})
	results = top(results, opts.Limit)

	for i := range results {
		results[i].Index = i + 1
		results[i].URL = StatusURL(results[i].Author, results[i].ID)
	}
	return results, nil
}

// dateLabel renders the per-day section heading, DD/MM/YYYY.
func dateLabel(createdAt string) string {
	ts := ParseCreatedAt(createdAt)
	if ts.IsZero() {
		return "Unknown date"
	}
	return ts.Format("02/01/2006")
}

// PrintMentions renders the report grouped by day.
func PrintMentions(w io.Writer, mentions []Mention, opts MentionsOptions) {
	current := ""
	for _, m := range mentions {
		label := dateLabel(m.CreatedAt)
		if label != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "**%s**:\n\n", label)
			current = label
		}

		prefix := ""
		if opts.Numbered {
			prefix = fmt.Sprintf("%d) ", m.Index)
		}
		fmt.Fprintf(w, "- %s@%s | %s\n", prefix, m.Author, m.URL)
		if opts.ShowText && m.Text != "" {
			fmt.Fprintf(w, "  %s\n\n", m.Text)
		}
	}
}
