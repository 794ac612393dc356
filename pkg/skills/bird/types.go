package bird

import (
	"fmt"
	"net/url"
	"time"
)

// CreatedAtLayout is X's legacy timestamp format ("Mon Jan 2 15:04:05 -0700 2006").
const CreatedAtLayout = "Mon Jan 2 15:04:05 -0700 2006"

// Author is the tweet author as bird emits it.
type Author struct {
	Username string `json:"username"`
}

// Tweet is a single tweet from bird's JSON output.
type Tweet struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	CreatedAt    string `json:"createdAt"`
	LikeCount    int    `json:"likeCount"`
	RetweetCount int    `json:"retweetCount"`
	ReplyCount   int    `json:"replyCount"`
	Author       Author `json:"author"`
}

// NewsItem is one entry from `bird news`. The headline key varies across
// bird versions, so three candidates are carried.
type NewsItem struct {
	Headline  string  `json:"headline"`
	Title     string  `json:"title"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	TimeAgo   string  `json:"timeAgo"`
	URL       string  `json:"url"`
	PostCount int     `json:"postCount"`
	Tweets    []Tweet `json:"tweets"`
}

// HeadlineText returns the first non-empty headline candidate.
func (n NewsItem) HeadlineText() string {
	if n.Headline != "" {
		return n.Headline
	}
	if n.Title != "" {
		return n.Title
	}
	return n.Name
}

// EngagementScore weights replies over retweets over likes.
func EngagementScore(t Tweet) int {
	return t.LikeCount + 2*t.RetweetCount + 3*t.ReplyCount
}

// ParseCreatedAt parses an X timestamp, returning the zero time on failure
// so unparsable dates sort last.
func ParseCreatedAt(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(CreatedAtLayout, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// StatusURL builds the x.com permalink for a tweet, or "" when either part
// is missing.
func StatusURL(author, id string) string {
	if author == "" || id == "" {
		return ""
	}
	return fmt.Sprintf("https://x.com/%s/status/%s", author, id)
}

// SearchURL builds an x.com search link for a headline.
func SearchURL(headline string) string {
	if headline == "" {
		return ""
	}
	return "https://x.com/search?q=" + url.QueryEscape(headline)
}
