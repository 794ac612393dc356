package bird

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// BriefOptions controls the daily brief.
type BriefOptions struct {
	HomeCount          int
	NewsCount          int
	HomeResults        int
	NewsTweets         int
	NewsSearchMinFaves int
	FollowingOnly      bool
	Debug              bool
}

// DefaultBriefOptions mirrors the CLI defaults.
func DefaultBriefOptions() BriefOptions {
	return BriefOptions{
		HomeCount:          120,
		NewsCount:          5,
		HomeResults:        10,
		NewsTweets:         3,
		NewsSearchMinFaves: 10,
		FollowingOnly:      true,
	}
}

// BriefNewsItem is a scored, deduplicated news entry.
type BriefNewsItem struct {
	NewsItem
	SearchURL string `json:"searchUrl"`
	Score     int    `json:"_score"`
}

// BriefHomeItem is a scored home-timeline candidate.
type BriefHomeItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	Score     int    `json:"score"`
	Relevance int    `json:"relevance"`
	Author    string `json:"author"`
}

// Brief is the assembled daily brief payload.
type Brief struct {
	News []BriefNewsItem `json:"news"`
	Home []BriefHomeItem `json:"home"`
}

// IsRetweet reports whether the text is a classic retweet.
func IsRetweet(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "RT @")
}

// HeadlineKey produces the dedup key for a headline: the first six purely
// alphanumeric lowercased words, apostrophes stripped. Empty when no word
// qualifies.
func HeadlineKey(headline string) string {
	cleaned := strings.ReplaceAll(strings.ToLower(headline), "'", "")
	var words []string
	for _, w := range strings.Fields(cleaned) {
		if w == "" || !isAlnum(w) {
			continue
		}
		words = append(words, w)
		if len(words) == 6 {
			break
		}
	}
	return strings.Join(words, " ")
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// BuildSearchQuery shapes the fallback news search: quotes neutralized,
// retweets excluded, minimum faves applied.
func BuildSearchQuery(headline string, minFaves int) string {
	safe := strings.NewReplacer(`"`, " ", "“", " ", "”", " ").Replace(headline)
	return fmt.Sprintf("%s min_faves:%d -filter:retweets", strings.TrimSpace(safe), minFaves)
}

// ScoreNews deduplicates and scores news items: the best tweet engagement,
// falling back to post count for zero-scored "AI ·" categories.
func ScoreNews(items []NewsItem, limit int) []BriefNewsItem {
	var out []BriefNewsItem
	seen := make(map[string]bool)
	for _, item := range items {
		headline := item.HeadlineText()
		key := HeadlineKey(headline)
		if key != "" && seen[key] {
			continue
		}
		if key != "" {
			seen[key] = true
		}

		best := 0
		for _, t := range item.Tweets {
			if s := EngagementScore(t); s > best {
				best = s
			}
		}
		if best == 0 && strings.HasPrefix(item.Category, "AI ·") {
			best = item.PostCount
		}

		entry := BriefNewsItem{NewsItem: item, SearchURL: SearchURL(headline), Score: best}
		entry.Headline = headline
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return top(out, limit)
}

// ScoreHome filters and ranks home-timeline tweets: retweets and empty
// texts dropped, newlines flattened, sorted by score then recency.
func ScoreHome(tweets []Tweet, limit int) []BriefHomeItem {
	var out []BriefHomeItem
	for _, t := range tweets {
		if t.Text == "" || IsRetweet(t.Text) {
			continue
		}
		score := EngagementScore(t)
		out = append(out, BriefHomeItem{
			ID:        t.ID,
			Text:      strings.ReplaceAll(t.Text, "\n", " "),
			CreatedAt: t.CreatedAt,
			Score:     score,
			Relevance: score,
			Author:    t.Author.Username,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Relevance != out[j].Relevance {
			return out[i].Relevance > out[j].Relevance
		}
		return ParseCreatedAt(out[i].CreatedAt).After(ParseCreatedAt(out[j].CreatedAt))
	})
	return top(out, limit)
}

func top[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// LoadNews fetches AI news items with attached tweets.
func (c *Client) LoadNews(ctx context.Context, tweetsPerItem int) ([]NewsItem, error) {
	var items []NewsItem
	err := c.runJSON(ctx, &items,
		"news", "--ai-only", "--with-tweets",
		"--tweets-per-item", strconv.Itoa(tweetsPerItem), "--json")
	return items, err
}

// LoadHome fetches the home timeline.
func (c *Client) LoadHome(ctx context.Context, count int, followingOnly bool) ([]Tweet, error) {
	args := []string{"home", "-n", strconv.Itoa(count)}
	if followingOnly {
		args = append(args, "--following")
	}
	args = append(args, "--json")

	var tweets []Tweet
	err := c.runJSON(ctx, &tweets, args...)
	return tweets, err
}

// SearchNewsLinks runs the fallback search for a headline and returns up to
// limit permalinks.
func (c *Client) SearchNewsLinks(ctx context.Context, headline string, minFaves, limit int) ([]string, error) {
	if headline == "" {
		return nil, nil
	}
	var results []Tweet
	err := c.runJSON(ctx, &results,
		"search", BuildSearchQuery(headline, minFaves),
		"-n", strconv.Itoa(limit), "--json")
	if err != nil {
		return nil, err
	}

	var links []string
	for _, t := range top(results, limit) {
		if u := StatusURL(t.Author.Username, t.ID); u != "" {
			links = append(links, u)
		}
	}
	return links, nil
}

// RunBrief loads, scores, and assembles the daily brief.
func (c *Client) RunBrief(ctx context.Context, opts BriefOptions) (*Brief, error) {
	news, err := c.LoadNews(ctx, opts.NewsTweets)
	if err != nil {
		return nil, fmt.Errorf("loading news: %w", err)
	}
	home, err := c.LoadHome(ctx, opts.HomeCount, opts.FollowingOnly)
	if err != nil {
		return nil, fmt.Errorf("loading home timeline: %w", err)
	}

	return &Brief{
		News: ScoreNews(news, opts.NewsCount),
		Home: ScoreHome(home, opts.HomeResults),
	}, nil
}

// PrintBrief renders the brief as the two-section text report. Items with
// no attached tweets fall back to a live search for links.
func (c *Client) PrintBrief(ctx context.Context, w io.Writer, b *Brief, opts BriefOptions) {
	fmt.Fprintf(w, "== AI dev news ==\n\n")
	for _, item := range b.News {
		headline := item.HeadlineText()
		line := fmt.Sprintf("- %s (%s) %s", headline, item.Category, item.TimeAgo)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
		if item.URL != "" {
			fmt.Fprintf(w, "  topic: %s\n", item.URL)
		}
		search := item.SearchURL
		if search == "" {
			search = SearchURL(headline)
		}
		if search != "" {
			fmt.Fprintf(w, "  search: %s\n", search)
		}

		var links []string
		for _, t := range top(item.Tweets, opts.NewsTweets) {
			if u := StatusURL(t.Author.Username, t.ID); u != "" {
				links = append(links, u)
			}
		}
		if len(links) == 0 {
			found, err := c.SearchNewsLinks(ctx, headline, opts.NewsSearchMinFaves, opts.NewsTweets)
			if err == nil {
				links = found
			}
		}
		for _, u := range links {
			fmt.Fprintf(w, "  %s\n", u)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "== Home candidates ==\n\n")
	for idx, item := range b.Home {
		fmt.Fprintf(w, "%d) %s\n", idx+1, StatusURL(item.Author, item.ID))
		fmt.Fprintf(w, "   %s\n\n", truncate(item.Text, 220))
	}

	if opts.Debug {
		fmt.Fprintf(w, "News items: %d\n", len(b.News))
		fmt.Fprintf(w, "Home candidates: %d\n", len(b.Home))
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
