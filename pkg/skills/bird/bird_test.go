package bird

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementScore(t *testing.T) {
	tw := Tweet{LikeCount: 10, RetweetCount: 3, ReplyCount: 2}
	assert.Equal(t, 22, EngagementScore(tw))
	assert.Equal(t, 0, EngagementScore(Tweet{}))
}

func TestParseCreatedAt(t *testing.T) {
	ts := ParseCreatedAt("Mon Jan 6 15:04:05 +0000 2025")
	require.False(t, ts.IsZero())
	assert.Equal(t, 2025, ts.Year())

	assert.True(t, ParseCreatedAt("not a date").IsZero())
	assert.True(t, ParseCreatedAt("").IsZero())
}

func TestHeadlineKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", "OpenAI ships new model", "OpenAI ships new model", true},
		{"case insensitive", "OpenAI Ships New Model", "openai ships new model", true},
		{"punctuated words dropped from the key", "OpenAI Ships New Model!", "openai ships new", true},
		{"apostrophes stripped", "OpenAI's new model ships", "OpenAIs new model ships", true},
		{"first six words only", "one two three four five six seven", "one two three four five six EIGHT", true},
		{"different early words", "Anthropic ships new model", "OpenAI ships new model", false},
		{"punctuation changes the key", "OpenAI ships new model!", "OpenAI ships new model", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.same {
				assert.Equal(t, HeadlineKey(tt.a), HeadlineKey(tt.b))
			} else {
				assert.NotEqual(t, HeadlineKey(tt.a), HeadlineKey(tt.b))
			}
		})
	}
}

func TestIsRetweet(t *testing.T) {
	assert.True(t, IsRetweet("RT @someone: great post"))
	assert.True(t, IsRetweet("  RT @someone: leading spaces"))
	assert.False(t, IsRetweet("START with RT letters elsewhere"))
	assert.False(t, IsRetweet("plain tweet"))
}

func TestBuildSearchQuery(t *testing.T) {
	q := BuildSearchQuery(`OpenAI "GPT" launch`, 50)
	assert.Equal(t, `OpenAI  GPT  launch min_faves:50 -filter:retweets`, q)
}

func TestScoreNewsDedupAndOrder(t *testing.T) {
	items := []NewsItem{
		{Headline: "OpenAI ships new model today", Tweets: []Tweet{{LikeCount: 5}}},
		{Headline: "openai SHIPS new model today", Tweets: []Tweet{{LikeCount: 100}}},
		{Headline: "Something else entirely happened here", Tweets: []Tweet{{LikeCount: 50}}},
	}
	got := ScoreNews(items, 10)
	require.Len(t, got, 2)
	assert.Equal(t, 100, got[0].Score)
	assert.Equal(t, 50, got[1].Score)
}

func TestScoreNewsPostCountFallback(t *testing.T) {
	items := []NewsItem{{Headline: "No tweets attached", Category: "AI · Trending", PostCount: 1200}}
	got := ScoreNews(items, 5)
	require.Len(t, got, 1)
	assert.Equal(t, 1200, got[0].Score)
}

func TestScoreHomeSkipsRetweetsAndEmpty(t *testing.T) {
	home := []Tweet{
		{ID: "1", Text: "RT @x: boosted", LikeCount: 500, CreatedAt: "Mon Jan 6 10:00:00 +0000 2025"},
		{ID: "2", Text: "", LikeCount: 500},
		{ID: "3", Text: "keeper\nwith newline", LikeCount: 3, CreatedAt: "Mon Jan 6 11:00:00 +0000 2025"},
	}
	got := ScoreHome(home, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
	assert.NotContains(t, got[0].Text, "\n")
}

func TestStatusAndSearchURLs(t *testing.T) {
	assert.Equal(t, "https://x.com/alice/status/123", StatusURL("alice", "123"))
	assert.Contains(t, SearchURL(`a "b"`), "https://x.com/search?q=")
}

func TestIgnoreStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignored.json")

	s := LoadIgnoreStore(path)
	s.Ignore("alice", []string{"2", "1", ""})
	require.NoError(t, s.Save(path))

	s2 := LoadIgnoreStore(path)
	assert.Equal(t, []string{"1", "2"}, s2.IgnoredIDs("alice"))
	assert.Empty(t, s2.IgnoredIDs("bob"))

	ids := LoadIgnoredIDs(path, "alice")
	assert.True(t, ids["1"])
	assert.False(t, ids["3"])
}

func TestIgnoreStoreReadsMapShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignored.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"devexpert": {"111": true, "222": true}}`), 0o600))

	ids := LoadIgnoredIDs(path, "devexpert")
	assert.True(t, ids["111"])
	assert.True(t, ids["222"])

	s := LoadIgnoreStore(path)
	s.Ignore("devexpert", []string{"333"})
	require.NoError(t, s.Save(path))

	assert.Equal(t, []string{"111", "222", "333"},
		LoadIgnoreStore(path).IgnoredIDs("devexpert"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]map[string]bool
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.True(t, onDisk["devexpert"]["111"])
}

func TestIgnoreStoreMigratesPerUserLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignored.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"alice": ["1", "2"], "bob": {"3": true, "4": false}}`), 0o600))

	s := LoadIgnoreStore(path)
	assert.Equal(t, []string{"1", "2"}, s.IgnoredIDs("alice"))
	assert.Equal(t, []string{"3"}, s.IgnoredIDs("bob"))
}

func TestIgnoreStoreLegacyMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignored.json")
	require.NoError(t, os.WriteFile(path, []byte(`["10","11"]`), 0o600))

	ids := LoadIgnoredIDs(path, "anyone")
	assert.True(t, ids["10"])
	assert.True(t, ids["11"])
}

func TestWhoamiRegex(t *testing.T) {
	m := usernameRe.FindStringSubmatch("Logged in as @some_user (id 42)")
	require.NotNil(t, m)
	assert.Equal(t, "some_user", m[1])
}

func TestAuthArgsOrderAndApplyConfig(t *testing.T) {
	a := Auth{AuthToken: "tok", CT0: "ct", CookieSource: "chrome", ChromeProfile: "Default"}
	assert.Equal(t, []string{
		"--auth-token", "tok",
		"--ct0", "ct",
		"--cookie-source", "chrome",
		"--chrome-profile", "Default",
	}, a.args())
}

func TestPrintMentionsGroupsByDate(t *testing.T) {
	mentions := []Mention{
		{CreatedAt: "Mon Jan 6 10:00:00 +0000 2025", Author: "alice", ID: "1", Index: 1, URL: StatusURL("alice", "1"), Status: StatusUnanswered},
		{CreatedAt: "Mon Jan 6 09:00:00 +0000 2025", Author: "bob", ID: "2", Index: 2, URL: StatusURL("bob", "2"), Status: StatusUnanswered},
		{CreatedAt: "Sun Jan 5 22:00:00 +0000 2025", Author: "carol", ID: "3", Index: 3, URL: StatusURL("carol", "3"), Status: StatusUnknown},
	}

	var buf bytes.Buffer
	PrintMentions(&buf, mentions, MentionsOptions{Numbered: true})
	out := buf.String()

	assert.Contains(t, out, "**06/01/2025**:")
	assert.Contains(t, out, "**05/01/2025**:")
	assert.Contains(t, out, "1) @alice")
	assert.Contains(t, out, "https://x.com/bob/status/2")
}
