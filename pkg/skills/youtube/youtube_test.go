package youtube

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigTagShapes(t *testing.T) {
	listCfg, err := LoadConfig(writeConfig(t, "timezone: Europe/Madrid\ntags:\n  - go\n  - testing\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "testing"}, listCfg.Tags)
	assert.Equal(t, "Europe/Madrid", listCfg.Timezone)

	strCfg, err := LoadConfig(writeConfig(t, `tags: "go, testing, , cli"`))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "testing", "cli"}, strCfg.Tags)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Tags)
}

func TestParsePublishAt(t *testing.T) {
	// Madrid is UTC+1 in January
	got, err := ParsePublishAt("2025-01-15 18:00", "Europe/Madrid")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15T17:00:00Z", got)

	got, err = ParsePublishAt("2025-07-15T18:00", "Europe/Madrid")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-15T16:00:00Z", got)

	_, err = ParsePublishAt("next tuesday", "Europe/Madrid")
	require.Error(t, err)

	_, err = ParsePublishAt("2025-01-15 18:00", "Not/AZone")
	require.Error(t, err)
}

func TestDetectTimezoneFromEnv(t *testing.T) {
	t.Setenv("TZ", "America/Bogota")
	assert.Equal(t, "America/Bogota", DetectTimezone())
}

func TestBuildVideoDefaultsAndSchedule(t *testing.T) {
	opts := PublishOptions{
		Title:         "My video",
		Description:   "body",
		PublishAt:     "2025-01-15 18:00",
		Timezone:      "UTC",
		PrivacyStatus: "public",
		Config: Config{
			Tags:       []string{"default-tag"},
			CategoryID: "28",
		},
	}

	video, publishAt, err := opts.BuildVideo()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15T18:00:00Z", publishAt)
	// scheduling always forces private until YouTube flips it
	assert.Equal(t, "private", video.Status.PrivacyStatus)
	assert.Equal(t, publishAt, video.Status.PublishAt)
	assert.Equal(t, []string{"default-tag"}, video.Snippet.Tags)
	assert.Equal(t, "28", video.Snippet.CategoryId)
}

func TestBuildVideoRequiresTitleAndDescription(t *testing.T) {
	_, _, err := PublishOptions{Description: "x"}.BuildVideo()
	require.Error(t, err)

	_, _, err = PublishOptions{Title: "x"}.BuildVideo()
	require.Error(t, err)
}

func TestBuildVideoCategoryFallback(t *testing.T) {
	video, _, err := PublishOptions{Title: "t", Description: "d"}.BuildVideo()
	require.NoError(t, err)
	assert.Equal(t, DefaultCategoryID, video.Snippet.CategoryId)
	assert.Equal(t, "private", video.Status.PrivacyStatus)
}

func TestResolveDescriptionPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desc.txt")
	require.NoError(t, os.WriteFile(path, []byte("  from file \n"), 0o600))

	got, err := PublishOptions{Description: "inline", DescriptionFile: path}.ResolveDescription()
	require.NoError(t, err)
	assert.Equal(t, "from file", got)
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"PT1H2M3S", 3723, true},
		{"PT15M", 900, true},
		{"PT45S", 45, true},
		{"P1DT1H", 3600, true},
		{"not-a-duration", 0, false},
		{"", 0, false},
		{"PT1X", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseISODuration(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "n/a", FormatDuration(0, false))
	assert.Equal(t, "0:45", FormatDuration(45, true))
	assert.Equal(t, "15:00", FormatDuration(900, true))
	assert.Equal(t, "1:02:03", FormatDuration(3723, true))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitTags(" a , b ,, "))
	assert.Nil(t, SplitTags(" , "))
}
