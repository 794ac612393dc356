package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devexpertio/skills/pkg/skills/paths"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(paths.ConfigPathEnv, path)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(paths.ConfigPathEnv, filepath.Join(t.TempDir(), "nope.json"))
	cfg := Load()
	assert.Empty(t, cfg.Bird.Username)
	assert.Empty(t, cfg.WhatsAppEvo.APIURL)
}

func TestLoadInvalidFile(t *testing.T) {
	writeConfig(t, "{not json")
	cfg := Load()
	assert.Empty(t, cfg.Bird.ChromeProfile)
}

func TestLoadSections(t *testing.T) {
	writeConfig(t, `{
		"bird": {"username": "antonio", "chrome_profile": "Default"},
		"whatsapp_evo": {"api_url": "https://evo.example.com/", "instance": "main"},
		"youtube_publish": {"postiz_group": "yt", "listmonk_list_id": 3},
		"devexpert_testimonials": {"sheet_id": "abc", "gid": 42}
	}`)

	cfg := Load()
	assert.Equal(t, "antonio", cfg.Bird.Username)
	assert.Equal(t, "Default", cfg.Bird.ChromeProfile)
	assert.Equal(t, "https://evo.example.com/", cfg.WhatsAppEvo.APIURL)
	assert.Equal(t, "main", cfg.WhatsAppEvo.Instance)
	assert.Equal(t, "yt", cfg.YouTube.PostizGroup)
	assert.Equal(t, 3, cfg.YouTube.ListmonkListID)
	require.NotNil(t, cfg.Testimonials.GID)
	assert.Equal(t, 42, *cfg.Testimonials.GID)
}

func TestPostizIntegrationForms(t *testing.T) {
	writeConfig(t, `{
		"postiz": {
			"integrations": {
				"linkedin": "id-linkedin",
				"x": {"id": "id-x"}
			},
			"groups": {
				"youtube_publish": ["linkedin", "x", "raw-id"]
			}
		}
	}`)

	cfg := Load()
	ids := cfg.Postiz.ResolveGroup("youtube_publish")
	assert.Equal(t, []string{"id-linkedin", "id-x", "raw-id"}, ids)
}

func TestResolveGroupUnknown(t *testing.T) {
	var p PostizConfig
	assert.Empty(t, p.ResolveGroup("missing"))
}

func TestSecretPrefersEnv(t *testing.T) {
	t.Setenv("SKILLS_TEST_SECRET", "  from-env  ")
	assert.Equal(t, "from-env", Secret("SKILLS_TEST_SECRET"))
}
