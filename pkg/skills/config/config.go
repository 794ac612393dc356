// Package config loads the shared skills configuration from
// ~/.config/skills/config.json. The file is optional: a missing or corrupt
// file behaves as an empty configuration so every command can run with
// flags and environment variables alone.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"

	"github.com/devexpertio/skills/pkg/skills/paths"
)

// keyringService is the service name used for secrets stored in the system
// keyring.
const keyringService = "skills"

// Config mirrors the sections of config.json. Unknown sections are ignored.
type Config struct {
	Bird         BirdConfig         `json:"bird"`
	WhatsAppEvo  WhatsAppEvoConfig  `json:"whatsapp_evo"`
	Postiz       PostizConfig       `json:"postiz"`
	YouTube      YouTubeConfig      `json:"youtube_publish"`
	Testimonials TestimonialsConfig `json:"devexpert_testimonials"`
}

// BirdConfig holds defaults for the bird CLI wrapper.
type BirdConfig struct {
	Username       string `json:"username"`
	ChromeProfile  string `json:"chrome_profile"`
	FirefoxProfile string `json:"firefox_profile"`
}

// WhatsAppEvoConfig holds Evolution API gateway defaults.
type WhatsAppEvoConfig struct {
	APIURL   string `json:"api_url"`
	Instance string `json:"instance"`
}

// PostizConfig maps integration names to ids and groups to name lists.
type PostizConfig struct {
	Integrations map[string]PostizIntegration `json:"integrations"`
	Groups       map[string][]string          `json:"groups"`
}

// PostizIntegration is one configured Postiz integration. The config file
// historically allowed either a bare id string or an object with an id
// field, so it carries a custom unmarshaller.
type PostizIntegration struct {
	ID string `json:"id"`
}

// UnmarshalJSON accepts both "abc123" and {"id": "abc123"}.
func (p *PostizIntegration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.ID = s
		return nil
	}
	type alias PostizIntegration
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = PostizIntegration(a)
	return nil
}

// YouTubeConfig holds youtube-publish defaults shared with the socials and
// newsletter scheduling.
type YouTubeConfig struct {
	PostizGroup        string   `json:"postiz_group"`
	PostizIntegrations []string `json:"postiz_integrations"`
	ListmonkListID     int      `json:"listmonk_list_id"`
}

// TestimonialsConfig holds defaults for the testimonials sync.
type TestimonialsConfig struct {
	Account string `json:"account"`
	SheetID string `json:"sheet_id"`
	GID     *int   `json:"gid"`
}

// Load reads config.json, tolerating a missing or invalid file.
// A .env in the working directory is applied first so environment lookups
// further down see it.
func Load() Config {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(paths.ConfigPath())
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// ResolveGroup resolves a Postiz group name to integration ids. Names not
// present in the integrations table pass through as literal ids.
func (p PostizConfig) ResolveGroup(group string) []string {
	var ids []string
	for _, name := range p.Groups[group] {
		if name == "" {
			continue
		}
		if integ, ok := p.Integrations[name]; ok && integ.ID != "" {
			ids = append(ids, integ.ID)
			continue
		}
		ids = append(ids, name)
	}
	return ids
}

// Secret looks up a credential: environment variable first, then the system
// keyring under the "skills" service. Returns "" when neither is set.
func Secret(envKey string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	v, err := keyring.Get(keyringService, envKey)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}
