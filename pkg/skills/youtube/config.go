// Package youtube uploads, updates, and lists channel videos through the
// YouTube Data API v3.
package youtube

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devexpertio/skills/pkg/skills/paths"
)

// Scopes required for uploads and metadata management.
var Scopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}

// Config holds channel upload defaults from config.yaml.
type Config struct {
	Timezone             string   `yaml:"timezone"`
	PrivacyStatus        string   `yaml:"privacy_status"`
	CategoryID           string   `yaml:"category_id"`
	Tags                 []string `yaml:"-"`
	MadeForKids          bool     `yaml:"made_for_kids"`
	NotifySubscribers    bool     `yaml:"notify_subscribers"`
	DefaultLanguage      string   `yaml:"default_language"`
	DefaultAudioLanguage string   `yaml:"default_audio_language"`
}

// rawConfig tolerates tags given as a list or a comma-separated string.
type rawConfig struct {
	Config `yaml:",inline"`
	Tags   any `yaml:"tags"`
}

// LoadConfig reads the YAML config, empty when the file is missing.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = paths.YouTubeConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg := raw.Config
	cfg.Tags = parseTags(raw.Tags)
	return cfg, nil
}

func parseTags(v any) []string {
	switch t := v.(type) {
	case []any:
		var tags []string
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				tags = append(tags, strings.TrimSpace(s))
			}
		}
		return tags
	case string:
		return SplitTags(t)
	}
	return nil
}

// SplitTags splits a comma-separated tag list, dropping blanks.
func SplitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
