// Package paths provides centralized path resolution for the skills CLI.
// Every skill shares ~/.config/skills for configuration, while some keep
// their own legacy locations (bird's ignore file, the whatsapp inbox state,
// the youtube-publish token) that predate the shared directory.
package paths

import (
	"os"
	"path/filepath"
)

// ConfigPathEnv overrides the shared config.json location.
const ConfigPathEnv = "SKILLS_CONFIG_PATH"

// home returns the user home directory, falling back to "." so path
// construction never fails outright.
func home() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return h
}

// ConfigDir returns the shared skills configuration directory.
func ConfigDir() string {
	return filepath.Join(home(), ".config", "skills")
}

// ConfigPath returns the shared config.json path.
// Precedence: SKILLS_CONFIG_PATH > ~/.config/skills/config.json
func ConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.json")
}

// ClientSecretPath returns the shared Google OAuth client secret path.
func ClientSecretPath() string {
	return filepath.Join(ConfigDir(), "client_secret.json")
}

// BirdIgnorePath returns the bird CLI ignored-mentions store.
func BirdIgnorePath() string {
	return filepath.Join(home(), ".config", "bird", "ignored_mentions.json")
}

// ChatTokenPath returns the Google Chat OAuth token path.
func ChatTokenPath() string {
	return filepath.Join(home(), ".config", "google-chat", "token.json")
}

// YouTubeConfigDir returns the youtube-publish configuration directory.
func YouTubeConfigDir() string {
	return filepath.Join(home(), ".config", "youtube-publish")
}

// YouTubeTokenPath returns the YouTube OAuth token path.
func YouTubeTokenPath() string {
	return filepath.Join(YouTubeConfigDir(), "token.json")
}

// YouTubeClientSecretPath returns the youtube-publish client secret path.
func YouTubeClientSecretPath() string {
	return filepath.Join(YouTubeConfigDir(), "client_secret.json")
}

// YouTubeConfigPath returns the youtube-publish config.yaml path.
func YouTubeConfigPath() string {
	return filepath.Join(YouTubeConfigDir(), "config.yaml")
}

// WhatsAppStatePath returns the whatsapp-evo inbox state path.
// Precedence: WHATSAPP_EVO_STATE_PATH > ~/.cache/whatsapp-evo/inbox-state.json
func WhatsAppStatePath() string {
	if p := os.Getenv("WHATSAPP_EVO_STATE_PATH"); p != "" {
		return p
	}
	return filepath.Join(home(), ".cache", "whatsapp-evo", "inbox-state.json")
}

// TestimonialsTokenPath returns the OAuth token used for the testimonials
// sheet and its drive attachments.
func TestimonialsTokenPath() string {
	return filepath.Join(ConfigDir(), "testimonials-token.json")
}

// VideosOutputDir returns the default per-video output directory used by
// the youtube ideas/thumbs commands.
func VideosOutputDir() string {
	return filepath.Join(home(), "Downloads", "youtube-videos")
}
