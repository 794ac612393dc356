// Package statefile reads and writes the small JSON state files the skills
// share with sibling tools (ignored mentions, whatsapp inbox state, cached
// tokens). Files are read tolerantly and rewritten wholesale.
package statefile

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Load decodes a JSON state file into dst. A missing or unparsable file
// leaves dst untouched and returns false.
func Load(path string, dst any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false
	}
	return true
}

// Save writes v as indented JSON, creating parent directories. State files
// hold credentials and chat metadata, so they are written 0600 under 0700
// directories.
func Save(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
