package testimonials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Default site-relative locations inside the devexpert.io repository.
const (
	DefaultJSONPath   = "src/data/testimonials.json"
	DefaultImagesDir  = "src/assets/testimonials"
	DefaultAIPagePath = "src/pages/cursos/expert/ai.astro"
)

// LoadRecords reads the testimonials data file.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// SaveRecords writes the testimonials data file with the two-space
// indentation the site repository uses.
func SaveRecords(path string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding testimonials: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

var (
	aiIDsBlockRe = regexp.MustCompile(`(?s)testimonialIds=\{\[(.*?)\]\}`)
	aiIDRe       = regexp.MustCompile(`"(\d+)"`)
)

// ReadAIIDs extracts the testimonial ids listed on the AI Expert page.
func ReadAIIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	block := aiIDsBlockRe.FindSubmatch(data)
	if block == nil {
		return nil, fmt.Errorf("no testimonialIds block in %s", path)
	}
	var ids []string
	for _, m := range aiIDRe.FindAllSubmatch(block[1], -1) {
		ids = append(ids, string(m[1]))
	}
	return ids, nil
}

// WriteAIIDs rewrites the AI Expert page id list in place.
func WriteAIIDs(path string, ids []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if !aiIDsBlockRe.Match(data) {
		return fmt.Errorf("no testimonialIds block in %s", path)
	}
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + id + `"`
	}
	replacement := "testimonialIds={[" + strings.Join(quoted, ", ") + "]}"
	updated := aiIDsBlockRe.ReplaceAll(data, []byte(replacement))
	if err := os.WriteFile(path, updated, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
