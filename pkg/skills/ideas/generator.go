package ideas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"google.golang.org/genai"

	"github.com/devexpertio/skills/pkg/skills/youtube"
)

// APIKeyEnvs are checked in order for the Gemini key.
var APIKeyEnvs = []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}

// APIKey resolves the Gemini API key from the environment.
func APIKey() (string, error) {
	for _, key := range APIKeyEnvs {
		if v := os.Getenv(key); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("missing GEMINI_API_KEY/GOOGLE_API_KEY in environment")
}

// Generator drives title and thumbnail generation.
type Generator struct {
	client     *genai.Client
	TextModel  string
	ImageModel string
	Retries    int
	AssetsDir  string
}

// NewGenerator builds a Gemini client with the given request timeout.
func NewGenerator(ctx context.Context, apiKey string, timeout time.Duration) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Generator{
		client:     client,
		TextModel:  DefaultTextModel,
		ImageModel: DefaultImageModel,
		Retries:    1,
	}, nil
}

// GenerateIdeas asks the text model for titles and thumbnail proposals.
func (g *Generator) GenerateIdeas(ctx context.Context, title, description string) (*Payload, error) {
	prompt := BuildIdeasPrompt(title, description)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.TextModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("generating ideas: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no text returned from gemini")
	}
	return ParsePayload([]byte(text))
}

// GenerateText sends a free-form prompt to the text model and returns the
// plain response.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.TextModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generating text: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text returned from gemini")
	}
	return text, nil
}

// GenerateThumbnail renders one proposal into a PNG, retrying transient
// empty responses.
func (g *Generator) GenerateThumbnail(ctx context.Context, photoPath, prompt, outPath string) error {
	photo, err := os.ReadFile(photoPath)
	if err != nil {
		return fmt.Errorf("reading input photo: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(photo, "image/png"),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	var lastErr error
	for attempt := 0; attempt <= g.Retries; attempt++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.ImageModel, contents, cfg)
		if err != nil {
			lastErr = err
			continue
		}
		data := firstImage(resp)
		if data == nil {
			lastErr = fmt.Errorf("no image was generated in the response")
			continue
		}
		return os.WriteFile(outPath, data, 0o644)
	}
	return fmt.Errorf("thumbnail generation failed after retries: %w", lastErr)
}

func firstImage(resp *genai.GenerateContentResponse) []byte {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}

// ResolvePhoto maps a model-reported photo key to an existing asset file,
// falling back to a basename match.
func ResolvePhoto(assetsDir, photoKey string) (string, error) {
	candidate := filepath.Join(assetsDir, filepath.Base(photoKey))
	if _, err := os.Stat(candidate); err != nil {
		return "", fmt.Errorf("missing input photo: %s", photoKey)
	}
	return candidate, nil
}

// RunOptions controls a full generation pass over recent uploads.
type RunOptions struct {
	OutDir          string
	MinSeconds      int
	SkipText        bool
	SkipImages      bool
	Resume          bool
	OnlyMissingImgs bool
}

// RunStats summarizes a pass.
type RunStats struct {
	Processed int
	Skipped   int
}

// Meta is the per-video meta.json content.
type Meta struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	PublishedAt     string `json:"published_at"`
	Duration        string `json:"duration"`
	DurationSeconds int    `json:"duration_seconds"`
	URL             string `json:"url"`
}

// Run processes the given uploads: writes title, description, and metadata
// files, generates ideas and thumbnail images, and records failures in
// error.txt without aborting the pass.
func (g *Generator) Run(ctx context.Context, entries []youtube.VideoEntry, opts RunOptions) (RunStats, error) {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return RunStats{}, err
	}

	var stats RunStats
	for _, entry := range entries {
		if entry.VideoID == "" {
			continue
		}
		if !entry.HasDuration || entry.DurationSeconds < opts.MinSeconds {
			stats.Skipped++
			continue
		}

		videoDir := filepath.Join(opts.OutDir, FolderName(entry.PublishedAt, entry.Title, entry.VideoID))
		if err := os.MkdirAll(videoDir, 0o755); err != nil {
			return stats, err
		}

		writeFile(videoDir, "title.txt", entry.Title)
		writeFile(videoDir, "description.txt", entry.Description)

		meta := Meta{
			VideoID:         entry.VideoID,
			Title:           entry.Title,
			PublishedAt:     entry.PublishedAt,
			Duration:        youtube.FormatDuration(entry.DurationSeconds, entry.HasDuration),
			DurationSeconds: entry.DurationSeconds,
			URL:             entry.URL,
		}
		if data, err := json.MarshalIndent(meta, "", "  "); err == nil {
			writeFile(videoDir, "meta.json", string(data))
		}

		payload := g.loadOrGenerateIdeas(ctx, videoDir, entry, opts)
		if payload != nil {
			writeFile(videoDir, "titles.txt", FormatTitles(payload.Titles))
			writeFile(videoDir, "thumbnails.txt", FormatThumbs(payload.Thumbnails))
		}

		if !opts.SkipImages {
			thumbs := FallbackThumbs
			if payload != nil {
				thumbs = payload.Thumbnails
			}
			g.renderThumbs(ctx, videoDir, thumbs, opts.OnlyMissingImgs)
		}

		stats.Processed++
	}
	return stats, nil
}

func (g *Generator) loadOrGenerateIdeas(ctx context.Context, videoDir string, entry youtube.VideoEntry, opts RunOptions) *Payload {
	ideasPath := filepath.Join(videoDir, "ideas.json")

	if opts.Resume || opts.SkipText {
		if data, err := os.ReadFile(ideasPath); err == nil {
			if payload, err := ParsePayload(data); err == nil {
				return payload
			}
		}
	}
	if opts.SkipText {
		return nil
	}

	payload, err := g.GenerateIdeas(ctx, entry.Title, entry.Description)
	if err != nil {
		appendError(videoDir, fmt.Sprintf("Failed to generate ideas: %v\n", err))
		return nil
	}
	if data, err := json.MarshalIndent(payload, "", "  "); err == nil {
		writeFile(videoDir, "ideas.json", string(data))
	}
	return payload
}

func (g *Generator) renderThumbs(ctx context.Context, videoDir string, thumbs []Thumb, onlyMissing bool) {
	for i, thumb := range thumbs {
		outPath := filepath.Join(videoDir, fmt.Sprintf("thumb-%d.png", i+1))
		if onlyMissing {
			if _, err := os.Stat(outPath); err == nil {
				continue
			}
		}

		photo, err := ResolvePhoto(g.AssetsDir, thumb.Photo)
		if err != nil {
			appendError(videoDir, fmt.Sprintf("Missing input photo for thumbnail %d: %s\n", i+1, thumb.Photo))
			continue
		}

		prompt := BuildImagePrompt(thumb)
		writeFile(videoDir, fmt.Sprintf("thumb-%d.prompt.txt", i+1), prompt)

		if err := g.GenerateThumbnail(ctx, photo, prompt, outPath); err != nil {
			appendError(videoDir, fmt.Sprintf("Failed to generate thumb-%d: %v\n", i+1, err))
		}
	}
}

// MissingStats summarizes a missing-thumbnails pass.
type MissingStats struct {
	Generated int
	Skipped   int
	Failed    int
}

// GenerateMissing walks existing per-video folders under outDir and renders
// any thumb-N.png the earlier pass did not produce, from the stored
// ideas.json. Force regenerates existing images too.
func (g *Generator) GenerateMissing(ctx context.Context, outDir string, force bool) (MissingStats, error) {
	dirEntries, err := os.ReadDir(outDir)
	if err != nil {
		return MissingStats{}, fmt.Errorf("reading %s: %w", outDir, err)
	}
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name() < dirEntries[j].Name() })

	var stats MissingStats
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		videoDir := filepath.Join(outDir, de.Name())
		data, err := os.ReadFile(filepath.Join(videoDir, "ideas.json"))
		if err != nil {
			continue
		}
		payload, err := ParsePayload(data)
		if err != nil {
			writeFile(videoDir, "error.thumbs.txt", fmt.Sprintf("Invalid ideas.json: %v\n", err))
			stats.Failed++
			continue
		}

		for i, thumb := range payload.Thumbnails {
			outPath := filepath.Join(videoDir, fmt.Sprintf("thumb-%d.png", i+1))
			if !force {
				if _, err := os.Stat(outPath); err == nil {
					stats.Skipped++
					continue
				}
			}

			photo, err := ResolvePhoto(g.AssetsDir, thumb.Photo)
			if err != nil {
				writeFile(videoDir, "error.thumbs.txt", fmt.Sprintf("Missing input photo for thumb-%d: %s\n", i+1, thumb.Photo))
				stats.Failed++
				continue
			}

			prompt := BuildImagePrompt(thumb)
			writeFile(videoDir, fmt.Sprintf("thumb-%d.prompt.txt", i+1), prompt)

			if err := g.GenerateThumbnail(ctx, photo, prompt, outPath); err != nil {
				writeFile(videoDir, "error.thumbs.txt", fmt.Sprintf("Failed to generate thumb-%d: %v\n", i+1, err))
				stats.Failed++
				continue
			}
			stats.Generated++
		}
	}
	return stats, nil
}

func writeFile(dir, name, content string) {
	_ = os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}

// appendError records a failure in the video folder's error.txt, keeping
// earlier failures from the same pass.
func appendError(dir, content string) {
	f, err := os.OpenFile(filepath.Join(dir, "error.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(content)
}
