// Package ideas generates title and thumbnail proposals for recent videos
// with Gemini, writing per-video working folders with texts, prompts, and
// rendered thumbnail images.
package ideas

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Default Gemini models.
const (
	DefaultTextModel  = "models/gemini-2.0-flash"
	DefaultImageModel = "models/gemini-3-pro-image-preview"
)

// PhotoKeys are the portrait assets the text model must reference, one per
// thumbnail proposal.
var PhotoKeys = []string{
	"assets/antonio-1.png",
	"assets/antonio-2.png",
	"assets/antonio-3.png",
}

const promptTemplate = `Eres un experto en títulos y thumbnails para YouTube (audiencia técnica).

Reglas obligatorias:
- Evita clickbait: no uses 'Fácil', 'Rápido', 'Secreto'.
- Enfócate en ingeniería, arquitectura y resolver fricción de desarrolladores.
- Usa español.
- Genera exactamente 3 títulos.
- Genera exactamente 3 ideas de thumbnails.

Reglas de thumbnails:
- Estilo: dark mode, minimalista, luz cinematográfica (cyan/purple).
- Debe aparecer un artefacto técnico (logo, snippet de código o nodos).
- Usa el contexto de foto de Antonio: assets/antonio-1.png, assets/antonio-2.png, assets/antonio-3.png.
- Cada thumbnail debe usar una foto distinta.
- Texto en thumbnail: <= 4 palabras.

Devuelve SOLO JSON con esta forma exacta:
{
  "titles": ["...", "...", "..."],
  "thumbnails": [
    {"photo": "assets/antonio-1.png", "text": "...", "artifact": "...", "concept": "..."},
    {"photo": "assets/antonio-2.png", "text": "...", "artifact": "...", "concept": "..."},
    {"photo": "assets/antonio-3.png", "text": "...", "artifact": "...", "concept": "..."}
  ]
}

Entrada:
TITULO ACTUAL: %s
DESCRIPCION:
%s
`

// BuildIdeasPrompt fills the generation prompt for one video.
func BuildIdeasPrompt(title, description string) string {
	return fmt.Sprintf(promptTemplate, title, description)
}

// Thumb is one thumbnail proposal from the model.
type Thumb struct {
	Photo    string `json:"photo"`
	Text     string `json:"text"`
	Artifact string `json:"artifact"`
	Concept  string `json:"concept"`
}

// Payload is the full JSON the text model returns.
type Payload struct {
	Titles     []string `json:"titles"`
	Thumbnails []Thumb  `json:"thumbnails"`
}

// ParsePayload decodes and validates the model output.
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing ideas JSON: %w", err)
	}
	if len(p.Titles) == 0 {
		return nil, fmt.Errorf("invalid payload: titles must be a non-empty list")
	}
	if len(p.Thumbnails) == 0 {
		return nil, fmt.Errorf("invalid payload: thumbnails must be a non-empty list")
	}
	return &p, nil
}

// FallbackThumbs stand in when text generation was skipped.
var FallbackThumbs = []Thumb{
	{Photo: "assets/antonio-1.png", Text: "Arquitectura IA", Artifact: "diagram", Concept: "technical nodes/diagram"},
	{Photo: "assets/antonio-2.png", Text: "MCP Toolkit", Artifact: "docker+mcp", Concept: "docker + MCP icons"},
	{Photo: "assets/antonio-3.png", Text: "Dev Workflow", Artifact: "code", Concept: "code snippet + terminal"},
}

var spaceRe = regexp.MustCompile(`\s+`)

// bannedWords tracks the clickbait terms the prompt forbids, so they are
// stripped even when the model ignores the rule.
var bannedWords = map[string]bool{
	"facil": true, "fácil": true, "rapido": true, "rápido": true, "secreto": true,
}

// NormalizeThumbText collapses whitespace, drops banned clickbait words, and
// caps the overlay text at four words.
func NormalizeThumbText(text string) string {
	cleaned := spaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	var words []string
	for _, w := range strings.Split(cleaned, " ") {
		if w == "" || bannedWords[strings.ToLower(w)] {
			continue
		}
		words = append(words, w)
		if len(words) == 4 {
			break
		}
	}
	return strings.Join(words, " ")
}

// BuildImagePrompt assembles the image-model prompt for one proposal.
func BuildImagePrompt(t Thumb) string {
	text := NormalizeThumbText(t.Text)
	return "Create a YouTube thumbnail (16:9). " +
		"Use the provided photo as Antonio's portrait (keep identity, face sharp, no distortions). " +
		"Background: dark mode gradient cyan/purple, cinematic lighting, minimalist. " +
		"Include a technical artifact: " + t.Artifact + ". " +
		"Concept: " + t.Concept + ". " +
		`Add large bold text (<=4 words): "` + text + `". ` +
		"High contrast, clean typography, no extra text, no watermark."
}

var slugStripRe = regexp.MustCompile(`[^a-zA-Z0-9\-\s]`)

// SafeSlug lowercases a title into a hyphenated folder-name fragment.
func SafeSlug(text string) string {
	s := slugStripRe.ReplaceAllString(text, "")
	s = strings.ToLower(strings.TrimSpace(s))
	s = spaceRe.ReplaceAllString(s, "-")
	if s == "" {
		return "video"
	}
	return s
}

// FolderName builds the per-video working directory name:
// <yyyymmdd>_<slug60>_<id>, the date omitted when unknown.
func FolderName(publishedAt, title, videoID string) string {
	slug := SafeSlug(title)
	if len(slug) > 60 {
		slug = slug[:60]
	}
	datePrefix := ""
	if len(publishedAt) >= 10 {
		datePrefix = strings.ReplaceAll(publishedAt[:10], "-", "")
	}
	if datePrefix == "" {
		return slug + "_" + videoID
	}
	return datePrefix + "_" + slug + "_" + videoID
}

// FormatTitles renders the numbered titles.txt content.
func FormatTitles(titles []string) string {
	var b strings.Builder
	for i, t := range titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatThumbs renders the thumbnails.txt content.
func FormatThumbs(thumbs []Thumb) string {
	var lines []string
	for i, t := range thumbs {
		lines = append(lines, fmt.Sprintf("%d. %s | %s | %s | %s",
			i+1, NormalizeThumbText(t.Text), t.Photo, t.Artifact, t.Concept))
	}
	return strings.Join(lines, "\n")
}
