// Package testimonials imports customer testimonials into the site data
// files: parsing pasted rows or a Google Sheet, normalizing text and dates,
// processing profile images, and keeping the AI Expert page ids in sync.
package testimonials

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Record is one testimonial entry in testimonials.json.
type Record struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Position      string `json:"position,omitempty"`
	Title         string `json:"title,omitempty"`
	Text          string `json:"text"`
	Rating        int    `json:"rating"`
	Date          string `json:"date"`
	ImageFilename string `json:"imageFilename,omitempty"`
}

// Key identifies a record for duplicate detection: lowercase name plus
// normalized date.
func (r Record) Key() string {
	return strings.ToLower(strings.TrimSpace(r.Name)) + "\x00" + strings.TrimSpace(r.Date)
}

// dateLayouts are the accepted input formats, normalized to
// "2006-01-02 15:04:05" on output.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate normalizes a raw sheet date. Unparsable values pass through
// unchanged so nothing is silently dropped.
func ParseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Format("2006-01-02 15:04:05")
		}
	}
	return raw
}

var sentenceSplitRe = regexp.MustCompile(`([.!?])\s+`)

// Autoparagraph reflows testimonial text into double-newline paragraphs:
// existing line breaks become paragraph breaks, otherwise each sentence gets
// its own paragraph.
func Autoparagraph(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return text
	}
	if strings.Contains(text, "\n") {
		var parts []string
		for _, p := range strings.Split(text, "\n") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, "\n\n")
	}

	split := sentenceSplitRe.ReplaceAllString(text, "$1\x00")
	var sentences []string
	for _, s := range strings.Split(split, "\x00") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= 1 {
		return text
	}
	return strings.Join(sentences, "\n\n")
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases text to an ASCII hyphenated slug, stripping accents.
func Slugify(text string) string {
	decomposed := norm.NFKD.String(text)
	var ascii strings.Builder
	for _, r := range decomposed {
		if r < 128 {
			ascii.WriteRune(r)
		}
	}
	s := strings.ToLower(ascii.String())
	s = strings.Trim(nonSlugRe.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "item"
	}
	return s
}

// BuildImageFilename derives the stored image name from the person and the
// course title.
func BuildImageFilename(name, title string) string {
	nameSlug := Slugify(name)
	if strings.TrimSpace(title) == "" {
		return nameSlug + ".jpg"
	}
	return nameSlug + "-" + Slugify(title) + ".jpg"
}

// aiTitlePatterns mark titles belonging on the AI Expert page.
var aiTitlePatterns = []string{"ai expert", "ai-expert", "ia expert", "ia-expert"}

var headerSpaceRe = regexp.MustCompile(`\s+`)

func normalizeTitle(title string) string {
	return headerSpaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), " ")
}

// IsAIExpert reports whether a course title belongs to the AI Expert
// program.
func IsAIExpert(title string) bool {
	normalized := normalizeTitle(title)
	for _, pat := range aiTitlePatterns {
		if strings.Contains(normalized, pat) {
			return true
		}
	}
	return false
}

// NextIDs allocates count sequential string ids after the highest numeric
// id already present.
func NextIDs(existing []Record, count int) []string {
	maxID := 0
	for _, r := range existing {
		if n, err := strconv.Atoi(r.ID); err == nil && n > maxID {
			maxID = n
		}
	}
	ids := make([]string, count)
	for i := range ids {
		ids[i] = strconv.Itoa(maxID + 1 + i)
	}
	return ids
}

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// ParseRows splits pasted testimonial text into raw field rows. Tabbed input
// parses as TSV; otherwise lines split on pipes or runs of two or more
// spaces.
func ParseRows(raw string) ([][]string, error) {
	var lines []string
	hasTab := false
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if strings.Contains(line, "\t") {
			hasTab = true
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	if hasTab {
		reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		reader.Comma = '\t'
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parsing tab-separated rows: %w", err)
		}
		return rows, nil
	}

	var rows [][]string
	for _, line := range lines {
		var fields []string
		if strings.Contains(line, "|") {
			fields = strings.Split(line, "|")
		} else {
			fields = multiSpaceRe.Split(line, -1)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// RecordFromRow builds a Record from one raw row laid out as
// date, name, position, title, text, rating, image. Short rows pad out with
// empty fields. The image path comes back separately for later processing.
func RecordFromRow(row []string) (Record, string, error) {
	for len(row) < 7 {
		row = append(row, "")
	}
	name := strings.TrimSpace(row[1])
	if name == "" {
		return Record{}, "", fmt.Errorf("row has no name")
	}

	rating := 5
	if n, err := strconv.Atoi(strings.TrimSpace(row[5])); err == nil {
		rating = n
	}

	rec := Record{
		Name:     name,
		Position: strings.TrimSpace(row[2]),
		Title:    strings.TrimSpace(row[3]),
		Text:     Autoparagraph(row[4]),
		Rating:   rating,
		Date:     ParseDate(row[0]),
	}
	return rec, strings.TrimSpace(row[6]), nil
}
