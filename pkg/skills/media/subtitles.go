package media

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Cue layout limits for burned-in shorts.
const (
	MaxCharsPerLine = 18
	MaxLines        = 2
	MaxWordsPerCue  = 3
	KaraokeLineLen  = 32
)

// Word is a single transcribed word with its timing in seconds.
type Word struct {
	Word  string
	Start float64
	End   float64
}

// Segment is one subtitle cue.
type Segment struct {
	Start float64
	End   float64
	Text  string
	Words []Word
}

// Sanitize strips the music note whisper emits on hums and trims the result.
func Sanitize(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "♪", ""))
}

// SplitSegments breaks long cues apart so at most maxWords words show at
// once. Segments without word timing pass through unchanged.
func SplitSegments(segments []Segment, maxWords int) []Segment {
	if maxWords <= 0 {
		maxWords = MaxWordsPerCue
	}
	var out []Segment
	for _, seg := range segments {
		if len(seg.Words) <= maxWords {
			out = append(out, seg)
			continue
		}
		for i := 0; i < len(seg.Words); i += maxWords {
			chunk := seg.Words[i:min(i+maxWords, len(seg.Words))]
			var words []string
			for _, w := range chunk {
				if clean := Sanitize(w.Word); clean != "" {
					words = append(words, clean)
				}
			}
			out = append(out, Segment{
				Start: chunk[0].Start,
				End:   chunk[len(chunk)-1].End,
				Text:  strings.Join(words, " "),
				Words: chunk,
			})
		}
	}
	return out
}

/// FormatSRTTime renders seconds as HH:MM:SS,mmm, carrying millisecond
// rounding overflow upward (59.9995 becomes the next full second).
func FormatSRTTime(ts float64) string {
	totalMillis := int(math.Round(ts * 1000))
	whole := totalMillis / 1000
	millis := totalMillis % 1000
	hours := whole / 3600
	minutes := whole % 3600 / 60
	seconds := whole % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// WrapText reflows a cue to at most maxLines lines of maxChars characters,
// merging any overflow into the last line.
func WrapText(text string, maxChars, maxLines int) string {
	words := strings.Fields(text)
	var lines []string
	current := ""
	for _, w := range words {
		candidate := strings.TrimSpace(current + " " + w)
		if utf8.RuneCountInString(candidate) <= maxChars {
			current = candidate
		} else {
			if current != "" {
				lines = append(lines, current)
			}
			current = w
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) > maxLines {
		merged := strings.Join(lines[maxLines-1:], " ")
		lines = append(lines[:maxLines-1], merged)
	}
	return strings.Join(lines, "\n")
}

// FormatSRT renders the segments as an SRT document.
func FormatSRT(segments []Segment) string {
	var sb strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", FormatSRTTime(seg.Start), FormatSRTTime(seg.End))
		sb.WriteString(WrapText(seg.Text, MaxCharsPerLine, MaxLines))
		sb.WriteString("\n\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// PlainTranscript joins the sanitized segment texts into one line.
func PlainTranscript(segments []Segment) string {
	var parts []string
	for _, seg := range segments {
		if clean := Sanitize(seg.Text); clean != "" {
			parts = append(parts, clean)
		}
	}
	return strings.Join(parts, " ")
}

var captionSentenceRe = regexp.MustCompile(`(?s)([.!?])\s+`)

// MakeCaption builds a social caption from the transcript: the first two
// sentences, trimmed to maxChars with an ellipsis.
func MakeCaption(fullText string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = 240
	}
	trimmed := strings.TrimSpace(fullText)
	split := captionSentenceRe.ReplaceAllString(trimmed, "$1\x00")
	sentences := strings.SplitN(split, "\x00", 3)
	n := min(len(sentences), 2)
	caption := strings.TrimSpace(strings.Join(sentences[:n], " "))
	if caption == "" {
		caption = trimmed
	}
	if runes := []rune(caption); len(runes) > maxChars {
		caption = strings.TrimRight(string(runes[:maxChars-1]), " ") + "…"
	}
	return caption
}

// assHeader is the fixed style block for burned karaoke subtitles at
// 1920x1080.
const assHeader = `[Script Info]
ScriptType: v4.00+
WrapStyle: 2
PlayResX: 1920
PlayResY: 1080
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,54,&H00FFFFFF,&H0078AAFF,&H00000000,&H64000000,-1,0,0,0,100,100,0,0,1,4,1,2,90,90,220,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`

/// FormatASSTime renders seconds as H:MM:SS.cc with centisecond carry.
func FormatASSTime(ts float64) string {
	totalCentis := int(math.Round(ts * 100))
	whole := totalCentis / 100
	centis := totalCentis % 100
	hours := whole / 3600
	minutes := whole % 3600 / 60
	seconds := whole % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

// karaokeText renders per-word highlight tags, wrapping at the karaoke line
// length with \N between lines.
func karaokeText(words []Word, maxChars, maxLines int) string {
	lines := [][]Word{nil}
	currentLen := 0
	for _, w := range words {
		clean := Sanitize(w.Word)
		if clean == "" {
			continue
		}
		tokenLen := utf8.RuneCountInString(clean) + 1
		if currentLen+tokenLen > maxChars && len(lines) < maxLines {
			lines = append(lines, nil)
			currentLen = 0
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], w)
		currentLen += tokenLen
	}

	var parts []string
	for i, lineWords := range lines {
		if i > 0 && len(lineWords) > 0 {
			parts = append(parts, `\N`)
		}
		for _, w := range lineWords {
			durationCS := int(math.Round((w.End - w.Start) * 100))
			if durationCS < 1 {
				durationCS = 1
			}
			parts = append(parts, fmt.Sprintf(`{\k%d}%s`, durationCS, Sanitize(w.Word)))
		}
	}
	return strings.Join(parts, " ")
}

// FormatASS renders the segments as a karaoke ASS document. Segments
// without word timing fall back to wrapped plain text.
func FormatASS(segments []Segment) string {
	var sb strings.Builder
	sb.WriteString(assHeader)
	sb.WriteString("\n")
	for _, seg := range segments {
		text := ""
		if len(seg.Words) > 0 {
			text = karaokeText(seg.Words, KaraokeLineLen, MaxLines)
		} else {
			text = strings.ReplaceAll(WrapText(seg.Text, KaraokeLineLen, MaxLines), "\n", `\N`)
		}
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			FormatASSTime(seg.Start), FormatASSTime(seg.End), text)
	}
	return sb.String()
}
