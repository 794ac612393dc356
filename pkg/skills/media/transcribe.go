package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devexpertio/skills/pkg/skills/runner"
)

// Whisper defaults matching the shorts pipeline.
const (
	DefaultWhisperModel = "small"
	DefaultLanguage     = "es"
	WhisperModelEnv     = "WHISPER_MODEL_PATH"
)

// TranscribeOptions configures a whisper-cli run.
type TranscribeOptions struct {
	// ModelPath points at the ggml model file. Empty falls back to
	// WHISPER_MODEL_PATH, then ~/.cache/whisper/ggml-small.bin.
	ModelPath string
	Language  string
	// WordTimestamps requests per-token timing for karaoke rendering.
	WordTimestamps bool
}

func (o *TranscribeOptions) applyDefaults() {
	if o.ModelPath == "" {
		o.ModelPath = os.Getenv(WhisperModelEnv)
	}
	if o.ModelPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			o.ModelPath = filepath.Join(home, ".cache", "whisper", "ggml-"+DefaultWhisperModel+".bin")
		}
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
}

// whisperOutput mirrors the JSON whisper-cli writes with -oj. Offsets are
// milliseconds from the start of the audio.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text   string `json:"text"`
		Tokens []struct {
			Text    string `json:"text"`
			Offsets struct {
				From int64 `json:"from"`
				To   int64 `json:"to"`
			} `json:"offsets"`
		} `json:"tokens"`
	} `json:"transcription"`
}

// Transcribe runs whisper-cli on a 16 kHz WAV and returns the parsed
// segments.
func Transcribe(ctx context.Context, wavPath string, opts TranscribeOptions) ([]Segment, error) {
	opts.applyDefaults()
	outBase := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))

	args := []string{
		"-m", opts.ModelPath,
		"-l", opts.Language,
		"-f", wavPath,
		"-oj",
		"-of", outBase,
	}
	if opts.WordTimestamps {
		args = append(args, "-ojf")
	}
	if _, err := runner.Run(ctx, "whisper-cli", args...); err != nil {
		return nil, err
	}

	jsonPath := outBase + ".json"
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("reading whisper output: %w", err)
	}
	defer os.Remove(jsonPath)

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing whisper output: %w", err)
	}
	return segmentsFromWhisper(out), nil
}

// segmentsFromWhisper converts millisecond offsets to seconds and folds
// tokens into words, skipping whisper's bracketed markers like [_BEG_].
func segmentsFromWhisper(out whisperOutput) []Segment {
	var segments []Segment
	for _, t := range out.Transcription {
		seg := Segment{
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
			Text:  strings.TrimSpace(t.Text),
		}
		for _, tok := range t.Tokens {
			word := strings.TrimSpace(tok.Text)
			if word == "" || strings.HasPrefix(word, "[_") {
				continue
			}
			seg.Words = append(seg.Words, Word{
				Word:  word,
				Start: float64(tok.Offsets.From) / 1000,
				End:   float64(tok.Offsets.To) / 1000,
			})
		}
		if seg.Text == "" && len(seg.Words) == 0 {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}
