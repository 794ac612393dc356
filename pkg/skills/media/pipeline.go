package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PipelineOptions tune the burn pipeline. Zero values match the shorts
// workflow.
type PipelineOptions struct {
	Model       string
	Language    string
	Karaoke     bool
	AutoGain    bool
	TrimSilence bool
	CRF         int
	CaptionLen  int
}

// DefaultPipelineOptions returns the settings the shorts workflow uses.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Language:   DefaultLanguage,
		Karaoke:    true,
		AutoGain:   true,
		CRF:        20,
		CaptionLen: 240,
	}
}

// PipelineResult lists the files the pipeline produced next to the input.
type PipelineResult struct {
	SRTPath     string
	ASSPath     string
	TxtPath     string
	CaptionPath string
	BurnedPath  string
}

// Burn runs the full shorts pipeline on a video: extract and level the
// audio, transcribe, write SRT/ASS/transcript/caption, and encode a copy
// with the subtitles burned in.
func Burn(ctx context.Context, inputPath string, opts PipelineOptions) (*PipelineResult, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return nil, fmt.Errorf("input not found: %s", inputPath)
	}
	outDir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	tmpDir, err := os.MkdirTemp("", "short-"+uuid.NewString()[:8])
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	rawWAV := filepath.Join(tmpDir, "audio_raw.wav")
	normWAV := filepath.Join(tmpDir, "audio_norm.wav")
	wav16k := filepath.Join(tmpDir, "audio_16k.wav")

	slog.Info("extracting audio", "input", inputPath)
	if err := ExtractWAV(ctx, inputPath, rawWAV); err != nil {
		return nil, err
	}

	gain := 0.0
	if opts.AutoGain {
		stats, err := AnalyzeVolume(ctx, rawWAV)
		if err != nil {
			slog.Warn("could not measure volume, keeping 0 dB", "error", err)
		} else {
			gain = ComputeGainToPeak(stats.Max)
			slog.Info("auto gain", "peak_db", stats.Max, "gain_db", gain)
		}
	}
	if err := ApplyGain(ctx, rawWAV, normWAV, gain); err != nil {
		return nil, err
	}
	if err := Resample(ctx, normWAV, wav16k, 16000); err != nil {
		return nil, err
	}

	slog.Info("transcribing", "language", opts.Language)
	segments, err := Transcribe(ctx, wav16k, TranscribeOptions{
		ModelPath:      opts.Model,
		Language:       opts.Language,
		WordTimestamps: opts.Karaoke,
	})
	if err != nil {
		return nil, err
	}
	segments = SplitSegments(segments, MaxWordsPerCue)
	if len(segments) == 0 {
		return nil, fmt.Errorf("transcription produced no segments")
	}

	result := &PipelineResult{
		SRTPath:     filepath.Join(outDir, base+".srt"),
		TxtPath:     filepath.Join(outDir, base+".txt"),
		CaptionPath: filepath.Join(outDir, base+"_caption.txt"),
		BurnedPath:  filepath.Join(outDir, base+"_subtitled.mp4"),
	}
	if err := os.WriteFile(result.SRTPath, []byte(FormatSRT(segments)), 0o644); err != nil {
		return nil, err
	}
	transcript := PlainTranscript(segments)
	if err := os.WriteFile(result.TxtPath, []byte(transcript), 0o644); err != nil {
		return nil, err
	}
	caption := MakeCaption(transcript, opts.CaptionLen)
	if err := os.WriteFile(result.CaptionPath, []byte(caption), 0o644); err != nil {
		return nil, err
	}

	subsPath := result.SRTPath
	if opts.Karaoke {
		result.ASSPath = filepath.Join(outDir, base+".ass")
		if err := os.WriteFile(result.ASSPath, []byte(FormatASS(segments)), 0o644); err != nil {
			return nil, err
		}
		subsPath = result.ASSPath
	}

	startOffset := 0.0
	if opts.TrimSilence {
		startOffset, err = DetectLeadingSilence(ctx, rawWAV, -35, 0.3)
		if err != nil {
			slog.Warn("silence detection failed, keeping full length", "error", err)
			startOffset = 0
		} else if startOffset > 0 {
			slog.Info("trimming leading silence", "seconds", startOffset)
		}
	}

	// The leveled track replaces the original audio in the burned copy;
	// the WAV itself is scratch and stays in the temp dir.
	slog.Info("burning subtitles", "output", result.BurnedPath)
	err = BurnSubs(ctx, inputPath, subsPath, result.BurnedPath, BurnOptions{
		Karaoke:       opts.Karaoke,
		CRF:           opts.CRF,
		EnhancedAudio: normWAV,
		StartOffset:   startOffset,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TranscribeCleanSRT transcribes a full-length video and writes the
// brand-cleaned SRT the youtube flow feeds to the content generator.
func TranscribeCleanSRT(ctx context.Context, videoPath, outDir string, opts TranscribeOptions) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	tmpDir, err := os.MkdirTemp("", "transcribe-"+uuid.NewString()[:8])
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	wavPath := filepath.Join(tmpDir, "audio.wav")
	if err := ExtractWAV(ctx, videoPath, wavPath); err != nil {
		return "", err
	}
	wav16k := filepath.Join(tmpDir, "audio_16k.wav")
	if err := Resample(ctx, wavPath, wav16k, 16000); err != nil {
		return "", err
	}

	segments, err := Transcribe(ctx, wav16k, opts)
	if err != nil {
		return "", err
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("transcription produced no segments")
	}

	cleaned := CleanTranscript(FormatSRT(segments))
	outPath := filepath.Join(outDir, "transcript.es.cleaned.srt")
	if err := os.WriteFile(outPath, []byte(cleaned), 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}
