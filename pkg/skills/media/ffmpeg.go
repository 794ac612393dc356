// Package media implements the short-video pipeline: audio extraction and
// leveling, whisper transcription, subtitle generation (SRT and karaoke
// ASS), and burning the subtitles back into an MP4.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/devexpertio/skills/pkg/skills/runner"
)

// Audio leveling targets.
const (
	TargetPeakDB = -1.0
	GainClampDB  = 6.0
	GainDeadband = 0.3
)

// ExtractWAV pulls the audio track as mono 48 kHz signed 16-bit WAV.
func ExtractWAV(ctx context.Context, inputPath, wavPath string) error {
	_, err := runner.Run(ctx, "ffmpeg",
		"-y", "-i", inputPath,
		"-vn", "-ac", "1", "-ar", "48000", "-sample_fmt", "s16",
		wavPath,
	)
	if err != nil {
		return fmt.Errorf("extracting audio: %w", err)
	}
	return nil
}

// VolumeStats holds the volumedetect measurement in dBFS. Mean is NaN-free:
// HasMean reports whether it was present.
type VolumeStats struct {
	Mean    float64
	HasMean bool
	Max     float64
}

var (
	meanVolumeRe = regexp.MustCompile(`mean_volume:\s*(-?\d+(?:\.\d+)?)\s*dB`)
	maxVolumeRe  = regexp.MustCompile(`max_volume:\s*(-?\d+(?:\.\d+)?)\s*dB`)
	silenceEndRe = regexp.MustCompile(`silence_end:\s*([0-9.]+)`)
)

// AnalyzeVolume measures mean and peak volume via the volumedetect filter.
// The report lands on stderr even on success, so the combined output gets
// parsed.
func AnalyzeVolume(ctx context.Context, wavPath string) (VolumeStats, error) {
	out, err := runner.RunCombined(ctx, "ffmpeg",
		"-i", wavPath, "-af", "volumedetect", "-f", "null", "-",
	)
	if err != nil {
		return VolumeStats{}, fmt.Errorf("measuring volume: %w", err)
	}
	maxMatch := maxVolumeRe.FindStringSubmatch(out)
	if maxMatch == nil {
		return VolumeStats{}, fmt.Errorf("no max_volume in volumedetect output")
	}
	stats := VolumeStats{}
	stats.Max, _ = strconv.ParseFloat(maxMatch[1], 64)
	if m := meanVolumeRe.FindStringSubmatch(out); m != nil {
		stats.Mean, _ = strconv.ParseFloat(m[1], 64)
		stats.HasMean = true
	}
	return stats, nil
}

// DetectLeadingSilence returns the time where the first leading silence
// ends, or 0 when none is detected.
func DetectLeadingSilence(ctx context.Context, wavPath string, thresholdDB, minSilence float64) (float64, error) {
	out, err := runner.RunCombined(ctx, "ffmpeg",
		"-i", wavPath,
		"-af", fmt.Sprintf("silencedetect=n=%gdB:d=%g", thresholdDB, minSilence),
		"-f", "null", "-",
	)
	if err != nil {
		return 0, fmt.Errorf("detecting silence: %w", err)
	}
	if m := silenceEndRe.FindStringSubmatch(out); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, nil
		}
	}
	return 0, nil
}

// ComputeGainToPeak returns the gain that brings the measured peak to the
// target, clamped and with a deadband so tiny corrections are skipped.
func ComputeGainToPeak(currentPeakDB float64) float64 {
	gain := TargetPeakDB - currentPeakDB
	if gain < GainDeadband && gain > -GainDeadband {
		return 0
	}
	if gain > GainClampDB {
		return GainClampDB
	}
	if gain < -GainClampDB {
		return -GainClampDB
	}
	return gain
}

// ApplyGain applies a flat gain with a soft limiter. Near-zero gain copies
// the file untouched.
func ApplyGain(ctx context.Context, wavIn, wavOut string, gainDB float64) error {
	if gainDB < 0.01 && gainDB > -0.01 {
		return copyFile(wavIn, wavOut)
	}
	_, err := runner.Run(ctx, "ffmpeg",
		"-y", "-i", wavIn,
		"-af", fmt.Sprintf("volume=%.2fdB,alimiter=limit=0.97", gainDB),
		"-ar", "48000",
		wavOut,
	)
	if err != nil {
		return fmt.Errorf("applying gain: %w", err)
	}
	return nil
}

// Resample converts a WAV to the given sample rate.
func Resample(ctx context.Context, wavIn, wavOut string, sampleRate int) error {
	_, err := runner.Run(ctx, "ffmpeg",
		"-y", "-i", wavIn, "-ar", strconv.Itoa(sampleRate), wavOut,
	)
	if err != nil {
		return fmt.Errorf("resampling: %w", err)
	}
	return nil
}

// BurnOptions configures the subtitle burn-in encode.
type BurnOptions struct {
	// Karaoke selects the ass= filter instead of subtitles=.
	Karaoke bool
	CRF     int
	// EnhancedAudio replaces the original track when set.
	EnhancedAudio string
	// StartOffset trims the head through the filter graph, avoiding the
	// black frame a fast seek leaves behind.
	StartOffset float64
}

// BurnSubs re-encodes the video with subtitles rendered into the frames.
func BurnSubs(ctx context.Context, inputPath, subsPath, outputPath string, opts BurnOptions) error {
	baseFilter := "subtitles=" + subsPath
	if opts.Karaoke {
		baseFilter = "ass=" + subsPath
	}
	filter := baseFilter
	if opts.StartOffset > 0 {
		filter = fmt.Sprintf("trim=start=%.3f,setpts=PTS-STARTPTS,%s", opts.StartOffset, baseFilter)
	}
	crf := opts.CRF
	if crf <= 0 {
		crf = 20
	}

	args := []string{"-y", "-i", inputPath}
	if opts.EnhancedAudio != "" {
		args = append(args, "-i", opts.EnhancedAudio)
	}
	args = append(args,
		"-vf", filter,
		"-c:v", "libx264", "-crf", strconv.Itoa(crf), "-preset", "veryfast",
	)
	if opts.EnhancedAudio != "" {
		args = append(args,
			"-map", "0:v:0", "-map", "1:a:0",
			"-c:a", "aac", "-b:a", "192k",
			"-af", "asetpts=PTS-STARTPTS",
		)
	} else {
		args = append(args, "-c:a", "copy")
	}
	args = append(args, outputPath)

	if _, err := runner.Run(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("burning subtitles: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return nil
}
