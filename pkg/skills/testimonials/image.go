package testimonials

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/devexpertio/skills/pkg/skills/runner"
)

// DefaultImageSize is the square side of processed testimonial images.
const DefaultImageSize = 400

// CropSquare center-crops the source image to a square and scales it to
// size x size, writing a JPEG to outputPath. Existing outputs are kept
// unless overwrite is set.
func CropSquare(ctx context.Context, sourcePath, outputPath string, size int, overwrite bool) error {
	if _, err := os.Stat(sourcePath); err != nil {
		return fmt.Errorf("image not found: %s", sourcePath)
	}
	if !overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			slog.Debug("image already exists, skipping", "path", outputPath)
			return nil
		}
	}
	if size <= 0 {
		size = DefaultImageSize
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	filter := fmt.Sprintf("crop='min(iw,ih)':'min(iw,ih)',scale=%d:%d", size, size)
	_, err := runner.Run(ctx, "ffmpeg",
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", sourcePath,
		"-vf", filter,
		"-frames:v", "1",
		"-q:v", "2",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("cropping %s: %w", sourcePath, err)
	}
	return nil
}
