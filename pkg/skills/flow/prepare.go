// Package flow drives the end-to-end YouTube prep workflow: build a
// working directory from the raw recordings, upload a private draft,
// transcribe, generate a content pack, and after manual review publish the
// video and schedule socials and newsletter.
package flow

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devexpertio/skills/pkg/skills/ideas"
	"github.com/devexpertio/skills/pkg/skills/runner"
)

// Prepared describes the workdir produced from the input recordings.
type Prepared struct {
	Workdir   string
	VideoPath string
	Slug      string
}

// Prepare moves the recordings into <workdir>/inputs and produces a single
// <slug>.mp4: a rename for one input, a stream-copy concat for several.
// An empty workdir defaults to `<yyyy-mm-dd_hhmm>_<slug>` next to the first
// video.
func Prepare(ctx context.Context, videos []string, titleHint, workdir string) (*Prepared, error) {
	if len(videos) == 0 {
		return nil, fmt.Errorf("no input videos")
	}
	for _, v := range videos {
		if _, err := os.Stat(v); err != nil {
			return nil, fmt.Errorf("missing video: %s", v)
		}
	}

	hint := titleHint
	if hint == "" {
		hint = strings.TrimSuffix(filepath.Base(videos[0]), filepath.Ext(videos[0]))
	}
	slug := ideas.SafeSlug(hint)

	if workdir == "" {
		stamp := time.Now().Format("2006-01-02_1504")
		workdir = filepath.Join(filepath.Dir(videos[0]), stamp+"_"+slug)
	}
	inputsDir := filepath.Join(workdir, "inputs")
	if err := os.MkdirAll(inputsDir, 0o755); err != nil {
		return nil, err
	}

	var moved []string
	for _, v := range videos {
		dst := filepath.Join(inputsDir, filepath.Base(v))
		if err := moveFile(v, dst); err != nil {
			return nil, fmt.Errorf("moving %s: %w", v, err)
		}
		moved = append(moved, dst)
	}

	videoOut := filepath.Join(workdir, slug+".mp4")
	if len(moved) == 1 {
		if err := moveFile(moved[0], videoOut); err != nil {
			return nil, fmt.Errorf("renaming %s: %w", moved[0], err)
		}
	} else if err := concatVideos(ctx, moved, videoOut); err != nil {
		return nil, err
	}

	return &Prepared{Workdir: workdir, VideoPath: videoOut, Slug: slug}, nil
}

// moveFile renames, falling back to copy and delete when the destination
// sits on another filesystem.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// concatVideos joins the inputs without re-encoding via the ffmpeg concat
// demuxer.
func concatVideos(ctx context.Context, videos []string, outPath string) error {
	listPath := filepath.Join(filepath.Dir(outPath), "concat_list.txt")
	var sb strings.Builder
	for _, v := range videos {
		fmt.Fprintf(&sb, "file '%s'\n", filepath.ToSlash(v))
	}
	if err := os.WriteFile(listPath, []byte(sb.String()), 0o644); err != nil {
		return err
	}
	_, err := runner.Run(ctx, "ffmpeg",
		"-y", "-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	)
	if err != nil {
		return fmt.Errorf("concatenating videos: %w", err)
	}
	return nil
}
