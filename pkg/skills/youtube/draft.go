package youtube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadDraft uploads a video privately with a placeholder title so metadata
// can be filled in later. The video ID lands in outputIDPath and the watch
// URL next to it in video_url.txt.
func (c *Client) UploadDraft(ctx context.Context, videoPath, outputIDPath string) (string, error) {
	dir := filepath.Dir(outputIDPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	descPath := filepath.Join(dir, "description.draft.txt")
	if err := os.WriteFile(descPath, []byte("Draft upload. Metadata will be updated."), 0o644); err != nil {
		return "", err
	}

	opts := PublishOptions{
		Title:           "Draft " + time.Now().Format("2006-01-02 15:04"),
		DescriptionFile: descPath,
		PrivacyStatus:   "private",
	}
	video, _, err := opts.BuildVideo()
	if err != nil {
		return "", err
	}

	videoID, err := c.Upload(ctx, videoPath, video, "", false)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(outputIDPath, []byte(videoID), 0o644); err != nil {
		return videoID, fmt.Errorf("writing video id: %w", err)
	}
	urlPath := filepath.Join(dir, "video_url.txt")
	if err := os.WriteFile(urlPath, []byte(WatchURL(videoID)), 0o644); err != nil {
		return videoID, fmt.Errorf("writing video url: %w", err)
	}
	return videoID, nil
}

// ReadVideoID reads a stored video ID file.
func ReadVideoID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", fmt.Errorf("empty video id in %s", path)
	}
	return id, nil
}
