package youtube

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/devexpertio/skills/pkg/skills/googleauth"
	"github.com/devexpertio/skills/pkg/skills/paths"
)

const uploadChunkSize = 8 * 1024 * 1024

// Client wraps the YouTube Data service.
type Client struct {
	svc      *yt.Service
	progress io.Writer
}

// DefaultCredentials points at the youtube-publish secret and token files.
func DefaultCredentials() googleauth.Credentials {
	return googleauth.Credentials{
		ClientSecretPath: paths.YouTubeClientSecretPath(),
		TokenPath:        paths.YouTubeTokenPath(),
		Scopes:           Scopes,
	}
}

// NewClient builds a service from the stored token. Upload progress lines go
// to progress when non-nil.
func NewClient(ctx context.Context, creds googleauth.Credentials, progress io.Writer) (*Client, error) {
	ts, err := creds.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := yt.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &Client{svc: svc, progress: progress}, nil
}

// Upload inserts a new video with a resumable upload and optionally sets its
// thumbnail. Returns the new video ID.
func (c *Client) Upload(ctx context.Context, videoPath string, video *yt.Video, thumbnailPath string, notifySubscribers bool) (string, error) {
	f, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("opening video: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	call := c.svc.Videos.Insert([]string{"snippet", "status"}, video).
		NotifySubscribers(notifySubscribers).
		Media(f, googleapi.ChunkSize(uploadChunkSize)).
		Context(ctx)
	if c.progress != nil {
		total := info.Size()
		call = call.ProgressUpdater(func(current, _ int64) {
			if total > 0 {
				fmt.Fprintf(c.progress, "Upload %d%%\n", current*100/total)
			}
		})
	}

	resp, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("uploading video: %w", err)
	}
	if resp.Id == "" {
		return "", fmt.Errorf("upload failed: missing video id")
	}

	if thumbnailPath != "" {
		if err := c.SetThumbnail(ctx, resp.Id, thumbnailPath); err != nil {
			return resp.Id, err
		}
	}
	return resp.Id, nil
}

// Update rewrites a video's snippet and status.
func (c *Client) Update(ctx context.Context, video *yt.Video) error {
	if video.Id == "" {
		return fmt.Errorf("update requires a video id")
	}
	_, err := c.svc.Videos.Update([]string{"snippet", "status"}, video).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating video %s: %w", video.Id, err)
	}
	return nil
}

// SetThumbnail uploads a custom thumbnail for a video.
func (c *Client) SetThumbnail(ctx context.Context, videoID, thumbnailPath string) error {
	f, err := os.Open(thumbnailPath)
	if err != nil {
		return fmt.Errorf("opening thumbnail: %w", err)
	}
	defer f.Close()

	_, err = c.svc.Thumbnails.Set(videoID).Media(f).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("setting thumbnail for %s: %w", videoID, err)
	}
	return nil
}

// WatchURL builds the public watch link for a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
