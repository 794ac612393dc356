package youtube

import (
	"context"
	"fmt"
	"strings"
)

// VideoEntry is one listed upload.
type VideoEntry struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Description     string `json:"-"`
	PublishedAt     string `json:"published_at"`
	PrivacyStatus   string `json:"privacy_status"`
	DurationSeconds int    `json:"duration_seconds"`
	HasDuration     bool   `json:"-"`
	URL             string `json:"url"`
}

// ListUploads returns the channel's most recent uploads via the uploads
// playlist, newest first, optionally dropping videos shorter than
// minSeconds.
func (c *Client) ListUploads(ctx context.Context, limit, minSeconds int) ([]VideoEntry, error) {
	channels, err := c.svc.Channels.List([]string{"contentDetails"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}
	if len(channels.Items) == 0 {
		return nil, fmt.Errorf("no channel found for the authenticated user")
	}
	uploadsID := channels.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploadsID == "" {
		return nil, fmt.Errorf("could not resolve uploads playlist id")
	}

	playlist, err := c.svc.PlaylistItems.
		List([]string{"snippet", "contentDetails", "status"}).
		PlaylistId(uploadsID).
		MaxResults(int64(limit)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing uploads playlist: %w", err)
	}

	var ids []string
	for _, item := range playlist.Items {
		if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
			ids = append(ids, item.ContentDetails.VideoId)
		}
	}

	type details struct {
		title, description, published, privacy, duration string
	}
	byID := map[string]details{}
	if len(ids) > 0 {
		videos, err := c.svc.Videos.
			List([]string{"snippet", "status", "contentDetails"}).
			Id(strings.Join(ids, ",")).
			Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("fetching video details: %w", err)
		}
		for _, v := range videos.Items {
			d := details{}
			if v.Snippet != nil {
				d.title = v.Snippet.Title
				d.description = v.Snippet.Description
				d.published = v.Snippet.PublishedAt
			}
			if v.Status != nil {
				d.privacy = v.Status.PrivacyStatus
			}
			if v.ContentDetails != nil {
				d.duration = v.ContentDetails.Duration
			}
			byID[v.Id] = d
		}
	}

	var results []VideoEntry
	for _, item := range playlist.Items {
		videoID := ""
		if item.ContentDetails != nil {
			videoID = item.ContentDetails.VideoId
		}
		d := byID[videoID]

		entry := VideoEntry{
			VideoID:       videoID,
			Title:         d.title,
			Description:   d.description,
			PublishedAt:   d.published,
			PrivacyStatus: d.privacy,
		}
		if entry.Title == "" && item.Snippet != nil {
			entry.Title = item.Snippet.Title
		}
		if entry.PublishedAt == "" && item.Snippet != nil {
			entry.PublishedAt = item.Snippet.PublishedAt
		}
		if videoID != "" {
			entry.URL = WatchURL(videoID)
		}
		if secs, ok := ParseISODuration(d.duration); ok {
			entry.DurationSeconds = secs
			entry.HasDuration = true
		}

		if minSeconds > 0 && (!entry.HasDuration || entry.DurationSeconds < minSeconds) {
			continue
		}
		results = append(results, entry)
	}
	return results, nil
}

// ParseISODuration parses the PT#H#M#S subset of ISO 8601 durations the API
// emits, returning seconds.
func ParseISODuration(value string) (int, bool) {
	if !strings.HasPrefix(value, "P") {
		return 0, false
	}
	idx := strings.Index(value, "T")
	if idx < 0 {
		return 0, false
	}

	var hours, minutes, seconds, number int
	for _, ch := range value[idx+1:] {
		switch {
		case ch >= '0' && ch <= '9':
			number = number*10 + int(ch-'0')
		case ch == 'H':
			hours, number = number, 0
		case ch == 'M':
			minutes, number = number, 0
		case ch == 'S':
			seconds, number = number, 0
		default:
			return 0, false
		}
	}
	return hours*3600 + minutes*60 + seconds, true
}

// FormatDuration renders seconds as M:SS or H:MM:SS.
func FormatDuration(seconds int, known bool) string {
	if !known {
		return "n/a"
	}
	minutes := seconds / 60
	secs := seconds % 60
	hours := minutes / 60
	minutes %= 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatEntry renders one listing line in the text report.
func FormatEntry(idx int, e VideoEntry) string {
	return fmt.Sprintf("%2d. %s | %-9s | %-7s | %s\n    %s",
		idx, e.PublishedAt, e.PrivacyStatus,
		FormatDuration(e.DurationSeconds, e.HasDuration), e.Title, e.URL)
}
