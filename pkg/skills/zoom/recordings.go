package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// RecordingFile is one file inside a recorded meeting.
type RecordingFile struct {
	ID          string `json:"id"`
	FileType    string `json:"file_type"`
	DownloadURL string `json:"download_url"`
	FileSize    int64  `json:"file_size"`
}

// RecordedMeeting is one meeting with its recording files.
type RecordedMeeting struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	Topic          string          `json:"topic"`
	StartTime      string          `json:"start_time"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// RecordingsList is the aggregated listing output.
type RecordingsList struct {
	From         string            `json:"from"`
	To           string            `json:"to"`
	TotalRecords int               `json:"total_records"`
	Meetings     []RecordedMeeting `json:"meetings"`
}

// RecordingsOptions controls the recordings listing.
type RecordingsOptions struct {
	From     string
	To       string
	User     string
	PageSize int
}

// dateRange is one API-sized window of the requested span.
type dateRange struct {
	From string
	To   string
}

// iterRanges splits an inclusive date span into windows of at most maxDays,
// which the recordings endpoint requires.
func iterRanges(from, to string, maxDays int) ([]dateRange, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", to, err)
	}

	var ranges []dateRange
	for cur := start; !cur.After(end); {
		chunkEnd := cur.AddDate(0, 0, maxDays-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		ranges = append(ranges, dateRange{
			From: cur.Format("2006-01-02"),
			To:   chunkEnd.Format("2006-01-02"),
		})
		cur = chunkEnd.AddDate(0, 0, 1)
	}
	return ranges, nil
}

// ListRecordings walks the account's (or one user's) cloud recordings over
// the requested span, chunking long spans into 30-day windows and deduping
// meetings by uuid.
func (c *Client) ListRecordings(ctx context.Context, opts RecordingsOptions) (*RecordingsList, error) {
	if opts.From == "" || opts.To == "" {
		return nil, fmt.Errorf("recordings listing requires from and to dates (YYYY-MM-DD)")
	}
	path := "/accounts/" + url.PathEscape(c.accountID) + "/recordings"
	if opts.User != "" {
		path = "/users/" + url.PathEscape(opts.User) + "/recordings"
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 300
	}

	ranges, err := iterRanges(opts.From, opts.To, 30)
	if err != nil {
		return nil, err
	}

	var all []RecordedMeeting
	for _, window := range ranges {
		params := url.Values{
			"from":      {window.From},
			"to":        {window.To},
			"page_size": {strconv.Itoa(pageSize)},
		}
		for {
			var page struct {
				Meetings      []RecordedMeeting `json:"meetings"`
				NextPageToken string            `json:"next_page_token"`
			}
			if err := c.api(ctx, http.MethodGet, path, params, &page); err != nil {
				return nil, err
			}
			all = append(all, page.Meetings...)
			if page.NextPageToken == "" {
				break
			}
			params.Set("next_page_token", page.NextPageToken)
		}
	}

	deduped := dedupeByUUID(all)
	return &RecordingsList{
		From:         opts.From,
		To:           opts.To,
		TotalRecords: len(deduped),
		Meetings:     deduped,
	}, nil
}

func dedupeByUUID(meetings []RecordedMeeting) []RecordedMeeting {
	seen := map[string]int{}
	var out []RecordedMeeting
	for _, m := range meetings {
		if idx, ok := seen[m.UUID]; ok {
			out[idx] = m
			continue
		}
		seen[m.UUID] = len(out)
		out = append(out, m)
	}
	return out
}

// Download fetches a recording file, appending the access token to the URL
// when it is not already present.
func (c *Client) Download(ctx context.Context, downloadURL, outPath string) error {
	if err := c.ensureToken(ctx); err != nil {
		return err
	}

	u := downloadURL
	if !strings.Contains(u, "access_token=") {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + "access_token=" + url.QueryEscape(c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading recording: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("downloading recording: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// DeleteAction selects trash (recoverable) or permanent deletion.
type DeleteAction string

const (
	ActionTrash  DeleteAction = "trash"
	ActionDelete DeleteAction = "delete"
)

// DeleteRecordings trashes or deletes a meeting's recordings, or a single
// recording file when recordingID is set.
func (c *Client) DeleteRecordings(ctx context.Context, meetingID, recordingID string, action DeleteAction) error {
	path := "/meetings/" + url.PathEscape(meetingID) + "/recordings"
	if recordingID != "" {
		path += "/" + url.PathEscape(recordingID)
	}
	return c.api(ctx, http.MethodDelete, path, url.Values{"action": {string(action)}}, nil)
}

// DefaultTopicMatch is the pipe-separated topic filter for the bulk MP4
// download.
const DefaultTopicMatch = "DIRECTO LUNES|Q&A JUEVES"

// MatchTopic reports whether any pipe-separated pattern is a substring of
// the text.
func MatchTopic(text, pattern string) bool {
	for _, p := range strings.Split(pattern, "|") {
		p = strings.TrimSpace(p)
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// SanitizeFilename strips accents, replaces path separators, collapses
// whitespace, and masks anything not filename-safe.
func SanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)
	var ascii strings.Builder
	for _, r := range decomposed {
		if r < 128 {
			ascii.WriteRune(r)
		}
	}

	s := strings.NewReplacer("/", "-", ":", "-").Replace(ascii.String())
	s = strings.Join(strings.Fields(s), " ")

	var out strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out.WriteRune(r)
		case strings.ContainsRune(" -_.()", r):
			out.WriteRune(r)
		default:
			out.WriteRune('_')
		}
	}
	return strings.TrimSpace(out.String())
}

// DownloadMP4Options controls the bulk matched download.
type DownloadMP4Options struct {
	RecordingsOptions
	Match  string
	OutDir string
}

// DownloadResult names one downloaded file.
type DownloadResult struct {
	Meeting string
	Path    string
}

// DownloadMatchedMP4s lists recordings in the span, keeps meetings whose
// topic matches, and downloads each MP4 file as
// "<sanitized topic> - <date>.mp4" under OutDir.
func (c *Client) DownloadMatchedMP4s(ctx context.Context, opts DownloadMP4Options) ([]DownloadResult, error) {
	if opts.OutDir == "" {
		return nil, fmt.Errorf("download-mp4 requires an output directory")
	}
	match := opts.Match
	if match == "" {
		match = DefaultTopicMatch
	}

	listing, err := c.ListRecordings(ctx, opts.RecordingsOptions)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, err
	}

	var results []DownloadResult
	for _, m := range listing.Meetings {
		if m.Topic == "" || !MatchTopic(m.Topic, match) {
			continue
		}
		datePart := "unknown-date"
		if len(m.StartTime) >= 10 {
			datePart = m.StartTime[:10]
		}
		base := SanitizeFilename(m.Topic + " - " + datePart)

		for _, f := range m.RecordingFiles {
			if f.FileType != "MP4" || f.DownloadURL == "" {
				continue
			}
			outPath := filepath.Join(opts.OutDir, base+".mp4")
			if err := c.Download(ctx, f.DownloadURL, outPath); err != nil {
				return results, err
			}
			results = append(results, DownloadResult{Meeting: m.Topic, Path: outPath})
		}
	}
	return results, nil
}

// MarshalListing renders the listing as the JSON report.
func MarshalListing(l *RecordingsList) (string, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
