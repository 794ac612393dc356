package youtube

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	yt "google.golang.org/api/youtube/v3"
)

// PublishOptions collects flags and config for an upload or metadata update.
type PublishOptions struct {
	Title           string
	Description     string
	DescriptionFile string
	Tags            []string
	CategoryID      string
	PrivacyStatus   string
	PublishAt       string
	Timezone        string
	Config          Config
}

// DefaultCategoryID is Education.
const DefaultCategoryID = "27"

// ResolveDescription returns the description text, preferring the file.
func (o PublishOptions) ResolveDescription() (string, error) {
	if o.DescriptionFile != "" {
		data, err := os.ReadFile(o.DescriptionFile)
		if err != nil {
			return "", fmt.Errorf("reading description file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if o.Description == "" {
		return "", fmt.Errorf("description is required")
	}
	return o.Description, nil
}

// BuildVideo assembles the API body from flags and config defaults. A
// schedule time forces private visibility until YouTube publishes it.
func (o PublishOptions) BuildVideo() (*yt.Video, string, error) {
	description, err := o.ResolveDescription()
	if err != nil {
		return nil, "", err
	}
	if o.Title == "" {
		return nil, "", fmt.Errorf("title is required")
	}

	tags := o.Tags
	if len(tags) == 0 {
		tags = o.Config.Tags
	}

	publishAt := ""
	if o.PublishAt != "" {
		tz := o.Timezone
		if tz == "" {
			tz = o.Config.Timezone
		}
		if tz == "" {
			tz = DetectTimezone()
		}
		if tz == "" {
			return nil, "", fmt.Errorf("timezone is required for publish-at")
		}
		publishAt, err = ParsePublishAt(o.PublishAt, tz)
		if err != nil {
			return nil, "", err
		}
	}

	privacy := o.PrivacyStatus
	if privacy == "" {
		privacy = o.Config.PrivacyStatus
	}
	if privacy == "" {
		privacy = "private"
	}
	if publishAt != "" {
		privacy = "private"
	}

	category := o.CategoryID
	if category == "" {
		category = o.Config.CategoryID
	}
	if category == "" {
		category = DefaultCategoryID
	}

	video := &yt.Video{
		Snippet: &yt.VideoSnippet{
			Title:                o.Title,
			Description:          description,
			Tags:                 tags,
			CategoryId:           category,
			DefaultLanguage:      o.Config.DefaultLanguage,
			DefaultAudioLanguage: o.Config.DefaultAudioLanguage,
		},
		Status: &yt.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: o.Config.MadeForKids,
			PublishAt:               publishAt,
		},
	}
	video.Status.ForceSendFields = append(video.Status.ForceSendFields, "SelfDeclaredMadeForKids")
	return video, publishAt, nil
}

// publishAtLayouts accepts "YYYY-MM-DD HH:MM" with optional seconds or a T
// separator.
var publishAtLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParsePublishAtTime interprets a local wall-clock time in the named zone.
func ParsePublishAtTime(value, tzName string) (time.Time, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown timezone %q: %w", tzName, err)
	}
	for _, layout := range publishAtLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("publish-at must be ISO format: YYYY-MM-DD HH:MM")
}

// ParsePublishAt converts a local wall-clock time in the named zone to UTC
// RFC 3339 with a Z suffix.
func ParsePublishAt(value, tzName string) (string, error) {
	ts, err := ParsePublishAtTime(value, tzName)
	if err != nil {
		return "", err
	}
	return ts.UTC().Format("2006-01-02T15:04:05Z"), nil
}

var zoneinfoRe = regexp.MustCompile(`/zoneinfo/(.+)$`)

// DetectTimezone guesses the system zone from TZ or the /etc/localtime
// symlink, empty when neither resolves.
func DetectTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	target, err := filepath.EvalSymlinks("/etc/localtime")
	if err != nil {
		return ""
	}
	if m := zoneinfoRe.FindStringSubmatch(target); m != nil {
		return m[1]
	}
	return ""
}
