package flow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/ideas"
	"github.com/devexpertio/skills/pkg/skills/listmonk"
	"github.com/devexpertio/skills/pkg/skills/media"
	"github.com/devexpertio/skills/pkg/skills/postiz"
	"github.com/devexpertio/skills/pkg/skills/youtube"
)

// SocialsStagger delays socials and newsletter relative to the video going
// live so the link resolves by the time they land.
const SocialsStagger = 15 * time.Minute

// Options configure one flow run.
type Options struct {
	Videos    []string
	TitleHint string
	Workdir   string

	SkipDraft      bool
	SkipTranscribe bool
	SkipContent    bool

	Upload        bool
	PublishAt     string
	Timezone      string
	Thumbnail     string
	PrivacyStatus string
	Integrations  string
	Group         string
	ListID        int
}

// Flow holds the clients the workflow drives. Generator may be nil when
// content generation is skipped.
type Flow struct {
	YouTube   *youtube.Client
	Generator *ideas.Generator
	Postiz    *postiz.Client
	Listmonk  *listmonk.Client
	Config    config.Config

	// Confirm gates the upload after content.md is ready for editing.
	// Nil skips the gate.
	Confirm func(contentPath string) (bool, error)
}

// Run executes the workflow over the input recordings.
func (f *Flow) Run(ctx context.Context, opts Options) error {
	prep, err := Prepare(ctx, opts.Videos, opts.TitleHint, opts.Workdir)
	if err != nil {
		return err
	}
	slog.Info("workdir ready", "workdir", prep.Workdir, "video", prep.VideoPath)

	videoID := ""
	videoURL := ""
	if !opts.SkipDraft {
		idPath := filepath.Join(prep.Workdir, "video_id.txt")
		videoID, err = f.YouTube.UploadDraft(ctx, prep.VideoPath, idPath)
		if err != nil {
			return err
		}
		videoURL = youtube.WatchURL(videoID)
		slog.Info("draft uploaded", "video_id", videoID, "url", videoURL)
	}

	cleanedSRT := ""
	if !opts.SkipTranscribe {
		cleanedSRT, err = media.TranscribeCleanSRT(ctx, prep.VideoPath, prep.Workdir, media.TranscribeOptions{})
		if err != nil {
			return err
		}
		slog.Info("transcript written", "path", cleanedSRT)
	}

	contentPath := ""
	if !opts.SkipContent {
		if cleanedSRT == "" {
			return fmt.Errorf("no transcript available for content generation")
		}
		srtText, err := os.ReadFile(cleanedSRT)
		if err != nil {
			return err
		}
		generated, err := f.Generator.GenerateText(ctx, BuildContentPrompt(string(srtText), videoURL))
		if err != nil {
			return err
		}
		contentPath = filepath.Join(prep.Workdir, "content.md")
		md := RenderContentMD(opts.TitleHint, videoURL, generated)
		if err := os.WriteFile(contentPath, []byte(md), 0o644); err != nil {
			return err
		}
		slog.Info("content pack written", "path", contentPath)
	}

	if !opts.Upload {
		return nil
	}
	if contentPath == "" {
		contentPath = filepath.Join(prep.Workdir, "content.md")
	}
	if f.Confirm != nil {
		ok, err := f.Confirm(contentPath)
		if err != nil {
			return err
		}
		if !ok {
			slog.Info("upload cancelled")
			return nil
		}
	}
	return f.publish(ctx, prep, contentPath, videoID, opts)
}

// publish reads the edited final sections and pushes the video, then the
// socials and newsletter when a schedule is set.
func (f *Flow) publish(ctx context.Context, prep *Prepared, contentPath, videoID string, opts Options) error {
	raw, err := os.ReadFile(contentPath)
	if err != nil {
		return fmt.Errorf("reading content pack: %w", err)
	}
	md := string(raw)

	title := ExtractSection(md, "Título (final)")
	description := ExtractSection(md, "Descripción (final)")
	if title == "" || description == "" {
		return fmt.Errorf("missing final title or description in content.md")
	}
	thumbnail := ExtractSection(md, "Thumbnail (final)")
	if thumbnail == "" {
		thumbnail = opts.Thumbnail
	}
	schedule := ExtractSection(md, "Programación (final)")
	if schedule == "" {
		schedule = opts.PublishAt
	}
	schedule = strings.TrimSpace(schedule)

	forcePrivate := false
	switch strings.ToLower(schedule) {
	case "private", "privado":
		schedule = ""
		forcePrivate = true
	}

	descPath := filepath.Join(prep.Workdir, "description.final.txt")
	if err := os.WriteFile(descPath, []byte(description), 0o644); err != nil {
		return err
	}

	ytCfg, err := youtube.LoadConfig("")
	if err != nil {
		return err
	}
	pubOpts := youtube.PublishOptions{
		Title:           strings.TrimSpace(title),
		DescriptionFile: descPath,
		Timezone:        opts.Timezone,
		Config:          ytCfg,
	}
	var scheduledAt time.Time
	if schedule != "" {
		tz := opts.Timezone
		if tz == "" {
			tz = ytCfg.Timezone
		}
		if tz == "" {
			tz = youtube.DetectTimezone()
		}
		if tz == "" {
			return fmt.Errorf("timezone required for scheduling (pass --timezone)")
		}
		publishTime, err := youtube.ParsePublishAtTime(schedule, tz)
		if err != nil {
			return err
		}
		scheduledAt = publishTime.Add(SocialsStagger)
		pubOpts.PublishAt = schedule
		pubOpts.Timezone = tz
	}
	if forcePrivate {
		pubOpts.PrivacyStatus = "private"
	}
	if opts.PrivacyStatus != "" {
		pubOpts.PrivacyStatus = opts.PrivacyStatus
	}

	video, _, err := pubOpts.BuildVideo()
	if err != nil {
		return err
	}

	if videoID != "" {
		video.Id = videoID
		if err := f.YouTube.Update(ctx, video); err != nil {
			return err
		}
		if thumbnail != "" {
			if err := f.YouTube.SetThumbnail(ctx, videoID, strings.TrimSpace(thumbnail)); err != nil {
				return err
			}
		}
		slog.Info("video metadata updated", "video_id", videoID)
	} else {
		videoID, err = f.YouTube.Upload(ctx, prep.VideoPath, video, strings.TrimSpace(thumbnail), ytCfg.NotifySubscribers)
		if err != nil {
			return err
		}
		slog.Info("video uploaded", "video_id", videoID)
	}

	if scheduledAt.IsZero() {
		return nil
	}
	return f.scheduleFollowups(ctx, prep, md, strings.TrimSpace(title), videoID, scheduledAt, opts)
}

// scheduleFollowups queues the LinkedIn post and the newsletter at the
// staggered time.
func (f *Flow) scheduleFollowups(ctx context.Context, prep *Prepared, md, title, videoID string, scheduledAt time.Time, opts Options) error {
	linkedin := ExtractSection(md, "Post LinkedIn (final)")
	subject := ExtractSection(md, "Asunto newsletter (final)")
	preheader := ExtractSection(md, "Preheader newsletter (final)")
	newsletter := ExtractSection(md, "Newsletter (final)")
	if linkedin == "" || subject == "" || newsletter == "" {
		return fmt.Errorf("missing LinkedIn or newsletter sections in content.md")
	}

	scheduledISO := scheduledAt.Format(time.RFC3339)

	linkedinPath := filepath.Join(prep.Workdir, "linkedin.final.txt")
	if err := os.WriteFile(linkedinPath, []byte(linkedin), 0o644); err != nil {
		return err
	}
	integrations, err := postiz.ResolveIntegrations(opts.Integrations, opts.Group, &f.Config)
	if err != nil {
		return err
	}
	err = f.Postiz.Schedule(ctx, postiz.ScheduleOptions{
		Text:          linkedin,
		CommentURL:    youtube.WatchURL(videoID),
		ScheduledDate: scheduledISO,
		Integrations:  integrations,
	})
	if err != nil {
		return err
	}
	slog.Info("socials scheduled", "at", scheduledISO)

	newsletterPath := filepath.Join(prep.Workdir, "newsletter.final.md")
	if err := os.WriteFile(newsletterPath, []byte(newsletter), 0o644); err != nil {
		return err
	}
	listID := opts.ListID
	if listID == 0 {
		listID = f.Config.YouTube.ListmonkListID
	}
	err = f.Listmonk.Schedule(ctx, listmonk.ScheduleOptions{
		Name:      "YouTube: " + title,
		Subject:   subject,
		Preheader: preheader,
		BodyFile:  newsletterPath,
		SendAt:    scheduledISO,
		ListID:    listID,
	})
	if err != nil {
		return err
	}
	slog.Info("newsletter scheduled", "at", scheduledISO, "list_id", listID)
	return nil
}
