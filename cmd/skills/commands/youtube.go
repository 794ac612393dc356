package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/flow"
	"github.com/devexpertio/skills/pkg/skills/ideas"
	"github.com/devexpertio/skills/pkg/skills/listmonk"
	"github.com/devexpertio/skills/pkg/skills/media"
	"github.com/devexpertio/skills/pkg/skills/paths"
	"github.com/devexpertio/skills/pkg/skills/postiz"
	"github.com/devexpertio/skills/pkg/skills/youtube"
)

func newYouTubeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "youtube",
		Short: "YouTube publish pipeline",
	}
	cmd.AddCommand(
		newYouTubePublishCmd(),
		newYouTubeUpdateCmd(),
		newYouTubeDraftCmd(),
		newYouTubeListCmd(),
		newYouTubeIdeasCmd(),
		newYouTubeThumbsCmd(),
		newYouTubeTranscribeCmd(),
		newYouTubeFlowCmd(),
	)
	return cmd
}

func newYouTubeClient(cmd *cobra.Command) (*youtube.Client, error) {
	return youtube.NewClient(cmd.Context(), youtube.DefaultCredentials(), cmd.ErrOrStderr())
}

func addPublishFlags(cmd *cobra.Command, opts *youtube.PublishOptions) {
	cmd.Flags().StringVar(&opts.Title, "title", "", "video title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "video description")
	cmd.Flags().StringVar(&opts.DescriptionFile, "description-file", "", "file holding the description")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "comma-separated tags")
	cmd.Flags().StringVar(&opts.CategoryID, "category", "", "video category id")
	cmd.Flags().StringVar(&opts.PrivacyStatus, "privacy", "", "public, unlisted or private")
	cmd.Flags().StringVar(&opts.PublishAt, "publish-at", "", "schedule time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA zone for --publish-at")
}

func newYouTubePublishCmd() *cobra.Command {
	var (
		opts          youtube.PublishOptions
		thumbnail     string
		outputVideoID string
		updateVideoID string
	)
	cmd := &cobra.Command{
		Use:   "publish <video>",
		Short: "Upload a video with metadata, thumbnail and optional schedule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := youtube.LoadConfig("")
			if err != nil {
				return err
			}
			opts.Config = cfg

			video, publishAt, err := opts.BuildVideo()
			if err != nil {
				return err
			}
			client, err := newYouTubeClient(cmd)
			if err != nil {
				return err
			}

			videoID := updateVideoID
			if videoID != "" {
				video.Id = videoID
				if err := client.Update(cmd.Context(), video); err != nil {
					return err
				}
				if thumbnail != "" {
					if err := client.SetThumbnail(cmd.Context(), videoID, thumbnail); err != nil {
						return err
					}
				}
			} else {
				if len(args) == 0 {
					return fmt.Errorf("video file is required unless --update-video-id is set")
				}
				videoID, err = client.Upload(cmd.Context(), args[0], video, thumbnail, cfg.NotifySubscribers)
				if err != nil {
					return err
				}
			}
			if outputVideoID != "" {
				if err := os.WriteFile(outputVideoID, []byte(videoID+"\n"), 0o644); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), youtube.WatchURL(videoID))
			if publishAt != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "scheduled for %s\n", publishAt)
			}
			return nil
		},
	}
	addPublishFlags(cmd, &opts)
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "thumbnail image path")
	cmd.Flags().StringVar(&outputVideoID, "output-video-id", "", "write the new video id to this file")
	cmd.Flags().StringVar(&updateVideoID, "update-video-id", "", "update this video's metadata instead of uploading")
	return cmd
}

func newYouTubeUpdateCmd() *cobra.Command {
	var (
		opts      youtube.PublishOptions
		thumbnail string
	)
	cmd := &cobra.Command{
		Use:   "update <video-id>",
		Short: "Update an existing video's metadata and thumbnail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := youtube.LoadConfig("")
			if err != nil {
				return err
			}
			opts.Config = cfg

			video, publishAt, err := opts.BuildVideo()
			if err != nil {
				return err
			}
			video.Id = args[0]

			client, err := newYouTubeClient(cmd)
			if err != nil {
				return err
			}
			if err := client.Update(cmd.Context(), video); err != nil {
				return err
			}
			if thumbnail != "" {
				if err := client.SetThumbnail(cmd.Context(), args[0], thumbnail); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), youtube.WatchURL(args[0]))
			if publishAt != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "scheduled for %s\n", publishAt)
			}
			return nil
		},
	}
	addPublishFlags(cmd, &opts)
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "thumbnail image path")
	return cmd
}

func newYouTubeDraftCmd() *cobra.Command {
	var outputVideoID string
	cmd := &cobra.Command{
		Use:   "draft <video>",
		Short: "Upload a private placeholder draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputVideoID == "" {
				outputVideoID = "video_id.txt"
			}
			client, err := newYouTubeClient(cmd)
			if err != nil {
				return err
			}
			videoID, err := client.UploadDraft(cmd.Context(), args[0], outputVideoID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), youtube.WatchURL(videoID))
			return nil
		},
	}
	cmd.Flags().StringVar(&outputVideoID, "output-video-id", "", "write the new video id to this file")
	return cmd
}

func newYouTubeListCmd() *cobra.Command {
	var (
		limit      int
		minSeconds int
		jsonOut    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the channel's uploads, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newYouTubeClient(cmd)
			if err != nil {
				return err
			}
			entries, err := client.ListUploads(cmd.Context(), limit, minSeconds)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			for i, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), youtube.FormatEntry(i+1, e))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 25, "max uploads to list")
	cmd.Flags().IntVar(&minSeconds, "min-seconds", 0, "skip videos shorter than this")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit entries as JSON")
	return cmd
}

func newIdeasGenerator(cmd *cobra.Command) (*ideas.Generator, error) {
	apiKey, err := ideas.APIKey()
	if err != nil {
		return nil, err
	}
	return ideas.NewGenerator(cmd.Context(), apiKey, 5*time.Minute)
}

func newYouTubeIdeasCmd() *cobra.Command {
	var (
		opts      ideas.RunOptions
		limit     int
		assetsDir string
	)
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Generate title ideas and thumbnails for recent uploads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newYouTubeClient(cmd)
			if err != nil {
				return err
			}
			entries, err := client.ListUploads(cmd.Context(), limit, opts.MinSeconds)
			if err != nil {
				return err
			}

			gen, err := newIdeasGenerator(cmd)
			if err != nil {
				return err
			}
			if assetsDir != "" {
				gen.AssetsDir = assetsDir
			}
			if opts.OutDir == "" {
				opts.OutDir = paths.VideosOutputDir()
			}

			stats, err := gen.Run(cmd.Context(), entries, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d | Skipped %d\n", stats.Processed, stats.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "output directory (default ~/Downloads/youtube-videos)")
	cmd.Flags().IntVar(&limit, "limit", 25, "max uploads to consider")
	cmd.Flags().IntVar(&opts.MinSeconds, "min-seconds", 120, "skip videos shorter than this")
	cmd.Flags().BoolVar(&opts.SkipText, "skip-text", false, "skip idea generation")
	cmd.Flags().BoolVar(&opts.SkipImages, "skip-images", false, "skip thumbnail rendering")
	cmd.Flags().BoolVar(&opts.Resume, "resume", false, "reuse stored ideas.json where present")
	cmd.Flags().BoolVar(&opts.OnlyMissingImgs, "only-missing-images", false, "render only missing thumbnails")
	cmd.Flags().StringVar(&assetsDir, "assets-dir", "", "directory with the presenter photos")
	return cmd
}

func newYouTubeThumbsCmd() *cobra.Command {
	var (
		outDir    string
		force     bool
		assetsDir string
	)
	cmd := &cobra.Command{
		Use:   "thumbs",
		Short: "Render missing thumbnails from stored idea files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := newIdeasGenerator(cmd)
			if err != nil {
				return err
			}
			if assetsDir != "" {
				gen.AssetsDir = assetsDir
			}
			if outDir == "" {
				outDir = paths.VideosOutputDir()
			}
			stats, err := gen.GenerateMissing(cmd.Context(), outDir, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d | Skipped %d | Failed %d\n",
				stats.Generated, stats.Skipped, stats.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", "", "ideas directory (default ~/Downloads/youtube-videos)")
	cmd.Flags().BoolVar(&force, "force", false, "regenerate existing thumbnails too")
	cmd.Flags().StringVar(&assetsDir, "assets-dir", "", "directory with the presenter photos")
	return cmd
}

func newYouTubeTranscribeCmd() *cobra.Command {
	var (
		outDir string
		opts   media.TranscribeOptions
	)
	cmd := &cobra.Command{
		Use:   "transcribe <video>",
		Short: "Transcribe a video to a cleaned Spanish SRT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = "."
			}
			srtPath, err := media.TranscribeCleanSRT(cmd.Context(), args[0], outDir, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), srtPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for the SRT (default current)")
	cmd.Flags().StringVar(&opts.ModelPath, "model", "", "whisper model path (default $WHISPER_MODEL_PATH)")
	cmd.Flags().StringVar(&opts.Language, "language", "", "transcription language (default es)")
	return cmd
}

func newYouTubeFlowCmd() *cobra.Command {
	var opts flow.Options
	cmd := &cobra.Command{
		Use:   "flow <video>...",
		Short: "End to end: prepare, draft, transcribe, generate content, publish",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Videos = args
			cfg := config.Load()

			ytClient, err := newYouTubeClient(cmd)
			if err != nil {
				return err
			}

			f := &flow.Flow{
				YouTube:  ytClient,
				Postiz:   postiz.NewClient(),
				Listmonk: listmonk.NewClient(),
				Config:   cfg,
			}
			if !opts.SkipContent {
				gen, err := newIdeasGenerator(cmd)
				if err != nil {
					return err
				}
				f.Generator = gen
			}
			if opts.Upload && term.IsTerminal(int(os.Stdin.Fd())) {
				f.Confirm = func(contentPath string) (bool, error) {
					proceed := false
					err := huh.NewForm(
						huh.NewGroup(
							huh.NewConfirm().
								Title("Publish now?").
								Description("Review and edit " + contentPath + " first.").
								Affirmative("Publish").
								Negative("Cancel").
								Value(&proceed),
						),
					).WithTheme(huh.ThemeDracula()).Run()
					return proceed, err
				}
			}
			return f.Run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.TitleHint, "title", "", "working title used for the slug and content pack")
	cmd.Flags().StringVar(&opts.Workdir, "workdir", "", "working directory (default next to the first video)")
	cmd.Flags().BoolVar(&opts.SkipDraft, "skip-draft", false, "skip the placeholder draft upload")
	cmd.Flags().BoolVar(&opts.SkipTranscribe, "skip-transcribe", false, "skip transcription")
	cmd.Flags().BoolVar(&opts.SkipContent, "skip-content", false, "skip the generated content pack")
	cmd.Flags().BoolVar(&opts.Upload, "upload", false, "publish after the content pack is ready")
	cmd.Flags().StringVar(&opts.PublishAt, "publish-at", "", "schedule time (YYYY-MM-DD HH:MM), overrides content.md")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA zone for scheduling")
	cmd.Flags().StringVar(&opts.Thumbnail, "thumbnail", "", "thumbnail path, overrides content.md")
	cmd.Flags().StringVar(&opts.PrivacyStatus, "privacy", "", "privacy when not scheduling")
	cmd.Flags().StringVar(&opts.Integrations, "integrations", "", "postiz integration ids (comma-separated)")
	cmd.Flags().StringVar(&opts.Group, "group", "", "postiz integration group")
	cmd.Flags().IntVar(&opts.ListID, "list-id", 0, "listmonk list id")
	return cmd
}
