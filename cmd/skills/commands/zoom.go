package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devexpertio/skills/pkg/skills/zoom"
)

func newZoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zoom",
		Short: "Zoom meetings and cloud recordings",
	}
	cmd.AddCommand(newZoomMeetingsCmd(), newZoomRecordingsCmd())
	return cmd
}

func newZoomMeetingsCmd() *cobra.Command {
	var opts zoom.MeetingsOptions
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "List meetings for the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := zoom.NewClient()
			if err != nil {
				return err
			}
			meetings, err := client.ListMeetings(cmd.Context(), opts)
			if err != nil {
				return err
			}
			for _, m := range meetings {
				fmt.Fprintln(cmd.OutOrStdout(), zoom.FormatMeeting(m))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.User, "user", "", "user id or email (default: me)")
	cmd.Flags().StringVar(&opts.Type, "type", "", "meeting type (scheduled, live, upcoming, previous_meetings)")
	cmd.Flags().StringVar(&opts.From, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "meetings per API page")
	cmd.Flags().IntVar(&opts.Max, "max", 0, "max meetings to list (0 = all)")
	return cmd
}

func newZoomRecordingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recordings",
		Short: "List, download and delete cloud recordings",
	}

	var listOpts zoom.RecordingsOptions
	list := &cobra.Command{
		Use:   "list",
		Short: "List cloud recordings in a date span",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := zoom.NewClient()
			if err != nil {
				return err
			}
			listing, err := client.ListRecordings(cmd.Context(), listOpts)
			if err != nil {
				return err
			}
			out, err := zoom.MarshalListing(listing)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	list.Flags().StringVar(&listOpts.From, "from", "", "start date (YYYY-MM-DD)")
	list.Flags().StringVar(&listOpts.To, "to", "", "end date (YYYY-MM-DD)")
	list.Flags().StringVar(&listOpts.User, "user", "", "user id or email (default: me)")
	list.Flags().IntVar(&listOpts.PageSize, "page-size", 0, "recordings per API page")

	var downloadOut string
	download := &cobra.Command{
		Use:   "download <download-url>",
		Short: "Download one recording file by its download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if downloadOut == "" {
				return fmt.Errorf("--out is required")
			}
			client, err := zoom.NewClient()
			if err != nil {
				return err
			}
			if err := client.Download(cmd.Context(), args[0], downloadOut); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), downloadOut)
			return nil
		},
	}
	download.Flags().StringVar(&downloadOut, "out", "", "output file path")

	var (
		deleteRecordingID string
		deleteAction      string
	)
	deleteCmd := &cobra.Command{
		Use:   "delete <meeting-id>",
		Short: "Trash or permanently delete a meeting's recordings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := zoom.DeleteAction(deleteAction)
			if action != zoom.ActionTrash && action != zoom.ActionDelete {
				return fmt.Errorf("invalid --action %q (trash or delete)", deleteAction)
			}
			client, err := zoom.NewClient()
			if err != nil {
				return err
			}
			if err := client.DeleteRecordings(cmd.Context(), args[0], deleteRecordingID, action); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "done")
			return nil
		},
	}
	deleteCmd.Flags().StringVar(&deleteRecordingID, "recording-id", "", "delete only this recording file")
	deleteCmd.Flags().StringVar(&deleteAction, "action", string(zoom.ActionTrash), "trash or delete")

	var mp4Opts zoom.DownloadMP4Options
	downloadMP4 := &cobra.Command{
		Use:   "download-mp4",
		Short: "Bulk-download MP4s whose meeting topic matches a filter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := zoom.NewClient()
			if err != nil {
				return err
			}
			results, err := client.DownloadMatchedMP4s(cmd.Context(), mp4Opts)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", r.Meeting, r.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) downloaded\n", len(results))
			return nil
		},
	}
	downloadMP4.Flags().StringVar(&mp4Opts.From, "from", "", "start date (YYYY-MM-DD)")
	downloadMP4.Flags().StringVar(&mp4Opts.To, "to", "", "end date (YYYY-MM-DD)")
	downloadMP4.Flags().StringVar(&mp4Opts.User, "user", "", "user id or email (default: me)")
	downloadMP4.Flags().StringVar(&mp4Opts.Match, "match", zoom.DefaultTopicMatch, "pipe-separated topic substrings")
	downloadMP4.Flags().StringVar(&mp4Opts.OutDir, "out-dir", ".", "directory for the downloaded MP4s")

	cmd.AddCommand(list, download, deleteCmd, downloadMP4)
	return cmd
}
