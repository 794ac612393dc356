package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/listmonk"
)

func newNewsletterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsletter",
		Short: "Schedule Listmonk campaigns",
	}
	cmd.AddCommand(newNewsletterScheduleCmd())
	return cmd
}

func newNewsletterScheduleCmd() *cobra.Command {
	var opts listmonk.ScheduleOptions
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Create and schedule a campaign from a markdown body",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.ListID == 0 {
				opts.ListID = config.Load().YouTube.ListmonkListID
			}
			if err := listmonk.NewClient().Schedule(cmd.Context(), opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "campaign %q scheduled for %s\n", opts.Name, opts.SendAt)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Name, "name", "", "campaign name")
	cmd.Flags().StringVar(&opts.Subject, "subject", "", "email subject")
	cmd.Flags().StringVar(&opts.Preheader, "preheader", "", "preview text injected before the body")
	cmd.Flags().StringVar(&opts.BodyFile, "body-file", "", "markdown file with the campaign body")
	cmd.Flags().StringVar(&opts.SendAt, "send-at", "", "send time (RFC 3339)")
	cmd.Flags().IntVar(&opts.ListID, "list-id", 0, "target list id (default from config)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("body-file")
	return cmd
}
