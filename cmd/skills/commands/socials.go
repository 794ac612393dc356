package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/postiz"
)

func newSocialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "socials",
		Short: "Schedule posts through Postiz",
	}
	cmd.AddCommand(newSocialsScheduleCmd())
	return cmd
}

func newSocialsScheduleCmd() *cobra.Command {
	var (
		textFile      string
		commentURL    string
		scheduledDate string
		imagePath     string
		integrations  string
		group         string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule one post across a group of integrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(textFile)
			if err != nil {
				return fmt.Errorf("reading text file: %w", err)
			}
			text := strings.TrimSpace(string(raw))
			if text == "" {
				return fmt.Errorf("text file %s is empty", textFile)
			}

			cfg := config.Load()
			ids, err := postiz.ResolveIntegrations(integrations, group, &cfg)
			if err != nil {
				return err
			}

			client := postiz.NewClient()
			imageURL := ""
			if imagePath != "" {
				imageURL, err = client.UploadImage(cmd.Context(), imagePath)
				if err != nil {
					return err
				}
			}

			if err := client.Schedule(cmd.Context(), postiz.ScheduleOptions{
				Text:          text,
				CommentURL:    commentURL,
				ScheduledDate: scheduledDate,
				ImageURL:      imageURL,
				Integrations:  ids,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scheduled on %d integration(s)\n", len(ids))
			return nil
		},
	}
	cmd.Flags().StringVar(&textFile, "text-file", "", "file holding the post text")
	cmd.Flags().StringVar(&commentURL, "comment-url", "", "URL posted as the first comment")
	cmd.Flags().StringVar(&scheduledDate, "scheduled-date", "", "publish time (RFC 3339)")
	cmd.Flags().StringVar(&imagePath, "image", "", "image to upload and attach")
	cmd.Flags().StringVar(&integrations, "integrations", "", "integration ids (comma-separated)")
	cmd.Flags().StringVar(&group, "group", "", "integration group from config")
	_ = cmd.MarkFlagRequired("text-file")
	return cmd
}
