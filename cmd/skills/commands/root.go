// Package commands wires the skills CLI: one command group per skill
// family, backed by the client packages under pkg/skills.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the `skills` command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skills",
		Short: "Personal content-ops automation",
		Long: `skills bundles the content-ops automations behind one binary:
X/Twitter briefs, Google Chat, Slack, WhatsApp, Zoom recordings, the
YouTube publish pipeline, socials and newsletter scheduling, website
testimonials, and the shorts subtitle pipeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newBirdCmd(),
		newChatCmd(),
		newSlackCmd(),
		newWhatsAppCmd(),
		newZoomCmd(),
		newYouTubeCmd(),
		newSocialsCmd(),
		newNewsletterCmd(),
		newTestimonialsCmd(),
		newShortCmd(),
	)
	return root
}

// Execute runs the root command, printing the failure and exiting non-zero.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
