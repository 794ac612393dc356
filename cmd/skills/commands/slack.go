package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devexpertio/skills/pkg/skills/slack"
)

func newSlackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slack",
		Short: "Slack workspace listings",
	}
	cmd.AddCommand(newSlackChannelsCmd())
	return cmd
}

func newSlackChannelsCmd() *cobra.Command {
	var (
		types   string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List channels, groups and DMs the token can see",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := slack.NewClient()
			if err != nil {
				return err
			}
			conversations, err := client.ListConversations(cmd.Context(), types)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(conversations)
			}
			for _, conv := range conversations {
				name := client.ConversationDisplayName(cmd.Context(), conv)
				fmt.Fprintf(cmd.OutOrStdout(), "%s | %s\n", conv.ID, name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&types, "types", "public_channel,private_channel,im,mpim", "conversation types to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit conversations as JSON")
	return cmd
}
