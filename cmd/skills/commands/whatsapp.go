package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/evolution"
)

func newWhatsAppCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "WhatsApp inbox via an Evolution API gateway",
	}
	cmd.AddCommand(newWhatsAppChatsCmd(), newWhatsAppMessagesCmd(), newWhatsAppSendCmd())
	return cmd
}

func newWhatsAppChatsCmd() *cobra.Command {
	var (
		unreadOnly bool
		markSeen   bool
		jsonOut    bool
	)
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "List chats, optionally only those with unseen activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := evolution.NewClient(config.Load().WhatsAppEvo)
			if err != nil {
				return err
			}
			chats, err := client.FindChats(cmd.Context())
			if err != nil {
				return err
			}

			statePath := evolution.StatePath()
			state := evolution.LoadState(statePath)

			var shown []evolution.Chat
			for _, chat := range chats {
				if unreadOnly && !state.Unread(chat) {
					continue
				}
				shown = append(shown, chat)
				if markSeen {
					state.MarkSeen(chat)
				}
			}
			if markSeen {
				if err := state.Save(statePath); err != nil {
					return fmt.Errorf("saving inbox state: %w", err)
				}
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(shown)
			}
			for _, chat := range shown {
				marker := " "
				if state.Unread(chat) {
					marker = "*"
				}
				ts := ""
				if chat.LastMessageTimestamp > 0 {
					ts = time.Unix(chat.LastMessageTimestamp, 0).Format("2006-01-02 15:04")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s | %s | %s\n", marker, chat.JID(), chat.DisplayName(), ts)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only chats with activity since last --seen")
	cmd.Flags().BoolVar(&markSeen, "seen", false, "mark the listed chats as seen")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit chats as JSON")
	return cmd
}

func newWhatsAppMessagesCmd() *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "messages <jid>",
		Short: "Fetch recent messages from a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := evolution.NewClient(config.Load().WhatsAppEvo)
			if err != nil {
				return err
			}
			messages, err := client.FindMessages(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(messages)
			}
			for _, m := range messages {
				sender := m.PushName
				if m.Key.FromMe {
					sender = "me"
				}
				ts := time.Unix(m.MessageTimestamp, 0).Format("2006-01-02 15:04")
				fmt.Fprintf(cmd.OutOrStdout(), "%s | %s | %s\n", ts, sender, m.Text())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max messages to fetch")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit messages as JSON")
	return cmd
}

func newWhatsAppSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <number> <text>",
		Short: "Send a text message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := evolution.NewClient(config.Load().WhatsAppEvo)
			if err != nil {
				return err
			}
			if err := client.SendText(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}
}
