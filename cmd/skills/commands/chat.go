package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devexpertio/skills/pkg/skills/gchat"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Google Chat spaces and messages",
	}
	cmd.AddCommand(newChatAuthCmd(), newChatSpacesCmd(), newChatFetchCmd())
	return cmd
}

func newChatAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Run the OAuth flow and store the Chat token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds := gchat.DefaultCredentials()
			if err := creds.Authorize(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token stored at %s\n", creds.TokenPath)
			return nil
		},
	}
}

func newChatSpacesCmd() *cobra.Command {
	var (
		pageSize  int64
		pageToken string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "List the spaces the account belongs to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := gchat.NewClient(cmd.Context(), gchat.DefaultCredentials())
			if err != nil {
				return err
			}
			page, err := client.ListSpaces(cmd.Context(), pageSize, pageToken)
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}
			for _, s := range page.Spaces {
				fmt.Fprintln(cmd.OutOrStdout(), gchat.FormatSpace(s))
			}
			if page.NextPageToken != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "next page: --page-token %s\n", page.NextPageToken)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&pageSize, "page-size", 100, "spaces per page")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "continue from a previous page")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func newChatFetchCmd() *cobra.Command {
	var (
		opts    gchat.FetchOptions
		format  string
	)
	cmd := &cobra.Command{
		Use:   "fetch <space>",
		Short: "Fetch messages from a space, thread, or Gmail Chat URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			space, thread := gchat.ParseSpaceThread(args[0])
			if space == "" {
				return fmt.Errorf("unable to parse space reference %q", args[0])
			}
			opts.SpaceID = space
			if opts.ThreadID == "" {
				opts.ThreadID = thread
			}

			client, err := gchat.NewClient(cmd.Context(), gchat.DefaultCredentials())
			if err != nil {
				return err
			}
			page, err := client.FetchMessages(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}
			for _, m := range page.Messages {
				fmt.Fprintln(cmd.OutOrStdout(), gchat.FormatMessage(m))
			}
			if page.NextPageToken != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "next page: --page-token %s\n", page.NextPageToken)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.ThreadID, "thread", "", "restrict to one thread id")
	cmd.Flags().Int64Var(&opts.PageSize, "page-size", 100, "messages per page")
	cmd.Flags().StringVar(&opts.PageToken, "page-token", "", "continue from a previous page")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "server-side message filter")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}
