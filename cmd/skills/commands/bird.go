package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/devexpertio/skills/pkg/skills/bird"
	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/paths"
)

func newBirdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bird",
		Short: "X/Twitter brief, mentions and ignore list (bird CLI wrapper)",
	}

	var auth bird.Auth
	cmd.PersistentFlags().StringVar(&auth.AuthToken, "auth-token", "", "auth_token cookie value")
	cmd.PersistentFlags().StringVar(&auth.CT0, "ct0", "", "ct0 cookie value")
	cmd.PersistentFlags().StringVar(&auth.CookieSource, "cookie-source", "", "cookie source passed to bird")
	cmd.PersistentFlags().StringVar(&auth.ChromeProfile, "chrome-profile", "", "Chrome profile to read cookies from")
	cmd.PersistentFlags().StringVar(&auth.FirefoxProfile, "firefox-profile", "", "Firefox profile to read cookies from")

	cmd.AddCommand(newBirdBriefCmd(&auth), newBirdMentionsCmd(&auth), newBirdIgnoreCmd())
	return cmd
}

func writeJSONFile(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func newBirdBriefCmd(auth *bird.Auth) *cobra.Command {
	opts := bird.DefaultBriefOptions()
	var (
		allowForYou bool
		jsonOut     string
		watchSpec   string
	)
	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Daily brief: top AI news and home-timeline candidates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			auth.ApplyConfig(cfg.Bird)
			opts.FollowingOnly = !allowForYou
			verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
			opts.Debug = verbose

			client := bird.NewClient(*auth)
			run := func() error {
				b, err := client.RunBrief(cmd.Context(), opts)
				if err != nil {
					return err
				}
				client.PrintBrief(cmd.Context(), cmd.OutOrStdout(), b, opts)
				if jsonOut != "" {
					if err := writeJSONFile(jsonOut, b); err != nil {
						return err
					}
					slog.Info("brief written", "path", jsonOut)
				}
				return nil
			}
			if watchSpec == "" {
				return run()
			}

			c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
			_, err := c.AddFunc(watchSpec, func() {
				if err := run(); err != nil {
					slog.Error("brief run failed", "error", err)
				}
			})
			if err != nil {
				return fmt.Errorf("invalid --watch schedule %q: %w", watchSpec, err)
			}
			slog.Info("watching", "schedule", watchSpec)
			c.Start()
			<-cmd.Context().Done()
			<-c.Stop().Done()
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.HomeCount, "home-count", opts.HomeCount, "home timeline tweets to fetch")
	cmd.Flags().IntVar(&opts.NewsCount, "news-count", opts.NewsCount, "news entries to keep")
	cmd.Flags().IntVar(&opts.HomeResults, "home-results", opts.HomeResults, "home candidates to keep")
	cmd.Flags().IntVar(&opts.NewsTweets, "tweets-per-item", opts.NewsTweets, "tweets fetched per news item")
	cmd.Flags().IntVar(&opts.NewsSearchMinFaves, "min-faves", opts.NewsSearchMinFaves, "min faves for news link search")
	cmd.Flags().BoolVar(&allowForYou, "allow-for-you", false, "use the For You timeline instead of Following")
	cmd.Flags().StringVar(&jsonOut, "json-out", "", "also write the brief payload to this JSON file")
	cmd.Flags().StringVar(&watchSpec, "watch", "", "cron schedule to re-run the brief (e.g. '0 8 * * *')")
	return cmd
}

func newBirdMentionsCmd(auth *bird.Auth) *cobra.Command {
	var (
		opts    bird.MentionsOptions
		jsonOut string
	)
	cmd := &cobra.Command{
		Use:   "mentions",
		Short: "List mentions the account has not replied to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			auth.ApplyConfig(cfg.Bird)
			client := bird.NewClient(*auth)

			if opts.Username == "" {
				opts.Username = cfg.Bird.Username
			}
			if opts.Username == "" {
				username, err := client.Whoami(cmd.Context())
				if err != nil {
					return fmt.Errorf("resolving username: %w", err)
				}
				opts.Username = username
			}
			if opts.IgnorePath == "" {
				opts.IgnorePath = paths.BirdIgnorePath()
			}

			mentions, err := client.UnansweredMentions(cmd.Context(), opts)
			if err != nil {
				return err
			}
			bird.PrintMentions(cmd.OutOrStdout(), mentions, opts)
			if jsonOut != "" {
				return writeJSONFile(jsonOut, mentions)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Username, "username", "", "account username (default: config, then bird whoami)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "max mentions to report (0 = all)")
	cmd.Flags().BoolVar(&opts.ShowText, "show-text", false, "include the mention text")
	cmd.Flags().BoolVar(&opts.IncludeUnknown, "include-unknown", false, "include mentions whose replies could not be checked")
	cmd.Flags().BoolVar(&opts.Numbered, "numbered", false, "number the mentions for use with bird ignore")
	cmd.Flags().BoolVar(&opts.NoIgnore, "no-ignore", false, "do not filter ignored mention ids")
	cmd.Flags().StringVar(&jsonOut, "json-out", "", "also write the mentions to this JSON file")
	return cmd
}

func newBirdIgnoreCmd() *cobra.Command {
	var (
		ids      []string
		username string
	)
	cmd := &cobra.Command{
		Use:   "ignore",
		Short: "Mark mention ids as ignored so they drop from the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(ids) == 0 {
				return fmt.Errorf("at least one --id is required")
			}
			if username == "" {
				username = config.Load().Bird.Username
			}
			// The mentions report looks ignored ids up by lowercased account.
			username = strings.ToLower(username)
			path := paths.BirdIgnorePath()
			store := bird.LoadIgnoreStore(path)
			store.Ignore(username, ids)
			if err := store.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ignored %d mention(s)\n", len(ids))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&ids, "id", nil, "mention id to ignore (repeatable)")
	cmd.Flags().StringVar(&username, "username", "", "account the ignore list belongs to")
	return cmd
}
