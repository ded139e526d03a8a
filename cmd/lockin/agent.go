package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/lockin/internal/agent"
	"github.com/Veraticus/lockin/internal/cli"
	"github.com/Veraticus/lockin/internal/config"
	"github.com/Veraticus/lockin/internal/model"
	"github.com/Veraticus/lockin/internal/youtube"
)

func agentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run and control the local blocking agent",
		Long: `The agent keeps a local copy of your focus preferences, syncs it from the
server, blocks navigation to distracting sites and stops blocked videos.`,
	}

	cmd.PersistentFlags().String("api-url", "", "LockIn server URL (default http://localhost:3000)")
	_ = viper.BindPFlag("agent.api_url", cmd.PersistentFlags().Lookup("api-url"))

	cmd.AddCommand(agentRunCmd())
	cmd.AddCommand(agentLinkCmd())
	cmd.AddCommand(agentSyncCmd())
	cmd.AddCommand(agentStatusCmd())
	cmd.AddCommand(agentFocusCmd())
	cmd.AddCommand(agentListCmd("allow", "Add a domain to the whitelist", (*model.FocusPreferences).AddWhitelist))
	cmd.AddCommand(agentListCmd("unallow", "Remove a domain from the whitelist", (*model.FocusPreferences).RemoveWhitelist))
	cmd.AddCommand(agentListCmd("block", "Add a domain to the blacklist", (*model.FocusPreferences).AddBlacklist))
	cmd.AddCommand(agentListCmd("unblock", "Remove a domain from the blacklist", (*model.FocusPreferences).RemoveBlacklist))
	cmd.AddCommand(agentCategoryCmd())
	cmd.AddCommand(agentCheckCmd())
	cmd.AddCommand(agentWatchCmd())

	return cmd
}

func openAgent(ctx context.Context) (*agent.Agent, config.AgentConfig, error) {
	cfg := config.LoadAgentConfig(viper.GetViper())
	a, err := agent.New(ctx, agent.Config{
		APIURL:          cfg.APIURL,
		StatePath:       cfg.StatePath,
		SyncInterval:    cfg.SyncInterval,
		EnforceInterval: cfg.EnforceInterval,
	}, slog.Default())
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to open agent state: %w", err)
	}
	return a, cfg, nil
}

func agentRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sync preferences and serve the loopback bridge until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cfg, err := openAgent(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cli.NewInterruptHandler(cmd.ErrOrStderr()).HandleInterrupts(cmd.Context(), "")
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				a.Syncer.Run(ctx)
			}()

			err = agent.NewBridge(a, slog.Default()).Serve(ctx, cfg.BridgeAddr)
			cancel()
			wg.Wait()
			return err
		},
	}
	cmd.Flags().String("bridge-addr", "", "loopback address for page scripts (default 127.0.0.1:7878)")
	_ = viper.BindPFlag("agent.bridge_addr", cmd.Flags().Lookup("bridge-addr"))
	return cmd
}

func agentLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <sync-token>",
		Short: "Link the agent to an account and pull its preferences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, _, err := openAgent(ctx)
			if err != nil {
				return err
			}

			if err := a.State.SetSyncToken(ctx, strings.TrimSpace(args[0])); err != nil {
				return err
			}
			if session, _ := cmd.Flags().GetString("session"); session != "" {
				if err := a.State.SetSessionToken(ctx, session); err != nil {
					return err
				}
			}

			if _, err := a.Syncer.SyncOnce(ctx); err != nil {
				return fmt.Errorf("linked, but the first sync failed: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Agent linked and preferences synced"))
			return err
		},
	}
	cmd.Flags().String("session", "", "session token used to report blocked navigations")
	return cmd
}

func agentSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull preferences from the server once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openAgent(cmd.Context())
			if err != nil {
				return err
			}
			synced, err := a.Syncer.SyncOnce(cmd.Context())
			if err != nil {
				return err
			}
			msg := cli.FormatSuccess("Preferences synced")
			if !synced {
				msg = cli.FormatWarning("Agent is not linked; run lockin agent link <sync-token>")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
}

func agentStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the agent's preferences and counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, cfg, err := openAgent(ctx)
			if err != nil {
				return err
			}
			prefs, err := a.State.Preferences(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderStatus(cli.AgentStatus{
				LastSyncAt:   a.State.LastSyncAt(),
				APIURL:       cfg.APIURL,
				Preferences:  prefs,
				BlockedToday: a.State.BlockedToday(),
				Linked:       a.State.SyncToken() != "",
			}))
			return err
		},
	}
}

func agentFocusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "focus on|off",
		Short:     "Turn focus mode on or off",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch args[0] {
			case "on":
				enabled = true
			case "off":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			return updateAgentPreferences(cmd, func(p *model.FocusPreferences) {
				p.FocusModeEnabled = enabled
			})
		},
	}
}

func agentListCmd(use, short string, apply func(*model.FocusPreferences, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <domain>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateAgentPreferences(cmd, func(p *model.FocusPreferences) {
				apply(p, args[0])
			})
		},
	}
}

func agentCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category <name>",
		Short: "Toggle whether videos of a category are blocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := model.ParseCategory(args[0])
			if err != nil {
				return err
			}
			return updateAgentPreferences(cmd, func(p *model.FocusPreferences) {
				p.ToggleCategory(category)
			})
		},
	}
}

// updateAgentPreferences edits the local preferences through the message bus
// and prints the result.
func updateAgentPreferences(cmd *cobra.Command, fn func(*model.FocusPreferences)) error {
	ctx := cmd.Context()
	a, _, err := openAgent(ctx)
	if err != nil {
		return err
	}

	current, err := a.State.Preferences(ctx)
	if err != nil {
		return err
	}
	fn(&current)

	if _, err := a.Bus.Dispatch(ctx, agent.UpdatePreferences{Preferences: current}); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderPreferences(current))
	return err
}

func agentCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <url>",
		Short: "Report whether a URL would be blocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := openAgent(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := a.Bus.Dispatch(cmd.Context(), agent.CheckURL{URL: args[0]})
			if err != nil {
				return err
			}
			check, ok := resp.(agent.CheckURLResponse)
			if !ok {
				return fmt.Errorf("unexpected response %T", resp)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderDecision(args[0], check.ShouldBlock))
			return err
		},
	}
}

func agentWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <video-url>",
		Short: "Classify a video through the server and enforce the verdict on a headless player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cfg, err := openAgent(ctx)
			if err != nil {
				return err
			}

			page := youtube.NewPageSource()
			title, _ := cmd.Flags().GetString("title")
			channel, _ := cmd.Flags().GetString("channel")
			description, _ := cmd.Flags().GetString("description")
			page.Put(youtube.Metadata{
				VideoID:     youtube.VideoID(args[0]),
				Title:       title,
				ChannelName: channel,
				Description: description,
			})

			sources := youtube.Chain{}
			if cfg.YouTubeKey != "" {
				api, err := youtube.NewDataAPISource(ctx, cfg.YouTubeKey)
				if err != nil {
					return err
				}
				if title == "" {
					sources = append(sources, api)
				}
			}
			sources = append(sources, page)

			watcher := agent.NewVideoWatcher(a.Bus, a.Engine, sources, agent.NewLogPlayer(slog.Default()), slog.Default())
			defer watcher.Close()

			category, err := watcher.Observe(ctx, args[0])
			if err != nil {
				return err
			}
			if category == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Video allowed"))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatError("Video blocked: "+string(category)))
			return err
		},
	}

	cmd.Flags().String("title", "", "video title (skips the YouTube Data API)")
	cmd.Flags().String("channel", "", "channel name")
	cmd.Flags().String("description", "", "video description")

	return cmd
}
