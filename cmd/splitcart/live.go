package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/browser"
)

func newLiveCmd(opts *rootOptions) *cobra.Command {
	var (
		flags    splitFlags
		cfg      browser.Config
		selector domain.LiveExtractRequest
	)

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Extract items from a tab of a running browser",
		Long: `Live attaches to a browser started with --remote-debugging-port and reads
one of its open tabs without navigating it. Without --people the extraction
result is printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := browser.NewClient(cfg, opts.logger)
			if err != nil {
				return err
			}
			result, err := opts.extraction().Extract(cmd.Context(), client.Source(selector))
			if err != nil {
				return err
			}

			if flags.people == "" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			session, err := flags.session(result)
			if err != nil {
				return err
			}
			return printSplit(cmd.OutOrStdout(), result, session)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&cfg.DebuggerURL, "debugger-url", "", "DevTools websocket URL (ws://127.0.0.1:9222/devtools/browser/...)")
	cmd.Flags().StringVar(&cfg.TargetURLContains, "match", "walmart.com", "Pick the first tab whose URL contains this")
	cmd.Flags().DurationVar(&cfg.RenderWait, "render-wait", 150*time.Millisecond, "Pause after load before sampling")
	cmd.Flags().StringVar(&selector.TargetID, "target", "", "Exact DevTools target id of the tab")
	_ = cmd.MarkFlagRequired("debugger-url")
	return cmd
}
