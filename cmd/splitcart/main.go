// Command splitcart extracts cart and order items from saved pages or an open
// browser tab and splits the cost between people.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/logging"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/usecase"
)

// rootOptions are flags shared by every subcommand
type rootOptions struct {
	logLevel string
	maxDepth int
	timeout  time.Duration
	maxBytes int64

	logger *zap.Logger
}

func (o *rootOptions) extraction() *usecase.ExtractionService {
	return usecase.NewExtractionService(usecase.ExtractionServiceConfig{
		Timeout:          o.timeout,
		MaxAncestorDepth: o.maxDepth,
	}, o.logger)
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "splitcart",
		Short:         "Extract cart items from a page and split the cost",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewTo(opts.logLevel, logging.FormatConsole, "stderr")
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.IntVar(&opts.maxDepth, "max-depth", usecase.DefaultMaxAncestorDepth, "Ancestor levels to climb from a title")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "Per-document extraction timeout")
	flags.Int64Var(&opts.maxBytes, "max-bytes", 10<<20, "Largest snapshot accepted, in bytes")

	root.AddCommand(
		newExtractCmd(opts),
		newSplitCmd(opts),
		newLiveCmd(opts),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
