package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/dom"
)

// maxParallelFiles bounds concurrent snapshot parsing
const maxParallelFiles = 4

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Extract items from saved page snapshots as JSON",
		Long: `Extract parses each HTML snapshot and prints one extraction result per
file, in argument order. The page URL decides between cart and order-history
rules; pass --url when the snapshot was saved from an order page.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := extractFiles(cmd, opts, args, pageURL)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "URL the snapshots were saved from")
	return cmd
}

// extractFiles runs one extraction per file concurrently, keeping argument order
func extractFiles(cmd *cobra.Command, opts *rootOptions, files []string, pageURL string) ([]*domain.ExtractionResult, error) {
	svc := opts.extraction()
	results := make([]*domain.ExtractionResult, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelFiles)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			src := dom.StaticSource{HTML: string(data), URL: pageURL, MaxBytes: opts.maxBytes}
			res, err := svc.Extract(ctx, src)
			if err != nil {
				return fmt.Errorf("extract %s: %w", file, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
