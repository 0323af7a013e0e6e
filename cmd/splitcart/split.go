package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/usecase"
)

// splitFlags are shared by split and live
type splitFlags struct {
	people string
	tax    string
}

func (f *splitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.people, "people", "", `Comma separated names, the first is "me"`)
	cmd.Flags().StringVar(&f.tax, "tax", "0", "Tax rate in percent")
}

// session builds the initial split of an extraction result
func (f *splitFlags) session(result *domain.ExtractionResult) (*domain.SplitSession, error) {
	people := usecase.ParsePeople(f.people)
	if err := usecase.ValidatePeople(people, 0); err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(f.tax))
	if err != nil {
		return nil, fmt.Errorf("%w: tax rate %q", domain.ErrInvalidRequest, f.tax)
	}
	if rate.IsNegative() {
		return nil, domain.ErrNegativeTaxRate
	}
	return usecase.NewSplitState(people, rate, result), nil
}

func newSplitCmd(opts *rootOptions) *cobra.Command {
	var (
		flags   splitFlags
		pageURL string
	)

	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Extract items from a snapshot and split them evenly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := extractFiles(cmd, opts, args, pageURL)
			if err != nil {
				return err
			}
			session, err := flags.session(results[0])
			if err != nil {
				return err
			}
			return printSplit(cmd.OutOrStdout(), results[0], session)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&pageURL, "url", "", "URL the snapshot was saved from")
	_ = cmd.MarkFlagRequired("people")
	return cmd
}

// printSplit renders items at cent precision and shares at 3 digits
func printSplit(out io.Writer, result *domain.ExtractionResult, s *domain.SplitSession) error {
	alloc := usecase.AllocateSession(s)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Items (%s, %d found)\n", result.View, len(s.Items))
	for _, it := range s.Items {
		line, after := usecase.ItemLines(it.ExtractedRecord, s.TaxRate)
		fmt.Fprintf(w, "  %s\tx%d\t%s\t%s\t%s\n", it.Title, it.Qty, usecase.Dollars2(it.UnitPrice), usecase.Dollars2(line), usecase.Dollars2(after))
	}
	fmt.Fprintf(w, "\nTax rate\t%s%%\n", s.TaxRate.String())
	fmt.Fprintf(w, "Shipping\t%s\n", usecase.Dollars3(alloc.Shipping))
	fmt.Fprintf(w, "Discount\t%s\n", usecase.Dollars3(alloc.Discount))
	fmt.Fprintf(w, "\nPerson\tItems\tTax\tOther\tTotal\n")
	for _, sh := range alloc.Shares {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", sh.Person,
			usecase.Dollars3(sh.Pre), usecase.Dollars3(sh.Tax), usecase.Dollars3(sh.Other), usecase.Dollars3(sh.Total))
	}
	fmt.Fprintf(w, "Grand total\t\t\t\t%s\n", usecase.Dollars3(alloc.GrandTotal))
	return w.Flush()
}
