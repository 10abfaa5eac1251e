// estimate computes proposal totals for a JSON file of line items.
//
// Usage:
//
//	estimate --file items.json [--format table|json|debug] [--currency-symbol $]
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/flexprice/proposals/internal/api/dto"
	"github.com/flexprice/proposals/internal/domain/invoice"
	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/types"
	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "estimate",
		Usage:   "Compute one-time and recurring totals for proposal line items",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to a JSON array of line items, - reads stdin",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"o"},
				Value:   "table",
				Usage:   "Output format (table, json, debug)",
			},
			&cli.StringFlag{
				Name:    "currency-symbol",
				Value:   "$",
				Usage:   "Currency symbol used in table output",
				EnvVars: []string{"PROPOSALS_CURRENCY_SYMBOL"},
			},
			&cli.StringFlag{
				Name:  "symbol-position",
				Value: string(types.SymbolPositionLeft),
				Usage: "Currency symbol position (left, right)",
			},
		},
		Action: runEstimate,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runEstimate(c *cli.Context) error {
	rows, err := readRows(c.String("file"))
	if err != nil {
		return err
	}

	items := lineitem.FromRaw(rows)
	if skipped := len(rows) - len(items); skipped > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d line items with an unknown type\n", skipped)
	}

	totals := invoice.ComputeTotals(items)

	f := invoice.DefaultFormatter()
	f.Symbol = c.String("currency-symbol")
	f.SymbolPosition = types.SymbolPosition(c.String("symbol-position"))

	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewTotalsResponse(totals, f))
	case "debug":
		_, err := pp.Println(totals)
		return err
	case "table":
		return outputTable(os.Stdout, totals, f)
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
}

func readRows(path string) ([]lineitem.Raw, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open line items: %w", err)
		}
		defer file.Close()
		r = file
	}

	var rows []lineitem.Raw
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to parse line items: %w", err)
	}
	return rows, nil
}

func outputTable(w io.Writer, totals *invoice.Totals, f *invoice.Formatter) error {
	display := f.FormatTotals(totals)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tTYPE\tSUBTOTAL\tRENEWS ON")
	for i, row := range totals.Rows {
		renews := ""
		if row.RenewsOn != nil {
			renews = row.RenewsOn.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Name, row.Type, display.Rows[i].Subtotal, renews)
	}
	fmt.Fprintln(tw, "\t\t\t")
	fmt.Fprintf(tw, "One-time total\t\t%s\t\n", display.OneTimeTotal)
	for _, cycle := range display.RecurringTotals {
		fmt.Fprintf(tw, "Recurring (%s)\t\t%s\t\n", cycle.Key, cycle.Total)
	}
	fmt.Fprintf(tw, "Average monthly\t\t%s\t\n", display.AverageMonthlyTotal)
	fmt.Fprintf(tw, "Average yearly\t\t%s\t\n", display.AverageYearlyTotal)
	return tw.Flush()
}
