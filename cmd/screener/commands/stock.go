package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/internal/report"
)

// stockCmd represents the stock command
var stockCmd = &cobra.Command{
	Use:   "stock <symbol>",
	Short: "Show fundamentals and indicator series of one stock",
	Long: `Detailed view of a single stock: headline fundamentals plus the daily
close, 50/200-day SMA, 14-day RSI and volume series.

Example:
  go run ./cmd/screener stock RELIANCE
  go run ./cmd/screener stock TCS.NS --days 30 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runStock,
}

var (
	stockDays int
	stockJSON bool
)

func init() {
	rootCmd.AddCommand(stockCmd)

	stockCmd.Flags().IntVar(&stockDays, "days", 20, "trading days of series to show (0 for all)")
	stockCmd.Flags().BoolVar(&stockJSON, "json", false, "print the detail as JSON")
}

func runStock(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	symbol := contracts.NormalizeSymbol(args[0], a.cfg.Universe.SymbolSuffix)
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	snap, err := a.runner.Stock(ctx, symbol)
	if err != nil {
		return err
	}

	detail := report.Detail(snap, stockDays)
	if stockJSON {
		return printJSON(detail)
	}

	summary := detail.Summary()
	PrintHeader(summary.Title)
	summary.Title = ""
	if err := report.Render(os.Stdout, summary); err != nil {
		return err
	}

	fmt.Println()
	return report.Render(os.Stdout, detail.SeriesTable())
}
