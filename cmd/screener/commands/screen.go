package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/internal/report"
	"github.com/wonny/niftyscreen/internal/strategy"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen <strategy>",
	Short: "Screen the Nifty 50 with a strategy",
	Long: `Fetches every Nifty 50 constituent, computes indicators and ranks the
stocks passing the chosen strategy (top 15).

Strategies:
  quality   - Debt to Equity <= max-de and ROE >= min-roe, sorted by ROE
  growth    - Revenue Growth > 15%, sorted by revenue growth
  value     - 0 < P/E < 25 and 0 < P/B < 3, sorted by P/E ascending
  momentum  - Price > SMA50 > SMA200 and RSI < 75, sorted by RSI

Example:
  go run ./cmd/screener screen quality --max-de 1.0 --min-roe 0.18
  go run ./cmd/screener screen value --raw
  go run ./cmd/screener screen momentum --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScreen,
}

var (
	screenMaxDE  float64
	screenMinROE float64
	screenLimit  int
	screenRaw    bool
	screenJSON   bool
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().Float64Var(&screenMaxDE, "max-de", 0, "quality: maximum debt to equity ratio, 0-5 (default from config, 1.5)")
	screenCmd.Flags().Float64Var(&screenMinROE, "min-roe", 0, "quality: minimum return on equity as a fraction, 0-0.50 (default from config, 0.12)")
	screenCmd.Flags().IntVar(&screenLimit, "limit", 0, "maximum rows, 1-15 (default from config, 15)")
	screenCmd.Flags().BoolVar(&screenRaw, "raw", false, "also print the unfiltered inputs of the strategy")
	screenCmd.Flags().BoolVar(&screenJSON, "json", false, "print the result as JSON")
}

func runScreen(cmd *cobra.Command, args []string) error {
	name, err := strategy.Parse(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	params := a.defaults
	if cmd.Flags().Changed("max-de") {
		params.MaxDebtToEquity = screenMaxDE
	}
	if cmd.Flags().Changed("min-roe") {
		params.MinROE = screenMinROE
	}
	if cmd.Flags().Changed("limit") {
		params.MaxResults = screenLimit
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	progress := progressPrinter(os.Stderr)
	collection, err := a.runner.Collect(ctx, func(done, total int, sym contracts.Symbol) {
		if !screenJSON {
			progress(done, total, sym.String())
		}
	})
	if err != nil {
		PrintWarning("Could not fetch data for any stocks. Please try again later.")
		return err
	}

	rep, err := a.runner.Evaluate(collection, name, params)
	if err != nil {
		return err
	}

	if screenJSON {
		return printJSON(rep)
	}

	for _, w := range rep.Warnings {
		PrintWarning(w)
	}

	desc := rep.Description
	PrintHeader(fmt.Sprintf("%s: %s", desc.Title, desc.Summary))
	PrintKeyValue("Criteria", desc.Criteria)
	PrintKeyValue("Sorted by", desc.SortedBy)
	PrintKeyValue("Matched", fmt.Sprintf("%d of %d stocks", rep.Result.Matched, rep.Result.Evaluated))
	PrintSeparator()

	if screenRaw {
		raw, err := report.RawData(collection.Dataset, name)
		if err != nil {
			return err
		}
		fmt.Println()
		if err := report.Render(os.Stdout, raw); err != nil {
			return err
		}
	}

	if rep.Notice != "" {
		fmt.Println()
		PrintInfo(rep.Notice)
		return nil
	}

	table, err := report.Results(rep.Result)
	if err != nil {
		return err
	}
	fmt.Println()
	return report.Render(os.Stdout, table)
}
