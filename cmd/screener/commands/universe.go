package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/niftyscreen/internal/pipeline"
	"github.com/wonny/niftyscreen/internal/report"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "List the Nifty 50 constituents",
	Long: `Downloads the Nifty 50 constituent list from NSE, falling back to the
built-in default list when the download fails.

Example:
  go run ./cmd/screener universe`,
	Args: cobra.NoArgs,
	RunE: runUniverse,
}

func init() {
	rootCmd.AddCommand(universeCmd)
}

func runUniverse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	listing := a.runner.Universe(ctx)
	if listing.Fallback {
		PrintWarning(pipeline.FallbackWarning)
	}

	table := &report.Table{
		Title:   fmt.Sprintf("Nifty 50 constituents (%d)", len(listing.Constituents)),
		Headers: []string{"#", "Symbol", "Company Name"},
	}
	for i, c := range listing.Constituents {
		name := c.CompanyName
		if name == "" {
			name = report.NA
		}
		table.Rows = append(table.Rows, []string{fmt.Sprintf("%d", i+1), c.Symbol.String(), name})
	}

	return report.Render(os.Stdout, table)
}
