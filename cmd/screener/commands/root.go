package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Nifty 50 strategy screener",
	Long: `Nifty 50 Strategy Screener

Screens the Nifty 50 constituents against four investment strategies
(Quality, Growth, Value, Technical Momentum) using Yahoo Finance data.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener screen quality --max-de 1.0 --min-roe 0.15
  go run ./cmd/screener screen momentum --raw
  go run ./cmd/screener stock RELIANCE --days 90
  go run ./cmd/screener universe
  go run ./cmd/screener api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
