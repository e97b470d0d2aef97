package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Output helpers: tables and results go to stdout, progress and notes to stderr

// PrintHeader prints a formatted section header
func PrintHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintKeyValue prints one aligned header line
func PrintKeyValue(key, value string) {
	fmt.Printf("  %-10s: %s\n", key, value)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// progressPrinter rewrites one stderr line per fetched symbol
// Example: [Fetch] Analyzing RELIANCE [12/50]
func progressPrinter(w io.Writer) func(done, total int, symbol string) {
	return func(done, total int, symbol string) {
		fmt.Fprintf(w, "\r[Fetch] Analyzing %-12s [%d/%d]", symbol, done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
