// Package cmd implements the CLI commands for SizePipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sizepipe",
	Short: "SizePipe — extract normalized size charts from product pages",
	Long: `SizePipe fetches an online-store product page, extracts its garment
size chart from HTML tables, embedded JSON, or free text, normalizes it
into a canonical measurement table, and writes Markdown, JSON, or PDF.

Usage:
  sizepipe extract <url> [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
