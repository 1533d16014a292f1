// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kgot",
	Short: "Convert documents to text and browse the web as text",
	Long: `kgot converts URLs and local documents (HTML, PDF, Office files,
audio, XML) into Markdown, PDF, JSON, or Embeddings, and provides a
text-mode browser with search, pagination, and on-page find.

Usage:
  kgot convert <url-or-path> [flags]
  kgot browse <uri> [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
