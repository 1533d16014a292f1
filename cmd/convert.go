// The convert command runs a URL or local file through the conversion
// engine and writes the result in the selected output format.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/convert"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/fetch"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/output"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/render"
)

// Flag variables.
var (
	flagPDF        bool
	flagMarkdown   bool
	flagJSON       bool
	flagEmbeddings bool
	flagModel      string
	flagChunkSize  int
	flagOutputDir  string
	flagExtension  string
	flagConfig     string
)

var convertCmd = &cobra.Command{
	Use:   "convert <url-or-path>",
	Short: "Convert a URL or local document to the specified output format",
	Long: `Convert fetches a URL or reads a local file, converts it to text, and
writes the result in the specified output format (PDF, Markdown, JSON,
or Embeddings). Supported inputs include HTML pages, PDF, DOCX, XLSX,
PPTX, XML, audio files and plain text.

Examples:
  kgot convert https://example.com --markdown
  kgot convert report.docx --json --output_dir ./out
  kgot convert https://example.com/paper.pdf --pdf
  kgot convert notes.md --embeddings --model nomic-embed-text`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Output format flags (mutually exclusive).
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	convertCmd.Flags().BoolVar(&flagEmbeddings, "embeddings", false, "Output embeddings")

	// Embedding-specific flags.
	convertCmd.Flags().StringVar(&flagModel, "model", "", "Embedding model (required with --embeddings)")
	convertCmd.Flags().IntVar(&flagChunkSize, "chunk_size", 512, "Word chunk size for embeddings")

	convertCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	convertCmd.Flags().StringVar(&flagExtension, "extension", "", "Override the file extension used to pick a converter")
	convertCmd.Flags().StringVar(&flagConfig, "config", "", "YAML config file (headers, cookies, endpoints)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	source := args[0]

	if err := validateFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}

	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	engine := convert.New(convert.Config{
		Logger:      slog.Default(),
		Fetcher:     fetch.New(cfg.fetchOptions()),
		AudioAPIKey: os.Getenv("OPENAI_API_KEY"),
	})

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := context.Background()
	res, err := engine.Convert(ctx, source, core.Hints{Extension: flagExtension, URL: source})
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	meta := core.SourceMeta{
		Source:    source,
		Title:     res.Title,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := renderer.Render(*res, meta)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	path, err := writer.Write(source, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}

// validateFlags checks that exactly one output format is chosen.
func validateFlags() error {
	formatCount := 0
	if flagPDF {
		formatCount++
	}
	if flagMarkdown {
		formatCount++
	}
	if flagJSON {
		formatCount++
	}
	if flagEmbeddings {
		formatCount++
	}

	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --pdf, --markdown, --json, or --embeddings")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	if flagEmbeddings && flagModel == "" {
		return fmt.Errorf("--model is required when using --embeddings")
	}

	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() (core.Renderer, error) {
	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagJSON:
		return render.NewJSONRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	case flagEmbeddings:
		return render.NewEmbeddingsRenderer(flagModel, flagChunkSize), nil
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}
