// The browse command navigates the text browser to a URI and prints the viewport. With
// --interactive, a small REPL drives pagination, find and navigation.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adsharma/knowledge-graph-of-thoughts/browser"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/fetch"
)

var (
	flagFind        bool
	flagFindQuery   string
	flagYear        int
	flagInteractive bool
	flagDownloads   string
	flagBrowseCfg   string
)

var browseCmd = &cobra.Command{
	Use:   "browse <uri>",
	Short: "Visit a page in the text browser and print the viewport",
	Long: `Browse navigates the text browser to the given address and prints the
first viewport. Addresses may be http(s) URLs, file:// URIs, local
paths relative to the previous page, or "search:<query>" to run a web
search.

Examples:
  kgot browse https://example.com
  kgot browse "search:golang text browser" --year 2024
  kgot browse https://example.com --find --query "pricing"
  kgot browse https://example.com --interactive`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().BoolVar(&flagFind, "find", false, "Find the query on the page after visiting")
	browseCmd.Flags().StringVar(&flagFindQuery, "query", "", "Query for --find")
	browseCmd.Flags().IntVar(&flagYear, "year", 0, "Restrict search results to a year (search: addresses only)")
	browseCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "Start an interactive browsing session")
	browseCmd.Flags().StringVar(&flagDownloads, "downloads", "", "Downloads folder (default: working directory)")
	browseCmd.Flags().StringVar(&flagBrowseCfg, "config", "", "YAML config file (headers, cookies, endpoints)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(flagBrowseCfg)
	if err != nil {
		return err
	}
	downloads := flagDownloads
	if downloads == "" {
		downloads = cfg.DownloadsFolder
	}
	if downloads == "" {
		downloads, _ = os.Getwd()
	}

	b := browser.New(browser.Config{
		ViewportSize:    cfg.ViewportSize,
		DownloadsFolder: downloads,
		SearxURL:        cfg.SearxURL,
		Logger:          slog.Default(),
		Fetcher:         fetch.New(cfg.fetchOptions()),
	})

	ctx := context.Background()
	viewport := b.VisitPage(ctx, args[0], flagYear)

	if flagFind && flagFindQuery != "" {
		found, ok := b.FindOnPage(flagFindQuery)
		if !ok {
			fmt.Fprintf(os.Stderr, "no match for %q\n", flagFindQuery)
		} else {
			viewport = found
		}
	}

	printViewport(b, viewport)

	if flagInteractive {
		return repl(ctx, b)
	}
	return nil
}

// printViewport shows the page header and viewport content.
func printViewport(b *browser.Browser, viewport string) {
	title := b.PageTitle()
	if title == "" {
		title = b.Address()
	}
	fmt.Printf("=== %s [%d/%d] ===\n%s\n", title, b.CurrentViewport()+1, b.ViewportCount(), viewport)
}

// repl reads commands from stdin until quit or EOF.
func repl(ctx context.Context, b *browser.Browser) error {
	fmt.Println("commands: down, up, find <query>, next, visit <uri>, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
			continue
		case "quit", "q", "exit":
			return nil
		case "down":
			b.PageDown()
			printViewport(b, b.Viewport())
		case "up":
			b.PageUp()
			printViewport(b, b.Viewport())
		case "find":
			if viewport, ok := b.FindOnPage(arg); ok {
				printViewport(b, viewport)
			} else {
				fmt.Println("no match")
			}
		case "next":
			if viewport, ok := b.FindNext(); ok {
				printViewport(b, viewport)
			} else {
				fmt.Println("no further matches")
			}
		case "visit":
			printViewport(b, b.VisitPage(ctx, arg, 0))
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}
