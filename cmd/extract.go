// Package cmd — extract command.
// Orchestrates the pipeline for one product URL:
// fetch → extract → standardize → align → render → write,
// optionally fetching the product and size-chart images alongside.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/daye-p/sizepipe/config"
	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/fetch"
	"github.com/daye-p/sizepipe/core/output"
	"github.com/daye-p/sizepipe/core/pipeline"
	"github.com/daye-p/sizepipe/core/render"
	"github.com/daye-p/sizepipe/logging"
	"github.com/spf13/cobra"
)

// Flag variables.
var (
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagImages    bool
	flagOptions   string
	flagOutputDir string
	flagVerbose   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract the size chart from a product page",
	Long: `Extract fetches a product page, finds its garment size chart, normalizes
it into a canonical measurement table, and writes the chosen output format.

Examples:
  sizepipe extract https://shop.example.com/item/42 --markdown
  sizepipe extract https://shop.example.com/item/42 --json --output_dir ./out
  sizepipe extract https://shop.example.com/item/42 --pdf --images
  sizepipe extract https://shop.example.com/item/42 --markdown --options "S,M,L"`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Output format flags (mutually exclusive).
	extractCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	extractCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	extractCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")

	extractCmd.Flags().BoolVar(&flagImages, "images", false, "Also fetch the product and size-chart images")
	extractCmd.Flags().StringVar(&flagOptions, "options", "", "Known size options, comma-separated (e.g. \"S,M,L\")")
	extractCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	extractCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

func runExtract(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	if err := validateFlags(); err != nil {
		return err
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://shop.example.com/item/42)", rawURL)
	}

	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	cfg := config.LoadOrDefault()
	if flagVerbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		log = logging.NewDefault()
	}
	defer log.Sync()

	client := fetch.New(
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithLogger(log),
	)

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	req := pipeline.Request{
		SizeOptions: splitOptions(flagOptions),
		WithImages:  flagImages,
		Product:     constraintsFor(cfg.Product),
		Chart:       constraintsFor(cfg.Chart),
	}

	ctx := context.Background()
	res, err := pipeline.New(client, log).FromURL(ctx, rawURL, req)
	if err != nil {
		return err
	}
	if res.Table == nil {
		return fmt.Errorf("no size chart found on %s", rawURL)
	}

	data, err := renderer.Render(*res.Table, res.Meta)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	path, err := writer.Write(rawURL, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)

	writeImage(writer, rawURL, "product", res.Product)
	writeImage(writer, rawURL, "chart", res.Chart)
	return nil
}

// writeImage stores one fetched image, reporting but not failing on
// write errors so the table output always survives.
func writeImage(writer *output.Writer, rawURL, role string, img *core.ImagePayload) {
	if img == nil {
		return
	}
	path, err := writer.WriteImage(rawURL, role, img.MIMEType, img.Bytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Writing %s image: %v\n", role, err)
		return
	}
	fmt.Fprintf(os.Stdout, "✓ Written %s image: %s\n", role, path)
}

// splitOptions parses the --options flag into trimmed size labels.
func splitOptions(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// constraintsFor maps a configured image rule onto fetch constraints.
func constraintsFor(rule config.ImageRule) fetch.ImageConstraints {
	return fetch.ImageConstraints{
		MinBytes:       rule.MinBytes,
		MaxBytes:       rule.MaxBytes,
		MinWidth:       rule.MinWidth,
		MinHeight:      rule.MinHeight,
		MaxAspectRatio: rule.MaxAspectRatio,
		MaxAttempts:    rule.MaxAttempts,
	}
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

	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --pdf, --markdown, or --json")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
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
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}
