// Package cmd — convert command.
// Orchestrates the pipeline: fetch → parse → render → write, with
// optional chunking and an --all mode that discovers and converts every
// internal page of a site.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
	"github.com/ursisterbtw/markdown-lab-sub000/core/batch"
	"github.com/ursisterbtw/markdown-lab-sub000/core/fetch"
	"github.com/ursisterbtw/markdown-lab-sub000/core/output"
	"github.com/ursisterbtw/markdown-lab-sub000/core/parse"
	"github.com/ursisterbtw/markdown-lab-sub000/core/render"
	"github.com/ursisterbtw/markdown-lab-sub000/crawl"
)

// Flag variables.
var (
	flagAll          bool
	flagMarkdown     bool
	flagJSON         bool
	flagXML          bool
	flagPDF          bool
	flagChunk        bool
	flagChunkSize    int
	flagChunkOverlap int
	flagWorkers      int
	flagOutputDir    string
)

var convertCmd = &cobra.Command{
	Use:   "convert <url>",
	Short: "Convert a URL to the specified output format",
	Long: `Convert fetches a web page, parses it into a structured document model,
and renders the specified output format (Markdown, JSON, XML, or PDF).

Examples:
  markdown-lab convert https://example.com --markdown
  markdown-lab convert https://example.com --json --output_dir ./out
  markdown-lab convert https://example.com --markdown --chunk --chunk-size 1000
  markdown-lab convert https://example.com --all --xml --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&flagAll, "all", false, "Convert all discovered internal pages")

	// Output format flags (mutually exclusive).
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	convertCmd.Flags().BoolVar(&flagXML, "xml", false, "Output XML")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")

	// Chunking flags.
	convertCmd.Flags().BoolVar(&flagChunk, "chunk", false, "Also write retrieval-sized chunks as JSON Lines")
	convertCmd.Flags().IntVar(&flagChunkSize, "chunk-size", 1000, "Maximum chunk size in bytes")
	convertCmd.Flags().IntVar(&flagChunkOverlap, "chunk-overlap", 200, "Overlap between consecutive chunks in bytes")

	convertCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Worker count for --all (default: number of CPUs)")
	convertCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	if err := validateFlags(); err != nil {
		return err
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", rawURL)
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	req := core.ConversionRequest{Format: selectFormat()}
	if flagChunk {
		req.Chunk = &core.ChunkSpec{Size: flagChunkSize, Overlap: flagChunkOverlap}
	}

	fetcher := fetch.New()
	ctx := context.Background()

	if flagAll {
		return runAll(ctx, rawURL, fetcher, req, writer)
	}
	return runSingle(ctx, rawURL, fetcher, req, writer)
}

// runSingle converts one URL and writes the result with a flat,
// domain-derived filename.
func runSingle(ctx context.Context, rawURL string, fetcher core.Fetcher, req core.ConversionRequest, writer *output.Writer) error {
	result, err := fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	if flagPDF {
		data, err := renderPDF(result.HTML, result.FinalURL)
		if err != nil {
			return err
		}
		path, err := writer.WritePage(rawURL, data, ".pdf")
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
		return nil
	}

	out, err := batch.Convert(ctx, batch.Input{HTML: result.HTML, BaseURL: result.FinalURL}, req)
	if err != nil {
		return err
	}

	path, err := writer.WritePage(rawURL, []byte(out.Rendered), req.Format.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)

	if req.Chunk != nil {
		chunkPath, err := writer.WriteChunks(rawURL, out.Chunks)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✓ Written: %s (%d chunks)\n", chunkPath, len(out.Chunks))
	}
	return nil
}

// runAll discovers all internal pages, converts them across the worker
// pool, and writes each result under a path mirroring the URL structure.
func runAll(ctx context.Context, rawURL string, fetcher core.Fetcher, req core.ConversionRequest, writer *output.Writer) error {
	fmt.Fprintf(os.Stdout, "Discovering pages from %s...\n", rawURL)

	urls, err := crawl.DiscoverAll(ctx, rawURL, fetcher)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Found %d pages to process\n", len(urls))

	// Fetch sequentially; the site sets the pace. Conversion is the
	// CPU-bound part and runs across the pool below.
	var inputs []batch.Input
	var pageURLs []string
	for _, pageURL := range urls {
		result, err := fetcher.Fetch(ctx, pageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Fetch error for %s: %v\n", pageURL, err)
			continue
		}
		inputs = append(inputs, batch.Input{HTML: result.HTML, BaseURL: result.FinalURL})
		pageURLs = append(pageURLs, pageURL)
	}

	if flagPDF {
		return writeAllPDF(inputs, pageURLs, writer)
	}

	results := batch.ConvertMany(ctx, inputs, req, batch.Options{Workers: flagWorkers})

	var errCount int
	for i, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error for %s: %v\n", pageURLs[i], res.Err)
			errCount++
			continue
		}
		path, err := writer.WriteMirrored(pageURLs[i], []byte(res.Output.Rendered), req.Format.Extension())
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s\n", path)

		if req.Chunk != nil {
			chunkPath, err := writer.WriteChunks(pageURLs[i], res.Output.Chunks)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  ✗ Write error: %v\n", err)
				errCount++
				continue
			}
			fmt.Fprintf(os.Stdout, "  ✓ Written: %s (%d chunks)\n", chunkPath, len(res.Output.Chunks))
		}
	}

	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d pages failed\n", errCount, len(inputs))
	}
	return nil
}

// writeAllPDF renders each page to PDF sequentially. PDF generation does
// not go through the batch pool; its renderer is not part of the string
// pipeline.
func writeAllPDF(inputs []batch.Input, pageURLs []string, writer *output.Writer) error {
	var errCount int
	for i, in := range inputs {
		data, err := renderPDF(in.HTML, in.BaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error for %s: %v\n", pageURLs[i], err)
			errCount++
			continue
		}
		path, err := writer.WriteMirrored(pageURLs[i], data, ".pdf")
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s\n", path)
	}
	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d pages failed\n", errCount, len(inputs))
	}
	return nil
}

// renderPDF parses HTML and renders a PDF document.
func renderPDF(html string, baseURL string) ([]byte, error) {
	doc, err := parse.Parse(html, baseURL)
	if err != nil {
		return nil, err
	}
	stats := doc.Stats()
	log.Debug().
		Int("headings", stats.Headings).
		Int("paragraphs", stats.Paragraphs).
		Msg("rendering PDF")
	return render.PDF(doc)
}

// validateFlags checks that exactly one output format is chosen and that
// chunking is not combined with PDF output.
func validateFlags() error {
	formatCount := 0
	for _, set := range []bool{flagMarkdown, flagJSON, flagXML, flagPDF} {
		if set {
			formatCount++
		}
	}
	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --markdown, --json, --xml, or --pdf")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	if flagChunk && flagPDF {
		return fmt.Errorf("--chunk cannot be combined with --pdf")
	}
	return nil
}

// selectFormat maps format flags to a core.Format. PDF is handled
// separately; the default is Markdown.
func selectFormat() core.Format {
	switch {
	case flagJSON:
		return core.FormatJSON
	case flagXML:
		return core.FormatXML
	default:
		return core.FormatMarkdown
	}
}
