// Package batch ties the pipeline together: parse, render, and optionally
// chunk one document, or fan a set of independent documents across a
// bounded worker pool. Workers share nothing mutable; the selector cache
// is the only cross-worker resource and it is read-only after its
// one-time construction, so the conversion path takes no locks.
package batch

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
	"github.com/ursisterbtw/markdown-lab-sub000/core/chunk"
	"github.com/ursisterbtw/markdown-lab-sub000/core/normalize"
	"github.com/ursisterbtw/markdown-lab-sub000/core/parse"
	"github.com/ursisterbtw/markdown-lab-sub000/core/render"
)

// Input is one raw HTML document plus the URL it was fetched from.
type Input struct {
	HTML    string
	BaseURL string
}

// Result is the per-input outcome of a batch conversion. Exactly one of
// Output and Err is set.
type Result struct {
	Output *core.ConversionOutput
	Err    error
}

// Options tunes ConvertMany. Workers defaults to the available
// parallelism.
type Options struct {
	Workers int
}

// testDelay, when set, stalls each worker before it processes its item.
// Only tests assign it, to exercise order preservation under randomized
// completion order.
var testDelay func(index int)

// Convert runs the full pipeline for a single input. It is the same code
// path ConvertMany uses per item, so single-document callers pay no
// batching overhead.
func Convert(ctx context.Context, in Input, req core.ConversionRequest) (*core.ConversionOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := parse.Parse(in.HTML, in.BaseURL)
	if err != nil {
		return nil, err
	}

	out := &core.ConversionOutput{}
	switch req.Format {
	case core.FormatJSON:
		out.Rendered, err = render.JSON(doc)
	case core.FormatXML:
		out.Rendered, err = render.XML(doc)
	default:
		out.Rendered = render.Markdown(doc)
		if out.Rendered == "" {
			// The classifier found nothing it could model; fall back to
			// direct HTML→Markdown conversion rather than emit nothing.
			out.Rendered = normalize.Fallback(in.HTML)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", req.Format, err)
	}

	if req.Chunk != nil {
		out.Chunks, err = chunk.Split(doc, chunk.Options{
			Size:    req.Chunk.Size,
			Overlap: req.Chunk.Overlap,
			Format:  req.Format,
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ConvertMany converts N independent inputs concurrently. The result slice
// is length- and order-preserving: result[i] always corresponds to
// inputs[i], whatever order workers finish in. One input's failure is
// captured in its slot and never cancels sibling work; cancellation of ctx
// marks not-yet-started items failed with the context's error.
func ConvertMany(ctx context.Context, inputs []Input, req core.ConversionRequest, opts Options) []Result {
	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i := range inputs {
		g.Go(func() error {
			if testDelay != nil {
				testDelay(i)
			}
			out, err := Convert(ctx, inputs[i], req)
			results[i] = Result{Output: out, Err: err}
			return nil
		})
	}
	// Workers never return errors; failures live in their result slots.
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Debug().
			Int("total", len(inputs)).
			Int("failed", failed).
			Msg("batch conversion finished with failures")
	}
	return results
}
