package core

import (
	"context"
	"strings"
	"time"
)

// Format selects the output rendering for a conversion.
type Format int

const (
	FormatMarkdown Format = iota
	FormatJSON
	FormatXML
)

// ParseFormat maps a format name to a Format. Unknown names fall back to
// Markdown, the canonical format.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "xml":
		return FormatXML
	default:
		return FormatMarkdown
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatXML:
		return "xml"
	default:
		return "markdown"
	}
}

// Extension returns the file extension for outputs in this format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatXML:
		return ".xml"
	default:
		return ".md"
	}
}

// ChunkSpec carries the chunking parameters of a conversion request.
// Size and Overlap are measured in bytes of rendered text.
type ChunkSpec struct {
	Size    int
	Overlap int
}

// ConversionRequest describes what a caller wants out of one input:
// the rendered format, and optionally retrieval-sized chunks.
type ConversionRequest struct {
	Format Format
	Chunk  *ChunkSpec
}

// ConversionOutput is the per-input result of a conversion.
type ConversionOutput struct {
	Rendered string
	Chunks   []Chunk
}

// FetchResult holds raw HTML and response metadata from a fetch.
// FinalURL is the URL after redirects; conversions use it as the document
// base URL.
type FetchResult struct {
	URL        string
	FinalURL   string
	StatusCode int
	HTML       string
	FetchedAt  time.Time
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}
