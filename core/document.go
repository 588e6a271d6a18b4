// Package core defines the shared document model and contracts for the
// conversion pipeline. A Document is the normalized, format-agnostic
// representation of one parsed HTML input; it is immutable once returned
// by the parser, so renderers and the chunker can read it concurrently.
package core

// Document is the normalized model produced by parsing one HTML input.
// Blocks preserve document order end-to-end through rendering and chunking.
type Document struct {
	Title   string  `json:"title,omitempty"`
	BaseURL string  `json:"base_url"`
	Blocks  []Block `json:"blocks"`
}

// BlockKind discriminates the Block variants.
type BlockKind string

const (
	KindHeading    BlockKind = "heading"
	KindParagraph  BlockKind = "paragraph"
	KindList       BlockKind = "list"
	KindBlockquote BlockKind = "blockquote"
	KindCode       BlockKind = "code"
	KindLink       BlockKind = "link"
	KindImage      BlockKind = "image"
	KindTable      BlockKind = "table"
)

// Block is one structural unit of a Document. Only the fields relevant to
// its Kind are set; every Href/Src is an absolute URL, resolved exactly
// once during parsing.
type Block struct {
	Kind BlockKind `json:"kind"`

	// heading
	Level int `json:"level,omitempty"`

	// heading, paragraph, blockquote, code, link
	Text string `json:"text,omitempty"`

	// list
	Ordered bool     `json:"ordered,omitempty"`
	Items   []string `json:"items,omitempty"`

	// code
	Language string `json:"language,omitempty"`

	// link
	Href string `json:"href,omitempty"`

	// image
	Alt string `json:"alt,omitempty"`
	Src string `json:"src,omitempty"`

	// table
	Header []string   `json:"header,omitempty"`
	Rows   [][]string `json:"rows,omitempty"`
}

// Chunk is a bounded-length slice of rendered content sized for retrieval
// use. HeadingPath is the stack of enclosing headings at the point the
// chunk begins.
type Chunk struct {
	Index       int      `json:"index"`
	Text        string   `json:"text"`
	HeadingPath []string `json:"heading_path,omitempty"`
	SourceURL   string   `json:"source_url"`
}

// Stats summarizes the structural makeup of a Document.
type Stats struct {
	Headings   int `json:"headings"`
	Paragraphs int `json:"paragraphs"`
	Links      int `json:"links"`
	Images     int `json:"images"`
	Lists      int `json:"lists"`
	CodeBlocks int `json:"code_blocks"`
	Tables     int `json:"tables"`
}

// Stats counts blocks by kind.
func (d *Document) Stats() Stats {
	var s Stats
	for _, b := range d.Blocks {
		switch b.Kind {
		case KindHeading:
			s.Headings++
		case KindParagraph:
			s.Paragraphs++
		case KindLink:
			s.Links++
		case KindImage:
			s.Images++
		case KindList:
			s.Lists++
		case KindCode:
			s.CodeBlocks++
		case KindTable:
			s.Tables++
		}
	}
	return s
}
