// Package render — JSON renderer. The Block variants serialize 1:1 as a
// tagged union keyed by "kind", so parsing the output back reconstructs an
// equivalent blocks sequence.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
)

// JSON renders the Document as an indented JSON object with title,
// base_url, and blocks as top-level keys. Output is valid JSON for every
// legal Document, including empty ones (blocks: []).
func JSON(doc *core.Document) (string, error) {
	v := *doc
	if v.Blocks == nil {
		v.Blocks = []core.Block{}
	}
	data, err := json.MarshalIndent(&v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: marshaling document: %v", core.ErrRender, err)
	}
	return string(data), nil
}

// DecodeJSON parses output produced by JSON back into a Document.
func DecodeJSON(s string) (*core.Document, error) {
	var doc core.Document
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, fmt.Errorf("decoding document JSON: %w", err)
	}
	return &doc, nil
}
