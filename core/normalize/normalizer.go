// Package normalize provides the fallback conversion engine: direct
// HTML→Markdown conversion via html-to-markdown, used when the block
// classifier finds no content it can model. The primary path renders from
// the parsed Document; this path trades structural metadata for coverage.
package normalize

import (
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Fallback converts raw HTML straight to Markdown. Inputs the converter
// cannot handle yield an empty string; callers already treat empty output
// as "nothing extractable".
func Fallback(html string) string {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return ""
	}
	return markdown
}
