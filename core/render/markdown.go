// Package render provides the output renderers for the conversion core.
// Each renderer is a pure function over an immutable core.Document; none
// of them share mutable state, so a single Document can be rendered to
// several formats concurrently.
//
// This file implements the Markdown renderer. Markdown is the canonical
// flat-text form: the chunker consumes the same segments this renderer
// joins, which is what makes chunk reconstruction exact.
package render

import (
	"fmt"
	"strings"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
)

// Segment is one flat-text piece of a Document's Markdown rendering.
// HeadingLevel is non-zero for segments that open a new section.
type Segment struct {
	Text         string
	HeadingLevel int
	HeadingText  string
}

// Markdown renders the Document as Markdown text. Rendering the same
// Document twice yields byte-identical output.
func Markdown(doc *core.Document) string {
	segs := Segments(doc)
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n\n")
}

// Segments returns the Document's Markdown rendering split per block, with
// heading metadata attached. A non-empty title becomes a leading level-1
// segment.
func Segments(doc *core.Document) []Segment {
	var segs []Segment
	if doc.Title != "" {
		segs = append(segs, Segment{
			Text:         "# " + doc.Title,
			HeadingLevel: 1,
			HeadingText:  doc.Title,
		})
	}
	for _, b := range doc.Blocks {
		seg := Segment{Text: blockMarkdown(b)}
		if b.Kind == core.KindHeading {
			seg.HeadingLevel = b.Level
			seg.HeadingText = b.Text
		}
		segs = append(segs, seg)
	}
	return segs
}

func blockMarkdown(b core.Block) string {
	switch b.Kind {
	case core.KindHeading:
		return strings.Repeat("#", b.Level) + " " + b.Text
	case core.KindParagraph:
		return b.Text
	case core.KindList:
		lines := make([]string, len(b.Items))
		for i, item := range b.Items {
			if b.Ordered {
				lines[i] = fmt.Sprintf("%d. %s", i+1, item)
			} else {
				lines[i] = "- " + item
			}
		}
		return strings.Join(lines, "\n")
	case core.KindBlockquote:
		lines := strings.Split(b.Text, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")
	case core.KindCode:
		return "```" + b.Language + "\n" + b.Text + "\n```"
	case core.KindLink:
		return "[" + b.Text + "](" + b.Href + ")"
	case core.KindImage:
		return "![" + b.Alt + "](" + b.Src + ")"
	case core.KindTable:
		return tableMarkdown(b)
	default:
		return b.Text
	}
}

func tableMarkdown(b core.Block) string {
	var lines []string
	lines = append(lines, "| "+strings.Join(b.Header, " | ")+" |")
	seps := make([]string, len(b.Header))
	for i := range seps {
		seps[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(seps, " | ")+" |")
	for _, row := range b.Rows {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}
