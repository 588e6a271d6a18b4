// Package render — XML renderer. Emits a well-formed document for every
// legal input: XML declaration, a <document> root carrying base_url/title
// attributes, one child element per block, and entity-escaped text
// throughout.
package render

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
)

// XML renders the Document as an XML document string.
func XML(doc *core.Document) (string, error) {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<document base_url="` + escape(doc.BaseURL) + `"`)
	if doc.Title != "" {
		b.WriteString(` title="` + escape(doc.Title) + `"`)
	}
	if len(doc.Blocks) == 0 {
		b.WriteString("/>\n")
		return b.String(), nil
	}
	b.WriteString(">\n")
	for _, blk := range doc.Blocks {
		writeBlock(&b, blk)
	}
	b.WriteString("</document>\n")
	return b.String(), nil
}

func writeBlock(b *strings.Builder, blk core.Block) {
	switch blk.Kind {
	case core.KindHeading:
		fmt.Fprintf(b, "  <heading level=\"%d\">%s</heading>\n", blk.Level, escape(blk.Text))
	case core.KindParagraph:
		b.WriteString("  <paragraph>" + escape(blk.Text) + "</paragraph>\n")
	case core.KindList:
		fmt.Fprintf(b, "  <list ordered=\"%t\">\n", blk.Ordered)
		for _, item := range blk.Items {
			b.WriteString("    <item>" + escape(item) + "</item>\n")
		}
		b.WriteString("  </list>\n")
	case core.KindBlockquote:
		b.WriteString("  <blockquote>" + escape(blk.Text) + "</blockquote>\n")
	case core.KindCode:
		b.WriteString("  <code")
		if blk.Language != "" {
			b.WriteString(` language="` + escape(blk.Language) + `"`)
		}
		b.WriteString(">" + escape(blk.Text) + "</code>\n")
	case core.KindLink:
		b.WriteString(`  <link href="` + escape(blk.Href) + `">` + escape(blk.Text) + "</link>\n")
	case core.KindImage:
		b.WriteString(`  <image alt="` + escape(blk.Alt) + `" src="` + escape(blk.Src) + "\"/>\n")
	case core.KindTable:
		b.WriteString("  <table>\n    <header>\n")
		for _, cell := range blk.Header {
			b.WriteString("      <cell>" + escape(cell) + "</cell>\n")
		}
		b.WriteString("    </header>\n")
		for _, row := range blk.Rows {
			b.WriteString("    <row>\n")
			for _, cell := range row {
				b.WriteString("      <cell>" + escape(cell) + "</cell>\n")
			}
			b.WriteString("    </row>\n")
		}
		b.WriteString("  </table>\n")
	default:
		b.WriteString("  <paragraph>" + escape(blk.Text) + "</paragraph>\n")
	}
}

func escape(s string) string {
	var b strings.Builder
	// strings.Builder writes cannot fail.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
