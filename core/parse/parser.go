// Package parse turns raw HTML into the normalized core.Document model.
// The input is parsed exactly once; boilerplate subtrees are removed in a
// single sweep using the shared selector cache, a content root is located
// (falling back to <body>), and the root's children are classified into
// Blocks in document order. All relative href/src values are resolved
// against the base URL here and never again downstream.
package parse

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
	"github.com/ursisterbtw/markdown-lab-sub000/core/selectors"
)

// Parse converts an HTML document into a core.Document, resolving links
// against baseURL. It is permissive: malformed substructure degrades to
// paragraph text, and only input that cannot be tokenized at all (empty,
// whitespace-only, or binary) returns core.ErrMalformed.
func Parse(htmlSrc, baseURL string) (*core.Document, error) {
	if !tokenizable(htmlSrc) {
		return nil, fmt.Errorf("parsing document: %w", core.ErrMalformed)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", core.ErrMalformed)
	}

	title := Collapse(doc.FindMatcher(selectors.Get(selectors.Title)).First().Text())

	// One sweep removes every unwanted subtree before classification.
	doc.FindMatcher(selectors.Get(selectors.Unwanted)).Remove()

	root := contentRoot(doc)

	w := &walker{base: parseBase(baseURL), blocks: []core.Block{}}
	for _, n := range root.Nodes {
		w.walkChildren(n)
	}
	w.flushParagraph()

	return &core.Document{Title: title, BaseURL: baseURL, Blocks: w.blocks}, nil
}

// tokenizable reports whether the input can be treated as HTML text at all.
func tokenizable(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return !strings.ContainsRune(s, 0)
}

// contentRoot locates the main content region, preferring the combined
// main-content matcher, then the individual fallbacks in preference order.
// <body> always matches on a parsed document, so the result is never empty.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	if sel := doc.FindMatcher(selectors.Get(selectors.MainContent)).First(); sel.Length() > 0 {
		return sel
	}
	for _, name := range selectors.ContentFallbacks() {
		if sel := doc.FindMatcher(selectors.Get(name)).First(); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Selection
}

func parseBase(baseURL string) *url.URL {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	return base
}

// walker classifies the content region's nodes into Blocks. Text nodes and
// inline elements accumulate into para, the nearest open paragraph, which
// is flushed whenever a block-level element starts.
type walker struct {
	base   *url.URL
	blocks []core.Block
	para   strings.Builder
}

func (w *walker) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.para.WriteString(n.Data)
	case html.ElementNode:
		w.element(n)
	}
}

func (w *walker) element(n *html.Node) {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.flushParagraph()
		if text := Collapse(w.inlineText(n)); text != "" {
			w.blocks = append(w.blocks, core.Block{
				Kind:  core.KindHeading,
				Level: int(n.Data[1] - '0'),
				Text:  text,
			})
		}
	case "p":
		w.flushParagraph()
		if text := Collapse(w.inlineText(n)); text != "" {
			w.blocks = append(w.blocks, core.Block{Kind: core.KindParagraph, Text: text})
		}
	case "ul", "ol":
		w.flushParagraph()
		if items := w.listItems(n); len(items) > 0 {
			w.blocks = append(w.blocks, core.Block{
				Kind:    core.KindList,
				Ordered: n.Data == "ol",
				Items:   items,
			})
		}
	case "blockquote":
		w.flushParagraph()
		if text := Collapse(w.inlineText(n)); text != "" {
			w.blocks = append(w.blocks, core.Block{Kind: core.KindBlockquote, Text: text})
		}
	case "pre":
		w.flushParagraph()
		w.codeBlock(n)
	case "code":
		// Block-level bare <code> degrades to inline code in the open
		// paragraph; <pre><code> pairs are handled above.
		if text := Collapse(rawText(n)); text != "" {
			w.para.WriteString(" `" + text + "` ")
		}
	case "img":
		w.flushParagraph()
		if src := attr(n, "src"); src != "" {
			w.blocks = append(w.blocks, core.Block{
				Kind: core.KindImage,
				Alt:  Collapse(attr(n, "alt")),
				Src:  w.resolve(src),
			})
		}
	case "a":
		w.anchor(n)
	case "table":
		w.flushParagraph()
		w.table(n)
	case "br", "hr":
		w.para.WriteString("\n")
	case "em", "i", "strong", "b", "u", "small", "span", "mark", "sub", "sup":
		w.para.WriteString(w.inlineText(n))
	default:
		// Unknown or container tags degrade to their children.
		w.walkChildren(n)
	}
}

// anchor emits a standalone link as a Link block, or embeds it inline when
// a paragraph is already open around it.
func (w *walker) anchor(n *html.Node) {
	text := Collapse(w.inlineText(n))
	href := attr(n, "href")
	if text == "" {
		return
	}
	if strings.TrimSpace(w.para.String()) != "" {
		w.para.WriteString(inlineLink(text, w.resolve(href)))
		return
	}
	w.flushParagraph()
	w.blocks = append(w.blocks, core.Block{
		Kind: core.KindLink,
		Text: text,
		Href: w.resolve(href),
	})
}

func (w *walker) codeBlock(n *html.Node) {
	lang := languageClass(n)
	src := n
	if c := firstChildElement(n, "code"); c != nil {
		src = c
		if lang == "" {
			lang = languageClass(c)
		}
	}
	text := strings.Trim(rawText(src), "\n")
	if text == "" {
		return
	}
	w.blocks = append(w.blocks, core.Block{Kind: core.KindCode, Language: lang, Text: text})
}

func (w *walker) table(n *html.Node) {
	var header []string
	var rows [][]string
	for _, tr := range descendantElements(n, "tr") {
		var cells []string
		isHeader := false
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "th":
				isHeader = true
				cells = append(cells, Collapse(w.inlineText(c)))
			case "td":
				cells = append(cells, Collapse(w.inlineText(c)))
			}
		}
		if len(cells) == 0 {
			continue
		}
		if isHeader && header == nil {
			header = cells
		} else {
			rows = append(rows, cells)
		}
	}
	if header == nil && len(rows) > 0 {
		header = rows[0]
		rows = rows[1:]
	}
	if header == nil {
		return
	}
	w.blocks = append(w.blocks, core.Block{Kind: core.KindTable, Header: header, Rows: rows})
}

func (w *walker) listItems(n *html.Node) []string {
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		if text := Collapse(w.inlineText(c)); text != "" {
			items = append(items, text)
		}
	}
	return items
}

// inlineText flattens an element's descendants into running text. Nested
// anchors become inline Markdown links with resolved absolute URLs; nested
// images become inline image references.
func (w *walker) inlineText(n *html.Node) string {
	var b strings.Builder
	w.collectInline(&b, n)
	return b.String()
}

func (w *walker) collectInline(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			switch c.Data {
			case "a":
				text := Collapse(textContent(c))
				if text == "" {
					continue
				}
				b.WriteString(" " + inlineLink(text, w.resolve(attr(c, "href"))) + " ")
			case "img":
				if src := attr(c, "src"); src != "" {
					fmt.Fprintf(b, " ![%s](%s) ", Collapse(attr(c, "alt")), w.resolve(src))
				}
			case "code":
				if text := Collapse(rawText(c)); text != "" {
					b.WriteString(" `" + text + "` ")
				}
			case "br":
				b.WriteString(" ")
			default:
				w.collectInline(b, c)
			}
		}
	}
}

func inlineLink(text, href string) string {
	return "[" + text + "](" + href + ")"
}

// resolve turns href into an absolute URL using standard resolution rules.
// Malformed references are kept as literal text rather than dropped.
func (w *walker) resolve(href string) string {
	href = strings.TrimSpace(href)
	if w.base == nil || href == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return w.base.ResolveReference(ref).String()
}

func (w *walker) flushParagraph() {
	if w.para.Len() == 0 {
		return
	}
	text := Collapse(w.para.String())
	w.para.Reset()
	if text != "" {
		w.blocks = append(w.blocks, core.Block{Kind: core.KindParagraph, Text: text})
	}
}

// --- node helpers ---

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func languageClass(n *html.Node) string {
	for _, cls := range strings.Fields(attr(n, "class")) {
		if lang, ok := strings.CutPrefix(cls, "language-"); ok {
			return lang
		}
	}
	return ""
}

func firstChildElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

func descendantElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
				continue
			}
			dfs(c)
		}
	}
	dfs(n)
	return out
}

// rawText concatenates descendant text nodes verbatim, preserving internal
// whitespace. Used for code blocks where normalization must not apply.
func rawText(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			dfs(c)
		}
	}
	dfs(n)
	return b.String()
}

// textContent is rawText for inline contexts.
func textContent(n *html.Node) string {
	return rawText(n)
}
