// Package selectors holds the process-wide table of compiled CSS selector
// matchers. Selector expressions are fixed at startup and compiling them is
// not free, so the table is built exactly once on first use and shared
// read-only across all parses. There is no eviction.
package selectors

import (
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Symbolic names of the registered matchers.
const (
	Unwanted    = "unwanted"
	MainContent = "main-content"
	Body        = "body"
	Title       = "title"
	Links       = "links"
	Images      = "images"
)

// exprs maps each registered name to its selector expression. The unwanted
// set combines boilerplate element and class selectors so removal needs a
// single sweep; the main-content set is tried as one combined expression,
// with the individual fallbacks below it kept for preference-ordered lookup.
var exprs = map[string]string{
	Unwanted: "script, style, iframe, noscript, .advertisement, .ad, .banner, " +
		"#cookie-notice, header, footer, nav, aside, .sidebar, .menu, " +
		".comments, .related, .share, .social",
	MainContent: "main, article, #content, .content",
	Body:        "body",
	Title:       "title",
	Links:       "a[href]",
	Images:      "img[src]",

	"main":          "main",
	"article":       "article",
	"content-id":    "#content",
	"content-class": ".content",
}

// contentFallbacks is the preference order used when the combined
// main-content expression matches nothing.
var contentFallbacks = []string{"main", "article", "content-id", "content-class", Body}

var (
	once  sync.Once
	table map[string]goquery.Matcher
)

func build() {
	t := make(map[string]goquery.Matcher, len(exprs))
	for name, expr := range exprs {
		sel, err := cascadia.Compile(expr)
		if err != nil {
			// The expressions are compile-time constants; a failure here
			// is a programmer error, not a runtime condition.
			panic(fmt.Sprintf("selectors: compiling %q: %v", name, err))
		}
		t[name] = sel
	}
	table = t
}

// Get returns the compiled matcher registered under name, or nil when the
// name is unregistered. Concurrent first callers observe a fully-built
// table; none observe a partially-built one.
func Get(name string) goquery.Matcher {
	once.Do(build)
	return table[name]
}

// ContentFallbacks returns the preference-ordered names to try when the
// combined main-content matcher finds nothing.
func ContentFallbacks() []string {
	return contentFallbacks
}
