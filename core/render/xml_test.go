package render

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
)

// wellFormed tokenizes the whole document, failing on any syntax error.
func wellFormed(t *testing.T, out string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
	}
}

func TestXMLDeclarationAndRoot(t *testing.T) {
	out, err := XML(&core.Document{
		Title:   "Title",
		BaseURL: "https://x.test",
		Blocks:  []core.Block{{Kind: core.KindParagraph, Text: "Hello"}},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<document base_url="https://x.test" title="Title">`)
	assert.Contains(t, out, "<paragraph>Hello</paragraph>")
	assert.Contains(t, out, "</document>")
	wellFormed(t, out)
}

func TestXMLEmptyDocumentSelfCloses(t *testing.T) {
	out, err := XML(&core.Document{BaseURL: "https://x.test"})
	require.NoError(t, err)

	assert.Contains(t, out, `<document base_url="https://x.test"/>`)
	wellFormed(t, out)
}

func TestXMLEscaping(t *testing.T) {
	out, err := XML(&core.Document{
		Title:   `A <b> & "c"`,
		BaseURL: "https://x.test/?a=1&b=2",
		Blocks: []core.Block{
			{Kind: core.KindParagraph, Text: "1 < 2 && 3 > 2"},
		},
	})
	require.NoError(t, err)

	assert.NotContains(t, out, "1 < 2")
	assert.Contains(t, out, "1 &lt; 2 &amp;&amp; 3 &gt; 2")
	wellFormed(t, out)
}

func TestXMLAllBlockKinds(t *testing.T) {
	out, err := XML(&core.Document{
		BaseURL: "https://x.test",
		Blocks: []core.Block{
			{Kind: core.KindHeading, Level: 2, Text: "H"},
			{Kind: core.KindParagraph, Text: "P"},
			{Kind: core.KindList, Ordered: true, Items: []string{"i1", "i2"}},
			{Kind: core.KindBlockquote, Text: "Q"},
			{Kind: core.KindCode, Language: "go", Text: "x := 1"},
			{Kind: core.KindLink, Text: "L", Href: "https://x.test/l"},
			{Kind: core.KindImage, Alt: "A", Src: "https://x.test/i.png"},
			{Kind: core.KindTable, Header: []string{"h"}, Rows: [][]string{{"c"}}},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<heading level="2">H</heading>`)
	assert.Contains(t, out, `<list ordered="true">`)
	assert.Contains(t, out, "<item>i1</item>")
	assert.Contains(t, out, "<blockquote>Q</blockquote>")
	assert.Contains(t, out, `<code language="go">`)
	assert.Contains(t, out, `<link href="https://x.test/l">L</link>`)
	assert.Contains(t, out, `<image alt="A" src="https://x.test/i.png"/>`)
	assert.Contains(t, out, "<cell>h</cell>")
	wellFormed(t, out)
}
