package chunk

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
	"github.com/ursisterbtw/markdown-lab-sub000/core/render"
)

func TestSplitInvalidParams(t *testing.T) {
	doc := &core.Document{Title: "T"}
	tests := []struct {
		name string
		opts Options
	}{
		{"zero size", Options{Size: 0, Overlap: 0}},
		{"negative size", Options{Size: -1, Overlap: 0}},
		{"negative overlap", Options{Size: 10, Overlap: -1}},
		{"overlap equals size", Options{Size: 100, Overlap: 100}},
		{"overlap exceeds size", Options{Size: 100, Overlap: 150}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(doc, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidChunkParams))
		})
	}
}

func TestSplitSmallSizeWithOverlap(t *testing.T) {
	doc := &core.Document{
		Title:   "Title",
		BaseURL: "https://x.test",
		Blocks: []core.Block{
			{Kind: core.KindParagraph, Text: "Hello world."},
		},
	}

	chunks, err := Split(doc, Options{Size: 8, Overlap: 2})
	require.NoError(t, err)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	assert.Equal(t, []string{"# Title\n", "e\n\nHello", "lo world", "ld."}, texts)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, "https://x.test", c.SourceURL)
		assert.Equal(t, []string{"Title"}, c.HeadingPath)
	}
}

func TestSplitOverlapPrefixProperty(t *testing.T) {
	doc := loremDoc(40)
	overlap := 50
	chunks, err := Split(doc, Options{Size: 300, Overlap: overlap})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		tail := prev[len(prev)-overlap:]
		assert.True(t, strings.HasPrefix(chunks[i].Text, tail),
			"chunk %d must start with the last %d bytes of chunk %d", i, overlap, i-1)
	}
}

func TestSplitCoverageReconstruction(t *testing.T) {
	doc := loremDoc(40)
	overlap := 50
	chunks, err := Split(doc, Options{Size: 300, Overlap: overlap})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	var b strings.Builder
	b.WriteString(chunks[0].Text)
	for _, c := range chunks[1:] {
		b.WriteString(c.Text[overlap:])
	}
	assert.Equal(t, render.Markdown(doc), b.String())
}

func TestSplitChunkSizeBound(t *testing.T) {
	doc := loremDoc(40)
	size := 300
	chunks, err := Split(doc, Options{Size: size, Overlap: 50})
	require.NoError(t, err)

	for i, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), size, "chunk %d exceeds size", i)
	}
}

func TestSplitEmptyDocument(t *testing.T) {
	chunks, err := Split(&core.Document{BaseURL: "https://x.test"}, Options{Size: 100, Overlap: 10})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplitTitleOnlyDocument(t *testing.T) {
	chunks, err := Split(&core.Document{Title: "Title"}, Options{Size: 100, Overlap: 10})
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, "# Title", chunks[0].Text)
	assert.Equal(t, []string{"Title"}, chunks[0].HeadingPath)
}

func TestSplitSingleOversizedBlock(t *testing.T) {
	text := strings.Repeat("word ", 500)
	doc := &core.Document{Blocks: []core.Block{
		{Kind: core.KindParagraph, Text: strings.TrimSpace(text)},
	}}

	size, overlap := 100, 20
	chunks, err := Split(doc, Options{Size: size, Overlap: overlap})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 10)

	var b strings.Builder
	b.WriteString(chunks[0].Text)
	for _, c := range chunks[1:] {
		b.WriteString(c.Text[overlap:])
	}
	assert.Equal(t, render.Markdown(doc), b.String())
}

func TestSplitPrefersWordBoundaries(t *testing.T) {
	doc := &core.Document{Blocks: []core.Block{
		{Kind: core.KindParagraph, Text: strings.TrimSpace(strings.Repeat("alpha beta ", 100))},
	}}

	chunks, err := Split(doc, Options{Size: 120, Overlap: 20})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	// Every non-final chunk should end at a word break, not mid-word.
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c.Text, " "),
			"chunk %q should end on a word boundary", c.Text)
	}
}

func TestSplitHeadingPaths(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("filler text ", 60))
	doc := &core.Document{Blocks: []core.Block{
		{Kind: core.KindHeading, Level: 1, Text: "A"},
		{Kind: core.KindParagraph, Text: long},
		{Kind: core.KindHeading, Level: 2, Text: "B"},
		{Kind: core.KindParagraph, Text: long},
	}}

	chunks, err := Split(doc, Options{Size: 150, Overlap: 20})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 3)

	assert.Equal(t, []string{"A"}, chunks[0].HeadingPath)
	assert.Equal(t, []string{"A", "B"}, chunks[len(chunks)-1].HeadingPath)
}

func TestSplitSiblingHeadingReplacesPath(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("filler text ", 60))
	doc := &core.Document{Blocks: []core.Block{
		{Kind: core.KindHeading, Level: 1, Text: "A"},
		{Kind: core.KindHeading, Level: 2, Text: "B"},
		{Kind: core.KindHeading, Level: 1, Text: "C"},
		{Kind: core.KindParagraph, Text: long},
	}}

	chunks, err := Split(doc, Options{Size: 150, Overlap: 20})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	assert.Equal(t, []string{"C"}, chunks[len(chunks)-1].HeadingPath)
}

// loremDoc builds a document with n paragraphs of varied lengths.
func loremDoc(n int) *core.Document {
	blocks := make([]core.Block, n)
	for i := range blocks {
		blocks[i] = core.Block{
			Kind: core.KindParagraph,
			Text: fmt.Sprintf("Paragraph %d. %s", i,
				strings.TrimSpace(strings.Repeat("Some filler sentence. ", i%5+1))),
		}
	}
	return &core.Document{Title: "Lorem", BaseURL: "https://x.test", Blocks: blocks}
}

func BenchmarkSplit(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		doc := loremDoc(n)
		b.Run(fmt.Sprintf("paragraphs-%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Split(doc, Options{Size: 1000, Overlap: 200}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
