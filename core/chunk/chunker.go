// Package chunk splits a Document into retrieval-sized, overlapping text
// chunks annotated with heading-path metadata.
//
// The splitter is a rolling buffer: block text streams in, a chunk is cut
// whenever the buffer reaches the configured size, and the next chunk is
// seeded with the tail of the one just cut. Each byte enters the buffer at
// most twice (once as content, once as an overlap copy), so total work is
// linear in input length. Overlaps are never re-derived by scanning from
// the start of the document.
package chunk

import (
	"bytes"
	"fmt"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
	"github.com/ursisterbtw/markdown-lab-sub000/core/render"
)

// lookback bounds how far back from a forced cut the splitter searches for
// a paragraph, sentence, or word boundary.
const lookback = 100

// Options configures a split. Size and Overlap are in bytes of flat text;
// Overlap must be smaller than Size. Format selects the rendered output
// the chunks accompany; chunk text itself is always taken from the
// document's Markdown rendering, the canonical flat-text form.
type Options struct {
	Size    int
	Overlap int
	Format  core.Format
}

// Split cuts the Document into ordered chunks. A document with no blocks
// (and no title) yields zero chunks. Invalid parameters return
// core.ErrInvalidChunkParams.
func Split(doc *core.Document, opts Options) ([]core.Chunk, error) {
	if opts.Size <= 0 || opts.Overlap < 0 || opts.Overlap >= opts.Size {
		return nil, fmt.Errorf("chunking %q (size=%d overlap=%d): %w",
			doc.BaseURL, opts.Size, opts.Overlap, core.ErrInvalidChunkParams)
	}

	segs := render.Segments(doc)
	if len(segs) == 0 {
		return nil, nil
	}

	s := &splitter{
		size:    opts.Size,
		overlap: opts.Overlap,
		source:  doc.BaseURL,
	}
	for i, seg := range segs {
		if seg.HeadingLevel > 0 {
			s.enterHeading(seg.HeadingLevel, seg.HeadingText)
		}
		if i > 0 {
			s.write("\n\n")
		}
		s.write(seg.Text)
	}
	s.flush()
	return s.chunks, nil
}

type headingEntry struct {
	level int
	text  string
}

type splitter struct {
	size    int
	overlap int
	source  string

	buf       []byte
	started   bool
	stack     []headingEntry
	chunkPath []string
	chunks    []core.Chunk
}

// enterHeading updates the heading stack: headings of equal or lower level
// pop before the new one is pushed, so the stack always holds strictly
// increasing levels.
func (s *splitter) enterHeading(level int, text string) {
	for len(s.stack) > 0 && s.stack[len(s.stack)-1].level >= level {
		s.stack = s.stack[:len(s.stack)-1]
	}
	s.stack = append(s.stack, headingEntry{level: level, text: text})
}

// write streams text into the rolling buffer, cutting whenever it reaches
// the chunk size.
func (s *splitter) write(text string) {
	if !s.started && text != "" {
		s.chunkPath = s.pathSnapshot()
		s.started = true
	}
	for len(s.buf)+len(text) >= s.size {
		need := s.size - len(s.buf)
		s.buf = append(s.buf, text[:need]...)
		text = text[need:]
		s.cut()
	}
	s.buf = append(s.buf, text...)
}

// cut emits buf[:c] as a chunk at a boundary c, then seeds the next chunk
// with the emitted chunk's last overlap bytes plus whatever followed the
// boundary. The buffer is exactly size bytes long on entry.
func (s *splitter) cut() {
	c := s.boundary()
	s.emit(string(s.buf[:c]))

	seedStart := c - s.overlap
	if seedStart < 0 {
		seedStart = 0
	}
	next := make([]byte, 0, s.size)
	next = append(next, s.buf[seedStart:]...)
	s.buf = next
	s.chunkPath = s.pathSnapshot()
}

// boundary picks the cut index within (overlap, size], preferring a
// paragraph break, then a line break, then a sentence end, then a word
// break inside the look-back window, and falling back to a hard cut.
func (s *splitter) boundary() int {
	limit := len(s.buf)
	lo := limit - lookback
	if lo <= s.overlap {
		lo = s.overlap + 1
	}
	if lo >= limit {
		return limit
	}
	region := s.buf[lo:limit]

	if i := bytes.LastIndex(region, []byte("\n\n")); i >= 0 {
		return lo + i + 2
	}
	if i := bytes.LastIndexByte(region, '\n'); i >= 0 {
		return lo + i + 1
	}
	for i := len(region) - 1; i > 0; i-- {
		if region[i] == ' ' && isSentenceEnd(region[i-1]) {
			return lo + i + 1
		}
	}
	if i := bytes.LastIndexByte(region, ' '); i >= 0 {
		return lo + i + 1
	}
	return limit
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func (s *splitter) emit(text string) {
	s.chunks = append(s.chunks, core.Chunk{
		Index:       len(s.chunks),
		Text:        text,
		HeadingPath: s.chunkPath,
		SourceURL:   s.source,
	})
}

// flush emits any remaining buffer content as a final, possibly
// undersized, chunk.
func (s *splitter) flush() {
	if len(s.buf) > 0 {
		s.emit(string(s.buf))
	}
}

func (s *splitter) pathSnapshot() []string {
	if len(s.stack) == 0 {
		return nil
	}
	path := make([]string, len(s.stack))
	for i, h := range s.stack {
		path[i] = h.text
	}
	return path
}
