package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackConvertsHeadingsAndText(t *testing.T) {
	md := Fallback("<h1>Hi</h1><p>Some text</p>")

	assert.Contains(t, md, "Hi")
	assert.Contains(t, md, "Some text")
}

func TestFallbackLinks(t *testing.T) {
	md := Fallback(`<p><a href="https://x.test/d">docs</a></p>`)

	assert.Contains(t, md, "docs")
	assert.Contains(t, md, "https://x.test/d")
}
