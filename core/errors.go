package core

import "errors"

// Error kinds surfaced by the conversion core. Input errors (ErrMalformed)
// are per-document and never abort sibling documents in a batch; parameter
// errors (ErrInvalidChunkParams) are caller mistakes surfaced immediately;
// ErrRender marks renderer-internal invariant violations and should be
// unreachable for any Document the parser produces.
var (
	ErrMalformed          = errors.New("input cannot be tokenized as HTML")
	ErrInvalidChunkParams = errors.New("chunk overlap must be smaller than chunk size")
	ErrRender             = errors.New("renderer invariant violation")
)
