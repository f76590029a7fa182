// Package accessor provides uniform read access to lexer-styled text.
//
// An Accessor exposes a buffer as a sequence of (character, style) pairs over
// the position space [0, Length()), together with line/column conversion.
// Completion, calltip and indentation code use it to ask questions such as
// "what token precedes this position" without knowing what backs the text.
//
// Three implementations are provided:
//
//   - Static: an immutable content string plus a Token table produced by a
//     Lexer. The table and a line-start index are computed on first use and
//     memoized until ResetContent.
//   - Live: a mutable editor View. Character and style queries go straight to
//     the view; sequences use the view's bulk styled-text fetch.
//   - Deferred: a Live accessor that resolves its view through a Resolver
//     on every call, because the owning document may not have a view yet
//     and may drop it at any time.
//
// Positions:
//
// Positions are byte offsets and characters are bytes for every
// implementation, so the three kinds are interchangeable. Querying a position
// outside [0, Length()) returns an error wrapping ErrInvalidPosition; nothing
// is ever clamped.
//
// Basic usage:
//
//	acc := accessor.NewStatic(lx, "import sys\nif True:\n")
//	style, err := acc.StyleAt(7)
//	seq, err := acc.CharsAndStyles(0, 6)
//	for ch, style := range seq {
//	    // ...
//	}
//
// Live accessors fail with ErrNoBuffer when their backing view has been
// released or has not been attached yet. That failure is expected and
// recoverable: callers typically abandon the current query and try later.
package accessor
