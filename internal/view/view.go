package view

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/logging"
)

// Errors returned by views and documents.
var (
	ErrReleased   = errors.New("view released")
	ErrNoView     = errors.New("document has no view")
	ErrClosed     = errors.New("document closed")
	ErrCollected  = errors.New("document no longer exists")
	ErrStyleBits  = errors.New("style bits out of range")
	ErrIndicator  = errors.New("indicator out of range")
	ErrEditFailed = errors.New("edit out of range")
)

// View is a mutable styled text buffer. It is safe for concurrent use.
//
// Query methods never fail: positions outside the text are clamped, so a
// reader racing an edit sees a consistent if stale answer. Callers that
// need errors go through an accessor.
type View struct {
	mu        sync.RWMutex
	text      []byte
	styles    []byte
	starts    []int // line start positions
	styleBits int
	lexer     accessor.Lexer
	logger    *log.Logger
	revision  uint64
	released  atomic.Bool
}

// New creates a view holding text. The text is styled by the lexer if one
// is configured and with style 0 otherwise.
func New(text string, opts ...Option) (*View, error) {
	v := &View{
		text:      []byte(text),
		styles:    make([]byte, len(text)),
		styleBits: DefaultStyleBits,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.styleBits < 1 || v.styleBits > 8 {
		return nil, fmt.Errorf("%w: %d not in [1, 8]", ErrStyleBits, v.styleBits)
	}
	v.reindex()
	if err := v.restyle(); err != nil {
		return nil, err
	}
	return v, nil
}

// StyleBits returns the number of style bits.
func (v *View) StyleBits() int {
	return v.styleBits
}

// Indicators returns how many indicator bits sit above the style bits.
func (v *View) Indicators() int {
	return 8 - v.styleBits
}

// Revision returns a counter incremented by every edit.
func (v *View) Revision() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.revision
}

// Release marks the view destroyed. Accessors report ErrNoBuffer for a
// released view and edits fail with ErrReleased.
func (v *View) Release() {
	if v.released.CompareAndSwap(false, true) {
		v.logger.Debug("view released", logging.FieldLength, v.TextLength())
	}
}

// Released reports whether Release was called.
func (v *View) Released() bool {
	return v.released.Load()
}

// CharAt returns the byte at pos, or 0 outside the text.
func (v *View) CharAt(pos int) byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if pos < 0 || pos >= len(v.text) {
		return 0
	}
	return v.text[pos]
}

// StyleAt returns the raw style byte at pos, indicators included, or 0
// outside the text.
func (v *View) StyleAt(pos int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if pos < 0 || pos >= len(v.styles) {
		return 0
	}
	return int(v.styles[pos])
}

// StyledText returns a character byte followed by a raw style byte for
// each position in [start, end), clamped to the text.
func (v *View) StyledText(start, end int) []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	start, end = clampRange(start, end, len(v.text))
	out := make([]byte, 0, 2*(end-start))
	for i := start; i < end; i++ {
		out = append(out, v.text[i], v.styles[i])
	}
	return out
}

// LineFromPosition returns the line containing pos.
func (v *View) LineFromPosition(pos int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	pos = max(0, min(pos, len(v.text)))
	return sort.SearchInts(v.starts, pos+1) - 1
}

// PositionFromLine returns the start of line, or the text length past the
// last line.
func (v *View) PositionFromLine(line int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if line < 0 {
		return 0
	}
	if line >= len(v.starts) {
		return len(v.text)
	}
	return v.starts[line]
}

// LineCount returns the number of lines.
func (v *View) LineCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.starts)
}

// TextRange returns the text in [start, end), clamped to the text.
func (v *View) TextRange(start, end int) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	start, end = clampRange(start, end, len(v.text))
	return string(v.text[start:end])
}

// Text returns the whole text.
func (v *View) Text() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return string(v.text)
}

// TextLength returns the text length in bytes.
func (v *View) TextLength() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.text)
}

// Insert inserts s at pos and restyles. An edit whose restyle fails is
// not applied.
func (v *View) Insert(pos int, s string) error {
	return v.edit(pos, pos, s)
}

// Delete removes [start, end) and restyles.
func (v *View) Delete(start, end int) error {
	return v.edit(start, end, "")
}

// Replace replaces [start, end) with s and restyles.
func (v *View) Replace(start, end int, s string) error {
	return v.edit(start, end, s)
}

func (v *View) edit(start, end int, s string) error {
	if v.Released() {
		return ErrReleased
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if start < 0 || start > end || end > len(v.text) {
		return fmt.Errorf("%w: [%d, %d) with length %d", ErrEditFailed, start, end, len(v.text))
	}

	text := make([]byte, 0, len(v.text)-(end-start)+len(s))
	text = append(text, v.text[:start]...)
	text = append(text, s...)
	text = append(text, v.text[end:]...)

	styles := make([]byte, 0, len(text))
	styles = append(styles, v.styles[:start]...)
	styles = append(styles, make([]byte, len(s))...)
	styles = append(styles, v.styles[end:]...)

	if err := v.lex(text, styles); err != nil {
		return fmt.Errorf("%w: %w", ErrEditFailed, err)
	}
	v.text, v.styles = text, styles
	v.revision++
	v.reindex()
	return nil
}

// SetStyle sets the style id of [start, end), keeping indicators. Styles
// set this way last until the next lexer restyle.
func (v *View) SetStyle(start, end int, style accessor.Style) error {
	if v.Released() {
		return ErrReleased
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if start < 0 || start > end || end > len(v.text) {
		return fmt.Errorf("%w: [%d, %d) with length %d", ErrEditFailed, start, end, len(v.text))
	}
	mask := byte(accessor.StyleMask(v.styleBits))
	for i := start; i < end; i++ {
		v.styles[i] = v.styles[i]&^mask | byte(style)&mask
	}
	return nil
}

// SetIndicator turns indicator n on or off over [start, end).
func (v *View) SetIndicator(start, end, n int, on bool) error {
	if v.Released() {
		return ErrReleased
	}
	if n < 0 || n >= v.Indicators() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndicator, n, v.Indicators())
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if start < 0 || start > end || end > len(v.text) {
		return fmt.Errorf("%w: [%d, %d) with length %d", ErrEditFailed, start, end, len(v.text))
	}
	bit := byte(1) << (v.styleBits + n)
	for i := start; i < end; i++ {
		if on {
			v.styles[i] |= bit
		} else {
			v.styles[i] &^= bit
		}
	}
	return nil
}

// Restyle re-runs the lexer over the whole text.
func (v *View) Restyle() error {
	if v.Released() {
		return ErrReleased
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.restyle()
}

// restyle writes the lexer's styles under the indicators. The caller holds
// the write lock.
func (v *View) restyle() error {
	return v.lex(v.text, v.styles)
}

// lex writes the lexer's styles for text into styles, keeping indicator
// bits. styles is untouched when the token table is invalid.
func (v *View) lex(text, styles []byte) error {
	if v.lexer == nil {
		return nil
	}
	content := string(text)
	tokens := v.lexer.Tokenize(content)
	if err := accessor.ValidateTokens(tokens, len(content)); err != nil {
		v.logger.Warn("restyle skipped", logging.FieldError, err, logging.FieldLength, len(content))
		return err
	}
	mask := byte(accessor.StyleMask(v.styleBits))
	for _, tok := range tokens {
		style := byte(tok.Style) & mask
		for i := tok.Start; i <= tok.End; i++ {
			styles[i] = styles[i]&^mask | style
		}
	}
	v.logger.Debug("view restyled", logging.FieldTokens, len(tokens), logging.FieldLength, len(content))
	return nil
}

// reindex rebuilds the line start index. The caller holds the write lock
// or owns v exclusively.
func (v *View) reindex() {
	starts := v.starts[:0]
	starts = append(starts, 0)
	for i := 0; i < len(v.text); i++ {
		switch v.text[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(v.text) && v.text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	v.starts = starts
}

func clampRange(start, end, length int) (int, int) {
	start = max(0, min(start, length))
	end = max(start, min(end, length))
	return start, end
}

var (
	_ accessor.View       = (*View)(nil)
	_ accessor.Releasable = (*View)(nil)
)
