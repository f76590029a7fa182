package accessor

import (
	"fmt"
	"iter"
)

// View is the operation set of a live, mutable editor view.
//
// Raw style values may carry indicator flags above the view's style bits;
// accessors mask them off. StyledText returns one character byte followed
// by one raw style byte per position in [start, end).
type View interface {
	CharAt(pos int) byte
	StyleAt(pos int) int
	StyledText(start, end int) []byte
	LineFromPosition(pos int) int
	PositionFromLine(line int) int
	TextRange(start, end int) string
	Text() string
	TextLength() int
	StyleBits() int
}

// Releasable is implemented by views whose owner can destroy them.
// A released view must not be queried.
type Releasable interface {
	Released() bool
}

// StyleMask returns the mask selecting the style id from a raw style value.
func StyleMask(styleBits int) Style {
	return Style(1<<styleBits) - 1
}

// viewSource yields the view to query together with its style mask.
type viewSource interface {
	acquire() (View, Style, error)
}

// fixedSource is a view bound at construction time.
type fixedSource struct {
	view View
	mask Style
}

func (f *fixedSource) acquire() (View, Style, error) {
	if released(f.view) {
		return nil, 0, ErrNoBuffer
	}
	return f.view, f.mask, nil
}

func released(v View) bool {
	r, ok := v.(Releasable)
	return ok && r.Released()
}

// Live is an Accessor over a live View.
//
// Every call re-validates the view, so a view released by its owner between
// calls is reported as ErrNoBuffer rather than read.
type Live struct {
	src   viewSource
	lexer Lexer
}

// NewLive creates an accessor for view. lexer is used by Tokens to
// re-tokenize the view's text; when nil, Tokens groups the view's own styles.
func NewLive(view View, lexer Lexer) *Live {
	return &Live{
		src:   &fixedSource{view: view, mask: StyleMask(view.StyleBits())},
		lexer: lexer,
	}
}

// CharAt returns the byte at pos.
func (l *Live) CharAt(pos int) (byte, error) {
	v, _, err := l.src.acquire()
	if err != nil {
		return 0, err
	}
	if err := checkPos(pos, v.TextLength()); err != nil {
		return 0, err
	}
	return v.CharAt(pos), nil
}

// StyleAt returns the masked style at pos.
func (l *Live) StyleAt(pos int) (Style, error) {
	v, mask, err := l.src.acquire()
	if err != nil {
		return 0, err
	}
	if err := checkPos(pos, v.TextLength()); err != nil {
		return 0, err
	}
	return Style(v.StyleAt(pos)) & mask, nil
}

// LineAndColAt returns the line and column of pos.
func (l *Live) LineAndColAt(pos int) (int, int, error) {
	v, _, err := l.src.acquire()
	if err != nil {
		return 0, 0, err
	}
	if err := checkPos(pos, v.TextLength()); err != nil {
		return 0, 0, err
	}
	line := v.LineFromPosition(pos)
	return line, pos - v.PositionFromLine(line), nil
}

// LineFromPos returns the line containing pos. pos may equal Length().
func (l *Live) LineFromPos(pos int) (int, error) {
	v, _, err := l.src.acquire()
	if err != nil {
		return 0, err
	}
	if length := v.TextLength(); pos < 0 || pos > length {
		return 0, positionError(pos, length+1)
	}
	return v.LineFromPosition(pos), nil
}

// LineStartPosFromPos returns the start position of pos's line.
func (l *Live) LineStartPosFromPos(pos int) (int, error) {
	v, _, err := l.src.acquire()
	if err != nil {
		return 0, err
	}
	if length := v.TextLength(); pos < 0 || pos > length {
		return 0, positionError(pos, length+1)
	}
	return v.PositionFromLine(v.LineFromPosition(pos)), nil
}

// PosFromLineAndCol returns the position of line and col.
func (l *Live) PosFromLineAndCol(line, col int) (int, error) {
	v, _, err := l.src.acquire()
	if err != nil {
		return 0, err
	}
	length := v.TextLength()
	lines := v.LineFromPosition(length) + 1
	if line < 0 || line >= lines {
		return 0, positionError(line, lines)
	}
	pos := v.PositionFromLine(line) + col
	if col < 0 || pos > length {
		return 0, positionError(pos, length+1)
	}
	return pos, nil
}

// Text returns the view's text.
func (l *Live) Text() (string, error) {
	v, _, err := l.src.acquire()
	if err != nil {
		return "", err
	}
	return v.Text(), nil
}

// TextRange returns the text in [start, end).
func (l *Live) TextRange(start, end int) (string, error) {
	v, _, err := l.src.acquire()
	if err != nil {
		return "", err
	}
	if err := checkRange(start, end, v.TextLength()); err != nil {
		return "", err
	}
	return v.TextRange(start, end), nil
}

// Length returns the view's text length in bytes.
func (l *Live) Length() (int, error) {
	v, _, err := l.src.acquire()
	if err != nil {
		return 0, err
	}
	return v.TextLength(), nil
}

// MatchAt reports whether s occurs at pos.
func (l *Live) MatchAt(pos int, s string) (bool, error) {
	v, _, err := l.src.acquire()
	if err != nil {
		return false, err
	}
	length := v.TextLength()
	if pos < 0 || pos > length {
		return false, positionError(pos, length+1)
	}
	if pos+len(s) > length {
		return false, nil
	}
	return v.TextRange(pos, pos+len(s)) == s, nil
}

// ContiguousStyleRange scans left and right from pos while the style is
// unchanged.
func (l *Live) ContiguousStyleRange(pos int) (int, int, error) {
	v, mask, err := l.src.acquire()
	if err != nil {
		return 0, 0, err
	}
	length := v.TextLength()
	if err := checkPos(pos, length); err != nil {
		return 0, 0, err
	}
	style := Style(v.StyleAt(pos)) & mask
	start := pos
	for start > 0 && Style(v.StyleAt(start-1))&mask == style {
		start--
	}
	end := pos + 1
	for end < length && Style(v.StyleAt(end))&mask == style {
		end++
	}
	return start, end, nil
}

// CharsAndStyles fetches [start, stop) with a single styled-text call.
func (l *Live) CharsAndStyles(start, stop int) (iter.Seq2[byte, Style], error) {
	v, mask, err := l.src.acquire()
	if err != nil {
		return nil, err
	}
	if err := checkRange(start, stop, v.TextLength()); err != nil {
		return nil, err
	}
	var styled []byte
	if start < stop {
		styled = v.StyledText(start, stop)
		if err := checkStyled(styled, start, stop); err != nil {
			return nil, err
		}
	}
	return func(yield func(byte, Style) bool) {
		for i := 0; i+1 < len(styled); i += 2 {
			if !yield(styled[i], Style(styled[i+1])&mask) {
				return
			}
		}
	}, nil
}

// CharsAndStylesBack fetches (stop, start] with a single styled-text call
// and walks it backward.
func (l *Live) CharsAndStylesBack(start, stop int) (iter.Seq2[byte, Style], error) {
	v, mask, err := l.src.acquire()
	if err != nil {
		return nil, err
	}
	if err := checkBackRange(start, stop, v.TextLength()); err != nil {
		return nil, err
	}
	var styled []byte
	if start > stop {
		styled = v.StyledText(stop+1, start+1)
		if err := checkStyled(styled, stop+1, start+1); err != nil {
			return nil, err
		}
	}
	return func(yield func(byte, Style) bool) {
		for i := len(styled) - 2; i >= 0; i -= 2 {
			if !yield(styled[i], Style(styled[i+1])&mask) {
				return
			}
		}
	}, nil
}

// Tokens returns a token table for the view's current text.
//
// Views keep no token table of their own. With a lexer the text is
// re-tokenized through a Static accessor; without one, runs of equal style
// fetched from the view become tokens.
func (l *Live) Tokens() (iter.Seq[Token], error) {
	v, mask, err := l.src.acquire()
	if err != nil {
		return nil, err
	}
	if l.lexer != nil {
		return NewStatic(l.lexer, v.Text()).Tokens()
	}
	// Characters and styles come from one fetch so they cannot disagree.
	var text []byte
	var styles []Style
	if length := v.TextLength(); length > 0 {
		styled := v.StyledText(0, length)
		if err := checkStyled(styled, 0, length); err != nil {
			return nil, err
		}
		text = make([]byte, 0, len(styled)/2)
		styles = make([]Style, 0, len(styled)/2)
		for i := 0; i+1 < len(styled); i += 2 {
			text = append(text, styled[i])
			styles = append(styles, Style(styled[i+1])&mask)
		}
	}
	tokens := TokensFromStyles(string(text), styles)
	return func(yield func(Token) bool) {
		for _, tok := range tokens {
			if !yield(tok) {
				return
			}
		}
	}, nil
}

// checkStyled reports a styled fetch that does not hold one char and one
// style byte for every position of [start, end), as happens when the view
// shrinks between the length check and the fetch.
func checkStyled(styled []byte, start, end int) error {
	if len(styled) != 2*(end-start) {
		return fmt.Errorf("%w: view returned %d styled bytes for [%d, %d)", ErrInvalidRange, len(styled), start, end)
	}
	return nil
}

var (
	_ Accessor = (*Live)(nil)
	_ Accessor = (*Deferred)(nil)
)
