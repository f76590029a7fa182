package accessor

import (
	"errors"
	"fmt"
	"iter"
)

// Errors returned by accessor operations.
var (
	// ErrInvalidPosition indicates a position outside [0, Length()).
	ErrInvalidPosition = errors.New("position out of range")

	// ErrInvalidRange indicates a malformed or out-of-bounds range.
	ErrInvalidRange = errors.New("invalid range")

	// ErrNoBuffer indicates the backing view is gone or not yet attached.
	ErrNoBuffer = errors.New("no backing buffer")

	// ErrSearchInvariant indicates a bounded binary search did not converge.
	// It means the token table or line index is broken (overlap or gap).
	ErrSearchInvariant = errors.New("binary search did not converge")

	// ErrMalformedTokens indicates a token table that is not contiguous.
	ErrMalformedTokens = errors.New("malformed token table")
)

// Style is a lexical style id (keyword, string, comment, ...).
type Style int

// Token is a maximal run of positions sharing one style.
// Both Start and End are inclusive.
type Token struct {
	Start int
	End   int
	Style Style

	// Text is the token's text (optional).
	Text string
}

// Len returns the number of positions covered by the token.
func (t Token) Len() int {
	return t.End - t.Start + 1
}

// Contains returns true if pos lies within the token.
func (t Token) Contains(pos int) bool {
	return pos >= t.Start && pos <= t.End
}

// Lexer produces a token table from buffer content.
//
// The returned tokens must be ordered, contiguous and cover the whole
// content: tokens[i].End+1 == tokens[i+1].Start, tokens[0].Start == 0 and
// the last token ends at len(content)-1. Empty content yields no tokens.
type Lexer interface {
	Tokenize(content string) []Token
}

// LexerFunc adapts a function to the Lexer interface.
type LexerFunc func(content string) []Token

// Tokenize calls f(content).
func (f LexerFunc) Tokenize(content string) []Token {
	return f(content)
}

// Accessor is read access to styled text.
type Accessor interface {
	// CharAt returns the character at pos.
	CharAt(pos int) (byte, error)

	// StyleAt returns the style at pos.
	StyleAt(pos int) (Style, error)

	// LineAndColAt returns the 0-based line and column of pos.
	LineAndColAt(pos int) (line, col int, err error)

	// LineFromPos returns the 0-based line containing pos.
	LineFromPos(pos int) (int, error)

	// LineStartPosFromPos returns the position where pos's line starts.
	LineStartPosFromPos(pos int) (int, error)

	// PosFromLineAndCol returns the position of the given line and column.
	PosFromLineAndCol(line, col int) (int, error)

	// Text returns all buffer content.
	Text() (string, error)

	// TextRange returns the text in [start, end).
	TextRange(start, end int) (string, error)

	// Length returns the size of the position space.
	Length() (int, error)

	// MatchAt reports whether s occurs at pos.
	MatchAt(pos int, s string) (bool, error)

	// ContiguousStyleRange returns the half-open span of positions around pos
	// sharing pos's style.
	ContiguousStyleRange(pos int) (start, end int, err error)

	// CharsAndStyles returns the (char, style) pairs for positions
	// start <= pos < stop, in ascending order.
	CharsAndStyles(start, stop int) (iter.Seq2[byte, Style], error)

	// CharsAndStylesBack returns the (char, style) pairs for positions
	// start >= pos > stop, in descending order. stop may be -1.
	CharsAndStylesBack(start, stop int) (iter.Seq2[byte, Style], error)

	// Tokens returns the buffer's token table.
	Tokens() (iter.Seq[Token], error)
}

// ValidateTokens checks that tokens form a contiguous, gap-free cover of
// [0, length).
func ValidateTokens(tokens []Token, length int) error {
	if length == 0 {
		if len(tokens) != 0 {
			return fmt.Errorf("%w: %d tokens for empty content", ErrMalformedTokens, len(tokens))
		}
		return nil
	}
	if len(tokens) == 0 {
		return fmt.Errorf("%w: no tokens for %d positions", ErrMalformedTokens, length)
	}
	next := 0
	for i, tok := range tokens {
		if tok.Start != next {
			return fmt.Errorf("%w: token %d starts at %d, want %d", ErrMalformedTokens, i, tok.Start, next)
		}
		if tok.End < tok.Start {
			return fmt.Errorf("%w: token %d ends at %d before its start %d", ErrMalformedTokens, i, tok.End, tok.Start)
		}
		next = tok.End + 1
	}
	if next != length {
		return fmt.Errorf("%w: tokens cover [0, %d), want [0, %d)", ErrMalformedTokens, next, length)
	}
	return nil
}

func positionError(pos, length int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidPosition, pos, length)
}

func rangeError(start, end, length int) error {
	return fmt.Errorf("%w: [%d, %d) with length %d", ErrInvalidRange, start, end, length)
}

func checkPos(pos, length int) error {
	if pos < 0 || pos >= length {
		return positionError(pos, length)
	}
	return nil
}

func checkRange(start, end, length int) error {
	if start < 0 || start > end || end > length {
		return rangeError(start, end, length)
	}
	return nil
}

// checkBackRange validates the bounds of a backward sequence.
func checkBackRange(start, stop, length int) error {
	if stop < -1 || stop > start || (start > stop && start >= length) {
		return rangeError(stop+1, start+1, length)
	}
	return nil
}

// TokensFromStyles groups consecutive positions of equal style into tokens.
// styles holds one style per byte of text.
func TokensFromStyles(text string, styles []Style) []Token {
	var tokens []Token
	for i := 0; i < len(styles); {
		j := i + 1
		for j < len(styles) && styles[j] == styles[i] {
			j++
		}
		tokens = append(tokens, Token{Start: i, End: j - 1, Style: styles[i], Text: text[i:j]})
		i = j
	}
	return tokens
}
