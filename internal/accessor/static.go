package accessor

import (
	"fmt"
	"iter"
	"strings"
	"sync"
)

// Static is an Accessor over an immutable content string.
//
// The token table and the line-start index are computed on first use and
// memoized until ResetContent. Static is safe for concurrent use.
type Static struct {
	mu      sync.Mutex
	lexer   Lexer
	content string

	tokens     []Token // nil until first use
	tokensErr  error   // validation result for tokens
	tokensDone bool
	starts     []int // line -> start position, nil until first use
}

// NewStatic creates a Static accessor for content tokenized by lexer.
// A nil lexer styles all content with style 0.
func NewStatic(lexer Lexer, content string) *Static {
	return &Static{
		lexer:   lexer,
		content: content,
	}
}

// ResetContent replaces the content and drops the memoized token table and
// line index.
func (s *Static) ResetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = content
	s.tokens = nil
	s.tokensErr = nil
	s.tokensDone = false
	s.starts = nil
}

// snapshot returns the content with its token table, computing and
// validating the table if needed. A table that does not cover the content
// exactly is reported on every call until ResetContent.
func (s *Static) snapshot() (string, []Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tokensDone {
		switch {
		case len(s.content) == 0:
		case s.lexer == nil:
			s.tokens = []Token{{Start: 0, End: len(s.content) - 1, Text: s.content}}
		default:
			s.tokens = s.lexer.Tokenize(s.content)
		}
		if err := ValidateTokens(s.tokens, len(s.content)); err != nil {
			s.tokensErr = fmt.Errorf("%w: %w", ErrSearchInvariant, err)
		}
		s.tokensDone = true
	}
	return s.content, s.tokens, s.tokensErr
}

// lines returns the content with its line-start index, computing the index
// if needed.
func (s *Static) lines() (string, []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.starts == nil {
		s.starts = lineStarts(s.content)
	}
	return s.content, s.starts
}

// TokenTable returns the memoized token table, or an error when the
// lexer's table does not cover the content. The returned slice must not be
// modified.
func (s *Static) TokenTable() ([]Token, error) {
	_, tokens, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *Static) tokenAt(pos int) (Token, error) {
	content, tokens, err := s.snapshot()
	if err != nil {
		return Token{}, err
	}
	if err := checkPos(pos, len(content)); err != nil {
		return Token{}, err
	}
	idx, err := tokenIndex(tokens, pos)
	if err != nil {
		return Token{}, err
	}
	return tokens[idx], nil
}

// CharAt returns the byte at pos.
func (s *Static) CharAt(pos int) (byte, error) {
	content := s.contentSnapshot()
	if err := checkPos(pos, len(content)); err != nil {
		return 0, err
	}
	return content[pos], nil
}

// StyleAt returns the style of the token containing pos.
func (s *Static) StyleAt(pos int) (Style, error) {
	tok, err := s.tokenAt(pos)
	if err != nil {
		return 0, err
	}
	return tok.Style, nil
}

// LineAndColAt returns the line and column of pos.
func (s *Static) LineAndColAt(pos int) (int, int, error) {
	content, starts := s.lines()
	if err := checkPos(pos, len(content)); err != nil {
		return 0, 0, err
	}
	line, err := lineIndex(starts, pos)
	if err != nil {
		return 0, 0, err
	}
	return line, pos - starts[line], nil
}

// LineFromPos returns the line containing pos. pos may equal Length() to
// address the end of the buffer.
func (s *Static) LineFromPos(pos int) (int, error) {
	content, starts := s.lines()
	if pos < 0 || pos > len(content) {
		return 0, positionError(pos, len(content)+1)
	}
	return lineIndex(starts, pos)
}

// LineStartPosFromPos returns the start position of pos's line.
func (s *Static) LineStartPosFromPos(pos int) (int, error) {
	line, err := s.LineFromPos(pos)
	if err != nil {
		return 0, err
	}
	_, starts := s.lines()
	return starts[line], nil
}

// PosFromLineAndCol returns the position of line and col.
func (s *Static) PosFromLineAndCol(line, col int) (int, error) {
	content, starts := s.lines()
	if line < 0 || line >= len(starts) {
		return 0, positionError(line, len(starts))
	}
	pos := starts[line] + col
	if col < 0 || pos > len(content) {
		return 0, positionError(pos, len(content)+1)
	}
	return pos, nil
}

// Text returns the content.
func (s *Static) Text() (string, error) {
	return s.contentSnapshot(), nil
}

// TextRange returns content[start:end].
func (s *Static) TextRange(start, end int) (string, error) {
	content := s.contentSnapshot()
	if err := checkRange(start, end, len(content)); err != nil {
		return "", err
	}
	return content[start:end], nil
}

// Length returns the content length in bytes.
func (s *Static) Length() (int, error) {
	return len(s.contentSnapshot()), nil
}

// MatchAt reports whether s occurs at pos.
func (s *Static) MatchAt(pos int, str string) (bool, error) {
	content := s.contentSnapshot()
	if pos < 0 || pos > len(content) {
		return false, positionError(pos, len(content)+1)
	}
	return strings.HasPrefix(content[pos:], str), nil
}

// ContiguousStyleRange returns the span of the token containing pos.
func (s *Static) ContiguousStyleRange(pos int) (int, int, error) {
	tok, err := s.tokenAt(pos)
	if err != nil {
		return 0, 0, err
	}
	return tok.Start, tok.End + 1, nil
}

// CharsAndStyles returns the pairs for start <= pos < stop. The token
// containing start is located once; the walk then follows the table.
func (s *Static) CharsAndStyles(start, stop int) (iter.Seq2[byte, Style], error) {
	content, tokens, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := checkRange(start, stop, len(content)); err != nil {
		return nil, err
	}
	if start == stop {
		return func(func(byte, Style) bool) {}, nil
	}
	first, err := tokenIndex(tokens, start)
	if err != nil {
		return nil, err
	}
	return func(yield func(byte, Style) bool) {
		idx := first
		for pos := start; pos < stop; pos++ {
			for pos > tokens[idx].End {
				idx++
			}
			if !yield(content[pos], tokens[idx].Style) {
				return
			}
		}
	}, nil
}

// CharsAndStylesBack returns the pairs for start >= pos > stop.
func (s *Static) CharsAndStylesBack(start, stop int) (iter.Seq2[byte, Style], error) {
	content, tokens, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := checkBackRange(start, stop, len(content)); err != nil {
		return nil, err
	}
	if start == stop {
		return func(func(byte, Style) bool) {}, nil
	}
	first, err := tokenIndex(tokens, start)
	if err != nil {
		return nil, err
	}
	return func(yield func(byte, Style) bool) {
		idx := first
		for pos := start; pos > stop; pos-- {
			for pos < tokens[idx].Start {
				idx--
			}
			if !yield(content[pos], tokens[idx].Style) {
				return
			}
		}
	}, nil
}

// Tokens returns the memoized token table.
func (s *Static) Tokens() (iter.Seq[Token], error) {
	_, tokens, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return func(yield func(Token) bool) {
		for _, tok := range tokens {
			if !yield(tok) {
				return
			}
		}
	}, nil
}

func (s *Static) contentSnapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

var _ Accessor = (*Static)(nil)
