package cache

import (
	"bytes"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/logging"
)

const (
	refContent = "This is my test buffer\r\nSecond   line\r\nThird line\r\n"
	refStyles  = "111101101101111011111122" + "111111000111122" + "111110111122"
)

// digitLexer styles each byte from a string of style digits.
func digitLexer(digits string) accessor.Lexer {
	return accessor.LexerFunc(func(content string) []accessor.Token {
		styles := make([]accessor.Style, len(content))
		for i := range content {
			styles[i] = accessor.Style(digits[i] - '0')
		}
		return accessor.TokensFromStyles(content, styles)
	})
}

// countingAccessor counts fetches made through it.
type countingAccessor struct {
	accessor.Accessor
	fetches int
	ranges  int
}

func (c *countingAccessor) CharsAndStyles(start, stop int) (iter.Seq2[byte, accessor.Style], error) {
	c.fetches++
	return c.Accessor.CharsAndStyles(start, stop)
}

func (c *countingAccessor) TextRange(start, end int) (string, error) {
	c.ranges++
	return c.Accessor.TextRange(start, end)
}

func refAccessor() *countingAccessor {
	return &countingAccessor{Accessor: accessor.NewStatic(digitLexer(refStyles), refContent)}
}

func requireAt(t *testing.T, want PosCharStyle, got PosCharStyle, ok bool, err error) {
	t.Helper()
	require.NoError(t, err)
	require.True(t, ok, "expected a position, want %+v", want)
	require.Equal(t, want, got)
}

func pcs(pos int, ch byte, style accessor.Style) PosCharStyle {
	return PosCharStyle{Pos: pos, Char: ch, Style: style}
}

// walkBack runs the backward half of the reference walk from position 49.
func walkBack(t *testing.T, c *Cache) {
	t.Helper()

	p, ok, err := c.Prev()
	requireAt(t, pcs(48, 'e', 1), p, ok, err)

	p, ok, err = c.Preceding(WithStyle(1))
	requireAt(t, pcs(44, ' ', 0), p, ok, err)

	p, ok, err = c.Preceding(WithStyle(0))
	requireAt(t, pcs(43, 'd', 1), p, ok, err)

	p, ok, err = c.Preceding(WithStyle(1))
	requireAt(t, pcs(38, '\n', 2), p, ok, err)

	p, ok, err = c.Preceding()
	requireAt(t, pcs(36, 'e', 1), p, ok, err)

	start, text, err := c.TextBack(WithStyle(1))
	require.NoError(t, err)
	assert.Equal(t, 33, start)
	assert.Equal(t, "line", text)
	assert.Equal(t, 33, c.Pos())

	p, ok, err = c.Prev()
	requireAt(t, pcs(32, ' ', 0), p, ok, err)

	p, ok, err = c.Preceding(WithStyle(0))
	requireAt(t, pcs(29, 'd', 1), p, ok, err)
}

func TestReferenceWalk(t *testing.T) {
	c := New(refAccessor(), 49)

	walkBack(t, c)
	require.NoError(t, c.ResetToPosition(49))
	walkBack(t, c)

	p, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, pcs(29, 'd', 1), p)

	p, ok, err := c.Next()
	requireAt(t, pcs(30, ' ', 0), p, ok, err)

	p, ok, err = c.Succeeding()
	requireAt(t, pcs(33, 'l', 1), p, ok, err)

	end, text, err := c.TextForward(WithStyle(1))
	require.NoError(t, err)
	assert.Equal(t, 36, end)
	assert.Equal(t, "line", text)

	p, ok, err = c.Next()
	requireAt(t, pcs(37, '\r', 2), p, ok, err)
	p, ok, err = c.Next()
	requireAt(t, pcs(38, '\n', 2), p, ok, err)

	p, ok, err = c.Succeeding(WithStyle(2))
	requireAt(t, pcs(39, 'T', 1), p, ok, err)
	p, ok, err = c.Succeeding()
	requireAt(t, pcs(44, ' ', 0), p, ok, err)
	p, ok, err = c.Succeeding()
	requireAt(t, pcs(45, 'l', 1), p, ok, err)
	p, ok, err = c.Succeeding()
	requireAt(t, pcs(49, '\r', 2), p, ok, err)

	p, ok, err = c.Next()
	requireAt(t, pcs(50, '\n', 2), p, ok, err)

	_, ok, err = c.Next()
	assert.ErrorIs(t, err, ErrOutOfData)
	assert.False(t, ok)
	assert.Equal(t, 50, c.Pos(), "cursor must not move when the buffer is exhausted")

	require.NoError(t, c.ResetToPosition(3))
	start, text, err := c.TextBack(WithStyle(1))
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, "This", text)

	require.NoError(t, c.ResetToPosition(49))
	end, text, err = c.TextForward(WithStyle(2))
	require.NoError(t, err)
	assert.Equal(t, 51, end)
	assert.Equal(t, "\r\n", text)
}

func TestPrevAtBufferStart(t *testing.T) {
	c := New(refAccessor(), 0)

	_, ok, err := c.Prev()
	assert.ErrorIs(t, err, ErrOutOfData)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Pos())

	// Preceding reports running out of buffer as not found.
	_, ok, err = c.Preceding(WithStyle(0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimitExhausted(t *testing.T) {
	c := New(refAccessor(), 3)

	_, ok, err := c.Prev(Ignoring(1), Limit(2))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, c.Pos(), "cursor must return to its origin")

	p, ok, err := c.Prev(Ignoring(1), Limit(3))
	require.NoError(t, err)
	assert.False(t, ok, "positions 0-2 are all style 1: %+v", p)
}

func TestTextBackClampsToLimit(t *testing.T) {
	c := New(refAccessor(), 35)

	// Ignoring every style walks to the limit.
	start, text, err := c.TextBack(WithStyle(1), Ignoring(0, 2), Limit(5))
	require.NoError(t, err)
	assert.Equal(t, 30, start)
	assert.Equal(t, "   lin", text)
	assert.Equal(t, 35, c.Pos())
}

func TestTextForwardClampsToLimit(t *testing.T) {
	c := New(refAccessor(), 24)

	end, text, err := c.TextForward(WithStyle(1), Ignoring(0, 2), Limit(4))
	require.NoError(t, err)
	assert.Equal(t, 28, end)
	assert.Equal(t, "Seco", text)
}

func TestResetToPosition(t *testing.T) {
	acc := refAccessor()
	c := New(acc, 25, WithFetchSize(10))

	_, _, err := c.Prev()
	require.NoError(t, err)
	first, last := c.Window()
	assert.Equal(t, [2]int{15, 25}, [2]int{first, last})

	// Within one step past the edge: the window grows.
	require.NoError(t, c.ResetToPosition(30))
	first, last = c.Window()
	assert.Equal(t, [2]int{15, 35}, [2]int{first, last})
	p, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, pcs(30, ' ', 0), p)

	require.NoError(t, c.ResetToPosition(8))
	first, last = c.Window()
	assert.Equal(t, [2]int{5, 35}, [2]int{first, last})

	// Far away: the window is dropped.
	require.NoError(t, c.ResetToPosition(50))
	first, last = c.Window()
	assert.Equal(t, [2]int{50, 50}, [2]int{first, last})
	_, ok = c.Current()
	assert.False(t, ok)
	assert.Equal(t, 50, c.Pos())

	// The end of the buffer is a valid cursor position while the window
	// can still grow toward it.
	require.NoError(t, c.ResetToPosition(51))
	assert.Equal(t, 51, c.Pos())
	first, last = c.Window()
	assert.Equal(t, [2]int{50, 51}, [2]int{first, last})
	_, ok = c.Current()
	assert.False(t, ok)
	p, ok, err = c.Prev()
	requireAt(t, pcs(50, '\n', 2), p, ok, err)

	// Once the window touches the end there is nothing left to fetch.
	assert.ErrorIs(t, c.ResetToPosition(51), ErrOutOfData)
	assert.Equal(t, 50, c.Pos(), "cursor must not move")

	assert.ErrorIs(t, c.ResetToPosition(-1), accessor.ErrInvalidPosition)
	assert.ErrorIs(t, c.ResetToPosition(52), accessor.ErrInvalidPosition)
}

func TestCurrentStyleAtBufferEnd(t *testing.T) {
	c := New(refAccessor(), 51)

	_, ok, err := c.Succeeding()
	require.NoError(t, err)
	assert.False(t, ok)

	start, text, err := c.TextBack(Limit(3))
	require.NoError(t, err)
	assert.Equal(t, 48, start)
	assert.Equal(t, "e\r\n", text)
}

func TestTextRangeServedFromWindow(t *testing.T) {
	acc := refAccessor()
	c := New(acc, 49)
	_, _, err := c.Prev()
	require.NoError(t, err)

	text, err := c.TextRange(39, 44)
	require.NoError(t, err)
	assert.Equal(t, "Third", text)
	assert.Zero(t, acc.ranges)

	text, err = c.TextRange(0, 4)
	require.NoError(t, err)
	assert.Equal(t, "This", text)
	assert.Equal(t, 1, acc.ranges)

	_, err = c.TextRange(40, 60)
	assert.ErrorIs(t, err, accessor.ErrInvalidRange)
}

func TestFetchCountSublinear(t *testing.T) {
	content := bytes.Repeat([]byte("abcdefghij"), 100)
	digits := bytes.Repeat([]byte("0"), len(content))
	acc := &countingAccessor{Accessor: accessor.NewStatic(digitLexer(string(digits)), string(content))}

	c := New(acc, len(content)-1, WithFetchSize(25))
	steps := 0
	for {
		_, ok, err := c.Prev()
		if errors.Is(err, ErrOutOfData) {
			break
		}
		require.NoError(t, err)
		require.True(t, ok)
		steps++
	}
	assert.Equal(t, len(content)-1, steps)
	assert.Equal(t, len(content)/25, acc.fetches)
}

func TestPrecedingThenSucceeding(t *testing.T) {
	c := New(refAccessor(), 36)

	p, ok, err := c.Preceding()
	requireAt(t, pcs(32, ' ', 0), p, ok, err)

	p, ok, err = c.Succeeding()
	requireAt(t, pcs(33, 'l', 1), p, ok, err)

	p, ok, err = c.Succeeding()
	requireAt(t, pcs(37, '\r', 2), p, ok, err)
}

func TestSetFetchSize(t *testing.T) {
	c := New(refAccessor(), 0)
	assert.Equal(t, DefaultFetchSize, c.FetchSize())
	c.SetFetchSize(7)
	assert.Equal(t, 7, c.FetchSize())
	c.SetFetchSize(0)
	assert.Equal(t, 7, c.FetchSize())
}

func TestWithLimits(t *testing.T) {
	c := New(refAccessor(), 10, WithLimits(Limits{Step: 2}))

	_, ok, err := c.Prev(Ignoring(0, 1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Limits{Step: 2, Walk: 200, Text: 200}, c.limits)
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	c := New(refAccessor(), 49, WithLogger(logging.NewWithWriter(&buf, "debug")))

	_, _, err := c.Prev()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cache extended backward")
	assert.Contains(t, buf.String(), "first=29")
}

func TestNoBufferPropagates(t *testing.T) {
	acc := accessor.NewDeferred(accessor.ResolverFunc(func() (accessor.View, error) {
		return nil, errors.New("closed")
	}), nil)
	c := New(acc, 5)

	_, _, err := c.Prev()
	assert.ErrorIs(t, err, accessor.ErrNoBuffer)
	assert.ErrorIs(t, c.ResetToPosition(0), accessor.ErrNoBuffer)
}

func TestResetToBufferEndOutOfData(t *testing.T) {
	c := New(refAccessor(), 45)

	p, ok, err := c.Next()
	requireAt(t, pcs(46, 'i', 1), p, ok, err)
	first, last := c.Window()
	assert.Equal(t, [2]int{45, 51}, [2]int{first, last})

	assert.ErrorIs(t, c.ResetToPosition(51), ErrOutOfData)
	assert.Equal(t, 46, c.Pos())
	p, ok = c.Current()
	require.True(t, ok)
	assert.Equal(t, pcs(46, 'i', 1), p)

	// Walks that start at the end report not found instead.
	c = New(refAccessor(), 51)
	_, ok, err = c.Preceding()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBrokenTokenTablePropagates(t *testing.T) {
	truncated := accessor.LexerFunc(func(string) []accessor.Token {
		return []accessor.Token{{Start: 0, End: 4}}
	})
	c := New(accessor.NewStatic(truncated, refContent), 0)

	_, _, err := c.Next()
	assert.ErrorIs(t, err, accessor.ErrSearchInvariant)
	_, _, err = c.Preceding()
	assert.ErrorIs(t, err, accessor.ErrSearchInvariant)
}

func genBuffer(t *rapid.T) (string, string) {
	n := rapid.IntRange(1, 300).Draw(t, "n")
	content := make([]byte, n)
	digits := make([]byte, n)
	for i := range n {
		content[i] = rapid.ByteRange('a', 'z').Draw(t, "ch")
		digits[i] = byte('0' + rapid.IntRange(0, 2).Draw(t, "style"))
	}
	return string(content), string(digits)
}

func TestPropertyWalkMatchesAccessor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		content, digits := genBuffer(rt)
		acc := accessor.NewStatic(digitLexer(digits), content)
		fetch := rapid.IntRange(1, 40).Draw(rt, "fetch")
		start := rapid.IntRange(0, len(content)-1).Draw(rt, "start")
		c := New(acc, start, WithFetchSize(fetch))

		check := func(p PosCharStyle) {
			ch, err := acc.CharAt(p.Pos)
			require.NoError(rt, err)
			style, err := acc.StyleAt(p.Pos)
			require.NoError(rt, err)
			require.Equal(rt, PosCharStyle{Pos: p.Pos, Char: ch, Style: style}, p)
		}

		for {
			p, ok, err := c.Next()
			if errors.Is(err, ErrOutOfData) {
				break
			}
			require.NoError(rt, err)
			require.True(rt, ok)
			check(p)
		}
		require.Equal(rt, len(content)-1, c.Pos())

		for {
			p, ok, err := c.Prev()
			if errors.Is(err, ErrOutOfData) {
				break
			}
			require.NoError(rt, err)
			require.True(rt, ok)
			check(p)
		}
		require.Equal(rt, 0, c.Pos())
	})
}

func TestPropertyWindowInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		content, digits := genBuffer(rt)
		acc := accessor.NewStatic(digitLexer(digits), content)
		c := New(acc, rapid.IntRange(0, len(content)).Draw(rt, "start"),
			WithFetchSize(rapid.IntRange(1, 30).Draw(rt, "fetch")))

		ops := rapid.IntRange(1, 50).Draw(rt, "ops")
		for range ops {
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				_, _, err := c.Prev()
				if !errors.Is(err, ErrOutOfData) {
					require.NoError(rt, err)
				}
			case 1:
				_, _, err := c.Next()
				if !errors.Is(err, ErrOutOfData) {
					require.NoError(rt, err)
				}
			case 2:
				_, _, err := c.Preceding()
				require.NoError(rt, err)
			case 3:
				_, _, err := c.Succeeding()
				require.NoError(rt, err)
			case 4:
				pos := rapid.IntRange(0, len(content)).Draw(rt, "pos")
				before := c.Pos()
				err := c.ResetToPosition(pos)
				if errors.Is(err, ErrOutOfData) {
					require.Equal(rt, len(content), pos)
					require.Equal(rt, before, c.Pos())
					break
				}
				require.NoError(rt, err)
				require.Equal(rt, pos, c.Pos())
			}

			first, last := c.Window()
			require.LessOrEqual(rt, 0, first)
			require.LessOrEqual(rt, first, last)
			require.LessOrEqual(rt, last, len(content))
			require.Len(rt, c.chars, last-first)
			require.Equal(rt, content[first:last], string(c.chars))
			require.GreaterOrEqual(rt, c.Pos(), 0)
			require.LessOrEqual(rt, c.Pos(), len(content))
			if p, ok := c.Current(); ok {
				require.Equal(rt, content[p.Pos], p.Char)
			}
		}
	})
}
