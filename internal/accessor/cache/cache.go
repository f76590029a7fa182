// Package cache provides a windowed cache of (char, style) pairs over an
// accessor.Accessor.
//
// Completion and calltip code walk backward and forward through styled text
// one position at a time. A Cache keeps a contiguous window of the buffer in
// memory and grows it by FetchSize positions whenever the cursor runs off
// either edge, so walking N positions costs about N/FetchSize accessor
// fetches instead of N.
//
// A Cache belongs to one query session and is not safe for concurrent use.
package cache

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/logging"
)

// ErrOutOfData indicates the window already touches the buffer edge in the
// direction of travel.
var ErrOutOfData = errors.New("no buffer left to examine")

// DefaultFetchSize is the default window growth step.
const DefaultFetchSize = 20

// PosCharStyle is a buffer position with its character and style.
type PosCharStyle struct {
	Pos   int
	Char  byte
	Style accessor.Style
}

// Cache is a window [first, last) of an accessor's (char, style) pairs plus
// a cursor.
type Cache struct {
	acc       accessor.Accessor
	fetchSize int
	limits    Limits
	logger    *log.Logger

	chars  []byte
	styles []accessor.Style

	// Window bounds in buffer positions; first is inclusive, last exclusive.
	first int
	last  int

	// cur is the cursor relative to first. It lies outside [0, len(chars))
	// only while the cursor position has not been loaded.
	cur int
}

// New creates a Cache positioned at position. Nothing is fetched until the
// first walk or ResetToPosition.
func New(acc accessor.Accessor, position int, opts ...Option) *Cache {
	c := &Cache{
		acc:       acc,
		fetchSize: DefaultFetchSize,
		limits:    DefaultLimits(),
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset(position)
	c.logger.Debug("cache created", logging.FieldPos, position, logging.FieldFetchSize, c.fetchSize)
	return c
}

// SetFetchSize changes the window growth step. Non-positive sizes are
// ignored.
func (c *Cache) SetFetchSize(size int) {
	if size > 0 {
		c.fetchSize = size
	}
}

// FetchSize returns the window growth step.
func (c *Cache) FetchSize() int {
	return c.fetchSize
}

// Window returns the cached window [first, last).
func (c *Cache) Window() (first, last int) {
	return c.first, c.last
}

// Pos returns the cursor position.
func (c *Cache) Pos() int {
	return c.first + c.cur
}

func (c *Cache) reset(position int) {
	c.chars = nil
	c.styles = nil
	c.first = position
	c.last = position
	c.cur = 0
}

func (c *Cache) loaded() bool {
	return c.cur >= 0 && c.cur < len(c.chars)
}

func (c *Cache) at(idx int) PosCharStyle {
	return PosCharStyle{Pos: c.first + idx, Char: c.chars[idx], Style: c.styles[idx]}
}

// extendBackward prepends up to fetchSize positions to the window.
func (c *Cache) extendBackward() error {
	if c.first <= 0 {
		return ErrOutOfData
	}
	start := max(0, c.first-c.fetchSize)
	seq, err := c.acc.CharsAndStyles(start, c.first)
	if err != nil {
		return err
	}
	count := c.first - start
	chars := make([]byte, 0, count+len(c.chars))
	styles := make([]accessor.Style, 0, count+len(c.styles))
	for ch, style := range seq {
		chars = append(chars, ch)
		styles = append(styles, style)
	}
	if len(chars) != count {
		return fmt.Errorf("fetching [%d, %d): got %d positions: %w", start, c.first, len(chars), accessor.ErrInvalidRange)
	}
	c.chars = append(chars, c.chars...)
	c.styles = append(styles, c.styles...)
	c.cur += count
	c.first = start
	c.logger.Debug("cache extended backward",
		logging.FieldCount, count, logging.FieldFirst, c.first, logging.FieldLast, c.last)
	return nil
}

// extendForward appends up to fetchSize positions to the window.
func (c *Cache) extendForward() error {
	length, err := c.acc.Length()
	if err != nil {
		return err
	}
	if c.last >= length {
		return ErrOutOfData
	}
	end := min(length, c.last+c.fetchSize)
	seq, err := c.acc.CharsAndStyles(c.last, end)
	if err != nil {
		return err
	}
	count := end - c.last
	before := len(c.chars)
	for ch, style := range seq {
		c.chars = append(c.chars, ch)
		c.styles = append(c.styles, style)
	}
	if got := len(c.chars) - before; got != count {
		c.chars = c.chars[:before]
		c.styles = c.styles[:before]
		return fmt.Errorf("fetching [%d, %d): got %d positions: %w", c.last, end, got, accessor.ErrInvalidRange)
	}
	c.last = end
	c.logger.Debug("cache extended forward",
		logging.FieldCount, count, logging.FieldFirst, c.first, logging.FieldLast, c.last)
	return nil
}

// ResetToPosition moves the cursor to position.
//
// A position just past either window edge (within one fetch step) grows the
// window by one step. A position farther away discards the window and
// leaves the cache empty at position. Inside the window only the cursor
// moves.
//
// When the window must grow but already touches the buffer edge,
// ErrOutOfData is returned and the cursor is left alone. That happens for
// position equal to the buffer length once the window reaches it. A cursor
// at the buffer length is never loaded.
func (c *Cache) ResetToPosition(position int) error {
	length, err := c.acc.Length()
	if err != nil {
		return err
	}
	if position < 0 || position > length {
		return fmt.Errorf("%w: %d not in [0, %d]", accessor.ErrInvalidPosition, position, length)
	}

	switch {
	case position >= c.last:
		if position >= c.last+c.fetchSize {
			c.logger.Debug("cache reset", logging.FieldPos, position)
			c.reset(position)
			return nil
		}
		if err := c.extendForward(); err != nil {
			return err
		}
	case position < c.first:
		if position < c.first-c.fetchSize {
			c.logger.Debug("cache reset", logging.FieldPos, position)
			c.reset(position)
			return nil
		}
		if err := c.extendBackward(); err != nil {
			return err
		}
	}

	c.cur = position - c.first
	return nil
}

// Current returns the cursor position with its char and style. ok is false
// when the cursor has not been loaded yet; Pos is valid either way.
func (c *Cache) Current() (PosCharStyle, bool) {
	if !c.loaded() {
		return PosCharStyle{Pos: c.Pos()}, false
	}
	return c.at(c.cur), true
}

// Prev moves the cursor back to the nearest position whose style is not
// ignored, looking at most Limit positions back (default 100).
//
// ok is false when the limit is exhausted. The error is ErrOutOfData when
// the start of the buffer is reached first. In both cases the cursor does
// not move.
func (c *Cache) Prev(opts ...QueryOption) (PosCharStyle, bool, error) {
	q := c.query(c.limits.Step, opts)
	return c.prev(q.ignore, q.limit)
}

func (c *Cache) prev(ignore []accessor.Style, limit int) (PosCharStyle, bool, error) {
	origin := c.Pos()
	for range limit {
		c.cur--
		for c.cur < 0 {
			if err := c.extendBackward(); err != nil {
				c.cur = origin - c.first
				return PosCharStyle{}, false, err
			}
		}
		if !slices.Contains(ignore, c.styles[c.cur]) {
			return c.at(c.cur), true, nil
		}
	}
	c.cur = origin - c.first
	return PosCharStyle{}, false, nil
}

// Next moves the cursor forward; it mirrors Prev.
func (c *Cache) Next(opts ...QueryOption) (PosCharStyle, bool, error) {
	q := c.query(c.limits.Step, opts)
	return c.next(q.ignore, q.limit)
}

func (c *Cache) next(ignore []accessor.Style, limit int) (PosCharStyle, bool, error) {
	origin := c.Pos()
	for range limit {
		c.cur++
		for c.cur >= len(c.chars) {
			if err := c.extendForward(); err != nil {
				c.cur = origin - c.first
				return PosCharStyle{}, false, err
			}
		}
		if !slices.Contains(ignore, c.styles[c.cur]) {
			return c.at(c.cur), true, nil
		}
	}
	c.cur = origin - c.first
	return PosCharStyle{}, false, nil
}

// Preceding moves back to the first position whose style differs from the
// current style (or WithStyle) and is not ignored. Running out of buffer is
// reported as not found, like an exhausted limit (default 200).
func (c *Cache) Preceding(opts ...QueryOption) (PosCharStyle, bool, error) {
	q := c.query(c.limits.Walk, opts)
	ignore, err := c.withCurrentStyle(q)
	if err != nil {
		return foldOutOfData(PosCharStyle{}, false, err)
	}
	return foldOutOfData(c.prev(ignore, q.limit))
}

// Succeeding moves forward; it mirrors Preceding.
func (c *Cache) Succeeding(opts ...QueryOption) (PosCharStyle, bool, error) {
	q := c.query(c.limits.Walk, opts)
	ignore, err := c.withCurrentStyle(q)
	if err != nil {
		return foldOutOfData(PosCharStyle{}, false, err)
	}
	return foldOutOfData(c.next(ignore, q.limit))
}

// TextBack returns the text from the start of the current style run up to
// and including the cursor, and the position where that text starts.
//
// The cursor is left on the first character of the run so the boundary is
// seen again by the next walk. When the buffer start or the limit (default
// 200) is reached first, the text is clamped to Limit characters.
func (c *Cache) TextBack(opts ...QueryOption) (int, string, error) {
	q := c.query(c.limits.Text, opts)
	origin := c.Pos()
	p, ok, err := c.Preceding(q.options()...)
	if err != nil {
		return 0, "", err
	}
	if !ok {
		length, err := c.acc.Length()
		if err != nil {
			return 0, "", err
		}
		start := max(0, origin-q.limit)
		text, err := c.TextRange(start, min(origin+1, length))
		return start, text, err
	}
	c.cur++
	text, err := c.TextRange(p.Pos+1, origin+1)
	return p.Pos + 1, text, err
}

// TextForward returns the text from the cursor to the end of the current
// style run, and the position of the run's last character. It mirrors
// TextBack.
func (c *Cache) TextForward(opts ...QueryOption) (int, string, error) {
	q := c.query(c.limits.Text, opts)
	origin := c.Pos()
	p, ok, err := c.Succeeding(q.options()...)
	if err != nil {
		return 0, "", err
	}
	if !ok {
		length, err := c.acc.Length()
		if err != nil {
			return 0, "", err
		}
		end := min(length, origin+q.limit)
		text, err := c.TextRange(origin, end)
		return end, text, err
	}
	c.cur--
	text, err := c.TextRange(origin, p.Pos)
	return p.Pos - 1, text, err
}

// TextRange returns the text in [start, end), from the window when it
// covers the range and from the accessor otherwise. The window is never
// extended.
func (c *Cache) TextRange(start, end int) (string, error) {
	if start >= c.first && end <= c.last && start <= end {
		return string(c.chars[start-c.first : end-c.first]), nil
	}
	return c.acc.TextRange(start, end)
}

// withCurrentStyle returns q's ignore list extended with the current style.
func (c *Cache) withCurrentStyle(q query) ([]accessor.Style, error) {
	style, ok := q.style, q.hasStyle
	if !ok {
		if !c.loaded() {
			if err := c.ResetToPosition(c.Pos()); err != nil {
				return nil, err
			}
			if !c.loaded() {
				return nil, ErrOutOfData
			}
		}
		style = c.styles[c.cur]
	}
	return append([]accessor.Style{style}, q.ignore...), nil
}

// foldOutOfData reports ErrOutOfData as a not-found result.
func foldOutOfData(p PosCharStyle, ok bool, err error) (PosCharStyle, bool, error) {
	if errors.Is(err, ErrOutOfData) {
		return PosCharStyle{}, false, nil
	}
	return p, ok, err
}
