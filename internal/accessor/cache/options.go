package cache

import (
	"github.com/charmbracelet/log"

	"github.com/dshills/codeintel/internal/accessor"
)

// Limits bounds how far walks may travel when no Limit option is given.
type Limits struct {
	// Step bounds Prev and Next.
	Step int
	// Walk bounds Preceding and Succeeding.
	Walk int
	// Text bounds TextBack and TextForward.
	Text int
}

// DefaultLimits returns the default walk limits.
func DefaultLimits() Limits {
	return Limits{Step: 100, Walk: 200, Text: 200}
}

// Option configures a Cache.
type Option func(*Cache)

// WithFetchSize sets the window growth step.
func WithFetchSize(size int) Option {
	return func(c *Cache) {
		if size > 0 {
			c.fetchSize = size
		}
	}
}

// WithLimits sets the default walk limits. Non-positive fields keep their
// defaults.
func WithLimits(l Limits) Option {
	return func(c *Cache) {
		if l.Step > 0 {
			c.limits.Step = l.Step
		}
		if l.Walk > 0 {
			c.limits.Walk = l.Walk
		}
		if l.Text > 0 {
			c.limits.Text = l.Text
		}
	}
}

// WithLogger sets the logger used for window debugging.
func WithLogger(logger *log.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// QueryOption configures a single walk.
type QueryOption func(*query)

type query struct {
	style    accessor.Style
	hasStyle bool
	ignore   []accessor.Style
	limit    int
}

// WithStyle sets the style treated as current by Preceding, Succeeding,
// TextBack and TextForward, instead of the style under the cursor.
func WithStyle(style accessor.Style) QueryOption {
	return func(q *query) {
		q.style = style
		q.hasStyle = true
	}
}

// Ignoring skips positions with any of styles.
func Ignoring(styles ...accessor.Style) QueryOption {
	return func(q *query) {
		q.ignore = append(q.ignore, styles...)
	}
}

// Limit bounds the number of positions examined (or, for TextBack and
// TextForward, the length of clamped text).
func Limit(n int) QueryOption {
	return func(q *query) {
		if n > 0 {
			q.limit = n
		}
	}
}

func (c *Cache) query(limit int, opts []QueryOption) query {
	q := query{limit: limit}
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// options rebuilds the option list for q.
func (q query) options() []QueryOption {
	opts := []QueryOption{Ignoring(q.ignore...), Limit(q.limit)}
	if q.hasStyle {
		opts = append(opts, WithStyle(q.style))
	}
	return opts
}
