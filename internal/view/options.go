package view

import (
	"github.com/charmbracelet/log"

	"github.com/dshills/codeintel/internal/accessor"
)

// DefaultStyleBits is the default number of style bits per position.
const DefaultStyleBits = 5

// Option is a functional option for configuring a View.
type Option func(*View)

// WithStyleBits sets how many low bits of each raw style byte hold the
// style id. The remaining high bits hold indicators.
func WithStyleBits(bits int) Option {
	return func(v *View) {
		v.styleBits = bits
	}
}

// WithLexer sets the lexer used to restyle the view after edits.
func WithLexer(lexer accessor.Lexer) Option {
	return func(v *View) {
		v.lexer = lexer
	}
}

// WithLogger sets the view's logger.
func WithLogger(logger *log.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}
