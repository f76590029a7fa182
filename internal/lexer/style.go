// Package lexer produces token tables for the accessor package.
//
// Two engines are available: Rules, a regex lexer over the whole buffer
// with built-in definitions for a few languages, and Chroma, which adapts
// the chroma lexer collection. Both emit the style ids declared here, all
// of which fit in DefaultStyleBits.
package lexer

import (
	"strconv"

	"github.com/dshills/codeintel/internal/accessor"
)

// DefaultStyleBits is the number of style bits the styles need.
const DefaultStyleBits = 5

// Style ids for lexed text.
const (
	StyleDefault accessor.Style = iota
	StyleComment
	StyleString
	StyleNumber
	StyleKeyword
	StyleIdentifier
	StyleOperator
	StyleConstant
	StyleBuiltin
	StyleMeta
	StyleError

	styleCount
)

var styleNames = [...]string{
	StyleDefault:    "default",
	StyleComment:    "comment",
	StyleString:     "string",
	StyleNumber:     "number",
	StyleKeyword:    "keyword",
	StyleIdentifier: "identifier",
	StyleOperator:   "operator",
	StyleConstant:   "constant",
	StyleBuiltin:    "builtin",
	StyleMeta:       "meta",
	StyleError:      "error",
}

// StyleName returns the name of s, or "style<N>" for unknown ids.
func StyleName(s accessor.Style) string {
	if s >= 0 && s < styleCount {
		return styleNames[s]
	}
	return "style" + strconv.Itoa(int(s))
}

// ParseStyle returns the style named name.
func ParseStyle(name string) (accessor.Style, bool) {
	for i, n := range styleNames {
		if n == name {
			return accessor.Style(i), true
		}
	}
	return 0, false
}
