package lexer

import (
	"regexp"
	"strings"
	"sync"

	"github.com/dshills/codeintel/internal/accessor"
)

// Rules is a regex lexer over whole buffers.
//
// Rules are tried in the order they were added and the leftmost match
// wins, so earlier rules take priority at the same position. Identifiers
// no rule claims are looked up in the keyword table; ASCII punctuation
// becomes StyleOperator and anything else StyleDefault.
type Rules struct {
	language   string
	extensions []string

	mu       sync.Mutex
	rules    []rule
	keywords map[string]accessor.Style
	pattern  *regexp.Regexp // combined rules, nil until first use
	groups   []int          // capture group -> index into all, -1 for inner groups
	all      []rule
}

type rule struct {
	pattern string
	style   accessor.Style
	keyword bool // style comes from the keyword table
}

var (
	identifierRule = rule{pattern: `[A-Za-z_][A-Za-z0-9_]*`, style: StyleIdentifier, keyword: true}
	operatorRule   = rule{pattern: `[[:punct:]]`, style: StyleOperator}
)

// NewRules creates an empty rule lexer for language.
func NewRules(language string, extensions ...string) *Rules {
	return &Rules{
		language:   language,
		extensions: extensions,
		keywords:   make(map[string]accessor.Style),
	}
}

// AddRule adds a rule styling matches of pattern. pattern must compile.
func (r *Rules) AddRule(pattern string, style accessor.Style) *Rules {
	regexp.MustCompile(pattern)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{pattern: pattern, style: style})
	r.pattern = nil
	return r
}

// AddBlock adds a delimited construct that may span lines. An unterminated
// block runs to the end of the buffer.
func (r *Rules) AddBlock(start, end string, style accessor.Style) *Rules {
	return r.AddRule(regexp.QuoteMeta(start)+`(?s:.*?)(?:`+regexp.QuoteMeta(end)+`|\z)`, style)
}

// AddKeywords styles the given identifiers.
func (r *Rules) AddKeywords(style accessor.Style, keywords ...string) *Rules {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, kw := range keywords {
		r.keywords[kw] = style
	}
	return r
}

// Language returns the language name.
func (r *Rules) Language() string {
	return r.language
}

// Extensions returns the file extensions the lexer handles.
func (r *Rules) Extensions() []string {
	return r.extensions
}

// compiled returns the combined pattern, building it if needed.
func (r *Rules) compiled() (*regexp.Regexp, []int, []rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pattern != nil {
		return r.pattern, r.groups, r.all
	}

	all := append(append([]rule(nil), r.rules...), identifierRule, operatorRule)
	parts := make([]string, len(all))
	groups := []int{-1} // group 0 is the whole match
	for i, rl := range all {
		parts[i] = "(" + rl.pattern + ")"
		groups = append(groups, i)
		for range regexp.MustCompile(rl.pattern).NumSubexp() {
			groups = append(groups, -1)
		}
	}
	r.pattern = regexp.MustCompile("(?m)" + strings.Join(parts, "|"))
	r.groups = groups
	r.all = all
	return r.pattern, r.groups, r.all
}

// Tokenize returns the token table for content.
func (r *Rules) Tokenize(content string) []accessor.Token {
	re, groups, all := r.compiled()
	styles := make([]accessor.Style, len(content))

	for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
		start, end := m[0], m[1]
		if start == end {
			continue
		}
		idx := -1
		for g := 1; g < len(groups); g++ {
			if groups[g] >= 0 && m[2*g] >= 0 {
				idx = groups[g]
				break
			}
		}
		if idx < 0 {
			continue
		}
		style := all[idx].style
		if all[idx].keyword {
			style = r.keywordStyle(content[start:end])
		}
		for i := start; i < end; i++ {
			styles[i] = style
		}
	}
	return accessor.TokensFromStyles(content, styles)
}

func (r *Rules) keywordStyle(word string) accessor.Style {
	r.mu.Lock()
	defer r.mu.Unlock()
	if style, ok := r.keywords[word]; ok {
		return style
	}
	return StyleIdentifier
}

// Plain styles all content with StyleDefault.
var Plain accessor.Lexer = accessor.LexerFunc(func(content string) []accessor.Token {
	if content == "" {
		return nil
	}
	return []accessor.Token{{Start: 0, End: len(content) - 1, Style: StyleDefault, Text: content}}
})
