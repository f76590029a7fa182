package lexer

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/logging"
)

// Chroma adapts a chroma lexer to accessor.Lexer.
//
// Chroma token values are laid end to end over the content to recover
// byte offsets. Line endings are left as they are, so offsets stay valid
// for "\r\n" content.
type Chroma struct {
	lexer chroma.Lexer
}

// NewChroma returns the chroma lexer named language (a name or alias).
func NewChroma(language string) (*Chroma, error) {
	l := lexers.Get(language)
	if l == nil {
		return nil, fmt.Errorf("%w: no chroma lexer for %q", ErrUnknownLanguage, language)
	}
	return &Chroma{lexer: chroma.Coalesce(l)}, nil
}

// ChromaForFile returns the chroma lexer matching filename.
func ChromaForFile(filename string) (*Chroma, error) {
	l := lexers.Match(filename)
	if l == nil {
		return nil, fmt.Errorf("%w: no chroma lexer for file %q", ErrUnknownLanguage, filename)
	}
	return &Chroma{lexer: chroma.Coalesce(l)}, nil
}

// Name returns the chroma lexer name.
func (c *Chroma) Name() string {
	return c.lexer.Config().Name
}

// Tokenize returns the token table for content. A chroma failure styles
// the whole content with StyleDefault.
func (c *Chroma) Tokenize(content string) []accessor.Token {
	styles := make([]accessor.Style, len(content))
	it, err := c.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, content)
	if err != nil {
		logging.Default().Warn("chroma tokenise failed",
			logging.FieldLexer, c.Name(), logging.FieldError, err)
		return accessor.TokensFromStyles(content, styles)
	}

	// Chroma may append a newline; anything past the content is dropped.
	pos := 0
	for tok := it(); tok != chroma.EOF && pos < len(content); tok = it() {
		end := min(len(content), pos+len(tok.Value))
		style := chromaStyle(tok.Type)
		for i := pos; i < end; i++ {
			styles[i] = style
		}
		pos = end
	}
	return accessor.TokensFromStyles(content, styles)
}

func chromaStyle(t chroma.TokenType) accessor.Style {
	switch {
	case t == chroma.CommentPreproc || t == chroma.CommentPreprocFile:
		return StyleMeta
	case t.InCategory(chroma.Comment):
		return StyleComment
	case t.InSubCategory(chroma.LiteralString):
		return StyleString
	case t.InSubCategory(chroma.LiteralNumber):
		return StyleNumber
	case t == chroma.KeywordConstant:
		return StyleConstant
	case t.InCategory(chroma.Keyword):
		return StyleKeyword
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		return StyleBuiltin
	case t == chroma.NameDecorator:
		return StyleMeta
	case t.InCategory(chroma.Name):
		return StyleIdentifier
	case t.InCategory(chroma.Operator) || t.InCategory(chroma.Punctuation):
		return StyleOperator
	case t == chroma.Error:
		return StyleError
	}
	return StyleDefault
}
