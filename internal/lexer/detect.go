package lexer

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// LanguageText is reported when no language can be detected.
const LanguageText = "text"

// Detect returns the lowercase language name for a file, using its name
// first and its content otherwise.
func Detect(filename string, content []byte) string {
	if filename != "" {
		if lang, safe := enry.GetLanguageByExtension(filename); safe {
			return normalize(lang)
		}
		if lang, safe := enry.GetLanguageByFilename(filename); safe {
			return normalize(lang)
		}
	}
	if len(content) == 0 {
		return LanguageText
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}
	if lang := enry.GetLanguage(filename, content); lang != "" {
		return normalize(lang)
	}
	return LanguageText
}

// normalize converts go-enry language names to registry names.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "TypeScript", "TSX", "JSX":
		return "javascript"
	}
	return strings.ToLower(lang)
}
