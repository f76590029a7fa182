package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/lexer"
)

// styles holds the renderers for command output.
type styles struct {
	Header lipgloss.Style
	Pos    lipgloss.Style
	Dim    lipgloss.Style
	Text   lipgloss.Style

	token map[accessor.Style]lipgloss.Style
}

func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &styles{Header: plain, Pos: plain, Dim: plain, Text: plain}
	}
	color := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &styles{
		Header: lipgloss.NewStyle().Bold(true),
		Pos:    color("8"),
		Dim:    color("8"),
		Text:   color("7"),
		token: map[accessor.Style]lipgloss.Style{
			lexer.StyleComment:    color("8").Italic(true),
			lexer.StyleString:     color("10"),
			lexer.StyleNumber:     color("13"),
			lexer.StyleKeyword:    color("12").Bold(true),
			lexer.StyleIdentifier: color("7"),
			lexer.StyleOperator:   color("11"),
			lexer.StyleConstant:   color("13"),
			lexer.StyleBuiltin:    color("14"),
			lexer.StyleMeta:       color("5"),
			lexer.StyleError:      color("9").Bold(true),
		},
	}
}

// StyleName renders the name of a style id, padded to width, in that
// style's color.
func (s *styles) StyleName(style accessor.Style, width int) string {
	name := fmt.Sprintf("%-*s", width, lexer.StyleName(style))
	if st, ok := s.token[style]; ok {
		return st.Render(name)
	}
	return name
}

// isColorEnabled reports whether output to w should be colorized.
// mode is auto, always or never; auto colors terminals unless NO_COLOR is
// set.
func isColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
