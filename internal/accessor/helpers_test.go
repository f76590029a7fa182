package accessor

import (
	"strings"
	"sync/atomic"
)

// Reference buffer with one style digit per byte.
const (
	refContent = "This is my test buffer\r\nSecond   line\r\nThird line\r\n"
	refStyles  = "111101101101111011111122" + "111111000111122" + "111110111122"
)

// digitLexer styles content from a string of style digits, one per byte.
type digitLexer struct {
	digits string
	calls  atomic.Int32
}

func (d *digitLexer) Tokenize(content string) []Token {
	d.calls.Add(1)
	styles := make([]Style, len(content))
	for i := range content {
		styles[i] = Style(d.digits[i] - '0')
	}
	return TokensFromStyles(content, styles)
}

func refStatic() (*Static, *digitLexer) {
	lx := &digitLexer{digits: refStyles}
	return NewStatic(lx, refContent), lx
}

// fakeView is an in-memory View. Raw styles carry an indicator bit above
// the style bits.
type fakeView struct {
	text        string
	styles      []byte
	bits        int
	released    bool
	styledCalls int
	styleCalls  int
}

func newFakeView(text, digits string, bits int) *fakeView {
	styles := make([]byte, len(digits))
	for i := range digits {
		styles[i] = (digits[i] - '0') | 1<<bits
	}
	return &fakeView{text: text, styles: styles, bits: bits}
}

func (v *fakeView) CharAt(pos int) byte { return v.text[pos] }

func (v *fakeView) StyleAt(pos int) int {
	v.styleCalls++
	return int(v.styles[pos])
}

func (v *fakeView) StyledText(start, end int) []byte {
	v.styledCalls++
	out := make([]byte, 0, 2*(end-start))
	for i := start; i < end; i++ {
		out = append(out, v.text[i], v.styles[i])
	}
	return out
}

func (v *fakeView) LineFromPosition(pos int) int {
	line, _ := lineIndex(lineStarts(v.text), pos)
	return line
}

func (v *fakeView) PositionFromLine(line int) int {
	starts := lineStarts(v.text)
	if line >= len(starts) {
		return len(v.text)
	}
	return starts[line]
}

func (v *fakeView) TextRange(start, end int) string { return v.text[start:end] }
func (v *fakeView) Text() string                    { return v.text }
func (v *fakeView) TextLength() int                 { return len(v.text) }
func (v *fakeView) StyleBits() int                  { return v.bits }
func (v *fakeView) Released() bool                  { return v.released }

func collect(seq func(func(byte, Style) bool)) (string, []Style) {
	var sb strings.Builder
	var styles []Style
	for ch, st := range seq {
		sb.WriteByte(ch)
		styles = append(styles, st)
	}
	return sb.String(), styles
}
