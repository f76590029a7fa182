// Package view provides a live styled text view and the document that
// owns it.
//
// A View holds text with one raw style byte per position: the low
// StyleBits bits carry the style id and the bits above carry indicators.
// Edits restyle the view through its lexer. A View implements
// accessor.View, so accessor.NewLive can read it directly.
//
// A Document owns at most one View at a time. Accessors created before a
// view exists hold a weak reference to the document through Ref and
// resolve the view on every call:
//
//	doc := view.NewDocument("main.go", "go")
//	acc := doc.Accessor(lexer.Go())
//	_, err := acc.Length() // ErrNoBuffer: nothing attached yet
//
//	v, _ := view.New(src, view.WithLexer(lexer.Go()))
//	_ = doc.Attach(v)
//	n, _ := acc.Length()
package view
