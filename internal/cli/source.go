package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/lexer"
	"github.com/dshills/codeintel/internal/logging"
	"github.com/dshills/codeintel/internal/view"
)

// source is an opened file with the accessor commands read it through.
type source struct {
	language string
	acc      accessor.Accessor

	// Exactly one of static and doc is set.
	static *accessor.Static
	doc    *view.Document
}

// open reads path and builds an accessor for it: a Static accessor, or a
// Deferred accessor over a document's live view when --live is set.
func (s *session) open(ctx context.Context, path string) (*source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	engine, err := s.cfg.Lexer.EngineValue()
	if err != nil {
		return nil, err
	}
	lx, language, err := lexer.DefaultRegistry().ForFile(engine, path, s.cfg.Lexer.Language, data)
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)
	logger.Debug("file opened",
		logging.FieldPath, path, logging.FieldLanguage, language, logging.FieldLength, len(data))

	src := &source{language: language}
	if !s.flags.live {
		src.static = accessor.NewStatic(lx, string(data))
		src.acc = src.static
		return src, nil
	}

	v, err := view.New(string(data), append(s.cfg.View.Options(), view.WithLexer(lx), view.WithLogger(logger))...)
	if err != nil {
		return nil, err
	}
	src.doc = view.NewDocument(path, language)
	if err := src.doc.Attach(v); err != nil {
		return nil, err
	}
	src.acc = src.doc.Accessor(lx)
	return src, nil
}

// reload replaces the source's content.
func (src *source) reload(content string) error {
	if src.static != nil {
		src.static.ResetContent(content)
		return nil
	}
	v, err := src.doc.View()
	if err != nil {
		return err
	}
	return v.Replace(0, v.TextLength(), content)
}

// close releases the document's view, if any.
func (src *source) close() {
	if src.doc != nil {
		src.doc.Close()
	}
}
