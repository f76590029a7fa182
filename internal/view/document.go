package view

import (
	"sync"
	"weak"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/logging"
)

// Document is an open file that may or may not have a view.
type Document struct {
	id       uuid.UUID
	path     string
	language string
	logger   *log.Logger

	mu     sync.Mutex
	view   *View
	closed bool
}

// NewDocument creates a document with no view attached.
func NewDocument(path, language string) *Document {
	return &Document{
		id:       uuid.New(),
		path:     path,
		language: language,
		logger:   logging.Default(),
	}
}

// ID returns the document's unique id.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Path returns the document's path.
func (d *Document) Path() string {
	return d.path
}

// Language returns the document's language.
func (d *Document) Language() string {
	return d.language
}

// Attach makes v the document's view, releasing any previous view.
func (d *Document) Attach(v *View) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if v.Released() {
		return ErrReleased
	}
	if d.view != nil && d.view != v {
		d.view.Release()
	}
	d.view = v
	d.logger.Debug("view attached",
		logging.FieldDocument, d.id, logging.FieldPath, d.path, logging.FieldLength, v.TextLength())
	return nil
}

// Detach releases and forgets the current view, if any.
func (d *Document) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detach()
}

func (d *Document) detach() {
	if d.view == nil {
		return
	}
	d.view.Release()
	d.view = nil
	d.logger.Debug("view detached", logging.FieldDocument, d.id)
}

// View returns the attached view.
func (d *Document) View() (*View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.closed:
		return nil, ErrClosed
	case d.view == nil:
		return nil, ErrNoView
	}
	return d.view, nil
}

// Close detaches the view. A closed document accepts no new view.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detach()
	d.closed = true
}

// Closed reports whether Close was called.
func (d *Document) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Ref returns a resolver for the document's view that holds only a weak
// reference to the document. Once the document is unreachable the
// resolver fails with ErrCollected.
func (d *Document) Ref() accessor.Resolver {
	wp := weak.Make(d)
	return accessor.ResolverFunc(func() (accessor.View, error) {
		doc := wp.Value()
		if doc == nil {
			return nil, ErrCollected
		}
		v, err := doc.View()
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Accessor returns a deferred accessor over the document's view.
func (d *Document) Accessor(lexer accessor.Lexer) *accessor.Deferred {
	return accessor.NewDeferred(d.Ref(), lexer)
}
