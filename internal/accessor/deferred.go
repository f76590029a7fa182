package accessor

import (
	"fmt"
	"sync"
)

// Resolver locates the live view backing a document.
//
// ResolveView fails when the document is gone or has no view attached yet.
type Resolver interface {
	ResolveView() (View, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func() (View, error)

// ResolveView calls f().
func (f ResolverFunc) ResolveView() (View, error) {
	return f()
}

// deferredSource resolves its view on every access and holds no reference
// to it between calls, so a view dropped by its owner is never served.
type deferredSource struct {
	mu       sync.Mutex
	resolver Resolver
	bound    bool // the last resolve found a live view
}

func (d *deferredSource) acquire() (View, Style, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.bound = false
	v, err := d.resolver.ResolveView()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrNoBuffer, err)
	}
	if v == nil {
		return nil, 0, fmt.Errorf("%w: no view attached", ErrNoBuffer)
	}
	if released(v) {
		return nil, 0, fmt.Errorf("%w: view released", ErrNoBuffer)
	}
	d.bound = true
	return v, StyleMask(v.StyleBits()), nil
}

func (d *deferredSource) resolved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bound
}

// Deferred is a Live accessor whose view is resolved lazily.
//
// Construction never touches the view: a document typically has no view
// when its accessor is created. Each operation resolves the view afresh
// through the Resolver and fails with ErrNoBuffer while it cannot be
// resolved or has been released. Resolvers should be cheap and should not
// keep the view's owner alive.
type Deferred struct {
	*Live
	src *deferredSource
}

// NewDeferred creates an accessor that resolves its view through r on each
// use. lexer is used as in NewLive.
func NewDeferred(r Resolver, lexer Lexer) *Deferred {
	src := &deferredSource{resolver: r}
	return &Deferred{
		Live: &Live{src: src, lexer: lexer},
		src:  src,
	}
}

// Resolved reports whether the most recent operation found a live view.
func (d *Deferred) Resolved() bool {
	return d.src.resolved()
}
