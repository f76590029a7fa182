package accessor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingResolver hands out view, counting calls.
type countingResolver struct {
	view  View
	err   error
	calls int
}

func (r *countingResolver) ResolveView() (View, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.view, nil
}

func TestDeferredResolvesLazily(t *testing.T) {
	r := &countingResolver{view: newFakeView(refContent, refStyles, 5)}
	acc := NewDeferred(r, nil)

	assert.Zero(t, r.calls, "construction must not resolve")
	assert.False(t, acc.Resolved())

	n, err := acc.Length()
	require.NoError(t, err)
	assert.Equal(t, len(refContent), n)
	assert.True(t, acc.Resolved())

	style, err := acc.StyleAt(0)
	require.NoError(t, err)
	assert.Equal(t, Style(1), style)
	assert.Equal(t, 2, r.calls, "every operation resolves the view")
}

func TestDeferredNoView(t *testing.T) {
	cause := errors.New("document not open")
	r := &countingResolver{err: cause}
	acc := NewDeferred(r, nil)

	_, err := acc.CharAt(0)
	assert.ErrorIs(t, err, ErrNoBuffer)
	assert.ErrorIs(t, err, cause)
	assert.False(t, acc.Resolved())

	// A later view is picked up.
	r.err = nil
	r.view = newFakeView("x", "3", 5)
	ch, err := acc.CharAt(0)
	require.NoError(t, err)
	assert.Equal(t, byte('x'), ch)
	assert.Equal(t, 2, r.calls)
}

func TestDeferredFollowsResolver(t *testing.T) {
	r := &countingResolver{view: newFakeView("one", "111", 5)}
	acc := NewDeferred(r, nil)

	text, err := acc.Text()
	require.NoError(t, err)
	assert.Equal(t, "one", text)

	// The owner swaps views without releasing the old one.
	r.view = newFakeView("two", "222", 5)
	text, err = acc.Text()
	require.NoError(t, err)
	assert.Equal(t, "two", text)

	// The owner loses the view entirely.
	cause := errors.New("document collected")
	r.err = cause
	_, err = acc.Text()
	assert.ErrorIs(t, err, ErrNoBuffer)
	assert.ErrorIs(t, err, cause)
	assert.False(t, acc.Resolved())
}

func TestDeferredNilView(t *testing.T) {
	acc := NewDeferred(ResolverFunc(func() (View, error) { return nil, nil }), nil)

	_, err := acc.Text()
	assert.ErrorIs(t, err, ErrNoBuffer)
}

func TestDeferredReleasedView(t *testing.T) {
	first := newFakeView("old", "000", 5)
	r := &countingResolver{view: first}
	acc := NewDeferred(r, nil)

	text, err := acc.Text()
	require.NoError(t, err)
	assert.Equal(t, "old", text)

	first.released = true
	_, err = acc.Text()
	assert.ErrorIs(t, err, ErrNoBuffer)
	assert.False(t, acc.Resolved())

	r.view = newFakeView("new", "111", 5)
	text, err = acc.Text()
	require.NoError(t, err)
	assert.Equal(t, "new", text)
	assert.Equal(t, 3, r.calls)
}

func TestDeferredResolverReturnsReleasedView(t *testing.T) {
	v := newFakeView("gone", "0000", 5)
	v.released = true
	acc := NewDeferred(&countingResolver{view: v}, nil)

	_, err := acc.Length()
	assert.ErrorIs(t, err, ErrNoBuffer)
	assert.False(t, acc.Resolved())
}

func TestDeferredSequences(t *testing.T) {
	v := newFakeView(refContent, refStyles, 5)
	acc := NewDeferred(&countingResolver{view: v}, nil)

	seq, err := acc.CharsAndStylesBack(3, -1)
	require.NoError(t, err)
	text, _ := collect(seq)
	assert.Equal(t, "sihT", text)
	assert.Equal(t, 1, v.styledCalls)
}
