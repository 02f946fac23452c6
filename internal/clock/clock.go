// Package clock provides the monotonic timestamp source that orders every
// mutation applied to a file's lines and blocks.
package clock

import "sync/atomic"

// Provider hands out strictly increasing timestamps. The zero value is
// ready to use and starts at 0; the first call to Next returns 1.
//
// Provider has no wall-clock coupling: a timestamp is an ordering token,
// not a point in time. A single process-wide Provider is the
// serialization point for a File's write path (see internal/lineio).
type Provider struct {
	last atomic.Int64
}

// New returns a Provider starting from 0.
func New() *Provider {
	return &Provider{}
}

// Restore returns a Provider whose next allocated timestamp continues
// strictly after last, for resuming a Provider from a persisted value.
func Restore(last int64) *Provider {
	p := &Provider{}
	p.last.Store(last)

	return p
}

// Next allocates and returns the next timestamp.
func (p *Provider) Next() int64 {
	return p.last.Add(1)
}

// Last returns the most recently allocated timestamp, or 0 if Next has
// never been called.
func (p *Provider) Last() int64 {
	return p.last.Load()
}
