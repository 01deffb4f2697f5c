// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import "github.com/cockroachdb/errors"

// DefaultInfiniteChildBudget is the number of elements an unbounded child
// is truncated to when combined inside a cartesian product without an
// explicit First bound.
const DefaultInfiniteChildBudget int64 = 1000

// Options holds iteration settings.
type Options struct {
	// Logger receives the library's non-fatal warnings.
	Logger Logger
	// InfiniteChildBudget caps unbounded children combined inside a
	// cartesian product. <= 0 means DefaultInfiniteChildBudget.
	InfiniteChildBudget int64
}

// EnsureDefaults ensures that the default values for all options are set if
// a valid value was not already specified. Returns the options, for
// chaining; accepts a nil receiver.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.InfiniteChildBudget <= 0 {
		o.InfiniteChildBudget = DefaultInfiniteChildBudget
	}
	return o
}

// Cursor is a stateful iterator over a tree's value sequence. A cursor is
// created by Iterate, advanced by Next, and steered by Reverse and Reset;
// it holds no resources requiring release. Cursors over the same tree are
// fully independent. A Cursor is not goroutine-safe.
type Cursor struct {
	s      stream
	n      int64
	finite bool

	// pos is the ordinal of the next element in forward order; backward
	// iteration yields the element below pos. Direction changes do not
	// move pos: walking backward from the end requires a Reset first.
	pos       int64
	backward  bool
	exhausted bool
	err       error
}

// Iterate compiles a tree into a fresh cursor. Statically detectable
// contract violations (shuffling an infinite child, unresolved
// configurations, malformed ranges) surface here; data-dependent failures
// (a prime range holding no primes, a generator shorter than declared) are
// deferred to consumption and reported by Err after Next returns nil.
func Iterate(t Tree, opts *Options) (*Cursor, error) {
	opts = opts.EnsureDefaults()
	if names := ConfigurationNames(t); len(names) > 0 {
		return nil, errContractf("tree exposes unresolved configuration names %v", names)
	}
	cc := &compileCtx{opts: opts}
	s, err := t.compile(cc, "")
	if err != nil {
		return nil, err
	}
	n, finite := s.length()
	return &Cursor{s: s, n: n, finite: finite}, nil
}

// Check validates a tree without iterating it, suppressing warnings.
func Check(t Tree) error {
	_, err := Iterate(t, &Options{Logger: discardLogger{}})
	return err
}

// Next returns the next element in the cursor's current direction, or nil
// once the cursor is exhausted or has failed. Exhaustion is sticky: further
// calls keep returning nil until Reset. After a nil result, Err
// distinguishes exhaustion (nil error) from failure.
func (c *Cursor) Next() *Data {
	if c.err != nil || c.exhausted {
		return nil
	}
	if c.backward {
		if c.pos <= 0 {
			c.exhausted = true
			return nil
		}
		d, err := c.s.at(c.pos - 1)
		if err != nil {
			c.fail(err)
			return nil
		}
		c.pos--
		return d
	}
	if c.finite && c.pos >= c.n {
		c.exhausted = true
		return nil
	}
	d, err := c.s.at(c.pos)
	if err != nil {
		c.fail(err)
		return nil
	}
	c.pos++
	return d
}

func (c *Cursor) fail(err error) {
	if errors.Is(err, errStreamEnd) {
		// A source of unknown length ran out: ordinary exhaustion.
		c.exhausted = true
		return
	}
	c.err = err
}

// Reverse flips the iteration direction without moving the position. An
// exhausted cursor stays exhausted: there is nothing left to walk backward
// from the end without first returning to the start via Reset.
func (c *Cursor) Reverse() {
	c.backward = !c.backward
}

// Reset returns the cursor to the initial position for its current
// direction: the start for forward iteration, the end for backward. After
// Reverse followed by Reset, a full Next sweep yields the exact reverse of
// the forward sweep for any finite tree without lazy nodes. Resetting a
// backward cursor over an infinite tree fails, observable via Err.
func (c *Cursor) Reset() {
	c.exhausted = false
	c.err = nil
	if !c.backward {
		c.pos = 0
		return
	}
	if !c.finite {
		c.err = errors.Wrap(ErrInfiniteLength, "cannot reset a backward cursor over an infinite tree")
		return
	}
	c.pos = c.n
}

// Len returns the cursor's total length, or ErrInfiniteLength for
// unbounded trees.
func (c *Cursor) Len() (int64, error) {
	if !c.finite {
		return 0, ErrInfiniteLength
	}
	return c.n, nil
}

// SafeLen returns the total length, with false instead of an error for
// unbounded trees.
func (c *Cursor) SafeLen() (int64, bool) {
	if !c.finite {
		return 0, false
	}
	return c.n, true
}

// Err returns the deferred error that stopped the cursor, if any. It is
// nil after ordinary exhaustion.
func (c *Cursor) Err() error {
	return c.err
}
