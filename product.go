// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

// ProductOptions tunes a cartesian product node.
type ProductOptions struct {
	// Snake alternates the traversal direction of the fastest-varying child
	// on every "row" (boustrophedon order). The set of produced
	// combinations is identical to the non-snake order; only the sequence
	// differs.
	Snake bool
	// Lazy makes the product emit, at each step, only the children whose
	// value changed since the previous step. The first step is always a
	// full snapshot. Requires dict-mode children. Accumulating the lazy
	// diffs reconstructs the eager sequence exactly.
	Lazy bool
}

// Product returns a cartesian product over children: every combination of
// the children's values, in lexicographic nesting order with the last child
// varying fastest. A child of unbounded length is truncated to
// Options.InfiniteChildBudget with a warning; wrap it in First to bound it
// explicitly.
func Product(children Children, opts *ProductOptions) Tree {
	if opts == nil {
		opts = &ProductOptions{}
	}
	return &product{children: children, snake: opts.Snake, lazy: opts.Lazy}
}

type product struct {
	defaultable
	children Children
	snake    bool
	lazy     bool
}

func (n *product) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *product) gatherConfigNames(names map[string]struct{}) {
	n.children.gatherConfigNames(names)
}

func (n *product) compile(cc *compileCtx, path string) (stream, error) {
	if n.children.len() == 0 {
		return nil, errContractf("cartesian product needs at least one child")
	}
	if n.lazy && !n.children.isKeyed() {
		return nil, errContractf("lazy cartesian product requires dict-mode children")
	}
	kids, err := compileChildren(cc, path, n.children)
	if err != nil {
		return nil, err
	}
	lens := make([]int64, len(kids))
	for i := range kids {
		if !kids[i].finite {
			// Recoverable: cap the child at the configured budget instead
			// of looping forever.
			cc.opts.Logger.Infof(
				"paramtree: cartesian product child %q has unbounded length; truncating to %d elements",
				kids[i].key, cc.opts.InfiniteChildBudget)
			kids[i].s = clampStream(kids[i].s, cc.opts.InfiniteChildBudget)
			kids[i].n = cc.opts.InfiniteChildBudget
			kids[i].finite = true
		}
		lens[i] = kids[i].n
	}
	total := int64(1)
	for _, l := range lens {
		total *= l
	}
	return &productStream{
		keyed: n.children.isKeyed(),
		kids:  kids,
		lens:  lens,
		total: total,
		snake: n.snake,
		lazy:  n.lazy,
	}, nil
}

type productStream struct {
	keyed bool
	kids  []compiledChild
	lens  []int64
	total int64
	snake bool
	lazy  bool
}

func (s *productStream) length() (int64, bool) { return s.total, true }

// digitsInto decomposes ordinal i into one index per position of lens, last
// position fastest. With snake set, the fastest index runs backwards on
// every odd row, where a row is one full sweep of the fastest position.
func digitsInto(lens []int64, snake bool, i int64, d []int64) {
	rem := i
	for j := len(lens) - 1; j >= 0; j-- {
		d[j] = rem % lens[j]
		rem /= lens[j]
	}
	if snake && len(lens) > 0 {
		last := len(lens) - 1
		if (i/lens[last])%2 == 1 {
			d[last] = lens[last] - 1 - d[last]
		}
	}
}

func (s *productStream) at(i int64) (*Data, error) {
	d := make([]int64, len(s.lens))
	digitsInto(s.lens, s.snake, i, d)
	if !s.lazy || i == 0 {
		values := make([]*Data, len(s.kids))
		for j := range s.kids {
			v, err := s.kids[j].s.at(d[j])
			if err != nil {
				return nil, err
			}
			values[j] = v
		}
		return assemble(s.keyed, s.kids, values), nil
	}
	// Lazy step: emit only the children whose index moved since i-1. Index
	// equality implies value equality, since child streams are stable per
	// ordinal.
	prev := make([]int64, len(s.lens))
	digitsInto(s.lens, s.snake, i-1, prev)
	m := make(map[string]*Data)
	for j := range s.kids {
		if d[j] == prev[j] {
			continue
		}
		v, err := s.kids[j].s.at(d[j])
		if err != nil {
			return nil, err
		}
		m[s.kids[j].key] = v
	}
	return DictOf(m), nil
}
