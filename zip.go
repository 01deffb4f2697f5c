// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

// StopPolicy selects when a zip stops.
type StopPolicy uint8

const (
	// StopShortest truncates to the shortest child, mirroring standard
	// parallel-iteration truncation.
	StopShortest StopPolicy = iota
	// StopLongest continues until the longest child is exhausted, omitting
	// the keys of children that have already run out. Valid only for
	// dict-mode children: a positional row cannot omit entries.
	StopLongest
)

// ZipOptions tunes a zip node.
type ZipOptions struct {
	StopsAt StopPolicy
	// IgnoreFixed excludes single-valued children from the stopping-length
	// computation; a fixed child repeats its value at every step instead of
	// stopping the zip after one element.
	IgnoreFixed bool
}

// Zip returns a node advancing all children one step in lockstep, each
// step's value holding every child's current value.
func Zip(children Children, opts *ZipOptions) Tree {
	if opts == nil {
		opts = &ZipOptions{}
	}
	return &zip{children: children, stopsAt: opts.StopsAt, ignoreFixed: opts.IgnoreFixed}
}

type zip struct {
	defaultable
	children    Children
	stopsAt     StopPolicy
	ignoreFixed bool
}

func (n *zip) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *zip) gatherConfigNames(names map[string]struct{}) {
	n.children.gatherConfigNames(names)
}

func (n *zip) compile(cc *compileCtx, path string) (stream, error) {
	if n.children.len() == 0 {
		return nil, errContractf("zip needs at least one child")
	}
	if n.stopsAt == StopLongest && !n.children.isKeyed() {
		return nil, errContractf("zip stops-at-longest requires dict-mode children")
	}
	kids, err := compileChildren(cc, path, n.children)
	if err != nil {
		return nil, err
	}
	total, finite := zipLength(kids, n.stopsAt, n.ignoreFixed)
	return &zipStream{
		keyed:       n.children.isKeyed(),
		kids:        kids,
		stopsAt:     n.stopsAt,
		ignoreFixed: n.ignoreFixed,
		total:       total,
		finite:      finite,
	}, nil
}

func zipLength(kids []compiledChild, stopsAt StopPolicy, ignoreFixed bool) (int64, bool) {
	considered := 0
	haveFinite := false
	anyInfinite := false
	var shortest, longest int64
	for _, k := range kids {
		if ignoreFixed && zipFixed(k) {
			continue
		}
		considered++
		if !k.finite {
			anyInfinite = true
			continue
		}
		if !haveFinite {
			shortest, longest = k.n, k.n
			haveFinite = true
			continue
		}
		shortest = min(shortest, k.n)
		longest = max(longest, k.n)
	}
	if considered == 0 {
		// Every child is fixed: a single lockstep row.
		return 1, true
	}
	if stopsAt == StopShortest {
		// An infinite child never stops a shortest-zip.
		if haveFinite {
			return shortest, true
		}
		return 0, false
	}
	if anyInfinite {
		return 0, false
	}
	return longest, true
}

func zipFixed(k compiledChild) bool {
	return k.finite && k.n == 1
}

type zipStream struct {
	keyed       bool
	kids        []compiledChild
	stopsAt     StopPolicy
	ignoreFixed bool
	total       int64
	finite      bool
}

func (s *zipStream) length() (int64, bool) { return s.total, s.finite }

func (s *zipStream) at(i int64) (*Data, error) {
	values := make([]*Data, len(s.kids))
	for j, k := range s.kids {
		switch {
		case s.ignoreFixed && zipFixed(k):
			v, err := k.s.at(0)
			if err != nil {
				return nil, err
			}
			values[j] = v
		case k.finite && i >= k.n:
			// Exhausted child: only reachable under stops-at-longest, where
			// the key is omitted rather than filled.
			values[j] = nil
		default:
			v, err := k.s.at(i)
			if err != nil {
				return nil, err
			}
			values[j] = v
		}
	}
	return assemble(s.keyed, s.kids, values), nil
}
