// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"github.com/paramtree/paramtree/internal/randutil"
	"golang.org/x/exp/rand"
)

// PickOptions tunes a pick node.
type PickOptions struct {
	// Weights biases the seeded selection for list-mode children, aligned
	// with child positions. Unspecified weights default to 1.
	Weights []float64
	// KeyedWeights biases the selection for dict-mode children.
	KeyedWeights map[string]float64
}

// Pick returns a node that, at each step, selects exactly one child by a
// seeded weighted draw and emits that child's next value. Every child's own
// sequence is consumed in order and exactly once overall: pick interleaves
// unrelated sweeps without a cross product and without lockstep. The total
// length is the sum of the children's lengths.
func Pick(children Children, opts *PickOptions) Tree {
	if opts == nil {
		opts = &PickOptions{}
	}
	return &pick{children: children, weights: opts.Weights, keyedWeights: opts.KeyedWeights}
}

type pick struct {
	defaultable
	seedable
	children     Children
	weights      []float64
	keyedWeights map[string]float64
}

func (n *pick) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *pick) gatherConfigNames(names map[string]struct{}) {
	n.children.gatherConfigNames(names)
}

func (n *pick) compile(cc *compileCtx, path string) (stream, error) {
	if n.children.len() == 0 {
		return nil, errContractf("pick needs at least one child")
	}
	if n.weights != nil && n.children.isKeyed() {
		return nil, errContractf("positional weights given for dict-mode pick children")
	}
	if n.keyedWeights != nil && !n.children.isKeyed() {
		return nil, errContractf("keyed weights given for list-mode pick children")
	}
	if n.weights != nil && len(n.weights) != n.children.len() {
		return nil, errContractf("pick has %d children but %d weights",
			n.children.len(), len(n.weights))
	}
	kids, err := compileChildren(cc, path, n.children)
	if err != nil {
		return nil, err
	}
	weights := make([]float64, len(kids))
	for i, k := range kids {
		w := 1.0
		if n.weights != nil {
			w = n.weights[i]
		} else if n.keyedWeights != nil {
			if kw, ok := n.keyedWeights[k.key]; ok {
				w = kw
			}
		}
		if w <= 0 {
			return nil, errContractf("pick child %q has non-positive weight %v", k.key, w)
		}
		weights[i] = w
	}
	total := int64(0)
	finite := true
	for _, k := range kids {
		if !k.finite {
			finite = false
			break
		}
		total += k.n
	}
	return &pickStream{
		kids:     kids,
		weights:  weights,
		total:    total,
		finite:   finite,
		rng:      randutil.NewRand(n.compileSeed(path)),
		consumed: make([]int64, len(kids)),
	}, nil
}

type pickStep struct {
	child int
	idx   int64
}

// pickStream materializes the selection schedule lazily; the schedule is a
// deterministic function of the seed, so ordinals remain stable across
// resets and direction changes.
type pickStream struct {
	kids     []compiledChild
	weights  []float64
	total    int64
	finite   bool
	rng      *rand.Rand
	schedule []pickStep
	consumed []int64
}

func (s *pickStream) length() (int64, bool) { return s.total, s.finite }

func (s *pickStream) at(i int64) (*Data, error) {
	for int64(len(s.schedule)) <= i {
		if err := s.extendSchedule(); err != nil {
			return nil, err
		}
	}
	step := s.schedule[i]
	return s.kids[step.child].s.at(step.idx)
}

func (s *pickStream) extendSchedule() error {
	totalW := 0.0
	lastEligible := -1
	for j, k := range s.kids {
		if !k.finite || s.consumed[j] < k.n {
			totalW += s.weights[j]
			lastEligible = j
		}
	}
	if lastEligible < 0 {
		return errContractf("pick schedule extended beyond total length %d", s.total)
	}
	r := randutil.Float64(s.rng) * totalW
	for j, k := range s.kids {
		if k.finite && s.consumed[j] >= k.n {
			continue
		}
		r -= s.weights[j]
		if r < 0 || j == lastEligible {
			s.schedule = append(s.schedule, pickStep{child: j, idx: s.consumed[j]})
			s.consumed[j]++
			return nil
		}
	}
	return nil
}
