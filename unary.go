// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/paramtree/paramtree/internal/randutil"
	"golang.org/x/exp/rand"
)

// unaryNode is the shared shape of single-child nodes.
type unaryNode struct {
	defaultable
	child Tree
}

func (u *unaryNode) gatherConfigNames(names map[string]struct{}) {
	u.child.gatherConfigNames(names)
}

// TransformFunc maps one produced value to another. It must be pure: the
// same input always yields the same output.
type TransformFunc func(*Data) (*Data, error)

// Transform returns a node applying fn to every value produced by child.
// Length and finiteness are preserved exactly.
func Transform(child Tree, fn TransformFunc) Tree {
	return &transform{unaryNode: unaryNode{child: child}, fn: fn}
}

type transform struct {
	unaryNode
	fn TransformFunc
}

func (n *transform) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *transform) compile(cc *compileCtx, path string) (stream, error) {
	if n.fn == nil {
		return nil, errContractf("transform has no function")
	}
	child, err := n.child.compile(cc, childPath(path, "0"))
	if err != nil {
		return nil, err
	}
	return &mapStream{child: child, fn: n.fn}, nil
}

// ExprTransform is Transform with the mapping written as an expr program
// (https://expr-lang.org). The child's value is bound to the identifier
// "value"; scalars are bound directly, lists and dicts as native Go slices
// and maps. The program result becomes the produced scalar.
func ExprTransform(child Tree, program string) Tree {
	return &exprTransform{unaryNode: unaryNode{child: child}, src: program}
}

type exprTransform struct {
	unaryNode
	src string
}

func (n *exprTransform) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *exprTransform) compile(cc *compileCtx, path string) (stream, error) {
	prog, err := expr.Compile(n.src)
	if err != nil {
		return nil, errContractf("bad transform expression %q: %v", n.src, err)
	}
	child, err := n.child.compile(cc, childPath(path, "0"))
	if err != nil {
		return nil, err
	}
	return &mapStream{child: child, fn: exprFunc(prog)}, nil
}

func exprFunc(prog *vm.Program) TransformFunc {
	return func(d *Data) (*Data, error) {
		out, err := expr.Run(prog, map[string]interface{}{"value": dataToNative(d)})
		if err != nil {
			return nil, errContractf("transform expression failed: %v", err)
		}
		return ScalarOf(out), nil
	}
}

// dataToNative lowers a Data value to plain Go values for expression
// evaluation.
func dataToNative(d *Data) interface{} {
	if d == nil {
		return nil
	}
	switch d.Kind {
	case ScalarData:
		return d.Scalar
	case ListData:
		out := make([]interface{}, len(d.List))
		for i, e := range d.List {
			out[i] = dataToNative(e)
		}
		return out
	case DictData:
		out := make(map[string]interface{}, len(d.Dict))
		for k, v := range d.Dict {
			out[k] = dataToNative(v)
		}
		return out
	}
	return nil
}

// First returns a node capping the child's length at n. Passing Unbounded
// means no cap. Wrapping an infinite child in First is the supported way to
// bound it before combining it.
func First(child Tree, n int64) Tree {
	return &first{unaryNode: unaryNode{child: child}, n: n}
}

type first struct {
	unaryNode
	n int64
}

func (n *first) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *first) compile(cc *compileCtx, path string) (stream, error) {
	child, err := n.child.compile(cc, childPath(path, "0"))
	if err != nil {
		return nil, err
	}
	if n.n == Unbounded {
		return child, nil
	}
	if n.n < 0 {
		return nil, errContractf("first cap %d is negative", n.n)
	}
	return clampStream(child, n.n), nil
}

// clampStream caps s at n elements. If s is already finite and shorter, it
// is returned unchanged.
func clampStream(s stream, n int64) stream {
	if sn, finite := s.length(); finite && sn <= n {
		return s
	}
	return &clamped{child: s, n: n}
}

type clamped struct {
	child stream
	n     int64
}

func (s *clamped) length() (int64, bool) { return s.n, true }

func (s *clamped) at(i int64) (*Data, error) { return s.child.at(i) }

// Shuffle returns a node producing a seeded uniform random permutation of
// the child's full value set. The child must be finite. The permutation is
// a pure function of the node's seed: re-running with the same seed
// reproduces it.
func Shuffle(child Tree) Tree {
	return &shuffle{unaryNode: unaryNode{child: child}}
}

type shuffle struct {
	unaryNode
	seedable
}

func (n *shuffle) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *shuffle) compile(cc *compileCtx, path string) (stream, error) {
	child, err := n.child.compile(cc, childPath(path, "0"))
	if err != nil {
		return nil, err
	}
	cn, finite := child.length()
	if !finite {
		return nil, errContractf("cannot shuffle a child of infinite length")
	}
	return &shuffleStream{child: child, n: cn, rng: randutil.NewRand(n.compileSeed(path))}, nil
}

type shuffleStream struct {
	child stream
	n     int64
	rng   *rand.Rand
	perm  []int
}

func (s *shuffleStream) length() (int64, bool) { return s.n, true }

func (s *shuffleStream) at(i int64) (*Data, error) {
	if s.perm == nil {
		s.perm = randutil.Perm(s.rng, int(s.n))
	}
	return s.child.at(int64(s.perm[i]))
}

// Accumulate returns a node converting a sequence of partial dict updates
// into a sequence of cumulative snapshots: snapshot i is the merge of
// updates 0..i. Wrapping a lazy product in Accumulate reconstructs the
// eager output.
func Accumulate(child Tree) Tree {
	return &accumulate{unaryNode: unaryNode{child: child}}
}

type accumulate struct {
	unaryNode
}

func (n *accumulate) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *accumulate) compile(cc *compileCtx, path string) (stream, error) {
	child, err := n.child.compile(cc, childPath(path, "0"))
	if err != nil {
		return nil, err
	}
	return &accumStream{child: child}, nil
}

type accumStream struct {
	child stream
	snaps []*Data
}

func (s *accumStream) length() (int64, bool) { return s.child.length() }

func (s *accumStream) at(i int64) (*Data, error) {
	for int64(len(s.snaps)) <= i {
		update, err := s.child.at(int64(len(s.snaps)))
		if err != nil {
			return nil, err
		}
		var snap *Data
		if len(s.snaps) == 0 {
			snap = DictOf(map[string]*Data{})
		} else {
			snap = s.snaps[len(s.snaps)-1].Clone()
		}
		if _, err := MergeInto(snap, update); err != nil {
			return nil, err
		}
		s.snaps = append(s.snaps, snap)
	}
	return s.snaps[i].Clone(), nil
}

// Lazify marks the combinator child lazy, so that it emits per-step diffs
// instead of full snapshots. Only dict-mode cartesian products support lazy
// emission.
func Lazify(child Tree) Tree {
	return &lazify{unaryNode: unaryNode{child: child}}
}

type lazify struct {
	unaryNode
}

func (n *lazify) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *lazify) compile(cc *compileCtx, path string) (stream, error) {
	p, ok := n.child.(*product)
	if !ok {
		return nil, errContractf("lazify requires a cartesian product child")
	}
	lp := *p
	lp.lazy = true
	return lp.compile(cc, childPath(path, "0"))
}

// mapStream applies a transform function to every element of the child.
type mapStream struct {
	child stream
	fn    TransformFunc
}

func (s *mapStream) length() (int64, bool) { return s.child.length() }

func (s *mapStream) at(i int64) (*Data, error) {
	d, err := s.child.at(i)
	if err != nil {
		return nil, err
	}
	return s.fn(d)
}
