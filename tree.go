// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package paramtree implements a combinatorial iteration-tree engine: trees
// of iteration nodes (ranges, sequences, seeded random generators, and
// n-ary combinators such as cartesian product, union, zip, pick and named
// configurations) that are walked lazily to produce structured parameter
// assignments.
//
// A tree is built once as an immutable value, optionally passed through
// GenerateSeeds and GetConfiguration, and then handed to Iterate, which
// returns a Cursor implementing the iterator protocol (Next, Reverse,
// Reset, Len, SafeLen). Distinct cursors over the same tree are fully
// independent and, given the same seed salt, produce identical sequences.
package paramtree

import (
	"sort"
	"strconv"
)

// Tree is an immutable iteration-node descriptor. Trees are constructed
// bottom-up by the package constructors (Sequence, IntegerRange, Product,
// Union, ...) and never mutated afterwards; structural sharing between
// trees is safe.
type Tree interface {
	// WithDefault returns a copy of this node carrying v as its default
	// value. Defaults are consulted by Union preset and reset policies.
	WithDefault(v interface{}) Tree

	// def returns the node's declared default value, if any.
	def() (interface{}, bool)
	// gatherConfigNames accumulates the configuration names reachable from
	// this node.
	gatherConfigNames(names map[string]struct{})
	// compile resolves the node into an ordinal-indexed stream. path is the
	// node's structural path from the root, used for deterministic seed
	// derivation.
	compile(cc *compileCtx, path string) (stream, error)
}

// Unbounded is the size sentinel meaning "unknown or infinite": an
// unbounded draw count for a random leaf, an undeclared generator size, or
// no cap for First.
const Unbounded int64 = -1

// defaultable carries the optional default value shared by every node
// variant. It also supplies the no-op configuration-name walk that leaf
// nodes inherit; nodes with children shadow gatherConfigNames.
type defaultable struct {
	defVal interface{}
	hasDef bool
}

func (d defaultable) def() (interface{}, bool) { return d.defVal, d.hasDef }

func (defaultable) gatherConfigNames(map[string]struct{}) {}

func (d *defaultable) setDefault(v interface{}) {
	d.defVal = v
	d.hasDef = true
}

// Children holds a combinator's child set, either as an ordered list
// (position is the key) or as a mapping from key to subtree. Combinators
// never depend on map iteration order: dict-mode children are visited in
// sorted key order.
type Children struct {
	list  []Tree
	keyed map[string]Tree
}

// List returns a list-mode child set; the position of each child is its
// key.
func List(children ...Tree) Children {
	return Children{list: children}
}

// Keyed returns a dict-mode child set.
func Keyed(children map[string]Tree) Children {
	return Children{keyed: children}
}

func (c Children) isKeyed() bool { return c.keyed != nil }

func (c Children) len() int {
	if c.isKeyed() {
		return len(c.keyed)
	}
	return len(c.list)
}

type childEntry struct {
	key  string
	node Tree
}

// ordered returns the children in their traversal order: declaration order
// for list mode, sorted key order for dict mode.
func (c Children) ordered() []childEntry {
	if c.isKeyed() {
		keys := make([]string, 0, len(c.keyed))
		for k := range c.keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]childEntry, len(keys))
		for i, k := range keys {
			entries[i] = childEntry{key: k, node: c.keyed[k]}
		}
		return entries
	}
	entries := make([]childEntry, len(c.list))
	for i, t := range c.list {
		entries[i] = childEntry{key: strconv.Itoa(i), node: t}
	}
	return entries
}

func (c Children) gatherConfigNames(names map[string]struct{}) {
	for _, e := range c.ordered() {
		e.node.gatherConfigNames(names)
	}
}

// rebuild returns a copy of the child set with each subtree replaced by
// fn(key, subtree). Used by the pure tree rewrites (seeding, configuration
// resolution).
func (c Children) rebuild(fn func(key string, t Tree) Tree) Children {
	if c.isKeyed() {
		m := make(map[string]Tree, len(c.keyed))
		for _, e := range c.ordered() {
			m[e.key] = fn(e.key, e.node)
		}
		return Children{keyed: m}
	}
	l := make([]Tree, len(c.list))
	for i, t := range c.list {
		l[i] = fn(strconv.Itoa(i), t)
	}
	return Children{list: l}
}

// ConfigurationNames returns the sorted set of configuration names
// reachable from t. The set must be empty by the time a tree is handed to
// Iterate: compiling a tree with unresolved configurations is a contract
// violation.
func ConfigurationNames(t Tree) []string {
	names := make(map[string]struct{})
	t.gatherConfigNames(names)
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// stream is a compiled node: an ordinal-indexed view of the node's value
// sequence. at(i) is valid for 0 <= i < length (for any i when the length
// is not finite); streams of unknown length report errStreamEnd from at
// once the underlying source ends. Implementations may memoize internally
// (random draws, external generators, pick schedules) but are otherwise
// pure: the same ordinal always yields the same value.
type stream interface {
	length() (n int64, finite bool)
	at(i int64) (*Data, error)
}

// compileCtx carries iteration options through tree compilation.
type compileCtx struct {
	opts *Options
}

func childPath(path, key string) string {
	return path + "/" + key
}

// compiledChild pairs a child's compiled stream with its node and length.
type compiledChild struct {
	key    string
	node   Tree
	s      stream
	n      int64
	finite bool
}

func compileChildren(cc *compileCtx, path string, c Children) ([]compiledChild, error) {
	entries := c.ordered()
	out := make([]compiledChild, len(entries))
	for i, e := range entries {
		s, err := e.node.compile(cc, childPath(path, e.key))
		if err != nil {
			return nil, err
		}
		n, finite := s.length()
		out[i] = compiledChild{key: e.key, node: e.node, s: s, n: n, finite: finite}
	}
	return out, nil
}

// defaultData returns the child's declared default as scalar Data.
func (c *compiledChild) defaultData() (*Data, error) {
	if v, ok := c.node.def(); ok {
		return ScalarOf(v), nil
	}
	return nil, errContractf("child %q has no default value", c.key)
}

// assemble builds the combinator output for one step from per-child values.
// A nil value omits the child: allowed only in dict mode (zip with
// stops-at-longest past a child's end).
func assemble(keyed bool, children []compiledChild, values []*Data) *Data {
	if keyed {
		m := make(map[string]*Data, len(values))
		for i, v := range values {
			if v != nil {
				m[children[i].key] = v
			}
		}
		return DictOf(m)
	}
	return ListOf(values...)
}
