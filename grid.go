// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
)

// Axis is one coordinate axis of a fully-gridded tree: the dotted key path
// of the iterable node and its enumerated value set.
type Axis struct {
	Key    string
	Values []interface{}
}

// GridAxes projects a fully-gridded finite tree onto its coordinate axes.
// Products contribute one axis per (recursively flattened) child, with
// dotted key paths; any other node forms a single axis out of its own value
// sequence. Unbounded axes fail with ErrInfiniteLength.
func GridAxes(t Tree) ([]Axis, error) {
	axes, _, err := buildGrid(t)
	return axes, err
}

// GridIndices returns, for every sample of the tree in iteration order, the
// per-axis value index, suitable for populating an N-dimensional labeled
// array. Snake ordering is reflected in the tuples.
func GridIndices(t Tree) ([][]int, error) {
	axes, g, err := buildGrid(t)
	if err != nil {
		return nil, err
	}
	out := make([][]int, g.n)
	for i := int64(0); i < g.n; i++ {
		tuple := make([]int, len(axes))
		g.indicesInto(i, tuple)
		out[i] = tuple
	}
	return out, nil
}

// FormatGrid renders the full sample table of a fully-gridded tree, one
// column per axis, one row per sample in iteration order.
func FormatGrid(t Tree) (string, error) {
	axes, g, err := buildGrid(t)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	header := make([]string, len(axes))
	for i, a := range axes {
		header[i] = a.Key
	}
	table.SetHeader(header)
	tuple := make([]int, len(axes))
	for i := int64(0); i < g.n; i++ {
		g.indicesInto(i, tuple)
		row := make([]string, len(axes))
		for j, a := range axes {
			row[j] = formatScalar(a.Values[tuple[j]])
		}
		table.Append(row)
	}
	table.Render()
	return buf.String(), nil
}

// gridNode mirrors the product nesting of the tree for ordinal-to-index
// decomposition, reusing the product's digit rule so the tuples match the
// iterated sequence exactly.
type gridNode struct {
	axis     int // axis ordinal for a leaf, -1 for a product level
	children []gridNode
	lens     []int64
	snake    bool
	n        int64
}

func buildGrid(t Tree) ([]Axis, gridNode, error) {
	cc := &compileCtx{opts: (&Options{Logger: discardLogger{}}).EnsureDefaults()}
	var axes []Axis
	g, err := buildGridNode(t, cc, "", "", &axes)
	return axes, g, err
}

func buildGridNode(t Tree, cc *compileCtx, path, prefix string, axes *[]Axis) (gridNode, error) {
	if p, ok := t.(*product); ok {
		if p.children.len() == 0 {
			return gridNode{}, errContractf("cartesian product needs at least one child")
		}
		g := gridNode{axis: -1, snake: p.snake, n: 1}
		for _, e := range p.children.ordered() {
			child, err := buildGridNode(e.node, cc, childPath(path, e.key), joinKey(prefix, e.key), axes)
			if err != nil {
				return gridNode{}, err
			}
			g.children = append(g.children, child)
			g.lens = append(g.lens, child.n)
			g.n *= child.n
		}
		return g, nil
	}
	s, err := t.compile(cc, path)
	if err != nil {
		return gridNode{}, err
	}
	n, finite := s.length()
	if !finite {
		return gridNode{}, errors.Wrapf(ErrInfiniteLength, "grid axis %q is unbounded", prefix)
	}
	values := make([]interface{}, n)
	for i := int64(0); i < n; i++ {
		d, err := s.at(i)
		if err != nil {
			return gridNode{}, err
		}
		values[i] = dataToNative(d)
	}
	*axes = append(*axes, Axis{Key: prefix, Values: values})
	return gridNode{axis: len(*axes) - 1, n: n}, nil
}

func (g *gridNode) indicesInto(i int64, out []int) {
	if g.axis >= 0 {
		out[g.axis] = int(i)
		return
	}
	d := make([]int64, len(g.lens))
	digitsInto(g.lens, g.snake, i, d)
	for j := range g.children {
		g.children[j].indicesInto(d[j], out)
	}
}
