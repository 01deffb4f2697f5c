// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DebugString returns a compact single-line rendering of a tree, used by
// tests and debug output. Nodes carrying a default value get an @value
// suffix; nodes bound to an explicit seed get a "seeded" marker.
func DebugString(t Tree) string {
	var b strings.Builder
	writeTree(&b, t)
	return b.String()
}

func writeTree(b *strings.Builder, t Tree) {
	switch n := t.(type) {
	case *constant:
		fmt.Fprintf(b, "constant(%s)", formatScalar(n.value))
	case *sequence:
		b.WriteString("sequence(")
		for i, v := range n.values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatScalar(v))
		}
		b.WriteByte(')')
	case *numericRange:
		fmt.Fprintf(b, "numeric-range(%s, %s)", formatScalar(n.lo), formatScalar(n.hi))
	case *linearRange:
		fmt.Fprintf(b, "linear-range(%s, %s, %d)", formatScalar(n.start), formatScalar(n.end), n.steps)
	case *geometricRange:
		fmt.Fprintf(b, "geometric-range(%s, %s, %d)", formatScalar(n.start), formatScalar(n.end), n.steps)
	case *integerRange:
		fmt.Fprintf(b, "integer-range(%d, %d, %d)", n.start, n.end, n.step)
	case *uniformRng:
		fmt.Fprintf(b, "uniform(%s, %s, %s%s)",
			formatScalar(n.low), formatScalar(n.high), formatCount(n.draws), seedMark(n.seeded))
	case *bigIntRng:
		fmt.Fprintf(b, "bigint(%s, %s, %s%s)", n.low, n.high, formatCount(n.draws), seedMark(n.seeded))
	case *primeRng:
		fmt.Fprintf(b, "prime(%d, %d, %s%s)", n.low, n.high, formatCount(n.draws), seedMark(n.seeded))
	case *generator:
		fmt.Fprintf(b, "generator(%s)", formatCount(n.size))
	case *transform:
		writeUnary(b, "transform", n.child)
	case *exprTransform:
		fmt.Fprintf(b, "expr(%q, ", n.src)
		writeTree(b, n.child)
		b.WriteByte(')')
	case *first:
		fmt.Fprintf(b, "first(%s, ", formatCount(n.n))
		writeTree(b, n.child)
		b.WriteByte(')')
	case *shuffle:
		if n.seeded {
			b.WriteString("shuffle(seeded, ")
			writeTree(b, n.child)
			b.WriteByte(')')
		} else {
			writeUnary(b, "shuffle", n.child)
		}
	case *accumulate:
		writeUnary(b, "accumulate", n.child)
	case *lazify:
		writeUnary(b, "lazify", n.child)
	case *product:
		var opts []string
		if n.snake {
			opts = append(opts, "snake")
		}
		if n.lazy {
			opts = append(opts, "lazy")
		}
		writeCombinator(b, "product", opts, n.children)
	case *union:
		var opts []string
		if n.preset == PresetFirst {
			opts = append(opts, "preset=first")
		}
		switch n.reset {
		case ResetFirst:
			opts = append(opts, "reset=first")
		case ResetLast:
			opts = append(opts, "reset=last")
		}
		writeCombinator(b, "union", opts, n.children)
	case *zip:
		var opts []string
		if n.stopsAt == StopLongest {
			opts = append(opts, "stops=longest")
		}
		if n.ignoreFixed {
			opts = append(opts, "ignore-fixed")
		}
		writeCombinator(b, "zip", opts, n.children)
	case *pick:
		var opts []string
		if n.seeded {
			opts = append(opts, "seeded")
		}
		writeCombinator(b, "pick", opts, n.children)
	case *configurations:
		var opts []string
		if n.defName != "" {
			opts = append(opts, "default="+n.defName)
		}
		if n.moveUp {
			opts = append(opts, "move-up")
		}
		if n.insertName {
			opts = append(opts, "insert-name")
		}
		b.WriteString("configurations")
		if len(opts) > 0 {
			b.WriteByte('(')
			b.WriteString(strings.Join(opts, ", "))
			b.WriteByte(')')
		}
		keys := make([]string, 0, len(n.alts))
		for k := range n.alts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('[')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteByte('=')
			writeTree(b, n.alts[k])
		}
		b.WriteByte(']')
	default:
		b.WriteString("<unknown>")
	}
	if v, ok := t.def(); ok {
		b.WriteByte('@')
		b.WriteString(formatScalar(v))
	}
}

func writeUnary(b *strings.Builder, name string, child Tree) {
	b.WriteString(name)
	b.WriteByte('(')
	writeTree(b, child)
	b.WriteByte(')')
}

func writeCombinator(b *strings.Builder, name string, opts []string, c Children) {
	b.WriteString(name)
	if len(opts) > 0 {
		b.WriteByte('(')
		b.WriteString(strings.Join(opts, ", "))
		b.WriteByte(')')
	}
	b.WriteByte('[')
	for i, e := range c.ordered() {
		if i > 0 {
			b.WriteString(", ")
		}
		if c.isKeyed() {
			b.WriteString(e.key)
			b.WriteByte('=')
		}
		writeTree(b, e.node)
	}
	b.WriteByte(']')
}

func formatCount(n int64) string {
	if n == Unbounded {
		return "unbounded"
	}
	return strconv.FormatInt(n, 10)
}

func seedMark(seeded bool) string {
	if seeded {
		return ", seeded"
	}
	return ""
}
