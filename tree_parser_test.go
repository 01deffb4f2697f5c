// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"math/big"
	"testing"

	"github.com/paramtree/paramtree/internal/strparse"
)

// parseTree builds a tree from a compact expression mirroring the
// DebugString syntax, e.g.
//
//	product(snake)[a=sequence(1, 2, 3), b=integer-range(0, 10, 5)]
//
// Keys and scalar literals are bare tokens; integers parse to int64, other
// numbers to float64. A trailing @value attaches a default.
func parseTree(tb testing.TB, input string) Tree {
	tb.Helper()
	t, err := tryParseTree(input)
	if err != nil {
		tb.Fatalf("%v", err)
	}
	return t
}

func tryParseTree(input string) (_ Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if err, ok = r.(error); ok {
				return
			}
			panic(r)
		}
	}()
	p := strparse.MakeParser("()[]=,@", input)
	t := parseTreeExpr(&p)
	if !p.Done() {
		p.Errf("unexpected trailing input %q", p.Remaining())
	}
	return t, nil
}

func parseTreeExpr(p *strparse.Parser) Tree {
	name := p.Next()
	var t Tree
	switch name {
	case "constant":
		p.Expect("(")
		v := p.Scalar()
		p.Expect(")")
		t = Constant(v)
	case "sequence":
		p.Expect("(")
		var vals []interface{}
		for {
			vals = append(vals, p.Scalar())
			if !p.TryExpect(",") {
				break
			}
		}
		p.Expect(")")
		t = Sequence(vals...)
	case "numeric-range":
		p.Expect("(")
		lo := p.Float()
		p.Expect(",")
		hi := p.Float()
		p.Expect(")")
		t = NumericRange(lo, hi)
	case "linear-range", "geometric-range":
		p.Expect("(")
		start := p.Float()
		p.Expect(",")
		end := p.Float()
		p.Expect(",")
		steps := p.Int64()
		p.Expect(")")
		if name == "linear-range" {
			t = LinearRange(start, end, steps)
		} else {
			t = GeometricRange(start, end, steps)
		}
	case "integer-range":
		p.Expect("(")
		start := p.Int64()
		p.Expect(",")
		end := p.Int64()
		p.Expect(",")
		step := p.Int64()
		p.Expect(")")
		t = IntegerRange(start, end, step)
	case "uniform":
		p.Expect("(")
		low := p.Float()
		p.Expect(",")
		high := p.Float()
		p.Expect(",")
		draws := parseCount(p)
		p.Expect(")")
		t = UniformRng(low, high, draws)
	case "bigint":
		p.Expect("(")
		low := p.Int64()
		p.Expect(",")
		high := p.Int64()
		p.Expect(",")
		draws := parseCount(p)
		p.Expect(")")
		t = UniformBigIntRng(big.NewInt(low), big.NewInt(high), draws)
	case "prime":
		p.Expect("(")
		low := p.Uint64()
		p.Expect(",")
		high := p.Uint64()
		p.Expect(",")
		draws := parseCount(p)
		p.Expect(")")
		t = PrimeRng(low, high, draws)
	case "first":
		p.Expect("(")
		n := parseCount(p)
		p.Expect(",")
		child := parseTreeExpr(p)
		p.Expect(")")
		t = First(child, n)
	case "shuffle", "accumulate", "lazify":
		p.Expect("(")
		child := parseTreeExpr(p)
		p.Expect(")")
		switch name {
		case "shuffle":
			t = Shuffle(child)
		case "accumulate":
			t = Accumulate(child)
		default:
			t = Lazify(child)
		}
	case "expr":
		p.Expect("(")
		src := p.Next()
		p.Expect(",")
		child := parseTreeExpr(p)
		p.Expect(")")
		t = ExprTransform(child, src)
	case "product":
		var opts ProductOptions
		for k := range parseNodeOptions(p) {
			switch k {
			case "snake":
				opts.Snake = true
			case "lazy":
				opts.Lazy = true
			default:
				p.Errf("unknown product option %q", k)
			}
		}
		t = Product(parseChildSet(p), &opts)
	case "union":
		var opts UnionOptions
		for k, v := range parseNodeOptions(p) {
			switch {
			case k == "preset" && v == "first":
				opts.Preset = PresetFirst
			case k == "reset" && v == "first":
				opts.Reset = ResetFirst
			case k == "reset" && v == "last":
				opts.Reset = ResetLast
			default:
				p.Errf("unknown union option %q=%q", k, v)
			}
		}
		t = Union(parseChildSet(p), &opts)
	case "zip":
		var opts ZipOptions
		for k, v := range parseNodeOptions(p) {
			switch {
			case k == "stops" && v == "longest":
				opts.StopsAt = StopLongest
			case k == "ignore-fixed":
				opts.IgnoreFixed = true
			default:
				p.Errf("unknown zip option %q=%q", k, v)
			}
		}
		t = Zip(parseChildSet(p), &opts)
	case "pick":
		t = Pick(parseChildSet(p), nil)
	case "configurations":
		var opts ConfigurationsOptions
		for k, v := range parseNodeOptions(p) {
			switch k {
			case "default":
				opts.Default = v
			case "move-up":
				opts.MoveUp = true
			case "insert-name":
				opts.InsertName = true
			default:
				p.Errf("unknown configurations option %q", k)
			}
		}
		alts := make(map[string]Tree)
		p.Expect("[")
		for {
			k := p.Next()
			p.Expect("=")
			alts[k] = parseTreeExpr(p)
			if p.TryExpect("]") {
				break
			}
			p.Expect(",")
		}
		t = Configurations(alts, &opts)
	default:
		p.Errf("unknown node kind %q", name)
	}
	if p.TryExpect("@") {
		t = t.WithDefault(p.Scalar())
	}
	return t
}

func parseCount(p *strparse.Parser) int64 {
	if p.TryExpect("unbounded") {
		return Unbounded
	}
	return p.Int64()
}

func parseNodeOptions(p *strparse.Parser) map[string]string {
	opts := make(map[string]string)
	if !p.TryExpect("(") {
		return opts
	}
	for {
		k := p.Next()
		var v string
		if p.TryExpect("=") {
			v = p.Next()
		}
		opts[k] = v
		if p.TryExpect(")") {
			return opts
		}
		p.Expect(",")
	}
}

// parseChildSet parses a bracketed child list; the set is dict-mode iff the
// first entry has the form key=expr.
func parseChildSet(p *strparse.Parser) Children {
	p.Expect("[")
	probe := *p
	probe.Next()
	if probe.Peek() == "=" {
		m := make(map[string]Tree)
		for {
			k := p.Next()
			p.Expect("=")
			m[k] = parseTreeExpr(p)
			if p.TryExpect("]") {
				return Keyed(m)
			}
			p.Expect(",")
		}
	}
	var list []Tree
	for {
		list = append(list, parseTreeExpr(p))
		if p.TryExpect("]") {
			return List(list...)
		}
		p.Expect(",")
	}
}
