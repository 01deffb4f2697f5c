// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"iter"
	"math"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/paramtree/paramtree/internal/randutil"
)

// Default returns the declared default value of a node, if any. Defaults
// are attached with Tree.WithDefault and consulted by Union policies and by
// downstream consumers of default-carrier leaves such as NumericRange.
func Default(t Tree) (interface{}, bool) {
	return t.def()
}

// Constant returns a leaf producing a single fixed value.
func Constant(v interface{}) Tree {
	return &constant{value: v}
}

type constant struct {
	defaultable
	value interface{}
}

func (n *constant) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *constant) compile(cc *compileCtx, path string) (stream, error) {
	return &sliceStream{vals: []interface{}{n.value}}, nil
}

// Sequence returns a leaf replaying a fixed ordered list of values.
func Sequence(values ...interface{}) Tree {
	return &sequence{values: values}
}

type sequence struct {
	defaultable
	values []interface{}
}

func (n *sequence) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *sequence) compile(cc *compileCtx, path string) (stream, error) {
	return &sliceStream{vals: n.values}, nil
}

// NumericRange returns a continuous-range leaf over [lo, hi]. It has
// infinite length and is not iterable: it exists as a carrier for a default
// value and range bounds consumed by downstream tooling. Compiling a tree
// that would step a NumericRange is a contract violation.
func NumericRange(lo, hi float64) Tree {
	return &numericRange{lo: lo, hi: hi}
}

type numericRange struct {
	defaultable
	lo, hi float64
}

func (n *numericRange) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *numericRange) compile(cc *compileCtx, path string) (stream, error) {
	return nil, errContractf("numeric range [%v, %v] is continuous and cannot be iterated; "+
		"use a discrete range or consume its default value", n.lo, n.hi)
}

// LinearRange returns a leaf producing steps evenly spaced points from
// start to end inclusive, by linear interpolation.
func LinearRange(start, end float64, steps int64) Tree {
	return &linearRange{start: start, end: end, steps: steps}
}

type linearRange struct {
	defaultable
	start, end float64
	steps      int64
}

func (n *linearRange) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *linearRange) compile(cc *compileCtx, path string) (stream, error) {
	if n.steps < 1 {
		return nil, errContractf("linear range needs at least 1 step, got %d", n.steps)
	}
	return &fnStream{n: n.steps, fn: func(i int64) interface{} {
		if n.steps == 1 {
			return n.start
		}
		return n.start + (n.end-n.start)*float64(i)/float64(n.steps-1)
	}}, nil
}

// GeometricRange returns a leaf producing steps points from start to end
// inclusive with a constant ratio between consecutive points. start and end
// must be nonzero and share a sign.
func GeometricRange(start, end float64, steps int64) Tree {
	return &geometricRange{start: start, end: end, steps: steps}
}

type geometricRange struct {
	defaultable
	start, end float64
	steps      int64
}

func (n *geometricRange) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *geometricRange) compile(cc *compileCtx, path string) (stream, error) {
	if n.steps < 1 {
		return nil, errContractf("geometric range needs at least 1 step, got %d", n.steps)
	}
	if n.start == 0 || n.end == 0 || (n.start < 0) != (n.end < 0) {
		return nil, errContractf("geometric range endpoints must be nonzero and share a sign, got [%v, %v]",
			n.start, n.end)
	}
	ratio := n.end / n.start
	return &fnStream{n: n.steps, fn: func(i int64) interface{} {
		if n.steps == 1 {
			return n.start
		}
		return n.start * math.Pow(ratio, float64(i)/float64(n.steps-1))
	}}, nil
}

// IntegerRange returns a leaf producing start, start+step, ... up to and
// including end when the step lands on it. step may be zero only when start
// equals end, which produces a single-element leaf.
func IntegerRange(start, end, step int64) Tree {
	return &integerRange{start: start, end: end, step: step}
}

type integerRange struct {
	defaultable
	start, end, step int64
}

func (n *integerRange) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *integerRange) compile(cc *compileCtx, path string) (stream, error) {
	if n.start == n.end {
		return &sliceStream{vals: []interface{}{n.start}}, nil
	}
	if n.step == 0 {
		return nil, errContractf("integer range [%d, %d] with zero step", n.start, n.end)
	}
	if (n.end > n.start) != (n.step > 0) {
		return nil, errContractf("integer range [%d, %d] never reaches its end with step %d",
			n.start, n.end, n.step)
	}
	count := (n.end-n.start)/n.step + 1
	return &fnStream{n: count, fn: func(i int64) interface{} {
		return n.start + i*n.step
	}}, nil
}

// UniformRng returns a random leaf drawing uniform float64 values from
// [low, high). draws is the leaf's length; Unbounded makes it an infinite
// source. The draw sequence is determined entirely by the leaf's seed (see
// GenerateSeeds).
func UniformRng(low, high float64, draws int64) Tree {
	return &uniformRng{low: low, high: high, draws: draws}
}

type uniformRng struct {
	defaultable
	seedable
	low, high float64
	draws     int64
}

func (n *uniformRng) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *uniformRng) compile(cc *compileCtx, path string) (stream, error) {
	if n.high < n.low {
		return nil, errContractf("uniform range [%v, %v] is inverted", n.low, n.high)
	}
	rng := randutil.NewRand(n.compileSeed(path))
	return &drawStream{n: n.draws, draw: func() (interface{}, error) {
		return n.low + randutil.Float64(rng)*(n.high-n.low), nil
	}}, nil
}

// UniformBigIntRng returns a random leaf drawing uniform big integers from
// [low, high] inclusive. Ranges wider than a machine word are drawn without
// bias. draws is the leaf's length; Unbounded makes it an infinite source.
func UniformBigIntRng(low, high *big.Int, draws int64) Tree {
	return &bigIntRng{low: new(big.Int).Set(low), high: new(big.Int).Set(high), draws: draws}
}

type bigIntRng struct {
	defaultable
	seedable
	low, high *big.Int
	draws     int64
}

func (n *bigIntRng) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *bigIntRng) compile(cc *compileCtx, path string) (stream, error) {
	if n.high.Cmp(n.low) < 0 {
		return nil, errContractf("big integer range [%s, %s] is inverted", n.low, n.high)
	}
	rng := randutil.NewRand(n.compileSeed(path))
	// Inclusive bounds: draw from [0, high-low+1) and shift.
	width := new(big.Int).Sub(n.high, n.low)
	width.Add(width, big.NewInt(1))
	return &drawStream{n: n.draws, draw: func() (interface{}, error) {
		v := randutil.BigIntN(rng, width)
		return v.Add(v, n.low), nil
	}}, nil
}

// primeScanLimit bounds the range width for which PrimeRng enumerates the
// primes eagerly on first draw. Wider ranges fall back to rejection
// sampling, which below 2^64 cannot miss: the largest known prime gap is
// far smaller than the scan limit.
const primeScanLimit = 1 << 20

// PrimeRng returns a random leaf drawing uniformly among the primes in
// [low, high]. Constructing a leaf whose range holds no primes is not
// detected eagerly; the first draw fails with a contract violation.
func PrimeRng(low, high uint64, draws int64) Tree {
	return &primeRng{low: low, high: high, draws: draws}
}

type primeRng struct {
	defaultable
	seedable
	low, high uint64
	draws     int64
}

func (n *primeRng) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *primeRng) compile(cc *compileCtx, path string) (stream, error) {
	if n.high < n.low {
		return nil, errContractf("prime range [%d, %d] is inverted", n.low, n.high)
	}
	rng := randutil.NewRand(n.compileSeed(path))
	var primes []uint64
	scanned := false
	return &drawStream{n: n.draws, draw: func() (interface{}, error) {
		if n.high-n.low < primeScanLimit {
			if !scanned {
				scanned = true
				for p := n.low; ; p++ {
					if randutil.IsPrime(p) {
						primes = append(primes, p)
					}
					if p == n.high {
						break
					}
				}
			}
			if len(primes) == 0 {
				return nil, errContractf("no primes in range [%d, %d]", n.low, n.high)
			}
			return primes[randutil.Uint64n(rng, uint64(len(primes)))], nil
		}
		// Wide range: rejection sampling. Uniform over [low, high]
		// conditioned on primality is uniform over the primes.
		span := n.high - n.low
		for attempts := 0; attempts < 1<<16; attempts++ {
			var v uint64
			if span == math.MaxUint64 {
				// The inclusive width would overflow; the range is the whole
				// word, so an unrestricted draw is already uniform.
				v = rng.Uint64()
			} else {
				v = n.low + randutil.Uint64n(rng, span+1)
			}
			if randutil.IsPrime(v) {
				return v, nil
			}
		}
		return nil, errContractf("no primes found in range [%d, %d]", n.low, n.high)
	}}, nil
}

// Generator wraps an externally defined sequence. factory must produce a
// fresh sequence on every call; each compiled cursor invokes it once. size
// declares the number of elements, or Unbounded when unknown. A generator
// that runs out before its declared size fails with ErrGeneratorExhausted
// rather than silently truncating; an Unbounded generator simply exhausts
// the cursor when the sequence ends.
func Generator(factory func() iter.Seq[interface{}], size int64) Tree {
	return &generator{factory: factory, size: size}
}

type generator struct {
	defaultable
	factory func() iter.Seq[interface{}]
	size    int64
}

func (n *generator) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *generator) compile(cc *compileCtx, path string) (stream, error) {
	if n.factory == nil {
		return nil, errContractf("generator has no factory")
	}
	return &generatorStream{factory: n.factory, declared: n.size}, nil
}

// seedable carries the deterministic seed assigned by GenerateSeeds to
// randomized nodes. Unseeded nodes derive their seed from the structural
// path with a zero salt, so iteration is deterministic even without an
// explicit seeding pass.
type seedable struct {
	seed   uint64
	seeded bool
}

func (s *seedable) setSeed(seed uint64) {
	s.seed = seed
	s.seeded = true
}

func (s *seedable) compileSeed(path string) uint64 {
	if s.seeded {
		return s.seed
	}
	return deriveSeed(path, 0)
}

// sliceStream serves a fixed value slice.
type sliceStream struct {
	vals []interface{}
}

func (s *sliceStream) length() (int64, bool) { return int64(len(s.vals)), true }

func (s *sliceStream) at(i int64) (*Data, error) {
	return ScalarOf(s.vals[i]), nil
}

// fnStream computes the value at each ordinal from a pure function.
type fnStream struct {
	n  int64
	fn func(i int64) interface{}
}

func (s *fnStream) length() (int64, bool) { return s.n, true }

func (s *fnStream) at(i int64) (*Data, error) {
	return ScalarOf(s.fn(i)), nil
}

// drawStream memoizes draws from a sequential random source so that the
// value at an ordinal is stable across re-visits (reset, reverse, lazy
// diffing).
type drawStream struct {
	n    int64 // Unbounded for an infinite source
	draw func() (interface{}, error)
	vals []interface{}
}

func (s *drawStream) length() (int64, bool) { return s.n, s.n >= 0 }

func (s *drawStream) at(i int64) (*Data, error) {
	for int64(len(s.vals)) <= i {
		v, err := s.draw()
		if err != nil {
			return nil, err
		}
		s.vals = append(s.vals, v)
	}
	return ScalarOf(s.vals[i]), nil
}

// generatorStream pulls from an external sequence on demand, memoizing the
// elements already seen.
type generatorStream struct {
	factory  func() iter.Seq[interface{}]
	declared int64
	next     func() (interface{}, bool)
	stop     func()
	vals     []interface{}
	ended    bool
}

func (s *generatorStream) length() (int64, bool) { return s.declared, s.declared >= 0 }

func (s *generatorStream) at(i int64) (*Data, error) {
	for int64(len(s.vals)) <= i {
		if s.ended {
			return nil, s.endError()
		}
		if s.next == nil {
			s.next, s.stop = iter.Pull(s.factory())
		}
		v, ok := s.next()
		if !ok {
			s.ended = true
			s.stop()
			return nil, s.endError()
		}
		s.vals = append(s.vals, v)
	}
	return ScalarOf(s.vals[i]), nil
}

func (s *generatorStream) endError() error {
	if s.declared >= 0 {
		return errors.Wrapf(ErrGeneratorExhausted,
			"declared size %d, produced %d", s.declared, len(s.vals))
	}
	return errStreamEnd
}
