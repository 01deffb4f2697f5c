// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package randutil provides seeded random sources and draw helpers for the
// randomized iteration nodes. All randomness in the library flows through
// explicitly seeded generators created here; nothing uses the global rand
// state.
package randutil

import (
	"math/big"

	"golang.org/x/exp/rand"
)

// NewRand creates a deterministic random number generator from seed. Equal
// seeds yield equal draw sequences.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uint64n returns a uniform draw from [0, n). n must be > 0.
func Uint64n(rng *rand.Rand, n uint64) uint64 {
	return rng.Uint64n(n)
}

// Float64 returns a uniform draw from [0, 1).
func Float64(rng *rand.Rand) float64 {
	return rng.Float64()
}

// Perm returns a uniform random permutation of [0, n).
func Perm(rng *rand.Rand, n int) []int {
	return rng.Perm(n)
}

// BigIntN returns a uniform draw from [0, n), for any positive n including
// values wider than a machine word. Rejection sampling over n.BitLen() bits
// keeps the draw unbiased.
func BigIntN(rng *rand.Rand, n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		panic("randutil: BigIntN requires n > 0")
	}
	bits := n.BitLen()
	nbytes := (bits + 7) / 8
	// Mask for the high byte so the raw draw has exactly bits random bits.
	topMask := byte(1<<(uint(bits+7)%8+1) - 1)
	buf := make([]byte, nbytes)
	v := new(big.Int)
	for {
		for i := range buf {
			buf[i] = byte(rng.Uint64())
		}
		buf[0] &= topMask
		v.SetBytes(buf)
		if v.Cmp(n) < 0 {
			return new(big.Int).Set(v)
		}
	}
}

// IsPrime reports whether n is prime. Deterministic for all uint64 inputs.
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	return new(big.Int).SetUint64(n).ProbablyPrime(0)
}
