// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import "github.com/cockroachdb/errors"

// ErrInfiniteLength is returned by strict length queries over trees whose
// length is unbounded. SafeLen never returns it.
var ErrInfiniteLength = errors.New("paramtree: infinite length")

// ErrContractViolation marks errors caused by a tree that violates a
// structural or usage contract: shuffling an infinite child, move-up onto a
// non-keyed configuration, resolving an unknown configuration name, a prime
// leaf whose range holds no primes, and so on. Use errors.Is to test for it.
var ErrContractViolation = errors.New("paramtree: contract violation")

// ErrGeneratorExhausted is returned when an external generator yields fewer
// elements than its declared size.
var ErrGeneratorExhausted = errors.New("paramtree: generator exhausted before declared size")

// errContractf constructs a contract violation with context. The result
// satisfies errors.Is(err, ErrContractViolation).
func errContractf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf("paramtree: "+format, args...), ErrContractViolation)
}

// errStreamEnd is an internal signal used by streams of unknown length to
// report that the underlying source ended. The cursor converts it into
// ordinary exhaustion; it never escapes the package.
var errStreamEnd = errors.New("paramtree: stream end")
