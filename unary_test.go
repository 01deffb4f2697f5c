// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"sort"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	double := func(d *Data) (*Data, error) {
		return ScalarOf(d.Scalar.(int64) * 2), nil
	}
	tr := Transform(Sequence(int64(1), int64(2), int64(3)), double)
	require.Equal(t, []string{"2", "4", "6"}, collectValues(t, tr))

	// Length and finiteness pass through.
	cur, err := Iterate(Transform(UniformRng(0, 1, Unbounded), double), nil)
	require.NoError(t, err)
	_, finite := cur.SafeLen()
	require.False(t, finite)

	require.True(t, errors.Is(Check(Transform(Sequence(1), nil)), ErrContractViolation))
}

func TestExprTransform(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		tr := ExprTransform(Sequence(int64(1), int64(2), int64(3)), "value * value")
		require.Equal(t, []string{"1", "4", "9"}, collectValues(t, tr))
	})

	t.Run("dict-child", func(t *testing.T) {
		child := Product(Keyed(map[string]Tree{
			"a": Sequence(int64(10), int64(20)),
			"b": Sequence(int64(1), int64(2)),
		}), nil)
		tr := ExprTransform(child, "value.a + value.b")
		require.Equal(t, []string{"11", "12", "21", "22"}, collectValues(t, tr))
	})

	t.Run("bad-program", func(t *testing.T) {
		err := Check(ExprTransform(Sequence(1), "value +"))
		require.True(t, errors.Is(err, ErrContractViolation))
	})
}

func TestFirst(t *testing.T) {
	require.Equal(t, []string{"1", "2"}, collectValues(t, First(Sequence(1, 2, 3, 4), 2)))
	// A cap beyond the child's length leaves it unchanged.
	require.Equal(t, []string{"1", "2"}, collectValues(t, First(Sequence(1, 2), 10)))
	require.Equal(t, []string{"1", "2"}, collectValues(t, First(Sequence(1, 2), Unbounded)))

	// First is the supported way to bound an infinite source.
	cur, err := Iterate(First(UniformRng(0, 1, Unbounded), 5), nil)
	require.NoError(t, err)
	n, err := cur.Len()
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Len(t, drain(t, cur), 5)

	require.True(t, errors.Is(Check(First(Sequence(1), -2)), ErrContractViolation))
}

func TestShuffle(t *testing.T) {
	base := Sequence(int64(0), int64(1), int64(2), int64(3), int64(4), int64(5), int64(6))
	tr := Shuffle(base)

	got := collectValues(t, tr)
	want := collectValues(t, base)
	require.Len(t, got, len(want))

	// Same multiset, and the permutation replays identically on a fresh
	// cursor.
	sortedGot := append([]string(nil), got...)
	sort.Strings(sortedGot)
	sortedWant := append([]string(nil), want...)
	sort.Strings(sortedWant)
	require.Equal(t, sortedWant, sortedGot)
	require.Equal(t, got, collectValues(t, tr))

	require.True(t, errors.Is(
		Check(Shuffle(UniformRng(0, 1, Unbounded))), ErrContractViolation))
}

func TestAccumulateReconstructsLazy(t *testing.T) {
	children := Keyed(map[string]Tree{
		"a": Sequence(int64(1), int64(2), int64(3)),
		"b": Sequence("x", "y"),
		"c": Sequence(1.5, 2.5),
	})
	for _, snake := range []bool{false, true} {
		t.Run("", func(t *testing.T) {
			eager := Product(children, &ProductOptions{Snake: snake})
			rebuilt := Accumulate(Lazify(Product(children, &ProductOptions{Snake: snake})))

			ec, err := Iterate(eager, nil)
			require.NoError(t, err)
			rc, err := Iterate(rebuilt, nil)
			require.NoError(t, err)
			for {
				ed, rd := ec.Next(), rc.Next()
				if ed == nil || rd == nil {
					require.Nil(t, ed)
					require.Nil(t, rd)
					break
				}
				require.True(t, ed.Equal(rd), "eager %s != rebuilt %s", ed, rd)
			}
			require.NoError(t, ec.Err())
			require.NoError(t, rc.Err())
		})
	}
}

func TestLazifyRequiresProduct(t *testing.T) {
	require.True(t, errors.Is(Check(Lazify(Sequence(1, 2))), ErrContractViolation))
	require.True(t, errors.Is(
		Check(Lazify(Union(Keyed(map[string]Tree{"a": Sequence(1)}), nil))), ErrContractViolation))

	// Lazy products require dict-mode children.
	require.True(t, errors.Is(
		Check(Lazify(Product(List(Sequence(1), Sequence(2)), nil))), ErrContractViolation))
}
