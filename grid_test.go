// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestGridAxes(t *testing.T) {
	tr := Product(Keyed(map[string]Tree{
		"n":   Sequence(int64(1), int64(2)),
		"sub": Product(Keyed(map[string]Tree{"x": Sequence("a", "b", "c")}), nil),
	}), nil)
	axes, err := GridAxes(tr)
	require.NoError(t, err)
	require.Len(t, axes, 2)
	require.Equal(t, "n", axes[0].Key)
	require.Equal(t, []interface{}{int64(1), int64(2)}, axes[0].Values)
	require.Equal(t, "sub.x", axes[1].Key)
	require.Equal(t, []interface{}{"a", "b", "c"}, axes[1].Values)
}

func TestGridIndicesMatchIteration(t *testing.T) {
	children := Keyed(map[string]Tree{
		"a": Sequence(int64(1), int64(2)),
		"b": Sequence("x", "y", "z"),
	})
	for _, snake := range []bool{false, true} {
		t.Run("", func(t *testing.T) {
			tr := Product(children, &ProductOptions{Snake: snake})
			axes, err := GridAxes(tr)
			require.NoError(t, err)
			tuples, err := GridIndices(tr)
			require.NoError(t, err)

			// Reconstructing each element from its index tuple must
			// reproduce the iterated sequence exactly.
			cur, err := Iterate(tr, nil)
			require.NoError(t, err)
			for _, tuple := range tuples {
				d := cur.Next()
				require.NotNil(t, d)
				for j, a := range axes {
					require.Equal(t, a.Values[tuple[j]], d.Dict[a.Key].Scalar)
				}
			}
			require.Nil(t, cur.Next())
			require.NoError(t, cur.Err())
		})
	}
}

func TestFormatGrid(t *testing.T) {
	tr := Product(Keyed(map[string]Tree{
		"a": Sequence(int64(1), int64(2)),
		"b": Sequence("x", "y"),
	}), nil)
	out, err := FormatGrid(tr)
	require.NoError(t, err)
	require.Contains(t, out, "a")
	require.Contains(t, out, "b")
	// One line per sample plus header and borders.
	require.Equal(t, 4, strings.Count(out, "| 1 ")+strings.Count(out, "| 2 "))
}

func TestGridEmptyProduct(t *testing.T) {
	// The grid builder applies the same child-count contract as Iterate.
	_, err := GridAxes(Product(List(), nil))
	require.True(t, errors.Is(err, ErrContractViolation))
	_, err = GridIndices(Product(Keyed(map[string]Tree{
		"sub": Product(List(), nil),
	}), nil))
	require.True(t, errors.Is(err, ErrContractViolation))
}

func TestGridInfiniteAxis(t *testing.T) {
	tr := Product(Keyed(map[string]Tree{"a": UniformRng(0, 1, Unbounded)}), nil)
	_, err := GridAxes(tr)
	require.True(t, errors.Is(err, ErrInfiniteLength))
	_, err = GridIndices(tr)
	require.True(t, errors.Is(err, ErrInfiniteLength))
	_, err = FormatGrid(tr)
	require.True(t, errors.Is(err, ErrInfiniteLength))
}
