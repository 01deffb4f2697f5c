// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveSeed(t *testing.T) {
	require.Equal(t, deriveSeed("/a/b", 1), deriveSeed("/a/b", 1))
	require.NotEqual(t, deriveSeed("/a/b", 1), deriveSeed("/a/b", 2))
	require.NotEqual(t, deriveSeed("/a/b", 1), deriveSeed("/a/c", 1))
}

func TestGenerateSeedsIsPure(t *testing.T) {
	tr := Shuffle(Sequence(1, 2, 3))
	seeded := GenerateSeeds(tr, 42)
	require.Equal(t, "shuffle(sequence(1, 2, 3))", DebugString(tr))
	require.Equal(t, "shuffle(seeded, sequence(1, 2, 3))", DebugString(seeded))
}

func TestGenerateSeedsDeterminism(t *testing.T) {
	build := func() Tree {
		return Product(Keyed(map[string]Tree{
			"u": UniformRng(0, 1, 4),
			"p": Pick(List(Sequence(int64(1), int64(2)), Sequence("a", "b")), nil),
		}), nil)
	}

	withSalt := func(salt uint64) []string {
		return collectValues(t, GenerateSeeds(build(), salt))
	}

	require.Equal(t, withSalt(7), withSalt(7))
	require.NotEqual(t, withSalt(7), withSalt(8))

	// An unseeded tree behaves exactly as if seeded with salt 0.
	require.Equal(t, collectValues(t, build()), withSalt(0))
}

func TestGenerateSeedsReachesNestedNodes(t *testing.T) {
	tr := Union(Keyed(map[string]Tree{
		"s": First(Shuffle(Sequence(1, 2, 3, 4)), 2).WithDefault(int64(0)),
		"u": UniformRng(0, 1, 2).WithDefault(-1.0),
	}), nil)
	seeded := GenerateSeeds(tr, 3)
	out := DebugString(seeded)
	require.Contains(t, out, "shuffle(seeded, ")
	require.Contains(t, out, "uniform(0, 1, 2, seeded)")
	// Seeding does not disturb the rest of the tree.
	require.Equal(t, collectValues(t, seeded), collectValues(t, seeded))
}

func TestGenerateSeedsInsideConfigurations(t *testing.T) {
	tr := Configurations(map[string]Tree{
		"r": Shuffle(Sequence(1, 2, 3)),
		"f": Sequence(9),
	}, nil)
	seeded := GenerateSeeds(tr, 5)
	require.Contains(t, DebugString(seeded), "shuffle(seeded, ")

	resolved, err := GetConfiguration(seeded, "r")
	require.NoError(t, err)
	require.Len(t, collectValues(t, resolved), 3)
}
