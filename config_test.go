// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestGetConfigurationIsPure(t *testing.T) {
	tr := Product(Keyed(map[string]Tree{
		"m": Configurations(map[string]Tree{
			"small": Sequence(int64(1)),
			"large": Sequence(int64(9)),
		}, &ConfigurationsOptions{Default: "small"}),
		"n": Sequence("a"),
	}), nil)
	before := DebugString(tr)

	resolved, err := GetConfiguration(tr, "large")
	require.NoError(t, err)
	require.Equal(t, before, DebugString(tr))
	require.NotEqual(t, before, DebugString(resolved))

	require.Empty(t, ConfigurationNames(resolved))
	require.Equal(t, []string{"{m: 9, n: a}"}, collectValues(t, resolved))
}

func TestGetConfigurationMultiPass(t *testing.T) {
	// Independent configuration groups resolve one name at a time; the tree
	// is iterable once every group is resolved.
	tr := Product(Keyed(map[string]Tree{
		"size": Configurations(map[string]Tree{
			"small": Sequence(int64(1)),
			"big":   Sequence(int64(100)),
		}, nil),
		"mode": Configurations(map[string]Tree{
			"fast": Sequence("f"),
			"slow": Sequence("s"),
		}, nil),
	}), nil)
	require.Equal(t, []string{"big", "fast", "slow", "small"}, ConfigurationNames(tr))

	step1, err := GetConfiguration(tr, "big")
	require.NoError(t, err)
	require.Equal(t, []string{"fast", "slow"}, ConfigurationNames(step1))
	require.True(t, errors.Is(Check(step1), ErrContractViolation))

	step2, err := GetConfiguration(step1, "slow")
	require.NoError(t, err)
	require.Empty(t, ConfigurationNames(step2))
	require.Equal(t, []string{"{mode: s, size: 100}"}, collectValues(t, step2))
}

func TestGetConfigurationDefaultResolution(t *testing.T) {
	tr := Configurations(map[string]Tree{
		"a": Sequence(int64(1), int64(2)),
		"b": Sequence(int64(3)),
	}, &ConfigurationsOptions{Default: "b"})

	resolved, err := GetConfiguration(tr, "")
	require.NoError(t, err)
	require.Equal(t, []string{"3"}, collectValues(t, resolved))

	// Without a declared default, the empty name resolves nothing.
	noDef := Configurations(map[string]Tree{"a": Sequence(1)}, nil)
	same, err := GetConfiguration(noDef, "")
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ConfigurationNames(same))
}

func TestGetConfigurationMoveUpIntoUnion(t *testing.T) {
	// MoveUp splices into any enclosing dict-mode combinator, not only
	// products.
	tr := Union(Keyed(map[string]Tree{
		"grp": Configurations(map[string]Tree{
			"v": Product(Keyed(map[string]Tree{
				"a": Sequence(int64(1)).WithDefault(int64(0)),
			}), nil),
		}, &ConfigurationsOptions{MoveUp: true}),
		"z": Sequence("x").WithDefault("w"),
	}), nil)
	resolved, err := GetConfiguration(tr, "v")
	require.NoError(t, err)
	require.Equal(t, "union[a=sequence(1)@0, z=sequence(x)@w]", DebugString(resolved))
}

func TestConfigurationsDefaultMissing(t *testing.T) {
	tr := Configurations(map[string]Tree{"a": Sequence(1)},
		&ConfigurationsOptions{Default: "nope"})
	_, err := GetConfiguration(tr, "")
	require.True(t, errors.Is(err, ErrContractViolation))
}
