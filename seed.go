// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// deriveSeed computes the deterministic seed of a node from its structural
// path and an external salt. The same (path, salt) pair always yields the
// same seed; any change to the salt changes every node's seed.
func deriveSeed(path string, salt uint64) uint64 {
	var d xxhash.Digest
	d.Reset()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], salt)
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(path)
	return d.Sum64()
}

// GenerateSeeds returns a new tree in which every randomized node (random
// leaves, Shuffle, Pick) is bound to a deterministic seed derived from its
// structural path and the given salt. The input tree is not modified.
// Re-running with the same salt over the same tree shape reproduces
// identical draws; unseeded trees behave as if seeded with salt 0.
//
// Resolve configurations before seeding: resolution changes structural
// paths, so seeding an unresolved tree yields different (though still
// deterministic) seeds than seeding the resolved one.
func GenerateSeeds(t Tree, salt uint64) Tree {
	return reseed(t, salt, "")
}

func reseed(t Tree, salt uint64, path string) Tree {
	switch n := t.(type) {
	case *uniformRng:
		c := *n
		c.setSeed(deriveSeed(path, salt))
		return &c
	case *bigIntRng:
		c := *n
		c.setSeed(deriveSeed(path, salt))
		return &c
	case *primeRng:
		c := *n
		c.setSeed(deriveSeed(path, salt))
		return &c
	case *shuffle:
		c := *n
		c.setSeed(deriveSeed(path, salt))
		c.child = reseed(n.child, salt, childPath(path, "0"))
		return &c
	case *pick:
		c := *n
		c.setSeed(deriveSeed(path, salt))
		c.children = n.children.rebuild(func(key string, sub Tree) Tree {
			return reseed(sub, salt, childPath(path, key))
		})
		return &c
	case *product, *union, *zip:
		ch, _ := childrenOf(t)
		return withChildren(t, ch.rebuild(func(key string, sub Tree) Tree {
			return reseed(sub, salt, childPath(path, key))
		}))
	case *transform:
		return withChild(t, reseed(n.child, salt, childPath(path, "0")))
	case *exprTransform:
		return withChild(t, reseed(n.child, salt, childPath(path, "0")))
	case *first:
		return withChild(t, reseed(n.child, salt, childPath(path, "0")))
	case *accumulate:
		return withChild(t, reseed(n.child, salt, childPath(path, "0")))
	case *lazify:
		return withChild(t, reseed(n.child, salt, childPath(path, "0")))
	case *configurations:
		c := *n
		alts := make(map[string]Tree, len(n.alts))
		for k, sub := range n.alts {
			alts[k] = reseed(sub, salt, childPath(path, k))
		}
		c.alts = alts
		return &c
	default:
		return t
	}
}
