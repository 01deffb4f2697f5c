// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"fmt"
	"math/big"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// DataKind distinguishes the three shapes a produced value can take.
type DataKind uint8

const (
	// ScalarData holds a single literal value.
	ScalarData DataKind = iota
	// ListData holds an ordered list of values, mirroring a list-mode
	// combinator.
	ListData
	// DictData holds a key-to-value mapping, mirroring a dict-mode
	// combinator.
	DictData
)

// Data is the recursive value produced by iterating a tree: a scalar
// literal, an ordered list, or a string-keyed mapping, structurally
// mirroring the tree that produced it. Data values handed out by a cursor
// are owned by the caller; the cursor never reuses them.
type Data struct {
	Kind   DataKind
	Scalar interface{}
	List   []*Data
	Dict   map[string]*Data
}

// ScalarOf returns a scalar Data holding v.
func ScalarOf(v interface{}) *Data {
	return &Data{Kind: ScalarData, Scalar: v}
}

// ListOf returns a list Data holding the given elements.
func ListOf(elems ...*Data) *Data {
	return &Data{Kind: ListData, List: elems}
}

// DictOf returns a dict Data holding the given mapping.
func DictOf(m map[string]*Data) *Data {
	return &Data{Kind: DictData, Dict: m}
}

// Clone returns a deep copy of d.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	c := &Data{Kind: d.Kind, Scalar: d.Scalar}
	if d.List != nil {
		c.List = make([]*Data, len(d.List))
		for i := range d.List {
			c.List[i] = d.List[i].Clone()
		}
	}
	if d.Dict != nil {
		c.Dict = make(map[string]*Data, len(d.Dict))
		for k, v := range d.Dict {
			c.Dict[k] = v.Clone()
		}
	}
	return c
}

// Equal reports whether d and o are structurally identical. Scalars compare
// by == with a special case for *big.Int.
func (d *Data) Equal(o *Data) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case ScalarData:
		return scalarEqual(d.Scalar, o.Scalar)
	case ListData:
		return slices.EqualFunc(d.List, o.List, func(a, b *Data) bool { return a.Equal(b) })
	case DictData:
		if len(d.Dict) != len(o.Dict) {
			return false
		}
		for k, v := range d.Dict {
			w, ok := o.Dict[k]
			if !ok || !v.Equal(w) {
				return false
			}
		}
		return true
	}
	return false
}

func scalarEqual(a, b interface{}) bool {
	if x, ok := a.(*big.Int); ok {
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	}
	return a == b
}

// MergeInto merges src into dst and returns dst. Both must be dict Data;
// entries of src overwrite entries of dst key by key, recursing into
// sub-dicts present on both sides. Merging is the reconciliation step
// between lazy diffs and eager snapshots.
func MergeInto(dst, src *Data) (*Data, error) {
	if dst == nil {
		return src.Clone(), nil
	}
	if dst.Kind != DictData || src == nil || src.Kind != DictData {
		return nil, errContractf("merge requires dict data, got %s and %s", dst.Kind, src.Kind)
	}
	for k, v := range src.Dict {
		if prev, ok := dst.Dict[k]; ok && prev.Kind == DictData && v.Kind == DictData {
			if _, err := MergeInto(prev, v); err != nil {
				return nil, err
			}
			continue
		}
		dst.Dict[k] = v.Clone()
	}
	return dst, nil
}

// Flatten converts a data tree into a single-level mapping. Nested keys are
// joined with dots, list positions contribute their decimal index:
// {key2: [a, b]} flattens to {"key2.0": a, "key2.1": b}. A scalar at the
// root maps from the empty key.
func Flatten(d *Data) map[string]interface{} {
	out := make(map[string]interface{})
	flattenInto(out, "", d)
	return out
}

func flattenInto(out map[string]interface{}, prefix string, d *Data) {
	if d == nil {
		return
	}
	switch d.Kind {
	case ScalarData:
		out[prefix] = d.Scalar
	case ListData:
		for i, e := range d.List {
			flattenInto(out, joinKey(prefix, strconv.Itoa(i)), e)
		}
	case DictData:
		for k, v := range d.Dict {
			flattenInto(out, joinKey(prefix, k), v)
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// String returns a compact single-line rendering, with dict keys in sorted
// order. It is the format used by the datadriven test goldens.
func (d *Data) String() string {
	var b strings.Builder
	d.writeTo(&b)
	return b.String()
}

func (d *Data) writeTo(b *strings.Builder) {
	if d == nil {
		b.WriteString("<nil>")
		return
	}
	switch d.Kind {
	case ScalarData:
		b.WriteString(formatScalar(d.Scalar))
	case ListData:
		b.WriteByte('[')
		for i, e := range d.List {
			if i > 0 {
				b.WriteString(", ")
			}
			e.writeTo(b)
		}
		b.WriteByte(']')
	case DictData:
		keys := make([]string, 0, len(d.Dict))
		for k := range d.Dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			d.Dict[k].writeTo(b)
		}
		b.WriteByte('}')
	}
}

func formatScalar(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// String implements fmt.Stringer.
func (k DataKind) String() string {
	switch k {
	case ScalarData:
		return "scalar"
	case ListData:
		return "list"
	case DictData:
		return "dict"
	}
	return "unknown"
}
