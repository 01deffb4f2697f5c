// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

// PresetPolicy selects the value a union child shows before its turn.
type PresetPolicy uint8

const (
	// PresetDefault shows the child's declared default value.
	PresetDefault PresetPolicy = iota
	// PresetFirst shows the first value the child would produce.
	PresetFirst
)

// ResetPolicy selects the value a union child shows after its turn ended.
type ResetPolicy uint8

const (
	// ResetDefault reverts the child to its declared default value.
	ResetDefault ResetPolicy = iota
	// ResetFirst reverts the child to its first produced value.
	ResetFirst
	// ResetLast leaves the child at its last produced value. Legal only
	// when every child is finite.
	ResetLast
)

// UnionOptions tunes a union node.
type UnionOptions struct {
	Preset PresetPolicy
	Reset  ResetPolicy
}

// Union returns a node advancing exactly one child per step while every
// other child holds a preset or reset value. Children take their turns in
// declared order, each exhausted fully before the next begins; the total
// length is the sum of the children's lengths. An infinite child makes the
// traversal infinite: children ordered after it never get a turn, which is
// logged as a warning.
func Union(children Children, opts *UnionOptions) Tree {
	if opts == nil {
		opts = &UnionOptions{}
	}
	return &union{children: children, preset: opts.Preset, reset: opts.Reset}
}

type union struct {
	defaultable
	children Children
	preset   PresetPolicy
	reset    ResetPolicy
}

func (n *union) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *union) gatherConfigNames(names map[string]struct{}) {
	n.children.gatherConfigNames(names)
}

func (n *union) compile(cc *compileCtx, path string) (stream, error) {
	if n.children.len() == 0 {
		return nil, errContractf("union needs at least one child")
	}
	kids, err := compileChildren(cc, path, n.children)
	if err != nil {
		return nil, err
	}
	infiniteAt := -1
	for i := range kids {
		if !kids[i].finite {
			infiniteAt = i
			break
		}
	}
	if infiniteAt >= 0 {
		if n.reset == ResetLast {
			return nil, errContractf(
				"union reset policy \"last\" is undefined for infinite child %q", kids[infiniteAt].key)
		}
		for _, k := range kids[infiniteAt+1:] {
			cc.opts.Logger.Infof(
				"paramtree: union child %q follows infinite child %q and will never be reached",
				k.key, kids[infiniteAt].key)
		}
	}
	total := int64(0)
	for i := range kids {
		if i > infiniteAt && infiniteAt >= 0 {
			break
		}
		if kids[i].finite {
			total += kids[i].n
		}
	}
	return &unionStream{
		keyed:      n.children.isKeyed(),
		kids:       kids,
		preset:     n.preset,
		reset:      n.reset,
		total:      total,
		infiniteAt: infiniteAt,
	}, nil
}

type unionStream struct {
	keyed      bool
	kids       []compiledChild
	preset     PresetPolicy
	reset      ResetPolicy
	total      int64
	infiniteAt int
}

func (s *unionStream) length() (int64, bool) { return s.total, s.infiniteAt < 0 }

func (s *unionStream) at(i int64) (*Data, error) {
	// Locate the child whose turn covers ordinal i.
	turn, inner := -1, i
	for j := range s.kids {
		if !s.kids[j].finite || inner < s.kids[j].n {
			turn = j
			break
		}
		inner -= s.kids[j].n
	}
	if turn < 0 {
		return nil, errContractf("union ordinal %d beyond total length %d", i, s.total)
	}
	values := make([]*Data, len(s.kids))
	for j := range s.kids {
		var v *Data
		var err error
		switch {
		case j == turn:
			v, err = s.kids[j].s.at(inner)
		case j < turn:
			v, err = s.resetValue(j)
		default:
			v, err = s.presetValue(j)
		}
		if err != nil {
			return nil, err
		}
		values[j] = v
	}
	return assemble(s.keyed, s.kids, values), nil
}

func (s *unionStream) presetValue(j int) (*Data, error) {
	if s.preset == PresetFirst {
		if s.kids[j].n == 0 {
			return nil, errContractf("union preset policy \"first\" on empty child %q", s.kids[j].key)
		}
		return s.kids[j].s.at(0)
	}
	return s.kids[j].defaultData()
}

func (s *unionStream) resetValue(j int) (*Data, error) {
	switch s.reset {
	case ResetFirst:
		if s.kids[j].n == 0 {
			return nil, errContractf("union reset policy \"first\" on empty child %q", s.kids[j].key)
		}
		return s.kids[j].s.at(0)
	case ResetLast:
		if s.kids[j].n == 0 {
			return nil, errContractf("union reset policy \"last\" on empty child %q", s.kids[j].key)
		}
		return s.kids[j].s.at(s.kids[j].n - 1)
	default:
		return s.kids[j].defaultData()
	}
}
