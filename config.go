// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

// configurationKey is the marker key recording a chosen configuration's
// name when InsertName is set. Under MoveUp the marker lands at the parent
// level as "<childKey>/configuration"; otherwise it is inserted alongside
// the selected subtree's own children.
const configurationKey = "configuration"

// ConfigurationsOptions tunes a Configurations node.
type ConfigurationsOptions struct {
	// Default designates the alternative selected by
	// GetConfiguration(t, "").
	Default string
	// MoveUp splices the selected subtree's children directly into the
	// enclosing combinator's child set in place of the Configurations node.
	// The selected subtree and the enclosing combinator must both be
	// dict-mode.
	MoveUp bool
	// InsertName records the chosen configuration's name as a marker entry
	// in the resolved tree.
	InsertName bool
}

// Configurations returns a node holding named, fully specified alternative
// subtrees. A Configurations node cannot be iterated: it must first be
// resolved away with GetConfiguration.
func Configurations(alternatives map[string]Tree, opts *ConfigurationsOptions) Tree {
	if opts == nil {
		opts = &ConfigurationsOptions{}
	}
	alts := make(map[string]Tree, len(alternatives))
	for k, v := range alternatives {
		alts[k] = v
	}
	return &configurations{
		alts:       alts,
		defName:    opts.Default,
		moveUp:     opts.MoveUp,
		insertName: opts.InsertName,
	}
}

type configurations struct {
	defaultable
	alts       map[string]Tree
	defName    string
	moveUp     bool
	insertName bool
}

func (n *configurations) WithDefault(v interface{}) Tree { c := *n; c.setDefault(v); return &c }

func (n *configurations) gatherConfigNames(names map[string]struct{}) {
	for k, sub := range n.alts {
		names[k] = struct{}{}
		sub.gatherConfigNames(names)
	}
}

func (n *configurations) compile(cc *compileCtx, path string) (stream, error) {
	return nil, errContractf("tree holds an unresolved Configurations node; "+
		"resolve it with GetConfiguration before iterating (names: %v)", ConfigurationNames(n))
}

// selected returns the alternative name this node resolves to for the
// given request. The empty request selects the node's declared default; a
// node without a default simply does not select.
func (n *configurations) selected(name string) (string, bool) {
	if name == "" {
		return n.defName, n.defName != ""
	}
	_, ok := n.alts[name]
	return name, ok
}

// GetConfiguration returns a new tree with every Configurations node that
// offers the named alternative replaced by it. The empty name selects each
// node's declared default alternative. Resolution is pure: t is not
// modified. Requesting a name the tree does not expose is a contract
// violation. The result may still expose other configuration names; the
// tree handed to Iterate must expose none.
func GetConfiguration(t Tree, name string) (Tree, error) {
	if name != "" {
		names := ConfigurationNames(t)
		found := false
		for _, n := range names {
			if n == name {
				found = true
				break
			}
		}
		if !found {
			return nil, errContractf("unknown configuration %q; tree exposes %v", name, names)
		}
	}
	return resolveConfig(t, name)
}

func resolveConfig(t Tree, name string) (Tree, error) {
	switch n := t.(type) {
	case *configurations:
		chosen, ok := n.selected(name)
		if !ok {
			// Not selected here: resolve inside the alternatives so nested
			// nodes offering the name are still handled.
			c := *n
			alts := make(map[string]Tree, len(n.alts))
			for k, sub := range n.alts {
				r, err := resolveConfig(sub, name)
				if err != nil {
					return nil, err
				}
				alts[k] = r
			}
			c.alts = alts
			return &c, nil
		}
		sub, err := n.resolveChosen(chosen, name)
		if err != nil {
			return nil, err
		}
		if n.moveUp {
			return nil, errContractf(
				"configuration %q uses move-up without an enclosing dict-mode combinator", chosen)
		}
		return sub, nil
	case *product, *union, *zip, *pick:
		ch, _ := childrenOf(t)
		resolved, err := resolveChildren(ch, name)
		if err != nil {
			return nil, err
		}
		return withChildren(t, resolved), nil
	case *transform:
		return rebuildUnary(t, &n.unaryNode, name)
	case *exprTransform:
		return rebuildUnary(t, &n.unaryNode, name)
	case *first:
		return rebuildUnary(t, &n.unaryNode, name)
	case *shuffle:
		return rebuildUnary(t, &n.unaryNode, name)
	case *accumulate:
		return rebuildUnary(t, &n.unaryNode, name)
	case *lazify:
		return rebuildUnary(t, &n.unaryNode, name)
	default:
		return t, nil
	}
}

// resolveChosen resolves nested configurations inside the chosen
// alternative and applies the in-place InsertName marker.
func (n *configurations) resolveChosen(chosen, name string) (Tree, error) {
	sub := n.alts[chosen]
	if sub == nil {
		return nil, errContractf("default configuration %q is not among the alternatives", chosen)
	}
	sub, err := resolveConfig(sub, name)
	if err != nil {
		return nil, err
	}
	if n.insertName && !n.moveUp {
		subCh, ok := childrenOf(sub)
		if !ok || !subCh.isKeyed() {
			return nil, errContractf(
				"configuration %q with insert-name selects a non-dict-mode subtree", chosen)
		}
		withMarker, err := addChild(subCh, configurationKey, Constant(chosen))
		if err != nil {
			return nil, err
		}
		sub = withChildren(sub, withMarker)
	}
	return sub, nil
}

func rebuildUnary(t Tree, u *unaryNode, name string) (Tree, error) {
	if cfg, ok := u.child.(*configurations); ok {
		if chosen, sel := cfg.selected(name); sel && cfg.moveUp {
			return nil, errContractf(
				"configuration %q uses move-up without an enclosing dict-mode combinator", chosen)
		}
	}
	child, err := resolveConfig(u.child, name)
	if err != nil {
		return nil, err
	}
	return withChild(t, child), nil
}

func resolveChildren(c Children, name string) (Children, error) {
	if !c.isKeyed() {
		out := make([]Tree, len(c.list))
		for i, child := range c.list {
			if cfg, ok := child.(*configurations); ok {
				if chosen, sel := cfg.selected(name); sel && cfg.moveUp {
					return Children{}, errContractf(
						"configuration %q uses move-up inside a list-mode combinator", chosen)
				}
			}
			r, err := resolveConfig(child, name)
			if err != nil {
				return Children{}, err
			}
			out[i] = r
		}
		return Children{list: out}, nil
	}
	m := make(map[string]Tree, len(c.keyed))
	for _, e := range c.ordered() {
		cfg, isCfg := e.node.(*configurations)
		var chosen string
		sel := false
		if isCfg {
			chosen, sel = cfg.selected(name)
		}
		if !sel {
			r, err := resolveConfig(e.node, name)
			if err != nil {
				return Children{}, err
			}
			if err := addKey(m, e.key, r); err != nil {
				return Children{}, err
			}
			continue
		}
		if !cfg.moveUp {
			sub, err := cfg.resolveChosen(chosen, name)
			if err != nil {
				return Children{}, err
			}
			if err := addKey(m, e.key, sub); err != nil {
				return Children{}, err
			}
			continue
		}
		// MoveUp: splice the selected subtree's children into this child
		// set; the parent keeps its own combinator type.
		sub := cfg.alts[chosen]
		if sub == nil {
			return Children{}, errContractf(
				"default configuration %q is not among the alternatives", chosen)
		}
		sub, err := resolveConfig(sub, name)
		if err != nil {
			return Children{}, err
		}
		subCh, ok := childrenOf(sub)
		if !ok || !subCh.isKeyed() {
			return Children{}, errContractf(
				"configuration %q with move-up selects a non-dict-mode subtree", chosen)
		}
		for _, se := range subCh.ordered() {
			if err := addKey(m, se.key, se.node); err != nil {
				return Children{}, err
			}
		}
		if cfg.insertName {
			marker := e.key + "/" + configurationKey
			if err := addKey(m, marker, Constant(chosen)); err != nil {
				return Children{}, err
			}
		}
	}
	return Children{keyed: m}, nil
}

func addKey(m map[string]Tree, key string, t Tree) error {
	if _, dup := m[key]; dup {
		return errContractf("configuration resolution collides on key %q", key)
	}
	m[key] = t
	return nil
}

func addChild(c Children, key string, t Tree) (Children, error) {
	m := make(map[string]Tree, len(c.keyed)+1)
	for k, v := range c.keyed {
		m[k] = v
	}
	if err := addKey(m, key, t); err != nil {
		return Children{}, err
	}
	return Children{keyed: m}, nil
}

// childrenOf returns a combinator's child set. The second result is false
// for leaves and unary nodes.
func childrenOf(t Tree) (Children, bool) {
	switch n := t.(type) {
	case *product:
		return n.children, true
	case *union:
		return n.children, true
	case *zip:
		return n.children, true
	case *pick:
		return n.children, true
	}
	return Children{}, false
}

// withChildren returns a copy of a combinator with a replaced child set.
func withChildren(t Tree, c Children) Tree {
	switch n := t.(type) {
	case *product:
		cp := *n
		cp.children = c
		return &cp
	case *union:
		cp := *n
		cp.children = c
		return &cp
	case *zip:
		cp := *n
		cp.children = c
		return &cp
	case *pick:
		cp := *n
		cp.children = c
		return &cp
	}
	panic("paramtree: withChildren on a non-combinator node")
}

// withChild returns a copy of a unary node with a replaced child.
func withChild(t Tree, child Tree) Tree {
	switch n := t.(type) {
	case *transform:
		cp := *n
		cp.child = child
		return &cp
	case *exprTransform:
		cp := *n
		cp.child = child
		return &cp
	case *first:
		cp := *n
		cp.child = child
		return &cp
	case *shuffle:
		cp := *n
		cp.child = child
		return &cp
	case *accumulate:
		cp := *n
		cp.child = child
		return &cp
	case *lazify:
		cp := *n
		cp.child = child
		return &cp
	}
	panic("paramtree: withChild on a non-unary node")
}
