package types

import (
	"fmt"
	"sort"
)

// NodeSet is an ordered, duplicate-free collection of instance nodes.
// Identity is keyed by each node's unique path. Order is insertion order
// until Sort reorders by path key, which acts as the document-order
// surrogate for position-sensitive features.
type NodeSet []InstanceNode

// Union merges two node-sets by path key. When both sets contain a node
// with the same path, the earliest-seen member wins. The result carries no
// deterministic order guarantee until Sort is called.
func (ns NodeSet) Union(other NodeSet) NodeSet {
	res := make(NodeSet, 0, len(ns)+len(other))
	seen := make(map[string]struct{}, len(ns)+len(other))
	for _, n := range ns {
		p := n.Path()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		res = append(res, n)
	}
	for _, n := range other {
		p := n.Path()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		res = append(res, n)
	}
	return res
}

// Bind applies a per-node transform to every member and unions the results.
// It is the single primitive used to advance one navigation step across a
// whole context set.
func (ns NodeSet) Bind(trans func(InstanceNode) []InstanceNode) NodeSet {
	res := make(NodeSet, 0, len(ns))
	seen := make(map[string]struct{}, len(ns))
	for _, n := range ns {
		for _, t := range trans(n) {
			p := t.Path()
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			res = append(res, t)
		}
	}
	return res
}

// Sort reorders the set in place by path key. Sorting is stable and
// idempotent.
func (ns NodeSet) Sort(reverse bool) {
	sort.SliceStable(ns, func(i, j int) bool {
		if reverse {
			return ns[j].Path() < ns[i].Path()
		}
		return ns[i].Path() < ns[j].Path()
	})
}

// StringVal returns the string value of the first member, or "" when the
// set is empty.
func (ns NodeSet) StringVal() string {
	if len(ns) == 0 {
		return ""
	}
	return ScalarString(ns[0].Value())
}

// Float returns the numeric value of the first member. An empty set or a
// non-numeric first member is a type error.
func (ns NodeSet) Float() (float64, error) {
	if len(ns) == 0 {
		return 0, NewError(ErrNotANumber, "cannot convert an empty node-set to a number", -1)
	}
	f, ok := ScalarFloat(ns[0].Value())
	if !ok {
		return 0, NewError(ErrNotANumber,
			fmt.Sprintf("cannot convert node value %q to a number", ScalarString(ns[0].Value())), -1)
	}
	return f, nil
}
