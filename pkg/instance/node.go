// Package instance provides an in-memory instance-data tree implementing
// the engine's InstanceNode collaborator.
//
// Trees are built once (programmatically or from JSON-shaped data) and are
// read-only afterwards, so any number of evaluations may traverse them
// concurrently. Every node carries a unique path key whose ordinary string
// ordering follows document order, which is what makes it usable as the
// evaluator's document-order surrogate.
package instance

import (
	"fmt"

	"github.com/yangpath/yangpath/pkg/types"
)

// Node is one node of an in-memory instance tree.
type Node struct {
	name     types.QName
	value    any
	parent   *Node
	children []*Node
	path     string
}

// NewRoot creates the root of a new tree. The root carries no name and no
// value; it exists so absolute paths have an anchor.
func NewRoot() *Node {
	return &Node{path: "/"}
}

// Add appends a child with the given qualified name and scalar value and
// returns it. Pass nil for interior nodes. Children keep insertion order,
// which defines document order.
func (n *Node) Add(name types.QName, value any) *Node {
	child := &Node{
		name:   name,
		value:  value,
		parent: n,
		path:   fmt.Sprintf("%s%04d:%s/", n.path, len(n.children), name.String()),
	}
	n.children = append(n.children, child)
	return child
}

// Name returns the node's qualified name.
func (n *Node) Name() types.QName {
	return n.name
}

// Value returns the node's scalar value, nil for interior nodes.
func (n *Node) Value() any {
	return n.value
}

// Path returns the node's unique path key. Keys order lexicographically in
// document order.
func (n *Node) Path() string {
	return n.path
}

// Top returns the root of the tree.
func (n *Node) Top() types.InstanceNode {
	top := n
	for top.parent != nil {
		top = top.parent
	}
	return top
}

// Children returns the node's children matching the name test, in document
// order.
func (n *Node) Children(test *types.QName) []types.InstanceNode {
	var res []types.InstanceNode
	for _, c := range n.children {
		if test.Matches(c.name.Local, c.name.Namespace) {
			res = append(res, c)
		}
	}
	return res
}

// Descendants returns all descendants matching the name test, in document
// (pre-order) order.
func (n *Node) Descendants(test *types.QName) []types.InstanceNode {
	var res []types.InstanceNode
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.children {
			if test.Matches(c.name.Local, c.name.Namespace) {
				res = append(res, c)
			}
			walk(c)
		}
	}
	walk(n)
	return res
}

// AncestorsOrSelf returns the node followed by its ancestors up to and
// including the root, filtered by the name test.
func (n *Node) AncestorsOrSelf(test *types.QName) []types.InstanceNode {
	var res []types.InstanceNode
	for cur := n; cur != nil; cur = cur.parent {
		if test.Matches(cur.name.Local, cur.name.Namespace) {
			res = append(res, cur)
		}
	}
	return res
}
