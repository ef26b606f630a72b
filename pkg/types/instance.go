package types

// InstanceNode is a node of the runtime data tree being queried.
//
// Implementations must be safe for concurrent read-only traversal; the
// evaluator never mutates nodes. Path keys are the document-order surrogate:
// they must be unique per node and totally ordered by ordinary string
// comparison.
type InstanceNode interface {
	// Value returns the scalar value carried by the node. Interior nodes
	// may return nil.
	Value() any

	// Path returns the node's unique, totally-ordered path key.
	Path() string

	// Top returns the root of the tree the node belongs to.
	Top() InstanceNode

	// Children returns the node's children matching the name test, in
	// document order. A nil test matches all children.
	Children(test *QName) []InstanceNode

	// Descendants returns all descendants matching the name test, in
	// document order. A nil test matches every descendant.
	Descendants(test *QName) []InstanceNode

	// AncestorsOrSelf returns the node followed by its ancestors up to the
	// root, filtered by the name test. A nil test matches everything.
	AncestorsOrSelf(test *QName) []InstanceNode
}
