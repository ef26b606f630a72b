package types

// NodeKind identifies the variant of an expression node. The set is closed:
// the evaluator dispatches exhaustively over it.
type NodeKind uint8

const (
	NodeOr NodeKind = iota
	NodeAnd
	NodeEquality       // =, !=
	NodeRelational     // <, >, <=, >=
	NodeAdditive       // +, -
	NodeMultiplicative // *, div, mod
	NodeUnary          // unary -
	NodeUnion          // |
	NodeLiteral        // quoted string
	NodeNumber         // numeric literal
	NodePath           // (filter)/path chaining
	NodeFilter         // primary with predicates
	NodeLocationPath   // left/right step composition
	NodeStep           // one axis-qualified name test
	NodeFuncTrue       // true()
	NodeFuncFalse      // false()
	NodeFuncLast       // last()
)

var nodeKindNames = [...]string{
	NodeOr:             "OrExpr",
	NodeAnd:            "AndExpr",
	NodeEquality:       "EqualityExpr",
	NodeRelational:     "RelationalExpr",
	NodeAdditive:       "AdditiveExpr",
	NodeMultiplicative: "MultiplicativeExpr",
	NodeUnary:          "UnaryExpr",
	NodeUnion:          "UnionExpr",
	NodeLiteral:        "Literal",
	NodeNumber:         "Number",
	NodePath:           "PathExpr",
	NodeFilter:         "FilterExpr",
	NodeLocationPath:   "LocationPath",
	NodeStep:           "Step",
	NodeFuncTrue:       "FuncTrue",
	NodeFuncFalse:      "FuncFalse",
	NodeFuncLast:       "FuncLast",
}

// String returns the node kind's name.
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// MulOp selects the multiplicative operator.
type MulOp uint8

const (
	MulMultiply MulOp = iota
	MulDivide
	MulModulo
)

// String returns the operator's source form.
func (op MulOp) String() string {
	switch op {
	case MulMultiply:
		return "*"
	case MulDivide:
		return "div"
	default:
		return "mod"
	}
}

// Axis is a navigation relation from a context node. All thirteen XPath 1.0
// axis keywords parse; only child, self, parent, descendant, and
// ancestor-or-self carry evaluation behavior.
type Axis uint8

const (
	AxisChild Axis = iota
	AxisSelf
	AxisParent
	AxisDescendant
	AxisAncestorOrSelf
	AxisAncestor
	AxisAttribute
	AxisDescendantOrSelf
	AxisFollowing
	AxisFollowingSibling
	AxisNamespace
	AxisPreceding
	AxisPrecedingSibling
)

var axisNames = [...]string{
	AxisChild:            "child",
	AxisSelf:             "self",
	AxisParent:           "parent",
	AxisDescendant:       "descendant",
	AxisAncestorOrSelf:   "ancestor-or-self",
	AxisAncestor:         "ancestor",
	AxisAttribute:        "attribute",
	AxisDescendantOrSelf: "descendant-or-self",
	AxisFollowing:        "following",
	AxisFollowingSibling: "following-sibling",
	AxisNamespace:        "namespace",
	AxisPreceding:        "preceding",
	AxisPrecedingSibling: "preceding-sibling",
}

// String returns the axis keyword.
func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return "unknown"
}

// AxisFromName maps an axis keyword to its Axis, reporting whether the
// keyword is known.
func AxisFromName(name string) (Axis, bool) {
	for a, n := range axisNames {
		if n == name {
			return Axis(a), true
		}
	}
	return AxisChild, false
}

// ExprNode is one node of a parsed expression tree. Nodes are created during
// parsing, owned exclusively by their parent, and never mutated afterwards;
// a finished tree is safe for concurrent evaluation.
type ExprNode struct {
	Kind     NodeKind
	Position int // source offset where the node's production started

	LHS     *ExprNode // left operand (dyadic kinds); filter of NodePath
	RHS     *ExprNode // right operand (dyadic kinds); path of NodePath
	Operand *ExprNode // unary operand; primary of NodeFilter

	Predicates []*ExprNode // NodeStep and NodeFilter

	Negate   bool  // NodeEquality: !=; NodeUnary: odd number of minus signs
	Less     bool  // NodeRelational: < or <=
	Equal    bool  // NodeRelational: <= or >=
	Plus     bool  // NodeAdditive: +
	MulOp    MulOp // NodeMultiplicative
	Absolute bool  // NodeLocationPath: anchored at the origin's root

	Axis Axis   // NodeStep
	Name *QName // NodeStep name test; nil matches everything

	StrValue string  // NodeLiteral
	NumValue float64 // NodeNumber
}

// arenaChunkSize is the number of ExprNode values pre-allocated per arena
// chunk. Typical expressions fit in a single chunk.
const arenaChunkSize = 64

// NodeArena is a bump-pointer allocator for ExprNode values. Instead of one
// GC-tracked allocation per node, the parser allocates fixed-size chunks and
// hands out pointers into them.
//
// The arena must stay alive as long as any node allocated from it is
// reachable; attaching it to the [Expression] achieves that. It is not safe
// for concurrent use — each parser owns its own arena.
type NodeArena struct {
	chunks [][]ExprNode
	pos    int // next free index in the last chunk
}

// NewNodeArena allocates an arena pre-warmed with one chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]ExprNode{make([]ExprNode, arenaChunkSize)},
	}
}

// Alloc returns a pointer to a zero-valued ExprNode inside the arena with
// Kind and Position set. All other fields must be filled by the caller.
func (a *NodeArena) Alloc(kind NodeKind, position int) *ExprNode {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]ExprNode, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Kind = kind
	n.Position = position
	return n
}
