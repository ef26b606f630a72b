package types

// Expression is a compiled expression: the immutable AST root plus the
// source text and the context module whose prefix table governed name
// resolution during parsing.
//
// An Expression can be evaluated any number of times against different
// instance trees and is safe for concurrent use by multiple goroutines.
type Expression struct {
	ast    *ExprNode
	source string
	module ModuleID
	arena  *NodeArena // keeps arena-allocated nodes alive
}

// NewExpression creates an Expression from a parsed AST. The arena, if
// non-nil, is retained so its nodes share the Expression's lifetime.
func NewExpression(ast *ExprNode, source string, module ModuleID, arena *NodeArena) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
		module: module,
		arena:  arena,
	}
}

// AST returns the root expression node.
func (e *Expression) AST() *ExprNode {
	return e.ast
}

// Source returns the original expression text.
func (e *Expression) Source() string {
	return e.source
}

// Module returns the context module identifier the expression was parsed
// under.
func (e *Expression) Module() ModuleID {
	return e.module
}

// String returns the original expression text.
func (e *Expression) String() string {
	return e.source
}
