// Package parser builds expression ASTs from source text.
//
// The parser is a hand-written recursive-descent, precedence-climbing
// parser over a character-level [Scanner]. Name resolution is delegated to
// a [PrefixResolver]: a bare identifier resolves to the context module's
// own namespace, while prefix:local pairs are resolved through the
// resolver's per-module prefix table.
//
// # Example
//
//	expr, err := parser.Parse("interface[enabled = 'true']/name", mid, resolver)
//	if err != nil {
//	    var perr *types.Error
//	    errors.As(err, &perr) // perr.Position holds the source offset
//	}
package parser

import (
	"github.com/yangpath/yangpath/pkg/types"
)

// defaultMaxDepth bounds grammar recursion (nested predicates and
// parentheses) so hostile inputs cannot exhaust the stack.
const defaultMaxDepth = 100

// PrefixResolver is the namespace-resolution collaborator. It maps a prefix
// used in expression text to a namespace identifier, in the context of the
// module the expression belongs to.
type PrefixResolver interface {
	// PrefixToNamespace resolves the prefix within the module's prefix
	// table. An undefined prefix fails with a U1001-coded error.
	PrefixToNamespace(prefix string, mid types.ModuleID) (string, error)
}

// Parse parses an expression in the namespace context of the given module.
func Parse(source string, mid types.ModuleID, resolver PrefixResolver) (*types.Expression, error) {
	return NewParser(source, mid, resolver).Parse()
}

// Compile is Parse with configuration options.
func Compile(source string, mid types.ModuleID, resolver PrefixResolver, opts ...CompileOption) (*types.Expression, error) {
	return NewParser(source, mid, resolver, opts...).Parse()
}

// CompileOption configures parsing behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits grammar recursion depth. Zero or negative disables
	// the guard.
	MaxDepth int
}

// WithMaxDepth sets the maximum grammar recursion depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
