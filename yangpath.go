// Package yangpath evaluates a restricted XPath 1.0 subset over trees of
// schema-modeled instance data.
//
// The subset is the one used to express data-dependency constraints:
// equality and relational tests, path navigation, and boolean combination.
// An expression is compiled once in the namespace context of a module and
// can then be evaluated any number of times against different instance
// trees, yielding a node-set, string, number, or boolean.
//
// # Quick Start
//
//	// Compile once, evaluate many times
//	expr, err := yangpath.Compile("interface/enabled = 'true'", mid, resolver)
//	val, err := yangpath.NewEvaluator().Eval(ctx, expr, node)
//
//	// One-shot
//	val, err := yangpath.Eval("1 + 2", mid, nil, node)
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/yangpath/yangpath/pkg/parser
//   - Evaluator: github.com/yangpath/yangpath/pkg/evaluator
//   - Types: github.com/yangpath/yangpath/pkg/types
//   - Schema context: github.com/yangpath/yangpath/pkg/schema
package yangpath

import (
	"context"
	"fmt"
	"time"

	"github.com/yangpath/yangpath/pkg/cache"
	"github.com/yangpath/yangpath/pkg/evaluator"
	"github.com/yangpath/yangpath/pkg/parser"
	"github.com/yangpath/yangpath/pkg/types"
)

// Version returns the current version of yangpath.
func Version() string {
	return "v0.1.0-dev"
}

// Compile parses an expression in the namespace context of the given
// module. The compiled expression is immutable and safe for concurrent
// evaluation.
func Compile(source string, mid types.ModuleID, resolver parser.PrefixResolver, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(source, mid, resolver, opts...)
}

// CompileCached is Compile through an LRU cache, keyed by (module, source).
func CompileCached(c *cache.Cache, source string, mid types.ModuleID, resolver parser.PrefixResolver, opts ...parser.CompileOption) (*types.Expression, error) {
	return c.GetOrCompile(cache.Key{Module: mid, Source: source}, func() (*types.Expression, error) {
		return parser.Compile(source, mid, resolver, opts...)
	})
}

// MustCompile is like Compile but panics if the expression cannot be
// compiled. It simplifies safe initialization of global variables.
func MustCompile(source string, mid types.ModuleID, resolver parser.PrefixResolver) *types.Expression {
	expr, err := Compile(source, mid, resolver)
	if err != nil {
		panic(fmt.Sprintf("yangpath: Compile(%q): %v", source, err))
	}
	return expr
}

// NewEvaluator creates an evaluator with the given options.
func NewEvaluator(opts ...evaluator.EvalOption) *evaluator.Evaluator {
	return evaluator.New(opts...)
}

// Eval compiles and evaluates an expression in a single call, with a 30
// second safety timeout. For repeated evaluations of the same expression,
// use Compile and an Evaluator instead.
func Eval(source string, mid types.ModuleID, resolver parser.PrefixResolver, node types.InstanceNode, opts ...evaluator.EvalOption) (types.Value, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return EvalWithContext(ctx, source, mid, resolver, node, opts...)
}

// EvalWithContext compiles and evaluates an expression under a caller
// context.
func EvalWithContext(ctx context.Context, source string, mid types.ModuleID, resolver parser.PrefixResolver, node types.InstanceNode, opts ...evaluator.EvalOption) (types.Value, error) {
	expr, err := Compile(source, mid, resolver)
	if err != nil {
		return types.Value{}, err
	}
	return evaluator.New(opts...).Eval(ctx, expr, node)
}
