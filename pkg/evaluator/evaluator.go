// Package evaluator implements the expression evaluation engine.
//
// The evaluator receives a parsed Abstract Syntax Tree from the parser and
// evaluates it against an instance-data tree, producing a [types.Value]
// (node-set, string, number, or boolean). Evaluation is a pure read-only
// traversal: a compiled expression can be evaluated repeatedly and
// concurrently as long as the instance tree supports concurrent reads.
//
// Cost is proportional to tree depth and fan-out times AST nesting; the
// core imposes no bound itself, so the evaluator carries optional guards at
// the call boundary: a recursion-depth limit and a wall-clock timeout via
// context.Context.
//
// # Example
//
//	ev := evaluator.New(evaluator.WithTimeout(5 * time.Second))
//	val, err := ev.Eval(ctx, expr, node)
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yangpath/yangpath/pkg/types"
)

// Evaluator evaluates compiled expressions against instance trees.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// MaxDepth limits evaluation recursion depth. Zero disables the guard.
	MaxDepth int
	// Timeout bounds a single Eval call. Zero means no timeout beyond the
	// caller's context.
	Timeout time.Duration
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// EvalOption configures an Evaluator.
type EvalOption func(*EvalOptions)

// WithMaxDepth sets the recursion depth guard.
func WithMaxDepth(depth int) EvalOption {
	return func(o *EvalOptions) { o.MaxDepth = depth }
}

// WithTimeout bounds each Eval call with a wall-clock timeout.
func WithTimeout(d time.Duration) EvalOption {
	return func(o *EvalOptions) { o.Timeout = d }
}

// WithDebug enables debug logging.
func WithDebug(debug bool) EvalOption {
	return func(o *EvalOptions) { o.Debug = debug }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(o *EvalOptions) { o.Logger = logger }
}

// New creates an Evaluator with default options: depth guard at 10000,
// no timeout, logging off.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: 10000,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Evaluator{
		opts:   options,
		logger: options.Logger,
	}
}

// Eval evaluates a compiled expression with the given instance node as both
// the initial context node and the origin. Absolute location paths anchor
// at the origin's root.
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression, node types.InstanceNode) (types.Value, error) {
	if expr == nil || expr.AST() == nil {
		return types.Value{}, fmt.Errorf("invalid expression")
	}
	if node == nil {
		return types.Value{}, fmt.Errorf("nil instance node")
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	if e.opts.Debug {
		e.logger.Debug("evaluating expression",
			"source", expr.Source(),
			"module", expr.Module().String(),
			"context", node.Path())
	}

	val, err := e.evalNode(ctx, expr.AST(), node, node, 0)
	if err != nil {
		if e.opts.Debug {
			e.logger.Debug("evaluation failed",
				"source", expr.Source(),
				"error", err)
		}
		return types.Value{}, err
	}
	return val, nil
}
