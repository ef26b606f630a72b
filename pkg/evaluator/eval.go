package evaluator

import (
	"context"
	"math"

	"github.com/yangpath/yangpath/pkg/types"
)

// evalNode dispatches exhaustively over the closed set of node kinds.
// node is the current context node; origin is fixed at the top-level call
// and threaded unchanged through the whole tree.
func (e *Evaluator) evalNode(ctx context.Context, n *types.ExprNode, node, origin types.InstanceNode, depth int) (types.Value, error) {
	if err := ctx.Err(); err != nil {
		return types.Value{}, err
	}
	if e.opts.MaxDepth > 0 && depth > e.opts.MaxDepth {
		return types.Value{}, types.NewError(types.ErrDepthExceeded,
			"evaluation recursion too deep", n.Position)
	}
	depth++

	switch n.Kind {
	case types.NodeOr, types.NodeAnd:
		// Both operands are evaluated unconditionally; no short-circuit.
		l, err := e.evalNode(ctx, n.LHS, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		r, err := e.evalNode(ctx, n.RHS, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		if n.Kind == types.NodeOr {
			return types.NewBoolean(l.Truthy() || r.Truthy()), nil
		}
		return types.NewBoolean(l.Truthy() && r.Truthy()), nil

	case types.NodeEquality:
		l, r, err := e.evalOperands(ctx, n, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		if n.Negate {
			return types.NewBoolean(types.NotEquals(l, r)), nil
		}
		return types.NewBoolean(types.Equals(l, r)), nil

	case types.NodeRelational:
		l, r, err := e.evalOperands(ctx, n, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		var res bool
		switch {
		case n.Less && n.Equal:
			res = types.LessOrEqual(l, r)
		case n.Less:
			res = types.LessThan(l, r)
		case n.Equal:
			res = types.GreaterOrEqual(l, r)
		default:
			res = types.GreaterThan(l, r)
		}
		return types.NewBoolean(res), nil

	case types.NodeAdditive:
		lf, rf, err := e.evalNumericOperands(ctx, n, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		if n.Plus {
			return types.NewNumber(lf + rf), nil
		}
		return types.NewNumber(lf - rf), nil

	case types.NodeMultiplicative:
		lf, rf, err := e.evalNumericOperands(ctx, n, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		switch n.MulOp {
		case types.MulMultiply:
			return types.NewNumber(lf * rf), nil
		case types.MulDivide:
			if rf == 0 {
				return types.Value{}, types.NewError(types.ErrNotANumber,
					"division by zero", n.Position)
			}
			return types.NewNumber(lf / rf), nil
		default:
			if rf == 0 {
				return types.Value{}, types.NewError(types.ErrNotANumber,
					"modulo by zero", n.Position)
			}
			return types.NewNumber(math.Mod(lf, rf)), nil
		}

	case types.NodeUnary:
		v, err := e.evalNode(ctx, n.Operand, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		f, err := v.Float()
		if err != nil {
			return types.Value{}, e.atPosition(err, n.Position)
		}
		if n.Negate {
			f = -f
		}
		return types.NewNumber(f), nil

	case types.NodeUnion:
		l, r, err := e.evalOperands(ctx, n, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		lns, ok := l.NodeSet()
		if !ok {
			return types.Value{}, types.NewError(types.ErrNotANodeSet,
				"left operand of '|' is not a node-set", n.Position)
		}
		rns, ok := r.NodeSet()
		if !ok {
			return types.Value{}, types.NewError(types.ErrNotANodeSet,
				"right operand of '|' is not a node-set", n.Position)
		}
		return types.NewNodeSet(lns.Union(rns)), nil

	case types.NodeLiteral:
		return types.NewString(n.StrValue), nil

	case types.NodeNumber:
		return types.NewNumber(n.NumValue), nil

	case types.NodePath:
		// (expr)/rest: the filter result becomes the context for the rest
		// of the path, member by member, and the results are unioned.
		l, err := e.evalNode(ctx, n.LHS, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		lns, ok := l.NodeSet()
		if !ok {
			return types.Value{}, types.NewError(types.ErrNotANodeSet,
				"filter expression before '/' is not a node-set", n.Position)
		}
		res := types.NodeSet{}
		for _, m := range lns {
			v, err := e.evalNode(ctx, n.RHS, m, origin, depth)
			if err != nil {
				return types.Value{}, err
			}
			vns, ok := v.NodeSet()
			if !ok {
				return types.Value{}, types.NewError(types.ErrNotANodeSet,
					"path after '/' did not yield a node-set", n.RHS.Position)
			}
			res = res.Union(vns)
		}
		return types.NewNodeSet(res), nil

	case types.NodeFilter:
		v, err := e.evalNode(ctx, n.Operand, node, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		if len(n.Predicates) == 0 {
			return v, nil
		}
		ns, ok := v.NodeSet()
		if !ok {
			return types.Value{}, types.NewError(types.ErrNotANodeSet,
				"predicates applied to a non-node-set value", n.Position)
		}
		out, err := e.applyPredicates(ctx, ns, n.Predicates, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewNodeSet(out), nil

	case types.NodeLocationPath:
		ctxNode := node
		if n.Absolute {
			ctxNode = origin.Top()
		}
		l, err := e.evalNode(ctx, n.LHS, ctxNode, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		lns, ok := l.NodeSet()
		if !ok {
			return types.Value{}, types.NewError(types.ErrNotANodeSet,
				"location path over a non-node-set value", n.Position)
		}
		trans, err := e.stepFunc(n.RHS)
		if err != nil {
			return types.Value{}, err
		}
		ns := lns.Bind(trans)
		out, err := e.applyPredicates(ctx, ns, n.RHS.Predicates, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewNodeSet(out), nil

	case types.NodeStep:
		ctxNode := node
		if n.Absolute {
			// A single-step absolute path ("/x") anchors here directly.
			ctxNode = origin.Top()
		}
		trans, err := e.stepFunc(n)
		if err != nil {
			return types.Value{}, err
		}
		ns := types.NodeSet(trans(ctxNode))
		out, err := e.applyPredicates(ctx, ns, n.Predicates, origin, depth)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewNodeSet(out), nil

	case types.NodeFuncTrue:
		return types.NewBoolean(true), nil

	case types.NodeFuncFalse:
		return types.NewBoolean(false), nil

	case types.NodeFuncLast:
		// last() yields 0 in every context; the true context size is not
		// threaded through evaluation.
		return types.NewNumber(0), nil

	default:
		return types.Value{}, types.NewError(types.ErrSyntaxError,
			"unknown expression node kind", n.Position)
	}
}

// evalOperands evaluates both operands of a dyadic node under the same
// (context, origin) pair.
func (e *Evaluator) evalOperands(ctx context.Context, n *types.ExprNode, node, origin types.InstanceNode, depth int) (types.Value, types.Value, error) {
	l, err := e.evalNode(ctx, n.LHS, node, origin, depth)
	if err != nil {
		return types.Value{}, types.Value{}, err
	}
	r, err := e.evalNode(ctx, n.RHS, node, origin, depth)
	if err != nil {
		return types.Value{}, types.Value{}, err
	}
	return l, r, nil
}

// evalNumericOperands evaluates both operands and coerces them to numbers.
// Arithmetic positions are not protected by the tolerant comparison path:
// coercion failures propagate as type errors.
func (e *Evaluator) evalNumericOperands(ctx context.Context, n *types.ExprNode, node, origin types.InstanceNode, depth int) (float64, float64, error) {
	l, r, err := e.evalOperands(ctx, n, node, origin, depth)
	if err != nil {
		return 0, 0, err
	}
	lf, err := l.Float()
	if err != nil {
		return 0, 0, e.atPosition(err, n.LHS.Position)
	}
	rf, err := r.Float()
	if err != nil {
		return 0, 0, e.atPosition(err, n.RHS.Position)
	}
	return lf, rf, nil
}

// atPosition stamps a source offset onto coercion errors raised below the
// AST, which carry none of their own.
func (e *Evaluator) atPosition(err error, pos int) error {
	if terr, ok := err.(*types.Error); ok && terr.Position < 0 {
		terr.Position = pos
	}
	return err
}
