package evaluator

import (
	"context"

	"github.com/yangpath/yangpath/pkg/types"
)

// applyPredicates runs the predicate list in order over a node-set. Each
// predicate is evaluated against every member of the current working set,
// with that member as context and the original origin.
//
// A numeric predicate value is a 1-based index into the working set of the
// current pass — the output of the preceding predicate, not the step's
// original expansion — and selects that single member, ending the pass. An
// out-of-range index terminates predicate processing early and yields
// whatever had been accumulated; it is not an error. A non-numeric value
// keeps the member iff it is truthy.
func (e *Evaluator) applyPredicates(ctx context.Context, ns types.NodeSet, preds []*types.ExprNode, origin types.InstanceNode, depth int) (types.NodeSet, error) {
	for _, pred := range preds {
		res := make(types.NodeSet, 0, len(ns))
		for _, member := range ns {
			pval, err := e.evalNode(ctx, pred, member, origin, depth)
			if err != nil {
				return nil, err
			}
			if pval.Kind() == types.ValueNumber {
				i := int(pval.Num()) - 1
				if i < 0 || i >= len(ns) {
					return res, nil
				}
				res = append(res, ns[i])
				break
			}
			if pval.Truthy() {
				res = append(res, member)
			}
		}
		ns = res
	}
	return ns, nil
}
