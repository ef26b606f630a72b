package evaluator

import (
	"fmt"

	"github.com/yangpath/yangpath/pkg/types"
)

// stepFunc maps a step's axis to its navigation function. Five axes
// navigate: child, self, parent, descendant, and ancestor-or-self. The
// remaining grammatically accepted axes fail with a D3001 error here.
func (e *Evaluator) stepFunc(step *types.ExprNode) (func(types.InstanceNode) []types.InstanceNode, error) {
	name := step.Name
	switch step.Axis {
	case types.AxisChild:
		return func(n types.InstanceNode) []types.InstanceNode {
			return n.Children(name)
		}, nil
	case types.AxisDescendant:
		return func(n types.InstanceNode) []types.InstanceNode {
			return n.Descendants(name)
		}, nil
	case types.AxisAncestorOrSelf:
		return func(n types.InstanceNode) []types.InstanceNode {
			return n.AncestorsOrSelf(name)
		}, nil
	case types.AxisSelf:
		return func(n types.InstanceNode) []types.InstanceNode {
			if matchesTest(n, name) {
				return []types.InstanceNode{n}
			}
			return nil
		}, nil
	case types.AxisParent:
		return func(n types.InstanceNode) []types.InstanceNode {
			up := n.AncestorsOrSelf(nil)
			if len(up) < 2 {
				return nil
			}
			parent := up[1]
			if matchesTest(parent, name) {
				return []types.InstanceNode{parent}
			}
			return nil
		}, nil
	default:
		return nil, types.NewError(types.ErrAxisNotSupported,
			fmt.Sprintf("axis %q is accepted by the grammar but not supported in evaluation", step.Axis),
			step.Position)
	}
}

// matchesTest reports whether a node passes a name test. The instance
// collaborator exposes no direct name accessor, so self-matching is probed
// through the filtered ancestor-or-self sequence.
func matchesTest(n types.InstanceNode, test *types.QName) bool {
	if test == nil {
		return true
	}
	aos := n.AncestorsOrSelf(test)
	return len(aos) > 0 && aos[0].Path() == n.Path()
}
