package types

import (
	"strings"
)

const dumpIndent = 2

// Dump renders the expression tree as an indented, human-readable structure
// for diagnostics and tests. Each node appears on its own line as its kind
// name with operator or name details in parentheses; predicates are listed
// under a "-- Predicates:" marker.
func (n *ExprNode) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *ExprNode) dump(sb *strings.Builder, indent int) {
	sb.WriteString(strings.Repeat(" ", indent))
	sb.WriteString(n.Kind.String())
	if p := n.properties(); p != "" {
		sb.WriteString(" (")
		sb.WriteString(p)
		sb.WriteString(")")
	}
	sb.WriteString("\n")

	next := indent + dumpIndent
	switch n.Kind {
	case NodeOr, NodeAnd, NodeEquality, NodeRelational, NodeAdditive,
		NodeMultiplicative, NodeUnion, NodePath, NodeLocationPath:
		n.LHS.dump(sb, next)
		n.RHS.dump(sb, next)
	case NodeUnary:
		n.Operand.dump(sb, next)
	case NodeFilter:
		n.Operand.dump(sb, next)
		n.dumpPredicates(sb, next)
	case NodeStep:
		n.dumpPredicates(sb, next)
	}
}

func (n *ExprNode) dumpPredicates(sb *strings.Builder, indent int) {
	if len(n.Predicates) == 0 {
		return
	}
	sb.WriteString(strings.Repeat(" ", indent))
	sb.WriteString("-- Predicates:\n")
	for _, p := range n.Predicates {
		p.dump(sb, indent+3)
	}
}

func (n *ExprNode) properties() string {
	switch n.Kind {
	case NodeEquality:
		if n.Negate {
			return "!="
		}
		return "="
	case NodeRelational:
		res := ">"
		if n.Less {
			res = "<"
		}
		if n.Equal {
			res += "="
		}
		return res
	case NodeAdditive:
		if n.Plus {
			return "+"
		}
		return "-"
	case NodeMultiplicative:
		return n.MulOp.String()
	case NodeUnary:
		if n.Negate {
			return "-"
		}
		return "+"
	case NodeLiteral:
		return n.StrValue
	case NodeNumber:
		return formatNumber(n.NumValue)
	case NodeLocationPath:
		if n.Absolute {
			return "ABS"
		}
		return "REL"
	case NodeStep:
		return n.Axis.String() + " " + n.Name.String()
	default:
		return ""
	}
}
