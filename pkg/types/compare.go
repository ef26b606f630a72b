package types

// Comparison semantics follow XPath 1.0: when a node-set participates, the
// comparison is existential — it holds if any member satisfies it against
// the scalar operand (or against any member of the other node-set, pairwise).
// Relational comparisons silently treat non-numeric members as
// non-satisfying rather than failing.
//
// The functions are deliberately named rather than hung off generic
// equality or ordering operators, so ordinary Go comparisons are never
// routed through these rules by accident.

// Equals reports whether two evaluation results compare equal.
func Equals(a, b Value) bool {
	if ans, ok := a.NodeSet(); ok {
		if bns, ok := b.NodeSet(); ok {
			for _, m := range bns {
				if nodeSetEqualsScalar(ans, NewString(ScalarString(m.Value()))) {
					return true
				}
			}
			return false
		}
		return nodeSetEqualsScalar(ans, b)
	}
	if _, ok := b.NodeSet(); ok {
		return Equals(b, a)
	}
	return scalarEquals(a, b)
}

// NotEquals reports whether two evaluation results compare unequal.
// With a node-set operand this is existential as well, so it is not the
// negation of Equals: a two-member set can be both equal and unequal to
// the same scalar.
func NotEquals(a, b Value) bool {
	if ans, ok := a.NodeSet(); ok {
		if bns, ok := b.NodeSet(); ok {
			for _, m := range bns {
				if nodeSetNotEqualsScalar(ans, NewString(ScalarString(m.Value()))) {
					return true
				}
			}
			return false
		}
		return nodeSetNotEqualsScalar(ans, b)
	}
	if _, ok := b.NodeSet(); ok {
		return NotEquals(b, a)
	}
	return !scalarEquals(a, b)
}

// LessThan reports a < b under numeric existential comparison.
func LessThan(a, b Value) bool {
	return relational(a, b, func(x, y float64) bool { return x < y })
}

// LessOrEqual reports a <= b under numeric existential comparison.
func LessOrEqual(a, b Value) bool {
	return relational(a, b, func(x, y float64) bool { return x <= y })
}

// GreaterThan reports a > b under numeric existential comparison.
func GreaterThan(a, b Value) bool {
	return relational(a, b, func(x, y float64) bool { return x > y })
}

// GreaterOrEqual reports a >= b under numeric existential comparison.
func GreaterOrEqual(a, b Value) bool {
	return relational(a, b, func(x, y float64) bool { return x >= y })
}

func nodeSetEqualsScalar(ns NodeSet, scalar Value) bool {
	switch scalar.kind {
	case ValueString:
		for _, n := range ns {
			if ScalarString(n.Value()) == scalar.str {
				return true
			}
		}
		return false
	case ValueNumber:
		for _, n := range ns {
			if f, ok := ScalarFloat(n.Value()); ok && f == scalar.num {
				return true
			}
		}
		return false
	default:
		// A node-set compared to a boolean compares its truthiness.
		return (len(ns) > 0) == scalar.b
	}
}

func nodeSetNotEqualsScalar(ns NodeSet, scalar Value) bool {
	switch scalar.kind {
	case ValueString:
		for _, n := range ns {
			if ScalarString(n.Value()) != scalar.str {
				return true
			}
		}
		return false
	case ValueNumber:
		for _, n := range ns {
			f, ok := ScalarFloat(n.Value())
			if !ok || f != scalar.num {
				return true
			}
		}
		return false
	default:
		return (len(ns) > 0) != scalar.b
	}
}

func scalarEquals(a, b Value) bool {
	// Booleans absorb the other operand through truthiness.
	if a.kind == ValueBoolean || b.kind == ValueBoolean {
		return a.Truthy() == b.Truthy()
	}
	if a.kind == b.kind {
		if a.kind == ValueString {
			return a.str == b.str
		}
		return a.num == b.num
	}
	// Mixed number/string: interpret the string numerically.
	s, n := a, b
	if a.kind == ValueNumber {
		s, n = b, a
	}
	f, ok := parseNumber(s.str)
	return ok && f == n.num
}

// relational applies cmp existentially over the numeric interpretations of
// both operands. Non-numeric members and non-numeric scalars contribute no
// candidates and thus never satisfy the comparison.
func relational(a, b Value, cmp func(x, y float64) bool) bool {
	for _, x := range numericCandidates(a) {
		for _, y := range numericCandidates(b) {
			if cmp(x, y) {
				return true
			}
		}
	}
	return false
}

func numericCandidates(v Value) []float64 {
	if ns, ok := v.NodeSet(); ok {
		out := make([]float64, 0, len(ns))
		for _, n := range ns {
			if f, ok := ScalarFloat(n.Value()); ok {
				out = append(out, f)
			}
		}
		return out
	}
	f, err := v.Float()
	if err != nil {
		return nil
	}
	return []float64{f}
}
