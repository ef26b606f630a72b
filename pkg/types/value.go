// Package types defines the core type system of the expression engine.
//
// This package contains type definitions for:
//   - Value: runtime results of expression evaluation
//   - NodeSet: the node-valued result type of navigation expressions
//   - ExprNode: Abstract Syntax Tree nodes
//   - QName / ModuleID: qualified names and module identities
//   - InstanceNode: the instance-data tree collaborator
//   - Error: structured errors with codes
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	ValueNodeSet ValueKind = iota
	ValueString
	ValueNumber
	ValueBoolean
)

// String returns a human-readable kind name.
func (k ValueKind) String() string {
	switch k {
	case ValueNodeSet:
		return "node-set"
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is the tagged union produced by every evaluation: a node-set,
// string, number, or boolean. The zero Value is an empty node-set.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	ns   NodeSet
}

// NewNodeSet wraps a NodeSet in a Value.
func NewNodeSet(ns NodeSet) Value {
	return Value{kind: ValueNodeSet, ns: ns}
}

// NewString wraps a string in a Value.
func NewString(s string) Value {
	return Value{kind: ValueString, str: s}
}

// NewNumber wraps a float64 in a Value.
func NewNumber(f float64) Value {
	return Value{kind: ValueNumber, num: f}
}

// NewBoolean wraps a bool in a Value.
func NewBoolean(b bool) Value {
	return Value{kind: ValueBoolean, b: b}
}

// Kind returns the variant held by the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// NodeSet returns the node-set variant, or (nil, false) for scalars.
func (v Value) NodeSet() (NodeSet, bool) {
	if v.kind != ValueNodeSet {
		return nil, false
	}
	return v.ns, true
}

// Bool returns the boolean variant's payload without coercion.
// Only meaningful when Kind is ValueBoolean.
func (v Value) Bool() bool {
	return v.b
}

// Num returns the numeric variant's payload without coercion.
// Only meaningful when Kind is ValueNumber.
func (v Value) Num() float64 {
	return v.num
}

// Truthy applies the boolean coercion: a node-set is true when non-empty,
// a string when non-empty, a number when non-zero and not NaN.
func (v Value) Truthy() bool {
	switch v.kind {
	case ValueNodeSet:
		return len(v.ns) > 0
	case ValueString:
		return v.str != ""
	case ValueNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	default:
		return v.b
	}
}

// StringVal applies the string coercion: a node-set yields the string value
// of its first member (empty string when the set is empty).
func (v Value) StringVal() string {
	switch v.kind {
	case ValueNodeSet:
		return v.ns.StringVal()
	case ValueString:
		return v.str
	case ValueNumber:
		return formatNumber(v.num)
	default:
		return strconv.FormatBool(v.b)
	}
}

// Float applies the numeric coercion. It fails with a T1001 error on an
// empty node-set or a non-numeric string; arithmetic positions are not
// protected by the tolerant comparison path.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case ValueNodeSet:
		return v.ns.Float()
	case ValueString:
		f, ok := parseNumber(v.str)
		if !ok {
			return 0, NewError(ErrNotANumber, fmt.Sprintf("cannot convert %q to a number", v.str), -1)
		}
		return f, nil
	case ValueNumber:
		return v.num, nil
	default:
		if v.b {
			return 1, nil
		}
		return 0, nil
	}
}

// String implements fmt.Stringer using the string coercion.
func (v Value) String() string {
	return v.StringVal()
}

// formatNumber renders a float the way XPath string() does: integral values
// carry no decimal point.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseNumber parses a numeric string, tolerating surrounding whitespace.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ScalarString renders an instance node's raw scalar value as a string.
func ScalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatNumber(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// ScalarFloat interprets an instance node's raw scalar value numerically.
func ScalarFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		return parseNumber(x)
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
