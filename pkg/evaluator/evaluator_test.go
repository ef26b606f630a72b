package evaluator_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/yangpath/yangpath/pkg/evaluator"
	"github.com/yangpath/yangpath/pkg/instance"
	"github.com/yangpath/yangpath/pkg/parser"
	"github.com/yangpath/yangpath/pkg/types"
)

var sysModule = types.ModuleID{Name: "sys"}

func qn(local string) types.QName {
	return types.QName{Local: local, Namespace: "sys"}
}

// buildTree creates the fixture used throughout:
//
//	/
//	└── system
//	    ├── x = "1"
//	    ├── x = "2"
//	    ├── a = "10"
//	    ├── a = "20"
//	    ├── a = "30"
//	    └── host
//	        ├── x = "42"
//	        └── name = "h1"
//
// It returns the system and host nodes, the usual evaluation contexts.
func buildTree() (system, host *instance.Node) {
	root := instance.NewRoot()
	system = root.Add(qn("system"), nil)
	system.Add(qn("x"), "1")
	system.Add(qn("x"), "2")
	system.Add(qn("a"), "10")
	system.Add(qn("a"), "20")
	system.Add(qn("a"), "30")
	host = system.Add(qn("host"), nil)
	host.Add(qn("x"), "42")
	host.Add(qn("name"), "h1")
	return system, host
}

func compile(t *testing.T, source string) *types.Expression {
	t.Helper()
	expr, err := parser.Parse(source, sysModule, nil)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", source, err)
	}
	return expr
}

func eval(t *testing.T, source string, node types.InstanceNode) types.Value {
	t.Helper()
	val, err := evaluator.New().Eval(context.Background(), compile(t, source), node)
	if err != nil {
		t.Fatalf("failed to evaluate %q: %v", source, err)
	}
	return val
}

func evalErr(t *testing.T, source string, node types.InstanceNode) *types.Error {
	t.Helper()
	_, err := evaluator.New().Eval(context.Background(), compile(t, source), node)
	if err == nil {
		t.Fatalf("expected an error evaluating %q", source)
	}
	var terr *types.Error
	if !errors.As(err, &terr) {
		t.Fatalf("error is not a *types.Error: %v", err)
	}
	return terr
}

func wantNumber(t *testing.T, v types.Value, want float64) {
	t.Helper()
	if v.Kind() != types.ValueNumber {
		t.Fatalf("expected a number, got %s", v)
	}
	if got := v.Num(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func wantBoolean(t *testing.T, v types.Value, want bool) {
	t.Helper()
	if v.Kind() != types.ValueBoolean {
		t.Fatalf("expected a boolean, got %s", v)
	}
	if got := v.Bool(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func wantNodeSet(t *testing.T, v types.Value, size int) types.NodeSet {
	t.Helper()
	ns, ok := v.NodeSet()
	if !ok {
		t.Fatalf("expected a node-set, got %s", v)
	}
	if len(ns) != size {
		t.Fatalf("expected %d nodes, got %d", size, len(ns))
	}
	return ns
}

func TestArithmetic(t *testing.T) {
	system, _ := buildTree()
	tests := []struct {
		source string
		want   float64
	}{
		{"1 + 2", 3},
		{"5 - 7", -2},
		{"2 * 3", 6},
		{"7 div 2", 3.5},
		{"7 mod 2", 1},
		{"1 + 2 * 3", 7},
		{"- 3", -3},
		{"- - 3", 3},
		{"x + 1", 2}, // first member of the node-set coerces
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			wantNumber(t, eval(t, tt.source, system), tt.want)
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	system, _ := buildTree()
	tests := []struct {
		name     string
		source   string
		wantCode types.ErrorCode
	}{
		{"division by zero", "1 div 0", types.ErrNotANumber},
		{"modulo by zero", "1 mod 0", types.ErrNotANumber},
		{"non-numeric operand", "'a' + 1", types.ErrNotANumber},
		{"empty node-set operand", "nosuch + 1", types.ErrNotANumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terr := evalErr(t, tt.source, system)
			if terr.Code != tt.wantCode {
				t.Errorf("got code %s, want %s (%v)", terr.Code, tt.wantCode, terr)
			}
			if terr.Position < 0 {
				t.Errorf("error carries no source offset: %v", terr)
			}
		})
	}
}

func TestBooleanConnectives(t *testing.T) {
	system, _ := buildTree()
	tests := []struct {
		source string
		want   bool
	}{
		{"true()", true},
		{"false()", false},
		{"true() and false()", false},
		{"true() and true()", true},
		{"true() or false()", true},
		{"false() or false()", false},
		{"x and true()", true},       // non-empty node-set is truthy
		{"nosuch or false()", false}, // empty node-set is falsy
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			wantBoolean(t, eval(t, tt.source, system), tt.want)
		})
	}
}

func TestConnectivesEvaluateBothOperands(t *testing.T) {
	// No short-circuit: the right operand's fault surfaces even when the
	// left already decides the result.
	system, _ := buildTree()
	terr := evalErr(t, "true() or 1 div 0", system)
	if terr.Code != types.ErrNotANumber {
		t.Errorf("got code %s, want %s", terr.Code, types.ErrNotANumber)
	}
}

func TestChildStep(t *testing.T) {
	system, _ := buildTree()
	ns := wantNodeSet(t, eval(t, "x", system), 2)
	for i, want := range []string{"1", "2"} {
		if got := ns[i].Value(); got != want {
			t.Errorf("member %d: got %v, want %q", i, got, want)
		}
	}
}

func TestWildcardStep(t *testing.T) {
	system, _ := buildTree()
	wantNodeSet(t, eval(t, "*", system), 6)
}

func TestSelfAndParent(t *testing.T) {
	system, host := buildTree()

	ns := wantNodeSet(t, eval(t, ".", system), 1)
	if ns[0].Path() != system.Path() {
		t.Errorf("self step selected %s", ns[0].Path())
	}

	ns = wantNodeSet(t, eval(t, "..", host), 1)
	if ns[0].Path() != system.Path() {
		t.Errorf("parent step selected %s", ns[0].Path())
	}
}

func TestParentThenChild(t *testing.T) {
	// From host, "../x" climbs to system and selects its x leaves, not the
	// one under host.
	_, host := buildTree()
	ns := wantNodeSet(t, eval(t, "../x", host), 2)
	for i, want := range []string{"1", "2"} {
		if got := ns[i].Value(); got != want {
			t.Errorf("member %d: got %v, want %q", i, got, want)
		}
	}
}

func TestDescendantAxis(t *testing.T) {
	system, _ := buildTree()
	ns := wantNodeSet(t, eval(t, "descendant::x", system), 3)
	for i, want := range []string{"1", "2", "42"} {
		if got := ns[i].Value(); got != want {
			t.Errorf("member %d: got %v, want %q", i, got, want)
		}
	}
}

func TestAncestorOrSelfAxis(t *testing.T) {
	system, host := buildTree()
	ns := wantNodeSet(t, eval(t, "ancestor-or-self::system", host), 1)
	if ns[0].Path() != system.Path() {
		t.Errorf("selected %s", ns[0].Path())
	}
	wantNodeSet(t, eval(t, "ancestor-or-self::*", host), 3)
}

func TestUnsupportedAxis(t *testing.T) {
	system, _ := buildTree()
	for _, source := range []string{
		"following-sibling::x",
		"preceding::x",
		"attribute::x",
		"namespace::x",
	} {
		t.Run(source, func(t *testing.T) {
			terr := evalErr(t, source, system)
			if terr.Code != types.ErrAxisNotSupported {
				t.Errorf("got code %s, want %s", terr.Code, types.ErrAxisNotSupported)
			}
		})
	}
}

func TestAbsolutePaths(t *testing.T) {
	system, host := buildTree()

	// Multi-step absolute path anchors at the root regardless of context.
	ns := wantNodeSet(t, eval(t, "/system/x", host), 2)
	for i, want := range []string{"1", "2"} {
		if got := ns[i].Value(); got != want {
			t.Errorf("member %d: got %v, want %q", i, got, want)
		}
	}

	// Single-step absolute path anchors too.
	ns = wantNodeSet(t, eval(t, "/system", host), 1)
	if ns[0].Path() != system.Path() {
		t.Errorf("selected %s", ns[0].Path())
	}
}

func TestComparisons(t *testing.T) {
	system, _ := buildTree()
	tests := []struct {
		source string
		want   bool
	}{
		{"x = 2", true},   // leaf "2" coerces for the numeric comparison
		{"x = '2'", true}, // string match is exact
		{"x = 3", false},
		{"x != 2", true}, // existential: the "1" member differs
		{"x != 5", true},
		{"nosuch = 1", false},
		{"nosuch != 1", false}, // empty set: both comparisons are false
		{"x < 2", true},
		{"x > 2", false},
		{"x >= 2", true},
		{"x <= 1", true},
		{"a = 20", true},
		{"1 = 1", true},
		{"'a' = 'a'", true},
		{"'a' = 'b'", false},
		{"1 < 2", true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			wantBoolean(t, eval(t, tt.source, system), tt.want)
		})
	}
}

func TestUnion(t *testing.T) {
	system, _ := buildTree()
	wantNodeSet(t, eval(t, "x | a", system), 5)
	wantNodeSet(t, eval(t, "x | x", system), 2) // identical paths collapse
	wantNodeSet(t, eval(t, "a | x", system), 5)
}

func TestUnionRequiresNodeSets(t *testing.T) {
	system, _ := buildTree()
	terr := evalErr(t, "x | 1", system)
	if terr.Code != types.ErrNotANodeSet {
		t.Errorf("got code %s, want %s", terr.Code, types.ErrNotANodeSet)
	}
}

func TestPositionalPredicates(t *testing.T) {
	system, _ := buildTree()

	ns := wantNodeSet(t, eval(t, "a[1]", system), 1)
	if got := ns[0].Value(); got != "10" {
		t.Errorf("a[1] selected %v", got)
	}

	ns = wantNodeSet(t, eval(t, "a[2]", system), 1)
	if got := ns[0].Value(); got != "20" {
		t.Errorf("a[2] selected %v", got)
	}

	// Out-of-range positions truncate to an empty result, not a fault.
	wantNodeSet(t, eval(t, "a[4]", system), 0)
	wantNodeSet(t, eval(t, "a[0]", system), 0)
	wantNodeSet(t, eval(t, "a[-1]", system), 0)
}

func TestLastYieldsZero(t *testing.T) {
	// The context size is not threaded through evaluation, so last() is 0
	// and a[last()] selects nothing.
	system, _ := buildTree()
	wantNumber(t, eval(t, "last()", system), 0)
	wantNodeSet(t, eval(t, "a[last()]", system), 0)
}

func TestValuePredicates(t *testing.T) {
	system, _ := buildTree()

	ns := wantNodeSet(t, eval(t, "a[. = '20']", system), 1)
	if got := ns[0].Value(); got != "20" {
		t.Errorf("selected %v", got)
	}

	wantNodeSet(t, eval(t, "a[. > 15]", system), 2)

	// Chained predicates filter the previous pass's output.
	ns = wantNodeSet(t, eval(t, "a[. > 15][1]", system), 1)
	if got := ns[0].Value(); got != "20" {
		t.Errorf("selected %v", got)
	}
}

func TestPredicateOnLocationPath(t *testing.T) {
	_, host := buildTree()
	ns := wantNodeSet(t, eval(t, "../a[2]", host), 1)
	if got := ns[0].Value(); got != "20" {
		t.Errorf("selected %v", got)
	}
}

func TestFilterExpressions(t *testing.T) {
	system, _ := buildTree()

	ns := wantNodeSet(t, eval(t, "(x)[1]", system), 1)
	if got := ns[0].Value(); got != "1" {
		t.Errorf("selected %v", got)
	}

	// A parenthesized scalar passes through untouched.
	wantNumber(t, eval(t, "(1 + 2)", system), 3)

	terr := evalErr(t, "(1)[1]", system)
	if terr.Code != types.ErrNotANodeSet {
		t.Errorf("got code %s, want %s", terr.Code, types.ErrNotANodeSet)
	}
}

func TestPathAfterFilter(t *testing.T) {
	system, _ := buildTree()

	ns := wantNodeSet(t, eval(t, "(descendant::host)/x", system), 1)
	if got := ns[0].Value(); got != "42" {
		t.Errorf("selected %v", got)
	}

	// Each member of the filter set is a context for the rest of the path
	// and the per-member results merge without duplicates.
	wantNodeSet(t, eval(t, "(. | descendant::host)/x", system), 3)
}

func TestStringCoercionOfResults(t *testing.T) {
	system, _ := buildTree()
	if got := eval(t, "x", system).StringVal(); got != "1" {
		t.Errorf("got %q, want the first member's value", got)
	}
	if got := eval(t, "nosuch", system).StringVal(); got != "" {
		t.Errorf("empty set should coerce to %q, got %q", "", got)
	}
	if got := eval(t, "7 div 2", system).StringVal(); got != "3.5" {
		t.Errorf("got %q, want %q", got, "3.5")
	}
	if got := eval(t, "1 + 2", system).StringVal(); got != "3" {
		t.Errorf("got %q, want %q", got, "3")
	}
}

func TestEvalGuards(t *testing.T) {
	system, _ := buildTree()
	ev := evaluator.New()

	if _, err := ev.Eval(context.Background(), nil, system); err == nil {
		t.Error("expected an error for a nil expression")
	}
	if _, err := ev.Eval(context.Background(), compile(t, "1"), nil); err == nil {
		t.Error("expected an error for a nil instance node")
	}
}

func TestEvalDepthGuard(t *testing.T) {
	system, _ := buildTree()
	ev := evaluator.New(evaluator.WithMaxDepth(2))
	_, err := ev.Eval(context.Background(), compile(t, "1 + 2 + 3 + 4"), system)
	var terr *types.Error
	if !errors.As(err, &terr) || terr.Code != types.ErrDepthExceeded {
		t.Fatalf("expected a depth guard error, got %v", err)
	}
}

func TestEvalCancelledContext(t *testing.T) {
	system, _ := buildTree()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := evaluator.New().Eval(ctx, compile(t, "1 + 2"), system); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEvalDeterminism(t *testing.T) {
	system, _ := buildTree()
	expr := compile(t, "x | a | descendant::x")
	ev := evaluator.New()

	first, err := ev.Eval(context.Background(), expr, system)
	if err != nil {
		t.Fatal(err)
	}
	fns, _ := first.NodeSet()
	for i := 0; i < 10; i++ {
		again, err := ev.Eval(context.Background(), expr, system)
		if err != nil {
			t.Fatal(err)
		}
		ans, _ := again.NodeSet()
		if len(ans) != len(fns) {
			t.Fatalf("run %d: size %d, want %d", i, len(ans), len(fns))
		}
		for j := range ans {
			if ans[j].Path() != fns[j].Path() {
				t.Fatalf("run %d: member %d is %s, want %s", i, j, ans[j].Path(), fns[j].Path())
			}
		}
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	system, _ := buildTree()
	expr := compile(t, "x = 2")
	ev := evaluator.New()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				val, err := ev.Eval(context.Background(), expr, system)
				if err != nil {
					errs <- err
					return
				}
				if !val.Bool() {
					errs <- errors.New("unexpected false result")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
