package yangpath_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yangpath/yangpath"
	"github.com/yangpath/yangpath/pkg/cache"
	"github.com/yangpath/yangpath/pkg/instance"
	"github.com/yangpath/yangpath/pkg/schema"
	"github.com/yangpath/yangpath/pkg/types"
)

var sysModule = types.ModuleID{Name: "sys"}

func demoTree(t *testing.T) *instance.Node {
	t.Helper()
	root, err := instance.FromJSON("sys", map[string]any{
		"system": map[string]any{
			"hostname": "h1",
			"mtu":      "1500",
			"servers":  []any{"a", "b"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestVersion(t *testing.T) {
	if !strings.HasPrefix(yangpath.Version(), "v") {
		t.Errorf("version %q is not semver-shaped", yangpath.Version())
	}
}

func TestCompileAndEval(t *testing.T) {
	root := demoTree(t)
	expr, err := yangpath.Compile("system/hostname = 'h1'", sysModule, nil)
	if err != nil {
		t.Fatal(err)
	}

	val, err := yangpath.NewEvaluator().Eval(context.Background(), expr, root)
	if err != nil {
		t.Fatal(err)
	}
	if !val.Bool() {
		t.Error("expected true")
	}
}

func TestOneShotEval(t *testing.T) {
	root := demoTree(t)

	val, err := yangpath.Eval("system/mtu > 1000", sysModule, nil, root)
	if err != nil {
		t.Fatal(err)
	}
	if !val.Bool() {
		t.Error("expected true")
	}

	val, err = yangpath.Eval("system/servers", sysModule, nil, root)
	if err != nil {
		t.Fatal(err)
	}
	ns, ok := val.NodeSet()
	if !ok || len(ns) != 2 {
		t.Errorf("got %s, want a node-set of 2", val)
	}
}

func TestEvalWithResolver(t *testing.T) {
	ctxres := schema.NewContext()
	mod := schema.New("module", "sys",
		schema.New("prefix", "s"))
	if err := ctxres.RegisterModule(sysModule, mod); err != nil {
		t.Fatal(err)
	}

	root := demoTree(t)
	val, err := yangpath.Eval("s:system/s:hostname", sysModule, ctxres, root)
	if err != nil {
		t.Fatal(err)
	}
	if got := val.StringVal(); got != "h1" {
		t.Errorf("got %q, want %q", got, "h1")
	}
}

func TestMustCompile(t *testing.T) {
	expr := yangpath.MustCompile("1 + 2", sysModule, nil)
	if expr == nil {
		t.Fatal("nil expression")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for invalid source")
		}
	}()
	yangpath.MustCompile("1 +", sysModule, nil)
}

func TestCompileCached(t *testing.T) {
	c := cache.New(8)

	first, err := yangpath.CompileCached(c, "system/mtu", sysModule, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := yangpath.CompileCached(c, "system/mtu", sysModule, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("cache did not return the same compiled expression")
	}

	other, err := yangpath.CompileCached(c, "system/mtu", types.ModuleID{Name: "net"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if other == first {
		t.Error("different modules must not share cache entries")
	}
}

func TestCompileErrorsCarryOffsets(t *testing.T) {
	_, err := yangpath.Compile("system/", sysModule, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	terr, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("error is not a *types.Error: %v", err)
	}
	if terr.Position < 0 {
		t.Errorf("error carries no offset: %v", terr)
	}
	if terr.Code == "" {
		t.Errorf("error carries no code: %v", terr)
	}
}

func BenchmarkCompile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := yangpath.Compile("system/servers[2] = 'b'", sysModule, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEval(b *testing.B) {
	root, err := instance.FromJSON("sys", map[string]any{
		"system": map[string]any{
			"servers": []any{"a", "b", "c", "d"},
		},
	})
	if err != nil {
		b.Fatal(err)
	}
	expr := yangpath.MustCompile("system/servers[2] = 'b'", sysModule, nil)
	ev := yangpath.NewEvaluator()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Eval(ctx, expr, root); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileCached(b *testing.B) {
	c := cache.New(64)
	for i := 0; i < b.N; i++ {
		if _, err := yangpath.CompileCached(c, "system/servers[2] = 'b'", sysModule, nil); err != nil {
			b.Fatal(err)
		}
	}
}
