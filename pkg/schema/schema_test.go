package schema_test

import (
	"errors"
	"testing"

	"github.com/yangpath/yangpath/pkg/parser"
	"github.com/yangpath/yangpath/pkg/schema"
	"github.com/yangpath/yangpath/pkg/types"
)

func systemModule() *schema.Statement {
	return schema.New("module", "sys",
		schema.New("prefix", "s"),
		schema.New("import", "ietf-inet-types",
			schema.New("prefix", "inet")),
		schema.New("import", "ietf-yang-types",
			schema.New("prefix", "yang")),
		schema.New("container", "system",
			schema.New("leaf", "hostname"),
			schema.New("leaf-list", "ntp-server")),
	)
}

func TestStatementLookups(t *testing.T) {
	mod := systemModule()

	if got := mod.Find1("prefix"); got == nil || got.Argument != "s" {
		t.Errorf("Find1(prefix) = %v", got)
	}
	if got := mod.Find1("nosuch"); got != nil {
		t.Errorf("Find1(nosuch) = %v, want nil", got)
	}

	imports := mod.FindAll("import")
	if len(imports) != 2 {
		t.Fatalf("FindAll(import) returned %d statements", len(imports))
	}
	if imports[0].Argument != "ietf-inet-types" || imports[1].Argument != "ietf-yang-types" {
		t.Errorf("imports out of order: %v, %v", imports[0], imports[1])
	}

	if got := mod.Find1Arg("import", "ietf-yang-types"); got != imports[1] {
		t.Errorf("Find1Arg returned %v", got)
	}
	if got := mod.Find1Arg("import", "nosuch"); got != nil {
		t.Errorf("Find1Arg(nosuch) = %v, want nil", got)
	}
}

func TestStatementLookupsSkipPrefixedKeywords(t *testing.T) {
	ext := &schema.Statement{Keyword: "annotation", Prefix: "md", Argument: "last-modified", HasArgument: true}
	mod := schema.New("module", "sys", ext, schema.New("annotation", "plain"))

	if got := mod.Find1("annotation"); got == nil || got.Prefix != "" {
		t.Errorf("Find1 matched a prefixed keyword: %v", got)
	}
	if got := mod.FindAll("annotation"); len(got) != 1 {
		t.Errorf("FindAll matched %d statements, want 1", len(got))
	}
}

func TestStatementSubstatementIsolation(t *testing.T) {
	// Two statements built from the same substatement arguments must not
	// share a backing array.
	leaf := schema.New("leaf", "a")
	one := schema.New("container", "c1", leaf)
	two := schema.New("container", "c2", leaf)

	one.Substatements = append(one.Substatements, schema.New("leaf", "b"))
	if len(two.Substatements) != 1 {
		t.Errorf("appending to one statement leaked into the other: %d", len(two.Substatements))
	}
}

func TestStatementString(t *testing.T) {
	tests := []struct {
		name string
		stmt *schema.Statement
		want string
	}{
		{"no argument", schema.NewNoArg("input"), "input;"},
		{"argument", schema.New("leaf", "hostname"), `leaf "hostname";`},
		{"substatements", schema.New("container", "system", schema.New("leaf", "x")), `container "system" { ... }`},
		{"escaped argument", schema.New("pattern", `[a-z]\d"x"`), `pattern "[a-z]\\d\"x\"";`},
		{"prefixed keyword", &schema.Statement{Keyword: "annotation", Prefix: "md", Argument: "v", HasArgument: true}, `md:annotation "v";`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stmt.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRegisterModule(t *testing.T) {
	ctx := schema.NewContext()
	mid := types.ModuleID{Name: "sys"}
	if err := ctx.RegisterModule(mid, systemModule()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		prefix string
		want   string
	}{
		{"s", "sys"}, // own prefix maps to the module itself
		{"inet", "ietf-inet-types"},
		{"yang", "ietf-yang-types"},
	}
	for _, tt := range tests {
		ns, err := ctx.PrefixToNamespace(tt.prefix, mid)
		if err != nil {
			t.Errorf("prefix %q: %v", tt.prefix, err)
			continue
		}
		if ns != tt.want {
			t.Errorf("prefix %q resolved to %q, want %q", tt.prefix, ns, tt.want)
		}
	}
}

func TestRegisterModuleErrors(t *testing.T) {
	ctx := schema.NewContext()
	mid := types.ModuleID{Name: "sys"}

	if err := ctx.RegisterModule(mid, nil); err == nil {
		t.Error("expected an error for a nil statement")
	}
	if err := ctx.RegisterModule(mid, schema.New("container", "c")); err == nil {
		t.Error("expected an error for a non-module statement")
	}
	noPrefix := schema.New("module", "sys", schema.New("import", "ietf-inet-types"))
	if err := ctx.RegisterModule(mid, noPrefix); err == nil {
		t.Error("expected an error for an import without a prefix")
	}
}

func TestPrefixResolutionErrors(t *testing.T) {
	ctx := schema.NewContext()
	mid := types.ModuleID{Name: "sys"}

	_, err := ctx.PrefixToNamespace("s", mid)
	var terr *types.Error
	if !errors.As(err, &terr) || terr.Code != types.ErrUnknownModule {
		t.Errorf("unregistered module: got %v, want code %s", err, types.ErrUnknownModule)
	}

	if err := ctx.RegisterModule(mid, systemModule()); err != nil {
		t.Fatal(err)
	}
	_, err = ctx.PrefixToNamespace("nosuch", mid)
	if !errors.As(err, &terr) || terr.Code != types.ErrUndefinedPrefix {
		t.Errorf("undefined prefix: got %v, want code %s", err, types.ErrUndefinedPrefix)
	}
}

func TestRevisionsAreSeparateModules(t *testing.T) {
	ctx := schema.NewContext()
	old := types.ModuleID{Name: "sys", Revision: "2025-01-01"}
	ctx.Register(old, "s", "sys")

	if _, err := ctx.PrefixToNamespace("s", types.ModuleID{Name: "sys"}); err == nil {
		t.Error("prefix table leaked across revisions")
	}
	if _, err := ctx.PrefixToNamespace("s", old); err != nil {
		t.Errorf("registered revision failed to resolve: %v", err)
	}
}

func TestContextDrivesParsing(t *testing.T) {
	// End to end: a registered context resolves prefixed names in
	// expression text.
	ctx := schema.NewContext()
	mid := types.ModuleID{Name: "sys"}
	if err := ctx.RegisterModule(mid, systemModule()); err != nil {
		t.Fatal(err)
	}

	expr, err := parser.Parse("inet:address", mid, ctx)
	if err != nil {
		t.Fatal(err)
	}
	step := expr.AST()
	if step.Name == nil || step.Name.Namespace != "ietf-inet-types" {
		t.Errorf("resolved name = %s", step.Name)
	}

	if _, err := parser.Parse("bad:address", mid, ctx); err == nil {
		t.Error("expected an undefined-prefix error")
	}
}
