package schema

import (
	"fmt"
	"sync"

	"github.com/yangpath/yangpath/pkg/types"
)

// Context holds the prefix tables of a set of modules and resolves prefixes
// to namespace identifiers during parsing. It implements the parser's
// PrefixResolver collaborator.
//
// Namespace identifiers are module names: a module's own prefix maps to the
// module itself, an import's prefix maps to the imported module.
//
// Safe for concurrent use once populated; registration and resolution may
// also be interleaved.
type Context struct {
	mu       sync.RWMutex
	prefixes map[types.ModuleID]map[string]string
}

// NewContext creates an empty resolution context.
func NewContext() *Context {
	return &Context{
		prefixes: make(map[types.ModuleID]map[string]string),
	}
}

// Register adds one prefix-to-namespace binding for a module.
func (c *Context) Register(mid types.ModuleID, prefix, namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	table, ok := c.prefixes[mid]
	if !ok {
		table = make(map[string]string)
		c.prefixes[mid] = table
	}
	table[prefix] = namespace
}

// RegisterModule populates a module's prefix table from its statement tree:
// the module's own "prefix" statement maps to the module itself, and every
// "import" substatement maps its "prefix" to the imported module's name.
func (c *Context) RegisterModule(mid types.ModuleID, stmt *Statement) error {
	if stmt == nil {
		return fmt.Errorf("nil module statement for %s", mid)
	}
	if stmt.Keyword != "module" && stmt.Keyword != "submodule" {
		return fmt.Errorf("statement %s is not a module", stmt)
	}
	if own := stmt.Find1("prefix"); own != nil {
		c.Register(mid, own.Argument, mid.Name)
	}
	for _, imp := range stmt.FindAll("import") {
		pref := imp.Find1("prefix")
		if pref == nil {
			return fmt.Errorf("import %q in module %s has no prefix", imp.Argument, mid)
		}
		c.Register(mid, pref.Argument, imp.Argument)
	}
	return nil
}

// PrefixToNamespace resolves a prefix within the given module's table. An
// unregistered module fails with U1002, an undefined prefix with U1001.
func (c *Context) PrefixToNamespace(prefix string, mid types.ModuleID) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table, ok := c.prefixes[mid]
	if !ok {
		return "", types.NewError(types.ErrUnknownModule,
			fmt.Sprintf("module %s is not registered", mid), -1)
	}
	ns, ok := table[prefix]
	if !ok {
		return "", types.NewError(types.ErrUndefinedPrefix,
			fmt.Sprintf("prefix %q is not defined for module %s", prefix, mid), -1).WithToken(prefix)
	}
	return ns, nil
}
