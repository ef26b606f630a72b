// Command yangpath evaluates an expression against a JSON instance
// document.
//
// Usage:
//
//	yangpath -e EXPR -module NAME [-dump] [document.json]
//
// The document is read from the named file or, when omitted, from stdin.
// Bare names in the expression and unqualified member names in the document
// resolve to the module's namespace. The result is printed as its string
// coercion; node-set results print one path per line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yangpath/yangpath"
	"github.com/yangpath/yangpath/pkg/evaluator"
	"github.com/yangpath/yangpath/pkg/instance"
	"github.com/yangpath/yangpath/pkg/types"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("yangpath", flag.ContinueOnError)
	fs.SetOutput(stderr)
	exprText := fs.String("e", "", "expression to evaluate")
	module := fs.String("module", "", "context module name")
	revision := fs.String("revision", "", "context module revision")
	dump := fs.Bool("dump", false, "print the parsed expression tree instead of evaluating")
	timeout := fs.Duration("timeout", 30*time.Second, "evaluation timeout")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s -e EXPR -module NAME [options] [document.json]\n\n", os.Args[0])
		fmt.Fprintln(stderr, "Evaluates an expression against a JSON instance document.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *exprText == "" || *module == "" {
		fmt.Fprintln(stderr, "error: -e and -module are required")
		fs.Usage()
		return 2
	}

	mid := types.ModuleID{Name: *module, Revision: *revision}
	expr, err := yangpath.Compile(*exprText, mid, nil)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *dump {
		fmt.Fprint(stdout, expr.AST().Dump())
		return 0
	}

	var in io.Reader = stdin
	if rest := fs.Args(); len(rest) > 0 {
		f, err := os.Open(rest[0])
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	var doc map[string]any
	if err := json.NewDecoder(in).Decode(&doc); err != nil {
		fmt.Fprintf(stderr, "error: invalid JSON document: %v\n", err)
		return 1
	}
	root, err := instance.FromJSON(*module, doc)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	ev := evaluator.New(evaluator.WithTimeout(*timeout))
	val, err := ev.Eval(context.Background(), expr, root)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if ns, ok := val.NodeSet(); ok {
		ns.Sort(false)
		for _, n := range ns {
			fmt.Fprintln(stdout, n.Path())
		}
		return 0
	}
	fmt.Fprintln(stdout, val.StringVal())
	return 0
}
