// Package schema holds the schema-statement tree representation and the
// per-module prefix tables that drive name resolution during parsing.
package schema

import (
	"strings"
)

// Statement is one node of a parsed schema module: a keyword, an optional
// argument, and substatements. Lookups are linear; statement trees are
// small and read far more often than built.
type Statement struct {
	Keyword       string
	Prefix        string // keyword prefix, empty for built-in statements
	Argument      string
	HasArgument   bool
	Substatements []*Statement
}

// New creates a statement with an argument. The substatement slice is
// copied so no two statements ever share one backing array.
func New(keyword, argument string, subs ...*Statement) *Statement {
	return &Statement{
		Keyword:       keyword,
		Argument:      argument,
		HasArgument:   true,
		Substatements: append([]*Statement(nil), subs...),
	}
}

// NewNoArg creates a statement without an argument.
func NewNoArg(keyword string, subs ...*Statement) *Statement {
	return &Statement{
		Keyword:       keyword,
		Substatements: append([]*Statement(nil), subs...),
	}
}

// Find1 returns the first substatement with the given keyword (and no
// keyword prefix), or nil.
func (s *Statement) Find1(keyword string) *Statement {
	for _, sub := range s.Substatements {
		if sub.Keyword == keyword && sub.Prefix == "" {
			return sub
		}
	}
	return nil
}

// Find1Arg returns the first substatement with the given keyword and
// argument, or nil.
func (s *Statement) Find1Arg(keyword, argument string) *Statement {
	for _, sub := range s.Substatements {
		if sub.Keyword == keyword && sub.Prefix == "" &&
			sub.HasArgument && sub.Argument == argument {
			return sub
		}
	}
	return nil
}

// FindAll returns all substatements with the given keyword (and no keyword
// prefix), in order.
func (s *Statement) FindAll(keyword string) []*Statement {
	var res []*Statement
	for _, sub := range s.Substatements {
		if sub.Keyword == keyword && sub.Prefix == "" {
			res = append(res, sub)
		}
	}
	return res
}

var argEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// String renders the statement head: keyword, quoted argument, and either
// ";" or "{ ... }" depending on the presence of substatements.
func (s *Statement) String() string {
	var sb strings.Builder
	if s.Prefix != "" {
		sb.WriteString(s.Prefix)
		sb.WriteString(":")
	}
	sb.WriteString(s.Keyword)
	if s.HasArgument {
		sb.WriteString(` "`)
		sb.WriteString(argEscaper.Replace(s.Argument))
		sb.WriteString(`"`)
	}
	if len(s.Substatements) > 0 {
		sb.WriteString(" { ... }")
	} else {
		sb.WriteString(";")
	}
	return sb.String()
}
