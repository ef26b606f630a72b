package parser

import (
	"fmt"

	"github.com/yangpath/yangpath/pkg/types"
)

// Parser builds an expression AST from source text using recursive descent
// with precedence climbing. Grammar, loosest binding first:
//
//	or -> and -> equality -> relational -> additive -> multiplicative
//	   -> unary -> union -> primary
//
// Every sub-parser assumes it starts on non-whitespace input and consumes
// trailing whitespace after each token it recognizes.
type Parser struct {
	scanner  *Scanner
	source   string
	mid      types.ModuleID
	resolver PrefixResolver
	arena    *types.NodeArena
	opts     CompileOptions
	depth    int
}

// NewParser creates a parser for one expression in the namespace context of
// the given module.
func NewParser(source string, mid types.ModuleID, resolver PrefixResolver, opts ...CompileOption) *Parser {
	options := CompileOptions{MaxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&options)
	}
	return &Parser{
		scanner:  NewScanner(source),
		source:   source,
		mid:      mid,
		resolver: resolver,
		arena:    types.NewNodeArena(),
		opts:     options,
	}
}

// Parse parses the whole expression. Parsing is atomic: on any fault an
// error is returned and no partial tree escapes.
func (p *Parser) Parse() (*types.Expression, error) {
	p.scanner.SkipWS()
	root, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	if !p.scanner.AtEnd() {
		return nil, types.NewError(types.ErrSyntaxError, "unexpected trailing input", p.scanner.Offset())
	}
	return types.NewExpression(root, p.source, p.mid, p.arena), nil
}

func (p *Parser) alloc(kind types.NodeKind, pos int) *types.ExprNode {
	return p.arena.Alloc(kind, pos)
}

func (p *Parser) dyadic(kind types.NodeKind, left, right *types.ExprNode) *types.ExprNode {
	n := p.alloc(kind, left.Position)
	n.LHS = left
	n.RHS = right
	return n
}

func (p *Parser) enter() error {
	p.depth++
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return types.NewError(types.ErrDepthExceeded, "expression nesting too deep", p.scanner.Offset())
	}
	return nil
}

func (p *Parser) orExpr() (*types.ExprNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	op1, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.scanner.TestString("or") {
		p.scanner.SkipWS()
		op2, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		op1 = p.dyadic(types.NodeOr, op1, op2)
	}
	return op1, nil
}

func (p *Parser) andExpr() (*types.ExprNode, error) {
	op1, err := p.equalityExpr()
	if err != nil {
		return nil, err
	}
	for p.scanner.TestString("and") {
		p.scanner.SkipWS()
		op2, err := p.equalityExpr()
		if err != nil {
			return nil, err
		}
		op1 = p.dyadic(types.NodeAnd, op1, op2)
	}
	return op1, nil
}

func (p *Parser) equalityExpr() (*types.ExprNode, error) {
	op1, err := p.relationalExpr()
	if err != nil {
		return nil, err
	}
	for {
		negate := false
		next, err := p.scanner.Peek()
		if err != nil {
			return op1, nil
		}
		if next == '!' {
			p.scanner.Advance()
			negate = true
			next, err = p.scanner.Peek()
			if err != nil {
				return nil, types.NewError(types.ErrUnexpectedEnd,
					"'!' at end of input", p.scanner.Offset())
			}
		}
		if next != '=' {
			if negate {
				return nil, types.NewError(types.ErrSyntaxError,
					"'!' not followed by '='", p.scanner.Offset())
			}
			return op1, nil
		}
		p.scanner.AdvanceSkipWS()
		op2, err := p.relationalExpr()
		if err != nil {
			return nil, err
		}
		eq := p.dyadic(types.NodeEquality, op1, op2)
		eq.Negate = negate
		op1 = eq
	}
}

func (p *Parser) relationalExpr() (*types.ExprNode, error) {
	op1, err := p.additiveExpr()
	if err != nil {
		return nil, err
	}
	for {
		rel, err := p.scanner.Peek()
		if err != nil || (rel != '<' && rel != '>') {
			return op1, nil
		}
		p.scanner.Advance()
		eq := p.scanner.TestString("=")
		p.scanner.SkipWS()
		op2, err := p.additiveExpr()
		if err != nil {
			return nil, err
		}
		node := p.dyadic(types.NodeRelational, op1, op2)
		node.Less = rel == '<'
		node.Equal = eq
		op1 = node
	}
}

func (p *Parser) additiveExpr() (*types.ExprNode, error) {
	op1, err := p.multiplicativeExpr()
	if err != nil {
		return nil, err
	}
	for {
		pm, err := p.scanner.Peek()
		if err != nil || (pm != '+' && pm != '-') {
			return op1, nil
		}
		p.scanner.AdvanceSkipWS()
		op2, err := p.multiplicativeExpr()
		if err != nil {
			return nil, err
		}
		node := p.dyadic(types.NodeAdditive, op1, op2)
		node.Plus = pm == '+'
		op1 = node
	}
}

func (p *Parser) multiplicativeExpr() (*types.ExprNode, error) {
	op1, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		var op types.MulOp
		switch {
		case p.scanner.TestString("*"):
			op = types.MulMultiply
		case p.scanner.TestString("div"):
			op = types.MulDivide
		case p.scanner.TestString("mod"):
			op = types.MulModulo
		default:
			return op1, nil
		}
		p.scanner.SkipWS()
		op2, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		node := p.dyadic(types.NodeMultiplicative, op1, op2)
		node.MulOp = op
		op1 = node
	}
}

func (p *Parser) unaryExpr() (*types.ExprNode, error) {
	pos := p.scanner.Offset()
	minuses := 0
	for p.scanner.TestString("-") {
		minuses++
		p.scanner.SkipWS()
	}
	expr, err := p.unionExpr()
	if err != nil {
		return nil, err
	}
	if minuses == 0 {
		return expr, nil
	}
	node := p.alloc(types.NodeUnary, pos)
	node.Operand = expr
	node.Negate = minuses%2 == 1
	return node, nil
}

func (p *Parser) unionExpr() (*types.ExprNode, error) {
	op1, err := p.litNumPath()
	if err != nil {
		return nil, err
	}
	for p.scanner.TestString("|") {
		p.scanner.SkipWS()
		op2, err := p.litNumPath()
		if err != nil {
			return nil, err
		}
		op1 = p.dyadic(types.NodeUnion, op1, op2)
	}
	return op1, nil
}

// litNumPath parses a primary: a parenthesized sub-expression, quoted
// literal, numeric literal, one of the three function calls, or a location
// path.
func (p *Parser) litNumPath() (*types.ExprNode, error) {
	pos := p.scanner.Offset()
	next, err := p.scanner.Peek()
	if err != nil {
		return nil, types.NewError(types.ErrUnexpectedEnd, "expected an expression", pos)
	}
	switch {
	case next == '(':
		p.scanner.AdvanceSkipWS()
		return p.pathExpr("")
	case next == '\'' || next == '"':
		p.scanner.Advance()
		val, err := p.scanner.UpTo(next)
		if err != nil {
			return nil, err
		}
		p.scanner.SkipWS()
		node := p.alloc(types.NodeLiteral, pos)
		node.StrValue = val
		return node, nil
	case isDigit(next) || (next == '.' && p.peekDigitAt(1)):
		val, err := p.scanner.Float()
		if err != nil {
			return nil, err
		}
		p.scanner.SkipWS()
		node := p.alloc(types.NodeNumber, pos)
		node.NumValue = val
		return node, nil
	}
	start := p.scanner.Offset()
	fname, err := p.scanner.Identifier()
	if err != nil {
		return p.locationPath()
	}
	p.scanner.SkipWS()
	if p.scanner.TestString("(") {
		p.scanner.SkipWS()
		return p.pathExpr(fname)
	}
	p.scanner.SetOffset(start)
	return p.relativeLocationPath()
}

func (p *Parser) peekDigitAt(ahead int) bool {
	pos := p.scanner.Offset() + ahead
	return pos < len(p.source) && isDigit(p.source[pos])
}

// pathExpr parses a filter expression (a parenthesized expression or a
// function call, fname == "" for the former) and an optional trailing
// /relative-path chain.
func (p *Parser) pathExpr(fname string) (*types.ExprNode, error) {
	fexpr, err := p.filterExpr(fname)
	if err != nil {
		return nil, err
	}
	if p.scanner.TestString("/") {
		p.scanner.SkipWS()
		path, err := p.relativeLocationPath()
		if err != nil {
			return nil, err
		}
		return p.dyadic(types.NodePath, fexpr, path), nil
	}
	return fexpr, nil
}

func (p *Parser) filterExpr(fname string) (*types.ExprNode, error) {
	pos := p.scanner.Offset()
	var prim *types.ExprNode
	var err error
	if fname == "" {
		prim, err = p.orExpr()
	} else {
		prim, err = p.functionCall(fname)
	}
	if err != nil {
		return nil, err
	}
	if err := p.scanner.Char(')'); err != nil {
		return nil, err
	}
	p.scanner.SkipWS()
	preds, err := p.predicates()
	if err != nil {
		return nil, err
	}
	node := p.alloc(types.NodeFilter, pos)
	node.Operand = prim
	node.Predicates = preds
	return node, nil
}

func (p *Parser) functionCall(name string) (*types.ExprNode, error) {
	pos := p.scanner.Offset()
	switch name {
	case "true":
		return p.alloc(types.NodeFuncTrue, pos), nil
	case "false":
		return p.alloc(types.NodeFuncFalse, pos), nil
	case "last":
		return p.alloc(types.NodeFuncLast, pos), nil
	default:
		return nil, types.NewError(types.ErrSyntaxError,
			fmt.Sprintf("unknown function %q", name), pos).WithToken(name)
	}
}

func (p *Parser) predicates() ([]*types.ExprNode, error) {
	var res []*types.ExprNode
	for p.scanner.TestString("[") {
		p.scanner.SkipWS()
		expr, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		if err := p.scanner.Char(']'); err != nil {
			return nil, err
		}
		p.scanner.SkipWS()
		res = append(res, expr)
	}
	return res, nil
}

func (p *Parser) locationPath() (*types.ExprNode, error) {
	if p.scanner.TestString("/") {
		p.scanner.SkipWS()
		path, err := p.relativeLocationPath()
		if err != nil {
			return nil, err
		}
		path.Absolute = true
		return path, nil
	}
	return p.relativeLocationPath()
}

func (p *Parser) relativeLocationPath() (*types.ExprNode, error) {
	op1, err := p.step()
	if err != nil {
		return nil, err
	}
	for p.scanner.TestString("/") {
		p.scanner.SkipWS()
		op2, err := p.step()
		if err != nil {
			return nil, err
		}
		op1 = p.dyadic(types.NodeLocationPath, op1, op2)
	}
	return op1, nil
}

func (p *Parser) step() (*types.ExprNode, error) {
	pos := p.scanner.Offset()
	axis, qname, err := p.axisQName()
	if err != nil {
		return nil, err
	}
	preds, err := p.predicates()
	if err != nil {
		return nil, err
	}
	node := p.alloc(types.NodeStep, pos)
	node.Axis = axis
	node.Name = qname
	node.Predicates = preds
	return node, nil
}

// axisQName parses the axis and name test of one step: "*", the "//"
// shorthand, "." and "..", "axis::nodetest", "prefix:local", or a bare
// identifier resolving to the context module's namespace.
func (p *Parser) axisQName() (types.Axis, *types.QName, error) {
	next, err := p.scanner.Peek()
	if err != nil {
		return 0, nil, types.NewError(types.ErrUnexpectedEnd, "expected a step", p.scanner.Offset())
	}
	switch next {
	case '*':
		p.scanner.AdvanceSkipWS()
		return types.AxisChild, nil, nil
	case '/':
		p.scanner.AdvanceSkipWS()
		return types.AxisDescendantOrSelf, nil, nil
	case '.':
		p.scanner.Advance()
		axis := types.AxisSelf
		if p.scanner.TestString(".") {
			axis = types.AxisParent
		}
		p.scanner.SkipWS()
		return axis, nil, nil
	}
	identPos := p.scanner.Offset()
	ident, err := p.scanner.Identifier()
	if err != nil {
		return 0, nil, types.NewError(types.ErrSyntaxError,
			"expected a step", identPos)
	}
	ws := p.scanner.SkipWS()
	next, err = p.scanner.Peek()
	if err != nil {
		return types.AxisChild, &types.QName{Local: ident, Namespace: p.mid.Name}, nil
	}
	if next != ':' {
		return types.AxisChild, &types.QName{Local: ident, Namespace: p.mid.Name}, nil
	}
	p.scanner.Advance()
	next, err = p.scanner.Peek()
	if err != nil {
		return 0, nil, types.NewError(types.ErrUnexpectedEnd, "':' at end of input", p.scanner.Offset())
	}
	if next == ':' {
		p.scanner.AdvanceSkipWS()
		axis, ok := types.AxisFromName(ident)
		if !ok {
			return 0, nil, types.NewError(types.ErrUnknownAxis,
				fmt.Sprintf("unknown axis %q", ident), identPos).WithToken(ident)
		}
		qname, err := p.qname()
		if err != nil {
			return 0, nil, err
		}
		return axis, qname, nil
	}
	if ws {
		return 0, nil, types.NewError(types.ErrSpaceInName,
			"whitespace before ':' in qualified name", p.scanner.Offset())
	}
	ns, err := p.prefixToNamespace(ident, identPos)
	if err != nil {
		return 0, nil, err
	}
	localPos := p.scanner.Offset()
	local, err := p.scanner.Identifier()
	if err != nil {
		return 0, nil, types.NewError(types.ErrSpaceInName,
			"expected local name directly after ':'", localPos)
	}
	p.scanner.SkipWS()
	return types.AxisChild, &types.QName{Local: local, Namespace: ns}, nil
}

// qname parses the name test after an explicit "axis::".
func (p *Parser) qname() (*types.QName, error) {
	if p.scanner.TestString("*") {
		p.scanner.SkipWS()
		return nil, nil
	}
	identPos := p.scanner.Offset()
	ident, err := p.scanner.Identifier()
	if err != nil {
		return nil, err
	}
	if p.scanner.TestString(":") {
		ns, err := p.prefixToNamespace(ident, identPos)
		if err != nil {
			return nil, err
		}
		local, err := p.scanner.Identifier()
		if err != nil {
			return nil, err
		}
		p.scanner.SkipWS()
		return &types.QName{Local: local, Namespace: ns}, nil
	}
	p.scanner.SkipWS()
	return &types.QName{Local: ident, Namespace: p.mid.Name}, nil
}

func (p *Parser) prefixToNamespace(prefix string, pos int) (string, error) {
	if p.resolver == nil {
		return "", types.NewError(types.ErrUndefinedPrefix,
			fmt.Sprintf("no resolver for prefix %q", prefix), pos).WithToken(prefix)
	}
	ns, err := p.resolver.PrefixToNamespace(prefix, p.mid)
	if err != nil {
		return "", err
	}
	return ns, nil
}
