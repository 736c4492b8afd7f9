package expressions

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// Expr = Term { Binop Term }
// Term = { '-' } ( num | string | name | name '(' ')' | name '(' Expr { ',' Expr } ')' | '(' Expr ')' ) { Term }
// Binop = '^' | '*' | '/' | '+' | '-' | '&' | '|' | '=' | '>' | '<'
//
// Juxtaposed terms multiply. Operators fold in four tiers, each left to
// right: '^'; then '*' '/'; then '+' '-'; then '&' '|' '=' '>' '<'.

// Compile compiles an expression, resolving every name it uses against ctx.
// A nil ctx uses the standard module alone.
func Compile(src string, ctx *Context) (*Expr, error) {
	if ctx == nil {
		ctx = defaultContext
	}
	raw, err := lex(src)
	if err != nil {
		return nil, err
	}
	toks, err := classify(raw)
	if err != nil {
		return nil, err
	}
	if err := balance(toks); err != nil {
		return nil, err
	}
	a := assembler{ctx: ctx, names: make(map[string]bool)}
	n, err := a.assemble(toks, utf8.RuneCountInString(src)+1)
	if err != nil {
		return nil, err
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(a.names)),
	}
	for k := range a.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// balance checks that grouping symbols pair up.
func balance(toks []token) error {
	var open []int
	for _, t := range toks {
		switch t.kind {
		case tokenOpen:
			open = append(open, t.pos)
		case tokenClose:
			if len(open) == 0 {
				return &InvalidExpressionError{Kind: UnbalancedGrouping, Col: t.pos}
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) != 0 {
		return &InvalidExpressionError{Kind: UnbalancedGrouping, Col: open[len(open)-1]}
	}
	return nil
}

// closing finds the index of the close token matching the opener at toks[i].
// The tokens must be balanced.
func closing(toks []token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].kind {
		case tokenOpen:
			depth++
		case tokenClose:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	panic("expressions: no close for " + toks[i].String())
}

type assembler struct {
	ctx *Context
	// names is the set of variable names that have been seen this compile.
	names map[string]bool
}

// assemble builds the tree for one grouping level. end is the column just
// past the level, for reporting an empty one.
func (a *assembler) assemble(toks []token, end int) (*node, error) {
	if len(toks) == 0 {
		return nil, &InvalidExpressionError{Kind: EmptySource, Col: end}
	}
	var f flat
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		var n *node
		switch t.kind {
		case tokenSep:
			// Separators only split arguments inside calls.
			continue
		case tokenConst:
			x, err := strconv.ParseFloat(t.text, 64)
			if err != nil {
				return nil, &ParseError{Kind: Unclassifiable, Text: t.text, Col: t.pos}
			}
			n = &node{kind: nodeConst, num: x}
		case tokenString:
			n = &node{kind: nodeString, name: t.text}
		case tokenVariable:
			bound, err := a.ctx.Variable(t.text)
			if err != nil {
				return nil, err
			}
			a.names[t.text] = true
			n = &node{kind: nodeVar, name: t.text, bound: bound}
		case tokenNullary:
			var err error
			n, err = a.call(t, nil)
			if err != nil {
				return nil, err
			}
		case tokenUnary:
			f.negate(t.pos)
			continue
		case tokenBinary:
			if err := f.op(t); err != nil {
				return nil, err
			}
			continue
		case tokenOpen:
			j := closing(toks, i)
			var err error
			if t.name == "" {
				n, err = a.assemble(toks[i+1:j], toks[j].pos)
			} else {
				var args []*node
				args, err = a.args(toks[i+1:j], toks[j].pos)
				if err == nil {
					n, err = a.call(t, args)
				}
			}
			if err != nil {
				return nil, err
			}
			i = j
		default:
			panic("expressions: unexpected token " + t.String())
		}
		f.operand(n)
	}
	return f.reduce(end)
}

// args assembles each comma-separated argument of a call. The span excludes
// the call's own brackets.
func (a *assembler) args(span []token, end int) ([]*node, error) {
	var args []*node
	start, depth := 0, 0
	for k, u := range span {
		switch u.kind {
		case tokenOpen:
			depth++
		case tokenClose:
			depth--
		case tokenSep:
			if depth != 0 {
				continue
			}
			arg, err := a.assemble(span[start:k], u.pos)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			start = k + 1
		}
	}
	arg, err := a.assemble(span[start:], end)
	if err != nil {
		return nil, err
	}
	return append(args, arg), nil
}

// call resolves a function by the number of arguments it is given.
func (a *assembler) call(t token, args []*node) (*node, error) {
	fn, err := a.ctx.Function(t.name, len(args))
	if err != nil {
		var nf *NoSuchFunctionError
		if errors.As(err, &nf) {
			if ar := a.ctx.arities(t.name); len(ar) != 0 {
				return nil, &InvalidExpressionError{Kind: ArityMismatch, Col: t.pos, Func: t.name, Want: ar[0], Got: len(args)}
			}
		}
		return nil, err
	}
	return &node{kind: nodeCall, name: t.name, fn: fn, args: args}, nil
}

// flat is the flat sequence of one grouping level before precedence folding.
// vals[0] is the leading operand and vals[i+1] follows ops[i]. Nodes are
// created with their children and never modified, so nothing in the sequence
// is ever an Empty placeholder.
type flat struct {
	vals []*node
	ops  []token
	// neg is the number of negations pending on the next operand.
	neg    int
	negpos int
}

// negate adds a pending negation to the open slot.
func (f *flat) negate(pos int) {
	if f.neg == 0 {
		f.negpos = pos
	}
	f.neg++
}

// operand fills the open slot with n, or multiplies it into the last operand
// if there is no open slot.
func (f *flat) operand(n *node) {
	for ; f.neg > 0; f.neg-- {
		n = &node{kind: nodeNeg, left: n}
	}
	if len(f.vals) == len(f.ops) {
		f.vals = append(f.vals, n)
		return
	}
	last := len(f.vals) - 1
	f.vals[last] = &node{kind: nodeMul, left: f.vals[last], right: n}
}

// op opens a new pair with a binary operator.
func (f *flat) op(t token) error {
	if len(f.vals) == len(f.ops) || f.neg > 0 {
		return &InvalidExpressionError{Kind: MissingOperand, Col: t.pos, Op: t.text}
	}
	f.ops = append(f.ops, t)
	return nil
}

// tiers are the precedence passes, most binding first.
var tiers = [...][]nodeKind{
	{nodePow},
	{nodeMul, nodeDiv},
	{nodeAdd, nodeSub},
	{nodeAnd, nodeOr, nodeEq, nodeGtr, nodeLss},
}

// reduce folds the sequence into a single tree.
func (f *flat) reduce(end int) (*node, error) {
	if len(f.vals) == 0 && f.neg == 0 {
		// Only separators.
		return nil, &InvalidExpressionError{Kind: EmptySource, Col: end}
	}
	if f.neg > 0 {
		return nil, &InvalidExpressionError{Kind: MissingOperand, Col: f.negpos, Op: "-"}
	}
	if len(f.vals) == len(f.ops) {
		// Every operator follows an operand, so this is a trailing operator.
		t := f.ops[len(f.ops)-1]
		return nil, &InvalidExpressionError{Kind: MissingOperand, Col: t.pos, Op: t.text}
	}
	for _, tier := range tiers {
		// Compact in place. Writes never pass reads.
		vals, ops := f.vals[:1], f.ops[:0]
		for i, t := range f.ops {
			r := f.vals[i+1]
			k := binop(t.text)
			if intier(k, tier) {
				vals[len(vals)-1] = &node{kind: k, left: vals[len(vals)-1], right: r}
				continue
			}
			ops = append(ops, t)
			vals = append(vals, r)
		}
		f.vals, f.ops = vals, ops
	}
	if len(f.ops) != 0 {
		panic("expressions: unfolded operator " + f.ops[0].String())
	}
	return f.vals[0], nil
}

func intier(k nodeKind, tier []nodeKind) bool {
	for _, t := range tier {
		if k == t {
			return true
		}
	}
	return false
}

// binop gets the node kind for a binary operator token.
func binop(text string) nodeKind {
	switch text {
	case "+":
		return nodeAdd
	case "-":
		return nodeSub
	case "*":
		return nodeMul
	case "/":
		return nodeDiv
	case "^":
		return nodePow
	case "&":
		return nodeAnd
	case "|":
		return nodeOr
	case "=":
		return nodeEq
	case ">":
		return nodeGtr
	case "<":
		return nodeLss
	default:
		panic("expressions: invalid binary operator " + strconv.Quote(text))
	}
}
