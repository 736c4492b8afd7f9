package expressions

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Nodes are
// never modified after the assembler links them into a tree.
type node struct {
	kind nodeKind

	num  float64
	name string

	// bound is the module's own supplier for nodeVar. It is shared, not
	// copied, so every evaluation reruns the module's logic.
	bound  *Expr
	supply func() float64
	fn     *Function

	left  *node
	right *node
	args  []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota // Empty placeholder; evaluating it panics

	nodeConst    // num
	nodeString   // name is the literal
	nodeSupplier // call supply
	nodeVar      // name is the source name, evaluate bound
	nodeCall     // name is the source name, call fn with args

	nodeNeg // evaluate left, then negate
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right

	// Pseudo-boolean operators. Each produces 1 or 0.
	nodeAnd
	nodeOr
	nodeEq
	nodeGtr
	nodeLss
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "Empty"
	case nodeConst:
		return "Const"
	case nodeString:
		return "String"
	case nodeSupplier:
		return "Supplier"
	case nodeVar:
		return "Var"
	case nodeCall:
		return "Call"
	case nodeNeg:
		return "Neg"
	case nodeAdd:
		return "Add"
	case nodeSub:
		return "Sub"
	case nodeMul:
		return "Mul"
	case nodeDiv:
		return "Div"
	case nodePow:
		return "Pow"
	case nodeAnd:
		return "And"
	case nodeOr:
		return "Or"
	case nodeEq:
		return "Eq"
	case nodeGtr:
		return "Gtr"
	case nodeLss:
		return "Lss"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// binary reports whether the node kind is an infix operator.
func (k nodeKind) binary() bool {
	return nodeAdd <= k && k <= nodeLss
}

// symbol is the source operator for an operator node kind.
func (k nodeKind) symbol() string {
	switch k {
	case nodeNeg, nodeSub:
		return "-"
	case nodeAdd:
		return "+"
	case nodeMul:
		return "*"
	case nodeDiv:
		return "/"
	case nodePow:
		return "^"
	case nodeAnd:
		return "&"
	case nodeOr:
		return "|"
	case nodeEq:
		return "="
	case nodeGtr:
		return ">"
	case nodeLss:
		return "<"
	default:
		return ""
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch {
	case n == nil || n.kind == nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteString("$empty$")
	case n.kind == nodeConst:
		b.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
	case n.kind == nodeString:
		b.WriteString(strconv.Quote(n.name))
	case n.kind == nodeSupplier:
		b.WriteString("<supplier>")
	case n.kind == nodeVar:
		b.WriteString(n.name)
	case n.kind == nodeCall:
		b.WriteString(n.name)
		n.fmtargs(b, !square)
	case n.kind == nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square)
	case n.kind.binary():
		n.left.fmt(b, !square)
		b.WriteString(" " + n.kind.symbol() + " ")
		n.right.fmt(b, !square)
	default:
		panic("expressions: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtargs(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	for i, arg := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		arg.fmt(b, !square)
	}
}
