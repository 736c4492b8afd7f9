package expressions

import (
	"math"
	"strconv"
)

// Value is the result of evaluating an expression. It is a number unless the
// expression is a bare string literal, or a variable bound to one.
type Value struct {
	num   float64
	str   string
	isStr bool
}

// Num creates a numeric value.
func Num(x float64) Value {
	return Value{num: x}
}

// Str creates a string value.
func Str(s string) Value {
	return Value{str: s, isStr: true}
}

// IsString returns whether the value is a string.
func (v Value) IsString() bool {
	return v.isStr
}

// Float returns the numeric value. Strings are NaN.
func (v Value) Float() float64 {
	if v.isStr {
		return math.NaN()
	}
	return v.num
}

// String formats the value. Numbers use the shortest representation that
// reads back exactly.
func (v Value) String() string {
	if v.isStr {
		return v.str
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// MarshalJSON encodes numbers as JSON numbers and strings as JSON strings.
// JSON has no NaN or infinities, so those are encoded as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isStr || math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return []byte(strconv.Quote(v.String())), nil
	}
	return []byte(v.String()), nil
}

// Expr is a compiled expression. It is immutable and safe to evaluate
// concurrently, as long as the variables and functions it uses are.
//
// The zero Expr is the Empty placeholder. Evaluating it panics.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of variable names used in the expression.
	names []string
}

// Const creates an expression that evaluates to x. Use it to register a
// constant module variable.
func Const(x float64) *Expr {
	return &Expr{n: &node{kind: nodeConst, num: x}}
}

// String creates an expression that evaluates to the string s.
func String(s string) *Expr {
	return &Expr{n: &node{kind: nodeString, name: s}}
}

// Supplier creates an expression that calls f every time it is evaluated.
// Use it to register a module variable whose value changes, like the time.
func Supplier(f func() float64) *Expr {
	if f == nil {
		panic("expressions: nil supplier")
	}
	return &Expr{n: &node{kind: nodeSupplier, supply: f}}
}

// Eval evaluates the expression. Operands are evaluated left to right, each
// before the operator that uses it, and nothing is cached between calls.
func (e *Expr) Eval() (Value, error) {
	if e == nil {
		panic(&EvalError{Kind: UninitializedNode})
	}
	return e.n.eval()
}

// Float evaluates the expression and requires a numeric result.
func (e *Expr) Float() (float64, error) {
	v, err := e.Eval()
	if err != nil {
		return 0, err
	}
	if v.IsString() {
		return 0, &EvalError{Kind: NotANumber, Text: v.String()}
	}
	return v.Float(), nil
}

// Vars returns the variable names used in the expression, sorted.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the compiled expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	return e.n.String()
}

// EvalString is a shortcut to compile and evaluate an expression. A nil ctx
// uses the standard module alone.
func EvalString(src string, ctx *Context) (Value, error) {
	e, err := Compile(src, ctx)
	if err != nil {
		return Value{}, err
	}
	return e.Eval()
}

// eval computes the node's value.
func (n *node) eval() (Value, error) {
	if n == nil {
		panic(&EvalError{Kind: UninitializedNode})
	}
	switch n.kind {
	case nodeNone:
		panic(&EvalError{Kind: UninitializedNode})
	case nodeConst:
		return Num(n.num), nil
	case nodeString:
		return Str(n.name), nil
	case nodeSupplier:
		return Num(n.supply()), nil
	case nodeVar:
		return n.bound.n.eval()
	case nodeCall:
		args := make([]Value, len(n.args))
		for i, a := range n.args {
			v, err := a.eval()
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		r, err := n.fn.call(args)
		if err != nil {
			return Value{}, &FuncError{Func: n.name, Err: err}
		}
		return Num(r), nil
	case nodeNeg:
		x, err := n.left.number()
		if err != nil {
			return Value{}, err
		}
		return Num(-x), nil
	}
	if !n.kind.binary() {
		panic("expressions: invalid AST node " + n.kind.String())
	}
	l, err := n.left.number()
	if err != nil {
		return Value{}, err
	}
	r, err := n.right.number()
	if err != nil {
		return Value{}, err
	}
	switch n.kind {
	case nodeAdd:
		return Num(l + r), nil
	case nodeSub:
		return Num(l - r), nil
	case nodeMul:
		return Num(l * r), nil
	case nodeDiv:
		return Num(l / r), nil
	case nodePow:
		return Num(math.Pow(l, r)), nil
	case nodeAnd:
		return truth(l == 1 && r == 1), nil
	case nodeOr:
		return truth(l == 1 || r == 1), nil
	case nodeEq:
		return truth(l == r), nil
	case nodeGtr:
		return truth(l > r), nil
	default: // nodeLss
		return truth(l < r), nil
	}
}

// number evaluates an operand that must be numeric.
func (n *node) number() (float64, error) {
	v, err := n.eval()
	if err != nil {
		return 0, err
	}
	if v.IsString() {
		return 0, &EvalError{Kind: NotANumber, Text: v.String()}
	}
	return v.num, nil
}

// truth converts a predicate to a pseudo-boolean.
func truth(b bool) Value {
	if b {
		return Num(1)
	}
	return Num(0)
}

// EvalErrorKind is the reason an EvalError occurred.
type EvalErrorKind int8

const (
	// UninitializedNode means an Empty placeholder was evaluated. Compiled
	// expressions never contain one, so this is a bug in the caller or in
	// this package.
	UninitializedNode EvalErrorKind = iota + 1
	// NotANumber is a string used where a number is required.
	NotANumber
	// NotAString is a number passed to a function of a string.
	NotAString
)

func (k EvalErrorKind) String() string {
	switch k {
	case UninitializedNode:
		return "UninitializedNode"
	case NotANumber:
		return "NotANumber"
	case NotAString:
		return "NotAString"
	default:
		return "EvalErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// EvalError is an error while evaluating a compiled expression. An EvalError
// with Kind UninitializedNode is not returned; it is the value of a panic.
type EvalError struct {
	Kind EvalErrorKind
	// Text is the offending value.
	Text string
}

func (err *EvalError) Error() string {
	switch err.Kind {
	case UninitializedNode:
		return "expression was evaluated before it was fully assembled"
	case NotANumber:
		return "expected a number but got string " + strconv.Quote(err.Text)
	case NotAString:
		return "expected a string but got " + err.Text
	default:
		return "evaluation failed"
	}
}

// FuncError is an error returned by a Function during evaluation.
type FuncError struct {
	// Func is the name the function was called by.
	Func string
	// Err is the function's error.
	Err error
}

func (err *FuncError) Error() string {
	return "calling " + strconv.Quote(err.Func) + ": " + err.Err.Error()
}

func (err *FuncError) Unwrap() error {
	return err.Err
}
