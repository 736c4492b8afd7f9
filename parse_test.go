package expressions

import (
	"fmt"
	"reflect"
	"regexp"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch {
	case n.kind == nodeConst:
		if n.num != m.num {
			return n, m
		}
	case n.kind == nodeString:
		if n.name != m.name {
			return n, m
		}
	case n.kind == nodeVar:
		if n.name != m.name || n.bound != m.bound {
			return n, m
		}
	case n.kind == nodeCall:
		if n.name != m.name || n.fn != m.fn || len(n.args) != len(m.args) {
			return n, m
		}
		for i := range n.args {
			if d, e := n.args[i].diff(m.args[i]); d != nil || e != nil {
				return d, e
			}
		}
	case n.kind == nodeNeg:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case n.kind.binary():
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	for _, a := range n.args {
		if a.haskind(k) {
			return true
		}
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

var testmod = func() *Module {
	b := NewModule("test")
	for _, name := range []string{"w", "x", "y", "z"} {
		must(b.AddVariable(name, Const(1)))
	}
	must(b.AddFunction("zero", Niladic(func() float64 { return 0 })))
	must(b.AddFunction("one", Monadic(func(x float64) float64 { return x })))
	must(b.AddFunction("two", Func(2, func(x []float64) float64 { return x[0] + x[1] })))
	must(b.AddFunction("any", Variadic(func(x []float64) float64 { return float64(len(x)) })))
	return b.Build()
}()

func testctx() *Context {
	return NewContext(testmod)
}

func TestCompileTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"multi", "((((x))))", "x"},
		{"space", " x  +\ty ", "x+y"},
		{"comment", "x #* y", "x*y"},

		{"neg", "-x", "-(x)"},
		{"add", "x+y", "(x)+(y)"},
		{"terms", "x y", "x*y"},
		{"num-terms", "2x", "2*x"},
		{"paren-terms", "(x)(y)", "x*y"},
		{"num-paren", "2(x+y)", "2*(x+y)"},
		{"call-terms", "zero()x", "zero()*x"},
		{"sep-terms", "x,y", "x*y"},

		{"add3", "x+y+z", "(x+y)+z"},
		{"sub3", "x-y-z", "(x-y)-z"},
		{"mul3", "x*y*z", "(x*y)*z"},
		{"div3", "x/y/z", "(x/y)/z"},
		{"pow3", "x^y^z", "(x^y)^z"},
		{"gtr3", "x>y>z", "(x>y)>z"},

		{"desc", "w^x*y+z", "((w^x)*y)+z"},
		{"asc", "w+x*y^z", "w+(x*(y^z))"},
		{"mul-pow", "x*y^z", "x*(y^z)"},
		{"add-cmp", "x+y>z", "(x+y)>z"},
		{"cmp-and", "x=y&z", "(x=y)&z"},
		{"and-cmp", "x&y=z", "(x&y)=z"},
		{"or-lss", "x|y<z", "(x|y)<z"},

		{"negpow", "-x^2", "(-x)^2"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-y", "(-x)-y"},
		{"mulneg", "x*-y", "x*(-y)"},
		{"powneg", "x^-y", "x^(-y)"},
		{"negparen", "-(x+y)", "-((x+y))"},
		{"negcall", "-one(x)", "-(one(x))"},
		{"terms-pow", "2x^2", "(2*x)^2"},

		{"call1", "one(x+y)", "one((x+y))"},
		{"call2", "two(x, y*z)", "two((x),(y*z))"},
		{"call2-nested", "two(one(x), two(y, z))", "two((one(x)), (two(y,z)))"},
		{"call2-neg", "two(x,-y)", "two(x, (-y))"},
		{"variadic0", "any()", "any( )"},
		{"variadic3", "any(x, y, z)", "any(x,y,z)"},
	}
	ctx := testctx()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Compile(c.a, ctx)
			if err != nil {
				t.Fatalf("failed to compile %q: %v", c.a, err)
			}
			b, err := Compile(c.b, ctx)
			if err != nil {
				t.Fatalf("failed to compile %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q compiles %v has %v\n\t%q compiles %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
			if a.n.haskind(nodeNone) {
				t.Errorf("%q compiled with an empty node: %v", c.a, a.n)
			}
		})
	}
}

func TestCompileExact(t *testing.T) {
	ctx := testctx()
	x := testmod.vars["x"]
	two := testmod.funcs[Signature{"two", 2}]
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "var",
			src:  "x",
			n:    &node{kind: nodeVar, name: "x", bound: x},
		},
		{
			name: "string",
			src:  `"hello, world"`,
			n:    &node{kind: nodeString, name: "hello, world"},
		},
		{
			name: "call",
			src:  "two(1, -x)",
			n: &node{
				kind: nodeCall,
				name: "two",
				fn:   two,
				args: []*node{
					{kind: nodeConst, num: 1},
					{kind: nodeNeg, left: &node{kind: nodeVar, name: "x", bound: x}},
				},
			},
		},
		{
			name: "precedence",
			src:  "2+3*4",
			n: &node{
				kind: nodeAdd,
				left: &node{kind: nodeConst, num: 2},
				right: &node{
					kind:  nodeMul,
					left:  &node{kind: nodeConst, num: 3},
					right: &node{kind: nodeConst, num: 4},
				},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Compile(c.src, ctx)
			if err != nil {
				t.Fatalf("failed to compile %q: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q compiles %v has %v\n\twant %v has %v", c.src, a.n, d, c.n, e)
			}
		})
	}
}

func TestVarsShareSupplier(t *testing.T) {
	a, err := Compile("x + x*x", testctx())
	if err != nil {
		t.Fatal(err)
	}
	x := testmod.vars["x"]
	var walk func(n *node) int
	walk = func(n *node) int {
		if n == nil {
			return 0
		}
		k := walk(n.left) + walk(n.right)
		if n.kind == nodeVar {
			if n.bound != x {
				t.Errorf("variable node %v is bound to %p, not %p", n, n.bound, x)
			}
			k++
		}
		return k
	}
	if k := walk(a.n); k != 3 {
		t.Errorf("want 3 variable nodes, got %d in %v", k, a.n)
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"const", "1", "(1)"},
		{"var", "x", "(x)"},
		{"string", `"s"`, `("s")`},
		{"neg", "-x", "(-[x])"},
		{"add", "x+y", "([x] + [y])"},
		{"nested", "2+3*4", "([2] + [(3) * (4)])"},
		{"call", "one(x)", "(one[(x)])"},
		{"call2", "two(x, y)", "(two[(x), (y)])"},
		{"nullary", "zero()", "(zero[])"},
		{"terms", "2x", "([2] * [x])"},
	}
	ctx := testctx()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Compile(c.src, ctx)
			if err != nil {
				t.Fatalf("%q failed to compile: %v", c.src, err)
			}
			if s := a.String(); s != c.want {
				t.Errorf("%q: want %s, got %s", c.src, c.want, s)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		kind string
		pos  int
		res  []string
	}{
		{"empty", "", new(InvalidExpressionError), "EmptySource", 1, []string{`(?i)\bvalue\b`}},
		{"blank", "  ", new(InvalidExpressionError), "EmptySource", 3, nil},
		{"emptyparen", "()", new(InvalidExpressionError), "EmptySource", 2, nil},
		{"emptynested", "x*(())", new(InvalidExpressionError), "EmptySource", 5, nil},
		{"onlysep", "(,)", new(InvalidExpressionError), "EmptySource", 3, nil},
		{"left", "(x", new(InvalidExpressionError), "UnbalancedGrouping", 1, []string{`(?i)\bbalanced\b`}},
		{"right", "x)", new(InvalidExpressionError), "UnbalancedGrouping", 2, nil},
		{"backwards", ")x(", new(InvalidExpressionError), "UnbalancedGrouping", 1, nil},
		{"call-open", "one(x", new(InvalidExpressionError), "UnbalancedGrouping", 1, nil},
		{"trailing", "1+", new(InvalidExpressionError), "MissingOperand", 2, []string{`"\+"`}},
		{"leading", "*2", new(InvalidExpressionError), "MissingOperand", 1, []string{`"\*"`}},
		{"double", "2*/3", new(InvalidExpressionError), "MissingOperand", 3, []string{`"/"`}},
		{"neg-only", "-", new(InvalidExpressionError), "MissingOperand", 1, []string{`"-"`}},
		{"neg-trailing", "2*-", new(InvalidExpressionError), "MissingOperand", 3, nil},
		{"neg-binary", "-*2", new(InvalidExpressionError), "MissingOperand", 2, nil},
		{"paren-trailing", "(x+)", new(InvalidExpressionError), "MissingOperand", 3, nil},
		{"call1-0", "one()", new(InvalidExpressionError), "ArityMismatch", 1, []string{`"one"`, `\b1 parameter\b`, `\b0 were\b`}},
		{"call1-2", "one(x, y)", new(InvalidExpressionError), "ArityMismatch", 1, []string{`\b1 parameter\b`, `\b2 were\b`}},
		{"call2-1", "two(x)", new(InvalidExpressionError), "ArityMismatch", 1, []string{`\b2 parameters\b`, `\b1 was\b`}},
		{"call2-empty", "two(x,)", new(InvalidExpressionError), "EmptySource", 7, nil},
		{"call2-emptyfirst", "two(,x)", new(InvalidExpressionError), "EmptySource", 5, nil},
		{"periods", "1.2.3", new(ParseError), "MultiplePeriodsInNumber", 4, []string{`1\.2\.`}},
		{"dot", ".", new(ParseError), "Unclassifiable", 1, nil},
		{"member", "x.y", new(ParseError), "Unclassifiable", 2, nil},
		{"unterminated", `"abc`, new(ParseError), "UnterminatedString", 1, []string{`(?i)\bunterminated\b`}},
	}
	ctx := testctx()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Compile(c.src, ctx)
			if a != nil {
				t.Errorf("%q compiled non-nil to %v", c.src, a.n)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			var kind fmt.Stringer
			switch err := err.(type) {
			case *ParseError:
				kind = err.Kind
			case *InvalidExpressionError:
				kind = err.Kind
			}
			if kind.String() != c.kind {
				t.Errorf("wrong error kind from %q: want %s, got %v", c.src, c.kind, kind)
			}
			if p := err.(InputError).Pos(); p != c.pos {
				t.Errorf("wrong position from %q: want %d, got %d", c.src, c.pos, p)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestCompileVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+3", []string{}},
		{"one", "1+2+x", []string{"x"}},
		{"sort", "z+y+x+w", []string{"w", "x", "y", "z"}},
		{"reuse", "x+y+x+y", []string{"x", "y"}},
		{"args", "two(x, one(y))", []string{"x", "y"}},
		{"qualified", "std:x + y", []string{"std:x", "y"}},
	}
	ctx := testctx()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Compile(c.src, ctx)
			if err != nil {
				t.Fatalf("%q didn't compile: %v", c.src, err)
			}
			vars := a.Vars()
			if len(vars) == 0 && len(c.vars) == 0 {
				return
			}
			if !reflect.DeepEqual(vars, c.vars) {
				t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, vars)
			}
		})
	}
}

func BenchmarkCompile(b *testing.B) {
	ctx := testctx()
	srcs := []string{"x", "2+3*4", "two(x, one(y))^2 - -z", "any(w, x, y, z, 1, 2, 3, 4) > 3 & x = 1"}
	for _, src := range srcs {
		b.Run(src, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Compile(src, ctx)
			}
		})
	}
}
