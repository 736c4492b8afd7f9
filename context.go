package expressions

import (
	"log/slog"
	"strconv"
	"strings"
)

// Context is an ordered list of modules that compiled expressions resolve
// names against. The standard module is always first.
//
// A Context is safe to use concurrently for compiling once no more modules
// are being added to it.
type Context struct {
	modules []*Module
}

// NewContext creates a context containing the standard module followed by
// mods in order.
func NewContext(mods ...*Module) *Context {
	c := &Context{modules: make([]*Module, 0, len(mods)+1)}
	c.modules = append(c.modules, Standard)
	for _, m := range mods {
		c.AddModule(m)
	}
	return c
}

var defaultContext = NewContext()

// AddModule appends a module to the context and returns the context.
func (c *Context) AddModule(m *Module) *Context {
	if m == nil {
		panic("expressions: nil module")
	}
	c.modules = append(c.modules, m)
	return c
}

// Modules returns the context's modules in search order.
func (c *Context) Modules() []*Module {
	return append(([]*Module)(nil), c.modules...)
}

// Variable resolves a possibly qualified variable name. Every module is
// checked; a name defined by more than one is ambiguous even though the first
// would otherwise win.
func (c *Context) Variable(name string) (*Expr, error) {
	var r *Expr
	var owners []string
	for _, m := range c.modules {
		e, err := m.variable(name)
		if err != nil {
			return nil, err
		}
		if e == nil {
			continue
		}
		if r == nil {
			r = e
		}
		owners = append(owners, m.name)
	}
	switch len(owners) {
	case 0:
		return nil, &NoSuchVariableError{Name: name}
	case 1:
		slog.Debug("resolved variable", slog.String("name", name), slog.String("module", owners[0]))
		return r, nil
	default:
		return nil, &AmbiguousNameError{Name: name, Modules: owners, Kind: VariableName}
	}
}

// Function resolves a possibly qualified function name for a call with arity
// arguments. Modules are searched in order, and the first one that defines
// the name with exactly that arity or as variadic wins. Only exact
// definitions make a name ambiguous.
func (c *Context) Function(name string, arity int) (*Function, error) {
	var r *Function
	var owner string
	var owners []string
	for _, m := range c.modules {
		fn, err := m.function(name, arity)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			owners = append(owners, m.name)
		} else if arity != AnyArity {
			fn, _ = m.function(name, AnyArity)
		}
		if r == nil && fn != nil {
			r, owner = fn, m.name
		}
	}
	if len(owners) > 1 {
		return nil, &AmbiguousNameError{Name: name, Modules: owners, Kind: FunctionName, Arity: arity}
	}
	if r == nil {
		return nil, &NoSuchFunctionError{Name: name, Arity: arity}
	}
	slog.Debug("resolved function", slog.String("name", name), slog.Int("arity", arity), slog.String("module", owner))
	return r, nil
}

// HasVariable reports whether exactly one module defines a variable.
func (c *Context) HasVariable(name string) bool {
	_, err := c.Variable(name)
	return err == nil
}

// HasFunction reports whether a call with arity arguments resolves.
func (c *Context) HasFunction(name string, arity int) bool {
	_, err := c.Function(name, arity)
	return err == nil
}

// arities lists the fixed arities defined for a function name across all
// modules, sorted and without duplicates.
func (c *Context) arities(name string) []int {
	var v []int
	for _, m := range c.modules {
	outer:
		for _, a := range m.arities(name) {
			if a == AnyArity {
				continue
			}
			for _, b := range v {
				if a == b {
					continue outer
				}
			}
			v = append(v, a)
		}
	}
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
	return v
}

// NameKind distinguishes variable names from function names in errors.
type NameKind int8

const (
	VariableName NameKind = iota + 1
	FunctionName
)

func (k NameKind) String() string {
	switch k {
	case VariableName:
		return "variable"
	case FunctionName:
		return "function"
	default:
		return "NameKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// NoSuchVariableError is a variable that no module in the context defines.
type NoSuchVariableError struct {
	Name string
}

func (err *NoSuchVariableError) Error() string {
	return "no such variable " + strconv.Quote(err.Name)
}

// NoSuchFunctionError is a function that no module in the context defines
// with a usable arity.
type NoSuchFunctionError struct {
	Name  string
	Arity int
}

func (err *NoSuchFunctionError) Error() string {
	return "no such function " + strconv.Quote(err.Name) + " taking " + plural(err.Arity, "parameter")
}

// AmbiguousNameError is a name that more than one module in the context
// defines.
type AmbiguousNameError struct {
	Name string
	// Modules names the modules that define the name, in context order.
	Modules []string
	Kind    NameKind
	// Arity is the call's argument count, for functions.
	Arity int
}

func (err *AmbiguousNameError) Error() string {
	return err.Kind.String() + " " + strconv.Quote(err.Name) + " is defined in multiple modules: " + strings.Join(err.Modules, ", ")
}

// InvalidNameError is a malformed name, either in a module definition or in
// a qualified reference.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (err *InvalidNameError) Error() string {
	return "invalid name " + strconv.Quote(err.Name) + ": " + err.Reason
}

// DuplicateError is a name defined twice in one module.
type DuplicateError struct {
	Module string
	Name   string
	Kind   NameKind
	// Arity is the repeated arity, for functions.
	Arity int
}

func (err *DuplicateError) Error() string {
	s := err.Kind.String() + " " + strconv.Quote(err.Name)
	if err.Kind == FunctionName {
		s += " with arity " + strconv.Itoa(err.Arity)
	}
	return s + " is already defined in module " + strconv.Quote(err.Module)
}
