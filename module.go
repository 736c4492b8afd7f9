package expressions

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Signature identifies a function within a module.
type Signature struct {
	Name  string
	Arity int
}

func (s Signature) String() string {
	if s.Arity == AnyArity {
		return s.Name + "(...)"
	}
	return s.Name + "/" + strconv.Itoa(s.Arity)
}

// Module is a named, immutable set of variables and functions. Create one
// with NewModule.
type Module struct {
	name  string
	vars  map[string]*Expr
	funcs map[Signature]*Function
}

// Name returns the module's name.
func (m *Module) Name() string {
	return m.name
}

// Variables returns the names of the module's variables, sorted.
func (m *Module) Variables() []string {
	v := make([]string, 0, len(m.vars))
	for k := range m.vars {
		v = append(v, k)
	}
	sortstrs(v)
	return v
}

// Functions returns the signatures of the module's functions, sorted by name
// and then arity.
func (m *Module) Functions() []Signature {
	v := make([]Signature, 0, len(m.funcs))
	for k := range m.funcs {
		v = append(v, k)
	}
	sort.Slice(v, func(i, j int) bool {
		if v[i].Name != v[j].Name {
			return v[i].Name < v[j].Name
		}
		return v[i].Arity < v[j].Arity
	})
	return v
}

func (m *Module) String() string {
	return "Module(" + m.name + ")"
}

// member gets the unqualified form of name and whether m may define it. A
// name qualified with m's own name is never m's.
func (m *Module) member(name string) (string, bool, error) {
	mod, bare, qualified, err := splitName(name)
	if err != nil {
		return "", false, err
	}
	if qualified && mod == m.name {
		return bare, false, nil
	}
	return bare, true, nil
}

// variable looks up a possibly qualified variable name.
func (m *Module) variable(name string) (*Expr, error) {
	bare, ok, err := m.member(name)
	if !ok || err != nil {
		return nil, err
	}
	return m.vars[bare], nil
}

// function looks up a possibly qualified function name with an exact arity.
func (m *Module) function(name string, arity int) (*Function, error) {
	bare, ok, err := m.member(name)
	if !ok || err != nil {
		return nil, err
	}
	return m.funcs[Signature{bare, arity}], nil
}

// arities lists the arities m defines for a possibly qualified name.
func (m *Module) arities(name string) []int {
	bare, ok, err := m.member(name)
	if !ok || err != nil {
		return nil
	}
	var v []int
	for sig := range m.funcs {
		if sig.Name == bare {
			v = append(v, sig.Arity)
		}
	}
	return v
}

// splitName splits a name of the form module:name.
func splitName(name string) (mod, bare string, qualified bool, err error) {
	switch parts := strings.Split(name, string(Separator)); len(parts) {
	case 1:
		return "", name, false, nil
	case 2:
		return parts[0], parts[1], true, nil
	default:
		return "", "", false, &InvalidNameError{Name: name, Reason: "cannot have more than one " + strconv.QuoteRune(Separator)}
	}
}

// ModuleBuilder collects variables and functions for a Module.
type ModuleBuilder struct {
	name  string
	vars  map[string]*Expr
	funcs map[Signature]*Function
}

// NewModule starts building a module with the given name.
func NewModule(name string) *ModuleBuilder {
	return &ModuleBuilder{
		name:  name,
		vars:  make(map[string]*Expr),
		funcs: make(map[Signature]*Function),
	}
}

// AddVariable registers a variable. Every reference to the variable in a
// compiled expression evaluates supplier itself, so a Supplier runs again on
// each evaluation.
func (b *ModuleBuilder) AddVariable(name string, supplier *Expr) error {
	if supplier == nil {
		panic("expressions: nil supplier for variable " + strconv.Quote(name))
	}
	if err := checkName(name); err != nil {
		return err
	}
	if _, ok := b.vars[name]; ok {
		return &DuplicateError{Module: b.name, Name: name, Kind: VariableName}
	}
	b.vars[name] = supplier
	return nil
}

// AddFunction registers a function under its name and arity.
func (b *ModuleBuilder) AddFunction(name string, fn *Function) error {
	if fn == nil || fn.call == nil {
		panic("expressions: nil function " + strconv.Quote(name))
	}
	if fn.Arity < AnyArity {
		panic("expressions: invalid arity " + strconv.Itoa(fn.Arity) + " for function " + strconv.Quote(name))
	}
	if err := checkName(name); err != nil {
		return err
	}
	sig := Signature{name, fn.Arity}
	if _, ok := b.funcs[sig]; ok {
		return &DuplicateError{Module: b.name, Name: name, Kind: FunctionName, Arity: fn.Arity}
	}
	b.funcs[sig] = fn
	return nil
}

// Build creates the module. The builder may continue to be used; later
// additions do not affect modules already built.
func (b *ModuleBuilder) Build() *Module {
	m := Module{
		name:  b.name,
		vars:  make(map[string]*Expr, len(b.vars)),
		funcs: make(map[Signature]*Function, len(b.funcs)),
	}
	for k, v := range b.vars {
		m.vars[k] = v
	}
	for k, v := range b.funcs {
		m.funcs[k] = v
	}
	return &m
}

func checkName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "names must not be empty"}
	case strings.ContainsRune(name, Separator):
		return &InvalidNameError{Name: name, Reason: "names must not contain " + strconv.QuoteRune(Separator)}
	}
	return nil
}

// LocalName is reserved for a module that a host builds per context rather
// than registering.
const LocalName = "local"

// Registry is a set of modules by name. Unlike Context and Module, a Registry
// is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
	order   []string
}

// NewRegistry creates a registry holding only the standard module.
func NewRegistry() *Registry {
	return &Registry{
		modules: map[string]*Module{StdName: Standard},
		order:   []string{StdName},
	}
}

// Register adds a module. The names std and local are reserved.
func (r *Registry) Register(m *Module) error {
	switch {
	case m.name == StdName, m.name == LocalName:
		return &RegistrationError{Module: m.name, Reason: "name is reserved"}
	case m.name == "", strings.ContainsRune(m.name, Separator):
		return &RegistrationError{Module: m.name, Reason: "invalid module name"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[m.name]; ok {
		return &RegistrationError{Module: m.name, Reason: "already registered"}
	}
	r.modules[m.name] = m
	r.order = append(r.order, m.name)
	return nil
}

// Module gets a registered module.
func (r *Registry) Module(name string) (*Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.modules[name]
	if m == nil {
		return nil, &MissingModuleError{Module: name}
	}
	return m, nil
}

// Names lists the registered modules in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(([]string)(nil), r.order...)
}

// Context creates a context with the named modules in the given order. The
// standard module is always included first, so naming it has no effect.
func (r *Registry) Context(names ...string) (*Context, error) {
	ctx := NewContext()
	for _, name := range names {
		if name == StdName {
			continue
		}
		m, err := r.Module(name)
		if err != nil {
			return nil, err
		}
		ctx.AddModule(m)
	}
	return ctx, nil
}

// RegistrationError is an error registering a module.
type RegistrationError struct {
	Module string
	Reason string
}

func (err *RegistrationError) Error() string {
	return "cannot register module " + strconv.Quote(err.Module) + ": " + err.Reason
}

// MissingModuleError is a lookup for a module that is not registered.
type MissingModuleError struct {
	Module string
}

func (err *MissingModuleError) Error() string {
	return "module " + strconv.Quote(err.Module) + " is not registered"
}
