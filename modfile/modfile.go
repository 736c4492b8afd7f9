// Package modfile loads module definitions written in YAML.
//
// A file lists modules in order:
//
//	modules:
//	  - name: physics
//	    variables:
//	      g: "9.80665"
//	      c: "299792458"
//	  - name: orbits
//	    variables:
//	      geo: "35786000 + 6371000"
//
// Each variable is an expression. It is compiled against the standard module,
// any base modules given to Build, and the modules listed before it in the
// same file, and the compiled expression becomes the variable's supplier.
package modfile

import (
	"log/slog"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/celestialexpressions/expressions"
)

// File is a parsed module file.
type File struct {
	Modules []Definition `yaml:"modules"`
}

// Definition is one module in a file.
type Definition struct {
	Name      string            `yaml:"name"`
	Variables map[string]string `yaml:"variables"`
}

// Parse decodes a module file. Unknown keys are errors.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads, decodes, and builds the modules in the file at path.
func Load(path string, base ...*expressions.Module) ([]*expressions.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	mods, err := f.Build(base...)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded module file", slog.String("path", path), slog.Int("modules", len(mods)))
	return mods, nil
}

// Build compiles the file's modules in order.
func (f *File) Build(base ...*expressions.Module) ([]*expressions.Module, error) {
	ctx := expressions.NewContext(base...)
	mods := make([]*expressions.Module, 0, len(f.Modules))
	for _, d := range f.Modules {
		m, err := d.build(ctx)
		if err != nil {
			return nil, err
		}
		ctx.AddModule(m)
		mods = append(mods, m)
	}
	return mods, nil
}

func (d *Definition) build(ctx *expressions.Context) (*expressions.Module, error) {
	if d.Name == "" {
		return nil, &Error{Err: errNoName}
	}
	names := make([]string, 0, len(d.Variables))
	for k := range d.Variables {
		names = append(names, k)
	}
	sort.Strings(names)
	b := expressions.NewModule(d.Name)
	for _, name := range names {
		e, err := expressions.Compile(d.Variables[name], ctx)
		if err != nil {
			return nil, &Error{Module: d.Name, Variable: name, Err: err}
		}
		if err := b.AddVariable(name, e); err != nil {
			return nil, &Error{Module: d.Name, Variable: name, Err: err}
		}
	}
	return b.Build(), nil
}

type noNameError struct{}

func (noNameError) Error() string { return "module has no name" }

var errNoName error = noNameError{}

// Error is an error building a module from a file.
type Error struct {
	// Module and Variable locate the definition that failed. Either may be
	// empty.
	Module   string
	Variable string
	Err      error
}

func (err *Error) Error() string {
	s := ""
	if err.Module != "" {
		s += "module " + strconv.Quote(err.Module) + ": "
	}
	if err.Variable != "" {
		s += "variable " + strconv.Quote(err.Variable) + ": "
	}
	return s + err.Err.Error()
}

func (err *Error) Unwrap() error {
	return err.Err
}
