package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/celestialexpressions/expressions"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb, confname, addr string
		given                        [][2]string
		use                          []string
		nl, echo, repl               bool
	)
	addgiven := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=expression", not %q`, s)
		}
		given = append(given, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	adduse := func(s string) error {
		for _, m := range strings.Split(s, ",") {
			if m = strings.TrimSpace(m); m != "" {
				use = append(use, m)
			}
		}
		return nil
	}
	flag.StringVar(&confname, "config", "", "YAML configuration file (default $"+envConfigFile+")")
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "number formatting string")
	flag.Func("given", "name=expression variable definition in module local (any number of times)", addgiven)
	flag.Func("use", "comma-separated registered modules to use (any number of times)", adduse)
	flag.BoolVar(&nl, "n", false, "treat separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print compiled expression trees")
	flag.BoolVar(&repl, "repl", false, "read expressions interactively")
	flag.StringVar(&addr, "serve", "", "serve the evaluation API on this address")
	flag.Parse()

	conf, err := readConfig(confname)
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}
	initLogger(conf.Logging)
	reg, err := conf.registry()
	if err != nil {
		log.Fatalf("loading modules: %v", err)
	}

	if addr != "" {
		if err := serve(addr, conf.Server, reg); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, err := reg.Context(use...)
	if err != nil {
		log.Fatal(err)
	}
	local, err := localModule(given, ctx)
	if err != nil {
		log.Fatal(err)
	}
	if local != nil {
		ctx.AddModule(local)
	}

	if repl {
		if err := runREPL(ctx, verb, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	var srcs []string
	in, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if in != nil {
		b, err := io.ReadAll(in)
		in.Close()
		if err != nil {
			log.Fatal(err)
		}
		srcs = append(srcs, split(string(b), nl)...)
	}
	srcs = append(srcs, flag.Args()...)

	status := 0
	for _, src := range srcs {
		if !run(os.Stdout, ctx, src, verb, echo) {
			status = 1
		}
	}
	os.Exit(status)
}

// localModule compiles -given definitions into module local. Each definition
// is compiled against ctx, so definitions cannot refer to one another.
func localModule(given [][2]string, ctx *expressions.Context) (*expressions.Module, error) {
	if len(given) == 0 {
		return nil, nil
	}
	b := expressions.NewModule(expressions.LocalName)
	for _, d := range given {
		e, err := expressions.Compile(d[1], ctx)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", d[0], err)
		}
		if err := b.AddVariable(d[0], e); err != nil {
			return nil, fmt.Errorf("setting %s: %w", d[0], err)
		}
	}
	return b.Build(), nil
}

// split divides input into expressions, either one per line or all at once.
func split(s string, lines bool) []string {
	if !lines {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []string{s}
	}
	var r []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			r = append(r, line)
		}
	}
	return r
}

// run compiles and evaluates one expression, printing the result or the
// error to w. It reports whether it succeeded.
func run(w io.Writer, ctx *expressions.Context, src, verb string, echo bool) bool {
	e, err := expressions.Compile(src, ctx)
	if err != nil {
		fmt.Fprintln(w, describe(src, err))
		return false
	}
	if echo {
		fmt.Fprintf(w, "%v : ", e)
	}
	v, err := e.Eval()
	if err != nil {
		fmt.Fprintln(w, err)
		return false
	}
	fmt.Fprintln(w, format(verb, v))
	return true
}

func format(verb string, v expressions.Value) string {
	if v.IsString() {
		return v.String()
	}
	return fmt.Sprintf(verb, v.Float())
}

// describe formats an error, pointing at the offending column when the error
// has one and the source is a single line.
func describe(src string, err error) string {
	ie, ok := err.(expressions.InputError)
	if !ok || strings.ContainsRune(src, '\n') || ie.Pos() < 1 {
		return err.Error()
	}
	return fmt.Sprintf("%s\n%s^ %v", src, strings.Repeat(" ", ie.Pos()-1), err)
}

func infile(inname string, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}
