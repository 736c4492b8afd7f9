package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/celestialexpressions/expressions"
)

const historyFile = ".celestial_history"

// runREPL reads expressions from the terminal until EOF or :quit.
func runREPL(ctx *expressions.Context, verb string, w io.Writer) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	for {
		line, err := ln.Prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(w)
				break
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if !command(w, ctx, line, verb) {
			break
		}
	}

	if f, err := os.Create(histPath); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}
	return nil
}

// command handles one line of REPL input. It returns false to quit.
func command(w io.Writer, ctx *expressions.Context, line, verb string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case ":quit", ":q":
		return false
	case ":modules":
		for _, m := range ctx.Modules() {
			fmt.Fprintf(w, "%s: %d variables, %d functions\n", m.Name(), len(m.Variables()), len(m.Functions()))
		}
	case ":tree":
		e, err := expressions.Compile(arg, ctx)
		if err != nil {
			fmt.Fprintln(w, describe(arg, err))
			break
		}
		fmt.Fprintln(w, e)
	case ":help":
		fmt.Fprintln(w, ":modules      list modules in scope")
		fmt.Fprintln(w, ":tree <expr>  print the compiled tree of an expression")
		fmt.Fprintln(w, ":quit         exit")
	default:
		if strings.HasPrefix(cmd, ":") {
			fmt.Fprintf(w, "unknown command %s (try :help)\n", cmd)
			break
		}
		run(w, ctx, line, verb, false)
	}
	return true
}
