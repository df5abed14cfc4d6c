// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/gomips/asm"
	"github.com/beevik/gomips/host"
	"github.com/beevik/gomips/options"
	"github.com/beevik/term"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	opts, err := options.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		options.Usage(os.Stderr)
		os.Exit(2)
	}

	if opts.Bool(options.Interactive) {
		h := host.New(opts)
		if opts.Source != "" {
			file, err := os.Open(opts.Source)
			if err != nil {
				exitOnError(err)
			}
			h.RunCommands(file, os.Stdout, false)
			file.Close()
		}
		h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
		return
	}

	if opts.Source == "" {
		options.Usage(os.Stderr)
		os.Exit(2)
	}

	var flags asm.Option
	if opts.Bool(options.Verbose) {
		flags |= asm.Verbose
	}
	loader := asm.NewFileLoader(opts.List(options.IncludeDir), opts.Bool(options.Unicode))

	prog, err := asm.ProcessFile(opts.Source, loader, os.Stdout, flags)
	if err != nil {
		exitOnError(err)
	}

	n := len(prog.Instructions())
	fmt.Printf("%s: %d tokens (%d instructions), %d labels\n",
		prog.File, len(prog.Tokens), n, len(prog.Labels))
}

func exitOnError(err error) {
	stderr := colorable.NewColorableStderr()
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	printError(stderr, err, color)
	os.Exit(1)
}

// printError writes err to w. Assembler errors are followed by the
// offending source line and a caret marking the column.
func printError(w io.Writer, err error, color bool) {
	var e *asm.Error
	if !errors.As(err, &e) {
		fmt.Fprintf(w, "ERROR: %v\n", err)
		return
	}

	kind := e.Kind.String()
	if color {
		kind = "\x1b[1;31m" + kind + "\x1b[0m"
	}
	if where := e.Where(); where != "" {
		kind += ": " + where
	}
	fmt.Fprintf(w, "%s: %s\n", kind, e.Msg)
	if caret := e.Caret(); caret != "" {
		fmt.Fprintln(w, caret)
	}
}
