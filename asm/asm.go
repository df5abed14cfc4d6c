// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements the front end of a MIPS32 assembler. Source text
// is preprocessed (.include, .eqv and .macro are resolved), then lexed into
// a sequence of label, directive and instruction tokens whose operands
// have been matched against each instruction's legal operand shapes.
package asm

import (
	"io"
	"os"
	"path/filepath"
)

// Option type used by the processing functions.
type Option uint

// Options for the processing functions.
const (
	Verbose Option = 1 << iota // verbose output during processing
)

func newLogger(out io.Writer, options Option) logger {
	if out == nil {
		out = os.Stdout
	}
	return logger{out: out, verbose: (options & Verbose) != 0}
}

// Preprocess resolves the .include, .eqv and .macro directives in src and
// returns the resulting buffer. Included files are read through loader, or
// from disk if loader is nil, and relative include paths are resolved
// against filename's directory.
func Preprocess(src []rune, filename string, loader Loader, out io.Writer, options Option) ([]rune, error) {
	buf, _, err := preprocess(src, filename, loader, newLogger(out, options))
	return buf, err
}

func preprocess(src []rune, filename string, loader Loader, lg logger) ([]rune, []lineOrigin, error) {
	p := newPreprocessor(filename, loader, lg)
	buf, origins, err := p.run(src)
	if err != nil {
		return nil, nil, err
	}
	lg.log("%s, %s, %s",
		plural(len(p.symbols), "symbol"),
		plural(len(p.macros), "macro"),
		plural(p.expansions, "expansion"))
	return buf, origins, nil
}

// Lex lexes a preprocessed buffer into a program. Line numbers are those
// of the buffer itself.
func Lex(src []rune, filename string, out io.Writer, options Option) (*Program, error) {
	return lex(src, filename, nil, newLogger(out, options))
}

func lex(src []rune, filename string, origins []lineOrigin, lg logger) (*Program, error) {
	lg.logSection("Lexing")
	prog, err := newLexer(src, filename, origins, lg).run()
	if err != nil {
		return nil, err
	}
	lg.log("%s", tokenSummary(prog))
	return prog, nil
}

// Process preprocesses and lexes src. Tokens and errors carry the file
// and physical line each statement came from, even when includes or
// macro expansions precede it.
func Process(src []rune, filename string, loader Loader, out io.Writer, options Option) (*Program, error) {
	lg := newLogger(out, options)
	buf, origins, err := preprocess(src, filename, loader, lg)
	if err != nil {
		return nil, err
	}
	return lex(buf, filename, origins, lg)
}

// ProcessFile loads the file at path and processes it.
func ProcessFile(path string, loader Loader, out io.Writer, options Option) (*Program, error) {
	if loader == nil {
		loader = NewFileLoader(nil, false)
	}
	src, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	return Process(src, filepath.Clean(path), loader, out, options)
}
