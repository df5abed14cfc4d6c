// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// An ErrorKind classifies an assembly error.
type ErrorKind int

// All error kinds.
const (
	IntegerParsing ErrorKind = iota
	FileNotFound
	FileRead
	EncodingTranslation
	InvalidSyntax
	InvalidInstruction
	InvalidDirective
	InvalidEscapeSequence
	RecursionLimit
)

var kindName = []string{
	"Integer parsing error",
	"File not found",
	"File read error",
	"Encoding translation error",
	"Syntax error",
	"Invalid instruction",
	"Invalid directive",
	"Invalid escape sequence",
	"Recursion limit exceeded",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// An Error describes a failure at a location in the source.
type Error struct {
	Kind   ErrorKind
	File   string // file being processed, if known
	Line   int    // 1-based line number, 0 if unknown
	Column int    // 1-based column, 0 if unknown
	Msg    string
	Source string // text of the offending line
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.File != "" {
		fmt.Fprintf(&b, " in '%s'", e.File)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ", col %d", e.Column)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// Where returns the location of the error: the line number, prefixed by
// the file name when one is known.
func (e *Error) Where() string {
	switch {
	case e.Line == 0:
		return e.File
	case e.File == "":
		return strconv.Itoa(e.Line)
	default:
		return e.File + ":" + strconv.Itoa(e.Line)
	}
}

// Caret returns the offending source line followed by a marker line
// pointing at the error column. It returns an empty string when the
// source line is unknown.
func (e *Error) Caret() string {
	if e.Source == "" {
		return ""
	}
	col := max(e.Column-1, 0)
	col = min(col, len([]rune(e.Source)))
	return e.Source + "\n" + strings.Repeat("-", col) + "^"
}

// KindOf returns the kind of the first *Error found in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// at attaches a location to the error unless it already has one.
func (e *Error) at(file string, line, col int, src string) *Error {
	if e.File == "" {
		e.File = file
	}
	if e.Line == 0 {
		e.Line, e.Column, e.Source = line, col, src
	}
	return e
}
