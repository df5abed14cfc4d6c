// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isa

import (
	"fmt"
	"strings"
)

// A Directive identifies an assembler directive.
type Directive byte

// All directives.
const (
	DirAlign Directive = iota
	DirASCII
	DirASCIIZ
	DirByte
	DirData
	DirDouble
	DirEndMacro
	DirEqv
	DirExtern
	DirFloat
	DirGlobl
	DirHalf
	DirInclude
	DirKData
	DirKText
	DirMacro
	DirSet
	DirSpace
	DirText
	DirWord
)

var directiveNames = []string{
	".align",
	".ascii",
	".asciiz",
	".byte",
	".data",
	".double",
	".end_macro",
	".eqv",
	".extern",
	".float",
	".globl",
	".half",
	".include",
	".kdata",
	".ktext",
	".macro",
	".set",
	".space",
	".text",
	".word",
}

var directives map[string]Directive

func init() {
	directives = make(map[string]Directive, len(directiveNames))
	for i, n := range directiveNames {
		if _, found := directives[n]; found {
			panic("duplicate directive spelling: " + n)
		}
		directives[n] = Directive(i)
	}
}

func (d Directive) String() string {
	if int(d) < len(directiveNames) {
		return directiveNames[d]
	}
	return fmt.Sprintf("Directive(%d)", d)
}

// Preprocessor returns true for directives that are consumed before lexing.
func (d Directive) Preprocessor() bool {
	switch d {
	case DirEqv, DirInclude, DirMacro, DirEndMacro:
		return true
	default:
		return false
	}
}

// LookupDirective returns the directive spelled name, including its
// leading period. The lookup is case-insensitive.
func LookupDirective(name string) (Directive, bool) {
	d, ok := directives[strings.ToLower(name)]
	return d, ok
}
