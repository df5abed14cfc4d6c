// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isa

import "strings"

// An Archetype is a bitmask of legal operand shapes. A single bit
// identifies one shape; an instruction's Archetypes() value is the union of
// every shape it accepts.
type Archetype uint32

// All operand shapes. In the comments, r is a register, i an immediate and
// l a label.
const (
	NoParams             Archetype = 1 << iota // (none)
	Reg                                        // r
	RegReg                                     // r, r
	RegRegReg                                  // r, r, r
	RegRegImm                                  // r, r, i
	RegRegLabel                                // r, r, l
	RegImm                                     // r, i
	RegImmLabel                                // r, i, l
	RegLabel                                   // r, l
	RegLabelImm                                // r, l±i
	RegOffsetReg                               // r, i(r)
	RegParenReg                                // r, (r)
	RegLabelOffsetReg                          // r, l(r)
	RegLabelImmOffsetReg                       // r, l±i(r)
	Label                                      // l
	LabelImm                                   // l±i
	Imm                                        // i
)

// MatchOrder is the fixed order in which operand shapes are tried against
// an instruction's argument text. More specific shapes come first, and the
// structural fallbacks RegRegReg and NoParams come last.
var MatchOrder = []Archetype{
	RegLabelImmOffsetReg,
	RegLabelOffsetReg,
	RegOffsetReg,
	RegParenReg,
	RegImmLabel,
	RegRegLabel,
	RegRegImm,
	RegLabelImm,
	RegLabel,
	RegImm,
	RegReg,
	LabelImm,
	Label,
	Imm,
	Reg,
	RegRegReg,
	NoParams,
}

var archetypeName = map[Archetype]string{
	NoParams:             "NoParams",
	Reg:                  "Reg",
	RegReg:               "RegReg",
	RegRegReg:            "RegRegReg",
	RegRegImm:            "RegRegImm",
	RegRegLabel:          "RegRegLabel",
	RegImm:               "RegImm",
	RegImmLabel:          "RegImmLabel",
	RegLabel:             "RegLabel",
	RegLabelImm:          "RegLabelImm",
	RegOffsetReg:         "RegOffsetReg",
	RegParenReg:          "RegParenReg",
	RegLabelOffsetReg:    "RegLabelOffsetReg",
	RegLabelImmOffsetReg: "RegLabelImmOffsetReg",
	Label:                "Label",
	LabelImm:             "LabelImm",
	Imm:                  "Imm",
}

// Has returns true if every shape in b is also in a.
func (a Archetype) Has(b Archetype) bool {
	return a&b == b && b != 0
}

// Registers returns the number of register operands the shape carries.
func (a Archetype) Registers() int {
	switch a {
	case Reg, RegImm, RegImmLabel, RegLabel, RegLabelImm:
		return 1
	case RegReg, RegRegImm, RegRegLabel, RegOffsetReg, RegParenReg,
		RegLabelOffsetReg, RegLabelImmOffsetReg:
		return 2
	case RegRegReg:
		return 3
	default:
		return 0
	}
}

func (a Archetype) String() string {
	if n, ok := archetypeName[a]; ok {
		return n
	}
	var names []string
	for _, s := range MatchOrder {
		if a&s != 0 {
			names = append(names, archetypeName[s])
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}
