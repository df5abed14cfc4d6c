// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/gomips/isa"
)

// An operand is one element of an operand shape.
type operand byte

const (
	opReg         operand = iota // register
	opImm                        // signed immediate
	opOffset                     // signed memory offset
	opLabel                      // label reference
	opLabelImm                   // ±immediate following a label
	opLabelOffset                // ±offset following a label
	opBase                       // parenthesized base register
)

var operandPattern = []string{
	opReg:         `(\$[^\s,()#]*)`,
	opImm:         `([-+]?(?:0[xX][0-9A-Fa-f]+|[0-9]+))`,
	opOffset:      `([-+]?(?:0[xX][0-9A-Fa-f]+|[0-9]+))`,
	opLabel:       `([^\s,()$#"'+\-0-9][^\s,()#"'+\-]*)`,
	opLabelImm:    `([-+]\s*(?:0[xX][0-9A-Fa-f]+|[0-9]+))`,
	opLabelOffset: `([-+]\s*(?:0[xX][0-9A-Fa-f]+|[0-9]+))`,
	opBase:        `\(\s*(\$[^\s,()#]*)\s*\)`,
}

var shapeOperands = map[isa.Archetype][]operand{
	isa.NoParams:             {},
	isa.Reg:                  {opReg},
	isa.RegReg:               {opReg, opReg},
	isa.RegRegReg:            {opReg, opReg, opReg},
	isa.RegRegImm:            {opReg, opReg, opImm},
	isa.RegRegLabel:          {opReg, opReg, opLabel},
	isa.RegImm:               {opReg, opImm},
	isa.RegImmLabel:          {opReg, opImm, opLabel},
	isa.RegLabel:             {opReg, opLabel},
	isa.RegLabelImm:          {opReg, opLabel, opLabelImm},
	isa.RegOffsetReg:         {opReg, opOffset, opBase},
	isa.RegParenReg:          {opReg, opBase},
	isa.RegLabelOffsetReg:    {opReg, opLabel, opBase},
	isa.RegLabelImmOffsetReg: {opReg, opLabel, opLabelOffset, opBase},
	isa.Label:                {opLabel},
	isa.LabelImm:             {opLabel, opLabelImm},
	isa.Imm:                  {opImm},
}

// A shapeMatcher matches the argument text of one operand shape.
type shapeMatcher struct {
	re       *regexp.Regexp
	operands []operand
}

var shapeMatchers = make(map[isa.Archetype]*shapeMatcher, len(shapeOperands))

func init() {
	for shape, ops := range shapeOperands {
		var b strings.Builder
		b.WriteString(`^`)
		for i, op := range ops {
			switch {
			case i == 0:
			case op == opLabelImm || op == opLabelOffset || op == opBase:
				b.WriteString(`\s*`)
			default:
				b.WriteString(`\s*,\s*`)
			}
			b.WriteString(operandPattern[op])
		}
		b.WriteString(`$`)
		shapeMatchers[shape] = &shapeMatcher{
			re:       regexp.MustCompile(b.String()),
			operands: ops,
		}
	}
}

// matchOperands finds the first of the mnemonic's operand shapes, in
// isa.MatchOrder, that matches text, and returns the extracted operands.
// When a shape matches syntactically but an operand cannot be converted
// (an unknown register name, for example), the next shape is tried and the
// conversion error is reported only if no shape succeeds.
func matchOperands(m isa.Mnemonic, text string) (InstructionParameters, *Error) {
	text = strings.TrimSpace(text)
	shapes := m.Archetypes()

	var convErr *Error
	for _, shape := range isa.MatchOrder {
		if !shapes.Has(shape) {
			continue
		}
		sm := shapeMatchers[shape]
		groups := sm.re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		params, err := sm.extract(groups[1:])
		if err != nil {
			if convErr == nil {
				convErr = err
			}
			continue
		}
		params.Archetype = shape
		return params, nil
	}

	if convErr != nil {
		return InstructionParameters{}, convErr
	}
	if text == "" {
		return InstructionParameters{}, newError(InvalidInstruction, "'%s' requires operands (%s)", m, shapes)
	}
	return InstructionParameters{}, newError(InvalidInstruction, "operands '%s' do not match '%s' (%s)", text, m, shapes)
}

func (sm *shapeMatcher) extract(groups []string) (InstructionParameters, *Error) {
	params := InstructionParameters{LabelIndex: -1}
	nreg := 0
	for i, op := range sm.operands {
		s := groups[i]
		switch op {
		case opReg, opBase:
			r, ok := isa.Register(s)
			if !ok {
				return params, newError(InvalidSyntax, "unknown register '%s'", s)
			}
			params.Regs[nreg] = r
			nreg++

		case opImm, opLabelImm:
			v, err := parseImmediate(s)
			if err != nil {
				return params, err
			}
			params.Immediate = v

		case opOffset, opLabelOffset:
			v, err := parseImmediate(s)
			if err != nil {
				return params, err
			}
			params.Offset = v

		case opLabel:
			if !isIdentifier(s) {
				return params, newError(InvalidSyntax, "invalid label '%s'", s)
			}
			params.Label = s
		}
	}
	return params, nil
}

// parseInteger parses a decimal or 0x-prefixed hexadecimal integer with an
// optional sign. Hexadecimal values are limited to 8 digits.
func parseInteger(s string) (int64, *Error) {
	t := strings.Join(strings.Fields(s), "")
	neg := false
	switch {
	case strings.HasPrefix(t, "-"):
		neg, t = true, t[1:]
	case strings.HasPrefix(t, "+"):
		t = t[1:]
	}

	var v int64
	if len(t) > 2 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
		digits := t[2:]
		if len(digits) > 8 {
			return 0, newError(IntegerParsing, "hexadecimal value '%s' exceeds 8 digits", s)
		}
		u, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return 0, newError(IntegerParsing, "invalid hexadecimal value '%s'", s)
		}
		v = int64(u)
	} else {
		u, err := strconv.ParseUint(t, 10, 63)
		if err != nil || t == "" {
			return 0, newError(IntegerParsing, "invalid integer '%s'", s)
		}
		v = int64(u)
	}

	if neg {
		v = -v
	}
	return v, nil
}

// parseImmediate parses a 32-bit immediate. Values from MinInt32 through
// MaxUint32 are accepted; the result holds the value's 32-bit pattern.
func parseImmediate(s string) (int32, *Error) {
	v, err := parseInteger(s)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxUint32 {
		return 0, newError(IntegerParsing, "value '%s' does not fit in 32 bits", s)
	}
	return int32(uint32(v)), nil
}
