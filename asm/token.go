// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/gomips/isa"
)

// A Token is one lexed statement: a *Label, a *Directive or an
// *Instruction.
type Token interface {
	Line() int
	String() string
	token()
}

// A Label marks a symbolic address.
type Label struct {
	Name string
	Row  int
}

// A Value is one item of a data directive. Exactly one of its fields is
// meaningful, depending on the directive.
type Value struct {
	Int   int64
	Float float64
	Label string // label reference, .word only
}

// A Directive is an assembler directive statement and its parsed payload.
type Directive struct {
	Directive isa.Directive
	Values    []Value  // data items, sizes, alignment or section address
	Bytes     []byte   // encoded string data for .ascii and .asciiz
	Symbols   []string // symbol names for .globl and .extern
	Text      string   // raw text for .set
	Row       int
}

// InstructionParameters holds the operands extracted from an instruction
// statement.
type InstructionParameters struct {
	Regs       [3]uint8
	Offset     int32
	Immediate  int32
	LabelIndex int    // index of the label's token in the program, or -1
	Label      string // label text as written
	Archetype  isa.Archetype
}

// An Instruction is a native or pseudo instruction statement.
type Instruction struct {
	Mnemonic isa.Mnemonic
	Params   InstructionParameters
	Row      int
}

func (t *Label) Line() int       { return t.Row }
func (t *Directive) Line() int   { return t.Row }
func (t *Instruction) Line() int { return t.Row }

func (*Label) token()       {}
func (*Directive) token()   {}
func (*Instruction) token() {}

func (t *Label) String() string {
	return t.Name + ":"
}

func (t *Directive) String() string {
	var args []string
	switch t.Directive {
	case isa.DirASCII, isa.DirASCIIZ:
		args = append(args, strconv.Quote(string(t.Bytes)))
	case isa.DirSet:
		args = append(args, t.Text)
	case isa.DirFloat, isa.DirDouble:
		for _, v := range t.Values {
			args = append(args, strconv.FormatFloat(v.Float, 'g', -1, 64))
		}
	default:
		args = append(args, t.Symbols...)
		for _, v := range t.Values {
			if v.Label != "" {
				args = append(args, v.Label)
			} else {
				args = append(args, strconv.FormatInt(v.Int, 10))
			}
		}
	}
	if len(args) == 0 {
		return t.Directive.String()
	}
	return t.Directive.String() + " " + strings.Join(args, ", ")
}

func (t *Instruction) String() string {
	p := &t.Params
	reg := func(i int) string { return isa.RegisterName(p.Regs[i]) }
	label := p.Label

	var ops string
	switch p.Archetype {
	case isa.NoParams:
	case isa.Reg:
		ops = reg(0)
	case isa.RegReg:
		ops = reg(0) + ", " + reg(1)
	case isa.RegRegReg:
		ops = reg(0) + ", " + reg(1) + ", " + reg(2)
	case isa.RegRegImm:
		ops = fmt.Sprintf("%s, %s, %d", reg(0), reg(1), p.Immediate)
	case isa.RegRegLabel:
		ops = reg(0) + ", " + reg(1) + ", " + label
	case isa.RegImm:
		ops = fmt.Sprintf("%s, %d", reg(0), p.Immediate)
	case isa.RegImmLabel:
		ops = fmt.Sprintf("%s, %d, %s", reg(0), p.Immediate, label)
	case isa.RegLabel:
		ops = reg(0) + ", " + label
	case isa.RegLabelImm:
		ops = fmt.Sprintf("%s, %s%+d", reg(0), label, p.Immediate)
	case isa.RegOffsetReg:
		ops = fmt.Sprintf("%s, %d(%s)", reg(0), p.Offset, reg(1))
	case isa.RegParenReg:
		ops = fmt.Sprintf("%s, (%s)", reg(0), reg(1))
	case isa.RegLabelOffsetReg:
		ops = fmt.Sprintf("%s, %s(%s)", reg(0), label, reg(1))
	case isa.RegLabelImmOffsetReg:
		ops = fmt.Sprintf("%s, %s%+d(%s)", reg(0), label, p.Offset, reg(1))
	case isa.Label:
		ops = label
	case isa.LabelImm:
		ops = fmt.Sprintf("%s%+d", label, p.Immediate)
	case isa.Imm:
		ops = strconv.Itoa(int(p.Immediate))
	}

	if ops == "" {
		return t.Mnemonic.String()
	}
	return t.Mnemonic.String() + " " + ops
}

// A Program is the token sequence produced by lexing one translation unit.
type Program struct {
	File   string
	Tokens []Token
	Labels map[string]int // label name to token index
}

// resolveLabels links each instruction's label reference to the index of
// the label's token.
func (p *Program) resolveLabels() {
	for _, t := range p.Tokens {
		inst, ok := t.(*Instruction)
		if !ok {
			continue
		}
		inst.Params.LabelIndex = -1
		if inst.Params.Label == "" {
			continue
		}
		if i, found := p.Labels[inst.Params.Label]; found {
			inst.Params.LabelIndex = i
		}
	}
}

// Instructions returns the program's instruction statements in order.
func (p *Program) Instructions() []*Instruction {
	var insts []*Instruction
	for _, t := range p.Tokens {
		if inst, ok := t.(*Instruction); ok {
			insts = append(insts, inst)
		}
	}
	return insts
}
