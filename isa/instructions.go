// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isa contains the static symbol tables of the MIPS32 assembler:
// native instructions, pseudo-instructions, directives, the operand shapes
// each mnemonic accepts, and the register file's names.
package isa

import (
	"fmt"
	"strings"
)

// A Mnemonic is either a native Instruction or a Pseudo instruction.
type Mnemonic interface {
	String() string        // lower-case spelling
	Archetypes() Archetype // operand shapes accepted by the mnemonic
	IsPseudo() bool        // true for pseudo-instructions
}

// An Instruction identifies a native MIPS32 instruction.
type Instruction byte

// All native instructions.
const (
	ADD Instruction = iota
	ADDI
	ADDIU
	ADDU
	AND
	ANDI
	BEQ
	BGEZ
	BGEZAL
	BGTZ
	BLEZ
	BLTZ
	BLTZAL
	BNE
	BREAK
	CLO
	CLZ
	DIV
	DIVU
	ERET
	J
	JAL
	JALR
	JR
	LB
	LBU
	LH
	LHU
	LL
	LUI
	LW
	LWL
	LWR
	MADD
	MADDU
	MFHI
	MFLO
	MOVN
	MOVZ
	MSUB
	MSUBU
	MTHI
	MTLO
	MUL
	MULT
	MULTU
	NOP
	NOR
	OR
	ORI
	SB
	SC
	SH
	SLL
	SLLV
	SLT
	SLTI
	SLTIU
	SLTU
	SRA
	SRAV
	SRL
	SRLV
	SUB
	SUBU
	SW
	SWL
	SWR
	SYSCALL
	TEQ
	TEQI
	TGE
	TGEI
	TGEIU
	TGEU
	TLT
	TLTI
	TLTIU
	TLTU
	TNE
	TNEI
	XOR
	XORI
)

// Operand shapes shared by the memory access instructions.
const memShapes = RegOffsetReg | RegParenReg | RegImm | RegLabel | RegLabelImm |
	RegLabelOffsetReg | RegLabelImmOffsetReg

type instData struct {
	inst  Instruction
	name  string
	shape Archetype
}

var instructions = []instData{
	{ADD, "add", RegRegReg},
	{ADDI, "addi", RegRegImm},
	{ADDIU, "addiu", RegRegImm},
	{ADDU, "addu", RegRegReg},
	{AND, "and", RegRegReg},
	{ANDI, "andi", RegRegImm},
	{BEQ, "beq", RegRegLabel | RegImmLabel},
	{BGEZ, "bgez", RegLabel},
	{BGEZAL, "bgezal", RegLabel},
	{BGTZ, "bgtz", RegLabel},
	{BLEZ, "blez", RegLabel},
	{BLTZ, "bltz", RegLabel},
	{BLTZAL, "bltzal", RegLabel},
	{BNE, "bne", RegRegLabel | RegImmLabel},
	{BREAK, "break", NoParams | Imm},
	{CLO, "clo", RegReg},
	{CLZ, "clz", RegReg},
	{DIV, "div", RegReg | RegRegReg},
	{DIVU, "divu", RegReg | RegRegReg},
	{ERET, "eret", NoParams},
	{J, "j", Label | LabelImm | Imm},
	{JAL, "jal", Label | LabelImm | Imm},
	{JALR, "jalr", Reg | RegReg},
	{JR, "jr", Reg},
	{LB, "lb", memShapes},
	{LBU, "lbu", memShapes},
	{LH, "lh", memShapes},
	{LHU, "lhu", memShapes},
	{LL, "ll", memShapes},
	{LUI, "lui", RegImm},
	{LW, "lw", memShapes},
	{LWL, "lwl", memShapes},
	{LWR, "lwr", memShapes},
	{MADD, "madd", RegReg},
	{MADDU, "maddu", RegReg},
	{MFHI, "mfhi", Reg},
	{MFLO, "mflo", Reg},
	{MOVN, "movn", RegRegReg},
	{MOVZ, "movz", RegRegReg},
	{MSUB, "msub", RegReg},
	{MSUBU, "msubu", RegReg},
	{MTHI, "mthi", Reg},
	{MTLO, "mtlo", Reg},
	{MUL, "mul", RegRegReg | RegRegImm},
	{MULT, "mult", RegReg},
	{MULTU, "multu", RegReg},
	{NOP, "nop", NoParams},
	{NOR, "nor", RegRegReg},
	{OR, "or", RegRegReg},
	{ORI, "ori", RegRegImm},
	{SB, "sb", memShapes},
	{SC, "sc", memShapes},
	{SH, "sh", memShapes},
	{SLL, "sll", RegRegImm},
	{SLLV, "sllv", RegRegReg},
	{SLT, "slt", RegRegReg},
	{SLTI, "slti", RegRegImm},
	{SLTIU, "sltiu", RegRegImm},
	{SLTU, "sltu", RegRegReg},
	{SRA, "sra", RegRegImm},
	{SRAV, "srav", RegRegReg},
	{SRL, "srl", RegRegImm},
	{SRLV, "srlv", RegRegReg},
	{SUB, "sub", RegRegReg},
	{SUBU, "subu", RegRegReg},
	{SW, "sw", memShapes},
	{SWL, "swl", memShapes},
	{SWR, "swr", memShapes},
	{SYSCALL, "syscall", NoParams},
	{TEQ, "teq", RegReg},
	{TEQI, "teqi", RegImm},
	{TGE, "tge", RegReg},
	{TGEI, "tgei", RegImm},
	{TGEIU, "tgeiu", RegImm},
	{TGEU, "tgeu", RegReg},
	{TLT, "tlt", RegReg},
	{TLTI, "tlti", RegImm},
	{TLTIU, "tltiu", RegImm},
	{TLTU, "tltu", RegReg},
	{TNE, "tne", RegReg},
	{TNEI, "tnei", RegImm},
	{XOR, "xor", RegRegReg},
	{XORI, "xori", RegRegImm},
}

func (i Instruction) String() string {
	if int(i) < len(instructions) {
		return instructions[i].name
	}
	return fmt.Sprintf("Instruction(%d)", i)
}

// Archetypes returns the operand shapes accepted by the instruction.
func (i Instruction) Archetypes() Archetype {
	if int(i) < len(instructions) {
		return instructions[i].shape
	}
	return 0
}

// IsPseudo always returns false for native instructions.
func (i Instruction) IsPseudo() bool {
	return false
}

// Every mnemonic spelling, native and pseudo, maps to exactly one value.
var mnemonics map[string]Mnemonic

func init() {
	mnemonics = make(map[string]Mnemonic, len(instructions)+len(pseudos))
	for i, d := range instructions {
		if d.inst != Instruction(i) {
			panic("instruction table out of order: " + d.name)
		}
		addMnemonic(d.name, d.inst)
	}
	for i, d := range pseudos {
		if d.pseudo != Pseudo(i) {
			panic("pseudo-instruction table out of order: " + d.name)
		}
		addMnemonic(d.name, d.pseudo)
	}
}

func addMnemonic(name string, m Mnemonic) {
	if _, found := mnemonics[name]; found {
		panic("duplicate mnemonic spelling: " + name)
	}
	mnemonics[name] = m
}

// LookupMnemonic returns the native or pseudo instruction spelled name.
// The lookup is case-insensitive.
func LookupMnemonic(name string) (Mnemonic, bool) {
	m, ok := mnemonics[strings.ToLower(name)]
	return m, ok
}

// LookupInstruction returns the native instruction spelled name.
func LookupInstruction(name string) (Instruction, bool) {
	if m, ok := LookupMnemonic(name); ok {
		if i, ok := m.(Instruction); ok {
			return i, true
		}
	}
	return 0, false
}
