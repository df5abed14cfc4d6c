// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isa

import "fmt"

// A Pseudo identifies a pseudo-instruction, which a code generator expands
// into one or more native instructions.
type Pseudo byte

// All pseudo-instructions.
const (
	ABS Pseudo = iota
	B
	BEQZ
	BGE
	BGEU
	BGT
	BGTU
	BLE
	BLEU
	BLT
	BLTU
	BNEZ
	LA
	LI
	MOVE
	MULO
	MULOU
	NEG
	NEGU
	NOT
	REM
	REMU
	ROL
	ROR
	SEQ
	SGE
	SGEU
	SGT
	SGTU
	SLE
	SLEU
	SNE
	SUBI
	SUBIU
	ULH
	ULHU
	ULW
	USH
	USW
)

type pseudoData struct {
	pseudo Pseudo
	name   string
	shape  Archetype
}

const (
	branchShapes  = RegRegLabel | RegImmLabel
	compareShapes = RegRegReg | RegRegImm
)

var pseudos = []pseudoData{
	{ABS, "abs", RegReg},
	{B, "b", Label | LabelImm},
	{BEQZ, "beqz", RegLabel},
	{BGE, "bge", branchShapes},
	{BGEU, "bgeu", branchShapes},
	{BGT, "bgt", branchShapes},
	{BGTU, "bgtu", branchShapes},
	{BLE, "ble", branchShapes},
	{BLEU, "bleu", branchShapes},
	{BLT, "blt", branchShapes},
	{BLTU, "bltu", branchShapes},
	{BNEZ, "bnez", RegLabel},
	{LA, "la", memShapes},
	{LI, "li", RegImm},
	{MOVE, "move", RegReg},
	{MULO, "mulo", compareShapes},
	{MULOU, "mulou", compareShapes},
	{NEG, "neg", RegReg},
	{NEGU, "negu", RegReg},
	{NOT, "not", RegReg},
	{REM, "rem", compareShapes},
	{REMU, "remu", compareShapes},
	{ROL, "rol", compareShapes},
	{ROR, "ror", compareShapes},
	{SEQ, "seq", compareShapes},
	{SGE, "sge", compareShapes},
	{SGEU, "sgeu", compareShapes},
	{SGT, "sgt", compareShapes},
	{SGTU, "sgtu", compareShapes},
	{SLE, "sle", compareShapes},
	{SLEU, "sleu", compareShapes},
	{SNE, "sne", compareShapes},
	{SUBI, "subi", RegRegImm},
	{SUBIU, "subiu", RegRegImm},
	{ULH, "ulh", memShapes},
	{ULHU, "ulhu", memShapes},
	{ULW, "ulw", memShapes},
	{USH, "ush", memShapes},
	{USW, "usw", memShapes},
}

func (p Pseudo) String() string {
	if int(p) < len(pseudos) {
		return pseudos[p].name
	}
	return fmt.Sprintf("Pseudo(%d)", p)
}

// Archetypes returns the operand shapes accepted by the pseudo-instruction.
func (p Pseudo) Archetypes() Archetype {
	if int(p) < len(pseudos) {
		return pseudos[p].shape
	}
	return 0
}

// IsPseudo always returns true for pseudo-instructions.
func (p Pseudo) IsPseudo() bool {
	return true
}
