// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isa

import "strconv"

// NumRegisters is the size of the general purpose register file.
const NumRegisters = 32

// Conventional register names, indexed by register number.
var registerNames = [NumRegisters]string{
	"$zero", "$at", "$v0", "$v1",
	"$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9",
	"$k0", "$k1",
	"$gp", "$sp", "$fp", "$ra",
}

var registers = make(map[string]uint8, 2*NumRegisters)

func init() {
	for i, n := range registerNames {
		registers[n] = uint8(i)
		registers["$"+strconv.Itoa(i)] = uint8(i)
	}
}

// Register returns the index of the register with the given name. Both
// conventional names ("$t0") and numeric names ("$8") are accepted.
func Register(name string) (uint8, bool) {
	r, ok := registers[name]
	return r, ok
}

// RegisterName returns the conventional name of register r.
func RegisterName(r uint8) string {
	if int(r) < NumRegisters {
		return registerNames[r]
	}
	return "$" + strconv.Itoa(int(r))
}
