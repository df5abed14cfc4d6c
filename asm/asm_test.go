// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/beevik/gomips/isa"
)

// A mapLoader serves source files from memory.
type mapLoader map[string]string

func (m mapLoader) Load(path string) ([]rune, error) {
	s, ok := m[path]
	if !ok {
		return nil, &Error{Kind: FileNotFound, File: path, Msg: "unable to open '" + path + "'"}
	}
	return []rune(s), nil
}

func process(code string) (*Program, error) {
	return Process([]rune(code), "", mapLoader{}, io.Discard, 0)
}

func tokenStrings(p *Program) string {
	s := make([]string, len(p.Tokens))
	for i, t := range p.Tokens {
		s[i] = t.String()
	}
	return strings.Join(s, "; ")
}

func checkTokens(t *testing.T, code string, expected string) {
	t.Helper()
	prog, err := process(code)
	if err != nil {
		t.Error(err)
		return
	}
	if s := tokenStrings(prog); s != expected {
		t.Error("tokens don't match expected")
		t.Errorf("got: %s\n", s)
		t.Errorf("exp: %s\n", expected)
	}
}

func checkError(t *testing.T, code string, kind ErrorKind, where string) *Error {
	t.Helper()
	_, err := process(code)
	if err == nil {
		t.Errorf("Expected error on %q, didn't get one\n", code)
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		t.Errorf("Expected *Error, got %T\n", err)
		return nil
	}
	if e.Kind != kind {
		t.Errorf("Expected %s, got '%v'\n", kind, err)
	}
	if where != "" && e.Where() != where {
		t.Errorf("Expected location %s, got %s\n", where, e.Where())
	}
	return e
}

func TestInstructions(t *testing.T) {
	asm := `
	add $t0, $t1, $t2
	addi $sp, $sp, -8
	lw $ra, 4($sp)
	sw $s0, ($sp)
	beq $t0, $zero, done
	j done
	jr $ra
	syscall
	li $v0, 0x0A
	la $a0, msg+4
done:`

	checkTokens(t, asm, "add $t0, $t1, $t2; addi $sp, $sp, -8; lw $ra, 4($sp); "+
		"sw $s0, ($sp); beq $t0, $zero, done; j done; jr $ra; syscall; "+
		"li $v0, 10; la $a0, msg+4; done:")
}

func TestJalrLink(t *testing.T) {
	checkTokens(t, "jalr $t0\njalr $t1, $t0", "jalr $ra, $t0; jalr $t1, $t0")

	prog, err := process("jalr $s1")
	if err != nil {
		t.Fatal(err)
	}
	p := prog.Instructions()[0].Params
	if p.Archetype != isa.RegReg || p.Archetype.Registers() != 2 {
		t.Errorf("jalr $s1 has archetype %v", p.Archetype)
	}
}

func TestStatementSeparators(t *testing.T) {
	asm := `loop: addu $8, $9, $10 ; nop # trailing; comment
	LI $A0, 1`

	_, err := process(asm)
	if err == nil {
		t.Fatal("expected unknown register $A0")
	}

	checkTokens(t, "loop: addu $8, $9, $10 ; nop # trailing; comment\nLI $a0, 1",
		"loop:; addu $t0, $t1, $t2; nop; li $a0, 1")
}

func TestDataDirectives(t *testing.T) {
	asm := `
	.data
msg:	.asciiz "hi\n"
	.word 1, -1, 0x10, msg
	.half 7:3
	.byte 'a', '\n', 255
	.space 8
	.align 2
	.globl main, msg
	.extern buf 16
	.text 0x00400000`

	checkTokens(t, asm, `.data; msg:; .asciiz "hi\n\x00"; .word 1, -1, 16, msg; `+
		`.half 7, 7, 7; .byte 97, 10, 255; .space 8; .align 2; .globl main, msg; `+
		`.extern buf, 16; .text 4194304`)
}

func TestCharacterRepeat(t *testing.T) {
	checkTokens(t, ".byte 'a':3", ".byte 97, 97, 97")
	checkTokens(t, ".byte ':'", ".byte 58")
	checkTokens(t, ".byte ':':2, '\\'':2", ".byte 58, 58, 39, 39")
	checkError(t, ".byte 'a':0", InvalidSyntax, "1")
}

func TestStringDirectives(t *testing.T) {
	checkTokens(t, `.ascii "a;b#c", "\t\"q\""`, `.ascii "a;b#c\t\"q\""`)
	checkTokens(t, `.ascii "it's"`, `.ascii "it's"`)
	checkTokens(t, `.asciiz ""`, `.asciiz "\x00"`)
	checkTokens(t, `.float 1.5, -2`, `.float 1.5, -2`)
	checkTokens(t, `.set noreorder`, `.set noreorder`)
}

func TestLabelResolution(t *testing.T) {
	prog, err := process(`
start:	j end
	beq $t0, $t1, start
	la $a0, missing
end:	nop`)
	if err != nil {
		t.Fatal(err)
	}

	insts := prog.Instructions()
	if len(insts) != 4 {
		t.Fatalf("expected 4 instructions, got %d", len(insts))
	}
	if i := insts[0].Params.LabelIndex; i != prog.Labels["end"] || i != 4 {
		t.Errorf("j end resolved to %d", i)
	}
	if i := insts[1].Params.LabelIndex; i != 0 {
		t.Errorf("beq start resolved to %d", i)
	}
	if i := insts[2].Params.LabelIndex; i != -1 {
		t.Errorf("missing label resolved to %d", i)
	}
	if i := insts[3].Params.LabelIndex; i != -1 {
		t.Errorf("nop has label index %d", i)
	}
	if insts[3].Row != 5 {
		t.Errorf("nop on line %d", insts[3].Row)
	}
}

func TestLineAttribution(t *testing.T) {
	e := checkError(t, "\n\n# comment\n\tnop\n\tfrobnicate $t0\n", InvalidSyntax, "5")
	if e != nil && !strings.Contains(e.Error(), "frobnicate") {
		t.Errorf("error does not name the word: %v", e)
	}
	if e != nil && e.Column != 2 {
		t.Errorf("expected column 2, got %d", e.Column)
	}
}

func TestLineAttributionAfterMacro(t *testing.T) {
	code := ".macro two\nnop\nnop\n.end_macro\ntwo\nfrobnicate $t0\n"
	checkError(t, code, InvalidSyntax, "6")

	prog, err := process(".macro two\nnop\nnop\n.end_macro\ntwo\nsyscall\n")
	if err != nil {
		t.Fatal(err)
	}
	rows := []int{5, 5, 6}
	for i, inst := range prog.Instructions() {
		if inst.Row != rows[i] {
			t.Errorf("instruction %d (%s) on line %d, exp %d", i, inst, inst.Row, rows[i])
		}
	}
}

func TestLineAttributionAfterInclude(t *testing.T) {
	files := mapLoader{"x.asm": "nop\nnop\nnop\n"}
	_, err := Process([]rune(".include \"x.asm\"\nfrobnicate $t0"), "main.asm", files, io.Discard, 0)
	if e, ok := err.(*Error); !ok || e.Where() != "main.asm:2" {
		t.Errorf("expected error at main.asm:2, got %v", err)
	}

	files["x.asm"] = "nop\nnop\nfrobnicate $t0"
	_, err = Process([]rune("nop\n.include \"x.asm\"\nnop"), "main.asm", files, io.Discard, 0)
	if e, ok := err.(*Error); !ok || e.Where() != "x.asm:3" {
		t.Errorf("expected error at x.asm:3, got %v", err)
	}

	files["x.asm"] = ".eqv N 1\n.macro m\nli $t0, N\nli $t1, N\n.end_macro\n"
	_, err = Process([]rune(".include \"x.asm\"\nm\n.end_macro"), "main.asm", files, io.Discard, 0)
	if e, ok := err.(*Error); !ok || e.Where() != "main.asm:3" {
		t.Errorf("expected error at main.asm:3, got %v", err)
	}
}

func TestLexErrors(t *testing.T) {
	checkError(t, ".bogus 1", InvalidDirective, "1")
	checkError(t, "nop\n.end_macro", InvalidSyntax, "2")
	checkError(t, "5 add", InvalidSyntax, "1")
	checkError(t, "add $t0, $t1", InvalidInstruction, "1")
	checkError(t, "add $t0, $t1, $t10", InvalidSyntax, "1")
	checkError(t, "li $t0, 0x123456789", IntegerParsing, "1")
	checkError(t, "li $t0, 4294967296", IntegerParsing, "1")
	checkError(t, "loop:\nloop:", InvalidSyntax, "2")
	checkError(t, ".align 5", InvalidSyntax, "1")
	checkError(t, ".byte 256", IntegerParsing, "1")
	checkError(t, ".half lbl", InvalidSyntax, "1")
	checkError(t, `.ascii "bad\q"`, InvalidEscapeSequence, "1")
	checkError(t, `.ascii "open`, InvalidSyntax, "1")
	checkError(t, "@", InvalidSyntax, "1")
	checkError(t, "nop $t0", InvalidInstruction, "1")
}

func TestLeftoverPreprocessorDirective(t *testing.T) {
	_, err := Lex([]rune(".eqv X 1"), "", io.Discard, 0)
	if k, _ := KindOf(err); k != InvalidDirective {
		t.Errorf("expected invalid directive, got %v", err)
	}
}

func TestVerbose(t *testing.T) {
	var buf bytes.Buffer
	_, err := Process([]rune(".eqv N 3\nli $t0, N\n"), "v.asm", mapLoader{}, &buf, Verbose)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"-- Lexing --", "eqv N = 3", "li $t0, 3", "1 instruction"} {
		if !strings.Contains(out, s) {
			t.Errorf("verbose output missing %q:\n%s", s, out)
		}
	}
}
