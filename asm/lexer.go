// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strings"

	"github.com/beevik/gomips/isa"
)

// A lexer walks a preprocessed buffer one statement at a time and produces
// a program's tokens. It is driven by state functions, each of which
// returns the next state.
type lexer struct {
	logger
	file      string
	buf       []rune
	pos       int // current index into buf
	line      int // 1-based line number at pos
	lineStart int // index of the first rune of the current line
	origins   []lineOrigin
	prog      *Program
	err       *Error
}

type stateFn func(l *lexer) stateFn

func newLexer(buf []rune, file string, origins []lineOrigin, lg logger) *lexer {
	return &lexer{
		logger:  lg,
		file:    file,
		buf:     buf,
		line:    1,
		origins: origins,
		prog: &Program{
			File:   file,
			Labels: make(map[string]int),
		},
	}
}

func (l *lexer) run() (*Program, error) {
	for state := lexInitial; state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	l.prog.resolveLabels()
	return l.prog, nil
}

// errorf records an error at index i and stops the lexer.
func (l *lexer) errorf(i int, kind ErrorKind, format string, args ...any) stateFn {
	return l.fail(i, newError(kind, format, args...))
}

func (l *lexer) fail(i int, e *Error) stateFn {
	file, row := l.where()
	l.err = e.at(file, row, i-l.lineStart+1, lineText(l.buf, l.lineStart))
	return nil
}

// where returns the file and physical line the current line came from.
func (l *lexer) where() (string, int) {
	if l.line <= len(l.origins) {
		o := l.origins[l.line-1]
		return o.file, o.line
	}
	return l.file, l.line
}

// row returns the physical line the current line came from.
func (l *lexer) row() int {
	_, row := l.where()
	return row
}

func (l *lexer) emit(t Token, i int) {
	l.prog.Tokens = append(l.prog.Tokens, t)
	if l.verbose {
		l.logLine(l.row(), i-l.lineStart+1, t.String(), lineText(l.buf, l.lineStart))
		if d, ok := t.(*Directive); ok {
			l.logBytes(d.Bytes)
		}
	}
}

// codeEndAt returns the index where the code of the statement starting
// at i ends: the start of a comment, a ';' separator, a newline or the end
// of the buffer. Separators inside literals are ignored.
func (l *lexer) codeEndAt(i int) int {
	var st literalState
	for ; i < len(l.buf); i++ {
		c := l.buf[i]
		if st.step(c) == classCode && statementEnd(c) {
			return i
		}
		if st.comment {
			return i
		}
	}
	return i
}

// lexInitial skips whitespace and statement separators, then branches on
// the first character of the next statement.
func lexInitial(l *lexer) stateFn {
	for l.pos < len(l.buf) {
		c := l.buf[l.pos]
		switch {
		case c == '\n':
			l.pos++
			l.line++
			l.lineStart = l.pos
		case whitespace(c) || c == ';':
			l.pos++
		case comment(c):
			return lexComment
		case c == '.':
			return lexDirective
		case identStartChar(c):
			return lexAlphabetic
		case decimal(c):
			return lexDigit
		default:
			return l.errorf(l.pos, InvalidSyntax, "unexpected character '%c'", c)
		}
	}
	return nil
}

// lexComment skips to the end of the line.
func lexComment(l *lexer) stateFn {
	l.pos = scanUntil(l.buf, l.pos, newline)
	return lexInitial
}

func lexDigit(l *lexer) stateFn {
	word, _ := wordAt(l.buf, l.pos)
	return l.errorf(l.pos, InvalidSyntax, "statement may not begin with a digit: '%s'", word)
}

func lexDirective(l *lexer) stateFn {
	start := l.pos
	_, i := directiveAt(l.buf, start)
	name := string(l.buf[start:i])

	dir, ok := isa.LookupDirective(name)
	if !ok {
		return l.errorf(start, InvalidDirective, "unknown directive '%s'", name)
	}
	if dir.Preprocessor() {
		return l.errorf(start, InvalidDirective, "unexpected %s after preprocessing", dir)
	}

	end := l.codeEndAt(i)
	d, err := parseDirective(dir, l.buf[i:end])
	if err != nil {
		return l.fail(start, err)
	}
	d.Row = l.row()
	l.emit(d, start)

	l.pos = end
	return lexInitial
}

// lexAlphabetic handles a statement starting with a letter: either a label
// definition or an instruction.
func lexAlphabetic(l *lexer) stateFn {
	start := l.pos
	i := scanWhile(l.buf, start, identChar)
	word := string(l.buf[start:i])

	if i < len(l.buf) && l.buf[i] == ':' {
		return l.lexLabel(start, word, i+1)
	}
	return l.lexInstruction(start, word, i)
}

func (l *lexer) lexLabel(start int, name string, next int) stateFn {
	if !isIdentifier(name) {
		return l.errorf(start, InvalidSyntax, "invalid label '%s'", name)
	}
	if _, found := l.prog.Labels[name]; found {
		return l.errorf(start, InvalidSyntax, "label '%s' defined more than once", name)
	}
	l.prog.Labels[name] = len(l.prog.Tokens)
	l.emit(&Label{Name: name, Row: l.row()}, start)

	l.pos = next
	return lexInitial
}

func (l *lexer) lexInstruction(start int, word string, i int) stateFn {
	if i < len(l.buf) && !whitespace(l.buf[i]) && !statementEnd(l.buf[i]) && !comment(l.buf[i]) {
		word, _ = wordAt(l.buf, start)
		return l.errorf(start, InvalidSyntax, "unknown instruction '%s'", word)
	}

	m, ok := isa.LookupMnemonic(word)
	if !ok {
		return l.errorf(start, InvalidSyntax, "unknown instruction '%s'", word)
	}

	end := l.codeEndAt(i)
	params, err := parseInstruction(m, string(l.buf[i:end]))
	if err != nil {
		return l.fail(start, err)
	}
	l.emit(&Instruction{Mnemonic: m, Params: params, Row: l.row()}, start)

	l.pos = end
	return lexInitial
}

// Instruction parsers that adjust the generic operand match.
var instructionParsers = map[isa.Mnemonic]func(p *InstructionParameters){
	// "jalr $rs" links through $ra.
	isa.JALR: func(p *InstructionParameters) {
		if p.Archetype == isa.Reg {
			p.Archetype = isa.RegReg
			p.Regs[0], p.Regs[1] = 31, p.Regs[0]
		}
	},
}

// parseInstruction matches the operand text of mnemonic m.
func parseInstruction(m isa.Mnemonic, text string) (InstructionParameters, *Error) {
	params, err := matchOperands(m, text)
	if err != nil {
		return params, err
	}
	if fn, ok := instructionParsers[m]; ok {
		fn(&params)
	}
	return params, nil
}

// tokenSummary returns a one-line description of a program's tokens.
func tokenSummary(p *Program) string {
	var labels, directives, insts int
	for _, t := range p.Tokens {
		switch t.(type) {
		case *Label:
			labels++
		case *Directive:
			directives++
		case *Instruction:
			insts++
		}
	}
	var b strings.Builder
	b.WriteString(plural(labels, "label"))
	b.WriteString(", ")
	b.WriteString(plural(directives, "directive"))
	b.WriteString(", ")
	b.WriteString(plural(insts, "instruction"))
	return b.String()
}
