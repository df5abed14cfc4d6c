// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "unicode"

//
// character helper functions
//

func whitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f' || c == '\ufeff'
}

func newline(c rune) bool {
	return c == '\n'
}

// statementEnd reports whether c terminates a statement.
func statementEnd(c rune) bool {
	return c == '\n' || c == ';'
}

func comment(c rune) bool {
	return c == '#'
}

func alpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func decimal(c rune) bool {
	return c >= '0' && c <= '9'
}

func stringQuote(c rune) bool {
	return c == '"' || c == '\''
}

// Extended code points accepted in identifiers, in addition to ASCII
// letters, digits, underscores and periods.
var extendedRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1}, // miscellaneous symbols, dingbats
		{Lo: 0x2b00, Hi: 0x2bff, Stride: 1}, // arrows and stars
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1faff, Stride: 1}, // emoji blocks
	},
}

func extended(c rune) bool {
	return c > 0x7f && unicode.Is(extendedRanges, c)
}

func identStartChar(c rune) bool {
	return alpha(c) || c == '_' || extended(c)
}

func identChar(c rune) bool {
	return identStartChar(c) || decimal(c) || c == '.'
}

// wordChar reports whether c can be part of a word during whole-word
// substitution. Registers ($t0) and macro parameters (%p) are words.
func wordChar(c rune) bool {
	return identChar(c) || c == '$' || c == '%'
}

// isIdentifier reports whether s is a valid label or symbol name.
func isIdentifier(s string) bool {
	for i, c := range s {
		if i == 0 && !identStartChar(c) {
			return false
		}
		if !identChar(c) {
			return false
		}
	}
	return s != ""
}

//
// buffer scanning functions
//

// scanWhile returns the index of the first rune at or after i for which fn
// returns false.
func scanWhile(buf []rune, i int, fn func(c rune) bool) int {
	for ; i < len(buf) && fn(buf[i]); i++ {
	}
	return i
}

// scanUntil returns the index of the first rune at or after i for which fn
// returns true.
func scanUntil(buf []rune, i int, fn func(c rune) bool) int {
	for ; i < len(buf) && !fn(buf[i]); i++ {
	}
	return i
}

// lineBounds returns the start and end (exclusive, before the newline) of
// the line containing index i.
func lineBounds(buf []rune, i int) (start, end int) {
	start = i
	for start > 0 && buf[start-1] != '\n' {
		start--
	}
	end = scanUntil(buf, i, newline)
	return start, end
}

// lineText returns the full text of the line containing index i.
func lineText(buf []rune, i int) string {
	start, end := lineBounds(buf, i)
	return string(buf[start:end])
}

// wordAt returns the separator-delimited word starting at index i and the
// index following it.
func wordAt(buf []rune, i int) (word string, end int) {
	end = scanWhile(buf, i, wordChar)
	return string(buf[i:end]), end
}

// A literalState tracks whether a forward scan is inside a string or
// character literal, or inside a comment. Literals end at their closing
// quote or at the end of the line; comments end at the end of the line.
type literalState struct {
	quote   rune
	escaped bool
	comment bool
}

// A runeClass describes the context of a rune during a forward scan.
type runeClass byte

const (
	classCode runeClass = iota
	classLiteral
	classComment
)

// step advances the state past c and returns c's class.
func (s *literalState) step(c rune) runeClass {
	switch {
	case c == '\n':
		*s = literalState{}
		return classCode
	case s.comment:
		return classComment
	case s.quote != 0:
		switch {
		case s.escaped:
			s.escaped = false
		case c == '\\':
			s.escaped = true
		case c == s.quote:
			s.quote = 0
		}
		return classLiteral
	case comment(c):
		s.comment = true
		return classComment
	case stringQuote(c):
		s.quote = c
		return classLiteral
	default:
		return classCode
	}
}

// inLiteral returns true if the scan is inside an open literal.
func (s *literalState) inLiteral() bool {
	return s.quote != 0
}
