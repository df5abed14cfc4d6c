// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/gomips/isa"
)

type directiveData struct {
	fn    func(d *Directive, args []rune, param any) *Error
	param any
}

// Data directive widths, in bytes.
type dataWidth int

var directiveParsers = map[isa.Directive]directiveData{
	isa.DirAlign:  {fn: parseAlign},
	isa.DirASCII:  {fn: parseASCII, param: false},
	isa.DirASCIIZ: {fn: parseASCII, param: true},
	isa.DirByte:   {fn: parseData, param: dataWidth(1)},
	isa.DirData:   {fn: parseSection},
	isa.DirDouble: {fn: parseFloat, param: 64},
	isa.DirExtern: {fn: parseExtern},
	isa.DirFloat:  {fn: parseFloat, param: 32},
	isa.DirGlobl:  {fn: parseGlobl},
	isa.DirHalf:   {fn: parseData, param: dataWidth(2)},
	isa.DirKData:  {fn: parseSection},
	isa.DirKText:  {fn: parseSection},
	isa.DirSet:    {fn: parseSet},
	isa.DirSpace:  {fn: parseSpace},
	isa.DirText:   {fn: parseSection},
	isa.DirWord:   {fn: parseData, param: dataWidth(4)},
}

// Escape sequences accepted in string and character literals.
var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
	'b':  '\b',
	'f':  '\f',
	'v':  '\v',
}

// parseDirective parses the argument text of directive dir.
func parseDirective(dir isa.Directive, args []rune) (*Directive, *Error) {
	data, ok := directiveParsers[dir]
	if !ok {
		return nil, newError(InvalidDirective, "unexpected directive '%s'", dir)
	}
	d := &Directive{Directive: dir}
	if err := data.fn(d, args, data.param); err != nil {
		return nil, err
	}
	return d, nil
}

func parseData(d *Directive, args []rune, param any) *Error {
	width := param.(dataWidth)
	items := splitArgs(args)
	if len(items) == 0 {
		return newError(InvalidSyntax, "%s requires at least one value", d.Directive)
	}

	for _, item := range items {
		text, count := item, int64(1)
		if i := repeatIndex(item); i >= 0 {
			var err *Error
			text = item[:i]
			count, err = parseInteger(item[i+1:])
			if err != nil {
				return err
			}
			if count <= 0 {
				return newError(InvalidSyntax, "invalid repeat count in '%s'", item)
			}
		}

		v, err := parseDataValue(text, width)
		if err != nil {
			return err
		}
		for ; count > 0; count-- {
			d.Values = append(d.Values, v)
		}
	}
	return nil
}

// repeatIndex returns the index of the ':' that separates a data value
// from its repeat count, or -1 if item has no repeat count. A colon inside
// a character literal does not count.
func repeatIndex(item string) int {
	start := 1
	if item[0] == '\'' {
		for start < len(item) && item[start] != '\'' {
			if item[start] == '\\' {
				start++
			}
			start++
		}
		if start >= len(item) {
			return -1
		}
	}
	i := strings.LastIndexByte(item, ':')
	if i < start {
		return -1
	}
	return i
}

func parseDataValue(s string, width dataWidth) (Value, *Error) {
	switch {
	case s == "":
		return Value{}, newError(InvalidSyntax, "missing value")

	case s[0] == '\'':
		c, err := parseCharLiteral(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Int: int64(c)}, nil

	case isIdentifier(s):
		if width != 4 {
			return Value{}, newError(InvalidSyntax, "label '%s' is only allowed in .word", s)
		}
		return Value{Label: s}, nil
	}

	v, err := parseInteger(s)
	if err != nil {
		return Value{}, err
	}
	bits := 8 * int(width)
	lo, hi := -(int64(1) << (bits - 1)), int64(1)<<bits-1
	if v < lo || v > hi {
		return Value{}, newError(IntegerParsing, "value '%s' does not fit in %d bits", s, bits)
	}
	return Value{Int: v}, nil
}

// parseCharLiteral parses a quoted character literal such as 'a' or '\n'.
func parseCharLiteral(s string) (rune, *Error) {
	r := []rune(s)
	if len(r) < 3 || r[0] != '\'' || r[len(r)-1] != '\'' {
		return 0, newError(InvalidSyntax, "invalid character literal %s", s)
	}
	body := r[1 : len(r)-1]
	switch {
	case len(body) == 1 && body[0] != '\\':
		return body[0], nil
	case len(body) == 2 && body[0] == '\\':
		c, ok := escapes[body[1]]
		if !ok {
			return 0, newError(InvalidEscapeSequence, "invalid escape sequence '\\%c'", body[1])
		}
		return c, nil
	default:
		return 0, newError(InvalidSyntax, "invalid character literal %s", s)
	}
}

func parseASCII(d *Directive, args []rune, param any) *Error {
	terminate := param.(bool)

	i := scanWhile(args, 0, whitespace)
	if i >= len(args) {
		return newError(InvalidSyntax, "%s requires a string", d.Directive)
	}

	for i < len(args) {
		if args[i] != '"' {
			return newError(InvalidSyntax, "expected quoted string")
		}
		s, end, err := decodeString(args, i+1)
		if err != nil {
			return err
		}
		d.Bytes = append(d.Bytes, s...)
		if terminate {
			d.Bytes = append(d.Bytes, 0)
		}

		i = scanWhile(args, end, whitespace)
		if i < len(args) {
			if args[i] != ',' {
				return newError(InvalidSyntax, "unexpected text after string")
			}
			i = scanWhile(args, i+1, whitespace)
			if i >= len(args) {
				return newError(InvalidSyntax, "missing string after ','")
			}
		}
	}
	return nil
}

// decodeString decodes the body of a double-quoted string starting at
// index i, just past the opening quote. It returns the UTF-8 encoded
// contents and the index following the closing quote.
func decodeString(buf []rune, i int) ([]byte, int, *Error) {
	var b []byte
	for ; i < len(buf); i++ {
		c := buf[i]
		switch {
		case c == '"':
			return b, i + 1, nil
		case c == '\\':
			if i+1 >= len(buf) {
				return nil, i, newError(InvalidSyntax, "unterminated string")
			}
			i++
			e, ok := escapes[buf[i]]
			if !ok {
				return nil, i, newError(InvalidEscapeSequence, "invalid escape sequence '\\%c'", buf[i])
			}
			b = append(b, byte(e))
		default:
			b = utf8.AppendRune(b, c)
		}
	}
	return nil, i, newError(InvalidSyntax, "unterminated string")
}

// singleInteger parses argument text holding exactly one integer.
func singleInteger(d *Directive, args []rune) (int64, *Error) {
	items := splitArgs(args)
	if len(items) != 1 {
		return 0, newError(InvalidSyntax, "%s requires one value", d.Directive)
	}
	return parseInteger(items[0])
}

func parseSpace(d *Directive, args []rune, param any) *Error {
	n, err := singleInteger(d, args)
	if err != nil {
		return err
	}
	if n < 0 || n > math.MaxUint32 {
		return newError(IntegerParsing, ".space size %d out of range", n)
	}
	d.Values = []Value{{Int: n}}
	return nil
}

func parseAlign(d *Directive, args []rune, param any) *Error {
	n, err := singleInteger(d, args)
	if err != nil {
		return err
	}
	if n < 0 || n > 3 {
		return newError(InvalidSyntax, ".align value must be between 0 and 3")
	}
	d.Values = []Value{{Int: n}}
	return nil
}

// parseSection handles .data, .text, .kdata and .ktext, each with an
// optional base address.
func parseSection(d *Directive, args []rune, param any) *Error {
	items := splitArgs(args)
	switch len(items) {
	case 0:
		return nil
	case 1:
		addr, err := parseInteger(items[0])
		if err != nil {
			return err
		}
		if addr < 0 || addr > math.MaxUint32 {
			return newError(IntegerParsing, "address '%s' out of range", items[0])
		}
		d.Values = []Value{{Int: addr}}
		return nil
	default:
		return newError(InvalidSyntax, "%s takes at most one address", d.Directive)
	}
}

func parseGlobl(d *Directive, args []rune, param any) *Error {
	items := splitArgs(args)
	if len(items) == 0 {
		return newError(InvalidSyntax, ".globl requires a symbol")
	}
	for _, s := range items {
		if !isIdentifier(s) {
			return newError(InvalidSyntax, "invalid symbol '%s'", s)
		}
	}
	d.Symbols = items
	return nil
}

func parseExtern(d *Directive, args []rune, param any) *Error {
	items := splitArgs(args)
	if len(items) != 2 {
		return newError(InvalidSyntax, ".extern requires a symbol and a size")
	}
	if !isIdentifier(items[0]) {
		return newError(InvalidSyntax, "invalid symbol '%s'", items[0])
	}
	size, err := parseInteger(items[1])
	if err != nil {
		return err
	}
	if size <= 0 {
		return newError(InvalidSyntax, ".extern size must be positive")
	}
	d.Symbols = items[:1]
	d.Values = []Value{{Int: size}}
	return nil
}

func parseFloat(d *Directive, args []rune, param any) *Error {
	bits := param.(int)
	items := splitArgs(args)
	if len(items) == 0 {
		return newError(InvalidSyntax, "%s requires at least one value", d.Directive)
	}
	for _, s := range items {
		f, err := strconv.ParseFloat(s, bits)
		if err != nil {
			return newError(IntegerParsing, "invalid floating point value '%s'", s)
		}
		d.Values = append(d.Values, Value{Float: f})
	}
	return nil
}

func parseSet(d *Directive, args []rune, param any) *Error {
	d.Text = strings.TrimSpace(string(args))
	return nil
}
