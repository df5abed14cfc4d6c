// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/gomips/isa"
)

// An invocation is a source line that calls a macro.
type invocation struct {
	prefix []rune // leading whitespace and label, kept ahead of the body
	macro  *macro
	args   []string
}

// expandMacros replaces every macro invocation in buf with the macro's
// body, expanding nested invocations up to MaxMacroDepth.
func (p *preprocessor) expandMacros(buf []rune, origins []lineOrigin) ([]rune, []lineOrigin, error) {
	if len(p.macros) == 0 {
		return buf, origins, nil
	}
	return p.expandLines(splitLines(buf), origins, 0)
}

// expandLines expands the invocations in lines, where origins[n] is the
// origin of lines[n]. It returns the expanded text and the origin of each
// of its lines.
func (p *preprocessor) expandLines(lines [][]rune, origins []lineOrigin, depth int) ([]rune, []lineOrigin, error) {
	var out []rune
	var outOrigins []lineOrigin
	for n, line := range lines {
		if n > 0 {
			out = append(out, '\n')
		}

		at := originOf(origins, n)
		inv, err := p.parseInvocation(line)
		if err != nil {
			return nil, nil, err.at(at.file, at.line, 1, string(line))
		}
		if inv == nil {
			out = append(out, line...)
			outOrigins = append(outOrigins, at)
			continue
		}

		if depth >= MaxMacroDepth {
			return nil, nil, newError(RecursionLimit, "macro '%s' nested deeper than %d", inv.macro.name, MaxMacroDepth).at(at.file, at.line, 1, string(line))
		}

		p.log("%-3d expand %s(%s)", at.line, inv.macro.name, strings.Join(inv.args, ","))
		body := p.instantiate(inv)
		text, sub, xerr := p.expandLines(body, slices.Repeat([]lineOrigin{at}, len(body)), depth+1)
		if xerr != nil {
			return nil, nil, xerr
		}
		if len(sub) == 0 {
			sub = []lineOrigin{at}
		}
		out = append(out, inv.prefix...)
		out = append(out, text...)
		outOrigins = append(outOrigins, sub...)
	}
	return out, outOrigins, nil
}

// parseInvocation returns the macro invocation on line, or nil if the line
// does not invoke a macro. A mnemonic whose arity matches no macro of the
// same name is treated as an instruction.
func (p *preprocessor) parseInvocation(line []rune) (*invocation, *Error) {
	i := scanWhile(line, 0, whitespace)
	if end := scanWhile(line, i, identChar); end > i && end < len(line) && line[end] == ':' {
		i = scanWhile(line, end+1, whitespace)
	}
	prefix := line[:i]

	end := scanWhile(line, i, identChar)
	name := string(line[i:end])
	candidates, ok := p.macros[name]
	if !ok || (end < len(line) && !whitespace(line[end]) && line[end] != '(' && !comment(line[end])) {
		return nil, nil
	}

	args := splitArgs(line[end:])
	for _, m := range candidates {
		if len(m.params) == len(args) {
			return &invocation{prefix: prefix, macro: m, args: args}, nil
		}
	}

	if _, found := isa.LookupMnemonic(name); found {
		return nil, nil
	}
	return nil, newError(InvalidSyntax, "no macro '%s' takes %d arguments", name, len(args))
}

// instantiate returns the body of the invoked macro with its parameters
// replaced by the arguments. Labels defined in the body are renamed so
// that each expansion defines unique labels.
func (p *preprocessor) instantiate(inv *invocation) [][]rune {
	p.expansions++
	suffix := "_M" + strconv.Itoa(p.expansions)

	table := make(map[string][]rune, len(inv.args))
	for _, line := range inv.macro.body {
		i := scanWhile(line, 0, whitespace)
		end := scanWhile(line, i, identChar)
		if end > i && end < len(line) && line[end] == ':' {
			label := string(line[i:end])
			if isIdentifier(label) {
				table[label] = []rune(label + suffix)
			}
		}
	}
	for i, param := range inv.macro.params {
		table[param] = []rune(inv.args[i])
	}

	body := make([][]rune, len(inv.macro.body))
	for i, line := range inv.macro.body {
		body[i] = p.substitute(line, table)
	}
	return body
}
