// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"path/filepath"
	"slices"
	"strings"
)

// Limits on nested preprocessing.
const (
	MaxIncludeDepth = 16 // nested .include files
	MaxMacroDepth   = 32 // nested macro expansions
)

// A macro is a named, parameterized block of source lines.
type macro struct {
	name   string
	params []string
	body   [][]rune
	origin lineOrigin
}

// A lineOrigin names the file and physical line a preprocessed line came
// from. Every line of a macro expansion originates at its invocation.
type lineOrigin struct {
	file string
	line int
}

// A preprocessor resolves .include, .eqv and .macro directives. Each pass
// consumes one buffer and produces a new one.
type preprocessor struct {
	logger
	loader     Loader
	file       string
	symbols    map[string][]rune
	macros     map[string][]*macro
	includes   []string // stack of files being included
	expansions int      // count of macro expansions, for label renaming
}

func newPreprocessor(file string, loader Loader, l logger) *preprocessor {
	if loader == nil {
		loader = NewFileLoader(nil, false)
	}
	return &preprocessor{
		logger:  l,
		loader:  loader,
		file:    file,
		symbols: make(map[string][]rune),
		macros:  make(map[string][]*macro),
	}
}

// run returns the preprocessed text of src, along with the origin of each
// of its lines.
func (p *preprocessor) run(src []rune) ([]rune, []lineOrigin, error) {
	p.logSection("Resolving includes")
	buf, origins, err := p.resolveIncludes(src, p.file, 0)
	if err != nil {
		return nil, nil, err
	}

	p.logSection("Collecting definitions")
	buf, err = p.collectDefinitions(buf, origins)
	if err != nil {
		return nil, nil, err
	}

	p.logSection("Expanding macros")
	return p.expandMacros(buf, origins)
}

// splitLines splits buf on newlines. Joining the result with newlines
// reproduces buf exactly.
func splitLines(buf []rune) [][]rune {
	var lines [][]rune
	for {
		i := slices.Index(buf, '\n')
		if i < 0 {
			return append(lines, buf)
		}
		lines = append(lines, buf[:i])
		buf = buf[i+1:]
	}
}

// directiveAt returns the lowercased directive name (including its leading
// period) starting at index i, and the index following it. It returns an
// empty name if no directive starts at i.
func directiveAt(line []rune, i int) (string, int) {
	if i >= len(line) || line[i] != '.' {
		return "", i
	}
	end := scanWhile(line, i+1, identChar)
	return strings.ToLower(string(line[i:end])), end
}

// codeEnd returns the index of the comment that ends the code portion of
// line, or the length of line if there is none.
func codeEnd(line []rune) int {
	var st literalState
	for i, c := range line {
		if st.step(c) == classComment {
			return i
		}
	}
	return len(line)
}

//
// include resolution
//

func (p *preprocessor) resolveIncludes(src []rune, file string, depth int) ([]rune, []lineOrigin, error) {
	if depth > MaxIncludeDepth {
		return nil, nil, newError(RecursionLimit, "include depth exceeds %d", MaxIncludeDepth).at(file, 0, 0, "")
	}
	if file != "" {
		file = filepath.Clean(file)
	}
	if slices.Contains(p.includes, file) {
		chain := strings.Join(append(slices.Clone(p.includes), file), " -> ")
		return nil, nil, newError(RecursionLimit, "include cycle: %s", chain).at(file, 0, 0, "")
	}
	p.includes = append(p.includes, file)
	defer func() { p.includes = p.includes[:len(p.includes)-1] }()

	lines := splitLines(src)
	out := make([]rune, 0, len(src))
	origins := make([]lineOrigin, 0, len(lines))
	for n, line := range lines {
		if n > 0 {
			out = append(out, '\n')
		}

		here := lineOrigin{file, n + 1}
		start := scanWhile(line, 0, whitespace)
		word, i := directiveAt(line, start)
		if word != ".include" {
			out = append(out, line...)
			origins = append(origins, here)
			continue
		}

		name, end, err := includeName(line, i)
		if err != nil {
			return nil, nil, err.at(file, n+1, i+1, string(line))
		}

		path := name
		if r, ok := p.loader.(Resolver); ok {
			path = r.Resolve(name, filepath.Dir(file))
		}
		p.log("%-3d include '%s' from '%s'", n+1, path, file)

		text, lerr := p.loader.Load(path)
		if lerr != nil {
			if e, ok := lerr.(*Error); ok {
				return nil, nil, e.at(file, n+1, start+1, string(line))
			}
			return nil, nil, newError(FileRead, "%v", lerr).at(file, n+1, start+1, string(line))
		}

		text, sub, lerr := p.resolveIncludes(text, path, depth+1)
		if lerr != nil {
			return nil, nil, lerr
		}

		// The remainder of the .include line joins the included text's
		// last line. When that line is empty the joined line belongs to
		// the including file.
		if len(text) == 0 || text[len(text)-1] == '\n' {
			sub[len(sub)-1] = here
		}
		out = append(out, line[:start]...)
		out = append(out, text...)
		out = append(out, line[end:]...)
		origins = append(origins, sub...)
	}
	return out, origins, nil
}

// includeName parses the quoted file name following an .include directive.
// It returns the name and the index following the closing quote.
func includeName(line []rune, i int) (string, int, *Error) {
	i = scanWhile(line, i, whitespace)
	if i >= len(line) || line[i] != '"' {
		return "", i, newError(InvalidSyntax, ".include requires a quoted file name")
	}
	end := scanUntil(line, i+1, func(c rune) bool { return c == '"' })
	if end >= len(line) {
		return "", i, newError(InvalidSyntax, "unterminated file name")
	}
	name := string(line[i+1 : end])
	if name == "" {
		return "", i, newError(InvalidSyntax, "empty file name")
	}
	return name, end + 1, nil
}

//
// .eqv and .macro definitions
//

// collectDefinitions records .eqv symbols and macro bodies, and applies
// symbol substitution to all other lines. Definition lines are blanked so
// that origins remain aligned with lines.
func (p *preprocessor) collectDefinitions(buf []rune, origins []lineOrigin) ([]rune, error) {
	lines := splitLines(buf)
	out := make([]rune, 0, len(buf))

	var cur *macro
	for n, line := range lines {
		at := originOf(origins, n)
		if n > 0 {
			out = append(out, '\n')
		}

		start := scanWhile(line, 0, whitespace)
		word, i := directiveAt(line, start)

		if cur != nil {
			switch word {
			case ".end_macro":
				p.addMacro(cur)
				cur = nil
			case ".macro":
				return nil, p.errorAt(newError(InvalidSyntax, "nested macro definition"), line, at, start)
			default:
				cur.body = append(cur.body, p.substitute(line, p.symbols))
			}
			continue
		}

		switch word {
		case ".eqv":
			if err := p.parseEqv(line, i); err != nil {
				return nil, p.errorAt(err, line, at, start)
			}
		case ".macro":
			m, err := parseMacroHeader(line, i)
			if err != nil {
				return nil, p.errorAt(err, line, at, start)
			}
			m.origin = at
			if p.findMacro(m.name, len(m.params)) != nil {
				return nil, p.errorAt(newError(InvalidSyntax, "macro '%s' with %d parameters redefined", m.name, len(m.params)), line, at, start)
			}
			cur = m
		case ".end_macro":
			return nil, p.errorAt(newError(InvalidSyntax, ".end_macro without .macro"), line, at, start)
		default:
			out = append(out, p.substitute(line, p.symbols)...)
		}
	}

	if cur != nil {
		return nil, newError(InvalidSyntax, "macro '%s' is missing .end_macro", cur.name).at(cur.origin.file, cur.origin.line, 1, "")
	}
	return out, nil
}

func (p *preprocessor) errorAt(e *Error, line []rune, at lineOrigin, col int) *Error {
	return e.at(at.file, at.line, col+1, string(line))
}

// originOf returns the origin of line n, counting from zero. Lines beyond
// the table fall back to their position in the buffer.
func originOf(origins []lineOrigin, n int) lineOrigin {
	if n < len(origins) {
		return origins[n]
	}
	return lineOrigin{line: n + 1}
}

// parseEqv parses the remainder of a ".eqv SYMBOL replacement" line.
func (p *preprocessor) parseEqv(line []rune, i int) *Error {
	i = scanWhile(line, i, whitespace)
	end := scanWhile(line, i, identChar)
	sym := string(line[i:end])
	if !isIdentifier(sym) {
		return newError(InvalidSyntax, ".eqv requires a symbol name")
	}
	if _, found := p.symbols[sym]; found {
		return newError(InvalidSyntax, "symbol '%s' redefined", sym)
	}

	text := line[end:codeEnd(line)]
	text = text[scanWhile(text, 0, whitespace):]
	for len(text) > 0 && whitespace(text[len(text)-1]) {
		text = text[:len(text)-1]
	}
	if len(text) == 0 {
		return newError(InvalidSyntax, ".eqv '%s' has no replacement text", sym)
	}

	p.symbols[sym] = p.substitute(text, p.symbols)
	p.log("eqv %s = %s", sym, string(p.symbols[sym]))
	return nil
}

// parseMacroHeader parses the remainder of a ".macro name params" line.
// Parameters may be parenthesized, and are separated by commas or
// whitespace.
func parseMacroHeader(line []rune, i int) (*macro, *Error) {
	i = scanWhile(line, i, whitespace)
	end := scanWhile(line, i, identChar)
	name := string(line[i:end])
	if !isIdentifier(name) {
		return nil, newError(InvalidSyntax, ".macro requires a name")
	}

	text := strings.TrimSpace(string(line[end:codeEnd(line)]))
	if strings.HasPrefix(text, "(") {
		if !strings.HasSuffix(text, ")") {
			return nil, newError(InvalidSyntax, "unterminated parameter list")
		}
		text = text[1 : len(text)-1]
	}
	if strings.ContainsAny(text, "()") {
		return nil, newError(InvalidSyntax, "unexpected parenthesis in parameter list")
	}

	m := &macro{name: name}
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	for _, field := range strings.Split(text, ",") {
		params := strings.Fields(field)
		if len(params) == 0 {
			return nil, newError(InvalidSyntax, "empty parameter name")
		}
		for _, param := range params {
			switch {
			case param == "%" || param == "$":
				return nil, newError(InvalidSyntax, "empty parameter name")
			case param[0] != '%' && param[0] != '$':
				return nil, newError(InvalidSyntax, "parameter '%s' must begin with '%%' or '$'", param)
			case slices.Contains(m.params, param):
				return nil, newError(InvalidSyntax, "duplicate parameter '%s'", param)
			}
			m.params = append(m.params, param)
		}
	}
	return m, nil
}

func (p *preprocessor) addMacro(m *macro) {
	p.macros[m.name] = append(p.macros[m.name], m)
	p.log("macro %s(%s) with %d lines", m.name, strings.Join(m.params, ","), len(m.body))
}

func (p *preprocessor) findMacro(name string, arity int) *macro {
	for _, m := range p.macros[name] {
		if len(m.params) == arity {
			return m
		}
	}
	return nil
}

// substitute replaces each whole word of line found in table. Words inside
// string and character literals are left alone; words inside comments are
// replaced. Replacement text is not rescanned.
func (p *preprocessor) substitute(line []rune, table map[string][]rune) []rune {
	if len(table) == 0 {
		return slices.Clone(line)
	}

	var st literalState
	out := make([]rune, 0, len(line))
	for i := 0; i < len(line); {
		if st.inLiteral() || !wordChar(line[i]) {
			st.step(line[i])
			out = append(out, line[i])
			i++
			continue
		}
		word, end := wordAt(line, i)
		if r, ok := table[word]; ok {
			out = append(out, r...)
		} else {
			out = append(out, line[i:end]...)
		}
		i = end
	}
	return out
}

// splitArgs splits text into arguments separated by whitespace, commas and
// parentheses. A quoted literal is kept whole, separators included.
func splitArgs(text []rune) []string {
	var args []string
	var cur []rune
	var st literalState
	flush := func() {
		if len(cur) > 0 {
			args = append(args, string(cur))
			cur = cur[:0]
		}
	}
	for _, c := range text {
		wasLiteral := st.inLiteral()
		class := st.step(c)
		switch {
		case class == classComment:
			flush()
			return args
		case wasLiteral || class == classLiteral:
			cur = append(cur, c)
		case whitespace(c) || c == ',' || c == '(' || c == ')':
			flush()
		default:
			cur = append(cur, c)
		}
	}
	flush()
	return args
}
