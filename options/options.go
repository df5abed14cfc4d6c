// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package options parses the assembler's command line into a set of typed
// option values.
package options

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

// A Kind identifies the type held by a Value.
type Kind byte

// All value kinds.
const (
	Bool Kind = iota
	Int
	String
	StringList
)

var kindName = []string{"bool", "int", "string", "list"}

func (k Kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// A Value is an option value of one of the four kinds. Accessors for a
// kind other than the value's own return the zero value and false.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
	list []string
}

// BoolValue returns a boolean option value.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// IntValue returns an integer option value.
func IntValue(i int64) Value { return Value{kind: Int, i: i} }

// StringValue returns a string option value.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// ListValue returns a string list option value.
func ListValue(list ...string) Value { return Value{kind: StringList, list: list} }

// Kind returns the kind of value v holds.
func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

func (v Value) Int() (int64, bool) { return v.i, v.kind == Int }

func (v Value) Str() (string, bool) { return v.s, v.kind == String }

func (v Value) List() ([]string, bool) { return v.list, v.kind == StringList }

func (v Value) String() string {
	switch v.kind {
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case String:
		return strconv.Quote(v.s)
	default:
		return "[" + strings.Join(v.list, ", ") + "]"
	}
}

// A Key identifies an option.
type Key byte

// All options.
const (
	Unicode Key = iota
	Frequency
	Interactive
	MaxMemoryUsage
	MemChunkSize
	SelfModifying
	Verbose
	IncludeDir
	numKeys
)

type optionDef struct {
	key   Key
	long  string
	short byte
	def   Value
	arg   string
	doc   string
}

var defs = []optionDef{
	{Unicode, "unicode", 'u', BoolValue(false), "", "force UTF-8 input, ignoring byte order marks"},
	{Frequency, "freq", 'f', IntValue(0), "n", "processor frequency in Hz (0 = unthrottled)"},
	{Interactive, "interactive", 'i', BoolValue(false), "", "run the interactive shell"},
	{MaxMemoryUsage, "maxmemoryusage", 0, IntValue(0), "n", "memory usage limit in bytes (0 = none)"},
	{MemChunkSize, "memchunksize", 0, IntValue(4096), "n", "memory allocation chunk size in bytes"},
	{SelfModifying, "selfmodifying", 's', BoolValue(false), "", "allow self-modifying code"},
	{Verbose, "verbose", 'v', BoolValue(false), "", "trace preprocessing and lexing"},
	{IncludeDir, "include-dir", 'I', ListValue(), "dir", "add an include search directory (repeatable)"},
}

var (
	longTree = prefixtree.New[*optionDef]()
	shortMap = make(map[byte]*optionDef)
)

func init() {
	for i := range defs {
		d := &defs[i]
		if d.key != Key(i) {
			panic("option table out of order: " + d.long)
		}
		longTree.Add(d.long, d)
		if d.short != 0 {
			shortMap[d.short] = d
		}
	}
}

func (k Key) String() string {
	if int(k) < len(defs) {
		return defs[k].long
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

// Errors returned by Parse.
var (
	ErrMissingValue = errors.New("missing option value")
	ErrInvalidValue = errors.New("invalid option value")
)

// A Set holds the value of every option and the source file path.
type Set struct {
	values [numKeys]Value
	Source string
}

// Defaults returns a set holding every option's default value.
func Defaults() *Set {
	s := &Set{}
	for _, d := range defs {
		s.values[d.key] = d.def
	}
	return s
}

// Value returns the value of option k.
func (s *Set) Value(k Key) Value { return s.values[k] }

// Bool returns the value of boolean option k.
func (s *Set) Bool(k Key) bool {
	b, _ := s.values[k].Bool()
	return b
}

// Int returns the value of integer option k.
func (s *Set) Int(k Key) int64 {
	i, _ := s.values[k].Int()
	return i
}

// List returns the value of string list option k.
func (s *Set) List(k Key) []string {
	l, _ := s.values[k].List()
	return l
}

// Parse parses command line arguments, not including the program name.
// Long options may be abbreviated to any unique prefix and may carry their
// value after '='. Arguments that are not recognized options set the
// source path; the last one wins.
func Parse(args []string) (*Set, error) {
	s := Defaults()
	for i := 0; i < len(args); i++ {
		arg := args[i]

		d, inline, hasInline := lookup(arg)
		if d == nil {
			s.Source = arg
			continue
		}

		if d.def.kind == Bool {
			if hasInline {
				b, err := strconv.ParseBool(inline)
				if err != nil {
					return nil, fmt.Errorf("%w for --%s: %q", ErrInvalidValue, d.long, inline)
				}
				s.values[d.key] = BoolValue(b)
			} else {
				s.values[d.key] = BoolValue(true)
			}
			continue
		}

		value := inline
		if !hasInline {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%w for --%s", ErrMissingValue, d.long)
			}
			i++
			value = args[i]
		}

		switch d.def.kind {
		case Int:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w for --%s: %q", ErrInvalidValue, d.long, value)
			}
			s.values[d.key] = IntValue(n)
		case String:
			s.values[d.key] = StringValue(value)
		case StringList:
			l, _ := s.values[d.key].List()
			s.values[d.key] = ListValue(append(append([]string(nil), l...), value)...)
		}
	}
	return s, nil
}

// lookup finds the option named by arg. It returns nil if arg is not a
// recognized option.
func lookup(arg string) (*optionDef, string, bool) {
	switch {
	case strings.HasPrefix(arg, "--") && len(arg) > 2:
		name, inline, hasInline := strings.Cut(arg[2:], "=")
		d, err := longTree.FindValue(strings.ToLower(name))
		if err != nil {
			return nil, "", false
		}
		return d, inline, hasInline

	case len(arg) >= 2 && arg[0] == '-' && arg[1] != '-':
		d := shortMap[arg[1]]
		switch {
		case d == nil:
			return nil, "", false
		case len(arg) == 2:
			return d, "", false
		case d.def.kind == Bool:
			return nil, "", false
		default:
			return d, arg[2:], true
		}

	default:
		return nil, "", false
	}
}

// Usage writes a description of every option to w.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gomips [options] source.asm\nOptions:")
	for _, d := range defs {
		var flags string
		if d.short != 0 {
			flags = fmt.Sprintf("-%c, --%s", d.short, d.long)
		} else {
			flags = "    --" + d.long
		}
		if d.arg != "" {
			flags += " <" + d.arg + ">"
		}
		fmt.Fprintf(w, "  %-32s %s\n", flags, d.doc)
	}
}
