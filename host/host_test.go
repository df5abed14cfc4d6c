// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/beevik/gomips/options"
)

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommands(h *Host, script string) string {
	var out bytes.Buffer
	h.RunCommands(strings.NewReader(script), &out, false)
	return out.String()
}

func checkOutput(t *testing.T, out string, expected ...string) {
	t.Helper()
	for _, s := range expected {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

const program = `.eqv SIZE 8
.data
msg:	.asciiz "hi"
.text
main:	li $t0, SIZE
	lw $t1, msg($t0)
	jal main
`

func TestLoadAndBrowse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.asm", program)

	h := New(nil)
	out := runCommands(h, "load "+path+"\ntokens\nlabels\ndump 6\n")

	checkOutput(t, out,
		"8 tokens, 2 labels",
		"   5     5  li $t0, 8",
		"   6     6  lw $t1, msg($t0)",
		"    1     3  msg",
		"    4     5  main",
		"LabelIndex: (int) 1",
	)

	p := h.Program()
	if p == nil || p.Labels["main"] != 4 {
		t.Fatalf("unexpected program: %v", p)
	}
}

func TestTokensPaging(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.asm", program)

	h := New(nil)
	out := runCommands(h, "load "+path+"\nset tokenlines 2\ntokens\ntokens\ntokens 6 10\ntokens\n")
	checkOutput(t, out,
		"Setting 'TokenLines' updated.",
		"   0     2  .data",
		"   3     4  .text",
		"   7     7  jal main",
		"No more tokens.",
	)
	if strings.Contains(out, "   4     5") {
		t.Errorf("paging listed too many tokens:\n%s", out)
	}
}

func TestLoadError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.asm", "main:\n\tli $t0, 0x100000000\n")

	h := New(nil)
	out := runCommands(h, "load "+path+"\ntokens\n")
	checkOutput(t, out,
		"Integer parsing error",
		"line 2",
		"\tli $t0, 0x100000000\n",
		"No program loaded.",
	)

	out = runCommands(h, "load "+filepath.Join(dir, "missing.asm")+"\n")
	checkOutput(t, out, "unable to open")
}

func TestPreprocessCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "defs.asm", ".eqv LIMIT 10\n")
	path := writeFile(t, dir, "main.asm", ".include \"defs.asm\"\n\tli $t0, LIMIT\n")

	h := New(nil)
	out := runCommands(h, "preprocess "+path+"\n")
	checkOutput(t, out, "\tli $t0, 10\n")
	if strings.Contains(out, "LIMIT") {
		t.Errorf("symbol not substituted:\n%s", out)
	}
}

func TestIncludeDirsFromOptions(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	if err := os.Mkdir(lib, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, lib, "regs.asm", ".eqv ZERO $zero\n")
	path := writeFile(t, dir, "main.asm", ".include \"regs.asm\"\n\tmove $t0, ZERO\n")

	opts, err := options.Parse([]string{"-I", lib})
	if err != nil {
		t.Fatal(err)
	}
	out := runCommands(New(opts), "load "+path+"\ntokens\n")
	checkOutput(t, out, "move $t0, $zero")
}

func TestSettings(t *testing.T) {
	opts, err := options.Parse([]string{"-v", "--freq", "1000"})
	if err != nil {
		t.Fatal(err)
	}
	h := New(opts)
	if !h.settings.Verbose || h.settings.Frequency != 1000 || h.settings.MemChunkSize != 4096 {
		t.Errorf("settings not seeded: %+v", *h.settings)
	}

	out := runCommands(h, "set verbose off\nset freq 0x10\nset nosuch 1\nset selfmodifying maybe\nset\n")
	checkOutput(t, out,
		"Setting 'Verbose' updated.",
		"Setting 'Frequency' updated.",
		"setting 'nosuch' not found",
		"invalid bool value 'maybe'",
		"Variables:",
	)
	if h.settings.Verbose || h.settings.Frequency != 16 {
		t.Errorf("settings not updated: %+v", *h.settings)
	}
}

func TestSettingsSet(t *testing.T) {
	s := newSettings(options.Defaults())
	if err := s.Set("unicodeonly", true); err != nil || !s.UnicodeOnly {
		t.Errorf("bool setting: %v", err)
	}
	if err := s.Set("memchunk", int64(512)); err != nil || s.MemChunkSize != 512 {
		t.Errorf("int setting: %v", err)
	}
	if err := s.Set("memchunk", true); err == nil {
		t.Error("expected type error")
	}
	if err := s.Set("verbose", 1); err == nil {
		t.Error("expected type error")
	}
	if err := s.Set("frequency", -5); err == nil {
		t.Error("expected range error")
	}
	if s.Kind("tokenl") != reflect.Int || s.Kind("bogus") != reflect.Invalid {
		t.Error("unexpected kinds")
	}
}

func TestVerboseLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.asm", program)

	out := runCommands(New(nil), "set verbose true\nload "+path+"\n")
	checkOutput(t, out, "Lexing", "Loaded")
}

func TestQuit(t *testing.T) {
	out := runCommands(New(nil), "set\nquit\nset\n")
	if strings.Count(out, "Variables:") != 1 {
		t.Errorf("commands ran after quit:\n%s", out)
	}
}

func TestIndentWrap(t *testing.T) {
	s := indentWrap(3, strings.Repeat("word ", 30))
	for _, line := range strings.Split(s, "\n") {
		if len(line) > 76 || !strings.HasPrefix(line, "   word") {
			t.Errorf("bad line %q", line)
		}
	}
}
