// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileLoaderEncodings(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data []byte
		exp  string
	}{
		{"plain.asm", []byte("nop\r\nsyscall\n"), "nop\nsyscall\n"},
		{"utf8bom.asm", []byte("\xef\xbb\xbfnop"), "nop"},
		{"utf16le.asm", []byte{0xff, 0xfe, 'n', 0, 'o', 0, 'p', 0, '\r', 0, '\n', 0}, "nop\n"},
		{"utf16be.asm", []byte{0xfe, 0xff, 0, 'n', 0, 'o', 0, 'p'}, "nop"},
		{"emoji.asm", []byte("\xf0\x9f\x9a\x80: nop"), "\U0001F680: nop"},
	}

	loader := NewFileLoader(nil, false)
	for _, tc := range tests {
		path := writeFile(t, dir, tc.name, tc.data)
		got, err := loader.Load(path)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if string(got) != tc.exp {
			t.Errorf("%s: got %q, exp %q", tc.name, string(got), tc.exp)
		}
	}
}

func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	loader := NewFileLoader(nil, false)

	_, err := loader.Load(filepath.Join(dir, "missing.asm"))
	if k, _ := KindOf(err); k != FileNotFound {
		t.Errorf("expected file not found, got %v", err)
	}

	path := writeFile(t, dir, "bad.asm", []byte("nop \xc3\x28"))
	_, err = loader.Load(path)
	if k, _ := KindOf(err); k != EncodingTranslation {
		t.Errorf("expected encoding error, got %v", err)
	}

	_, err = loader.Load(dir)
	if k, _ := KindOf(err); k != FileRead {
		t.Errorf("expected read error, got %v", err)
	}

	// Forcing UTF-8 ignores the UTF-16 byte order mark.
	path = writeFile(t, dir, "utf16.asm", []byte{0xff, 0xfe, 'n', 0})
	_, err = NewFileLoader(nil, true).Load(path)
	if k, _ := KindOf(err); k != EncodingTranslation {
		t.Errorf("expected encoding error, got %v", err)
	}
}

func TestFileLoaderCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.asm", []byte("nop"))

	loader := NewFileLoader(nil, false)
	first, err := loader.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	first[0] = 'X'

	writeFile(t, dir, "a.asm", []byte("syscall"))
	second, err := loader.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(second) != "nop" {
		t.Errorf("expected cached contents, got %q", string(second))
	}

	fresh, _ := NewFileLoader(nil, false).Load(path)
	if string(fresh) != "syscall" {
		t.Errorf("got %q", string(fresh))
	}
}

func TestFileLoaderResolve(t *testing.T) {
	dir, lib := t.TempDir(), t.TempDir()
	writeFile(t, lib, "lib.asm", nil)
	writeFile(t, dir, "local.asm", nil)

	loader := NewFileLoader([]string{lib}, false)
	if got := loader.Resolve("local.asm", dir); got != filepath.Join(dir, "local.asm") {
		t.Errorf("got %s", got)
	}
	if got := loader.Resolve("lib.asm", dir); got != filepath.Join(lib, "lib.asm") {
		t.Errorf("got %s", got)
	}
	if got := loader.Resolve("none.asm", dir); got != filepath.Join(dir, "none.asm") {
		t.Errorf("got %s", got)
	}
	abs := filepath.Join(lib, "lib.asm")
	if got := loader.Resolve(abs, dir); got != abs {
		t.Errorf("got %s", got)
	}
}
