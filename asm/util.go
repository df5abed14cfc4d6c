// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

var hex = "0123456789ABCDEF"

// A logger writes trace output when verbose mode is enabled.
type logger struct {
	out     io.Writer
	verbose bool
}

// In verbose mode, log a formatted string.
func (l *logger) log(format string, args ...any) {
	if l.verbose {
		fmt.Fprintf(l.out, format, args...)
		fmt.Fprintf(l.out, "\n")
	}
}

// In verbose mode, log a string and its associated line of source.
func (l *logger) logLine(row, col int, detail, src string) {
	if l.verbose {
		fmt.Fprintf(l.out, "%-3d %-3d | %-20s | %s\n", row, col, detail, strings.TrimSpace(src))
	}
}

// In verbose mode, log a series of bytes, eight per line.
func (l *logger) logBytes(b []byte) {
	if l.verbose {
		for i := 0; i < len(b); i += 8 {
			l.log("        %s", byteString(b[i:min(i+8, len(b))]))
		}
	}
}

// In verbose mode, log a section header.
func (l *logger) logSection(name string) {
	if l.verbose {
		fmt.Fprintln(l.out, strings.Repeat("-", len(name)+6))
		fmt.Fprintf(l.out, "-- %s --\n", name)
		fmt.Fprintln(l.out, strings.Repeat("-", len(name)+6))
	}
}

// Return a hexadecimal string representation of a byte slice.
func byteString(b []byte) string {
	if len(b) < 1 {
		return ""
	}

	s := make([]byte, len(b)*3-1)
	i, j := 0, 0
	for n := len(b) - 1; i < n; i, j = i+1, j+3 {
		s[j+0] = hex[(b[i] >> 4)]
		s[j+1] = hex[(b[i] & 0x0f)]
		s[j+2] = ' '
	}
	s[j+0] = hex[(b[i] >> 4)]
	s[j+1] = hex[(b[i] & 0x0f)]
	return string(s)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
