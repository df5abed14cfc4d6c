// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive shell around the MIPS assembler
// front end.
//
// Within the host it is possible to preprocess and lex source files, browse
// the resulting tokens and labels, dump the structure of individual tokens,
// and adjust the settings that control processing.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/gomips/asm"
	"github.com/beevik/gomips/options"
	"github.com/davecgh/go-spew/spew"
)

var errQuit = errors.New("exiting program")

// dumper formats token structures for the dump command.
var dumper = spew.ConfigState{
	Indent:                  "    ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// A Host holds the state of an interactive assembler session: the current
// settings and the most recently loaded program.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	settings    *settings
	includeDirs []string
	lastCmd     *cmd.Selection
	prog        *asm.Program
	nextToken   int
}

// New creates a new host whose settings are seeded from the command line
// options. A nil option set selects the defaults.
func New(opts *options.Set) *Host {
	if opts == nil {
		opts = options.Defaults()
	}
	return &Host{
		settings:    newSettings(opts),
		includeDirs: opts.List(options.IncludeDir),
	}
}

// Program returns the most recently loaded program, or nil.
func (h *Host) Program() *asm.Program {
	return h.prog
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	defer h.flush()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil && h.interactive {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(*command)
		if err := handler.fn(h, c.Args); err != nil {
			break
		}
	}
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) loader() *asm.FileLoader {
	return asm.NewFileLoader(h.includeDirs, h.settings.UnicodeOnly)
}

func (h *Host) asmOptions() asm.Option {
	if h.settings.Verbose {
		return asm.Verbose
	}
	return 0
}

func (h *Host) displayError(err error) {
	var e *asm.Error
	if errors.As(err, &e) {
		h.printf("%v\n", e)
		if caret := e.Caret(); caret != "" {
			h.printf("%s\n", caret)
		}
		return
	}
	h.printf("ERROR: %v\n", err)
}

func (h *Host) displayUsage(c *command) {
	h.printf("Syntax: %s\n", c.usage)
}

func (h *Host) cmdHelp(args []string) error {
	if len(args) == 0 {
		h.println("Commands:")
		for _, c := range commands {
			h.printf("    %-15s  %s\n", c.name, c.brief)
		}
		return nil
	}

	s, err := cmds.Lookup(strings.Join(args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	c := s.Command.Data.(*command)
	h.printf("Syntax: %s\n\n", c.usage)
	h.printf("Description:\n%s\n\n", indentWrap(3, c.description))
	return nil
}

func (h *Host) cmdLoad(args []string) error {
	if len(args) < 1 {
		h.displayUsage(findCommand("load"))
		return nil
	}

	prog, err := asm.ProcessFile(args[0], h.loader(), h.output, h.asmOptions())
	h.flush()
	if err != nil {
		h.displayError(err)
		return nil
	}

	h.prog, h.nextToken = prog, 0
	h.printf("Loaded '%s': %d tokens, %d labels.\n", prog.File, len(prog.Tokens), len(prog.Labels))
	return nil
}

func (h *Host) cmdPreprocess(args []string) error {
	if len(args) < 1 {
		h.displayUsage(findCommand("preprocess"))
		return nil
	}

	l := h.loader()
	src, err := l.Load(args[0])
	if err != nil {
		h.displayError(err)
		return nil
	}

	out, err := asm.Preprocess(src, args[0], l, h.output, h.asmOptions())
	h.flush()
	if err != nil {
		h.displayError(err)
		return nil
	}

	text := string(out)
	h.print(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		h.println()
	}
	return nil
}

func (h *Host) cmdTokens(args []string) error {
	if h.prog == nil {
		h.println("No program loaded.")
		return nil
	}

	start, count := h.nextToken, h.settings.TokenLines
	if len(args) >= 1 {
		n, err := h.parseIndex(args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		start = n
	}
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			h.printf("Invalid token count '%s'.\n", args[1])
			return nil
		}
		count = n
	}

	end := min(start+count, len(h.prog.Tokens))
	for i := start; i < end; i++ {
		t := h.prog.Tokens[i]
		h.printf("%4d  %4d  %s\n", i, t.Line(), t)
	}
	if start >= len(h.prog.Tokens) {
		h.println("No more tokens.")
	}
	h.nextToken = end
	return nil
}

func (h *Host) cmdLabels(args []string) error {
	if h.prog == nil {
		h.println("No program loaded.")
		return nil
	}
	if len(h.prog.Labels) == 0 {
		h.println("No labels.")
		return nil
	}

	names := make([]string, 0, len(h.prog.Labels))
	for name := range h.prog.Labels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return h.prog.Labels[names[i]] < h.prog.Labels[names[j]]
	})

	h.println("Token  Line  Label")
	h.println("-----  ----  -----")
	for _, name := range names {
		i := h.prog.Labels[name]
		h.printf("%5d  %4d  %s\n", i, h.prog.Tokens[i].Line(), name)
	}
	return nil
}

func (h *Host) cmdDump(args []string) error {
	if len(args) < 1 {
		h.displayUsage(findCommand("dump"))
		return nil
	}
	if h.prog == nil {
		h.println("No program loaded.")
		return nil
	}

	i, err := h.parseIndex(args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.print(dumper.Sdump(h.prog.Tokens[i]))
	return nil
}

func (h *Host) cmdSet(args []string) error {
	switch len(args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()
		return nil
	case 1:
		h.displayUsage(findCommand("set"))
		return nil
	}

	key, value := args[0], strings.Join(args[1:], " ")

	var err error
	switch h.settings.Kind(key) {
	case reflect.Invalid:
		err = fmt.Errorf("setting '%s' not found", key)
	case reflect.Bool:
		var b bool
		b, err = stringToBool(value)
		if err == nil {
			err = h.settings.Set(key, b)
		}
	default:
		var n int64
		n, err = strconv.ParseInt(value, 0, 64)
		if err == nil {
			err = h.settings.Set(key, n)
		}
	}

	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.printf("Setting '%s' updated.\n", h.settings.Name(key))
	return nil
}

func (h *Host) cmdQuit(args []string) error {
	return errQuit
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
	h.flush()
}

func (h *Host) parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= len(h.prog.Tokens) {
		return 0, fmt.Errorf("invalid token index '%s'", s)
	}
	return n, nil
}
