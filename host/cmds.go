// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

// A command is the data stored with each entry of the command tree.
type command struct {
	name        string
	brief       string
	description string
	usage       string
	fn          func(h *Host, args []string) error
}

var (
	cmds     *cmd.Tree
	commands []*command
)

func init() {
	commands = []*command{
		{
			name:        "help",
			brief:       "Display help for a command",
			description: "Display help for a command.",
			usage:       "help [<command>]",
			fn:          (*Host).cmdHelp,
		},
		{
			name:  "load",
			brief: "Preprocess and lex a source file",
			description: "Run the preprocessor and lexer on the specified" +
				" source file. If successful, the resulting tokens and labels" +
				" become available to the tokens, labels and dump commands.",
			usage: "load <filename>",
			fn:    (*Host).cmdLoad,
		},
		{
			name:  "preprocess",
			brief: "Display preprocessor output",
			description: "Run only the preprocessor on the specified source" +
				" file and display the text that would be handed to the lexer.",
			usage: "preprocess <filename>",
			fn:    (*Host).cmdPreprocess,
		},
		{
			name:  "tokens",
			brief: "List tokens of the loaded program",
			description: "List the tokens produced by the most recent load," +
				" starting from the requested token index. The number of tokens" +
				" listed defaults to the TokenLines setting. If no index is" +
				" specified, the listing continues from where the last one" +
				" left off.",
			usage: "tokens [<index>] [<count>]",
			fn:    (*Host).cmdTokens,
		},
		{
			name:        "labels",
			brief:       "List labels of the loaded program",
			description: "List every label defined by the loaded program along with the index of its token.",
			usage:       "labels",
			fn:          (*Host).cmdLabels,
		},
		{
			name:  "dump",
			brief: "Dump a token's structure",
			description: "Display the complete internal structure of the token" +
				" at the requested index.",
			usage: "dump <index>",
			fn:    (*Host).cmdDump,
		},
		{
			name:  "set",
			brief: "Set a configuration variable",
			description: "Set the value of a configuration variable. To see the" +
				" current values of all configuration variables, type set" +
				" without any arguments.",
			usage: "set [<var> <value>]",
			fn:    (*Host).cmdSet,
		},
		{
			name:        "quit",
			brief:       "Quit the program",
			description: "Quit the program.",
			usage:       "quit",
			fn:          (*Host).cmdQuit,
		},
	}

	root := cmd.NewTree(cmd.TreeDescriptor{Name: "gomips"})
	for _, c := range commands {
		root.AddCommand(cmd.CommandDescriptor{
			Name:        c.name,
			Brief:       c.brief,
			Description: c.description,
			Usage:       c.usage,
			Data:        c,
		})
	}

	root.AddShortcut("?", "help")
	root.AddShortcut("l", "load")
	root.AddShortcut("p", "preprocess")
	root.AddShortcut("t", "tokens")
	root.AddShortcut("q", "quit")

	cmds = root
}

func findCommand(name string) *command {
	for _, c := range commands {
		if c.name == name {
			return c
		}
	}
	return nil
}
