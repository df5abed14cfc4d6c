// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/gomips/options"
	"github.com/beevik/prefixtree/v2"
)

type settings struct {
	Verbose        bool  `doc:"trace preprocessing and lexing"`
	UnicodeOnly    bool  `doc:"force UTF-8 input"`
	Frequency      int64 `doc:"processor frequency in Hz"`
	MaxMemoryUsage int64 `doc:"memory usage limit in bytes"`
	MemChunkSize   int64 `doc:"memory allocation chunk size"`
	SelfModifying  bool  `doc:"allow self-modifying code"`
	TokenLines     int   `doc:"default number of tokens to list"`
}

func newSettings(opts *options.Set) *settings {
	return &settings{
		Verbose:        opts.Bool(options.Verbose),
		UnicodeOnly:    opts.Bool(options.Unicode),
		Frequency:      opts.Int(options.Frequency),
		MaxMemoryUsage: opts.Int(options.MaxMemoryUsage),
		MemChunkSize:   opts.Int(options.MemChunkSize),
		SelfModifying:  opts.Bool(options.SelfModifying),
		TokenLines:     20,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		line := fmt.Sprintf("    %-16s %v", f.name, value.Field(i))
		fmt.Fprintf(w, "%-28s (%s)\n", line, f.doc)
	}
}

// Name returns the full name of the setting matched by key, which may be
// any unique prefix.
func (s *settings) Name(key string) string {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return ""
	}
	return f.name
}

func (s *settings) Kind(key string) reflect.Kind {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.Bool) != (vIn.Kind() == reflect.Bool) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type")
	}
	if vIn.CanInt() && vIn.Int() < 0 {
		return errors.New("value must not be negative")
	}

	reflect.ValueOf(s).Elem().Field(f.index).Set(vIn.Convert(f.typ))
	return nil
}
