// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// A Loader reads a source file and returns its decoded contents.
type Loader interface {
	Load(path string) ([]rune, error)
}

// A Resolver maps an include file name, as written in the source, to the
// path a Loader should read. Loaders may optionally implement it.
type Resolver interface {
	Resolve(name, dir string) string
}

const loaderCacheSize = 128

// A FileLoader loads source files from disk. Files with a UTF-16 byte order
// mark are transcoded; all other files must be valid UTF-8. Decoded files
// are cached, so a file included many times is read once.
type FileLoader struct {
	Dirs      []string // additional include search directories
	ForceUTF8 bool     // ignore byte order marks and require UTF-8
	cache     *lru.Cache
}

type cacheKey struct {
	path      string
	forceUTF8 bool
}

// NewFileLoader creates a loader that searches dirs for include files.
func NewFileLoader(dirs []string, forceUTF8 bool) *FileLoader {
	cache, _ := lru.New(loaderCacheSize)
	return &FileLoader{Dirs: dirs, ForceUTF8: forceUTF8, cache: cache}
}

// Load reads and decodes the file at path.
func (l *FileLoader) Load(path string) ([]rune, error) {
	key := cacheKey{path: path, forceUTF8: l.ForceUTF8}
	if abs, err := filepath.Abs(path); err == nil {
		key.path = abs
	}

	if l.cache != nil {
		if v, ok := l.cache.Get(key); ok {
			return slices.Clone(v.([]rune)), nil
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &Error{Kind: FileNotFound, File: path, Msg: "unable to open '" + path + "'"}
	case err != nil:
		return nil, &Error{Kind: FileRead, File: path, Msg: err.Error()}
	}

	text, err := decode(data, l.ForceUTF8)
	if err != nil {
		return nil, &Error{Kind: EncodingTranslation, File: path, Msg: err.Error()}
	}

	if l.cache != nil {
		l.cache.Add(key, text)
	}
	return slices.Clone(text), nil
}

// Resolve locates an included file. Relative names are tried against the
// including file's directory, then each search directory. If no candidate
// exists, the first candidate is returned so the load reports it missing.
func (l *FileLoader) Resolve(name, dir string) string {
	if filepath.IsAbs(name) {
		return name
	}
	candidates := []string{filepath.Join(dir, name)}
	for _, d := range l.Dirs {
		candidates = append(candidates, filepath.Join(d, name))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return candidates[0]
}

var errInvalidUTF8 = errors.New("file is not valid UTF-8")

// decode converts raw file contents into code points, honoring a UTF-8 or
// UTF-16 byte order mark unless forceUTF8 is set. Line endings are
// normalized to a single newline.
func decode(data []byte, forceUTF8 bool) ([]rune, error) {
	if forceUTF8 {
		if !utf8.Valid(data) {
			return nil, errInvalidUTF8
		}
	} else {
		var err error
		data, _, err = transform.Bytes(unicode.BOMOverride(transform.Nop), data)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(data) {
			return nil, errInvalidUTF8
		}
	}

	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	return []rune(s), nil
}
