// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsparse parses JavaScript and TypeScript source with
// tree-sitter and lowers the concrete syntax tree into a syntax.File.
//
// The lowering keeps only what the binder needs. Type annotations are
// reduced to the type names they mention, JSX and other constructs
// that bind nothing become opaque literals, and TypeScript overload
// signatures and ambient module blocks are dropped.
package jsparse // import "github.com/jsbind/jsbind/jsparse"

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/jsbind/jsbind/syntax"
)

// A Dialect selects the grammar used to parse a file.
type Dialect uint8

const (
	JavaScript Dialect = iota
	TypeScript
	TSX
)

var dialectNames = [...]string{
	JavaScript: "javascript",
	TypeScript: "typescript",
	TSX:        "tsx",
}

func (d Dialect) String() string { return dialectNames[d] }

// IsTypeScript reports whether d is a TypeScript dialect.
func (d Dialect) IsTypeScript() bool { return d != JavaScript }

// DialectOf returns the dialect implied by a file name's extension.
func DialectOf(filename string) Dialect {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".mts", ".cts":
		return TypeScript
	case ".tsx":
		return TSX
	}
	return JavaScript
}

func (d Dialect) language() *sitter.Language {
	switch d {
	case TypeScript:
		return typescript.GetLanguage()
	case TSX:
		return tsx.GetLanguage()
	}
	return javascript.GetLanguage()
}

// An Error is a syntax error reported by the parser.
type Error struct {
	Pos syntax.Position
	Msg string
}

func (e *Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// Parse parses the source of one compilation unit.
// If the source contains a syntax error, Parse returns an *Error
// locating the first one.
func Parse(ctx context.Context, filename string, src []byte, d Dialect) (*syntax.File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(d.language())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	defer tree.Close()

	l := &lowerer{src: src, file: &filename}
	root := tree.RootNode()
	if root.HasError() {
		return nil, l.firstError(root)
	}

	f := &syntax.File{Range: l.rng(root), Path: filename}
	for _, c := range l.named(root) {
		if s := l.stmt(c); s != nil {
			f.Stmts = append(f.Stmts, s)
		}
	}
	return f, nil
}

// firstError locates the first ERROR or MISSING node below n.
func (l *lowerer) firstError(n *sitter.Node) *Error {
	if n.IsMissing() {
		return &Error{Pos: l.pos(n), Msg: fmt.Sprintf("syntax error: missing %s", n.Type())}
	}
	if n.Type() == "ERROR" {
		return &Error{Pos: l.pos(n), Msg: fmt.Sprintf("syntax error: unexpected %q", excerpt(l.text(n)))}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.HasError() || c.IsMissing() {
			if err := l.firstError(c); err != nil {
				return err
			}
		}
	}
	return &Error{Pos: l.pos(n), Msg: "syntax error"}
}

func excerpt(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 20 {
		s = s[:20] + "..."
	}
	return s
}
