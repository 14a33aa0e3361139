// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

import (
	"fmt"

	"github.com/jsbind/jsbind/syntax"
)

// A DeclKind says what syntactic form introduced a declaration.
type DeclKind uint8

const (
	VarDecl DeclKind = iota
	LetDecl
	ConstDecl
	FuncDecl
	ParamDecl
	ClassDecl
	EnumDecl        // a member of a TypeScript enum
	EnumLiteralDecl // the TypeScript enum itself
	NamespaceDecl
	InterfaceDecl
	ImportEqualsDecl
	TypeAliasDecl
)

var declKindNames = [...]string{
	VarDecl:          "var",
	LetDecl:          "let",
	ConstDecl:        "const",
	FuncDecl:         "function",
	ParamDecl:        "param",
	ClassDecl:        "class",
	EnumDecl:         "enum member",
	EnumLiteralDecl:  "enum",
	NamespaceDecl:    "namespace",
	InterfaceDecl:    "interface",
	ImportEqualsDecl: "import=",
	TypeAliasDecl:    "type",
}

func (k DeclKind) String() string { return declKindNames[k] }

// DeclFlags records how a declaration relates to modules and ambient context.
type DeclFlags uint8

const (
	DeclExport DeclFlags = 1 << iota
	DeclImport
	DeclAmbient
	DeclNamespaceImport
)

var declFlagNames = [...]string{"export", "import", "declare", "namespace-import"}

func (f DeclFlags) String() string { return flagString(uint32(f), declFlagNames[:]) }

// A Decl is a named thing introduced by syntax.
type Decl struct {
	Kind  DeclKind
	Name  string
	Flags DeclFlags
	Node  syntax.Node // the node that introduced it; may be nil for synthetic declarations
}

func (d *Decl) AddFlag(f DeclFlags)      { d.Flags |= f }
func (d *Decl) HasFlag(f DeclFlags) bool { return d.Flags&f != 0 }

// IsLexical reports whether the declaration is subject to the
// temporal dead zone: let, const and class.
func (d *Decl) IsLexical() bool {
	return d.Kind == LetDecl || d.Kind == ConstDecl || d.Kind == ClassDecl
}

// IsImportOrExport reports whether the declaration is bound as a module variable.
func (d *Decl) IsImportOrExport() bool { return d.HasFlag(DeclImport | DeclExport) }

// Pos returns the position of the declaring node, or the zero Position.
func (d *Decl) Pos() syntax.Position {
	if d.Node == nil {
		return syntax.Position{}
	}
	return syntax.Start(d.Node)
}

func (d *Decl) String() string {
	if d.Flags == 0 {
		return fmt.Sprintf("%s %s", d.Kind, d.Name)
	}
	return fmt.Sprintf("%s %s [%s]", d.Kind, d.Name, d.Flags)
}

// flagString formats the set bits of f using names, separated by '|'.
func flagString(f uint32, names []string) string {
	var buf []byte
	for i, name := range names {
		if f&(1<<uint(i)) != 0 {
			if buf != nil {
				buf = append(buf, '|')
			}
			buf = append(buf, name...)
		}
	}
	return string(buf)
}
