// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

import "fmt"

// A VarKind is the runtime representation chosen for a variable.
type VarKind uint8

const (
	LocalVar        VarKind = iota // a function, block or loop local
	GlobalVar                      // a var or function at script top level
	ModuleVar                      // an imported or exported module binding
	EnumVar                        // a member of a TypeScript enum
	NamespaceVar                   // a TypeScript namespace
	ImportEqualsVar                // a TypeScript import alias
)

var varKindNames = [...]string{
	LocalVar:        "local",
	GlobalVar:       "global",
	ModuleVar:       "module",
	EnumVar:         "enum",
	NamespaceVar:    "namespace",
	ImportEqualsVar: "import=",
}

func (k VarKind) String() string { return varKindNames[k] }

// VarFlags describe how a variable behaves at run time.
type VarFlags uint32

const (
	Initialized VarFlags = 1 << iota
	HoistVar
	Hoist
	LexicalBound
	PerIteration
	ReadOnly
	NumericName
	Property
	Method
	LocalExport
	Namespace
	ImportEquals
	Interface
	EnumLiteral
	Param // a real or synthetic function parameter
)

var varFlagNames = [...]string{
	"initialized", "hoist-var", "hoist", "lexical", "per-iteration",
	"readonly", "numeric", "property", "method", "local-export",
	"namespace", "import=", "interface", "enum-literal", "param",
}

func (f VarFlags) String() string { return flagString(uint32(f), varFlagNames[:]) }

// A Variable is the resolvable wrapper around a declaration.
//
// Variables are created when a scope accepts a declaration and are
// afterwards identified by pointer: every identifier that denotes the
// variable refers to the same *Variable.
type Variable struct {
	Kind  VarKind
	Decl  *Decl
	Flags VarFlags
	Scope *Scope // scope whose table first received the variable

	// Slot is the index of the variable in its variable scope's
	// lexical environment. It is meaningful only if LexicalBound is set.
	Slot int

	// ModuleIndex is the slot assigned by module linkage,
	// or -1 if none has been assigned. Only module variables have one.
	ModuleIndex int
}

func newVariable(kind VarKind, decl *Decl, flags VarFlags) *Variable {
	return &Variable{Kind: kind, Decl: decl, Flags: flags, Slot: -1, ModuleIndex: -1}
}

// Name returns the declared name of the variable.
func (v *Variable) Name() string { return v.Decl.Name }

func (v *Variable) AddFlag(f VarFlags)      { v.Flags |= f }
func (v *Variable) HasFlag(f VarFlags) bool { return v.Flags&f != 0 }

// Reset replaces the declaration and flags of v, as when a later var
// or function declaration legally widens an earlier one.
func (v *Variable) Reset(decl *Decl, flags VarFlags) {
	v.Decl = decl
	v.Flags = flags
}

// IsImport reports whether v is a module variable bound by an import.
func (v *Variable) IsImport() bool {
	return v.Kind == ModuleVar && v.Decl.HasFlag(DeclImport)
}

// SetLexical allocates a lexical environment slot for v in the variable
// scope that encloses s, the scope in which v was found.
// It has no effect on globals, module variables and TypeScript entities
// such as enums, interfaces and type aliases, which never live in a
// lexical environment.
func (v *Variable) SetLexical(s *Scope) {
	if v.Kind != LocalVar || v.HasFlag(LexicalBound) || isTypeDecl(v.Decl.Kind) {
		return
	}
	var vs *Scope
	if s.Kind == FunctionParamScope {
		vs = s.funcScope
	} else {
		vs = s.EnclosingVariableScope()
	}
	v.Slot = vs.NextSlot()
	v.AddFlag(LexicalBound)
}

func (v *Variable) String() string {
	s := fmt.Sprintf("%s %s", v.Kind, v.Decl)
	if v.Flags != 0 {
		s += " {" + v.Flags.String() + "}"
	}
	if v.HasFlag(LexicalBound) {
		s += fmt.Sprintf(" slot=%d", v.Slot)
	}
	if v.ModuleIndex >= 0 {
		s += fmt.Sprintf(" index=%d", v.ModuleIndex)
	}
	return s
}
