// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

import (
	"fmt"

	"github.com/jsbind/jsbind/syntax"
)

// An ErrorKind classifies a binding error.
// Each kind is itself an error, so that errors.Is(err, binder.Redeclaration)
// reports whether err is a redeclaration.
type ErrorKind uint8

const (
	Redeclaration ErrorKind = iota + 1
	UndeclaredExport
	InvalidDestructuringTarget
	InvalidConcurrentCapture
	InvalidConcurrentFunction
	DuplicateExport
)

var errorKindNames = [...]string{
	Redeclaration:              "redeclaration",
	UndeclaredExport:           "undeclared export",
	InvalidDestructuringTarget: "invalid destructuring target",
	InvalidConcurrentCapture:   "invalid concurrent capture",
	InvalidConcurrentFunction:  "invalid concurrent function",
	DuplicateExport:            "duplicate export",
}

func (k ErrorKind) Error() string { return errorKindNames[k] }

// An Error describes the binding error that aborted a compilation unit.
type Error struct {
	Pos  syntax.Position
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Pos.String() + ": SyntaxError: " + e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// A bailout carries the first error out of the traversal.
// It is recovered by File.
type bailout struct{ err *Error }

func (b *binder) errorf(pos syntax.Position, kind ErrorKind, format string, args ...interface{}) {
	panic(bailout{&Error{Pos: pos, Kind: kind, Msg: fmt.Sprintf(format, args...)}})
}

func (b *binder) throwRedeclaration(pos syntax.Position, name string) {
	b.errorf(pos, Redeclaration, "Variable '%s' has already been declared.", name)
}

func (b *binder) throwUndeclaredExport(pos syntax.Position, name string) {
	msg := fmt.Sprintf("Export name '%s' is not defined.", name)
	if alt := nearest(name, b.top.Names()); alt != "" {
		msg += fmt.Sprintf(" Did you mean '%s'?", alt)
	}
	b.errorf(pos, UndeclaredExport, "%s", msg)
}

func (b *binder) throwInvalidDestructuringTarget(pos syntax.Position, name string) {
	b.errorf(pos, InvalidDestructuringTarget, "Invalid destructuring assignment target: %s", name)
}

func (b *binder) throwDuplicateExport(pos syntax.Position, name string) {
	b.errorf(pos, DuplicateExport, "Duplicate export name '%s'", name)
}
