// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binder builds the lexical scope tree of a JavaScript or
// TypeScript compilation unit and binds every identifier to its
// variable.
//
// Binding applies the language's hoisting rules for var and function
// declarations, flags references that fall in the temporal dead zone
// of a let, const or class binding, allocates lexical environment slots
// for captured variables, synthesizes the mandatory parameters of each
// function (this, new.target, the function object, and the CommonJS
// wrapper parameters), and links the import and export entries of
// modules.
//
// The binder writes its results into the syntax tree: each Ident.Var
// points to a *Variable (or is nil for an unresolved global reference),
// Ident.Tdz records temporal-dead-zone references, and each
// scope-owning node records its *Scope. The first error aborts the
// unit; there is no recovery.
package binder // import "github.com/jsbind/jsbind/binder"

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/jsbind/jsbind/linkage"
	"github.com/jsbind/jsbind/syntax"
)

// A Mode selects how the top level of a unit is bound.
type Mode uint8

const (
	Script   Mode = iota // classic script: top-level vars are globals
	Module               // ECMAScript module
	CommonJS             // script wrapped in a CommonJS module function
)

var modeNames = [...]string{
	Script:   "script",
	Module:   "module",
	CommonJS: "commonjs",
}

func (m Mode) String() string { return modeNames[m] }

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q (want script, module or commonjs)", s)
}

// Options control binding of one unit.
type Options struct {
	Mode       Mode
	TypeScript bool // resolve value references against the type table too
	Concurrent bool // honor "use concurrent" function directives
}

// Mandatory parameter names.
const (
	funcObjParam          = "4funcObj"
	newTargetParam        = "4newTarget"
	thisParam             = "this"
	lexicalFuncObjParam   = "!f"
	lexicalNewTargetParam = "!nt"
	lexicalThisParam      = "!t"
	argumentsName         = "arguments"
	defaultLocalName      = "*default*"
	concurrentDirective   = "use concurrent"
	namespaceExportPrefix = "*ns:" // local name of export * as x is "*ns:x"
)

var (
	functionParams  = []string{funcObjParam, newTargetParam, thisParam}
	arrowParams     = []string{funcObjParam, lexicalNewTargetParam, lexicalThisParam}
	ctorArrowParams = []string{lexicalFuncObjParam, lexicalNewTargetParam, lexicalThisParam}
	commonJSParams  = []string{funcObjParam, newTargetParam, thisParam, "exports", "require", "module", "__filename", "__dirname"}
)

// A Result is the outcome of binding one unit.
type Result struct {
	File      *syntax.File
	Top       *Scope
	Scopes    []*Scope        // all scopes, in creation order; Scopes[i].ID == i
	Functions []*Scope        // the top scope and every function body scope, in creation order
	Record    *linkage.Record // nil unless Mode is Module
	Options   Options
}

// File binds the syntax tree f as one compilation unit.
//
// On failure it returns an *Error, and the tree and any partial results
// must not be used.
func File(f *syntax.File, opts Options) (res *Result, err error) {
	b := &binder{opts: opts, file: f}
	if opts.TypeScript {
		b.findOpts = WithTypes
	}

	defer func() {
		switch x := recover().(type) {
		case nil:
		case bailout:
			res, err = nil, x.err
		default:
			panic(x)
		}
	}()

	b.bindFile()
	return &Result{
		File:      f,
		Top:       b.top,
		Scopes:    b.scopes,
		Functions: b.funcs,
		Record:    b.record,
		Options:   opts,
	}, nil
}

// A binder holds the state of binding one compilation unit.
type binder struct {
	opts     Options
	file     *syntax.File
	findOpts FindOptions

	top    *Scope // Global or Module
	scope  *Scope // active scope
	scopes []*Scope
	funcs  []*Scope
	record *linkage.Record

	// path holds the ancestors of the node being resolved, innermost last.
	path []syntax.Node

	// this and new.target expressions, resolved once mandatory
	// parameters exist.
	lexRefs []lexRef
}

type lexRef struct {
	node  syntax.Node // *syntax.ThisExpr or *syntax.MetaProperty
	scope *Scope
}

func (b *binder) bindFile() {
	kind := GlobalScope
	if b.opts.Mode == Module {
		kind = ModuleScope
		b.record = linkage.New()
	}
	b.top = b.newScope(kind, nil, b.file)
	if b.opts.Mode == CommonJS {
		b.top.AddFlag(CommonJSWrapper)
	}
	b.funcs = append(b.funcs, b.top)
	b.file.Scope = b.top

	// The top level's parameters exist before any declaration, so a
	// CommonJS unit sees its wrapper parameters like any function would.
	b.addTopParams()

	// Pass 1: open every scope and add every declaration.
	b.scope = b.top
	b.declareStmts(b.file.Stmts)

	// Pass 2: resolve references.
	b.scope = b.top
	b.resolveStmts(b.file.Stmts)

	b.addMandatoryParams()
	b.resolveLexRefs()

	if b.record != nil {
		b.record.AssignIndexToModuleVariable(b.top)
	}
	if glog.V(2) {
		glog.Infof("binder: %s: %d scopes, %d functions", b.file.Path, len(b.scopes), len(b.funcs))
	}
}

// newScope creates a scope and adds it to the arena.
func (b *binder) newScope(kind ScopeKind, parent *Scope, node syntax.Node) *Scope {
	s := newScope(kind, parent, node)
	s.ID = len(b.scopes)
	b.scopes = append(b.scopes, s)
	return s
}

// enter makes s the active scope. The caller must defer the result:
//	defer b.enter(s)()
func (b *binder) enter(s *Scope) func() {
	prev := b.scope
	b.scope = s
	if glog.V(5) {
		glog.Infof("binder: enter %s", s)
	}
	return func() { b.scope = prev }
}

// addDecl adds a declaration of the given kind to the active scope,
// failing with a redeclaration error on conflict.
func (b *binder) addDecl(kind DeclKind, name string, flags DeclFlags, node syntax.Node) *Decl {
	d := &Decl{Kind: kind, Name: name, Flags: flags, Node: node}
	if !b.scope.AddDecl(d) {
		b.throwRedeclaration(d.Pos(), name)
	}
	return d
}

// scopeOf returns the scope recorded in a node's binder slot.
func scopeOf(slot interface{}) *Scope {
	s, _ := slot.(*Scope)
	return s
}
