// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

import (
	"fmt"
	"sort"

	"github.com/jsbind/jsbind/syntax"
)

// A ScopeKind identifies the syntactic construct that opened a scope
// and thereby its merge and lookup policy.
type ScopeKind uint8

const (
	GlobalScope        ScopeKind = iota // script top level
	ModuleScope                         // module top level
	FunctionParamScope                  // parameters of a function
	FunctionScope                       // body of a function
	LocalScope                          // block, switch or class body
	LoopScope                           // head and body of a loop
	CatchParamScope                     // parameter of a catch clause
	CatchScope                          // body of a catch clause
	EnumScope                           // members of a TypeScript enum
	TSModuleScope                       // body of a TypeScript namespace
)

var scopeKindNames = [...]string{
	GlobalScope:        "global",
	ModuleScope:        "module",
	FunctionParamScope: "param",
	FunctionScope:      "function",
	LocalScope:         "local",
	LoopScope:          "loop",
	CatchParamScope:    "catch-param",
	CatchScope:         "catch",
	EnumScope:          "enum",
	TSModuleScope:      "namespace",
}

func (k ScopeKind) String() string { return scopeKindNames[k] }

// ScopeFlags annotate variable scopes with facts gathered during binding.
type ScopeFlags uint16

const (
	UsesArguments ScopeFlags = 1 << iota
	UsesSuper
	InnerArrow
	SetLexicalFunction
	ArrowFunction
	Constructor
	DerivedConstructor // constructor of a class with an extends clause
	Concurrent
	CommonJSWrapper // top scope of a unit wrapped in a CommonJS module function
)

var scopeFlagNames = [...]string{
	"arguments", "super", "inner-arrow", "lexical-function",
	"arrow", "constructor", "derived", "concurrent", "commonjs",
}

func (f ScopeFlags) String() string { return flagString(uint32(f), scopeFlagNames[:]) }

// FindOptions select the tables consulted by FindLocal and Find.
type FindOptions uint8

const (
	WithTypes FindOptions = 1 << iota // also search the type table
	TypesOnly                         // search only the type table
)

// The type table holds TypeScript entities whose names may coincide
// with value names. Its keys are mangled with the declaration kind.
var typeKinds = [...]DeclKind{NamespaceDecl, EnumLiteralDecl, InterfaceDecl, ImportEqualsDecl, TypeAliasDecl}

func typeKey(kind DeclKind, name string) string { return kind.String() + "#" + name }

func isTypeDecl(kind DeclKind) bool {
	for _, k := range typeKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// A Scope is a node in the tree of lexical scopes.
type Scope struct {
	ID       int // index in Result.Scopes
	Kind     ScopeKind
	Parent   *Scope      // nil only for the top scope
	Node     syntax.Node // construct that opened the scope
	Flags    ScopeFlags
	Decls    []*Decl     // declarations made in this scope, in source order
	Params   []*Variable // parameters, for parameter scopes and the top scope
	Children []*Scope

	bindings map[string]*Variable
	types    map[string]*Variable
	hoisted  map[string]bool      // var names hoisted through this scope
	exports  map[string]*Variable // TSModuleScope exports
	slots    int

	paramScope *Scope // of a FunctionScope or CatchScope
	funcScope  *Scope // of a FunctionParamScope
}

func newScope(kind ScopeKind, parent *Scope, node syntax.Node) *Scope {
	s := &Scope{
		Kind:     kind,
		Parent:   parent,
		Node:     node,
		bindings: make(map[string]*Variable),
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

func (s *Scope) String() string { return fmt.Sprintf("%s#%d", s.Kind, s.ID) }

func (s *Scope) AddFlag(f ScopeFlags)      { s.Flags |= f }
func (s *Scope) HasFlag(f ScopeFlags) bool { return s.Flags&f != 0 }

// IsVariableScope reports whether s may own a lexical environment.
func (s *Scope) IsVariableScope() bool {
	switch s.Kind {
	case GlobalScope, ModuleScope, FunctionScope, LoopScope, TSModuleScope:
		return true
	}
	return false
}

// IsFunctionVariableScope reports whether s is a hoisting target:
// the top scope, a function body, or a namespace body.
func (s *Scope) IsFunctionVariableScope() bool {
	switch s.Kind {
	case GlobalScope, ModuleScope, FunctionScope, TSModuleScope:
		return true
	}
	return false
}

// EnclosingVariableScope returns the nearest variable scope at or above s.
func (s *Scope) EnclosingVariableScope() *Scope {
	for s != nil && !s.IsVariableScope() {
		s = s.Parent
	}
	return s
}

// EnclosingFunctionScope returns the nearest hoisting target at or above s.
func (s *Scope) EnclosingFunctionScope() *Scope {
	for s != nil && !s.IsFunctionVariableScope() {
		s = s.Parent
	}
	return s
}

// ParamScope returns the parameter scope of a function or catch body.
func (s *Scope) ParamScope() *Scope { return s.paramScope }

// FunctionScope returns the body scope of a function parameter scope.
func (s *Scope) FunctionScope() *Scope { return s.funcScope }

// NeedLexEnv reports whether s has allocated any lexical environment slot.
func (s *Scope) NeedLexEnv() bool { return s.slots != 0 }

// Slots returns the number of lexical environment slots allocated in s.
func (s *Scope) Slots() int { return s.slots }

// NextSlot allocates a lexical environment slot.
func (s *Scope) NextSlot() int {
	n := s.slots
	s.slots++
	return n
}

// Binding returns the variable bound to name in s's value table, or nil.
func (s *Scope) Binding(name string) *Variable { return s.bindings[name] }

// Names returns the names in s's value table, in sorted order.
func (s *Scope) Names() []string { return sortedKeys(s.bindings) }

// Types returns the variables of s's type table, ordered by name then kind.
func (s *Scope) Types() []*Variable {
	vars := make([]*Variable, 0, len(s.types))
	for _, v := range s.types {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool {
		if vars[i].Name() != vars[j].Name() {
			return vars[i].Name() < vars[j].Name()
		}
		return vars[i].Decl.Kind < vars[j].Decl.Kind
	})
	return vars
}

// Export returns the variable exported from a namespace body under name.
func (s *Scope) Export(name string) *Variable { return s.exports[name] }

// ExportNames returns the names exported from a namespace body, sorted.
func (s *Scope) ExportNames() []string { return sortedKeys(s.exports) }

func sortedKeys(m map[string]*Variable) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindLocal returns the variable bound to name in this scope only.
// A value binding takes precedence over a type of the same name
// unless opts contains TypesOnly.
func (s *Scope) FindLocal(name string, opts FindOptions) *Variable {
	if opts&TypesOnly == 0 {
		if v := s.bindings[name]; v != nil {
			return v
		}
	}
	if opts&(WithTypes|TypesOnly) != 0 && s.types != nil {
		for _, k := range typeKinds {
			if v := s.types[typeKey(k, name)]; v != nil {
				return v
			}
		}
	}
	return nil
}

// A Lookup is the result of Find.
type Lookup struct {
	Name  string
	Scope *Scope    // scope in which the variable was found
	Var   *Variable // nil if the name is unresolved (a global reference)

	// Level is the number of function boundaries crossed.
	Level int
	// LexLevel counts only crossed variable scopes that need a
	// lexical environment.
	LexLevel int
	// CrossedConcurrent is set if a crossed function is concurrent.
	CrossedConcurrent bool
}

// Find resolves name starting at s and walking towards the root.
func (s *Scope) Find(name string, opts FindOptions) Lookup {
	res := Lookup{Name: name}
	iter := s
	if iter.Kind == FunctionParamScope {
		if v := iter.FindLocal(name, opts); v != nil {
			res.Scope, res.Var = iter, v
			return res
		}
		res.cross(iter.funcScope)
		iter = iter.Parent
	}
	for ; iter != nil; iter = iter.Parent {
		if v := iter.FindLocal(name, opts); v != nil {
			res.Scope, res.Var = iter, v
			return res
		}
		if iter.IsVariableScope() {
			res.cross(iter)
		}
	}
	return Lookup{Name: name}
}

// cross accounts for leaving the variable scope vs during Find.
func (res *Lookup) cross(vs *Scope) {
	if vs == nil {
		return
	}
	switch vs.Kind {
	case FunctionScope, TSModuleScope:
		res.Level++
		if vs.HasFlag(Concurrent) {
			res.CrossedConcurrent = true
		}
	}
	if vs.NeedLexEnv() {
		res.LexLevel++
	}
}

// AddDecl records decl in s and offers it for binding.
// It reports false if the declaration conflicts with an existing binding.
func (s *Scope) AddDecl(decl *Decl) bool {
	s.Decls = append(s.Decls, decl)
	return s.AddBinding(s.FindLocal(decl.Name, 0), decl)
}

// AddBinding offers decl to s, where cur is the variable s currently
// binds to the same name, if any. Each scope kind applies its own merge
// policy. A false result means redeclaration.
func (s *Scope) AddBinding(cur *Variable, decl *Decl) bool {
	if isTypeDecl(decl.Kind) {
		return s.addType(decl)
	}
	switch s.Kind {
	case GlobalScope, FunctionScope, TSModuleScope:
		switch decl.Kind {
		case VarDecl:
			return s.addVar(cur, decl)
		case FuncDecl:
			return s.addFunction(cur, decl)
		}
		return s.addLexical(cur, decl)

	case ModuleScope:
		switch decl.Kind {
		case VarDecl:
			return s.addVar(cur, decl)
		case FuncDecl:
			if cur != nil {
				return false
			}
			s.insert(newVariable(s.kindFor(decl), decl, Hoist|declVarFlags(decl)))
			return true
		}
		return s.addLexical(cur, decl)

	case FunctionParamScope, CatchParamScope:
		if cur != nil {
			return false
		}
		v := newVariable(LocalVar, decl, Param)
		if s.Kind == CatchParamScope {
			v.AddFlag(Initialized)
		}
		s.insert(v)
		return true

	case CatchScope:
		if decl.Kind != VarDecl && s.paramScope.FindLocal(decl.Name, 0) != nil {
			return false
		}
		return s.addLocal(cur, decl)

	case LocalScope, LoopScope, EnumScope:
		return s.addLocal(cur, decl)
	}
	panic(fmt.Sprintf("unexpected scope kind %v", s.Kind))
}

// kindFor returns the variable kind a non-type declaration gets in s.
func (s *Scope) kindFor(decl *Decl) VarKind {
	switch s.Kind {
	case GlobalScope:
		if (decl.Kind == VarDecl || decl.Kind == FuncDecl) && !s.HasFlag(CommonJSWrapper) {
			return GlobalVar
		}
	case ModuleScope:
		if decl.IsImportOrExport() {
			return ModuleVar
		}
	}
	return LocalVar
}

// declVarFlags maps declaration flags to the initial variable flags.
func declVarFlags(decl *Decl) VarFlags {
	var flags VarFlags
	if decl.HasFlag(DeclExport) {
		flags |= LocalExport
	}
	if decl.HasFlag(DeclImport | DeclNamespaceImport) {
		flags |= Initialized
	}
	return flags
}

func (s *Scope) addVar(cur *Variable, decl *Decl) bool {
	flags := HoistVar | declVarFlags(decl)
	if cur == nil {
		s.insert(newVariable(s.kindFor(decl), decl, flags))
		return true
	}
	switch cur.Decl.Kind {
	case VarDecl:
		cur.Reset(decl, flags)
		if k := s.kindFor(decl); k == ModuleVar {
			cur.Kind = k
		}
		return true
	case ParamDecl, FuncDecl:
		return true
	}
	return false
}

func (s *Scope) addFunction(cur *Variable, decl *Decl) bool {
	flags := Hoist | declVarFlags(decl)
	if cur == nil {
		s.insert(newVariable(s.kindFor(decl), decl, flags))
		return true
	}
	switch cur.Decl.Kind {
	case VarDecl, FuncDecl:
		cur.Reset(decl, flags)
		return true
	case ParamDecl:
		return true
	}
	return false
}

func (s *Scope) addLexical(cur *Variable, decl *Decl) bool {
	if cur != nil {
		return false
	}
	s.insert(newVariable(s.kindFor(decl), decl, declVarFlags(decl)))
	return true
}

// addLocal is the accept path of block-like scopes.
func (s *Scope) addLocal(cur *Variable, decl *Decl) bool {
	switch decl.Kind {
	case VarDecl:
		return s.hoistVar(decl)
	case EnumDecl:
		if cur != nil {
			return false
		}
		s.insert(newVariable(EnumVar, decl, Initialized))
		return true
	}
	if cur != nil || s.hoisted[decl.Name] {
		return false
	}
	flags := declVarFlags(decl)
	if decl.Kind == FuncDecl {
		flags |= Hoist
	}
	s.insert(newVariable(LocalVar, decl, flags))
	return true
}

// hoistVar binds a var declared in block-like scope s in the nearest
// hoisting target, failing if any scope on the way binds the name to
// something other than a var.
func (s *Scope) hoistVar(decl *Decl) bool {
	target := s
	for !target.IsFunctionVariableScope() {
		if v := target.FindLocal(decl.Name, 0); v != nil && v.Decl.Kind != VarDecl && !target.isSimpleCatchParam(v) {
			return false
		}
		target = target.Parent
	}
	if !target.AddBinding(target.FindLocal(decl.Name, 0), decl) {
		return false
	}
	for sc := s; sc != target; sc = sc.Parent {
		if sc.hoisted == nil {
			sc.hoisted = make(map[string]bool)
		}
		sc.hoisted[decl.Name] = true
	}
	return true
}

// isSimpleCatchParam reports whether v is the sole identifier parameter
// of the catch clause that opened s. Such a parameter may be redeclared by var.
func (s *Scope) isSimpleCatchParam(v *Variable) bool {
	if s.Kind != CatchParamScope {
		return false
	}
	clause, ok := s.Node.(*syntax.CatchClause)
	return ok && v.Decl.Node != nil && clause.Param == v.Decl.Node
}

// addType binds a TypeScript entity in the type table. Namespaces,
// interfaces and enums of the same name merge; other kinds conflict.
func (s *Scope) addType(decl *Decl) bool {
	key := typeKey(decl.Kind, decl.Name)
	if cur := s.types[key]; cur != nil {
		switch decl.Kind {
		case NamespaceDecl, InterfaceDecl, EnumLiteralDecl:
			return true
		}
		return false
	}
	var v *Variable
	switch decl.Kind {
	case NamespaceDecl:
		v = newVariable(NamespaceVar, decl, Namespace|Initialized)
	case EnumLiteralDecl:
		v = newVariable(LocalVar, decl, EnumLiteral|Initialized)
	case InterfaceDecl:
		v = newVariable(LocalVar, decl, Interface|Initialized)
	case ImportEqualsDecl:
		v = newVariable(ImportEqualsVar, decl, ImportEquals|Initialized)
	default:
		v = newVariable(LocalVar, decl, Initialized)
	}
	if s.types == nil {
		s.types = make(map[string]*Variable)
	}
	v.Scope = s
	s.types[key] = v
	if decl.HasFlag(DeclExport) && s.Kind == TSModuleScope {
		s.addExport(v)
	}
	return true
}

// insert binds v in s's value table.
func (s *Scope) insert(v *Variable) {
	if v.Scope == nil {
		v.Scope = s
	}
	s.bindings[v.Name()] = v
	if v.Decl.HasFlag(DeclExport) && s.Kind == TSModuleScope {
		s.addExport(v)
	}
}

func (s *Scope) addExport(v *Variable) {
	if s.exports == nil {
		s.exports = make(map[string]*Variable)
	}
	s.exports[v.Name()] = v
}

// bindParams copies the parameter bindings of ps into the function
// body scope s. The tables stay distinct; the variables are shared.
func (s *Scope) bindParams(ps *Scope) {
	s.paramScope = ps
	ps.funcScope = s
	for name, v := range ps.bindings {
		s.bindings[name] = v
	}
}

// InitVariables marks the lexical bindings of a loop scope initialized
// on loop exit, and those captured by closures as per-iteration.
func (s *Scope) InitVariables() {
	for _, v := range s.bindings {
		if !v.Decl.IsLexical() {
			continue
		}
		v.AddFlag(Initialized)
		if v.HasFlag(LexicalBound) {
			v.AddFlag(PerIteration)
		}
	}
}

// AssignIndex records the module slot of the module variable bound to
// name in a module scope.
func (s *Scope) AssignIndex(name string, index int) {
	v := s.bindings[name]
	if v == nil && s.FindLocal(name, TypesOnly) != nil {
		return // an exported TypeScript entity has no runtime slot
	}
	if v == nil || v.Kind != ModuleVar {
		panic(fmt.Sprintf("internal error: %q is not a module variable of %s", name, s))
	}
	v.ModuleIndex = index
}
