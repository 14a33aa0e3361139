// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

// This file defines the declaration pass. It opens every scope, records
// each scope in its node's binder slot, and adds every declaration to
// the scope the language assigns it to. References are not looked at.

import (
	"fmt"
	"strconv"

	"github.com/jsbind/jsbind/linkage"
	"github.com/jsbind/jsbind/syntax"
)

var declKindOf = [...]DeclKind{
	syntax.Var:   VarDecl,
	syntax.Let:   LetDecl,
	syntax.Const: ConstDecl,
}

func (b *binder) declareStmts(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		b.declareStmt(stmt)
	}
}

func (b *binder) declareStmt(stmt syntax.Stmt) {
	switch s := stmt.(type) {
	case *syntax.VarDecl:
		b.declareVarDecl(s, 0)

	case *syntax.FuncDecl:
		b.declareFuncDecl(s, 0)

	case *syntax.ClassDecl:
		b.declareClassDecl(s, 0)

	case *syntax.BlockStmt:
		b.declareBlock(s, LocalScope)

	case *syntax.ExprStmt:
		b.declareExpr(s.X)

	case *syntax.IfStmt:
		b.declareExpr(s.Cond)
		b.declareStmt(s.Then)
		if s.Else != nil {
			b.declareStmt(s.Else)
		}

	case *syntax.ForStmt:
		loop := b.newScope(LoopScope, b.scope, s)
		s.Scope = loop
		defer b.enter(loop)()
		switch init := s.Init.(type) {
		case *syntax.VarDecl:
			b.declareVarDecl(init, 0)
		case syntax.Expr:
			b.declareExpr(init)
		}
		b.declareExpr(s.Cond)
		b.declareExpr(s.Post)
		b.declareStmt(s.Body)

	case *syntax.ForInStmt:
		loop := b.newScope(LoopScope, b.scope, s)
		s.Scope = loop
		defer b.enter(loop)()
		b.declareExpr(s.Right)
		switch left := s.Left.(type) {
		case *syntax.VarDecl:
			b.declareVarDecl(left, 0)
		case syntax.Expr:
			b.declareExpr(left)
		}
		b.declareStmt(s.Body)

	case *syntax.WhileStmt:
		b.declareExpr(s.Cond)
		loop := b.newScope(LoopScope, b.scope, s)
		s.Scope = loop
		defer b.enter(loop)()
		b.declareStmt(s.Body)

	case *syntax.DoWhileStmt:
		loop := b.newScope(LoopScope, b.scope, s)
		s.Scope = loop
		func() {
			defer b.enter(loop)()
			b.declareStmt(s.Body)
		}()
		b.declareExpr(s.Cond)

	case *syntax.ReturnStmt:
		b.declareExpr(s.Result)

	case *syntax.ThrowStmt:
		b.declareExpr(s.X)

	case *syntax.TryStmt:
		b.declareBlock(s.Body, LocalScope)
		if s.Catch != nil {
			b.declareCatch(s.Catch)
		}
		if s.Finally != nil {
			b.declareBlock(s.Finally, LocalScope)
		}

	case *syntax.SwitchStmt:
		b.declareExpr(s.Tag)
		cases := b.newScope(LocalScope, b.scope, s)
		s.Scope = cases
		defer b.enter(cases)()
		for _, c := range s.Cases {
			b.declareExpr(c.Test)
			b.declareStmts(c.Body)
		}

	case *syntax.LabeledStmt:
		b.declareStmt(s.Body)

	case *syntax.WithStmt:
		b.declareExpr(s.Object)
		b.declareStmt(s.Body)

	case *syntax.BranchStmt, *syntax.EmptyStmt:
		// nop

	case *syntax.ImportDecl:
		b.declareImport(s)

	case *syntax.ExportNamedDecl:
		b.declareExportNamed(s)

	case *syntax.ExportDefaultDecl:
		b.declareExportDefault(s)

	case *syntax.ExportAllDecl:
		b.declareExportAll(s)

	case *syntax.EnumDecl:
		b.declareEnum(s, 0)

	case *syntax.InterfaceDecl:
		b.addDecl(InterfaceDecl, s.Name.Name, 0, s.Name)

	case *syntax.TypeAliasDecl:
		b.addDecl(TypeAliasDecl, s.Name.Name, 0, s.Name)

	case *syntax.NamespaceDecl:
		b.declareNamespace(s, 0)

	case *syntax.ImportEqualsDecl:
		b.declareImportEquals(s)

	default:
		panic(fmt.Sprintf("unexpected stmt %T", s))
	}
}

// declareBlock opens a scope of the given kind for a braced block.
func (b *binder) declareBlock(block *syntax.BlockStmt, kind ScopeKind) *Scope {
	s := b.newScope(kind, b.scope, block)
	block.Scope = s
	defer b.enter(s)()
	b.declareStmts(block.Stmts)
	return s
}

func (b *binder) declareVarDecl(d *syntax.VarDecl, flags DeclFlags) {
	if d.Declare {
		flags |= DeclAmbient
	}
	kind := declKindOf[d.Kind]
	for _, v := range d.List {
		b.declarePattern(v.Target, kind, flags)
		b.declareExpr(v.Init)
	}
}

// declarePattern declares each name bound by the binding target p.
func (b *binder) declarePattern(p syntax.Expr, kind DeclKind, flags DeclFlags) {
	switch p := p.(type) {
	case *syntax.Ident:
		b.addDecl(kind, p.Name, flags, p)
	case *syntax.ArrayPattern:
		for _, elem := range p.Elems {
			if elem != nil {
				b.declarePattern(elem, kind, flags)
			}
		}
	case *syntax.ObjectPattern:
		for _, prop := range p.Props {
			switch prop := prop.(type) {
			case *syntax.Property:
				if prop.Computed {
					b.declareExpr(prop.Key)
				}
				b.declarePattern(prop.Value, kind, flags)
			case *syntax.RestElement:
				b.declarePattern(prop.Target, kind, flags)
			}
		}
	case *syntax.AssignPattern:
		b.declarePattern(p.Target, kind, flags)
		b.declareExpr(p.Default)
	case *syntax.RestElement:
		b.declarePattern(p.Target, kind, flags)
	default:
		// Assignment targets such as o.x appear in for-in heads.
		b.declareExpr(p)
	}
}

// boundNames returns the identifiers bound by a binding target, in
// source order.
func boundNames(p syntax.Expr) []*syntax.Ident {
	var names []*syntax.Ident
	var visit func(p syntax.Expr)
	visit = func(p syntax.Expr) {
		switch p := p.(type) {
		case *syntax.Ident:
			names = append(names, p)
		case *syntax.ArrayPattern:
			for _, elem := range p.Elems {
				visit(elem)
			}
		case *syntax.ObjectPattern:
			for _, prop := range p.Props {
				switch prop := prop.(type) {
				case *syntax.Property:
					visit(prop.Value)
				case *syntax.RestElement:
					visit(prop.Target)
				}
			}
		case *syntax.AssignPattern:
			visit(p.Target)
		case *syntax.RestElement:
			visit(p.Target)
		}
	}
	visit(p)
	return names
}

func (b *binder) declareFuncDecl(d *syntax.FuncDecl, flags DeclFlags) {
	if d.Declare {
		flags |= DeclAmbient
	}
	if fn := d.Func; fn.Name != nil {
		b.addDecl(FuncDecl, fn.Name.Name, flags, fn.Name)
	}
	b.declareFunction(d.Func, true)
}

// declareFunction opens the parameter and body scopes of fn and
// returns the body scope. The name of a function expression is bound
// in its parameter scope.
func (b *binder) declareFunction(fn *syntax.Function, isDecl bool) *Scope {
	ps := b.newScope(FunctionParamScope, b.scope, fn)
	fn.ParamScope = ps
	func() {
		defer b.enter(ps)()
		for i, p := range fn.Params {
			b.declareParam(ps, i, p)
		}
	}()

	fs := b.newScope(FunctionScope, ps, fn)
	fs.bindParams(ps)
	fn.Scope = fs
	b.funcs = append(b.funcs, fs)
	if fn.Arrow {
		fs.AddFlag(ArrowFunction)
	}
	if !fn.Arrow && b.opts.Concurrent && fn.Directive(concurrentDirective) {
		if ps.Parent != b.top || b.top.Kind != ModuleScope {
			b.errorf(syntax.Start(fn), InvalidConcurrentFunction,
				"Concurrent function should only be defined in top-level scope")
		}
		fs.AddFlag(Concurrent)
	}

	if !isDecl && fn.Name != nil && ps.FindLocal(fn.Name.Name, 0) == nil {
		d := &Decl{Kind: ConstDecl, Name: fn.Name.Name, Node: fn.Name}
		ps.Decls = append(ps.Decls, d)
		ps.insert(newVariable(LocalVar, d, Initialized|ReadOnly))
	}

	defer b.enter(fs)()
	b.declareStmts(fn.Body)
	b.declareExpr(fn.Result)
	return fs
}

// simpleParam returns the identifier of a parameter that binds a
// single name: x, x = default, or ...x.
func simpleParam(p syntax.Expr) *syntax.Ident {
	switch p := p.(type) {
	case *syntax.Ident:
		return p
	case *syntax.AssignPattern:
		id, _ := p.Target.(*syntax.Ident)
		return id
	case *syntax.RestElement:
		id, _ := p.Target.(*syntax.Ident)
		return id
	}
	return nil
}

// declareParam declares the i-th parameter of a function. A pattern
// parameter occupies a synthetic "#i" parameter; the names it binds
// are locals of the parameter scope.
func (b *binder) declareParam(ps *Scope, i int, p syntax.Expr) {
	if id := simpleParam(p); id != nil {
		b.addDecl(ParamDecl, id.Name, 0, id)
		ps.Params = append(ps.Params, ps.bindings[id.Name])
		if ap, ok := p.(*syntax.AssignPattern); ok {
			b.declareExpr(ap.Default)
		}
		return
	}
	d := &Decl{Kind: ParamDecl, Name: "#" + strconv.Itoa(i), Node: p}
	ps.Decls = append(ps.Decls, d)
	v := newVariable(LocalVar, d, Param)
	ps.insert(v)
	ps.Params = append(ps.Params, v)
	b.declarePattern(p, ParamDecl, 0)
}

func (b *binder) declareCatch(c *syntax.CatchClause) {
	ps := b.newScope(CatchParamScope, b.scope, c)
	c.Scope = ps
	defer b.enter(ps)()
	if c.Param != nil {
		if id, ok := c.Param.(*syntax.Ident); ok {
			b.addDecl(ParamDecl, id.Name, 0, id)
			ps.Params = append(ps.Params, ps.bindings[id.Name])
		} else {
			b.declarePattern(c.Param, ParamDecl, 0)
		}
	}
	body := b.newScope(CatchScope, ps, c.Body)
	body.paramScope = ps
	c.Body.Scope = body
	defer b.enter(body)()
	b.declareStmts(c.Body.Stmts)
}

func (b *binder) declareClassDecl(d *syntax.ClassDecl, flags DeclFlags) {
	if d.Declare {
		flags |= DeclAmbient
	}
	if c := d.Class; c.Name != nil {
		b.addDecl(ClassDecl, c.Name.Name, flags, c.Name)
	}
	b.declareClass(d.Class)
}

// declareClass opens the class scope, which binds the inner class name,
// and declares the members. Instance field initializers belong to the
// constructor; a class without one gets a synthetic constructor scope.
func (b *binder) declareClass(c *syntax.Class) {
	cs := b.newScope(LocalScope, b.scope, c)
	c.Scope = cs
	defer b.enter(cs)()
	if c.Name != nil {
		d := &Decl{Kind: ConstDecl, Name: c.Name.Name, Node: c.Name}
		cs.Decls = append(cs.Decls, d)
		cs.insert(newVariable(LocalVar, d, Initialized|ReadOnly))
	}
	b.declareExpr(c.Super)

	var fieldScope *Scope
	needFieldScope := false
	for _, m := range c.Members {
		if m.Computed {
			b.declareExpr(m.Key)
		}
		if m.Kind == syntax.Field {
			if m.Value != nil && !m.Static {
				needFieldScope = true
			}
			continue
		}
		fs := b.declareFunction(m.Value.(*syntax.FuncExpr).Func, false)
		if m.Kind == syntax.Constructor {
			b.markConstructor(fs, c)
			fieldScope = fs
		}
	}
	if fieldScope == nil && needFieldScope {
		fieldScope = b.syntheticConstructor(c)
	}
	if fieldScope != nil {
		c.FieldScope = fieldScope
	}

	for _, m := range c.Members {
		if m.Kind != syntax.Field || m.Value == nil {
			continue
		}
		if m.Static {
			b.declareExpr(m.Value)
			continue
		}
		func() {
			defer b.enter(fieldScope)()
			b.declareExpr(m.Value)
		}()
	}
}

func (b *binder) markConstructor(fs *Scope, c *syntax.Class) {
	fs.AddFlag(Constructor)
	if c.Super != nil {
		fs.AddFlag(DerivedConstructor)
	}
}

// syntheticConstructor opens the scopes of the implicit constructor
// of c, in which its instance field initializers run.
func (b *binder) syntheticConstructor(c *syntax.Class) *Scope {
	ps := b.newScope(FunctionParamScope, b.scope, c)
	fs := b.newScope(FunctionScope, ps, c)
	fs.bindParams(ps)
	b.markConstructor(fs, c)
	b.funcs = append(b.funcs, fs)
	return fs
}

// declareExpr opens the scopes of the functions and classes within x.
func (b *binder) declareExpr(x syntax.Expr) {
	if x == nil {
		return
	}
	syntax.Walk(x, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.FuncExpr:
			b.declareFunction(n.Func, false)
			return false
		case *syntax.ClassExpr:
			b.declareClass(n.Class)
			return false
		}
		return true
	})
}

// specifier returns the module specifier denoted by a string literal.
func specifier(lit *syntax.Literal) string {
	if s, ok := lit.Value.(string); ok {
		return s
	}
	if s, err := strconv.Unquote(lit.Raw); err == nil {
		return s
	}
	return lit.Raw
}

// inNamespace reports whether the active scope is within a TypeScript
// namespace body, whose exports are not module exports.
func (b *binder) inNamespace() bool {
	return b.scope.EnclosingFunctionScope().Kind == TSModuleScope
}

// addLocalExport adds a local export entry to the module record.
func (b *binder) addLocalExport(pos syntax.Position, exportName, localName string) {
	if b.record == nil {
		return
	}
	if !b.record.AddLocalExportEntry(linkage.NewLocalExport(exportName, localName)) {
		b.throwDuplicateExport(pos, exportName)
	}
}

func (b *binder) declareImport(d *syntax.ImportDecl) {
	req := -1
	if b.record != nil {
		req = b.record.AddModuleRequest(specifier(d.Source))
	}
	for _, spec := range d.Specs {
		flags := DeclImport
		if spec.Kind == syntax.NamespaceImport {
			flags |= DeclNamespaceImport
		}
		local := spec.Local.Name
		b.addDecl(ConstDecl, local, flags, spec.Local)
		if b.record == nil {
			continue
		}
		switch spec.Kind {
		case syntax.NamespaceImport:
			b.record.AddStarImportEntry(&linkage.ImportEntry{ModuleRequest: req, LocalName: local})
		case syntax.DefaultImport:
			b.record.AddImportEntry(&linkage.ImportEntry{ModuleRequest: req, LocalName: local, ImportName: "default"})
		default:
			b.record.AddImportEntry(&linkage.ImportEntry{ModuleRequest: req, LocalName: local, ImportName: spec.Imported.Name})
		}
	}
}

func (b *binder) declareExportNamed(d *syntax.ExportNamedDecl) {
	if d.Decl != nil {
		var names []*syntax.Ident
		switch decl := d.Decl.(type) {
		case *syntax.VarDecl:
			b.declareVarDecl(decl, DeclExport)
			for _, v := range decl.List {
				names = append(names, boundNames(v.Target)...)
			}
		case *syntax.FuncDecl:
			b.declareFuncDecl(decl, DeclExport)
			names = append(names, decl.Func.Name)
		case *syntax.ClassDecl:
			b.declareClassDecl(decl, DeclExport)
			names = append(names, decl.Class.Name)
		case *syntax.EnumDecl:
			b.declareEnum(decl, DeclExport)
		case *syntax.NamespaceDecl:
			b.declareNamespace(decl, DeclExport)
		case *syntax.InterfaceDecl:
			b.addDecl(InterfaceDecl, decl.Name.Name, DeclExport, decl.Name)
		case *syntax.TypeAliasDecl:
			b.addDecl(TypeAliasDecl, decl.Name.Name, DeclExport, decl.Name)
		case *syntax.ImportEqualsDecl:
			b.declareImportEquals(decl)
		default:
			panic(fmt.Sprintf("unexpected exported declaration %T", decl))
		}
		// TypeScript entities live in the type table and are erased,
		// so only value declarations enter the record.
		if !b.inNamespace() {
			for _, id := range names {
				b.addLocalExport(id.NamePos, id.Name, id.Name)
			}
		}
		return
	}

	if b.record == nil || b.inNamespace() {
		return
	}
	if d.Source != nil {
		req := b.record.AddModuleRequest(specifier(d.Source))
		for _, spec := range d.Specs {
			e := linkage.NewIndirectExport(spec.Exported.Name, spec.Local.Name, req)
			if !b.record.AddIndirectExportEntry(e) {
				b.throwDuplicateExport(spec.Exported.NamePos, spec.Exported.Name)
			}
		}
		return
	}
	// The locals are checked once every declaration is known.
	for _, spec := range d.Specs {
		b.addLocalExport(spec.Exported.NamePos, spec.Exported.Name, spec.Local.Name)
	}
}

func (b *binder) declareExportDefault(d *syntax.ExportDefaultDecl) {
	local := defaultLocalName
	switch decl := d.Decl.(type) {
	case *syntax.FuncDecl:
		if fn := decl.Func; fn.Name != nil {
			b.declareFuncDecl(decl, DeclExport)
			local = fn.Name.Name
		} else {
			b.addDecl(FuncDecl, defaultLocalName, DeclExport, d)
			b.declareFunction(fn, true)
		}
	case *syntax.ClassDecl:
		if c := decl.Class; c.Name != nil {
			b.declareClassDecl(decl, DeclExport)
			local = c.Name.Name
		} else {
			b.addDecl(LetDecl, defaultLocalName, DeclExport, d)
			b.declareClass(c)
		}
	case syntax.Expr:
		b.addDecl(LetDecl, defaultLocalName, DeclExport, d)
		b.declareExpr(decl)
	default:
		panic(fmt.Sprintf("unexpected default export %T", decl))
	}
	b.addLocalExport(syntax.Start(d), "default", local)
}

func (b *binder) declareExportAll(d *syntax.ExportAllDecl) {
	if b.record == nil {
		return
	}
	req := b.record.AddModuleRequest(specifier(d.Source))
	if d.Exported == nil {
		b.record.AddStarExportEntry(linkage.NewStarExport(req))
		return
	}
	local := namespaceExportPrefix + d.Exported.Name
	b.addDecl(ConstDecl, local, DeclExport|DeclNamespaceImport, d)
	b.record.AddStarImportEntry(&linkage.ImportEntry{ModuleRequest: req, LocalName: local})
	b.addLocalExport(d.Exported.NamePos, d.Exported.Name, local)
}

func (b *binder) declareEnum(e *syntax.EnumDecl, flags DeclFlags) {
	if e.Declare {
		flags |= DeclAmbient
	}
	b.addDecl(EnumLiteralDecl, e.Name.Name, flags, e.Name)
	es := b.newScope(EnumScope, b.scope, e)
	e.Scope = es
	defer b.enter(es)()
	for _, m := range e.Members {
		b.addDecl(EnumDecl, m.Name.Name, 0, m.Name)
		b.declareExpr(m.Init)
	}
}

// declareNamespace opens a namespace body. Like a function, it has a
// parameter scope (with no parameters) and a body scope.
func (b *binder) declareNamespace(n *syntax.NamespaceDecl, flags DeclFlags) {
	if n.Declare {
		flags |= DeclAmbient
	}
	b.addDecl(NamespaceDecl, n.Name.Name, flags, n.Name)
	ps := b.newScope(FunctionParamScope, b.scope, n)
	ms := b.newScope(TSModuleScope, ps, n)
	ms.bindParams(ps)
	n.Scope = ms
	defer b.enter(ms)()
	b.declareStmts(n.Body)
}

func (b *binder) declareImportEquals(d *syntax.ImportEqualsDecl) {
	var flags DeclFlags
	if d.Export {
		flags |= DeclExport
	}
	b.addDecl(ImportEqualsDecl, d.Name.Name, flags, d.Name)
	if d.External != nil && b.record != nil {
		b.record.AddModuleRequest(specifier(d.External))
	}
}
