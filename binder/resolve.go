// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

// This file defines the resolution pass. It re-enters the scopes opened
// by the declaration pass, in the same order, and binds each reference
// to the variable it denotes.
//
// A reference is in the temporal dead zone if it denotes a let, const
// or class binding of the same function that has not been initialized
// at the point the traversal reaches it. References from nested
// functions are never flagged, since the function may run later.
//
// A reference that crosses a function boundary forces the variable
// into a lexical environment slot of its defining variable scope.

import (
	"fmt"

	"github.com/jsbind/jsbind/syntax"
)

func (b *binder) resolveStmts(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		b.resolveStmt(stmt)
	}
}

// push records n as the innermost ancestor of the nodes resolved
// until the result is called.
func (b *binder) push(n syntax.Node) func() {
	b.path = append(b.path, n)
	return func() { b.path = b.path[:len(b.path)-1] }
}

func (b *binder) resolveStmt(stmt syntax.Stmt) {
	defer b.push(stmt)()

	switch s := stmt.(type) {
	case *syntax.VarDecl:
		for _, d := range s.List {
			b.resolveDeclarator(s.Kind, d)
		}

	case *syntax.FuncDecl:
		b.bindDeclName(s.Func.Name)
		b.resolveFunction(s.Func)

	case *syntax.ClassDecl:
		b.resolveClass(s.Class, true)

	case *syntax.BlockStmt:
		defer b.enter(scopeOf(s.Scope))()
		b.resolveStmts(s.Stmts)

	case *syntax.ExprStmt:
		b.resolveExpr(s.X)

	case *syntax.IfStmt:
		b.resolveExpr(s.Cond)
		b.resolveStmt(s.Then)
		if s.Else != nil {
			b.resolveStmt(s.Else)
		}

	case *syntax.ForStmt:
		b.inLoop(s.Scope, func() {
			switch init := s.Init.(type) {
			case *syntax.VarDecl:
				b.resolveStmt(init)
			case syntax.Expr:
				b.resolveExpr(init)
			}
			b.resolveExpr(s.Post)
			b.resolveExpr(s.Cond)
			b.resolveStmt(s.Body)
		})

	case *syntax.ForInStmt:
		b.inLoop(s.Scope, func() {
			b.resolveExpr(s.Right)
			switch left := s.Left.(type) {
			case *syntax.VarDecl:
				b.resolveStmt(left)
			case syntax.Expr:
				b.resolveExpr(left)
			}
			b.resolveStmt(s.Body)
		})

	case *syntax.WhileStmt:
		b.resolveExpr(s.Cond)
		b.inLoop(s.Scope, func() { b.resolveStmt(s.Body) })

	case *syntax.DoWhileStmt:
		b.inLoop(s.Scope, func() { b.resolveStmt(s.Body) })
		b.resolveExpr(s.Cond)

	case *syntax.ReturnStmt:
		b.resolveExpr(s.Result)

	case *syntax.ThrowStmt:
		b.resolveExpr(s.X)

	case *syntax.TryStmt:
		b.resolveStmt(s.Body)
		if c := s.Catch; c != nil {
			b.resolveCatch(c)
		}
		if s.Finally != nil {
			b.resolveStmt(s.Finally)
		}

	case *syntax.SwitchStmt:
		b.resolveExpr(s.Tag)
		defer b.enter(scopeOf(s.Scope))()
		for _, c := range s.Cases {
			b.resolveExpr(c.Test)
			b.resolveStmts(c.Body)
		}

	case *syntax.LabeledStmt:
		b.resolveStmt(s.Body)

	case *syntax.WithStmt:
		b.resolveExpr(s.Object)
		b.resolveStmt(s.Body)

	case *syntax.BranchStmt, *syntax.EmptyStmt:
		// nop

	case *syntax.ImportDecl:
		for _, spec := range s.Specs {
			spec.Local.Var = b.scope.FindLocal(spec.Local.Name, 0)
		}

	case *syntax.ExportNamedDecl:
		if s.Decl != nil {
			b.resolveStmt(s.Decl)
		} else if s.Source == nil {
			b.validateExportDecl(s)
		}

	case *syntax.ExportDefaultDecl:
		b.resolveExportDefault(s)

	case *syntax.ExportAllDecl:
		// nop

	case *syntax.EnumDecl:
		b.bindTypeName(s.Name)
		es := scopeOf(s.Scope)
		defer b.enter(es)()
		for _, m := range s.Members {
			m.Name.Var = es.FindLocal(m.Name.Name, 0)
			b.resolveExpr(m.Init)
		}

	case *syntax.InterfaceDecl:
		b.bindTypeName(s.Name)
		for _, ref := range s.Refs {
			b.resolveTypeRef(ref)
		}

	case *syntax.TypeAliasDecl:
		b.bindTypeName(s.Name)
		for _, ref := range s.Refs {
			b.resolveTypeRef(ref)
		}

	case *syntax.NamespaceDecl:
		b.bindTypeName(s.Name)
		defer b.enter(scopeOf(s.Scope))()
		b.resolveStmts(s.Body)

	case *syntax.ImportEqualsDecl:
		b.bindTypeName(s.Name)
		if s.Ref != nil {
			res := b.scope.Find(rootIdent(s.Ref).Name, WithTypes)
			rootIdent(s.Ref).Var = res.Var
		}

	default:
		panic(fmt.Sprintf("unexpected stmt %T", s))
	}
}

// inLoop resolves a loop within its loop scope, then initializes the
// loop's lexical bindings.
func (b *binder) inLoop(slot interface{}, f func()) {
	loop := scopeOf(slot)
	defer b.enter(loop)()
	f()
	loop.InitVariables()
}

// rootIdent returns the leftmost identifier of a qualified name a.b.c.
func rootIdent(x syntax.Expr) *syntax.Ident {
	for {
		switch e := x.(type) {
		case *syntax.Ident:
			return e
		case *syntax.MemberExpr:
			x = e.X
		default:
			panic(fmt.Sprintf("unexpected qualified name %T", e))
		}
	}
}

// bindDeclName binds the identifier at a declaration site.
func (b *binder) bindDeclName(id *syntax.Ident) {
	if id == nil {
		return
	}
	id.Var = b.scope.Find(id.Name, 0).Var
}

// bindTypeName binds the name at the declaration site of a TypeScript entity.
func (b *binder) bindTypeName(id *syntax.Ident) {
	id.Var = b.scope.Find(id.Name, TypesOnly).Var
}

func (b *binder) resolveDeclarator(kind syntax.VarKind, d *syntax.VarDeclarator) {
	defer b.push(d)()
	for _, ref := range d.Types {
		b.resolveTypeRef(ref)
	}
	if kind == syntax.Var {
		// var names are hoisted, so the target is an ordinary reference.
		b.resolveExpr(d.Target)
		b.resolveExpr(d.Init)
		return
	}
	b.resolveExpr(d.Init)
	b.bindPattern(d.Target)
}

// bindPattern binds the identifiers of a let, const, parameter or catch
// binding target, marking each initialized in source order.
func (b *binder) bindPattern(p syntax.Expr) {
	defer b.push(p)()
	switch p := p.(type) {
	case *syntax.Ident:
		if p.Name == argumentsName {
			b.checkMandatoryArguments(p)
		}
		v := b.scope.Find(p.Name, 0).Var
		if v != nil {
			v.AddFlag(Initialized)
		}
		p.Var = v
	case *syntax.ArrayPattern:
		for _, elem := range p.Elems {
			if elem != nil {
				b.bindPattern(elem)
			}
		}
	case *syntax.ObjectPattern:
		for _, prop := range p.Props {
			switch prop := prop.(type) {
			case *syntax.Property:
				func() {
					defer b.push(prop)()
					if prop.Computed {
						b.resolveExpr(prop.Key)
					}
					b.bindPattern(prop.Value)
				}()
			case *syntax.RestElement:
				b.bindPattern(prop.Target)
			}
		}
	case *syntax.AssignPattern:
		b.resolveExpr(p.Default)
		b.bindPattern(p.Target)
	case *syntax.RestElement:
		b.bindPattern(p.Target)
	default:
		b.resolveExpr(p)
	}
}

func (b *binder) resolveExpr(x syntax.Expr) {
	if x == nil {
		return
	}
	defer b.push(x)()

	switch e := x.(type) {
	case *syntax.Ident:
		b.lookupIdent(e)

	case *syntax.Literal:
		// nop

	case *syntax.TemplateLit:
		b.resolveExprs(e.Exprs)

	case *syntax.ThisExpr:
		b.lexRefs = append(b.lexRefs, lexRef{e, b.scope})

	case *syntax.SuperExpr:
		if fs := b.scope.EnclosingFunctionScope(); fs != nil {
			fs.AddFlag(UsesSuper)
		}

	case *syntax.MetaProperty:
		if e.Meta == "new" && e.Prop == "target" {
			b.lexRefs = append(b.lexRefs, lexRef{e, b.scope})
		}

	case *syntax.ArrayExpr:
		b.resolveExprs(e.Elems)

	case *syntax.JSXElement:
		b.resolveExprs(e.Exprs)

	case *syntax.ArrayPattern:
		b.resolveExprs(e.Elems)

	case *syntax.ObjectExpr:
		b.resolveExprs(e.Props)

	case *syntax.ObjectPattern:
		b.resolveExprs(e.Props)

	case *syntax.Property:
		if e.Computed {
			b.resolveExpr(e.Key)
		}
		b.resolveExpr(e.Value)

	case *syntax.SpreadExpr:
		b.resolveExpr(e.X)

	case *syntax.RestElement:
		b.resolveExpr(e.Target)

	case *syntax.AssignPattern:
		b.resolveExpr(e.Target)
		b.resolveExpr(e.Default)

	case *syntax.FuncExpr:
		b.resolveFunction(e.Func)

	case *syntax.ClassExpr:
		b.resolveClass(e.Class, false)

	case *syntax.CallExpr:
		b.resolveExpr(e.Fn)
		b.resolveExprs(e.Args)

	case *syntax.NewExpr:
		b.resolveExpr(e.Fn)
		b.resolveExprs(e.Args)

	case *syntax.MemberExpr:
		b.resolveExpr(e.X)
		if e.Computed {
			b.resolveExpr(e.Prop)
		}

	case *syntax.UnaryExpr:
		b.resolveExpr(e.X)

	case *syntax.UpdateExpr:
		b.resolveExpr(e.X)

	case *syntax.BinaryExpr:
		b.resolveExpr(e.X)
		b.resolveExpr(e.Y)

	case *syntax.AssignExpr:
		b.resolveExpr(e.Target)
		b.resolveExpr(e.Value)

	case *syntax.CondExpr:
		b.resolveExpr(e.Cond)
		b.resolveExpr(e.True)
		b.resolveExpr(e.False)

	case *syntax.SeqExpr:
		b.resolveExprs(e.List)

	case *syntax.AwaitExpr:
		b.resolveExpr(e.X)

	case *syntax.YieldExpr:
		b.resolveExpr(e.X)

	case *syntax.TypeRef:
		b.resolveTypeRef(e)

	default:
		panic(fmt.Sprintf("unexpected expr %T", e))
	}
}

func (b *binder) resolveExprs(list []syntax.Expr) {
	for _, x := range list {
		if x != nil {
			b.resolveExpr(x)
		}
	}
}

// lookupIdent binds a reference.
func (b *binder) lookupIdent(id *syntax.Ident) {
	if id.Name == argumentsName {
		b.checkMandatoryArguments(id)
		b.instantiateArguments()
	}

	res := b.scope.Find(id.Name, b.findOpts)
	v := res.Var
	if v == nil {
		return // global
	}
	if res.Level > 0 {
		if res.CrossedConcurrent && !v.IsImport() {
			b.errorf(id.NamePos, InvalidConcurrentCapture,
				"Concurrent function should only use import variable or local variable")
		}
		v.SetLexical(res.Scope)
	} else if v.Decl.IsLexical() && !v.Decl.HasFlag(DeclNamespaceImport) && !v.HasFlag(Initialized) {
		id.Tdz = true
	}
	id.Var = v
}

// instantiateArguments binds the arguments object in the nearest
// non-arrow function enclosing the active scope. Arrow functions on
// the way are marked as using it.
func (b *binder) instantiateArguments() {
	iter := b.scope
	for iter != nil {
		var fs *Scope
		if iter.Kind == FunctionParamScope {
			fs = iter.funcScope
		} else {
			fs = iter.EnclosingVariableScope()
		}
		if fs == nil {
			return
		}
		switch fs.Kind {
		case LoopScope:
			iter = fs.Parent
			continue
		case FunctionScope:
		default:
			return // top level or namespace body
		}
		if fs.HasFlag(ArrowFunction) {
			fs.AddFlag(UsesArguments)
			iter = fs.paramScope.Parent
			continue
		}
		if fs.FindLocal(argumentsName, 0) == nil {
			ps := fs.paramScope
			d := &Decl{Kind: ConstDecl, Name: argumentsName}
			v := newVariable(LocalVar, d, Initialized)
			ps.Decls = append(ps.Decls, d)
			ps.insert(v)
			fs.bindings[argumentsName] = v
			fs.AddFlag(UsesArguments)
		}
		return
	}
}

// checkMandatoryArguments rejects arguments as an element of an array
// or object pattern nested anywhere in the target of an assignment,
// declaration, or for-in/of head.
func (b *binder) checkMandatoryArguments(id *syntax.Ident) {
	// b.path ends with id itself.
	pattern := -1
outer:
	for i := len(b.path) - 2; i >= 0; i-- {
		switch n := b.path[i].(type) {
		case *syntax.ArrayExpr, *syntax.ArrayPattern:
			pattern = i
			break outer
		case *syntax.ObjectExpr:
			if !isPropertyValue(n.Props, id) {
				return
			}
			pattern = i
			break outer
		case *syntax.ObjectPattern:
			if !isPropertyValue(n.Props, id) {
				return
			}
			pattern = i
			break outer
		}
	}
	if pattern < 0 {
		return
	}

	// The pattern lies inside a target if the target is on the path
	// between the binding construct and the pattern.
	for i := pattern - 1; i >= 0; i-- {
		var invalid bool
		child := b.path[i+1]
		switch n := b.path[i].(type) {
		case *syntax.AssignExpr:
			invalid = child == syntax.Node(n.Target)
		case *syntax.VarDeclarator:
			invalid = child == syntax.Node(n.Target)
		case *syntax.ForInStmt:
			invalid = child == n.Left
		default:
			continue
		}
		if invalid {
			b.throwInvalidDestructuringTarget(id.NamePos, id.Name)
		}
		return
	}
}

// isPropertyValue reports whether id is the value of one of props.
func isPropertyValue(props []syntax.Expr, id *syntax.Ident) bool {
	for _, p := range props {
		if prop, ok := p.(*syntax.Property); ok && prop.Value == syntax.Expr(id) {
			return true
		}
	}
	return false
}

func (b *binder) resolveFunction(fn *syntax.Function) {
	ps, fs := scopeOf(fn.ParamScope), scopeOf(fn.Scope)
	if fn.Arrow {
		if outer := b.scope.EnclosingFunctionScope(); outer != nil {
			outer.AddFlag(InnerArrow)
		}
	}

	defer b.enter(ps)()
	if fn.Name != nil && fn.Name.Var == nil {
		if v := ps.FindLocal(fn.Name.Name, 0); v != nil && v.Decl.Node == syntax.Node(fn.Name) {
			fn.Name.Var = v
		}
	}
	for _, p := range fn.Params {
		b.bindPattern(p)
	}
	for _, ref := range fn.Types {
		b.resolveTypeRef(ref)
	}

	defer b.enter(fs)()
	b.resolveStmts(fn.Body)
	b.resolveExpr(fn.Result)
}

func (b *binder) resolveCatch(c *syntax.CatchClause) {
	defer b.push(c)()
	defer b.enter(scopeOf(c.Scope))()
	if c.Param != nil {
		b.bindPattern(c.Param)
	}
	b.resolveStmt(c.Body)
}

// resolveClass resolves a class. The outer binding of a class
// declaration is initialized before the heritage and members.
func (b *binder) resolveClass(c *syntax.Class, isDecl bool) {
	if isDecl && c.Name != nil {
		v := b.scope.Find(c.Name.Name, 0).Var
		if v != nil {
			v.AddFlag(Initialized)
		}
		c.Name.Var = v
	}

	cs := scopeOf(c.Scope)
	defer b.enter(cs)()
	if !isDecl && c.Name != nil {
		c.Name.Var = cs.FindLocal(c.Name.Name, 0)
	}
	b.resolveExpr(c.Super)

	fieldScope := scopeOf(c.FieldScope)
	for _, m := range c.Members {
		if m.Computed {
			b.resolveExpr(m.Key)
		}
		if m.Kind != syntax.Field || m.Static || fieldScope == nil {
			b.resolveExpr(m.Value)
			continue
		}
		func() {
			defer b.enter(fieldScope)()
			b.resolveExpr(m.Value)
		}()
	}
}

func (b *binder) resolveExportDefault(d *syntax.ExportDefaultDecl) {
	switch decl := d.Decl.(type) {
	case *syntax.FuncDecl:
		if decl.Func.Name != nil {
			b.resolveStmt(decl)
			return
		}
		b.resolveFunction(decl.Func)
	case *syntax.ClassDecl:
		if decl.Class.Name != nil {
			b.resolveStmt(decl)
			return
		}
		b.resolveClass(decl.Class, false)
	case syntax.Expr:
		b.resolveExpr(decl)
	}
	if v := b.scope.FindLocal(defaultLocalName, 0); v != nil {
		v.AddFlag(Initialized)
	}
}

// resolveTypeRef binds the leading name of a type reference, preferring
// type entities over values.
func (b *binder) resolveTypeRef(t *syntax.TypeRef) {
	res := b.scope.Find(t.Name.Name, TypesOnly)
	if res.Var == nil {
		res = b.scope.Find(t.Name.Name, WithTypes)
	}
	t.Name.Var = res.Var
}

// validateExportDecl checks that each local of export { ... } is
// declared at the top level, and converts it into a module variable.
func (b *binder) validateExportDecl(d *syntax.ExportNamedDecl) {
	if b.record == nil || b.scope != b.top {
		return
	}
	for _, spec := range d.Specs {
		local := spec.Local
		v := b.top.FindLocal(local.Name, 0)
		if v == nil {
			if t := b.top.FindLocal(local.Name, b.findOpts); t != nil {
				local.Var = t // exported TypeScript entity; erased
				continue
			}
			b.throwUndeclaredExport(local.NamePos, local.Name)
		}
		local.Var = v
		if v.Kind != ModuleVar {
			v.Decl.AddFlag(DeclExport)
			v.Kind = ModuleVar
			v.AddFlag(LocalExport)
		}
	}
}
