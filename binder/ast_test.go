// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder_test

// Helpers for building syntax trees by hand.

import (
	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/syntax"
)

var testFile = "test.js"

// line is the position counter for built nodes; each ident gets its own line.
var line int32

func ident(name string) *syntax.Ident {
	line++
	return &syntax.Ident{NamePos: syntax.MakePosition(&testFile, line, 1), Name: name}
}

func str(s string) *syntax.Literal {
	return &syntax.Literal{Raw: `"` + s + `"`, Value: s}
}

func num(raw string) *syntax.Literal { return &syntax.Literal{Raw: raw} }

func file(stmts ...syntax.Stmt) *syntax.File {
	return &syntax.File{Path: testFile, Stmts: stmts}
}

func decl(kind syntax.VarKind, target syntax.Expr, init syntax.Expr) *syntax.VarDecl {
	return &syntax.VarDecl{Kind: kind, List: []*syntax.VarDeclarator{{Target: target, Init: init}}}
}

func varDecl(id *syntax.Ident, init syntax.Expr) *syntax.VarDecl { return decl(syntax.Var, id, init) }
func letDecl(id *syntax.Ident, init syntax.Expr) *syntax.VarDecl { return decl(syntax.Let, id, init) }
func constDecl(id *syntax.Ident, init syntax.Expr) *syntax.VarDecl {
	return decl(syntax.Const, id, init)
}

func expr(x syntax.Expr) *syntax.ExprStmt { return &syntax.ExprStmt{X: x} }

func block(stmts ...syntax.Stmt) *syntax.BlockStmt { return &syntax.BlockStmt{Stmts: stmts} }

func function(name *syntax.Ident, params []syntax.Expr, body ...syntax.Stmt) *syntax.Function {
	return &syntax.Function{Name: name, Params: params, Body: body}
}

func funcDecl(name *syntax.Ident, params []syntax.Expr, body ...syntax.Stmt) *syntax.FuncDecl {
	return &syntax.FuncDecl{Func: function(name, params, body...)}
}

func arrow(result syntax.Expr) *syntax.FuncExpr {
	return &syntax.FuncExpr{Func: &syntax.Function{Arrow: true, Result: result}}
}

func ret(x syntax.Expr) *syntax.ReturnStmt { return &syntax.ReturnStmt{Result: x} }

func params(list ...syntax.Expr) []syntax.Expr { return list }

func importDecl(src string, specs ...*syntax.ImportSpec) *syntax.ImportDecl {
	return &syntax.ImportDecl{Specs: specs, Source: str(src)}
}

func named(imported, local string) *syntax.ImportSpec {
	return &syntax.ImportSpec{Kind: syntax.NamedImport, Imported: ident(imported), Local: ident(local)}
}

func exportList(pairs ...string) *syntax.ExportNamedDecl {
	d := &syntax.ExportNamedDecl{}
	for i := 0; i < len(pairs); i += 2 {
		d.Specs = append(d.Specs, &syntax.ExportSpec{Local: ident(pairs[i]), Exported: ident(pairs[i+1])})
	}
	return d
}

func export(s syntax.Stmt) *syntax.ExportNamedDecl { return &syntax.ExportNamedDecl{Decl: s} }

// varOf returns the variable an identifier was bound to.
func varOf(id *syntax.Ident) *binder.Variable {
	v, _ := id.Var.(*binder.Variable)
	return v
}

func scopeOf(slot interface{}) *binder.Scope {
	s, _ := slot.(*binder.Scope)
	return s
}

func paramNames(s *binder.Scope) []string {
	var names []string
	for _, v := range s.Params {
		names = append(names, v.Name())
	}
	return names
}
