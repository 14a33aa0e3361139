// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "reflect"

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}
	EachChild(n, func(c Node) { Walk(c, f) })
	f(nil)
}

// Children returns the non-nil children of n in source order.
func Children(n Node) []Node {
	var list []Node
	EachChild(n, func(c Node) { list = append(list, c) })
	return list
}

// EachChild calls f for each non-nil child of n in source order.
func EachChild(n Node, f func(Node)) {
	node := func(c Node) {
		if !isNil(c) {
			f(c)
		}
	}
	stmts := func(list []Stmt) {
		for _, s := range list {
			node(s)
		}
	}
	exprs := func(list []Expr) {
		for _, x := range list {
			node(x)
		}
	}
	types := func(list []*TypeRef) {
		for _, t := range list {
			node(t)
		}
	}

	switch n := n.(type) {
	case *File:
		stmts(n.Stmts)

	case *BlockStmt:
		stmts(n.Stmts)

	case *VarDecl:
		for _, d := range n.List {
			node(d)
		}

	case *VarDeclarator:
		node(n.Target)
		types(n.Types)
		node(n.Init)

	case *FuncDecl:
		node(n.Func)

	case *ClassDecl:
		node(n.Class)

	case *ExprStmt:
		node(n.X)

	case *IfStmt:
		node(n.Cond)
		node(n.Then)
		node(n.Else)

	case *ForStmt:
		node(n.Init)
		node(n.Cond)
		node(n.Post)
		node(n.Body)

	case *ForInStmt:
		node(n.Left)
		node(n.Right)
		node(n.Body)

	case *WhileStmt:
		node(n.Cond)
		node(n.Body)

	case *DoWhileStmt:
		node(n.Body)
		node(n.Cond)

	case *ReturnStmt:
		node(n.Result)

	case *ThrowStmt:
		node(n.X)

	case *TryStmt:
		node(n.Body)
		node(n.Catch)
		node(n.Finally)

	case *CatchClause:
		node(n.Param)
		node(n.Body)

	case *SwitchStmt:
		node(n.Tag)
		for _, c := range n.Cases {
			node(c)
		}

	case *SwitchCase:
		node(n.Test)
		stmts(n.Body)

	case *BranchStmt:
		node(n.Label)

	case *LabeledStmt:
		node(n.Label)
		node(n.Body)

	case *WithStmt:
		node(n.Object)
		node(n.Body)

	case *EmptyStmt:
		// no-op

	case *ImportDecl:
		for _, s := range n.Specs {
			node(s)
		}
		node(n.Source)

	case *ImportSpec:
		if n.Imported != n.Local {
			node(n.Imported)
		}
		node(n.Local)

	case *ExportNamedDecl:
		node(n.Decl)
		for _, s := range n.Specs {
			node(s)
		}
		node(n.Source)

	case *ExportSpec:
		node(n.Local)
		if n.Exported != n.Local {
			node(n.Exported)
		}

	case *ExportDefaultDecl:
		node(n.Decl)

	case *ExportAllDecl:
		node(n.Exported)
		node(n.Source)

	case *EnumDecl:
		node(n.Name)
		for _, m := range n.Members {
			node(m)
		}

	case *EnumMember:
		node(n.Name)
		node(n.Init)

	case *InterfaceDecl:
		node(n.Name)
		types(n.Refs)

	case *TypeAliasDecl:
		node(n.Name)
		types(n.Refs)

	case *NamespaceDecl:
		node(n.Name)
		stmts(n.Body)

	case *ImportEqualsDecl:
		node(n.Name)
		node(n.Ref)
		node(n.External)

	case *Ident, *Literal, *ThisExpr, *SuperExpr, *MetaProperty:
		// no-op

	case *TemplateLit:
		exprs(n.Exprs)

	case *ArrayExpr:
		exprs(n.Elems)

	case *JSXElement:
		exprs(n.Exprs)

	case *ObjectExpr:
		exprs(n.Props)

	case *Property:
		if !n.Shorthand {
			node(n.Key)
		}
		node(n.Value)

	case *SpreadExpr:
		node(n.X)

	case *FuncExpr:
		node(n.Func)

	case *ClassExpr:
		node(n.Class)

	case *CallExpr:
		node(n.Fn)
		exprs(n.Args)

	case *NewExpr:
		node(n.Fn)
		exprs(n.Args)

	case *MemberExpr:
		node(n.X)
		node(n.Prop)

	case *UnaryExpr:
		node(n.X)

	case *UpdateExpr:
		node(n.X)

	case *BinaryExpr:
		node(n.X)
		node(n.Y)

	case *AssignExpr:
		node(n.Target)
		node(n.Value)

	case *CondExpr:
		node(n.Cond)
		node(n.True)
		node(n.False)

	case *SeqExpr:
		exprs(n.List)

	case *AwaitExpr:
		node(n.X)

	case *YieldExpr:
		node(n.X)

	case *ArrayPattern:
		exprs(n.Elems)

	case *ObjectPattern:
		exprs(n.Props)

	case *AssignPattern:
		node(n.Target)
		node(n.Default)

	case *RestElement:
		node(n.Target)

	case *TypeRef:
		node(n.Name)

	case *Function:
		node(n.Name)
		exprs(n.Params)
		types(n.Types)
		stmts(n.Body)
		node(n.Result)

	case *Class:
		node(n.Name)
		node(n.Super)
		for _, m := range n.Members {
			node(m)
		}

	case *ClassMember:
		node(n.Key)
		node(n.Value)

	default:
		panic(n)
	}
}

// isNil reports whether n is nil or a typed nil pointer,
// as arises from optional fields such as IfStmt.Else.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
