// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsparse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/jsparse"
	"github.com/jsbind/jsbind/syntax"
)

func parse(t *testing.T, src string, d jsparse.Dialect) *syntax.File {
	t.Helper()
	f, err := jsparse.Parse(context.Background(), "test.js", []byte(src), d)
	require.NoError(t, err)
	return f
}

func TestDialectOf(t *testing.T) {
	for name, want := range map[string]jsparse.Dialect{
		"a.js":      jsparse.JavaScript,
		"a.mjs":     jsparse.JavaScript,
		"a.ts":      jsparse.TypeScript,
		"dir/b.MTS": jsparse.TypeScript,
		"c.tsx":     jsparse.TSX,
		"noext":     jsparse.JavaScript,
	} {
		assert.Equal(t, want, jsparse.DialectOf(name), name)
	}
	assert.False(t, jsparse.JavaScript.IsTypeScript())
	assert.True(t, jsparse.TSX.IsTypeScript())
}

func TestDeclarations(t *testing.T) {
	f := parse(t, "var x = 1;\nconst y = x;\nlet z;\nfunction f(a, b) { return a; }\n", jsparse.JavaScript)
	require.Len(t, f.Stmts, 4)

	for i, kind := range []syntax.VarKind{syntax.Var, syntax.Const, syntax.Let} {
		d, ok := f.Stmts[i].(*syntax.VarDecl)
		require.True(t, ok, "stmt %d is %T", i, f.Stmts[i])
		assert.Equal(t, kind, d.Kind)
		require.Len(t, d.List, 1)
	}

	fd, ok := f.Stmts[3].(*syntax.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "f", fd.Func.Name.Name)
	assert.Len(t, fd.Func.Params, 2)

	id := f.Stmts[1].(*syntax.VarDecl).List[0].Target.(*syntax.Ident)
	assert.Equal(t, int32(2), id.NamePos.Line)
	assert.Equal(t, int32(7), id.NamePos.Col)
}

func TestModuleItems(t *testing.T) {
	f := parse(t, "import d, {a as b} from 'm';\nexport {b as c};\nexport default 1;\nexport * from 'n';\n", jsparse.JavaScript)
	require.Len(t, f.Stmts, 4)

	imp, ok := f.Stmts[0].(*syntax.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, "m", imp.Source.Value)
	require.Len(t, imp.Specs, 2)
	assert.Equal(t, syntax.DefaultImport, imp.Specs[0].Kind)
	assert.Equal(t, "d", imp.Specs[0].Local.Name)
	assert.Equal(t, "a", imp.Specs[1].Imported.Name)
	assert.Equal(t, "b", imp.Specs[1].Local.Name)

	exp, ok := f.Stmts[1].(*syntax.ExportNamedDecl)
	require.True(t, ok)
	require.Len(t, exp.Specs, 1)
	assert.Equal(t, "b", exp.Specs[0].Local.Name)
	assert.Equal(t, "c", exp.Specs[0].Exported.Name)

	assert.IsType(t, &syntax.ExportDefaultDecl{}, f.Stmts[2])
	all, ok := f.Stmts[3].(*syntax.ExportAllDecl)
	require.True(t, ok)
	assert.Nil(t, all.Exported)
}

func TestSyntaxError(t *testing.T) {
	_, err := jsparse.Parse(context.Background(), "bad.js", []byte("var x = ;\n"), jsparse.JavaScript)
	require.Error(t, err)
	var perr *jsparse.Error
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "bad.js:1:")
}

func TestTypeScript(t *testing.T) {
	src := "interface I { x: number }\nenum E { A, B = A }\nnamespace N.M { export let v = 1; }\nlet i: I;\n"
	f := parse(t, src, jsparse.TypeScript)
	require.Len(t, f.Stmts, 4)

	assert.IsType(t, &syntax.InterfaceDecl{}, f.Stmts[0])
	e, ok := f.Stmts[1].(*syntax.EnumDecl)
	require.True(t, ok)
	require.Len(t, e.Members, 2)
	assert.NotNil(t, e.Members[1].Init)

	n, ok := f.Stmts[2].(*syntax.NamespaceDecl)
	require.True(t, ok)
	assert.Equal(t, "N", n.Name.Name)
	require.Len(t, n.Body, 1)
	inner, ok := n.Body[0].(*syntax.ExportNamedDecl)
	require.True(t, ok)
	assert.Equal(t, "M", inner.Decl.(*syntax.NamespaceDecl).Name.Name)

	d := f.Stmts[3].(*syntax.VarDecl)
	require.Len(t, d.List[0].Types, 1)
	assert.Equal(t, "I", d.List[0].Types[0].Name.Name)
}

// Parsing and binding together resolve references through the tree.
func TestParseAndBind(t *testing.T) {
	src := "import {a} from 'm';\nexport function f(p) { let q = p; return () => a + q + this; }\n"
	f := parse(t, src, jsparse.JavaScript)
	res, err := binder.File(f, binder.Options{Mode: binder.Module})
	require.NoError(t, err)

	fv := res.Top.Binding("f")
	require.NotNil(t, fv)
	assert.Equal(t, binder.ModuleVar, fv.Kind)
	assert.Equal(t, 0, fv.ModuleIndex)

	a := res.Top.Binding("a")
	require.NotNil(t, a)
	assert.True(t, a.IsImport())
	assert.Equal(t, []string{"m"}, res.Record.ModuleRequests())

	// The arrow captures q, and the new.target and this of f.
	require.Len(t, res.Functions, 3)
	fs := res.Functions[1]
	q := fs.Binding("q")
	require.NotNil(t, q)
	assert.True(t, q.HasFlag(binder.LexicalBound))
	assert.Equal(t, 0, q.Slot)
	assert.True(t, fs.Binding("this").HasFlag(binder.LexicalBound))
	assert.Equal(t, 3, fs.Slots())
}

func TestWith(t *testing.T) {
	f := parse(t, "function g(o) { with (o) { var v = w; return () => v; } }\n", jsparse.JavaScript)
	body := f.Stmts[0].(*syntax.FuncDecl).Func.Body
	require.Len(t, body, 1)
	w, ok := body[0].(*syntax.WithStmt)
	require.True(t, ok, "%T", body[0])
	assert.Equal(t, "o", w.Object.(*syntax.Ident).Name)

	_, err := binder.File(f, binder.Options{Mode: binder.Script})
	require.NoError(t, err)
	fs := f.Stmts[0].(*syntax.FuncDecl).Func.Scope.(*binder.Scope)
	v := fs.Binding("v")
	require.NotNil(t, v, "var in a with body is not hoisted")
	assert.True(t, v.HasFlag(binder.LexicalBound))
}

func TestJSX(t *testing.T) {
	src := "function f(x) { return () => <C a={x}><div>{x}</div><>{g}</></C>; }\n"
	f := parse(t, src, jsparse.JavaScript)
	_, err := binder.File(f, binder.Options{Mode: binder.Script})
	require.NoError(t, err)

	var names []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if j, ok := n.(*syntax.JSXElement); ok {
			syntax.Walk(j, func(n syntax.Node) bool {
				if id, ok := n.(*syntax.Ident); ok {
					names = append(names, id.Name)
				}
				return true
			})
			return false
		}
		return true
	})
	assert.Equal(t, []string{"C", "x", "x", "g"}, names)

	// The arrow captures x through the JSX attribute and child.
	fs := f.Stmts[0].(*syntax.FuncDecl).Func.Scope.(*binder.Scope)
	assert.True(t, fs.Binding("x").HasFlag(binder.LexicalBound))
}
