// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/linkage"
	"github.com/jsbind/jsbind/syntax"
)

func TestExportListConvertsLocal(t *testing.T) {
	x := ident("x")
	res := mustBind(t, file(varDecl(x, nil), exportList("x", "x")), module)

	v := varOf(x)
	if v.Kind != binder.ModuleVar || !v.HasFlag(binder.LocalExport) || !v.Decl.HasFlag(binder.DeclExport) {
		t.Errorf("x: %v", v)
	}
	if v.ModuleIndex != 0 {
		t.Errorf("x has index %d, want 0", v.ModuleIndex)
	}
	want := []*linkage.ExportEntry{linkage.NewLocalExport("x", "x")}
	if diff := cmp.Diff(want, res.Record.LocalExportsOf("x")); diff != "" {
		t.Errorf("local exports (-want +got):\n%s", diff)
	}
}

func TestExportBeforeDeclaration(t *testing.T) {
	x := ident("x")
	mustBind(t, file(exportList("x", "y"), letDecl(x, nil)), module)
	if v := varOf(x); v.Kind != binder.ModuleVar {
		t.Errorf("x: %v", v)
	}
}

func TestReExportIsOrderIndependent(t *testing.T) {
	imp := func() syntax.Stmt { return importDecl("m", named("a", "a")) }
	exp := func() syntax.Stmt { return exportList("a", "b") }

	first := mustBind(t, file(imp(), exp()), module).Record
	second := mustBind(t, file(exp(), imp()), module).Record

	want := []*linkage.ExportEntry{linkage.NewIndirectExport("b", "a", 0)}
	for i, r := range []*linkage.Record{first, second} {
		if diff := cmp.Diff(want, r.IndirectExportEntries()); diff != "" {
			t.Errorf("#%d: indirect exports (-want +got):\n%s", i, diff)
		}
		if names := r.LocalExportNames(); len(names) != 0 {
			t.Errorf("#%d: unexpected local exports %v", i, names)
		}
	}
}

func TestModuleIndicesAreDense(t *testing.T) {
	b, a, e := ident("b"), ident("a"), ident("e")
	d, c := named("d", "d"), named("c", "c")
	res := mustBind(t, file(
		export(letDecl(b, nil)),
		export(letDecl(a, nil)),
		letDecl(e, nil),
		exportList("e", "e"),
		importDecl("m", d),
		importDecl("n", c),
	), module)

	check := func() {
		t.Helper()
		for _, test := range []struct {
			id   *syntax.Ident
			want int
		}{{a, 0}, {b, 1}, {e, 2}, {c.Local, 0}, {d.Local, 1}} {
			if got := varOf(test.id).ModuleIndex; got != test.want {
				t.Errorf("%s: index %d, want %d", test.id.Name, got, test.want)
			}
		}
	}
	check()
	res.Record.AssignIndexToModuleVariable(res.Top)
	check()

	if got, want := res.Record.ModuleRequests(), []string{"m", "n"}; !cmp.Equal(got, want) {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestImportBindings(t *testing.T) {
	spec := named("a", "b")
	def := &syntax.ImportSpec{Kind: syntax.DefaultImport, Local: ident("d")}
	res := mustBind(t, file(importDecl("m", spec, def)), module)

	v := res.Top.Binding("b")
	if v == nil || v.Kind != binder.ModuleVar || !v.IsImport() || !v.HasFlag(binder.Initialized) {
		t.Fatalf("b: %v", v)
	}
	if varOf(spec.Local) != v {
		t.Errorf("import site not bound")
	}
	if got := res.Record.RegularImport("d"); got == nil || got.ImportName != "default" {
		t.Errorf("default import entry %v", got)
	}
	if got := res.Record.RegularImport("b"); got == nil || got.ImportName != "a" || got.ModuleRequest != 0 {
		t.Errorf("named import entry %v", got)
	}
}

func TestExportDefault(t *testing.T) {
	res := mustBind(t, file(&syntax.ExportDefaultDecl{Decl: num("1")}), module)
	v := res.Top.Binding("*default*")
	if v == nil || v.Kind != binder.ModuleVar || v.Decl.Kind != binder.LetDecl || !v.HasFlag(binder.Initialized) {
		t.Fatalf("*default*: %v", v)
	}
	want := []*linkage.ExportEntry{linkage.NewLocalExport("default", "*default*")}
	if diff := cmp.Diff(want, res.Record.LocalExportEntries()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestExportDefaultNamedFunction(t *testing.T) {
	f := funcDecl(ident("f"), nil)
	res := mustBind(t, file(&syntax.ExportDefaultDecl{Decl: f}), module)
	if v := res.Top.Binding("f"); v == nil || v.Kind != binder.ModuleVar || v.ModuleIndex != 0 {
		t.Errorf("f: %v", v)
	}
	if res.Top.Binding("*default*") != nil {
		t.Errorf("named default export declared *default*")
	}
}

func TestExportStarAs(t *testing.T) {
	ns := ident("ns")
	res := mustBind(t, file(&syntax.ExportAllDecl{Exported: ns, Source: str("m")}), module)

	v := res.Top.Binding("*ns:ns")
	if v == nil || v.Kind != binder.ModuleVar || v.ModuleIndex != 0 {
		t.Fatalf("namespace export variable: %v", v)
	}
	if got := res.Record.NamespaceImportEntries(); len(got) != 1 || got[0].LocalName != "*ns:ns" {
		t.Errorf("namespace imports %v", got)
	}
	want := []*linkage.ExportEntry{linkage.NewLocalExport("ns", "*ns:ns")}
	if diff := cmp.Diff(want, res.Record.LocalExportEntries()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestExportStar(t *testing.T) {
	res := mustBind(t, file(&syntax.ExportAllDecl{Source: str("m")}), module)
	want := []*linkage.ExportEntry{linkage.NewStarExport(0)}
	if diff := cmp.Diff(want, res.Record.StarExportEntries()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestExportPattern(t *testing.T) {
	a, b := ident("a"), ident("b")
	pattern := &syntax.ObjectPattern{Props: []syntax.Expr{
		&syntax.Property{Key: ident("a"), Value: a, Shorthand: true},
		&syntax.Property{Key: ident("k"), Value: b},
	}}
	res := mustBind(t, file(export(decl(syntax.Const, pattern, ident("obj")))), module)
	if got, want := res.Record.LocalExportNames(), []string{"a", "b"}; !cmp.Equal(got, want) {
		t.Errorf("exports = %v, want %v", got, want)
	}
	if varOf(a).ModuleIndex != 0 || varOf(b).ModuleIndex != 1 {
		t.Errorf("indices a=%d b=%d", varOf(a).ModuleIndex, varOf(b).ModuleIndex)
	}
}

func TestDuplicateExport(t *testing.T) {
	for i, f := range []*syntax.File{
		file(export(letDecl(ident("x"), nil)), exportList("x", "x")),
		file(letDecl(ident("x"), nil), letDecl(ident("z"), nil), exportList("x", "y", "z", "y")),
		file(exportList("a", "a"), &syntax.ExportNamedDecl{Specs: []*syntax.ExportSpec{{Local: ident("b"), Exported: ident("a")}}, Source: str("m")}),
	} {
		_, err := binder.File(f, module)
		if !errors.Is(err, binder.DuplicateExport) {
			t.Errorf("#%d: got %v, want a duplicate export", i, err)
		}
	}
}

func TestUndeclaredExport(t *testing.T) {
	_, err := binder.File(file(letDecl(ident("value"), nil), exportList("valeu", "valeu")), module)
	if !errors.Is(err, binder.UndeclaredExport) {
		t.Fatalf("got %v, want an undeclared export", err)
	}
	if !strings.Contains(err.Error(), "Did you mean 'value'?") {
		t.Errorf("no suggestion in %q", err)
	}

	_, err = binder.File(file(exportList("zzz", "zzz")), module)
	if err == nil || strings.Contains(err.Error(), "Did you mean") {
		t.Errorf("got %v, want an error without suggestion", err)
	}
}

func TestNestedExportListIsNotModuleLevel(t *testing.T) {
	// A let in a block is not a module variable.
	_, err := binder.File(file(block(letDecl(ident("x"), nil)), exportList("x", "x")), module)
	if !errors.Is(err, binder.UndeclaredExport) {
		t.Errorf("got %v", err)
	}
}

func TestConcurrentFunctions(t *testing.T) {
	concurrent := binder.Options{Mode: binder.Module, Concurrent: true}
	directive := func() syntax.Stmt { return expr(str("use concurrent")) }

	// Imports and locals are fine.
	imported, local := ident("a"), ident("l")
	f := funcDecl(ident("f"), nil, directive(), letDecl(ident("l"), nil), expr(imported), expr(local))
	mustBind(t, file(importDecl("m", named("a", "a")), f), concurrent)
	if !scopeOf(f.Func.Scope).HasFlag(binder.Concurrent) {
		t.Errorf("f not flagged concurrent")
	}

	// A module-level let is not.
	g := funcDecl(ident("g"), nil, directive(), expr(ident("y")))
	_, err := binder.File(file(letDecl(ident("y"), nil), g), concurrent)
	if !errors.Is(err, binder.InvalidConcurrentCapture) {
		t.Errorf("capture: got %v", err)
	} else if !strings.Contains(err.Error(), "Concurrent function should only use import variable or local variable") {
		t.Errorf("capture message %q", err)
	}

	// Nor is a nested concurrent function.
	inner := funcDecl(ident("inner"), nil, directive())
	_, err = binder.File(file(funcDecl(ident("outer"), nil, inner)), concurrent)
	if !errors.Is(err, binder.InvalidConcurrentFunction) {
		t.Errorf("nested: got %v", err)
	}

	// Without the option the directive means nothing.
	h := funcDecl(ident("h"), nil, directive(), expr(ident("y")))
	mustBind(t, file(letDecl(ident("y"), nil), h), module)
	if scopeOf(h.Func.Scope).HasFlag(binder.Concurrent) {
		t.Errorf("h flagged concurrent without the option")
	}
}

func TestTypeScriptTables(t *testing.T) {
	ts := binder.Options{Mode: binder.Module, TypeScript: true}
	typeUse, valueUse := ident("I"), ident("I")
	annotated := &syntax.VarDecl{Kind: syntax.Let, List: []*syntax.VarDeclarator{{
		Target: ident("x"),
		Init:   valueUse,
		Types:  []*syntax.TypeRef{{Name: typeUse}},
	}}}
	res := mustBind(t, file(
		&syntax.InterfaceDecl{Name: ident("I")},
		letDecl(ident("I"), nil),
		annotated,
	), ts)

	if v := varOf(typeUse); v == nil || !v.HasFlag(binder.Interface) {
		t.Errorf("type reference bound to %v", v)
	}
	if v := varOf(valueUse); v == nil || v != res.Top.Binding("I") {
		t.Errorf("value reference bound to %v", v)
	}
	if len(res.Top.Types()) != 1 {
		t.Errorf("types = %v", res.Top.Types())
	}
}

func TestEnum(t *testing.T) {
	ts := binder.Options{Mode: binder.Module, TypeScript: true}
	use := ident("A")
	e := &syntax.EnumDecl{Name: ident("E"), Members: []*syntax.EnumMember{
		{Name: ident("A")},
		{Name: ident("B"), Init: use},
	}}
	res := mustBind(t, file(e), ts)

	es := scopeOf(e.Scope)
	if es.Kind != binder.EnumScope {
		t.Fatalf("enum scope kind %s", es.Kind)
	}
	if v := varOf(use); v == nil || v.Kind != binder.EnumVar || v != es.Binding("A") {
		t.Errorf("member reference bound to %v", v)
	}
	if v := res.Top.FindLocal("E", binder.TypesOnly); v == nil || !v.HasFlag(binder.EnumLiteral) {
		t.Errorf("E: %v", v)
	}
}

func TestEnumIsNotCaptured(t *testing.T) {
	ts := binder.Options{Mode: binder.Module, TypeScript: true}
	use := ident("E")
	e := &syntax.EnumDecl{Name: ident("E"), Members: []*syntax.EnumMember{{Name: ident("A")}}}
	f := funcDecl(ident("f"), nil, ret(&syntax.MemberExpr{X: use, Prop: ident("A")}))
	res := mustBind(t, file(e, f), ts)

	v := varOf(use)
	if v == nil || !v.HasFlag(binder.EnumLiteral) {
		t.Fatalf("enum reference bound to %v", v)
	}
	if v.HasFlag(binder.LexicalBound) || res.Top.Slots() != 0 {
		t.Errorf("enum captured: %v, top slots %d", v, res.Top.Slots())
	}
}

func TestNamespace(t *testing.T) {
	ts := binder.Options{Mode: binder.Module, TypeScript: true}
	n := &syntax.NamespaceDecl{Name: ident("N"), Body: []syntax.Stmt{
		export(letDecl(ident("v"), nil)),
		letDecl(ident("hidden"), nil),
		exportList("hidden", "h"),
	}}
	res := mustBind(t, file(n), ts)

	ms := scopeOf(n.Scope)
	if ms.Kind != binder.TSModuleScope || ms.Parent.Kind != binder.FunctionParamScope {
		t.Fatalf("namespace scope %s in %s", ms, ms.Parent)
	}
	if ms.Export("v") == nil || ms.Export("hidden") != nil {
		t.Errorf("namespace exports = %v", ms.ExportNames())
	}
	if v := res.Top.FindLocal("N", binder.TypesOnly); v == nil || v.Kind != binder.NamespaceVar {
		t.Errorf("N: %v", v)
	}
	if len(res.Record.LocalExportNames()) != 0 {
		t.Errorf("namespace exports leaked into the module record")
	}
}

func TestScopeArena(t *testing.T) {
	res := mustBind(t, sampleProgram(), module)
	for i, s := range res.Scopes {
		if s.ID != i {
			t.Errorf("Scopes[%d].ID = %d", i, s.ID)
		}
		if s.Parent != nil && s.Parent.ID >= s.ID {
			t.Errorf("%s created before its parent %s", s, s.Parent)
		}
	}
	if res.Functions[0] != res.Top {
		t.Errorf("Functions[0] is not the top scope")
	}
	for _, fs := range res.Functions[1:] {
		if fs.Kind != binder.FunctionScope {
			t.Errorf("function list holds %s", fs)
		}
	}
}

// sampleProgram returns a fresh tree exercising most binding forms.
func sampleProgram() *syntax.File {
	return file(
		importDecl("m", named("a", "a"), &syntax.ImportSpec{Kind: syntax.NamespaceImport, Local: ident("ns")}),
		export(letDecl(ident("x"), num("1"))),
		funcDecl(ident("f"), params(ident("p"), &syntax.AssignPattern{Target: ident("q"), Default: ident("x")}),
			varDecl(ident("v"), ident("a")),
			&syntax.ForStmt{Init: letDecl(ident("i"), num("0")), Body: block(expr(arrow(ident("i"))))},
			ret(arrow(&syntax.BinaryExpr{Op: "+", X: ident("v"), Y: &syntax.ThisExpr{}})),
		),
		tryCatch(ident("e"), expr(ident("e"))),
		exportList("f", "g"),
		&syntax.ExportDefaultDecl{Decl: ident("x")},
	)
}

type scopeSummary struct {
	Kind, Flags string
	Parent      int
	Slots       int
	Params      []string
	Bindings    []string
}

func summarize(res *binder.Result) []scopeSummary {
	var list []scopeSummary
	for _, s := range res.Scopes {
		sum := scopeSummary{Kind: s.Kind.String(), Flags: s.Flags.String(), Parent: -1, Slots: s.Slots()}
		if s.Parent != nil {
			sum.Parent = s.Parent.ID
		}
		sum.Params = paramNames(s)
		for _, name := range s.Names() {
			sum.Bindings = append(sum.Bindings, fmt.Sprintf("%s: %v", name, s.Binding(name)))
		}
		list = append(list, sum)
	}
	return list
}

func TestBindingIsDeterministic(t *testing.T) {
	first := summarize(mustBind(t, sampleProgram(), module))
	second := summarize(mustBind(t, sampleProgram(), module))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("binding the same program twice differs (-first +second):\n%s", diff)
	}
}
