// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsparse

// This file lowers tree-sitter nodes of the javascript and typescript
// grammars into syntax nodes.

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsbind/jsbind/syntax"
)

type lowerer struct {
	src  []byte
	file *string
}

func (l *lowerer) text(n *sitter.Node) string { return n.Content(l.src) }

func (l *lowerer) pos(n *sitter.Node) syntax.Position {
	p := n.StartPoint()
	return syntax.MakePosition(l.file, int32(p.Row)+1, int32(p.Column)+1)
}

func (l *lowerer) rng(n *sitter.Node) syntax.Range {
	p := n.EndPoint()
	return syntax.Range{StartPos: l.pos(n), EndPos: syntax.MakePosition(l.file, int32(p.Row)+1, int32(p.Column)+1)}
}

// named returns the named children of n, without comments.
func (l *lowerer) named(n *sitter.Node) []*sitter.Node {
	var list []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "comment", "hash_bang_line", "decorator":
			continue
		}
		list = append(list, c)
	}
	return list
}

// first returns the first named child of n, or nil.
func (l *lowerer) first(n *sitter.Node) *sitter.Node {
	if list := l.named(n); len(list) > 0 {
		return list[0]
	}
	return nil
}

// hasToken reports whether n has an anonymous child of the given type.
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

func same(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func (l *lowerer) ident(n *sitter.Node) *syntax.Ident {
	return &syntax.Ident{NamePos: l.pos(n), Name: l.text(n)}
}

func (l *lowerer) literal(n *sitter.Node) *syntax.Literal {
	lit := &syntax.Literal{Range: l.rng(n), Raw: l.text(n)}
	if n.Type() == "string" {
		lit.Value = unquote(lit.Raw)
	}
	return lit
}

// unquote strips the quotes of a string literal. Escapes are kept.
func unquote(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// ---- statements ----

func (l *lowerer) stmts(n *sitter.Node) []syntax.Stmt {
	var list []syntax.Stmt
	for _, c := range l.named(n) {
		if s := l.stmt(c); s != nil {
			list = append(list, s)
		}
	}
	return list
}

func (l *lowerer) block(n *sitter.Node) *syntax.BlockStmt {
	return &syntax.BlockStmt{Range: l.rng(n), Stmts: l.stmts(n)}
}

func (l *lowerer) stmt(n *sitter.Node) syntax.Stmt {
	r := l.rng(n)
	switch n.Type() {
	case "expression_statement":
		x := l.first(n)
		if x == nil {
			return &syntax.EmptyStmt{Range: r}
		}
		switch x.Type() {
		case "internal_module", "module":
			return l.namespace(x)
		}
		return &syntax.ExprStmt{Range: r, X: l.expr(x)}

	case "variable_declaration":
		return &syntax.VarDecl{Range: r, Kind: syntax.Var, List: l.declarators(n)}

	case "lexical_declaration":
		kind := syntax.Let
		if k := n.ChildByFieldName("kind"); k != nil && l.text(k) == "const" {
			kind = syntax.Const
		} else if k == nil && hasToken(n, "const") {
			kind = syntax.Const
		}
		return &syntax.VarDecl{Range: r, Kind: kind, List: l.declarators(n)}

	case "function_declaration", "generator_function_declaration":
		return &syntax.FuncDecl{Range: r, Func: l.function(n)}

	case "class_declaration", "abstract_class_declaration":
		return &syntax.ClassDecl{Range: r, Class: l.class(n)}

	case "statement_block":
		return l.block(n)

	case "if_statement":
		s := &syntax.IfStmt{Range: r, Cond: l.expr(n.ChildByFieldName("condition")), Then: l.stmt(n.ChildByFieldName("consequence"))}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Type() == "else_clause" {
				alt = l.first(alt)
			}
			s.Else = l.stmt(alt)
		}
		return s

	case "for_statement":
		s := &syntax.ForStmt{Range: r, Body: l.stmt(n.ChildByFieldName("body"))}
		if init := n.ChildByFieldName("initializer"); init != nil {
			switch init.Type() {
			case "variable_declaration", "lexical_declaration":
				s.Init = l.stmt(init)
			default:
				if x := l.optExpr(init); x != nil {
					s.Init = x
				}
			}
		}
		s.Cond = l.optExpr(n.ChildByFieldName("condition"))
		s.Post = l.optExpr(n.ChildByFieldName("increment"))
		return s

	case "for_in_statement":
		s := &syntax.ForInStmt{
			Range: r,
			Right: l.expr(n.ChildByFieldName("right")),
			Body:  l.stmt(n.ChildByFieldName("body")),
			Await: hasToken(n, "await"),
		}
		if op := n.ChildByFieldName("operator"); op != nil {
			s.Of = l.text(op) == "of"
		} else {
			s.Of = hasToken(n, "of")
		}
		left := n.ChildByFieldName("left")
		if k := n.ChildByFieldName("kind"); k != nil {
			kind := map[string]syntax.VarKind{"var": syntax.Var, "let": syntax.Let, "const": syntax.Const}[l.text(k)]
			s.Left = &syntax.VarDecl{
				Range: l.rng(left),
				Kind:  kind,
				List:  []*syntax.VarDeclarator{{Range: l.rng(left), Target: l.pattern(left)}},
			}
		} else {
			switch left.Type() {
			case "variable_declaration", "lexical_declaration":
				s.Left = l.stmt(left)
			default:
				s.Left = l.pattern(left)
			}
		}
		return s

	case "while_statement":
		return &syntax.WhileStmt{Range: r, Cond: l.expr(n.ChildByFieldName("condition")), Body: l.stmt(n.ChildByFieldName("body"))}

	case "do_statement":
		return &syntax.DoWhileStmt{Range: r, Body: l.stmt(n.ChildByFieldName("body")), Cond: l.expr(n.ChildByFieldName("condition"))}

	case "return_statement":
		return &syntax.ReturnStmt{Range: r, Result: l.optExpr(l.first(n))}

	case "throw_statement":
		return &syntax.ThrowStmt{Range: r, X: l.expr(l.first(n))}

	case "try_statement":
		s := &syntax.TryStmt{Range: r, Body: l.block(n.ChildByFieldName("body"))}
		if h := n.ChildByFieldName("handler"); h != nil {
			c := &syntax.CatchClause{Range: l.rng(h), Body: l.block(h.ChildByFieldName("body"))}
			if p := h.ChildByFieldName("parameter"); p != nil {
				c.Param = l.pattern(p)
			}
			s.Catch = c
		}
		if f := n.ChildByFieldName("finalizer"); f != nil {
			s.Finally = l.block(f.ChildByFieldName("body"))
		}
		return s

	case "switch_statement":
		s := &syntax.SwitchStmt{Range: r, Tag: l.expr(n.ChildByFieldName("value"))}
		for _, c := range l.named(n.ChildByFieldName("body")) {
			sc := &syntax.SwitchCase{Range: l.rng(c)}
			test := c.ChildByFieldName("value")
			if c.Type() == "switch_case" && test != nil {
				sc.Test = l.expr(test)
			}
			for _, b := range l.named(c) {
				if same(b, test) {
					continue
				}
				if st := l.stmt(b); st != nil {
					sc.Body = append(sc.Body, st)
				}
			}
			s.Cases = append(s.Cases, sc)
		}
		return s

	case "break_statement", "continue_statement":
		s := &syntax.BranchStmt{Range: r, Token: strings.TrimSuffix(n.Type(), "_statement")}
		if lab := n.ChildByFieldName("label"); lab != nil {
			s.Label = l.ident(lab)
		}
		return s

	case "with_statement":
		return &syntax.WithStmt{Range: r, Object: l.expr(n.ChildByFieldName("object")), Body: l.stmt(n.ChildByFieldName("body"))}

	case "labeled_statement":
		return &syntax.LabeledStmt{Range: r, Label: l.ident(n.ChildByFieldName("label")), Body: l.stmt(n.ChildByFieldName("body"))}

	case "import_statement":
		return l.importStmt(n)

	case "export_statement":
		return l.exportStmt(n)

	case "enum_declaration":
		return l.enum(n)

	case "interface_declaration":
		name := n.ChildByFieldName("name")
		return &syntax.InterfaceDecl{Range: r, Name: l.ident(name), Refs: l.typesExcept(n, name)}

	case "type_alias_declaration":
		name := n.ChildByFieldName("name")
		return &syntax.TypeAliasDecl{Range: r, Name: l.ident(name), Refs: l.typesExcept(n, name)}

	case "internal_module", "module":
		return l.namespace(n)

	case "import_alias":
		list := l.named(n)
		return &syntax.ImportEqualsDecl{Range: r, Name: l.ident(list[0]), Ref: l.qualified(list[len(list)-1])}

	case "ambient_declaration":
		inner := l.first(n)
		if inner == nil {
			return &syntax.EmptyStmt{Range: r}
		}
		s := l.stmt(inner)
		switch s := s.(type) {
		case *syntax.VarDecl:
			s.Declare = true
		case *syntax.FuncDecl:
			s.Declare = true
		case *syntax.ClassDecl:
			s.Declare = true
		case *syntax.EnumDecl:
			s.Declare = true
		case *syntax.NamespaceDecl:
			s.Declare = true
		}
		return s

	case "comment", "hash_bang_line":
		return nil
	}
	// empty_statement, debugger_statement, function_signature and
	// other statements that declare nothing.
	return &syntax.EmptyStmt{Range: r}
}

func (l *lowerer) declarators(n *sitter.Node) []*syntax.VarDeclarator {
	var list []*syntax.VarDeclarator
	for _, c := range l.named(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		d := &syntax.VarDeclarator{Range: l.rng(c), Target: l.pattern(c.ChildByFieldName("name"))}
		if v := c.ChildByFieldName("value"); v != nil {
			d.Init = l.expr(v)
		}
		if t := c.ChildByFieldName("type"); t != nil {
			d.Types = l.types(t)
		}
		list = append(list, d)
	}
	return list
}

func (l *lowerer) importStmt(n *sitter.Node) syntax.Stmt {
	r := l.rng(n)
	d := &syntax.ImportDecl{Range: r}
	if src := n.ChildByFieldName("source"); src != nil {
		d.Source = l.literal(src)
	}
	for _, c := range l.named(n) {
		switch c.Type() {
		case "import_require_clause":
			// import x = require('m')
			return &syntax.ImportEqualsDecl{
				Range:    r,
				Name:     l.ident(l.first(c)),
				External: l.literal(c.ChildByFieldName("source")),
			}
		case "import_clause":
			for _, spec := range l.named(c) {
				switch spec.Type() {
				case "identifier":
					d.Specs = append(d.Specs, &syntax.ImportSpec{Range: l.rng(spec), Kind: syntax.DefaultImport, Local: l.ident(spec)})
				case "namespace_import":
					d.Specs = append(d.Specs, &syntax.ImportSpec{Range: l.rng(spec), Kind: syntax.NamespaceImport, Local: l.ident(l.first(spec))})
				case "named_imports":
					for _, is := range l.named(spec) {
						if is.Type() != "import_specifier" {
							continue
						}
						name := is.ChildByFieldName("name")
						local := name
						if alias := is.ChildByFieldName("alias"); alias != nil {
							local = alias
						}
						d.Specs = append(d.Specs, &syntax.ImportSpec{
							Range:    l.rng(is),
							Kind:     syntax.NamedImport,
							Imported: l.moduleExportName(name),
							Local:    l.ident(local),
						})
					}
				}
			}
		}
	}
	return d
}

// moduleExportName lowers an identifier or string naming a module export.
func (l *lowerer) moduleExportName(n *sitter.Node) *syntax.Ident {
	id := l.ident(n)
	if n.Type() == "string" {
		id.Name = unquote(id.Name)
	}
	return id
}

func (l *lowerer) exportStmt(n *sitter.Node) syntax.Stmt {
	r := l.rng(n)
	var source *syntax.Literal
	if src := n.ChildByFieldName("source"); src != nil {
		source = l.literal(src)
	}
	isDefault := hasToken(n, "default")

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		s := l.stmt(decl)
		if isDefault {
			return &syntax.ExportDefaultDecl{Range: r, Decl: s}
		}
		switch s := s.(type) {
		case *syntax.EmptyStmt:
			return s
		case *syntax.ImportEqualsDecl:
			s.Export = true
			return s
		}
		return &syntax.ExportNamedDecl{Range: r, Decl: s}
	}
	if v := n.ChildByFieldName("value"); v != nil && isDefault {
		var decl syntax.Node
		switch x := l.expr(v).(type) {
		case *syntax.FuncExpr:
			if !x.Func.Arrow {
				decl = &syntax.FuncDecl{Range: x.Range, Func: x.Func}
			} else {
				decl = x
			}
		case *syntax.ClassExpr:
			decl = &syntax.ClassDecl{Range: x.Range, Class: x.Class}
		default:
			decl = x
		}
		return &syntax.ExportDefaultDecl{Range: r, Decl: decl}
	}

	for _, c := range l.named(n) {
		switch c.Type() {
		case "export_clause":
			d := &syntax.ExportNamedDecl{Range: r, Source: source}
			for _, es := range l.named(c) {
				if es.Type() != "export_specifier" {
					continue
				}
				name := es.ChildByFieldName("name")
				exported := name
				if alias := es.ChildByFieldName("alias"); alias != nil {
					exported = alias
				}
				d.Specs = append(d.Specs, &syntax.ExportSpec{
					Range:    l.rng(es),
					Local:    l.moduleExportName(name),
					Exported: l.moduleExportName(exported),
				})
			}
			return d
		case "namespace_export":
			return &syntax.ExportAllDecl{Range: r, Exported: l.moduleExportName(l.first(c)), Source: source}
		}
	}
	if hasToken(n, "*") && source != nil {
		return &syntax.ExportAllDecl{Range: r, Source: source}
	}
	// export = x, export as namespace X
	return &syntax.EmptyStmt{Range: r}
}

func (l *lowerer) enum(n *sitter.Node) *syntax.EnumDecl {
	e := &syntax.EnumDecl{Range: l.rng(n), Name: l.ident(n.ChildByFieldName("name")), Const: hasToken(n, "const")}
	body := n.ChildByFieldName("body")
	if body == nil {
		return e
	}
	for _, c := range l.named(body) {
		m := &syntax.EnumMember{Range: l.rng(c)}
		if c.Type() == "enum_assignment" {
			m.Name = l.moduleExportName(c.ChildByFieldName("name"))
			if v := c.ChildByFieldName("value"); v != nil {
				m.Init = l.expr(v)
			}
		} else {
			m.Name = l.moduleExportName(c)
		}
		e.Members = append(e.Members, m)
	}
	return e
}

// namespace lowers namespace A.B.C { ... } into nested declarations,
// the inner ones exported from the outer.
func (l *lowerer) namespace(n *sitter.Node) syntax.Stmt {
	r := l.rng(n)
	name := n.ChildByFieldName("name")
	if name == nil || name.Type() == "string" {
		// declare module 'm' { ... } describes another module.
		return &syntax.EmptyStmt{Range: r}
	}
	var body []syntax.Stmt
	if b := n.ChildByFieldName("body"); b != nil {
		body = l.stmts(b)
	}
	var parts []*syntax.Ident
	var collect func(q *sitter.Node)
	collect = func(q *sitter.Node) {
		if q.Type() == "identifier" || q.Type() == "property_identifier" {
			parts = append(parts, l.ident(q))
			return
		}
		for _, c := range l.named(q) {
			collect(c)
		}
	}
	collect(name)

	decl := &syntax.NamespaceDecl{Range: r, Name: parts[len(parts)-1], Body: body}
	for i := len(parts) - 2; i >= 0; i-- {
		inner := &syntax.ExportNamedDecl{Range: r, Decl: decl}
		decl = &syntax.NamespaceDecl{Range: r, Name: parts[i], Body: []syntax.Stmt{inner}}
	}
	return decl
}

// qualified lowers a dotted entity name a.b.c.
func (l *lowerer) qualified(n *sitter.Node) syntax.Expr {
	switch n.Type() {
	case "identifier", "property_identifier", "type_identifier":
		return l.ident(n)
	}
	list := l.named(n)
	if len(list) < 2 {
		return l.ident(n)
	}
	return &syntax.MemberExpr{Range: l.rng(n), X: l.qualified(list[0]), Prop: l.ident(list[len(list)-1])}
}

// ---- functions and classes ----

func (l *lowerer) function(n *sitter.Node) *syntax.Function {
	fn := &syntax.Function{
		Range:     l.rng(n),
		Arrow:     n.Type() == "arrow_function",
		Async:     hasToken(n, "async"),
		Generator: strings.HasPrefix(n.Type(), "generator_") || hasToken(n, "*"),
	}
	if name := n.ChildByFieldName("name"); name != nil && n.Type() != "method_definition" {
		fn.Name = l.ident(name)
	}
	if p := n.ChildByFieldName("parameter"); p != nil {
		fn.Params = []syntax.Expr{l.ident(p)}
	} else if ps := n.ChildByFieldName("parameters"); ps != nil {
		fn.Params = l.params(ps, fn)
	}
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		fn.Types = append(fn.Types, l.types(rt)...)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "statement_block" {
			fn.Body = l.stmts(body)
		} else {
			fn.Result = l.expr(body)
		}
	}
	return fn
}

func (l *lowerer) params(n *sitter.Node, fn *syntax.Function) []syntax.Expr {
	var list []syntax.Expr
	for _, c := range l.named(n) {
		switch c.Type() {
		case "required_parameter", "optional_parameter":
			p := c.ChildByFieldName("pattern")
			if p == nil || p.Type() == "this" {
				continue
			}
			var target syntax.Expr = l.pattern(p)
			if v := c.ChildByFieldName("value"); v != nil {
				target = &syntax.AssignPattern{Range: l.rng(c), Target: target, Default: l.expr(v)}
			}
			if t := c.ChildByFieldName("type"); t != nil {
				fn.Types = append(fn.Types, l.types(t)...)
			}
			list = append(list, target)
		default:
			list = append(list, l.pattern(c))
		}
	}
	return list
}

func (l *lowerer) class(n *sitter.Node) *syntax.Class {
	c := &syntax.Class{Range: l.rng(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		c.Name = l.ident(name)
	}
	for _, h := range l.named(n) {
		if h.Type() != "class_heritage" {
			continue
		}
		for _, e := range l.named(h) {
			switch e.Type() {
			case "extends_clause":
				if v := e.ChildByFieldName("value"); v != nil {
					c.Super = l.expr(v)
				} else if v := l.first(e); v != nil {
					c.Super = l.expr(v)
				}
			case "implements_clause":
				// types only
			default:
				c.Super = l.expr(e)
			}
		}
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return c
	}
	for _, m := range l.named(body) {
		if member := l.member(m); member != nil {
			c.Members = append(c.Members, member)
		}
	}
	return c
}

func (l *lowerer) member(n *sitter.Node) *syntax.ClassMember {
	m := &syntax.ClassMember{Range: l.rng(n), Static: hasToken(n, "static")}
	switch n.Type() {
	case "method_definition":
		name := n.ChildByFieldName("name")
		m.Key, m.Computed = l.propKey(name)
		switch {
		case hasToken(n, "get"):
			m.Kind = syntax.Getter
		case hasToken(n, "set"):
			m.Kind = syntax.Setter
		case !m.Static && l.text(name) == "constructor":
			m.Kind = syntax.Constructor
		default:
			m.Kind = syntax.Method
		}
		m.Value = &syntax.FuncExpr{Range: m.Range, Func: l.function(n)}

	case "field_definition", "public_field_definition":
		name := n.ChildByFieldName("property")
		if name == nil {
			name = n.ChildByFieldName("name")
		}
		m.Kind = syntax.Field
		m.Key, m.Computed = l.propKey(name)
		if v := n.ChildByFieldName("value"); v != nil {
			m.Value = l.expr(v)
		}

	case "class_static_block":
		m.Kind = syntax.Method
		m.Static = true
		m.Key = &syntax.Literal{Range: m.Range, Raw: "static"}
		fn := &syntax.Function{Range: m.Range}
		if body := n.ChildByFieldName("body"); body != nil {
			fn.Body = l.stmts(body)
		}
		m.Value = &syntax.FuncExpr{Range: m.Range, Func: fn}

	default:
		// signatures, index signatures
		return nil
	}
	return m
}

// propKey lowers a property name, reporting whether it is computed.
func (l *lowerer) propKey(n *sitter.Node) (syntax.Expr, bool) {
	switch n.Type() {
	case "computed_property_name":
		return l.expr(l.first(n)), true
	case "string", "number":
		return l.literal(n), false
	}
	return l.ident(n), false
}

// ---- expressions ----

// optExpr lowers an optional expression, unwrapping the statement
// forms the grammar uses in for-loop heads.
func (l *lowerer) optExpr(n *sitter.Node) syntax.Expr {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "empty_statement", ";":
		return nil
	case "expression_statement":
		return l.optExpr(l.first(n))
	}
	return l.expr(n)
}

func (l *lowerer) exprs(list []*sitter.Node) []syntax.Expr {
	var xs []syntax.Expr
	for _, c := range list {
		xs = append(xs, l.expr(c))
	}
	return xs
}

func (l *lowerer) expr(n *sitter.Node) syntax.Expr {
	r := l.rng(n)
	switch n.Type() {
	case "identifier", "undefined", "shorthand_property_identifier", "property_identifier":
		return l.ident(n)

	case "this":
		return &syntax.ThisExpr{Range: r}

	case "super":
		return &syntax.SuperExpr{Range: r}

	case "string", "number", "regex", "true", "false", "null", "import":
		return l.literal(n)

	case "template_string":
		t := &syntax.TemplateLit{Range: r}
		for _, c := range l.named(n) {
			if c.Type() == "template_substitution" {
				t.Exprs = append(t.Exprs, l.expr(l.first(c)))
			}
		}
		return t

	case "parenthesized_expression":
		return l.expr(l.first(n))

	case "sequence_expression":
		s := &syntax.SeqExpr{Range: r}
		var flatten func(n *sitter.Node)
		flatten = func(n *sitter.Node) {
			for _, c := range l.named(n) {
				if c.Type() == "sequence_expression" {
					flatten(c)
				} else {
					s.List = append(s.List, l.expr(c))
				}
			}
		}
		flatten(n)
		return s

	case "array":
		return &syntax.ArrayExpr{Range: r, Elems: l.exprs(l.named(n))}

	case "object":
		o := &syntax.ObjectExpr{Range: r}
		for _, c := range l.named(n) {
			o.Props = append(o.Props, l.property(c))
		}
		return o

	case "spread_element":
		return &syntax.SpreadExpr{Range: r, X: l.expr(l.first(n))}

	case "function", "function_expression", "generator_function", "arrow_function":
		return &syntax.FuncExpr{Range: r, Func: l.function(n)}

	case "class":
		return &syntax.ClassExpr{Range: r, Class: l.class(n)}

	case "call_expression":
		call := &syntax.CallExpr{Range: r, Fn: l.expr(n.ChildByFieldName("function")), Optional: hasOptionalChain(n)}
		if args := n.ChildByFieldName("arguments"); args != nil {
			if args.Type() == "template_string" {
				call.Args = []syntax.Expr{l.expr(args)}
			} else {
				call.Args = l.exprs(l.named(args))
			}
		}
		return call

	case "new_expression":
		x := &syntax.NewExpr{Range: r, Fn: l.expr(n.ChildByFieldName("constructor"))}
		if args := n.ChildByFieldName("arguments"); args != nil {
			x.Args = l.exprs(l.named(args))
		}
		return x

	case "member_expression":
		return &syntax.MemberExpr{
			Range:    r,
			X:        l.expr(n.ChildByFieldName("object")),
			Prop:     l.ident(n.ChildByFieldName("property")),
			Optional: hasOptionalChain(n),
		}

	case "subscript_expression":
		return &syntax.MemberExpr{
			Range:    r,
			X:        l.expr(n.ChildByFieldName("object")),
			Prop:     l.expr(n.ChildByFieldName("index")),
			Computed: true,
			Optional: hasOptionalChain(n),
		}

	case "assignment_expression":
		return &syntax.AssignExpr{Range: r, Op: "=", Target: l.pattern(n.ChildByFieldName("left")), Value: l.expr(n.ChildByFieldName("right"))}

	case "augmented_assignment_expression":
		return &syntax.AssignExpr{
			Range:  r,
			Op:     l.text(n.ChildByFieldName("operator")),
			Target: l.expr(n.ChildByFieldName("left")),
			Value:  l.expr(n.ChildByFieldName("right")),
		}

	case "binary_expression":
		return &syntax.BinaryExpr{
			Range: r,
			Op:    l.text(n.ChildByFieldName("operator")),
			X:     l.expr(n.ChildByFieldName("left")),
			Y:     l.expr(n.ChildByFieldName("right")),
		}

	case "unary_expression":
		return &syntax.UnaryExpr{Range: r, Op: l.text(n.ChildByFieldName("operator")), X: l.expr(n.ChildByFieldName("argument"))}

	case "update_expression":
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		return &syntax.UpdateExpr{Range: r, Op: l.text(op), Prefix: op.StartByte() < arg.StartByte(), X: l.expr(arg)}

	case "ternary_expression":
		return &syntax.CondExpr{
			Range: r,
			Cond:  l.expr(n.ChildByFieldName("condition")),
			True:  l.expr(n.ChildByFieldName("consequence")),
			False: l.expr(n.ChildByFieldName("alternative")),
		}

	case "await_expression":
		return &syntax.AwaitExpr{Range: r, X: l.expr(l.first(n))}

	case "yield_expression":
		return &syntax.YieldExpr{Range: r, X: l.optExpr(l.first(n)), Delegate: hasToken(n, "*")}

	case "meta_property":
		meta, prop, _ := strings.Cut(strings.Join(strings.Fields(l.text(n)), ""), ".")
		return &syntax.MetaProperty{Range: r, Meta: meta, Prop: prop}

	case "as_expression", "satisfies_expression", "non_null_expression":
		return l.expr(l.first(n))

	case "type_assertion":
		list := l.named(n)
		return l.expr(list[len(list)-1])

	case "array_pattern", "object_pattern", "assignment_pattern", "rest_pattern":
		return l.pattern(n)

	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return &syntax.JSXElement{Range: r, Exprs: l.jsx(n, nil)}
	}
	// Constructs that neither bind nor reference names the binder tracks.
	return &syntax.Literal{Range: r, Raw: l.text(n)}
}

// jsx appends the expressions evaluated by the JSX node n to list.
func (l *lowerer) jsx(n *sitter.Node, list []syntax.Expr) []syntax.Expr {
	tag := n.Type() == "jsx_opening_element" || n.Type() == "jsx_self_closing_element"
	for _, c := range l.named(n) {
		switch c.Type() {
		case "jsx_expression":
			list = append(list, l.exprs(l.named(c))...)
		case "identifier", "member_expression", "nested_identifier":
			if !tag {
				continue
			}
			if id := l.jsxTag(c); id != nil {
				list = append(list, id)
			}
		case "jsx_element", "jsx_self_closing_element", "jsx_opening_element", "jsx_fragment", "jsx_attribute":
			list = l.jsx(c, list)
		}
	}
	return list
}

// jsxTag returns the identifier referenced by a JSX tag name, or nil
// for an intrinsic element such as div. A dotted name refers to its
// leftmost identifier.
func (l *lowerer) jsxTag(n *sitter.Node) *syntax.Ident {
	dotted := false
	for n != nil && (n.Type() == "member_expression" || n.Type() == "nested_identifier") {
		dotted = true
		n = l.first(n)
	}
	if n == nil || n.Type() != "identifier" {
		return nil
	}
	id := l.ident(n)
	if r := id.Name[0]; !dotted && r >= 'a' && r <= 'z' {
		return nil
	}
	return id
}

func hasOptionalChain(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "optional_chain" {
			return true
		}
	}
	return false
}

func (l *lowerer) property(n *sitter.Node) syntax.Expr {
	r := l.rng(n)
	switch n.Type() {
	case "pair":
		key, computed := l.propKey(n.ChildByFieldName("key"))
		return &syntax.Property{Range: r, Key: key, Value: l.expr(n.ChildByFieldName("value")), Computed: computed}
	case "shorthand_property_identifier":
		return &syntax.Property{Range: r, Key: l.ident(n), Value: l.ident(n), Shorthand: true}
	case "method_definition":
		key, computed := l.propKey(n.ChildByFieldName("name"))
		kind := syntax.MethodProp
		switch {
		case hasToken(n, "get"):
			kind = syntax.GetProp
		case hasToken(n, "set"):
			kind = syntax.SetProp
		}
		return &syntax.Property{Range: r, Kind: kind, Key: key, Value: &syntax.FuncExpr{Range: r, Func: l.function(n)}, Computed: computed}
	case "spread_element":
		return l.expr(n)
	}
	return l.expr(n)
}

// pattern lowers a binding or assignment target.
func (l *lowerer) pattern(n *sitter.Node) syntax.Expr {
	r := l.rng(n)
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern", "undefined":
		return l.ident(n)

	case "array_pattern":
		p := &syntax.ArrayPattern{Range: r}
		for _, c := range l.named(n) {
			p.Elems = append(p.Elems, l.pattern(c))
		}
		return p

	case "object_pattern":
		p := &syntax.ObjectPattern{Range: r}
		for _, c := range l.named(n) {
			cr := l.rng(c)
			switch c.Type() {
			case "pair_pattern":
				key, computed := l.propKey(c.ChildByFieldName("key"))
				p.Props = append(p.Props, &syntax.Property{Range: cr, Key: key, Value: l.pattern(c.ChildByFieldName("value")), Computed: computed})
			case "shorthand_property_identifier_pattern":
				p.Props = append(p.Props, &syntax.Property{Range: cr, Key: l.ident(c), Value: l.ident(c), Shorthand: true})
			case "object_assignment_pattern":
				left := c.ChildByFieldName("left")
				p.Props = append(p.Props, &syntax.Property{
					Range:     cr,
					Key:       l.ident(left),
					Value:     &syntax.AssignPattern{Range: cr, Target: l.pattern(left), Default: l.expr(c.ChildByFieldName("right"))},
					Shorthand: true,
				})
			case "rest_pattern":
				p.Props = append(p.Props, &syntax.RestElement{Range: cr, Target: l.pattern(l.first(c))})
			}
		}
		return p

	case "assignment_pattern":
		return &syntax.AssignPattern{Range: r, Target: l.pattern(n.ChildByFieldName("left")), Default: l.expr(n.ChildByFieldName("right"))}

	case "rest_pattern":
		return &syntax.RestElement{Range: r, Target: l.pattern(l.first(n))}

	case "parenthesized_expression":
		return l.pattern(l.first(n))
	}
	return l.expr(n)
}

// ---- types ----

// types returns the type references within a type annotation.
func (l *lowerer) types(n *sitter.Node) []*syntax.TypeRef {
	var refs []*syntax.TypeRef
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "type_identifier":
			refs = append(refs, &syntax.TypeRef{Range: l.rng(n), Name: l.ident(n)})
			return
		case "nested_type_identifier":
			q := l.qualified(n)
			var qual []string
			for {
				m, ok := q.(*syntax.MemberExpr)
				if !ok {
					break
				}
				qual = append([]string{m.Prop.(*syntax.Ident).Name}, qual...)
				q = m.X
			}
			refs = append(refs, &syntax.TypeRef{Range: l.rng(n), Name: q.(*syntax.Ident), Qual: qual})
			return
		case "type_query":
			if id := l.first(n); id != nil && id.Type() == "identifier" {
				refs = append(refs, &syntax.TypeRef{Range: l.rng(n), Name: l.ident(id)})
				return
			}
		}
		for _, c := range l.named(n) {
			visit(c)
		}
	}
	visit(n)
	return refs
}

// typesExcept returns the type references within the children of n
// other than skip.
func (l *lowerer) typesExcept(n, skip *sitter.Node) []*syntax.TypeRef {
	var refs []*syntax.TypeRef
	for _, c := range l.named(n) {
		if !same(c, skip) {
			refs = append(refs, l.types(c)...)
		}
	}
	return refs
}
