// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides the abstract syntax tree of JavaScript and
// TypeScript programs as consumed by the binder.
//
// Trees are built by a front end (see package jsparse) or by hand.
// Apart from the fields documented as "set by binder", a tree is never
// modified once built.
package syntax // import "github.com/jsbind/jsbind/syntax"

// A Node is a node in a JavaScript syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A Range records the source extent of a node.
// Most node types embed it.
type Range struct {
	StartPos, EndPos Position
}

func (r Range) Span() (start, end Position) { return r.StartPos, r.EndPos }

// A File represents a JavaScript or TypeScript compilation unit.
type File struct {
	Range
	Path  string
	Stmts []Stmt

	// set by binder:
	Scope interface{} // the top-level scope
}

// A Stmt is a statement or declaration.
type Stmt interface {
	Node
	stmt()
}

func (*BlockStmt) stmt()         {}
func (*BranchStmt) stmt()        {}
func (*ClassDecl) stmt()         {}
func (*DoWhileStmt) stmt()       {}
func (*EmptyStmt) stmt()         {}
func (*EnumDecl) stmt()          {}
func (*ExportAllDecl) stmt()     {}
func (*ExportDefaultDecl) stmt() {}
func (*ExportNamedDecl) stmt()   {}
func (*ExprStmt) stmt()          {}
func (*ForInStmt) stmt()         {}
func (*ForStmt) stmt()           {}
func (*FuncDecl) stmt()          {}
func (*IfStmt) stmt()            {}
func (*ImportDecl) stmt()        {}
func (*ImportEqualsDecl) stmt()  {}
func (*InterfaceDecl) stmt()     {}
func (*LabeledStmt) stmt()       {}
func (*NamespaceDecl) stmt()     {}
func (*ReturnStmt) stmt()        {}
func (*SwitchStmt) stmt()        {}
func (*ThrowStmt) stmt()         {}
func (*TryStmt) stmt()           {}
func (*TypeAliasDecl) stmt()     {}
func (*VarDecl) stmt()           {}
func (*WhileStmt) stmt()         {}
func (*WithStmt) stmt()          {}

// A BlockStmt is a braced statement list: { Stmts }.
type BlockStmt struct {
	Range
	Stmts []Stmt

	// set by binder:
	Scope interface{}
}

// A VarDecl declares one or more variables:
//	var x = 1, y
//	let [a, b] = pair
//	const {k: v} = obj
type VarDecl struct {
	Range
	Kind    VarKind
	List    []*VarDeclarator
	Declare bool // TypeScript 'declare' (ambient)
}

// A VarDeclarator is one Target = Init item of a VarDecl.
type VarDeclarator struct {
	Range
	Target Expr // *Ident or pattern
	Init   Expr // may be nil
	Types  []*TypeRef
}

// A FuncDecl is a function declaration: function Name(Params) { Body }.
type FuncDecl struct {
	Range
	Func    *Function
	Declare bool
}

// A ClassDecl is a class declaration: class Name extends Super { Members }.
type ClassDecl struct {
	Range
	Class   *Class
	Declare bool
}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	Range
	X Expr
}

// An IfStmt is a conditional: if (Cond) Then else Else.
type IfStmt struct {
	Range
	Cond Expr
	Then Stmt
	Else Stmt // optional
}

// A ForStmt is a three-clause loop: for (Init; Cond; Post) Body.
type ForStmt struct {
	Range
	Init Node // *VarDecl, Expr, or nil
	Cond Expr // optional
	Post Expr // optional
	Body Stmt

	// set by binder:
	Scope interface{}
}

// A JSXElement is a JSX element or fragment, reduced to the expressions
// it evaluates: component tag names, attribute values and embedded
// {expressions}, in source order.
type JSXElement struct {
	Range
	Exprs []Expr
}

// A ForInStmt is a for-in or for-of loop: for (Left in/of Right) Body.
type ForInStmt struct {
	Range
	Of    bool
	Await bool
	Left  Node // *VarDecl with a single declarator, or an assignment target
	Right Expr
	Body  Stmt

	// set by binder:
	Scope interface{}
}

// A WhileStmt is a loop: while (Cond) Body.
type WhileStmt struct {
	Range
	Cond Expr
	Body Stmt

	// set by binder:
	Scope interface{}
}

// A DoWhileStmt is a loop: do Body while (Cond).
type DoWhileStmt struct {
	Range
	Body Stmt
	Cond Expr

	// set by binder:
	Scope interface{}
}

// A ReturnStmt returns from a function.
type ReturnStmt struct {
	Range
	Result Expr // may be nil
}

// A ThrowStmt raises an exception.
type ThrowStmt struct {
	Range
	X Expr
}

// A TryStmt is try { Body } catch (Param) { ... } finally { Finally }.
type TryStmt struct {
	Range
	Body    *BlockStmt
	Catch   *CatchClause // optional
	Finally *BlockStmt   // optional
}

// A CatchClause is the handler of a TryStmt.
// The Body's scope is the catch body scope; Scope holds the parameter.
type CatchClause struct {
	Range
	Param Expr // *Ident, pattern, or nil
	Body  *BlockStmt

	// set by binder:
	Scope interface{}
}

// A SwitchStmt is switch (Tag) { Cases }.
type SwitchStmt struct {
	Range
	Tag   Expr
	Cases []*SwitchCase

	// set by binder:
	Scope interface{}
}

// A SwitchCase is one clause of a switch. Test is nil for default.
type SwitchCase struct {
	Range
	Test Expr
	Body []Stmt
}

// A BranchStmt is break or continue, with an optional label.
type BranchStmt struct {
	Range
	Token string // "break" | "continue"
	Label *Ident // optional; never resolved
}

// A WithStmt is with (Object) Body.
type WithStmt struct {
	Range
	Object Expr
	Body   Stmt
}

// A LabeledStmt is Label: Body.
type LabeledStmt struct {
	Range
	Label *Ident
	Body  Stmt
}

// An EmptyStmt is a lone semicolon or a statement the front end dropped.
type EmptyStmt struct {
	Range
}

// An ImportDecl is an import declaration:
//	import d, {a, b as c} from 'm'
//	import * as ns from 'm'
//	import 'm'
type ImportDecl struct {
	Range
	Specs  []*ImportSpec
	Source *Literal
}

// An ImportSpec is one binding of an ImportDecl.
type ImportSpec struct {
	Range
	Kind     ImportKind
	Imported *Ident // name in the source module; nil unless Kind == NamedImport
	Local    *Ident
}

// An ExportNamedDecl is one of:
//	export var/let/const/function/class ...   (Decl != nil)
//	export { a, b as c }                       (Source == nil)
//	export { a, b as c } from 'm'              (Source != nil)
type ExportNamedDecl struct {
	Range
	Decl   Stmt
	Specs  []*ExportSpec
	Source *Literal
}

// An ExportSpec is Local as Exported. Exported is Local if there is no alias.
type ExportSpec struct {
	Range
	Local    *Ident
	Exported *Ident
}

// An ExportDefaultDecl is export default Decl, where Decl is a
// *FuncDecl, a *ClassDecl, or an Expr.
type ExportDefaultDecl struct {
	Range
	Decl Node
}

// An ExportAllDecl is export * from 'm', or export * as Exported from 'm'.
type ExportAllDecl struct {
	Range
	Exported *Ident // optional
	Source   *Literal
}

// An EnumDecl is a TypeScript enum: enum Name { Members }.
type EnumDecl struct {
	Range
	Name    *Ident
	Members []*EnumMember
	Const   bool
	Declare bool

	// set by binder:
	Scope interface{}
}

// An EnumMember is Name = Init within an enum.
type EnumMember struct {
	Range
	Name *Ident
	Init Expr // optional
}

// An InterfaceDecl is a TypeScript interface declaration.
// The binder only needs the type names it refers to.
type InterfaceDecl struct {
	Range
	Name *Ident
	Refs []*TypeRef
}

// A TypeAliasDecl is type Name = ....
type TypeAliasDecl struct {
	Range
	Name *Ident
	Refs []*TypeRef
}

// A NamespaceDecl is namespace Name { Body } (or module Name { Body }).
type NamespaceDecl struct {
	Range
	Name    *Ident
	Body    []Stmt
	Declare bool

	// set by binder:
	Scope interface{}
}

// An ImportEqualsDecl is import Name = Ref, or import Name = require('m').
type ImportEqualsDecl struct {
	Range
	Name     *Ident
	Ref      Expr     // *Ident or *MemberExpr chain; nil if External
	External *Literal // require('m') operand
	Export   bool
}

// An Expr is an expression or a binding/assignment pattern.
type Expr interface {
	Node
	expr()
}

func (*ArrayExpr) expr()     {}
func (*ArrayPattern) expr()  {}
func (*AssignExpr) expr()    {}
func (*AssignPattern) expr() {}
func (*AwaitExpr) expr()     {}
func (*BinaryExpr) expr()    {}
func (*CallExpr) expr()      {}
func (*ClassExpr) expr()     {}
func (*CondExpr) expr()      {}
func (*FuncExpr) expr()      {}
func (*Ident) expr()         {}
func (*JSXElement) expr()    {}
func (*Literal) expr()       {}
func (*MemberExpr) expr()    {}
func (*MetaProperty) expr()  {}
func (*NewExpr) expr()       {}
func (*ObjectExpr) expr()    {}
func (*ObjectPattern) expr() {}
func (*Property) expr()      {}
func (*RestElement) expr()   {}
func (*SeqExpr) expr()       {}
func (*SpreadExpr) expr()    {}
func (*SuperExpr) expr()     {}
func (*TemplateLit) expr()   {}
func (*ThisExpr) expr()      {}
func (*TypeRef) expr()       {}
func (*UnaryExpr) expr()     {}
func (*UpdateExpr) expr()    {}
func (*YieldExpr) expr()     {}

// An Ident represents an identifier.
type Ident struct {
	NamePos Position
	Name    string

	// set by binder:
	Var interface{} // *binder.Variable, or nil if unresolved (global)
	Tdz bool        // referenced before its lexical declaration was initialized
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a string, number, regexp, boolean or null literal.
type Literal struct {
	Range
	Raw   string      // uninterpreted text
	Value interface{} // string for string literals, else nil
}

// A TemplateLit is a template string with its substitutions.
type TemplateLit struct {
	Range
	Exprs []Expr
}

// A ThisExpr is the keyword this.
type ThisExpr struct {
	Range

	// set by binder:
	Var interface{} // the 'this' parameter it denotes
}

// A SuperExpr is the keyword super.
type SuperExpr struct {
	Range
}

// A MetaProperty is new.target or import.meta.
type MetaProperty struct {
	Range
	Meta, Prop string

	// set by binder:
	Var interface{} // the new.target parameter, for new.target
}

// An ArrayExpr is [Elems]. Holes are nil.
type ArrayExpr struct {
	Range
	Elems []Expr
}

// An ObjectExpr is { Props }, each a *Property or *SpreadExpr.
type ObjectExpr struct {
	Range
	Props []Expr
}

// A Property is Key: Value in an object literal or object pattern.
// For shorthand properties Key and Value are distinct *Ident nodes
// with the same name; only Value is a reference.
type Property struct {
	Range
	Kind      PropKind
	Key       Expr
	Value     Expr
	Computed  bool
	Shorthand bool
}

// A SpreadExpr is ...X in a call, array or object literal.
type SpreadExpr struct {
	Range
	X Expr
}

// A FuncExpr is a function, arrow function or method value.
type FuncExpr struct {
	Range
	Func *Function
}

// A ClassExpr is an anonymous or named class expression.
type ClassExpr struct {
	Range
	Class *Class
}

// A CallExpr is Fn(Args), or a tagged template when Args is a single
// *TemplateLit.
type CallExpr struct {
	Range
	Fn       Expr
	Args     []Expr
	Optional bool
}

// A NewExpr is new Fn(Args).
type NewExpr struct {
	Range
	Fn   Expr
	Args []Expr
}

// A MemberExpr is X.Prop or X[Prop].
// Prop is resolved only if Computed.
type MemberExpr struct {
	Range
	X        Expr
	Prop     Expr
	Computed bool
	Optional bool
}

// A UnaryExpr is Op X, for typeof, void, delete, !, ~, +, -.
type UnaryExpr struct {
	Range
	Op string
	X  Expr
}

// An UpdateExpr is ++X, --X, X++ or X--.
type UpdateExpr struct {
	Range
	Op     string
	Prefix bool
	X      Expr
}

// A BinaryExpr is X Op Y.
type BinaryExpr struct {
	Range
	Op string
	X  Expr
	Y  Expr
}

// An AssignExpr is Target Op Value, with Op one of =, +=, ...
type AssignExpr struct {
	Range
	Op     string
	Target Expr
	Value  Expr
}

// A CondExpr is Cond ? True : False.
type CondExpr struct {
	Range
	Cond, True, False Expr
}

// A SeqExpr is a comma-separated expression list.
type SeqExpr struct {
	Range
	List []Expr
}

// An AwaitExpr is await X.
type AwaitExpr struct {
	Range
	X Expr
}

// A YieldExpr is yield X or yield* X.
type YieldExpr struct {
	Range
	X        Expr // may be nil
	Delegate bool
}

// An ArrayPattern is [Elems] in binding or assignment position.
type ArrayPattern struct {
	Range
	Elems []Expr // nil holes allowed
}

// An ObjectPattern is { Props } in binding or assignment position.
// Each prop is a *Property or *RestElement.
type ObjectPattern struct {
	Range
	Props []Expr
}

// An AssignPattern is Target = Default in a pattern or parameter list.
type AssignPattern struct {
	Range
	Target  Expr
	Default Expr
}

// A RestElement is ...Target in a pattern or parameter list.
type RestElement struct {
	Range
	Target Expr
}

// A TypeRef is a reference to a named type in a TypeScript annotation.
// Only the leading name is resolved; Qual holds the remaining dotted path.
type TypeRef struct {
	Range
	Name *Ident
	Qual []string
}

// A Function represents the common parts of function declarations,
// function and arrow expressions, and methods.
type Function struct {
	Range
	Name      *Ident // optional
	Params    []Expr // *Ident, pattern, *AssignPattern or *RestElement
	Body      []Stmt
	Result    Expr // concise arrow body; Body is nil
	Arrow     bool
	Async     bool
	Generator bool
	Types     []*TypeRef // referenced from parameter and result annotations

	// set by binder:
	ParamScope interface{}
	Scope      interface{}
}

// Directive reports whether the function body starts with the
// directive prologue entry "s", as in "use strict".
func (fn *Function) Directive(s string) bool {
	for _, stmt := range fn.Body {
		es, ok := stmt.(*ExprStmt)
		if !ok {
			return false
		}
		lit, ok := es.X.(*Literal)
		if !ok {
			return false
		}
		str, ok := lit.Value.(string)
		if !ok {
			return false
		}
		if str == s {
			return true
		}
	}
	return false
}

// A Class represents the common parts of class declarations and expressions.
type Class struct {
	Range
	Name    *Ident // optional for expressions and export default
	Super   Expr   // optional
	Members []*ClassMember

	// set by binder:
	Scope      interface{} // scope holding the inner class name
	FieldScope interface{} // scope in which instance field initializers are resolved
}

// Constructor returns the constructor method of the class, or nil.
func (c *Class) Constructor() *Function {
	for _, m := range c.Members {
		if m.Kind == Constructor {
			return m.Value.(*FuncExpr).Func
		}
	}
	return nil
}

// A ClassMember is a method, accessor, constructor or field.
// For methods Value is a *FuncExpr; for fields it is the initializer, if any.
type ClassMember struct {
	Range
	Kind     MemberKind
	Static   bool
	Computed bool
	Key      Expr
	Value    Expr
}
