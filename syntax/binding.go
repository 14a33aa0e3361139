package syntax

// This file defines the small enumerations that distinguish binding
// forms in the syntax tree.

// A VarKind is the keyword of a variable declaration.
type VarKind uint8

const (
	Var VarKind = iota
	Let
	Const
)

var varKindNames = [...]string{
	Var:   "var",
	Let:   "let",
	Const: "const",
}

func (k VarKind) String() string { return varKindNames[k] }

// An ImportKind says which form of import binding an ImportSpec is.
type ImportKind uint8

const (
	DefaultImport   ImportKind = iota // import d from 'm'
	NamespaceImport                   // import * as ns from 'm'
	NamedImport                       // import {a as b} from 'm'
)

var importKindNames = [...]string{
	DefaultImport:   "default",
	NamespaceImport: "namespace",
	NamedImport:     "named",
}

func (k ImportKind) String() string { return importKindNames[k] }

// A PropKind distinguishes plain object properties from accessors and methods.
type PropKind uint8

const (
	InitProp PropKind = iota
	GetProp
	SetProp
	MethodProp
)

// A MemberKind distinguishes the members of a class body.
type MemberKind uint8

const (
	Method MemberKind = iota
	Getter
	Setter
	Constructor
	Field
)

var memberKindNames = [...]string{
	Method:      "method",
	Getter:      "get",
	Setter:      "set",
	Constructor: "constructor",
	Field:       "field",
}

func (k MemberKind) String() string { return memberKindNames[k] }
