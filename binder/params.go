// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/jsbind/jsbind/syntax"
)

// addTopParams gives the top scope its implicit parameters.
func (b *binder) addTopParams() {
	if b.opts.Mode == CommonJS {
		b.injectParams(b.top, commonJSParams)
	} else {
		b.injectParams(b.top, functionParams)
	}
}

// addMandatoryParams prepends the implicit parameters to every
// function. Arrow functions get placeholder names for the values they
// inherit, and capture the enclosing function's.
//
// Functions are visited in creation order, so an arrow's enclosing
// functions already have their parameters when it captures them.
func (b *binder) addMandatoryParams() {
	for _, fs := range b.funcs[1:] {
		if !fs.HasFlag(ArrowFunction) {
			b.injectParams(fs, functionParams)
			continue
		}

		lexicalFuncObj := false
		if ctor := enclosingConstructor(fs); ctor != nil && ctor.HasFlag(DerivedConstructor) && fs.HasFlag(UsesSuper) {
			// super() in the arrow needs the constructor's function object.
			ctor.AddFlag(SetLexicalFunction)
			lexicalFuncObj = true
			b.injectParams(fs, ctorArrowParams)
		} else {
			b.injectParams(fs, arrowParams)
		}

		lookupReference(fs, newTargetParam)
		lookupReference(fs, thisParam)
		if fs.HasFlag(UsesArguments) {
			lookupReference(fs, argumentsName)
		}
		if lexicalFuncObj {
			lookupReference(fs, funcObjParam)
		}
	}
}

// injectParams prepends the named parameters to the function whose
// body scope is fs. Each is bound in both the parameter scope and the
// body scope, so that this in a parameter default denotes the function's
// own. A parameter does not displace a binding of the same name.
func (b *binder) injectParams(fs *Scope, names []string) {
	ps := fs.paramScope
	params := make([]*Variable, 0, len(names))
	for _, name := range names {
		v := newVariable(LocalVar, &Decl{Kind: ParamDecl, Name: name}, Param|Initialized)
		v.Scope = fs
		if fs.bindings[name] == nil {
			fs.bindings[name] = v
		}
		if ps != nil && ps.bindings[name] == nil {
			ps.bindings[name] = v
		}
		params = append(params, v)
	}
	holder := fs
	if ps != nil {
		holder = ps
	}
	holder.Params = append(params, holder.Params...)
	if glog.V(4) {
		glog.Infof("binder: %s: params %v", fs, names)
	}
}

// enclosingConstructor returns the body scope of the constructor that
// directly encloses the arrow function fs through arrows only, or nil.
func enclosingConstructor(fs *Scope) *Scope {
	for s := fs.paramScope.Parent.EnclosingFunctionScope(); s != nil; s = s.paramScope.Parent.EnclosingFunctionScope() {
		switch {
		case s.Kind != FunctionScope:
			return nil
		case s.HasFlag(ArrowFunction):
			continue
		case s.HasFlag(Constructor):
			return s
		}
		return nil
	}
	return nil
}

// lookupReference captures name, as seen from s, if it is defined in
// an enclosing function.
func lookupReference(s *Scope, name string) {
	res := s.Find(name, 0)
	if res.Level == 0 || res.Var == nil {
		return
	}
	res.Var.SetLexical(res.Scope)
}

// resolveLexRefs binds each this and new.target expression to the
// mandatory parameter it denotes.
func (b *binder) resolveLexRefs() {
	for _, ref := range b.lexRefs {
		name := thisParam
		if _, ok := ref.node.(*syntax.MetaProperty); ok {
			name = newTargetParam
		}
		res := ref.scope.Find(name, 0)
		if res.Var == nil {
			continue
		}
		if res.Level > 0 {
			res.Var.SetLexical(res.Scope)
		}
		switch n := ref.node.(type) {
		case *syntax.ThisExpr:
			n.Var = res.Var
		case *syntax.MetaProperty:
			n.Var = res.Var
		default:
			panic(fmt.Sprintf("unexpected lexical reference %T", n))
		}
	}
}
