// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bindtest defines utilities for testing the binder on real
// JavaScript and TypeScript source.
package bindtest // import "github.com/jsbind/jsbind/bindtest"

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/jsparse"
	"github.com/jsbind/jsbind/syntax"
)

// A Reporter is a value to which errors may be reported.
// It is satisfied by *testing.T.
type Reporter interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// DataFile returns the effective filename of the specified
// test data resource. A test runs in its package directory, so the
// resource is located relative to the root of the enclosing module.
var DataFile = func(pkgdir, filename string) string {
	return filepath.Join(moduleRoot(), pkgdir, filename)
}

func moduleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for d := dir; ; {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			return dir
		}
		d = parent
	}
}

// Bind parses src as the named file and binds it.
// The dialect follows the file name's extension.
func Bind(filename, src string, opts binder.Options) (*binder.Result, error) {
	d := jsparse.DialectOf(filename)
	f, err := jsparse.Parse(context.Background(), filename, []byte(src), d)
	if err != nil {
		return nil, err
	}
	if d.IsTypeScript() {
		opts.TypeScript = true
	}
	res, err := binder.File(f, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return res, nil
}

// MustBind is like Bind but reports failure to r.
func MustBind(r Reporter, filename, src string, opts binder.Options) *binder.Result {
	r.Helper()
	res, err := Bind(filename, src, opts)
	if err != nil {
		r.Fatalf("%+v", err)
	}
	return res
}

// Idents returns the identifiers named name in f, in traversal order.
func Idents(f *syntax.File, name string) []*syntax.Ident {
	var list []*syntax.Ident
	syntax.Walk(f, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok && id.Name == name {
			list = append(list, id)
		}
		return true
	})
	return list
}

// VarOf returns the variable the nth identifier named name in f was
// bound to, or nil.
func VarOf(f *syntax.File, name string, nth int) *binder.Variable {
	list := Idents(f, name)
	if nth >= len(list) {
		return nil
	}
	v, _ := list[nth].Var.(*binder.Variable)
	return v
}
