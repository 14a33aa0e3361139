// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dump renders a bound compilation unit: its scope tree and,
// for modules, its linkage record.
package dump // import "github.com/jsbind/jsbind/dump"

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/linkage"
)

// Text writes res as an indented tree, one scope per heading line.
func Text(w io.Writer, res *binder.Result) error {
	out := bufio.NewWriter(w)
	p := &printer{out: out}
	p.printf(0, "unit %s (%s)", res.File.Path, describeOptions(res.Options))
	p.scope(0, res.Top)
	if res.Record != nil {
		p.record(res.Record)
	}
	return out.Flush()
}

func describeOptions(opts binder.Options) string {
	s := opts.Mode.String()
	if opts.TypeScript {
		s += ", typescript"
	}
	if opts.Concurrent {
		s += ", concurrent"
	}
	return s
}

type printer struct {
	out *bufio.Writer
}

func (p *printer) printf(depth int, format string, args ...interface{}) {
	p.out.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(p.out, format, args...)
	p.out.WriteByte('\n')
}

func (p *printer) scope(depth int, s *binder.Scope) {
	head := fmt.Sprintf("scope #%d %s", s.ID, s.Kind)
	if s.Flags != 0 {
		head += " {" + s.Flags.String() + "}"
	}
	if s.NeedLexEnv() {
		head += fmt.Sprintf(" slots=%d", s.Slots())
	}
	p.printf(depth, "%s", head)

	if len(s.Params) > 0 {
		names := make([]string, len(s.Params))
		for i, v := range s.Params {
			names[i] = v.Name()
		}
		p.printf(depth+1, "params: %s", strings.Join(names, ", "))
	}
	for _, name := range s.Names() {
		v := s.Binding(name)
		if v.Scope != s {
			continue // a parameter shared with the parameter scope
		}
		p.printf(depth+1, "%s: %s", name, v)
	}
	for _, v := range s.Types() {
		p.printf(depth+1, "type %s: %s", v.Name(), v)
	}
	if names := s.ExportNames(); len(names) > 0 {
		p.printf(depth+1, "exports: %s", strings.Join(names, ", "))
	}
	for _, c := range s.Children {
		p.scope(depth+1, c)
	}
}

func (p *printer) record(r *linkage.Record) {
	p.printf(0, "linkage")
	for i, req := range r.ModuleRequests() {
		p.printf(1, "request #%d %q", i, req)
	}
	for _, e := range r.RegularImportEntries() {
		p.printf(1, "import %s", e)
	}
	for _, e := range r.NamespaceImportEntries() {
		p.printf(1, "import %s", e)
	}
	for _, e := range r.LocalExportEntries() {
		p.printf(1, "export %s", e)
	}
	for _, e := range r.IndirectExportEntries() {
		p.printf(1, "export %s", e)
	}
	for _, e := range r.StarExportEntries() {
		p.printf(1, "export %s", e)
	}
}
