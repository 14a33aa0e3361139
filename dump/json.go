// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/linkage"
)

// Struct returns res as a protocol buffer Struct with the same content
// as Text: the options, every scope in creation order, and the linkage
// record of a module.
func Struct(res *binder.Result) (*structpb.Struct, error) {
	scopes := make([]interface{}, len(res.Scopes))
	for i, s := range res.Scopes {
		scopes[i] = scopeValue(s)
	}
	m := map[string]interface{}{
		"file":       res.File.Path,
		"mode":       res.Options.Mode.String(),
		"typescript": res.Options.TypeScript,
		"concurrent": res.Options.Concurrent,
		"scopes":     scopes,
	}
	if res.Record != nil {
		m["linkage"] = recordValue(res.Record)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.Wrap(err, "building dump")
	}
	return s, nil
}

// JSON returns res as indented JSON.
func JSON(res *binder.Result) ([]byte, error) {
	s, err := Struct(res)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}

func scopeValue(s *binder.Scope) map[string]interface{} {
	m := map[string]interface{}{
		"id":    s.ID,
		"kind":  s.Kind.String(),
		"slots": s.Slots(),
	}
	if s.Parent != nil {
		m["parent"] = s.Parent.ID
	}
	if s.Flags != 0 {
		m["flags"] = splitFlags(s.Flags.String())
	}
	if len(s.Params) > 0 {
		params := make([]interface{}, len(s.Params))
		for i, v := range s.Params {
			params[i] = v.Name()
		}
		m["params"] = params
	}
	var bindings []interface{}
	for _, name := range s.Names() {
		if v := s.Binding(name); v.Scope == s {
			bindings = append(bindings, varValue(v))
		}
	}
	if bindings != nil {
		m["bindings"] = bindings
	}
	if types := s.Types(); len(types) > 0 {
		list := make([]interface{}, len(types))
		for i, v := range types {
			list[i] = varValue(v)
		}
		m["types"] = list
	}
	if names := s.ExportNames(); len(names) > 0 {
		m["exports"] = stringValues(names)
	}
	return m
}

func varValue(v *binder.Variable) map[string]interface{} {
	m := map[string]interface{}{
		"name": v.Name(),
		"kind": v.Kind.String(),
		"decl": v.Decl.Kind.String(),
	}
	if v.Decl.Flags != 0 {
		m["declFlags"] = splitFlags(v.Decl.Flags.String())
	}
	if v.Flags != 0 {
		m["flags"] = splitFlags(v.Flags.String())
	}
	if v.HasFlag(binder.LexicalBound) {
		m["slot"] = v.Slot
	}
	if v.ModuleIndex >= 0 {
		m["index"] = v.ModuleIndex
	}
	return m
}

func recordValue(r *linkage.Record) map[string]interface{} {
	var imports, exports []interface{}
	for _, e := range r.RegularImportEntries() {
		imports = append(imports, importValue(e))
	}
	for _, e := range r.NamespaceImportEntries() {
		imports = append(imports, importValue(e))
	}
	add := func(list []*linkage.ExportEntry) {
		for _, e := range list {
			exports = append(exports, exportValue(e))
		}
	}
	add(r.LocalExportEntries())
	add(r.IndirectExportEntries())
	add(r.StarExportEntries())
	return map[string]interface{}{
		"requests": stringValues(r.ModuleRequests()),
		"imports":  orEmpty(imports),
		"exports":  orEmpty(exports),
	}
}

func importValue(e *linkage.ImportEntry) map[string]interface{} {
	m := map[string]interface{}{"request": e.ModuleRequest, "local": e.LocalName}
	if e.ImportName != "" {
		m["import"] = e.ImportName
	}
	return m
}

func exportValue(e *linkage.ExportEntry) map[string]interface{} {
	m := map[string]interface{}{}
	if e.ModuleRequest >= 0 {
		m["request"] = e.ModuleRequest
	}
	for key, val := range map[string]string{"export": e.ExportName, "local": e.LocalName, "import": e.ImportName} {
		if val != "" {
			m[key] = val
		}
	}
	return m
}

// structpb accepts only []interface{} lists.
func stringValues(list []string) []interface{} {
	vals := make([]interface{}, len(list))
	for i, s := range list {
		vals[i] = s
	}
	return vals
}

func orEmpty(list []interface{}) []interface{} {
	if list == nil {
		return []interface{}{}
	}
	return list
}

func splitFlags(s string) []interface{} { return stringValues(strings.Split(s, "|")) }
