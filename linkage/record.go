// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linkage records the import and export entries of an
// ECMAScript module and assigns runtime slot indices to the module
// variables they name.
//
// A Record is independent of the scope tree: it names bindings only by
// their local names, and writes indices back through a SlotTable.
package linkage // import "github.com/jsbind/jsbind/linkage"

import (
	"fmt"
	"sort"

	"github.com/golang/glog"
)

// An ImportEntry is one binding imported from another module.
// ImportName is empty for a namespace import (import * as x).
type ImportEntry struct {
	ModuleRequest int
	LocalName     string
	ImportName    string
}

// An ExportEntry is one exported name.
// For a local export ModuleRequest is -1 and ImportName is empty;
// for an indirect export LocalName is empty.
type ExportEntry struct {
	ModuleRequest int
	ExportName    string
	LocalName     string
	ImportName    string
}

// NewLocalExport returns the entry for export { local as export }.
func NewLocalExport(exportName, localName string) *ExportEntry {
	return &ExportEntry{ModuleRequest: -1, ExportName: exportName, LocalName: localName}
}

// NewIndirectExport returns the entry for export { importName as exportName } from request.
func NewIndirectExport(exportName, importName string, request int) *ExportEntry {
	return &ExportEntry{ModuleRequest: request, ExportName: exportName, ImportName: importName}
}

// NewStarExport returns the entry for export * from request.
func NewStarExport(request int) *ExportEntry {
	return &ExportEntry{ModuleRequest: request}
}

func (e *ExportEntry) String() string {
	switch {
	case e.ModuleRequest < 0:
		return fmt.Sprintf("%s -> local %s", e.ExportName, e.LocalName)
	case e.ExportName == "" && e.ImportName == "":
		return fmt.Sprintf("* from #%d", e.ModuleRequest)
	}
	return fmt.Sprintf("%s -> #%d.%s", e.ExportName, e.ModuleRequest, e.ImportName)
}

func (e *ImportEntry) String() string {
	if e.ImportName == "" {
		return fmt.Sprintf("%s <- #%d.*", e.LocalName, e.ModuleRequest)
	}
	return fmt.Sprintf("%s <- #%d.%s", e.LocalName, e.ModuleRequest, e.ImportName)
}

// A SlotTable receives the indices assigned by AssignIndexToModuleVariable.
// The module scope of a bound unit satisfies it.
type SlotTable interface {
	AssignIndex(localName string, index int)
}

// A Record is the linkage record of one module compilation unit.
// The zero value is not usable; call New.
type Record struct {
	requests     []string
	requestIndex map[string]int

	localExports     map[string][]*ExportEntry // keyed by local name
	regularImports   map[string]*ImportEntry   // keyed by local name
	namespaceImports []*ImportEntry
	starExports      []*ExportEntry
	indirectExports  []*ExportEntry
}

// New returns an empty record.
func New() *Record {
	return &Record{
		requestIndex:   make(map[string]int),
		localExports:   make(map[string][]*ExportEntry),
		regularImports: make(map[string]*ImportEntry),
	}
}

// AddModuleRequest returns the index of specifier, adding it if it
// was not already requested. Indices are dense, in order of first request.
func (r *Record) AddModuleRequest(specifier string) int {
	if i, ok := r.requestIndex[specifier]; ok {
		return i
	}
	i := len(r.requests)
	r.requests = append(r.requests, specifier)
	r.requestIndex[specifier] = i
	return i
}

// AddImportEntry records a named or default import.
// Any local export of the same local name becomes an indirect export.
func (r *Record) AddImportEntry(e *ImportEntry) {
	r.regularImports[e.LocalName] = e
	r.checkImplicitIndirectExport(e)
}

// AddStarImportEntry records a namespace import.
func (r *Record) AddStarImportEntry(e *ImportEntry) {
	r.namespaceImports = append(r.namespaceImports, e)
}

// AddLocalExportEntry records a local export. If the local name is a
// regular import, the entry is added as an indirect export instead.
// It reports false if the export name is already exported.
func (r *Record) AddLocalExportEntry(e *ExportEntry) bool {
	if imp, ok := r.regularImports[e.LocalName]; ok {
		convertToIndirect(e, imp)
		return r.AddIndirectExportEntry(e)
	}
	if r.HasExport(e.ExportName) {
		return false
	}
	r.localExports[e.LocalName] = append(r.localExports[e.LocalName], e)
	return true
}

// AddIndirectExportEntry records a re-export. It reports false if the
// export name is already exported.
func (r *Record) AddIndirectExportEntry(e *ExportEntry) bool {
	if r.HasExport(e.ExportName) {
		return false
	}
	r.indirectExports = append(r.indirectExports, e)
	return true
}

// AddStarExportEntry records export * from a module. Such entries are
// resolved at link time, so they are never duplicates.
func (r *Record) AddStarExportEntry(e *ExportEntry) {
	r.starExports = append(r.starExports, e)
}

// HasExport reports whether name is exported by a local or indirect entry.
func (r *Record) HasExport(name string) bool {
	for _, list := range r.localExports {
		for _, e := range list {
			if e.ExportName == name {
				return true
			}
		}
	}
	for _, e := range r.indirectExports {
		if e.ExportName == name {
			return true
		}
	}
	return false
}

// checkImplicitIndirectExport turns the local exports of imp's local
// name into indirect exports of the imported binding.
func (r *Record) checkImplicitIndirectExport(imp *ImportEntry) {
	list, ok := r.localExports[imp.LocalName]
	if !ok {
		return
	}
	for _, e := range list {
		convertToIndirect(e, imp)
		r.indirectExports = append(r.indirectExports, e)
	}
	delete(r.localExports, imp.LocalName)
}

func convertToIndirect(e *ExportEntry, imp *ImportEntry) {
	e.ImportName = imp.ImportName
	e.ModuleRequest = imp.ModuleRequest
	e.LocalName = ""
}

// AssignIndexToModuleVariable numbers the local exports, grouped by
// local name, and then the regular imports, each from zero and in
// ascending order of local name, and writes each index to t.
// Assignment on an unchanged record is idempotent.
func (r *Record) AssignIndexToModuleVariable(t SlotTable) {
	for i, name := range r.LocalExportNames() {
		t.AssignIndex(name, i)
		if glog.V(3) {
			glog.Infof("linkage: export local %s -> slot %d", name, i)
		}
	}
	for i, name := range r.RegularImportNames() {
		t.AssignIndex(name, i)
		if glog.V(3) {
			glog.Infof("linkage: import %s -> slot %d", name, i)
		}
	}
}

// ModuleRequests returns the requested specifiers in index order.
func (r *Record) ModuleRequests() []string { return r.requests }

// LocalExportNames returns the distinct local names of local exports, sorted.
func (r *Record) LocalExportNames() []string {
	names := make([]string, 0, len(r.localExports))
	for name := range r.localExports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LocalExportEntries returns the local exports ordered by local name,
// then insertion.
func (r *Record) LocalExportEntries() []*ExportEntry {
	var list []*ExportEntry
	for _, name := range r.LocalExportNames() {
		list = append(list, r.localExports[name]...)
	}
	return list
}

// LocalExportsOf returns the local exports of localName.
func (r *Record) LocalExportsOf(localName string) []*ExportEntry { return r.localExports[localName] }

// RegularImportNames returns the local names of regular imports, sorted.
func (r *Record) RegularImportNames() []string {
	names := make([]string, 0, len(r.regularImports))
	for name := range r.regularImports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegularImportEntries returns the regular imports ordered by local name.
func (r *Record) RegularImportEntries() []*ImportEntry {
	var list []*ImportEntry
	for _, name := range r.RegularImportNames() {
		list = append(list, r.regularImports[name])
	}
	return list
}

// RegularImport returns the regular import bound to localName, or nil.
func (r *Record) RegularImport(localName string) *ImportEntry { return r.regularImports[localName] }

// NamespaceImportEntries returns the namespace imports in source order.
func (r *Record) NamespaceImportEntries() []*ImportEntry { return r.namespaceImports }

// IndirectExportEntries returns the indirect exports in insertion order.
func (r *Record) IndirectExportEntries() []*ExportEntry { return r.indirectExports }

// StarExportEntries returns the star exports in source order.
func (r *Record) StarExportEntries() []*ExportEntry { return r.starExports }
