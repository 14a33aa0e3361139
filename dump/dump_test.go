// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jsbind/jsbind/bindtest"
	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/dump"
)

const src = `import { a } from "m";
import * as ns from "n";
export let x = 1;
export { x as y };
export * from "o";
function f(p) {
  let q = p;
  return () => q + a;
}
`

var module = binder.Options{Mode: binder.Module}

func text(t *testing.T) string {
	t.Helper()
	res := bindtest.MustBind(t, "unit.js", src, module)
	var buf bytes.Buffer
	if err := dump.Text(&buf, res); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestText(t *testing.T) {
	got := text(t)
	for _, want := range []string{
		"unit unit.js (module)\n",
		"scope #0 module\n",
		"  params: 4funcObj, 4newTarget, this\n",
		"  x: module let x [export] {initialized|local-export} index=0\n",
		"  a: module const a [import] {initialized} index=0\n",
		"  ns: module const ns [import|namespace-import] {initialized}\n",
		"request #0 \"m\"\n",
		"request #2 \"o\"\n",
		"import a <- #0.a\n",
		"import ns <- #1.*\n",
		"export x -> local x\n",
		"export y -> local x\n",
		"export * from #2\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("dump lacks %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "  scope #1 param\n") {
		t.Errorf("function parameter scope missing:\n%s", got)
	}
	if !strings.Contains(got, "q: local let q {initialized|lexical} slot=0") {
		t.Errorf("captured q not shown with its slot:\n%s", got)
	}
}

func TestTextIsDeterministic(t *testing.T) {
	first, second := text(t), text(t)
	if first != second {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(first, second, false)
		t.Errorf("two dumps of the same unit differ:\n%s", dmp.DiffPrettyText(diffs))
	}
}

func TestJSON(t *testing.T) {
	res := bindtest.MustBind(t, "unit.js", src, module)
	data, err := dump.JSON(res)
	if err != nil {
		t.Fatal(err)
	}
	var s structpb.Struct
	if err := protojson.Unmarshal(data, &s); err != nil {
		t.Fatalf("dump is not valid JSON: %v", err)
	}
	m := s.AsMap()
	if m["mode"] != "module" || m["file"] != "unit.js" {
		t.Errorf("mode=%v file=%v", m["mode"], m["file"])
	}
	scopes, _ := m["scopes"].([]interface{})
	if len(scopes) != len(res.Scopes) {
		t.Fatalf("got %d scopes, want %d", len(scopes), len(res.Scopes))
	}
	top, _ := scopes[0].(map[string]interface{})
	if top["kind"] != "module" {
		t.Errorf("top kind %v", top["kind"])
	}
	if _, ok := top["parent"]; ok {
		t.Errorf("top scope has a parent")
	}
	if inner, _ := scopes[1].(map[string]interface{}); inner["parent"] != float64(0) {
		t.Errorf("scope #1 parent %v", inner["parent"])
	}
	link, _ := m["linkage"].(map[string]interface{})
	requests, _ := link["requests"].([]interface{})
	if len(requests) != 3 || requests[0] != "m" {
		t.Errorf("requests %v", requests)
	}
	exports, _ := link["exports"].([]interface{})
	if len(exports) != 3 {
		t.Errorf("exports %v", exports)
	}
}

func TestScriptHasNoLinkage(t *testing.T) {
	res := bindtest.MustBind(t, "script.js", "var v = this;\n", binder.Options{Mode: binder.Script})
	var buf bytes.Buffer
	if err := dump.Text(&buf, res); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "linkage") {
		t.Errorf("script dump has a linkage section:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "v: global var v") {
		t.Errorf("global v missing:\n%s", buf.String())
	}
	s, err := dump.Struct(res)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Fields["linkage"]; ok {
		t.Errorf("script struct has linkage")
	}
}
