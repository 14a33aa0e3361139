// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsbind/jsbind/binder"
)

const projectFile = `
[project]
name = "demo"
root = "src"

[binder]
mode = "script"
typescript = false
concurrent = true

[build]
jobs = 3
include = ["**/*.js"]
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(projectFile))
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, "src", cfg.Root)
	assert.Equal(t, binder.Options{Mode: binder.Script, Concurrent: true}, cfg.Options)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, []string{"**/*.js"}, cfg.Include)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("[project]\nname = \"x\"\n"))
	require.NoError(t, err)
	def := DefaultConfig()
	assert.Equal(t, def.Options, cfg.Options)
	assert.Equal(t, def.Include, cfg.Include)
	assert.Equal(t, ".", cfg.Root)
}

func TestParseConfigErrors(t *testing.T) {
	for src, want := range map[string]string{
		"[binder]\nmode = \"amd\"\n": `unknown mode "amd"`,
		"[build]\njobs = -1\n":       "must not be negative",
		"[build\n":                   "decoding project file",
	} {
		_, err := ParseConfig([]byte(src))
		if assert.Error(t, err, src) {
			assert.Contains(t, err.Error(), want)
		}
	}
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	filename := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(filename), 0755))
	require.NoError(t, ioutil.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	filename := write(t, dir, ConfigFileName, projectFile)
	cfg, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.Root)

	sub := filepath.Join(dir, "src", "deep")
	require.NoError(t, os.MkdirAll(sub, 0755))
	found := FindConfig(sub)
	assert.Equal(t, filename, found)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestOptionsFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Options = binder.Options{Mode: binder.Script}

	assert.Equal(t, binder.Options{Mode: binder.Script}, cfg.OptionsFor("a.js"))
	assert.Equal(t, binder.Options{Mode: binder.CommonJS}, cfg.OptionsFor("a.cjs"))
	assert.Equal(t, binder.Options{Mode: binder.Module}, cfg.OptionsFor("a.mjs"))
	assert.Equal(t, binder.Options{Mode: binder.Script, TypeScript: true}, cfg.OptionsFor("a.tsx"))
}

func TestMatchPattern(t *testing.T) {
	for _, test := range []struct {
		pattern, rel string
		want         bool
	}{
		{"**/*.js", "a.js", true},
		{"**/*.js", "x/y/a.js", true},
		{"**/*.js", "a.ts", false},
		{"*.js", "x/a.js", false},
		{"lib/*.ts", "lib/a.ts", true},
		{"**/lib/*.ts", "src/lib/a.ts", true},
	} {
		assert.Equal(t, test.want, matchPattern(test.pattern, test.rel), "%s ~ %s", test.pattern, test.rel)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.js", "")
	write(t, dir, "sub/b.ts", "")
	write(t, dir, "node_modules/c.js", "")
	write(t, dir, ".git/d.js", "")
	write(t, dir, "README.md", "")

	cfg := DefaultConfig()
	cfg.Root = dir
	files, err := cfg.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.js"), filepath.Join(dir, "sub", "b.ts")}, files)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	good := write(t, dir, "good.js", "import { a } from './b';\nexport const c = a;\nexport * from './d';\n")
	bad := write(t, dir, "bad.js", "let x;\nlet x;\n")
	cjs := write(t, dir, "lib.cjs", "module.exports = require('x');\n")

	cfg := DefaultConfig()
	cfg.Jobs = 2
	start := time.Now()
	units, err := Run(context.Background(), cfg, []string{good, bad, cjs})
	require.Error(t, err)
	require.Len(t, units, 3)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 1)
	assert.True(t, errors.Is(merr.Errors[0], binder.Redeclaration))
	assert.Contains(t, err.Error(), "bad.js:2:5: SyntaxError: Variable 'x' has already been declared.")

	assert.NoError(t, units[0].Err)
	assert.Equal(t, binder.Module, units[0].Options.Mode)
	assert.Nil(t, units[1].Result)
	assert.Equal(t, binder.CommonJS, units[2].Options.Mode)
	assert.NotNil(t, units[2].Result.Top.Binding("require"))

	s := Summarize(units, time.Since(start))
	assert.Equal(t, 3, s.Units)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Imports)
	assert.Equal(t, 2, s.Exports)
	assert.Greater(t, s.Scopes, 0)
	assert.Contains(t, s.String(), "3 units (1 failed)")
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	f := write(t, dir, "a.js", "var a;\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, DefaultConfig(), []string{f})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
