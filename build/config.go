// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/jsparse"
)

// ConfigFileName is the name of the project file looked up by FindConfig.
const ConfigFileName = "jsbind.toml"

// tomlConfig is the project file as it is encoded in TOML.
type tomlConfig struct {
	Project *tomlProject `toml:"project"`
	Binder  *tomlBinder  `toml:"binder"`
	Build   *tomlBuild   `toml:"build"`
}

type tomlProject struct {
	Name string `toml:"name"`
	Root string `toml:"root,omitempty"`
}

type tomlBinder struct {
	Mode       string `toml:"mode,omitempty"`
	TypeScript bool   `toml:"typescript"`
	Concurrent bool   `toml:"concurrent"`
}

type tomlBuild struct {
	Jobs    int      `toml:"jobs,omitempty"`
	Include []string `toml:"include,omitempty"`
}

// A Config describes a project: where its sources are and how to bind them.
type Config struct {
	Name    string
	Root    string // directory holding the sources
	Options binder.Options
	Jobs    int      // maximum number of units bound at once
	Include []string // file patterns relative to Root; "**/" matches any directory prefix
}

// DefaultConfig returns the configuration used when there is no project file.
func DefaultConfig() *Config {
	return &Config{
		Root:    ".",
		Options: binder.Options{Mode: binder.Module},
		Jobs:    runtime.GOMAXPROCS(0),
		Include: []string{"**/*.js", "**/*.mjs", "**/*.cjs", "**/*.ts", "**/*.tsx"},
	}
}

// LoadConfig reads the project file at filename. Fields it leaves out
// keep their DefaultConfig values, and a relative root is taken
// relative to the file's directory.
func LoadConfig(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading project file")
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(filename), cfg.Root)
	}
	return cfg, nil
}

// ParseConfig decodes the TOML text of a project file.
func ParseConfig(data []byte) (*Config, error) {
	tc := &tomlConfig{}
	if err := toml.Unmarshal(data, tc); err != nil {
		return nil, errors.Wrap(err, "decoding project file")
	}
	cfg := DefaultConfig()
	if p := tc.Project; p != nil {
		cfg.Name = p.Name
		if p.Root != "" {
			cfg.Root = p.Root
		}
	}
	if b := tc.Binder; b != nil {
		if b.Mode != "" {
			mode, err := binder.ParseMode(b.Mode)
			if err != nil {
				return nil, errors.Wrap(err, "binder.mode")
			}
			cfg.Options.Mode = mode
		}
		cfg.Options.TypeScript = b.TypeScript
		cfg.Options.Concurrent = b.Concurrent
	}
	if b := tc.Build; b != nil {
		if b.Jobs < 0 {
			return nil, errors.Errorf("build.jobs must not be negative, got %d", b.Jobs)
		}
		if b.Jobs > 0 {
			cfg.Jobs = b.Jobs
		}
		if len(b.Include) > 0 {
			cfg.Include = b.Include
		}
	}
	return cfg, nil
}

// FindConfig returns the project file in dir or its nearest ancestor,
// or "" if there is none.
func FindConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		name := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(name); err == nil {
			return name
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// OptionsFor returns the binder options for the named file. The
// project options apply, except that a .ts or .tsx file is always
// TypeScript, a .cjs file is always CommonJS and a .mjs file is
// always a module.
func (cfg *Config) OptionsFor(filename string) binder.Options {
	opts := cfg.Options
	if jsparse.DialectOf(filename).IsTypeScript() {
		opts.TypeScript = true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cjs":
		opts.Mode = binder.CommonJS
	case ".mjs":
		opts.Mode = binder.Module
	}
	return opts
}

// Files returns the files below Root matching an include pattern,
// in lexical order.
func (cfg *Config) Files() ([]string, error) {
	var files []string
	err := filepath.Walk(cfg.Root, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name != cfg.Root && (info.Name() == "node_modules" || strings.HasPrefix(info.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(cfg.Root, name)
		if err != nil {
			return err
		}
		if cfg.included(filepath.ToSlash(rel)) {
			files = append(files, name)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", cfg.Root)
	}
	return files, nil
}

func (cfg *Config) included(rel string) bool {
	for _, pattern := range cfg.Include {
		if matchPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// matchPattern reports whether the slash-separated path rel matches
// pattern, in which a leading "**/" matches any directory prefix.
func matchPattern(pattern, rel string) bool {
	if rest := strings.TrimPrefix(pattern, "**/"); rest != pattern {
		for {
			if ok, _ := path.Match(rest, rel); ok {
				return true
			}
			i := strings.IndexByte(rel, '/')
			if i < 0 {
				return false
			}
			rel = rel[i+1:]
		}
	}
	ok, _ := path.Match(pattern, rel)
	return ok
}
