// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jsbind/jsbind/bindtest"
	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/internal/chunkedfile"
	"github.com/jsbind/jsbind/jsparse"
)

func chunkOptions(chunk *chunkedfile.Chunk, d jsparse.Dialect) binder.Options {
	opts := binder.Options{
		TypeScript: d.IsTypeScript(),
		Concurrent: chunk.Option("concurrent"),
	}
	switch {
	case chunk.Option("module") || d.IsTypeScript():
		opts.Mode = binder.Module
	case chunk.Option("commonjs"):
		opts.Mode = binder.CommonJS
	}
	return opts
}

func TestBindGolden(t *testing.T) {
	for _, name := range []string{"bind.js", "types.ts"} {
		filename := bindtest.DataFile("binder", "testdata/"+name)
		d := jsparse.DialectOf(filename)
		for _, chunk := range chunkedfile.Read(filename, t) {
			f, err := jsparse.Parse(context.Background(), filename, []byte(chunk.Source), d)
			if err != nil {
				t.Error(err)
				continue
			}
			if _, err := binder.File(f, chunkOptions(&chunk, d)); err != nil {
				var berr *binder.Error
				if !errors.As(err, &berr) {
					t.Fatalf("unexpected error type %T", err)
				}
				chunk.GotError(int(berr.Pos.Line), berr.Msg)
			}
			chunk.Done()
		}
	}
}
