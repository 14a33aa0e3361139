// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build binds the files of a project, each as an independent
// compilation unit, in parallel.
package build // import "github.com/jsbind/jsbind/build"

import (
	"context"
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/jsparse"
)

// A Unit is the outcome of binding one file.
type Unit struct {
	Filename string
	Options  binder.Options
	Size     int // bytes of source
	Result   *binder.Result
	Err      error // parse or binding error; Result is nil if set
	Elapsed  time.Duration
}

// BindSource parses and binds the source of one unit.
func BindSource(ctx context.Context, filename string, src []byte, opts binder.Options) (*binder.Result, error) {
	d := jsparse.DialectOf(filename)
	if d.IsTypeScript() {
		opts.TypeScript = true
	}
	f, err := jsparse.Parse(ctx, filename, src, d)
	if err != nil {
		return nil, err
	}
	return binder.File(f, opts)
}

// BindFile reads, parses and binds one file.
func BindFile(ctx context.Context, filename string, opts binder.Options) (*Unit, error) {
	src, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading source")
	}
	u := &Unit{Filename: filename, Options: opts, Size: len(src)}
	start := time.Now()
	u.Result, u.Err = BindSource(ctx, filename, src, opts)
	u.Elapsed = time.Since(start)
	return u, nil
}

// Run binds each of files, at most cfg.Jobs at a time, and returns
// one Unit per file in the order given. A unit that fails does not
// stop the others; all failures are reported together in the returned
// error. Run stops early only if ctx is cancelled.
func Run(ctx context.Context, cfg *Config, files []string) ([]*Unit, error) {
	units := make([]*Unit, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}
	for i, filename := range files {
		i, filename := i, filename
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if glog.V(1) {
				glog.Infof("build: binding %s", filename)
			}
			u, err := BindFile(ctx, filename, cfg.OptionsFor(filename))
			if err != nil {
				u = &Unit{Filename: filename, Err: err}
			}
			if glog.V(1) {
				glog.Infof("build: %s done in %s (err=%v)", filename, u.Elapsed, u.Err)
			}
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "build interrupted")
	}

	var result *multierror.Error
	for _, u := range units {
		if u.Err != nil {
			result = multierror.Append(result, u.Err)
		}
	}
	if result != nil {
		result.ErrorFormat = formatErrors
	}
	return units, result.ErrorOrNil()
}

func formatErrors(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	s := strings.Join(lines, "\n")
	if len(errs) > 1 {
		s += fmt.Sprintf("\n(%d errors)", len(errs))
	}
	return s
}
