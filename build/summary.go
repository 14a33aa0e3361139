// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// A Summary totals the results of a build.
type Summary struct {
	Units    int
	Failed   int
	Bytes    uint64
	Scopes   int
	Bindings int // value and type bindings over all scopes
	Imports  int // regular and namespace import entries
	Exports  int // local, indirect and star export entries
	Elapsed  time.Duration
}

// Summarize totals units. Elapsed is the wall time of the whole build.
func Summarize(units []*Unit, elapsed time.Duration) Summary {
	s := Summary{Units: len(units), Elapsed: elapsed}
	for _, u := range units {
		s.Bytes += uint64(u.Size)
		if u.Err != nil {
			s.Failed++
			continue
		}
		res := u.Result
		s.Scopes += len(res.Scopes)
		for _, sc := range res.Scopes {
			s.Bindings += len(sc.Names()) + len(sc.Types())
		}
		if r := res.Record; r != nil {
			s.Imports += len(r.RegularImportNames()) + len(r.NamespaceImportEntries())
			s.Exports += len(r.LocalExportEntries()) + len(r.IndirectExportEntries()) + len(r.StarExportEntries())
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%s units (%d failed), %s of source: %s scopes, %s bindings, %s imports, %s exports in %s",
		humanize.Comma(int64(s.Units)), s.Failed, humanize.Bytes(s.Bytes),
		humanize.Comma(int64(s.Scopes)), humanize.Comma(int64(s.Bindings)),
		humanize.Comma(int64(s.Imports)), humanize.Comma(int64(s.Exports)),
		s.Elapsed.Round(time.Microsecond))
}
