// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that binding
// errors are reported in the appropriate places.
//
// A chunked file consists of several chunks of JavaScript separated by
// "---" lines. Each chunk is an input to the program under test, such
// as the binder. A line comment beginning "// ###" is interpreted as an
// expectation of failure: the following text is a Go string literal
// denoting a regular expression that should match the failure message.
//
// Example:
//
//	let x; let x; // ### "Variable 'x' has already been declared"
//	---
//	// option:module
//	export { y }; // ### "Export name 'y' is not defined"
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.GotError for each error that actually occurred. Any
// discrepancy between the actual and expected errors is reported using
// the client's reporter, which is typically a testing.T.
package chunkedfile // import "github.com/jsbind/jsbind/internal/chunkedfile"

import (
	"fmt"
	"io/ioutil"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

const debug = false

const marker = "// ###"

// A Chunk is one compilation unit of a chunked file, padded with
// newlines so that its line numbers are those of the whole file.
type Chunk struct {
	Source   string
	filename string
	report   Reporter
	wantErrs map[int]*regexp.Regexp
}

// A Reporter receives discrepancies between expected and actual
// binding errors. *testing.T is one.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read splits a chunked file into its chunks and compiles their
// expectations, reporting malformed ones.
//
// Reports begin with a newline and "file.js:line:" so that the position
// in the test data is not run together with the Go position that
// (*testing.T).Errorf prepends.
func Read(filename string, report Reporter) (chunks []Chunk) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return
	}
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}
	return readBytes(filename, data, report, eol)
}

func readBytes(filename string, data []byte, report Reporter, eol string) (chunks []Chunk) {
	linenum := 1
	for i, chunk := range strings.Split(string(data), eol+"---"+eol) {
		if debug {
			fmt.Printf("chunk %d at line %d: %s\n", i, linenum, chunk)
		}
		// Pad with newlines so the line numbers match the original file.
		src := strings.Repeat("\n", linenum-1) + chunk

		wantErrs := make(map[int]*regexp.Regexp)

		// Parse comments of the form:
		// // ### "expected error".
		lines := strings.Split(chunk, "\n")
		for j := 0; j < len(lines); j, linenum = j+1, linenum+1 {
			line := lines[j]
			hashes := strings.Index(line, marker)
			if hashes < 0 {
				continue
			}
			rest := strings.TrimSpace(line[hashes+len(marker):])
			pattern, err := strconv.Unquote(rest)
			if err != nil {
				report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, linenum, rest)
				continue
			}
			rx, err := regexp.Compile(pattern)
			if err != nil {
				report.Errorf("\n%s:%d: %v", filename, linenum, err)
				continue
			}
			wantErrs[linenum] = rx
			if debug {
				fmt.Printf("\t%d\t%s\n", linenum, rx)
			}
		}
		linenum++

		chunks = append(chunks, Chunk{src, filename, report, wantErrs})
	}
	return chunks
}

// Option reports whether the chunk enables the named option
// by containing the text "option:name".
func (chunk *Chunk) Option(name string) bool {
	return strings.Contains(chunk.Source, "option:"+name)
}

// GotError records that binding failed on the given line with msg, the
// error text without its "file:line:col: SyntaxError: " prefix. An error
// on a line without an expectation, or that does not match it, is reported.
func (chunk *Chunk) GotError(linenum int, msg string) {
	if rx, ok := chunk.wantErrs[linenum]; ok {
		delete(chunk.wantErrs, linenum)
		if !rx.MatchString(msg) {
			chunk.report.Errorf("\n%s:%d: error %q does not match pattern %q", chunk.filename, linenum, msg, rx)
		}
	} else {
		chunk.report.Errorf("\n%s:%d: unexpected error: %v", chunk.filename, linenum, msg)
	}
}

// Done reports the expectations of the chunk that no GotError matched.
// A binder stops at its first error, so a chunk normally expects at most one.
func (chunk *Chunk) Done() {
	for linenum, rx := range chunk.wantErrs {
		chunk.report.Errorf("\n%s:%d: expected error matching %q", chunk.filename, linenum, rx)
	}
}
