// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// stopSignals cancel a running check.
var stopSignals = []os.Signal{os.Interrupt, unix.SIGTERM}
