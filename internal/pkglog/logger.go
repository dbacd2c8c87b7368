// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pkglog is a minimal leveled wrapper around an io.Writer, used
// throughout pkgcore for the spec's "warn and continue" error kinds
// (StrayMissing, AlienContents, skipped invalid edges, supplier retries).
package pkglog

import (
	"fmt"
	"io"
)

// Logger is a minimal wrapper around an io.Writer.
type Logger struct {
	io.Writer
}

// New returns a new logger which writes to w. A nil w discards all output.
func New(w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{Writer: w}
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}

// Warnf logs a formatted warning line, prefixed with "warn: ". Used for
// non-fatal error kinds that the spec requires to be surfaced but not to
// abort the enclosing operation.
func (l *Logger) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(l, "warn: "+format+"\n", args...)
}
