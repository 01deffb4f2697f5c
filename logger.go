// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"fmt"
	"log"
	"os"
)

// Logger defines an interface for writing log messages. The library logs
// only the non-fatal warnings documented on the combinators (an unbounded
// child truncated inside a product, union children shadowed by an infinite
// sibling); supplying a test logger makes those warnings observable.
type Logger interface {
	Infof(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// DefaultLogger logs to the Go stdlib logs.
type DefaultLogger struct{}

// Infof implements the Logger.Infof interface.
func (DefaultLogger) Infof(format string, args ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
}

// Fatalf implements the Logger.Fatalf interface.
func (DefaultLogger) Fatalf(format string, args ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// discardLogger drops all messages. Used by Check, which validates a tree
// without wanting its warnings.
type discardLogger struct{}

func (discardLogger) Infof(format string, args ...interface{})  {}
func (discardLogger) Fatalf(format string, args ...interface{}) {}
