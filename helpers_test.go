// Copyright 2025 The Paramtree Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package paramtree

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureLogger records Infof output so tests can assert on warnings.
type captureLogger struct {
	buf strings.Builder
}

func (l *captureLogger) Infof(format string, args ...interface{}) {
	fmt.Fprintf(&l.buf, format+"\n", args...)
}

func (l *captureLogger) Fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

// collectValues iterates tr to exhaustion and returns the rendered
// elements, failing the test on any compile or iteration error.
func collectValues(tb testing.TB, tr Tree) []string {
	tb.Helper()
	cur, err := Iterate(tr, &Options{Logger: discardLogger{}})
	require.NoError(tb, err)
	return drain(tb, cur)
}

// drain walks cur to exhaustion in its current direction.
func drain(tb testing.TB, cur *Cursor) []string {
	tb.Helper()
	var out []string
	for d := cur.Next(); d != nil; d = cur.Next() {
		out = append(out, d.String())
	}
	require.NoError(tb, cur.Err())
	return out
}
