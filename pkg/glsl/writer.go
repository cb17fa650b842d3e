// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package glsl

import (
	"fmt"
	"io"
	"strings"
)

// writer accumulates generated code with indentation tracking.  The first
// write error sticks and short-circuits everything after it.
type writer struct {
	out    io.Writer
	indent string
	depth  int
	err    error
}

func newWriter(out io.Writer, indent string) *writer {
	if indent == "" {
		indent = "    "
	}
	//
	return &writer{out: out, indent: indent}
}

// raw writes text verbatim.
func (w *writer) raw(text string) {
	if w.err != nil {
		return
	}
	//
	_, w.err = io.WriteString(w.out, text)
}

// line writes one indented line.
func (w *writer) line(format string, args ...any) {
	w.raw(strings.Repeat(w.indent, w.depth))
	w.raw(fmt.Sprintf(format, args...))
	w.raw("\n")
}

// blank writes an empty line.
func (w *writer) blank() {
	w.raw("\n")
}

// open writes an opening brace and indents.
func (w *writer) open(prefix string) {
	w.line("%s{", prefix)
	w.depth++
}

// close dedents and writes the closing brace with an optional suffix.
func (w *writer) close(suffix string) {
	w.depth--
	w.line("}%s", suffix)
}
