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
package report

import (
	"fmt"
	"strings"

	"github.com/xsclang/xsc/pkg/util/source"
)

// Type distinguishes the severity of a report.
type Type uint

// The three report severities.
const (
	Info Type = iota
	Warning
	Error
)

// String returns the lower-case name of this severity.
func (t Type) String() string {
	switch t {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}

	return "unknown"
}

// Phase identifies which pipeline stage produced a report.
type Phase uint

// The reporting phases as they appear on the wire.
const (
	Lexical Phase = iota
	Syntax
	Context
	Codegen
)

// String returns the lower-case name of this phase.
func (p Phase) String() string {
	switch p {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Context:
		return "context"
	case Codegen:
		return "codegen"
	}

	return "unknown"
}

// Report describes a single diagnostic.  Besides the message itself it can
// carry the source line and caret marker for the offending area, a snapshot
// of the context stack under which it arose, and follow-up hints.
type Report struct {
	// Severity of this report.
	Type Type
	// Pipeline stage which produced it.
	Phase Phase
	// Optional vendor-defined error code (e.g. an HLSL error number).
	Code string
	// Human-readable message.
	Message string
	// Source area being flagged, if any.
	Area source.Area
	// Reconstructed source line enclosing the area, if available.
	Line string
	// Caret marker aligned underneath Line.
	Marker string
	// Context descriptions active when the report was submitted.
	Context []string
	// Optional hints ("did you mean ...?").
	Hints []string
}

// HasLineMarker reports whether this report carries a reconstructed source
// line with a marker.
func (r *Report) HasLineMarker() bool {
	return r.Line != "" && r.Marker != ""
}

// Error implements the error interface, so an unrecoverable report can be
// unwound through ordinary error returns.
func (r *Report) Error() string {
	return r.String()
}

// String renders the single-line wire form of this report:
//
//	<phase> <type> (<row>:<col>) [<code>]: <message>
//
// preceded by the context descriptions, if any, and omitting the position
// and code when absent.
func (r *Report) String() string {
	var sb strings.Builder
	//
	if len(r.Context) > 0 {
		sb.WriteString(strings.Join(r.Context, " "))
		sb.WriteString(" ")
	}
	//
	sb.WriteString(r.Phase.String())
	sb.WriteString(" ")
	sb.WriteString(r.Type.String())
	//
	if r.Area.Pos().IsValid() {
		fmt.Fprintf(&sb, " (%s)", r.Area.Pos().String())
	}
	//
	if r.Code != "" {
		fmt.Fprintf(&sb, " [%s]", r.Code)
	}
	//
	sb.WriteString(": ")
	sb.WriteString(r.Message)
	//
	return sb.String()
}

// Log is the abstract sink to which reports are submitted.  Implementations
// may print immediately or buffer; the pipeline assumes no flushing order.
type Log interface {
	Submit(r Report)
}
