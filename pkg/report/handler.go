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

	"github.com/xsclang/xsc/pkg/util/source"
)

// dedupeKey identifies the source location of an already-submitted report,
// so that cascading failures on the same token do not spam the log.
type dedupeKey struct {
	filename string
	row      int
	col      int
}

// Handler mediates between the pipeline passes and the report sink.  It
// attaches line markers fetched from the active source, prefixes context
// descriptions, deduplicates by source position, and tracks whether any
// error has been seen.
type Handler struct {
	log Log
	// Source from which line markers are reconstructed.
	src *source.Code
	// Pipeline stage submitting through this handler.
	phase Phase
	// Stack of context descriptions ("in 'struct X':" etc).
	context []string
	// Positions already reported.
	seen map[dedupeKey]struct{}
	// Whether any error has been submitted.
	hasErrors bool
}

// NewHandler constructs a handler for a given phase, submitting to a given
// log.  A nil log discards all reports (errors are still counted).
func NewHandler(phase Phase, log Log) *Handler {
	return &Handler{
		log:     log,
		phase:   phase,
		context: nil,
		seen:    make(map[dedupeKey]struct{}),
	}
}

// SetSource installs the source from which line markers are fetched.  It
// returns the previously installed source so callers can restore it after an
// include.
func (h *Handler) SetSource(src *source.Code) *source.Code {
	prev := h.src
	h.src = src
	//
	return prev
}

// Source returns the currently installed source.
func (h *Handler) Source() *source.Code {
	return h.src
}

// SetPhase changes the phase under which subsequent reports are submitted.
func (h *Handler) SetPhase(phase Phase) {
	h.phase = phase
}

// PushContext enters a context description, e.g. "in 'function foo':".
// Every report submitted until the matching PopContext carries it.
func (h *Handler) PushContext(desc string) {
	h.context = append(h.context, fmt.Sprintf("in '%s':", desc))
}

// PopContext leaves the innermost context description.
func (h *Handler) PopContext() {
	if n := len(h.context); n > 0 {
		h.context = h.context[:n-1]
	}
}

// HasErrors reports whether any error has been submitted through this
// handler.
func (h *Handler) HasErrors() bool {
	return h.hasErrors
}

// Submit builds a report and delivers it to the log, unless an equally
// positioned report was delivered before.
func (h *Handler) Submit(t Type, area source.Area, msg string, hints ...string) {
	r := h.Make(t, area, msg, hints...)
	h.SubmitReport(r)
}

// SubmitReport delivers an already-built report, applying deduplication and
// error tracking.
func (h *Handler) SubmitReport(r *Report) {
	if r.Type == Error {
		h.hasErrors = true
	}
	//
	if r.Area.Pos().IsValid() {
		key := dedupeKey{r.Area.Pos().Filename(), r.Area.Pos().Row(), r.Area.Pos().Col()}
		if _, ok := h.seen[key]; ok {
			return
		}
		//
		h.seen[key] = struct{}{}
	}
	//
	if h.log != nil {
		h.log.Submit(*r)
	}
}

// Make builds a report carrying the current context stack and, when the
// active source still holds the flagged line, its line and caret marker.
func (h *Handler) Make(t Type, area source.Area, msg string, hints ...string) *Report {
	r := &Report{
		Type:    t,
		Phase:   h.phase,
		Message: msg,
		Area:    area,
		Context: append([]string(nil), h.context...),
		Hints:   hints,
	}
	//
	if h.src != nil && area.IsValid() {
		if line, marker, ok := h.src.FetchLineMarker(area); ok {
			r.Line, r.Marker = line, marker
		}
	}
	//
	return r
}

// Info submits an informational report.
func (h *Handler) Info(area source.Area, msg string) {
	h.Submit(Info, area, msg)
}

// Warning submits a warning report.
func (h *Handler) Warning(area source.Area, msg string, hints ...string) {
	h.Submit(Warning, area, msg, hints...)
}

// Error submits a recoverable error report.
func (h *Handler) Error(area source.Area, msg string, hints ...string) {
	h.Submit(Error, area, msg, hints...)
}

// Throw builds an error report and returns it as an error value, for
// failures the current pass cannot recover from.  The report is counted but
// not submitted; the top-level driver submits it once unwinding stops.
func (h *Handler) Throw(area source.Area, msg string, hints ...string) error {
	h.hasErrors = true
	return h.Make(Error, area, msg, hints...)
}
