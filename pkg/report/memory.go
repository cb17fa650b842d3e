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

import "strings"

// MemoryLog buffers submitted reports in order, for callers which want to
// inspect or re-render diagnostics after the fact.
type MemoryLog struct {
	Reports []Report
}

// Submit implements the Log interface.
func (l *MemoryLog) Submit(r Report) {
	l.Reports = append(l.Reports, r)
}

// Count returns the number of buffered reports of a given severity.
func (l *MemoryLog) Count(t Type) int {
	n := 0
	//
	for _, r := range l.Reports {
		if r.Type == t {
			n++
		}
	}
	//
	return n
}

// Find returns the first buffered report whose message contains a given
// substring, or nil.
func (l *MemoryLog) Find(substr string) *Report {
	for i := range l.Reports {
		if strings.Contains(l.Reports[i].Message, substr) {
			return &l.Reports[i]
		}
	}
	//
	return nil
}
