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
package preprocessor

import (
	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/util/source"
)

// Macro is a single "#define" entry.  A parameterless macro has HasParams
// unset; "#define F()" has it set with an empty parameter list.
type Macro struct {
	// Ordered parameter names.
	Params []string
	// Whether the macro takes a parameter list at all.
	HasParams bool
	// Replacement body.
	Body *token.String
	// Where the macro was defined, for redefinition diagnostics.
	Pos source.Position
}

// ParamIndex returns the position of a named parameter, or -1.
func (m *Macro) ParamIndex(name string) int {
	for i, p := range m.Params {
		if p == name {
			return i
		}
	}
	//
	return -1
}
