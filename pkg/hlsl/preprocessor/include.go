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
	"fmt"
	"os"
	"path/filepath"

	"github.com/xsclang/xsc/pkg/util/source"
)

// IncludeHandler resolves "#include" directives to character streams.
// Failure must be returned as an error; the preprocessor converts it into a
// report at the directive site.  Implementations document their own thread
// safety; the preprocessor calls the handler serially.
type IncludeHandler interface {
	// Include opens the named file.  When useSearchPaths is set the name
	// came from the angle-bracket form and should be resolved against the
	// handler's search paths only.
	Include(name string, useSearchPaths bool) (*source.Code, error)
}

// FileIncludeHandler resolves includes against the local filesystem: the
// directory of the file being compiled first (for the quoted form), then a
// list of search paths.  Nested includes are not resolved against the
// directory of the file that includes them.
type FileIncludeHandler struct {
	// Directory of the file being compiled.
	BaseDir string
	// Additional search paths, tried in order.
	SearchPaths []string
}

// NewFileIncludeHandler constructs a filesystem include handler rooted at
// the directory of a given filename.
func NewFileIncludeHandler(filename string, searchPaths ...string) *FileIncludeHandler {
	return &FileIncludeHandler{filepath.Dir(filename), searchPaths}
}

// Include implements the IncludeHandler contract.
func (h *FileIncludeHandler) Include(name string, useSearchPaths bool) (*source.Code, error) {
	var candidates []string
	//
	if !useSearchPaths {
		candidates = append(candidates, filepath.Join(h.BaseDir, name))
	}
	//
	for _, dir := range h.SearchPaths {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	//
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return source.ReadCodeFile(path)
		}
	}
	//
	return nil, fmt.Errorf("failed to include file \"%s\"", name)
}
