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
	"strings"
	"testing"

	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/assert"
	"github.com/xsclang/xsc/pkg/util/source"
)

// memoryIncludeHandler resolves includes from an in-memory file map.
type memoryIncludeHandler struct {
	files map[string]string
}

func (h *memoryIncludeHandler) Include(name string, useSearchPaths bool) (*source.Code, error) {
	content, ok := h.files[name]
	if !ok {
		return nil, fmt.Errorf("failed to include file \"%s\"", name)
	}
	//
	return source.NewCode(name, content), nil
}

// preprocess runs the preprocessor over an input with a given include map.
func preprocess(input string, files map[string]string) (string, *report.MemoryLog) {
	log := &report.MemoryLog{}
	handler := report.NewHandler(report.Lexical, log)
	//
	pp := New(handler, &memoryIncludeHandler{files}, false)
	//
	out, _ := pp.Process(source.NewCode("test.hlsl", input))
	//
	text := ""
	for chr := out.Next(); chr != 0; chr = out.Next() {
		text += string(chr)
	}
	//
	return text, log
}

func TestPreProcessor_00(t *testing.T) {
	out, log := preprocess("int x = 1;\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.Equal(t, "int x = 1;\n", out)
}

func TestPreProcessor_01(t *testing.T) {
	// Parameterless macro expansion.
	out, log := preprocess("#define PI 3.14159\nfloat x = PI;\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(out, "float x = 3.14159;"))
}

func TestPreProcessor_02(t *testing.T) {
	// Parametered macro expansion with bracket balancing.
	out, log := preprocess("#define SQR(x) ((x)*(x))\nint y = SQR(a+1);\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(out, "int y = ((a+1)*(a+1));"))
}

func TestPreProcessor_03(t *testing.T) {
	// Nested macro expansion.
	out, log := preprocess("#define A B\n#define B 42\nint x = A;\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(out, "int x = 42;"))
}

func TestPreProcessor_04(t *testing.T) {
	// A parametered macro without an argument list stays verbatim.
	out, log := preprocess("#define F(x) x\nint F;\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(out, "int F;"))
}

func TestPreProcessor_05(t *testing.T) {
	// Identical redefinition warns; mismatching redefinition errors.
	_, log := preprocess("#define A 1\n#define A  1\n", nil)
	assert.Equal(t, 0, log.Count(report.Error))
	assert.NotNil(t, log.Find("redefinition"))
	//
	_, log = preprocess("#define A 1\n#define A 2\n", nil)
	assert.Equal(t, 1, log.Count(report.Error))
}

func TestPreProcessor_06(t *testing.T) {
	// Argument count mismatch cites the declared parameter count.
	_, log := preprocess("#define F(a, b) a\nF(1)\n", nil)
	//
	r := log.Find("invalid number of arguments")
	assert.NotNil(t, r)
	assert.True(t, strings.Contains(r.Message, "expected 2"))
}

func TestPreProcessor_07(t *testing.T) {
	// Stringize operator.
	out, log := preprocess("#define S(x) #x\nS(hello)\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(out, "\"hello\""))
}

func TestPreProcessor_08(t *testing.T) {
	// Conditional compilation with macro evaluation.
	input := "#define MODE 2\n#if MODE == 1\nint a;\n#elif MODE == 2\nint b;\n#else\nint c;\n#endif\n"
	//
	out, log := preprocess(input, nil)
	assert.Equal(t, 0, log.Count(report.Error))
	assert.False(t, strings.Contains(out, "int a;"))
	assert.True(t, strings.Contains(out, "int b;"))
	assert.False(t, strings.Contains(out, "int c;"))
}

func TestPreProcessor_09(t *testing.T) {
	// "defined" in both spellings.
	input := "#define FOO 1\n#if defined(FOO) && defined BAR\nint a;\n#else\nint b;\n#endif\n"
	//
	out, log := preprocess(input, nil)
	assert.Equal(t, 0, log.Count(report.Error))
	assert.False(t, strings.Contains(out, "int a;"))
	assert.True(t, strings.Contains(out, "int b;"))
}

func TestPreProcessor_10(t *testing.T) {
	// "#if 0" skips contained directives but tracks nesting.
	input := "#if 0\n#if 1\nint a;\n#endif\nint b;\n#endif\nint c;\n"
	//
	out, log := preprocess(input, nil)
	assert.Equal(t, 0, log.Count(report.Error))
	assert.False(t, strings.Contains(out, "int a;"))
	assert.False(t, strings.Contains(out, "int b;"))
	assert.True(t, strings.Contains(out, "int c;"))
}

func TestPreProcessor_11(t *testing.T) {
	// ifdef/ifndef/undef.
	input := "#define X 1\n#undef X\n#ifdef X\nint a;\n#endif\n#ifndef X\nint b;\n#endif\n"
	//
	out, log := preprocess(input, nil)
	assert.Equal(t, 0, log.Count(report.Error))
	assert.False(t, strings.Contains(out, "int a;"))
	assert.True(t, strings.Contains(out, "int b;"))
}

func TestPreProcessor_12(t *testing.T) {
	// Unbalanced "#if" is reported at its opening token.
	_, log := preprocess("#if 1\nint a;\n", nil)
	//
	r := log.Find("missing '#endif'")
	assert.NotNil(t, r)
	assert.Equal(t, 1, r.Area.Pos().Row())
}

func TestPreProcessor_13(t *testing.T) {
	// "#elif" after "#else" is an error.
	_, log := preprocess("#if 0\n#else\n#elif 1\n#endif\n", nil)
	//
	assert.NotNil(t, log.Find("'#elif' after '#else'"))
}

func TestPreProcessor_14(t *testing.T) {
	// Division by zero inside a directive expression.
	_, log := preprocess("#if 1/0\nint a;\n#endif\n", nil)
	//
	assert.NotNil(t, log.Find("division by zero"))
}

func TestPreProcessor_15(t *testing.T) {
	// Includes splice the file in, with line markers restoring origins.
	files := map[string]string{"common.hlsl": "int shared_decl;\n"}
	//
	out, log := preprocess("#include \"common.hlsl\"\nint x;\n", files)
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(out, "int shared_decl;"))
	assert.True(t, strings.Contains(out, "#line 1 \"common.hlsl\""))
	assert.True(t, strings.Contains(out, "int x;"))
}

func TestPreProcessor_16(t *testing.T) {
	// "#pragma once" prevents re-inclusion within one run.
	files := map[string]string{"common.hlsl": "#pragma once\nint once_decl;\n"}
	//
	out, log := preprocess("#include \"common.hlsl\"\n#include \"common.hlsl\"\n", files)
	assert.Equal(t, 0, log.Count(report.Error))
	assert.Equal(t, 1, strings.Count(out, "int once_decl;"))
}

func TestPreProcessor_17(t *testing.T) {
	// Include failure is reported at the directive site.
	_, log := preprocess("#include \"missing.hlsl\"\n", nil)
	//
	r := log.Find("failed to include")
	assert.NotNil(t, r)
	assert.Equal(t, 1, r.Area.Pos().Row())
}

func TestPreProcessor_18(t *testing.T) {
	// "#error" submits its message.
	_, log := preprocess("#error something went wrong\n", nil)
	//
	assert.NotNil(t, log.Find("something went wrong"))
}

func TestPreProcessor_19(t *testing.T) {
	// "#pragma pack_matrix" is forwarded for the parser.
	out, log := preprocess("#pragma pack_matrix(row_major)\nfloat4x4 m;\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(out, "#pragma pack_matrix(row_major)"))
}

func TestPreProcessor_20(t *testing.T) {
	// Unknown pragmas warn and vanish.
	out, log := preprocess("#pragma fancy_stuff\nint x;\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.Equal(t, 1, log.Count(report.Warning))
	assert.False(t, strings.Contains(out, "fancy_stuff"))
}

func TestPreProcessor_21(t *testing.T) {
	// Predefined macros behave like "#define".
	log := &report.MemoryLog{}
	handler := report.NewHandler(report.Lexical, log)
	//
	pp := New(handler, nil, false)
	pp.Define("LEVEL", "3")
	pp.Define("ENABLED", "")
	//
	out, _ := pp.Process(source.NewCode("test.hlsl", "#if ENABLED && LEVEL >= 2\nint a;\n#endif\n"))
	//
	text := ""
	for chr := out.Next(); chr != 0; chr = out.Next() {
		text += string(chr)
	}
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(text, "int a;"))
}

func TestPreProcessor_22(t *testing.T) {
	// Line continuations join logical lines.
	out, log := preprocess("#define LONG 1 + \\\n2\nint x = LONG;\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(out, "int x = 1 + 2;"))
}

func TestPreProcessor_23(t *testing.T) {
	// "#line" re-origins both streams.
	out, log := preprocess("#line 100 \"virtual.hlsl\"\nint x;\n", nil)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.True(t, strings.Contains(out, "#line 100 \"virtual.hlsl\""))
}

func TestPreProcessor_24(t *testing.T) {
	// Preprocessing an already-preprocessed stream with no directives
	// left is a no-op.
	first, log := preprocess("#define SQR(x) ((x)*(x))\nint y = SQR(a+1);\n", nil)
	assert.Equal(t, 0, log.Count(report.Error))
	//
	second, log := preprocess(first, nil)
	assert.Equal(t, 0, log.Count(report.Error))
	assert.Equal(t, first, second)
}
