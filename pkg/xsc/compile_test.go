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
package xsc_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	// Register the GLSL-family code generator.
	_ "github.com/xsclang/xsc/pkg/glsl"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/assert"
	"github.com/xsclang/xsc/pkg/util/source"
	"github.com/xsclang/xsc/pkg/xsc"
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

const vertexShader = `
cbuffer Matrices : register(b0) {
    float4x4 wvpMatrix;
};

struct VertexIn {
    float3 position : POSITION;
    float2 texCoord : TEXCOORD0;
};

float4 main(VertexIn input) : SV_Position {
    return mul(wvpMatrix, float4(input.position, 1.0));
}
`

// translate compiles a shader string and returns the output, the log and
// the success flag.
func translate(src string, in *xsc.ShaderInput, out *xsc.ShaderOutput) (string, *report.MemoryLog, bool) {
	var buf bytes.Buffer
	//
	log := &report.MemoryLog{}
	//
	in.Filename = "test.hlsl"
	in.SourceCode = strings.NewReader(src)
	//
	out.Writer = &buf
	//
	if out.NameMangling == (xsc.NameMangling{}) {
		out.NameMangling = xsc.DefaultNameMangling()
	}
	//
	if out.Formatting == (xsc.Formatting{}) {
		out.Formatting = xsc.DefaultFormatting()
	}
	//
	ok := xsc.Compile(in, out, log)
	//
	return buf.String(), log, ok
}

func TestCompile_00(t *testing.T) {
	in := &xsc.ShaderInput{
		EntryPoint:    "main",
		ShaderVersion: xsc.HLSL5,
		Target:        xsc.VertexShader,
	}
	out := &xsc.ShaderOutput{ShaderVersion: xsc.GLSL330}
	//
	code, log, ok := translate(vertexShader, in, out)
	//
	assert.True(t, ok, "compile failed: %v", log.Reports)
	assert.True(t, strings.Contains(code, "#version 330"))
	assert.True(t, strings.Contains(code, "uniform Matrices"))
	assert.True(t, strings.Contains(code, "struct VertexIn"))
	assert.True(t, strings.Contains(code, "mat4"))
	assert.True(t, strings.Contains(code, "void main()"))
	assert.True(t, strings.Contains(code, "gl_Position"))
	// The entry point was renamed out of the wrapper's way.
	assert.True(t, strings.Contains(code, "xst_main"))
}

func TestCompile_01(t *testing.T) {
	// Preprocess-only writes the expanded source.
	in := &xsc.ShaderInput{
		EntryPoint:    "main",
		ShaderVersion: xsc.HLSL5,
		Target:        xsc.VertexShader,
		Macros:        map[string]string{"SCALE": "2.0"},
	}
	out := &xsc.ShaderOutput{
		ShaderVersion: xsc.GLSL330,
		Options:       xsc.Options{PreprocessOnly: true},
	}
	//
	code, _, ok := translate("float x = SCALE;\n", in, out)
	//
	assert.True(t, ok)
	assert.Equal(t, "float x = 2.0;\n", code)
}

func TestCompile_02(t *testing.T) {
	// Validate-only produces no code but reports errors.
	in := &xsc.ShaderInput{
		EntryPoint:    "main",
		ShaderVersion: xsc.HLSL5,
		Target:        xsc.VertexShader,
	}
	out := &xsc.ShaderOutput{
		ShaderVersion: xsc.GLSL330,
		Options:       xsc.Options{ValidateOnly: true},
	}
	//
	code, log, ok := translate("float4 main() : SV_Position { return undeclared_thing; }", in, out)
	//
	assert.False(t, ok)
	assert.Equal(t, "", code)
	assert.NotNil(t, log.Find("undeclared identifier"))
}

func TestCompile_03(t *testing.T) {
	// Include once across two inclusion sites (end-to-end scenario).
	files := map[string]string{
		"common.hlsl": "#pragma once\nfloat4 transform(float4 v) { return v; }\n",
		"extra.hlsl":  "#include \"common.hlsl\"\n",
	}
	//
	src := `
#include "common.hlsl"
#include "extra.hlsl"
float4 main() : SV_Position { return transform(float4(0, 0, 0, 1)); }
`
	//
	in := &xsc.ShaderInput{
		EntryPoint:     "main",
		ShaderVersion:  xsc.HLSL5,
		Target:         xsc.VertexShader,
		IncludeHandler: &memoryIncludeHandler{files},
	}
	out := &xsc.ShaderOutput{ShaderVersion: xsc.GLSL330}
	//
	code, log, ok := translate(src, in, out)
	//
	assert.True(t, ok, "compile failed: %v", log.Reports)
	assert.Equal(t, 1, strings.Count(code, "vec4 transform"))
}

func TestCompile_04(t *testing.T) {
	// Optimize strips unreferenced declarations.
	src := `
float4 unusedGlobal;
int unusedHelper() { return 1; }
float4 main() : SV_Position { return float4(0, 0, 0, 1); }
`
	//
	in := &xsc.ShaderInput{
		EntryPoint:    "main",
		ShaderVersion: xsc.HLSL5,
		Target:        xsc.VertexShader,
	}
	out := &xsc.ShaderOutput{
		ShaderVersion: xsc.GLSL330,
		Options:       xsc.Options{Optimize: true},
	}
	//
	code, log, ok := translate(src, in, out)
	//
	assert.True(t, ok, "compile failed: %v", log.Reports)
	assert.False(t, strings.Contains(code, "unusedGlobal"))
	assert.False(t, strings.Contains(code, "unusedHelper"))
}

func TestCompile_05(t *testing.T) {
	// GLSL-family inputs are rejected at the interface.
	in := &xsc.ShaderInput{
		EntryPoint:    "main",
		ShaderVersion: xsc.GLSLInput,
		Target:        xsc.VertexShader,
	}
	out := &xsc.ShaderOutput{ShaderVersion: xsc.GLSL330}
	//
	_, log, ok := translate("void main() {}", in, out)
	//
	assert.False(t, ok)
	assert.NotNil(t, log.Find("not supported"))
}

func TestCompile_06(t *testing.T) {
	// Metal output is reported as unsupported, after validation.
	in := &xsc.ShaderInput{
		EntryPoint:    "main",
		ShaderVersion: xsc.HLSL5,
		Target:        xsc.VertexShader,
	}
	out := &xsc.ShaderOutput{ShaderVersion: xsc.Metal20}
	//
	_, log, ok := translate("float4 main() : SV_Position { return float4(0, 0, 0, 1); }", in, out)
	//
	assert.False(t, ok)
	assert.NotNil(t, log.Find("Metal output"))
}

func TestCompile_07(t *testing.T) {
	// The fragment stage maps system-value outputs per version.
	src := "float4 main() : SV_Target { return float4(1, 0, 0, 1); }"
	//
	in := &xsc.ShaderInput{
		EntryPoint:    "main",
		ShaderVersion: xsc.HLSL5,
		Target:        xsc.FragmentShader,
	}
	out := &xsc.ShaderOutput{ShaderVersion: xsc.GLSL120}
	//
	code, log, ok := translate(src, in, out)
	assert.True(t, ok, "compile failed: %v", log.Reports)
	assert.True(t, strings.Contains(code, "gl_FragColor"))
	//
	out = &xsc.ShaderOutput{ShaderVersion: xsc.GLSL330}
	code, _, _ = translate(src, in, out)
	assert.True(t, strings.Contains(code, "out vec4"))
}

func TestCompile_08(t *testing.T) {
	// The ESSL fragment profile carries a default precision.
	src := "float4 main() : SV_Target { return float4(1, 0, 0, 1); }"
	//
	in := &xsc.ShaderInput{
		EntryPoint:    "main",
		ShaderVersion: xsc.HLSL5,
		Target:        xsc.FragmentShader,
	}
	out := &xsc.ShaderOutput{ShaderVersion: xsc.ESSL300}
	//
	code, log, ok := translate(src, in, out)
	assert.True(t, ok, "compile failed: %v", log.Reports)
	assert.True(t, strings.Contains(code, "#version 300 es"))
	assert.True(t, strings.Contains(code, "precision mediump float;"))
}

func TestVersions_00(t *testing.T) {
	assert.Equal(t, "GLSL 330", xsc.GLSL330.String())
	assert.Equal(t, "ESSL 310", xsc.ESSL310.String())
	assert.Equal(t, "VKSL 450", xsc.VKSL450.String())
	assert.Equal(t, "Metal 2.1", xsc.Metal21.String())
	//
	assert.True(t, xsc.GLSL120.IsGLSL())
	assert.True(t, xsc.ESSL100.IsESSL())
	assert.True(t, xsc.Metal10.IsMetal())
	assert.False(t, xsc.GLSL460.IsMetal())
}
