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
package analyzer

import (
	"strings"
	"testing"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/hlsl/parser"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/assert"
	"github.com/xsclang/xsc/pkg/util/source"
)

// analyze parses and analyzes an input for a given entry point and
// target.
func analyze(input string, entry string, target ShaderTarget) (*ast.Program, *report.MemoryLog) {
	log := &report.MemoryLog{}
	handler := report.NewHandler(report.Syntax, log)
	//
	prog := parser.ParseSource(source.NewCode("test.hlsl", input), handler, false)
	//
	handler.SetPhase(report.Context)
	Analyze(prog, entry, "", target, handler)
	//
	return prog, log
}

// validVS is a minimal valid vertex shader used as a trailer so tests can
// focus on one construct.
const validVS = "\nfloat4 main() : SV_Position { return float4(0, 0, 0, 1); }\n"

func TestAnalyzer_00(t *testing.T) {
	_, log := analyze(validVS, "main", VertexShader)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.Equal(t, 0, log.Count(report.Warning))
}

func TestAnalyzer_01(t *testing.T) {
	// A missing entry point is reported.
	_, log := analyze("int helper() { return 1; }", "main", VertexShader)
	//
	assert.NotNil(t, log.Find("entry point 'main' not found"))
}

func TestAnalyzer_02(t *testing.T) {
	// Statements after a return are dead code.
	prog, log := analyze("int f() { return 1; int x = 2; }"+validVS, "main", VertexShader)
	//
	fn := prog.GlobalStmts[0].(*ast.FunctionDecl)
	assert.True(t, fn.Body.Stmts[1].HasFlags(ast.IsDeadCode))
	assert.NotNil(t, log.Find("unreachable"))
	// Dead code is a warning, not an error.
	assert.Equal(t, 0, log.Count(report.Error))
}

func TestAnalyzer_03(t *testing.T) {
	// A non-void function missing a return on some path is an error.
	prog, log := analyze("int f(int x) { if (x > 0) return 1; }"+validVS, "main", VertexShader)
	//
	fn := prog.GlobalStmts[0].(*ast.FunctionDecl)
	assert.True(t, fn.HasFlags(ast.HasNonReturnControlPath))
	assert.NotNil(t, log.Find("not all control paths"))
}

func TestAnalyzer_04(t *testing.T) {
	// Full if/else coverage counts as returning.
	prog, log := analyze("int f(int x) { if (x > 0) return 1; else return 2; }"+validVS, "main", VertexShader)
	//
	fn := prog.GlobalStmts[0].(*ast.FunctionDecl)
	assert.False(t, fn.HasFlags(ast.HasNonReturnControlPath))
	assert.Equal(t, 0, log.Count(report.Error))
}

func TestAnalyzer_05(t *testing.T) {
	// A switch returns only with a default case and returning cases,
	// where fallthrough into a returning case counts.
	src := `
int f(int x) {
    switch (x) {
        case 0:
        case 1:
            return 1;
        default:
            return 2;
    }
}
` + validVS
	//
	prog, log := analyze(src, "main", VertexShader)
	//
	fn := prog.GlobalStmts[0].(*ast.FunctionDecl)
	assert.False(t, fn.HasFlags(ast.HasNonReturnControlPath))
	assert.Equal(t, 0, log.Count(report.Error))
}

func TestAnalyzer_06(t *testing.T) {
	// Loops never guarantee entry.
	_, log := analyze("int f(int x) { while (x > 0) { return 1; } }"+validVS, "main", VertexShader)
	//
	assert.NotNil(t, log.Find("not all control paths"))
}

func TestAnalyzer_07(t *testing.T) {
	// Undeclared identifiers come with a similar-name suggestion.
	src := "float4 main(float3 position : POSITION) : SV_Position { return float4(postion, 1.0); }"
	//
	_, log := analyze(src, "main", VertexShader)
	//
	r := log.Find("undeclared identifier 'postion'")
	assert.NotNil(t, r)
	assert.Equal(t, 1, len(r.Hints))
	assert.Equal(t, "did you mean 'position'?", r.Hints[0])
}

func TestAnalyzer_08(t *testing.T) {
	// Locals which are never read are warned about on scope close.
	src := "float4 main() : SV_Position { float tmp = 1.0; return float4(0, 0, 0, 1); }"
	//
	_, log := analyze(src, "main", VertexShader)
	//
	assert.NotNil(t, log.Find("'tmp' is declared but never read"))
}

func TestAnalyzer_09(t *testing.T) {
	// Vector truncation warns; widening is an error.
	src := `
float4 main() : SV_Position {
    float4 a = float4(0, 0, 0, 1);
    float2 b = a;
    return float4(b, 0, 1);
}
`
	_, log := analyze(src, "main", VertexShader)
	assert.NotNil(t, log.Find("truncation"))
	assert.Equal(t, 0, log.Count(report.Error))
	//
	src = `
float4 main() : SV_Position {
    float2 a = float2(0, 0);
    float4 b = a;
    return b;
}
`
	_, log = analyze(src, "main", VertexShader)
	assert.NotNil(t, log.Find("widen"))
}

func TestAnalyzer_10(t *testing.T) {
	// Duplicate declarations cite the previous one.
	_, log := analyze("int x;\nfloat x;"+validVS, "main", VertexShader)
	//
	r := log.Find("'x' already declared")
	assert.NotNil(t, r)
	assert.True(t, strings.Contains(r.Message, "previous declaration"))
}

func TestAnalyzer_11(t *testing.T) {
	// Function overloads are legal; ambiguous calls are not.
	src := `
void g(float2 v) { }
void g(float3 v) { }
float4 main() : SV_Position {
    g(1.0);
    return float4(0, 0, 0, 1);
}
`
	_, log := analyze(src, "main", VertexShader)
	assert.NotNil(t, log.Find("ambiguous call"))
}

func TestAnalyzer_12(t *testing.T) {
	// Exact overload matches win.
	src := `
int g(int v) { return 1; }
int g(float v) { return 2; }
float4 main() : SV_Position {
    int a = g(1.5);
    return float4(0, 0, 0, a);
}
`
	prog, log := analyze(src, "main", VertexShader)
	assert.Equal(t, 0, log.Count(report.Error))
	// The float overload resolved.
	entry := prog.EntryPointRef
	decl := entry.Body.Stmts[0].(*ast.VarDeclStmt)
	call := decl.Vars[0].Initializer.(*ast.CallExpr)
	assert.Equal(t, prog.GlobalStmts[1], call.FuncDeclRef)
}

func TestAnalyzer_13(t *testing.T) {
	// A forward declaration is completed by its implementation.
	src := `
int helper(int x);
float4 main() : SV_Position {
    return float4(0, 0, 0, helper(1));
}
int helper(int x) { return x; }
`
	prog, log := analyze(src, "main", VertexShader)
	assert.Equal(t, 0, log.Count(report.Error))
	//
	fwd := prog.GlobalStmts[0].(*ast.FunctionDecl)
	assert.Equal(t, prog.GlobalStmts[2], fwd.ImplRef)
}

func TestAnalyzer_14(t *testing.T) {
	// Reachability: referenced declarations are flagged, others are not.
	src := `
int used() { return 1; }
int unused() { return 2; }
float4 main() : SV_Position {
    return float4(0, 0, 0, used());
}
`
	prog, log := analyze(src, "main", VertexShader)
	assert.Equal(t, 0, log.Count(report.Error))
	//
	assert.True(t, prog.GlobalStmts[0].HasFlags(ast.IsReferenced))
	assert.False(t, prog.GlobalStmts[1].HasFlags(ast.IsReferenced))
	assert.True(t, prog.EntryPointRef.HasFlags(ast.IsReferenced))
}

func TestAnalyzer_15(t *testing.T) {
	// Reachability crosses structures, buffers and call chains.
	src := `
struct Light { float4 color; };
StructuredBuffer<Light> lights;
float4 fetch(int i) { return lights[i].color; }
float4 main() : SV_Position { return fetch(0); }
`
	prog, log := analyze(src, "main", VertexShader)
	assert.Equal(t, 0, log.Count(report.Error))
	//
	lightStruct := prog.GlobalStmts[0].(*ast.StructDeclStmt).Decl
	assert.True(t, lightStruct.HasFlags(ast.IsReferenced))
	//
	buf := prog.GlobalStmts[1].(*ast.BufferDeclStmt)
	assert.True(t, buf.Buffers[0].HasFlags(ast.IsReferenced))
}

func TestAnalyzer_16(t *testing.T) {
	// Entry point semantics are validated per stage.
	src := "float4 main(float3 pos) : SV_Position { return float4(pos, 1.0); }"
	//
	_, log := analyze(src, "main", VertexShader)
	assert.NotNil(t, log.Find("missing a semantic"))
}

func TestAnalyzer_17(t *testing.T) {
	// Compute entry points require numthreads.
	_, log := analyze("void mainCS() { }", "mainCS", ComputeShader)
	assert.NotNil(t, log.Find("numthreads"))
	//
	_, log = analyze("[numthreads(8, 8, 1)]\nvoid mainCS() { }", "mainCS", ComputeShader)
	assert.Equal(t, 0, log.Count(report.Error))
}

func TestAnalyzer_18(t *testing.T) {
	// Array dimensions must be constant expressions.
	src := `
float4 main() : SV_Position {
    int n = 4;
    float arr[n];
    return float4(0, 0, 0, 1);
}
`
	_, log := analyze(src, "main", VertexShader)
	assert.NotNil(t, log.Find("expected constant expression"))
}

func TestAnalyzer_19(t *testing.T) {
	// Constant dimensions evaluate through const variables and
	// arithmetic.
	src := `
static const int SIZE = 2 + 2;
float4 main() : SV_Position {
    float arr[SIZE * 2];
    arr[0] = 1.0;
    return float4(0, 0, 0, arr[0]);
}
`
	prog, log := analyze(src, "main", VertexShader)
	assert.Equal(t, 0, log.Count(report.Error))
	//
	decl := prog.EntryPointRef.Body.Stmts[0].(*ast.VarDeclStmt)
	assert.Equal(t, 8, decl.Vars[0].ArrayDims[0].Size)
}

func TestAnalyzer_20(t *testing.T) {
	// Member access on structures resolves and types member
	// expressions.
	src := `
struct VertexIn {
    float3 position : POSITION;
};
float4 main(VertexIn input : INPUT) : SV_Position {
    return float4(input.position, 1.0);
}
`
	prog, log := analyze(src, "main", VertexShader)
	assert.Equal(t, 0, log.Count(report.Error))
	//
	ret := prog.EntryPointRef.Body.Stmts[0].(*ast.ReturnStmt)
	call := ret.Expr.(*ast.CallExpr)
	member := call.Args[0].(*ast.ObjectExpr)
	//
	assert.NotNil(t, member.SymbolRef)
	assert.Equal(t, "float3", member.TypeDen().String())
}

func TestAnalyzer_21(t *testing.T) {
	// Vector swizzles type-check against the component limit.
	src := `
float4 main() : SV_Position {
    float4 a = float4(0, 0, 0, 1);
    float2 good = a.xy;
    return float4(good, a.zw);
}
`
	_, log := analyze(src, "main", VertexShader)
	assert.Equal(t, 0, log.Count(report.Error))
	//
	src = `
float4 main() : SV_Position {
    float2 a = float2(0, 0);
    return float4(a.xyzw);
}
`
	_, log = analyze(src, "main", VertexShader)
	assert.NotNil(t, log.Find("invalid vector swizzle"))
}

func TestAnalyzer_22(t *testing.T) {
	// The mul intrinsic is type-parametric.
	src := `
cbuffer Matrices { float4x4 wvp; };
float4 main(float3 pos : POSITION) : SV_Position {
    return mul(wvp, float4(pos, 1.0));
}
`
	prog, log := analyze(src, "main", VertexShader)
	assert.Equal(t, 0, log.Count(report.Error))
	//
	ret := prog.EntryPointRef.Body.Stmts[0].(*ast.ReturnStmt)
	assert.Equal(t, "float4", ret.Expr.TypeDen().String())
}

func TestAnalyzer_23(t *testing.T) {
	// Non-scalar conditions are rejected.
	src := `
float4 main() : SV_Position {
    float4 v = float4(0, 0, 0, 1);
    if (v) { return v; }
    return v;
}
`
	_, log := analyze(src, "main", VertexShader)
	assert.NotNil(t, log.Find("condition must be a scalar"))
}

func TestAnalyzer_24(t *testing.T) {
	// Returning a value from void and vice versa.
	_, log := analyze("void f() { return 1; }"+validVS, "main", VertexShader)
	assert.NotNil(t, log.Find("void function must not return a value"))
	//
	_, log = analyze("int f() { return; }"+validVS, "main", VertexShader)
	assert.NotNil(t, log.Find("missing a value"))
}

func TestAnalyzer_25(t *testing.T) {
	// End-of-scope returns are flagged for the emitter.
	src := "float4 main() : SV_Position { return float4(0, 0, 0, 1); }"
	//
	prog, _ := analyze(src, "main", VertexShader)
	//
	ret := prog.EntryPointRef.Body.Stmts[0].(*ast.ReturnStmt)
	assert.True(t, ret.HasFlags(ast.IsEndOfFunction))
}

func TestAnalyzer_26(t *testing.T) {
	// Recursive struct inheritance is rejected.
	src := `
struct A : A { int a; };
` + validVS
	//
	_, log := analyze(src, "main", VertexShader)
	assert.NotNil(t, log.Find("recursive inheritance"))
}

func TestSuggestion_00(t *testing.T) {
	assert.Equal(t, "position", FindSimilarIdent("postion", []string{"position", "color"}))
	assert.Equal(t, "position", FindSimilarIdent("Position", []string{"position"}))
	assert.Equal(t, "", FindSimilarIdent("foo", []string{"position"}))
	// Transpositions count as one edit.
	assert.Equal(t, "matrix", FindSimilarIdent("amtrix", []string{"matrix"}))
}
