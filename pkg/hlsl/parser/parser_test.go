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
package parser

import (
	"testing"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/assert"
	"github.com/xsclang/xsc/pkg/util/source"
)

// parse runs the parser over an input string.
func parse(input string) (*ast.Program, *report.MemoryLog) {
	log := &report.MemoryLog{}
	handler := report.NewHandler(report.Syntax, log)
	//
	prog := ParseSource(source.NewCode("test.hlsl", input), handler, false)
	//
	return prog, log
}

// parseOK asserts error-free parsing.
func parseOK(t *testing.T, input string) *ast.Program {
	prog, log := parse(input)
	assert.Equal(t, 0, log.Count(report.Error), "unexpected errors for %q: %v", input, log.Reports)
	//
	return prog
}

func TestParser_00(t *testing.T) {
	prog := parseOK(t, "")
	assert.Equal(t, 0, len(prog.GlobalStmts))
}

func TestParser_01(t *testing.T) {
	prog := parseOK(t, "float x = 1.0;")
	//
	stmt, ok := prog.GlobalStmts[0].(*ast.VarDeclStmt)
	assert.True(t, ok)
	assert.Equal(t, "x", stmt.Vars[0].Ident)
	assert.NotNil(t, stmt.Vars[0].Initializer)
}

func TestParser_02(t *testing.T) {
	// With a typedef in scope, "(X)-1" is a cast over a negation.
	prog := parseOK(t, "typedef int X;\nint a = (X)-1;")
	//
	stmt := prog.GlobalStmts[1].(*ast.VarDeclStmt)
	//
	cast, ok := stmt.Vars[0].Initializer.(*ast.CastExpr)
	assert.True(t, ok, "expected cast expression")
	//
	_, ok = cast.Sub.(*ast.UnaryExpr)
	assert.True(t, ok, "expected unary operand")
}

func TestParser_03(t *testing.T) {
	// Without the typedef, "(X)-1" is a subtraction from a bracket.
	prog := parseOK(t, "int X = 0;\nint a = (X)-1;")
	//
	stmt := prog.GlobalStmts[1].(*ast.VarDeclStmt)
	//
	bin, ok := stmt.Vars[0].Initializer.(*ast.BinaryExpr)
	assert.True(t, ok, "expected binary expression")
	assert.Equal(t, "-", bin.Op)
	//
	_, ok = bin.Lhs.(*ast.BracketExpr)
	assert.True(t, ok, "expected bracket operand")
}

func TestParser_04(t *testing.T) {
	prog := parseOK(t, `
struct VertexIn {
    float3 position : POSITION;
    float2 texCoord : TEXCOORD0;
};
`)
	//
	stmt := prog.GlobalStmts[0].(*ast.StructDeclStmt)
	assert.Equal(t, "VertexIn", stmt.Decl.Ident)
	assert.Equal(t, 2, len(stmt.Decl.Members))
	assert.Equal(t, ast.Semantic("POSITION"), stmt.Decl.Members[0].Vars[0].Semantic)
}

func TestParser_05(t *testing.T) {
	prog := parseOK(t, `
float4 main(float3 pos : POSITION) : SV_Position {
    return float4(pos, 1.0);
}
`)
	//
	fn := prog.GlobalStmts[0].(*ast.FunctionDecl)
	assert.Equal(t, "main", fn.Ident)
	assert.Equal(t, 1, len(fn.Params))
	assert.Equal(t, ast.Semantic("SV_Position"), fn.Semantic)
	assert.True(t, fn.Params[0].Vars[0].HasFlags(ast.IsParameter))
	//
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	//
	call, ok := ret.Expr.(*ast.CallExpr)
	assert.True(t, ok)
	assert.NotNil(t, call.TypeSpec)
	assert.Equal(t, 2, len(call.Args))
}

func TestParser_06(t *testing.T) {
	// Forward declarations carry the flag and no body.
	prog := parseOK(t, "int helper(int x);\nint helper(int x) { return x; }")
	//
	fwd := prog.GlobalStmts[0].(*ast.FunctionDecl)
	assert.True(t, fwd.HasFlags(ast.IsForwardDecl))
	assert.True(t, fwd.IsForwardDecl())
	//
	impl := prog.GlobalStmts[1].(*ast.FunctionDecl)
	assert.False(t, impl.IsForwardDecl())
}

func TestParser_07(t *testing.T) {
	// cbuffer with register binding and fields.
	prog := parseOK(t, `
cbuffer Matrices : register(b0) {
    float4x4 wvpMatrix;
    float4x4 worldMatrix;
};
`)
	//
	decl := prog.GlobalStmts[0].(*ast.UniformBufferDecl)
	assert.Equal(t, "Matrices", decl.Ident)
	assert.Equal(t, "cbuffer", decl.Keyword)
	assert.Equal(t, byte('b'), decl.Register.Class)
	assert.Equal(t, 0, decl.Register.Slot)
	assert.Equal(t, 2, len(decl.Members))
}

func TestParser_08(t *testing.T) {
	// Generic buffer types keep template brackets out of the operator
	// grammar.
	prog := parseOK(t, `
struct Light { float4 color; };
StructuredBuffer<Light> lights : register(t3);
Texture2D colorMap;
SamplerState samplerState : register(s0);
`)
	//
	buf := prog.GlobalStmts[1].(*ast.BufferDeclStmt)
	assert.Equal(t, ast.StructuredBuffer, buf.BufferType)
	assert.Equal(t, "lights", buf.Buffers[0].Ident)
	assert.Equal(t, byte('t'), buf.Buffers[0].Register.Class)
	assert.Equal(t, 3, buf.Buffers[0].Register.Slot)
	//
	_, ok := buf.GenericType.(*ast.StructTypeDen)
	assert.True(t, ok)
	//
	smp := prog.GlobalStmts[3].(*ast.SamplerDeclStmt)
	assert.Equal(t, ast.SamplerState, smp.SamplerType)
}

func TestParser_09(t *testing.T) {
	// Generic vector and matrix types.
	prog := parseOK(t, "vector<float, 3> v;\nmatrix<float, 2, 4> m;")
	//
	v := prog.GlobalStmts[0].(*ast.VarDeclStmt)
	assert.Equal(t, "float3", v.TypeSpec.TypeDen.String())
	//
	m := prog.GlobalStmts[1].(*ast.VarDeclStmt)
	assert.Equal(t, "float2x4", m.TypeSpec.TypeDen.String())
}

func TestParser_10(t *testing.T) {
	// Out-of-range vector dimension cites the literal.
	_, log := parse("vector<float, 5> v;")
	//
	r := log.Find("vector dimension")
	assert.NotNil(t, r)
	assert.Equal(t, 15, r.Area.Pos().Col())
}

func TestParser_11(t *testing.T) {
	// Statements: loops, branches, switch.
	prog := parseOK(t, `
int f(int x) {
    for (int i = 0; i < 4; ++i) {
        x += i;
    }
    while (x > 10) { --x; }
    do { ++x; } while (x < 2);
    if (x > 0) { return x; } else { x = -x; }
    switch (x) {
        case 1:
            return 2;
        default:
            break;
    }
    return x;
}
`)
	//
	fn := prog.GlobalStmts[0].(*ast.FunctionDecl)
	assert.Equal(t, 6, len(fn.Body.Stmts))
	//
	sw := fn.Body.Stmts[4].(*ast.SwitchStmt)
	assert.Equal(t, 2, len(sw.Cases))
	assert.True(t, sw.HasDefaultCase())
}

func TestParser_12(t *testing.T) {
	// Attributes on functions and loops.
	prog := parseOK(t, `
[numthreads(8, 8, 1)]
void mainCS(uint3 id : SV_DispatchThreadID) {
    [unroll]
    for (int i = 0; i < 4; ++i) {
    }
}
`)
	//
	fn := prog.GlobalStmts[0].(*ast.FunctionDecl)
	assert.Equal(t, 1, len(fn.Attribs))
	assert.Equal(t, "numthreads", fn.Attribs[0].Ident)
	assert.Equal(t, 3, len(fn.Attribs[0].Args))
	//
	loop := fn.Body.Stmts[0].(*ast.ForStmt)
	assert.Equal(t, 1, len(loop.Attribs))
	assert.Equal(t, "unroll", loop.Attribs[0].Ident)
}

func TestParser_13(t *testing.T) {
	// The pack_matrix pragma installs the default matrix alignment, and
	// inline modifiers win over it.
	prog := parseOK(t, "#pragma pack_matrix(row_major)\nfloat4x4 a;\ncolumn_major float4x4 b;\n")
	//
	a := prog.GlobalStmts[0].(*ast.VarDeclStmt)
	assert.True(t, a.TypeSpec.HasTypeModifier("row_major"))
	//
	b := prog.GlobalStmts[1].(*ast.VarDeclStmt)
	assert.True(t, b.TypeSpec.HasTypeModifier("column_major"))
	assert.False(t, b.TypeSpec.HasTypeModifier("row_major"))
}

func TestParser_14(t *testing.T) {
	// Technique blocks are consumed with a warning.
	prog, log := parse("technique T { pass P { } }\nint x;")
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.NotNil(t, log.Find("technique"))
	assert.Equal(t, 1, len(prog.GlobalStmts))
}

func TestParser_15(t *testing.T) {
	// Error recovery resumes at the next global statement.
	prog, log := parse("int broken = ;\nfloat ok = 1.0;")
	//
	assert.True(t, log.Count(report.Error) > 0)
	//
	found := false
	for _, s := range prog.GlobalStmts {
		if v, ok := s.(*ast.VarDeclStmt); ok && v.Vars[0].Ident == "ok" {
			found = true
		}
	}
	//
	assert.True(t, found, "parser did not recover")
}

func TestParser_16(t *testing.T) {
	// Array dimensions and packoffset bindings.
	prog := parseOK(t, `
cbuffer Data {
    float4 values[4] : packoffset(c0);
    float scalar : packoffset(c4.y);
};
`)
	//
	decl := prog.GlobalStmts[0].(*ast.UniformBufferDecl)
	v := decl.Members[0].Vars[0]
	assert.Equal(t, 1, len(v.ArrayDims))
	assert.Equal(t, "c0", v.PackOffset.RegisterName)
	//
	s := decl.Members[1].Vars[0]
	assert.Equal(t, "c4", s.PackOffset.RegisterName)
	assert.Equal(t, "y", s.PackOffset.Component)
}

func TestParser_17(t *testing.T) {
	// Packoffset at statement scope is rejected.
	_, log := parse("void f() { packoffset(c0); }")
	//
	assert.NotNil(t, log.Find("packoffset is not allowed"))
}

func TestParser_18(t *testing.T) {
	// Member calls, swizzles and chained postfix expressions.
	prog := parseOK(t, `
Texture2D tex;
SamplerState smp;
float4 sampleColor(float2 uv) {
    return tex.Sample(smp, uv).rgba;
}
`)
	//
	fn := prog.GlobalStmts[2].(*ast.FunctionDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	//
	obj, ok := ret.Expr.(*ast.ObjectExpr)
	assert.True(t, ok)
	assert.Equal(t, "rgba", obj.Ident)
	//
	call, ok := obj.Prefix.(*ast.CallExpr)
	assert.True(t, ok)
	assert.Equal(t, "Sample", call.Ident)
	assert.Equal(t, 2, len(call.Args))
}

func TestParser_19(t *testing.T) {
	// Initializer lists and comma declarations.
	prog := parseOK(t, "static const int weights[3] = { 1, 2, 3 };\nfloat a = 1, b = 2;")
	//
	first := prog.GlobalStmts[0].(*ast.VarDeclStmt)
	//
	init, ok := first.Vars[0].Initializer.(*ast.InitializerExpr)
	assert.True(t, ok)
	assert.Equal(t, 3, len(init.Exprs))
	assert.True(t, first.Vars[0].HasFlags(ast.IsStatic))
	//
	second := prog.GlobalStmts[1].(*ast.VarDeclStmt)
	assert.Equal(t, 2, len(second.Vars))
}

func TestParser_20(t *testing.T) {
	// Ternary and assignment expressions.
	prog := parseOK(t, `
int f(int x) {
    int y = x > 0 ? x : -x;
    y += 2;
    return y;
}
`)
	//
	fn := prog.GlobalStmts[0].(*ast.FunctionDecl)
	//
	decl := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	_, ok := decl.Vars[0].Initializer.(*ast.TernaryExpr)
	assert.True(t, ok)
	//
	exprStmt := fn.Body.Stmts[1].(*ast.ExprStmt)
	asg, ok := exprStmt.Expr.(*ast.AssignExpr)
	assert.True(t, ok)
	assert.Equal(t, "+=", asg.Op)
}
