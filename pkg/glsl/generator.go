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

// Package glsl emits GLSL-family code (desktop GLSL, ESSL and Vulkan GLSL)
// from a decorated program.  The emitter consumes the analyzer's
// decorations: unreferenced declarations are skipped and redundant
// end-of-function returns are elided.
package glsl

import (
	"fmt"
	"strings"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/xsc"
)

func init() {
	xsc.RegisterGeneratorFactory(func(version xsc.OutputShaderVersion) xsc.Generator {
		if version.IsMetal() {
			return nil
		}
		//
		return &Generator{version: version}
	})
}

// Generator emits GLSL-family code.
type Generator struct {
	version xsc.OutputShaderVersion
	in      *xsc.ShaderInput
	out     *xsc.ShaderOutput
	handler *report.Handler
	prog    *ast.Program
	w       *writer
}

// funcName returns the emitted name of a function.  The entry point is
// renamed out of the way of the generated main() wrapper.
func (g *Generator) funcName(fn *ast.FunctionDecl) string {
	if g.prog != nil && fn == g.prog.EntryPointRef {
		return g.out.NameMangling.TemporaryPrefix + fn.Ident
	}
	//
	return fn.Ident
}

// Generate implements the xsc.Generator interface.
func (g *Generator) Generate(prog *ast.Program, in *xsc.ShaderInput, out *xsc.ShaderOutput,
	handler *report.Handler) error {
	//
	g.in, g.out, g.handler = in, out, handler
	g.prog = prog
	g.w = newWriter(out.Writer, out.Formatting.Indent)
	//
	g.writeVersionDirective()
	//
	if g.version.IsESSL() && in.Target == xsc.FragmentShader {
		g.w.line("precision mediump float;")
	}
	//
	if out.Formatting.Blanks {
		g.w.blank()
	}
	//
	for _, s := range prog.GlobalStmts {
		g.writeGlobalStmt(prog, s)
	}
	//
	g.writeMainWrapper(prog)
	//
	return g.w.err
}

// writeVersionDirective emits the "#version" header.
func (g *Generator) writeVersionDirective() {
	switch {
	case g.version.IsESSL() && g.version.VersionNumber() > 100:
		g.w.line("#version %d es", g.version.VersionNumber())
	default:
		g.w.line("#version %d", g.version.VersionNumber())
	}
}

// skippable reports whether a declaration can be dropped from the output.
func (g *Generator) skippable(n ast.Node) bool {
	return g.out.Options.Optimize && !n.HasFlags(ast.IsReferenced)
}

// writeGlobalStmt emits one global declaration.
func (g *Generator) writeGlobalStmt(prog *ast.Program, s ast.Stmt) {
	switch x := s.(type) {
	case *ast.NullStmt:
		// Dropped.
	case *ast.StructDeclStmt:
		if !g.skippable(x.Decl) {
			g.writeStructDecl(x.Decl)
		}
	case *ast.VarDeclStmt:
		g.writeGlobalVarDecl(x)
	case *ast.UniformBufferDecl:
		g.writeUniformBufferDecl(x)
	case *ast.BufferDeclStmt:
		g.writeBufferDecls(x)
	case *ast.SamplerDeclStmt:
		// Separate sampler states have no GLSL counterpart; they combine
		// with their textures.
		if g.out.Options.SeparateSamplers {
			g.w.line("// sampler state '%s' omitted", samplerIdents(x))
		}
	case *ast.AliasDeclStmt:
		// Aliases resolve away during analysis.
	case *ast.FunctionDecl:
		if x.IsForwardDecl() || g.skippable(x) {
			return
		}
		//
		g.writeFunctionDecl(prog, x)
	}
}

func samplerIdents(x *ast.SamplerDeclStmt) string {
	var names []string
	//
	for _, s := range x.Samplers {
		names = append(names, s.Ident)
	}
	//
	return strings.Join(names, ", ")
}

// writeStructDecl emits a structure declaration.
func (g *Generator) writeStructDecl(decl *ast.StructDecl) {
	g.w.open(fmt.Sprintf("struct %s ", decl.Ident))
	//
	for _, m := range decl.Members {
		for _, v := range m.Vars {
			g.w.line("%s %s%s;", g.typeString(m.TypeSpec.TypeDen), v.Ident, dimString(v.ArrayDims))
		}
	}
	//
	g.w.close(";")
	//
	if g.out.Formatting.Blanks {
		g.w.blank()
	}
}

// writeGlobalVarDecl emits global variables; non-static globals become
// uniforms.
func (g *Generator) writeGlobalVarDecl(stmt *ast.VarDeclStmt) {
	for _, v := range stmt.Vars {
		if g.skippable(v) {
			continue
		}
		//
		qualifier := "uniform "
		if v.HasFlags(ast.IsStatic) {
			qualifier = ""
		}
		//
		init := ""
		if v.Initializer != nil {
			init = " = " + g.exprString(v.Initializer)
		}
		//
		g.w.line("%s%s %s%s%s;", qualifier, g.typeString(stmt.TypeSpec.TypeDen), v.Ident,
			dimString(v.ArrayDims), init)
	}
}

// writeUniformBufferDecl emits a cbuffer as a uniform block, or as loose
// uniforms for versions without interface blocks.
func (g *Generator) writeUniformBufferDecl(decl *ast.UniformBufferDecl) {
	if g.skippable(decl) {
		return
	}
	//
	if g.version.IsGLSL() && g.version.VersionNumber() < 140 {
		for _, m := range decl.Members {
			for _, v := range m.Vars {
				g.w.line("uniform %s %s%s;", g.typeString(m.TypeSpec.TypeDen), v.Ident,
					dimString(v.ArrayDims))
			}
		}
		//
		return
	}
	//
	binding := ""
	if g.out.Options.ExplicitBinding && decl.Register != nil {
		binding = fmt.Sprintf("layout(binding = %d) ", decl.Register.Slot)
	}
	//
	g.w.open(fmt.Sprintf("%suniform %s ", binding, decl.Ident))
	//
	for _, m := range decl.Members {
		for _, v := range m.Vars {
			g.w.line("%s %s%s;", g.typeString(m.TypeSpec.TypeDen), v.Ident, dimString(v.ArrayDims))
		}
	}
	//
	g.w.close(";")
	//
	if g.out.Formatting.Blanks {
		g.w.blank()
	}
}

// writeBufferDecls emits texture and buffer objects as sampler uniforms.
func (g *Generator) writeBufferDecls(stmt *ast.BufferDeclStmt) {
	for _, b := range stmt.Buffers {
		if g.skippable(b) {
			continue
		}
		//
		binding := ""
		if g.out.Options.ExplicitBinding && b.Register != nil {
			binding = fmt.Sprintf("layout(binding = %d) ", b.Register.Slot)
		}
		//
		g.w.line("%suniform %s %s%s;", binding, samplerTypeString(stmt.BufferType), b.Ident,
			dimString(b.ArrayDims))
	}
}

// samplerTypeString maps a buffer object class to its GLSL sampler type.
func samplerTypeString(b ast.BufferType) string {
	switch b {
	case ast.Texture1D, ast.RWTexture1D:
		return "sampler1D"
	case ast.Texture1DArray, ast.RWTexture1DArray:
		return "sampler1DArray"
	case ast.Texture2D, ast.RWTexture2D, ast.LegacyTexture:
		return "sampler2D"
	case ast.Texture2DArray, ast.RWTexture2DArray:
		return "sampler2DArray"
	case ast.Texture3D, ast.RWTexture3D:
		return "sampler3D"
	case ast.TextureCube:
		return "samplerCube"
	case ast.TextureCubeArray:
		return "samplerCubeArray"
	case ast.Texture2DMS:
		return "sampler2DMS"
	case ast.Texture2DMSArray:
		return "sampler2DMSArray"
	}
	//
	return "sampler2D"
}

// writeFunctionDecl emits a function.  The entry point is emitted under
// its temporary-prefixed name (see funcName); a generated main() wrapper
// calls it.
func (g *Generator) writeFunctionDecl(prog *ast.Program, fn *ast.FunctionDecl) {
	if g.out.Options.PreserveComments && fn.Comment() != "" {
		g.w.line("%s", fn.Comment())
	}
	//
	var params []string
	//
	for _, p := range fn.Params {
		for _, v := range p.Vars {
			qualifier := ""
			//
			switch p.TypeSpec.InputModifier {
			case "out":
				qualifier = "out "
			case "inout":
				qualifier = "inout "
			}
			//
			params = append(params, fmt.Sprintf("%s%s %s%s", qualifier,
				g.typeString(p.TypeSpec.TypeDen), v.Ident, dimString(v.ArrayDims)))
		}
	}
	//
	signature := fmt.Sprintf("%s %s(%s) ", g.typeString(fn.ReturnType.TypeDen), g.funcName(fn),
		strings.Join(params, ", "))
	//
	g.w.open(signature)
	g.writeStmts(fn.Body.Stmts)
	g.w.close("")
	//
	if g.out.Formatting.Blanks {
		g.w.blank()
	}
}

// dimString renders array dimensions.
func dimString(dims []*ast.ArrayDimension) string {
	var sb strings.Builder
	//
	for _, d := range dims {
		if d.Size > 0 {
			fmt.Fprintf(&sb, "[%d]", d.Size)
		} else {
			sb.WriteString("[]")
		}
	}
	//
	return sb.String()
}

// typeString maps a type denoter to its GLSL spelling.
func (g *Generator) typeString(td ast.TypeDenoter) string {
	if td == nil {
		return "void"
	}
	//
	switch x := td.Aliased().(type) {
	case *ast.VoidTypeDen:
		return "void"
	case *ast.BaseTypeDen:
		return dataTypeString(x.Type)
	case *ast.StructTypeDen:
		return x.Ident
	case *ast.ArrayTypeDen:
		return g.typeString(x.Sub)
	case *ast.BufferTypeDen:
		return samplerTypeString(x.Buffer)
	case *ast.SamplerTypeDen:
		return "sampler2D"
	}
	//
	return "void"
}

// dataTypeString maps scalar, vector and matrix primitives to GLSL.
func dataTypeString(dt ast.DataType) string {
	prefix := ""
	scalar := "float"
	//
	switch dt.Scalar {
	case ast.ScalarBool:
		prefix, scalar = "b", "bool"
	case ast.ScalarInt:
		prefix, scalar = "i", "int"
	case ast.ScalarUInt:
		prefix, scalar = "u", "uint"
	case ast.ScalarHalf, ast.ScalarFloat:
		prefix, scalar = "", "float"
	case ast.ScalarDouble:
		prefix, scalar = "d", "double"
	}
	//
	switch {
	case dt.IsMatrix():
		if dt.Rows == dt.Cols {
			return fmt.Sprintf("%smat%d", prefix, dt.Rows)
		}
		// GLSL matCxR is column-by-row, transposed from the HLSL RxC
		// spelling.
		return fmt.Sprintf("%smat%dx%d", prefix, dt.Cols, dt.Rows)
	case dt.IsVector():
		return fmt.Sprintf("%svec%d", prefix, dt.Rows)
	}
	//
	return scalar
}

// writeMainWrapper emits the main() function wrapping the entry point.
func (g *Generator) writeMainWrapper(prog *ast.Program) {
	entry := prog.EntryPointRef
	if entry == nil {
		return
	}
	//
	mangle := g.out.NameMangling
	// Shader inputs for the entry point's parameters.
	inQual, outQual := g.ioQualifiers()
	//
	for _, p := range entry.Params {
		for _, v := range p.Vars {
			g.w.line("%s %s %s%s;", inQual, g.typeString(p.TypeSpec.TypeDen),
				mangle.InputPrefix, v.Ident)
		}
	}
	//
	returnsValue := true
	if _, isVoid := entry.ReturnType.TypeDen.Aliased().(*ast.VoidTypeDen); isVoid {
		returnsValue = false
	}
	//
	outName := ""
	//
	if returnsValue && !g.buildinOutput(entry.Semantic) {
		outName = mangle.OutputPrefix + "output"
		g.w.line("%s %s %s;", outQual, g.typeString(entry.ReturnType.TypeDen), outName)
	}
	//
	if g.out.Formatting.Blanks {
		g.w.blank()
	}
	//
	g.w.open("void main() ")
	//
	var args []string
	for _, p := range entry.Params {
		for _, v := range p.Vars {
			args = append(args, mangle.InputPrefix+v.Ident)
		}
	}
	//
	call := fmt.Sprintf("%s(%s)", g.funcName(entry), strings.Join(args, ", "))
	//
	switch {
	case !returnsValue:
		g.w.line("%s;", call)
	case g.buildinOutput(entry.Semantic):
		g.w.line("%s = %s;", g.buildinOutputName(entry.Semantic), call)
	default:
		g.w.line("%s = %s;", outName, call)
	}
	//
	g.w.close("")
}

// ioQualifiers returns the input/output qualifiers for the current
// version and stage.
func (g *Generator) ioQualifiers() (string, string) {
	legacy := (g.version.IsGLSL() && g.version.VersionNumber() < 130) ||
		g.version == xsc.ESSL100
	//
	if !legacy {
		return "in", "out"
	}
	//
	if g.in.Target == xsc.VertexShader {
		return "attribute", "varying"
	}
	//
	return "varying", "varying"
}

// buildinOutput reports whether a semantic maps onto a built-in output
// variable.
func (g *Generator) buildinOutput(sem ast.Semantic) bool {
	return g.buildinOutputName(sem) != ""
}

// buildinOutputName maps system-value output semantics onto GLSL
// built-ins.
func (g *Generator) buildinOutputName(sem ast.Semantic) string {
	switch strings.ToUpper(string(sem)) {
	case "SV_POSITION", "POSITION":
		if g.in.Target == xsc.VertexShader {
			return "gl_Position"
		}
	case "SV_TARGET", "SV_TARGET0", "COLOR", "COLOR0":
		if g.in.Target == xsc.FragmentShader {
			legacy := (g.version.IsGLSL() && g.version.VersionNumber() < 130) ||
				g.version == xsc.ESSL100
			//
			if legacy {
				return "gl_FragColor"
			}
		}
	case "SV_DEPTH", "DEPTH":
		if g.in.Target == xsc.FragmentShader {
			return "gl_FragDepth"
		}
	}
	//
	return ""
}
