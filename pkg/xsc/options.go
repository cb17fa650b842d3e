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

// Package xsc is the public surface of the cross-compiler: the Compile
// entry point together with its input and output descriptors.
package xsc

import (
	"fmt"
	"io"

	"github.com/xsclang/xsc/pkg/hlsl/analyzer"
	"github.com/xsclang/xsc/pkg/hlsl/preprocessor"
)

// ShaderTarget identifies the pipeline stage being compiled.
type ShaderTarget = analyzer.ShaderTarget

// The shader targets.
const (
	VertexShader                 = analyzer.VertexShader
	TessellationControlShader    = analyzer.TessellationControlShader
	TessellationEvaluationShader = analyzer.TessellationEvaluationShader
	GeometryShader               = analyzer.GeometryShader
	FragmentShader               = analyzer.FragmentShader
	ComputeShader                = analyzer.ComputeShader
)

// InputShaderVersion identifies the dialect of the input shader.
type InputShaderVersion uint

// The input dialects.  Only the HLSL family (and its Cg superset) passes
// through the front end; the GLSL-family inputs are listed for interface
// compatibility and rejected at compile time.
const (
	Cg InputShaderVersion = iota
	HLSL3
	HLSL4
	HLSL5
	HLSL6
	GLSLInput
	ESSLInput
	VKSLInput
)

// IsHLSL reports whether the input dialect is HLSL or its Cg superset.
func (v InputShaderVersion) IsHLSL() bool {
	return v <= HLSL6
}

// String returns the conventional name of the input dialect.
func (v InputShaderVersion) String() string {
	switch v {
	case Cg:
		return "Cg"
	case HLSL3:
		return "HLSL3"
	case HLSL4:
		return "HLSL4"
	case HLSL5:
		return "HLSL5"
	case HLSL6:
		return "HLSL6"
	case GLSLInput:
		return "GLSL"
	case ESSLInput:
		return "ESSL"
	case VKSLInput:
		return "VKSL"
	}

	return "unknown"
}

// OutputShaderVersion identifies the dialect and version of the generated
// shader.
type OutputShaderVersion uint

// The output versions.  The numeric value of the desktop GLSL entries is
// their version number; the ESSL, VKSL and Metal entries add a per-family
// base, which VersionNumber strips.  Comparisons within a family stay
// trivial.
const (
	GLSL110 OutputShaderVersion = 110
	GLSL120 OutputShaderVersion = 120
	GLSL130 OutputShaderVersion = 130
	GLSL140 OutputShaderVersion = 140
	GLSL150 OutputShaderVersion = 150
	GLSL330 OutputShaderVersion = 330
	GLSL400 OutputShaderVersion = 400
	GLSL410 OutputShaderVersion = 410
	GLSL420 OutputShaderVersion = 420
	GLSL430 OutputShaderVersion = 430
	GLSL440 OutputShaderVersion = 440
	GLSL450 OutputShaderVersion = 450
	GLSL460 OutputShaderVersion = 460
	//
	ESSL100 OutputShaderVersion = 100100
	ESSL300 OutputShaderVersion = 100300
	ESSL310 OutputShaderVersion = 100310
	ESSL320 OutputShaderVersion = 100320
	//
	VKSL450 OutputShaderVersion = 200450
	//
	Metal10 OutputShaderVersion = 300100
	Metal11 OutputShaderVersion = 300110
	Metal12 OutputShaderVersion = 300120
	Metal20 OutputShaderVersion = 300200
	Metal21 OutputShaderVersion = 300210
)

// IsGLSL reports whether this is a desktop GLSL version.
func (v OutputShaderVersion) IsGLSL() bool {
	return v >= GLSL110 && v <= GLSL460
}

// IsESSL reports whether this is an OpenGL ES version.
func (v OutputShaderVersion) IsESSL() bool {
	return v >= ESSL100 && v <= ESSL320
}

// IsVKSL reports whether this is a Vulkan GLSL version.
func (v OutputShaderVersion) IsVKSL() bool {
	return v == VKSL450
}

// IsMetal reports whether this is a Metal version.
func (v OutputShaderVersion) IsMetal() bool {
	return v >= Metal10
}

// VersionNumber returns the numeric language version, e.g. 450.
func (v OutputShaderVersion) VersionNumber() int {
	return int(v) % 100000
}

// String returns the conventional name of the output version.
func (v OutputShaderVersion) String() string {
	switch {
	case v.IsGLSL():
		return fmt.Sprintf("GLSL %d", v.VersionNumber())
	case v.IsESSL():
		return fmt.Sprintf("ESSL %d", v.VersionNumber())
	case v.IsVKSL():
		return fmt.Sprintf("VKSL %d", v.VersionNumber())
	case v.IsMetal():
		n := v.VersionNumber()
		return fmt.Sprintf("Metal %d.%d", n/100, (n%100)/10)
	}

	return "unknown"
}

// Options collects the boolean translation switches of the output
// descriptor.
type Options struct {
	// Only run the preprocessor and write its output.
	PreprocessOnly bool
	// Analyze without generating output.
	ValidateOnly bool
	// Dump the decorated AST as JSON.
	ShowAST bool
	// Report per-pass timings.
	ShowTimes bool
	// Remove unreferenced declarations and redundant returns.
	Optimize bool
	// Permit target-language extensions.
	AllowExtensions bool
	// Keep explicit binding slots from register annotations.
	ExplicitBinding bool
	// Assign binding slots automatically.
	AutoBinding bool
	// First slot used by automatic binding.
	AutoBindingStartSlot int
	// Carry comments through to the output.
	PreserveComments bool
	// Prefer wrapper functions over inline translations.
	PreferWrappers bool
	// Expand array initializers element by element.
	UnrollArrayInitializers bool
	// Strip identifiers down to obfuscated names.
	Obfuscate bool
	// Emit row-major matrix alignment.
	RowMajorAlignment bool
	// Generate separable shader programs.
	SeparateShaders bool
	// Keep samplers separate from textures.
	SeparateSamplers bool
}

// Formatting controls the layout of the generated code.
type Formatting struct {
	// Insert blank lines between declarations.
	Blanks bool
	// Always brace single-statement scopes.
	AlwaysBracedScopes bool
	// Compress generated wrapper functions onto single lines.
	CompactWrappers bool
	// Emit #line marks referring back to the input.
	LineMarks bool
	// Separate logical sections with blank lines.
	LineSeparation bool
	// Open scopes on a new line.
	NewLineOpenScope bool
	// Indentation unit.
	Indent string
}

// DefaultFormatting returns the formatting used when none is specified.
func DefaultFormatting() Formatting {
	return Formatting{
		Blanks:         true,
		LineSeparation: true,
		Indent:         "    ",
	}
}

// NameMangling controls the identifier prefixes of the generated code.
type NameMangling struct {
	// Prefix for shader input variables.
	InputPrefix string
	// Prefix for shader output variables.
	OutputPrefix string
	// Prefix applied on collisions with reserved words.
	ReservedWordPrefix string
	// Prefix for compiler-introduced temporaries.
	TemporaryPrefix string
	// Prefix replacing namespace qualifiers.
	NamespacePrefix string
	// Rename uniform buffer fields instead of their block.
	RenameBufferFields bool
	// Keep semantics as variable names wherever possible.
	UseAlwaysSemantics bool
}

// DefaultNameMangling returns the name mangling used when none is
// specified.
func DefaultNameMangling() NameMangling {
	return NameMangling{
		InputPrefix:        "xsv_",
		OutputPrefix:       "xsv_",
		ReservedWordPrefix: "xsr_",
		TemporaryPrefix:    "xst_",
		NamespacePrefix:    "xsn_",
	}
}

// ShaderInput describes the shader to translate.
type ShaderInput struct {
	// Name of the input file, for diagnostics.
	Filename string
	// Source stream; when nil, Filename is read from disk.
	SourceCode io.Reader
	// Entry point function; "main" when empty.
	EntryPoint string
	// Secondary entry point (tessellation stages).
	SecondaryEntryPoint string
	// Input dialect.
	ShaderVersion InputShaderVersion
	// Target pipeline stage.
	Target ShaderTarget
	// Resolver for #include directives.
	IncludeHandler preprocessor.IncludeHandler
	// Predefined macros, name to body.
	Macros map[string]string
	// Enabled warning classes.
	Warnings WarningFlags
	// Enabled language extensions.
	Extensions ExtensionFlags
}

// ExtensionFlags selects input-language extensions.
type ExtensionFlags uint32

// The language extensions.
const (
	// ExtCgKeywords recognizes the Cg keyword superset regardless of the
	// input version.
	ExtCgKeywords ExtensionFlags = 1 << iota
)

// WarningFlags selects which warning classes are reported.
type WarningFlags uint32

// The warning classes.
const (
	WarnBasic WarningFlags = 1 << iota
	WarnSyntax
	WarnPreProcessor
	WarnUnusedVariables
	WarnEmptyStatementBody
	WarnImplicitTypeConversions
	WarnDeclarationShadowing
	WarnUnlocatedObjects
	WarnRequiredExtensions
	WarnCodeReflection
	WarnIndexBoundary
	//
	WarnAll = ^WarningFlags(0)
)

// ShaderOutput describes where and how the translated shader is written.
type ShaderOutput struct {
	// Sink for the generated code.
	Writer io.Writer
	// Output dialect and version.
	ShaderVersion OutputShaderVersion
	// Translation switches.
	Options Options
	// Explicit vertex attribute locations, semantic name to location.
	VertexSemantics map[string]int
	// Identifier prefixes.
	NameMangling NameMangling
	// Code layout.
	Formatting Formatting
	// Uniform packing offsets are honored when set.
	UniformPacking bool
}
