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
package scanner

import (
	"fmt"

	"github.com/xsclang/xsc/pkg/hlsl/token"
)

// scalarKeywords lists the scalar type names from which vector and matrix
// keywords are derived ("float" yields "float3", "float4x4", and so on).
var scalarKeywords = []string{
	"bool", "int", "uint", "dword", "half", "float", "double",
	"min16float", "min10float", "min16int", "min12int", "min16uint",
}

// cgScalarKeywords lists the additional scalar type names of the Cg keyword
// superset, only recognized when the Cg extension is enabled.
var cgScalarKeywords = []string{"fixed"}

// keywords maps every HLSL keyword to its token kind.  The map is built once
// at program start and never mutated, so it is safe to share between
// concurrent translations.
var keywords = makeKeywordMap(scalarKeywords)

// cgKeywords extends the keyword map with the Cg superset.
var cgKeywords = makeKeywordMap(append(append([]string{}, scalarKeywords...), cgScalarKeywords...))

// reservedKeywords lists keywords which are reserved by HLSL but illegal in
// a shader.  Scanning one is a lexical error.
var reservedKeywords = map[string]struct{}{
	"auto": {}, "catch": {}, "char": {}, "const_cast": {}, "delete": {},
	"dynamic_cast": {}, "enum": {}, "explicit": {}, "friend": {}, "goto": {},
	"long": {}, "mutable": {}, "new": {}, "operator": {}, "private": {},
	"protected": {}, "public": {}, "reinterpret_cast": {}, "short": {},
	"signed": {}, "sizeof": {}, "static_cast": {}, "template": {},
	"this": {}, "throw": {}, "try": {}, "typename": {}, "union": {},
	"unsigned": {}, "using": {}, "virtual": {},
}

// unsupportedKeywords lists keywords which are valid HLSL but which this
// translator does not support.  Scanning one is a distinct lexical error.
var unsupportedKeywords = map[string]struct{}{
	"interface": {}, "class": {}, "namespace": {}, "globallycoherent": {},
}

func makeKeywordMap(scalars []string) map[string]token.Kind {
	m := map[string]token.Kind{
		"true":  token.BoolLiteral,
		"false": token.BoolLiteral,
		"NULL":  token.NullLiteral,
		//
		"string": token.StringType,
		"vector": token.Vector,
		"matrix": token.Matrix,
		"void":   token.Void,
		//
		"do": token.Do, "while": token.While, "for": token.For,
		"if": token.If, "else": token.Else,
		"switch": token.Switch, "case": token.Case, "default": token.Default,
		"break": token.CtrlTransfer, "continue": token.CtrlTransfer,
		"discard": token.CtrlTransfer, "return": token.Return,
		//
		"typedef": token.Typedef, "struct": token.Struct,
		"register": token.Register, "packoffset": token.PackOffset,
		"cbuffer": token.UniformBuffer, "tbuffer": token.UniformBuffer,
		//
		"in": token.InputModifier, "out": token.InputModifier,
		"inout": token.InputModifier, "uniform": token.InputModifier,
		//
		"linear": token.InterpModifier, "centroid": token.InterpModifier,
		"nointerpolation": token.InterpModifier, "noperspective": token.InterpModifier,
		"sample": token.InterpModifier,
		//
		"const": token.TypeModifier, "row_major": token.TypeModifier,
		"column_major": token.TypeModifier, "snorm": token.TypeModifier,
		"unorm": token.TypeModifier,
		//
		"extern": token.StorageClass, "precise": token.StorageClass,
		"shared": token.StorageClass, "groupshared": token.StorageClass,
		"static": token.StorageClass, "volatile": token.StorageClass,
		//
		"inline": token.Inline,
		//
		"technique": token.Technique, "technique10": token.Technique,
		"technique11": token.Technique, "pass": token.Pass,
	}
	// Scalar types, with the redundant "1" and "1x1" spellings.
	for _, s := range scalars {
		m[s] = token.ScalarType
		m[s+"1"] = token.ScalarType
		m[s+"1x1"] = token.ScalarType
		// Vector types.
		for n := 2; n <= 4; n++ {
			m[fmt.Sprintf("%s%d", s, n)] = token.VectorType
		}
		// Matrix types.
		for r := 2; r <= 4; r++ {
			for c := 2; c <= 4; c++ {
				m[fmt.Sprintf("%s%dx%d", s, r, c)] = token.MatrixType
			}
		}
	}
	// Sampler types.
	for _, s := range []string{
		"sampler", "sampler1D", "sampler2D", "sampler3D", "samplerCUBE",
		"sampler_state", "SamplerState", "SamplerComparisonState",
	} {
		m[s] = token.Sampler
	}
	// Buffer and texture object types.
	for _, s := range []string{
		"Buffer", "RWBuffer",
		"StructuredBuffer", "RWStructuredBuffer",
		"ByteAddressBuffer", "RWByteAddressBuffer",
		"AppendStructuredBuffer", "ConsumeStructuredBuffer",
		"Texture1D", "Texture1DArray", "Texture2D", "Texture2DArray",
		"Texture3D", "TextureCube", "TextureCubeArray",
		"Texture2DMS", "Texture2DMSArray",
		"RWTexture1D", "RWTexture1DArray", "RWTexture2D", "RWTexture2DArray",
		"RWTexture3D",
		"InputPatch", "OutputPatch",
		"PointStream", "LineStream", "TriangleStream",
		"texture",
	} {
		m[s] = token.Buffer
	}
	//
	return m
}

// ClassifyIdent resolves an identifier spelling against the keyword tables.
// It returns the token kind to emit, or an error describing why the keyword
// cannot be used.
func ClassifyIdent(spell string, cg bool) (token.Kind, error) {
	table := keywords
	if cg {
		table = cgKeywords
	}
	//
	if kind, ok := table[spell]; ok {
		return kind, nil
	}
	//
	if _, ok := reservedKeywords[spell]; ok {
		return token.Ident, fmt.Errorf("illegal use of reserved keyword '%s'", spell)
	}
	//
	if _, ok := unsupportedKeywords[spell]; ok {
		return token.Ident, fmt.Errorf("keyword '%s' is currently not supported", spell)
	}
	//
	return token.Ident, nil
}
