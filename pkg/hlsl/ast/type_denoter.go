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
package ast

import (
	"fmt"
	"strings"
)

// ScalarType enumerates the scalar primitives.
type ScalarType uint8

// The scalar primitives.  The reduced HLSL precision types map onto their
// nearest full type (min16float onto half, min16int onto int, and so on);
// dword maps onto uint and the Cg fixed type onto half.
const (
	UndefinedScalar ScalarType = iota
	ScalarBool
	ScalarInt
	ScalarUInt
	ScalarHalf
	ScalarFloat
	ScalarDouble
)

var scalarNames = map[ScalarType]string{
	ScalarBool:   "bool",
	ScalarInt:    "int",
	ScalarUInt:   "uint",
	ScalarHalf:   "half",
	ScalarFloat:  "float",
	ScalarDouble: "double",
}

var scalarSpellings = map[string]ScalarType{
	"bool": ScalarBool,
	"int":  ScalarInt, "min16int": ScalarInt, "min12int": ScalarInt,
	"uint": ScalarUInt, "dword": ScalarUInt, "min16uint": ScalarUInt,
	"half": ScalarHalf, "min16float": ScalarHalf, "min10float": ScalarHalf,
	"fixed": ScalarHalf,
	"float": ScalarFloat,
	"double": ScalarDouble,
}

// String returns the canonical name of this scalar type.
func (s ScalarType) String() string {
	if name, ok := scalarNames[s]; ok {
		return name
	}

	return "undefined"
}

// IsBoolean reports whether this is the boolean scalar.
func (s ScalarType) IsBoolean() bool {
	return s == ScalarBool
}

// IsIntegral reports whether this is a (signed or unsigned) integer scalar.
func (s ScalarType) IsIntegral() bool {
	return s == ScalarInt || s == ScalarUInt
}

// IsReal reports whether this is a floating-point scalar.
func (s ScalarType) IsReal() bool {
	return s == ScalarHalf || s == ScalarFloat || s == ScalarDouble
}

// DataType denotes a scalar, vector or matrix primitive.  Scalars have
// rows = cols = 1, vectors have cols = 1 and rows in [2,4], matrices have
// both dimensions in [2,4] (mixed 1xN and Nx1 forms collapse during
// parsing).
type DataType struct {
	Scalar ScalarType
	Rows   uint8
	Cols   uint8
}

// ScalarDataType denotes a single scalar.
func ScalarDataType(s ScalarType) DataType {
	return DataType{s, 1, 1}
}

// VectorDataType denotes an n-component vector.
func VectorDataType(s ScalarType, n int) DataType {
	return DataType{s, uint8(n), 1}
}

// MatrixDataType denotes an r-by-c matrix.
func MatrixDataType(s ScalarType, r int, c int) DataType {
	return DataType{s, uint8(r), uint8(c)}
}

// IsScalar reports whether this type is a single scalar.
func (d DataType) IsScalar() bool {
	return d.Rows == 1 && d.Cols == 1
}

// IsVector reports whether this type is a vector.
func (d DataType) IsVector() bool {
	return d.Rows > 1 && d.Cols == 1
}

// IsMatrix reports whether this type is a matrix.
func (d DataType) IsMatrix() bool {
	return d.Cols > 1
}

// VectorSize returns the component count of a scalar or vector.
func (d DataType) VectorSize() int {
	return int(d.Rows)
}

// ComponentCount returns the total number of scalar components.
func (d DataType) ComponentCount() int {
	return int(d.Rows) * int(d.Cols)
}

// String returns the canonical HLSL spelling of this type.
func (d DataType) String() string {
	switch {
	case d.IsMatrix():
		return fmt.Sprintf("%s%dx%d", d.Scalar, d.Rows, d.Cols)
	case d.IsVector():
		return fmt.Sprintf("%s%d", d.Scalar, d.Rows)
	}

	return d.Scalar.String()
}

// ParseDataType resolves a scalar, vector or matrix type spelling such as
// "float", "half3" or "int3x4" into its data type.
func ParseDataType(spell string) (DataType, bool) {
	// Find the longest scalar spelling prefix.
	base, suffix := "", ""
	//
	for s := range scalarSpellings {
		if strings.HasPrefix(spell, s) && len(s) > len(base) {
			base, suffix = s, spell[len(s):]
		}
	}
	//
	if base == "" {
		return DataType{}, false
	}
	//
	scalar := scalarSpellings[base]
	//
	switch {
	case suffix == "" || suffix == "1" || suffix == "1x1":
		return ScalarDataType(scalar), true
	case len(suffix) == 1 && suffix[0] >= '2' && suffix[0] <= '4':
		return VectorDataType(scalar, int(suffix[0]-'0')), true
	case len(suffix) == 3 && suffix[1] == 'x' &&
		suffix[0] >= '1' && suffix[0] <= '4' && suffix[2] >= '1' && suffix[2] <= '4':
		r, c := int(suffix[0]-'0'), int(suffix[2]-'0')
		// Degenerate 1xN and Nx1 matrices collapse to vectors.
		if r == 1 {
			r, c = c, 1
		}
		//
		if c == 1 {
			if r == 1 {
				return ScalarDataType(scalar), true
			}
			//
			return VectorDataType(scalar, r), true
		}
		//
		return MatrixDataType(scalar, r, c), true
	}
	//
	return DataType{}, false
}

// FindVectorTruncation compares the dimensions of two data types for an
// implicit conversion from a to b.  It returns a negative value when a is
// wider than b (a truncating conversion, reported as a warning), a positive
// value when a is narrower than b (an illegal widening), and zero when the
// dimensions agree.
func FindVectorTruncation(a, b DataType) int {
	switch {
	case a.ComponentCount() > b.ComponentCount():
		return -1
	case a.ComponentCount() < b.ComponentCount():
		return 1
	}

	return 0
}

// BufferType classifies a typed shader resource.
type BufferType uint

// The buffer object classes.
const (
	UndefinedBuffer BufferType = iota
	GenericBuffer
	RWGenericBuffer
	StructuredBuffer
	RWStructuredBuffer
	ByteAddressBuffer
	RWByteAddressBuffer
	AppendStructuredBuffer
	ConsumeStructuredBuffer
	Texture1D
	Texture1DArray
	Texture2D
	Texture2DArray
	Texture3D
	TextureCube
	TextureCubeArray
	Texture2DMS
	Texture2DMSArray
	RWTexture1D
	RWTexture1DArray
	RWTexture2D
	RWTexture2DArray
	RWTexture3D
	InputPatch
	OutputPatch
	PointStream
	LineStream
	TriangleStream
	LegacyTexture
)

var bufferSpellings = map[string]BufferType{
	"Buffer": GenericBuffer, "RWBuffer": RWGenericBuffer,
	"StructuredBuffer": StructuredBuffer, "RWStructuredBuffer": RWStructuredBuffer,
	"ByteAddressBuffer": ByteAddressBuffer, "RWByteAddressBuffer": RWByteAddressBuffer,
	"AppendStructuredBuffer": AppendStructuredBuffer, "ConsumeStructuredBuffer": ConsumeStructuredBuffer,
	"Texture1D": Texture1D, "Texture1DArray": Texture1DArray,
	"Texture2D": Texture2D, "Texture2DArray": Texture2DArray,
	"Texture3D": Texture3D, "TextureCube": TextureCube, "TextureCubeArray": TextureCubeArray,
	"Texture2DMS": Texture2DMS, "Texture2DMSArray": Texture2DMSArray,
	"RWTexture1D": RWTexture1D, "RWTexture1DArray": RWTexture1DArray,
	"RWTexture2D": RWTexture2D, "RWTexture2DArray": RWTexture2DArray,
	"RWTexture3D": RWTexture3D,
	"InputPatch":  InputPatch, "OutputPatch": OutputPatch,
	"PointStream": PointStream, "LineStream": LineStream, "TriangleStream": TriangleStream,
	"texture": LegacyTexture,
}

// ParseBufferType resolves a buffer keyword spelling.
func ParseBufferType(spell string) (BufferType, bool) {
	t, ok := bufferSpellings[spell]
	return t, ok
}

// String returns the HLSL spelling of this buffer type.
func (b BufferType) String() string {
	for spell, t := range bufferSpellings {
		if t == b {
			return spell
		}
	}

	return "undefined"
}

// IsPatch reports whether this is an input or output patch.
func (b BufferType) IsPatch() bool {
	return b == InputPatch || b == OutputPatch
}

// IsStream reports whether this is a geometry shader stream.
func (b BufferType) IsStream() bool {
	return b == PointStream || b == LineStream || b == TriangleStream
}

// IsMultisampled reports whether this is a multisampled texture.
func (b BufferType) IsMultisampled() bool {
	return b == Texture2DMS || b == Texture2DMSArray
}

// SamplerType classifies a sampler.
type SamplerType uint

// The sampler classes.
const (
	UndefinedSampler SamplerType = iota
	SamplerGeneric
	Sampler1D
	Sampler2D
	Sampler3D
	SamplerCube
	SamplerState
	SamplerComparisonState
)

var samplerSpellings = map[string]SamplerType{
	"sampler":   SamplerGeneric,
	"sampler1D": Sampler1D, "sampler2D": Sampler2D,
	"sampler3D": Sampler3D, "samplerCUBE": SamplerCube,
	"sampler_state": SamplerState, "SamplerState": SamplerState,
	"SamplerComparisonState": SamplerComparisonState,
}

// ParseSamplerType resolves a sampler keyword spelling.
func ParseSamplerType(spell string) (SamplerType, bool) {
	t, ok := samplerSpellings[spell]
	return t, ok
}

// String returns the HLSL spelling of this sampler type.
func (s SamplerType) String() string {
	for spell, t := range samplerSpellings {
		if t == s && spell != "sampler_state" {
			return spell
		}
	}

	return "undefined"
}

// TypeDenoter is the resolved representation of a type, separate from its
// syntactic spelling.  The variants form a closed algebra.
type TypeDenoter interface {
	// String returns a readable form for diagnostics.
	String() string
	// Aliased resolves alias links transitively to a canonical form.
	Aliased() TypeDenoter
}

// VoidTypeDen denotes the void type.
type VoidTypeDen struct{}

// BaseTypeDen denotes a scalar, vector or matrix primitive.
type BaseTypeDen struct {
	Type DataType
}

// BufferTypeDen denotes a typed shader resource, with its generic sub-type
// and size where applicable.
type BufferTypeDen struct {
	Buffer BufferType
	// Generic sub-type inside angle brackets, or nil.
	Generic TypeDenoter
	// Patch size or sample count, or 0.
	Size int
}

// SamplerTypeDen denotes a sampler.
type SamplerTypeDen struct {
	Type SamplerType
}

// StructTypeDen denotes a structure type, either resolved to its
// declaration or still an unresolved identifier.
type StructTypeDen struct {
	Ident string
	Ref   *StructDecl
}

// AliasTypeDen denotes a typedef name, either resolved to its declaration
// or still an unresolved identifier.
type AliasTypeDen struct {
	Ident string
	Ref   *AliasDecl
}

// ArrayTypeDen denotes an array over a sub-type.
type ArrayTypeDen struct {
	Sub  TypeDenoter
	Dims []*ArrayDimension
}

// String implements the TypeDenoter interface.
func (t *VoidTypeDen) String() string { return "void" }

// Aliased implements the TypeDenoter interface.
func (t *VoidTypeDen) Aliased() TypeDenoter { return t }

// String implements the TypeDenoter interface.
func (t *BaseTypeDen) String() string { return t.Type.String() }

// Aliased implements the TypeDenoter interface.
func (t *BaseTypeDen) Aliased() TypeDenoter { return t }

// String implements the TypeDenoter interface.
func (t *BufferTypeDen) String() string {
	if t.Generic != nil {
		return fmt.Sprintf("%s<%s>", t.Buffer, t.Generic)
	}

	return t.Buffer.String()
}

// Aliased implements the TypeDenoter interface.
func (t *BufferTypeDen) Aliased() TypeDenoter { return t }

// String implements the TypeDenoter interface.
func (t *SamplerTypeDen) String() string { return t.Type.String() }

// Aliased implements the TypeDenoter interface.
func (t *SamplerTypeDen) Aliased() TypeDenoter { return t }

// String implements the TypeDenoter interface.
func (t *StructTypeDen) String() string {
	if t.Ident != "" {
		return "struct " + t.Ident
	}

	return "anonymous struct"
}

// Aliased implements the TypeDenoter interface.
func (t *StructTypeDen) Aliased() TypeDenoter { return t }

// String implements the TypeDenoter interface.
func (t *AliasTypeDen) String() string { return t.Ident }

// Aliased resolves the alias chain to its canonical type.  An unresolved
// alias denotes itself.
func (t *AliasTypeDen) Aliased() TypeDenoter {
	if t.Ref != nil && t.Ref.TypeDen != nil {
		return t.Ref.TypeDen.Aliased()
	}

	return t
}

// String implements the TypeDenoter interface.
func (t *ArrayTypeDen) String() string {
	var sb strings.Builder
	//
	sb.WriteString(t.Sub.String())
	//
	for _, d := range t.Dims {
		if d.Size > 0 {
			fmt.Fprintf(&sb, "[%d]", d.Size)
		} else {
			sb.WriteString("[]")
		}
	}
	//
	return sb.String()
}

// Aliased implements the TypeDenoter interface.
func (t *ArrayTypeDen) Aliased() TypeDenoter {
	return &ArrayTypeDen{t.Sub.Aliased(), t.Dims}
}

// IsCastableTo defines the HLSL implicit-conversion relation between two
// type denoters.  Vector truncation is considered castable here; the
// analyzer separately applies FindVectorTruncation to decide between a
// warning (truncation) and an error (widening).
func IsCastableTo(from, to TypeDenoter) bool {
	a, b := from.Aliased(), to.Aliased()
	//
	switch x := a.(type) {
	case *VoidTypeDen:
		_, ok := b.(*VoidTypeDen)
		return ok
	case *BaseTypeDen:
		// All scalar, vector and matrix primitives convert between each
		// other; dimension legality is judged separately.
		_, ok := b.(*BaseTypeDen)
		return ok
	case *StructTypeDen:
		y, ok := b.(*StructTypeDen)
		return ok && x.Ref != nil && x.Ref == y.Ref
	case *SamplerTypeDen:
		y, ok := b.(*SamplerTypeDen)
		return ok && x.Type == y.Type
	case *BufferTypeDen:
		y, ok := b.(*BufferTypeDen)
		return ok && x.Buffer == y.Buffer
	case *ArrayTypeDen:
		y, ok := b.(*ArrayTypeDen)
		return ok && len(x.Dims) == len(y.Dims) && IsCastableTo(x.Sub, y.Sub)
	}
	//
	return false
}
