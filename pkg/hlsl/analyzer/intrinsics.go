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
	"github.com/xsclang/xsc/pkg/hlsl/ast"
)

// Intrinsic describes one built-in function recognized without a user
// declaration.  Argument counts are a closed range; the result type is
// derived from the argument types.
type Intrinsic struct {
	MinArgs int
	MaxArgs int
	// Result derives the call's type denoter from the resolved argument
	// types.  Arguments may be nil when earlier analysis failed.
	Result func(args []ast.TypeDenoter) ast.TypeDenoter
}

var (
	voidType  = &ast.VoidTypeDen{}
	boolType  = &ast.BaseTypeDen{Type: ast.ScalarDataType(ast.ScalarBool)}
	intType   = &ast.BaseTypeDen{Type: ast.ScalarDataType(ast.ScalarInt)}
	floatType = &ast.BaseTypeDen{Type: ast.ScalarDataType(ast.ScalarFloat)}
	float3Type = &ast.BaseTypeDen{Type: ast.VectorDataType(ast.ScalarFloat, 3)}
	float4Type = &ast.BaseTypeDen{Type: ast.VectorDataType(ast.ScalarFloat, 4)}
)

// same propagates the first argument's type.
func same(args []ast.TypeDenoter) ast.TypeDenoter {
	if len(args) > 0 && args[0] != nil {
		return args[0].Aliased()
	}
	//
	return floatType
}

// scalarOf reduces the first argument to its scalar type.
func scalarOf(args []ast.TypeDenoter) ast.TypeDenoter {
	if len(args) > 0 && args[0] != nil {
		if base, ok := args[0].Aliased().(*ast.BaseTypeDen); ok {
			return &ast.BaseTypeDen{Type: ast.ScalarDataType(base.Type.Scalar)}
		}
	}
	//
	return floatType
}

// boolResult yields a scalar boolean regardless of the arguments.
func boolResult([]ast.TypeDenoter) ast.TypeDenoter { return boolType }

// voidResult yields void.
func voidResult([]ast.TypeDenoter) ast.TypeDenoter { return voidType }

// mulResult implements the type-parametric "mul" intrinsic: matrix*vector,
// vector*matrix, matrix*matrix and the degenerate scalar forms.
func mulResult(args []ast.TypeDenoter) ast.TypeDenoter {
	if len(args) != 2 || args[0] == nil || args[1] == nil {
		return floatType
	}
	//
	a, aOK := args[0].Aliased().(*ast.BaseTypeDen)
	b, bOK := args[1].Aliased().(*ast.BaseTypeDen)
	//
	if !aOK || !bOK {
		return floatType
	}
	//
	switch {
	case a.Type.IsMatrix() && b.Type.IsVector():
		return &ast.BaseTypeDen{Type: ast.VectorDataType(b.Type.Scalar, int(a.Type.Rows))}
	case a.Type.IsVector() && b.Type.IsMatrix():
		return &ast.BaseTypeDen{Type: ast.VectorDataType(a.Type.Scalar, int(b.Type.Cols))}
	case a.Type.IsMatrix() && b.Type.IsMatrix():
		return &ast.BaseTypeDen{Type: ast.MatrixDataType(a.Type.Scalar, int(a.Type.Rows), int(b.Type.Cols))}
	case a.Type.IsVector():
		return a
	}
	//
	return b
}

// transposeResult swaps the matrix dimensions of the argument.
func transposeResult(args []ast.TypeDenoter) ast.TypeDenoter {
	if len(args) == 1 && args[0] != nil {
		if base, ok := args[0].Aliased().(*ast.BaseTypeDen); ok && base.Type.IsMatrix() {
			t := ast.MatrixDataType(base.Type.Scalar, int(base.Type.Cols), int(base.Type.Rows))
			return &ast.BaseTypeDen{Type: t}
		}
	}
	//
	return same(args)
}

func fixed(td ast.TypeDenoter) func([]ast.TypeDenoter) ast.TypeDenoter {
	return func([]ast.TypeDenoter) ast.TypeDenoter { return td }
}

// intrinsics is the built-in function table.  It is immutable after
// initialization and shared between concurrent translations.
var intrinsics = map[string]Intrinsic{
	"abs":         {1, 1, same},
	"acos":        {1, 1, same},
	"all":         {1, 1, boolResult},
	"any":         {1, 1, boolResult},
	"asin":        {1, 1, same},
	"atan":        {1, 1, same},
	"atan2":       {2, 2, same},
	"ceil":        {1, 1, same},
	"clamp":       {3, 3, same},
	"clip":        {1, 1, voidResult},
	"cos":         {1, 1, same},
	"cosh":        {1, 1, same},
	"cross":       {2, 2, fixed(float3Type)},
	"ddx":         {1, 1, same},
	"ddy":         {1, 1, same},
	"degrees":     {1, 1, same},
	"determinant": {1, 1, scalarOf},
	"distance":    {2, 2, scalarOf},
	"dot":         {2, 2, scalarOf},
	"exp":         {1, 1, same},
	"exp2":        {1, 1, same},
	"floor":       {1, 1, same},
	"fmod":        {2, 2, same},
	"frac":        {1, 1, same},
	"fwidth":      {1, 1, same},
	"isinf":       {1, 1, boolResult},
	"isnan":       {1, 1, boolResult},
	"ldexp":       {2, 2, same},
	"length":      {1, 1, scalarOf},
	"lerp":        {3, 3, same},
	"lit":         {3, 3, fixed(float4Type)},
	"log":         {1, 1, same},
	"log10":       {1, 1, same},
	"log2":        {1, 1, same},
	"mad":         {3, 3, same},
	"max":         {2, 2, same},
	"min":         {2, 2, same},
	"mul":         {2, 2, mulResult},
	"normalize":   {1, 1, same},
	"pow":         {2, 2, same},
	"radians":     {1, 1, same},
	"rcp":         {1, 1, same},
	"reflect":     {2, 2, same},
	"refract":     {3, 3, same},
	"round":       {1, 1, same},
	"rsqrt":       {1, 1, same},
	"saturate":    {1, 1, same},
	"sign":        {1, 1, same},
	"sin":         {1, 1, same},
	"sincos":      {3, 3, voidResult},
	"sinh":        {1, 1, same},
	"smoothstep":  {3, 3, same},
	"sqrt":        {1, 1, same},
	"step":        {2, 2, same},
	"tan":         {1, 1, same},
	"tanh":        {1, 1, same},
	"transpose":   {1, 1, transposeResult},
	"trunc":       {1, 1, same},
	// Legacy texture sampling.
	"tex1D":       {2, 4, fixed(float4Type)},
	"tex1Dgrad":   {4, 4, fixed(float4Type)},
	"tex1Dlod":    {2, 2, fixed(float4Type)},
	"tex1Dproj":   {2, 2, fixed(float4Type)},
	"tex2D":       {2, 4, fixed(float4Type)},
	"tex2Dgrad":   {4, 4, fixed(float4Type)},
	"tex2Dlod":    {2, 2, fixed(float4Type)},
	"tex2Dproj":   {2, 2, fixed(float4Type)},
	"tex3D":       {2, 4, fixed(float4Type)},
	"tex3Dgrad":   {4, 4, fixed(float4Type)},
	"tex3Dlod":    {2, 2, fixed(float4Type)},
	"tex3Dproj":   {2, 2, fixed(float4Type)},
	"texCUBE":     {2, 4, fixed(float4Type)},
	"texCUBElod":  {2, 2, fixed(float4Type)},
	// Bit manipulation.
	"countbits":        {1, 1, fixed(intType)},
	"firstbithigh":     {1, 1, fixed(intType)},
	"firstbitlow":      {1, 1, fixed(intType)},
	"reversebits":      {1, 1, same},
	"asfloat":          {1, 1, same},
	"asint":            {1, 1, same},
	"asuint":           {1, 1, same},
	"f16tof32":         {1, 1, fixed(floatType)},
	"f32tof16":         {1, 1, fixed(intType)},
	// Synchronization barriers and atomics.
	"GroupMemoryBarrier":                {0, 0, voidResult},
	"GroupMemoryBarrierWithGroupSync":   {0, 0, voidResult},
	"DeviceMemoryBarrier":               {0, 0, voidResult},
	"DeviceMemoryBarrierWithGroupSync":  {0, 0, voidResult},
	"AllMemoryBarrier":                  {0, 0, voidResult},
	"AllMemoryBarrierWithGroupSync":     {0, 0, voidResult},
	"InterlockedAdd":                    {2, 3, voidResult},
	"InterlockedAnd":                    {2, 3, voidResult},
	"InterlockedCompareExchange":        {4, 4, voidResult},
	"InterlockedCompareStore":           {3, 3, voidResult},
	"InterlockedExchange":               {3, 3, voidResult},
	"InterlockedMax":                    {2, 3, voidResult},
	"InterlockedMin":                    {2, 3, voidResult},
	"InterlockedOr":                     {2, 3, voidResult},
	"InterlockedXor":                    {2, 3, voidResult},
}

// FetchIntrinsic looks a name up in the built-in function table.
func FetchIntrinsic(name string) (Intrinsic, bool) {
	in, ok := intrinsics[name]
	return in, ok
}

// bufferMethods maps the member functions of buffer and texture objects to
// their result derivation.  The receiver's generic type stands in for the
// texel type where one is declared.
var bufferMethods = map[string]func(receiver *ast.BufferTypeDen) ast.TypeDenoter{
	"Sample":          bufferTexelType,
	"SampleBias":      bufferTexelType,
	"SampleCmp":       func(*ast.BufferTypeDen) ast.TypeDenoter { return floatType },
	"SampleGrad":      bufferTexelType,
	"SampleLevel":     bufferTexelType,
	"Load":            bufferTexelType,
	"Gather":          func(*ast.BufferTypeDen) ast.TypeDenoter { return float4Type },
	"GetDimensions":   func(*ast.BufferTypeDen) ast.TypeDenoter { return voidType },
	"CalculateLevelOfDetail": func(*ast.BufferTypeDen) ast.TypeDenoter { return floatType },
	"Append":          func(*ast.BufferTypeDen) ast.TypeDenoter { return voidType },
	"RestartStrip":    func(*ast.BufferTypeDen) ast.TypeDenoter { return voidType },
	"Consume":         bufferTexelType,
}

// bufferTexelType returns the declared texel type of a buffer object, or
// float4 when the declaration did not name one.
func bufferTexelType(receiver *ast.BufferTypeDen) ast.TypeDenoter {
	if receiver != nil && receiver.Generic != nil {
		return receiver.Generic.Aliased()
	}
	//
	return float4Type
}

// FetchBufferMethod resolves a member function of a buffer object.
func FetchBufferMethod(name string, receiver *ast.BufferTypeDen) (ast.TypeDenoter, bool) {
	fn, ok := bufferMethods[name]
	if !ok {
		return nil, false
	}
	//
	return fn(receiver), true
}
