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
package variant

import (
	"testing"

	"github.com/xsclang/xsc/pkg/util/assert"
)

func TestVariant_00(t *testing.T) {
	v, err := Add(FromInt(2), FromInt(3))
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(5), v.ToInt())
	assert.True(t, v.IsInt())
}

func TestVariant_01(t *testing.T) {
	// Mixed operands promote to real.
	v, err := Mul(FromInt(2), FromReal(1.5))
	assert.Equal(t, nil, err)
	assert.True(t, v.IsReal())
	assert.Equal(t, 3.0, v.ToReal())
}

func TestVariant_02(t *testing.T) {
	_, err := Div(FromInt(1), FromInt(0))
	assert.Equal(t, ErrDivideByZero, err)
	//
	_, err = Mod(FromInt(1), FromInt(0))
	assert.Equal(t, ErrDivideByZero, err)
	// Real division by zero is defined.
	v, err := Div(FromReal(1), FromReal(0))
	assert.Equal(t, nil, err)
	assert.True(t, v.IsReal())
}

func TestVariant_03(t *testing.T) {
	v, _ := Shl(FromInt(1), FromInt(4))
	assert.Equal(t, int64(16), v.ToInt())
	//
	v, _ = Shr(FromInt(16), FromInt(2))
	assert.Equal(t, int64(4), v.ToInt())
	//
	v, _ = BitXor(FromInt(0b101), FromInt(0b110))
	assert.Equal(t, int64(0b011), v.ToInt())
}

func TestVariant_04(t *testing.T) {
	assert.Equal(t, -1, Compare(FromInt(1), FromInt(2)))
	assert.Equal(t, 0, Compare(FromInt(2), FromReal(2)))
	assert.Equal(t, 1, Compare(FromReal(2.5), FromInt(2)))
}

func TestVariant_05(t *testing.T) {
	// Conversions follow HLSL semantics.
	assert.Equal(t, true, FromInt(-3).ToBool())
	assert.Equal(t, false, FromReal(0).ToBool())
	assert.Equal(t, int64(1), FromBool(true).ToInt())
	assert.Equal(t, int64(2), FromReal(2.9).ToInt())
	assert.Equal(t, 1.0, FromBool(true).ToReal())
}

func TestVariant_06(t *testing.T) {
	assert.Equal(t, int64(-5), Neg(FromInt(5)).ToInt())
	assert.Equal(t, true, Not(FromInt(0)).ToBool())
	assert.Equal(t, int64(^int64(12)), BitNot(FromInt(12)).ToInt())
	assert.Equal(t, int64(6), Inc(FromInt(5)).ToInt())
	assert.Equal(t, 4.0, Dec(FromReal(5)).ToReal())
}

func TestVariant_07(t *testing.T) {
	arr := FromArray([]Variant{FromInt(1), FromInt(2)})
	//
	assert.True(t, arr.Kind() == Array)
	assert.Equal(t, int64(2), arr.ArraySub(1).ToInt())
	assert.False(t, arr.ArraySub(5).IsDefined())
}

func TestVariant_08(t *testing.T) {
	v, err := ParseInt("0x10")
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(16), v.ToInt())
	//
	v, err = ParseInt("0b110")
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(6), v.ToInt())
	//
	_, err = ParseInt("12ab")
	assert.NotNil(t, err)
}

func TestVariant_09(t *testing.T) {
	v, err := ParseReal("2.5f")
	assert.Equal(t, nil, err)
	assert.Equal(t, 2.5, v.ToReal())
	//
	v, err = ParseReal("1e3")
	assert.Equal(t, nil, err)
	assert.Equal(t, 1000.0, v.ToReal())
}

func TestVariant_10(t *testing.T) {
	assert.Equal(t, "true", FromBool(true).String())
	assert.Equal(t, "42", FromInt(42).String())
	assert.Equal(t, "undefined", Variant{}.String())
	assert.False(t, Variant{}.IsDefined())
}
