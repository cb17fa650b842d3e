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
package token

import (
	"testing"

	"github.com/xsclang/xsc/pkg/util/assert"
	"github.com/xsclang/xsc/pkg/util/source"
)

func tok(kind Kind, spell string) *Token {
	return New(kind, spell, source.Area{})
}

func TestString_00(t *testing.T) {
	a := NewString(tok(Ident, "x"), tok(WhiteSpace, " "), tok(BinaryOp, "+"))
	b := NewString(tok(Ident, "x"), tok(BinaryOp, "+"))
	// Equality is defined over tokens of interest only.
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestString_01(t *testing.T) {
	a := NewString(tok(Ident, "x"))
	b := NewString(tok(Ident, "y"))
	c := NewString(tok(IntLiteral, "x"))
	//
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestString_02(t *testing.T) {
	s := NewString(
		tok(WhiteSpace, " "), tok(Comment, "// c"),
		tok(Ident, "x"),
		tok(NewLine, "\n"),
	)
	//
	trimmed := s.TrimSpace()
	assert.Equal(t, 1, trimmed.Len())
	assert.False(t, s.Empty())
	//
	empty := NewString(tok(WhiteSpace, " "))
	assert.True(t, empty.Empty())
}

func TestString_03(t *testing.T) {
	s := NewString(tok(Ident, "a"), tok(WhiteSpace, " "), tok(Ident, "b"))
	//
	it := s.Iter()
	assert.True(t, it.HasNext())
	assert.Equal(t, "a", it.Next().Spell())
	assert.Equal(t, "b", it.Next().Spell())
	assert.False(t, it.HasNext())
	//
	var nilTok *Token
	assert.Equal(t, nilTok, it.Next())
}

func TestString_04(t *testing.T) {
	s := NewString(tok(Ident, "a"), tok(WhiteSpace, " "), tok(BinaryOp, "+"), tok(Ident, "b"))
	//
	assert.Equal(t, "a +b", s.Spell())
}
