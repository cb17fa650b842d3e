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
package source

import (
	"testing"

	"github.com/xsclang/xsc/pkg/util/assert"
)

func TestCode_00(t *testing.T) {
	c := NewCode("test.hlsl", "")
	//
	assert.Equal(t, rune(0), c.Next())
	assert.Equal(t, rune(0), c.Next())
}

func TestCode_01(t *testing.T) {
	c := NewCode("test.hlsl", "ab\ncd")
	//
	assert.Equal(t, "1:1", c.Pos().String())
	assert.Equal(t, 'a', c.Next())
	assert.Equal(t, "1:2", c.Pos().String())
	assert.Equal(t, 'b', c.Next())
	assert.Equal(t, '\n', c.Next())
	assert.Equal(t, "2:1", c.Pos().String())
	assert.Equal(t, 'c', c.Next())
	assert.Equal(t, 'd', c.Next())
	// Reading past the end keeps returning NUL.
	assert.Equal(t, rune(0), c.Next())
	assert.Equal(t, rune(0), c.Next())
}

func TestCode_02(t *testing.T) {
	c := NewCode("test.hlsl", "float x;\nfloat y;\n")
	//
	for c.Next() != 0 {
	}
	//
	area := NewArea(NewPosition(c.Origin(), 2, 7), 1, 0)
	//
	line, marker, ok := c.FetchLineMarker(area)
	assert.True(t, ok)
	assert.Equal(t, "float y;", line)
	assert.Equal(t, "      ^", marker)
}

func TestCode_03(t *testing.T) {
	// Fetching a marker mid-line still yields the complete line.
	c := NewCode("test.hlsl", "float verylongname;")
	//
	for i := 0; i < 5; i++ {
		c.Next()
	}
	//
	area := NewArea(NewPosition(c.Origin(), 1, 7), 12, 0)
	//
	line, marker, ok := c.FetchLineMarker(area)
	assert.True(t, ok)
	assert.Equal(t, "float verylongname;", line)
	assert.Equal(t, "      ^~~~~~~~~~~~", marker)
}

func TestCode_04(t *testing.T) {
	// Tabs are reproduced in the marker so it lines up.
	c := NewCode("test.hlsl", "\tint x;")
	//
	for c.Next() != 0 {
	}
	//
	area := NewArea(NewPosition(c.Origin(), 1, 2), 3, 0)
	//
	_, marker, ok := c.FetchLineMarker(area)
	assert.True(t, ok)
	assert.Equal(t, "\t^~~", marker)
}

func TestCode_05(t *testing.T) {
	// Re-origin for a "#line" directive on physical row 2.
	c := NewCode("test.hlsl", "int a;\n#line 10 \"other.h\"\nint b;\n")
	//
	c.SetOrigin("other.h", 10, 2)
	//
	pos := NewPosition(c.Origin(), 3, 1)
	assert.Equal(t, 10, pos.Row())
	assert.Equal(t, "other.h", pos.Filename())
	// Previously read rows keep the cache key.
	for c.Next() != 0 {
	}
	//
	line, _, ok := c.FetchLineMarker(NewArea(NewPosition(c.Origin(), 3, 1), 3, 0))
	assert.True(t, ok)
	assert.Equal(t, "int b;", line)
}

func TestCode_06(t *testing.T) {
	a := NewArea(NewPosition(NewOrigin("f"), 1, 3), 2, 0)
	b := NewArea(NewPosition(NewOrigin("f"), 1, 8), 4, 0)
	//
	merged := a.Merge(b)
	assert.Equal(t, 9, merged.Length())
	assert.Equal(t, 3, merged.Pos().Col())
}

func TestPosition_00(t *testing.T) {
	origin := NewOrigin("f")
	//
	a := NewPosition(origin, 1, 5)
	b := NewPosition(origin, 2, 1)
	//
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, Position{}.IsValid())
	assert.True(t, a.IsValid())
}
