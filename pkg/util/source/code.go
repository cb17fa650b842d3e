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
	"io"
	"os"
	"strings"
)

// Code wraps a character stream with position tracking and line retention.
// Characters are handed out one at a time via Next, whilst every completed
// line is kept in a cache keyed by physical row so that diagnostics can
// reconstruct highlighted lines long after scanning has moved on.  The
// origin can be swapped mid-stream (for "#line" directives) without losing
// already-read text.
type Code struct {
	// Origin under which characters are currently being read.
	origin *Origin
	// Full text of the stream.
	text []rune
	// Index of the next unread character.
	index int
	// Physical row and column of the next unread character.
	row int
	col int
	// Cache of line texts keyed by physical row.
	lines map[int]string
	// Start index of the line currently being read.
	lineStart int
}

// NewCode constructs a code stream over a given string.
func NewCode(name string, text string) *Code {
	return &Code{
		origin:    NewOrigin(name),
		text:      []rune(text),
		index:     0,
		row:       1,
		col:       1,
		lines:     make(map[int]string),
		lineStart: 0,
	}
}

// NewCodeFromReader slurps a character stream and wraps it as a code stream.
func NewCodeFromReader(name string, r io.Reader) (*Code, error) {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return NewCode(name, string(bytes)), nil
}

// ReadCodeFile reads a file from disk and wraps it as a code stream.
func ReadCodeFile(filename string) (*Code, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return NewCode(filename, string(bytes)), nil
}

// Origin returns the origin currently in effect.
func (c *Code) Origin() *Origin {
	return c.origin
}

// Name returns the filename of the current origin.
func (c *Code) Name() string {
	return c.origin.Name
}

// Pos returns the position of the next unread character.
func (c *Code) Pos() Position {
	return NewPosition(c.origin, c.row, c.col)
}

// Peek returns the next unread character without consuming it, or NUL at the
// end of the stream.
func (c *Code) Peek() rune {
	if c.index < len(c.text) {
		return c.text[c.index]
	}

	return 0
}

// Next consumes and returns the next character, advancing the tracked row
// and column.  At the end of the stream it returns NUL, and keeps returning
// NUL on every subsequent call.
func (c *Code) Next() rune {
	if c.index >= len(c.text) {
		// Retain the final (unterminated) line for diagnostics.
		c.cacheLine()
		return 0
	}
	//
	chr := c.text[c.index]
	c.index++
	//
	if chr == '\n' {
		c.cacheLine()
		c.row++
		c.col = 1
		c.lineStart = c.index
	} else {
		c.col++
	}
	//
	return chr
}

// SetOrigin installs a new origin such that the line following the
// "#line" directive (whose physical row is given) reports as line nextLine
// of the named file.  Text already read remains reachable through the line
// cache, and positions taken earlier keep their old origin.
func (c *Code) SetOrigin(name string, nextLine int, directiveRow int) {
	c.origin = &Origin{name, nextLine - (directiveRow + 1)}
}

// FetchLineMarker reconstructs the source line enclosing a given area,
// together with a marker string which highlights the area underneath it.
// It fails (returning false) when the area is invalid or its line is no
// longer available.
func (c *Code) FetchLineMarker(area Area) (line string, marker string, ok bool) {
	if !area.IsValid() {
		return "", "", false
	}
	// Make sure the current line is visible, even if its newline has not
	// been reached yet.
	c.cacheLine()
	//
	line, ok = c.lines[area.Pos().PhysicalRow()]
	if !ok {
		return "", "", false
	}
	//
	runes := []rune(line)
	//
	start := area.Pos().Col() - area.Offset()
	if start < 1 {
		start = 1
	}
	//
	length := min(area.Length(), len(runes)-(start-1))
	if length < 1 {
		length = 1
	}
	// Reproduce tabs so the marker lines up under the source line.
	var sb strings.Builder
	//
	for i := 0; i < start-1 && i < len(runes); i++ {
		if runes[i] == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	//
	sb.WriteRune('^')
	//
	for i := 1; i < length; i++ {
		sb.WriteRune('~')
	}
	//
	return line, sb.String(), true
}

// cacheLine retains the line currently being read, without its trailing
// newline.  The full extent of the line is taken from the underlying text,
// so fetching a marker mid-line still yields the complete line.
func (c *Code) cacheLine() {
	if _, ok := c.lines[c.row]; ok {
		return
	}
	//
	end := c.lineStart
	for end < len(c.text) && c.text[end] != '\n' {
		end++
	}
	//
	c.lines[c.row] = string(c.text[c.lineStart:end])
}
