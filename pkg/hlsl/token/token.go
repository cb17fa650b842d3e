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
	"github.com/xsclang/xsc/pkg/util/source"
)

// Kind enumerates the token classes produced by the scanner.
type Kind uint

// The closed set of token kinds.
const (
	Unknown Kind = iota
	// Identifiers.
	Ident
	// Literals.
	BoolLiteral
	IntLiteral
	FloatLiteral
	StringLiteral
	NullLiteral
	// Operators.
	AssignOp
	BinaryOp
	UnaryOp
	TernaryOp
	// Punctuation.
	Dot
	Colon
	DColon
	Semicolon
	Comma
	// Brackets: (), {}, [].
	LBracket
	RBracket
	LCurly
	RCurly
	LParen
	RParen
	// Type keywords.
	StringType
	ScalarType
	VectorType
	MatrixType
	Vector
	Matrix
	Void
	// Control-flow keywords.
	Do
	While
	For
	If
	Else
	Switch
	Case
	Default
	CtrlTransfer
	Return
	// Declaration keywords.
	Typedef
	Struct
	Register
	PackOffset
	Sampler
	SamplerState
	Buffer
	UniformBuffer
	// Modifier keywords.
	InputModifier
	InterpModifier
	TypeModifier
	StorageClass
	Inline
	// Effect-framework keywords (recognized and ignored).
	Technique
	Pass
	// Preprocessor tokens.
	Directive
	DirectiveConcat
	Comment
	WhiteSpace
	NewLine
	LineBreak
	VarArg
	// End of the token stream.
	EndOfStream
)

// String returns a human-readable name for a token kind, as used in
// "expected ..." diagnostics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

var kindNames = map[Kind]string{
	Ident:           "identifier",
	BoolLiteral:     "boolean literal",
	IntLiteral:      "integer literal",
	FloatLiteral:    "floating-point literal",
	StringLiteral:   "string literal",
	NullLiteral:     "null literal",
	AssignOp:        "assign operator",
	BinaryOp:        "binary operator",
	UnaryOp:         "unary operator",
	TernaryOp:       "ternary operator",
	Dot:             "'.'",
	Colon:           "':'",
	DColon:          "'::'",
	Semicolon:       "';'",
	Comma:           "','",
	LBracket:        "'('",
	RBracket:        "')'",
	LCurly:          "'{'",
	RCurly:          "'}'",
	LParen:          "'['",
	RParen:          "']'",
	StringType:      "string type",
	ScalarType:      "scalar type",
	VectorType:      "vector type",
	MatrixType:      "matrix type",
	Vector:          "'vector'",
	Matrix:          "'matrix'",
	Void:            "'void'",
	Do:              "'do'",
	While:           "'while'",
	For:             "'for'",
	If:              "'if'",
	Else:            "'else'",
	Switch:          "'switch'",
	Case:            "'case'",
	Default:         "'default'",
	CtrlTransfer:    "control transfer",
	Return:          "'return'",
	Typedef:         "'typedef'",
	Struct:          "'struct'",
	Register:        "'register'",
	PackOffset:      "'packoffset'",
	Sampler:         "sampler type",
	SamplerState:    "sampler state",
	Buffer:          "buffer type",
	UniformBuffer:   "uniform buffer",
	InputModifier:   "input modifier",
	InterpModifier:  "interpolation modifier",
	TypeModifier:    "type modifier",
	StorageClass:    "storage class",
	Inline:          "'inline'",
	Technique:       "'technique'",
	Pass:            "'pass'",
	Directive:       "directive",
	DirectiveConcat: "'##'",
	Comment:         "comment",
	WhiteSpace:      "white space",
	NewLine:         "new line",
	LineBreak:       "line break",
	VarArg:          "'...'",
	EndOfStream:     "end of stream",
}

// Token pairs a kind with its spelling and the source area it was scanned
// from.  The optional comment carries the text of the nearest preceding
// comment, so declarations can retain their documentation.
type Token struct {
	kind    Kind
	spell   string
	area    source.Area
	comment string
}

// New constructs a token over a given area.
func New(kind Kind, spell string, area source.Area) *Token {
	return &Token{kind, spell, area, ""}
}

// Kind returns the token class.
func (t *Token) Kind() Kind {
	return t.kind
}

// Spell returns the exact spelling of this token.
func (t *Token) Spell() string {
	return t.spell
}

// Area returns the source area this token was scanned from.
func (t *Token) Area() source.Area {
	return t.area
}

// Pos returns the start position of this token.
func (t *Token) Pos() source.Position {
	return t.area.Pos()
}

// Comment returns the text of the comment attached to this token, if any.
func (t *Token) Comment() string {
	return t.comment
}

// SetComment attaches a comment to this token.
func (t *Token) SetComment(text string) {
	t.comment = text
}

// IsOfInterest reports whether this token is meaningful to the parser.
// White space, new lines, line continuations and comments are not.
func (t *Token) IsOfInterest() bool {
	switch t.kind {
	case WhiteSpace, NewLine, LineBreak, Comment:
		return false
	}

	return true
}
