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
	"testing"

	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/assert"
	"github.com/xsclang/xsc/pkg/util/source"
)

// scanAll collects all tokens of a given input in a given mode.
func scanAll(input string, mode Mode, cg bool) ([]*token.Token, *report.MemoryLog) {
	log := &report.MemoryLog{}
	handler := report.NewHandler(report.Lexical, log)
	//
	s := New(mode, handler, cg)
	s.ScanSource(source.NewCode("test.hlsl", input))
	//
	var tokens []*token.Token
	//
	for {
		t := s.Next()
		if t.Kind() == token.EndOfStream {
			break
		}
		//
		tokens = append(tokens, t)
	}
	//
	return tokens, log
}

// checkTokens asserts the (kind, spelling) sequence of a language-mode
// scan.
func checkTokens(t *testing.T, input string, expected ...any) {
	tokens, log := scanAll(input, LanguageMode, false)
	//
	assert.Equal(t, 0, log.Count(report.Error), "unexpected errors for %q", input)
	assert.Equal(t, len(expected)/2, len(tokens), "token count for %q", input)
	//
	for i, tkn := range tokens {
		assert.Equal(t, expected[i*2], tkn.Kind(), "kind at %d for %q", i, input)
		assert.Equal(t, expected[i*2+1], tkn.Spell(), "spelling at %d for %q", i, input)
	}
}

func TestScanner_00(t *testing.T) {
	checkTokens(t, "")
}

func TestScanner_01(t *testing.T) {
	checkTokens(t, "int x;",
		token.ScalarType, "int",
		token.Ident, "x",
		token.Semicolon, ";",
	)
}

func TestScanner_02(t *testing.T) {
	checkTokens(t, "float4 color = tex.rgba;",
		token.VectorType, "float4",
		token.Ident, "color",
		token.AssignOp, "=",
		token.Ident, "tex",
		token.Dot, ".",
		token.Ident, "rgba",
		token.Semicolon, ";",
	)
}

func TestScanner_03(t *testing.T) {
	// Longest-match operators.
	checkTokens(t, "a <<= b >> c <= d << e",
		token.Ident, "a",
		token.AssignOp, "<<=",
		token.Ident, "b",
		token.BinaryOp, ">>",
		token.Ident, "c",
		token.BinaryOp, "<=",
		token.Ident, "d",
		token.BinaryOp, "<<",
		token.Ident, "e",
	)
}

func TestScanner_04(t *testing.T) {
	checkTokens(t, "x++ + ++y",
		token.Ident, "x",
		token.UnaryOp, "++",
		token.BinaryOp, "+",
		token.UnaryOp, "++",
		token.Ident, "y",
	)
}

func TestScanner_05(t *testing.T) {
	// Numeric literal forms.
	checkTokens(t, "0 123 0x1F 0b101 1.5 2.5e-3 4.0f .0",
		token.IntLiteral, "0",
		token.IntLiteral, "123",
		token.IntLiteral, "0x1F",
		token.IntLiteral, "0b101",
		token.FloatLiteral, "1.5",
		token.FloatLiteral, "2.5e-3",
		token.FloatLiteral, "4.0f",
		token.Dot, ".",
		token.IntLiteral, "0",
	)
}

func TestScanner_06(t *testing.T) {
	checkTokens(t, "matrix<float, 3, 3> m;",
		token.Matrix, "matrix",
		token.BinaryOp, "<",
		token.ScalarType, "float",
		token.Comma, ",",
		token.IntLiteral, "3",
		token.Comma, ",",
		token.IntLiteral, "3",
		token.BinaryOp, ">",
		token.Ident, "m",
		token.Semicolon, ";",
	)
}

func TestScanner_07(t *testing.T) {
	checkTokens(t, "a :: b ? c : d",
		token.Ident, "a",
		token.DColon, "::",
		token.Ident, "b",
		token.TernaryOp, "?",
		token.Ident, "c",
		token.Colon, ":",
		token.Ident, "d",
	)
}

func TestScanner_08(t *testing.T) {
	// Keyword classification.
	checkTokens(t, "cbuffer Texture2D SamplerState discard return",
		token.UniformBuffer, "cbuffer",
		token.Buffer, "Texture2D",
		token.Sampler, "SamplerState",
		token.CtrlTransfer, "discard",
		token.Return, "return",
	)
}

func TestScanner_09(t *testing.T) {
	// Comments collapse in language mode and attach to the next token.
	tokens, log := scanAll("// leading\nint x;", LanguageMode, false)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	assert.Equal(t, 3, len(tokens))
	assert.Equal(t, "// leading", tokens[0].Comment())
}

func TestScanner_10(t *testing.T) {
	// Preprocessor mode surfaces formatting tokens.
	tokens, log := scanAll("a \\\nb\n", PreProcessorMode, false)
	//
	assert.Equal(t, 0, log.Count(report.Error))
	//
	kinds := make([]token.Kind, len(tokens))
	for i, tkn := range tokens {
		kinds[i] = tkn.Kind()
	}
	//
	assert.Equal(t, []token.Kind{
		token.Ident, token.WhiteSpace, token.LineBreak, token.Ident, token.NewLine,
	}, kinds)
}

func TestScanner_11(t *testing.T) {
	// Directives carry their name as the spelling.
	tokens, _ := scanAll("#include \"common.hlsl\"\n", PreProcessorMode, false)
	//
	assert.Equal(t, token.Directive, tokens[0].Kind())
	assert.Equal(t, "include", tokens[0].Spell())
}

func TestScanner_12(t *testing.T) {
	// A reserved keyword raises a lexical error.
	_, log := scanAll("template", LanguageMode, false)
	//
	assert.Equal(t, 1, log.Count(report.Error))
	assert.NotNil(t, log.Find("reserved keyword"))
}

func TestScanner_13(t *testing.T) {
	// An unsupported keyword raises a distinct error.
	_, log := scanAll("interface", LanguageMode, false)
	//
	assert.Equal(t, 1, log.Count(report.Error))
	assert.NotNil(t, log.Find("not supported"))
}

func TestScanner_14(t *testing.T) {
	// Malformed numeric literals.
	_, log := scanAll("123abc", LanguageMode, false)
	assert.NotNil(t, log.Find("invalid numeric literal"))
	//
	_, log = scanAll("0x", LanguageMode, false)
	assert.NotNil(t, log.Find("invalid numeric literal"))
}

func TestScanner_15(t *testing.T) {
	// Unterminated constructs.
	_, log := scanAll("\"abc", LanguageMode, false)
	assert.NotNil(t, log.Find("unterminated string"))
	//
	_, log = scanAll("/* abc", LanguageMode, false)
	assert.NotNil(t, log.Find("unterminated comment"))
}

func TestScanner_16(t *testing.T) {
	// The Cg keyword superset is gated.
	tokens, _ := scanAll("fixed4 c;", LanguageMode, true)
	assert.Equal(t, token.VectorType, tokens[0].Kind())
	//
	tokens, _ = scanAll("fixed4 c;", LanguageMode, false)
	assert.Equal(t, token.Ident, tokens[0].Kind())
}

func TestScanner_17(t *testing.T) {
	// Pushed token strings replace the stream until exhausted.
	log := &report.MemoryLog{}
	handler := report.NewHandler(report.Lexical, log)
	//
	s := New(LanguageMode, handler, false)
	s.ScanSource(source.NewCode("test.hlsl", "tail"))
	//
	injected := token.NewString(
		token.New(token.Ident, "head", source.Area{}),
	)
	s.PushTokenString(injected)
	//
	assert.Equal(t, "head", s.Next().Spell())
	assert.Equal(t, "tail", s.Next().Spell())
	assert.Equal(t, token.EndOfStream, s.Next().Kind())
}
