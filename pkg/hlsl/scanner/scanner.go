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
	"strings"

	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/source"
)

// Mode selects how the scanner treats formatting tokens.  In preprocessor
// mode white space, new lines, line continuations and comments surface as
// distinct tokens; in language mode they are collapsed, with comments
// attached to the following token.
type Mode uint

// The two scanning modes.
const (
	LanguageMode Mode = iota
	PreProcessorMode
)

// Scanner produces a lazy token stream over a code stream.  It keeps a
// single-character lookahead, and a stack of pushed token strings which,
// while non-empty, replaces the character stream as the token source (used
// by macro expansion and "#if" expression evaluation).
type Scanner struct {
	src     *source.Code
	handler *report.Handler
	mode    Mode
	// Whether the Cg keyword superset is recognized.
	cg bool
	// Current (unconsumed) character and its position.
	chr rune
	pos source.Position
	// Comment text pending attachment to the next token (language mode).
	comment string
	// Stack of pushed token strings.
	stack []*token.Iterator
}

// New constructs a scanner in a given mode.  Reports are submitted through
// the given handler.
func New(mode Mode, handler *report.Handler, cg bool) *Scanner {
	return &Scanner{mode: mode, handler: handler, cg: cg}
}

// ScanSource installs the code stream to scan and primes the lookahead.
func (s *Scanner) ScanSource(src *source.Code) {
	s.src = src
	s.pos = src.Pos()
	s.chr = src.Next()
}

// Source returns the code stream currently being scanned.
func (s *Scanner) Source() *source.Code {
	return s.src
}

// Pos returns the position of the current lookahead character.
func (s *Scanner) Pos() source.Position {
	return s.pos
}

// PushTokenString injects a token string: until it is exhausted or popped,
// Next draws tokens from it instead of the character stream.
func (s *Scanner) PushTokenString(ts *token.String) {
	s.stack = append(s.stack, ts.Iter())
}

// PopTokenString removes the most recently pushed token string.
func (s *Scanner) PopTokenString() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
}

// HasPushedTokens reports whether any pushed token string is still being
// drained.
func (s *Scanner) HasPushedTokens() bool {
	return len(s.stack) > 0
}

// Next scans and returns the next token.  At the end of input an
// EndOfStream token is returned, repeatedly.
func (s *Scanner) Next() *token.Token {
	// Drain pushed token strings first.  Preprocessor mode replays them
	// verbatim; language mode skips tokens of no interest.
	for len(s.stack) > 0 {
		it := s.stack[len(s.stack)-1]
		//
		var t *token.Token
		if s.mode == PreProcessorMode {
			t = it.NextAny()
		} else {
			t = it.Next()
		}
		//
		if t != nil {
			return t
		}
		//
		s.stack = s.stack[:len(s.stack)-1]
	}
	//
	if s.mode == PreProcessorMode {
		return s.scan()
	}
	// Language mode collapses formatting tokens.
	for {
		t := s.scan()
		//
		switch t.Kind() {
		case token.WhiteSpace, token.NewLine, token.LineBreak:
			continue
		case token.Comment:
			s.comment = t.Spell()
			continue
		}
		//
		if s.comment != "" {
			t.SetComment(s.comment)
			s.comment = ""
		}
		//
		return t
	}
}

// take consumes the current character and returns it.
func (s *Scanner) take() rune {
	chr := s.chr
	s.pos = s.src.Pos()
	s.chr = s.src.Next()
	//
	return chr
}

// makeToken builds a token whose area starts at a given position and spans
// the spelling.
func (s *Scanner) makeToken(kind token.Kind, spell string, start source.Position) *token.Token {
	return token.New(kind, spell, source.NewArea(start, len([]rune(spell)), 0))
}

// errorAt submits a lexical error over a single character.
func (s *Scanner) errorAt(pos source.Position, msg string) {
	s.handler.Error(source.NewArea(pos, 1, 0), msg)
}

// scan produces the next raw token, including formatting tokens.
func (s *Scanner) scan() *token.Token {
	start := s.pos
	chr := s.chr
	//
	switch {
	case chr == 0:
		return s.makeToken(token.EndOfStream, "", start)
	case chr == ' ' || chr == '\t' || chr == '\r':
		var sb strings.Builder
		for s.chr == ' ' || s.chr == '\t' || s.chr == '\r' {
			sb.WriteRune(s.take())
		}
		//
		return s.makeToken(token.WhiteSpace, sb.String(), start)
	case chr == '\n':
		s.take()
		return s.makeToken(token.NewLine, "\n", start)
	case chr == '\\':
		return s.scanLineContinuation(start)
	case chr == '/':
		return s.scanSlash(start)
	case isIdentStart(chr):
		return s.scanIdent(start)
	case isDigit(chr):
		return s.scanNumber(start)
	case chr == '"':
		return s.scanString(start)
	case chr == '#':
		return s.scanDirective(start)
	}
	//
	return s.scanOperator(start)
}

func (s *Scanner) scanLineContinuation(start source.Position) *token.Token {
	s.take()
	// Tolerate a carriage return between the backslash and the newline.
	if s.chr == '\r' {
		s.take()
	}
	//
	if s.chr == '\n' {
		s.take()
		return s.makeToken(token.LineBreak, "\\\n", start)
	}
	//
	s.errorAt(start, "illegal character '\\'")
	//
	return s.makeToken(token.Unknown, "\\", start)
}

func (s *Scanner) scanSlash(start source.Position) *token.Token {
	s.take()
	//
	switch s.chr {
	case '/':
		var sb strings.Builder
		for s.chr != '\n' && s.chr != 0 {
			sb.WriteRune(s.take())
		}
		//
		return s.makeToken(token.Comment, "/"+sb.String(), start)
	case '*':
		s.take()
		//
		var sb strings.Builder
		sb.WriteString("/*")
		//
		for {
			if s.chr == 0 {
				s.errorAt(start, "unterminated comment")
				break
			}
			//
			chr := s.take()
			sb.WriteRune(chr)
			//
			if chr == '*' && s.chr == '/' {
				sb.WriteRune(s.take())
				break
			}
		}
		//
		return s.makeToken(token.Comment, sb.String(), start)
	case '=':
		s.take()
		return s.makeToken(token.AssignOp, "/=", start)
	}
	//
	return s.makeToken(token.BinaryOp, "/", start)
}

func (s *Scanner) scanIdent(start source.Position) *token.Token {
	var sb strings.Builder
	//
	for isIdentStart(s.chr) || isDigit(s.chr) {
		sb.WriteRune(s.take())
	}
	//
	spell := sb.String()
	//
	kind, err := ClassifyIdent(spell, s.cg)
	if err != nil {
		s.handler.Error(source.NewArea(start, len([]rune(spell)), 0), err.Error())
	}
	//
	return s.makeToken(kind, spell, start)
}

func (s *Scanner) scanNumber(start source.Position) *token.Token {
	var (
		sb      strings.Builder
		isFloat bool
		valid   = true
	)
	//
	if s.chr == '0' {
		sb.WriteRune(s.take())
		//
		switch s.chr {
		case 'x', 'X':
			sb.WriteRune(s.take())
			valid = s.digits(&sb, isHexDigit)
			//
			return s.finishInt(&sb, start, valid)
		case 'b', 'B':
			sb.WriteRune(s.take())
			valid = s.digits(&sb, func(c rune) bool { return c == '0' || c == '1' })
			//
			return s.finishInt(&sb, start, valid)
		}
	}
	//
	for isDigit(s.chr) {
		sb.WriteRune(s.take())
	}
	//
	if s.chr == '.' {
		isFloat = true
		sb.WriteRune(s.take())
		//
		for isDigit(s.chr) {
			sb.WriteRune(s.take())
		}
	}
	//
	if s.chr == 'e' || s.chr == 'E' {
		isFloat = true
		sb.WriteRune(s.take())
		//
		if s.chr == '+' || s.chr == '-' {
			sb.WriteRune(s.take())
		}
		//
		valid = s.digits(&sb, isDigit) && valid
	}
	//
	if s.chr == 'f' || s.chr == 'F' || s.chr == 'h' || s.chr == 'H' {
		isFloat = true
		sb.WriteRune(s.take())
	}
	// A trailing identifier character makes the whole literal malformed,
	// e.g. "123abc".
	if isIdentStart(s.chr) {
		for isIdentStart(s.chr) || isDigit(s.chr) {
			sb.WriteRune(s.take())
		}
		//
		valid = false
	}
	//
	spell := sb.String()
	//
	if !valid {
		s.handler.Error(source.NewArea(start, len([]rune(spell)), 0), "invalid numeric literal '"+spell+"'")
	}
	//
	kind := token.IntLiteral
	if isFloat {
		kind = token.FloatLiteral
	}
	//
	return s.makeToken(kind, spell, start)
}

// finishInt closes out a hex or binary literal, flagging any trailing
// identifier characters as malformed.
func (s *Scanner) finishInt(sb *strings.Builder, start source.Position, valid bool) *token.Token {
	if isIdentStart(s.chr) || isDigit(s.chr) {
		for isIdentStart(s.chr) || isDigit(s.chr) {
			sb.WriteRune(s.take())
		}
		//
		valid = false
	}
	//
	spell := sb.String()
	//
	if !valid {
		s.handler.Error(source.NewArea(start, len([]rune(spell)), 0), "invalid numeric literal '"+spell+"'")
	}
	//
	return s.makeToken(token.IntLiteral, spell, start)
}

// digits consumes a non-empty run of digits accepted by a predicate,
// reporting failure when the run is empty.
func (s *Scanner) digits(sb *strings.Builder, accept func(rune) bool) bool {
	ok := false
	//
	for accept(s.chr) {
		sb.WriteRune(s.take())
		ok = true
	}
	//
	return ok
}

func (s *Scanner) scanString(start source.Position) *token.Token {
	var sb strings.Builder
	//
	sb.WriteRune(s.take())
	//
	for s.chr != '"' {
		if s.chr == '\n' || s.chr == 0 {
			s.errorAt(start, "unterminated string literal")
			return s.makeToken(token.StringLiteral, sb.String(), start)
		}
		//
		sb.WriteRune(s.take())
	}
	//
	sb.WriteRune(s.take())
	//
	return s.makeToken(token.StringLiteral, sb.String(), start)
}

func (s *Scanner) scanDirective(start source.Position) *token.Token {
	s.take()
	//
	if s.chr == '#' {
		s.take()
		return s.makeToken(token.DirectiveConcat, "##", start)
	}
	// White space is permitted between '#' and the directive name.
	for s.chr == ' ' || s.chr == '\t' {
		s.take()
	}
	//
	if !isIdentStart(s.chr) {
		s.errorAt(start, "expected directive name after '#'")
		return s.makeToken(token.Directive, "", start)
	}
	//
	var sb strings.Builder
	for isIdentStart(s.chr) || isDigit(s.chr) {
		sb.WriteRune(s.take())
	}
	//
	return s.makeToken(token.Directive, sb.String(), start)
}

func (s *Scanner) scanOperator(start source.Position) *token.Token {
	chr := s.take()
	//
	switch chr {
	case '(':
		return s.makeToken(token.LBracket, "(", start)
	case ')':
		return s.makeToken(token.RBracket, ")", start)
	case '{':
		return s.makeToken(token.LCurly, "{", start)
	case '}':
		return s.makeToken(token.RCurly, "}", start)
	case '[':
		return s.makeToken(token.LParen, "[", start)
	case ']':
		return s.makeToken(token.RParen, "]", start)
	case ';':
		return s.makeToken(token.Semicolon, ";", start)
	case ',':
		return s.makeToken(token.Comma, ",", start)
	case '?':
		return s.makeToken(token.TernaryOp, "?", start)
	case '~':
		return s.makeToken(token.UnaryOp, "~", start)
	case '.':
		if s.chr == '.' {
			s.take()
			//
			if s.chr == '.' {
				s.take()
				return s.makeToken(token.VarArg, "...", start)
			}
			//
			s.errorAt(start, "illegal character sequence '..'")
			//
			return s.makeToken(token.Unknown, "..", start)
		}
		//
		return s.makeToken(token.Dot, ".", start)
	case ':':
		if s.chr == ':' {
			s.take()
			return s.makeToken(token.DColon, "::", start)
		}
		//
		return s.makeToken(token.Colon, ":", start)
	case '=':
		if s.chr == '=' {
			s.take()
			return s.makeToken(token.BinaryOp, "==", start)
		}
		//
		return s.makeToken(token.AssignOp, "=", start)
	case '!':
		if s.chr == '=' {
			s.take()
			return s.makeToken(token.BinaryOp, "!=", start)
		}
		//
		return s.makeToken(token.UnaryOp, "!", start)
	case '+':
		switch s.chr {
		case '+':
			s.take()
			return s.makeToken(token.UnaryOp, "++", start)
		case '=':
			s.take()
			return s.makeToken(token.AssignOp, "+=", start)
		}
		//
		return s.makeToken(token.BinaryOp, "+", start)
	case '-':
		switch s.chr {
		case '-':
			s.take()
			return s.makeToken(token.UnaryOp, "--", start)
		case '=':
			s.take()
			return s.makeToken(token.AssignOp, "-=", start)
		}
		//
		return s.makeToken(token.BinaryOp, "-", start)
	case '*':
		if s.chr == '=' {
			s.take()
			return s.makeToken(token.AssignOp, "*=", start)
		}
		//
		return s.makeToken(token.BinaryOp, "*", start)
	case '%':
		if s.chr == '=' {
			s.take()
			return s.makeToken(token.AssignOp, "%=", start)
		}
		//
		return s.makeToken(token.BinaryOp, "%", start)
	case '&':
		switch s.chr {
		case '&':
			s.take()
			return s.makeToken(token.BinaryOp, "&&", start)
		case '=':
			s.take()
			return s.makeToken(token.AssignOp, "&=", start)
		}
		//
		return s.makeToken(token.BinaryOp, "&", start)
	case '|':
		switch s.chr {
		case '|':
			s.take()
			return s.makeToken(token.BinaryOp, "||", start)
		case '=':
			s.take()
			return s.makeToken(token.AssignOp, "|=", start)
		}
		//
		return s.makeToken(token.BinaryOp, "|", start)
	case '^':
		if s.chr == '=' {
			s.take()
			return s.makeToken(token.AssignOp, "^=", start)
		}
		//
		return s.makeToken(token.BinaryOp, "^", start)
	case '<':
		switch s.chr {
		case '=':
			s.take()
			return s.makeToken(token.BinaryOp, "<=", start)
		case '<':
			s.take()
			//
			if s.chr == '=' {
				s.take()
				return s.makeToken(token.AssignOp, "<<=", start)
			}
			//
			return s.makeToken(token.BinaryOp, "<<", start)
		}
		//
		return s.makeToken(token.BinaryOp, "<", start)
	case '>':
		switch s.chr {
		case '=':
			s.take()
			return s.makeToken(token.BinaryOp, ">=", start)
		case '>':
			s.take()
			//
			if s.chr == '=' {
				s.take()
				return s.makeToken(token.AssignOp, ">>=", start)
			}
			//
			return s.makeToken(token.BinaryOp, ">>", start)
		}
		//
		return s.makeToken(token.BinaryOp, ">", start)
	}
	//
	s.errorAt(start, "illegal character '"+string(chr)+"'")
	//
	return s.makeToken(token.Unknown, string(chr), start)
}

func isIdentStart(chr rune) bool {
	return (chr >= 'a' && chr <= 'z') || (chr >= 'A' && chr <= 'Z') || chr == '_'
}

func isDigit(chr rune) bool {
	return chr >= '0' && chr <= '9'
}

func isHexDigit(chr rune) bool {
	return isDigit(chr) || (chr >= 'a' && chr <= 'f') || (chr >= 'A' && chr <= 'F')
}
