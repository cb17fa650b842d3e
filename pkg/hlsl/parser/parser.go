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

// Package parser builds the AST from the preprocessed token stream.  It is
// a recursive-descent parser with a scoped type-name table which
// disambiguates cast expressions, and a template state for the angle
// brackets of generic types.
package parser

import (
	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/hlsl/scanner"
	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/source"
)

// typeNameKind distinguishes what a registered type name refers to.
type typeNameKind byte

const (
	typeNameStruct typeNameKind = iota
	typeNameAlias
)

// Parser holds the explicit state of the recursive descent.
type Parser struct {
	scn     *scanner.Scanner
	handler *report.Handler
	// Single-token lookahead.
	tkn *token.Token
	// Second half of a '>>' split inside template brackets.
	stash *token.Token
	// Program under construction.
	prog *ast.Program
	// Scoped set of known type names, for cast disambiguation.
	typeNames []map[string]typeNameKind
	// Whether the parser is inside the angle brackets of a generic type.
	activeTemplate bool
	// Default matrix alignment installed by "#pragma pack_matrix", or "".
	packAlignment string
	// Single-slot pocket for a speculatively parsed primary expression.
	pushedExpr ast.Expr
}

// predefinedAliases are the builtin type aliases every program starts
// with.  They are registered as type names by the parser and declared as
// builtin alias declarations by the analyzer.
var predefinedAliases = map[string]string{
	"DWORD":  "uint",
	"FLOAT":  "float",
	"VECTOR": "float4",
	"MATRIX": "float4x4",
	"STRING": "",
}

// ParseSource parses a preprocessed source stream into a program.  Reports
// go through the handler; a best-effort program is returned even in the
// presence of syntax errors.
func ParseSource(src *source.Code, handler *report.Handler, cg bool) *ast.Program {
	p := &Parser{
		scn:     scanner.New(scanner.LanguageMode, handler, cg),
		handler: handler,
		prog:    ast.NewProgram(src),
	}
	// Global type-name scope with the predefined aliases.
	p.typeNames = append(p.typeNames, map[string]typeNameKind{})
	//
	for name := range predefinedAliases {
		p.typeNames[0][name] = typeNameAlias
	}
	//
	p.scn.ScanSource(src)
	handler.SetSource(src)
	p.next()
	//
	for p.tkn.Kind() != token.EndOfStream {
		stmt, err := p.parseGlobalStmt()
		//
		if err != nil {
			p.recover(err)
			continue
		}
		//
		if stmt != nil {
			p.prog.GlobalStmts = append(p.prog.GlobalStmts, stmt)
		}
	}
	//
	return p.prog
}

// next advances the lookahead, transparently handling the "#line" and
// "#pragma" directives the preprocessor forwards.
func (p *Parser) next() {
	if p.stash != nil {
		p.tkn = p.stash
		p.stash = nil
		//
		return
	}
	//
	for {
		t := p.scn.Next()
		//
		if t.Kind() != token.Directive {
			p.tkn = t
			return
		}
		//
		p.parseStreamDirective(t)
	}
}

// accept consumes the lookahead when it has the expected kind, and fails
// with an "unexpected token" report otherwise.
func (p *Parser) accept(kind token.Kind) (*token.Token, error) {
	if p.tkn.Kind() != kind {
		return nil, p.errorUnexpected(kind.String())
	}
	//
	return p.acceptIt(), nil
}

// acceptIt consumes and returns the lookahead unconditionally.
func (p *Parser) acceptIt() *token.Token {
	t := p.tkn
	p.next()
	//
	return t
}

// acceptTemplateClose consumes a '>' inside template brackets, splitting a
// '>>' shift token in two when necessary.
func (p *Parser) acceptTemplateClose() error {
	switch {
	case p.tkn.Kind() == token.BinaryOp && p.tkn.Spell() == ">":
		p.acceptIt()
		return nil
	case p.tkn.Kind() == token.BinaryOp && p.tkn.Spell() == ">>":
		area := p.tkn.Area()
		p.stash = token.New(token.BinaryOp, ">", area.WithOffset(-1))
		p.next()
		//
		return nil
	}
	//
	return p.errorUnexpected("'>'")
}

// errorUnexpected reports the current token as unexpected and returns the
// report for unwinding.
func (p *Parser) errorUnexpected(expected string) error {
	msg := "unexpected token '" + p.tkn.Spell() + "'"
	if p.tkn.Kind() == token.EndOfStream {
		msg = "unexpected end of stream"
	}
	//
	if expected != "" {
		msg += " (expected " + expected + ")"
	}
	//
	return p.handler.Throw(p.tkn.Area(), msg)
}

// recover submits a thrown report and skips ahead to the next plausible
// statement start.
func (p *Parser) recover(err error) {
	if r, ok := err.(*report.Report); ok {
		p.handler.SubmitReport(r)
	} else {
		p.handler.Error(p.tkn.Area(), err.Error())
	}
	//
	for {
		switch p.tkn.Kind() {
		case token.EndOfStream:
			return
		case token.Semicolon, token.RCurly:
			p.acceptIt()
			return
		case token.Typedef, token.Struct, token.UniformBuffer, token.Void,
			token.ScalarType, token.VectorType, token.MatrixType,
			token.Return, token.If, token.For, token.While, token.Do,
			token.Switch, token.LCurly:
			return
		}
		//
		p.acceptIt()
	}
}

// parseStreamDirective interprets a directive which survived
// preprocessing.  Only "#line" and "#pragma pack_matrix" are expected.
func (p *Parser) parseStreamDirective(t *token.Token) {
	switch t.Spell() {
	case "line":
		num := p.scn.Next()
		if num.Kind() != token.IntLiteral {
			p.handler.Error(t.Area(), "expected line number after '#line'")
			return
		}
		//
		row := 0
		for _, c := range num.Spell() {
			row = row*10 + int(c-'0')
		}
		//
		filename := p.scn.Source().Name()
		next := p.scn.Next()
		//
		if next.Kind() == token.StringLiteral {
			spell := next.Spell()
			filename = spell[1 : len(spell)-1]
		} else if next.Kind() != token.EndOfStream {
			// Not part of the directive; the lookahead machinery will
			// see it next.
			p.scn.PushTokenString(token.NewString(next))
		}
		//
		p.scn.Source().SetOrigin(filename, row, t.Pos().PhysicalRow())
	case "pragma":
		p.parsePragmaDirective(t)
	default:
		p.handler.Error(t.Area(), "unexpected directive '#"+t.Spell()+"'")
	}
}

// parsePragmaDirective handles "#pragma pack_matrix(...)": it installs the
// default matrix alignment for subsequent type specifiers.
func (p *Parser) parsePragmaDirective(t *token.Token) {
	name := p.scn.Next()
	//
	if name.Spell() != "pack_matrix" {
		p.handler.Warning(t.Area(), "unknown pragma '"+name.Spell()+"' ignored")
		return
	}
	//
	if open := p.scn.Next(); open.Kind() != token.LBracket {
		p.handler.Error(t.Area(), "expected '(' after 'pack_matrix'")
		return
	}
	//
	alignment := p.scn.Next()
	//
	switch alignment.Spell() {
	case "row_major", "column_major":
		p.packAlignment = alignment.Spell()
	default:
		p.handler.Error(alignment.Area(), "expected 'row_major' or 'column_major'")
		return
	}
	//
	if closing := p.scn.Next(); closing.Kind() != token.RBracket {
		p.handler.Error(t.Area(), "missing ')' after 'pack_matrix'")
	}
}

// openTypeScope enters a new scope of known type names.
func (p *Parser) openTypeScope() {
	p.typeNames = append(p.typeNames, map[string]typeNameKind{})
}

// closeTypeScope leaves the innermost type-name scope.
func (p *Parser) closeTypeScope() {
	p.typeNames = p.typeNames[:len(p.typeNames)-1]
}

// registerTypeName records an identifier as a type name in the current
// scope.
func (p *Parser) registerTypeName(name string, kind typeNameKind) {
	p.typeNames[len(p.typeNames)-1][name] = kind
}

// findTypeName looks an identifier up across all type-name scopes.
func (p *Parser) findTypeName(name string) (typeNameKind, bool) {
	for i := len(p.typeNames) - 1; i >= 0; i-- {
		if k, ok := p.typeNames[i][name]; ok {
			return k, true
		}
	}
	//
	return 0, false
}

// pushExpr stores a speculatively parsed primary expression for the next
// rule to pop instead of re-parsing.
func (p *Parser) pushExpr(e ast.Expr) {
	p.pushedExpr = e
}

// popExpr removes and returns the pocketed expression, if any.
func (p *Parser) popExpr() ast.Expr {
	e := p.pushedExpr
	p.pushedExpr = nil
	//
	return e
}
