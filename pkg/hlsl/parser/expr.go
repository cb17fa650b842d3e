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
package parser

import (
	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/hlsl/token"
)

// binaryPrec is the precedence ladder for binary operators; higher binds
// tighter.
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

// parseExprList parses a comma-separated expression sequence, collapsing a
// single entry to itself.
func (p *Parser) parseExprList() (ast.Expr, error) {
	start := p.tkn.Area()
	//
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	//
	if p.tkn.Kind() != token.Comma {
		return first, nil
	}
	//
	seq := &ast.SequenceExpr{ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(start)}}
	seq.Exprs = append(seq.Exprs, first)
	//
	for p.tkn.Kind() == token.Comma {
		p.acceptIt()
		//
		next, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		//
		seq.Exprs = append(seq.Exprs, next)
	}
	//
	return seq, nil
}

// parseExpr parses an expression at assignment level.
func (p *Parser) parseExpr() (ast.Expr, error) {
	lhs, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	//
	if p.tkn.Kind() != token.AssignOp {
		return lhs, nil
	}
	//
	op := p.acceptIt()
	// Assignment is right-associative.
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	//
	e := &ast.AssignExpr{
		ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(lhs.Area())},
		Lvalue:   lhs,
		Op:       op.Spell(),
		Rvalue:   rhs,
	}
	//
	return e, nil
}

// parseExprNoComma parses an expression where a comma separates list
// entries rather than sequencing.
func (p *Parser) parseExprNoComma() (ast.Expr, error) {
	return p.parseExpr()
}

// parseTernary parses a conditional expression.
func (p *Parser) parseTernary() (ast.Expr, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	//
	if p.tkn.Kind() != token.TernaryOp {
		return cond, nil
	}
	//
	p.acceptIt()
	//
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.Colon); err != nil {
		return nil, err
	}
	//
	elseExpr, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	//
	e := &ast.TernaryExpr{
		ExprBase:  ast.ExprBase{NodeBase: ast.NewNodeBase(cond.Area())},
		Condition: cond,
		Then:      then,
		Else:      elseExpr,
	}
	//
	return e, nil
}

// parseBinary parses binary operators by precedence climbing.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	//
	for p.tkn.Kind() == token.BinaryOp {
		spell := p.tkn.Spell()
		// Inside template brackets the closing '>' is not an operator.
		if p.activeTemplate && (spell == ">" || spell == ">>") {
			break
		}
		//
		prec, ok := binaryPrec[spell]
		if !ok || prec < minPrec {
			break
		}
		//
		p.acceptIt()
		//
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		//
		lhs = &ast.BinaryExpr{
			ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(lhs.Area())},
			Lhs:      lhs,
			Op:       spell,
			Rhs:      rhs,
		}
	}
	//
	return lhs, nil
}

// parseUnary parses prefix operators.
func (p *Parser) parseUnary() (ast.Expr, error) {
	isPrefix := p.tkn.Kind() == token.UnaryOp ||
		(p.tkn.Kind() == token.BinaryOp && (p.tkn.Spell() == "-" || p.tkn.Spell() == "+"))
	//
	if !isPrefix {
		return p.parsePostfix()
	}
	//
	op := p.acceptIt()
	//
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	//
	e := &ast.UnaryExpr{
		ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(op.Area())},
		Op:       op.Spell(),
		Operand:  operand,
	}
	//
	return e, nil
}

// parsePostfix parses a primary expression followed by member accesses,
// indexing, calls and postfix operators.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	//
	for {
		switch {
		case p.tkn.Kind() == token.Dot:
			p.acceptIt()
			//
			name, err := p.accept(token.Ident)
			if err != nil {
				return nil, err
			}
			//
			if p.tkn.Kind() == token.LBracket {
				if e, err = p.parseCallWith(e, name); err != nil {
					return nil, err
				}
				//
				continue
			}
			//
			e = &ast.ObjectExpr{
				ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(name.Area())},
				Prefix:   e,
				Ident:    name.Spell(),
			}
		case p.tkn.Kind() == token.LParen:
			idx := &ast.ArrayExpr{
				ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(e.Area())},
				Prefix:   e,
			}
			//
			for p.tkn.Kind() == token.LParen {
				p.acceptIt()
				//
				index, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				//
				if _, err := p.accept(token.RParen); err != nil {
					return nil, err
				}
				//
				idx.Indices = append(idx.Indices, index)
			}
			//
			e = idx
		case p.tkn.Kind() == token.UnaryOp && (p.tkn.Spell() == "++" || p.tkn.Spell() == "--"):
			op := p.acceptIt()
			//
			e = &ast.PostUnaryExpr{
				ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(e.Area())},
				Operand:  e,
				Op:       op.Spell(),
			}
		default:
			return e, nil
		}
	}
}

// parsePrimary parses the atoms of the expression grammar.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	// A speculatively parsed expression takes priority.
	if e := p.popExpr(); e != nil {
		return e, nil
	}
	//
	switch p.tkn.Kind() {
	case token.BoolLiteral, token.IntLiteral, token.FloatLiteral,
		token.StringLiteral, token.NullLiteral:
		t := p.acceptIt()
		//
		e := &ast.LiteralExpr{
			ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(t.Area())},
			Kind:     t.Kind(),
			Spell:    t.Spell(),
		}
		//
		return e, nil
	case token.LCurly:
		return p.parseInitializer()
	case token.LBracket:
		return p.parseBracketOrCast()
	case token.ScalarType, token.VectorType, token.MatrixType,
		token.Vector, token.Matrix:
		return p.parseTypeCtor()
	case token.Ident:
		return p.parseObjectOrCall()
	}
	//
	return nil, p.errorUnexpected("expression")
}

// parseInitializer parses a braced initializer list.
func (p *Parser) parseInitializer() (ast.Expr, error) {
	open := p.acceptIt()
	//
	e := &ast.InitializerExpr{ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(open.Area())}}
	//
	for p.tkn.Kind() != token.RCurly {
		sub, err := p.parseExprNoComma()
		if err != nil {
			return nil, err
		}
		//
		e.Exprs = append(e.Exprs, sub)
		//
		if p.tkn.Kind() != token.Comma {
			break
		}
		//
		p.acceptIt()
	}
	//
	if _, err := p.accept(token.RCurly); err != nil {
		return nil, err
	}
	//
	return e, nil
}

// parseTypeCtor parses a type constructor call such as "float4(...)".
func (p *Parser) parseTypeCtor() (ast.Expr, error) {
	start := p.tkn.Area()
	//
	spec := &ast.TypeSpecifier{NodeBase: ast.NewNodeBase(start)}
	if err := p.parseTypeDenoter(spec); err != nil {
		return nil, err
	}
	//
	if p.tkn.Kind() != token.LBracket {
		e := &ast.TypeSpecifierExpr{
			ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(start)},
			TypeSpec: spec,
		}
		//
		return e, nil
	}
	//
	call := &ast.CallExpr{
		ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(start)},
		TypeSpec: spec,
	}
	//
	if err := p.parseCallArgs(call); err != nil {
		return nil, err
	}
	//
	return call, nil
}

// parseObjectOrCall parses an identifier reference, a namespaced
// reference, or a call.
func (p *Parser) parseObjectOrCall() (ast.Expr, error) {
	name := p.acceptIt()
	namespace := ""
	//
	if p.tkn.Kind() == token.DColon {
		p.acceptIt()
		//
		namespace = name.Spell()
		//
		var err error
		if name, err = p.accept(token.Ident); err != nil {
			return nil, err
		}
	}
	//
	if p.tkn.Kind() == token.LBracket {
		call := &ast.CallExpr{
			ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(name.Area())},
			Ident:    name.Spell(),
		}
		//
		if err := p.parseCallArgs(call); err != nil {
			return nil, err
		}
		//
		return call, nil
	}
	//
	e := &ast.ObjectExpr{
		ExprBase:  ast.ExprBase{NodeBase: ast.NewNodeBase(name.Area())},
		Namespace: namespace,
		Ident:     name.Spell(),
	}
	//
	return e, nil
}

// parseCallArgs parses the parenthesized argument list of a call.
func (p *Parser) parseCallArgs(call *ast.CallExpr) error {
	if _, err := p.accept(token.LBracket); err != nil {
		return err
	}
	//
	for p.tkn.Kind() != token.RBracket {
		arg, err := p.parseExprNoComma()
		if err != nil {
			return err
		}
		//
		call.Args = append(call.Args, arg)
		//
		if p.tkn.Kind() != token.Comma {
			break
		}
		//
		p.acceptIt()
	}
	//
	_, err := p.accept(token.RBracket)
	//
	return err
}

// parseCallWith builds a member call whose prefix and name are already
// parsed.
func (p *Parser) parseCallWith(prefix ast.Expr, name *token.Token) (ast.Expr, error) {
	call := &ast.CallExpr{
		ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(name.Area())},
		Prefix:   prefix,
		Ident:    name.Spell(),
	}
	//
	if err := p.parseCallArgs(call); err != nil {
		return nil, err
	}
	//
	return call, nil
}

// parseBracketOrCast disambiguates "(expr)" from "(type) expr".  The
// content is a cast target when it forms a valid type denoter and the
// lookahead after the closing bracket begins a primary expression.
func (p *Parser) parseBracketOrCast() (ast.Expr, error) {
	open := p.acceptIt()
	//
	if !p.startsTypeDenoter() {
		return p.parseBracketed(open)
	}
	// Remember a lone identifier so "(X)" can fall back to a bracketed
	// object expression when X turns out not to be followed by an operand.
	var identTkn *token.Token
	if p.tkn.Kind() == token.Ident {
		identTkn = p.tkn
	}
	//
	spec := &ast.TypeSpecifier{NodeBase: ast.NewNodeBase(p.tkn.Area())}
	if err := p.parseTypeDenoter(spec); err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	if p.startsPrimary() {
		sub, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		//
		e := &ast.CastExpr{
			ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(open.Area())},
			TypeSpec: spec,
			Sub:      sub,
		}
		//
		return e, nil
	}
	//
	if identTkn != nil {
		obj := &ast.ObjectExpr{
			ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(identTkn.Area())},
			Ident:    identTkn.Spell(),
		}
		//
		e := &ast.BracketExpr{
			ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(open.Area())},
			Sub:      obj,
		}
		//
		return e, nil
	}
	//
	return nil, p.errorUnexpected("expression after cast")
}

// parseBracketed parses the remainder of a parenthesized expression.
func (p *Parser) parseBracketed(open *token.Token) (ast.Expr, error) {
	sub, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	e := &ast.BracketExpr{
		ExprBase: ast.ExprBase{NodeBase: ast.NewNodeBase(open.Area())},
		Sub:      sub,
	}
	//
	return e, nil
}

// startsTypeDenoter reports whether the lookahead can begin a type denoter
// in a cast.
func (p *Parser) startsTypeDenoter() bool {
	switch p.tkn.Kind() {
	case token.Void, token.ScalarType, token.VectorType, token.MatrixType,
		token.Vector, token.Matrix:
		return true
	case token.Ident:
		_, ok := p.findTypeName(p.tkn.Spell())
		return ok
	}
	//
	return false
}

// startsPrimary reports whether the lookahead can begin a primary
// expression.
func (p *Parser) startsPrimary() bool {
	switch p.tkn.Kind() {
	case token.Ident, token.BoolLiteral, token.IntLiteral, token.FloatLiteral,
		token.StringLiteral, token.NullLiteral, token.LBracket, token.LCurly,
		token.UnaryOp, token.ScalarType, token.VectorType, token.MatrixType,
		token.Vector, token.Matrix:
		return true
	case token.BinaryOp:
		return p.tkn.Spell() == "-" || p.tkn.Spell() == "+"
	}
	//
	return false
}
