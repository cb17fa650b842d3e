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

// parseCodeBlock parses a braced statement sequence, opening a fresh
// type-name scope for its duration.
func (p *Parser) parseCodeBlock() (*ast.CodeBlock, error) {
	open, err := p.accept(token.LCurly)
	if err != nil {
		return nil, err
	}
	//
	p.openTypeScope()
	defer p.closeTypeScope()
	//
	block := &ast.CodeBlock{NodeBase: ast.NewNodeBase(open.Area())}
	//
	for p.tkn.Kind() != token.RCurly {
		if p.tkn.Kind() == token.EndOfStream {
			return nil, p.errorUnexpected("'}'")
		}
		//
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		//
		block.Stmts = append(block.Stmts, stmt)
	}
	//
	p.acceptIt()
	//
	return block, nil
}

// parseStmt parses a single statement.
func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.tkn.Kind() {
	case token.Semicolon:
		t := p.acceptIt()
		//
		s := &ast.NullStmt{NodeBase: ast.NewNodeBase(t.Area())}
		return s, nil
	case token.LCurly:
		start := p.tkn.Area()
		//
		body, err := p.parseCodeBlock()
		if err != nil {
			return nil, err
		}
		//
		s := &ast.ScopeStmt{NodeBase: ast.NewNodeBase(start), Body: body}
		return s, nil
	case token.LParen:
		return p.parseAttributedStmt()
	case token.CtrlTransfer:
		t := p.acceptIt()
		//
		s := &ast.CtrlTransferStmt{NodeBase: ast.NewNodeBase(t.Area()), Transfer: t.Spell()}
		//
		if _, err := p.accept(token.Semicolon); err != nil {
			return nil, err
		}
		//
		return s, nil
	case token.Return:
		return p.parseReturnStmt()
	case token.If:
		return p.parseIfStmt(nil)
	case token.For:
		return p.parseForStmt(nil)
	case token.While:
		return p.parseWhileStmt(nil)
	case token.Do:
		return p.parseDoWhileStmt(nil)
	case token.Switch:
		return p.parseSwitchStmt(nil)
	case token.Typedef:
		return p.parseAliasDeclStmt()
	case token.Struct:
		return p.parseStructDeclStmt()
	case token.Sampler:
		return p.parseSamplerDeclStmt()
	case token.Buffer:
		return p.parseBufferDeclStmt()
	case token.Void, token.ScalarType, token.VectorType, token.MatrixType,
		token.Vector, token.Matrix, token.TypeModifier, token.StorageClass,
		token.InterpModifier:
		return p.parseLocalVarDeclStmt()
	case token.Ident:
		if _, isType := p.findTypeName(p.tkn.Spell()); isType {
			return p.parseLocalVarDeclStmt()
		}
		// Parse the leading primary speculatively and pocket it for the
		// expression-statement rule.
		e, err := p.parseObjectOrCall()
		if err != nil {
			return nil, err
		}
		//
		p.pushExpr(e)
	case token.PackOffset:
		return nil, p.handler.Throw(p.tkn.Area(), "packoffset is not allowed at statement scope")
	}
	//
	return p.parseExprStmt()
}

// parseAttributedStmt parses attributes followed by the statement they
// decorate.
func (p *Parser) parseAttributedStmt() (ast.Stmt, error) {
	attribs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}
	//
	switch p.tkn.Kind() {
	case token.If:
		return p.parseIfStmt(attribs)
	case token.For:
		return p.parseForStmt(attribs)
	case token.While:
		return p.parseWhileStmt(attribs)
	case token.Do:
		return p.parseDoWhileStmt(attribs)
	case token.Switch:
		return p.parseSwitchStmt(attribs)
	}
	//
	return nil, p.errorUnexpected("loop, conditional or switch after attributes")
}

// parseLocalVarDeclStmt parses a local variable declaration statement.
func (p *Parser) parseLocalVarDeclStmt() (ast.Stmt, error) {
	start := p.tkn.Area()
	//
	spec, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	//
	return p.parseVarDeclStmtWith(spec, start)
}

// parseReturnStmt parses "return [expr];".
func (p *Parser) parseReturnStmt() (ast.Stmt, error) {
	kw := p.acceptIt()
	//
	s := &ast.ReturnStmt{NodeBase: ast.NewNodeBase(kw.Area())}
	//
	if p.tkn.Kind() != token.Semicolon {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		//
		s.Expr = expr
	}
	//
	if _, err := p.accept(token.Semicolon); err != nil {
		return nil, err
	}
	//
	return s, nil
}

// parseIfStmt parses "if (cond) stmt [else stmt]".
func (p *Parser) parseIfStmt(attribs []*ast.Attribute) (ast.Stmt, error) {
	kw := p.acceptIt()
	//
	s := &ast.IfStmt{NodeBase: ast.NewNodeBase(kw.Area()), Attribs: attribs}
	//
	if _, err := p.accept(token.LBracket); err != nil {
		return nil, err
	}
	//
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	//
	s.Condition = cond
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	if s.Body, err = p.parseStmt(); err != nil {
		return nil, err
	}
	//
	if p.tkn.Kind() == token.Else {
		p.acceptIt()
		//
		if s.ElseBody, err = p.parseStmt(); err != nil {
			return nil, err
		}
	}
	//
	return s, nil
}

// parseForStmt parses "for (init; cond; iter) stmt".
func (p *Parser) parseForStmt(attribs []*ast.Attribute) (ast.Stmt, error) {
	kw := p.acceptIt()
	//
	s := &ast.ForStmt{NodeBase: ast.NewNodeBase(kw.Area()), Attribs: attribs}
	//
	if _, err := p.accept(token.LBracket); err != nil {
		return nil, err
	}
	// The initializer scope extends over the whole loop.
	p.openTypeScope()
	defer p.closeTypeScope()
	//
	init, err := p.parseForInit()
	if err != nil {
		return nil, err
	}
	//
	s.Init = init
	//
	if p.tkn.Kind() != token.Semicolon {
		if s.Condition, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	//
	if _, err := p.accept(token.Semicolon); err != nil {
		return nil, err
	}
	//
	if p.tkn.Kind() != token.RBracket {
		if s.Iteration, err = p.parseExprList(); err != nil {
			return nil, err
		}
	}
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	if s.Body, err = p.parseStmt(); err != nil {
		return nil, err
	}
	//
	return s, nil
}

// parseForInit parses the initializer of a for loop: empty, a variable
// declaration or an expression.
func (p *Parser) parseForInit() (ast.Stmt, error) {
	switch p.tkn.Kind() {
	case token.Semicolon:
		t := p.acceptIt()
		//
		s := &ast.NullStmt{NodeBase: ast.NewNodeBase(t.Area())}
		return s, nil
	case token.ScalarType, token.VectorType, token.MatrixType, token.Vector,
		token.Matrix, token.TypeModifier, token.StorageClass:
		return p.parseLocalVarDeclStmt()
	case token.Ident:
		if _, isType := p.findTypeName(p.tkn.Spell()); isType {
			return p.parseLocalVarDeclStmt()
		}
	}
	//
	return p.parseExprStmt()
}

// parseWhileStmt parses "while (cond) stmt".
func (p *Parser) parseWhileStmt(attribs []*ast.Attribute) (ast.Stmt, error) {
	kw := p.acceptIt()
	//
	s := &ast.WhileStmt{NodeBase: ast.NewNodeBase(kw.Area()), Attribs: attribs}
	//
	if _, err := p.accept(token.LBracket); err != nil {
		return nil, err
	}
	//
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	//
	s.Condition = cond
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	if s.Body, err = p.parseStmt(); err != nil {
		return nil, err
	}
	//
	return s, nil
}

// parseDoWhileStmt parses "do stmt while (cond);".
func (p *Parser) parseDoWhileStmt(attribs []*ast.Attribute) (ast.Stmt, error) {
	kw := p.acceptIt()
	//
	s := &ast.DoWhileStmt{NodeBase: ast.NewNodeBase(kw.Area()), Attribs: attribs}
	//
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	//
	s.Body = body
	//
	if _, err := p.accept(token.While); err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.LBracket); err != nil {
		return nil, err
	}
	//
	if s.Condition, err = p.parseExpr(); err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.Semicolon); err != nil {
		return nil, err
	}
	//
	return s, nil
}

// parseSwitchStmt parses "switch (selector) { cases }".
func (p *Parser) parseSwitchStmt(attribs []*ast.Attribute) (ast.Stmt, error) {
	kw := p.acceptIt()
	//
	s := &ast.SwitchStmt{NodeBase: ast.NewNodeBase(kw.Area()), Attribs: attribs}
	//
	if _, err := p.accept(token.LBracket); err != nil {
		return nil, err
	}
	//
	selector, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	//
	s.Selector = selector
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.LCurly); err != nil {
		return nil, err
	}
	//
	for p.tkn.Kind() != token.RCurly {
		c, err := p.parseSwitchCase()
		if err != nil {
			return nil, err
		}
		//
		s.Cases = append(s.Cases, c)
	}
	//
	p.acceptIt()
	//
	return s, nil
}

// parseSwitchCase parses one "case expr:" or "default:" with its
// statements.
func (p *Parser) parseSwitchCase() (*ast.SwitchCase, error) {
	c := &ast.SwitchCase{NodeBase: ast.NewNodeBase(p.tkn.Area())}
	//
	switch p.tkn.Kind() {
	case token.Case:
		p.acceptIt()
		//
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		//
		c.Expr = expr
	case token.Default:
		p.acceptIt()
	default:
		return nil, p.errorUnexpected("'case' or 'default'")
	}
	//
	if _, err := p.accept(token.Colon); err != nil {
		return nil, err
	}
	//
	for {
		switch p.tkn.Kind() {
		case token.Case, token.Default, token.RCurly:
			return c, nil
		case token.EndOfStream:
			return nil, p.errorUnexpected("'}'")
		}
		//
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		//
		c.Stmts = append(c.Stmts, stmt)
	}
}

// parseExprStmt parses an expression statement, including comma sequences.
func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	start := p.tkn.Area()
	//
	expr, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.Semicolon); err != nil {
		return nil, err
	}
	//
	s := &ast.ExprStmt{NodeBase: ast.NewNodeBase(start), Expr: expr}
	//
	return s, nil
}
