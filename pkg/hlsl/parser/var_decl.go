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
	"strconv"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/util/source"
)

// parseFunctionOrVarDecl parses a global declaration which starts with
// attributes and a type specifier: either a function or a run of variables.
func (p *Parser) parseFunctionOrVarDecl() (ast.Stmt, error) {
	start := p.tkn.Area()
	//
	attribs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}
	//
	spec, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	// An inline structure declaration may stand alone.
	if spec.StructDecl != nil && p.tkn.Kind() == token.Semicolon {
		p.acceptIt()
		//
		s := &ast.StructDeclStmt{NodeBase: ast.NewNodeBase(start), Decl: spec.StructDecl}
		return s, nil
	}
	//
	name, err := p.accept(token.Ident)
	if err != nil {
		return nil, err
	}
	//
	if p.tkn.Kind() == token.LBracket {
		return p.parseFunctionDeclWith(attribs, spec, name)
	}
	//
	if len(attribs) > 0 {
		p.handler.Warning(start, "attributes on variable declarations are ignored")
	}
	//
	return p.parseVarDeclStmtFirst(spec, name, start)
}

// parseFunctionDeclWith parses a function declaration whose return type and
// name have already been consumed.
func (p *Parser) parseFunctionDeclWith(attribs []*ast.Attribute, spec *ast.TypeSpecifier,
	name *token.Token) (*ast.FunctionDecl, error) {
	//
	decl := &ast.FunctionDecl{
		NodeBase:   ast.NewNodeBase(name.Area()),
		Attribs:    attribs,
		ReturnType: spec,
		Ident:      name.Spell(),
	}
	decl.SetComment(name.Comment())
	//
	if _, err := p.accept(token.LBracket); err != nil {
		return nil, err
	}
	//
	for p.tkn.Kind() != token.RBracket {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		//
		decl.Params = append(decl.Params, param)
		//
		if p.tkn.Kind() != token.Comma {
			break
		}
		//
		p.acceptIt()
	}
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	if p.tkn.Kind() == token.Colon {
		p.acceptIt()
		//
		sem, err := p.accept(token.Ident)
		if err != nil {
			return nil, err
		}
		//
		decl.Semantic = ast.Semantic(sem.Spell())
	}
	// A semicolon marks a forward declaration.
	if p.tkn.Kind() == token.Semicolon {
		p.acceptIt()
		decl.AddFlags(ast.IsForwardDecl)
		//
		return decl, nil
	}
	//
	body, err := p.parseCodeBlock()
	if err != nil {
		return nil, err
	}
	//
	decl.Body = body
	//
	return decl, nil
}

// parseParameter parses a single function parameter.
func (p *Parser) parseParameter() (*ast.VarDeclStmt, error) {
	start := p.tkn.Area()
	//
	spec, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	//
	stmt := &ast.VarDeclStmt{NodeBase: ast.NewNodeBase(start), TypeSpec: spec}
	//
	name, err := p.accept(token.Ident)
	if err != nil {
		return nil, err
	}
	//
	v := &ast.VarDecl{
		NodeBase:    ast.NewNodeBase(name.Area()),
		Ident:       name.Spell(),
		DeclStmtRef: stmt,
	}
	v.AddFlags(ast.IsParameter)
	//
	if err := p.parseVarDeclTail(v); err != nil {
		return nil, err
	}
	//
	stmt.Vars = append(stmt.Vars, v)
	//
	return stmt, nil
}

// parseVarDeclStmtWith parses a variable declaration statement whose type
// specifier has already been consumed.
func (p *Parser) parseVarDeclStmtWith(spec *ast.TypeSpecifier, start source.Area) (*ast.VarDeclStmt, error) {
	name, err := p.accept(token.Ident)
	if err != nil {
		return nil, err
	}
	//
	return p.parseVarDeclStmtFirst(spec, name, start)
}

// parseVarDeclStmtFirst parses the remainder of a variable declaration
// statement after its type specifier and first identifier, including the
// terminating semicolon.
func (p *Parser) parseVarDeclStmtFirst(spec *ast.TypeSpecifier, name *token.Token,
	start source.Area) (*ast.VarDeclStmt, error) {
	//
	stmt := &ast.VarDeclStmt{NodeBase: ast.NewNodeBase(start), TypeSpec: spec}
	stmt.SetComment(name.Comment())
	//
	for {
		v := &ast.VarDecl{
			NodeBase:    ast.NewNodeBase(name.Area()),
			Ident:       name.Spell(),
			DeclStmtRef: stmt,
		}
		//
		if spec.HasStorageClass("static") {
			v.AddFlags(ast.IsStatic)
		}
		//
		if err := p.parseVarDeclTail(v); err != nil {
			return nil, err
		}
		//
		stmt.Vars = append(stmt.Vars, v)
		//
		if p.tkn.Kind() != token.Comma {
			break
		}
		//
		p.acceptIt()
		//
		var err error
		if name, err = p.accept(token.Ident); err != nil {
			return nil, err
		}
	}
	//
	if _, err := p.accept(token.Semicolon); err != nil {
		return nil, err
	}
	//
	return stmt, nil
}

// parseVarDeclTail parses the declarator tail of one variable: array
// dimensions, bindings and the optional initializer.
func (p *Parser) parseVarDeclTail(v *ast.VarDecl) error {
	var err error
	//
	if v.ArrayDims, err = p.parseArrayDims(); err != nil {
		return err
	}
	// Bindings: semantic, register and packoffset, each introduced by a
	// colon.
	for p.tkn.Kind() == token.Colon {
		p.acceptIt()
		//
		switch p.tkn.Kind() {
		case token.Register:
			if v.Register, err = p.parseRegister(); err != nil {
				return err
			}
		case token.PackOffset:
			if v.PackOffset, err = p.parsePackOffset(); err != nil {
				return err
			}
		case token.Ident:
			v.Semantic = ast.Semantic(p.acceptIt().Spell())
		default:
			return p.errorUnexpected("semantic, 'register' or 'packoffset'")
		}
	}
	//
	if p.tkn.Kind() == token.AssignOp && p.tkn.Spell() == "=" {
		p.acceptIt()
		//
		if v.Initializer, err = p.parseExprNoComma(); err != nil {
			return err
		}
	}
	//
	return nil
}

// parseArrayDims parses a (possibly empty) run of array dimensions.
func (p *Parser) parseArrayDims() ([]*ast.ArrayDimension, error) {
	var dims []*ast.ArrayDimension
	//
	for p.tkn.Kind() == token.LParen {
		open := p.acceptIt()
		//
		dim := &ast.ArrayDimension{NodeBase: ast.NewNodeBase(open.Area())}
		// An empty dimension leaves the size implicit.
		if p.tkn.Kind() != token.RParen {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			//
			dim.Expr = expr
		}
		//
		if _, err := p.accept(token.RParen); err != nil {
			return nil, err
		}
		//
		dims = append(dims, dim)
	}
	//
	return dims, nil
}

// parseRegister parses "register(b0)" or the profiled form
// "register(vs, b0)"; the register keyword is the current token.
func (p *Parser) parseRegister() (*ast.Register, error) {
	kw, err := p.accept(token.Register)
	if err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.LBracket); err != nil {
		return nil, err
	}
	//
	name, err := p.accept(token.Ident)
	if err != nil {
		return nil, err
	}
	// With a shader-profile prefix, the register name is the second
	// argument.
	if p.tkn.Kind() == token.Comma {
		p.acceptIt()
		//
		if name, err = p.accept(token.Ident); err != nil {
			return nil, err
		}
	}
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	reg := &ast.Register{NodeBase: ast.NewNodeBase(kw.Area().Merge(name.Area()))}
	//
	spell := name.Spell()
	//
	slot, serr := strconv.Atoi(spell[1:])
	if len(spell) < 2 || serr != nil {
		return nil, p.handler.Throw(name.Area(), "invalid register name '"+spell+"'")
	}
	//
	reg.Class = spell[0]
	reg.Slot = slot
	//
	return reg, nil
}

// parsePackOffset parses "packoffset(c0.y)"; the packoffset keyword is the
// current token.
func (p *Parser) parsePackOffset() (*ast.PackOffset, error) {
	kw, err := p.accept(token.PackOffset)
	if err != nil {
		return nil, err
	}
	//
	if _, err := p.accept(token.LBracket); err != nil {
		return nil, err
	}
	//
	name, err := p.accept(token.Ident)
	if err != nil {
		return nil, err
	}
	//
	po := &ast.PackOffset{
		NodeBase:     ast.NewNodeBase(kw.Area().Merge(name.Area())),
		RegisterName: name.Spell(),
	}
	//
	if p.tkn.Kind() == token.Dot {
		p.acceptIt()
		//
		comp, err := p.accept(token.Ident)
		if err != nil {
			return nil, err
		}
		//
		po.Component = comp.Spell()
	}
	//
	if _, err := p.accept(token.RBracket); err != nil {
		return nil, err
	}
	//
	return po, nil
}
