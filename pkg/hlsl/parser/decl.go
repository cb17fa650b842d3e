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

// parseGlobalStmt parses one global statement.  A nil statement with nil
// error is returned for constructs which are consumed but produce no node
// (e.g. technique blocks).
func (p *Parser) parseGlobalStmt() (ast.Stmt, error) {
	switch p.tkn.Kind() {
	case token.Semicolon:
		t := p.acceptIt()
		//
		s := &ast.NullStmt{NodeBase: ast.NewNodeBase(t.Area())}
		return s, nil
	case token.Typedef:
		return p.parseAliasDeclStmt()
	case token.Struct:
		return p.parseStructDeclStmt()
	case token.UniformBuffer:
		return p.parseUniformBufferDecl()
	case token.Buffer:
		return p.parseBufferDeclStmt()
	case token.Sampler:
		return p.parseSamplerDeclStmt()
	case token.Technique:
		return nil, p.parseTechnique()
	}
	//
	return p.parseFunctionOrVarDecl()
}

// parseTechnique consumes a legacy technique block, which this translator
// ignores.
func (p *Parser) parseTechnique() error {
	t := p.acceptIt()
	p.handler.Warning(t.Area(), "technique blocks are ignored")
	// Optional name.
	if p.tkn.Kind() == token.Ident {
		p.acceptIt()
	}
	//
	if _, err := p.accept(token.LCurly); err != nil {
		return err
	}
	//
	depth := 1
	for depth > 0 {
		switch p.tkn.Kind() {
		case token.LCurly:
			depth++
		case token.RCurly:
			depth--
		case token.EndOfStream:
			return p.errorUnexpected("'}'")
		}
		//
		p.acceptIt()
	}
	//
	return nil
}

// parseAttributes parses a (possibly empty) run of bracketed attributes.
func (p *Parser) parseAttributes() ([]*ast.Attribute, error) {
	var attribs []*ast.Attribute
	//
	for p.tkn.Kind() == token.LParen {
		open := p.acceptIt()
		//
		name, err := p.accept(token.Ident)
		if err != nil {
			return nil, err
		}
		//
		attr := &ast.Attribute{NodeBase: ast.NewNodeBase(open.Area().Merge(name.Area())), Ident: name.Spell()}
		//
		if p.tkn.Kind() == token.LBracket {
			p.acceptIt()
			//
			for p.tkn.Kind() != token.RBracket {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				//
				attr.Args = append(attr.Args, arg)
				//
				if p.tkn.Kind() == token.Comma {
					p.acceptIt()
				}
			}
			//
			p.acceptIt()
		}
		//
		if _, err := p.accept(token.RParen); err != nil {
			return nil, err
		}
		//
		attribs = append(attribs, attr)
	}
	//
	return attribs, nil
}

// parseTypeSpecifier parses modifiers followed by a type denoter.
func (p *Parser) parseTypeSpecifier() (*ast.TypeSpecifier, error) {
	spec := &ast.TypeSpecifier{NodeBase: ast.NewNodeBase(p.tkn.Area())}
	// Leading modifiers, in any order.
	for {
		switch p.tkn.Kind() {
		case token.InputModifier:
			spec.InputModifier = p.acceptIt().Spell()
			continue
		case token.InterpModifier:
			spec.InterpModifiers = append(spec.InterpModifiers, p.acceptIt().Spell())
			continue
		case token.TypeModifier:
			spec.TypeModifiers = append(spec.TypeModifiers, p.acceptIt().Spell())
			continue
		case token.StorageClass:
			spec.StorageClasses = append(spec.StorageClasses, p.acceptIt().Spell())
			continue
		case token.Inline:
			p.acceptIt()
			continue
		}
		//
		break
	}
	//
	if err := p.parseTypeDenoter(spec); err != nil {
		return nil, err
	}
	// The pack_matrix pragma supplies the default matrix alignment; an
	// inline row_major/column_major modifier wins.
	if p.packAlignment != "" && !spec.HasTypeModifier("row_major") && !spec.HasTypeModifier("column_major") {
		if base, ok := spec.TypeDen.(*ast.BaseTypeDen); ok && base.Type.IsMatrix() {
			spec.TypeModifiers = append(spec.TypeModifiers, p.packAlignment)
		}
	}
	//
	return spec, nil
}

// parseTypeDenoter parses the type core of a specifier.
func (p *Parser) parseTypeDenoter(spec *ast.TypeSpecifier) error {
	switch p.tkn.Kind() {
	case token.Void:
		p.acceptIt()
		spec.TypeDen = &ast.VoidTypeDen{}
		//
		return nil
	case token.ScalarType, token.VectorType, token.MatrixType:
		t := p.acceptIt()
		//
		dt, ok := ast.ParseDataType(t.Spell())
		if !ok {
			return p.handler.Throw(t.Area(), "unknown type '"+t.Spell()+"'")
		}
		//
		spec.TypeDen = &ast.BaseTypeDen{Type: dt}
		//
		return nil
	case token.Vector:
		return p.parseGenericVector(spec)
	case token.Matrix:
		return p.parseGenericMatrix(spec)
	case token.Struct:
		decl, err := p.parseStructDecl()
		if err != nil {
			return err
		}
		//
		spec.StructDecl = decl
		spec.TypeDen = &ast.StructTypeDen{Ident: decl.Ident, Ref: decl}
		//
		return nil
	case token.Ident:
		t := p.acceptIt()
		//
		kind, ok := p.findTypeName(t.Spell())
		if !ok {
			return p.handler.Throw(t.Area(), "unknown type '"+t.Spell()+"'")
		}
		//
		if kind == typeNameStruct {
			spec.TypeDen = &ast.StructTypeDen{Ident: t.Spell()}
		} else {
			spec.TypeDen = &ast.AliasTypeDen{Ident: t.Spell()}
		}
		//
		return nil
	}
	//
	return p.errorUnexpected("type specifier")
}

// parseGenericVector parses "vector" or "vector<scalar, N>".
func (p *Parser) parseGenericVector(spec *ast.TypeSpecifier) error {
	p.acceptIt()
	// Bare "vector" denotes float4.
	if !(p.tkn.Kind() == token.BinaryOp && p.tkn.Spell() == "<") {
		spec.TypeDen = &ast.BaseTypeDen{Type: ast.VectorDataType(ast.ScalarFloat, 4)}
		return nil
	}
	//
	restore := p.activeTemplate
	p.activeTemplate = true
	//
	defer func() { p.activeTemplate = restore }()
	//
	p.acceptIt()
	//
	scalarTkn, err := p.accept(token.ScalarType)
	if err != nil {
		return err
	}
	//
	dt, _ := ast.ParseDataType(scalarTkn.Spell())
	//
	if _, err := p.accept(token.Comma); err != nil {
		return err
	}
	//
	dim, err := p.parseTemplateSize()
	if err != nil {
		return err
	}
	//
	if dim.value < 1 || dim.value > 4 {
		p.handler.Error(dim.area, "vector dimension must be in the range [1, 4]")
	}
	//
	if err := p.acceptTemplateClose(); err != nil {
		return err
	}
	//
	spec.TypeDen = &ast.BaseTypeDen{Type: ast.VectorDataType(dt.Scalar, dim.value)}
	//
	return nil
}

// parseGenericMatrix parses "matrix" or "matrix<scalar, R, C>".
func (p *Parser) parseGenericMatrix(spec *ast.TypeSpecifier) error {
	p.acceptIt()
	// Bare "matrix" denotes float4x4.
	if !(p.tkn.Kind() == token.BinaryOp && p.tkn.Spell() == "<") {
		spec.TypeDen = &ast.BaseTypeDen{Type: ast.MatrixDataType(ast.ScalarFloat, 4, 4)}
		return nil
	}
	//
	restore := p.activeTemplate
	p.activeTemplate = true
	//
	defer func() { p.activeTemplate = restore }()
	//
	p.acceptIt()
	//
	scalarTkn, err := p.accept(token.ScalarType)
	if err != nil {
		return err
	}
	//
	dt, _ := ast.ParseDataType(scalarTkn.Spell())
	//
	var dims [2]templateSize
	//
	for i := 0; i < 2; i++ {
		if _, err := p.accept(token.Comma); err != nil {
			return err
		}
		//
		if dims[i], err = p.parseTemplateSize(); err != nil {
			return err
		}
		//
		if dims[i].value < 1 || dims[i].value > 4 {
			p.handler.Error(dims[i].area, "matrix dimension must be in the range [1, 4]")
		}
	}
	//
	if err := p.acceptTemplateClose(); err != nil {
		return err
	}
	//
	r, c := dims[0].value, dims[1].value
	// Degenerate 1xN matrices collapse to vectors, as in ParseDataType.
	if r == 1 {
		r, c = c, 1
	}
	//
	spec.TypeDen = &ast.BaseTypeDen{Type: ast.MatrixDataType(dt.Scalar, r, c)}
	//
	return nil
}

// templateSize is an integer template argument with its source area.
type templateSize struct {
	value int
	area  source.Area
}

// parseTemplateSize parses an integer template argument.  The preprocessor
// has already expanded macros, so a literal is expected here.
func (p *Parser) parseTemplateSize() (templateSize, error) {
	t, err := p.accept(token.IntLiteral)
	if err != nil {
		return templateSize{}, err
	}
	//
	value, err := strconv.ParseInt(t.Spell(), 0, 32)
	if err != nil {
		return templateSize{}, p.handler.Throw(t.Area(), "invalid integer literal '"+t.Spell()+"'")
	}
	//
	return templateSize{int(value), t.Area()}, nil
}

// parseStructDeclStmt parses a structure declaration at statement level,
// with optional trailing variable declarations sharing it as their type.
func (p *Parser) parseStructDeclStmt() (ast.Stmt, error) {
	start := p.tkn.Area()
	//
	decl, err := p.parseStructDecl()
	if err != nil {
		return nil, err
	}
	// "struct S { ... } s0, s1;" declares variables of the new type.
	if p.tkn.Kind() == token.Ident {
		spec := &ast.TypeSpecifier{
			NodeBase:   ast.NewNodeBase(start),
			StructDecl: decl,
			TypeDen:    &ast.StructTypeDen{Ident: decl.Ident, Ref: decl},
		}
		//
		return p.parseVarDeclStmtWith(spec, start)
	}
	//
	if _, err := p.accept(token.Semicolon); err != nil {
		return nil, err
	}
	//
	s := &ast.StructDeclStmt{NodeBase: ast.NewNodeBase(start), Decl: decl}
	//
	return s, nil
}

// parseStructDecl parses "struct [name] [: base] { members }".
func (p *Parser) parseStructDecl() (*ast.StructDecl, error) {
	kw, err := p.accept(token.Struct)
	if err != nil {
		return nil, err
	}
	//
	decl := &ast.StructDecl{NodeBase: ast.NewNodeBase(kw.Area())}
	decl.SetComment(kw.Comment())
	//
	if p.tkn.Kind() == token.Ident {
		decl.Ident = p.acceptIt().Spell()
		p.registerTypeName(decl.Ident, typeNameStruct)
	}
	// Single inheritance only.
	if p.tkn.Kind() == token.Colon {
		p.acceptIt()
		//
		base, err := p.accept(token.Ident)
		if err != nil {
			return nil, err
		}
		//
		decl.BaseStructIdent = base.Spell()
		//
		if p.tkn.Kind() == token.Comma {
			return nil, p.handler.Throw(p.tkn.Area(), "multiple inheritance is not allowed")
		}
	}
	//
	if _, err := p.accept(token.LCurly); err != nil {
		return nil, err
	}
	//
	p.openTypeScope()
	defer p.closeTypeScope()
	//
	for p.tkn.Kind() != token.RCurly {
		if p.tkn.Kind() == token.EndOfStream {
			return nil, p.errorUnexpected("'}'")
		}
		//
		if err := p.parseStructMember(decl); err != nil {
			return nil, err
		}
	}
	//
	p.acceptIt()
	//
	return decl, nil
}

// parseStructMember parses one member variable declaration or member
// function of a structure.
func (p *Parser) parseStructMember(decl *ast.StructDecl) error {
	start := p.tkn.Area()
	//
	spec, err := p.parseTypeSpecifier()
	if err != nil {
		return err
	}
	//
	name, err := p.accept(token.Ident)
	if err != nil {
		return err
	}
	//
	if p.tkn.Kind() == token.LBracket {
		fn, err := p.parseFunctionDeclWith(nil, spec, name)
		if err != nil {
			return err
		}
		//
		fn.StructDeclRef = decl
		decl.FuncMembers = append(decl.FuncMembers, fn)
		//
		return nil
	}
	//
	stmt, err := p.parseVarDeclStmtFirst(spec, name, start)
	if err != nil {
		return err
	}
	//
	for _, v := range stmt.Vars {
		v.StructDeclRef = decl
	}
	//
	decl.Members = append(decl.Members, stmt)
	//
	return nil
}

// parseAliasDeclStmt parses "typedef type name [dims] [, name [dims]]*;".
func (p *Parser) parseAliasDeclStmt() (ast.Stmt, error) {
	kw, err := p.accept(token.Typedef)
	if err != nil {
		return nil, err
	}
	//
	spec, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	//
	stmt := &ast.AliasDeclStmt{NodeBase: ast.NewNodeBase(kw.Area())}
	//
	for {
		name, err := p.accept(token.Ident)
		if err != nil {
			return nil, err
		}
		//
		alias := &ast.AliasDecl{
			NodeBase:    ast.NewNodeBase(name.Area()),
			Ident:       name.Spell(),
			TypeDen:     spec.TypeDen,
			DeclStmtRef: stmt,
		}
		//
		if alias.ArrayDims, err = p.parseArrayDims(); err != nil {
			return nil, err
		}
		//
		if len(alias.ArrayDims) > 0 {
			alias.TypeDen = &ast.ArrayTypeDen{Sub: spec.TypeDen, Dims: alias.ArrayDims}
		}
		//
		stmt.Aliases = append(stmt.Aliases, alias)
		p.registerTypeName(alias.Ident, typeNameAlias)
		//
		if p.tkn.Kind() != token.Comma {
			break
		}
		//
		p.acceptIt()
	}
	//
	if _, err := p.accept(token.Semicolon); err != nil {
		return nil, err
	}
	//
	return stmt, nil
}

// parseUniformBufferDecl parses "cbuffer/tbuffer name [: register] { ... }".
func (p *Parser) parseUniformBufferDecl() (ast.Stmt, error) {
	kw, err := p.accept(token.UniformBuffer)
	if err != nil {
		return nil, err
	}
	//
	decl := &ast.UniformBufferDecl{NodeBase: ast.NewNodeBase(kw.Area()), Keyword: kw.Spell()}
	decl.SetComment(kw.Comment())
	//
	name, err := p.accept(token.Ident)
	if err != nil {
		return nil, err
	}
	//
	decl.Ident = name.Spell()
	//
	if p.tkn.Kind() == token.Colon {
		p.acceptIt()
		//
		if decl.Register, err = p.parseRegister(); err != nil {
			return nil, err
		}
	}
	//
	if _, err := p.accept(token.LCurly); err != nil {
		return nil, err
	}
	//
	for p.tkn.Kind() != token.RCurly {
		if p.tkn.Kind() == token.EndOfStream {
			return nil, p.errorUnexpected("'}'")
		}
		//
		start := p.tkn.Area()
		//
		spec, err := p.parseTypeSpecifier()
		if err != nil {
			return nil, err
		}
		//
		stmt, err := p.parseVarDeclStmtWith(spec, start)
		if err != nil {
			return nil, err
		}
		//
		for _, v := range stmt.Vars {
			v.BufferDeclRef = decl
		}
		//
		decl.Members = append(decl.Members, stmt)
	}
	//
	p.acceptIt()
	// The trailing semicolon after a uniform buffer is optional.
	if p.tkn.Kind() == token.Semicolon {
		p.acceptIt()
	}
	//
	return decl, nil
}

// parseBufferDeclStmt parses a typed resource declaration such as
// "Texture2D tex : register(t0);" or "StructuredBuffer<Light> lights;".
func (p *Parser) parseBufferDeclStmt() (ast.Stmt, error) {
	kw, err := p.accept(token.Buffer)
	if err != nil {
		return nil, err
	}
	//
	bufferType, _ := ast.ParseBufferType(kw.Spell())
	//
	stmt := &ast.BufferDeclStmt{
		NodeBase:   ast.NewNodeBase(kw.Area()),
		BufferType: bufferType,
	}
	stmt.SetComment(kw.Comment())
	//
	if p.tkn.Kind() == token.BinaryOp && p.tkn.Spell() == "<" {
		if err := p.parseBufferGenerics(stmt); err != nil {
			return nil, err
		}
	}
	//
	for {
		name, err := p.accept(token.Ident)
		if err != nil {
			return nil, err
		}
		//
		decl := &ast.BufferDecl{
			NodeBase:    ast.NewNodeBase(name.Area()),
			Ident:       name.Spell(),
			DeclStmtRef: stmt,
		}
		//
		if decl.ArrayDims, err = p.parseArrayDims(); err != nil {
			return nil, err
		}
		//
		if p.tkn.Kind() == token.Colon {
			p.acceptIt()
			//
			if decl.Register, err = p.parseRegister(); err != nil {
				return nil, err
			}
		}
		//
		stmt.Buffers = append(stmt.Buffers, decl)
		//
		if p.tkn.Kind() != token.Comma {
			break
		}
		//
		p.acceptIt()
	}
	//
	if _, err := p.accept(token.Semicolon); err != nil {
		return nil, err
	}
	//
	return stmt, nil
}

// parseBufferGenerics parses the angle-bracket arguments of a generic
// buffer type, validating patch sizes and sample counts.
func (p *Parser) parseBufferGenerics(stmt *ast.BufferDeclStmt) error {
	restore := p.activeTemplate
	p.activeTemplate = true
	//
	defer func() { p.activeTemplate = restore }()
	//
	p.acceptIt()
	//
	spec, err := p.parseTypeSpecifier()
	if err != nil {
		return err
	}
	//
	stmt.GenericType = spec.TypeDen
	//
	if p.tkn.Kind() == token.Comma {
		p.acceptIt()
		//
		size, err := p.parseTemplateSize()
		if err != nil {
			return err
		}
		//
		stmt.GenericSize = size.value
		//
		switch {
		case stmt.BufferType.IsPatch() && (size.value < 1 || size.value > 64):
			p.handler.Warning(size.area, "patch size must be in the range [1, 64]")
		case stmt.BufferType.IsMultisampled() && (size.value < 1 || size.value > 127):
			p.handler.Warning(size.area, "sample count must be in the range [1, 127]")
		}
	}
	//
	return p.acceptTemplateClose()
}

// parseSamplerDeclStmt parses a sampler declaration such as
// "SamplerState smp : register(s0);".
func (p *Parser) parseSamplerDeclStmt() (ast.Stmt, error) {
	kw, err := p.accept(token.Sampler)
	if err != nil {
		return nil, err
	}
	//
	samplerType, _ := ast.ParseSamplerType(kw.Spell())
	//
	stmt := &ast.SamplerDeclStmt{
		NodeBase:    ast.NewNodeBase(kw.Area()),
		SamplerType: samplerType,
	}
	stmt.SetComment(kw.Comment())
	//
	for {
		name, err := p.accept(token.Ident)
		if err != nil {
			return nil, err
		}
		//
		decl := &ast.SamplerDecl{
			NodeBase:    ast.NewNodeBase(name.Area()),
			Ident:       name.Spell(),
			DeclStmtRef: stmt,
		}
		//
		if decl.ArrayDims, err = p.parseArrayDims(); err != nil {
			return nil, err
		}
		//
		if p.tkn.Kind() == token.Colon {
			p.acceptIt()
			//
			if decl.Register, err = p.parseRegister(); err != nil {
				return nil, err
			}
		}
		//
		stmt.Samplers = append(stmt.Samplers, decl)
		//
		if p.tkn.Kind() != token.Comma {
			break
		}
		//
		p.acceptIt()
	}
	//
	if _, err := p.accept(token.Semicolon); err != nil {
		return nil, err
	}
	//
	return stmt, nil
}
