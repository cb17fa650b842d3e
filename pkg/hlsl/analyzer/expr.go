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
package analyzer

import (
	"strings"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/util/source"
)

// analyzeExpr resolves an expression bottom-up, caching and returning its
// type denoter.  A nil result means resolution failed and a report was
// already submitted.
func (a *Analyzer) analyzeExpr(e ast.Expr) ast.TypeDenoter {
	return a.analyzeExprRW(e, true)
}

// analyzeExprRW resolves an expression; reading distinguishes value reads
// from assignment targets for the unused-variable analysis.
func (a *Analyzer) analyzeExprRW(e ast.Expr, reading bool) ast.TypeDenoter {
	if e == nil {
		return nil
	}
	//
	td := a.deriveExprType(e, reading)
	//
	if td != nil {
		e.SetTypeDen(td)
	}
	//
	return td
}

func (a *Analyzer) deriveExprType(e ast.Expr, reading bool) ast.TypeDenoter {
	switch x := e.(type) {
	case *ast.LiteralExpr:
		return literalTypeDen(x)
	case *ast.TypeSpecifierExpr:
		a.resolveTypeSpec(x.TypeSpec)
		return x.TypeSpec.TypeDen
	case *ast.BracketExpr:
		return a.analyzeExprRW(x.Sub, reading)
	case *ast.SequenceExpr:
		var last ast.TypeDenoter
		//
		for _, sub := range x.Exprs {
			last = a.analyzeExpr(sub)
		}
		//
		return last
	case *ast.UnaryExpr:
		td := a.analyzeExpr(x.Operand)
		//
		if x.Op == "!" {
			return boolType
		}
		//
		return td
	case *ast.PostUnaryExpr:
		return a.analyzeExpr(x.Operand)
	case *ast.TernaryExpr:
		a.checkCondition(x.Condition)
		//
		thenType := a.analyzeExpr(x.Then)
		elseType := a.analyzeExpr(x.Else)
		//
		return a.commonType(thenType, elseType, x.Area())
	case *ast.BinaryExpr:
		return a.analyzeBinaryExpr(x)
	case *ast.AssignExpr:
		return a.analyzeAssignExpr(x)
	case *ast.CastExpr:
		return a.analyzeCastExpr(x)
	case *ast.ObjectExpr:
		return a.analyzeObjectExpr(x, reading)
	case *ast.ArrayExpr:
		return a.analyzeArrayExpr(x)
	case *ast.CallExpr:
		return a.analyzeCallExpr(x)
	case *ast.InitializerExpr:
		var first ast.TypeDenoter
		//
		for _, sub := range x.Exprs {
			td := a.analyzeExpr(sub)
			//
			if first == nil {
				first = td
			}
		}
		//
		return first
	}
	//
	panic("unknown expression")
}

// literalTypeDen derives the type of a literal from its token kind.
func literalTypeDen(x *ast.LiteralExpr) ast.TypeDenoter {
	switch x.Kind {
	case token.BoolLiteral:
		return boolType
	case token.IntLiteral:
		return intType
	case token.FloatLiteral:
		return floatType
	}
	// String and null literals have no arithmetic type.
	return voidType
}

// analyzeBinaryExpr computes the common type of both operands and applies
// the operator's result rule.
func (a *Analyzer) analyzeBinaryExpr(x *ast.BinaryExpr) ast.TypeDenoter {
	lhs := a.analyzeExpr(x.Lhs)
	rhs := a.analyzeExpr(x.Rhs)
	//
	common := a.commonType(lhs, rhs, x.Area())
	//
	switch x.Op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return boolType
	}
	//
	return common
}

// analyzeAssignExpr validates the conversion of the r-value to the
// l-value's type.
func (a *Analyzer) analyzeAssignExpr(x *ast.AssignExpr) ast.TypeDenoter {
	lhs := a.analyzeExprRW(x.Lvalue, x.Op != "=")
	rhs := a.analyzeExpr(x.Rvalue)
	//
	a.checkImplicitCast(rhs, lhs, x.Rvalue.Area())
	//
	return lhs
}

// analyzeCastExpr validates an explicit cast.
func (a *Analyzer) analyzeCastExpr(x *ast.CastExpr) ast.TypeDenoter {
	a.resolveTypeSpec(x.TypeSpec)
	//
	sub := a.analyzeExpr(x.Sub)
	target := x.TypeSpec.TypeDen
	//
	if sub != nil && target != nil && !ast.IsCastableTo(sub, target) {
		a.handler.Error(x.Area(), "cannot cast '"+sub.String()+"' to '"+target.String()+"'")
	}
	//
	return target
}

// analyzeObjectExpr resolves an identifier or member access.
func (a *Analyzer) analyzeObjectExpr(x *ast.ObjectExpr, reading bool) ast.TypeDenoter {
	if x.Prefix == nil {
		return a.resolveIdent(x, reading)
	}
	//
	prefixType := a.analyzeExpr(x.Prefix)
	if prefixType == nil {
		return nil
	}
	//
	switch pt := prefixType.Aliased().(type) {
	case *ast.StructTypeDen:
		if pt.Ref == nil {
			return nil
		}
		//
		member := pt.Ref.FetchMember(x.Ident)
		if member == nil {
			a.undeclaredMember(x.Ident, pt.Ref, x.Area())
			return nil
		}
		//
		x.SymbolRef = member
		//
		if reading {
			member.AddFlags(ast.IsReadFrom)
		}
		//
		return a.varTypeDen(member)
	case *ast.BaseTypeDen:
		return a.analyzeSwizzle(x, pt)
	}
	//
	a.handler.Error(x.Area(), "type '"+prefixType.String()+"' has no member '"+x.Ident+"'")
	//
	return nil
}

// analyzeSwizzle validates a vector (or scalar) swizzle such as ".xyz".
func (a *Analyzer) analyzeSwizzle(x *ast.ObjectExpr, base *ast.BaseTypeDen) ast.TypeDenoter {
	if base.Type.IsMatrix() {
		// Matrix swizzles such as "_m00" reduce to scalars; longer runs
		// are left to the emitter to reject.
		if strings.HasPrefix(x.Ident, "_") {
			return &ast.BaseTypeDen{Type: ast.ScalarDataType(base.Type.Scalar)}
		}
		//
		a.handler.Error(x.Area(), "invalid member access on matrix type '"+base.String()+"'")
		//
		return nil
	}
	//
	count := len(x.Ident)
	if count < 1 || count > 4 {
		a.handler.Error(x.Area(), "invalid vector swizzle '"+x.Ident+"'")
		return nil
	}
	//
	limit := base.Type.VectorSize()
	//
	for _, c := range x.Ident {
		idx := strings.IndexRune("xyzw", c)
		if idx < 0 {
			idx = strings.IndexRune("rgba", c)
		}
		//
		if idx < 0 || idx >= limit {
			a.handler.Error(x.Area(), "invalid vector swizzle '"+x.Ident+"' on type '"+base.String()+"'")
			return nil
		}
	}
	//
	if count == 1 {
		return &ast.BaseTypeDen{Type: ast.ScalarDataType(base.Type.Scalar)}
	}
	//
	return &ast.BaseTypeDen{Type: ast.VectorDataType(base.Type.Scalar, count)}
}

// resolveIdent resolves a plain identifier reference: the enclosing
// structure's members take precedence, then the scoped symbol table.
func (a *Analyzer) resolveIdent(x *ast.ObjectExpr, reading bool) ast.TypeDenoter {
	if s := a.currentStruct(); s != nil {
		if member := s.FetchMember(x.Ident); member != nil {
			x.SymbolRef = member
			//
			if reading {
				member.AddFlags(ast.IsReadFrom)
			}
			//
			return a.varTypeDen(member)
		}
	}
	//
	o := a.table.Fetch(x.Ident)
	if o == nil {
		a.undeclaredError(x.Ident, x.Area())
		return nil
	}
	//
	decl := o.Single()
	x.SymbolRef = decl
	//
	switch d := decl.(type) {
	case *ast.VarDecl:
		if reading {
			d.AddFlags(ast.IsReadFrom)
		}
		//
		return a.varTypeDen(d)
	case *ast.BufferDecl:
		if d.DeclStmtRef == nil {
			return nil
		}
		//
		return &ast.BufferTypeDen{
			Buffer:  d.DeclStmtRef.BufferType,
			Generic: d.DeclStmtRef.GenericType,
			Size:    d.DeclStmtRef.GenericSize,
		}
	case *ast.SamplerDecl:
		if d.DeclStmtRef == nil {
			return nil
		}
		//
		return &ast.SamplerTypeDen{Type: d.DeclStmtRef.SamplerType}
	case *ast.StructDecl:
		return &ast.StructTypeDen{Ident: d.Ident, Ref: d}
	case *ast.AliasDecl:
		return d.TypeDen
	case *ast.FunctionDecl:
		a.handler.Error(x.Area(), "function '"+x.Ident+"' must be called")
		return nil
	}
	//
	return nil
}

// undeclaredMember reports a missing structure member with a suggestion.
func (a *Analyzer) undeclaredMember(ident string, s *ast.StructDecl, area source.Area) {
	var names []string
	//
	for _, m := range s.Members {
		for _, v := range m.Vars {
			names = append(names, v.Ident)
		}
	}
	//
	var hints []string
	if similar := FindSimilarIdent(ident, names); similar != "" {
		hints = append(hints, "did you mean '"+similar+"'?")
	}
	//
	a.handler.Error(area, "undeclared identifier '"+ident+"' in 'struct "+s.Ident+"'", hints...)
}

// analyzeArrayExpr resolves array, vector, matrix and buffer indexing.
func (a *Analyzer) analyzeArrayExpr(x *ast.ArrayExpr) ast.TypeDenoter {
	prefixType := a.analyzeExpr(x.Prefix)
	//
	for _, index := range x.Indices {
		a.analyzeExpr(index)
	}
	//
	if prefixType == nil {
		return nil
	}
	//
	td := prefixType.Aliased()
	//
	for range x.Indices {
		switch t := td.(type) {
		case *ast.ArrayTypeDen:
			if len(t.Dims) > 1 {
				td = &ast.ArrayTypeDen{Sub: t.Sub, Dims: t.Dims[1:]}
			} else {
				td = t.Sub.Aliased()
			}
		case *ast.BufferTypeDen:
			td = bufferTexelType(t)
		case *ast.BaseTypeDen:
			switch {
			case t.Type.IsMatrix():
				td = &ast.BaseTypeDen{Type: ast.VectorDataType(t.Type.Scalar, int(t.Type.Cols))}
			case t.Type.IsVector():
				td = &ast.BaseTypeDen{Type: ast.ScalarDataType(t.Type.Scalar)}
			default:
				a.handler.Error(x.Area(), "type '"+t.String()+"' cannot be indexed")
				return nil
			}
		default:
			a.handler.Error(x.Area(), "type '"+td.String()+"' cannot be indexed")
			return nil
		}
	}
	//
	return td
}

// commonType derives the common type of two operands per the HLSL
// implicit-conversion rules: the wider operand is truncated to the
// narrower one with a warning.
func (a *Analyzer) commonType(lhs, rhs ast.TypeDenoter, area source.Area) ast.TypeDenoter {
	if lhs == nil || rhs == nil {
		return nil
	}
	//
	lb, lok := lhs.Aliased().(*ast.BaseTypeDen)
	rb, rok := rhs.Aliased().(*ast.BaseTypeDen)
	//
	if !lok || !rok {
		// Non-arithmetic operands must agree exactly.
		if !ast.IsCastableTo(lhs, rhs) {
			a.handler.Error(area, "no common type for '"+lhs.String()+"' and '"+rhs.String()+"'")
			return nil
		}
		//
		return lhs
	}
	//
	scalar := promoteScalar(lb.Type.Scalar, rb.Type.Scalar)
	// A scalar operand broadcasts to the other operand's dimensions.
	switch {
	case lb.Type.IsScalar():
		return &ast.BaseTypeDen{Type: ast.DataType{Scalar: scalar, Rows: rb.Type.Rows, Cols: rb.Type.Cols}}
	case rb.Type.IsScalar():
		return &ast.BaseTypeDen{Type: ast.DataType{Scalar: scalar, Rows: lb.Type.Rows, Cols: lb.Type.Cols}}
	}
	//
	switch sign := ast.FindVectorTruncation(lb.Type, rb.Type); {
	case sign < 0:
		a.handler.Warning(area, "implicit truncation of '"+lb.String()+"' to '"+rb.String()+"'")
		return &ast.BaseTypeDen{Type: ast.DataType{Scalar: scalar, Rows: rb.Type.Rows, Cols: rb.Type.Cols}}
	case sign > 0:
		a.handler.Warning(area, "implicit truncation of '"+rb.String()+"' to '"+lb.String()+"'")
	}
	//
	return &ast.BaseTypeDen{Type: ast.DataType{Scalar: scalar, Rows: lb.Type.Rows, Cols: lb.Type.Cols}}
}

// scalarRank orders the scalar types for promotion.
var scalarRank = map[ast.ScalarType]int{
	ast.ScalarBool: 0, ast.ScalarInt: 1, ast.ScalarUInt: 2,
	ast.ScalarHalf: 3, ast.ScalarFloat: 4, ast.ScalarDouble: 5,
}

// promoteScalar returns the higher-ranked of two scalar types.
func promoteScalar(x, y ast.ScalarType) ast.ScalarType {
	if scalarRank[x] >= scalarRank[y] {
		return x
	}
	//
	return y
}

// checkImplicitCast validates an implicit conversion, warning on vector
// truncation and rejecting widening conversions.
func (a *Analyzer) checkImplicitCast(from, to ast.TypeDenoter, area source.Area) {
	if from == nil || to == nil {
		return
	}
	//
	if !ast.IsCastableTo(from, to) {
		a.handler.Error(area, "cannot implicitly convert '"+from.String()+"' to '"+to.String()+"'")
		return
	}
	//
	fb, fok := from.Aliased().(*ast.BaseTypeDen)
	tb, tok := to.Aliased().(*ast.BaseTypeDen)
	//
	if !fok || !tok || fb.Type.IsScalar() {
		return
	}
	//
	switch sign := ast.FindVectorTruncation(fb.Type, tb.Type); {
	case sign < 0:
		a.handler.Warning(area, "implicit truncation of '"+fb.String()+"' to '"+tb.String()+"'")
	case sign > 0:
		a.handler.Error(area, "cannot implicitly widen '"+fb.String()+"' to '"+tb.String()+"'")
	}
}
