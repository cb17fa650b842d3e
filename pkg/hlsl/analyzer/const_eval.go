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
	"fmt"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/hlsl/variant"
)

// NonConstError reports that an expression is not a constant expression,
// carrying the offending node so the caller can point a report at it.
type NonConstError struct {
	Node ast.Node
}

// Error implements the error interface.
func (e *NonConstError) Error() string {
	return "expected constant expression"
}

// EvalConstExpr evaluates an expression under the constraint that only
// literals, operators and references to const-qualified initializers may
// occur.  It returns either the value, a NonConstError naming the first
// non-constant node, or an arithmetic error (e.g. division by zero).
func EvalConstExpr(e ast.Expr) (variant.Variant, error) {
	switch x := e.(type) {
	case *ast.LiteralExpr:
		return evalLiteral(x)
	case *ast.BracketExpr:
		return EvalConstExpr(x.Sub)
	case *ast.UnaryExpr:
		return evalUnary(x)
	case *ast.PostUnaryExpr:
		// The operand's value is the expression's value.
		return EvalConstExpr(x.Operand)
	case *ast.BinaryExpr:
		return evalBinary(x)
	case *ast.TernaryExpr:
		cond, err := EvalConstExpr(x.Condition)
		if err != nil {
			return variant.Variant{}, err
		}
		//
		if cond.ToBool() {
			return EvalConstExpr(x.Then)
		}
		//
		return EvalConstExpr(x.Else)
	case *ast.CastExpr:
		return evalCast(x)
	case *ast.SequenceExpr:
		var (
			out variant.Variant
			err error
		)
		//
		for _, sub := range x.Exprs {
			if out, err = EvalConstExpr(sub); err != nil {
				return variant.Variant{}, err
			}
		}
		//
		return out, nil
	case *ast.InitializerExpr:
		sub := make([]variant.Variant, len(x.Exprs))
		//
		for i, entry := range x.Exprs {
			v, err := EvalConstExpr(entry)
			if err != nil {
				return variant.Variant{}, err
			}
			//
			sub[i] = v
		}
		//
		return variant.FromArray(sub), nil
	case *ast.ObjectExpr:
		return evalObject(x)
	case *ast.ArrayExpr:
		return evalArrayAccess(x)
	}
	//
	return variant.Variant{}, &NonConstError{e}
}

func evalLiteral(x *ast.LiteralExpr) (variant.Variant, error) {
	switch x.Kind {
	case token.IntLiteral:
		return variant.ParseInt(x.Spell)
	case token.FloatLiteral:
		return variant.ParseReal(x.Spell)
	case token.BoolLiteral:
		return variant.FromBool(x.Spell == "true"), nil
	}
	//
	return variant.Variant{}, &NonConstError{x}
}

func evalUnary(x *ast.UnaryExpr) (variant.Variant, error) {
	v, err := EvalConstExpr(x.Operand)
	if err != nil {
		return variant.Variant{}, err
	}
	//
	switch x.Op {
	case "-":
		return variant.Neg(v), nil
	case "+":
		return v, nil
	case "!":
		return variant.Not(v), nil
	case "~":
		return variant.BitNot(v), nil
	case "++":
		return variant.Inc(v), nil
	case "--":
		return variant.Dec(v), nil
	}
	//
	return variant.Variant{}, &NonConstError{x}
}

func evalBinary(x *ast.BinaryExpr) (variant.Variant, error) {
	lhs, err := EvalConstExpr(x.Lhs)
	if err != nil {
		return variant.Variant{}, err
	}
	// Logical operators short-circuit.
	switch x.Op {
	case "||":
		if lhs.ToBool() {
			return variant.FromBool(true), nil
		}
	case "&&":
		if !lhs.ToBool() {
			return variant.FromBool(false), nil
		}
	}
	//
	rhs, err := EvalConstExpr(x.Rhs)
	if err != nil {
		return variant.Variant{}, err
	}
	//
	switch x.Op {
	case "||", "&&":
		return variant.FromBool(rhs.ToBool()), nil
	case "|":
		return variant.BitOr(lhs, rhs)
	case "^":
		return variant.BitXor(lhs, rhs)
	case "&":
		return variant.BitAnd(lhs, rhs)
	case "==":
		return variant.FromBool(variant.Compare(lhs, rhs) == 0), nil
	case "!=":
		return variant.FromBool(variant.Compare(lhs, rhs) != 0), nil
	case "<":
		return variant.FromBool(variant.Compare(lhs, rhs) < 0), nil
	case ">":
		return variant.FromBool(variant.Compare(lhs, rhs) > 0), nil
	case "<=":
		return variant.FromBool(variant.Compare(lhs, rhs) <= 0), nil
	case ">=":
		return variant.FromBool(variant.Compare(lhs, rhs) >= 0), nil
	case "<<":
		return variant.Shl(lhs, rhs)
	case ">>":
		return variant.Shr(lhs, rhs)
	case "+":
		return variant.Add(lhs, rhs)
	case "-":
		return variant.Sub(lhs, rhs)
	case "*":
		return variant.Mul(lhs, rhs)
	case "/":
		return variant.Div(lhs, rhs)
	case "%":
		return variant.Mod(lhs, rhs)
	}
	//
	return variant.Variant{}, fmt.Errorf("invalid binary operator '%s'", x.Op)
}

func evalCast(x *ast.CastExpr) (variant.Variant, error) {
	v, err := EvalConstExpr(x.Sub)
	if err != nil {
		return variant.Variant{}, err
	}
	//
	if base, ok := x.TypeSpec.TypeDen.Aliased().(*ast.BaseTypeDen); ok && base.Type.IsScalar() {
		switch {
		case base.Type.Scalar.IsBoolean():
			return variant.FromBool(v.ToBool()), nil
		case base.Type.Scalar.IsIntegral():
			return variant.FromInt(v.ToInt()), nil
		case base.Type.Scalar.IsReal():
			return variant.FromReal(v.ToReal()), nil
		}
	}
	//
	return v, nil
}

// evalObject resolves a reference to a const-qualified variable with an
// initializer; anything else is not constant.
func evalObject(x *ast.ObjectExpr) (variant.Variant, error) {
	v, ok := x.SymbolRef.(*ast.VarDecl)
	if !ok || v.Initializer == nil || v.DeclStmtRef == nil {
		return variant.Variant{}, &NonConstError{x}
	}
	//
	spec := v.DeclStmtRef.TypeSpec
	if !spec.IsConst() {
		return variant.Variant{}, &NonConstError{x}
	}
	//
	return EvalConstExpr(v.Initializer)
}

// evalArrayAccess indexes into a constant array value.
func evalArrayAccess(x *ast.ArrayExpr) (variant.Variant, error) {
	v, err := EvalConstExpr(x.Prefix)
	if err != nil {
		return variant.Variant{}, err
	}
	//
	for _, index := range x.Indices {
		i, err := EvalConstExpr(index)
		if err != nil {
			return variant.Variant{}, err
		}
		//
		v = v.ArraySub(int(i.ToInt()))
		//
		if !v.IsDefined() {
			return variant.Variant{}, &NonConstError{x}
		}
	}
	//
	return v, nil
}
