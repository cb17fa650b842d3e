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
package ast

import "github.com/xsclang/xsc/pkg/hlsl/token"

// Expr is implemented by every expression node.  After analysis every
// expression carries a resolved type denoter.
type Expr interface {
	Node
	// TypeDen returns the resolved type denoter, or nil before analysis.
	TypeDen() TypeDenoter
	// SetTypeDen caches the resolved type denoter.
	SetTypeDen(td TypeDenoter)
}

// ExprBase carries the state shared by all expressions and is embedded in
// every expression struct.
type ExprBase struct {
	NodeBase
	typeDen TypeDenoter
}

// TypeDen returns the resolved type denoter, or nil before analysis.
func (e *ExprBase) TypeDen() TypeDenoter {
	return e.typeDen
}

// SetTypeDen caches the resolved type denoter.
func (e *ExprBase) SetTypeDen(td TypeDenoter) {
	e.typeDen = td
}

// LiteralExpr is a literal of any kind.  The token kind distinguishes
// boolean, integer, floating-point, string and null literals.
type LiteralExpr struct {
	ExprBase
	Kind  token.Kind
	Spell string
}

// TypeSpecifierExpr is a type specifier in expression position, e.g. the
// target of a type constructor call.
type TypeSpecifierExpr struct {
	ExprBase
	TypeSpec *TypeSpecifier
}

// TernaryExpr is a conditional expression "c ? a : b".
type TernaryExpr struct {
	ExprBase
	Condition Expr
	Then      Expr
	Else      Expr
}

// BinaryExpr applies a binary operator.
type BinaryExpr struct {
	ExprBase
	Lhs Expr
	Op  string
	Rhs Expr
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	ExprBase
	Op      string
	Operand Expr
}

// PostUnaryExpr applies a postfix increment or decrement.
type PostUnaryExpr struct {
	ExprBase
	Operand Expr
	Op      string
}

// CallExpr calls a function, an intrinsic, a member function or a type
// constructor.
type CallExpr struct {
	ExprBase
	// Object prefix for member calls, e.g. "tex" in "tex.Sample(...)".
	Prefix Expr
	// Called identifier; empty for type-constructor calls.
	Ident string
	// Type specifier for type-constructor calls, e.g. "float4(...)".
	TypeSpec *TypeSpecifier
	// Call arguments.
	Args []Expr
	// Resolved function declaration (back-pointer); nil for intrinsics and
	// type constructors.
	FuncDeclRef *FunctionDecl
	// Name of the resolved intrinsic, if any.
	Intrinsic string
}

// BracketExpr is a parenthesized sub-expression.
type BracketExpr struct {
	ExprBase
	Sub Expr
}

// CastExpr converts a sub-expression to a target type.
type CastExpr struct {
	ExprBase
	TypeSpec *TypeSpecifier
	Sub      Expr
}

// ObjectExpr references a variable, a member (through the prefix) or a
// namespaced identifier.
type ObjectExpr struct {
	ExprBase
	// Object prefix for member access, e.g. "v" in "v.xyz".
	Prefix Expr
	// Optional namespace prefix before "::".
	Namespace string
	// Referenced identifier.
	Ident string
	// Resolved declaration (back-pointer).
	SymbolRef Node
}

// ArrayExpr indexes into an array or matrix.
type ArrayExpr struct {
	ExprBase
	Prefix  Expr
	Indices []Expr
}

// AssignExpr assigns to an l-value, possibly with a compound operator.
type AssignExpr struct {
	ExprBase
	Lvalue Expr
	// One of "=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "|=",
	// "^=".
	Op     string
	Rvalue Expr
}

// InitializerExpr is a braced initializer list.
type InitializerExpr struct {
	ExprBase
	Exprs []Expr
}

// SequenceExpr is a comma-separated expression sequence.
type SequenceExpr struct {
	ExprBase
	Exprs []Expr
}
