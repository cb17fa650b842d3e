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

// Children returns the direct child nodes of a node, in source order.
// Passes which need finer control dispatch with their own type switches;
// this helper serves the generic walks.
func Children(n Node) []Node {
	var out []Node
	//
	add := func(children ...Node) {
		for _, c := range children {
			switch v := c.(type) {
			case nil:
			case Expr:
				if v != nil {
					out = append(out, v)
				}
			default:
				out = append(out, c)
			}
		}
	}
	//
	switch x := n.(type) {
	case *Program:
		for _, s := range x.GlobalStmts {
			add(s)
		}
	case *FunctionDecl:
		for _, a := range x.Attribs {
			add(a)
		}
		//
		add(x.ReturnType)
		//
		for _, p := range x.Params {
			add(p)
		}
		//
		if x.Body != nil {
			add(x.Body)
		}
	case *VarDecl:
		for _, d := range x.ArrayDims {
			add(d)
		}
		//
		if x.PackOffset != nil {
			add(x.PackOffset)
		}
		//
		if x.Register != nil {
			add(x.Register)
		}
		//
		add(x.Initializer)
	case *StructDecl:
		for _, m := range x.Members {
			add(m)
		}
		//
		for _, f := range x.FuncMembers {
			add(f)
		}
	case *AliasDecl:
		for _, d := range x.ArrayDims {
			add(d)
		}
	case *BufferDecl:
		for _, d := range x.ArrayDims {
			add(d)
		}
		//
		if x.Register != nil {
			add(x.Register)
		}
	case *SamplerDecl:
		for _, d := range x.ArrayDims {
			add(d)
		}
		//
		if x.Register != nil {
			add(x.Register)
		}
	case *UniformBufferDecl:
		if x.Register != nil {
			add(x.Register)
		}
		//
		for _, m := range x.Members {
			add(m)
		}
	case *NullStmt, *CtrlTransferStmt, *Register, *PackOffset:
		// Leaves.
	case *ScopeStmt:
		add(x.Body)
	case *ForStmt:
		for _, a := range x.Attribs {
			add(a)
		}
		//
		add(x.Init, x.Condition, x.Iteration, x.Body)
	case *WhileStmt:
		for _, a := range x.Attribs {
			add(a)
		}
		//
		add(x.Condition, x.Body)
	case *DoWhileStmt:
		for _, a := range x.Attribs {
			add(a)
		}
		//
		add(x.Body, x.Condition)
	case *IfStmt:
		for _, a := range x.Attribs {
			add(a)
		}
		//
		add(x.Condition, x.Body)
		//
		if x.ElseBody != nil {
			add(x.ElseBody)
		}
	case *SwitchStmt:
		for _, a := range x.Attribs {
			add(a)
		}
		//
		add(x.Selector)
		//
		for _, c := range x.Cases {
			add(c)
		}
	case *SwitchCase:
		add(x.Expr)
		//
		for _, s := range x.Stmts {
			add(s)
		}
	case *ReturnStmt:
		add(x.Expr)
	case *ExprStmt:
		add(x.Expr)
	case *VarDeclStmt:
		add(x.TypeSpec)
		//
		for _, v := range x.Vars {
			add(v)
		}
	case *AliasDeclStmt:
		for _, a := range x.Aliases {
			add(a)
		}
	case *BufferDeclStmt:
		for _, b := range x.Buffers {
			add(b)
		}
	case *SamplerDeclStmt:
		for _, s := range x.Samplers {
			add(s)
		}
	case *StructDeclStmt:
		add(x.Decl)
	case *CodeBlock:
		for _, s := range x.Stmts {
			add(s)
		}
	case *TypeSpecifier:
		if x.StructDecl != nil {
			add(x.StructDecl)
		}
	case *Attribute:
		for _, a := range x.Args {
			add(a)
		}
	case *ArrayDimension:
		add(x.Expr)
	case *LiteralExpr, *TypeSpecifierExpr:
		if t, ok := x.(*TypeSpecifierExpr); ok {
			add(t.TypeSpec)
		}
	case *TernaryExpr:
		add(x.Condition, x.Then, x.Else)
	case *BinaryExpr:
		add(x.Lhs, x.Rhs)
	case *UnaryExpr:
		add(x.Operand)
	case *PostUnaryExpr:
		add(x.Operand)
	case *CallExpr:
		add(x.Prefix)
		//
		if x.TypeSpec != nil {
			add(x.TypeSpec)
		}
		//
		for _, a := range x.Args {
			add(a)
		}
	case *BracketExpr:
		add(x.Sub)
	case *CastExpr:
		add(x.TypeSpec, x.Sub)
	case *ObjectExpr:
		add(x.Prefix)
	case *ArrayExpr:
		add(x.Prefix)
		//
		for _, i := range x.Indices {
			add(i)
		}
	case *AssignExpr:
		add(x.Lvalue, x.Rvalue)
	case *InitializerExpr:
		for _, e := range x.Exprs {
			add(e)
		}
	case *SequenceExpr:
		for _, e := range x.Exprs {
			add(e)
		}
	}
	//
	return out
}

// Visit walks a node in depth-first pre-order.  The callback can prune the
// walk by returning false for a node.
func Visit(n Node, pre func(Node) bool) {
	if n == nil || !pre(n) {
		return
	}
	//
	for _, c := range Children(n) {
		Visit(c, pre)
	}
}
