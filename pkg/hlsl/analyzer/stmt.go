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
	"strconv"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
)

// analyzeStmt analyzes one statement.
func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.NullStmt, *ast.CtrlTransferStmt:
		// Nothing to resolve.
	case *ast.ScopeStmt:
		a.analyzeCodeBlock(x.Body)
	case *ast.VarDeclStmt:
		a.analyzeVarDeclStmt(x)
	case *ast.AliasDeclStmt:
		a.analyzeAliasDeclStmt(x)
	case *ast.StructDeclStmt:
		a.analyzeStructDecl(x.Decl)
	case *ast.BufferDeclStmt:
		a.analyzeBufferDeclStmt(x)
	case *ast.SamplerDeclStmt:
		a.analyzeSamplerDeclStmt(x)
	case *ast.ForStmt:
		a.table.OpenScope()
		defer a.table.CloseScope(a.checkUnusedSymbol)
		//
		if x.Init != nil {
			a.analyzeStmt(x.Init)
		}
		//
		if x.Condition != nil {
			a.checkCondition(x.Condition)
		}
		//
		if x.Iteration != nil {
			a.analyzeExpr(x.Iteration)
		}
		//
		a.analyzeStmt(x.Body)
	case *ast.WhileStmt:
		a.checkCondition(x.Condition)
		a.warnEmptyBody(x.Body)
		a.analyzeStmt(x.Body)
	case *ast.DoWhileStmt:
		a.analyzeStmt(x.Body)
		a.checkCondition(x.Condition)
	case *ast.IfStmt:
		a.checkCondition(x.Condition)
		a.warnEmptyBody(x.Body)
		a.analyzeStmt(x.Body)
		//
		if x.ElseBody != nil {
			a.analyzeStmt(x.ElseBody)
		}
	case *ast.SwitchStmt:
		a.analyzeExpr(x.Selector)
		//
		for _, c := range x.Cases {
			if c.Expr != nil {
				a.analyzeExpr(c.Expr)
			}
			//
			for _, cs := range c.Stmts {
				a.analyzeStmt(cs)
			}
		}
	case *ast.ReturnStmt:
		a.analyzeReturnStmt(x)
	case *ast.ExprStmt:
		a.analyzeExpr(x.Expr)
	default:
		panic("unknown statement")
	}
}

// warnEmptyBody flags loop and branch bodies which are a lone semicolon.
func (a *Analyzer) warnEmptyBody(s ast.Stmt) {
	if _, ok := s.(*ast.NullStmt); ok {
		a.handler.Warning(s.Area(), "statement with empty body")
	}
}

// checkCondition resolves a loop or branch condition and requires it to be
// scalar.
func (a *Analyzer) checkCondition(cond ast.Expr) {
	td := a.analyzeExpr(cond)
	if td == nil {
		return
	}
	//
	if base, ok := td.Aliased().(*ast.BaseTypeDen); ok && base.Type.IsScalar() {
		return
	}
	//
	a.handler.Error(cond.Area(), "condition must be a scalar expression")
}

// analyzeReturnStmt checks a return statement against the enclosing
// function's return type.
func (a *Analyzer) analyzeReturnStmt(s *ast.ReturnStmt) {
	fn := a.currentFunction()
	//
	var returnType ast.TypeDenoter
	if fn != nil && fn.ReturnType != nil {
		returnType = fn.ReturnType.TypeDen
	}
	//
	isVoid := false
	if returnType != nil {
		_, isVoid = returnType.Aliased().(*ast.VoidTypeDen)
	}
	//
	if s.Expr == nil {
		if returnType != nil && !isVoid {
			a.handler.Error(s.Area(), "return statement is missing a value")
		}
		//
		return
	}
	//
	exprType := a.analyzeExpr(s.Expr)
	//
	if isVoid {
		a.handler.Error(s.Area(), "void function must not return a value")
		return
	}
	//
	a.checkImplicitCast(exprType, returnType, s.Expr.Area())
}

// resolveEntryPoint locates the requested entry point and validates its
// signature for the target stage.
func (a *Analyzer) resolveEntryPoint(name string, target ShaderTarget) {
	if name == "" {
		name = "main"
	}
	//
	o := a.table.Fetch(name)
	if o == nil {
		a.handler.Error(a.prog.Area(), "entry point '"+name+"' not found")
		return
	}
	//
	var fn *ast.FunctionDecl
	//
	for _, d := range o.Decls {
		if f, ok := d.(*ast.FunctionDecl); ok && !f.IsForwardDecl() {
			fn = f
			break
		}
	}
	//
	if fn == nil {
		a.handler.Error(a.prog.Area(), "entry point '"+name+"' is not a function")
		return
	}
	//
	a.prog.EntryPointRef = fn
	a.validateEntryPoint(fn, target)
}

// resolveSecondaryEntryPoint locates the secondary entry point used by the
// tessellation stages.
func (a *Analyzer) resolveSecondaryEntryPoint(name string) {
	if o := a.table.Fetch(name); o != nil {
		for _, d := range o.Decls {
			if f, ok := d.(*ast.FunctionDecl); ok && !f.IsForwardDecl() {
				f.AddFlags(ast.IsReferenced)
				return
			}
		}
	}
	//
	a.handler.Error(a.prog.Area(), "secondary entry point '"+name+"' not found")
}

// validateEntryPoint checks stage-specific attribute invariants and the
// I/O semantics of the entry point's signature.
func (a *Analyzer) validateEntryPoint(fn *ast.FunctionDecl, target ShaderTarget) {
	switch target {
	case ComputeShader:
		attr := fetchAttribute(fn, "numthreads")
		if attr == nil {
			a.handler.Error(fn.Area(), "compute entry point requires the 'numthreads' attribute")
			break
		}
		//
		if len(attr.Args) != 3 {
			a.handler.Error(attr.Area(), "'numthreads' requires exactly 3 arguments")
			break
		}
		//
		for _, arg := range attr.Args {
			if v, err := a.evalConst(arg); err == nil && v.ToInt() < 1 {
				a.handler.Error(arg.Area(), "thread count must be positive (got "+
					strconv.FormatInt(v.ToInt(), 10)+")")
			}
		}
	case GeometryShader:
		if fetchAttribute(fn, "maxvertexcount") == nil {
			a.handler.Error(fn.Area(), "geometry entry point requires the 'maxvertexcount' attribute")
		}
	case TessellationControlShader:
		for _, name := range []string{"domain", "partitioning", "outputtopology"} {
			if fetchAttribute(fn, name) == nil {
				a.handler.Warning(fn.Area(), "tessellation-control entry point is missing the '"+name+"' attribute")
			}
		}
	case VertexShader, FragmentShader:
		a.checkEntryPointSemantics(fn)
	}
}

// checkEntryPointSemantics requires every entry-point input and output to
// carry a semantic, either directly or through its structure's members.
func (a *Analyzer) checkEntryPointSemantics(fn *ast.FunctionDecl) {
	for _, p := range fn.Params {
		for _, v := range p.Vars {
			if v.Semantic.IsValid() || a.hasMemberSemantics(p.TypeSpec.TypeDen) {
				continue
			}
			//
			a.handler.Error(v.Area(), "entry point parameter '"+v.Ident+"' is missing a semantic")
		}
	}
	//
	if fn.ReturnType != nil {
		if _, isVoid := fn.ReturnType.TypeDen.Aliased().(*ast.VoidTypeDen); isVoid {
			return
		}
	}
	//
	if !fn.Semantic.IsValid() && !a.hasMemberSemantics(fn.ReturnType.TypeDen) {
		a.handler.Error(fn.Area(), "entry point return value is missing a semantic")
	}
}

// hasMemberSemantics reports whether a type is a structure whose members
// all carry semantics.
func (a *Analyzer) hasMemberSemantics(td ast.TypeDenoter) bool {
	if td == nil {
		return false
	}
	//
	s, ok := td.Aliased().(*ast.StructTypeDen)
	if !ok || s.Ref == nil {
		return false
	}
	//
	for _, m := range s.Ref.Members {
		for _, v := range m.Vars {
			if !v.Semantic.IsValid() {
				return false
			}
		}
	}
	//
	return true
}

// fetchAttribute finds a named attribute on a function declaration.
func fetchAttribute(fn *ast.FunctionDecl, name string) *ast.Attribute {
	for _, attr := range fn.Attribs {
		if attr.Ident == name {
			return attr
		}
	}
	//
	return nil
}
