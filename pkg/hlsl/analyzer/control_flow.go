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
	"github.com/bits-and-blooms/bitset"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/report"
)

// AnalyzeControlPaths checks every function for return-path coverage and
// marks statements which can never execute.
func AnalyzeControlPaths(prog *ast.Program, handler *report.Handler) {
	for _, d := range prog.Decls {
		fn, ok := d.(*ast.FunctionDecl)
		if !ok || fn.Body == nil {
			continue
		}
		//
		analyzeFunctionPaths(fn, handler)
	}
}

func analyzeFunctionPaths(fn *ast.FunctionDecl, handler *report.Handler) {
	returns := stmtsReturn(fn.Body.Stmts, handler)
	//
	if returns || fn.IsForwardDecl() {
		return
	}
	//
	if fn.ReturnType == nil || fn.ReturnType.TypeDen == nil {
		return
	}
	//
	if _, isVoid := fn.ReturnType.TypeDen.Aliased().(*ast.VoidTypeDen); isVoid {
		return
	}
	//
	fn.AddFlags(ast.HasNonReturnControlPath)
	handler.Error(fn.Area(), "not all control paths in function '"+fn.Ident+"' return a value")
}

// stmtsReturn walks a statement sequence, marking everything after a
// control transfer as dead code, and reports whether the sequence
// guarantees a return.
func stmtsReturn(stmts []ast.Stmt, handler *report.Handler) bool {
	var (
		hasReturn  bool
		terminated bool
		warned     bool
	)
	//
	for _, s := range stmts {
		if terminated {
			markDeadCode(s)
			//
			if !warned && handler != nil {
				handler.Warning(s.Area(), "code is unreachable")
				warned = true
			}
			//
			continue
		}
		//
		if stmtReturns(s, handler) {
			hasReturn = true
		}
		//
		if stmtTerminates(s) {
			terminated = true
		}
	}
	//
	return hasReturn
}

// markDeadCode flags a statement and everything beneath it.
func markDeadCode(s ast.Stmt) {
	ast.Visit(s, func(n ast.Node) bool {
		n.AddFlags(ast.IsDeadCode)
		return true
	})
}

// stmtTerminates reports whether control never continues past a
// statement.
func stmtTerminates(s ast.Stmt) bool {
	switch x := s.(type) {
	case *ast.ReturnStmt, *ast.CtrlTransferStmt:
		return true
	case *ast.ScopeStmt:
		return blockTerminates(x.Body.Stmts)
	case *ast.IfStmt:
		return x.ElseBody != nil && stmtTerminates(x.Body) && stmtTerminates(x.ElseBody)
	}
	//
	return false
}

func blockTerminates(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if stmtTerminates(s) {
			return true
		}
	}
	//
	return false
}

// stmtReturns reports whether a statement guarantees a return on every
// path through it.  Loop bodies are still walked so nested dead code gets
// marked, but loops never guarantee entry.
func stmtReturns(s ast.Stmt, handler *report.Handler) bool {
	switch x := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.ScopeStmt:
		return stmtsReturn(x.Body.Stmts, handler)
	case *ast.IfStmt:
		thenReturns := stmtReturns(x.Body, handler)
		//
		if x.ElseBody == nil {
			return false
		}
		//
		return thenReturns && stmtReturns(x.ElseBody, handler)
	case *ast.SwitchStmt:
		return switchReturns(x, handler)
	case *ast.ForStmt:
		stmtReturns(x.Body, handler)
		return false
	case *ast.WhileStmt:
		stmtReturns(x.Body, handler)
		return false
	case *ast.DoWhileStmt:
		stmtReturns(x.Body, handler)
		return false
	}
	//
	return false
}

// switchReturns reports whether a switch guarantees a return: it must
// carry a default case and every case must end in a return, where falling
// through into a returning case counts.
func switchReturns(s *ast.SwitchStmt, handler *report.Handler) bool {
	if !s.HasDefaultCase() {
		// Still walk the cases for dead-code marking.
		for _, c := range s.Cases {
			stmtsReturn(c.Stmts, handler)
		}
		//
		return false
	}
	//
	returns := make([]bool, len(s.Cases))
	// Walk backwards so fallthrough can look at the following case.
	for i := len(s.Cases) - 1; i >= 0; i-- {
		c := s.Cases[i]
		//
		if stmtsReturn(c.Stmts, handler) {
			returns[i] = true
			continue
		}
		// An empty or non-breaking case falls through.
		if !blockTerminates(c.Stmts) && i+1 < len(s.Cases) {
			returns[i] = returns[i+1]
		}
	}
	//
	for _, r := range returns {
		if !r {
			return false
		}
	}
	//
	return true
}

// MarkEndOfScopeReturns flags each return statement which is
// syntactically last in its function body, or last in every terminal
// branch of a trailing if/else cascade.
func MarkEndOfScopeReturns(prog *ast.Program) {
	for _, d := range prog.Decls {
		fn, ok := d.(*ast.FunctionDecl)
		if !ok || fn.Body == nil || len(fn.Body.Stmts) == 0 {
			continue
		}
		//
		markLastStmt(fn.Body.Stmts[len(fn.Body.Stmts)-1])
	}
}

func markLastStmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.ReturnStmt:
		x.AddFlags(ast.IsEndOfFunction)
	case *ast.ScopeStmt:
		if n := len(x.Body.Stmts); n > 0 {
			markLastStmt(x.Body.Stmts[n-1])
		}
	case *ast.IfStmt:
		markLastStmt(x.Body)
		//
		if x.ElseBody != nil {
			markLastStmt(x.ElseBody)
		}
	}
}

// AnalyzeReferences flood-fills reachability from the entry point through
// resolved cross-references, setting IsReferenced on every reached
// declaration.  The mark set is a bit set over the program's declaration
// arena.
func AnalyzeReferences(prog *ast.Program) {
	r := &refAnalyzer{
		prog:   prog,
		marked: bitset.New(uint(len(prog.Decls) + 1)),
	}
	//
	r.visitDecl(prog.EntryPointRef)
	// A secondary entry point was pre-marked by the analyzer.
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FunctionDecl); ok && fn.HasFlags(ast.IsReferenced) {
			r.visitDecl(fn)
		}
	}
}

type refAnalyzer struct {
	prog   *ast.Program
	marked *bitset.BitSet
}

// indexed is satisfied by every node embedding a NodeBase.
type indexed interface {
	Index() uint
}

// visitDecl marks one declaration and recurses into everything it refers
// to.
func (r *refAnalyzer) visitDecl(n ast.Node) {
	if n == nil {
		return
	}
	//
	d, ok := n.(indexed)
	if !ok || d.Index() == 0 {
		return
	}
	//
	if r.marked.Test(d.Index()) {
		return
	}
	//
	r.marked.Set(d.Index())
	n.AddFlags(ast.IsReferenced | ast.WasMarked)
	//
	switch x := n.(type) {
	case *ast.FunctionDecl:
		r.visitTypeSpec(x.ReturnType)
		//
		for _, p := range x.Params {
			r.visitTypeSpec(p.TypeSpec)
		}
		//
		if x.Body != nil {
			r.visitBody(x.Body)
		}
		//
		if x.ImplRef != nil {
			r.visitDecl(x.ImplRef)
		}
	case *ast.VarDecl:
		if x.DeclStmtRef != nil {
			r.visitTypeSpec(x.DeclStmtRef.TypeSpec)
		}
		//
		if x.BufferDeclRef != nil {
			r.visitDecl(x.BufferDeclRef)
		}
		//
		if x.Initializer != nil {
			r.visitExprRefs(x.Initializer)
		}
	case *ast.BufferDecl:
		if x.DeclStmtRef != nil {
			r.visitTypeDen(x.DeclStmtRef.GenericType)
		}
	case *ast.StructDecl:
		r.visitDecl(x.BaseStructRef)
		//
		for _, m := range x.Members {
			r.visitTypeSpec(m.TypeSpec)
			//
			for _, v := range m.Vars {
				r.visitDecl(v)
			}
		}
	case *ast.AliasDecl:
		r.visitTypeDen(x.TypeDen)
	case *ast.UniformBufferDecl:
		for _, m := range x.Members {
			r.visitTypeSpec(m.TypeSpec)
		}
	}
}

// visitBody walks a function body for references to other declarations.
func (r *refAnalyzer) visitBody(body *ast.CodeBlock) {
	ast.Visit(body, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.ObjectExpr:
			r.visitDecl(x.SymbolRef)
		case *ast.CallExpr:
			r.visitDecl(x.FuncDeclRef)
		case *ast.TypeSpecifier:
			r.visitTypeSpec(x)
		}
		//
		return true
	})
}

// visitExprRefs walks an initializer expression for references.
func (r *refAnalyzer) visitExprRefs(e ast.Expr) {
	ast.Visit(e, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.ObjectExpr:
			r.visitDecl(x.SymbolRef)
		case *ast.CallExpr:
			r.visitDecl(x.FuncDeclRef)
		}
		//
		return true
	})
}

// visitTypeSpec marks the declarations a type specifier refers to.
func (r *refAnalyzer) visitTypeSpec(spec *ast.TypeSpecifier) {
	if spec != nil {
		r.visitTypeDen(spec.TypeDen)
	}
}

// visitTypeDen marks the declarations a type denoter refers to.
func (r *refAnalyzer) visitTypeDen(td ast.TypeDenoter) {
	switch x := td.(type) {
	case *ast.StructTypeDen:
		r.visitDecl(x.Ref)
	case *ast.AliasTypeDen:
		r.visitDecl(x.Ref)
	case *ast.ArrayTypeDen:
		r.visitTypeDen(x.Sub)
	case *ast.BufferTypeDen:
		r.visitTypeDen(x.Generic)
	}
}
