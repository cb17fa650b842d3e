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

// Package analyzer resolves identifiers, attaches type denoters to
// expressions, validates the entry point and runs the control-flow passes
// over the parsed program.
package analyzer

import (
	"fmt"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/hlsl/variant"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/source"
)

// ShaderTarget identifies the pipeline stage being compiled.
type ShaderTarget uint

// The shader targets.
const (
	VertexShader ShaderTarget = iota
	TessellationControlShader
	TessellationEvaluationShader
	GeometryShader
	FragmentShader
	ComputeShader
)

// String returns a readable stage name.
func (t ShaderTarget) String() string {
	switch t {
	case VertexShader:
		return "vertex"
	case TessellationControlShader:
		return "tessellation-control"
	case TessellationEvaluationShader:
		return "tessellation-evaluation"
	case GeometryShader:
		return "geometry"
	case FragmentShader:
		return "fragment"
	case ComputeShader:
		return "compute"
	}

	return "unknown"
}

// Analyzer decorates the AST: it owns the symbol table and the context
// stacks tracking the enclosing structure and function.
type Analyzer struct {
	handler *report.Handler
	prog    *ast.Program
	table   *SymbolTable
	// Enclosing structure, for member function bodies.
	structStack []*ast.StructDecl
	// Enclosing function, for return statement checks.
	funcStack []*ast.FunctionDecl
}

// Analyze type-checks and decorates a program for a given entry point and
// target stage.  All reports go through the handler; analysis always runs
// to completion.
func Analyze(prog *ast.Program, entryPoint string, secondaryEntryPoint string,
	target ShaderTarget, handler *report.Handler) {
	//
	a := &Analyzer{
		handler: handler,
		prog:    prog,
		table:   NewSymbolTable(),
	}
	//
	a.registerBuiltins()
	//
	for _, s := range prog.GlobalStmts {
		a.analyzeGlobalStmt(s)
	}
	//
	a.resolveEntryPoint(entryPoint, target)
	//
	if secondaryEntryPoint != "" {
		a.resolveSecondaryEntryPoint(secondaryEntryPoint)
	}
	// Control-flow decoration runs over every function, reachable or not.
	AnalyzeControlPaths(prog, handler)
	MarkEndOfScopeReturns(prog)
	//
	if prog.EntryPointRef != nil {
		AnalyzeReferences(prog)
	}
}

// registerBuiltins declares the predefined type aliases such as DWORD.
func (a *Analyzer) registerBuiltins() {
	builtins := map[string]ast.TypeDenoter{
		"DWORD":  &ast.BaseTypeDen{Type: ast.ScalarDataType(ast.ScalarUInt)},
		"FLOAT":  &ast.BaseTypeDen{Type: ast.ScalarDataType(ast.ScalarFloat)},
		"VECTOR": &ast.BaseTypeDen{Type: ast.VectorDataType(ast.ScalarFloat, 4)},
		"MATRIX": &ast.BaseTypeDen{Type: ast.MatrixDataType(ast.ScalarFloat, 4, 4)},
	}
	//
	for name, td := range builtins {
		decl := &ast.AliasDecl{Ident: name, TypeDen: td}
		decl.AddFlags(ast.IsBuiltin)
		//
		a.prog.RegisterDecl(decl)
		a.table.Register(name, decl)
	}
}

// analyzeGlobalStmt analyzes one global statement.
func (a *Analyzer) analyzeGlobalStmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.NullStmt:
		// Nothing to do.
	case *ast.VarDeclStmt:
		a.analyzeVarDeclStmt(x)
	case *ast.FunctionDecl:
		a.analyzeFunctionDecl(x)
	case *ast.StructDeclStmt:
		a.analyzeStructDecl(x.Decl)
	case *ast.AliasDeclStmt:
		a.analyzeAliasDeclStmt(x)
	case *ast.UniformBufferDecl:
		a.analyzeUniformBufferDecl(x)
	case *ast.BufferDeclStmt:
		a.analyzeBufferDeclStmt(x)
	case *ast.SamplerDeclStmt:
		a.analyzeSamplerDeclStmt(x)
	default:
		panic("unknown global statement")
	}
}

// registerSymbol declares an identifier in the current scope, applying the
// overload and redeclaration rules.
func (a *Analyzer) registerSymbol(ident string, decl ast.Node, area source.Area) {
	a.prog.RegisterDecl(decl)
	//
	o := a.table.FetchCurrent(ident)
	if o == nil {
		a.table.Register(ident, decl)
		return
	}
	// Only functions may overload.
	newFn, newIsFn := decl.(*ast.FunctionDecl)
	funcs := o.Funcs()
	//
	if newIsFn && funcs != nil {
		for _, f := range funcs {
			if !sameSignature(f, newFn) {
				continue
			}
			// A forward declaration is completed by its implementation.
			switch {
			case f.IsForwardDecl() && !newFn.IsForwardDecl():
				f.ImplRef = newFn
				a.table.Replace(ident, f, newFn)
			case !f.IsForwardDecl() && newFn.IsForwardDecl():
				newFn.ImplRef = f
			default:
				a.duplicateError(ident, area, f.Area())
			}
			//
			return
		}
		//
		a.table.Register(ident, decl)
		//
		return
	}
	//
	a.duplicateError(ident, area, o.Single().Area())
}

// duplicateError reports a redeclaration, citing the previous declaration.
func (a *Analyzer) duplicateError(ident string, area source.Area, prev source.Area) {
	msg := fmt.Sprintf("identifier '%s' already declared", ident)
	//
	if prev.Pos().IsValid() {
		msg += fmt.Sprintf(" (see previous declaration at %s)", prev.Pos())
	}
	//
	a.handler.Error(area, msg)
}

// sameSignature reports whether two functions share a parameter
// type-denoter sequence.
func sameSignature(a, b *ast.FunctionDecl) bool {
	at, bt := a.ParamTypes(), b.ParamTypes()
	//
	if len(at) != len(bt) {
		return false
	}
	//
	for i := range at {
		if at[i] == nil || bt[i] == nil {
			return false
		}
		//
		if at[i].Aliased().String() != bt[i].Aliased().String() {
			return false
		}
	}
	//
	return true
}

// analyzeVarDeclStmt resolves a variable declaration statement and
// registers its variables.
func (a *Analyzer) analyzeVarDeclStmt(stmt *ast.VarDeclStmt) {
	a.resolveTypeSpec(stmt.TypeSpec)
	//
	for _, v := range stmt.Vars {
		a.analyzeArrayDims(v.ArrayDims)
		//
		if v.Initializer != nil {
			initType := a.analyzeExpr(v.Initializer)
			a.checkImplicitCast(initType, a.varTypeDen(v), v.Initializer.Area())
		}
		//
		a.registerSymbol(v.Ident, v, v.Area())
	}
}

// varTypeDen returns the full type denoter of a variable, wrapping its
// declared type in its array dimensions.
func (a *Analyzer) varTypeDen(v *ast.VarDecl) ast.TypeDenoter {
	if v.DeclStmtRef == nil || v.DeclStmtRef.TypeSpec.TypeDen == nil {
		return nil
	}
	//
	td := v.DeclStmtRef.TypeSpec.TypeDen
	//
	if len(v.ArrayDims) > 0 {
		return &ast.ArrayTypeDen{Sub: td, Dims: v.ArrayDims}
	}
	//
	return td
}

// analyzeArrayDims evaluates explicit array dimensions as constant
// expressions.
func (a *Analyzer) analyzeArrayDims(dims []*ast.ArrayDimension) {
	for _, d := range dims {
		if d.Expr == nil {
			continue
		}
		//
		a.analyzeExpr(d.Expr)
		//
		v, err := a.evalConst(d.Expr)
		if err != nil {
			continue
		}
		//
		size := int(v.ToInt())
		//
		if size < 1 {
			a.handler.Error(d.Expr.Area(), "array dimension must be positive")
			continue
		}
		//
		d.Size = size
	}
}

// evalConst evaluates a constant expression, converting failures into
// reports at the offending node.
func (a *Analyzer) evalConst(e ast.Expr) (variant.Variant, error) {
	v, err := EvalConstExpr(e)
	if err == nil {
		return v, nil
	}
	//
	if nc, ok := err.(*NonConstError); ok {
		a.handler.Error(nc.Node.Area(), "expected constant expression")
	} else {
		a.handler.Error(e.Area(), err.Error())
	}
	//
	return variant.Variant{}, err
}

// resolveTypeSpec resolves the denoter of a type specifier, analyzing any
// inline structure declaration.
func (a *Analyzer) resolveTypeSpec(spec *ast.TypeSpecifier) {
	if spec == nil {
		return
	}
	//
	if spec.StructDecl != nil {
		a.analyzeStructDecl(spec.StructDecl)
	}
	//
	spec.TypeDen = a.resolveTypeDen(spec.TypeDen, spec.Area())
}

// resolveTypeDen resolves struct and alias references within a type
// denoter.
func (a *Analyzer) resolveTypeDen(td ast.TypeDenoter, area source.Area) ast.TypeDenoter {
	switch x := td.(type) {
	case nil:
		return nil
	case *ast.StructTypeDen:
		if x.Ref != nil {
			return x
		}
		//
		if decl := a.fetchTypeDecl(x.Ident, area); decl != nil {
			if s, ok := decl.(*ast.StructDecl); ok {
				x.Ref = s
				return x
			}
			//
			a.handler.Error(area, "'"+x.Ident+"' does not name a structure")
		}
	case *ast.AliasTypeDen:
		if x.Ref != nil {
			return x
		}
		//
		if decl := a.fetchTypeDecl(x.Ident, area); decl != nil {
			switch d := decl.(type) {
			case *ast.AliasDecl:
				x.Ref = d
				return x
			case *ast.StructDecl:
				// The parser cannot always tell aliases and structures
				// apart across scopes.
				return &ast.StructTypeDen{Ident: x.Ident, Ref: d}
			}
			//
			a.handler.Error(area, "'"+x.Ident+"' does not name a type")
		}
	case *ast.ArrayTypeDen:
		x.Sub = a.resolveTypeDen(x.Sub, area)
		a.analyzeArrayDims(x.Dims)
		//
		return x
	case *ast.BufferTypeDen:
		x.Generic = a.resolveTypeDen(x.Generic, area)
		return x
	default:
		return td
	}
	//
	return td
}

// fetchTypeDecl looks up a type name, reporting an undeclared identifier
// when missing.
func (a *Analyzer) fetchTypeDecl(ident string, area source.Area) ast.Node {
	if o := a.table.Fetch(ident); o != nil {
		return o.Single()
	}
	//
	a.undeclaredError(ident, area)
	//
	return nil
}

// undeclaredError reports an undeclared identifier with a similar-name
// suggestion when one is close enough.
func (a *Analyzer) undeclaredError(ident string, area source.Area) {
	var hints []string
	//
	if similar := FindSimilarIdent(ident, a.table.AllIdents()); similar != "" {
		hints = append(hints, "did you mean '"+similar+"'?")
	}
	//
	a.handler.Error(area, "undeclared identifier '"+ident+"'", hints...)
}

// analyzeAliasDeclStmt resolves and registers a typedef statement.
func (a *Analyzer) analyzeAliasDeclStmt(stmt *ast.AliasDeclStmt) {
	for _, alias := range stmt.Aliases {
		alias.TypeDen = a.resolveTypeDen(alias.TypeDen, alias.Area())
		a.registerSymbol(alias.Ident, alias, alias.Area())
	}
}

// analyzeStructDecl resolves a structure declaration: its base, members
// and member functions.
func (a *Analyzer) analyzeStructDecl(decl *ast.StructDecl) {
	if decl.Ident != "" {
		a.registerSymbol(decl.Ident, decl, decl.Area())
	} else {
		a.prog.RegisterDecl(decl)
	}
	//
	if decl.BaseStructIdent != "" {
		if base := a.fetchTypeDecl(decl.BaseStructIdent, decl.Area()); base != nil {
			if s, ok := base.(*ast.StructDecl); ok {
				decl.BaseStructRef = s
				a.checkRecursiveInheritance(decl)
			} else {
				a.handler.Error(decl.Area(), "'"+decl.BaseStructIdent+"' does not name a structure")
			}
		}
	}
	//
	for _, m := range decl.Members {
		a.resolveTypeSpec(m.TypeSpec)
		//
		for _, v := range m.Vars {
			a.prog.RegisterDecl(v)
			a.analyzeArrayDims(v.ArrayDims)
		}
	}
	//
	a.structStack = append(a.structStack, decl)
	defer func() { a.structStack = a.structStack[:len(a.structStack)-1] }()
	//
	for _, f := range decl.FuncMembers {
		a.analyzeFunctionDecl(f)
	}
}

// checkRecursiveInheritance walks the base chain looking for a cycle.
func (a *Analyzer) checkRecursiveInheritance(decl *ast.StructDecl) {
	for s := decl.BaseStructRef; s != nil; s = s.BaseStructRef {
		if s == decl {
			a.handler.Error(decl.Area(), "illegal recursive inheritance in struct '"+decl.Ident+"'")
			decl.BaseStructRef = nil
			//
			return
		}
	}
}

// analyzeUniformBufferDecl registers a cbuffer/tbuffer and lifts its
// fields into the enclosing scope.
func (a *Analyzer) analyzeUniformBufferDecl(decl *ast.UniformBufferDecl) {
	a.prog.RegisterDecl(decl)
	//
	for _, m := range decl.Members {
		a.resolveTypeSpec(m.TypeSpec)
		//
		for _, v := range m.Vars {
			if v.Initializer != nil {
				a.handler.Warning(v.Area(), "initializer on uniform buffer field is ignored")
			}
			//
			a.registerSymbol(v.Ident, v, v.Area())
		}
	}
}

// analyzeBufferDeclStmt resolves and registers typed resource
// declarations.
func (a *Analyzer) analyzeBufferDeclStmt(stmt *ast.BufferDeclStmt) {
	stmt.GenericType = a.resolveTypeDen(stmt.GenericType, stmt.Area())
	//
	for _, b := range stmt.Buffers {
		a.analyzeArrayDims(b.ArrayDims)
		a.registerSymbol(b.Ident, b, b.Area())
	}
}

// analyzeSamplerDeclStmt registers sampler declarations.
func (a *Analyzer) analyzeSamplerDeclStmt(stmt *ast.SamplerDeclStmt) {
	for _, s := range stmt.Samplers {
		a.analyzeArrayDims(s.ArrayDims)
		a.registerSymbol(s.Ident, s, s.Area())
	}
}

// analyzeFunctionDecl resolves a function declaration: signature, body and
// scoping.
func (a *Analyzer) analyzeFunctionDecl(fn *ast.FunctionDecl) {
	a.resolveTypeSpec(fn.ReturnType)
	//
	for _, p := range fn.Params {
		a.resolveTypeSpec(p.TypeSpec)
	}
	// Member functions are reachable through their structure only.
	if len(a.structStack) == 0 {
		a.registerSymbol(fn.Ident, fn, fn.Area())
	} else {
		a.prog.RegisterDecl(fn)
		fn.StructDeclRef = a.structStack[len(a.structStack)-1]
	}
	//
	if fn.Body == nil {
		return
	}
	//
	a.funcStack = append(a.funcStack, fn)
	a.table.OpenScope()
	//
	defer func() {
		a.table.CloseScope(a.checkUnusedSymbol)
		a.funcStack = a.funcStack[:len(a.funcStack)-1]
	}()
	//
	for _, p := range fn.Params {
		for _, v := range p.Vars {
			if v.Initializer != nil {
				a.analyzeExpr(v.Initializer)
			}
			//
			a.analyzeArrayDims(v.ArrayDims)
			a.registerSymbol(v.Ident, v, v.Area())
		}
	}
	//
	a.analyzeCodeBlockStmts(fn.Body)
}

// analyzeCodeBlock analyzes the statements of a block within a fresh
// scope.
func (a *Analyzer) analyzeCodeBlock(block *ast.CodeBlock) {
	a.table.OpenScope()
	defer a.table.CloseScope(a.checkUnusedSymbol)
	//
	a.analyzeCodeBlockStmts(block)
}

func (a *Analyzer) analyzeCodeBlockStmts(block *ast.CodeBlock) {
	for _, s := range block.Stmts {
		a.analyzeStmt(s)
	}
}

// checkUnusedSymbol warns about locals which were declared but never read.
func (a *Analyzer) checkUnusedSymbol(ident string, decl ast.Node) {
	v, ok := decl.(*ast.VarDecl)
	if !ok {
		return
	}
	//
	if v.HasFlags(ast.IsParameter) || v.HasFlags(ast.IsStatic) {
		return
	}
	//
	if v.StructDeclRef != nil || v.BufferDeclRef != nil {
		return
	}
	//
	if !v.HasFlags(ast.IsReadFrom) {
		a.handler.Warning(v.Area(), "variable '"+ident+"' is declared but never read")
	}
}

// currentFunction returns the function whose body is being analyzed.
func (a *Analyzer) currentFunction() *ast.FunctionDecl {
	if len(a.funcStack) == 0 {
		return nil
	}
	//
	return a.funcStack[len(a.funcStack)-1]
}

// currentStruct returns the structure whose member function is being
// analyzed.
func (a *Analyzer) currentStruct() *ast.StructDecl {
	if len(a.structStack) == 0 {
		return nil
	}
	//
	return a.structStack[len(a.structStack)-1]
}
