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
package glsl

import (
	"fmt"
	"strings"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/xsc"
)

// intrinsicNames maps HLSL intrinsics onto their GLSL spellings where a
// direct counterpart exists.
var intrinsicNames = map[string]string{
	"atan2":  "atan",
	"ddx":    "dFdx",
	"ddy":    "dFdy",
	"fmod":   "mod",
	"frac":   "fract",
	"lerp":   "mix",
	"rsqrt":  "inversesqrt",
	"tex1D":  "texture",
	"tex2D":  "texture",
	"tex3D":  "texture",
	"texCUBE": "texture",
}

// writeStmts emits a statement sequence, dropping statements the analyzer
// marked dead.
func (g *Generator) writeStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		if g.out.Options.Optimize && s.HasFlags(ast.IsDeadCode) {
			continue
		}
		//
		g.writeStmt(s)
	}
}

// writeStmt emits one statement.
func (g *Generator) writeStmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.NullStmt:
		g.w.line(";")
	case *ast.ScopeStmt:
		g.w.open("")
		g.writeStmts(x.Body.Stmts)
		g.w.close("")
	case *ast.VarDeclStmt:
		for _, v := range x.Vars {
			init := ""
			if v.Initializer != nil {
				init = " = " + g.exprString(v.Initializer)
			}
			//
			qualifier := ""
			if x.TypeSpec.IsConst() {
				qualifier = "const "
			}
			//
			g.w.line("%s%s %s%s%s;", qualifier, g.typeString(x.TypeSpec.TypeDen), v.Ident,
				dimString(v.ArrayDims), init)
		}
	case *ast.AliasDeclStmt, *ast.StructDeclStmt:
		if sd, ok := s.(*ast.StructDeclStmt); ok {
			g.writeStructDecl(sd.Decl)
		}
	case *ast.ForStmt:
		g.writeForStmt(x)
	case *ast.WhileStmt:
		g.w.open(fmt.Sprintf("while (%s) ", g.exprString(x.Condition)))
		g.writeBody(x.Body)
		g.w.close("")
	case *ast.DoWhileStmt:
		g.w.open("do ")
		g.writeBody(x.Body)
		g.w.close(fmt.Sprintf(" while (%s);", g.exprString(x.Condition)))
	case *ast.IfStmt:
		g.writeIfStmt(x)
	case *ast.SwitchStmt:
		g.writeSwitchStmt(x)
	case *ast.ReturnStmt:
		// A return which is syntactically last in the function can be
		// elided when it carries no value.
		if x.Expr == nil && g.out.Options.Optimize && x.HasFlags(ast.IsEndOfFunction) {
			return
		}
		//
		if x.Expr != nil {
			g.w.line("return %s;", g.exprString(x.Expr))
		} else {
			g.w.line("return;")
		}
	case *ast.CtrlTransferStmt:
		g.w.line("%s;", x.Transfer)
	case *ast.ExprStmt:
		// clip(x) has no GLSL counterpart and lowers to a discard branch.
		if call, ok := x.Expr.(*ast.CallExpr); ok && call.Intrinsic == "clip" && len(call.Args) == 1 {
			g.w.line("if ((%s) < 0.0) discard;", g.exprString(call.Args[0]))
			return
		}
		//
		g.w.line("%s;", g.exprString(x.Expr))
	default:
		g.w.line("// statement omitted")
	}
}

// writeBody emits a loop or branch body, bracing single statements.
func (g *Generator) writeBody(s ast.Stmt) {
	if scope, ok := s.(*ast.ScopeStmt); ok {
		g.writeStmts(scope.Body.Stmts)
		return
	}
	//
	g.writeStmt(s)
}

func (g *Generator) writeForStmt(x *ast.ForStmt) {
	init := ""
	//
	switch i := x.Init.(type) {
	case nil, *ast.NullStmt:
		// Empty initializer.
	case *ast.ExprStmt:
		init = g.exprString(i.Expr)
	case *ast.VarDeclStmt:
		var parts []string
		//
		for _, v := range i.Vars {
			decl := fmt.Sprintf("%s %s", g.typeString(i.TypeSpec.TypeDen), v.Ident)
			if v.Initializer != nil {
				decl += " = " + g.exprString(v.Initializer)
			}
			//
			parts = append(parts, decl)
		}
		//
		init = strings.Join(parts, ", ")
	}
	//
	cond, iter := "", ""
	//
	if x.Condition != nil {
		cond = g.exprString(x.Condition)
	}
	//
	if x.Iteration != nil {
		iter = g.exprString(x.Iteration)
	}
	//
	g.w.open(fmt.Sprintf("for (%s; %s; %s) ", init, cond, iter))
	g.writeBody(x.Body)
	g.w.close("")
}

func (g *Generator) writeIfStmt(x *ast.IfStmt) {
	g.w.open(fmt.Sprintf("if (%s) ", g.exprString(x.Condition)))
	g.writeBody(x.Body)
	//
	if x.ElseBody == nil {
		g.w.close("")
		return
	}
	//
	g.w.depth--
	g.w.line("} else {")
	g.w.depth++
	g.writeBody(x.ElseBody)
	g.w.close("")
}

func (g *Generator) writeSwitchStmt(x *ast.SwitchStmt) {
	g.w.open(fmt.Sprintf("switch (%s) ", g.exprString(x.Selector)))
	//
	for _, c := range x.Cases {
		if c.IsDefault() {
			g.w.line("default:")
		} else {
			g.w.line("case %s:", g.exprString(c.Expr))
		}
		//
		g.w.depth++
		g.writeStmts(c.Stmts)
		g.w.depth--
	}
	//
	g.w.close("")
}

// exprString renders an expression.
func (g *Generator) exprString(e ast.Expr) string {
	switch x := e.(type) {
	case nil:
		return ""
	case *ast.LiteralExpr:
		return literalString(x)
	case *ast.TypeSpecifierExpr:
		return g.typeString(x.TypeSpec.TypeDen)
	case *ast.TernaryExpr:
		return fmt.Sprintf("%s ? %s : %s", g.exprString(x.Condition),
			g.exprString(x.Then), g.exprString(x.Else))
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", g.exprString(x.Lhs), x.Op, g.exprString(x.Rhs))
	case *ast.UnaryExpr:
		return x.Op + g.exprString(x.Operand)
	case *ast.PostUnaryExpr:
		return g.exprString(x.Operand) + x.Op
	case *ast.CallExpr:
		return g.callString(x)
	case *ast.BracketExpr:
		return "(" + g.exprString(x.Sub) + ")"
	case *ast.CastExpr:
		return fmt.Sprintf("%s(%s)", g.typeString(x.TypeSpec.TypeDen), g.exprString(x.Sub))
	case *ast.ObjectExpr:
		if x.Prefix != nil {
			return g.exprString(x.Prefix) + "." + x.Ident
		}
		//
		return x.Ident
	case *ast.ArrayExpr:
		var sb strings.Builder
		//
		sb.WriteString(g.exprString(x.Prefix))
		//
		for _, index := range x.Indices {
			fmt.Fprintf(&sb, "[%s]", g.exprString(index))
		}
		//
		return sb.String()
	case *ast.AssignExpr:
		return fmt.Sprintf("%s %s %s", g.exprString(x.Lvalue), x.Op, g.exprString(x.Rvalue))
	case *ast.InitializerExpr:
		var parts []string
		//
		for _, sub := range x.Exprs {
			parts = append(parts, g.exprString(sub))
		}
		// Array initializers lower onto constructor syntax.
		td := "float"
		if x.TypeDen() != nil {
			td = g.typeString(x.TypeDen())
		}
		//
		return fmt.Sprintf("%s[](%s)", td, strings.Join(parts, ", "))
	case *ast.SequenceExpr:
		var parts []string
		//
		for _, sub := range x.Exprs {
			parts = append(parts, g.exprString(sub))
		}
		//
		return strings.Join(parts, ", ")
	}
	//
	return ""
}

// literalString renders a literal, normalizing the float suffix away.
func literalString(x *ast.LiteralExpr) string {
	spell := x.Spell
	//
	if x.Kind == token.FloatLiteral {
		for len(spell) > 0 {
			switch spell[len(spell)-1] {
			case 'f', 'F', 'h', 'H':
				spell = spell[:len(spell)-1]
				continue
			}
			//
			break
		}
		// ".5" and "5." are not portable across GLSL versions.
		if strings.HasPrefix(spell, ".") {
			spell = "0" + spell
		}
		//
		if strings.HasSuffix(spell, ".") {
			spell += "0"
		}
	}
	//
	return spell
}

// callString renders a call, mapping intrinsics onto their GLSL
// counterparts.
func (g *Generator) callString(x *ast.CallExpr) string {
	args := make([]string, len(x.Args))
	//
	for i, arg := range x.Args {
		args[i] = g.exprString(arg)
	}
	// Type constructors keep their shape with the GLSL type name.
	if x.TypeSpec != nil {
		return fmt.Sprintf("%s(%s)", g.typeString(x.TypeSpec.TypeDen), strings.Join(args, ", "))
	}
	// Texture object methods collapse onto the combined sampler.
	if x.Prefix != nil {
		receiver := g.exprString(x.Prefix)
		//
		switch x.Ident {
		case "Sample", "SampleLevel", "SampleBias", "Load":
			// The sampler-state argument has no GLSL counterpart.
			if len(args) > 0 {
				args = args[1:]
			}
			//
			return fmt.Sprintf("texture(%s, %s)", receiver, strings.Join(args, ", "))
		}
		//
		return fmt.Sprintf("%s.%s(%s)", receiver, x.Ident, strings.Join(args, ", "))
	}
	//
	switch x.Intrinsic {
	case "mul":
		if len(args) == 2 {
			return fmt.Sprintf("(%s * %s)", args[0], args[1])
		}
	case "saturate":
		if len(args) == 1 {
			return fmt.Sprintf("clamp(%s, 0.0, 1.0)", args[0])
		}
	}
	//
	name := x.Ident
	if mapped, ok := intrinsicNames[x.Intrinsic]; ok {
		name = mapped
		// Legacy GLSL spells the sampling functions per dimension.
		legacy := (g.version.IsGLSL() && g.version.VersionNumber() < 130) ||
			g.version == xsc.ESSL100
		//
		if legacy {
			switch x.Intrinsic {
			case "tex1D":
				name = "texture1D"
			case "tex2D":
				name = "texture2D"
			case "tex3D":
				name = "texture3D"
			case "texCUBE":
				name = "textureCube"
			}
		}
	}
	//
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}
