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
package xsc

import (
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/xsclang/xsc/pkg/hlsl/ast"
)

// dumpAST writes the decorated AST as indented JSON, as requested by the
// ShowAST option.
func dumpAST(prog *ast.Program, w io.Writer) error {
	tree := dumpNode(prog)
	//
	bytes, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return err
	}
	//
	if _, err := w.Write(bytes); err != nil {
		return err
	}
	//
	_, err = io.WriteString(w, "\n")
	//
	return err
}

// dumpNode converts one node into a JSON-marshalable map.
func dumpNode(n ast.Node) map[string]any {
	if n == nil {
		return nil
	}
	//
	out := map[string]any{
		"kind": fmt.Sprintf("%T", n),
	}
	//
	if area := n.Area(); area.Pos().IsValid() {
		out["pos"] = area.Pos().String()
	}
	//
	if flags := n.Flags(); flags != 0 {
		out["flags"] = dumpFlags(flags)
	}
	//
	switch x := n.(type) {
	case *ast.FunctionDecl:
		out["ident"] = x.Ident
		//
		if x.ReturnType != nil && x.ReturnType.TypeDen != nil {
			out["returnType"] = x.ReturnType.TypeDen.String()
		}
		//
		if x.Semantic.IsValid() {
			out["semantic"] = string(x.Semantic)
		}
	case *ast.VarDecl:
		out["ident"] = x.Ident
		//
		if x.Semantic.IsValid() {
			out["semantic"] = string(x.Semantic)
		}
	case *ast.StructDecl:
		out["ident"] = x.Ident
	case *ast.AliasDecl:
		out["ident"] = x.Ident
	case *ast.BufferDecl:
		out["ident"] = x.Ident
	case *ast.SamplerDecl:
		out["ident"] = x.Ident
	case *ast.UniformBufferDecl:
		out["ident"] = x.Ident
		out["keyword"] = x.Keyword
	case *ast.ObjectExpr:
		out["ident"] = x.Ident
	case *ast.CallExpr:
		out["ident"] = x.Ident
		//
		if x.Intrinsic != "" {
			out["intrinsic"] = x.Intrinsic
		}
	case *ast.LiteralExpr:
		out["spell"] = x.Spell
	case *ast.BinaryExpr:
		out["op"] = x.Op
	case *ast.UnaryExpr:
		out["op"] = x.Op
	case *ast.AssignExpr:
		out["op"] = x.Op
	case *ast.CtrlTransferStmt:
		out["transfer"] = x.Transfer
	case *ast.Attribute:
		out["ident"] = x.Ident
	case *ast.TypeSpecifier:
		if x.TypeDen != nil {
			out["type"] = x.TypeDen.String()
		}
	}
	//
	if e, ok := n.(ast.Expr); ok {
		if td := e.TypeDen(); td != nil {
			out["typeDenoter"] = td.String()
		}
	}
	//
	children := ast.Children(n)
	if len(children) > 0 {
		sub := make([]map[string]any, 0, len(children))
		//
		for _, c := range children {
			sub = append(sub, dumpNode(c))
		}
		//
		out["children"] = sub
	}
	//
	return out
}

// dumpFlags renders the decoration flags as names.
func dumpFlags(flags ast.Flags) []string {
	var out []string
	//
	names := []struct {
		flag ast.Flags
		name string
	}{
		{ast.IsReferenced, "referenced"},
		{ast.IsDeadCode, "deadCode"},
		{ast.IsReadFrom, "readFrom"},
		{ast.IsParameter, "parameter"},
		{ast.IsStatic, "static"},
		{ast.IsForwardDecl, "forwardDecl"},
		{ast.HasNonReturnControlPath, "nonReturnControlPath"},
		{ast.IsEndOfFunction, "endOfFunction"},
		{ast.IsBuiltin, "builtin"},
	}
	//
	for _, entry := range names {
		if flags&entry.flag != 0 {
			out = append(out, entry.name)
		}
	}
	//
	return out
}
