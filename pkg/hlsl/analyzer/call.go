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
)

// analyzeCallExpr resolves a call expression: a type constructor, a member
// call, an intrinsic, or a user function selected by overload resolution.
func (a *Analyzer) analyzeCallExpr(x *ast.CallExpr) ast.TypeDenoter {
	argTypes := make([]ast.TypeDenoter, len(x.Args))
	//
	for i, arg := range x.Args {
		argTypes[i] = a.analyzeExpr(arg)
	}
	// Type constructor, e.g. float4(...).
	if x.TypeSpec != nil {
		a.resolveTypeSpec(x.TypeSpec)
		a.checkCtorArgs(x, argTypes)
		//
		return x.TypeSpec.TypeDen
	}
	// Member call, e.g. tex.Sample(...).
	if x.Prefix != nil {
		return a.analyzeMemberCall(x, argTypes)
	}
	// Intrinsics take precedence over user functions of the same name.
	if in, ok := FetchIntrinsic(x.Ident); ok {
		x.Intrinsic = x.Ident
		//
		if len(x.Args) < in.MinArgs || len(x.Args) > in.MaxArgs {
			a.handler.Error(x.Area(), fmt.Sprintf(
				"invalid number of arguments for intrinsic '%s'", x.Ident))
		}
		//
		return in.Result(argTypes)
	}
	//
	return a.resolveOverload(x, argTypes)
}

// checkCtorArgs validates the argument count of a type constructor against
// the component count of the constructed type.
func (a *Analyzer) checkCtorArgs(x *ast.CallExpr, argTypes []ast.TypeDenoter) {
	base, ok := x.TypeSpec.TypeDen.Aliased().(*ast.BaseTypeDen)
	if !ok || base.Type.IsScalar() {
		return
	}
	//
	count := 0
	//
	for _, td := range argTypes {
		if td == nil {
			return
		}
		//
		if b, ok := td.Aliased().(*ast.BaseTypeDen); ok {
			count += b.Type.ComponentCount()
		} else {
			return
		}
	}
	//
	if count != base.Type.ComponentCount() && count != 1 {
		a.handler.Error(x.Area(), fmt.Sprintf(
			"type constructor '%s' requires %d components (got %d)",
			base.String(), base.Type.ComponentCount(), count))
	}
}

// analyzeMemberCall resolves a call through an object prefix: either a
// buffer object method or a structure member function.
func (a *Analyzer) analyzeMemberCall(x *ast.CallExpr, argTypes []ast.TypeDenoter) ast.TypeDenoter {
	prefixType := a.analyzeExpr(x.Prefix)
	if prefixType == nil {
		return nil
	}
	//
	switch pt := prefixType.Aliased().(type) {
	case *ast.BufferTypeDen:
		if result, ok := FetchBufferMethod(x.Ident, pt); ok {
			return result
		}
		//
		a.handler.Error(x.Area(), "'"+pt.String()+"' has no method '"+x.Ident+"'")
	case *ast.StructTypeDen:
		if pt.Ref == nil {
			return nil
		}
		//
		fn := pt.Ref.FetchFuncMember(x.Ident)
		if fn == nil {
			a.handler.Error(x.Area(), "'struct "+pt.Ref.Ident+"' has no member function '"+x.Ident+"'")
			return nil
		}
		//
		x.FuncDeclRef = fn
		a.checkCallArgs(x, fn, argTypes)
		//
		return fn.ReturnType.TypeDen
	default:
		a.handler.Error(x.Area(), "type '"+prefixType.String()+"' has no member functions")
	}
	//
	return nil
}

// resolveOverload selects the unique best-matching function declaration
// for a call.
func (a *Analyzer) resolveOverload(x *ast.CallExpr, argTypes []ast.TypeDenoter) ast.TypeDenoter {
	o := a.table.Fetch(x.Ident)
	if o == nil {
		a.undeclaredError(x.Ident, x.Area())
		return nil
	}
	//
	funcs := o.Funcs()
	if funcs == nil {
		a.handler.Error(x.Area(), "'"+x.Ident+"' is not a function")
		return nil
	}
	// First pass: exact parameter type match.
	candidates := filterOverloads(funcs, argTypes, true)
	// Second pass: implicit-conversion match.
	if len(candidates) == 0 {
		candidates = filterOverloads(funcs, argTypes, false)
	}
	//
	switch len(candidates) {
	case 0:
		a.handler.Error(x.Area(), "no matching overload for call to '"+x.Ident+"'")
		return nil
	case 1:
		// Fall through below.
	default:
		a.handler.Error(x.Area(), "ambiguous call to overloaded function '"+x.Ident+"'")
		return nil
	}
	//
	fn := candidates[0]
	if fn.IsForwardDecl() && fn.ImplRef != nil {
		fn = fn.ImplRef
	}
	//
	x.FuncDeclRef = fn
	a.checkCallArgs(x, fn, argTypes)
	//
	return fn.ReturnType.TypeDen
}

// filterOverloads keeps the candidates whose parameters accept the
// argument types, either exactly or by implicit conversion.
func filterOverloads(funcs []*ast.FunctionDecl, argTypes []ast.TypeDenoter,
	exact bool) []*ast.FunctionDecl {
	//
	var out []*ast.FunctionDecl
	//
	for _, fn := range funcs {
		if !overloadAccepts(fn, argTypes, exact) {
			continue
		}
		//
		out = append(out, fn)
	}
	//
	return out
}

// overloadAccepts reports whether one candidate accepts the argument
// types.  Parameters with default initializers may be omitted.
func overloadAccepts(fn *ast.FunctionDecl, argTypes []ast.TypeDenoter, exact bool) bool {
	if len(argTypes) > len(fn.Params) {
		return false
	}
	//
	for i, p := range fn.Params {
		if i >= len(argTypes) {
			// Remaining parameters must carry defaults.
			if len(p.Vars) == 0 || p.Vars[0].Initializer == nil {
				return false
			}
			//
			continue
		}
		//
		paramType := p.TypeSpec.TypeDen
		argType := argTypes[i]
		//
		if paramType == nil || argType == nil {
			return false
		}
		//
		if exact {
			if argType.Aliased().String() != paramType.Aliased().String() {
				return false
			}
			//
			continue
		}
		//
		if !ast.IsCastableTo(argType, paramType) {
			return false
		}
		// Widening conversions never match.
		ab, aok := argType.Aliased().(*ast.BaseTypeDen)
		pb, pok := paramType.Aliased().(*ast.BaseTypeDen)
		//
		if aok && pok && !ab.Type.IsScalar() && ast.FindVectorTruncation(ab.Type, pb.Type) > 0 {
			return false
		}
	}
	//
	return true
}

// checkCallArgs validates the argument conversions of a resolved call.
func (a *Analyzer) checkCallArgs(x *ast.CallExpr, fn *ast.FunctionDecl, argTypes []ast.TypeDenoter) {
	for i, arg := range x.Args {
		if i >= len(fn.Params) {
			a.handler.Error(arg.Area(), fmt.Sprintf(
				"too many arguments for call to '%s'", fn.Ident))
			//
			return
		}
		//
		a.checkImplicitCast(argTypes[i], fn.Params[i].TypeSpec.TypeDen, arg.Area())
	}
	//
	for i := len(x.Args); i < len(fn.Params); i++ {
		p := fn.Params[i]
		//
		if len(p.Vars) == 0 || p.Vars[0].Initializer == nil {
			a.handler.Error(x.Area(), fmt.Sprintf(
				"too few arguments for call to '%s'", fn.Ident))
			//
			return
		}
	}
}
