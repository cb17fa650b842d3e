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

// VarDecl declares a single variable.  Several variable declarations can
// share one VarDeclStmt (and hence one type specifier), as in
// "float x, y;".
type VarDecl struct {
	NodeBase
	// Declared identifier.
	Ident string
	// Optional array dimensions.
	ArrayDims []*ArrayDimension
	// Optional semantic annotation, e.g. "POSITION" or "SV_Target0".
	Semantic Semantic
	// Optional pack-offset binding inside a uniform buffer.
	PackOffset *PackOffset
	// Optional register binding.
	Register *Register
	// Optional initializer expression.
	Initializer Expr
	// Enclosing declaration statement (back-pointer).
	DeclStmtRef *VarDeclStmt
	// Enclosing structure for member variables (back-pointer).
	StructDeclRef *StructDecl
	// Enclosing uniform buffer for buffer fields (back-pointer).
	BufferDeclRef *UniformBufferDecl
}

// FunctionDecl declares a function, possibly as a forward declaration
// without a body.
type FunctionDecl struct {
	NodeBase
	// Attributes preceding the declaration, e.g. [numthreads(8,8,1)].
	Attribs []*Attribute
	// Return type.
	ReturnType *TypeSpecifier
	// Declared identifier.
	Ident string
	// Function parameters; each wraps exactly one VarDecl.
	Params []*VarDeclStmt
	// Optional semantic annotation on the return value.
	Semantic Semantic
	// Function body, nil for forward declarations.
	Body *CodeBlock
	// For a forward declaration, the completing implementation
	// (back-pointer).
	ImplRef *FunctionDecl
	// Enclosing structure for member functions (back-pointer).
	StructDeclRef *StructDecl
}

// IsForwardDecl reports whether this declaration has no body.
func (d *FunctionDecl) IsForwardDecl() bool {
	return d.Body == nil
}

// ParamTypes returns the resolved parameter type denoters, used for
// overload comparison.
func (d *FunctionDecl) ParamTypes() []TypeDenoter {
	types := make([]TypeDenoter, len(d.Params))
	//
	for i, p := range d.Params {
		types[i] = p.TypeSpec.TypeDen
	}
	//
	return types
}

// StructDecl declares a structure, possibly with a single base structure
// and member functions.
type StructDecl struct {
	NodeBase
	// Declared identifier; empty for anonymous structures.
	Ident string
	// Identifier of the base structure, if any.
	BaseStructIdent string
	// Resolved base structure (back-pointer).
	BaseStructRef *StructDecl
	// Member variables.
	Members []*VarDeclStmt
	// Member functions.
	FuncMembers []*FunctionDecl
}

// FetchMember searches the member variables of this structure (and its
// bases) for a given identifier.
func (d *StructDecl) FetchMember(ident string) *VarDecl {
	for s := d; s != nil; s = s.BaseStructRef {
		for _, m := range s.Members {
			for _, v := range m.Vars {
				if v.Ident == ident {
					return v
				}
			}
		}
		// The analyzer breaks inheritance cycles, so this terminates.
		if s.BaseStructRef == s {
			break
		}
	}
	//
	return nil
}

// FetchFuncMember searches the member functions of this structure (and its
// bases) for a given identifier.
func (d *StructDecl) FetchFuncMember(ident string) *FunctionDecl {
	for s := d; s != nil; s = s.BaseStructRef {
		for _, f := range s.FuncMembers {
			if f.Ident == ident {
				return f
			}
		}
		//
		if s.BaseStructRef == s {
			break
		}
	}
	//
	return nil
}

// AliasDecl declares a single type alias within a typedef statement.
type AliasDecl struct {
	NodeBase
	// Declared identifier.
	Ident string
	// Optional array dimensions ("typedef float T[4];").
	ArrayDims []*ArrayDimension
	// The aliased type.
	TypeDen TypeDenoter
	// Enclosing typedef statement (back-pointer).
	DeclStmtRef *AliasDeclStmt
}

// BufferDecl declares a single typed shader resource (texture or buffer
// object).
type BufferDecl struct {
	NodeBase
	// Declared identifier.
	Ident string
	// Optional array dimensions.
	ArrayDims []*ArrayDimension
	// Optional register binding.
	Register *Register
	// Enclosing declaration statement (back-pointer).
	DeclStmtRef *BufferDeclStmt
}

// SamplerDecl declares a single sampler.
type SamplerDecl struct {
	NodeBase
	// Declared identifier.
	Ident string
	// Optional array dimensions.
	ArrayDims []*ArrayDimension
	// Optional register binding.
	Register *Register
	// Enclosing declaration statement (back-pointer).
	DeclStmtRef *SamplerDeclStmt
}

// UniformBufferDecl declares a cbuffer or tbuffer with its fields.  It
// appears directly as a global statement.
type UniformBufferDecl struct {
	NodeBase
	// Either "cbuffer" or "tbuffer".
	Keyword string
	// Declared identifier.
	Ident string
	// Optional register binding.
	Register *Register
	// Buffer fields.
	Members []*VarDeclStmt
}

func (d *UniformBufferDecl) isStmt() {}
func (d *FunctionDecl) isStmt()      {}
