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
	"github.com/xsclang/xsc/pkg/hlsl/ast"
)

// Overload is a symbol-table entry: the set of declarations sharing one
// identifier.  Only function declarations may hold more than one entry.
type Overload struct {
	Decls []ast.Node
}

// Single returns the sole declaration of a non-overloaded entry.
func (o *Overload) Single() ast.Node {
	return o.Decls[0]
}

// Funcs returns the entry's declarations as function declarations, or nil
// if the entry holds anything else.
func (o *Overload) Funcs() []*ast.FunctionDecl {
	funcs := make([]*ast.FunctionDecl, 0, len(o.Decls))
	//
	for _, d := range o.Decls {
		f, ok := d.(*ast.FunctionDecl)
		if !ok {
			return nil
		}
		//
		funcs = append(funcs, f)
	}
	//
	return funcs
}

// SymbolTable is a stack of scopes mapping identifiers to overload sets.
type SymbolTable struct {
	scopes []map[string]*Overload
}

// scopeReleaseFunc receives each declaration released by CloseScope.
type scopeReleaseFunc func(ident string, decl ast.Node)

// NewSymbolTable constructs a symbol table with an open global scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []map[string]*Overload{{}}}
}

// OpenScope enters a fresh innermost scope.
func (t *SymbolTable) OpenScope() {
	t.scopes = append(t.scopes, map[string]*Overload{})
}

// CloseScope leaves the innermost scope.  Each released declaration is
// handed to the callback, which typically checks for unused variables.
func (t *SymbolTable) CloseScope(release scopeReleaseFunc) {
	top := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
	//
	if release == nil {
		return
	}
	//
	for ident, overload := range top {
		for _, d := range overload.Decls {
			release(ident, d)
		}
	}
}

// FetchCurrent looks an identifier up in the innermost scope only.
func (t *SymbolTable) FetchCurrent(ident string) *Overload {
	o, ok := t.scopes[len(t.scopes)-1][ident]
	if !ok {
		return nil
	}
	//
	return o
}

// Fetch looks an identifier up across all scopes, innermost first.
func (t *SymbolTable) Fetch(ident string) *Overload {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if o, ok := t.scopes[i][ident]; ok {
			return o
		}
	}
	//
	return nil
}

// Register adds a declaration under an identifier in the innermost scope,
// creating the overload set on first use.
func (t *SymbolTable) Register(ident string, decl ast.Node) {
	top := t.scopes[len(t.scopes)-1]
	//
	if o, ok := top[ident]; ok {
		o.Decls = append(o.Decls, decl)
		return
	}
	//
	top[ident] = &Overload{Decls: []ast.Node{decl}}
}

// Replace swaps a previously registered declaration for another, as needed
// when an implementation completes a forward declaration.
func (t *SymbolTable) Replace(ident string, prev ast.Node, next ast.Node) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if o, ok := t.scopes[i][ident]; ok {
			for j, d := range o.Decls {
				if d == prev {
					o.Decls[j] = next
					return
				}
			}
		}
	}
}

// AllIdents returns every identifier visible from the current scope, used
// for similar-name suggestions.
func (t *SymbolTable) AllIdents() []string {
	var out []string
	//
	for _, scope := range t.scopes {
		for ident := range scope {
			out = append(out, ident)
		}
	}
	//
	return out
}
