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

import "strings"

// Semantic is an HLSL semantic annotation such as "POSITION" or
// "SV_Target0".
type Semantic string

// IsValid reports whether a semantic has been set.
func (s Semantic) IsValid() bool {
	return s != ""
}

// IsSystemValue reports whether this is a system-value semantic.
func (s Semantic) IsSystemValue() bool {
	return strings.HasPrefix(strings.ToUpper(string(s)), "SV_")
}

// TypeSpecifier is the syntactic spelling of a type together with its
// modifiers.  Its type denoter is filled by the parser and resolved by the
// analyzer.
type TypeSpecifier struct {
	NodeBase
	// Storage classes: extern, precise, shared, groupshared, static,
	// volatile.
	StorageClasses []string
	// Interpolation modifiers: linear, centroid, nointerpolation,
	// noperspective, sample.
	InterpModifiers []string
	// Type modifiers: const, row_major, column_major, snorm, unorm.
	TypeModifiers []string
	// Input modifier: in, out, inout or uniform (parameters only).
	InputModifier string
	// Denoted type.
	TypeDen TypeDenoter
	// Structure declared inline within this specifier, if any.
	StructDecl *StructDecl
}

// IsConst reports whether the const type modifier is present.
func (t *TypeSpecifier) IsConst() bool {
	return t.HasTypeModifier("const")
}

// HasTypeModifier reports whether a given type modifier is present.
func (t *TypeSpecifier) HasTypeModifier(name string) bool {
	for _, m := range t.TypeModifiers {
		if m == name {
			return true
		}
	}
	//
	return false
}

// HasStorageClass reports whether a given storage class is present.
func (t *TypeSpecifier) HasStorageClass(name string) bool {
	for _, s := range t.StorageClasses {
		if s == name {
			return true
		}
	}
	//
	return false
}

// IsInput reports whether this specifier declares a (possibly in-out)
// input parameter.  An unmodified parameter is an input.
func (t *TypeSpecifier) IsInput() bool {
	return t.InputModifier != "out"
}

// IsOutput reports whether this specifier declares a (possibly in-out)
// output parameter.
func (t *TypeSpecifier) IsOutput() bool {
	return t.InputModifier == "out" || t.InputModifier == "inout"
}

// Attribute is a bracketed annotation such as [numthreads(8, 8, 1)] or
// [unroll].
type Attribute struct {
	NodeBase
	Ident string
	Args  []Expr
}

// Register is a register binding annotation, e.g. ": register(t0)".
type Register struct {
	NodeBase
	// Register class: b, t, c, s or u.
	Class byte
	// Slot number within the class.
	Slot int
}

// PackOffset is a pack-offset binding inside a uniform buffer, e.g.
// ": packoffset(c0.y)".
type PackOffset struct {
	NodeBase
	// Register name, e.g. "c0".
	RegisterName string
	// Vector component suffix, e.g. "y", or empty.
	Component string
}

// ArrayDimension is one dimension of an array declarator.  The expression
// is nil for an implicit dimension ("[]"); the size is resolved by constant
// evaluation during analysis (0 until then, and for implicit dimensions).
type ArrayDimension struct {
	NodeBase
	Expr Expr
	Size int
}
