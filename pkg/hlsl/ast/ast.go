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

// Package ast defines the abstract syntax tree produced by the parser and
// decorated by the analyzer.  The node set is closed: every pass dispatches
// over it with an exhaustive type switch.
package ast

import (
	"github.com/xsclang/xsc/pkg/util/source"
)

// Flags records boolean decorations attached to AST nodes by the analysis
// passes.
type Flags uint32

// The node decoration flags.
const (
	// IsReferenced marks declarations reachable from the entry point.
	IsReferenced Flags = 1 << iota
	// WasMarked is set by the reference analyzer on every declaration it
	// reaches; cycles are cut by the analyzer's own mark set.
	WasMarked
	// IsDeadCode marks statements which can never execute.
	IsDeadCode
	// IsReadFrom marks variables whose value is read at least once.
	IsReadFrom
	// IsParameter marks variables declared as function parameters.
	IsParameter
	// IsStatic marks declarations with the static storage class.
	IsStatic
	// IsForwardDecl marks function declarations without a body.
	IsForwardDecl
	// HasNonReturnControlPath marks functions with a control path that
	// misses a return statement.
	HasNonReturnControlPath
	// IsEndOfFunction marks return statements which are syntactically last
	// in their function.
	IsEndOfFunction
	// IsBuiltin marks predeclared nodes such as the DWORD type alias.
	IsBuiltin
)

// Node is implemented by every AST node.
type Node interface {
	// Area returns the source area this node was parsed from.
	Area() source.Area
	// Flags returns the decoration flags of this node.
	Flags() Flags
	// AddFlags sets decoration flags on this node.
	AddFlags(f Flags)
	// HasFlags reports whether all given flags are set.
	HasFlags(f Flags) bool
	// Comment returns the leading comment attached to this node, if any.
	Comment() string
}

// NodeBase carries the state shared by all AST nodes and is embedded in
// every node struct.
type NodeBase struct {
	area    source.Area
	flags   Flags
	comment string
	// Index within the owning program's declaration arena; only set on
	// registered declarations.
	index uint
}

// NewNodeBase constructs the shared node state for a given source area.
func NewNodeBase(area source.Area) NodeBase {
	return NodeBase{area: area}
}

// Area returns the source area this node was parsed from.
func (n *NodeBase) Area() source.Area {
	return n.area
}

// SetArea updates the source area of this node.
func (n *NodeBase) SetArea(area source.Area) {
	n.area = area
}

// Flags returns the decoration flags of this node.
func (n *NodeBase) Flags() Flags {
	return n.flags
}

// AddFlags sets decoration flags on this node.
func (n *NodeBase) AddFlags(f Flags) {
	n.flags |= f
}

// HasFlags reports whether all given flags are set on this node.
func (n *NodeBase) HasFlags(f Flags) bool {
	return n.flags&f == f
}

// Comment returns the leading comment attached to this node.
func (n *NodeBase) Comment() string {
	return n.comment
}

// SetComment attaches a leading comment to this node.
func (n *NodeBase) SetComment(text string) {
	n.comment = text
}

// Index returns this node's index within the owning program's declaration
// arena.
func (n *NodeBase) Index() uint {
	return n.index
}

// Program is the root of the AST.  It exclusively owns all nodes beneath it
// and retains the preprocessed source so diagnostics can fetch line markers
// after parsing.
type Program struct {
	NodeBase
	// Ordered list of global statements.
	GlobalStmts []Stmt
	// Preprocessed source the program was parsed from.
	Source *source.Code
	// Resolved main entry point, set by the analyzer.
	EntryPointRef *FunctionDecl
	// Arena of registered declarations, indexed by NodeBase.index.  The
	// reference analyzer uses these indices for its mark sets.
	Decls []Node
}

// NewProgram constructs an empty program over a given preprocessed source.
func NewProgram(src *source.Code) *Program {
	return &Program{Source: src}
}

// RegisterDecl appends a declaration to the program's arena, assigning its
// index.  Registration is idempotent.
func (p *Program) RegisterDecl(n Node) {
	type indexed interface {
		Index() uint
	}
	//
	if d, ok := n.(indexed); ok && d.Index() > 0 {
		return
	}
	//
	p.Decls = append(p.Decls, n)
	// Index 0 is reserved to mean "unregistered".
	setIndex(n, uint(len(p.Decls)))
}

// DeclByIndex returns the declaration registered under a given index.
func (p *Program) DeclByIndex(i uint) Node {
	return p.Decls[i-1]
}

// setIndex stores an arena index on a node's base.
func setIndex(n Node, i uint) {
	switch d := n.(type) {
	case *FunctionDecl:
		d.index = i
	case *VarDecl:
		d.index = i
	case *BufferDecl:
		d.index = i
	case *SamplerDecl:
		d.index = i
	case *StructDecl:
		d.index = i
	case *AliasDecl:
		d.index = i
	case *UniformBufferDecl:
		d.index = i
	}
}
