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

// Package preprocessor expands macros, evaluates conditional directives and
// resolves includes, turning a raw HLSL character stream into the
// preprocessed stream consumed by the parser.
package preprocessor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xsclang/xsc/pkg/hlsl/scanner"
	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/source"
)

// maxExpansions bounds the number of macro expansions between two ordinary
// source tokens, cutting off self-referential macros.
const maxExpansions = 4096

// ifBlock is one entry of the conditional-compilation stack.
type ifBlock struct {
	// The directive token which opened this block.
	tkn *token.Token
	// Whether the enclosing blocks were all active when this one opened.
	parentActive bool
	// Whether this block's current branch is active.
	active bool
	// Whether any branch of this block has been taken so far.
	wasActive bool
	// Set once "#else" has been seen; further "#elif"/"#else" are errors.
	expectEndif bool
}

// includeEntry tracks one level of the include stack.
type includeEntry struct {
	scn *scanner.Scanner
	src *source.Code
}

// PreProcessor drives the directive and macro machinery.  It owns the macro
// table and the include stack; neither is shared across translations.
type PreProcessor struct {
	handler *report.Handler
	include IncludeHandler
	// Include stack, innermost file last.
	stack []includeEntry
	// Macro table.
	macros map[string]*Macro
	// Filenames marked by "#pragma once".
	once map[string]struct{}
	// Conditional-compilation stack.
	ifStack []ifBlock
	// Preprocessed output.
	out strings.Builder
	// Whether the Cg keyword superset is enabled.
	cg bool
	// Macro expansions since the last ordinary token.
	expansions int
}

// New constructs a preprocessor.  The include handler may be nil, in which
// case every "#include" fails.
func New(handler *report.Handler, include IncludeHandler, cg bool) *PreProcessor {
	return &PreProcessor{
		handler: handler,
		include: include,
		macros:  make(map[string]*Macro),
		once:    make(map[string]struct{}),
		cg:      cg,
	}
}

// Define installs a predefined macro, as given on the command line.  The
// value is scanned into the macro body; an empty value defines the macro to
// 1.
func (pp *PreProcessor) Define(name string, value string) {
	if value == "" {
		value = "1"
	}
	//
	body := token.NewString()
	//
	scn := scanner.New(scanner.PreProcessorMode, pp.handler, pp.cg)
	scn.ScanSource(source.NewCode("<predefined>", value))
	//
	for {
		t := scn.Next()
		if t.Kind() == token.EndOfStream {
			break
		}
		//
		body.Append(t)
	}
	//
	pp.macros[name] = &Macro{Body: body}
}

// IsDefined reports whether a macro is currently defined.
func (pp *PreProcessor) IsDefined(name string) bool {
	_, ok := pp.macros[name]
	return ok
}

// Process runs the preprocessor over a source stream and returns the
// preprocessed stream.  Reports go through the handler; the returned flag
// is false if any error was submitted.
func (pp *PreProcessor) Process(src *source.Code) (*source.Code, bool) {
	pp.push(src)
	//
	for len(pp.stack) > 0 {
		t := pp.scn().Next()
		//
		if !pp.scn().HasPushedTokens() {
			pp.expansions = 0
		}
		//
		switch t.Kind() {
		case token.EndOfStream:
			pp.pop()
		case token.Directive:
			pp.parseDirective(t)
		case token.Ident:
			if !pp.active() {
				continue
			}
			//
			pp.expandOrWrite(t)
		case token.LineBreak:
			// Line continuations join lines and vanish from the output.
		default:
			if pp.active() {
				pp.write(t)
			}
		}
	}
	// Report unbalanced conditionals on their opening tokens.
	for _, b := range pp.ifStack {
		pp.handler.Error(b.tkn.Area(), "missing '#endif' for '#"+b.tkn.Spell()+"'")
	}
	//
	pp.ifStack = nil
	//
	return source.NewCode(src.Name(), pp.out.String()), !pp.handler.HasErrors()
}

// scn returns the innermost scanner.
func (pp *PreProcessor) scn() *scanner.Scanner {
	return pp.stack[len(pp.stack)-1].scn
}

// push enters a new source, e.g. for an include.
func (pp *PreProcessor) push(src *source.Code) {
	scn := scanner.New(scanner.PreProcessorMode, pp.handler, pp.cg)
	scn.ScanSource(src)
	//
	pp.stack = append(pp.stack, includeEntry{scn, src})
	pp.handler.SetSource(src)
}

// pop leaves the innermost source.  Leaving an include emits a "#line"
// marker restoring the outer origin, so parser diagnostics stay accurate.
func (pp *PreProcessor) pop() {
	pp.stack = pp.stack[:len(pp.stack)-1]
	//
	if len(pp.stack) > 0 {
		outer := pp.stack[len(pp.stack)-1]
		pp.handler.SetSource(outer.src)
		//
		pos := outer.scn.Pos()
		fmt.Fprintf(&pp.out, "#line %d \"%s\"\n", pos.Row(), pos.Filename())
	}
}

// active reports whether the current conditional region is active.
func (pp *PreProcessor) active() bool {
	for _, b := range pp.ifStack {
		if !b.active {
			return false
		}
	}
	//
	return true
}

// write copies a token to the output verbatim.
func (pp *PreProcessor) write(t *token.Token) {
	switch t.Kind() {
	case token.Directive:
		pp.out.WriteString("#")
		pp.out.WriteString(t.Spell())
	case token.DirectiveConcat:
		// Token pasting: adjacent spellings concatenate in the output.
	default:
		pp.out.WriteString(t.Spell())
	}
}

// writeString copies a token string to the output verbatim.
func (pp *PreProcessor) writeString(ts *token.String) {
	for _, t := range ts.Tokens() {
		pp.write(t)
	}
}

// collectLine reads the remainder of the current logical line, honoring
// line continuations.  The terminating newline is not part of the result;
// it is written through to the output to preserve the line structure.
func (pp *PreProcessor) collectLine() *token.String {
	line := token.NewString()
	//
	for {
		t := pp.scn().Next()
		//
		switch t.Kind() {
		case token.NewLine:
			pp.out.WriteString("\n")
			return line
		case token.EndOfStream:
			// Leave the end-of-stream for the main loop to handle once the
			// directive completes.
			pp.scn().PushTokenString(token.NewString(t))
			return line
		case token.LineBreak:
			// Logical line continues.
		default:
			line.Append(t)
		}
	}
}

// parseDirective dispatches on a directive name.  Within an inactive
// region only the conditional directives are interpreted.
func (pp *PreProcessor) parseDirective(t *token.Token) {
	line := pp.collectLine()
	//
	switch t.Spell() {
	case "if", "ifdef", "ifndef":
		pp.parseIf(t, line)
		return
	case "elif":
		pp.parseElif(t, line)
		return
	case "else":
		pp.parseElse(t, line)
		return
	case "endif":
		pp.parseEndif(t, line)
		return
	}
	// All remaining directives are skipped inside inactive regions.
	if !pp.active() {
		return
	}
	//
	switch t.Spell() {
	case "define":
		pp.parseDefine(t, line)
	case "undef":
		pp.parseUndef(t, line)
	case "include":
		pp.parseInclude(t, line)
	case "pragma":
		pp.parsePragma(t, line)
	case "line":
		pp.parseLine(t, line)
	case "error":
		pp.handler.Error(t.Area(), line.TrimSpace().Spell())
	case "hlsl_full_path":
		// Accepted for compatibility; carries no meaning here.
	default:
		pp.handler.Error(t.Area(), "unknown preprocessor directive '#"+t.Spell()+"'")
	}
}

func (pp *PreProcessor) parseDefine(t *token.Token, line *token.String) {
	tokens := line.Tokens()
	//
	i := skipSpace(tokens, 0)
	if i >= len(tokens) || tokens[i].Kind() != token.Ident {
		pp.handler.Error(t.Area(), "expected identifier after '#define'")
		return
	}
	//
	name := tokens[i]
	i++
	//
	macro := &Macro{Pos: name.Pos()}
	// A parameter list only counts when the '(' immediately follows the
	// macro name.
	if i < len(tokens) && tokens[i].Kind() == token.LBracket {
		macro.HasParams = true
		i++
		//
		for {
			i = skipSpace(tokens, i)
			//
			if i >= len(tokens) {
				pp.handler.Error(t.Area(), "missing ')' in macro parameter list")
				return
			}
			//
			if tokens[i].Kind() == token.RBracket {
				i++
				break
			}
			//
			if tokens[i].Kind() != token.Ident {
				pp.handler.Error(tokens[i].Area(), "expected macro parameter name")
				return
			}
			//
			macro.Params = append(macro.Params, tokens[i].Spell())
			i++
			//
			i = skipSpace(tokens, i)
			//
			if i < len(tokens) && tokens[i].Kind() == token.Comma {
				i++
			}
		}
	}
	//
	macro.Body = token.NewString(tokens[i:]...).TrimSpace()
	//
	if prev, ok := pp.macros[name.Spell()]; ok {
		if prev.Body.Equal(macro.Body) && len(prev.Params) == len(macro.Params) {
			pp.handler.Warning(name.Area(), "redefinition of macro '"+name.Spell()+"'")
		} else {
			pp.handler.Error(name.Area(), "redefinition of macro '"+name.Spell()+"' with mismatch")
			return
		}
	}
	//
	pp.macros[name.Spell()] = macro
}

func (pp *PreProcessor) parseUndef(t *token.Token, line *token.String) {
	it := line.Iter()
	//
	name := it.Next()
	if name == nil || name.Kind() != token.Ident {
		pp.handler.Error(t.Area(), "expected identifier after '#undef'")
		return
	}
	//
	delete(pp.macros, name.Spell())
}

func (pp *PreProcessor) parseInclude(t *token.Token, line *token.String) {
	name, useSearchPaths, ok := parseIncludeName(line)
	if !ok {
		pp.handler.Error(t.Area(), "expected file name after '#include'")
		return
	}
	//
	if pp.include == nil {
		pp.handler.Error(t.Area(), "failed to include file \""+name+"\": no include handler")
		return
	}
	//
	src, err := pp.include.Include(name, useSearchPaths)
	if err != nil {
		pp.handler.Error(t.Area(), err.Error())
		return
	}
	// Files marked "#pragma once" are included at most once per run.
	if _, marked := pp.once[src.Name()]; marked {
		return
	}
	//
	fmt.Fprintf(&pp.out, "#line 1 \"%s\"\n", src.Name())
	pp.push(src)
}

// parseIncludeName extracts the filename from an include directive line,
// accepting both the quoted and the angle-bracket form.
func parseIncludeName(line *token.String) (string, bool, bool) {
	it := line.Iter()
	//
	first := it.Next()
	if first == nil {
		return "", false, false
	}
	//
	if first.Kind() == token.StringLiteral {
		spell := strings.Trim(first.Spell(), "\"")
		return spell, false, spell != ""
	}
	// Angle-bracket form: reassemble spellings up to '>'.
	if first.Kind() == token.BinaryOp && first.Spell() == "<" {
		var sb strings.Builder
		//
		for {
			t := it.NextAny()
			if t == nil {
				return "", true, false
			}
			//
			if t.Kind() == token.BinaryOp && t.Spell() == ">" {
				return strings.TrimSpace(sb.String()), true, sb.Len() > 0
			}
			//
			sb.WriteString(t.Spell())
		}
	}
	//
	return "", false, false
}

func (pp *PreProcessor) parsePragma(t *token.Token, line *token.String) {
	it := line.Iter()
	//
	name := it.Next()
	if name == nil {
		pp.handler.Warning(t.Area(), "empty '#pragma' directive ignored")
		return
	}
	//
	switch name.Spell() {
	case "once":
		pp.once[pp.scn().Source().Name()] = struct{}{}
	case "pack_matrix":
		// Forwarded verbatim, keeping the line's own spacing; the parser
		// interprets it.
		pp.out.WriteString("#pragma")
		pp.writeString(line)
		pp.out.WriteString("\n")
	default:
		pp.handler.Warning(name.Area(), "unknown pragma '"+name.Spell()+"' ignored")
	}
}

func (pp *PreProcessor) parseLine(t *token.Token, line *token.String) {
	it := line.Iter()
	//
	num := it.Next()
	if num == nil || num.Kind() != token.IntLiteral {
		pp.handler.Error(t.Area(), "expected line number after '#line'")
		return
	}
	//
	row, err := strconv.Atoi(num.Spell())
	if err != nil {
		pp.handler.Error(num.Area(), "invalid line number '"+num.Spell()+"'")
		return
	}
	//
	filename := pp.scn().Source().Name()
	//
	if f := it.Next(); f != nil && f.Kind() == token.StringLiteral {
		filename = strings.Trim(f.Spell(), "\"")
	}
	// Re-origin the input for preprocessor diagnostics, and forward the
	// directive so the parser re-origins the preprocessed stream too.
	pp.scn().Source().SetOrigin(filename, row, t.Pos().PhysicalRow())
	fmt.Fprintf(&pp.out, "#line %d \"%s\"\n", row, filename)
}

func (pp *PreProcessor) parseIf(t *token.Token, line *token.String) {
	parentActive := pp.active()
	cond := false
	//
	if parentActive {
		switch t.Spell() {
		case "ifdef":
			cond = pp.definedName(t, line)
		case "ifndef":
			cond = !pp.definedName(t, line)
		default:
			cond = pp.evalCondition(t, line)
		}
	}
	//
	pp.ifStack = append(pp.ifStack, ifBlock{t, parentActive, parentActive && cond, cond, false})
}

func (pp *PreProcessor) parseElif(t *token.Token, line *token.String) {
	if len(pp.ifStack) == 0 {
		pp.handler.Error(t.Area(), "missing '#if' for '#elif'")
		return
	}
	//
	b := &pp.ifStack[len(pp.ifStack)-1]
	//
	if b.expectEndif {
		pp.handler.Error(t.Area(), "'#elif' after '#else'")
		return
	}
	//
	if !b.parentActive || b.wasActive {
		b.active = false
		return
	}
	//
	cond := pp.evalCondition(t, line)
	b.active = cond
	b.wasActive = cond
}

func (pp *PreProcessor) parseElse(t *token.Token, line *token.String) {
	if len(pp.ifStack) == 0 {
		pp.handler.Error(t.Area(), "missing '#if' for '#else'")
		return
	}
	//
	b := &pp.ifStack[len(pp.ifStack)-1]
	//
	if b.expectEndif {
		pp.handler.Error(t.Area(), "duplicate '#else'")
		return
	}
	//
	b.expectEndif = true
	b.active = b.parentActive && !b.wasActive
	b.wasActive = true
}

func (pp *PreProcessor) parseEndif(t *token.Token, line *token.String) {
	if len(pp.ifStack) == 0 {
		pp.handler.Error(t.Area(), "missing '#if' for '#endif'")
		return
	}
	//
	pp.ifStack = pp.ifStack[:len(pp.ifStack)-1]
}

// definedName evaluates the "#ifdef"/"#ifndef" operand.
func (pp *PreProcessor) definedName(t *token.Token, line *token.String) bool {
	it := line.Iter()
	//
	name := it.Next()
	if name == nil || name.Kind() != token.Ident {
		pp.handler.Error(t.Area(), "expected identifier after '#"+t.Spell()+"'")
		return false
	}
	//
	return pp.IsDefined(name.Spell())
}

// skipSpace advances an index over tokens of no interest.
func skipSpace(tokens []*token.Token, i int) int {
	for i < len(tokens) && !tokens[i].IsOfInterest() {
		i++
	}
	//
	return i
}
