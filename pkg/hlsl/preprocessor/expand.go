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
package preprocessor

import (
	"fmt"

	"github.com/xsclang/xsc/pkg/hlsl/token"
)

// maxExpandDepth bounds recursive macro expansion within directive lines.
const maxExpandDepth = 64

// expandOrWrite handles an identifier in the main stream: if it names a
// macro, the expansion is pushed back onto the scanner so nested macros
// re-expand naturally; otherwise the identifier is copied verbatim.
func (pp *PreProcessor) expandOrWrite(t *token.Token) {
	macro, ok := pp.macros[t.Spell()]
	if !ok {
		pp.write(t)
		return
	}
	//
	if pp.expansions >= maxExpansions {
		pp.handler.Error(t.Area(), "macro expansion of '"+t.Spell()+"' is too deep")
		pp.write(t)
		//
		return
	}
	//
	var args []*token.String
	//
	if macro.HasParams {
		// Without an argument list the identifier is left alone.
		pending, found := pp.peekArgsBegin()
		if !found {
			pp.write(t)
			pp.writeString(pending)
			//
			return
		}
		//
		var ok bool
		if args, ok = pp.collectArgs(t, macro); !ok {
			return
		}
	}
	//
	pp.expansions++
	pp.scn().PushTokenString(pp.substitute(t, macro, args))
}

// peekArgsBegin reads ahead over formatting tokens looking for the '(' of
// a macro argument list.  When none follows, the skipped tokens are
// returned so the caller can emit them verbatim.
func (pp *PreProcessor) peekArgsBegin() (*token.String, bool) {
	skipped := token.NewString()
	//
	for {
		t := pp.scn().Next()
		//
		switch t.Kind() {
		case token.WhiteSpace, token.NewLine, token.LineBreak, token.Comment:
			skipped.Append(t)
			continue
		case token.LBracket:
			return skipped, true
		case token.EndOfStream:
			// Push EOS back is impossible; the main loop will see it again
			// only via a fresh scan, so re-inject it.
			pp.scn().PushTokenString(token.NewString(t))
			return skipped, false
		}
		//
		pp.scn().PushTokenString(token.NewString(t))
		//
		return skipped, false
	}
}

// collectArgs reads the comma-separated argument token strings of a macro
// call, balancing nested brackets.  The opening '(' has already been
// consumed.
func (pp *PreProcessor) collectArgs(t *token.Token, macro *Macro) ([]*token.String, bool) {
	var (
		args  []*token.String
		arg   = token.NewString()
		depth = 0
	)
	//
	for {
		tkn := pp.scn().Next()
		//
		switch tkn.Kind() {
		case token.EndOfStream:
			pp.handler.Error(t.Area(), "unexpected end of stream in macro call")
			return nil, false
		case token.LBracket, token.LCurly, token.LParen:
			depth++
			arg.Append(tkn)
			continue
		case token.RCurly, token.RParen:
			depth--
			arg.Append(tkn)
			continue
		case token.RBracket:
			if depth == 0 {
				args = append(args, arg.TrimSpace())
				return pp.checkArgCount(t, macro, args)
			}
			//
			depth--
			arg.Append(tkn)
			continue
		case token.Comma:
			if depth == 0 {
				args = append(args, arg.TrimSpace())
				arg = token.NewString()
				//
				continue
			}
		}
		//
		arg.Append(tkn)
	}
}

// checkArgCount validates the collected argument count against the macro's
// declared parameters.
func (pp *PreProcessor) checkArgCount(t *token.Token, macro *Macro, args []*token.String) ([]*token.String, bool) {
	// A single empty argument to a zero-parameter macro is "F()".
	if len(macro.Params) == 0 && len(args) == 1 && args[0].Empty() {
		return nil, true
	}
	//
	if len(args) != len(macro.Params) {
		pp.handler.Error(t.Area(), fmt.Sprintf(
			"invalid number of arguments for macro '%s' (expected %d, got %d)",
			t.Spell(), len(macro.Params), len(args),
		))
		//
		return nil, false
	}
	//
	return args, true
}

// substitute builds the replacement token string for one macro invocation:
// parameters are replaced by their argument strings and the stringize
// prefix turns an argument into a string literal.
func (pp *PreProcessor) substitute(at *token.Token, macro *Macro, args []*token.String) *token.String {
	out := token.NewString()
	//
	for _, t := range macro.Body.Tokens() {
		switch t.Kind() {
		case token.Ident:
			if i := macro.ParamIndex(t.Spell()); i >= 0 {
				out.AppendString(args[i])
				continue
			}
		case token.Directive:
			// Stringize: '#param' becomes a string literal of the
			// argument's spelling.
			if i := macro.ParamIndex(t.Spell()); i >= 0 {
				spell := "\"" + args[i].Spell() + "\""
				out.Append(token.New(token.StringLiteral, spell, at.Area()))
				//
				continue
			}
		}
		//
		out.Append(t)
	}
	//
	return out
}

// expandString eagerly expands all macros within a token string, as needed
// for "#if" condition lines.  Expansion depth is bounded to terminate
// self-referential macros.
func (pp *PreProcessor) expandString(ts *token.String, depth int) *token.String {
	if depth > maxExpandDepth {
		return ts
	}
	//
	out := token.NewString()
	tokens := ts.Tokens()
	//
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		//
		macro, ok := pp.macros[t.Spell()]
		if t.Kind() != token.Ident || !ok {
			out.Append(t)
			continue
		}
		//
		var args []*token.String
		//
		if macro.HasParams {
			j := skipSpace(tokens, i+1)
			//
			if j >= len(tokens) || tokens[j].Kind() != token.LBracket {
				out.Append(t)
				continue
			}
			//
			var rest int
			if args, rest, ok = collectArgsFrom(tokens, j+1); !ok {
				pp.handler.Error(t.Area(), "missing ')' in macro call")
				out.Append(t)
				//
				continue
			}
			//
			if len(macro.Params) != len(args) &&
				!(len(macro.Params) == 0 && len(args) == 1 && args[0].Empty()) {
				pp.handler.Error(t.Area(), fmt.Sprintf(
					"invalid number of arguments for macro '%s' (expected %d, got %d)",
					t.Spell(), len(macro.Params), len(args),
				))
				out.Append(t)
				//
				continue
			}
			//
			if len(macro.Params) == 0 {
				args = nil
			}
			//
			i = rest
		}
		//
		sub := pp.substitute(t, macro, args)
		out.AppendString(pp.expandString(sub, depth+1))
	}
	//
	return out
}

// collectArgsFrom collects macro arguments from a token slice, returning
// the arguments and the index of the closing bracket.
func collectArgsFrom(tokens []*token.Token, i int) ([]*token.String, int, bool) {
	var (
		args  []*token.String
		arg   = token.NewString()
		depth = 0
	)
	//
	for ; i < len(tokens); i++ {
		t := tokens[i]
		//
		switch t.Kind() {
		case token.LBracket, token.LCurly, token.LParen:
			depth++
		case token.RCurly, token.RParen:
			depth--
		case token.RBracket:
			if depth == 0 {
				args = append(args, arg.TrimSpace())
				return args, i, true
			}
			//
			depth--
		case token.Comma:
			if depth == 0 {
				args = append(args, arg.TrimSpace())
				arg = token.NewString()
				//
				continue
			}
		}
		//
		arg.Append(t)
	}
	//
	return nil, i, false
}
