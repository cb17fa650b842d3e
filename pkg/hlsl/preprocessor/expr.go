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
	"github.com/xsclang/xsc/pkg/hlsl/token"
	"github.com/xsclang/xsc/pkg/hlsl/variant"
)

// binaryPrec is the C-like precedence ladder for "#if" expressions; higher
// binds tighter.
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

// evalCondition evaluates the constant expression of an "#if" or "#elif"
// directive.  The "defined" operator is substituted first, then macros are
// expanded, then the token string is pushed onto the scanner and parsed
// with the standard precedence ladder.
func (pp *PreProcessor) evalCondition(t *token.Token, line *token.String) bool {
	pre := pp.substituteDefined(t, line)
	expanded := pp.expandString(pre, 0)
	// Terminate so the expression parser stops at the end of the line.
	expanded.Append(token.New(token.EndOfStream, "", t.Area()))
	//
	pp.scn().PushTokenString(expanded)
	defer pp.scn().PopTokenString()
	//
	p := condParser{pp: pp}
	p.next()
	//
	if p.tkn.Kind() == token.EndOfStream {
		pp.handler.Error(t.Area(), "expected expression after '#"+t.Spell()+"'")
		return false
	}
	//
	value := p.parseBinary(0)
	//
	if !p.failed && p.tkn.Kind() != token.EndOfStream {
		p.errorHere("unexpected token '" + p.tkn.Spell() + "' in directive expression")
	}
	//
	return !p.failed && value.ToBool()
}

// substituteDefined replaces "defined IDENT" and "defined(IDENT)" with
// boolean literals, before any macro expansion takes place.
func (pp *PreProcessor) substituteDefined(t *token.Token, line *token.String) *token.String {
	out := token.NewString()
	tokens := line.OfInterest()
	//
	for i := 0; i < len(tokens); i++ {
		tkn := tokens[i]
		//
		if tkn.Kind() != token.Ident || tkn.Spell() != "defined" {
			out.Append(tkn)
			continue
		}
		//
		j := i + 1
		bracketed := j < len(tokens) && tokens[j].Kind() == token.LBracket
		//
		if bracketed {
			j++
		}
		//
		if j >= len(tokens) || tokens[j].Kind() != token.Ident {
			pp.handler.Error(tkn.Area(), "expected identifier after 'defined'")
			out.Append(token.New(token.BoolLiteral, "false", tkn.Area()))
			//
			continue
		}
		//
		name := tokens[j].Spell()
		//
		if bracketed {
			j++
			//
			if j >= len(tokens) || tokens[j].Kind() != token.RBracket {
				pp.handler.Error(tkn.Area(), "missing ')' after 'defined'")
				continue
			}
		}
		//
		spell := "false"
		if pp.IsDefined(name) {
			spell = "true"
		}
		//
		out.Append(token.New(token.BoolLiteral, spell, tkn.Area()))
		i = j
	}
	//
	return out
}

// condParser is a small precedence-climbing parser over the scanner's
// pushed token string.
type condParser struct {
	pp     *PreProcessor
	tkn    *token.Token
	failed bool
}

func (p *condParser) next() {
	for {
		t := p.pp.scn().Next()
		if t.IsOfInterest() {
			p.tkn = t
			return
		}
	}
}

func (p *condParser) errorHere(msg string) {
	if !p.failed {
		p.pp.handler.Error(p.tkn.Area(), msg)
		p.failed = true
	}
}

func (p *condParser) parseBinary(minPrec int) variant.Variant {
	lhs := p.parseUnary()
	//
	for !p.failed && p.tkn.Kind() == token.BinaryOp {
		prec, ok := binaryPrec[p.tkn.Spell()]
		if !ok || prec < minPrec {
			break
		}
		//
		op := p.tkn
		p.next()
		//
		rhs := p.parseBinary(prec + 1)
		lhs = p.apply(op, lhs, rhs)
	}
	//
	return lhs
}

func (p *condParser) parseUnary() variant.Variant {
	spell := p.tkn.Spell()
	//
	switch {
	case p.tkn.Kind() == token.UnaryOp && spell == "!":
		p.next()
		return variant.Not(p.parseUnary())
	case p.tkn.Kind() == token.UnaryOp && spell == "~":
		p.next()
		return variant.BitNot(p.parseUnary())
	case p.tkn.Kind() == token.BinaryOp && spell == "-":
		p.next()
		return variant.Neg(p.parseUnary())
	case p.tkn.Kind() == token.BinaryOp && spell == "+":
		p.next()
		return p.parseUnary()
	}
	//
	return p.parsePrimary()
}

func (p *condParser) parsePrimary() variant.Variant {
	switch p.tkn.Kind() {
	case token.IntLiteral:
		v, err := variant.ParseInt(p.tkn.Spell())
		if err != nil {
			p.errorHere(err.Error())
		}
		//
		p.next()
		//
		return v
	case token.FloatLiteral:
		v, err := variant.ParseReal(p.tkn.Spell())
		if err != nil {
			p.errorHere(err.Error())
		}
		//
		p.next()
		//
		return v
	case token.BoolLiteral:
		v := variant.FromBool(p.tkn.Spell() == "true")
		p.next()
		//
		return v
	case token.Ident:
		// Surviving identifiers name undefined macros and evaluate to 0.
		p.next()
		return variant.FromInt(0)
	case token.LBracket:
		p.next()
		//
		v := p.parseBinary(0)
		//
		if p.tkn.Kind() != token.RBracket {
			p.errorHere("missing ')' in directive expression")
		} else {
			p.next()
		}
		//
		return v
	}
	//
	p.errorHere("unexpected token '" + p.tkn.Spell() + "' in directive expression")
	//
	return variant.Variant{}
}

func (p *condParser) apply(op *token.Token, lhs, rhs variant.Variant) variant.Variant {
	var (
		out variant.Variant
		err error
	)
	//
	switch op.Spell() {
	case "||":
		out = variant.FromBool(lhs.ToBool() || rhs.ToBool())
	case "&&":
		out = variant.FromBool(lhs.ToBool() && rhs.ToBool())
	case "|":
		out, err = variant.BitOr(lhs, rhs)
	case "^":
		out, err = variant.BitXor(lhs, rhs)
	case "&":
		out, err = variant.BitAnd(lhs, rhs)
	case "==":
		out = variant.FromBool(variant.Compare(lhs, rhs) == 0)
	case "!=":
		out = variant.FromBool(variant.Compare(lhs, rhs) != 0)
	case "<":
		out = variant.FromBool(variant.Compare(lhs, rhs) < 0)
	case ">":
		out = variant.FromBool(variant.Compare(lhs, rhs) > 0)
	case "<=":
		out = variant.FromBool(variant.Compare(lhs, rhs) <= 0)
	case ">=":
		out = variant.FromBool(variant.Compare(lhs, rhs) >= 0)
	case "<<":
		out, err = variant.Shl(lhs, rhs)
	case ">>":
		out, err = variant.Shr(lhs, rhs)
	case "+":
		out, err = variant.Add(lhs, rhs)
	case "-":
		out, err = variant.Sub(lhs, rhs)
	case "*":
		out, err = variant.Mul(lhs, rhs)
	case "/":
		out, err = variant.Div(lhs, rhs)
	case "%":
		out, err = variant.Mod(lhs, rhs)
	}
	//
	if err != nil {
		p.pp.handler.Error(op.Area(), err.Error()+" in directive expression")
		p.failed = true
	}
	//
	return out
}
