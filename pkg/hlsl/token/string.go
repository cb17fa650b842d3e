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
package token

import "strings"

// String is an ordered sequence of tokens, used for macro bodies and macro
// arguments.  Equality and iteration are defined over tokens of interest, so
// two strings differing only in white space or comments compare equal.
type String struct {
	tokens []*Token
}

// NewString constructs an empty token string.
func NewString(tokens ...*Token) *String {
	return &String{tokens}
}

// Append adds a token to the end of this string.
func (s *String) Append(t *Token) {
	s.tokens = append(s.tokens, t)
}

// AppendString adds all tokens of another string to the end of this one.
func (s *String) AppendString(o *String) {
	s.tokens = append(s.tokens, o.tokens...)
}

// Tokens returns the underlying token sequence, including tokens of no
// interest.
func (s *String) Tokens() []*Token {
	return s.tokens
}

// Empty reports whether this string contains no token of interest.
func (s *String) Empty() bool {
	for _, t := range s.tokens {
		if t.IsOfInterest() {
			return false
		}
	}

	return true
}

// Len returns the total number of tokens, including tokens of no interest.
func (s *String) Len() int {
	return len(s.tokens)
}

// OfInterest returns the sub-sequence of meaningful tokens.
func (s *String) OfInterest() []*Token {
	var out []*Token
	//
	for _, t := range s.tokens {
		if t.IsOfInterest() {
			out = append(out, t)
		}
	}
	//
	return out
}

// Equal reports whether two token strings agree on their ordered sequence of
// (kind, spelling) pairs over tokens of interest.
func (s *String) Equal(o *String) bool {
	a, b := s.OfInterest(), o.OfInterest()
	//
	if len(a) != len(b) {
		return false
	}
	//
	for i := range a {
		if a[i].Kind() != b[i].Kind() || a[i].Spell() != b[i].Spell() {
			return false
		}
	}
	//
	return true
}

// TrimSpace returns a copy of this string with leading and trailing tokens
// of no interest removed.
func (s *String) TrimSpace() *String {
	start, end := 0, len(s.tokens)
	//
	for start < end && !s.tokens[start].IsOfInterest() {
		start++
	}
	//
	for end > start && !s.tokens[end-1].IsOfInterest() {
		end--
	}
	//
	return &String{s.tokens[start:end]}
}

// Spell concatenates the spellings of all tokens, as used by the stringize
// operator.
func (s *String) Spell() string {
	var sb strings.Builder
	//
	for _, t := range s.tokens {
		sb.WriteString(t.Spell())
	}
	//
	return sb.String()
}

// Iterator walks a token string, skipping tokens of no interest.
type Iterator struct {
	tokens []*Token
	index  int
}

// Iter returns an iterator positioned before the first token of interest.
func (s *String) Iter() *Iterator {
	return &Iterator{s.tokens, 0}
}

// HasNext reports whether another token of interest remains.
func (it *Iterator) HasNext() bool {
	for i := it.index; i < len(it.tokens); i++ {
		if it.tokens[i].IsOfInterest() {
			return true
		}
	}
	//
	return false
}

// Next returns the next token of interest and advances, or nil when the
// string is exhausted.
func (it *Iterator) Next() *Token {
	for it.index < len(it.tokens) {
		t := it.tokens[it.index]
		it.index++
		//
		if t.IsOfInterest() {
			return t
		}
	}
	//
	return nil
}

// NextAny returns the next token regardless of interest, or nil when the
// string is exhausted.  The preprocessor uses this to copy verbatim text.
func (it *Iterator) NextAny() *Token {
	if it.index < len(it.tokens) {
		t := it.tokens[it.index]
		it.index++
		//
		return t
	}
	//
	return nil
}
