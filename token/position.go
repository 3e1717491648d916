// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package token defines the lexical tokens of the BarkML configuration
// language and the Location type used to carry source position
// information through the lexer, parser, and loader.
package token

import "fmt"

// Location captures where in a source document a token, value, statement,
// or error originates. Unlike a typical Go/CUE token.Pos, Location carries
// its fields directly (source label, offset, length, line, column) rather
// than indirecting through a shared file table: BarkML sources are loaded
// and discarded independently by the loader (§3.7), so there is no
// benefit to a shared position table and every consumer wants the fields
// inline for diagnostics.
type Location struct {
	Label  string // source label, typically a file name
	Offset int    // absolute byte offset, 0-based
	Length int    // length in bytes of the spanned text
	Line   int    // 1-based line number
	Column int    // 1-based column number
}

// NoLocation is the zero value of Location; IsValid reports false for it.
var NoLocation = Location{}

// IsValid reports whether the location carries real line information.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// End returns the location immediately following l, useful for
// constructing a zero-length location that marks "just after" a span.
func (l Location) End() Location {
	end := l
	end.Offset += l.Length
	end.Length = 0
	return end
}

// String renders a human-readable "label:line:column" form, matching the
// convention used throughout the lexer/parser/loader error messages.
func (l Location) String() string {
	if !l.IsValid() {
		if l.Label != "" {
			return l.Label
		}
		return "-"
	}
	if l.Label == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Label, l.Line, l.Column)
}
