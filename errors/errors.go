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

// Package errors defines the shared error taxonomy (§7) used by the
// lexer, parser, and loader: a single Kind-tagged Error type so callers
// can type-switch on Kind rather than on a different Go type per phase.
package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/serates/barkml/token"
)

// Kind identifies which of the §7 error categories an Error belongs to.
type Kind int

const (
	_ Kind = iota
	LexError
	ParseError
	RecursionLimit
	TypeMismatch
	DuplicateIdentifier
	MergeConflict
	UnresolvedMacro
	MacroCycle
	FileError
	MacroTypeMismatch
)

var kindNames = map[Kind]string{
	LexError:            "LexError",
	ParseError:           "ParseError",
	RecursionLimit:       "RecursionLimit",
	TypeMismatch:         "TypeMismatch",
	DuplicateIdentifier:  "DuplicateIdentifier",
	MergeConflict:        "MergeConflict",
	UnresolvedMacro:      "UnresolvedMacro",
	MacroCycle:           "MacroCycle",
	FileError:            "FileError",
	MacroTypeMismatch:    "MacroTypeMismatch",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UnknownError"
}

// Error is the common error type for all four pipeline stages. Every
// error carries a Location per §7; fields beyond Message are populated
// only for the Kinds that need them (documented per field below) and are
// otherwise left at their zero value.
type Error struct {
	Kind    Kind
	Loc     token.Location
	Message string

	// Stack carries the re-entered-path stack for MacroCycle.
	Stack []string

	// Depth carries the exceeded depth for RecursionLimit.
	Depth int

	// Cause wraps an underlying error when the Error was built by Wrap
	// (for example a FileError's I/O failure, or the decode error behind
	// a ParseError for a malformed literal).
	Cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Loc.IsValid() || e.Loc.Label != "" {
		fmt.Fprintf(&b, " at %s", e.Loc)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Stack) > 0 {
		fmt.Fprintf(&b, " (stack: %s)", strings.Join(e.Stack, " -> "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %s", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Position returns e's Location, satisfying the positioned-error pattern
// used throughout the pack (cue/errors.Error.Position).
func (e *Error) Position() token.Location { return e.Loc }

// Newf builds an Error of the given kind at loc with a formatted
// message, mirroring cue/errors.Newf's shape but tagged with our closed
// Kind set instead of being a generic positioned error.
func Newf(kind Kind, loc token.Location, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches cause as the underlying error of a newly built Error.
func Wrap(kind Kind, loc token.Location, cause error, format string, args ...interface{}) *Error {
	e := Newf(kind, loc, format, args...)
	e.Cause = cause
	return e
}

// List aggregates several errors from one phase. The loader's per-file
// Collect step uses it: every file is parsed before the step fails, so
// each file's parse error is reported. The lexer and parser stop at
// their first error and return a single *Error, not a List.
type List []*Error

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
	}
}

// Add appends err to the list.
func (l *List) Add(err *Error) {
	*l = append(*l, err)
}

// Err returns l as an error, or nil if l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Print writes every error in l to w, one per line, in the style of
// cue/errors.Print.
func Print(w io.Writer, l List) {
	for _, e := range l {
		fmt.Fprintln(w, e.Error())
	}
}
