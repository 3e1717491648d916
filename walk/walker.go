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

// Package walk provides a minimal, read-only navigation view over a
// resolved Module (§6.2). It is deliberately thin: a dotted-path getter,
// one-level descent, and typed scalar accessors that perform no implicit
// widening beyond what types.Compatible already allows: a symbol is
// never silently read back as a string or vice versa (0.8.1).
package walk

import (
	"strings"

	"github.com/serates/barkml/ast"
	"github.com/serates/barkml/types"
)

// Walker navigates a single Statement and, transitively, its children.
type Walker struct {
	st ast.Statement
}

// New wraps a resolved Module for navigation.
func New(m *ast.Module) Walker {
	return Walker{st: m}
}

// Statement returns the wrapped statement.
func (w Walker) Statement() ast.Statement { return w.st }

// GetChild descends one level to the child named name (a bare identifier
// or, for a labelled Block sibling, its composite id such as
// "server$primary"). It reports false if w's statement has no such child.
func (w Walker) GetChild(name string) (Walker, bool) {
	switch n := w.st.(type) {
	case *ast.Module:
		st, ok := n.Children.Get(name)
		return Walker{st: st}, ok
	case *ast.Group:
		st, ok := n.Children.Get(name)
		return Walker{st: st}, ok
	case *ast.Section:
		st, ok := n.Children.Get(name)
		return Walker{st: st}, ok
	case *ast.Block:
		a, ok := n.Children.Get(name)
		if !ok {
			return Walker{}, false
		}
		return Walker{st: a}, true
	default:
		return Walker{}, false
	}
}

// Get navigates a dotted path, e.g. "server$primary.port", by splitting
// on "." and descending one GetChild call per segment.
func (w Walker) Get(dottedPath string) (Walker, bool) {
	cur := w
	for _, seg := range strings.Split(dottedPath, ".") {
		next, ok := cur.GetChild(seg)
		if !ok {
			return Walker{}, false
		}
		cur = next
	}
	return cur, true
}

// Value returns the scalar value this walker's statement carries, if it
// wraps an Assignment. Blocks, Sections, and the Module itself carry no
// direct value.
func (w Walker) Value() (*ast.Value, bool) {
	a, ok := w.st.(*ast.Assignment)
	if !ok {
		return nil, false
	}
	return a.Value, true
}

// String returns the underlying value as a Go string, rejecting a Symbol
// value (0.8.1: symbol must be explicitly coerced, never read back as a
// plain string).
func (w Walker) String() (string, bool) {
	v, ok := w.Value()
	if !ok || v.Kind != types.String {
		return "", false
	}
	return v.Str, true
}

// Symbol returns the underlying value's bare name (without its leading
// ':') if it is a Symbol, rejecting a plain String value.
func (w Walker) Symbol() (string, bool) {
	v, ok := w.Value()
	if !ok || v.Kind != types.Symbol {
		return "", false
	}
	return v.Str, true
}

// Bool returns the underlying value as a Go bool.
func (w Walker) Bool() (bool, bool) {
	v, ok := w.Value()
	if !ok || v.Kind != types.Bool {
		return false, false
	}
	return v.Bool, true
}

// IsNull reports whether the underlying value is Null.
func (w Walker) IsNull() bool {
	v, ok := w.Value()
	return ok && v.Kind == types.Null
}
