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

package ast

import (
	"strings"

	"github.com/serates/barkml/token"
	"github.com/serates/barkml/types"
)

// Statement is the closed tagged union described by §3.5. The set of
// concrete implementations (Assignment, Block, Section, Module, Group)
// is exhaustive: a type switch over Statement in bark/parser and
// bark/load should panic on default rather than silently ignore an
// unhandled case, per the "Polymorphism" design note (§9).
type Statement interface {
	// Identifier returns the statement's own name. Module returns "".
	Identifier() string
	Pos() token.Location
	Metadata() Metadata
	// IsGrouped reports whether the merge logic should preserve this
	// statement's per-file origin (§3.5).
	IsGrouped() bool

	stmtNode()
}

// Assignment is "ident = value" with an optional declared type hint.
type Assignment struct {
	Ident   string
	Type    *types.Type // nil if no type hint was given
	Value   *Value
	Loc     token.Location
	Meta    Metadata
	Grouped bool
}

func (a *Assignment) Identifier() string     { return a.Ident }
func (a *Assignment) Pos() token.Location     { return a.Loc }
func (a *Assignment) Metadata() Metadata      { return a.Meta }
func (a *Assignment) IsGrouped() bool         { return a.Grouped }
func (*Assignment) stmtNode()                 {}

// Block is a named, labelled statement whose children are assignments
// only (§3.5). Its CompositeID is identifier followed by each label
// joined with "$", computed once at parse time (§4.2 "Non-recursive
// construction") so path lookup never has to re-derive it.
type Block struct {
	Ident      string
	Labels     []string
	CompositeID string
	Children   *OrderedMap[*Assignment]
	Loc        token.Location
	Meta       Metadata
	Grouped    bool
}

// NewBlock constructs a Block and computes its CompositeID.
func NewBlock(ident string, labels []string, loc token.Location, meta Metadata) *Block {
	return &Block{
		Ident:       ident,
		Labels:      labels,
		CompositeID: compositeID(ident, labels),
		Children:    NewOrderedMap[*Assignment](),
		Loc:         loc,
		Meta:        meta,
	}
}

func compositeID(ident string, labels []string) string {
	if len(labels) == 0 {
		return ident
	}
	return ident + "$" + strings.Join(labels, "$")
}

func (b *Block) Identifier() string { return b.Ident }
func (b *Block) Pos() token.Location { return b.Loc }
func (b *Block) Metadata() Metadata  { return b.Meta }
func (b *Block) IsGrouped() bool     { return b.Grouped }
func (*Block) stmtNode()             {}

// Section is a named grouping of heterogeneous statement children
// (assignments, blocks, or sub-sections); it carries no labels.
type Section struct {
	Ident    string
	Children *OrderedMap[Statement]
	Loc      token.Location
	Meta     Metadata
	Grouped  bool
}

// NewSection constructs an empty Section.
func NewSection(ident string, loc token.Location, meta Metadata) *Section {
	return &Section{Ident: ident, Children: NewOrderedMap[Statement](), Loc: loc, Meta: meta}
}

func (s *Section) Identifier() string { return s.Ident }
func (s *Section) Pos() token.Location { return s.Loc }
func (s *Section) Metadata() Metadata  { return s.Meta }
func (s *Section) IsGrouped() bool     { return s.Grouped }
func (*Section) stmtNode()             {}

// Group is a transparent wrapper used by the loader to represent a
// single source file's top-level statement list before merge (§4.4 step
// 2, "Wrap"). For lookup purposes it behaves exactly like a Section
// (§3.5); it exists as a distinct type only so the merge pass can tell
// "this came from one physical file" apart from an author-written
// section.
type Group struct {
	Source   string
	Children *OrderedMap[Statement]
	Loc      token.Location
	Meta     Metadata
}

// NewGroup constructs an empty Group for the given source label.
func NewGroup(source string, loc token.Location) *Group {
	return &Group{Source: source, Children: NewOrderedMap[Statement](), Loc: loc}
}

func (g *Group) Identifier() string { return g.Source }
func (g *Group) Pos() token.Location { return g.Loc }
func (g *Group) Metadata() Metadata  { return g.Meta }
func (g *Group) IsGrouped() bool     { return true }
func (*Group) stmtNode()             {}

// Module is the root statement: an insertion-ordered mapping of child
// statements plus the source label it was parsed from (or a synthetic
// label for the loader's merged root, §4.4 step 2).
type Module struct {
	Source   string
	Children *OrderedMap[Statement]
	Loc      token.Location
	Meta     Metadata
}

// NewModule constructs an empty Module for the given source label.
func NewModule(source string, loc token.Location) *Module {
	return &Module{Source: source, Children: NewOrderedMap[Statement](), Loc: loc}
}

func (m *Module) Identifier() string { return "" }
func (m *Module) Pos() token.Location { return m.Loc }
func (m *Module) Metadata() Metadata  { return m.Meta }
func (m *Module) IsGrouped() bool     { return false }
func (*Module) stmtNode()             {}

// ChildStatements returns the children of any statement that behaves as
// a container (Section, Block, Module, Group; a Block's children are its
// assignments), or nil for Assignment. It is the single place that knows
// Block's children are typed *Assignment rather than Statement, so
// callers that want a uniform Statement view can use it instead of
// re-deriving the type switch themselves.
func ChildStatements(s Statement) []Statement {
	switch n := s.(type) {
	case *Section:
		return n.Children.Values()
	case *Module:
		return n.Children.Values()
	case *Group:
		return n.Children.Values()
	case *Block:
		out := make([]Statement, 0, n.Children.Len())
		for _, a := range n.Children.Values() {
			out = append(out, a)
		}
		return out
	case *Assignment:
		return nil
	default:
		panic("ast: unhandled Statement implementation in ChildStatements")
	}
}

// ChildNames returns the insertion-ordered child identifiers of s, using
// composite ids for Block children so labelled siblings of a Section are
// already disambiguated (§3.5).
func ChildNames(s Statement) []string {
	switch n := s.(type) {
	case *Section:
		return n.Children.Keys()
	case *Module:
		return n.Children.Keys()
	case *Group:
		return n.Children.Keys()
	case *Block:
		return n.Children.Keys()
	case *Assignment:
		return nil
	default:
		panic("ast: unhandled Statement implementation in ChildNames")
	}
}
