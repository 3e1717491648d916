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
	"testing"

	"github.com/serates/barkml/token"
)

func TestNewBlockCompositeID(t *testing.T) {
	b := NewBlock("server", []string{"primary", "east"}, token.Location{}, Metadata{})
	if b.CompositeID != "server$primary$east" {
		t.Errorf("CompositeID = %q, want %q", b.CompositeID, "server$primary$east")
	}

	unlabelled := NewBlock("server", nil, token.Location{}, Metadata{})
	if unlabelled.CompositeID != "server" {
		t.Errorf("CompositeID = %q, want %q", unlabelled.CompositeID, "server")
	}
}

func TestChildStatementsAndNames(t *testing.T) {
	blk := NewBlock("server", nil, token.Location{}, Metadata{})
	blk.Children.Set("port", &Assignment{Ident: "port"})
	blk.Children.Set("host", &Assignment{Ident: "host"})

	names := ChildNames(blk)
	if len(names) != 2 || names[0] != "port" || names[1] != "host" {
		t.Errorf("ChildNames(block) = %v, want [port host]", names)
	}

	stmts := ChildStatements(blk)
	if len(stmts) != 2 {
		t.Fatalf("ChildStatements(block) returned %d entries, want 2", len(stmts))
	}
	if stmts[0].Identifier() != "port" {
		t.Errorf("first child = %q, want %q", stmts[0].Identifier(), "port")
	}

	a := &Assignment{Ident: "x"}
	if ChildStatements(a) != nil {
		t.Error("ChildStatements(Assignment) should be nil")
	}
	if ChildNames(a) != nil {
		t.Error("ChildNames(Assignment) should be nil")
	}
}

func TestIsGrouped(t *testing.T) {
	a := &Assignment{Ident: "x", Grouped: true}
	if !a.IsGrouped() {
		t.Error("Assignment.IsGrouped should reflect its Grouped field")
	}

	g := NewGroup("a.bml", token.Location{})
	if !g.IsGrouped() {
		t.Error("Group.IsGrouped should always be true")
	}

	m := NewModule("a.bml", token.Location{})
	if m.IsGrouped() {
		t.Error("Module.IsGrouped should always be false")
	}
}

func TestModuleIdentifierIsEmpty(t *testing.T) {
	m := NewModule("a.bml", token.Location{})
	if m.Identifier() != "" {
		t.Errorf("Module.Identifier() = %q, want empty", m.Identifier())
	}
}
