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

package load

import (
	"testing"

	"github.com/serates/barkml/ast"
	"github.com/serates/barkml/parser"
)

func mustResolve(t *testing.T, src string, cfg Config) *ast.OrderedMap[ast.Statement] {
	t.Helper()
	mod, err := parser.Parse("t.bml", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	resolved, err := resolveModule(mod.Children, cfg)
	if err != nil {
		t.Fatalf("resolveModule: %v", err)
	}
	return resolved
}

func TestResolveScopedLookupPrefersNestedSibling(t *testing.T) {
	// Within server's own body, "m!port" should resolve to server's own
	// port, not any top-level "port" assignment, per the longest-prefix
	// scope rule (§4.5).
	children := mustResolve(t, `
port = 1
server {
  port = 99
  target = m!port
}
`, DefaultConfig())
	srv, _ := children.Get("server")
	a, _ := srv.(*ast.Block).Children.Get("target")
	if got := a.Value.Num.String(); got != "99" {
		t.Errorf("target = %s, want 99 (nested scope wins)", got)
	}
}

func TestResolveFallsBackToRootWhenNoNestedMatch(t *testing.T) {
	children := mustResolve(t, `
port = 1
server {
  target = m!port
}
`, DefaultConfig())
	srv, _ := children.Get("server")
	a, _ := srv.(*ast.Block).Children.Get("target")
	if got := a.Value.Num.String(); got != "1" {
		t.Errorf("target = %s, want 1 (root fallback)", got)
	}
}

func TestResolveSubstitutionKeepsMacroReferenceLocationOnly(t *testing.T) {
	children := mustResolve(t, `
host = "db.internal"
target = m!host
`, DefaultConfig())
	macroSt, _ := children.Get("target")
	hostSt, _ := children.Get("host")
	macroVal := macroSt.(*ast.Assignment).Value
	hostVal := hostSt.(*ast.Assignment).Value
	if macroVal.Str != hostVal.Str {
		t.Errorf("substituted value = %q, want %q", macroVal.Str, hostVal.Str)
	}
	if macroVal.Loc == hostVal.Loc {
		t.Error("substituted value should not inherit the target's location")
	}
}

func TestResolveMacroToBlockYieldsTable(t *testing.T) {
	children := mustResolve(t, `
server {
  host = "db"
  port = 5432
}
cfg = m!server
`, DefaultConfig())
	st, _ := children.Get("cfg")
	v := st.(*ast.Assignment).Value
	host, ok := v.Entries.Get("host")
	if !ok || host.Str != "db" {
		t.Errorf("cfg.host = %+v, want String(db)", host)
	}
}

func TestResolveChainFollowsMacroToMacro(t *testing.T) {
	children := mustResolve(t, `
a = "leaf"
b = m!a
c = m!b
`, DefaultConfig())
	st, _ := children.Get("c")
	if got := st.(*ast.Assignment).Value.Str; got != "leaf" {
		t.Errorf("c = %q, want leaf", got)
	}
}

func TestResolveChainIntermediateLinkKeepsItsOwnScope(t *testing.T) {
	// entry's chain hops through section.mid, whose own value is itself a
	// macro pointing at "leaf" — a sibling inside the same section, not a
	// root-level identifier. The second hop must be scoped relative to
	// section.mid's own container, not fall back to the root (§4.5).
	children := mustResolve(t, `
section {
  mid = m!leaf
  leaf = "inner"
}
entry = m!section.mid
`, DefaultConfig())
	st, _ := children.Get("entry")
	if got := st.(*ast.Assignment).Value.Str; got != "inner" {
		t.Errorf("entry = %q, want inner (scoped second hop)", got)
	}
}

func TestResolveDepthLimitExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 2
	mod, err := parser.Parse("t.bml", []byte(`
a = m!b
b = m!c
c = m!d
d = "leaf"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = resolveModule(mod.Children, cfg)
	if err == nil {
		t.Fatal("expected a MacroCycle error with MaxDepth=2")
	}
}
