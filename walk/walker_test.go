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

package walk

import (
	"testing"

	"github.com/serates/barkml/parser"
)

func mustWalker(t *testing.T, src string) Walker {
	t.Helper()
	mod, err := parser.Parse("t.bml", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return New(mod)
}

func TestGetChildDescendsOneLevel(t *testing.T) {
	w := mustWalker(t, `
server {
  port = 8080
}
`)
	srv, ok := w.GetChild("server")
	if !ok {
		t.Fatal("missing server")
	}
	port, ok := srv.GetChild("port")
	if !ok {
		t.Fatal("missing server.port")
	}
	if s, ok := port.String(); ok {
		t.Errorf("port.String() = %q, ok; want a numeric value to reject String()", s)
	}
}

func TestGetDottedPathWithCompositeIDSegment(t *testing.T) {
	w := mustWalker(t, `
server primary {
  port = 8080
}
`)
	port, ok := w.Get("server$primary.port")
	if !ok {
		t.Fatal("missing server$primary.port")
	}
	v, ok := port.Value()
	if !ok || v.Num.String() != "8080" {
		t.Errorf("port = %+v, want 8080", v)
	}
}

func TestGetMissingPathSegmentFails(t *testing.T) {
	w := mustWalker(t, `server { port = 8080 }`)
	if _, ok := w.Get("server.missing"); ok {
		t.Error("expected Get to fail on a missing final segment")
	}
	if _, ok := w.Get("missing.port"); ok {
		t.Error("expected Get to fail on a missing first segment")
	}
}

func TestStringAndSymbolAreMutuallyExclusive(t *testing.T) {
	w := mustWalker(t, `
name = "svc"
mode = :primary
`)
	name, _ := w.GetChild("name")
	if _, ok := name.Symbol(); ok {
		t.Error("a String value should be rejected by Symbol()")
	}
	if s, ok := name.String(); !ok || s != "svc" {
		t.Errorf("name.String() = %q, %v, want svc, true", s, ok)
	}

	mode, _ := w.GetChild("mode")
	if _, ok := mode.String(); ok {
		t.Error("a Symbol value should be rejected by String()")
	}
	if s, ok := mode.Symbol(); !ok || s != "primary" {
		t.Errorf("mode.Symbol() = %q, %v, want primary, true", s, ok)
	}
}

func TestIsNull(t *testing.T) {
	w := mustWalker(t, `x = null`)
	xw, _ := w.GetChild("x")
	if !xw.IsNull() {
		t.Error("expected x to be Null")
	}
}

func TestBool(t *testing.T) {
	w := mustWalker(t, `flag = true`)
	fw, _ := w.GetChild("flag")
	b, ok := fw.Bool()
	if !ok || !b {
		t.Errorf("flag.Bool() = %v, %v, want true, true", b, ok)
	}
}
