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
	"github.com/serates/barkml/errors"
)

func TestLoadSingleModeRejectsMultipleFiles(t *testing.T) {
	provider := StaticProvider{
		{Label: "a.bml", Text: []byte(`x = 1`)},
		{Label: "b.bml", Text: []byte(`y = 2`)},
	}
	cfg := DefaultConfig()
	cfg.Mode = Single
	_, err := Load(provider, cfg)
	if err == nil {
		t.Fatal("expected an error: single mode with two files")
	}
}

func TestLoadEmptyProviderErrors(t *testing.T) {
	_, err := Load(StaticProvider{}, DefaultConfig())
	if err == nil {
		t.Fatal("expected an error: no files to load")
	}
}

func TestLoadMergesAndResolvesAcrossFiles(t *testing.T) {
	provider := StaticProvider{
		{Label: "a.bml", Text: []byte(`host = "db.internal"`)},
		{Label: "b.bml", Text: []byte(`target: string = m!host`)},
	}
	mod, err := Load(provider, DefaultConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	st, ok := mod.Children.Get("target")
	if !ok {
		t.Fatal("missing target")
	}
	a := st.(*ast.Assignment)
	if a.Value.Str != "db.internal" {
		t.Errorf("target = %+v, want the resolved db.internal string", a.Value)
	}
}

func TestLoadCollectsParseErrorsAcrossAllFiles(t *testing.T) {
	// A parse failure in one file must not abort the per-file Collect step
	// before every file has had a chance to parse: both bad files should
	// be reported, not just the first.
	provider := StaticProvider{
		{Label: "a.bml", Text: []byte(`x = `)},
		{Label: "b.bml", Text: []byte(`y = `)},
	}
	_, err := Load(provider, DefaultConfig())
	if err == nil {
		t.Fatal("expected a parse error")
	}
	list, ok := err.(errors.List)
	if !ok {
		t.Fatalf("err = %T, want errors.List", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d collected errors, want 2: %v", len(list), list)
	}
}

func TestLoadMacroCycleDetected(t *testing.T) {
	provider := StaticProvider{
		{Label: "a.bml", Text: []byte("x = m!y\ny = m!x\n")},
	}
	_, err := Load(provider, DefaultConfig())
	if err == nil {
		t.Fatal("expected a MacroCycle error")
	}
	bErr, ok := err.(*errors.Error)
	if !ok || bErr.Kind != errors.MacroCycle {
		t.Fatalf("err = %v, want MacroCycle", err)
	}
	if len(bErr.Stack) < 2 {
		t.Errorf("Stack = %v, want at least 2 entries", bErr.Stack)
	}
}

func TestLoadAllowMissingMacrosLeavesValueUnresolved(t *testing.T) {
	provider := StaticProvider{
		{Label: "a.bml", Text: []byte(`x = m!nonexistent`)},
	}
	cfg := DefaultConfig()
	cfg.AllowMissingMacros = true
	mod, err := Load(provider, cfg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	st, _ := mod.Children.Get("x")
	a := st.(*ast.Assignment)
	if a.Value.Macro == nil {
		t.Error("value should remain an unresolved macro reference")
	}
}

func TestLoadMissingMacroErrorsByDefault(t *testing.T) {
	provider := StaticProvider{
		{Label: "a.bml", Text: []byte(`x = m!nonexistent`)},
	}
	_, err := Load(provider, DefaultConfig())
	if err == nil {
		t.Fatal("expected an UnresolvedMacro error")
	}
	bErr, ok := err.(*errors.Error)
	if !ok || bErr.Kind != errors.UnresolvedMacro {
		t.Errorf("err = %v, want UnresolvedMacro", err)
	}
}

func TestLoadPathStrictRejectsAbsoluteLabel(t *testing.T) {
	provider := StaticProvider{
		{Label: "/etc/passwd.bml", Text: []byte(`x = 1`)},
	}
	cfg := DefaultConfig()
	cfg.PathValidation = PathStrict
	_, err := Load(provider, cfg)
	if err == nil {
		t.Fatal("expected a FileError for an absolute label")
	}
}

func TestLoadPathStrictRejectsTraversal(t *testing.T) {
	provider := StaticProvider{
		{Label: "../escape.bml", Text: []byte(`x = 1`)},
	}
	cfg := DefaultConfig()
	cfg.PathValidation = PathStrict
	_, err := Load(provider, cfg)
	if err == nil {
		t.Fatal("expected a FileError for a traversal label")
	}
}

func TestLoadRejectsOutOfOrderLabelsWithoutResorting(t *testing.T) {
	provider := StaticProvider{
		{Label: "b.bml", Text: []byte(`x = 1`)},
		{Label: "a.bml", Text: []byte(`y = 2`)},
	}
	_, err := Load(provider, DefaultConfig())
	if err == nil {
		t.Fatal("expected a FileError: labels not in lexicographic order")
	}
}

func TestLoadFileCacheReusesParseAcrossIdenticalContent(t *testing.T) {
	provider := StaticProvider{
		{Label: "a.bml", Text: []byte(`x = 1`)},
		{Label: "b.bml", Text: []byte(`x = 1`)},
	}
	cfg := DefaultConfig()
	cfg.FileCacheEnabled = true
	cfg.MergeStrategy = MergeOverride
	mod, err := Load(provider, cfg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := mod.Children.Get("x"); !ok {
		t.Error("missing x")
	}
}

func TestLoadSourceLabelMergedVsSingle(t *testing.T) {
	single, err := Load(StaticProvider{{Label: "only.bml", Text: []byte(`x = 1`)}}, DefaultConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if single.Source != "only.bml" {
		t.Errorf("Source = %q, want only.bml", single.Source)
	}

	multi, err := Load(StaticProvider{
		{Label: "a.bml", Text: []byte(`x = 1`)},
		{Label: "b.bml", Text: []byte(`y = 2`)},
	}, DefaultConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if multi.Source != "<merged>" {
		t.Errorf("Source = %q, want <merged>", multi.Source)
	}
}
