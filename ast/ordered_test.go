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

	"github.com/google/go-cmp/cmp"
)

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)

	want := []string{"c", "a", "b"}
	if diff := cmp.Diff(want, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	wantVals := []int{3, 1, 2}
	if diff := cmp.Diff(wantVals, m.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderedMapSetOverwritePreservesPosition(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 100)

	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch after overwrite (-want +got):\n%s", diff)
	}
	v, ok := m.Get("a")
	if !ok || v != 100 {
		t.Errorf("Get(%q) = %v, %v, want 100, true", "a", v, ok)
	}
}

func TestOrderedMapDelete(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Delete("b")

	if diff := cmp.Diff([]string{"a", "c"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch after delete (-want +got):\n%s", diff)
	}
	if m.Has("b") {
		t.Error("deleted key should no longer be present")
	}
}

func TestOrderedMapCloneIsIndependent(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("a", 1)

	clone := m.Clone()
	clone.Set("b", 2)

	if m.Has("b") {
		t.Error("mutating a clone should not affect the original")
	}
	if !clone.Has("a") {
		t.Error("clone should retain the original's entries")
	}
}

func TestOrderedMapNilIsUsable(t *testing.T) {
	var m *OrderedMap[int]
	if m.Len() != 0 {
		t.Error("nil map should report zero length")
	}
	if m.Has("x") {
		t.Error("nil map should report no keys present")
	}
	if _, ok := m.Get("x"); ok {
		t.Error("nil map Get should report not-found")
	}
	if m.Keys() != nil || m.Values() != nil {
		t.Error("nil map Keys/Values should be nil")
	}
}
