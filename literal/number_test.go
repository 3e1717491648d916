// Copyright 2020 CUE Authors
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

package literal

import (
	"testing"

	"github.com/serates/barkml/types"
)

func TestDecodeIntDefaultKind(t *testing.T) {
	n, err := DecodeInt("42")
	if err != nil {
		t.Fatalf("DecodeInt: %v", err)
	}
	if n.Kind != types.I32 {
		t.Errorf("Kind = %v, want i32", n.Kind)
	}
	if n.Value.String() != "42" {
		t.Errorf("Value = %s, want 42", n.Value.String())
	}
}

func TestDecodeIntSuffix(t *testing.T) {
	tests := []struct {
		lit  string
		kind types.Kind
		want string
	}{
		{"8u16", types.U16, "8"},
		{"0xFFu8", types.U8, "255"},
		{"0o17i32", types.I32, "15"},
		{"0b1010i64", types.I64, "10"},
		{"170141183460469231731687303715884105727i128", types.I128, "170141183460469231731687303715884105727"},
	}
	for _, tc := range tests {
		t.Run(tc.lit, func(t *testing.T) {
			n, err := DecodeInt(tc.lit)
			if err != nil {
				t.Fatalf("DecodeInt(%q): %v", tc.lit, err)
			}
			if n.Kind != tc.kind {
				t.Errorf("Kind = %v, want %v", n.Kind, tc.kind)
			}
			if n.Value.String() != tc.want {
				t.Errorf("Value = %s, want %s", n.Value.String(), tc.want)
			}
		})
	}
}

func TestDecodeIntRejectsEmptyDigits(t *testing.T) {
	if _, err := DecodeInt("u32"); err == nil {
		t.Error("DecodeInt with no digits should fail")
	}
}

func TestDecodeFloatDefaultKind(t *testing.T) {
	n, err := DecodeFloat("3.14")
	if err != nil {
		t.Fatalf("DecodeFloat: %v", err)
	}
	if n.Kind != types.F64 {
		t.Errorf("Kind = %v, want f64", n.Kind)
	}
}

func TestDecodeFloatSuffix(t *testing.T) {
	n, err := DecodeFloat("3.14f32")
	if err != nil {
		t.Fatalf("DecodeFloat: %v", err)
	}
	if n.Kind != types.F32 {
		t.Errorf("Kind = %v, want f32", n.Kind)
	}
}
