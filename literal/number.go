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
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/serates/barkml/types"
)

// DefaultIntKind and DefaultFloatKind are the inferred kinds for integer
// and float literals that carry no explicit type suffix. The grammar in
// §4.1 does not name a default width; this module picks the same default
// every other C-family config language with optional suffixes uses.
const (
	DefaultIntKind   = types.I32
	DefaultFloatKind = types.F64
)

var intSuffixes = map[string]types.Kind{
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64, "i128": types.I128,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64, "u128": types.U128,
}

var floatSuffixes = map[string]types.Kind{
	"f32": types.F32, "f64": types.F64,
}

// Number is a decoded numeric literal: its inferred or explicitly
// suffixed Kind and its value.
type Number struct {
	Kind  types.Kind
	Value apd.Decimal
}

// DecodeInt decodes an integer literal in decimal, 0x, 0o, or 0b form,
// with an optional type suffix (e.g. "42u32", "0xFF", "0b1010i64").
func DecodeInt(lit string) (Number, error) {
	body, kind, err := splitSuffix(lit, intSuffixes, DefaultIntKind)
	if err != nil {
		return Number{}, err
	}

	base := 10
	digits := body
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		base, digits = 16, body[2:]
	case strings.HasPrefix(body, "0o") || strings.HasPrefix(body, "0O"):
		base, digits = 8, body[2:]
	case strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B"):
		base, digits = 2, body[2:]
	}
	if digits == "" {
		return Number{}, fmt.Errorf("literal: empty integer literal %q", lit)
	}

	var d apd.Decimal
	if base == 10 {
		if _, _, err := d.SetString(digits); err != nil {
			return Number{}, fmt.Errorf("literal: invalid integer %q: %w", lit, err)
		}
	} else {
		var bigVal apd.BigInt
		if _, ok := bigVal.SetString(digits, base); !ok {
			return Number{}, fmt.Errorf("literal: invalid base-%d integer %q", base, lit)
		}
		d.Coeff.Set(&bigVal)
	}
	return Number{Kind: kind, Value: d}, nil
}

// DecodeFloat decodes a float literal (e.g. "3.14", "3.14f32", "1e-9").
func DecodeFloat(lit string) (Number, error) {
	body, kind, err := splitSuffix(lit, floatSuffixes, DefaultFloatKind)
	if err != nil {
		return Number{}, err
	}
	var d apd.Decimal
	if _, _, err := d.SetString(body); err != nil {
		return Number{}, fmt.Errorf("literal: invalid float %q: %w", lit, err)
	}
	return Number{Kind: kind, Value: d}, nil
}

// splitSuffix strips the longest matching type suffix from lit, in
// order from longest to shortest so "i128" isn't mistaken for "i8"+"28".
func splitSuffix(lit string, table map[string]types.Kind, def types.Kind) (body string, kind types.Kind, err error) {
	suffixes := make([]string, 0, len(table))
	for s := range table {
		suffixes = append(suffixes, s)
	}
	// longest first
	for i := 1; i < len(suffixes); i++ {
		for j := i; j > 0 && len(suffixes[j]) > len(suffixes[j-1]); j-- {
			suffixes[j], suffixes[j-1] = suffixes[j-1], suffixes[j]
		}
	}
	for _, s := range suffixes {
		if strings.HasSuffix(lit, s) {
			return lit[:len(lit)-len(s)], table[s], nil
		}
	}
	return lit, def, nil
}
