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

// Package types implements the BarkML value type system: the closed set
// of value categories (§3.3) and the compatibility relation used by both
// the parser (to validate type hints on literals) and the loader (to
// validate merges and macro substitution).
package types

import "fmt"

// Kind enumerates the closed set of BarkML value categories. The set is
// exhaustive: do not add an open-ended "other" variant. Every switch over
// Kind in this module and in bark/parser and bark/load should be written
// so that the compiler (via an unreachable default panic, not silent
// fallthrough) flags a missing case when a new Kind is ever added.
type Kind int

const (
	Invalid Kind = iota

	// Scalar
	String
	Symbol
	Bool
	Null
	Version
	Require
	Bytes

	// Numeric
	I8
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
	F32
	F64

	// Composite
	Array
	Table
	Section
	Block
	Module

	// Meta
	Any
	Macro
)

var kindNames = [...]string{
	Invalid: "invalid",
	String:  "string",
	Symbol:  "symbol",
	Bool:    "bool",
	Null:    "null",
	Version: "version",
	Require: "require",
	Bytes:   "bytes",
	I8:      "i8",
	I16:     "i16",
	I32:     "i32",
	I64:     "i64",
	I128:    "i128",
	U8:      "u8",
	U16:     "u16",
	U32:     "u32",
	U64:     "u64",
	U128:    "u128",
	F32:     "f32",
	F64:     "f64",
	Array:   "array",
	Table:   "table",
	Section: "section",
	Block:   "block",
	Module:  "module",
	Any:     "any",
	Macro:   "macro",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsNumeric reports whether k is one of the I* or U* or F* families.
func (k Kind) IsNumeric() bool {
	switch k {
	case I8, I16, I32, I64, I128, U8, U16, U32, U64, U128, F32, F64:
		return true
	}
	return false
}

// IsComposite reports whether k carries nested element/value types.
func (k Kind) IsComposite() bool {
	switch k {
	case Array, Table, Section, Block, Module:
		return true
	}
	return false
}

// numeric family identifiers for the widening check in Compatible.
type family int

const (
	notNumeric family = iota
	signedFamily
	unsignedFamily
	floatFamily
)

// width ranks members of a family from narrowest to widest. Two members
// of the same family are widening-compatible iff rank(b) >= rank(a).
var familyOf = map[Kind]family{
	I8: signedFamily, I16: signedFamily, I32: signedFamily, I64: signedFamily, I128: signedFamily,
	U8: unsignedFamily, U16: unsignedFamily, U32: unsignedFamily, U64: unsignedFamily, U128: unsignedFamily,
	F32: floatFamily, F64: floatFamily,
}

var widthOf = map[Kind]int{
	I8: 0, I16: 1, I32: 2, I64: 3, I128: 4,
	U8: 0, U16: 1, U32: 2, U64: 3, U128: 4,
	F32: 0, F64: 1,
}

// Type is a BarkML value type. Scalar, numeric, Section, Block, Module,
// Any, and Macro types carry no payload beyond Kind. Array carries its
// Elem element type; Table carries its element type in Elem as well
// (named Elem rather than a separate "Value" field so that Array and
// Table share traversal code in Compatible and in the parser's type-hint
// grammar for value_type, §4.2).
type Type struct {
	Kind Kind
	Elem *Type // element type for Array, value type for Table; nil otherwise
}

// Scalar constructs a non-composite type of the given kind. It panics if
// kind is Array or Table, which require an element type (use Arr or Tbl).
func Scalar(kind Kind) Type {
	if kind == Array || kind == Table {
		panic("types: Scalar called with composite kind " + kind.String())
	}
	return Type{Kind: kind}
}

// Arr constructs an Array type with the given element type.
func Arr(elem Type) Type {
	e := elem
	return Type{Kind: Array, Elem: &e}
}

// Tbl constructs a Table type with the given value type.
func Tbl(value Type) Type {
	v := value
	return Type{Kind: Table, Elem: &v}
}

// AnyType is the type that accepts all values.
var AnyType = Type{Kind: Any}

// String renders the type using BarkML's own type-hint surface syntax,
// e.g. "array(i32)", "table(string)".
func (t Type) String() string {
	switch t.Kind {
	case Array:
		return "array(" + t.elemString() + ")"
	case Table:
		return "table(" + t.elemString() + ")"
	default:
		return t.Kind.String()
	}
}

func (t Type) elemString() string {
	if t.Elem == nil {
		return "?"
	}
	return t.Elem.String()
}

// Compatible reports whether a value of type actual may be used where
// expected is declared, per §3.3. It holds iff the kinds are equal (for
// Array and Table the element types must also be Compatible), or either
// side is Any, or both are numeric of the same family and expected is at
// least as wide as actual (a declared u16 accepts a u8 value, not the
// reverse).
//
// The first argument is "expected" (the declared/target type); the
// second is "actual" (the value's inferred type), mirroring how the
// parser and loader both call it: Compatible(declared, inferred).
func Compatible(expected, actual Type) bool {
	if expected.Kind == Any || actual.Kind == Any {
		return true
	}
	if expected.Kind == actual.Kind {
		if expected.Kind == Array || expected.Kind == Table {
			return Compatible(*expected.Elem, *actual.Elem)
		}
		return true
	}
	fe, aok := familyOf[expected.Kind]
	fa, bok := familyOf[actual.Kind]
	if aok && bok && fe == fa && fe != notNumeric {
		return widthOf[actual.Kind] <= widthOf[expected.Kind]
	}
	return false
}

// CompatibleWith is sugar for Compatible(t, other), for callers that
// prefer method-call phrasing: t is the declared type and other is the
// value's type.
func (t Type) CompatibleWith(other Type) bool {
	return Compatible(t, other)
}
