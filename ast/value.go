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
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/serates/barkml/token"
	"github.com/serates/barkml/types"
)

// Value is the tagged union described by §3.4: a concrete payload plus
// Location and Metadata. Only one of the payload fields is meaningful for
// a given Kind; see the comment on each field. Values are immutable once
// produced by the parser (§3.7); every pass that would "change" a value
// builds a new one instead of mutating this struct's slices/maps in
// place.
type Value struct {
	Kind types.Kind
	Loc  token.Location
	Meta Metadata

	// Scalar payloads.
	Str    string // String, Symbol (without leading ':'), Version (canonical text), Require (constraint text)
	Bool   bool
	Bytes  []byte
	Num    apd.Decimal // every numeric Kind (I8..U128, F32, F64); see type system §4.3
	ElemTy types.Type  // declared element type for Array, value type for Table (mirrors the Value's own Kind's Elem)

	// Composite payloads.
	Elements []*Value               // Array
	Entries  *OrderedMap[*Value]    // Table, and the value-view of a resolved Block/Section/Module target (§4.5 substitution)

	// Macro payload: an unresolved m!path.to.value reference (§4.5).
	Macro *MacroPath
}

// MacroSegment is one dot-separated component of a macro path: either a
// bare identifier, or identifier$label1$label2... selecting a labelled
// block sibling.
type MacroSegment struct {
	Name   string
	Labels []string
}

// String renders the segment in BarkML macro-path surface syntax.
func (s MacroSegment) String() string {
	if len(s.Labels) == 0 {
		return s.Name
	}
	return s.Name + "$" + strings.Join(s.Labels, "$")
}

// MacroPath is the parsed form of an "m!a.b$label.c" reference.
type MacroPath struct {
	Segments []MacroSegment
}

// String renders the path in BarkML "m!a.b$label.c" surface syntax.
func (p *MacroPath) String() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.String()
	}
	return "m!" + strings.Join(parts, ".")
}

// ParseMacroPath decodes the body of a "m!path.to.value" or
// "m!path.to.block$label" token literal (the text following the "m!"
// prefix) into its dot-separated, "$"-disambiguated segments.
func ParseMacroPath(body string) (*MacroPath, error) {
	if body == "" {
		return nil, fmt.Errorf("ast: empty macro path")
	}
	parts := strings.Split(body, ".")
	segs := make([]MacroSegment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("ast: empty segment in macro path %q", body)
		}
		pieces := strings.Split(part, "$")
		if pieces[0] == "" {
			return nil, fmt.Errorf("ast: empty segment name in macro path %q", body)
		}
		segs = append(segs, MacroSegment{Name: pieces[0], Labels: pieces[1:]})
	}
	return &MacroPath{Segments: segs}, nil
}

// Null returns the singleton-shaped Null value at the given location.
func Null(loc token.Location, meta Metadata) *Value {
	return &Value{Kind: types.Null, Loc: loc, Meta: meta}
}

// Type returns the value's ValueType, read from its Kind (plus ElemTy for
// Array and Table). The parser sets Kind and ElemTy when it builds the
// Value; there is no separate structural inference function, and Type
// does not re-derive the element type from Elements or Entries.
func (v *Value) Type() types.Type {
	switch v.Kind {
	case types.Array, types.Table:
		return types.Type{Kind: v.Kind, Elem: &v.ElemTy}
	default:
		return types.Type{Kind: v.Kind}
	}
}

// Clone returns a shallow copy of v suitable for rebuilding a tree node
// above it without aliasing the original's slices/maps (§3.7).
func (v *Value) Clone() *Value {
	out := *v
	if v.Elements != nil {
		out.Elements = append([]*Value(nil), v.Elements...)
	}
	if v.Entries != nil {
		out.Entries = v.Entries.Clone()
	}
	return &out
}
