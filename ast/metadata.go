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

// Metadata holds the comments and labels attached to a Value or
// Statement (§3.2). Both lists are optional and nil when absent; a nil
// Comments/Labels is distinct from an empty-but-present one only in that
// callers never need to tell them apart, so the zero Metadata is always
// usable directly.
type Metadata struct {
	// Comments is the ordered run of comment lines immediately preceding
	// the element, in source order. Multiple consecutive comments are
	// preserved as separate entries (§4.2 "Comment attachment").
	Comments []string

	// Labels is the ordered list of bracketed [label] strings attached to
	// the element. Per §3.6, labels are themselves just strings, never
	// values, as of v0.8.0.
	Labels []string
}

// WithComment returns a copy of m with comment appended.
func (m Metadata) WithComment(comment string) Metadata {
	out := m
	out.Comments = append(append([]string(nil), m.Comments...), comment)
	return out
}

// WithLabel returns a copy of m with label appended.
func (m Metadata) WithLabel(label string) Metadata {
	out := m
	out.Labels = append(append([]string(nil), m.Labels...), label)
	return out
}

// CompositeSuffix joins Labels with "$", the same separator used to build
// a Block's composite id (§3.5), for callers that need a label-derived
// disambiguator outside of the Block type itself.
func (m Metadata) CompositeSuffix() string {
	s := ""
	for _, l := range m.Labels {
		s += "$" + l
	}
	return s
}
