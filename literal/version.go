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

	"golang.org/x/mod/semver"
)

// DecodeVersion validates a BarkML version literal ("1.2.3",
// "1.2.3-beta+build") and returns its canonical (bare, no "v" prefix)
// text. BarkML's surface syntax omits the leading "v" that
// golang.org/x/mod/semver requires, so validation goes through a
// normalized form and the original bare text is what gets stored.
func DecodeVersion(lit string) (string, error) {
	if !semver.IsValid(vPrefixed(lit)) {
		return "", fmt.Errorf("literal: invalid version %q", lit)
	}
	return lit, nil
}

func vPrefixed(s string) string {
	if strings.HasPrefix(s, "v") {
		return s
	}
	return "v" + s
}

// Requirement is a decoded version-requirement literal: an ordered list
// of clauses, all of which must hold for a candidate version to satisfy
// the requirement (comma-separated clauses, e.g. ">=1.0, <2.0").
type Requirement struct {
	Text    string
	Clauses []RequirementClause
}

// RequirementClause is a single comparison operator plus version bound.
// Caret (^) and tilde (~=) are desugared at decode time into an
// equivalent [">=", "<"] pair, so a caller evaluating a Requirement only
// ever has to handle plain comparison operators.
type RequirementClause struct {
	Op      string // one of "=", "<", "<=", ">", ">="
	Version string // bare version text
}

// DecodeRequire parses a version requirement literal such as "^1.2",
// "~=2.0", or ">=1.0, <2.0" into its constituent clauses.
func DecodeRequire(lit string) (Requirement, error) {
	req := Requirement{Text: lit}
	for _, part := range strings.Split(lit, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clauses, err := decodeClause(part)
		if err != nil {
			return Requirement{}, err
		}
		req.Clauses = append(req.Clauses, clauses...)
	}
	if len(req.Clauses) == 0 {
		return Requirement{}, fmt.Errorf("literal: empty version requirement %q", lit)
	}
	return req, nil
}

func decodeClause(part string) ([]RequirementClause, error) {
	switch {
	case strings.HasPrefix(part, "^"):
		v := strings.TrimSpace(part[1:])
		if _, err := DecodeVersion(v); err != nil {
			return nil, fmt.Errorf("literal: invalid requirement %q: %w", part, err)
		}
		return caretBounds(v), nil
	case strings.HasPrefix(part, "~="):
		v := strings.TrimSpace(part[2:])
		if _, err := DecodeVersion(v); err != nil {
			return nil, fmt.Errorf("literal: invalid requirement %q: %w", part, err)
		}
		return tildeBounds(v), nil
	case strings.HasPrefix(part, ">="), strings.HasPrefix(part, "<="):
		op, v := part[:2], strings.TrimSpace(part[2:])
		if _, err := DecodeVersion(v); err != nil {
			return nil, fmt.Errorf("literal: invalid requirement %q: %w", part, err)
		}
		return []RequirementClause{{Op: op, Version: v}}, nil
	case strings.HasPrefix(part, ">"), strings.HasPrefix(part, "<"), strings.HasPrefix(part, "="):
		op, v := part[:1], strings.TrimSpace(part[1:])
		if _, err := DecodeVersion(v); err != nil {
			return nil, fmt.Errorf("literal: invalid requirement %q: %w", part, err)
		}
		return []RequirementClause{{Op: op, Version: v}}, nil
	default:
		// A bare version in requirement position means "exactly this".
		if _, err := DecodeVersion(part); err != nil {
			return nil, fmt.Errorf("literal: invalid requirement %q: %w", part, err)
		}
		return []RequirementClause{{Op: "=", Version: part}}, nil
	}
}

// caretBounds desugars "^1.2.3" into ">=1.2.3, <2.0.0" (next major).
func caretBounds(v string) []RequirementClause {
	major := majorOf(v)
	upper := fmt.Sprintf("%d.0.0", major+1)
	return []RequirementClause{{Op: ">=", Version: v}, {Op: "<", Version: upper}}
}

// tildeBounds desugars "~=1.2" into ">=1.2, <1.3" (next minor).
func tildeBounds(v string) []RequirementClause {
	maj, min := majorMinorOf(v)
	upper := fmt.Sprintf("%d.%d.0", maj, min+1)
	return []RequirementClause{{Op: ">=", Version: v}, {Op: "<", Version: upper}}
}

func majorOf(v string) int {
	maj, _ := majorMinorOf(v)
	return maj
}

func majorMinorOf(v string) (int, int) {
	parts := strings.SplitN(v, ".", 3)
	maj, min := 0, 0
	fmt.Sscanf(firstOrEmpty(parts, 0), "%d", &maj)
	fmt.Sscanf(firstOrEmpty(parts, 1), "%d", &min)
	return maj, min
}

func firstOrEmpty(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return "0"
}

