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
	"github.com/serates/barkml/ast"
	"github.com/serates/barkml/errors"
	"github.com/serates/barkml/token"
)

// merge folds the top-level children of groups (one per source file, in
// provider order) into a single ordered map, keyed by composite id (the
// same granularity §3.6 uses for intra-file duplicate detection), so
// two Blocks that share a bare identifier but carry distinct labels
// never collide here regardless of strategy (§8 boundary behavior:
// "Identical block identifier with distinct labels across two files →
// both preserved").
//
// A genuine composite-id collision (same identifier *and* same labels,
// or two non-Block statements sharing a plain identifier) is handled
// per strategy: MergeError always fails, MergeOverride lets the later
// file win, and MergeAppendUnique lets two colliding Blocks coexist
// (last one wins, since same composite id means nothing is left to
// disambiguate) but rejects a colliding non-Block pair exactly as
// MergeError would; the open question in §9 about AppendUnique's
// assignment-vs-assignment case is resolved as a MergeConflict here.
func merge(groups []*ast.Group, strategy MergeStrategy) (*ast.OrderedMap[ast.Statement], error) {
	merged := ast.NewOrderedMap[ast.Statement]()

	for _, grp := range groups {
		for _, key := range grp.Children.Keys() {
			st, _ := grp.Children.Get(key)
			st = markGrouped(st)

			existing, collides := merged.Get(key)
			if !collides {
				merged.Set(key, st)
				continue
			}

			switch strategy {
			case MergeOverride:
				merged.Set(key, st)
			case MergeAppendUnique:
				_, existingIsBlock := existing.(*ast.Block)
				_, newIsBlock := st.(*ast.Block)
				if existingIsBlock && newIsBlock {
					merged.Set(key, st)
					continue
				}
				return nil, mergeConflict(grp.Source, key, st.Pos())
			default: // MergeError
				return nil, mergeConflict(grp.Source, key, st.Pos())
			}
		}
	}
	return merged, nil
}

func mergeConflict(source, key string, loc token.Location) *errors.Error {
	return errors.Newf(errors.MergeConflict, loc, "duplicate identifier %q while merging %s", key, source)
}

// markGrouped returns a shallow copy of st with its IsGrouped flag set,
// so that later passes can tell a merged top-level statement's origin
// was a specific file (§3.5) without threading the source label through
// separately.
func markGrouped(st ast.Statement) ast.Statement {
	switch n := st.(type) {
	case *ast.Assignment:
		out := *n
		out.Grouped = true
		return &out
	case *ast.Block:
		out := *n
		out.Grouped = true
		return &out
	case *ast.Section:
		out := *n
		out.Grouped = true
		return &out
	case *ast.Group:
		return n
	case *ast.Module:
		return n
	default:
		panic("load: unhandled Statement implementation in markGrouped")
	}
}
