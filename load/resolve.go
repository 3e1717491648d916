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
	"fmt"

	"github.com/serates/barkml/ast"
	"github.com/serates/barkml/errors"
	"github.com/serates/barkml/token"
	"github.com/serates/barkml/types"
)

// resolver carries the state needed to resolve every macro reference in a
// merged Module (§4.5): the loader config (for MaxDepth/AllowMissingMacros)
// and a stack of target paths currently being chased, used for cycle
// detection across chained macro-to-macro references.
type resolver struct {
	cfg   Config
	root  *ast.OrderedMap[ast.Statement]
	stack []string
}

// resolveModule walks every statement of root, substituting resolved
// values for every Macro-kind Value it finds, and returns a new, fully
// resolved children map (§3.7: rebuild rather than mutate).
func resolveModule(root *ast.OrderedMap[ast.Statement], cfg Config) (*ast.OrderedMap[ast.Statement], error) {
	r := &resolver{cfg: cfg, root: root}
	return r.resolveChildren(root, nil)
}

// resolveChildren resolves every statement in m, where path is the
// container path (from the module root) that m's entries live under.
func (r *resolver) resolveChildren(m *ast.OrderedMap[ast.Statement], path []string) (*ast.OrderedMap[ast.Statement], error) {
	out := ast.NewOrderedMap[ast.Statement]()
	for _, key := range m.Keys() {
		st, _ := m.Get(key)
		resolved, err := r.resolveStatement(st, append(append([]string(nil), path...), key))
		if err != nil {
			return nil, err
		}
		out.Set(key, resolved)
	}
	return out, nil
}

// resolveStatement resolves st, whose own full path (for scoped macro
// lookup of any macros nested within it) is path.
func (r *resolver) resolveStatement(st ast.Statement, path []string) (ast.Statement, error) {
	switch n := st.(type) {
	case *ast.Assignment:
		val, err := r.resolveValueDeep(n.Value, path)
		if err != nil {
			return nil, err
		}
		if n.Type != nil && val.Kind != types.Macro && !types.Compatible(*n.Type, val.Type()) {
			return nil, errors.Newf(errors.MacroTypeMismatch, val.Loc,
				"macro substitution for %q yields incompatible type %s, want %s", n.Ident, val.Type(), *n.Type)
		}
		out := *n
		out.Value = val
		return &out, nil
	case *ast.Block:
		children := ast.NewOrderedMap[*ast.Assignment]()
		for _, key := range n.Children.Keys() {
			a, _ := n.Children.Get(key)
			resolved, err := r.resolveStatement(a, append(append([]string(nil), path...), key))
			if err != nil {
				return nil, err
			}
			children.Set(key, resolved.(*ast.Assignment))
		}
		out := *n
		out.Children = children
		return &out, nil
	case *ast.Section:
		children, err := r.resolveChildren(n.Children, path)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Children = children
		return &out, nil
	case *ast.Group:
		children, err := r.resolveChildren(n.Children, path)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Children = children
		return &out, nil
	case *ast.Module:
		children, err := r.resolveChildren(n.Children, path)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Children = children
		return &out, nil
	default:
		panic("load: unhandled Statement implementation in resolveStatement")
	}
}

// resolveValueDeep resolves v itself (if it is a Macro) and recurses into
// Array/Table composite payloads, so a macro nested inside a literal
// array or table is substituted just as one used directly as an
// assignment's value would be.
func (r *resolver) resolveValueDeep(v *ast.Value, path []string) (*ast.Value, error) {
	if v == nil {
		return nil, nil
	}
	switch v.Kind {
	case types.Macro:
		return r.resolveMacroChain(v, path)
	case types.Array:
		out := v.Clone()
		for i, el := range out.Elements {
			resolved, err := r.resolveValueDeep(el, path)
			if err != nil {
				return nil, err
			}
			out.Elements[i] = resolved
		}
		return out, nil
	case types.Table:
		out := v.Clone()
		for _, key := range out.Entries.Keys() {
			el, _ := out.Entries.Get(key)
			resolved, err := r.resolveValueDeep(el, path)
			if err != nil {
				return nil, err
			}
			out.Entries.Set(key, resolved)
		}
		return out, nil
	default:
		return v, nil
	}
}

// resolveMacroChain resolves a single Macro value, following macro-to-macro
// chains until a concrete value is reached. path is the container path of
// the statement the macro reference appears in and is the starting point
// for scoped lookup (§4.5: longest prefix first, falling back toward the
// root).
func (r *resolver) resolveMacroChain(v *ast.Value, path []string) (*ast.Value, error) {
	targetKey := v.Macro.String()
	for _, seen := range r.stack {
		if seen == targetKey {
			stack := append(append([]string(nil), r.stack...), targetKey)
			return nil, &errors.Error{Kind: errors.MacroCycle, Loc: v.Loc, Stack: stack,
				Message: fmt.Sprintf("macro cycle detected resolving %s", targetKey)}
		}
	}
	if len(r.stack) >= r.cfg.maxDepth() {
		// A chain longer than MaxDepth is reported as a cycle: it is
		// treated as an infinite chain.
		stack := append(append([]string(nil), r.stack...), targetKey)
		return nil, &errors.Error{Kind: errors.MacroCycle, Loc: v.Loc, Stack: stack,
			Message: fmt.Sprintf("macro chain exceeds max depth %d resolving %s", r.cfg.maxDepth(), targetKey)}
	}

	target, targetPath, err := r.lookupScoped(v.Macro, path)
	if err != nil {
		if r.cfg.AllowMissingMacros {
			return v, nil
		}
		return nil, err
	}

	r.stack = append(r.stack, targetKey)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	targetVal, targetPath, err := r.statementValue(target, targetPath)
	if err != nil {
		return nil, err
	}
	if targetVal.Kind == types.Macro {
		resolved, err := r.resolveMacroChain(targetVal, targetPath)
		if err != nil {
			return nil, err
		}
		targetVal = resolved
	}

	// §4.5: substitution inherits the location of the macro reference but
	// retains the target's type and metadata.
	sub := targetVal.Clone()
	sub.Loc = v.Loc
	return sub, nil
}

// statementValue extracts the Value a resolved macro target represents,
// along with the path that value's own nested macros (if any) should
// resolve relative to: st's own path, so a chained macro whose
// intermediate link lives inside a block/section still gets scope-based
// lookup relative to that link rather than falling back to the root
// (§4.5). An Assignment contributes its Value directly; a Block or
// Section is represented as a Table-kind Value over its children (§4.5:
// a macro may point at a container, not just a scalar).
func (r *resolver) statementValue(st ast.Statement, path []string) (*ast.Value, []string, error) {
	switch n := st.(type) {
	case *ast.Assignment:
		return n.Value, path, nil
	case *ast.Block:
		entries := ast.NewOrderedMap[*ast.Value]()
		for _, key := range n.Children.Keys() {
			a, _ := n.Children.Get(key)
			entries.Set(key, a.Value)
		}
		return &ast.Value{Kind: types.Table, Loc: n.Loc, Meta: n.Meta, Entries: entries}, path, nil
	case *ast.Section:
		entries := ast.NewOrderedMap[*ast.Value]()
		for _, key := range n.Children.Keys() {
			child, _ := n.Children.Get(key)
			cv, _, err := r.statementValue(child, append(append([]string(nil), path...), key))
			if err != nil {
				return nil, nil, err
			}
			entries.Set(key, cv)
		}
		return &ast.Value{Kind: types.Table, Loc: n.Loc, Meta: n.Meta, Entries: entries}, path, nil
	default:
		return nil, nil, errors.Newf(errors.UnresolvedMacro, n.Pos(), "macro target %q is not a value-bearing statement", n.Identifier())
	}
}

// lookupScoped implements §4.5's scope search: try the macro path against
// the statement's own container path first, then each shorter prefix in
// turn, finally the module root. The first scope in which the whole path
// resolves wins; a scope where only the leading segments resolve is
// skipped. It returns the full path at which the
// target was found, alongside the target itself, so a caller chasing a
// macro-to-macro chain can continue scoped lookup from the target's own
// location instead of defaulting back to the root.
func (r *resolver) lookupScoped(mp *ast.MacroPath, path []string) (ast.Statement, []string, error) {
	for i := len(path); i >= 0; i-- {
		full := append(append([]string(nil), path[:i]...), segmentKeys(mp)...)
		if st, ok := r.lookupPath(r.root, full); ok {
			return st, full, nil
		}
	}
	return nil, nil, errors.Newf(errors.UnresolvedMacro, token.NoLocation, "unresolved macro %s", mp.String())
}

// segmentKeys renders a MacroPath's segments as composite-id keys.
func segmentKeys(mp *ast.MacroPath) []string {
	keys := make([]string, len(mp.Segments))
	for i, s := range mp.Segments {
		keys[i] = s.String()
	}
	return keys
}

// lookupPath walks root by successive composite-id keys, returning the
// final statement and whether every segment resolved.
func (r *resolver) lookupPath(root *ast.OrderedMap[ast.Statement], keys []string) (ast.Statement, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	cur, ok := root.Get(keys[0])
	if !ok {
		return nil, false
	}
	for _, key := range keys[1:] {
		child, ok := getChild(cur, key)
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// getChild returns st's child named key, if st is a container statement
// that has one.
func getChild(st ast.Statement, key string) (ast.Statement, bool) {
	switch n := st.(type) {
	case *ast.Block:
		a, ok := n.Children.Get(key)
		if !ok {
			return nil, false
		}
		return a, true
	case *ast.Section:
		return n.Children.Get(key)
	case *ast.Group:
		return n.Children.Get(key)
	case *ast.Module:
		return n.Children.Get(key)
	default:
		return nil, false
	}
}
