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
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"github.com/serates/barkml/ast"
	"github.com/serates/barkml/errors"
	"github.com/serates/barkml/parser"
	"github.com/serates/barkml/token"
)

// fileCache memoizes parsed modules by content hash (§5: "Shared
// resources" permits a process-wide cache keyed by file content, guarded
// by a mutex, as the one form of cross-load state the I/O-free core may
// keep). Disabled unless Config.FileCacheEnabled is set.
var fileCache = struct {
	mu sync.Mutex
	m  map[string]*ast.Module
}{m: make(map[string]*ast.Module)}

// Load runs the full §4.4 pipeline: gather files from provider, validate
// their count against cfg.Mode, parse each (using the content cache when
// enabled), merge the results per cfg.MergeStrategy, and resolve every
// macro reference. The returned Module's Source is "<merged>" when more
// than one file contributed, or that file's own label when exactly one
// file was loaded (in either Mode).
func Load(provider FileProvider, cfg Config) (*ast.Module, error) {
	files, err := provider.Files()
	if err != nil {
		return nil, errors.Wrap(errors.FileError, token.NoLocation, err, "reading files from provider")
	}

	if cfg.Mode == Single && len(files) != 1 {
		return nil, errors.Newf(errors.FileError, token.NoLocation,
			"single mode requires exactly one file, got %d", len(files))
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.FileError, token.NoLocation, "no files to load")
	}

	if cfg.PathValidation == PathStrict {
		for _, f := range files {
			if err := checkPath(f.Label); err != nil {
				return nil, err
			}
		}
	}

	if err := checkDeterministicOrder(files); err != nil {
		return nil, err
	}

	var parseErrs errors.List
	groups := make([]*ast.Group, 0, len(files))
	for _, f := range files {
		mod, err := parseCached(f, cfg)
		if err != nil {
			if bErr, ok := err.(*errors.Error); ok {
				parseErrs.Add(bErr)
			} else {
				parseErrs.Add(errors.Wrap(errors.FileError, token.Location{Label: f.Label}, err, "parsing %s", f.Label))
			}
			continue
		}
		grp := ast.NewGroup(f.Label, mod.Pos())
		for _, key := range mod.Children.Keys() {
			st, _ := mod.Children.Get(key)
			grp.Children.Set(key, st)
		}
		groups = append(groups, grp)
	}
	if err := parseErrs.Err(); err != nil {
		return nil, err
	}

	merged, err := merge(groups, cfg.MergeStrategy)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveModule(merged, cfg)
	if err != nil {
		return nil, err
	}

	source := files[0].Label
	if len(files) > 1 {
		source = "<merged>"
	}
	return &ast.Module{Source: source, Children: resolved, Loc: token.Location{Label: source, Line: 1, Column: 1}}, nil
}

// parseCached parses f.Text, consulting/populating the content-hash cache
// when cfg.FileCacheEnabled. The cache key is the file's bytes, not its
// label, so two labels carrying identical text share one parse.
func parseCached(f SourceFile, cfg Config) (*ast.Module, error) {
	if !cfg.FileCacheEnabled {
		return parser.Parse(f.Label, f.Text)
	}

	sum := sha256.Sum256(f.Text)
	key := hex.EncodeToString(sum[:])

	fileCache.mu.Lock()
	if mod, ok := fileCache.m[key]; ok {
		fileCache.mu.Unlock()
		return mod, nil
	}
	fileCache.mu.Unlock()

	mod, err := parser.Parse(f.Label, f.Text)
	if err != nil {
		return nil, err
	}

	fileCache.mu.Lock()
	fileCache.m[key] = mod
	fileCache.mu.Unlock()
	return mod, nil
}

// checkPath rejects absolute paths and ".." traversal segments by
// inspecting label as text only (§5: the core never touches the
// filesystem, so this is string validation, not a stat call).
func checkPath(label string) error {
	if strings.HasPrefix(label, "/") || strings.HasPrefix(label, "\\") {
		return errors.Newf(errors.FileError, token.Location{Label: label}, "absolute path %q rejected by strict path validation", label)
	}
	for _, part := range strings.FieldsFunc(label, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return errors.Newf(errors.FileError, token.Location{Label: label}, "traversal segment in path %q rejected by strict path validation", label)
		}
	}
	return nil
}

// checkDeterministicOrder enforces §4.4 step 1/§6.4's contract that a
// FileProvider yields files in lexicographic label order in Multi mode;
// the loader is a consumer of this ordering, not its enforcer-by-sorting,
// so a provider that violates it is a loader error rather than silently
// re-sorted input.
func checkDeterministicOrder(files []SourceFile) error {
	labels := make([]string, len(files))
	for i, f := range files {
		labels[i] = f.Label
	}
	if sort.StringsAreSorted(labels) {
		return nil
	}
	return errors.Newf(errors.FileError, token.NoLocation, "file provider yielded labels out of lexicographic order: %v", labels)
}
