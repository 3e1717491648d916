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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/serates/barkml/errors"
	"github.com/serates/barkml/load"
	"github.com/serates/barkml/token"
)

var noLoc = token.NoLocation

var (
	mergeStrategyFlag string
	allowMissingFlag  bool
	fileCacheFlag     bool
)

var loadCmd = &cobra.Command{
	Use:   "load <dir-or-file>...",
	Short: "Load and resolve one or more .bml files or directories as a single module",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandPaths(args)
		if err != nil {
			return err
		}
		strategy, err := parseMergeStrategy(mergeStrategyFlag)
		if err != nil {
			return err
		}
		cfg := load.DefaultConfig()
		cfg.MergeStrategy = strategy
		cfg.AllowMissingMacros = allowMissingFlag
		cfg.FileCacheEnabled = fileCacheFlag

		log.Debugf("loading %d file(s) with merge strategy %s", len(files), strategy)
		mod, err := load.Load(load.StaticProvider(files), cfg)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d top-level statements\n", mod.Source, mod.Children.Len())
		printChildren(mod.Children, 1)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&mergeStrategyFlag, "merge", "error", "merge strategy: error, override, append-unique")
	loadCmd.Flags().BoolVar(&allowMissingFlag, "allow-missing-macros", false, "leave unresolved macro references in place instead of failing")
	loadCmd.Flags().BoolVar(&fileCacheFlag, "file-cache", false, "cache parsed files by content hash across this process")
}

func parseMergeStrategy(s string) (load.MergeStrategy, error) {
	switch s {
	case "error", "":
		return load.MergeError, nil
	case "override":
		return load.MergeOverride, nil
	case "append-unique":
		return load.MergeAppendUnique, nil
	default:
		return 0, fmt.Errorf("unknown --merge value %q", s)
	}
}

// expandPaths reads every file named directly in args, and for any
// directory argument lists its immediate ".bml" children in lexicographic
// order (§6.4). This is the one place in the whole program that touches
// the filesystem; load.FileProvider itself never does.
func expandPaths(args []string) ([]load.SourceFile, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrap(errors.FileError, noLoc, err, "stat %s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.Wrap(errors.FileError, noLoc, err, "reading directory %s", arg)
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".bml" {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, n := range names {
			paths = append(paths, filepath.Join(arg, n))
		}
	}

	files := make([]load.SourceFile, 0, len(paths))
	for _, p := range paths {
		text, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrap(errors.FileError, noLoc, err, "reading %s", p)
		}
		files = append(files, load.SourceFile{Label: p, Text: text})
	}
	return files, nil
}
