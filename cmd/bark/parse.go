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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/serates/barkml/ast"
	"github.com/serates/barkml/errors"
	"github.com/serates/barkml/parser"
	"github.com/serates/barkml/token"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Lex and parse a single .bml file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		text, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(errors.FileError, token.NoLocation, err, "reading %s", path)
		}
		log.Debugf("parsing %s (%d bytes)", path, len(text))

		mod, err := parser.Parse(path, text)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d top-level statements\n", path, mod.Children.Len())
		printChildren(mod.Children, 1)
		return nil
	},
}

// printChildren prints a module/section's children one per line, indented
// by depth, recursing into Block/Section containers.
func printChildren(children *ast.OrderedMap[ast.Statement], depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for _, key := range children.Keys() {
		st, _ := children.Get(key)
		fmt.Printf("%s%s\n", indent, key)
		if grandchildren := ast.ChildStatements(st); grandchildren != nil {
			sub := ast.NewOrderedMap[ast.Statement]()
			for _, gc := range grandchildren {
				sub.Set(gc.Identifier(), gc)
			}
			printChildren(sub, depth+1)
		}
	}
}
