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
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/serates/barkml/errors"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "bark",
	Short:         "Parse and load BarkML configuration files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(parseCmd, loadCmd)
}

// exitCodeFor maps an error to the §6.3 recommended exit codes: 1 for a
// load/parse error, 2 for an I/O failure, 3 for everything else this CLI
// itself rejects (e.g. bad arguments). These codes are recommendations
// for CLI embeddings, not guarantees the core makes.
func exitCodeFor(err error) int {
	if _, ok := err.(errors.List); ok {
		// the loader's collected per-file parse errors
		return 1
	}
	if bErr, ok := err.(*errors.Error); ok {
		if bErr.Kind == errors.FileError {
			return 2
		}
		return 1
	}
	return 3
}
