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

// SourceFile is one (label, text) pair as read by a host-supplied
// FileProvider (§4.4). Label is typically a file name and is carried
// through to every Location produced while parsing Text.
type SourceFile struct {
	Label string
	Text  []byte
}

// FileProvider supplies already-read source files to the loader in a
// deterministic order (§4.4 step 1, §6.4: lexicographic order of file
// name in Multi mode). The loader treats this as a contract it
// enforces, not one it establishes: directory discovery and globbing
// live entirely outside the core (§1).
type FileProvider interface {
	Files() ([]SourceFile, error)
}

// ProviderFunc adapts a plain function to FileProvider.
type ProviderFunc func() ([]SourceFile, error)

// Files implements FileProvider.
func (f ProviderFunc) Files() ([]SourceFile, error) { return f() }

// StaticProvider is a FileProvider over a fixed, already-ordered slice,
// useful for tests and for hosts that have already resolved their file
// list by some other means.
type StaticProvider []SourceFile

// Files implements FileProvider.
func (s StaticProvider) Files() ([]SourceFile, error) { return []SourceFile(s), nil }
