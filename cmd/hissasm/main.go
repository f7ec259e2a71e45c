// This file is part of hiss - https://github.com/dbernard/hiss
//
// Copyright 2024 The Hiss Authors
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

// Command hissasm assembles a HISS assembly source file into a binary
// module, per spec.md §6.3. It reads the path given on the command line and
// writes the assembled bytes to the same path with its extension replaced
// by ".hissc".
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/dbernard/hiss/asm"
)

func outputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + ".hissc"
}

func run(inPath, outPath string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return errors.Wrap(err, "opening source")
	}
	defer f.Close()

	raw, err := asm.Assemble(inPath, f)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, raw, 0o644); err != nil {
		return errors.Wrap(err, "writing module")
	}
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <source.hissa>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	inPath := flag.Arg(0)
	outPath := outputPath(inPath)

	if err := run(inPath, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
