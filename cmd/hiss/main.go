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

// Command hiss runs a compiled HISS module, per spec.md §6.3. It reads the
// ".hissc" path given on the command line, executes it, and writes the
// program's print output to standard output.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/dbernard/hiss/internal/hissdbg"
	"github.com/dbernard/hiss/vm"
)

var (
	debug = flag.Bool("debug", false, "dump machine state on error")
	stats = flag.Bool("stats", false, "print the instruction count after a successful run")
)

func atExit(m *vm.Machine, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	if *debug && m != nil {
		hissdbg.Dump(os.Stderr, m)
	}
	os.Exit(1)
}

func run(path string) (*vm.Machine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading module")
	}
	mod, err := vm.Load(raw)
	if err != nil {
		return nil, errors.Wrap(err, "loading module")
	}
	m := vm.NewMachine(mod)
	if err := m.Init(); err != nil {
		return m, errors.Wrap(err, "initialising machine")
	}
	if err := m.Run(os.Stdout); err != nil {
		return m, errors.Wrap(err, "running module")
	}
	return m, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <module.hissc>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	m, err := run(flag.Arg(0))
	atExit(m, err)

	if *stats && m != nil {
		fmt.Fprintf(os.Stderr, "instructions executed: %d\n", m.InstructionCount())
	}
}
