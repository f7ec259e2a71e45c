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

// Package hissdbg renders a Machine's state as text for diagnostics. It is
// deliberately outside package vm: the debug rendering of machine state is
// not part of the core interpreter contract, only an optional adapter over
// its exported state, grounded on cmd/retro/main.go's atExit diagnostic
// block and lang/retro/dump.go's DumpVM in the teacher.
package hissdbg

import (
	"fmt"
	"io"

	"github.com/dbernard/hiss/vm"
)

// Dump writes a human-readable snapshot of m's pc, value stack, and frame
// stack to w.
func Dump(w io.Writer, m *vm.Machine) {
	fmt.Fprintf(w, "pc: %d (instructions executed: %d)\n", m.PC(), m.InstructionCount())

	fmt.Fprintf(w, "stack (%d):\n", len(m.Stack()))
	for i, v := range m.Stack() {
		fmt.Fprintf(w, "  [%d] %s\n", i, v)
	}

	fmt.Fprintf(w, "frames (%d):\n", len(m.Frames()))
	for i, f := range m.Frames() {
		fmt.Fprintf(w, "  [%d] func@%d/%d fp=%d ret=%d\n", i, f.Func.Offset, f.Func.Arity, f.Fp, f.RetAddr)
	}
}
