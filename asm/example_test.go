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

package asm_test

import (
	"fmt"
	"strings"

	"github.com/dbernard/hiss/asm"
	"github.com/dbernard/hiss/vm"
)

// Shows assembling a small program with a forward-referenced label and
// disassembling the result.
func ExampleAssemble() {
	src := `
		.constants {
			hfunc 0 $main
			hint 42
		}
		.code {
			main:
				jmp 0x00 0x02
				halt
				pushc 1 print halt
		}
	`
	raw, err := asm.Assemble("demo", strings.NewReader(src))
	if err != nil {
		fmt.Println(err)
		return
	}
	mod, err := vm.Load(raw)
	if err != nil {
		fmt.Println(err)
		return
	}
	for pc := 0; pc < len(mod.Code); {
		next, text := vm.Disassemble(mod.Code, pc)
		fmt.Printf("%2d %s\n", pc, text)
		pc = next
	}
	// Output:
	//  0 jmp 2
	//  3 halt
	//  4 pushc 1
	//  6 print
	//  7 halt
}
