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

package vm

import (
	"fmt"
	"strconv"
)

// Disassemble decodes one instruction from code starting at pc and returns
// the offset of the next instruction together with its textual rendering.
// It mirrors vm/image.go's Disassemble in the teacher, adapted to this
// spec's sparse, variable-immediate-width opcode set instead of ngaro's
// uniform one-cell-immediate instructions. It does not affect Step
// semantics; it is used by the package examples and is not called by
// Machine, Dump or the CLIs.
func Disassemble(code []byte, pc int) (next int, text string) {
	if pc < 0 || pc >= len(code) {
		return pc, "???"
	}
	op := Op(code[pc])
	name := op.Mnemonic()
	if name == "" {
		return pc + 1, fmt.Sprintf("??? (0x%02x)", code[pc])
	}
	pc++
	switch op {
	case OpPushc, OpLoadv, OpStorev:
		if pc >= len(code) {
			return pc, name + " ???"
		}
		return pc + 1, name + " " + strconv.Itoa(int(code[pc]))
	case OpBr, OpJmp:
		if pc+1 >= len(code) {
			return len(code), name + " ???"
		}
		off := readSignedOffset(code[pc], code[pc+1])
		return pc + 2, fmt.Sprintf("%s %d", name, off)
	case OpIcmp:
		if pc >= len(code) {
			return pc, name + " ???"
		}
		return pc + 1, name + " " + Cmp(code[pc]).String()
	default:
		return pc, name
	}
}
