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

// Op is a single-byte instruction opcode.
type Op byte

// Opcodes, byte values per spec.
const (
	OpNoop   Op = 0x00
	OpPushc  Op = 0x11
	OpPop    Op = 0x12
	OpLoadv  Op = 0x13
	OpStorev Op = 0x14
	OpHalt   Op = 0x20
	OpCall   Op = 0x21
	OpRet    Op = 0x22
	OpBr     Op = 0x23
	OpJmp    Op = 0x24
	OpIadd   Op = 0x30
	OpIsub   Op = 0x31
	OpImul   Op = 0x32
	OpIdiv   Op = 0x33
	OpIand   Op = 0x34
	OpIor    Op = 0x35
	OpIcmp   Op = 0x36
	OpPrint  Op = 0xF0
)

// Cmp is the comparison-code operand of icmp.
type Cmp byte

// Comparison codes for icmp.
const (
	CmpEq  Cmp = 0x00
	CmpNeq Cmp = 0x01
	CmpLt  Cmp = 0x02
	CmpLeq Cmp = 0x03
	CmpGt  Cmp = 0x04
	CmpGeq Cmp = 0x05
)

// mnemonics maps every known opcode to its assembler mnemonic. Order does
// not matter here, unlike the teacher's dense array+iota table, since
// opcode bytes are sparse (immediates live in 0x1x/0x2x/0x3x bands plus a
// 0xF0 outlier for print) rather than contiguous.
var mnemonics = map[Op]string{
	OpNoop:   "noop",
	OpPushc:  "pushc",
	OpPop:    "pop",
	OpLoadv:  "loadv",
	OpStorev: "storev",
	OpHalt:   "halt",
	OpCall:   "call",
	OpRet:    "ret",
	OpBr:     "br",
	OpJmp:    "jmp",
	OpIadd:   "iadd",
	OpIsub:   "isub",
	OpImul:   "imul",
	OpIdiv:   "idiv",
	OpIand:   "iand",
	OpIor:    "ior",
	OpIcmp:   "icmp",
	OpPrint:  "print",
}

// opcodeIndex is the reverse of mnemonics, built once at init time the way
// the teacher builds opcodeIndex from its opcodes array.
var opcodeIndex = make(map[string]Op, len(mnemonics))

func init() {
	for op, name := range mnemonics {
		opcodeIndex[name] = op
	}
}

// Mnemonic returns the assembler mnemonic for op, or "" if op is unknown.
func (op Op) Mnemonic() string { return mnemonics[op] }

// String implements fmt.Stringer.
func (op Op) String() string {
	if m := mnemonics[op]; m != "" {
		return m
	}
	return "???"
}

// LookupOpcode returns the opcode for a mnemonic and whether it is known.
func LookupOpcode(mnemonic string) (Op, bool) {
	op, ok := opcodeIndex[mnemonic]
	return op, ok
}

// cmpNames maps icmp comparison codes to their assembler spelling, used by
// the disassembler. The comparison codes have no entries in the opcode
// mnemonic table since the code byte is an immediate, not part of the
// opcode space.
var cmpNames = map[Cmp]string{
	CmpEq:  "eq",
	CmpNeq: "neq",
	CmpLt:  "lt",
	CmpLeq: "leq",
	CmpGt:  "gt",
	CmpGeq: "geq",
}

func (c Cmp) String() string {
	if s := cmpNames[c]; s != "" {
		return s
	}
	return "???"
}
