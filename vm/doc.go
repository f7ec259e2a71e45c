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

// Package vm implements the HISS stack-based bytecode interpreter and its
// binary module format.
//
// A Module is a constant pool plus a code segment, normally produced by
// package asm and decoded with Load. Constants[0] must be a Func naming the
// program's entry point.
//
// A Machine executes a Module one instruction at a time via Step, which
// returns true once execution has halted (an explicit halt, a return from
// the entry frame, or exhaustion of the code segment). Run is a thin
// convenience wrapper that calls Step in a loop.
//
// Opcode reference (arg columns list immediate bytes read after the
// opcode; x/y in the stack column are popped top-then-next):
//
//	opcode	mnemonic	args		stack		description
//	0x00	noop				-		no effect
//	0x11	pushc		idx:u8		-c		push constants[idx]
//	0x12	pop				c-		pop and discard
//	0x13	loadv		idx:u8		-c		push stack[fp+idx]
//	0x14	storev		idx:u8		c-		pop, store at stack[fp+idx]
//	0x20	halt				-		halt
//	0x21	call				f-		pop Func, push call frame
//	0x22	ret				c-c		return, replacing caller's args with c
//	0x23	br		hi,lo:u8	c-		pop cond; if 1, pc += signed16(hi,lo)
//	0x24	jmp		hi,lo:u8	-		pc += signed16(hi,lo)
//	0x30	iadd				xy-z		z = x + y
//	0x31	isub				xy-z		z = x - y
//	0x32	imul				xy-z		z = x * y
//	0x33	idiv				xy-z		z = x / y (truncated)
//	0x34	iand				xy-z		z = x & y
//	0x35	ior				xy-z		z = x | y
//	0x36	icmp		cmp:u8		x-c		c = (x cmp 0) as 0/1
//	0xF0	print				c-c		write c's textual form, unchanged
//
// There is no garbage collector, no floating point, and no concurrency:
// values are plain ints or function references, and a Machine is a purely
// sequential state machine driven entirely by the caller of Step.
package vm
