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

// Package asm translates HISS assembly source into a binary module
// (spec.md §4.1, §6.1, §6.2).
//
// A module is exactly:
//
//	.constants { <constant>* } .code { <code-item>* }
//
// Tokens are whitespace-separated and classified positionally rather than
// by keyword:
//
//	{  }		block delimiters
//	.name		section header (only "constants" and "code" are valid)
//	name:		label definition (only valid inside .code)
//	$name		label reference (only valid as an hfunc's offset argument)
//	<int>		decimal, 0x hex, 0b binary or 0o octal integer literal
//	hint, hfunc	constant type keywords
//	<mnemonic>	an opcode name (see package vm's opcode table)
//
// Anything else is a tokenising error. Lines beginning with '#' are
// comments and are stripped before tokenising.
//
// A <constant> is either:
//
//	hint <int>
//	hfunc <arity:int> <offset:int-or-$label>
//
// Constants are numbered in the order they appear, starting at 0; by
// convention constants[0] must be an hfunc naming the program's entry
// point. A <code-item> is a label definition, an opcode mnemonic, or a bare
// integer literal emitted as a single immediate byte: the grammar does
// not track how many immediates a given mnemonic expects, so the source is
// simply a flat sequence of bytes with labels marking positions in it.
//
// Label references only occur inside hfunc constants, where they are
// patched in place with the referenced label's byte offset measured from
// the start of .code. Forward references are legal: an unresolved
// reference is written as eight placeholder 0xFF bytes and patched when
// its label is later defined. Redefining an already-defined label is a
// DuplicateLabel error; any reference still unresolved at the end of
// input is an UnresolvedReference error.
package asm
