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

import "github.com/pkg/errors"

// Loader error sentinels (spec.md §4.2, §7). Wrapped with positional
// context by the loader the way vm/mem.go wraps io errors in the teacher.
var (
	ErrMissingMagicBytes = errors.New("missing or invalid magic bytes")
	ErrUnexpectedEof     = errors.New("unexpected end of module buffer")
	ErrUnknownTypeTag    = errors.New("unknown constant type tag")
)

// Runtime error sentinels (spec.md §4.3, §7). Machine.Step returns these
// either bare or wrapped with a short note on the failing operand (slot,
// opcode byte, comparison code, value type); the pc is not included.
var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrInvalidBool    = errors.New("invalid boolean")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrUnknownCmp     = errors.New("unknown comparison code")
	ErrPcOutOfBounds  = errors.New("pc out of bounds")
	ErrDivideByZero   = errors.New("divide by zero")
	ErrInvalidLocal   = errors.New("local slot out of bounds")
)
