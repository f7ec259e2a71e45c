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

package asm

import (
	"io"
	"strings"
)

// ErrorKind distinguishes the assembler error taxonomy from spec.md §4.1.
type ErrorKind int

// Assembler error kinds.
const (
	InvalidToken ErrorKind = iota
	UnexpectedToken
	OutOfRange
	UnresolvedReference
	DuplicateLabel
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidToken:
		return "InvalidToken"
	case UnexpectedToken:
		return "UnexpectedToken"
	case OutOfRange:
		return "OutOfRange"
	case UnresolvedReference:
		return "UnresolvedReference"
	case DuplicateLabel:
		return "DuplicateLabel"
	default:
		return "UnknownError"
	}
}

// Error is a single positioned assembler error.
type Error struct {
	Kind ErrorKind
	Pos  Position
	Msg  string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Kind.String() + ": " + e.Msg
}

// ErrAsm aggregates every error produced while assembling one source. The
// first error aborts assembly per spec.md §7, but the parser keeps
// collecting related errors (e.g. every unresolved reference) before
// returning, mirroring asm/asm_test.go's multi-error expectations in the
// teacher.
type ErrAsm []*Error

func (e ErrAsm) Error() string {
	lines := make([]string, len(e))
	for i, err := range e {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// Assemble compiles HISS assembly source read from r into a binary module,
// per spec.md §4.1/§6.1. name identifies the source for positioned error
// messages (e.g. a file path), mirroring asm.Assemble in the teacher.
func Assemble(name string, r io.Reader) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := newParser(name, string(src))
	return p.assemble()
}
