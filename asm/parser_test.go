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
	"strings"
	"testing"

	"github.com/dbernard/hiss/asm"
)

// TestAssemble_errors checks the five assembler error kinds from spec.md
// §4.1, following the teacher's asm_test.go style of a table of source
// snippets and their expected error kind.
func TestAssemble_errors(t *testing.T) {
	data := []struct {
		name string
		src  string
		kind string // substring of the error kind expected to appear
	}{
		{"unknown_ident", `.constants { } .code { popcount }`, "InvalidToken"},
		{"bad_section", `.constants [ } .code { halt }`, "InvalidToken"},
		{"missing_brace", `.constants hint 1 } .code { halt }`, "UnexpectedToken"},
		{"bad_arity", `.constants { hfunc 999 $main } .code { main: halt }`, "OutOfRange"},
		{"bad_immediate", `.constants { hfunc 0 $main } .code { main: pushc 9999 halt }`, "OutOfRange"},
		{"dup_label", `.constants { hfunc 0 $main } .code { main: halt main: halt }`, "DuplicateLabel"},
		{"unresolved", `.constants { hfunc 0 $nope } .code { main: halt }`, "UnresolvedReference"},
	}
	for _, d := range data {
		_, err := asm.Assemble(d.name, strings.NewReader(d.src))
		if err == nil {
			t.Errorf("%s: expected an error, got none", d.name)
			continue
		}
		if !strings.Contains(err.Error(), d.kind) {
			t.Errorf("%s: expected error to mention %s, got %q", d.name, d.kind, err.Error())
		}
	}
}

// TestAssemble_forwardReference checks a label referenced before its
// definition resolves to the correct offset once the label is seen.
func TestAssemble_forwardReference(t *testing.T) {
	raw, err := asm.Assemble("fwd", strings.NewReader(`
		.constants { hfunc 0 $main hfunc 0 $helper }
		.code { main: call halt helper: noop ret }
	`))
	if err != nil {
		t.Fatal(err)
	}
	// magic(4) + count(1) = 5 header bytes, then two 10-byte hfunc constants
	// (tag+arity+8-byte offset each). helper is the second constant and is
	// defined after "call halt" (2 code bytes), so its offset must be 2.
	helperOffsetBytes := raw[5+10+2 : 5+10+2+8]
	var off int64
	for _, b := range helperOffsetBytes {
		off = off<<8 | int64(b)
	}
	if off != 2 {
		t.Fatalf("helper offset: expected 2, got %d", off)
	}
}

// TestAssemble_tooManyConstants checks that more than 255 constants
// is rejected.
func TestAssemble_tooManyConstants(t *testing.T) {
	var b strings.Builder
	b.WriteString(".constants {")
	for i := 0; i < 256; i++ {
		b.WriteString(" hint 1")
	}
	b.WriteString(" } .code { main: halt }")
	_, err := asm.Assemble("toomany", strings.NewReader(b.String()))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "OutOfRange") {
		t.Fatalf("expected OutOfRange, got %q", err.Error())
	}
}
