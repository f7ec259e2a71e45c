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

package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dbernard/hiss/asm"
	"github.com/dbernard/hiss/vm"
)

func assembleOrFatal(t *testing.T, src string) *vm.Module {
	t.Helper()
	raw, err := asm.Assemble(t.Name(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	mod, err := vm.Load(raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return mod
}

func runToOutput(t *testing.T, src string) string {
	t.Helper()
	mod := assembleOrFatal(t, src)
	m := vm.NewMachine(mod)
	if err := m.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	var out bytes.Buffer
	if err := m.Run(&out); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

// TestInit checks the universal post-Init invariant from spec.md §8: the
// stack is empty and the single entry frame has fp == 0, ret_addr == 0.
func TestInit(t *testing.T) {
	mod := assembleOrFatal(t, `
		.constants { hfunc 0 $main }
		.code { main: halt }
	`)
	m := vm.NewMachine(mod)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if len(m.Stack()) != 0 {
		t.Fatalf("expected empty stack, got %v", m.Stack())
	}
	frames := m.Frames()
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].Fp != 0 || frames[0].RetAddr != 0 {
		t.Fatalf("expected fp=0 ret_addr=0, got %+v", frames[0])
	}
}

// TestAddition is spec.md §8 scenario 1.
func TestAddition(t *testing.T) {
	src := `
		.constants {
			hfunc 0 $main
			hfunc 2 $add
			hint 4
			hint 6
		}
		.code {
			main: pushc 2 pushc 3 pushc 1 call print halt
			add: loadv 0 loadv 1 iadd ret
		}
	`
	got := runToOutput(t, src)
	if got != "10\n" {
		t.Fatalf("expected \"10\\n\", got %q", got)
	}
}

// TestSubtractionOrdering is spec.md §8 scenario 2: isub pops x=top then
// y=next and pushes x-y, so pushc A(10); pushc B(3); isub leaves 3-10=-7.
func TestSubtractionOrdering(t *testing.T) {
	src := `
		.constants {
			hfunc 0 $main
			hint 10
			hint 3
		}
		.code {
			main: pushc 1 pushc 2 isub pushc 0 pop halt
		}
	`
	mod := assembleOrFatal(t, src)
	m := vm.NewMachine(mod)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	// step through pushc A, pushc B, isub manually to inspect the stack
	var out bytes.Buffer
	for i := 0; i < 3; i++ {
		if _, err := m.Step(&out); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	stack := m.Stack()
	if len(stack) != 1 || stack[0].Int != -7 {
		t.Fatalf("expected [-7], got %v", stack)
	}
}

// TestConditionalBranch is spec.md §8 scenario 3 (branch taken): a true
// condition skips the FAIL path and reaches the OK path.
func TestConditionalBranch(t *testing.T) {
	src := `
		.constants { hfunc 0 $main hint 1 hint 0 hint 42 }
		.code { main: pushc 1 br 0x00 0x03 pushc 2 halt pushc 3 print halt }
	`
	if got := runToOutput(t, src); got != "42\n" {
		t.Fatalf("cond=1: expected \"42\\n\", got %q", got)
	}
}

// TestConditionalBranchNotTaken checks that a false condition falls
// through to the very next instruction rather than jumping.
func TestConditionalBranchNotTaken(t *testing.T) {
	src := `
		.constants { hfunc 0 $main hint 0 hint 7 }
		.code { main: pushc 1 br 0x00 0x03 pushc 2 halt pushc 1 halt }
	`
	mod := assembleOrFatal(t, src)
	m := vm.NewMachine(mod)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	// pushc cond, br (not taken, falls through), pushc 7
	for i := 0; i < 3; i++ {
		if _, err := m.Step(&out); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	stack := m.Stack()
	if len(stack) != 1 || stack[0].Int != 7 {
		t.Fatalf("expected fallthrough to push 7, got %v", stack)
	}
}

// TestFibRecursive is spec.md §8 scenario 4: naive recursive fib(10) == 55.
//
// isub computes top-minus-next, so "n - k" is written pushc K; loadv 0; isub.
// icmp only ever compares its popped operand against zero, so "n < 2" is
// computed as (n - 2) and then compared against zero with the lt code.
func TestFibRecursive(t *testing.T) {
	src := `
		.constants {
			hfunc 0 $main
			hfunc 1 $fib
			hint 10
			hint 2
			hint 1
		}
		.code {
			main: pushc 2 pushc 1 call print halt
			fib:
				pushc 3 loadv 0 isub icmp 0x02
				br 0x00 0x12
				pushc 4 loadv 0 isub pushc 1 call
				pushc 3 loadv 0 isub pushc 1 call
				iadd ret
				loadv 0 ret
		}
	`
	got := runToOutput(t, src)
	if got != "55\n" {
		t.Fatalf("expected \"55\\n\", got %q", got)
	}
}

// TestFibLoop is spec.md §8 scenario 5: a tail-recursive loop(i, limit, a, b)
// that prints a, advances (a, b) to (b, a+b), and self-calls while
// i+1 < limit. Exercises storev, which no other test does.
func TestFibLoop(t *testing.T) {
	src := `
		.constants {
			hfunc 0 $main
			hfunc 4 $loop
			hint 0
			hint 3
			hint 1
		}
		.code {
			main: pushc 2 pushc 3 pushc 2 pushc 4 pushc 1 call pop halt
			loop:
				loadv 2 print pop
				loadv 3
				loadv 2 loadv 3 iadd
				storev 3
				storev 2
				loadv 0 pushc 4 iadd
				storev 0
				pushc 3 loadv 0 isub
				icmp 0x02
				br 0x00 0x03
				pushc 2 ret
				loadv 0 loadv 1 loadv 2 loadv 3 pushc 1 call ret
		}
	`
	got := runToOutput(t, src)
	if got != "0\n1\n1\n" {
		t.Fatalf("expected \"0\\n1\\n1\\n\", got %q", got)
	}
}

// TestDivideByZero exercises the Open Question resolution in DESIGN.md:
// idiv raises ErrDivideByZero rather than panicking.
func TestDivideByZero(t *testing.T) {
	src := `
		.constants { hfunc 0 $main hint 1 hint 0 }
		.code { main: pushc 2 pushc 1 idiv halt }
	`
	mod := assembleOrFatal(t, src)
	m := vm.NewMachine(mod)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	err := m.Run(&out)
	if err == nil {
		t.Fatal("expected an error")
	}
}

// TestStackUnderflow checks that popping an empty stack surfaces
// ErrStackUnderflow rather than panicking.
func TestStackUnderflow(t *testing.T) {
	src := `
		.constants { hfunc 0 $main }
		.code { main: pop halt }
	`
	mod := assembleOrFatal(t, src)
	m := vm.NewMachine(mod)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	_, err := m.Step(&out)
	if err == nil {
		t.Fatal("expected an error")
	}
}

// TestHaltOnEmptyFrames exercises spec.md §4.3's "the first popped-to-empty
// frame stack halts execution" on the Step *after* the terminal ret, not
// on the ret itself.
func TestHaltOnEmptyFrames(t *testing.T) {
	src := `
		.constants { hfunc 0 $main hint 7 }
		.code { main: pushc 1 ret }
	`
	mod := assembleOrFatal(t, src)
	m := vm.NewMachine(mod)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if _, err := m.Step(&out); err != nil { // executes pushc 1
		t.Fatal(err)
	}
	halted, err := m.Step(&out) // executes ret
	if err != nil {
		t.Fatal(err)
	}
	if halted {
		t.Fatal("ret itself should not report halted")
	}
	if len(m.Frames()) != 0 {
		t.Fatalf("expected empty frame stack after ret, got %v", m.Frames())
	}
	halted, err = m.Step(&out) // observes empty frame stack
	if err != nil {
		t.Fatal(err)
	}
	if !halted {
		t.Fatal("expected halted on empty frame stack")
	}
}
