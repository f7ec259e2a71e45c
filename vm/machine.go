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
	"io"

	"github.com/pkg/errors"
)

// Frame is a call-activation record (spec.md §3).
type Frame struct {
	Func    Func
	Fp      int
	RetAddr int64
}

// Machine is a stack-based interpreter: a value stack, a frame stack, and a
// program counter into the module's code segment. It is created by
// NewMachine, set up by Init and driven one instruction at a time by Step, mirroring the teacher's
// Instance, but split out of a run-to-completion loop (vm/core.go's Run)
// into single-step semantics per spec.md §4.3.
type Machine struct {
	module *Module
	pc     int64
	stack  []Value
	frames []Frame

	insCount int64
}

// NewMachine creates a Machine bound to module but does not yet initialize
// execution state; call Init before the first Step.
func NewMachine(module *Module) *Machine {
	return &Machine{module: module}
}

// Init sets up the initial frame from constants[0] (the entry point) and
// positions pc at its offset, per spec.md §4.3 "Initialisation".
func (m *Machine) Init() error {
	if len(m.module.Constants) == 0 || !m.module.Constants[0].IsFunc() {
		return errors.New("constants[0] must be a Func entry point")
	}
	entry := m.module.EntryPoint()
	m.stack = m.stack[:0]
	m.frames = append(m.frames[:0], Frame{Func: entry, Fp: 0, RetAddr: 0})
	m.pc = entry.Offset
	m.insCount = 0
	return nil
}

// PC returns the current program counter.
func (m *Machine) PC() int64 { return m.pc }

// Stack returns the current value stack. Callers must not retain or mutate
// the returned slice across further Step calls.
func (m *Machine) Stack() []Value { return m.stack }

// Frames returns the current frame stack. Callers must not retain or
// mutate the returned slice across further Step calls.
func (m *Machine) Frames() []Frame { return m.frames }

// InstructionCount returns the number of opcodes successfully executed so
// far, not counting a halt, mirroring Instance.InstructionCount in the
// teacher.
func (m *Machine) InstructionCount() int64 { return m.insCount }

func (m *Machine) curFrame() *Frame {
	return &m.frames[len(m.frames)-1]
}

func (m *Machine) push(v Value) {
	m.stack = append(m.stack, v)
}

func (m *Machine) pop() (Value, error) {
	n := len(m.stack)
	if n == 0 {
		return Value{}, ErrStackUnderflow
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, nil
}

func (m *Machine) popInt() (int64, error) {
	v, err := m.pop()
	if err != nil {
		return 0, err
	}
	if !v.IsInt() {
		return 0, errors.Wrapf(ErrTypeMismatch, "expected int, got %s", v.Tag)
	}
	return v.Int, nil
}

// readByte reads the byte at pc and advances pc by 1.
func (m *Machine) readByte() (byte, error) {
	if m.pc < 0 || m.pc >= int64(len(m.module.Code)) {
		return 0, ErrPcOutOfBounds
	}
	b := m.module.Code[m.pc]
	m.pc++
	return b, nil
}

// readSignedOffset interprets (hi<<8)|lo as an unsigned 16-bit value, then
// as two's-complement signed 16-bit, per spec.md §4.3.
func readSignedOffset(hi, lo byte) int64 {
	u := uint16(hi)<<8 | uint16(lo)
	return int64(int16(u))
}

// Step executes exactly one instruction. It returns halted=true when
// execution has reached a halt condition and must not be stepped further.
// w receives the textual output of the print opcode.
func (m *Machine) Step(w io.Writer) (halted bool, err error) {
	if len(m.frames) == 0 {
		return true, nil
	}
	if m.pc >= int64(len(m.module.Code)) {
		return true, nil
	}

	opByte, err := m.readByte()
	if err != nil {
		return false, err
	}
	op := Op(opByte)

	switch op {
	case OpNoop:
		// no effect

	case OpPushc:
		idx, err := m.readByte()
		if err != nil {
			return false, err
		}
		if int(idx) >= len(m.module.Constants) {
			return false, errors.Wrapf(ErrPcOutOfBounds, "constant index %d out of range", idx)
		}
		m.push(m.module.Constants[idx])

	case OpPop:
		if _, err := m.pop(); err != nil {
			return false, err
		}

	case OpLoadv:
		idx, err := m.readByte()
		if err != nil {
			return false, err
		}
		slot := m.curFrame().Fp + int(idx)
		if slot < 0 || slot >= len(m.stack) {
			return false, errors.Wrapf(ErrInvalidLocal, "loadv slot %d", slot)
		}
		m.push(m.stack[slot])

	case OpStorev:
		idx, err := m.readByte()
		if err != nil {
			return false, err
		}
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		slot := m.curFrame().Fp + int(idx)
		if slot < 0 || slot >= len(m.stack) {
			return false, errors.Wrapf(ErrInvalidLocal, "storev slot %d", slot)
		}
		m.stack[slot] = v

	case OpHalt:
		return true, nil

	case OpCall:
		callee, err := m.pop()
		if err != nil {
			return false, err
		}
		if !callee.IsFunc() {
			return false, errors.Wrapf(ErrTypeMismatch, "call target is %s, not func", callee.Tag)
		}
		arity := int(callee.Func.Arity)
		fp := len(m.stack) - arity
		if fp < 0 {
			return false, errors.Wrap(ErrStackUnderflow, "call: not enough arguments on stack")
		}
		m.frames = append(m.frames, Frame{Func: callee.Func, Fp: fp, RetAddr: m.pc})
		m.pc = callee.Func.Offset

	case OpRet:
		frame := m.frames[len(m.frames)-1]
		m.frames = m.frames[:len(m.frames)-1]
		m.pc = frame.RetAddr
		retVal, err := m.pop()
		if err != nil {
			return false, err
		}
		if frame.Fp > len(m.stack) {
			return false, errors.Wrap(ErrInvalidLocal, "ret: frame pointer beyond stack")
		}
		m.stack = m.stack[:frame.Fp]
		m.push(retVal)

	case OpBr:
		hi, err := m.readByte()
		if err != nil {
			return false, err
		}
		lo, err := m.readByte()
		if err != nil {
			return false, err
		}
		cond, err := m.pop()
		if err != nil {
			return false, err
		}
		b, ok := cond.Bool()
		if !ok {
			return false, errors.Wrapf(ErrInvalidBool, "br condition %s", cond)
		}
		if b {
			m.pc += readSignedOffset(hi, lo)
		}

	case OpJmp:
		hi, err := m.readByte()
		if err != nil {
			return false, err
		}
		lo, err := m.readByte()
		if err != nil {
			return false, err
		}
		m.pc += readSignedOffset(hi, lo)

	case OpIadd, OpIsub, OpImul, OpIdiv, OpIand, OpIor:
		x, err := m.popInt()
		if err != nil {
			return false, err
		}
		y, err := m.popInt()
		if err != nil {
			return false, err
		}
		var result int64
		switch op {
		case OpIadd:
			result = x + y
		case OpIsub:
			result = x - y
		case OpImul:
			result = x * y
		case OpIdiv:
			if y == 0 {
				return false, ErrDivideByZero
			}
			result = x / y
		case OpIand:
			result = x & y
		case OpIor:
			result = x | y
		}
		m.push(Int(result))

	case OpIcmp:
		codeByte, err := m.readByte()
		if err != nil {
			return false, err
		}
		x, err := m.popInt()
		if err != nil {
			return false, err
		}
		res, err := compare(x, Cmp(codeByte))
		if err != nil {
			return false, err
		}
		m.push(Int(boolToInt(res)))

	case OpPrint:
		if len(m.stack) == 0 {
			return false, ErrStackUnderflow
		}
		top := m.stack[len(m.stack)-1]
		if _, err := fmt.Fprintf(w, "%s\n", top); err != nil {
			return false, errors.Wrap(err, "print")
		}

	default:
		return false, errors.Wrapf(ErrUnknownOpcode, "0x%02x", opByte)
	}

	m.insCount++
	return false, nil
}

// Run steps the machine to completion, writing print output to w. It is a
// convenience wrapper; Step remains the primitive operation per spec.md
// §4.3.
func (m *Machine) Run(w io.Writer) error {
	for {
		halted, err := m.Step(w)
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}

func compare(x int64, c Cmp) (bool, error) {
	switch c {
	case CmpEq:
		return x == 0, nil
	case CmpNeq:
		return x != 0, nil
	case CmpLt:
		return x < 0, nil
	case CmpLeq:
		return x <= 0, nil
	case CmpGt:
		return x > 0, nil
	case CmpGeq:
		return x >= 0, nil
	default:
		return false, errors.Wrapf(ErrUnknownCmp, "0x%02x", byte(c))
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
