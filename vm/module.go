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
	"github.com/pkg/errors"

	"github.com/dbernard/hiss/internal/hissi"
)

// Magic is the 4-byte prefix identifying a HISS binary module.
var Magic = [4]byte{'h', 'i', 's', 's'}

// Module is an immutable, decoded HISS program: a constant pool and a code
// segment. By convention constants[0] is a Func naming the entry point.
type Module struct {
	Constants []Value
	Code      []byte
}

// EntryPoint returns the Func at Constants[0]. It panics if the module has
// no constants; if constants[0] is not a Func it returns the zero Func.
// Load does not check constants[0]'s type; Machine.Init does.
func (m *Module) EntryPoint() Func {
	return m.Constants[0].Func
}

// Load decodes a HISS binary module from buf. It validates the magic
// prefix, decodes the constant pool, and aliases the remainder of buf as
// the code segment (no copy).
func Load(buf []byte) (*Module, error) {
	r := &reader{buf: buf}

	magic, err := r.take(4)
	if err != nil {
		return nil, errors.Wrap(ErrMissingMagicBytes, "reading magic")
	}
	if magic[0] != Magic[0] || magic[1] != Magic[1] || magic[2] != Magic[2] || magic[3] != Magic[3] {
		return nil, ErrMissingMagicBytes
	}

	countByte, err := r.take(1)
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedEof, "reading constant count")
	}
	count := int(countByte[0])

	constants := make([]Value, count)
	for idx := 0; idx < count; idx++ {
		v, err := readConstant(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading constant %d", idx)
		}
		constants[idx] = v
	}

	return &Module{Constants: constants, Code: r.rest()}, nil
}

func readConstant(r *reader) (Value, error) {
	tagByte, err := r.take(1)
	if err != nil {
		return Value{}, errors.Wrap(ErrUnexpectedEof, "reading constant tag")
	}
	switch Type(tagByte[0]) {
	case TypeInt:
		b, err := r.take(8)
		if err != nil {
			return Value{}, errors.Wrap(ErrUnexpectedEof, "reading hint payload")
		}
		return Int(hissi.Int64(b)), nil
	case TypeFunc:
		arityByte, err := r.take(1)
		if err != nil {
			return Value{}, errors.Wrap(ErrUnexpectedEof, "reading hfunc arity")
		}
		offsetBytes, err := r.take(8)
		if err != nil {
			return Value{}, errors.Wrap(ErrUnexpectedEof, "reading hfunc offset")
		}
		return FuncVal(hissi.Int64(offsetBytes), arityByte[0]), nil
	default:
		return Value{}, errors.Wrapf(ErrUnknownTypeTag, "tag 0x%02x", tagByte[0])
	}
}

// reader is a tiny bounds-checked cursor over a byte buffer, used only by
// the loader. Kept private and minimal rather than reused elsewhere, since
// the assembler's writer-side needs (backpatching) are different enough
// not to share an abstraction with it.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, errors.New("short read")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) rest() []byte {
	return r.buf[r.pos:]
}
