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

import "fmt"

// Type is the wire tag byte identifying a Value's variant.
type Type byte

// Value variants.
const (
	TypeInt  Type = 0x01
	TypeFunc Type = 0x02
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFunc:
		return "func"
	default:
		return fmt.Sprintf("Type(0x%02x)", byte(t))
	}
}

// Func is a reference to a function: a byte offset into a Module's code
// segment, and the number of arguments it consumes off the value stack.
type Func struct {
	Offset int64
	Arity  uint8
}

// Value is the machine's tagged union. Exactly one of the two variants is
// meaningful at a time; which one is determined by Tag.
type Value struct {
	Tag  Type
	Int  int64
	Func Func
}

// Int returns an Int-tagged Value.
func Int(v int64) Value { return Value{Tag: TypeInt, Int: v} }

// FuncVal returns a Func-tagged Value.
func FuncVal(offset int64, arity uint8) Value {
	return Value{Tag: TypeFunc, Func: Func{Offset: offset, Arity: arity}}
}

// IsInt reports whether v holds an Int.
func (v Value) IsInt() bool { return v.Tag == TypeInt }

// IsFunc reports whether v holds a Func.
func (v Value) IsFunc() bool { return v.Tag == TypeFunc }

// Bool interprets v as a boolean per spec: 0 is false, 1 is true, any other
// Int (or any Func) is not a valid boolean.
func (v Value) Bool() (b bool, ok bool) {
	if v.Tag != TypeInt {
		return false, false
	}
	switch v.Int {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}

func (v Value) String() string {
	switch v.Tag {
	case TypeInt:
		return fmt.Sprintf("%d", v.Int)
	case TypeFunc:
		return fmt.Sprintf("func@%d/%d", v.Func.Offset, v.Func.Arity)
	default:
		return fmt.Sprintf("<invalid value, tag 0x%02x>", byte(v.Tag))
	}
}
