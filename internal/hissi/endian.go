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

package hissi

import "encoding/binary"

// PutInt64 encodes v as 8 big-endian bytes, appended to dst. Grounded on
// vm/mem.go's load32/load64 manual byte-slice handling in the teacher,
// adapted from ngaro's configurable-width little-endian cells to this
// format's fixed-width big-endian int64 fields.
func PutInt64(dst []byte, v int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return append(dst, b[:]...)
}

// Int64 decodes 8 big-endian bytes from the front of b.
func Int64(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

// PatchInt64 overwrites the 8 bytes at dst[at:at+8] with v's big-endian
// encoding, used by the assembler's label backpatcher.
func PatchInt64(dst []byte, at int, v int64) {
	binary.BigEndian.PutUint64(dst[at:at+8], uint64(v))
}
