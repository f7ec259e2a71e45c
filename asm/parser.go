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
	"github.com/dbernard/hiss/internal/hissi"
	"github.com/dbernard/hiss/vm"
)

// labelUse records a pending patch site: an 8-byte big-endian slot in out
// waiting for the byte offset of label Name, relative to the start of
// .code. Grounded on asm/parser.go's labelSite/label types in the teacher,
// adapted from its cell-granularity patches to this format's byte offsets.
type labelUse struct {
	Name string
	At   int
	Pos  Position
}

// parser drives the two-section grammar (spec.md §4.1/§6.1) and the
// forward-reference backpatch mechanism (spec.md §9).
type parser struct {
	lex  *Lexer
	name string
	out  []byte

	codeStart  int // len(out) when .code begins; -1 until then
	resolved   map[string]int64
	resolvedAt map[string]Position
	pending    []labelUse

	errs ErrAsm
}

const maxParserErrors = 20

func newParser(name, src string) *parser {
	return &parser{
		lex:        NewLexer(name, src),
		name:       name,
		codeStart:  -1,
		resolved:   make(map[string]int64),
		resolvedAt: make(map[string]Position),
	}
}

func (p *parser) fail(kind ErrorKind, pos Position, msg string) {
	p.errs = append(p.errs, &Error{Kind: kind, Pos: pos, Msg: msg})
}

func (p *parser) aborting() bool { return len(p.errs) >= maxParserErrors }

func (p *parser) next() (Token, bool) {
	tok, err := p.lex.Next()
	if err != nil {
		p.fail(err.(*Error).Kind, err.(*Error).Pos, err.(*Error).Msg)
		return Token{}, false
	}
	return tok, true
}

func (p *parser) expect(kind TokenKind, what string) (Token, bool) {
	tok, ok := p.next()
	if !ok {
		return tok, false
	}
	if tok.Kind != kind {
		p.fail(UnexpectedToken, tok.Pos, "expected "+what+", got "+describeToken(tok))
		return tok, false
	}
	return tok, true
}

func describeToken(t Token) string {
	switch t.Kind {
	case TokEOF:
		return "end of input"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokSection:
		return "section '." + t.Text + "'"
	case TokLabelDef:
		return "label definition '" + t.Text + ":'"
	case TokLabelRef:
		return "label reference '$" + t.Text + "'"
	case TokInt:
		return "integer '" + t.Text + "'"
	case TokConstType:
		return "'" + t.Text + "'"
	case TokInstr:
		return "'" + t.Text + "'"
	default:
		return "token"
	}
}

func (p *parser) emitByte(b byte) {
	p.out = append(p.out, b)
}

func (p *parser) emitBytes(bs ...byte) {
	p.out = append(p.out, bs...)
}

func (p *parser) emitInt64(v int64) {
	p.out = hissi.PutInt64(p.out, v)
}

// assemble runs the whole grammar and returns the finished module bytes.
func (p *parser) assemble() ([]byte, error) {
	// header: magic + placeholder constant count
	p.emitBytes(vm.Magic[0], vm.Magic[1], vm.Magic[2], vm.Magic[3])
	countAt := len(p.out)
	p.emitByte(0)

	count := p.parseConstants()
	p.parseCode()

	p.finalizeLabels()

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	if count > 255 {
		return nil, ErrAsm{{Kind: OutOfRange, Pos: Position{Name: p.name}, Msg: "too many constants"}}
	}
	p.out[countAt] = byte(count)
	return p.out, nil
}

func (p *parser) parseConstants() int {
	if _, ok := p.expectSection("constants"); !ok {
		return 0
	}
	if _, ok := p.expect(TokLBrace, "'{'"); !ok {
		return 0
	}

	count := 0
	for !p.aborting() {
		tok, ok := p.next()
		if !ok {
			return count
		}
		if tok.Kind == TokRBrace {
			return count
		}
		if tok.Kind != TokConstType {
			p.fail(UnexpectedToken, tok.Pos, "expected 'hint', 'hfunc' or '}', got "+describeToken(tok))
			return count
		}
		p.parseConstant(tok)
		count++
	}
	return count
}

func (p *parser) parseConstant(typeTok Token) {
	switch typeTok.Text {
	case "hint":
		v, ok := p.expect(TokInt, "integer literal")
		if !ok {
			return
		}
		p.emitByte(byte(vm.TypeInt))
		p.emitInt64(v.Int)

	case "hfunc":
		arity, ok := p.expect(TokInt, "integer literal (arity)")
		if !ok {
			return
		}
		if arity.Int < 0 || arity.Int > 255 {
			p.fail(OutOfRange, arity.Pos, "arity out of range: "+arity.Text)
			return
		}
		p.emitByte(byte(vm.TypeFunc))
		p.emitByte(byte(arity.Int))

		off, ok := p.next()
		if !ok {
			return
		}
		switch off.Kind {
		case TokInt:
			p.emitInt64(off.Int)
		case TokLabelRef:
			p.pending = append(p.pending, labelUse{Name: off.Text, At: len(p.out), Pos: off.Pos})
			if v, ok := p.resolved[off.Text]; ok {
				p.emitInt64(v)
			} else {
				p.emitBytes(0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
			}
		default:
			p.fail(UnexpectedToken, off.Pos, "expected integer or $label, got "+describeToken(off))
		}
	}
}

func (p *parser) parseCode() {
	if _, ok := p.expectSection("code"); !ok {
		return
	}
	if _, ok := p.expect(TokLBrace, "'{'"); !ok {
		return
	}
	p.codeStart = len(p.out)

	for !p.aborting() {
		tok, ok := p.next()
		if !ok {
			return
		}
		switch tok.Kind {
		case TokRBrace:
			return
		case TokEOF:
			p.fail(UnexpectedToken, tok.Pos, "unexpected end of input inside .code block")
			return
		case TokLabelDef:
			p.defineLabel(tok)
		case TokInstr:
			p.emitByte(byte(tok.Op))
		case TokInt:
			if tok.Int < 0 || tok.Int > 255 {
				p.fail(OutOfRange, tok.Pos, "immediate out of range: "+tok.Text)
				continue
			}
			p.emitByte(byte(tok.Int))
		default:
			p.fail(UnexpectedToken, tok.Pos, "unexpected "+describeToken(tok)+" in .code block")
		}
	}
}

func (p *parser) expectSection(name string) (Token, bool) {
	tok, ok := p.next()
	if !ok {
		return tok, false
	}
	if tok.Kind != TokSection || tok.Text != name {
		p.fail(UnexpectedToken, tok.Pos, "expected section '."+name+"', got "+describeToken(tok))
		return tok, false
	}
	return tok, true
}

func (p *parser) defineLabel(tok Token) {
	if prevPos, ok := p.resolvedAt[tok.Text]; ok {
		p.fail(DuplicateLabel, tok.Pos, "label '"+tok.Text+"' already defined at "+prevPos.String())
		return
	}
	value := int64(len(p.out) - p.codeStart)
	p.resolved[tok.Text] = value
	p.resolvedAt[tok.Text] = tok.Pos
	p.patch(tok.Text, value)
}

func (p *parser) patch(name string, value int64) {
	remaining := p.pending[:0]
	for _, u := range p.pending {
		if u.Name == name {
			hissi.PatchInt64(p.out, u.At, value)
			continue
		}
		remaining = append(remaining, u)
	}
	p.pending = remaining
}

func (p *parser) finalizeLabels() {
	for _, u := range p.pending {
		if _, ok := p.resolved[u.Name]; ok {
			continue
		}
		p.fail(UnresolvedReference, u.Pos, "undefined label '"+u.Name+"'")
	}
}
