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
	"strconv"
	"strings"

	"github.com/dbernard/hiss/vm"
)

// TokenKind classifies a token the way spec.md §4.1 describes: purely
// positional (leading/trailing sigil, or shape), never by a fixed keyword
// table except for the two constant-type names and the opcode mnemonics.
type TokenKind int

// Token kinds.
const (
	TokEOF TokenKind = iota
	TokLBrace
	TokRBrace
	TokSection  // Text holds the section name, e.g. "constants"
	TokLabelDef // Text holds the label name
	TokLabelRef // Text holds the label name
	TokInt      // Int holds the parsed value
	TokConstType
	TokInstr // Op holds the opcode
)

// Token is one classified lexical unit.
type Token struct {
	Kind TokenKind
	Text string
	Int  int64
	Op   vm.Op
	Pos  Position
}

// Position is a 1-based line/column into the assembly source, used in
// error messages. Name is the source name passed to Assemble, carried here
// so positioned errors can be prefixed with it the way the teacher's
// asm.Assemble does.
type Position struct {
	Name      string
	Line, Col int
}

func (p Position) String() string {
	loc := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
	if p.Name == "" {
		return loc
	}
	return p.Name + ":" + loc
}

// rawToken is a maximal whitespace-delimited run of non-whitespace
// characters, with comments (a '#' to end of line) already stripped.
type rawToken struct {
	text string
	pos  Position
}

// Lexer splits assembly source into classified Tokens on demand. EOF is
// returned (with no error) forever once the input is exhausted, per
// spec.md §8's tokeniser contract.
type Lexer struct {
	toks []rawToken
	pos  int
}

// NewLexer tokenises src into whitespace-delimited raw tokens with
// comments removed; classification happens lazily in Next. name is
// attached to every token's Position so downstream error messages can be
// prefixed with the source name, the way the teacher's tokeniser does.
func NewLexer(name, src string) *Lexer {
	return &Lexer{toks: splitTokens(name, src)}
}

func splitTokens(name, src string) []rawToken {
	var toks []rawToken
	line, col := 1, 1
	var cur strings.Builder
	curLine, curCol := 0, 0
	inComment := false

	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, rawToken{text: cur.String(), pos: Position{Name: name, Line: curLine, Col: curCol}})
			cur.Reset()
		}
	}

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '\n' {
			inComment = false
			flush()
			line++
			col = 1
			continue
		}
		if inComment {
			col++
			continue
		}
		if ch == '#' {
			flush()
			inComment = true
			col++
			continue
		}
		if ch == ' ' || ch == '\t' || ch == '\r' {
			flush()
			col++
			continue
		}
		if cur.Len() == 0 {
			curLine, curCol = line, col
		}
		cur.WriteRune(ch)
		col++
	}
	flush()
	return toks
}

// Next returns the next classified token, or a *Error if the raw token at
// the cursor cannot be classified (InvalidToken). Calling Next past the
// end of input yields TokEOF tokens indefinitely.
func (l *Lexer) Next() (Token, error) {
	if l.pos >= len(l.toks) {
		return Token{Kind: TokEOF}, nil
	}
	raw := l.toks[l.pos]
	l.pos++
	return classify(raw)
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	save := l.pos
	tok, err := l.Next()
	l.pos = save
	return tok, err
}

func classify(raw rawToken) (Token, error) {
	s := raw.text
	switch {
	case s == "{":
		return Token{Kind: TokLBrace, Text: s, Pos: raw.pos}, nil
	case s == "}":
		return Token{Kind: TokRBrace, Text: s, Pos: raw.pos}, nil
	case strings.HasPrefix(s, "."):
		name := strings.TrimSuffix(s[1:], ":")
		if name == "" {
			return Token{}, &Error{Kind: InvalidToken, Pos: raw.pos, Msg: "empty section name"}
		}
		return Token{Kind: TokSection, Text: name, Pos: raw.pos}, nil
	case strings.HasPrefix(s, "$"):
		name := s[1:]
		if name == "" {
			return Token{}, &Error{Kind: InvalidToken, Pos: raw.pos, Msg: "empty label reference"}
		}
		return Token{Kind: TokLabelRef, Text: name, Pos: raw.pos}, nil
	case strings.HasSuffix(s, ":") && len(s) > 1:
		name := strings.TrimSuffix(s, ":")
		return Token{Kind: TokLabelDef, Text: name, Pos: raw.pos}, nil
	}

	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return Token{Kind: TokInt, Int: n, Text: s, Pos: raw.pos}, nil
	}
	switch s {
	case "hint", "hfunc":
		return Token{Kind: TokConstType, Text: s, Pos: raw.pos}, nil
	}
	if op, ok := vm.LookupOpcode(s); ok {
		return Token{Kind: TokInstr, Op: op, Text: s, Pos: raw.pos}, nil
	}
	return Token{}, &Error{Kind: InvalidToken, Pos: raw.pos, Msg: "unknown token " + strconv.Quote(s)}
}
