// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package filter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenTerm tokenKind = iota
	tokenOp
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
}

// lex splits a filter expression into terms, operators and parens. Terms
// may be single- or double-quoted to include spaces or operator runes.
func lex(s string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case unicode.IsSpace(rune(c)):
			i++
		case c == '(':
			tokens = append(tokens, token{tokenLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")"})
			i++
		case c == '!' && i+1 < len(s) && s[i+1] == '=':
			tokens = append(tokens, token{tokenOp, "!="})
			i += 2
		case (c == '<' || c == '>') && i+1 < len(s) && s[i+1] == '=':
			tokens = append(tokens, token{tokenOp, string(c) + "="})
			i += 2
		case c == '=' || c == ':' || c == '~' || c == '<' || c == '>':
			tokens = append(tokens, token{tokenOp, string(c)})
			i++
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			for j < len(s) && s[j] != quote {
				j++
			}
			if j == len(s) {
				return nil, fmt.Errorf("unterminated quoted string")
			}
			tokens = append(tokens, token{tokenTerm, s[i+1 : j]})
			i = j + 1
		default:
			j := i
			for j < len(s) && !strings.ContainsRune(" \t\n()=:~<>!", rune(s[j])) {
				j++
			}
			tokens = append(tokens, token{tokenTerm, s[i:j]})
			i = j
		}
	}
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) eof() bool    { return p.pos >= len(p.tokens) }
func (p *parser) peek() token  { return p.tokens[p.pos] }
func (p *parser) next() token  { t := p.tokens[p.pos]; p.pos++; return t }
func (p *parser) isTerm(s string) bool {
	return !p.eof() && p.peek().kind == tokenTerm && p.peek().text == s
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isTerm("OR") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
	return left, nil
}

// parseAnd handles both explicit AND and adjacency (space-separated terms
// are conjoined).
func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek().kind != tokenRParen && !p.isTerm("OR") {
		if p.isTerm("AND") {
			p.next()
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.eof() {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	if p.isTerm("NOT") {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	if p.peek().kind == tokenLParen {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.eof() || p.peek().kind != tokenRParen {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.next()
		return inner, nil
	}
	return p.parseTerm()
}

func (p *parser) parseTerm() (node, error) {
	t := p.next()
	if t.kind != tokenTerm {
		return nil, fmt.Errorf("unexpected %q", t.text)
	}
	if p.eof() || p.peek().kind != tokenOp {
		return globalTerm{term: t.text}, nil
	}
	op := p.next().text
	if p.eof() || p.peek().kind != tokenTerm {
		return nil, fmt.Errorf("missing value after %q", t.text+op)
	}
	value := p.next().text
	c := comparison{path: strings.Split(t.text, "."), op: op, value: value}
	if op == "~" {
		re, err := regexp.Compile(value)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", value, err)
		}
		c.re = re
	}
	return c, nil
}
