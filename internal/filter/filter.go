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

// Package filter evaluates --filter expressions against resources.
//
// Supported syntax: dotted key paths, the comparison operators
// = != : ~ < <= > >=, the logical operators NOT, AND, OR (terms separated
// by whitespace are implicitly ANDed), and parentheses. A bare term with
// no operator matches when any field of the resource contains it.
//
// Resources are evaluated through their JSON view: keys traverse maps,
// and a path that lands on a list matches if any element matches.
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expr is a compiled filter expression.
type Expr struct {
	root node
}

// Parse compiles a filter expression. An empty expression matches
// everything.
func Parse(s string) (*Expr, error) {
	if strings.TrimSpace(s) == "" {
		return &Expr{root: matchAll{}}, nil
	}
	tokens, err := lex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", s, err)
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", s, err)
	}
	if !p.eof() {
		return nil, fmt.Errorf("invalid filter %q: unexpected %q", s, p.peek().text)
	}
	return &Expr{root: root}, nil
}

// Matches reports whether the resource satisfies the filter. The resource
// must be a JSON-like value (maps, slices, strings, numbers, bools).
func (e *Expr) Matches(resource any) bool {
	return e.root.eval(resource)
}

// Apply filters a slice of JSON-like resources in place order.
func Apply[T any](items []T, e *Expr, toJSON func(T) any) []T {
	var out []T
	for _, item := range items {
		if e.Matches(toJSON(item)) {
			out = append(out, item)
		}
	}
	return out
}

type node interface {
	eval(resource any) bool
}

type matchAll struct{}

func (matchAll) eval(any) bool { return true }

type andNode struct{ left, right node }

func (n andNode) eval(r any) bool { return n.left.eval(r) && n.right.eval(r) }

type orNode struct{ left, right node }

func (n orNode) eval(r any) bool { return n.left.eval(r) || n.right.eval(r) }

type notNode struct{ inner node }

func (n notNode) eval(r any) bool { return !n.inner.eval(r) }

// comparison is key <op> value.
type comparison struct {
	path  []string
	op    string
	value string
	re    *regexp.Regexp // compiled for ~
}

func (c comparison) eval(resource any) bool {
	for _, candidate := range lookup(resource, c.path) {
		if c.compare(candidate) {
			return true
		}
	}
	return false
}

func (c comparison) compare(v any) bool {
	got := stringify(v)
	switch c.op {
	case "=", "!=":
		eq := false
		if gn, gerr := strconv.ParseFloat(got, 64); gerr == nil {
			if wn, werr := strconv.ParseFloat(c.value, 64); werr == nil {
				eq = gn == wn
			} else {
				eq = got == c.value
			}
		} else {
			eq = strings.EqualFold(got, c.value)
		}
		if c.op == "!=" {
			return !eq
		}
		return eq
	case ":":
		want := c.value
		if prefix, ok := strings.CutSuffix(want, "*"); ok {
			return strings.HasPrefix(strings.ToLower(got), strings.ToLower(prefix))
		}
		return strings.Contains(strings.ToLower(got), strings.ToLower(want))
	case "~":
		return c.re.MatchString(got)
	case "<", "<=", ">", ">=":
		gn, gerr := strconv.ParseFloat(got, 64)
		wn, werr := strconv.ParseFloat(c.value, 64)
		if gerr == nil && werr == nil {
			switch c.op {
			case "<":
				return gn < wn
			case "<=":
				return gn <= wn
			case ">":
				return gn > wn
			case ">=":
				return gn >= wn
			}
		}
		switch c.op {
		case "<":
			return got < c.value
		case "<=":
			return got <= c.value
		case ">":
			return got > c.value
		case ">=":
			return got >= c.value
		}
	}
	return false
}

// globalTerm matches when any leaf value contains the term.
type globalTerm struct{ term string }

func (g globalTerm) eval(resource any) bool {
	return anyLeaf(resource, func(v any) bool {
		return strings.Contains(strings.ToLower(stringify(v)), strings.ToLower(g.term))
	})
}

func anyLeaf(v any, pred func(any) bool) bool {
	switch t := v.(type) {
	case map[string]any:
		for _, child := range t {
			if anyLeaf(child, pred) {
				return true
			}
		}
	case []any:
		for _, child := range t {
			if anyLeaf(child, pred) {
				return true
			}
		}
	case nil:
		return false
	default:
		return pred(v)
	}
	return false
}

// lookup resolves a dotted path, fanning out over list elements.
func lookup(v any, path []string) []any {
	if len(path) == 0 {
		if v == nil {
			return nil
		}
		return []any{v}
	}
	switch t := v.(type) {
	case map[string]any:
		child, ok := t[path[0]]
		if !ok {
			return nil
		}
		return lookup(child, path[1:])
	case []any:
		var out []any
		for _, child := range t {
			out = append(out, lookup(child, path)...)
		}
		return out
	default:
		return nil
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
