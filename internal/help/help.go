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

// Package help renders the built-in help topics (filters, formats) from
// their markdown sources to plain terminal text.
package help

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed topics/*.md
var topicFS embed.FS

// Topics returns the available topic names, sorted.
func Topics() []string {
	entries, err := topicFS.ReadDir("topics")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Render returns the named topic as terminal text.
func Render(name string) (string, error) {
	source, err := topicFS.ReadFile("topics/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown help topic %q; available topics: %s", name, strings.Join(Topics(), ", "))
	}
	return renderMarkdown(source), nil
}

// renderMarkdown walks the markdown AST and emits indented text: bold
// headings, two-space paragraphs, four-space code blocks and bulleted
// lists.
func renderMarkdown(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	var out strings.Builder
	bold := color.New(color.Bold)
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			title := string(n.Text(source))
			if n.Level == 1 {
				title = strings.ToUpper(title)
			}
			fmt.Fprintf(&out, "%s\n", bold.Sprint(title))
		case *ast.Paragraph:
			fmt.Fprintf(&out, "  %s\n\n", inlineText(n, source))
		case *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				fmt.Fprintf(&out, "    %s", seg.Value(source))
			}
			out.WriteString("\n")
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				fmt.Fprintf(&out, "  * %s\n", inlineText(item, source))
			}
			out.WriteString("\n")
		}
	}
	return strings.TrimRight(out.String(), "\n") + "\n"
}

// inlineText flattens a block node's inline content to a single line.
func inlineText(node ast.Node, source []byte) string {
	var parts []string
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			parts = append(parts, string(t.Segment.Value(source)))
			if t.SoftLineBreak() || t.HardLineBreak() {
				parts = append(parts, " ")
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(strings.Join(parts, ""))
}
