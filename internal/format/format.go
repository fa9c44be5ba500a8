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

// Package format renders API resources for terminal display.
//
// A format spec is a name with optional arguments:
//
//	json
//	yaml
//	none
//	flattened
//	table(name, status, networkInterfaces.networkIP:label=IP)
//	csv(name, zone.basename())
//	value(name)
//	template(<mustache template>)
//
// Column arguments are dotted paths into the JSON view of a resource, with
// an optional .basename() transform and an optional :label=NAME override.
package format

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Column is one projected attribute.
type Column struct {
	Path     []string
	Label    string
	Basename bool
}

// Spec is a parsed format specification.
type Spec struct {
	Name     string
	Columns  []Column
	Template string // set for template(...)
}

// Parse parses a format spec. An empty spec means "default", which the
// command resolves to its own preferred format.
func Parse(s string) (*Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "default" {
		return &Spec{Name: "default"}, nil
	}
	name, rest, hasArgs := strings.Cut(s, "(")
	name = strings.TrimSpace(name)
	switch name {
	case "json", "yaml", "none", "flattened":
		if hasArgs {
			return nil, fmt.Errorf("format %q takes no arguments", name)
		}
		return &Spec{Name: name}, nil
	case "table", "csv", "value", "template":
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
	if !hasArgs || !strings.HasSuffix(rest, ")") {
		return nil, fmt.Errorf("format %q requires (arguments)", name)
	}
	args := strings.TrimSuffix(rest, ")")
	if name == "template" {
		if args == "" {
			return nil, fmt.Errorf("template format requires a template")
		}
		return &Spec{Name: name, Template: args}, nil
	}
	spec := &Spec{Name: name}
	for _, arg := range strings.Split(args, ",") {
		col, err := parseColumn(arg)
		if err != nil {
			return nil, err
		}
		spec.Columns = append(spec.Columns, col)
	}
	if len(spec.Columns) == 0 {
		return nil, fmt.Errorf("format %q requires at least one column", name)
	}
	return spec, nil
}

func parseColumn(arg string) (Column, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Column{}, fmt.Errorf("empty column in format arguments")
	}
	col := Column{}
	if keyPart, attr, found := strings.Cut(arg, ":"); found {
		label, ok := strings.CutPrefix(attr, "label=")
		if !ok {
			return Column{}, fmt.Errorf("unknown column attribute %q", attr)
		}
		col.Label = label
		arg = keyPart
	}
	if base, ok := strings.CutSuffix(arg, ".basename()"); ok {
		col.Basename = true
		arg = base
	}
	col.Path = strings.Split(arg, ".")
	if col.Label == "" {
		col.Label = strcase.ToScreamingSnake(col.Path[len(col.Path)-1])
	}
	return col, nil
}

// JSONView converts a resource to its JSON-like view (maps, slices,
// strings, float64s). Protobuf messages go through protojson so field
// names match the wire format.
func JSONView(v any) (any, error) {
	var raw []byte
	var err error
	if m, ok := v.(proto.Message); ok {
		raw, err = protojson.Marshal(m)
	} else {
		raw, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode resource: %w", err)
	}
	return out, nil
}

// Cell resolves a column against a JSON view, rendering lists as
// semicolon-joined values.
func (c Column) Cell(view any) string {
	values := resolve(view, c.Path)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s := cellString(v)
		if c.Basename {
			s = path.Base(s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ";")
}

func resolve(v any, p []string) []any {
	if len(p) == 0 {
		if v == nil {
			return nil
		}
		return []any{v}
	}
	switch t := v.(type) {
	case map[string]any:
		child, ok := t[p[0]]
		if !ok {
			return nil
		}
		return resolve(child, p[1:])
	case []any:
		var out []any
		for _, child := range t {
			out = append(out, resolve(child, p)...)
		}
		return out
	default:
		return nil
	}
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
