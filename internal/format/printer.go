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

package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cbroglie/mustache"
	"gopkg.in/yaml.v3"
)

// Print renders resources to w according to the spec. A "default" spec
// falls back to the given default spec string (each command supplies one).
func (s *Spec) Print(w io.Writer, resources []any, defaultSpec string) error {
	spec := s
	if spec.Name == "default" {
		resolved, err := Parse(defaultSpec)
		if err != nil {
			return err
		}
		if resolved.Name == "default" {
			resolved = &Spec{Name: "yaml"}
		}
		spec = resolved
	}

	views := make([]any, 0, len(resources))
	for _, r := range resources {
		view, err := JSONView(r)
		if err != nil {
			return err
		}
		views = append(views, view)
	}

	switch spec.Name {
	case "none":
		return nil
	case "json":
		return printJSON(w, views)
	case "yaml":
		return printYAML(w, views)
	case "flattened":
		return printFlattened(w, views)
	case "table":
		return spec.printTable(w, views)
	case "csv":
		return spec.printCSV(w, views)
	case "value":
		return spec.printValue(w, views)
	case "template":
		return spec.printTemplate(w, views)
	}
	return fmt.Errorf("unknown format %q", spec.Name)
}

// PrintOne renders a single resource (describe-style commands).
func (s *Spec) PrintOne(w io.Writer, resource any, defaultSpec string) error {
	return s.Print(w, []any{resource}, defaultSpec)
}

func printJSON(w io.Writer, views []any) error {
	var v any = views
	if len(views) == 1 {
		v = views[0]
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYAML(w io.Writer, views []any) error {
	for i, view := range views {
		if i > 0 {
			if _, err := fmt.Fprintln(w, "---"); err != nil {
				return err
			}
		}
		b, err := yaml.Marshal(view)
		if err != nil {
			return fmt.Errorf("failed to render yaml: %w", err)
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func printFlattened(w io.Writer, views []any) error {
	for _, view := range views {
		paths := map[string]string{}
		flatten("", view, paths)
		keys := make([]string, 0, len(paths))
		for k := range paths {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "%s: %s\n", k, paths[k]); err != nil {
				return err
			}
		}
	}
	return nil
}

func flatten(prefix string, v any, out map[string]string) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
	case []any:
		for i, child := range t {
			flatten(prefix+"["+strconv.Itoa(i)+"]", child, out)
		}
	default:
		out[prefix] = cellString(v)
	}
}

func (s *Spec) printTable(w io.Writer, views []any) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	headers := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		headers[i] = col.Label
	}
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, view := range views {
		cells := make([]string, len(s.Columns))
		for i, col := range s.Columns {
			cells[i] = col.Cell(view)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (s *Spec) printCSV(w io.Writer, views []any) error {
	cw := csv.NewWriter(w)
	headers := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		headers[i] = strings.ToLower(col.Label)
	}
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, view := range views {
		cells := make([]string, len(s.Columns))
		for i, col := range s.Columns {
			cells[i] = col.Cell(view)
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// printValue emits tab-separated raw values, one resource per line, for
// scripting.
func (s *Spec) printValue(w io.Writer, views []any) error {
	for _, view := range views {
		cells := make([]string, len(s.Columns))
		for i, col := range s.Columns {
			cells[i] = col.Cell(view)
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func (s *Spec) printTemplate(w io.Writer, views []any) error {
	for _, view := range views {
		out, err := mustache.Render(s.Template, view)
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}

// SortBy orders views by the given dotted keys. A "~" prefix reverses
// that key. Numeric values compare numerically.
func SortBy(views []any, keys []string) {
	type sortKey struct {
		path    []string
		reverse bool
	}
	parsed := make([]sortKey, 0, len(keys))
	for _, k := range keys {
		sk := sortKey{}
		if rest, ok := strings.CutPrefix(k, "~"); ok {
			sk.reverse = true
			k = rest
		}
		sk.path = strings.Split(k, ".")
		parsed = append(parsed, sk)
	}
	sort.SliceStable(views, func(i, j int) bool {
		for _, sk := range parsed {
			a := Column{Path: sk.path}.Cell(views[i])
			b := Column{Path: sk.path}.Cell(views[j])
			if a == b {
				continue
			}
			less := a < b
			if an, aerr := strconv.ParseFloat(a, 64); aerr == nil {
				if bn, berr := strconv.ParseFloat(b, 64); berr == nil {
					less = an < bn
				}
			}
			if sk.reverse {
				return !less
			}
			return less
		}
		return false
	})
}
