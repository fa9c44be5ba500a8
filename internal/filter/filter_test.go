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

import "testing"

var instance = map[string]any{
	"name":        "web-1",
	"status":      "RUNNING",
	"machineType": "zones/us-central1-a/machineTypes/e2-medium",
	"cpus":        float64(2),
	"labels": map[string]any{
		"env": "prod",
	},
	"networkInterfaces": []any{
		map[string]any{"name": "nic0", "networkIP": "10.0.0.2"},
		map[string]any{"name": "nic1", "networkIP": "10.0.1.2"},
	},
}

func TestMatches(t *testing.T) {
	for _, test := range []struct {
		expr string
		want bool
	}{
		{"", true},
		{"name=web-1", true},
		{"name=web-2", false},
		{"name=WEB-1", true}, // string equality is case-insensitive
		{"status!=TERMINATED", true},
		{"name:web", true},
		{"name:web*", true},
		{"name:db*", false},
		{"machineType:e2-medium", true},
		{"name~^web-\\d+$", true},
		{"name~^db-", false},
		{"cpus>1", true},
		{"cpus>=2", true},
		{"cpus<2", false},
		{"cpus<=1.5", false},
		{"labels.env=prod", true},
		{"labels.env=dev", false},
		{"labels.missing=prod", false},
		{"networkInterfaces.name=nic1", true}, // list fan-out: any element
		{"networkInterfaces.networkIP:10.0.", true},
		{"name=web-1 AND status=RUNNING", true},
		{"name=web-1 status=RUNNING", true}, // implicit AND
		{"name=web-1 AND status=TERMINATED", false},
		{"name=web-2 OR status=RUNNING", true},
		{"NOT name=web-2", true},
		{"NOT (name=web-1 OR name=web-2)", false},
		{"(name=web-2 OR name=web-1) AND cpus=2", true},
		{"prod", true}, // bare term matches any field
		{"absent-term", false},
		{"'web-1'", true}, // quoted bare term
	} {
		e, err := Parse(test.expr)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", test.expr, err)
			continue
		}
		if got := e.Matches(instance); got != test.want {
			t.Errorf("Matches(%q) = %v, want %v", test.expr, got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{
		"name=",
		"(name=web-1",
		"name~[",
		"NOT",
		"=web-1",
		`name="web`,
		"name='web",
	} {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", expr)
		}
	}
}

func TestApply(t *testing.T) {
	items := []string{"web-1", "web-2", "db-1"}
	e, err := Parse("name:web")
	if err != nil {
		t.Fatal(err)
	}
	got := Apply(items, e, func(s string) any {
		return map[string]any{"name": s}
	})
	if len(got) != 2 || got[0] != "web-1" || got[1] != "web-2" {
		t.Errorf("Apply = %v", got)
	}
}
