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

// Package properties implements the Cloud SDK properties store.
//
// Properties are addressed as "section/name" (for example "core/project")
// and resolve in the following order: explicit command-line flag (handled
// by the caller), a CLOUDSDK_<SECTION>_<NAME> environment variable, the
// active named configuration file, and finally the built-in default.
package properties

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Default section and property names.
const (
	SectionCore    = "core"
	SectionCompute = "compute"
	SectionBilling = "billing"

	// SectionEndpointOverrides holds per-API endpoint overrides, keyed by
	// the short API name ("compute", "storage", ...).
	SectionEndpointOverrides = "api_endpoint_overrides"
)

// Values is the raw section/name/value view of a configuration file.
type Values map[string]map[string]string

// knownProperties lists every settable property with its usage string.
// config set rejects anything not listed here, except endpoint overrides
// which are validated by API name shape instead.
var knownProperties = map[string]string{
	"core/project":          "default project ID for API requests",
	"core/account":          "account used to identify the caller in user agents",
	"core/disable_prompts":  "when true, never prompt and assume the default answer",
	"core/verbosity":        "default logging verbosity (debug|info|warning|error)",
	"compute/zone":          "default zone for zonal compute resources",
	"compute/region":        "default region for regional compute resources",
	"billing/quota_project": "project billed for quota on API requests",
}

// Key is a parsed "section/name" property key.
type Key struct {
	Section string
	Name    string
}

func (k Key) String() string { return k.Section + "/" + k.Name }

// ParseKey parses "section/name". A bare name is assumed to be in core,
// matching the original CLI's shorthand (e.g. "project" for "core/project").
func ParseKey(s string) (Key, error) {
	section, name, found := strings.Cut(s, "/")
	if !found {
		section, name = SectionCore, section
	}
	if section == "" || name == "" {
		return Key{}, fmt.Errorf("invalid property key %q: expected section/name", s)
	}
	k := Key{Section: section, Name: name}
	if section == SectionEndpointOverrides {
		return k, nil
	}
	if _, ok := knownProperties[k.String()]; !ok {
		return Key{}, fmt.Errorf("unknown property %q", k.String())
	}
	return k, nil
}

// envVar returns the CLOUDSDK_* environment variable name for a key.
func envVar(k Key) string {
	return "CLOUDSDK_" + strings.ToUpper(k.Section) + "_" + strings.ToUpper(k.Name)
}

// Resolve returns the effective value of a property: environment override
// first, then the stored configuration, then the empty string.
func (v Values) Resolve(k Key) string {
	if env, ok := os.LookupEnv(envVar(k)); ok {
		return env
	}
	if section, ok := v[k.Section]; ok {
		return section[k.Name]
	}
	return ""
}

// Get returns the stored value without consulting the environment.
func (v Values) Get(k Key) string {
	if section, ok := v[k.Section]; ok {
		return section[k.Name]
	}
	return ""
}

// Set stores a value, creating the section if needed.
func (v Values) Set(k Key, value string) {
	section, ok := v[k.Section]
	if !ok {
		section = map[string]string{}
		v[k.Section] = section
	}
	section[k.Name] = value
}

// Unset removes a property. Removing the last property of a section drops
// the section. It reports whether the property was present.
func (v Values) Unset(k Key) bool {
	section, ok := v[k.Section]
	if !ok {
		return false
	}
	if _, ok := section[k.Name]; !ok {
		return false
	}
	delete(section, k.Name)
	if len(section) == 0 {
		delete(v, k.Section)
	}
	return true
}

// Flatten returns all set properties as sorted "section/name" keys, for
// config list output.
func (v Values) Flatten() []Key {
	var keys []Key
	for section, props := range v {
		for name := range props {
			keys = append(keys, Key{Section: section, Name: name})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Section != keys[j].Section {
			return keys[i].Section < keys[j].Section
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}

// Usage returns the usage string for a known property, or "".
func Usage(k Key) string {
	return knownProperties[k.String()]
}
