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

// Package resource parses and formats Google Cloud resource names.
//
// Collections register a path template like
// "projects/{project}/zones/{zone}/instances/{instance}"; a Ref binds the
// template's parameters. Compute self-links resolve through the same
// templates after stripping the endpoint prefix.
package resource

import (
	"fmt"
	"net/url"
	"strings"
)

// Collection describes one resource collection.
type Collection struct {
	// Name is the dotted collection identifier, e.g. "compute.instances".
	Name string
	// Template is the relative name template with {param} segments.
	Template string

	segments []segment
}

type segment struct {
	literal string // set for fixed segments
	param   string // set for {param} segments
}

// Ref is a parsed resource name.
type Ref struct {
	Collection *Collection
	Params     map[string]string
}

// Registry resolves relative names against registered collections.
type Registry struct {
	byName []*Collection
}

// NewRegistry registers the given collections. Template syntax errors are
// programming errors and panic.
func NewRegistry(collections ...*Collection) *Registry {
	r := &Registry{}
	for _, c := range collections {
		for _, seg := range strings.Split(c.Template, "/") {
			if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
				c.segments = append(c.segments, segment{param: seg[1 : len(seg)-1]})
			} else if seg == "" {
				panic(fmt.Sprintf("collection %s: empty segment in template %q", c.Name, c.Template))
			} else {
				c.segments = append(c.segments, segment{literal: seg})
			}
		}
		r.byName = append(r.byName, c)
	}
	return r
}

// Collection returns the named collection.
func (r *Registry) Collection(name string) (*Collection, error) {
	for _, c := range r.byName {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown collection %q", name)
}

// Parse parses a relative resource name against a named collection.
func (r *Registry) Parse(collection, name string) (*Ref, error) {
	c, err := r.Collection(collection)
	if err != nil {
		return nil, err
	}
	return c.Parse(name)
}

// ParseAny parses a relative name against every registered collection and
// returns the single match.
func (r *Registry) ParseAny(name string) (*Ref, error) {
	for _, c := range r.byName {
		if ref, err := c.Parse(name); err == nil {
			return ref, nil
		}
	}
	return nil, fmt.Errorf("resource name %q matches no known collection", name)
}

// Parse matches a relative name against the collection template.
func (c *Collection) Parse(name string) (*Ref, error) {
	parts := strings.Split(name, "/")
	if len(parts) != len(c.segments) {
		return nil, fmt.Errorf("resource name %q does not match collection %s (%s)", name, c.Name, c.Template)
	}
	params := map[string]string{}
	for i, seg := range c.segments {
		part := parts[i]
		if seg.param != "" {
			if part == "" {
				return nil, fmt.Errorf("resource name %q: empty value for %s at segment %d", name, seg.param, i+1)
			}
			params[seg.param] = part
			continue
		}
		if part != seg.literal {
			return nil, fmt.Errorf("resource name %q: expected %q at segment %d, got %q", name, seg.literal, i+1, part)
		}
	}
	return &Ref{Collection: c, Params: params}, nil
}

// New builds a Ref from parameter values, validating completeness.
func (c *Collection) New(params map[string]string) (*Ref, error) {
	for _, seg := range c.segments {
		if seg.param != "" && params[seg.param] == "" {
			return nil, fmt.Errorf("collection %s: missing value for %s", c.Name, seg.param)
		}
	}
	return &Ref{Collection: c, Params: params}, nil
}

// RelativeName renders the ref back into its relative name.
func (ref *Ref) RelativeName() string {
	parts := make([]string, 0, len(ref.Collection.segments))
	for _, seg := range ref.Collection.segments {
		if seg.param != "" {
			parts = append(parts, ref.Params[seg.param])
		} else {
			parts = append(parts, seg.literal)
		}
	}
	return strings.Join(parts, "/")
}

// Param returns one bound parameter value ("" when absent).
func (ref *Ref) Param(name string) string { return ref.Params[name] }

// Name returns the last parameter in template order, the resource's own ID.
func (ref *Ref) Name() string {
	for i := len(ref.Collection.segments) - 1; i >= 0; i-- {
		if p := ref.Collection.segments[i].param; p != "" {
			return ref.Params[p]
		}
	}
	return ""
}

// ParseSelfLink extracts the relative name from a compute-style self-link
// such as
// https://compute.googleapis.com/compute/v1/projects/p/zones/z/instances/i.
// The returned name starts at the first "projects/" segment.
func ParseSelfLink(selfLink string) (string, error) {
	u, err := url.Parse(selfLink)
	if err != nil {
		return "", fmt.Errorf("invalid self-link %q: %w", selfLink, err)
	}
	path := strings.TrimPrefix(u.Path, "/")
	i := strings.Index(path, "projects/")
	if i < 0 {
		return "", fmt.Errorf("invalid self-link %q: no projects/ segment", selfLink)
	}
	return path[i:], nil
}
