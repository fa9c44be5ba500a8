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

package builds

import (
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"google.golang.org/protobuf/encoding/protojson"
	"gopkg.in/yaml.v3"
)

// ParseConfig parses a cloudbuild.yaml document into a Build message. The
// YAML is converted to JSON and decoded with protojson, so field names
// follow the API surface (steps, images, timeout, substitutions, ...).
func ParseConfig(data []byte) (*cloudbuildpb.Build, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse build config: %w", err)
	}
	jsonable, err := jsonify(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid build config: %w", err)
	}
	encoded, err := json.Marshal(jsonable)
	if err != nil {
		return nil, fmt.Errorf("invalid build config: %w", err)
	}
	build := &cloudbuildpb.Build{}
	unmarshaler := protojson.UnmarshalOptions{DiscardUnknown: false}
	if err := unmarshaler.Unmarshal(encoded, build); err != nil {
		return nil, fmt.Errorf("invalid build config: %w", err)
	}
	if len(build.GetSteps()) == 0 {
		return nil, fmt.Errorf("invalid build config: no steps defined")
	}
	return build, nil
}

// jsonify rewrites YAML's map[any]any shapes into JSON-compatible
// map[string]any.
func jsonify(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			converted, err := jsonify(child)
			if err != nil {
				return nil, err
			}
			out[k] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v", k)
			}
			converted, err := jsonify(child)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			converted, err := jsonify(child)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		return v, nil
	}
}

// DockerBuild returns the implicit single-step build used by
// "builds submit --tag": docker build + push of the given image tag.
func DockerBuild(tag string) *cloudbuildpb.Build {
	return &cloudbuildpb.Build{
		Steps: []*cloudbuildpb.BuildStep{
			{
				Name: "gcr.io/cloud-builders/docker",
				Args: []string{"build", "--network", "cloudbuild", "--no-cache", "-t", tag, "."},
			},
		},
		Images: []string{tag},
	}
}

// StorageSource parses a gs://bucket/object URL into a build source.
func StorageSource(gsURL string) (*cloudbuildpb.Source, error) {
	rest, ok := strings.CutPrefix(gsURL, "gs://")
	if !ok {
		return nil, fmt.Errorf("invalid source %q: expected gs://bucket/object", gsURL)
	}
	bucket, object, found := strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" {
		return nil, fmt.Errorf("invalid source %q: expected gs://bucket/object", gsURL)
	}
	return &cloudbuildpb.Source{
		Source: &cloudbuildpb.Source_StorageSource{
			StorageSource: &cloudbuildpb.StorageSource{Bucket: bucket, Object: object},
		},
	}, nil
}
