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

// Package apiclients constructs the API clients the commands dispatch
// through: discovery-based REST services from google.golang.org/api and
// gRPC gapic clients from cloud.google.com/go. All clients share the same
// credential, user agent, quota project and endpoint-override plumbing.
package apiclients

import (
	"context"
	"fmt"

	artifactregistry "cloud.google.com/go/artifactregistry/apiv1"
	cloudbuild "cloud.google.com/go/cloudbuild/apiv1/v2"
	longrunning "cloud.google.com/go/longrunning/autogen"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sourcerepo/v1"
	"google.golang.org/api/storage/v1"

	"github.com/googleapis/cloudsdk/internal/version"
)

// scope requested on Application Default Credentials.
const scope = "https://www.googleapis.com/auth/cloud-platform"

// Settings carries the cross-cutting request configuration resolved from
// properties and flags.
type Settings struct {
	// QuotaProject, when set, is billed for request quota
	// (billing/quota_project).
	QuotaProject string
	// Endpoints maps short API names ("compute", "storage", ...) to
	// endpoint overrides (api_endpoint_overrides/<api>).
	Endpoints map[string]string
	// TokenSource overrides ADC when set.
	TokenSource oauth2.TokenSource
	// NoAuth skips credential resolution entirely. Tests set it together
	// with an Extra WithoutAuthentication + WithEndpoint pair.
	NoAuth bool
	// Extra options are appended last; tests use them to point clients at
	// local servers.
	Extra []option.ClientOption
}

// TokenSource returns the configured token source, falling back to
// Application Default Credentials.
func (s *Settings) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if s.TokenSource != nil {
		return s.TokenSource, nil
	}
	ts, err := google.DefaultTokenSource(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load application default credentials: %w", err)
	}
	return ts, nil
}

// ADCTokenSource exposes the resolved token source for commands that need
// the raw token (auth print-access-token).
func (s *Settings) ADCTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return s.tokenSource(ctx)
}

func (s *Settings) options(ctx context.Context, api string) ([]option.ClientOption, error) {
	opts := []option.ClientOption{option.WithUserAgent(version.UserAgent())}
	if !s.NoAuth {
		ts, err := s.tokenSource(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithTokenSource(ts))
	}
	if s.QuotaProject != "" {
		opts = append(opts, option.WithQuotaProject(s.QuotaProject))
	}
	if endpoint := s.Endpoints[api]; endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return append(opts, s.Extra...), nil
}

// Compute returns the compute/v1 REST service.
func (s *Settings) Compute(ctx context.Context) (*compute.Service, error) {
	opts, err := s.options(ctx, "compute")
	if err != nil {
		return nil, err
	}
	svc, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}
	return svc, nil
}

// Storage returns the storage/v1 REST service.
func (s *Settings) Storage(ctx context.Context) (*storage.Service, error) {
	opts, err := s.options(ctx, "storage")
	if err != nil {
		return nil, err
	}
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return svc, nil
}

// ResourceManager returns the cloudresourcemanager/v1 REST service.
func (s *Settings) ResourceManager(ctx context.Context) (*cloudresourcemanager.Service, error) {
	opts, err := s.options(ctx, "cloudresourcemanager")
	if err != nil {
		return nil, err
	}
	svc, err := cloudresourcemanager.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource manager client: %w", err)
	}
	return svc, nil
}

// SourceRepo returns the sourcerepo/v1 REST service.
func (s *Settings) SourceRepo(ctx context.Context) (*sourcerepo.Service, error) {
	opts, err := s.options(ctx, "sourcerepo")
	if err != nil {
		return nil, err
	}
	svc, err := sourcerepo.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create source repo client: %w", err)
	}
	return svc, nil
}

// CloudBuild returns the cloudbuild gapic client.
func (s *Settings) CloudBuild(ctx context.Context) (*cloudbuild.Client, error) {
	opts, err := s.options(ctx, "cloudbuild")
	if err != nil {
		return nil, err
	}
	c, err := cloudbuild.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudbuild client: %w", err)
	}
	return c, nil
}

// ArtifactRegistry returns the artifactregistry gapic client.
func (s *Settings) ArtifactRegistry(ctx context.Context) (*artifactregistry.Client, error) {
	opts, err := s.options(ctx, "artifactregistry")
	if err != nil {
		return nil, err
	}
	c, err := artifactregistry.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact registry client: %w", err)
	}
	return c, nil
}

// Operations returns a google.longrunning operations client for the given
// API's endpoint ("cloudbuild", "artifactregistry", ...).
func (s *Settings) Operations(ctx context.Context, api string) (*longrunning.OperationsClient, error) {
	opts, err := s.options(ctx, api)
	if err != nil {
		return nil, err
	}
	if s.Endpoints[api] == "" {
		opts = append(opts, option.WithEndpoint(api+".googleapis.com:443"))
	}
	c, err := longrunning.NewOperationsClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create operations client for %s: %w", api, err)
	}
	return c, nil
}
