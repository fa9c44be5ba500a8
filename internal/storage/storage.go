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

// Package storage implements the Cloud Storage command surface: bucket
// CRUD and object listing over the JSON API.
package storage

import (
	"context"
	"fmt"
	"strings"

	storageapi "google.golang.org/api/storage/v1"

	"github.com/googleapis/cloudsdk/internal/pager"
)

// Adapter wraps the generated JSON API service for one project.
type Adapter struct {
	Service *storageapi.Service
	Project string
}

// ParseURL splits a gs://bucket[/prefix] URL. The prefix may be empty.
func ParseURL(gsURL string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(gsURL, "gs://")
	if !ok || rest == "" {
		return "", "", fmt.Errorf("invalid storage URL %q: expected gs://bucket[/prefix]", gsURL)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid storage URL %q: expected gs://bucket[/prefix]", gsURL)
	}
	return bucket, prefix, nil
}

// ListBuckets pages through the project's buckets.
func (a *Adapter) ListBuckets(ctx context.Context, limit, pageSize int64) ([]*storageapi.Bucket, error) {
	fetch := func(ctx context.Context, pageToken string, size int64) ([]*storageapi.Bucket, string, error) {
		call := a.Service.Buckets.List(a.Project).Context(ctx)
		if size > 0 {
			call = call.MaxResults(size)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, "", fmt.Errorf("failed to list buckets: %w", err)
		}
		return resp.Items, resp.NextPageToken, nil
	}
	return pager.All(ctx, fetch, limit, pageSize)
}

// GetBucket fetches one bucket's metadata.
func (a *Adapter) GetBucket(ctx context.Context, name string) (*storageapi.Bucket, error) {
	return a.Service.Buckets.Get(name).Context(ctx).Do()
}

// CreateBucket creates a bucket in the project. Location and storage
// class fall back to the service defaults when empty.
func (a *Adapter) CreateBucket(ctx context.Context, name, location, storageClass string) (*storageapi.Bucket, error) {
	bucket := &storageapi.Bucket{
		Name:         name,
		Location:     location,
		StorageClass: storageClass,
	}
	created, err := a.Service.Buckets.Insert(a.Project, bucket).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return created, nil
}

// DeleteBucket deletes an empty bucket.
func (a *Adapter) DeleteBucket(ctx context.Context, name string) error {
	if err := a.Service.Buckets.Delete(name).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete bucket %s: %w", name, err)
	}
	return nil
}

// ListObjects pages through a bucket's objects under an optional prefix.
func (a *Adapter) ListObjects(ctx context.Context, bucket, prefix string, limit, pageSize int64) ([]*storageapi.Object, error) {
	fetch := func(ctx context.Context, pageToken string, size int64) ([]*storageapi.Object, string, error) {
		call := a.Service.Objects.List(bucket).Context(ctx)
		if prefix != "" {
			call = call.Prefix(prefix)
		}
		if size > 0 {
			call = call.MaxResults(size)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, "", fmt.Errorf("failed to list objects in %s: %w", bucket, err)
		}
		return resp.Items, resp.NextPageToken, nil
	}
	return pager.All(ctx, fetch, limit, pageSize)
}
