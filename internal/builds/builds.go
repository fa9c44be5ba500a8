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

// Package builds implements the Cloud Build command surface: submitting a
// build, following it to completion, and listing past builds.
package builds

import (
	"context"
	"fmt"

	cloudbuild "cloud.google.com/go/cloudbuild/apiv1/v2"
	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"google.golang.org/api/iterator"

	"github.com/googleapis/cloudsdk/internal/pager"
	"github.com/googleapis/cloudsdk/internal/waiter"
)

// API is the slice of the Cloud Build surface the commands need. The
// gapic-backed implementation is GapicAPI; tests substitute a mock.
type API interface {
	// CreateBuild queues a build and returns it (with its server-assigned
	// ID) from the operation metadata.
	CreateBuild(ctx context.Context, projectID string, build *cloudbuildpb.Build) (*cloudbuildpb.Build, error)
	GetBuild(ctx context.Context, projectID, id string) (*cloudbuildpb.Build, error)
	ListBuilds(ctx context.Context, projectID, filter string, pageSize int64, pageToken string) ([]*cloudbuildpb.Build, string, error)
}

// GapicAPI implements API over the generated client.
type GapicAPI struct {
	Client *cloudbuild.Client
}

// CreateBuild queues the build. The returned build comes from the
// long-running operation's metadata, which carries the queued state.
func (g *GapicAPI) CreateBuild(ctx context.Context, projectID string, build *cloudbuildpb.Build) (*cloudbuildpb.Build, error) {
	op, err := g.Client.CreateBuild(ctx, &cloudbuildpb.CreateBuildRequest{
		ProjectId: projectID,
		Build:     build,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create build: %w", err)
	}
	meta, err := op.Metadata()
	if err != nil {
		return nil, fmt.Errorf("failed to read build operation metadata: %w", err)
	}
	if meta.GetBuild() == nil {
		return nil, fmt.Errorf("build operation %s has no build metadata", op.Name())
	}
	return meta.GetBuild(), nil
}

// GetBuild fetches one build.
func (g *GapicAPI) GetBuild(ctx context.Context, projectID, id string) (*cloudbuildpb.Build, error) {
	return g.Client.GetBuild(ctx, &cloudbuildpb.GetBuildRequest{ProjectId: projectID, Id: id})
}

// ListBuilds fetches one page of builds.
func (g *GapicAPI) ListBuilds(ctx context.Context, projectID, filter string, pageSize int64, pageToken string) ([]*cloudbuildpb.Build, string, error) {
	it := g.Client.ListBuilds(ctx, &cloudbuildpb.ListBuildsRequest{
		ProjectId: projectID,
		Filter:    filter,
	})
	if pageSize <= 0 {
		pageSize = 100
	}
	var page []*cloudbuildpb.Build
	next, err := iterator.NewPager(it, int(pageSize), pageToken).NextPage(&page)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list builds: %w", err)
	}
	return page, next, nil
}

// terminal build states, per the Build.Status enum.
func isTerminal(s cloudbuildpb.Build_Status) bool {
	switch s {
	case cloudbuildpb.Build_SUCCESS,
		cloudbuildpb.Build_FAILURE,
		cloudbuildpb.Build_INTERNAL_ERROR,
		cloudbuildpb.Build_TIMEOUT,
		cloudbuildpb.Build_CANCELLED,
		cloudbuildpb.Build_EXPIRED:
		return true
	}
	return false
}

// buildPoller drives waiter over a build's status.
type buildPoller struct {
	api       API
	projectID string
	id        string
}

var _ waiter.Poller[*cloudbuildpb.Build, *cloudbuildpb.Build] = (*buildPoller)(nil)

func (p *buildPoller) Poll(ctx context.Context) (*cloudbuildpb.Build, error) {
	return p.api.GetBuild(ctx, p.projectID, p.id)
}

func (p *buildPoller) IsDone(b *cloudbuildpb.Build) bool {
	return isTerminal(b.GetStatus())
}

func (p *buildPoller) Result(ctx context.Context, b *cloudbuildpb.Build) (*cloudbuildpb.Build, error) {
	if b.GetStatus() != cloudbuildpb.Build_SUCCESS {
		return b, &waiter.OperationError{
			Name:    b.GetId(),
			Message: fmt.Sprintf("build finished with status %s: %s", b.GetStatus(), b.GetStatusDetail()),
		}
	}
	return b, nil
}

// Submit queues a build and, unless async, waits for it to finish. A
// non-SUCCESS terminal status surfaces as a *waiter.OperationError; the
// build itself is still returned for display.
func Submit(ctx context.Context, api API, projectID string, build *cloudbuildpb.Build, async bool, opts *waiter.Options) (*cloudbuildpb.Build, error) {
	queued, err := api.CreateBuild(ctx, projectID, build)
	if err != nil {
		return nil, err
	}
	if async {
		return queued, nil
	}
	p := &buildPoller{api: api, projectID: projectID, id: queued.GetId()}
	return waiter.WaitFor(ctx, p, queued.GetId(), opts)
}

// List pages through the project's builds, passing the filter through to
// the server.
func List(ctx context.Context, api API, projectID, serverFilter string, limit, pageSize int64) ([]*cloudbuildpb.Build, error) {
	fetch := func(ctx context.Context, pageToken string, size int64) ([]*cloudbuildpb.Build, string, error) {
		return api.ListBuilds(ctx, projectID, serverFilter, size, pageToken)
	}
	return pager.All(ctx, fetch, limit, pageSize)
}
