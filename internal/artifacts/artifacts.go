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

// Package artifacts implements the Artifact Registry repository surface:
// CRUD over repositories (create and delete are operation-backed) and IAM
// policy read-modify-write.
package artifacts

import (
	"context"
	"fmt"
	"slices"
	"strings"

	artifactregistry "cloud.google.com/go/artifactregistry/apiv1"
	"cloud.google.com/go/artifactregistry/apiv1/artifactregistrypb"
	"cloud.google.com/go/iam/apiv1/iampb"
	"google.golang.org/api/iterator"

	"github.com/googleapis/cloudsdk/internal/pager"
	"github.com/googleapis/cloudsdk/internal/waiter"
)

// Operation is the slice of a repository LRO the waiter needs. The
// generated Create/Delete operation types satisfy it through thin
// adapters.
type Operation interface {
	Name() string
	Done() bool
	// Poll refreshes the operation; it returns the repository once done
	// (nil for delete operations).
	Poll(ctx context.Context) (*artifactregistrypb.Repository, error)
}

// API is the slice of the Artifact Registry surface the commands need.
type API interface {
	ListRepositories(ctx context.Context, parent string, pageSize int64, pageToken string) ([]*artifactregistrypb.Repository, string, error)
	GetRepository(ctx context.Context, name string) (*artifactregistrypb.Repository, error)
	CreateRepository(ctx context.Context, parent, id string, repo *artifactregistrypb.Repository) (Operation, error)
	DeleteRepository(ctx context.Context, name string) (Operation, error)
	GetIamPolicy(ctx context.Context, resource string) (*iampb.Policy, error)
	SetIamPolicy(ctx context.Context, resource string, policy *iampb.Policy) (*iampb.Policy, error)
}

// GapicAPI implements API over the generated client.
type GapicAPI struct {
	Client *artifactregistry.Client
}

func (g *GapicAPI) ListRepositories(ctx context.Context, parent string, pageSize int64, pageToken string) ([]*artifactregistrypb.Repository, string, error) {
	it := g.Client.ListRepositories(ctx, &artifactregistrypb.ListRepositoriesRequest{Parent: parent})
	if pageSize <= 0 {
		pageSize = 100
	}
	var page []*artifactregistrypb.Repository
	next, err := iterator.NewPager(it, int(pageSize), pageToken).NextPage(&page)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list repositories: %w", err)
	}
	return page, next, nil
}

func (g *GapicAPI) GetRepository(ctx context.Context, name string) (*artifactregistrypb.Repository, error) {
	return g.Client.GetRepository(ctx, &artifactregistrypb.GetRepositoryRequest{Name: name})
}

func (g *GapicAPI) CreateRepository(ctx context.Context, parent, id string, repo *artifactregistrypb.Repository) (Operation, error) {
	op, err := g.Client.CreateRepository(ctx, &artifactregistrypb.CreateRepositoryRequest{
		Parent:       parent,
		RepositoryId: id,
		Repository:   repo,
	})
	if err != nil {
		return nil, err
	}
	return createOp{op}, nil
}

func (g *GapicAPI) DeleteRepository(ctx context.Context, name string) (Operation, error) {
	op, err := g.Client.DeleteRepository(ctx, &artifactregistrypb.DeleteRepositoryRequest{Name: name})
	if err != nil {
		return nil, err
	}
	return deleteOp{op}, nil
}

func (g *GapicAPI) GetIamPolicy(ctx context.Context, resource string) (*iampb.Policy, error) {
	return g.Client.GetIamPolicy(ctx, &iampb.GetIamPolicyRequest{Resource: resource})
}

func (g *GapicAPI) SetIamPolicy(ctx context.Context, resource string, policy *iampb.Policy) (*iampb.Policy, error) {
	return g.Client.SetIamPolicy(ctx, &iampb.SetIamPolicyRequest{Resource: resource, Policy: policy})
}

type createOp struct {
	op *artifactregistry.CreateRepositoryOperation
}

func (o createOp) Name() string { return o.op.Name() }
func (o createOp) Done() bool   { return o.op.Done() }
func (o createOp) Poll(ctx context.Context) (*artifactregistrypb.Repository, error) {
	return o.op.Poll(ctx)
}

type deleteOp struct {
	op *artifactregistry.DeleteRepositoryOperation
}

func (o deleteOp) Name() string { return o.op.Name() }
func (o deleteOp) Done() bool   { return o.op.Done() }
func (o deleteOp) Poll(ctx context.Context) (*artifactregistrypb.Repository, error) {
	return nil, o.op.Poll(ctx)
}

// operationPoller adapts Operation to the waiter contract.
type operationPoller struct {
	op Operation
}

var _ waiter.Poller[*artifactregistrypb.Repository, *artifactregistrypb.Repository] = (*operationPoller)(nil)

func (p *operationPoller) Poll(ctx context.Context) (*artifactregistrypb.Repository, error) {
	return p.op.Poll(ctx)
}

func (p *operationPoller) IsDone(*artifactregistrypb.Repository) bool { return p.op.Done() }

func (p *operationPoller) Result(ctx context.Context, repo *artifactregistrypb.Repository) (*artifactregistrypb.Repository, error) {
	return repo, nil
}

// Await polls a repository operation to completion. For delete operations
// the returned repository is nil.
func Await(ctx context.Context, op Operation, opts *waiter.Options) (*artifactregistrypb.Repository, error) {
	return waiter.WaitFor(ctx, &operationPoller{op: op}, op.Name(), opts)
}

// List pages through a location's repositories.
func List(ctx context.Context, api API, parent string, limit, pageSize int64) ([]*artifactregistrypb.Repository, error) {
	fetch := func(ctx context.Context, pageToken string, size int64) ([]*artifactregistrypb.Repository, string, error) {
		return api.ListRepositories(ctx, parent, size, pageToken)
	}
	return pager.All(ctx, fetch, limit, pageSize)
}

// ParseFormat maps the --repository-format flag to the API enum.
func ParseFormat(s string) (artifactregistrypb.Repository_Format, error) {
	name := strings.ToUpper(s)
	v, ok := artifactregistrypb.Repository_Format_value[name]
	if !ok || v == 0 {
		return 0, fmt.Errorf("unknown repository format %q", s)
	}
	return artifactregistrypb.Repository_Format(v), nil
}

// AddBinding adds a member to a role binding, creating the binding when
// absent. It reports whether the policy changed.
func AddBinding(policy *iampb.Policy, role, member string) bool {
	for _, b := range policy.GetBindings() {
		if b.GetRole() != role {
			continue
		}
		if slices.Contains(b.GetMembers(), member) {
			return false
		}
		b.Members = append(b.Members, member)
		return true
	}
	policy.Bindings = append(policy.Bindings, &iampb.Binding{Role: role, Members: []string{member}})
	return true
}
