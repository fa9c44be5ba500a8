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
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"

	"github.com/googleapis/cloudsdk/internal/waiter"
)

// mockAPI drives Submit/List without a server.
type mockAPI struct {
	created  *cloudbuildpb.Build
	statuses []cloudbuildpb.Build_Status
	polls    int
	builds   []*cloudbuildpb.Build
	pageSize int64
}

func (m *mockAPI) CreateBuild(ctx context.Context, projectID string, build *cloudbuildpb.Build) (*cloudbuildpb.Build, error) {
	m.created = build
	return &cloudbuildpb.Build{Id: "build-1", ProjectId: projectID, Status: cloudbuildpb.Build_QUEUED}, nil
}

func (m *mockAPI) GetBuild(ctx context.Context, projectID, id string) (*cloudbuildpb.Build, error) {
	status := m.statuses[min(m.polls, len(m.statuses)-1)]
	m.polls++
	return &cloudbuildpb.Build{Id: id, ProjectId: projectID, Status: status}, nil
}

func (m *mockAPI) ListBuilds(ctx context.Context, projectID, filter string, pageSize int64, pageToken string) ([]*cloudbuildpb.Build, string, error) {
	m.pageSize = pageSize
	start := 0
	if pageToken != "" {
		start, _ = strconv.Atoi(pageToken)
	}
	end := min(start+2, len(m.builds))
	next := ""
	if end < len(m.builds) {
		next = strconv.Itoa(end)
	}
	return m.builds[start:end], next, nil
}

func fastOpts() *waiter.Options {
	return &waiter.Options{Initial: time.Microsecond, WaitCeiling: time.Millisecond}
}

func TestSubmitWaitsForSuccess(t *testing.T) {
	m := &mockAPI{statuses: []cloudbuildpb.Build_Status{
		cloudbuildpb.Build_QUEUED,
		cloudbuildpb.Build_WORKING,
		cloudbuildpb.Build_SUCCESS,
	}}
	got, err := Submit(context.Background(), m, "my-proj", DockerBuild("gcr.io/my-proj/app"), false, fastOpts())
	if err != nil {
		t.Fatal(err)
	}
	if got.GetStatus() != cloudbuildpb.Build_SUCCESS {
		t.Errorf("status = %s, want SUCCESS", got.GetStatus())
	}
	if m.polls != 3 {
		t.Errorf("polled %d times, want 3", m.polls)
	}
	if len(m.created.GetImages()) != 1 {
		t.Errorf("submitted build images = %v", m.created.GetImages())
	}
}

func TestSubmitAsync(t *testing.T) {
	m := &mockAPI{}
	got, err := Submit(context.Background(), m, "my-proj", DockerBuild("gcr.io/my-proj/app"), true, fastOpts())
	if err != nil {
		t.Fatal(err)
	}
	if got.GetStatus() != cloudbuildpb.Build_QUEUED {
		t.Errorf("status = %s, want QUEUED", got.GetStatus())
	}
	if m.polls != 0 {
		t.Errorf("async submit polled %d times", m.polls)
	}
}

func TestSubmitFailedBuild(t *testing.T) {
	m := &mockAPI{statuses: []cloudbuildpb.Build_Status{cloudbuildpb.Build_FAILURE}}
	got, err := Submit(context.Background(), m, "my-proj", DockerBuild("gcr.io/my-proj/app"), false, fastOpts())
	var opErr *waiter.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Submit error = %v, want *waiter.OperationError", err)
	}
	// The failed build is still returned for display.
	if got.GetStatus() != cloudbuildpb.Build_FAILURE {
		t.Errorf("returned build status = %s", got.GetStatus())
	}
}

func TestList(t *testing.T) {
	m := &mockAPI{}
	for i := 0; i < 5; i++ {
		m.builds = append(m.builds, &cloudbuildpb.Build{Id: fmt.Sprintf("build-%d", i)})
	}
	got, err := List(context.Background(), m, "my-proj", "", 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("got %d builds, want 3", len(got))
	}
}

func TestParseConfig(t *testing.T) {
	doc := `
steps:
  - name: gcr.io/cloud-builders/go
    args: ["test", "./..."]
    env:
      - GO111MODULE=on
  - name: gcr.io/cloud-builders/docker
    args: ["build", "-t", "gcr.io/$PROJECT_ID/app", "."]
images:
  - gcr.io/$PROJECT_ID/app
`
	build, err := ParseConfig([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(build.GetSteps()) != 2 {
		t.Fatalf("got %d steps, want 2", len(build.GetSteps()))
	}
	if build.GetSteps()[0].GetName() != "gcr.io/cloud-builders/go" {
		t.Errorf("step 0 name = %q", build.GetSteps()[0].GetName())
	}
	if len(build.GetImages()) != 1 {
		t.Errorf("images = %v", build.GetImages())
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, doc := range []string{
		"",
		"steps: []",
		"steps:\n  - nosuchfield: true",
		"{",
	} {
		if _, err := ParseConfig([]byte(doc)); err == nil {
			t.Errorf("ParseConfig(%q) succeeded, want error", doc)
		}
	}
}

func TestStorageSource(t *testing.T) {
	src, err := StorageSource("gs://my-bucket/source.tgz")
	if err != nil {
		t.Fatal(err)
	}
	ss := src.GetStorageSource()
	if ss.GetBucket() != "my-bucket" || ss.GetObject() != "source.tgz" {
		t.Errorf("storage source = %+v", ss)
	}
	for _, bad := range []string{"my-bucket/source.tgz", "gs://", "gs://bucket", "gs://bucket/"} {
		if _, err := StorageSource(bad); err == nil {
			t.Errorf("StorageSource(%q) succeeded, want error", bad)
		}
	}
}
