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

package gcloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"

	"github.com/googleapis/cloudsdk/internal/properties"
	"github.com/googleapis/cloudsdk/internal/waiter"
)

type testEnv struct {
	*env
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	var stdout, stderr bytes.Buffer
	e := &env{
		stdout: &stdout,
		stderr: &stderr,
		stdin:  strings.NewReader(""),
		store:  properties.NewStoreAt(t.TempDir()),
		values: properties.Values{},
		noAuth: true,
		extra:  []option.ClientOption{option.WithoutAuthentication()},
		waitOpts: &waiter.Options{
			Initial:     time.Microsecond,
			WaitCeiling: time.Millisecond,
			Progress:    &stderr,
		},
	}
	return &testEnv{env: e, stdout: &stdout, stderr: &stderr}
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	return e.rootCommand().Run(context.Background(), append([]string{"gcloud"}, args...))
}

// endpoint points an API at a local test server.
func (e *testEnv) endpoint(api, url string) {
	e.values.Set(properties.Key{Section: properties.SectionEndpointOverrides, Name: api}, url)
}

func TestConfigSetGetUnset(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "config", "set", "project", "my-proj"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(e.stderr.String(), "Updated property [core/project].") {
		t.Errorf("stderr = %q", e.stderr.String())
	}

	e.stdout.Reset()
	if err := e.run(t, "config", "get-value", "core/project"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(e.stdout.String()); got != "my-proj" {
		t.Errorf("get-value = %q, want my-proj", got)
	}

	if err := e.run(t, "config", "unset", "core/project"); err != nil {
		t.Fatal(err)
	}
	e.stdout.Reset()
	e.stderr.Reset()
	if err := e.run(t, "config", "get-value", "core/project"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(e.stdout.String()); got != "" {
		t.Errorf("get-value after unset = %q", got)
	}
}

func TestConfigSetRejectsUnknownProperty(t *testing.T) {
	e := newTestEnv(t)
	err := e.run(t, "config", "set", "core/nosuch", "x")
	if err == nil {
		t.Fatal("config set accepted an unknown property")
	}
	if ExitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2", ExitCode(err))
	}
}

func TestConfigurations(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "config", "configurations", "create", "staging"); err != nil {
		t.Fatal(err)
	}
	if err := e.run(t, "config", "configurations", "activate", "staging"); err != nil {
		t.Fatal(err)
	}
	e.stdout.Reset()
	if err := e.run(t, "config", "configurations", "list", "--format", "value(name, is_active)"); err != nil {
		t.Fatal(err)
	}
	got := e.stdout.String()
	if !strings.Contains(got, "staging\ttrue") || !strings.Contains(got, "default\tfalse") {
		t.Errorf("configurations list = %q", got)
	}
}

func TestInstancesListFormatsAndFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[
			{"name":"web-1","status":"RUNNING"},
			{"name":"web-2","status":"TERMINATED"},
			{"name":"db-1","status":"RUNNING"}
		]}`)
	}))
	defer server.Close()

	e := newTestEnv(t)
	e.endpoint("compute", server.URL)
	e.values.Set(properties.Key{Section: properties.SectionCore, Name: "project"}, "my-proj")
	e.values.Set(properties.Key{Section: properties.SectionCompute, Name: "zone"}, "us-central1-a")

	err := e.run(t, "compute", "instances", "list",
		"--filter", "status=RUNNING",
		"--sort-by", "~name",
		"--format", "value(name)")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.stdout.String(); got != "web-1\ndb-1\n" {
		t.Errorf("stdout = %q, want %q", got, "web-1\ndb-1\n")
	}
}

func TestInstancesListFilterBeforeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[
			{"name":"db-1","status":"TERMINATED"},
			{"name":"web-1","status":"RUNNING"}
		]}`)
	}))
	defer server.Close()

	e := newTestEnv(t)
	e.endpoint("compute", server.URL)
	e.values.Set(properties.Key{Section: properties.SectionCore, Name: "project"}, "my-proj")
	e.values.Set(properties.Key{Section: properties.SectionCompute, Name: "zone"}, "us-central1-a")

	// --limit counts rows that pass the filter, not rows fetched.
	err := e.run(t, "compute", "instances", "list",
		"--filter", "status=RUNNING",
		"--limit", "1",
		"--format", "value(name)")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.stdout.String(); got != "web-1\n" {
		t.Errorf("stdout = %q, want %q", got, "web-1\n")
	}
}

func TestInstancesStopReportsProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"op-1","status":"DONE","operationType":"stop",
			"targetLink":"https://compute.googleapis.com/compute/v1/projects/my-proj/zones/us-central1-a/instances/web-1"}`)
	}))
	defer server.Close()

	e := newTestEnv(t)
	e.endpoint("compute", server.URL)
	e.values.Set(properties.Key{Section: properties.SectionCore, Name: "project"}, "my-proj")
	e.values.Set(properties.Key{Section: properties.SectionCompute, Name: "zone"}, "us-central1-a")

	if err := e.run(t, "compute", "instances", "stop", "web-1", "--format", "none"); err != nil {
		t.Fatal(err)
	}
	stderr := e.stderr.String()
	if !strings.Contains(stderr, "Waiting for [op-1]") {
		t.Errorf("stderr = %q, want a Waiting for [op-1] line", stderr)
	}
	if !strings.Contains(stderr, "Stopped [projects/my-proj/zones/us-central1-a/instances/web-1].") {
		t.Errorf("stderr = %q, want a Stopped line", stderr)
	}
}

func TestInstancesListRequiresZone(t *testing.T) {
	e := newTestEnv(t)
	e.values.Set(properties.Key{Section: properties.SectionCore, Name: "project"}, "my-proj")
	err := e.run(t, "compute", "instances", "list")
	if ExitCode(err) != 2 {
		t.Fatalf("err = %v, exit code = %d, want 2", err, ExitCode(err))
	}
}

func TestInstancesDeleteAbortsWithoutConfirmation(t *testing.T) {
	e := newTestEnv(t)
	e.values.Set(properties.Key{Section: properties.SectionCore, Name: "project"}, "my-proj")
	e.values.Set(properties.Key{Section: properties.SectionCompute, Name: "zone"}, "us-central1-a")
	e.stdin = strings.NewReader("n\n")
	if err := e.run(t, "compute", "instances", "delete", "web-1"); err == nil {
		t.Fatal("delete proceeded without confirmation")
	}
}

func TestBucketsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"name":"bucket-1","location":"US"}]}`)
	}))
	defer server.Close()

	e := newTestEnv(t)
	e.endpoint("storage", server.URL)
	e.values.Set(properties.Key{Section: properties.SectionCore, Name: "project"}, "my-proj")

	if err := e.run(t, "storage", "buckets", "list", "--format", "csv(name, location)"); err != nil {
		t.Fatal(err)
	}
	want := "name,location\nbucket-1,US\n"
	if got := e.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestProjectsListJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"projects":[{"projectId":"my-proj","name":"My Project"}]}`)
	}))
	defer server.Close()

	e := newTestEnv(t)
	e.endpoint("cloudresourcemanager", server.URL)

	if err := e.run(t, "projects", "list", "--format", "json"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(e.stdout.String(), `"projectId": "my-proj"`) {
		t.Errorf("stdout = %q", e.stdout.String())
	}
}

func TestConfigurationsDescribe(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "config", "configurations", "create", "staging"); err != nil {
		t.Fatal(err)
	}
	e.stdout.Reset()
	if err := e.run(t, "config", "configurations", "describe", "staging", "--format", "flattened"); err != nil {
		t.Fatal(err)
	}
	got := e.stdout.String()
	if !strings.Contains(got, "name: staging") || !strings.Contains(got, "is_active: false") {
		t.Errorf("describe output = %q", got)
	}
}

func TestBuildsSubmitRequiresSourceChoice(t *testing.T) {
	e := newTestEnv(t)
	e.values.Set(properties.Key{Section: properties.SectionCore, Name: "project"}, "my-proj")
	err := e.run(t, "builds", "submit", "--tag", "gcr.io/my-proj/app")
	if ExitCode(err) != 2 {
		t.Fatalf("err = %v, exit code = %d, want 2", err, ExitCode(err))
	}
	err = e.run(t, "builds", "submit", "--tag", "x", "--config", "y")
	if ExitCode(err) != 2 {
		t.Fatalf("err = %v, exit code = %d, want 2", err, ExitCode(err))
	}
}

func TestServerFilteredRowsBypassClientFilter(t *testing.T) {
	e := newTestEnv(t)
	// A server-syntax expression whose key does not exist in the JSON view
	// must not drop rows that the server already accepted.
	rows := []any{map[string]any{"id": "abc", "status": "SUCCESS"}}
	cmd := &cli.Command{
		Name:  "list",
		Flags: listFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return e.printServerFiltered(c, rows, "value(id)")
		},
	}
	args := []string{"list", "--filter", `build_id="abc"`, "--format", "value(id)"}
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatal(err)
	}
	if got := e.stdout.String(); got != "abc\n" {
		t.Errorf("stdout = %q, want %q", got, "abc\n")
	}
}

func TestAuthList(t *testing.T) {
	e := newTestEnv(t)
	e.values.Set(properties.Key{Section: properties.SectionCore, Name: "account"}, "alice@example.com")
	if err := e.run(t, "auth", "list", "--format", "value(account, status)"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(e.stdout.String()); got != "alice@example.com\tACTIVE" {
		t.Errorf("auth list = %q", got)
	}
}

func TestTopicFilters(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "topic", "filters"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(e.stdout.String(), "FILTERS") {
		t.Errorf("stdout = %q", e.stdout.String())
	}
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "version"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(e.stdout.String(), "Google Cloud SDK ") {
		t.Errorf("stdout = %q", e.stdout.String())
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d", got)
	}
	if got := ExitCode(errors.New("boom")); got != 1 {
		t.Errorf("ExitCode(err) = %d", got)
	}
	if got := ExitCode(usageErrorf("bad flag")); got != 2 {
		t.Errorf("ExitCode(usage) = %d", got)
	}
	wrapped := fmt.Errorf("context: %w", usageErrorf("bad flag"))
	if got := ExitCode(wrapped); got != 2 {
		t.Errorf("ExitCode(wrapped usage) = %d", got)
	}
}
