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

package compute

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	computeapi "google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/googleapis/cloudsdk/internal/waiter"
)

func fastOpts() *waiter.Options {
	return &waiter.Options{Initial: time.Microsecond, WaitCeiling: time.Millisecond}
}

func newTestAdapter(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	svc, err := computeapi.NewService(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithoutAuthentication())
	if err != nil {
		t.Fatal(err)
	}
	return &Adapter{Service: svc, Project: "my-proj"}
}

func TestListInstancesPaginates(t *testing.T) {
	var tokens []string
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/zones/us-central1-a/instances") {
			http.NotFound(w, r)
			return
		}
		token := r.URL.Query().Get("pageToken")
		tokens = append(tokens, token)
		if token == "" {
			fmt.Fprint(w, `{"items":[{"name":"web-1"},{"name":"web-2"}],"nextPageToken":"page-2"}`)
			return
		}
		fmt.Fprint(w, `{"items":[{"name":"web-3"}]}`)
	}))
	got, err := a.ListInstances(context.Background(), "us-central1-a", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2].Name != "web-3" {
		t.Errorf("got %d instances", len(got))
	}
	if len(tokens) != 2 || tokens[1] != "page-2" {
		t.Errorf("page tokens = %v", tokens)
	}
}

func TestMakeRequestsWaitsForOperations(t *testing.T) {
	var polls atomic.Int32
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/zones/us-central1-a/instances"):
			if r.URL.Query().Get("requestId") == "" {
				t.Error("insert request missing requestId")
			}
			fmt.Fprint(w, `{"name":"operation-1","status":"PENDING","zone":"https://compute.googleapis.com/compute/v1/projects/my-proj/zones/us-central1-a"}`)
		case strings.Contains(r.URL.Path, "/zones/us-central1-a/operations/operation-1"):
			if polls.Add(1) < 3 {
				fmt.Fprint(w, `{"name":"operation-1","status":"RUNNING","zone":"zones/us-central1-a"}`)
				return
			}
			fmt.Fprint(w, `{"name":"operation-1","status":"DONE","zone":"zones/us-central1-a"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	calls := []Call{a.InsertCall("us-central1-a", NewInstance("my-proj", "us-central1-a", "web-1", "", "", ""))}
	ops, errs := a.MakeRequests(context.Background(), calls, false, fastOpts())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if ops[0].Status != "DONE" {
		t.Errorf("operation status = %q, want DONE", ops[0].Status)
	}
	if polls.Load() < 3 {
		t.Errorf("polled %d times, want >= 3", polls.Load())
	}
}

func TestMakeRequestsAsyncReturnsImmediately(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/operations/") {
			t.Error("async request polled the operation")
		}
		fmt.Fprint(w, `{"name":"operation-2","status":"PENDING","zone":"zones/us-central1-a"}`)
	}))
	calls := []Call{a.DeleteCall("us-central1-a", "web-1")}
	ops, errs := a.MakeRequests(context.Background(), calls, true, fastOpts())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if ops[0].Status != "PENDING" {
		t.Errorf("operation status = %q, want PENDING", ops[0].Status)
	}
}

func TestWaitForOperationError(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"name":"operation-3","status":"DONE","zone":"zones/us-central1-a",
			"httpErrorStatusCode":409,
			"error":{"errors":[{"code":"ALREADY_EXISTS","message":"instance already exists"}]}
		}`)
	}))
	op := &computeapi.Operation{Name: "operation-3", Zone: "zones/us-central1-a"}
	_, err := a.WaitForOperation(context.Background(), op, fastOpts())
	var opErr *waiter.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("WaitForOperation error = %v, want *waiter.OperationError", err)
	}
	if opErr.Code != 409 || !strings.Contains(opErr.Message, "ALREADY_EXISTS") {
		t.Errorf("OperationError = %+v", opErr)
	}
}

func TestMakeRequestsCollectsCallErrors(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	}))
	calls := []Call{a.StopCall("us-central1-a", "web-1")}
	ops, errs := a.MakeRequests(context.Background(), calls, false, fastOpts())
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if ops[0] != nil {
		t.Errorf("failed slot not nil: %+v", ops[0])
	}
}

func TestNewInstanceDefaults(t *testing.T) {
	inst := NewInstance("my-proj", "us-central1-a", "web-1", "", "projects/debian-cloud/global/images/family/debian-12", "")
	if inst.MachineType != "zones/us-central1-a/machineTypes/e2-medium" {
		t.Errorf("machine type = %q", inst.MachineType)
	}
	if len(inst.NetworkInterfaces) != 1 || !strings.HasSuffix(inst.NetworkInterfaces[0].Network, "/networks/default") {
		t.Errorf("network interfaces = %+v", inst.NetworkInterfaces)
	}
	if len(inst.Disks) != 1 || !inst.Disks[0].Boot {
		t.Errorf("disks = %+v", inst.Disks)
	}
}
