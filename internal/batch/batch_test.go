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

package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDoPreservesOrder(t *testing.T) {
	var requests []Request[string]
	for i := 0; i < 20; i++ {
		requests = append(requests, Request[string]{
			Service: "compute.instances",
			Method:  "Get",
			Call: func(ctx context.Context) (string, error) {
				return fmt.Sprintf("resp-%d", i), nil
			},
		})
	}
	got, errs := Do(context.Background(), requests, 4)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var want []string
	for i := 0; i < 20; i++ {
		want = append(want, fmt.Sprintf("resp-%d", i))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}
}

func TestDoCollectsErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	requests := []Request[string]{
		{Service: "compute.instances", Method: "Insert", Call: func(ctx context.Context) (string, error) { return "ok-0", nil }},
		{Service: "compute.instances", Method: "Insert", Call: func(ctx context.Context) (string, error) { return "", boom }},
		{Service: "compute.instances", Method: "Insert", Call: func(ctx context.Context) (string, error) { return "ok-2", nil }},
	}
	got, errs := Do(context.Background(), requests, 0)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	var batchErr *Error
	if !errors.As(errs[0], &batchErr) {
		t.Fatalf("error = %v, want *Error", errs[0])
	}
	if !errors.Is(batchErr, boom) {
		t.Errorf("error does not unwrap to cause: %v", batchErr)
	}
	if batchErr.Service != "compute.instances" || batchErr.Method != "Insert" {
		t.Errorf("error labels = %s.%s", batchErr.Service, batchErr.Method)
	}
	// The failed slot is zero; the others are intact.
	if got[0] != "ok-0" || got[1] != "" || got[2] != "ok-2" {
		t.Errorf("responses = %v", got)
	}
}

func TestDoBoundsParallelism(t *testing.T) {
	const limit = 3
	var inFlight, peak int32
	var mu sync.Mutex
	var requests []Request[int]
	for i := 0; i < 30; i++ {
		requests = append(requests, Request[int]{
			Service: "storage.buckets",
			Method:  "Get",
			Call: func(ctx context.Context) (int, error) {
				n := atomic.AddInt32(&inFlight, 1)
				mu.Lock()
				if n > peak {
					peak = n
				}
				mu.Unlock()
				defer atomic.AddInt32(&inFlight, -1)
				return 0, nil
			},
		})
	}
	if _, errs := Do(context.Background(), requests, limit); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if peak > limit {
		t.Errorf("peak parallelism %d exceeds limit %d", peak, limit)
	}
}

func TestDoSizeLimit(t *testing.T) {
	requests := make([]Request[int], SizeLimit+1)
	for i := range requests {
		requests[i] = Request[int]{Call: func(ctx context.Context) (int, error) { return 0, nil }}
	}
	if _, errs := Do(context.Background(), requests, 0); len(errs) != 1 {
		t.Fatalf("got %d errors, want 1 size-limit error", len(errs))
	}
}
