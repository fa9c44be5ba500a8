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

package waiter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/longrunning/autogen/longrunningpb"
	"github.com/googleapis/gax-go/v2"
	spb "google.golang.org/genproto/googleapis/rpc/status"
)

// fakeOp is a minimal operation shape for the generic loop.
type fakeOp struct {
	done bool
	val  string
}

type fakePoller struct {
	ops      []fakeOp
	pollErr  error
	calls    int
	finalErr error
}

func (p *fakePoller) Poll(ctx context.Context) (fakeOp, error) {
	if p.pollErr != nil {
		return fakeOp{}, p.pollErr
	}
	op := p.ops[min(p.calls, len(p.ops)-1)]
	p.calls++
	return op, nil
}

func (p *fakePoller) IsDone(op fakeOp) bool { return op.done }

func (p *fakePoller) Result(ctx context.Context, op fakeOp) (string, error) {
	if p.finalErr != nil {
		return "", p.finalErr
	}
	return op.val, nil
}

// fastOpts keeps test poll loops to microseconds.
func fastOpts() *Options {
	return &Options{Initial: time.Microsecond, WaitCeiling: time.Millisecond}
}

func TestWaitFor(t *testing.T) {
	p := &fakePoller{ops: []fakeOp{{}, {}, {done: true, val: "ready"}}}
	got, err := WaitFor(context.Background(), p, "op-1", fastOpts())
	if err != nil {
		t.Fatal(err)
	}
	if got != "ready" {
		t.Errorf("WaitFor = %q, want %q", got, "ready")
	}
	if p.calls != 3 {
		t.Errorf("polled %d times, want 3", p.calls)
	}
}

func TestWaitForOperationError(t *testing.T) {
	opErr := &OperationError{Name: "op-1", Code: 9, Message: "precondition failed"}
	p := &fakePoller{ops: []fakeOp{{done: true}}, finalErr: opErr}
	_, err := WaitFor(context.Background(), p, "op-1", fastOpts())
	var got *OperationError
	if !errors.As(err, &got) {
		t.Fatalf("WaitFor error = %v, want *OperationError", err)
	}
	if got.Code != 9 {
		t.Errorf("code = %d, want 9", got.Code)
	}
}

func TestPollUntilDoneTimeout(t *testing.T) {
	p := &fakePoller{ops: []fakeOp{{}}}
	opts := fastOpts()
	opts.MaxWait = time.Millisecond
	_, err := PollUntilDone(context.Background(), p, "op-slow", opts)
	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("PollUntilDone error = %v, want *TimeoutError", err)
	}
	if timeout.Name != "op-slow" {
		t.Errorf("timeout name = %q, want op-slow", timeout.Name)
	}
}

func TestPollUntilDonePollError(t *testing.T) {
	p := &fakePoller{pollErr: errors.New("boom")}
	if _, err := PollUntilDone(context.Background(), p, "op-1", fastOpts()); err == nil {
		t.Fatal("PollUntilDone succeeded, want error")
	}
}

func TestPollUntilDoneContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakePoller{ops: []fakeOp{{}}}
	if _, err := PollUntilDone(ctx, p, "op-1", fastOpts()); !errors.Is(err, context.Canceled) {
		t.Fatalf("PollUntilDone error = %v, want context.Canceled", err)
	}
}

func TestProgressLine(t *testing.T) {
	p := &fakePoller{ops: []fakeOp{{done: true, val: "ready"}}}
	var buf bytes.Buffer
	opts := fastOpts()
	opts.Progress = &buf
	if _, err := WaitFor(context.Background(), p, "op-1", opts); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Waiting for [op-1]") {
		t.Errorf("progress = %q, want a Waiting for [op-1] line", buf.String())
	}
}

func TestOnPollCallback(t *testing.T) {
	p := &fakePoller{ops: []fakeOp{{}, {done: true}}}
	var ticks []int
	opts := fastOpts()
	opts.OnPoll = func(attempt int) { ticks = append(ticks, attempt) }
	if _, err := PollUntilDone(context.Background(), p, "op-1", opts); err != nil {
		t.Fatal(err)
	}
	if len(ticks) != 2 || ticks[0] != 1 || ticks[1] != 2 {
		t.Errorf("ticks = %v, want [1 2]", ticks)
	}
}

// mockOperations mimics the generated longrunning client, following the
// gax-style mocks used elsewhere in the repo.
type mockOperations struct {
	ops []*longrunningpb.Operation
	i   int
}

func (m *mockOperations) GetOperation(ctx context.Context, req *longrunningpb.GetOperationRequest, opts ...gax.CallOption) (*longrunningpb.Operation, error) {
	op := m.ops[min(m.i, len(m.ops)-1)]
	m.i++
	return op, nil
}

func TestCloudOperationPoller(t *testing.T) {
	name := "projects/p/locations/us/operations/op-1"
	m := &mockOperations{ops: []*longrunningpb.Operation{
		{Name: name},
		{Name: name, Done: true},
	}}
	p := &CloudOperationPoller{Getter: m, Name: name}
	op, err := WaitFor(context.Background(), p, name, fastOpts())
	if err != nil {
		t.Fatal(err)
	}
	if !op.GetDone() {
		t.Error("returned operation not done")
	}
}

func TestCloudOperationPollerFailedOperation(t *testing.T) {
	name := "projects/p/locations/us/operations/op-2"
	m := &mockOperations{ops: []*longrunningpb.Operation{
		{
			Name: name,
			Done: true,
			Result: &longrunningpb.Operation_Error{
				Error: &spb.Status{Code: 13, Message: "internal error"},
			},
		},
	}}
	p := &CloudOperationPoller{Getter: m, Name: name}
	_, err := WaitFor(context.Background(), p, name, fastOpts())
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("WaitFor error = %v, want *OperationError", err)
	}
	if opErr.Code != 13 || opErr.Message != "internal error" {
		t.Errorf("OperationError = %+v", opErr)
	}
}
