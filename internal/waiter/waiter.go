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

// Package waiter polls long-running operations to completion.
//
// A Poller knows how to fetch one operation shape (google.longrunning
// operations, compute operations, ...) and how to extract the final result
// once the operation reports done. PollUntilDone drives the poll loop with
// exponential backoff; WaitFor adds result extraction.
package waiter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/googleapis/gax-go/v2"
)

// Defaults for the poll loop. MaxWait matches the compute default
// operation timeout; the ceiling keeps polls responsive on long waits.
const (
	DefaultInitial     = 1 * time.Second
	DefaultMultiplier  = 1.5
	DefaultWaitCeiling = 10 * time.Second
	DefaultMaxWait     = 30 * time.Minute
)

// Poller polls one operation. O is the operation shape, R the final result.
type Poller[O, R any] interface {
	// Poll fetches the current state of the operation.
	Poll(ctx context.Context) (O, error)
	// IsDone reports whether the operation has completed.
	IsDone(op O) bool
	// Result extracts the final result from a done operation. A failed
	// operation is surfaced here as an *OperationError.
	Result(ctx context.Context, op O) (R, error)
}

// Options tunes a poll loop. The zero value uses the package defaults.
type Options struct {
	Initial     time.Duration
	Multiplier  float64
	WaitCeiling time.Duration
	MaxWait     time.Duration

	// OnPoll, if set, is invoked after every poll with the attempt count,
	// letting callers tick a progress indicator.
	OnPoll func(attempt int)

	// Progress, if set, receives a user-visible status line when the poll
	// loop starts.
	Progress io.Writer
}

func (o *Options) withDefaults() Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.Initial <= 0 {
		out.Initial = DefaultInitial
	}
	if out.Multiplier <= 1 {
		out.Multiplier = DefaultMultiplier
	}
	if out.WaitCeiling <= 0 {
		out.WaitCeiling = DefaultWaitCeiling
	}
	if out.MaxWait <= 0 {
		out.MaxWait = DefaultMaxWait
	}
	return out
}

// OperationError reports a long-running operation that completed with an
// error status.
type OperationError struct {
	Name    string
	Code    int32
	Message string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s failed: code=%d, message=%s", e.Name, e.Code, e.Message)
}

// TimeoutError reports a poll loop that gave up before the operation
// completed. The operation may still be underway remotely.
type TimeoutError struct {
	Name string
	Wait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %s timed out after %s; it may still be underway remotely and may still succeed", e.Name, e.Wait)
}

// PollUntilDone polls until the operation is done, the context is
// cancelled, or opts.MaxWait elapses. name is used in errors and logs only.
func PollUntilDone[O, R any](ctx context.Context, p Poller[O, R], name string, opts *Options) (O, error) {
	o := opts.withDefaults()
	if o.Progress != nil {
		fmt.Fprintln(o.Progress, color.CyanString("Waiting for [%s]...", name))
	}
	backoff := gax.Backoff{
		Initial:    o.Initial,
		Max:        o.WaitCeiling,
		Multiplier: o.Multiplier,
	}
	deadline := time.Now().Add(o.MaxWait)
	var last O
	for attempt := 1; ; attempt++ {
		op, err := p.Poll(ctx)
		if err != nil {
			return last, fmt.Errorf("failed to poll operation %s: %w", name, err)
		}
		last = op
		if o.OnPoll != nil {
			o.OnPoll(attempt)
		}
		if p.IsDone(op) {
			slog.Debug("operation done", slog.String("operation", name), slog.Int("polls", attempt))
			return op, nil
		}
		if time.Now().After(deadline) {
			return last, &TimeoutError{Name: name, Wait: o.MaxWait}
		}
		pause := backoff.Pause()
		slog.Debug("operation pending", slog.String("operation", name), slog.Duration("pause", pause))
		if err := gax.Sleep(ctx, pause); err != nil {
			return last, err
		}
	}
}

// WaitFor polls the operation to completion and extracts its result.
func WaitFor[O, R any](ctx context.Context, p Poller[O, R], name string, opts *Options) (R, error) {
	op, err := PollUntilDone(ctx, p, name, opts)
	if err != nil {
		var zero R
		return zero, err
	}
	return p.Result(ctx, op)
}
