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

// Package batch dispatches groups of API requests and reconciles the
// responses with their originating requests.
//
// Requests run concurrently with bounded parallelism, but responses are
// returned in request order and failures never abort the rest of the
// batch: each error is recorded against its request and collected.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SizeLimit is the upper bound on requests per batch, mirroring the
// documented compute batch limit.
const SizeLimit = 1000

// DefaultParallelism bounds concurrent in-flight requests.
const DefaultParallelism = 8

// Request is one API call in a batch. Service and Method label the call in
// errors ("compute.instances", "Insert"); Call performs it.
type Request[T any] struct {
	Service string
	Method  string
	Call    func(ctx context.Context) (T, error)
}

// Error records a failed request within a batch.
type Error struct {
	Service string
	Method  string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Service, e.Method, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Do runs all requests and returns their responses in request order. A
// failed request leaves the zero value in its slot and contributes an
// *Error to the returned slice. parallelism <= 0 uses the default.
func Do[T any](ctx context.Context, requests []Request[T], parallelism int) ([]T, []error) {
	if len(requests) > SizeLimit {
		return nil, []error{fmt.Errorf("too many batch requests: %d exceeds limit of %d", len(requests), SizeLimit)}
	}
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	responses := make([]T, len(requests))
	errs := make([]error, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, req := range requests {
		g.Go(func() error {
			resp, err := req.Call(ctx)
			if err != nil {
				errs[i] = &Error{Service: req.Service, Method: req.Method, Err: err}
				// Collected, not fatal: the rest of the batch proceeds.
				return nil
			}
			responses[i] = resp
			return nil
		})
	}
	// Workers only report via the errs slice.
	_ = g.Wait()

	var collected []error
	for _, err := range errs {
		if err != nil {
			collected = append(collected, err)
		}
	}
	return responses, collected
}
