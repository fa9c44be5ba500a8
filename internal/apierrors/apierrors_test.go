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

package apierrors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestWrapHTTPError(t *testing.T) {
	cause := &googleapi.Error{Code: 403, Message: "Permission denied on project"}
	err := Wrap(fmt.Errorf("calling compute: %w", cause))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Wrap = %v, want *APIError", err)
	}
	if apiErr.Reason != "HTTP 403" {
		t.Errorf("Reason = %q", apiErr.Reason)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
}

func TestWrapGRPCError(t *testing.T) {
	err := Wrap(status.Error(codes.PermissionDenied, "caller lacks permission"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Wrap = %v, want *APIError", err)
	}
	if apiErr.Reason != "PermissionDenied" {
		t.Errorf("Reason = %q", apiErr.Reason)
	}
}

func TestWrapPassthrough(t *testing.T) {
	plain := errors.New("not an API error")
	if got := Wrap(plain); got != plain {
		t.Errorf("Wrap(plain) = %v, want passthrough", got)
	}
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) != nil")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&googleapi.Error{Code: 404}) {
		t.Error("HTTP 404 not detected")
	}
	if !IsNotFound(status.Error(codes.NotFound, "no such instance")) {
		t.Error("gRPC NotFound not detected")
	}
	if IsNotFound(&googleapi.Error{Code: 500}) {
		t.Error("HTTP 500 misdetected as not found")
	}
	if IsNotFound(errors.New("nope")) {
		t.Error("plain error misdetected as not found")
	}
}
