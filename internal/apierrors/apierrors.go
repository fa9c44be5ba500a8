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

// Package apierrors turns transport-level API errors into messages fit for
// CLI users: HTTP errors from the discovery-based REST clients and gRPC
// status errors from the generated gapic clients.
package apierrors

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// APIError is a normalized API failure.
type APIError struct {
	// Reason is a short machine-ish tag: HTTP status text or gRPC code name.
	Reason string
	// Message is the human-readable server message.
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *APIError) Unwrap() error { return e.Cause }

// Wrap normalizes an error from any API client. Non-API errors pass
// through unchanged.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" && len(gerr.Errors) > 0 {
			msg = gerr.Errors[0].Message
		}
		return &APIError{
			Reason:  fmt.Sprintf("HTTP %d", gerr.Code),
			Message: msg,
			Cause:   err,
		}
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.OK {
		return &APIError{
			Reason:  s.Code().String(),
			Message: s.Message(),
			Cause:   err,
		}
	}
	return err
}

// IsNotFound reports whether the error is an HTTP 404 or gRPC NotFound.
func IsNotFound(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 404
	}
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.NotFound
	}
	return false
}
