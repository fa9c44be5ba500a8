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
	"context"

	"cloud.google.com/go/longrunning/autogen/longrunningpb"
	"github.com/googleapis/gax-go/v2"
)

// OperationsGetter is the slice of the google.longrunning Operations
// surface the poller needs. The generated OperationsClient satisfies it.
type OperationsGetter interface {
	GetOperation(ctx context.Context, req *longrunningpb.GetOperationRequest, opts ...gax.CallOption) (*longrunningpb.Operation, error)
}

// CloudOperationPoller polls a google.longrunning.Operation by name.
type CloudOperationPoller struct {
	Getter OperationsGetter
	// Name is the fully qualified operation name
	// (e.g. "projects/p/locations/l/operations/o").
	Name string
}

var _ Poller[*longrunningpb.Operation, *longrunningpb.Operation] = (*CloudOperationPoller)(nil)

// Poll fetches the operation.
func (p *CloudOperationPoller) Poll(ctx context.Context) (*longrunningpb.Operation, error) {
	return p.Getter.GetOperation(ctx, &longrunningpb.GetOperationRequest{Name: p.Name})
}

// IsDone reports the operation's done bit.
func (p *CloudOperationPoller) IsDone(op *longrunningpb.Operation) bool {
	return op.GetDone()
}

// Result returns the done operation, surfacing a failed operation as an
// *OperationError.
func (p *CloudOperationPoller) Result(ctx context.Context, op *longrunningpb.Operation) (*longrunningpb.Operation, error) {
	if s := op.GetError(); s != nil {
		return nil, &OperationError{Name: op.GetName(), Code: s.GetCode(), Message: s.GetMessage()}
	}
	return op, nil
}
