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

// Package compute adapts the compute/v1 service for the command surface:
// grouped request dispatch, operation polling, and the instance verbs the
// commands build on.
package compute

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	computeapi "google.golang.org/api/compute/v1"

	"github.com/googleapis/cloudsdk/internal/batch"
	"github.com/googleapis/cloudsdk/internal/pager"
	"github.com/googleapis/cloudsdk/internal/waiter"
)

// Adapter wraps the compute service with the CLI's calling conventions.
type Adapter struct {
	Service *computeapi.Service
	Project string
	// Parallelism bounds grouped request dispatch; 0 uses the batch
	// default.
	Parallelism int
}

// Call is one mutating compute request to dispatch. Do returns the
// resulting operation.
type Call struct {
	Service string
	Method  string
	Do      func(ctx context.Context) (*computeapi.Operation, error)
}

// MakeRequests dispatches the calls as a group and, unless async, waits
// for every returned operation. Responses stay in call order; a failed
// call or operation contributes an error and leaves a nil slot.
func (a *Adapter) MakeRequests(ctx context.Context, calls []Call, async bool, opts *waiter.Options) ([]*computeapi.Operation, []error) {
	requests := make([]batch.Request[*computeapi.Operation], len(calls))
	for i, call := range calls {
		requests[i] = batch.Request[*computeapi.Operation]{
			Service: call.Service,
			Method:  call.Method,
			Call:    call.Do,
		}
	}
	ops, errs := batch.Do(ctx, requests, a.Parallelism)
	if async {
		return ops, errs
	}
	for i, op := range ops {
		if op == nil {
			continue
		}
		done, err := a.WaitForOperation(ctx, op, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", calls[i].Service, calls[i].Method, err))
			ops[i] = nil
			continue
		}
		ops[i] = done
	}
	return ops, errs
}

// WaitForOperation polls a compute operation (zonal, regional or global,
// decided by the operation's own scope fields) until DONE.
func (a *Adapter) WaitForOperation(ctx context.Context, op *computeapi.Operation, opts *waiter.Options) (*computeapi.Operation, error) {
	p := &operationPoller{service: a.Service, project: a.Project, op: op}
	return waiter.WaitFor(ctx, p, op.Name, opts)
}

// operationPoller polls one compute operation in its scope.
type operationPoller struct {
	service *computeapi.Service
	project string
	op      *computeapi.Operation
}

var _ waiter.Poller[*computeapi.Operation, *computeapi.Operation] = (*operationPoller)(nil)

func (p *operationPoller) Poll(ctx context.Context) (*computeapi.Operation, error) {
	switch {
	case p.op.Zone != "":
		return p.service.ZoneOperations.Get(p.project, path.Base(p.op.Zone), p.op.Name).Context(ctx).Do()
	case p.op.Region != "":
		return p.service.RegionOperations.Get(p.project, path.Base(p.op.Region), p.op.Name).Context(ctx).Do()
	default:
		return p.service.GlobalOperations.Get(p.project, p.op.Name).Context(ctx).Do()
	}
}

func (p *operationPoller) IsDone(op *computeapi.Operation) bool {
	return op.Status == "DONE"
}

func (p *operationPoller) Result(ctx context.Context, op *computeapi.Operation) (*computeapi.Operation, error) {
	if op.Error != nil && len(op.Error.Errors) > 0 {
		first := op.Error.Errors[0]
		code := op.HttpErrorStatusCode
		return nil, &waiter.OperationError{
			Name:    op.Name,
			Code:    int32(code),
			Message: fmt.Sprintf("[%s] %s", first.Code, first.Message),
		}
	}
	return op, nil
}

// ListInstances pages through a zone's instances.
func (a *Adapter) ListInstances(ctx context.Context, zone, serverFilter string, limit, pageSize int64) ([]*computeapi.Instance, error) {
	fetch := func(ctx context.Context, pageToken string, size int64) ([]*computeapi.Instance, string, error) {
		call := a.Service.Instances.List(a.Project, zone).Context(ctx).PageToken(pageToken)
		if serverFilter != "" {
			call = call.Filter(serverFilter)
		}
		if size > 0 {
			call = call.MaxResults(size)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, "", err
		}
		return resp.Items, resp.NextPageToken, nil
	}
	return pager.All(ctx, fetch, limit, pageSize)
}

// GetInstance fetches one instance.
func (a *Adapter) GetInstance(ctx context.Context, zone, name string) (*computeapi.Instance, error) {
	return a.Service.Instances.Get(a.Project, zone, name).Context(ctx).Do()
}

// InsertCall builds the create-instance call. A request ID makes the
// insert safe to retry.
func (a *Adapter) InsertCall(zone string, instance *computeapi.Instance) Call {
	return Call{
		Service: "compute.instances",
		Method:  "Insert",
		Do: func(ctx context.Context) (*computeapi.Operation, error) {
			return a.Service.Instances.Insert(a.Project, zone, instance).
				RequestId(uuid.NewString()).Context(ctx).Do()
		},
	}
}

// DeleteCall builds the delete-instance call.
func (a *Adapter) DeleteCall(zone, name string) Call {
	return Call{
		Service: "compute.instances",
		Method:  "Delete",
		Do: func(ctx context.Context) (*computeapi.Operation, error) {
			return a.Service.Instances.Delete(a.Project, zone, name).
				RequestId(uuid.NewString()).Context(ctx).Do()
		},
	}
}

// StartCall builds the start-instance call.
func (a *Adapter) StartCall(zone, name string) Call {
	return Call{
		Service: "compute.instances",
		Method:  "Start",
		Do: func(ctx context.Context) (*computeapi.Operation, error) {
			return a.Service.Instances.Start(a.Project, zone, name).
				RequestId(uuid.NewString()).Context(ctx).Do()
		},
	}
}

// StopCall builds the stop-instance call.
func (a *Adapter) StopCall(zone, name string) Call {
	return Call{
		Service: "compute.instances",
		Method:  "Stop",
		Do: func(ctx context.Context) (*computeapi.Operation, error) {
			return a.Service.Instances.Stop(a.Project, zone, name).
				RequestId(uuid.NewString()).Context(ctx).Do()
		},
	}
}

// GetOperation fetches a named operation in the given zone or region,
// or the global scope when both are empty.
func (a *Adapter) GetOperation(ctx context.Context, name, zone, region string) (*computeapi.Operation, error) {
	switch {
	case zone != "":
		return a.Service.ZoneOperations.Get(a.Project, zone, name).Context(ctx).Do()
	case region != "":
		return a.Service.RegionOperations.Get(a.Project, region, name).Context(ctx).Do()
	default:
		return a.Service.GlobalOperations.Get(a.Project, name).Context(ctx).Do()
	}
}

// NewInstance assembles an Instance resource from the create flags,
// applying the API's URL conventions for machine type, image and network.
func NewInstance(project, zone, name, machineType, image, network string) *computeapi.Instance {
	if machineType == "" {
		machineType = "e2-medium"
	}
	if network == "" {
		network = "default"
	}
	inst := &computeapi.Instance{
		Name:        name,
		MachineType: fmt.Sprintf("zones/%s/machineTypes/%s", zone, machineType),
		NetworkInterfaces: []*computeapi.NetworkInterface{
			{Network: fmt.Sprintf("projects/%s/global/networks/%s", project, network)},
		},
	}
	if image != "" {
		inst.Disks = []*computeapi.AttachedDisk{
			{
				Boot:       true,
				AutoDelete: true,
				InitializeParams: &computeapi.AttachedDiskInitializeParams{
					SourceImage: image,
				},
			},
		}
	}
	return inst
}
