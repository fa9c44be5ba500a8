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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/googleapis/cloudsdk/internal/apierrors"
	"github.com/googleapis/cloudsdk/internal/compute"
	"github.com/googleapis/cloudsdk/internal/resource"
)

const instancesTable = "table(name, zone.basename(), machineType.basename(), status)"

func zoneFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "zone",
		Usage: "zone of the instances; overrides the compute/zone property",
	}
}

func (e *env) computeCommand() *cli.Command {
	instances := &cli.Command{
		Name:  "instances",
		Usage: "manage Compute Engine virtual machine instances",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list instances in a zone",
				UsageText: "gcloud compute instances list --zone=ZONE",
				Flags:     append(listFlags(), zoneFlag()),
				Action:    e.action(e.runInstancesList),
			},
			{
				Name:      "describe",
				Usage:     "show one instance",
				UsageText: "gcloud compute instances describe NAME --zone=ZONE",
				Flags:     append(commonFlags(), zoneFlag()),
				Action:    e.action(e.runInstancesDescribe),
			},
			{
				Name:      "create",
				Usage:     "create instances",
				UsageText: "gcloud compute instances create NAME [NAME ...] --zone=ZONE",
				Flags: append(commonFlags(), zoneFlag(), asyncFlag(),
					&cli.StringFlag{Name: "machine-type", Usage: "machine type; defaults to e2-medium"},
					&cli.StringFlag{Name: "image", Usage: "boot disk image or image family URL"},
					&cli.StringFlag{Name: "network", Usage: "network to attach; defaults to the default network"},
				),
				Action: e.action(e.runInstancesCreate),
			},
			{
				Name:      "delete",
				Usage:     "delete instances",
				UsageText: "gcloud compute instances delete NAME [NAME ...] --zone=ZONE",
				Flags:     append(commonFlags(), zoneFlag(), asyncFlag()),
				Action:    e.action(e.runInstancesDelete),
			},
			{
				Name:      "start",
				Usage:     "start stopped instances",
				UsageText: "gcloud compute instances start NAME [NAME ...] --zone=ZONE",
				Flags:     append(commonFlags(), zoneFlag(), asyncFlag()),
				Action:    e.action(e.runInstancesStart),
			},
			{
				Name:      "stop",
				Usage:     "stop running instances",
				UsageText: "gcloud compute instances stop NAME [NAME ...] --zone=ZONE",
				Flags:     append(commonFlags(), zoneFlag(), asyncFlag()),
				Action:    e.action(e.runInstancesStop),
			},
		},
	}
	operations := &cli.Command{
		Name:  "operations",
		Usage: "inspect Compute Engine operations",
		Commands: []*cli.Command{
			{
				Name:      "describe",
				Usage:     "show one operation",
				UsageText: "gcloud compute operations describe NAME [--zone=ZONE | --region=REGION]",
				Flags:     append(commonFlags(), zoneScopeFlags()...),
				Action:    e.action(e.runComputeOperationsDescribe),
			},
			{
				Name:      "wait",
				Usage:     "poll an operation until it finishes",
				UsageText: "gcloud compute operations wait NAME [--zone=ZONE | --region=REGION]",
				Flags:     append(commonFlags(), zoneScopeFlags()...),
				Action:    e.action(e.runComputeOperationsWait),
			},
		},
	}
	return &cli.Command{
		Name:     "compute",
		Usage:    "manage Compute Engine resources",
		Commands: []*cli.Command{instances, operations},
	}
}

// zoneScopeFlags scope an operation: zonal, regional or global when
// neither is given.
func zoneScopeFlags() []cli.Flag {
	return []cli.Flag{
		zoneFlag(),
		&cli.StringFlag{Name: "region", Usage: "region of the operation; overrides the compute/region property"},
	}
}

func (e *env) computeAdapter(ctx context.Context, cmd *cli.Command) (*compute.Adapter, string, error) {
	project, err := e.project(cmd)
	if err != nil {
		return nil, "", err
	}
	zone, err := e.zone(cmd)
	if err != nil {
		return nil, "", err
	}
	svc, err := e.settings().Compute(ctx)
	if err != nil {
		return nil, "", err
	}
	slog.Debug("resolved compute scope", slog.String("project", project), slog.String("zone", zone))
	return &compute.Adapter{Service: svc, Project: project}, zone, nil
}

func (e *env) runInstancesList(ctx context.Context, cmd *cli.Command) error {
	a, zone, err := e.computeAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	limit, pageSize := listLimits(cmd)
	instances, err := a.ListInstances(ctx, zone, "", limit, pageSize)
	if err != nil {
		return apierrors.Wrap(err)
	}
	resources := make([]any, len(instances))
	for i, inst := range instances {
		resources[i] = inst
	}
	return e.printList(cmd, resources, instancesTable)
}

func (e *env) runInstancesDescribe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected an instance NAME argument")
	}
	a, zone, err := e.computeAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	inst, err := a.GetInstance(ctx, zone, cmd.Args().First())
	if err != nil {
		return apierrors.Wrap(err)
	}
	return e.printOne(cmd, inst, "yaml")
}

func (e *env) runInstancesCreate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return usageErrorf("expected at least one instance NAME argument")
	}
	a, zone, err := e.computeAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	names := cmd.Args().Slice()
	var calls []compute.Call
	for _, name := range names {
		inst := compute.NewInstance(a.Project, zone, name,
			cmd.String("machine-type"), cmd.String("image"), cmd.String("network"))
		calls = append(calls, a.InsertCall(zone, inst))
	}
	if cmd.Bool("async") {
		return e.dispatchCompute(ctx, cmd, a, calls, "Created")
	}

	ops, errs := a.MakeRequests(ctx, calls, false, e.waitOpts)
	var resources []any
	for i, op := range ops {
		if op == nil {
			continue
		}
		inst, err := a.GetInstance(ctx, zone, names[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.statusf("Created [%s].", names[i])
		resources = append(resources, inst)
	}
	if err := e.printList(cmd, resources, instancesTable); err != nil {
		return err
	}
	return joinAPIErrors(errs)
}

func (e *env) runInstancesDelete(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return usageErrorf("expected at least one instance NAME argument")
	}
	names := cmd.Args().Slice()
	ok, err := e.confirm(cmd, fmt.Sprintf("The following instances will be deleted: [%s].", strings.Join(names, ", ")))
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("deletion aborted by user")
	}
	a, zone, err := e.computeAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	var calls []compute.Call
	for _, name := range names {
		calls = append(calls, a.DeleteCall(zone, name))
	}
	return e.dispatchCompute(ctx, cmd, a, calls, "Deleted")
}

func (e *env) runInstancesStart(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return usageErrorf("expected at least one instance NAME argument")
	}
	a, zone, err := e.computeAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	var calls []compute.Call
	for _, name := range cmd.Args().Slice() {
		calls = append(calls, a.StartCall(zone, name))
	}
	return e.dispatchCompute(ctx, cmd, a, calls, "Started")
}

func (e *env) runInstancesStop(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return usageErrorf("expected at least one instance NAME argument")
	}
	a, zone, err := e.computeAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	var calls []compute.Call
	for _, name := range cmd.Args().Slice() {
		calls = append(calls, a.StopCall(zone, name))
	}
	return e.dispatchCompute(ctx, cmd, a, calls, "Stopped")
}

// dispatchCompute runs the batched calls, reports per-target status lines
// and prints the resulting operations.
func (e *env) dispatchCompute(ctx context.Context, cmd *cli.Command, a *compute.Adapter, calls []compute.Call, verb string) error {
	ops, errs := a.MakeRequests(ctx, calls, cmd.Bool("async"), e.waitOpts)
	var resources []any
	for _, op := range ops {
		if op == nil {
			continue
		}
		target := op.TargetLink
		if rel, err := resource.ParseSelfLink(target); err == nil {
			target = rel
		}
		e.statusf("%s [%s].", verb, target)
		resources = append(resources, op)
	}
	if err := e.printList(cmd, resources, "table(name, operationType, status)"); err != nil {
		return err
	}
	return joinAPIErrors(errs)
}

func joinAPIErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	wrapped := make([]error, len(errs))
	for i, err := range errs {
		wrapped[i] = apierrors.Wrap(err)
	}
	return errors.Join(wrapped...)
}

func (e *env) computeService(ctx context.Context, cmd *cli.Command) (*compute.Adapter, error) {
	project, err := e.project(cmd)
	if err != nil {
		return nil, err
	}
	svc, err := e.settings().Compute(ctx)
	if err != nil {
		return nil, err
	}
	return &compute.Adapter{Service: svc, Project: project}, nil
}

func (e *env) runComputeOperationsDescribe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected an operation NAME argument")
	}
	if cmd.String("zone") != "" && cmd.String("region") != "" {
		return usageErrorf("--zone and --region are mutually exclusive")
	}
	a, err := e.computeService(ctx, cmd)
	if err != nil {
		return err
	}
	op, err := a.GetOperation(ctx, cmd.Args().First(), cmd.String("zone"), cmd.String("region"))
	if err != nil {
		return apierrors.Wrap(err)
	}
	return e.printOne(cmd, op, "yaml")
}

func (e *env) runComputeOperationsWait(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected an operation NAME argument")
	}
	if cmd.String("zone") != "" && cmd.String("region") != "" {
		return usageErrorf("--zone and --region are mutually exclusive")
	}
	a, err := e.computeService(ctx, cmd)
	if err != nil {
		return err
	}
	name := cmd.Args().First()
	op, err := a.GetOperation(ctx, name, cmd.String("zone"), cmd.String("region"))
	if err != nil {
		return apierrors.Wrap(err)
	}
	if op, err = a.WaitForOperation(ctx, op, e.waitOpts); err != nil {
		return apierrors.Wrap(err)
	}
	e.statusf("Operation [%s] finished.", name)
	return e.printOne(cmd, op, "yaml")
}
