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
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/googleapis/cloudsdk/internal/properties"
)

func (e *env) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "view and edit Cloud SDK properties",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list the properties of the active configuration",
				UsageText: "gcloud config list",
				Flags:     commonFlags(),
				Action:    e.action(e.runConfigList),
			},
			{
				Name:      "set",
				Usage:     "set a property",
				UsageText: "gcloud config set SECTION/PROPERTY VALUE",
				Flags:     commonFlags(),
				Action:    e.action(e.runConfigSet),
			},
			{
				Name:      "get-value",
				Usage:     "print the value of a property",
				UsageText: "gcloud config get-value SECTION/PROPERTY",
				Flags:     commonFlags(),
				Action:    e.action(e.runConfigGetValue),
			},
			{
				Name:      "unset",
				Usage:     "remove a property",
				UsageText: "gcloud config unset SECTION/PROPERTY",
				Flags:     commonFlags(),
				Action:    e.action(e.runConfigUnset),
			},
			{
				Name:  "configurations",
				Usage: "manage named configurations",
				Commands: []*cli.Command{
					{
						Name:      "list",
						Usage:     "list named configurations",
						UsageText: "gcloud config configurations list",
						Flags:     listFlags(),
						Action:    e.action(e.runConfigurationsList),
					},
					{
						Name:      "create",
						Usage:     "create a named configuration",
						UsageText: "gcloud config configurations create NAME",
						Flags:     commonFlags(),
						Action:    e.action(e.runConfigurationsCreate),
					},
					{
						Name:      "activate",
						Usage:     "activate a named configuration",
						UsageText: "gcloud config configurations activate NAME",
						Flags:     commonFlags(),
						Action:    e.action(e.runConfigurationsActivate),
					},
					{
						Name:      "describe",
						Usage:     "show a named configuration's properties",
						UsageText: "gcloud config configurations describe NAME",
						Flags:     commonFlags(),
						Action:    e.action(e.runConfigurationsDescribe),
					},
				},
			},
		},
	}
}

func (e *env) runConfigList(ctx context.Context, cmd *cli.Command) error {
	view := map[string]map[string]string{}
	for _, key := range e.values.Flatten() {
		section, ok := view[key.Section]
		if !ok {
			section = map[string]string{}
			view[key.Section] = section
		}
		section[key.Name] = e.values.Get(key)
	}
	return e.printOne(cmd, view, "yaml")
}

func (e *env) runConfigSet(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return usageErrorf("expected SECTION/PROPERTY and VALUE arguments")
	}
	key, err := properties.ParseKey(cmd.Args().Get(0))
	if err != nil {
		return usageErrorf("%v", err)
	}
	value := cmd.Args().Get(1)
	values, err := e.store.LoadActive()
	if err != nil {
		return err
	}
	values.Set(key, value)
	if err := e.store.SaveActive(values); err != nil {
		return err
	}
	e.values = values
	e.statusf("Updated property [%s].", key)
	return nil
}

func (e *env) runConfigGetValue(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a SECTION/PROPERTY argument")
	}
	key, err := properties.ParseKey(cmd.Args().First())
	if err != nil {
		return usageErrorf("%v", err)
	}
	value := e.values.Resolve(key)
	if value == "" {
		e.statusf("(unset)")
		return nil
	}
	fmt.Fprintln(e.stdout, value)
	return nil
}

func (e *env) runConfigUnset(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a SECTION/PROPERTY argument")
	}
	key, err := properties.ParseKey(cmd.Args().First())
	if err != nil {
		return usageErrorf("%v", err)
	}
	values, err := e.store.LoadActive()
	if err != nil {
		return err
	}
	if !values.Unset(key) {
		return fmt.Errorf("property %s is not set", key)
	}
	if err := e.store.SaveActive(values); err != nil {
		return err
	}
	e.values = values
	e.statusf("Unset property [%s].", key)
	return nil
}

func (e *env) runConfigurationsList(ctx context.Context, cmd *cli.Command) error {
	names, err := e.store.List()
	if err != nil {
		return err
	}
	active, err := e.store.ActiveName()
	if err != nil {
		return err
	}
	var rows []any
	for _, name := range names {
		rows = append(rows, map[string]any{
			"name":      name,
			"is_active": name == active,
		})
	}
	return e.printList(cmd, rows, "table(name, is_active)")
}

func (e *env) runConfigurationsDescribe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a configuration NAME argument")
	}
	name := cmd.Args().First()
	values, err := e.store.Load(name)
	if err != nil {
		return err
	}
	active, err := e.store.ActiveName()
	if err != nil {
		return err
	}
	view := map[string]any{
		"name":       name,
		"is_active":  name == active,
		"properties": map[string]map[string]string(values),
	}
	return e.printOne(cmd, view, "yaml")
}

func (e *env) runConfigurationsCreate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a configuration NAME argument")
	}
	name := cmd.Args().First()
	if err := e.store.Create(name); err != nil {
		return err
	}
	e.statusf("Created [%s].", name)
	return nil
}

func (e *env) runConfigurationsActivate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a configuration NAME argument")
	}
	name := cmd.Args().First()
	if err := e.store.Activate(name); err != nil {
		return err
	}
	values, err := e.store.Load(name)
	if err != nil {
		return err
	}
	e.values = values
	e.statusf("Activated [%s].", name)
	return nil
}
