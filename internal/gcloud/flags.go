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
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/googleapis/cloudsdk/internal/apiclients"
	"github.com/googleapis/cloudsdk/internal/filter"
	"github.com/googleapis/cloudsdk/internal/format"
	"github.com/googleapis/cloudsdk/internal/properties"
)

// commonFlags apply to every command.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "project",
			Usage: "project ID; overrides the core/project property",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "output format: json|yaml|none|flattened|table(...)|csv(...)|value(...)|template(...)",
		},
		&cli.StringFlag{
			Name:  "verbosity",
			Usage: "log verbosity: debug|info|warning|error",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "disable all interactive prompts and assume the default answer",
		},
	}
}

// listFlags apply to list commands on top of the common flags.
func listFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:  "filter",
			Usage: "expression selecting the resources to display; see \"gcloud topic filters\"",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of resources to list; unlimited when 0",
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "resources to fetch per API page",
		},
		&cli.StringFlag{
			Name:  "sort-by",
			Usage: "comma-separated field keys to sort by; prefix a key with ~ to reverse",
		},
	)
}

func asyncFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "async",
		Usage: "return immediately instead of waiting for the operation to finish",
	}
}

// action wraps a command action with logging setup.
func (e *env) action(fn func(context.Context, *cli.Command) error) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		e.configureLogging(cmd)
		return fn(ctx, cmd)
	}
}

func (e *env) configureLogging(cmd *cli.Command) {
	verbosity := cmd.String("verbosity")
	if verbosity == "" {
		verbosity = e.values.Resolve(properties.Key{Section: properties.SectionCore, Name: "verbosity"})
	}
	var level slog.Level
	switch verbosity {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level})))
}

// resolve returns the flag value when set, falling back to the property.
func (e *env) resolve(cmd *cli.Command, flag string, key properties.Key) string {
	if v := cmd.String(flag); v != "" {
		return v
	}
	return e.values.Resolve(key)
}

func (e *env) project(cmd *cli.Command) (string, error) {
	p := e.resolve(cmd, "project", properties.Key{Section: properties.SectionCore, Name: "project"})
	if p == "" {
		return "", usageErrorf("no project set; pass --project or run \"gcloud config set project PROJECT_ID\"")
	}
	return p, nil
}

func (e *env) zone(cmd *cli.Command) (string, error) {
	z := e.resolve(cmd, "zone", properties.Key{Section: properties.SectionCompute, Name: "zone"})
	if z == "" {
		return "", usageErrorf("no zone set; pass --zone or run \"gcloud config set compute/zone ZONE\"")
	}
	return z, nil
}

// settings assembles the client settings from properties and test hooks.
func (e *env) settings() *apiclients.Settings {
	endpoints := map[string]string{}
	for api, endpoint := range e.values[properties.SectionEndpointOverrides] {
		endpoints[api] = endpoint
	}
	return &apiclients.Settings{
		QuotaProject: e.values.Resolve(properties.Key{Section: properties.SectionBilling, Name: "quota_project"}),
		Endpoints:    endpoints,
		NoAuth:       e.noAuth,
		Extra:        e.extra,
	}
}

// listLimits reads --limit and --page-size. With a client-side filter the
// fetch is uncapped so --limit counts filtered rows; printList reapplies
// the cap after filtering.
func listLimits(cmd *cli.Command) (limit, pageSize int64) {
	limit = int64(cmd.Int("limit"))
	if cmd.String("filter") != "" {
		limit = 0
	}
	return limit, int64(cmd.Int("page-size"))
}

// printList filters, sorts, caps to --limit and prints list output.
func (e *env) printList(cmd *cli.Command, resources []any, defaultSpec string) error {
	views, err := jsonViews(resources)
	if err != nil {
		return err
	}
	if f := cmd.String("filter"); f != "" {
		expr, err := filter.Parse(f)
		if err != nil {
			return usageErrorf("invalid --filter: %v", err)
		}
		views = filter.Apply(views, expr, func(v any) any { return v })
	}
	return e.printViews(cmd, views, defaultSpec)
}

// printServerFiltered prints rows an API already filtered server side,
// skipping the client-side filter pass but keeping sort, limit and format.
func (e *env) printServerFiltered(cmd *cli.Command, resources []any, defaultSpec string) error {
	views, err := jsonViews(resources)
	if err != nil {
		return err
	}
	return e.printViews(cmd, views, defaultSpec)
}

func (e *env) printViews(cmd *cli.Command, views []any, defaultSpec string) error {
	if s := cmd.String("sort-by"); s != "" {
		format.SortBy(views, strings.Split(s, ","))
	}
	if limit := int64(cmd.Int("limit")); limit > 0 && int64(len(views)) > limit {
		views = views[:limit]
	}
	spec, err := format.Parse(cmd.String("format"))
	if err != nil {
		return usageErrorf("invalid --format: %v", err)
	}
	return spec.Print(e.stdout, views, defaultSpec)
}

func jsonViews(resources []any) ([]any, error) {
	views := make([]any, 0, len(resources))
	for _, r := range resources {
		view, err := format.JSONView(r)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// printOne prints a single resource, defaulting to YAML.
func (e *env) printOne(cmd *cli.Command, resource any, defaultSpec string) error {
	spec, err := format.Parse(cmd.String("format"))
	if err != nil {
		return usageErrorf("invalid --format: %v", err)
	}
	return spec.PrintOne(e.stdout, resource, defaultSpec)
}

// confirm prompts on stderr unless prompts are disabled, in which case the
// answer is yes.
func (e *env) confirm(cmd *cli.Command, prompt string) (bool, error) {
	disabled := e.values.Resolve(properties.Key{Section: properties.SectionCore, Name: "disable_prompts"})
	if cmd.Bool("quiet") || disabled == "true" {
		return true, nil
	}
	fmt.Fprintf(e.stderr, "%s\n\nDo you want to continue (y/N)? ", prompt)
	line, err := bufio.NewReader(e.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// statusf writes a progress line to stderr, keeping stdout for resources.
func (e *env) statusf(msg string, args ...any) {
	fmt.Fprintf(e.stderr, msg+"\n", args...)
}
