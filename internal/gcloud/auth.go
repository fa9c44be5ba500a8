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

func (e *env) authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "inspect credentials for API access",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list credentialed accounts",
				UsageText: "gcloud auth list",
				Flags:     listFlags(),
				Action:    e.action(e.runAuthList),
			},
			{
				Name:      "print-access-token",
				Usage:     "print an access token from application default credentials",
				UsageText: "gcloud auth print-access-token",
				Flags:     commonFlags(),
				Action:    e.action(e.runPrintAccessToken),
			},
		},
	}
}

// runAuthList reports the configured account. Credentials come from
// application default credentials, so at most one account is known.
func (e *env) runAuthList(ctx context.Context, cmd *cli.Command) error {
	account := e.values.Resolve(properties.Key{Section: properties.SectionCore, Name: "account"})
	if account == "" {
		e.statusf("No credentialed accounts. Set core/account and configure application default credentials.")
		return nil
	}
	rows := []any{map[string]any{"account": account, "status": "ACTIVE"}}
	return e.printList(cmd, rows, "table(account, status)")
}

func (e *env) runPrintAccessToken(ctx context.Context, cmd *cli.Command) error {
	ts, err := e.settings().ADCTokenSource(ctx)
	if err != nil {
		return err
	}
	token, err := ts.Token()
	if err != nil {
		return fmt.Errorf("failed to fetch an access token: %w", err)
	}
	fmt.Fprintln(e.stdout, token.AccessToken)
	return nil
}
