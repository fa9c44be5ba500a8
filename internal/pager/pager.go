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

// Package pager implements the page-token pagination loop shared by all
// list commands.
package pager

import (
	"context"
	"fmt"
)

// FetchFunc fetches one page. pageSize is a server-side hint (0 lets the
// server choose). It returns the page's items and the next page token, an
// empty token meaning the listing is exhausted.
type FetchFunc[T any] func(ctx context.Context, pageToken string, pageSize int64) ([]T, string, error)

// All fetches pages until the listing is exhausted or limit items have
// been collected. limit <= 0 means unlimited. The final page size is
// trimmed to what limit still allows, so the server never sends items the
// caller will discard.
func All[T any](ctx context.Context, fetch FetchFunc[T], limit, pageSize int64) ([]T, error) {
	var items []T
	token := ""
	for {
		size := pageSize
		if limit > 0 {
			remaining := limit - int64(len(items))
			if size == 0 || remaining < size {
				size = remaining
			}
		}
		page, next, err := fetch(ctx, token, size)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page: %w", err)
		}
		items = append(items, page...)
		if limit > 0 && int64(len(items)) >= limit {
			return items[:limit], nil
		}
		if next == "" {
			return items, nil
		}
		token = next
	}
}
