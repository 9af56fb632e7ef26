// Copyright 2019 Ross Light
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
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Measures recorded by an Interceptor.
var (
	FailureCount = stats.Int64(
		"zombiezen.com/go/graphql-validation/failures",
		"Number of validation failures reported for an argument",
		stats.UnitDimensionless,
	)
)

// Tag keys attached to recorded measurements.
var (
	KeyField    = tag.MustNewKey("graphql_field")
	KeyArgument = tag.MustNewKey("graphql_argument")
)

// FailureCountView sums validation failures by field and argument. Register
// it with view.Register to export it.
var FailureCountView = &view.View{
	Name:        "zombiezen.com/go/graphql-validation/failures",
	Description: "Validation failures by field and argument",
	Measure:     FailureCount,
	TagKeys:     []tag.Key{KeyField, KeyArgument},
	Aggregation: view.Sum(),
}

func recordFailures(ctx context.Context, field, argument string, n int) {
	if n == 0 {
		return
	}
	// Recording only fails for invalid tag values, which field and argument
	// names can't be.
	_ = stats.RecordWithTags(ctx, []tag.Mutator{
		tag.Upsert(KeyField, field),
		tag.Upsert(KeyArgument, argument),
	}, FailureCount.M(int64(n)))
}
