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
	"testing"

	"go.opencensus.io/stats/view"
)

func TestFailureCountView(t *testing.T) {
	if err := view.Register(FailureCountView); err != nil {
		t.Fatal(err)
	}
	defer view.Unregister(FailureCountView)

	arg := inputArg(WithValidators(
		FromValidator(notEmpty("name", emptyNameMessage)),
		FromValidator(notEmpty("address", emptyAddressMessage)),
	))
	h := newHarness(t, New(), nil, arg)
	h.exec(context.Background(), emptyNameAndAddress, nil)
	h.exec(context.Background(), validInput, nil)

	rows, err := view.RetrieveData(FailureCountView.Name)
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for _, row := range rows {
		tags := make(map[string]string)
		for _, tg := range row.Tags {
			tags[tg.Key.Name()] = tg.Value
		}
		if tags[KeyField.Name()] != "test" || tags[KeyArgument.Name()] != "input" {
			continue
		}
		sum, ok := row.Data.(*view.SumData)
		if !ok {
			t.Fatalf("row data is %T; want *view.SumData", row.Data)
		}
		total += sum.Value
	}
	if total != 2 {
		t.Errorf("failures recorded = %v; want 2", total)
	}
}
