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

	"github.com/google/go-cmp/cmp"
)

func TestStrategyIncludes(t *testing.T) {
	tests := []struct {
		name     string
		strategy *Strategy
		property string
		want     bool
	}{
		{name: "Nil", strategy: nil, property: "name", want: true},
		{name: "NilRoot", strategy: nil, property: "", want: true},
		{name: "Empty", strategy: new(Strategy), property: "address.street", want: true},
		{name: "Included", strategy: new(Strategy).IncludeProperties("name"), property: "name", want: true},
		{name: "NotIncluded", strategy: new(Strategy).IncludeProperties("name"), property: "address", want: false},
		{name: "IncludedChild", strategy: new(Strategy).IncludeProperties("address"), property: "address.street", want: true},
		{name: "IncludedIndex", strategy: new(Strategy).IncludeProperties("tags"), property: "tags[2]", want: true},
		{name: "PrefixIsNotParent", strategy: new(Strategy).IncludeProperties("name"), property: "names", want: false},
		{name: "RootWithInclude", strategy: new(Strategy).IncludeProperties("name"), property: "", want: false},
		{name: "Excluded", strategy: new(Strategy).ExcludeProperties("address"), property: "address.city", want: false},
		{name: "NotExcluded", strategy: new(Strategy).ExcludeProperties("address"), property: "name", want: true},
		{
			name:     "ExcludeWins",
			strategy: new(Strategy).IncludeProperties("address").ExcludeProperties("address.zip"),
			property: "address.zip",
			want:     false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.strategy.Includes(test.property); got != test.want {
				t.Errorf("Includes(%q) = %t; want %t", test.property, got, test.want)
			}
		})
	}
}

func TestStrategyFilters(t *testing.T) {
	tests := []struct {
		name     string
		strategy *Strategy
		want     bool
	}{
		{name: "Nil", strategy: nil, want: false},
		{name: "Empty", strategy: new(Strategy), want: false},
		{name: "StopOnly", strategy: new(Strategy).StopOnFirstFailure(), want: false},
		{name: "Include", strategy: new(Strategy).IncludeProperties("name"), want: true},
		{name: "Exclude", strategy: new(Strategy).ExcludeProperties("name").StopOnFirstFailure(), want: true},
	}
	for _, test := range tests {
		if got := test.strategy.Filters(); got != test.want {
			t.Errorf("%s: Filters() = %t; want %t", test.name, got, test.want)
		}
	}
}

func TestStrategyApply(t *testing.T) {
	name := &Failure{Property: "name", Message: "Name is empty"}
	street := &Failure{Property: "address.street", Message: "Street is empty"}
	zip := &Failure{Property: "address.zip", Message: "Zip is invalid"}
	result := &Result{Failures: []*Failure{name, street, zip}}

	tests := []struct {
		name     string
		strategy *Strategy
		want     []*Failure
	}{
		{name: "Nil", strategy: nil, want: []*Failure{name, street, zip}},
		{name: "Include", strategy: new(Strategy).IncludeProperties("address"), want: []*Failure{street, zip}},
		{name: "Exclude", strategy: new(Strategy).ExcludeProperties("address.street"), want: []*Failure{name, zip}},
		{name: "Stop", strategy: new(Strategy).StopOnFirstFailure(), want: []*Failure{name}},
		{
			name:     "StopAfterFilter",
			strategy: new(Strategy).ExcludeProperties("name").StopOnFirstFailure(),
			want:     []*Failure{street},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.strategy.Apply(result)
			if diff := cmp.Diff(test.want, got.Failures); diff != "" {
				t.Errorf("Apply(...).Failures (-want +got):\n%s", diff)
			}
		})
	}
	if len(result.Failures) != 3 {
		t.Errorf("Apply modified its input: %d failures left", len(result.Failures))
	}
}

func TestFromValidatorWithStrategyCopies(t *testing.T) {
	s := new(Strategy)
	var seen *Strategy
	v := ValidatorFunc(func(_ context.Context, vc *ValidationContext) (*Result, error) {
		seen = vc.Strategy
		return nil, nil
	})
	iv := FromValidatorWithStrategy(v, func(cfg *Strategy) {
		s = cfg
		cfg.IncludeProperties("name")
	})
	s.IncludeProperties("address")
	if _, err := iv.ValidateInput(context.Background(), map[string]interface{}{}); err != nil {
		t.Fatal(err)
	}
	if seen.Includes("address") {
		t.Error("strategy changed after registration")
	}
	if !seen.Includes("name") {
		t.Error("strategy does not include name")
	}
}

func TestResultIsValid(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   bool
	}{
		{"Nil", nil, true},
		{"Empty", new(Result), true},
		{"Failure", &Result{Failures: []*Failure{{Message: "x"}}}, false},
	}
	for _, test := range tests {
		if got := test.result.IsValid(); got != test.want {
			t.Errorf("%s: IsValid() = %t; want %t", test.name, got, test.want)
		}
	}
}

func TestSeverityMarshalText(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "Error"},
		{SeverityWarning, "Warning"},
		{SeverityInfo, "Info"},
		{Severity(42), "Severity(42)"},
	}
	for _, test := range tests {
		got, err := test.s.MarshalText()
		if err != nil {
			t.Errorf("Severity(%d).MarshalText() error: %v", int(test.s), err)
			continue
		}
		if string(got) != test.want {
			t.Errorf("Severity(%d).MarshalText() = %q; want %q", int(test.s), got, test.want)
		}
	}
}
