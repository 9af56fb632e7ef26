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

import "fmt"

// Result is the outcome of one validator invocation.
type Result struct {
	// Failures are in the order the validator produced them.
	Failures []*Failure
}

// IsValid reports whether the result has no failures. A nil result is valid.
func (r *Result) IsValid() bool {
	return r == nil || len(r.Failures) == 0
}

// Failure is a single rule violation.
type Failure struct {
	// Validator identifies the rule that failed, like "NotEmptyValidator".
	Validator string
	// Property is the path of the offending value relative to the argument,
	// like "address.street" or "tags[2]". Empty means the argument itself.
	Property       string
	Message        string
	Severity       Severity
	AttemptedValue interface{}
	// Metadata is open-ended rule-specific data.
	Metadata map[string]interface{}
}

// Severity is the seriousness of a failure.
type Severity int

// Severities.
const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the severity's name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText encodes the severity as its name, so that errors carry a
// readable severity extension.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
