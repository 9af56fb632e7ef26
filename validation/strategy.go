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

import "strings"

// CascadeMode controls whether a validator keeps evaluating rules after the
// first failure.
type CascadeMode int

// Cascade modes.
const (
	CascadeContinue CascadeMode = iota
	CascadeStop
)

// Strategy narrows what a validator checks for one registration. A nil
// *Strategy includes every property and continues after failures.
type Strategy struct {
	include []string
	exclude []string
	cascade CascadeMode
}

// IncludeProperties restricts validation to the given property paths and
// everything beneath them.
func (s *Strategy) IncludeProperties(paths ...string) *Strategy {
	s.include = append(s.include, paths...)
	return s
}

// ExcludeProperties removes the given property paths and everything beneath
// them from validation.
func (s *Strategy) ExcludeProperties(paths ...string) *Strategy {
	s.exclude = append(s.exclude, paths...)
	return s
}

// StopOnFirstFailure makes the validator stop after its first failure.
func (s *Strategy) StopOnFirstFailure() *Strategy {
	s.cascade = CascadeStop
	return s
}

// Cascade returns the strategy's cascade mode.
func (s *Strategy) Cascade() CascadeMode {
	if s == nil {
		return CascadeContinue
	}
	return s.cascade
}

// Filters reports whether the strategy restricts properties with
// IncludeProperties or ExcludeProperties. A validator that stops early on its
// own must not do so under a filtering strategy, since its first failure may
// be out of scope.
func (s *Strategy) Filters() bool {
	return s != nil && (len(s.include) > 0 || len(s.exclude) > 0)
}

// Includes reports whether failures at the given property path are in scope.
// The empty path denotes the argument itself; it is excluded only when
// IncludeProperties has been used.
func (s *Strategy) Includes(property string) bool {
	if s == nil {
		return true
	}
	for _, p := range s.exclude {
		if pathWithin(property, p) {
			return false
		}
	}
	if len(s.include) == 0 {
		return true
	}
	for _, p := range s.include {
		if pathWithin(property, p) {
			return true
		}
	}
	return false
}

// Apply filters a result through the strategy for rule engines that do not
// support strategies natively. The returned result shares failures with r.
func (s *Strategy) Apply(r *Result) *Result {
	if s == nil || r == nil {
		return r
	}
	out := new(Result)
	for _, f := range r.Failures {
		if !s.Includes(f.Property) {
			continue
		}
		out.Failures = append(out.Failures, f)
		if s.cascade == CascadeStop {
			break
		}
	}
	return out
}

func (s *Strategy) clone() *Strategy {
	return &Strategy{
		include: append([]string(nil), s.include...),
		exclude: append([]string(nil), s.exclude...),
		cascade: s.cascade,
	}
}

// pathWithin reports whether path equals prefix or names something nested
// beneath it.
func pathWithin(path, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(path, prefix) {
		return false
	}
	if len(path) == len(prefix) {
		return true
	}
	switch path[len(prefix)] {
	case '.', '[':
		return true
	}
	return false
}
