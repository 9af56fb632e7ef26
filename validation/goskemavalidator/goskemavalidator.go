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

// Package goskemavalidator runs goskema schemas as argument validators.
//
// Every goskema issue becomes one validation failure. The issue's JSON
// pointer is rewritten as a property path ("/items/2/price" becomes
// "items[2].price" when items is a list), its rule name (or its code, for built-in checks) becomes
// the failure's validator, and its code, hint and parameters are carried in
// the failure's metadata. Issues coded dependency_unavailable are faults, not
// failures.
package goskemavalidator

import (
	"context"
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/goskema"
	"golang.org/x/xerrors"
	"zombiezen.com/go/graphql-validation/validation"
)

// Metadata keys set on every failure.
const (
	MetadataCode = "code"
	MetadataHint = "hint"
)

// Validator validates values by parsing them with a goskema schema.
type Validator[T any] struct {
	schema goskema.Schema[T]
}

// New returns a validator for schema.
func New[T any](schema goskema.Schema[T]) *Validator[T] {
	return &Validator[T]{schema: schema}
}

// Validate parses vc.Value with the schema. Under a stop-on-first-failure
// strategy that does not filter properties, the schema is parsed in fail-fast
// mode. A filtering strategy always sees every issue so that an excluded
// property cannot hide an included one.
func (v *Validator[T]) Validate(ctx context.Context, vc *validation.ValidationContext) (*validation.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stop := vc.Strategy.Cascade() == validation.CascadeStop
	parseCtx := ctx
	if stop && !vc.Strategy.Filters() {
		parseCtx = goskema.WithFailFast(ctx, true)
	}
	_, err := v.schema.Parse(parseCtx, vc.Value)
	if err == nil {
		return new(validation.Result), nil
	}
	issues, ok := goskema.AsIssues(err)
	if !ok {
		return nil, err
	}
	for _, issue := range issues {
		if issue.Code == goskema.CodeDependencyUnavailable {
			return nil, dependencyError(issue)
		}
	}
	result := new(validation.Result)
	for _, issue := range issues {
		property, attempted := resolve(vc.Value, issue.Path)
		if !vc.Strategy.Includes(property) {
			continue
		}
		result.Failures = append(result.Failures, toFailure(issue, property, attempted))
		if stop {
			break
		}
	}
	return result, nil
}

func dependencyError(issue goskema.Issue) error {
	if issue.Cause != nil {
		return xerrors.Errorf("validate %s: dependency unavailable: %w", issue.Path, issue.Cause)
	}
	return xerrors.Errorf("validate %s: dependency unavailable: %s", issue.Path, issue.Message)
}

func toFailure(issue goskema.Issue, property string, attempted interface{}) *validation.Failure {
	name := issue.Rule
	if name == "" {
		name = issue.Code
	}
	md := make(map[string]interface{}, len(issue.Params)+2)
	for k, v := range issue.Params {
		md[k] = v
	}
	md[MetadataCode] = issue.Code
	if issue.Hint != "" {
		md[MetadataHint] = issue.Hint
	}
	return &validation.Failure{
		Validator:      name,
		Property:       property,
		Message:        issue.Message,
		Severity:       validation.SeverityError,
		AttemptedValue: attempted,
		Metadata:       md,
	}
}

// pointerTokens splits a JSON pointer into unescaped reference tokens. The
// root pointer ("" or "/") has no tokens.
func pointerTokens(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	tokens := strings.Split(ptr, "/")
	for i, tok := range tokens {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tokens[i] = strings.ReplaceAll(tok, "~0", "~")
	}
	return tokens
}

// resolve walks ptr through value and returns the dotted property path with
// bracketed list indices, along with the value found there. Whether a token
// is an index or a key is decided by the value being walked: tokens into a
// slice or array are indices, everything else is a key. Once the walk leaves
// the value (a missing key, say), the remaining tokens are keys and the
// attempted value is nil.
//
// Maps with string keys, slices, arrays and structs are walked. Struct fields
// are matched by the same key goskema uses for them.
func resolve(value interface{}, ptr string) (property string, attempted interface{}) {
	sb := new(strings.Builder)
	node := reflect.ValueOf(value)
	for _, tok := range pointerTokens(ptr) {
		node = indirect(node)
		if node.IsValid() && (node.Kind() == reflect.Slice || node.Kind() == reflect.Array) {
			sb.WriteString("[")
			sb.WriteString(tok)
			sb.WriteString("]")
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= node.Len() {
				node = reflect.Value{}
				continue
			}
			node = node.Index(i)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(tok)
		node = child(node, tok)
	}
	node = indirect(node)
	if !node.IsValid() || !node.CanInterface() {
		return sb.String(), nil
	}
	return sb.String(), node.Interface()
}

// indirect unwraps interfaces and pointers. A nil pointer or interface
// yields the invalid Value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// child returns the element of a map or struct named by key.
func child(v reflect.Value, key string) reflect.Value {
	if !v.IsValid() {
		return reflect.Value{}
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}
		}
		return v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.PkgPath != "" {
				continue
			}
			if goskema.ResolveStructKey(sf) == key {
				return v.Field(i)
			}
		}
	}
	return reflect.Value{}
}
