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

package graphql

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func echoResolver(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return args, nil
}

func newTestServer(t *testing.T, middleware ...FieldMiddleware) *Server {
	t.Helper()
	query := &Object{
		Name: "Query",
		Fields: []*Field{
			{
				Name: "echo",
				Arguments: []*Argument{
					{Name: "required", Type: "String!"},
					{Name: "optional", Type: "String"},
					{Name: "defaulted", Type: "Int", DefaultValue: 42},
				},
				Resolve: echoResolver,
			},
			{
				Name: "fail",
				Resolve: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
					return nil, errors.New("database unavailable")
				},
			},
		},
	}
	mutation := &Object{
		Name: "Mutation",
		Fields: []*Field{
			{
				Name:      "set",
				Arguments: []*Argument{{Name: "value", Type: "Int!"}},
				Resolve:   echoResolver,
			},
		},
	}
	schema, err := NewSchema(query, mutation)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := NewServer(schema, middleware...)
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func errorMessages(errs []*Error) []string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Message())
	}
	return msgs
}

func TestExecute(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	t.Run("ArgumentValues", func(t *testing.T) {
		resp := srv.Execute(ctx, Request{
			Selections: []*Selection{
				{Name: "echo", Arguments: map[string]interface{}{"required": "x", "optional": nil}},
			},
		})
		if len(resp.Errors) > 0 {
			t.Fatal(errorMessages(resp.Errors))
		}
		want := map[string]interface{}{
			"echo": map[string]interface{}{"required": "x", "defaulted": 42},
		}
		if diff := cmp.Diff(want, resp.Data); diff != "" {
			t.Errorf("Data (-want +got):\n%s", diff)
		}
	})
	t.Run("RequestErrors", func(t *testing.T) {
		resp := srv.Execute(ctx, Request{
			Selections: []*Selection{
				{Name: "nope"},
				{Name: "echo", Arguments: map[string]interface{}{"bogus": 1}},
			},
		})
		if resp.Data != nil {
			t.Errorf("Data = %v; want nil", resp.Data)
		}
		want := []string{
			`Cannot query field "nope" on type "Query".`,
			`Unknown argument "bogus" on field "echo".`,
			`Argument "required" of required type "String!" was not provided.`,
		}
		if diff := cmp.Diff(want, errorMessages(resp.Errors)); diff != "" {
			t.Errorf("errors (-want +got):\n%s", diff)
		}
	})
	t.Run("ResolverFault", func(t *testing.T) {
		resp := srv.Execute(ctx, Request{
			Selections: []*Selection{{Alias: "f", Name: "fail"}},
		})
		if len(resp.Errors) != 1 {
			t.Fatalf("got %d errors; want 1", len(resp.Errors))
		}
		e := resp.Errors[0]
		if !strings.Contains(e.Message(), "database unavailable") {
			t.Errorf("Message() = %q; want to contain resolver error", e.Message())
		}
		if diff := cmp.Diff([]PathSegment{{Field: "f"}}, e.Path()); diff != "" {
			t.Errorf("Path() (-want +got):\n%s", diff)
		}
		if v, ok := resp.Data["f"]; !ok || v != nil {
			t.Errorf("Data[\"f\"] = %v, %t; want nil, true", v, ok)
		}
	})
	t.Run("Mutation", func(t *testing.T) {
		resp := srv.Execute(ctx, Request{
			Operation: MutationOperation,
			Selections: []*Selection{
				{Alias: "a", Name: "set", Arguments: map[string]interface{}{"value": 1}},
				{Alias: "b", Name: "set", Arguments: map[string]interface{}{"value": 2}},
			},
		})
		if len(resp.Errors) > 0 {
			t.Fatal(errorMessages(resp.Errors))
		}
		want := map[string]interface{}{
			"a": map[string]interface{}{"value": 1},
			"b": map[string]interface{}{"value": 2},
		}
		if diff := cmp.Diff(want, resp.Data); diff != "" {
			t.Errorf("Data (-want +got):\n%s", diff)
		}
	})
}

func TestMiddlewareOrder(t *testing.T) {
	var trace []string
	mark := func(name string) FieldMiddleware {
		return func(next FieldDelegate) FieldDelegate {
			return func(fc FieldContext) error {
				trace = append(trace, name)
				return next(fc)
			}
		}
	}
	query := &Object{
		Name: "Query",
		Fields: []*Field{{
			Name:       "f",
			Middleware: []FieldMiddleware{mark("field1"), mark("field2")},
			Resolve: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				trace = append(trace, "resolver")
				return true, nil
			},
		}},
	}
	schema, err := NewSchema(query, nil)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := NewServer(schema, mark("server1"), mark("server2"))
	if err != nil {
		t.Fatal(err)
	}
	resp := srv.Execute(context.Background(), Request{Selections: []*Selection{{Name: "f"}}})
	if len(resp.Errors) > 0 {
		t.Fatal(errorMessages(resp.Errors))
	}
	want := []string{"server1", "server2", "field1", "field2", "resolver"}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("call order (-want +got):\n%s", diff)
	}
}

func TestMiddlewareRewritesResult(t *testing.T) {
	query := &Object{
		Name: "Query",
		Fields: []*Field{{
			Name: "greeting",
			Resolve: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return "hello", nil
			},
		}},
	}
	upper := func(next FieldDelegate) FieldDelegate {
		return func(fc FieldContext) error {
			if err := next(fc); err != nil {
				return err
			}
			if s, ok := fc.Result().(string); ok {
				fc.SetResult(strings.ToUpper(s))
			}
			return nil
		}
	}
	schema, err := NewSchema(query, nil)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := NewServer(schema, upper)
	if err != nil {
		t.Fatal(err)
	}
	resp := srv.Execute(context.Background(), Request{Selections: []*Selection{{Name: "greeting"}}})
	if len(resp.Errors) > 0 {
		t.Fatal(errorMessages(resp.Errors))
	}
	if got := resp.Data["greeting"]; got != "HELLO" {
		t.Errorf("Data[\"greeting\"] = %v; want \"HELLO\"", got)
	}
}

func TestShortCircuit(t *testing.T) {
	var resolved int32
	query := &Object{
		Name: "Query",
		Fields: []*Field{{
			Name: "f",
			Resolve: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				atomic.AddInt32(&resolved, 1)
				return "value", nil
			},
		}},
	}
	report := func(next FieldDelegate) FieldDelegate {
		return func(fc FieldContext) error {
			e, err := NewErrorBuilder().SetMessage("first").Build()
			if err != nil {
				return err
			}
			fc.ReportError(e)
			e, err = NewErrorBuilder().SetMessage("second").SetPath(PathSegment{Field: "custom"}).Build()
			if err != nil {
				return err
			}
			fc.ReportError(e)
			return nil
		}
	}
	schema, err := NewSchema(query, nil)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := NewServer(schema, report)
	if err != nil {
		t.Fatal(err)
	}
	resp := srv.Execute(context.Background(), Request{Selections: []*Selection{{Name: "f"}}})
	if n := atomic.LoadInt32(&resolved); n != 0 {
		t.Errorf("resolver called %d times; want 0", n)
	}
	if diff := cmp.Diff([]string{"first", "second"}, errorMessages(resp.Errors)); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
	var paths [][]PathSegment
	for _, e := range resp.Errors {
		paths = append(paths, e.Path())
	}
	wantPaths := [][]PathSegment{{{Field: "f"}}, {{Field: "custom"}}}
	if diff := cmp.Diff(wantPaths, paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
	if v, ok := resp.Data["f"]; !ok || v != nil {
		t.Errorf("Data[\"f\"] = %v, %t; want nil, true", v, ok)
	}
}

func TestNewSchema(t *testing.T) {
	resolve := func(ctx context.Context, args map[string]interface{}) (interface{}, error) { return nil, nil }
	tests := []struct {
		name    string
		query   *Object
		wantErr bool
	}{
		{name: "Nil", query: nil, wantErr: true},
		{name: "Unnamed", query: &Object{}, wantErr: true},
		{
			name:    "NoResolver",
			query:   &Object{Name: "Query", Fields: []*Field{{Name: "f"}}},
			wantErr: true,
		},
		{
			name: "DuplicateField",
			query: &Object{Name: "Query", Fields: []*Field{
				{Name: "f", Resolve: resolve},
				{Name: "f", Resolve: resolve},
			}},
			wantErr: true,
		},
		{
			name: "DuplicateArgument",
			query: &Object{Name: "Query", Fields: []*Field{{
				Name:      "f",
				Resolve:   resolve,
				Arguments: []*Argument{{Name: "a", Type: "Int"}, {Name: "a", Type: "Int"}},
			}}},
			wantErr: true,
		},
		{
			name: "Valid",
			query: &Object{Name: "Query", Fields: []*Field{{
				Name:      "f",
				Resolve:   resolve,
				Arguments: []*Argument{{Name: "a", Type: "[Int!]!"}},
			}}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewSchema(test.query, nil)
			if (err != nil) != test.wantErr {
				t.Errorf("NewSchema(...) error = %v; wantErr = %t", err, test.wantErr)
			}
		})
	}
}

func TestArgumentType(t *testing.T) {
	tests := []struct {
		typ     string
		named   string
		nonNull bool
	}{
		{"String", "String", false},
		{"String!", "String", true},
		{"[UserInput!]!", "UserInput", true},
		{"[UserInput]", "UserInput", false},
	}
	for _, test := range tests {
		arg := &Argument{Name: "a", Type: test.typ}
		if got := arg.NamedType(); got != test.named {
			t.Errorf("(&Argument{Type: %q}).NamedType() = %q; want %q", test.typ, got, test.named)
		}
		if got := arg.NonNull(); got != test.nonNull {
			t.Errorf("(&Argument{Type: %q}).NonNull() = %t; want %t", test.typ, got, test.nonNull)
		}
	}
}

func TestContextData(t *testing.T) {
	type key struct{}
	arg := new(Argument)
	if got := arg.ContextValue(key{}); got != nil {
		t.Errorf("ContextValue on empty argument = %v; want nil", got)
	}
	arg.SetContextValue(key{}, "v")
	if got := arg.ContextValue(key{}); got != "v" {
		t.Errorf("ContextValue = %v; want v", got)
	}
}

func TestResponseMarshalJSONOrder(t *testing.T) {
	resp := Response{
		Data: map[string]interface{}{"b": 1, "a": 2},
		keys: []string{"b", "a"},
	}
	got, err := resp.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(`{"data":{"b":1,"a":2}}`, string(got), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("MarshalJSON() (-want +got):\n%s", diff)
	}
}
