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
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// Server runs requests against a schema, passing every field through its
// middleware pipeline.
type Server struct {
	schema    *Schema
	pipelines map[*Field]FieldDelegate
}

// NewServer returns a new server for the given schema. The middleware wraps
// every field's own middleware and resolver; the first element is the
// outermost.
func NewServer(schema *Schema, middleware ...FieldMiddleware) (*Server, error) {
	if schema == nil {
		return nil, xerrors.New("new server: schema is required")
	}
	srv := &Server{
		schema:    schema,
		pipelines: make(map[*Field]FieldDelegate),
	}
	for _, obj := range []*Object{schema.query, schema.mutation} {
		if obj == nil {
			continue
		}
		for _, f := range obj.Fields {
			srv.pipelines[f] = buildPipeline(f, middleware)
		}
	}
	return srv, nil
}

func buildPipeline(f *Field, middleware []FieldMiddleware) FieldDelegate {
	d := resolverDelegate(f)
	for i := len(f.Middleware) - 1; i >= 0; i-- {
		d = f.Middleware[i](d)
	}
	for i := len(middleware) - 1; i >= 0; i-- {
		d = middleware[i](d)
	}
	return d
}

func resolverDelegate(f *Field) FieldDelegate {
	return func(fc FieldContext) error {
		args := make(map[string]interface{}, len(f.Arguments))
		for _, arg := range f.Arguments {
			if v := fc.ArgumentValue(arg.Name); v != nil {
				args[arg.Name] = v
			}
		}
		v, err := f.Resolve(fc.Context(), args)
		if err != nil {
			// Intentionally making the returned error opaque to avoid leaking
			// resolver error types into the response.
			return xerrors.Errorf("server error: %v", err)
		}
		fc.SetResult(v)
		return nil
	}
}

// Schema returns the schema passed to NewServer.
func (srv *Server) Schema() *Schema {
	return srv.schema
}

// OperationType represents the keywords used to declare operations.
type OperationType int

// Types of operations.
const (
	QueryOperation OperationType = iota
	MutationOperation
)

// String returns the keyword corresponding to the operation type.
func (typ OperationType) String() string {
	switch typ {
	case QueryOperation:
		return "query"
	case MutationOperation:
		return "mutation"
	default:
		return fmt.Sprintf("OperationType(%d)", int(typ))
	}
}

// Request holds the inputs for an execution.
type Request struct {
	// Operation selects the root type. The zero value is a query.
	Operation OperationType
	// Selections are the top-level fields to resolve.
	Selections []*Selection
	// Services are the request-scoped services handed to field middleware.
	// May be nil.
	Services Services
}

// Response holds the output of an execution.
type Response struct {
	// Data maps response keys to field values. It is nil if the request
	// failed before any field was executed.
	Data   map[string]interface{}
	Errors []*Error

	keys []string
}

// MarshalJSON converts the response to JSON format. Data keys are written in
// selection order.
func (resp Response) MarshalJSON() ([]byte, error) {
	var buf []byte
	buf = append(buf, '{')
	if len(resp.Errors) > 0 {
		buf = append(buf, `"errors":`...)
		errorsData, err := json.Marshal(resp.Errors)
		if err != nil {
			return buf, xerrors.Errorf("marshal response: %w", err)
		}
		buf = append(buf, errorsData...)
		if resp.Data != nil {
			buf = append(buf, ',')
		}
	}
	if resp.Data != nil {
		buf = append(buf, `"data":{`...)
		for i, key := range resp.dataKeys() {
			if i > 0 {
				buf = append(buf, ',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return buf, xerrors.Errorf("marshal response: %w", err)
			}
			v, err := json.Marshal(resp.Data[key])
			if err != nil {
				return buf, xerrors.Errorf("marshal response: field %s: %w", key, err)
			}
			buf = append(buf, k...)
			buf = append(buf, ':')
			buf = append(buf, v...)
		}
		buf = append(buf, '}')
	}
	buf = append(buf, '}')
	return buf, nil
}

func (resp Response) dataKeys() []string {
	if len(resp.keys) == len(resp.Data) {
		return resp.keys
	}
	keys := make([]string, 0, len(resp.Data))
	for k := range resp.Data {
		keys = append(keys, k)
	}
	return keys
}

// Execute runs a single request. Query fields are resolved concurrently and
// mutation fields one after another. It is safe to call Execute from multiple
// goroutines.
func (srv *Server) Execute(ctx context.Context, req Request) Response {
	root, err := srv.rootType(req.Operation)
	if err != nil {
		return Response{Errors: []*Error{{message: err.Error()}}}
	}
	fields, errs := checkSelections(root, req.Selections)
	if len(errs) > 0 {
		return Response{Errors: errs}
	}
	services := req.Services
	if services == nil {
		services = ServiceMap(nil)
	}

	results := make([]fieldResult, len(req.Selections))
	if req.Operation == MutationOperation {
		for i, sel := range req.Selections {
			results[i] = srv.executeField(ctx, fields[i], sel, services)
		}
	} else {
		var wg sync.WaitGroup
		for i, sel := range req.Selections {
			wg.Add(1)
			go func(i int, sel *Selection) {
				defer wg.Done()
				results[i] = srv.executeField(ctx, fields[i], sel, services)
			}(i, sel)
		}
		wg.Wait()
	}

	resp := Response{Data: make(map[string]interface{}, len(results))}
	for i, sel := range req.Selections {
		key := sel.Key()
		resp.Data[key] = results[i].value
		resp.keys = append(resp.keys, key)
		resp.Errors = append(resp.Errors, results[i].errs...)
	}
	return resp
}

func (srv *Server) rootType(typ OperationType) (*Object, error) {
	switch typ {
	case QueryOperation:
		return srv.schema.query, nil
	case MutationOperation:
		if srv.schema.mutation == nil {
			return nil, xerrors.New("schema does not support mutations")
		}
		return srv.schema.mutation, nil
	default:
		return nil, xerrors.New("unsupported operation type")
	}
}

// checkSelections verifies that every selection refers to a field of root
// with known arguments and that all non-null arguments have a value.
func checkSelections(root *Object, sels []*Selection) ([]*Field, []*Error) {
	fields := make([]*Field, len(sels))
	keys := make(map[string]struct{}, len(sels))
	var errs []*Error
	for i, sel := range sels {
		f := root.field(sel.Name)
		if f == nil {
			errs = append(errs, &Error{message: fmt.Sprintf("Cannot query field %q on type %q.", sel.Name, root.Name)})
			continue
		}
		fields[i] = f
		if _, dup := keys[sel.Key()]; dup {
			errs = append(errs, &Error{message: fmt.Sprintf("Response key %q is used more than once.", sel.Key())})
		}
		keys[sel.Key()] = struct{}{}
		for name := range sel.Arguments {
			if f.Argument(name) == nil {
				errs = append(errs, &Error{message: fmt.Sprintf("Unknown argument %q on field %q.", name, f.Name)})
			}
		}
		for _, arg := range f.Arguments {
			if !arg.NonNull() || arg.DefaultValue != nil {
				continue
			}
			if v := sel.Arguments[arg.Name]; v == nil {
				errs = append(errs, &Error{message: fmt.Sprintf("Argument %q of required type %q was not provided.", arg.Name, arg.Type)})
			}
		}
	}
	return fields, errs
}

type fieldResult struct {
	value interface{}
	errs  []*Error
}

func (srv *Server) executeField(ctx context.Context, f *Field, sel *Selection, services Services) fieldResult {
	fc := &fieldContext{
		ctx:      ctx,
		field:    f,
		sel:      sel,
		services: services,
	}
	if err := srv.pipelines[f](fc); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("field", f.Name).Msg("field pipeline failed")
		fc.ReportError(toError(err))
	}
	if len(fc.errs) == 0 {
		return fieldResult{value: fc.result}
	}
	path := []PathSegment{{Field: sel.Key()}}
	errs := make([]*Error, len(fc.errs))
	for i, e := range fc.errs {
		if len(e.path) == 0 {
			e = e.withPath(path)
		}
		errs[i] = e
	}
	return fieldResult{errs: errs}
}

func toError(err error) *Error {
	var e *Error
	if xerrors.As(err, &e) {
		return e
	}
	return &Error{message: err.Error()}
}

func (e *Error) withPath(path []PathSegment) *Error {
	e2 := new(Error)
	*e2 = *e
	e2.path = append([]PathSegment(nil), path...)
	return e2
}

type fieldContext struct {
	ctx      context.Context
	field    *Field
	sel      *Selection
	services Services

	result interface{}
	errs   []*Error
}

func (fc *fieldContext) Context() context.Context { return fc.ctx }
func (fc *fieldContext) Field() *Field            { return fc.field }
func (fc *fieldContext) Selection() *Selection    { return fc.sel }
func (fc *fieldContext) Services() Services       { return fc.services }
func (fc *fieldContext) HasErrors() bool          { return len(fc.errs) > 0 }
func (fc *fieldContext) SetResult(v interface{})  { fc.result = v }
func (fc *fieldContext) Result() interface{}      { return fc.result }

func (fc *fieldContext) ArgumentValue(name string) interface{} {
	if v, ok := fc.sel.Arguments[name]; ok {
		return v
	}
	if arg := fc.field.Argument(name); arg != nil {
		return arg.DefaultValue
	}
	return nil
}

func (fc *fieldContext) ReportError(err *Error) {
	if err == nil {
		return
	}
	fc.errs = append(fc.errs, err)
}
