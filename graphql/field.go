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

import "context"

// FieldContext is the state of one field invocation as seen by field
// middleware. A FieldContext is only valid for the duration of the call it
// was passed to.
type FieldContext interface {
	// Context returns the request's context.
	Context() context.Context
	// Field returns the descriptor of the field being resolved.
	Field() *Field
	// Selection returns the field as it was written in the request.
	Selection() *Selection
	// ArgumentValue returns the supplied value of the named argument, or its
	// default value if it was not supplied, or nil.
	ArgumentValue(name string) interface{}
	// Services returns the request-scoped services.
	Services() Services

	// ReportError adds an error for this field to the response.
	ReportError(err *Error)
	// HasErrors reports whether any error was reported for this field.
	HasErrors() bool

	// SetResult sets the field's value.
	SetResult(v interface{})
	// Result returns the value set by SetResult.
	Result() interface{}
}

// FieldDelegate is a stage of a field pipeline. A non-nil error is a fault:
// the field resolves to null and the error is added to the response.
type FieldDelegate func(fc FieldContext) error

// FieldMiddleware wraps a FieldDelegate. A middleware may short-circuit the
// pipeline by not calling next.
type FieldMiddleware func(next FieldDelegate) FieldDelegate

// Selection is a field requested by a client.
type Selection struct {
	// Alias is the response key to use instead of Name. May be empty.
	Alias string
	// Name is the field name.
	Name string
	// Arguments holds the arguments that were syntactically supplied. An
	// argument supplied as an explicit null is present with a nil value.
	Arguments map[string]interface{}
}

// Key returns the response key for the selection.
func (sel *Selection) Key() string {
	if sel.Alias != "" {
		return sel.Alias
	}
	return sel.Name
}

// Services resolves request-scoped dependencies.
type Services interface {
	// Service returns the service registered under key.
	Service(key interface{}) (interface{}, bool)
}

// ServiceMap is a Services backed by a map. The nil map has no services.
type ServiceMap map[interface{}]interface{}

// Service returns m[key].
func (m ServiceMap) Service(key interface{}) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}
