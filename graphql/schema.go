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
	"strings"

	"golang.org/x/xerrors"
)

// Resolver computes the value of a field from its coerced arguments.
type Resolver func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Argument describes one declared argument of a field.
//
// Arguments are built before NewSchema is called and must not be modified
// afterward.
type Argument struct {
	Name string
	// Type is the GraphQL type reference, like "String!" or "[UserInput]".
	Type string
	// DefaultValue is used when the argument is not supplied. nil means the
	// argument has no default.
	DefaultValue interface{}

	contextData
}

// NamedType returns the argument's type with any list and non-null wrappers
// removed. For example, the named type of "[UserInput!]!" is "UserInput".
func (arg *Argument) NamedType() string {
	return strings.Trim(arg.Type, "[]!")
}

// NonNull reports whether the argument's type is non-null.
func (arg *Argument) NonNull() bool {
	return strings.HasSuffix(arg.Type, "!")
}

// Field describes a field on an object type.
//
// Fields are built before NewSchema is called and must not be modified
// afterward.
type Field struct {
	Name      string
	Arguments []*Argument
	Resolve   Resolver
	// Middleware wraps the resolver. The first element is the outermost.
	Middleware []FieldMiddleware

	contextData
}

// Argument returns the declared argument with the given name or nil if the
// field doesn't declare it.
func (f *Field) Argument(name string) *Argument {
	for _, arg := range f.Arguments {
		if arg.Name == name {
			return arg
		}
	}
	return nil
}

// Object is an object type: a named set of fields.
type Object struct {
	Name   string
	Fields []*Field
}

func (obj *Object) field(name string) *Field {
	if obj == nil {
		return nil
	}
	for _, f := range obj.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Schema is a checked set of operation root types. It is safe to use from
// multiple goroutines.
type Schema struct {
	query    *Object
	mutation *Object
}

// NewSchema checks the query and optional mutation root types and returns a
// schema that can be served.
func NewSchema(query, mutation *Object) (*Schema, error) {
	if query == nil {
		return nil, xerrors.New("new schema: query type is required")
	}
	if err := checkObject(query); err != nil {
		return nil, xerrors.Errorf("new schema: %w", err)
	}
	if mutation != nil {
		if err := checkObject(mutation); err != nil {
			return nil, xerrors.Errorf("new schema: %w", err)
		}
	}
	return &Schema{query: query, mutation: mutation}, nil
}

func checkObject(obj *Object) error {
	if obj.Name == "" {
		return xerrors.New("object type has no name")
	}
	seen := make(map[string]struct{}, len(obj.Fields))
	for _, f := range obj.Fields {
		if f.Name == "" {
			return xerrors.Errorf("%s: field has no name", obj.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return xerrors.Errorf("%s.%s: field declared twice", obj.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Resolve == nil {
			return xerrors.Errorf("%s.%s: no resolver", obj.Name, f.Name)
		}
		argNames := make(map[string]struct{}, len(f.Arguments))
		for _, arg := range f.Arguments {
			if arg.Name == "" || arg.Type == "" {
				return xerrors.Errorf("%s.%s: argument must have a name and a type", obj.Name, f.Name)
			}
			if _, dup := argNames[arg.Name]; dup {
				return xerrors.Errorf("%s.%s: argument %s declared twice", obj.Name, f.Name, arg.Name)
			}
			argNames[arg.Name] = struct{}{}
		}
	}
	return nil
}

// contextData is a bag of values attached to a descriptor while the schema
// is being built. Keys should be unexported types owned by the package that
// writes them, like context.Context keys.
type contextData struct {
	data map[interface{}]interface{}
}

// ContextValue returns the value attached under key or nil.
func (cd *contextData) ContextValue(key interface{}) interface{} {
	return cd.data[key]
}

// SetContextValue attaches a value to the descriptor. It must only be called
// before the descriptor is passed to NewSchema.
func (cd *contextData) SetContextValue(key, value interface{}) {
	if cd.data == nil {
		cd.data = make(map[interface{}]interface{})
	}
	cd.data[key] = value
}
