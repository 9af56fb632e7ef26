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
	"golang.org/x/xerrors"
	"zombiezen.com/go/graphql-validation/graphql"
)

// ErrServiceNotRegistered is wrapped by provider errors when the request's
// services have nothing registered under the requested key.
var ErrServiceNotRegistered = xerrors.New("service not registered")

// Provider yields the InputValidator to run against one argument for the
// current invocation. A returned error is a fault.
type Provider func(pc *ProviderContext) (InputValidator, error)

// ProviderContext is passed to a Provider.
type ProviderContext struct {
	Field    graphql.FieldContext
	Argument *graphql.Argument
}

// Static returns a provider that always yields v.
func Static(v InputValidator) Provider {
	return func(*ProviderContext) (InputValidator, error) {
		if v == nil {
			return nil, xerrors.New("static provider: nil validator")
		}
		return v, nil
	}
}

// FromService returns a provider that looks up key in the request's services.
// The service must be an InputValidator or a Validator; a Validator is run
// with no strategy.
func FromService(key interface{}) Provider {
	return func(pc *ProviderContext) (InputValidator, error) {
		svc, ok := pc.Field.Services().Service(key)
		if !ok {
			return nil, xerrors.Errorf("validator for argument %s: %v: %w", pc.Argument.Name, key, ErrServiceNotRegistered)
		}
		switch svc := svc.(type) {
		case InputValidator:
			return svc, nil
		case Validator:
			return FromValidator(svc), nil
		default:
			return nil, xerrors.Errorf("validator for argument %s: service %v is a %T, not a validator", pc.Argument.Name, key, svc)
		}
	}
}

// ValidatorKey is the service key under which DefaultProvider looks up the
// validator for arguments of a named GraphQL type.
type ValidatorKey string

// DefaultProvider resolves the validator registered under the ValidatorKey
// of the argument's named type, so a "CreateUserInput!" argument uses the
// service at ValidatorKey("CreateUserInput").
func DefaultProvider(pc *ProviderContext) (InputValidator, error) {
	return FromService(ValidatorKey(pc.Argument.NamedType()))(pc)
}
