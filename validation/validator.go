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

import "context"

// Validator evaluates rules against a value. It is the contract of the
// underlying rule engine. Implementations must be safe to call from multiple
// goroutines and should return ctx.Err() promptly once ctx is done.
//
// A returned error is a fault, not a validation failure: it is passed to the
// execution engine unchanged.
type Validator interface {
	Validate(ctx context.Context, vc *ValidationContext) (*Result, error)
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(ctx context.Context, vc *ValidationContext) (*Result, error)

// Validate returns f(ctx, vc).
func (f ValidatorFunc) Validate(ctx context.Context, vc *ValidationContext) (*Result, error) {
	return f(ctx, vc)
}

// ValidationContext is the input to a Validator.
type ValidationContext struct {
	// Value is the argument value being validated. It is never nil.
	Value interface{}
	// Strategy restricts which rules run. May be nil.
	Strategy *Strategy
}

// InputValidator validates one argument value.
type InputValidator interface {
	ValidateInput(ctx context.Context, value interface{}) (*Result, error)
}

// InputValidatorFunc is a function that implements InputValidator.
type InputValidatorFunc func(ctx context.Context, value interface{}) (*Result, error)

// ValidateInput returns f(ctx, value).
func (f InputValidatorFunc) ValidateInput(ctx context.Context, value interface{}) (*Result, error) {
	return f(ctx, value)
}

// FromValidator returns an InputValidator that runs v with no strategy.
func FromValidator(v Validator) InputValidator {
	return &inputValidator{validator: v}
}

// FromValidatorWithStrategy returns an InputValidator that runs v with the
// strategy built by configure. configure is called once, immediately.
func FromValidatorWithStrategy(v Validator, configure func(*Strategy)) InputValidator {
	s := new(Strategy)
	if configure != nil {
		configure(s)
	}
	return &inputValidator{validator: v, strategy: s.clone()}
}

type inputValidator struct {
	validator Validator
	strategy  *Strategy
}

func (iv *inputValidator) ValidateInput(ctx context.Context, value interface{}) (*Result, error) {
	return iv.validator.Validate(ctx, &ValidationContext{
		Value:    value,
		Strategy: iv.strategy,
	})
}
