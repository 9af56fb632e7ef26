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

import "zombiezen.com/go/graphql-validation/graphql"

// DefaultCode is the error code set by DefaultErrorMapper.
const DefaultCode = "VALIDATION_ERROR"

// Extension keys written by the built-in error mappers.
const (
	ExtensionCode           = "code"
	ExtensionValidator      = "validator"
	ExtensionArgument       = "argument"
	ExtensionProperty       = "property"
	ExtensionSeverity       = "severity"
	ExtensionAttemptedValue = "attemptedValue"
	ExtensionMetadata       = "metadata"
)

// ErrorMapper contributes to the error built for one validation failure.
// Mappers run in registration order against the same builder, so a mapper
// sees and may overwrite what earlier mappers set.
type ErrorMapper func(b *graphql.ErrorBuilder, mc *MappingContext)

// MappingContext is passed to an ErrorMapper.
type MappingContext struct {
	Field    graphql.FieldContext
	Argument *graphql.Argument
	// Result is the whole result that Failure belongs to.
	Result  *Result
	Failure *Failure
}

// DefaultErrorMapper sets DefaultCode as the error code and as the "code"
// extension, and the failure's message as the error message.
func DefaultErrorMapper(b *graphql.ErrorBuilder, mc *MappingContext) {
	CodeErrorMapper(DefaultCode)(b, mc)
}

// CodeErrorMapper returns a mapper like DefaultErrorMapper that uses the given
// code.
func CodeErrorMapper(code string) ErrorMapper {
	return func(b *graphql.ErrorBuilder, mc *MappingContext) {
		b.SetCode(code).
			SetExtension(ExtensionCode, code).
			SetMessage(mc.Failure.Message)
	}
}

// DetailsErrorMapper adds the failing validator, the argument name, the
// property path, the severity and the attempted value as extensions, plus the
// failure's metadata when it has any.
func DetailsErrorMapper(b *graphql.ErrorBuilder, mc *MappingContext) {
	b.SetExtension(ExtensionValidator, mc.Failure.Validator).
		SetExtension(ExtensionArgument, mc.Argument.Name).
		SetExtension(ExtensionProperty, mc.Failure.Property).
		SetExtension(ExtensionSeverity, mc.Failure.Severity).
		SetExtension(ExtensionAttemptedValue, mc.Failure.AttemptedValue)
	if len(mc.Failure.Metadata) > 0 {
		b.SetExtension(ExtensionMetadata, mc.Failure.Metadata)
	}
}
