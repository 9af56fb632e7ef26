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

/*
Package validation validates GraphQL field arguments at request time.

An Interceptor is installed as field middleware. For every invocation that
was given at least one argument, it walks the field's declared arguments,
validates those that have been configured with Configure, and reports one
error per validation failure. If any error was reported, the field's resolver
is not called and the field resolves to null.

Configuration

Validation is configured in tiers. Each tier may set any of three facets:
the skip predicate, the list of validator providers and the list of error
mappers. For each argument, each facet is taken from the first tier that sets
it:

	invocation (WithOverride) → argument (Configure) → field (ConfigureField) → global (New) → defaults

Lists are never merged across tiers: an argument that sets its own error
mappers replaces the global ones entirely. Within one tier, list options
accumulate.

Only arguments passed to Configure are validated, even if Configure was given
no options. Arguments whose value is null, and arguments that were neither
supplied nor have a default, are skipped. Default values are validated like
supplied ones.

Validators

A Validator is the rule engine: it evaluates rules against a value and
returns a Result listing Failures. InputValidator pairs a Validator with an
optional Strategy. Providers produce InputValidators per invocation, so they
can use request-scoped services; DefaultProvider looks up a validator by the
argument's named type.

Every provider of an argument runs, in order, even after an earlier one
failed. Errors returned from providers, validators and skip predicates are
faults, not validation failures: they are returned unchanged to the
execution engine and no validation errors are reported for the invocation.

Errors

Each failure is turned into an error by running the error mapper chain over
a fresh graphql.ErrorBuilder. DefaultErrorMapper sets the code and message;
DetailsErrorMapper adds extensions describing the failure. If the chain
leaves the builder without a message, the builder's error is returned as a
fault just like a validator's.
*/
package validation
