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
Package graphql provides the field execution surface that request-time
middleware plugs into: field and argument descriptors, the per-invocation
FieldContext, field pipelines, and the errors that fields report.

Descriptors

A schema is made of Objects whose Fields declare Arguments. Descriptors carry
a bag of context data (SetContextValue/ContextValue) that packages use to
attach their own configuration while the schema is being built. Once a
descriptor has been passed to NewSchema it must be treated as read-only; the
server reads it concurrently from every request.

Pipelines

Every field resolves through a pipeline of FieldMiddleware wrapped around the
field's Resolver:

	server middleware → field middleware → resolver

A middleware continues the pipeline by calling next and short-circuits it by
returning without doing so. Errors reported through FieldContext.ReportError
are data: the field resolves to null and each error is added to the response.
An error returned from a delegate is a fault and is added to the response the
same way, but is also logged.

Errors

Errors are built with an ErrorBuilder and are immutable afterward. Extensions
keep their insertion order, both in Error.Extensions and in the JSON form.
*/
package graphql
