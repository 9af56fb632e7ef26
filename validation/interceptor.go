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
	"context"

	"github.com/rs/zerolog"
	"go.opencensus.io/trace"
	"golang.org/x/xerrors"
	"zombiezen.com/go/graphql-validation/graphql"
)

// Interceptor validates the arguments of field invocations before their
// resolvers run. It is safe to use from multiple goroutines.
type Interceptor struct {
	global   *Options
	defaults *Options
}

// New returns an interceptor whose global options are opts. Facets opts
// leaves unset use the defaults: never skip, DefaultProvider and
// DefaultErrorMapper.
func New(opts ...Option) *Interceptor {
	defaults := new(Options)
	defaults.skip.setTo(neverSkip)
	defaults.providers.setTo([]Provider{DefaultProvider})
	defaults.mappers.setTo([]ErrorMapper{DefaultErrorMapper})
	return &Interceptor{
		global:   new(Options).apply(opts),
		defaults: defaults,
	}
}

// Middleware returns the interceptor as a field middleware.
func (ic *Interceptor) Middleware() graphql.FieldMiddleware {
	return func(next graphql.FieldDelegate) graphql.FieldDelegate {
		return func(fc graphql.FieldContext) error {
			return ic.Intercept(fc, next)
		}
	}
}

// Intercept validates the configured arguments of the invocation. If any
// validation failure occurs, each one is reported as an error and next is not
// called. Faults from skip predicates, providers, validators and the error
// builder, including cancellation, are returned as-is and nothing is
// reported.
//
// Invocations that were not given any arguments are passed straight to next.
func (ic *Interceptor) Intercept(fc graphql.FieldContext, next graphql.FieldDelegate) error {
	if len(fc.Selection().Arguments) == 0 {
		return next(fc)
	}
	errs, err := ic.validate(fc.Context(), fc)
	if err != nil {
		return err
	}
	for _, e := range errs {
		fc.ReportError(e)
	}
	if fc.HasErrors() {
		return nil
	}
	return next(fc)
}

// validate returns the errors for every failure of every configured argument
// of the invocation, in declaration order.
func (ic *Interceptor) validate(ctx context.Context, fc graphql.FieldContext) (_ []*graphql.Error, err error) {
	field := fc.Field()
	ctx, span := trace.StartSpan(ctx, "graphql-validation.Intercept")
	span.AddAttributes(trace.StringAttribute("graphql.field", field.Name))
	defer func() {
		if err != nil {
			span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()})
		}
		span.End()
	}()
	log := zerolog.Ctx(ctx)

	invocationTier := overrideOptions(ctx)
	fieldTier := fieldOptions(field)
	var errs []*graphql.Error
	for _, arg := range field.Arguments {
		argTier, ok := argumentOptions(arg)
		if !ok {
			continue
		}
		eff := resolveOptions(invocationTier, argTier, fieldTier, ic.global, ic.defaults)
		skip, err := eff.skip(ctx, &SkipContext{Field: fc, Argument: arg})
		if err != nil {
			return nil, err
		}
		if skip {
			log.Debug().Str("field", field.Name).Str("argument", arg.Name).Msg("argument validation skipped")
			continue
		}
		value := fc.ArgumentValue(arg.Name)
		if value == nil {
			continue
		}
		argErrs, err := validateArgument(ctx, fc, arg, value, eff)
		if err != nil {
			return nil, err
		}
		if len(argErrs) > 0 {
			log.Debug().
				Str("field", field.Name).
				Str("argument", arg.Name).
				Int("failures", len(argErrs)).
				Msg("argument failed validation")
			recordFailures(ctx, field.Name, arg.Name, len(argErrs))
		}
		errs = append(errs, argErrs...)
	}
	// A validator may have returned a result after cancellation. Drop
	// everything rather than report a partial set.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span.AddAttributes(trace.Int64Attribute("validation.failures", int64(len(errs))))
	return errs, nil
}

func validateArgument(ctx context.Context, fc graphql.FieldContext, arg *graphql.Argument, value interface{}, eff effectiveOptions) ([]*graphql.Error, error) {
	var errs []*graphql.Error
	for i, provider := range eff.providers {
		v, err := provider(&ProviderContext{Field: fc, Argument: arg})
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, xerrors.Errorf("validate argument %s: provider %d returned no validator", arg.Name, i)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := v.ValidateInput(ctx, value)
		if err != nil {
			return nil, err
		}
		if result.IsValid() {
			continue
		}
		for _, failure := range result.Failures {
			if failure == nil {
				continue
			}
			e, err := mapFailure(eff.mappers, &MappingContext{
				Field:    fc,
				Argument: arg,
				Result:   result,
				Failure:  failure,
			})
			if err != nil {
				return nil, err
			}
			errs = append(errs, e)
		}
	}
	return errs, nil
}

// mapFailure runs the mapper chain over a fresh builder.
func mapFailure(mappers []ErrorMapper, mc *MappingContext) (*graphql.Error, error) {
	b := graphql.NewErrorBuilder()
	for _, m := range mappers {
		m(b, mc)
	}
	return b.Build()
}
