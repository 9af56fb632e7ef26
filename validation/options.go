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

	"zombiezen.com/go/graphql-validation/graphql"
)

// Options holds the validation configuration for one tier: the global
// defaults of an Interceptor, a field, an argument, or a single invocation.
// Each facet is either set or unset; an unset facet is inherited from the
// next tier down. A facet set to an empty list is still set.
type Options struct {
	skip      override[SkipFunc]
	providers override[[]Provider]
	mappers   override[[]ErrorMapper]
}

// An Option sets facets of Options.
type Option func(*Options)

type override[T any] struct {
	value T
	set   bool
}

func (o *override[T]) setTo(v T) {
	o.value = v
	o.set = true
}

// SkipFunc decides whether validation of one argument should be bypassed for
// the current invocation.
type SkipFunc func(ctx context.Context, sc *SkipContext) (bool, error)

// SkipContext is passed to a SkipFunc.
type SkipContext struct {
	Field    graphql.FieldContext
	Argument *graphql.Argument
}

func neverSkip(context.Context, *SkipContext) (bool, error) {
	return false, nil
}

func alwaysSkip(context.Context, *SkipContext) (bool, error) {
	return true, nil
}

// SkipValidation disables validation without removing the rest of the
// configuration.
func SkipValidation() Option {
	return SkipWhen(alwaysSkip)
}

// SkipWhen sets the skip predicate. A nil function never skips.
func SkipWhen(f SkipFunc) Option {
	if f == nil {
		f = neverSkip
	}
	return func(o *Options) {
		o.skip.setTo(f)
	}
}

// WithValidators appends a Static provider for each validator.
func WithValidators(validators ...InputValidator) Option {
	providers := make([]Provider, 0, len(validators))
	for _, v := range validators {
		providers = append(providers, Static(v))
	}
	return WithProviders(providers...)
}

// WithProviders appends validator providers. Calling it with no providers
// still sets the facet, which disables validation for the tier.
func WithProviders(providers ...Provider) Option {
	return func(o *Options) {
		list := append([]Provider(nil), o.providers.value...)
		o.providers.setTo(append(list, providers...))
	}
}

// WithErrorMappers appends error mappers. Calling it with no mappers still
// sets the facet.
func WithErrorMappers(mappers ...ErrorMapper) Option {
	return func(o *Options) {
		list := append([]ErrorMapper(nil), o.mappers.value...)
		o.mappers.setTo(append(list, mappers...))
	}
}

func (o *Options) apply(opts []Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) clone() *Options {
	if o == nil {
		return new(Options)
	}
	o2 := *o
	return &o2
}

type argumentOptionsKey struct{}

type fieldOptionsKey struct{}

type overrideKey struct{}

// Configure enables validation of arg and applies opts to its tier. An
// argument with no attached configuration is never validated, so Configure
// must be called even when the argument has no options of its own. Calling
// Configure more than once accumulates options. It must be called before the
// argument's schema is built.
func Configure(arg *graphql.Argument, opts ...Option) *graphql.Argument {
	o, _ := arg.ContextValue(argumentOptionsKey{}).(*Options)
	if o == nil {
		o = new(Options)
		arg.SetContextValue(argumentOptionsKey{}, o)
	}
	o.apply(opts)
	return arg
}

// ConfigureField applies opts to the field tier, which sits between a
// field's arguments and the global options. It does not enable validation
// of any argument.
func ConfigureField(f *graphql.Field, opts ...Option) *graphql.Field {
	o, _ := f.ContextValue(fieldOptionsKey{}).(*Options)
	if o == nil {
		o = new(Options)
		f.SetContextValue(fieldOptionsKey{}, o)
	}
	o.apply(opts)
	return f
}

// WithOverride returns a context whose invocations use opts ahead of every
// other tier. Overrides already present in ctx are kept unless opts sets the
// same facet.
func WithOverride(ctx context.Context, opts ...Option) context.Context {
	prev, _ := ctx.Value(overrideKey{}).(*Options)
	return context.WithValue(ctx, overrideKey{}, prev.clone().apply(opts))
}

func argumentOptions(arg *graphql.Argument) (*Options, bool) {
	o, ok := arg.ContextValue(argumentOptionsKey{}).(*Options)
	return o, ok && o != nil
}

func fieldOptions(f *graphql.Field) *Options {
	o, _ := f.ContextValue(fieldOptionsKey{}).(*Options)
	return o
}

func overrideOptions(ctx context.Context) *Options {
	o, _ := ctx.Value(overrideKey{}).(*Options)
	return o
}

// effectiveOptions is the configuration used to validate one argument.
type effectiveOptions struct {
	skip      SkipFunc
	providers []Provider
	mappers   []ErrorMapper
}

// resolveOptions picks each facet from the first tier that sets it. Tiers are
// ordered from most to least specific; nil tiers are ignored.
func resolveOptions(tiers ...*Options) effectiveOptions {
	eff := effectiveOptions{
		skip:      pick(tiers, func(o *Options) override[SkipFunc] { return o.skip }),
		providers: pick(tiers, func(o *Options) override[[]Provider] { return o.providers }),
		mappers:   pick(tiers, func(o *Options) override[[]ErrorMapper] { return o.mappers }),
	}
	if eff.skip == nil {
		eff.skip = neverSkip
	}
	return eff
}

func pick[T any](tiers []*Options, facet func(*Options) override[T]) T {
	for _, o := range tiers {
		if o == nil {
			continue
		}
		if f := facet(o); f.set {
			return f.value
		}
	}
	var zero T
	return zero
}
