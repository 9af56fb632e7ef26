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
	"github.com/caarlos0/env/v11"
	"golang.org/x/xerrors"
)

// EnvPrefix is the prefix of the environment variables read by LoadConfig.
const EnvPrefix = "GRAPHQL_VALIDATION_"

// Config holds process-wide settings for the global tier of an Interceptor.
type Config struct {
	// Disabled skips validation of every argument unless a more specific tier
	// sets its own skip predicate.
	Disabled bool `env:"DISABLED"`
	// ErrorCode is the code given to validation errors.
	ErrorCode string `env:"ERROR_CODE" envDefault:"VALIDATION_ERROR"`
	// Details adds DetailsErrorMapper after the code mapper.
	Details bool `env:"DETAILS"`
}

// LoadConfig reads a Config from GRAPHQL_VALIDATION_* environment variables.
func LoadConfig() (*Config, error) {
	cfg := new(Config)
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, xerrors.Errorf("load validation config: %w", err)
	}
	return cfg, nil
}

// Options returns the global options described by cfg.
func (cfg *Config) Options() []Option {
	code := cfg.ErrorCode
	if code == "" {
		code = DefaultCode
	}
	mappers := []ErrorMapper{CodeErrorMapper(code)}
	if cfg.Details {
		mappers = append(mappers, DetailsErrorMapper)
	}
	opts := []Option{WithErrorMappers(mappers...)}
	if cfg.Disabled {
		opts = append(opts, SkipValidation())
	}
	return opts
}
