// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from process environment variables.
func ParseEnv(target any) error {
	return parse(target, env.Options{})
}

// ParseEnvFrom loads configuration from the supplied variables only.
//
// The process environment is ignored, which keeps tests hermetic.
func ParseEnvFrom(target any, environment map[string]string) error {
	if environment == nil {
		environment = map[string]string{}
	}
	return parse(target, env.Options{Environment: environment})
}

func parse(target any, opts env.Options) error {
	if target == nil {
		return fmt.Errorf("parse env: config target is required")
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
