// Package config holds shared configuration helpers for command wiring.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target's `env`-tagged fields from environment variables.
// Fields without a matching variable keep their current values, so callers
// set defaults before parsing.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
