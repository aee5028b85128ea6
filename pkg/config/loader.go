package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct using its `env`
// tags. Extra options (for instance a Prefix or an Environment map in tests)
// are passed straight to env.ParseWithOptions.
func Load(cfg any, opts ...env.Options) error {
	var err error
	if len(opts) > 0 {
		err = env.ParseWithOptions(cfg, opts[0])
	} else {
		err = env.Parse(cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
