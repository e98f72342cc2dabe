package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "NKAUTH"

// parseEnv overlays NKAUTH_* variables. Unset variables leave fields as is.
func parseEnv(config *Config) error {
	if err := envconfig.Process(envPrefix, config); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}
