package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nullsec/nkauth/internal/flagx"
	"github.com/nullsec/nkauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file.
type JsonConfig struct {
	DataDir    string         `json:"data_dir"`
	Backend    string         `json:"backend"`
	SessionTTL timex.Duration `json:"session_ttl"`
	LogLevel   string         `json:"log_level"`
	LogFormat  string         `json:"log_format"`
}

// parseJson overlays the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.DataDir != "" {
		config.DataDir = c.DataDir
	}
	if c.Backend != "" {
		config.Backend = c.Backend
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
	return nil
}
