package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults.
const (
	DefaultDataDir    = "~/.nullkia/auth"
	DefaultBackend    = "json"
	DefaultSessionTTL = 24 * time.Hour
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config holds runtime settings for nkauth.
type Config struct {
	DataDir    string        `split_words:"true" validate:"required"`
	Backend    string        `split_words:"true" validate:"oneof=json sqlite memory"`
	SessionTTL time.Duration `split_words:"true" validate:"gt=0"`
	LogLevel   string        `split_words:"true" validate:"oneof=debug info warn error"`
	LogFormat  string        `split_words:"true" validate:"oneof=text json"`
}

// LoadDefaults sets the built-in defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = DefaultDataDir
	c.Backend = DefaultBackend
	c.SessionTTL = DefaultSessionTTL
	c.LogLevel = DefaultLogLevel
	c.LogFormat = DefaultLogFormat
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and the process command line, in that order.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig with explicit arguments.
func Load(args []string) (*Config, error) {
	config := &Config{}
	config.LoadDefaults()

	if err := parseJson(config, args); err != nil {
		return nil, err
	}
	if err := parseEnv(config); err != nil {
		return nil, err
	}
	if err := parseFlags(config, args); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
