package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/nullsec/nkauth/internal/flagx"
)

// parseFlags overlays -d, -b, -t and -l. Other arguments (the -c flag,
// subcommands) are filtered out first.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-b", "-t", "-l"})

	fs := flag.NewFlagSet("nkauth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.Backend, "b", config.Backend, "storage backend (json|sqlite|memory)")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}
