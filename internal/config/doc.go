// Package config loads runtime configuration for nkauth.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed with NKAUTH_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d string     data directory (default ~/.nullkia/auth)
//	-b string     storage backend: json or sqlite
//	-t duration   session lifetime, e.g. 24h
//	-l string     log level: debug, info, warn, error
//
// Environment
//
//	NKAUTH_DATA_DIR, NKAUTH_BACKEND, NKAUTH_SESSION_TTL,
//	NKAUTH_LOG_LEVEL, NKAUTH_LOG_FORMAT
//
// # JSON schema
//
// Durations use timex.Duration, so "24h" and integer nanoseconds both work:
//
//	{
//	  "data_dir": "/var/lib/nkauth",
//	  "backend": "sqlite",
//	  "session_ttl": "12h",
//	  "log_level": "debug",
//	  "log_format": "json"
//	}
//
// Fields missing from the file keep their previous value.
package config
