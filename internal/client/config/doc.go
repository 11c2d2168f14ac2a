// Package config loads runtime configuration for the admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the admin backend
//	-s string   credential header scheme: bearer or legacy
//	-d string   path of the local SQLite credential database
//	-t int      request timeout (seconds)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "header_scheme": "bearer",
//	  "credentials_db": "admin.db",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
package config
