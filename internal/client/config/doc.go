// Package config loads runtime configuration for the storefront CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the storefront REST API
//	-t int      per-request timeout (seconds)
//	-d string   directory holding the local client database
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Timeouts use timex.Duration, so values can be strings like "10s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "data_dir": ".vamazon",
//	  "log_level": "warn"
//	}
package config
