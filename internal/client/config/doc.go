// Package config loads runtime configuration for the skillshare client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by --config / -c.
//  3. Command-line flags that were set explicitly.
//
// Supported flags
//
//	-a, --api string        API base URL
//	    --cache string      path of the local session cache (SQLite)
//	    --timeout duration  per-request timeout, e.g. 15s
//	    --log-level string  debug | info | warn | error
//	    --log-format string text | json
//	-c, --config string     JSON config file
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or
// integer nanoseconds. Absent keys keep their earlier value:
//
//	{
//	  "api_base_url": "http://localhost:8081",
//	  "cache_path": "skillshare.db",
//	  "request_timeout": "15s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
