// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including the candidate list, override and fallback addresses, probe and
// monitor settings, and the diagnostics server address. In production the
// deployment's fixed backend address is installed as an override, so discovery
// only ever runs in non-production environments.
package config
