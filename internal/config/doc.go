// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. The initial till can be given in YAML as a
// list of value/quantity pairs or in flags and environment as "1x50,2x50".
package config
