// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. It resolves the grid layout, optimizer
// settings, and HTTP server options into one strongly typed Config.
package config
