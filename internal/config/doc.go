// Package config provides configuration for keva.
//
// This package defines the configuration structure and validation:
//
//   - spec.go: Config struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (required paths, value ranges)
//
// Configuration is loaded via internal/infra/confloader and supports
// files, environment variables (KEVA_ prefix), and flag overrides.
package config
