// Package config loads codeguard configuration.
//
// Values are layered with koanf: embedded defaults, then the first project
// file found in the project root, then CODEGUARD_* environment variables.
// Rules start from the built-in set; project rules with a known id replace
// the built-in rule, others are appended. Category and per-rule overrides
// are applied last. The result is validated before any analysis starts.
package config
