// Package types defines the core types and interfaces shared across codeguard.
// This includes the FS interface every reader goes through, severities,
// violations and the aggregated Report consumed by the renderers.
package types
