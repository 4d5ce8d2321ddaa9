// Package registry provides a small generic, thread-safe name registry.
// Matcher kinds register their factories here from init functions.
package registry
