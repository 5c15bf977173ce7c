// Package paths provides path normalization helpers shared across the
// codebase. All pipeline paths are handled with forward slashes,
// regardless of platform, so that template patterns and parsed paths
// compare reliably.
package paths
