// Package types defines the entity types, snapshot and classification
// helpers, backend configuration, and standard error types for Cadence.
//
// Records handed to the Scheduling Store are trusted: callers validate them
// (see internal/validate) before construction.
package types
