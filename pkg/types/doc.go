// Package types defines the measurement records, revision record tables,
// metric definitions, configuration, and standard errors shared across the
// blendbench harness.
package types
