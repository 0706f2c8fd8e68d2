// Package errors provides structured error handling for the combat engine.
//
// This package provides:
//   - Structured errors with codes, messages, and metadata
//   - Error context preservation through wrapping
//   - Validation error helpers for dependency configs
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("encounter not found")
//	err := errors.InvalidArgumentf("unknown participant %q", id)
//
// Checking errors:
//
//	if errors.IsNotFound(err) {
//		// handle missing encounter
//	}
//
// The engine's domain operations only ever raise NotFound; InvalidArgument
// is reserved for nil inputs and invalid dependency configs, which are
// programmer errors rather than game state.
package errors
