// Package errs define custom error types and utilities.
//
// Every error a handler returns ends up as one of these shapes on the wire,
// so clients always receive the same JSON envelope regardless of where the
// failure happened.
package errs
