// Package errors provides structured error types for the bridge.
//
// Errors are categorized by Phase (where in the bridge the error occurred)
// and Kind (error category). All failures that cross the engine boundary are
// absorbed by their callers and logged; these types exist so call sites can
// distinguish, for example, a ceiling refusal from a missing call target
// with errors.Is.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.Ceiling(current, limit)
//	err := errors.NotInitialized(errors.PhaseDispatch, "call target")
//	err := errors.IO(errors.PhaseRedirect, "create pipe", cause)
package errors
