// Package errs provides standardized error types for the freight service.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package covers the caller-visible failure taxonomy:
//   - ObjectNotFoundError: an object cannot be located by its identifier
//   - ActionIsForbiddenError: the actor lacks the role or ownership required
//   - StateIsInvalidError: a state machine guard rejected the operation
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError:
//     malformed or missing input, rejected before any state mutation
//   - VersionIsInvalidError: optimistic concurrency conflict on persistence
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// The HTTP layer maps these to status codes (404, 403, 409, 400) without
// inspecting message text.
package errs
