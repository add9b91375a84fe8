// Package errs provides the error types shared by the order pipeline.
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g., ErrObjectNotFound) usable with errors.Is
//   - a struct carrying the details (parameter name, identifier, cause)
//   - constructors with and without a cause
//   - Unwrap returning the sentinel
//
// Types:
//   - ObjectNotFoundError: lookup by identifier found nothing
//   - ObjectAlreadyExistsError: insert collided with an existing identifier
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value failed validation
//   - ValueIsOutOfRangeError: a value falls outside its permitted bounds
package errs
