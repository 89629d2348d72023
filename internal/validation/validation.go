// Package validation binds request payloads and validates them.
//
// Rules live in `validate` struct tags (go-playground/validator) or in a
// payload's own Validate method. Failures are converted into a 400
// errs.HTTPError whose Errors list names each offending field.
package validation
