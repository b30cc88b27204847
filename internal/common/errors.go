// Package common defines sentinel errors shared by the repository, service
// and transport layers of the users API. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Input errors (malformed filters, payloads, query strings).
	ErrorValidation = errors.New("validation error")

	// Service-level catch-all for unexpected failures.
	ErrorInternal = errors.New("internal error")
)
