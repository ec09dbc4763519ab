// Package common holds the sentinel errors shared by the store, the
// permission policy and the service layer. Callers match them with errors.Is;
// producers wrap them with fmt.Errorf("%w: ...") to add detail.
package common

import "errors"

var (
	// ErrNotFound covers rows that are absent, soft-deleted, or filtered out
	// by ownership. The three cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the target exists but the actor lacks permission.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidReference means a foreign key points at a missing, deleted or
	// inaccessible entity.
	ErrInvalidReference = errors.New("invalid reference")

	ErrInvalidArgument     = errors.New("invalid argument")
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvalidCredentials is only produced by the login flow.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
