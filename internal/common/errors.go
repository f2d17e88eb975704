// Package common defines sentinel errors shared by the store's repository,
// service and transport layers. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrValidation = errors.New("validation error")
	ErrInternal   = errors.New("internal error")
)
