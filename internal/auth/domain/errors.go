package domain

import (
	"github.com/allisson/forum/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrSubjectNotFound indicates the subject asserted by a credential no longer exists.
	ErrSubjectNotFound = errors.Wrap(errors.ErrNotFound, "subject not found")

	// ErrSignatureInvalid indicates an audit log signature does not match its content.
	ErrSignatureInvalid = errors.Wrap(errors.ErrInvalidCredential, "audit log signature invalid")
)
