// Package service provides technical services for authentication operations.
//
// This package implements the stateless pieces of the authentication flow:
// signed bearer token issuance/verification and audit log signing. Stateful
// concerns (looking up the subject, resolving permissions) live in usecases.
package service

import (
	authDomain "github.com/allisson/forum/internal/auth/domain"
)

// TokenService defines operations for issuing and verifying signed bearer tokens.
// Tokens are self-contained: verification never touches storage, so a valid
// token for a since-deleted subject still verifies. Callers that need a live
// subject must resolve it after verification.
type TokenService interface {
	// Issue creates a signed token asserting control over the given subject.
	// The token carries the subject ID and an expiry derived from the
	// configured lifetime.
	Issue(subjectID int64) (string, error)

	// Verify checks the token signature and expiry and returns the subject ID
	// the token asserts.
	//
	// Returns errors.ErrExpiredCredential for a well-formed token past its
	// expiry and errors.ErrInvalidCredential for everything else (bad
	// signature, malformed structure, wrong algorithm, missing subject).
	// Expiry is only reported for tokens that pass signature verification;
	// a forged token never learns whether its expiry would have passed.
	Verify(token string) (int64, error)
}

// AuditSigner defines operations for tamper-evident audit log signing.
// Implementations must use HMAC-based signing with key derivation to
// separate signing keys from other secret usage.
type AuditSigner interface {
	// Sign generates a signature for the audit log content.
	Sign(secret []byte, log *authDomain.AuditLog) ([]byte, error)

	// Verify checks if the audit log signature is valid.
	// Returns nil if valid, domain.ErrSignatureInvalid if tampered.
	Verify(secret []byte, log *authDomain.AuditLog) error
}
