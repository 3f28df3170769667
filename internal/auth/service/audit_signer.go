package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	authDomain "github.com/allisson/forum/internal/auth/domain"
)

type auditSigner struct{}

// NewAuditSigner creates a new HMAC-based audit log signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for signature generation.
func NewAuditSigner() AuditSigner {
	return &auditSigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// shared secret, separating signing key usage from token signing.
// Info parameter: "audit-log-signing-v1" (versioned for future algorithm changes).
func (a *auditSigner) deriveSigningKey(secret []byte) ([]byte, error) {
	info := []byte("audit-log-signing-v1")
	hash := sha256.New
	hkdf := hkdf.New(hash, secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizeLog converts audit log to canonical byte representation for signing.
// Format: request_id || user_id || username || path || method || message || metadata || created_at
// Uses length-prefixed encoding for variable-length fields to prevent ambiguity.
func (a *auditSigner) canonicalizeLog(log *authDomain.AuditLog) ([]byte, error) {
	buf := make([]byte, 0, 1024)

	buf = append(buf, log.RequestID[:]...)

	userBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(userBytes, uint64(log.UserID))
	buf = append(buf, userBytes...)

	buf = appendLengthPrefixed(buf, []byte(log.Username))
	buf = appendLengthPrefixed(buf, []byte(log.Path))
	buf = appendLengthPrefixed(buf, []byte(log.Method))
	buf = appendLengthPrefixed(buf, []byte(log.Message))

	if log.Metadata != nil {
		metadataBytes, err := json.Marshal(log.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(log.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Panics if data length exceeds uint32 max to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max (4GB)")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates HMAC-SHA256 signature for the audit log.
func (a *auditSigner) Sign(secret []byte, log *authDomain.AuditLog) ([]byte, error) {
	signingKey, err := a.deriveSigningKey(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer zero(signingKey)

	canonical, err := a.canonicalizeLog(log)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize log: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	signature := mac.Sum(nil)

	return signature, nil
}

// Verify checks if the audit log signature is valid.
func (a *auditSigner) Verify(secret []byte, log *authDomain.AuditLog) error {
	expectedSig, err := a.Sign(secret, log)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(log.Signature, expectedSig) {
		return authDomain.ErrSignatureInvalid
	}

	return nil
}

// zero overwrites sensitive data in memory with zeros.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
