package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/allisson/forum/internal/errors"
)

// signingMethods maps configuration names to HMAC signing methods.
// Only symmetric HMAC variants are supported; the secret is shared between
// issuance and verification inside the same deployment.
var signingMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// tokenService implements TokenService using JWT with HMAC signing.
type tokenService struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	expiration time.Duration
}

// NewTokenService creates a TokenService signing with the given HMAC algorithm
// (HS256, HS384 or HS512), shared secret, and token lifetime.
func NewTokenService(secret string, algorithm string, expiration time.Duration) (TokenService, error) {
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported token algorithm %q", algorithm)
	}
	if secret == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token secret must not be empty")
	}

	return &tokenService{
		secret:     []byte(secret),
		method:     method,
		expiration: expiration,
	}, nil
}

// Issue creates a signed token asserting control over the given subject.
func (t *tokenService) Issue(subjectID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expiration)),
	}

	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks the token signature and expiry and returns the asserted subject ID.
func (t *tokenService) Verify(token string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{t.method.Alg()}),
	)
	if err != nil {
		// A failed signature masks everything else: a forged token must not
		// learn whether its claimed expiry would have passed.
		if apperrors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return 0, apperrors.Wrap(apperrors.ErrInvalidCredential, "token signature verification failed")
		}
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.Wrap(apperrors.ErrExpiredCredential, "token expired")
		}
		return 0, apperrors.Wrap(apperrors.ErrInvalidCredential, err.Error())
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, apperrors.Wrap(apperrors.ErrInvalidCredential, "token carries no subject")
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInvalidCredential, "token subject is not a valid id")
	}

	return subjectID, nil
}
