package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/forum/internal/errors"
)

func TestNewTokenService(t *testing.T) {
	t.Run("Success_SupportedAlgorithms", func(t *testing.T) {
		for _, algorithm := range []string{"HS256", "HS384", "HS512"} {
			service, err := NewTokenService("test-secret", algorithm, time.Hour)
			require.NoError(t, err)
			assert.NotNil(t, service)
		}
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		service, err := NewTokenService("test-secret", "RS256", time.Hour)
		assert.Nil(t, service)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_EmptySecret", func(t *testing.T) {
		service, err := NewTokenService("", "HS256", time.Hour)
		assert.Nil(t, service)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	service, err := NewTokenService("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	t.Run("Success_RoundTrip", func(t *testing.T) {
		token, err := service.Issue(42)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		subjectID, err := service.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), subjectID)
	})

	t.Run("Success_TokenCarriesSubjectAndExpiry", func(t *testing.T) {
		token, err := service.Issue(7)
		require.NoError(t, err)

		// Decode without verification to inspect the claims directly.
		parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwt.RegisteredClaims{})
		require.NoError(t, err)

		claims := parsed.Claims.(*jwt.RegisteredClaims)
		assert.Equal(t, "7", claims.Subject)
		require.NotNil(t, claims.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
	})

	t.Run("Error_ExpiredToken", func(t *testing.T) {
		expiredService, err := NewTokenService("test-secret", "HS256", -time.Hour)
		require.NoError(t, err)

		token, err := expiredService.Issue(42)
		require.NoError(t, err)

		subjectID, verifyErr := service.Verify(token)
		assert.Zero(t, subjectID)
		assert.ErrorIs(t, verifyErr, apperrors.ErrExpiredCredential)
	})

	t.Run("Error_WrongSecret", func(t *testing.T) {
		otherService, err := NewTokenService("other-secret", "HS256", time.Hour)
		require.NoError(t, err)

		token, err := otherService.Issue(42)
		require.NoError(t, err)

		subjectID, verifyErr := service.Verify(token)
		assert.Zero(t, subjectID)
		assert.ErrorIs(t, verifyErr, apperrors.ErrInvalidCredential)
	})

	t.Run("Error_WrongSecretAndExpired_ReportsInvalidNotExpired", func(t *testing.T) {
		// A forged token must not learn whether its expiry would have passed.
		otherService, err := NewTokenService("other-secret", "HS256", -time.Hour)
		require.NoError(t, err)

		token, err := otherService.Issue(42)
		require.NoError(t, err)

		_, verifyErr := service.Verify(token)
		assert.ErrorIs(t, verifyErr, apperrors.ErrInvalidCredential)
		assert.NotErrorIs(t, verifyErr, apperrors.ErrExpiredCredential)
	})

	t.Run("Error_MalformedToken", func(t *testing.T) {
		subjectID, err := service.Verify("not-a-token")
		assert.Zero(t, subjectID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	})

	t.Run("Error_AlgorithmMismatch", func(t *testing.T) {
		hs512Service, err := NewTokenService("test-secret", "HS512", time.Hour)
		require.NoError(t, err)

		token, err := hs512Service.Issue(42)
		require.NoError(t, err)

		// Same secret, different algorithm: rejected, never verified.
		_, verifyErr := service.Verify(token)
		assert.ErrorIs(t, verifyErr, apperrors.ErrInvalidCredential)
	})

	t.Run("Error_NonNumericSubject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "not-a-number",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, verifyErr := service.Verify(token)
		assert.ErrorIs(t, verifyErr, apperrors.ErrInvalidCredential)
	})

	t.Run("Error_MissingSubject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, verifyErr := service.Verify(token)
		assert.ErrorIs(t, verifyErr, apperrors.ErrInvalidCredential)
	})
}
