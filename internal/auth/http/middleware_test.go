package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/auth/permission"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
	userDomain "github.com/allisson/forum/internal/user/domain"
)

// MockAuthUseCase is a mock implementation of usecase.AuthUseCase.
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Authenticate(ctx context.Context, username, password string) (string, *userDomain.User, error) {
	args := m.Called(ctx, username, password)
	var user *userDomain.User
	if args.Get(1) != nil {
		user = args.Get(1).(*userDomain.User)
	}
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthUseCase) Identify(ctx context.Context, subjectID int64) (authDomain.Identity, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(authDomain.Identity), args.Error(1)
}

func (m *MockAuthUseCase) VerifyToken(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

// fakeIdentity is a test double for authDomain.Identity.
type fakeIdentity struct {
	subjectID int64
	admin     bool
	granted   map[permission.Descriptor]bool
	checkErr  error
}

func (f *fakeIdentity) SubjectID() int64 { return f.subjectID }
func (f *fakeIdentity) IsAdmin() bool    { return f.admin }

func (f *fakeIdentity) HasPermission(_ context.Context, descriptor permission.Descriptor) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.granted[descriptor], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// identityProbe reports the identity state the handler observed.
type identityProbe struct {
	Authenticated bool  `json:"authenticated"`
	SubjectID     int64 `json:"subject_id"`
}

func probeHandler(c *gin.Context) {
	probe := identityProbe{}
	if identity, ok := GetIdentity(c.Request.Context()); ok {
		probe.Authenticated = true
		probe.SubjectID = identity.SubjectID()
	}
	c.JSON(http.StatusOK, probe)
}

func setupAuthRouter(useCase *MockAuthUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := testLogger()

	postRead := permission.Descriptor{Module: "post", Name: "read", Info: "Read posts"}

	router := gin.New()
	router.Use(AuthenticationMiddleware(useCase, logger))
	router.GET("/open", probeHandler)
	router.GET("/private", RequireLogin(logger), probeHandler)
	router.GET("/admin", RequireAdmin(logger), probeHandler)
	router.GET("/guarded", RequirePermission(postRead, logger), probeHandler)
	router.POST("/logout", RequireLogin(logger), func(c *gin.Context) {
		ClearIdentity(c.Request.Context())
		probeHandler(c)
	})
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeProbe(t *testing.T, recorder *httptest.ResponseRecorder) identityProbe {
	t.Helper()
	var probe identityProbe
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &probe))
	return probe
}

func decodeErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_MissingHeaderIsAnonymous", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/open", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		probe := decodeProbe(t, recorder)
		assert.False(t, probe.Authenticated)
		useCase.AssertNotCalled(t, "VerifyToken", mock.Anything)
	})

	t.Run("Success_NonBearerSchemeIsAnonymous", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		router := setupAuthRouter(useCase)

		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.False(t, decodeProbe(t, recorder).Authenticated)
		useCase.AssertNotCalled(t, "VerifyToken", mock.Anything)
	})

	t.Run("Success_ValidTokenBindsIdentity", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		identity := &fakeIdentity{subjectID: 42}
		useCase.On("VerifyToken", "good-token").Return(int64(42), nil)
		useCase.On("Identify", mock.Anything, int64(42)).Return(identity, nil)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/open", "good-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
		probe := decodeProbe(t, recorder)
		assert.True(t, probe.Authenticated)
		assert.Equal(t, int64(42), probe.SubjectID)
	})

	t.Run("Error_InvalidTokenAbortsEvenOnOpenRoute", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		useCase.On("VerifyToken", "bad-token").Return(int64(0), apperrors.ErrInvalidCredential)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/open", "bad-token")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		response := decodeErrorResponse(t, recorder)
		assert.Equal(t, httputil.CodeInvalidCredential, response.ErrorCode)
	})

	t.Run("Error_ExpiredTokenKeepsDistinctCode", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		useCase.On("VerifyToken", "stale-token").Return(int64(0), apperrors.ErrExpiredCredential)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/open", "stale-token")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		response := decodeErrorResponse(t, recorder)
		assert.Equal(t, httputil.CodeExpiredCredential, response.ErrorCode)
	})

	t.Run("Success_DeletedSubjectDowngradesToAnonymous", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		useCase.On("VerifyToken", "orphan-token").Return(int64(99), nil)
		useCase.On("Identify", mock.Anything, int64(99)).Return(nil, authDomain.ErrSubjectNotFound)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/open", "orphan-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.False(t, decodeProbe(t, recorder).Authenticated)
	})

	t.Run("Error_SubjectResolutionFailureAborts", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		useCase.On("VerifyToken", "good-token").Return(int64(42), nil)
		useCase.On("Identify", mock.Anything, int64(42)).Return(nil, fmt.Errorf("database is down"))
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/open", "good-token")

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		response := decodeErrorResponse(t, recorder)
		assert.Equal(t, httputil.CodeInternal, response.ErrorCode)
	})

	t.Run("Success_ConcurrentRequestsKeepIsolatedIdentities", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		for i := int64(1); i <= 8; i++ {
			token := fmt.Sprintf("token-%d", i)
			useCase.On("VerifyToken", token).Return(i, nil)
			useCase.On("Identify", mock.Anything, i).Return(&fakeIdentity{subjectID: i}, nil)
		}
		router := setupAuthRouter(useCase)

		var wg sync.WaitGroup
		for i := int64(1); i <= 8; i++ {
			wg.Add(1)
			go func(subjectID int64) {
				defer wg.Done()
				recorder := doRequest(t, router, http.MethodGet, "/open", fmt.Sprintf("token-%d", subjectID))
				assert.Equal(t, http.StatusOK, recorder.Code)
				probe := decodeProbe(t, recorder)
				assert.True(t, probe.Authenticated)
				assert.Equal(t, subjectID, probe.SubjectID)
			}(i)
		}
		wg.Wait()
	})
}

func TestRequireLogin(t *testing.T) {
	t.Run("Success_AuthenticatedRequestPasses", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		useCase.On("VerifyToken", "good-token").Return(int64(42), nil)
		useCase.On("Identify", mock.Anything, int64(42)).Return(&fakeIdentity{subjectID: 42}, nil)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/private", "good-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Error_AnonymousRequestGets401", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/private", "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		response := decodeErrorResponse(t, recorder)
		assert.Equal(t, httputil.CodeUnauthorized, response.ErrorCode)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("Success_AdminPasses", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		useCase.On("VerifyToken", "admin-token").Return(int64(1), nil)
		useCase.On("Identify", mock.Anything, int64(1)).Return(&fakeIdentity{subjectID: 1, admin: true}, nil)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/admin", "admin-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Error_AnonymousGets401", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/admin", "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Error_NonAdminGets403", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		useCase.On("VerifyToken", "member-token").Return(int64(42), nil)
		useCase.On("Identify", mock.Anything, int64(42)).Return(&fakeIdentity{subjectID: 42}, nil)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/admin", "member-token")

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		response := decodeErrorResponse(t, recorder)
		assert.Equal(t, httputil.CodeForbidden, response.ErrorCode)
	})
}

func TestRequirePermission(t *testing.T) {
	postRead := permission.Descriptor{Module: "post", Name: "read", Info: "Read posts"}

	t.Run("Success_GrantedCapabilityPasses", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		identity := &fakeIdentity{
			subjectID: 42,
			granted:   map[permission.Descriptor]bool{postRead: true},
		}
		useCase.On("VerifyToken", "member-token").Return(int64(42), nil)
		useCase.On("Identify", mock.Anything, int64(42)).Return(identity, nil)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/guarded", "member-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Error_AnonymousGets401", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/guarded", "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Error_MissingCapabilityGets403", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		useCase.On("VerifyToken", "member-token").Return(int64(42), nil)
		useCase.On("Identify", mock.Anything, int64(42)).Return(&fakeIdentity{subjectID: 42}, nil)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/guarded", "member-token")

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("Error_GrantLookupFailureGets500", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		identity := &fakeIdentity{subjectID: 42, checkErr: fmt.Errorf("grant lookup failed")}
		useCase.On("VerifyToken", "member-token").Return(int64(42), nil)
		useCase.On("Identify", mock.Anything, int64(42)).Return(identity, nil)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodGet, "/guarded", "member-token")

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

func TestClearIdentityMidRequest(t *testing.T) {
	t.Run("Success_LogoutDropsIdentityForRestOfRequest", func(t *testing.T) {
		useCase := new(MockAuthUseCase)
		useCase.On("VerifyToken", "good-token").Return(int64(42), nil)
		useCase.On("Identify", mock.Anything, int64(42)).Return(&fakeIdentity{subjectID: 42}, nil)
		router := setupAuthRouter(useCase)

		recorder := doRequest(t, router, http.MethodPost, "/logout", "good-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.False(t, decodeProbe(t, recorder).Authenticated)
	})
}
