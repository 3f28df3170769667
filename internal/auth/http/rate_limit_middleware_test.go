package http

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSubjectLimitedRouter mounts the per-subject limiter behind a middleware
// that binds the identity named by the X-Subject header, standing in for the
// authentication middleware and a login guard.
func newSubjectLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		ctx := WithIdentityCell(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		if raw := c.GetHeader("X-Subject"); raw != "" {
			subjectID, _ := strconv.ParseInt(raw, 10, 64)
			SetIdentity(ctx, &fakeIdentity{subjectID: subjectID})
		}
		c.Next()
	})
	router.POST("/write", SubjectRateLimitMiddleware(rps, burst, testLogger()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func postAsSubject(router *gin.Engine, subject string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	if subject != "" {
		req.Header.Set("X-Subject", subject)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestSubjectRateLimitMiddleware_BurstThenThrottle(t *testing.T) {
	router := newSubjectLimitedRouter(0.1, 2)

	for i := 0; i < 2; i++ {
		recorder := postAsSubject(router, "7")
		require.Equal(t, http.StatusNoContent, recorder.Code, "request %d should pass within burst", i+1)
	}

	recorder := postAsSubject(router, "7")
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("Retry-After"))
	assert.Contains(t, recorder.Body.String(), "rate_limit_exceeded")
}

func TestSubjectRateLimitMiddleware_SubjectsHaveIndependentBuckets(t *testing.T) {
	router := newSubjectLimitedRouter(0.1, 1)

	require.Equal(t, http.StatusNoContent, postAsSubject(router, "7").Code)
	require.Equal(t, http.StatusTooManyRequests, postAsSubject(router, "7").Code)

	// Another subject is unaffected by the first one's exhausted bucket.
	assert.Equal(t, http.StatusNoContent, postAsSubject(router, "8").Code)
}

func TestSubjectRateLimitMiddleware_RefusesAnonymous(t *testing.T) {
	router := newSubjectLimitedRouter(0.1, 2)

	recorder := postAsSubject(router, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
