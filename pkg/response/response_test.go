package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestGetUserID(t *testing.T) {
	c, _ := newContext()
	_, err := GetUserID(c)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	c.Set(UserIDKey, "u1")
	id, err := GetUserID(c)
	assert.NoError(t, err)
	assert.Equal(t, "u1", id)
	assert.Equal(t, "u1", OptionalUserID(c))
}

func TestResponseError_HidesInternalErrors(t *testing.T) {
	c, w := newContext()
	ResponseError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestResponseError_ForbiddenKeepsMessage(t *testing.T) {
	c, w := newContext()
	ResponseError(c, apperror.Forbidden("you can only edit your own comment"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "your own comment")
}

func TestResponseError_RendersCleanMessage(t *testing.T) {
	c, w := newContext()
	ResponseError(c, fmt.Errorf("create channel: %w", apperror.BadRequest("user already has a channel")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"user already has a channel"}`, w.Body.String())
}

func TestResponseError_RateLimitSetsRetryAfter(t *testing.T) {
	c, w := newContext()
	ResponseError(c, &ratelimit.Error{Message: "wait", RetryAfter: 1500 * time.Millisecond})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
}
