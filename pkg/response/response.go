package response

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/ratelimit"
	"anoa.com/vidspace/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserIDKey is the gin context key holding the resolved identity.
const UserIDKey = "user_id"

// GetUserID returns the authenticated user id set by the auth middleware.
func GetUserID(c *gin.Context) (string, error) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		return "", apperror.ErrUnauthorized
	}
	return userID, nil
}

// OptionalUserID returns the user id or "" for anonymous requests.
func OptionalUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// ResponseError writes err with the status MapErrorToStatus picks.
// Internal errors are logged and hidden from the client.
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg("internal error")
		c.AbortWithStatusJSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	var limited *ratelimit.Error
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(limited.RetryAfter.Seconds()))))
	}
	c.AbortWithStatusJSON(code, gin.H{"error": apperror.Message(err)})
}

// BindError answers a failed ShouldBind* call with 400.
func BindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
