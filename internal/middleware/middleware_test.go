package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/vidspace/pkg/metrics"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// headerStrategy trusts X-User as the identity.
type headerStrategy struct{}

func (headerStrategy) Name() string               { return "test" }
func (headerStrategy) RegisterRoutes(gin.IRouter) {}
func (headerStrategy) Login(*gin.Context)         {}
func (headerStrategy) Callback(*gin.Context)      {}
func (headerStrategy) Logout(*gin.Context)        {}
func (headerStrategy) ResolveIdentity(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User")
	return id, id != ""
}

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, response.OptionalUserID(c))
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := setupRouter(NewAuthMiddleware(headerStrategy{}).RequireAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("X-User", "u1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	r := setupRouter(NewAuthMiddleware(headerStrategy{}).OptionalAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ping", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		c.Status(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	out := buf.String()
	assert.Contains(t, out, `"message":"inside"`)
	assert.Contains(t, out, `"request_id":"req-42"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	r := setupRouter(RequestLogger(zerolog.Nop()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestMetricsMiddleware(t *testing.T) {
	r := setupRouter(Metrics(metrics.Default()))
	for _, path := range []string{"/who", "/missing"} {
		w := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		})
	}
}
