package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/vidspace/internal/auth"
	"anoa.com/vidspace/internal/config"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/logger"
	"anoa.com/vidspace/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppEnv:           "test",
		Port:             "0",
		AllowedOrigins:   []string{"http://localhost:3000"},
		FrontendURL:      "http://localhost:3000",
		StorageBackend:   config.StorageMemory,
		SessionSecret:    "test-session-secret",
		JWTSecret:        "test-jwt-secret",
		JWTTTL:           time.Hour,
		RateLimitComment: time.Second,
		MaxUploadMB:      1,
	}
	store := memory.New()
	log := logger.Nop()

	strategy, err := auth.NewStrategy(cfg, store, log)
	require.NoError(t, err)

	return NewServer(cfg, Deps{
		Store:    store,
		Strategy: strategy,
		Sessions: auth.NewSessionStore(cfg.SessionSecret, nil, false),
		Metrics:  metrics.Default(),
		Log:      log,
	}).Handler()
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func signup(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	w := call(t, h, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[auth.AuthResponse](t, w).AccessToken
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)

	w := call(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "email", body["auth"])
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	h := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/user"},
		{http.MethodPost, "/api/channels"},
		{http.MethodGet, "/api/videos/subscriptions"},
		{http.MethodGet, "/api/history"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodPost, "/api/spaces"},
	} {
		w := call(t, h, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestUnknownVideoIs404(t *testing.T) {
	h := newTestServer(t)

	w := call(t, h, http.MethodGet, "/api/videos/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = call(t, h, http.MethodGet, "/api/videos/nope/likes", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatorFlow(t *testing.T) {
	h := newTestServer(t)
	token := signup(t, h, "creator@example.com")

	w := call(t, h, http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, h, http.MethodPost, "/api/channels", token, gin.H{"name": "Creator", "username": "Creator"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	channel := decode[map[string]any](t, w)
	assert.Equal(t, "creator", channel["username"])

	w = call(t, h, http.MethodPost, "/api/channels", token, gin.H{"name": "Second", "username": "second"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"user already has a channel"}`, w.Body.String())

	w = call(t, h, http.MethodPost, "/api/videos", token, gin.H{
		"title":     "First upload",
		"thumbnail": "https://img.example.com/1.jpg",
		"duration":  "3:21",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	videoID := decode[map[string]any](t, w)["id"].(string)

	w = call(t, h, http.MethodGet, "/api/videos", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	ch, ok := list[0]["channel"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Creator", ch["name"])

	viewer := signup(t, h, "viewer@example.com")
	w = call(t, h, http.MethodPost, "/api/videos/"+videoID+"/like", viewer, gin.H{"type": "like"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, h, http.MethodGet, "/api/videos/"+videoID+"/likes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	counts := decode[map[string]int64](t, w)
	assert.Equal(t, int64(1), counts["likes"])
	assert.Equal(t, int64(0), counts["dislikes"])

	w = call(t, h, http.MethodPost, "/api/videos/"+videoID+"/view", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[map[string]int64](t, w)["views"])

	w = call(t, h, http.MethodPost, "/api/videos/"+videoID+"/comments", viewer, gin.H{"content": "<b>nice</b> video"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "nice video", decode[map[string]any](t, w)["content"])

	w = call(t, h, http.MethodDelete, "/api/videos/"+videoID, viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = call(t, h, http.MethodDelete, "/api/videos/"+videoID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
