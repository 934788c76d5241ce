package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDGenerated(t *testing.T) {
	w := get(newRouter(RequestID()), nil)

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestIDReusesInbound(t *testing.T) {
	inbound := uuid.NewString()
	w := get(newRouter(RequestID()), http.Header{RequestIDHeader: {inbound}})
	assert.Equal(t, inbound, w.Header().Get(RequestIDHeader))

	w = get(newRouter(RequestID()), http.Header{RequestIDHeader: {"not-a-uuid\n"}})
	assert.NotEqual(t, "not-a-uuid\n", w.Header().Get(RequestIDHeader))
}

func TestRateLimitRejectsBurst(t *testing.T) {
	r := newRouter(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)

	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestCORSLoopbackOrigins(t *testing.T) {
	r := newRouter(CORS(DefaultCORSConfig()))

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost:1420", true},
		{"http://127.0.0.1:5173", true},
		{"http://[::1]:3000", true},
		{"tauri://localhost", true},
		{"https://evil.example", false},
		{"file://localhost", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			w := get(r, http.Header{"Origin": {tt.origin}})
			if tt.allowed {
				assert.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Equal(t, http.StatusForbidden, w.Code)
			}
		})
	}
}

func TestCORSExplicitOrigins(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowLoopback = false
	cfg.AllowOrigins = []string{"https://console.example"}
	r := newRouter(CORS(cfg))

	assert.Equal(t, http.StatusOK, get(r, http.Header{"Origin": {"https://console.example"}}).Code)
	assert.Equal(t, http.StatusForbidden, get(r, http.Header{"Origin": {"http://localhost:1420"}}).Code)
}

func TestAccessLogLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/broken"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
}
