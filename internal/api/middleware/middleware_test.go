package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Logger(), Recovery())
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	rec := perform(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), common.ErrCodeInternalError)
}

func TestRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(requestid.New(requestid.WithGenerator(func() string { return "req-1" })), RequestContext())

	var got string
	r.GET("/id", func(c *gin.Context) {
		got = common.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	rec := perform(r, http.MethodGet, "/id", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "req-1", got)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(16))
	r.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	rec := perform(r, http.MethodPost, "/echo", `{"a":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = perform(r, http.MethodPost, "/echo", `{"ingredients":["a","b","c"]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), common.ErrCodeTooLarge)
}

func TestDeduplication(t *testing.T) {
	d := NewDeduplicator(time.Second)
	defer d.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	calls := 0
	r := gin.New()
	r.Use(d.Middleware())
	r.POST("/api/recipe", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		assert.Equal(t, `{"ingredients":["a"]}`, string(body))
		calls++
		c.Status(http.StatusOK)
	})
	r.GET("/api/catalog", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/api/recipe", `{"ingredients":["a"]}`).Code)

	rec := perform(r, http.MethodPost, "/api/recipe", `{"ingredients":["a"]}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), common.ErrCodeTooManyRequests)

	// 不同內容與 GET 不受影響
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/api/catalog", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/api/catalog", "").Code)

	now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/api/recipe", `{"ingredients":["a"]}`).Code)
	assert.Equal(t, 2, calls)

	now = now.Add(time.Minute)
	assert.Equal(t, 1, d.cleanup())
}

func TestMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retryAfter, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.InDelta(t, 30*time.Second, retryAfter, float64(time.Second))

	// 其他來源不受影響
	allowed, _, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, allowed)

	// 令牌隨時間補充
	now = now.Add(30 * time.Second)
	allowed, _, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, allowed)
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (s stubLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	return s.allowed, 1500 * time.Millisecond, s.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    stubLimiter
		wantStatus int
		wantRetry  string
	}{
		{name: "allowed", limiter: stubLimiter{allowed: true}, wantStatus: http.StatusOK},
		{name: "limited", limiter: stubLimiter{allowed: false}, wantStatus: http.StatusTooManyRequests, wantRetry: "2"},
		{name: "backend error fails open", limiter: stubLimiter{err: errors.New("redis down")}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RateLimit(tt.limiter))
			r.POST("/api/recipe", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			rec := perform(r, http.MethodPost, "/api/recipe", `{}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRetry, rec.Header().Get("Retry-After"))
		})
	}
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/prices/:ingredient", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/api/prices/x", "").Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodGet, "/nope", "").Code)
}
