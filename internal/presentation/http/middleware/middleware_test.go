package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	infraRepo "github.com/sangkips/restaurant-billing/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-billing/internal/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	rl := NewClientRateLimiter(NewRateLimiterConfig(2, 60))
	defer rl.Close()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.Equal(t, 1, rl.Stats()["active_clients"])
}

func TestIdempotencyReplaysSuccessfulPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	log, _ := logtest.NewNullLogger()

	calls := 0
	r := gin.New()
	r.Use(Idempotency(IdempotencyConfig{Repo: infraRepo.NewIdempotencyRepository(db), Log: log}))
	r.POST("/orders", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	r.POST("/fail", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusUnprocessableEntity, gin.H{"call": calls})
	})

	send := func(path, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send("/orders", "abc")
	require.Equal(t, http.StatusCreated, first.Code)
	second := send("/orders", "abc")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, calls)

	send("/orders", "")
	assert.Equal(t, 2, calls, "requests without a key are never cached")

	send("/fail", "xyz")
	send("/fail", "xyz")
	assert.Equal(t, 4, calls, "failed responses are not stored")
}

func TestIdempotencyExpiredKeyIsReplaced(t *testing.T) {
	db := testutil.NewTestDB(t)
	log, _ := logtest.NewNullLogger()
	repo := infraRepo.NewIdempotencyRepository(db)

	require.NoError(t, repo.Create(context.Background(), &entity.IdempotencyKey{
		Key: "abc", Endpoint: "POST /orders", ResponseCode: http.StatusCreated, ResponseBody: `{"call":0}`,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}))

	calls := 0
	r := gin.New()
	r.Use(Idempotency(IdempotencyConfig{Repo: repo, Log: log}))
	r.POST("/orders", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send()
	assert.Empty(t, first.Header().Get("X-Idempotency-Replayed"))
	second := send()
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, `{"call":1}`, second.Body.String())
	assert.Equal(t, 1, calls)
}

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	r := gin.New()
	r.Use(LoggerMiddleware(log))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	requestID := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, requestID)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, requestID, entry.Data["request_id"])
	assert.Equal(t, http.StatusNoContent, entry.Data["status"])
}
