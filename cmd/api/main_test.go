package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/config"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

func testConfig(redisAddr string) *appconfig.Config {
	return &appconfig.Config{
		Env:                 "test",
		OrchestrationAPIURL: "http://orchestration.invalid",
		UpstreamTimeout:     time.Second,
		UserTokenSecret:     "secret",
		RedisAddr:           redisAddr,
		JourneyTTL:          time.Minute,
		RateLimitRPS:        5,
		RateLimitBurst:      20,
		MinBookingDays:      2,
		MetricsEnabled:      true,
	}
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNewAppWithRedis(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	mr := miniredis.RunT(t)

	a, err := newApp(ctx, testConfig(mr.Addr()), logging.New("error"))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	rec := serve(t, a.Handler, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP","components":{"redis":"UP"}}`, rec.Body.String())

	rec = serve(t, a.Handler, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	// Journey routes are mounted behind staff auth.
	rec = serve(t, a.Handler, http.MethodPost, "/journeys")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	mr.Close()
	rec = serve(t, a.Handler, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewAppWithoutRedisOutsideDevelopment(t *testing.T) {
	cfg := testConfig("")
	cfg.MetricsEnabled = false

	a, err := newApp(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, serve(t, a.Handler, http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, a.Handler, http.MethodPost, "/journeys").Code)
}
