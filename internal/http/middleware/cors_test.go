package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsRequest(mw func(http.Handler) http.Handler, method, origin string, preflight bool) (*httptest.ResponseRecorder, bool) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(method, "/prisons/HEI/review", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	}
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)
	return rec, called
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	rec, called := corsRequest(CORS([]string{"https://visits.example"}), http.MethodGet, "https://visits.example", false)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://visits.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORSDeniesUnknownOrigin(t *testing.T) {
	rec, called := corsRequest(CORS([]string{"https://visits.example"}), http.MethodGet, "https://unknown.example", false)

	assert.True(t, called, "simple requests still reach the handler")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	rec, _ := corsRequest(CORS([]string{" * "}), http.MethodGet, "https://random.example", false)
	assert.Equal(t, "https://random.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	mw := CORS([]string{"https://visits.example"})

	rec, called := corsRequest(mw, http.MethodOptions, "https://visits.example", true)
	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, called = corsRequest(mw, http.MethodOptions, "https://unknown.example", true)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
