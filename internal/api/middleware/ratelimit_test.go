package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/middleware"
)

func rateLimited(t *testing.T, perMin, burst int) http.Handler {
	t.Helper()
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	rl := middleware.NewRateLimiter(perMin, burst, stop)
	return rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func post(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterExhaustsBurst(t *testing.T) {
	h := rateLimited(t, 1, 3)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, post(h, "10.0.0.1:1234").Code)
	}

	rec := post(h, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "TOO_MANY_REQUESTS", env.Error.Code)
}

func TestRateLimiterIsPerClient(t *testing.T) {
	h := rateLimited(t, 1, 1)

	require.Equal(t, http.StatusOK, post(h, "10.0.0.1:1234").Code)
	require.Equal(t, http.StatusTooManyRequests, post(h, "10.0.0.1:5678").Code)

	// A different source address carries its own bucket.
	assert.Equal(t, http.StatusOK, post(h, "10.0.0.2:1234").Code)
}
