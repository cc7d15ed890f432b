package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func doGet(h http.Handler, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestWrap_Order(t *testing.T) {
	var calls []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Wrap(okHandler(), mark("outer"), mark("inner"))
	doGet(h, nil)

	assert.Equal(t, []string{"outer", "inner"}, calls)
}

func TestRequestID_Generated(t *testing.T) {
	var inCtx string
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inCtx = RequestIDFromContext(r.Context())
	}), RequestID())

	w := doGet(h, nil)

	id := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	assert.Equal(t, id, inCtx)
}

func TestRequestID_Reused(t *testing.T) {
	h := Wrap(okHandler(), RequestID())

	w := doGet(h, func(r *http.Request) {
		r.Header.Set("X-Request-ID", "client-supplied-1")
	})
	assert.Equal(t, "client-supplied-1", w.Header().Get("X-Request-ID"))
}

func TestRequestID_InvalidReplaced(t *testing.T) {
	h := Wrap(okHandler(), RequestID())

	w := doGet(h, func(r *http.Request) {
		r.Header.Set("X-Request-ID", "bad\x01id")
	})
	assert.NotEqual(t, "bad\x01id", w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRecovery(t *testing.T) {
	h := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), Recovery())

	w := doGet(h, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORS_ActualRequest(t *testing.T) {
	h := Wrap(okHandler(), CORS(CORSConfig{AllowOrigins: []string{"https://store.example.com"}}))

	w := doGet(h, func(r *http.Request) {
		r.Header.Set("Origin", "https://store.example.com")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://store.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	h := Wrap(okHandler(), CORS(CORSConfig{AllowOrigins: []string{"https://store.example.com"}}))

	w := doGet(h, func(r *http.Request) {
		r.Header.Set("Origin", "https://evil.example.com")
	})
	// Request still served, but without CORS headers the browser blocks it.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	h := Wrap(okHandler(), CORS(CORSConfig{AllowOrigins: []string{"*"}, MaxAge: 86400}))

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://store.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_CredentialsEchoOrigin(t *testing.T) {
	h := Wrap(okHandler(), CORS(CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true}))

	w := doGet(h, func(r *http.Request) {
		r.Header.Set("Origin", "https://store.example.com")
	})
	// Wildcard is forbidden with credentials; the specific origin is echoed.
	assert.Equal(t, "https://store.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func keyed(key string) func(*http.Request) string {
	return func(*http.Request) string { return key }
}

func TestRateLimit_UnderLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := Wrap(okHandler(), RateLimit(ctx, RateLimitConfig{
		Max: 3, Window: time.Minute, KeyFunc: keyed("k"),
	}))

	for range 3 {
		w := doGet(h, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := Wrap(okHandler(), RateLimit(ctx, RateLimitConfig{
		Max: 2, Window: time.Minute, KeyFunc: keyed("k"),
	}))

	doGet(h, nil)
	doGet(h, nil)
	w := doGet(h, nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimit_SeparateKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := Wrap(okHandler(), RateLimit(ctx, RateLimitConfig{Max: 1, Window: time.Minute}))

	w1 := doGet(h, func(r *http.Request) { r.RemoteAddr = "10.0.0.1:1234" })
	w2 := doGet(h, func(r *http.Request) { r.RemoteAddr = "10.0.0.2:1234" })
	w3 := doGet(h, func(r *http.Request) { r.RemoteAddr = "10.0.0.1:9999" })

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code, "same IP, different port shares the budget")
}

func TestRateLimit_XForwardedFor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := Wrap(okHandler(), RateLimit(ctx, RateLimitConfig{Max: 1, Window: time.Minute}))

	w1 := doGet(h, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	})
	w2 := doGet(h, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "203.0.113.7")
	})

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}
