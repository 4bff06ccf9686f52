package handlers_test_suite

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	mw "github.com/rogerio-castellano/bizmanage/internal/http/middleware"
	rl "github.com/rogerio-castellano/bizmanage/internal/http/rate_limiter"
	"github.com/rogerio-castellano/bizmanage/internal/http/router"
)

func TestRateLimiterIgnoresForwardedHeaders(t *testing.T) {
	limiter := mw.NewRateLimiter(rl.NewVisitors(0.0001, 1), nil, zerolog.Nop())
	r := router.NewRouter(router.WithRateLimiter(limiter), router.WithLogger(zerolog.Nop()))

	var codes []int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString("{}"))
		req.RemoteAddr = "203.0.113.9:4444"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] == http.StatusTooManyRequests {
		t.Fatalf("expected the first request through, got codes %v", codes)
	}
	for i, code := range codes[1:] {
		if code != http.StatusTooManyRequests {
			t.Errorf("request %d: expected 429 from the same socket, got %d (codes %v)", i+2, code, codes)
		}
	}
}

func TestRateLimiterSeparatesSockets(t *testing.T) {
	limiter := mw.NewRateLimiter(rl.NewVisitors(0.0001, 1), nil, zerolog.Nop())
	r := router.NewRouter(router.WithRateLimiter(limiter), router.WithLogger(zerolog.Nop()))

	for _, addr := range []string{"203.0.113.10:1000", "203.0.113.11:1000"} {
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString("{}"))
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			t.Errorf("expected first request from %s through, got 429", addr)
		}
	}
}
