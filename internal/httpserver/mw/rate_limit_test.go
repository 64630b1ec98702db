package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func rateLimited(cfg RateLimitConfig) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return RateLimit(cfg)(next)
}

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitBurstThenRejects(t *testing.T) {
	h := rateLimited(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 1})

	for i := 0; i < 2; i++ {
		if rec := doRequest(h, "10.0.0.1:1234"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusNoContent)
		}
	}

	rec := doRequest(h, "10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d after the burst is spent", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("rejection must carry Retry-After")
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want %q", got, "0")
	}
}

func TestRateLimitBucketsPerIP(t *testing.T) {
	h := rateLimited(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1})

	if rec := doRequest(h, "10.0.0.1:1234"); rec.Code != http.StatusNoContent {
		t.Fatalf("first ip: status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec := doRequest(h, "10.0.0.1:1234"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first ip exhausted: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// A different client keeps its own bucket.
	if rec := doRequest(h, "10.0.0.2:1234"); rec.Code != http.StatusNoContent {
		t.Errorf("second ip: status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
