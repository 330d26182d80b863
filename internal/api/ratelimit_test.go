package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fixedQuota(limit int, per time.Duration) (*quota, *time.Time) {
	current := time.Unix(1_000_000, 0)
	q := &quota{
		callers: make(map[string]*callerWindow),
		limit:   limit,
		per:     per,
	}
	q.now = func() time.Time { return current }
	return q, &current
}

func TestQuotaWindowRollover(t *testing.T) {
	q, clock := fixedQuota(2, time.Minute)

	if !q.allow("a") || !q.allow("a") {
		t.Fatal("requests within the limit refused")
	}
	if q.allow("a") {
		t.Error("third request allowed in a two-request window")
	}
	if q.retryAfter("a") != 61 {
		t.Errorf("retryAfter = %d, want 61", q.retryAfter("a"))
	}

	*clock = clock.Add(time.Minute)
	if !q.allow("a") {
		t.Error("elapsed window did not roll over")
	}
}

func TestQuotaIsPerCaller(t *testing.T) {
	q, _ := fixedQuota(1, time.Minute)

	if !q.allow("a") {
		t.Fatal("first caller refused")
	}
	if q.allow("a") {
		t.Error("first caller allowed past its limit")
	}
	if !q.allow("b") {
		t.Error("second caller throttled by the first one's window")
	}
}

func TestQuotaSweepDropsIdleCallers(t *testing.T) {
	q, clock := fixedQuota(5, time.Minute)
	q.allow("a")
	q.allow("b")

	*clock = clock.Add(3 * time.Minute)
	q.sweep()

	if len(q.callers) != 0 {
		t.Errorf("callers after sweep = %d, want 0", len(q.callers))
	}
}

func TestCallerIDPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
	r.RemoteAddr = "10.0.0.1:4242"
	if got := callerID(r); got != "10.0.0.1" {
		t.Errorf("callerID = %q, want 10.0.0.1", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := callerID(r); got != "203.0.113.9" {
		t.Errorf("forwarded callerID = %q, want 203.0.113.9", got)
	}
}

func TestThrottledAnswersTooManyRequests(t *testing.T) {
	q, _ := fixedQuota(1, time.Minute)
	handler := throttled(q, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
	req.RemoteAddr = "10.0.0.1:4242"

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("throttled status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After")
	}
}
