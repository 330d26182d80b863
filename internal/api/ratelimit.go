// Per-caller throttle for the news endpoint. The rest of the GET
// surface serves cheap aggregate reads; news is the one feed scrapers
// poll aggressively, so it gets a fixed request window per caller.
package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// quota is a fixed-window request counter keyed by caller.
type quota struct {
	mu      sync.Mutex
	callers map[string]*callerWindow
	limit   int           // requests allowed per window
	per     time.Duration // window length
	now     func() time.Time
}

type callerWindow struct {
	used    int
	started time.Time
}

// newQuota allows limit requests per caller in each window. A janitor
// goroutine drops callers idle for two full windows.
func newQuota(limit int, per time.Duration) *quota {
	q := &quota{
		callers: make(map[string]*callerWindow),
		limit:   limit,
		per:     per,
		now:     time.Now,
	}
	go func() {
		for {
			time.Sleep(per)
			q.sweep()
		}
	}()
	return q
}

// allow consumes one request from the caller's current window, starting
// a fresh window when the previous one has elapsed.
func (q *quota) allow(caller string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	w, ok := q.callers[caller]
	if !ok || now.Sub(w.started) >= q.per {
		q.callers[caller] = &callerWindow{used: 1, started: now}
		return true
	}
	if w.used < q.limit {
		w.used++
		return true
	}
	return false
}

// retryAfter returns whole seconds until the caller's window rolls
// over.
func (q *quota) retryAfter(caller string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	w, ok := q.callers[caller]
	if !ok {
		return 0
	}
	left := q.per - q.now().Sub(w.started)
	if left <= 0 {
		return 0
	}
	return int(left.Seconds()) + 1
}

func (q *quota) sweep() {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	for caller, w := range q.callers {
		if now.Sub(w.started) > 2*q.per {
			delete(q.callers, caller)
		}
	}
}

// callerID derives the throttle key for a request: the first hop of
// X-Forwarded-For when proxied, otherwise the remote host.
func callerID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// throttled wraps a handler with the quota, answering 429 with a
// Retry-After once a caller's window is spent.
func throttled(q *quota, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerID(r)
		if !q.allow(caller) {
			w.Header().Set("Retry-After", strconv.Itoa(q.retryAfter(caller)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
