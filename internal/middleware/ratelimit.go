// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RateLimiter throttles one endpoint group, such as login or the coach,
// with a sliding window per caller. Signed-in members are counted by user
// ID, anonymous callers by client IP.
type RateLimiter struct {
	name   string
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	callers map[string][]time.Time
	stopCh  chan struct{}
}

// NewRateLimiter allows limit requests per window for each caller. name
// appears in the 429 message and the log. A background goroutine drops
// idle callers until Stop is called.
func NewRateLimiter(name string, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		now:     time.Now,
		callers: make(map[string][]time.Time),
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(max(window, time.Minute))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.sweep()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background sweep.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Allow records a request for key. When the caller is over the limit it
// returns false and how long until the oldest request leaves the window.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	hits := rl.callers[key]
	live := hits[:0]
	for _, ts := range hits {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}

	if len(live) >= rl.limit {
		rl.callers[key] = live
		return false, live[0].Add(rl.window).Sub(now)
	}
	rl.callers[key] = append(live, now)
	return true, 0
}

// sweep forgets callers whose requests have all left the window.
func (rl *RateLimiter) sweep() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, hits := range rl.callers {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(rl.callers, key)
		}
	}
}

// Middleware answers 429 with a JSON error and a Retry-After header once
// the caller is over the limit. Must run after LoadSession.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := callerKey(r)
		ok, wait := rl.Allow(key)
		if !ok {
			secs := retryAfterSeconds(wait)
			slog.Warn("rate limit exceeded",
				"limiter", rl.name,
				"caller", key,
				"path", r.URL.Path,
				"request_id", chimw.GetReqID(r.Context()),
			)
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Too many %s requests. Try again in %d seconds.", rl.name, secs))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfterSeconds rounds wait up to whole seconds, at least one.
func retryAfterSeconds(wait time.Duration) int {
	secs := int((wait + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// callerKey identifies who a request counts against.
func callerKey(r *http.Request) string {
	if sess := SessionFromCtx(r.Context()); sess != nil {
		return "user:" + sess.UserID.String()
	}
	return "ip:" + clientIP(r)
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware
// has already rewritten RemoteAddr from X-Forwarded-For or X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
