/* Copyright 2025 UAVLog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/uavlog/uavlog/pkg/server/log"
	"golang.org/x/time/rate"
)

const (
	// requestsPerSecond is the sustained per-client request rate
	requestsPerSecond = 50
	// requestBurst is how far above the sustained rate a client may spike
	requestBurst = 100
	// clientIdleTTL is how long an idle client's limiter is kept around
	clientIdleTTL = 3 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*client),
		lastSweep: time.Now(),
	}
}

var defaultLimiter = NewRateLimiter()

// limiterFor returns the limiter for the given client, creating one on
// first sight. Stale entries are swept opportunistically so no
// background goroutine is needed.
func (rl *RateLimiter) limiterFor(identifier string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > clientIdleTTL {
		for id, c := range rl.clients {
			if now.Sub(c.lastSeen) > clientIdleTTL {
				delete(rl.clients, id)
			}
		}
		rl.lastSweep = now
	}

	c, ok := rl.clients[identifier]
	if !ok {
		c = &client{
			limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		}
		rl.clients[identifier] = c
	}
	c.lastSeen = now

	return c.limiter
}

// clientIP identifies the caller, preferring proxy headers over the
// raw remote address.
func clientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}

// Limit wraps the handler with per-client throttling
func (rl *RateLimiter) Limit(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if !rl.limiterFor(ip).Allow() {
			log.WithFields(log.Fields{
				"ip": ip,
			}).Warn("Too many requests")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// ApplyLimit applies rate limit conditionally using the global limiter
func ApplyLimit(h http.HandlerFunc, rateLimit bool) http.Handler {
	if rateLimit && os.Getenv("APP_ENV") != "TEST" {
		return defaultLimiter.Limit(h)
	}

	return h
}
